// Package service implements override CRUD and link resolution on top of a
// customlink.Store.
package service

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"mandatemap/internal/customlink"
	"mandatemap/internal/linkhealth"
	"mandatemap/internal/platform/audit"
	"mandatemap/pkg/apierrors"
)

// Store is the persistence surface the service needs.
type Store interface {
	Upsert(ctx context.Context, link customlink.CustomLink) (customlink.CustomLink, error)
	Delete(ctx context.Context, id string) (bool, error)
	ListByCountry(ctx context.Context, countryCode string) ([]customlink.CustomLink, error)
	Find(ctx context.Context, countryCode string, lt customlink.LinkType, originalURL string) (*customlink.CustomLink, error)
}

// Service validates, persists, and resolves custom link overrides.
type Service struct {
	store   Store
	logger  *slog.Logger
	auditor audit.Publisher
}

func New(store Store, logger *slog.Logger, auditor audit.Publisher) *Service {
	if auditor == nil {
		auditor = audit.Noop{}
	}
	return &Service{store: store, logger: logger, auditor: auditor}
}

// Create validates the request and upserts the override. An existing
// override for the same resolution key is replaced, never duplicated.
func (s *Service) Create(ctx context.Context, req customlink.CreateRequest) (*customlink.CustomLink, error) {
	details := map[string]string{}

	cc := strings.ToUpper(strings.TrimSpace(req.CountryCode))
	if cc == "" {
		details["countryCode"] = "countryCode is required"
	}
	lt, err := customlink.ParseLinkType(req.LinkType)
	if err != nil {
		details["linkType"] = "must be one of legislation, specification, news, standard"
	}
	if strings.TrimSpace(req.Title) == "" {
		details["title"] = "title is required"
	}
	if !isAbsoluteURL(req.CustomURL) {
		details["customUrl"] = "must be an absolute http(s) URL"
	}
	if len(details) > 0 {
		return nil, apierrors.New(apierrors.CodeValidation, "invalid custom link request").WithDetails(details)
	}

	link := customlink.CustomLink{
		ID:          uuid.NewString(),
		CountryCode: cc,
		LinkType:    lt,
		OriginalURL: req.OriginalURL,
		CustomURL:   req.CustomURL,
		Title:       strings.TrimSpace(req.Title),
		Notes:       strings.TrimSpace(req.Notes),
		CreatedAt:   time.Now().UTC(),
	}

	if linkhealth.Classify(link.CustomURL) == linkhealth.StatusNotFound {
		s.logger.WarnContext(ctx, "custom URL matches a known-broken domain",
			"country", cc, "custom_url", link.CustomURL)
	}

	saved, err := s.store.Upsert(ctx, link)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to save custom link",
			"country", cc, "link_type", string(lt), "error", err)
		return nil, apierrors.New(apierrors.CodeInternal, "failed to save custom link")
	}

	s.auditor.Emit(ctx, audit.Event{
		Action:  audit.ActionOverrideCreated,
		Subject: cc,
		Detail:  string(lt),
	})
	return &saved, nil
}

// Delete removes an override by id. Deleting an unknown id is not an error;
// the bool reports whether anything was removed.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	removed, err := s.store.Delete(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to delete custom link", "id", id, "error", err)
		return false, apierrors.New(apierrors.CodeInternal, "failed to delete custom link")
	}
	if removed {
		s.auditor.Emit(ctx, audit.Event{Action: audit.ActionOverrideDeleted, Subject: id})
	}
	return removed, nil
}

// ListByCountry returns all overrides for a country, case-insensitively.
func (s *Service) ListByCountry(ctx context.Context, countryCode string) ([]customlink.CustomLink, error) {
	links, err := s.store.ListByCountry(ctx, countryCode)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list custom links", "country", countryCode, "error", err)
		return nil, apierrors.New(apierrors.CodeInternal, "failed to list custom links")
	}
	if links == nil {
		links = []customlink.CustomLink{}
	}
	return links, nil
}

// Resolve reports whether an override should be served for the given link
// slot. Store failures degrade to "no override" rather than surfacing an
// error: serving the original link is always an acceptable fallback.
func (s *Service) Resolve(ctx context.Context, countryCode, originalURL string, lt customlink.LinkType) customlink.Resolution {
	link, err := s.store.Find(ctx, countryCode, lt, originalURL)
	if err != nil {
		if !apierrors.Is(err, apierrors.CodeNotFound) {
			s.logger.WarnContext(ctx, "custom link lookup failed, serving original",
				"country", countryCode, "link_type", string(lt), "error", err)
		} else if linkhealth.Classify(originalURL) == linkhealth.StatusNotFound {
			s.logger.InfoContext(ctx, "original URL is known broken and has no override",
				"country", countryCode, "link_type", string(lt), "original_url", originalURL)
		}
		return customlink.Resolution{HasCustomLink: false, CustomURL: nil, ShouldUseCustom: false}
	}
	return customlink.Resolution{
		HasCustomLink:   true,
		CustomURL:       &link.CustomURL,
		ShouldUseCustom: true,
	}
}

// BestURL returns the override URL when one applies, otherwise the original.
func (s *Service) BestURL(ctx context.Context, countryCode, originalURL string, lt customlink.LinkType) string {
	res := s.Resolve(ctx, countryCode, originalURL, lt)
	if res.ShouldUseCustom && res.CustomURL != nil {
		return *res.CustomURL
	}
	return originalURL
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
