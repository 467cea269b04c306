package customcontent

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"mandatemap/internal/platform/audit"
	"mandatemap/pkg/apierrors"
)

// Store is the persistence surface the service needs.
type Store interface {
	AppendFormat(ctx context.Context, format CustomFormat) error
	AppendLegislation(ctx context.Context, leg CustomLegislation) error
	ListFormats(ctx context.Context) ([]CustomFormat, error)
	ListLegislation(ctx context.Context) ([]CustomLegislation, error)
}

// Service validates and records submissions. Every accepted submission is
// immediately approved.
type Service struct {
	store   Store
	logger  *slog.Logger
	auditor audit.Publisher
}

func NewService(store Store, logger *slog.Logger, auditor audit.Publisher) *Service {
	if auditor == nil {
		auditor = audit.Noop{}
	}
	return &Service{store: store, logger: logger, auditor: auditor}
}

// SubmitFormat validates and stores a format submission.
func (s *Service) SubmitFormat(ctx context.Context, req FormatRequest) (*CustomFormat, error) {
	if err := validateSubmission(req.CountryCode, req.Name, req.URL); err != nil {
		return nil, err
	}
	format := CustomFormat{
		ID:          uuid.NewString(),
		CountryCode: strings.ToUpper(strings.TrimSpace(req.CountryCode)),
		Name:        strings.TrimSpace(req.Name),
		URL:         req.URL,
		Authority:   strings.TrimSpace(req.Authority),
		Type:        strings.TrimSpace(req.Type),
		Status:      StatusApproved,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.AppendFormat(ctx, format); err != nil {
		s.logger.ErrorContext(ctx, "failed to store format submission", "country", format.CountryCode, "error", err)
		return nil, apierrors.New(apierrors.CodeInternal, "failed to store submission")
	}
	s.auditor.Emit(ctx, audit.Event{Action: audit.ActionContentSubmitted, Subject: format.CountryCode, Detail: "format"})
	return &format, nil
}

// SubmitLegislation validates and stores a legislation submission.
func (s *Service) SubmitLegislation(ctx context.Context, req LegislationRequest) (*CustomLegislation, error) {
	if err := validateSubmission(req.CountryCode, req.Name, req.URL); err != nil {
		return nil, err
	}
	leg := CustomLegislation{
		ID:           uuid.NewString(),
		CountryCode:  strings.ToUpper(strings.TrimSpace(req.CountryCode)),
		Name:         strings.TrimSpace(req.Name),
		URL:          req.URL,
		Jurisdiction: strings.TrimSpace(req.Jurisdiction),
		Type:         strings.TrimSpace(req.Type),
		Status:       StatusApproved,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.AppendLegislation(ctx, leg); err != nil {
		s.logger.ErrorContext(ctx, "failed to store legislation submission", "country", leg.CountryCode, "error", err)
		return nil, apierrors.New(apierrors.CodeInternal, "failed to store submission")
	}
	s.auditor.Emit(ctx, audit.Event{Action: audit.ActionContentSubmitted, Subject: leg.CountryCode, Detail: "legislation"})
	return &leg, nil
}

// ListFormats returns all format submissions.
func (s *Service) ListFormats(ctx context.Context) ([]CustomFormat, error) {
	formats, err := s.store.ListFormats(ctx)
	if err != nil {
		return nil, apierrors.New(apierrors.CodeInternal, "failed to list formats")
	}
	if formats == nil {
		formats = []CustomFormat{}
	}
	return formats, nil
}

// ListLegislation returns all legislation submissions.
func (s *Service) ListLegislation(ctx context.Context) ([]CustomLegislation, error) {
	legislation, err := s.store.ListLegislation(ctx)
	if err != nil {
		return nil, apierrors.New(apierrors.CodeInternal, "failed to list legislation")
	}
	if legislation == nil {
		legislation = []CustomLegislation{}
	}
	return legislation, nil
}

func validateSubmission(countryCode, name, rawURL string) error {
	details := map[string]string{}
	if strings.TrimSpace(countryCode) == "" {
		details["countryCode"] = "countryCode is required"
	}
	if strings.TrimSpace(name) == "" {
		details["name"] = "name is required"
	}
	if rawURL != "" {
		u, err := url.Parse(rawURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			details["url"] = "must be an absolute http(s) URL when provided"
		}
	}
	if len(details) > 0 {
		return apierrors.New(apierrors.CodeValidation, "invalid submission").WithDetails(details)
	}
	return nil
}
