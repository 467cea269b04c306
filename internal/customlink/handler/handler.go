// Package handler exposes custom link CRUD and resolution over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"mandatemap/internal/customlink"
	"mandatemap/internal/platform/middleware"
	"mandatemap/pkg/apierrors"
	"mandatemap/pkg/httputil"
)

// Service defines the custom link operations the handler depends on.
type Service interface {
	Create(ctx context.Context, req customlink.CreateRequest) (*customlink.CustomLink, error)
	Delete(ctx context.Context, id string) (bool, error)
	ListByCountry(ctx context.Context, countryCode string) ([]customlink.CustomLink, error)
	Resolve(ctx context.Context, countryCode, originalURL string, lt customlink.LinkType) customlink.Resolution
}

// ResolveRequest is the payload for a resolution lookup.
type ResolveRequest struct {
	CountryCode string `json:"countryCode"`
	LinkType    string `json:"linkType"`
	OriginalURL string `json:"originalUrl"`
}

// Handler handles custom link endpoints.
type Handler struct {
	links        Service
	logger       *slog.Logger
	resolveLimit func(http.Handler) http.Handler
}

// New creates a custom link Handler. resolveLimit throttles the resolve
// route and may be nil.
func New(links Service, logger *slog.Logger, resolveLimit func(http.Handler) http.Handler) *Handler {
	return &Handler{links: links, logger: logger, resolveLimit: resolveLimit}
}

// Register mounts the custom link routes on the given router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/custom-links", h.handleList)
	r.Post("/custom-links", h.handleCreate)
	r.Delete("/custom-links/{id}", h.handleDelete)
	if h.resolveLimit != nil {
		r.With(h.resolveLimit).Post("/custom-links/resolve", h.handleResolve)
	} else {
		r.Post("/custom-links/resolve", h.handleResolve)
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	countryCode := r.URL.Query().Get("countryCode")
	if countryCode == "" {
		httputil.WriteError(w, apierrors.New(apierrors.CodeValidation, "countryCode query parameter is required").
			WithDetails(map[string]string{"countryCode": "countryCode is required"}))
		return
	}

	links, err := h.links.ListByCountry(ctx, countryCode)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list custom links",
			"request_id", middleware.GetRequestID(ctx),
			"country_code", countryCode,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, links)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req customlink.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, apierrors.New(apierrors.CodeValidation, "invalid request body"))
		return
	}

	link, err := h.links.Create(ctx, req)
	if err != nil {
		if !apierrors.Is(err, apierrors.CodeValidation) {
			h.logger.ErrorContext(ctx, "failed to create custom link",
				"request_id", middleware.GetRequestID(ctx),
				"error", err.Error(),
			)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteCreated(w, link)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	removed, err := h.links.Delete(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to delete custom link",
			"request_id", middleware.GetRequestID(ctx),
			"id", id,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, map[string]bool{"deleted": removed})
}

func (h *Handler) handleResolve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, apierrors.New(apierrors.CodeValidation, "invalid request body"))
		return
	}
	if req.CountryCode == "" {
		httputil.WriteError(w, apierrors.New(apierrors.CodeValidation, "invalid resolve request").
			WithDetails(map[string]string{"countryCode": "countryCode is required"}))
		return
	}
	lt, err := customlink.ParseLinkType(req.LinkType)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	res := h.links.Resolve(ctx, req.CountryCode, req.OriginalURL, lt)
	httputil.WriteData(w, res)
}
