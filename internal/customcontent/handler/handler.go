// Package handler exposes custom content submissions over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"mandatemap/internal/customcontent"
	"mandatemap/internal/platform/middleware"
	"mandatemap/pkg/apierrors"
	"mandatemap/pkg/httputil"
)

// Service defines the submission operations the handler depends on.
type Service interface {
	SubmitFormat(ctx context.Context, req customcontent.FormatRequest) (*customcontent.CustomFormat, error)
	SubmitLegislation(ctx context.Context, req customcontent.LegislationRequest) (*customcontent.CustomLegislation, error)
	ListFormats(ctx context.Context) ([]customcontent.CustomFormat, error)
	ListLegislation(ctx context.Context) ([]customcontent.CustomLegislation, error)
}

// Handler handles custom content endpoints.
type Handler struct {
	content Service
	logger  *slog.Logger
}

// New creates a custom content Handler.
func New(content Service, logger *slog.Logger) *Handler {
	return &Handler{content: content, logger: logger}
}

// Register mounts the custom content routes on the given router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/custom-content/formats", h.handleListFormats)
	r.Post("/custom-content/formats", h.handleSubmitFormat)
	r.Get("/custom-content/legislation", h.handleListLegislation)
	r.Post("/custom-content/legislation", h.handleSubmitLegislation)
}

func (h *Handler) handleListFormats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	formats, err := h.content.ListFormats(ctx)
	if err != nil {
		h.logError(ctx, "failed to list custom formats", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, formats)
}

func (h *Handler) handleSubmitFormat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req customcontent.FormatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, apierrors.New(apierrors.CodeValidation, "invalid request body"))
		return
	}

	format, err := h.content.SubmitFormat(ctx, req)
	if err != nil {
		if !apierrors.Is(err, apierrors.CodeValidation) {
			h.logError(ctx, "failed to submit custom format", err)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteCreated(w, format)
}

func (h *Handler) handleListLegislation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	legislation, err := h.content.ListLegislation(ctx)
	if err != nil {
		h.logError(ctx, "failed to list custom legislation", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, legislation)
}

func (h *Handler) handleSubmitLegislation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req customcontent.LegislationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, apierrors.New(apierrors.CodeValidation, "invalid request body"))
		return
	}

	leg, err := h.content.SubmitLegislation(ctx, req)
	if err != nil {
		if !apierrors.Is(err, apierrors.CodeValidation) {
			h.logError(ctx, "failed to submit custom legislation", err)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteCreated(w, leg)
}

func (h *Handler) logError(ctx context.Context, msg string, err error) {
	h.logger.ErrorContext(ctx, msg,
		"request_id", middleware.GetRequestID(ctx),
		"error", err.Error(),
	)
}
