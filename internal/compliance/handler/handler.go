// Package handler exposes the compliance refresh endpoint.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	complianceService "mandatemap/internal/compliance/service"
	"mandatemap/internal/platform/middleware"
	"mandatemap/pkg/httputil"
)

// Service defines the refresh operation the handler depends on.
type Service interface {
	Refresh(ctx context.Context) (*complianceService.Summary, error)
}

// Handler handles compliance endpoints.
type Handler struct {
	compliance   Service
	logger       *slog.Logger
	refreshLimit func(http.Handler) http.Handler
}

// New creates a compliance Handler. refreshLimit throttles the refresh route
// and may be nil.
func New(compliance Service, logger *slog.Logger, refreshLimit func(http.Handler) http.Handler) *Handler {
	return &Handler{compliance: compliance, logger: logger, refreshLimit: refreshLimit}
}

// Register mounts the compliance routes on the given router.
func (h *Handler) Register(r chi.Router) {
	if h.refreshLimit != nil {
		r.With(h.refreshLimit).Post("/compliance/refresh", h.handleRefresh)
	} else {
		r.Post("/compliance/refresh", h.handleRefresh)
	}
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	summary, err := h.compliance.Refresh(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "compliance refresh failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, summary)
}
