// Package handler exposes the country read endpoints: paginated listing
// with search, single-country lookup, and dataset export.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"mandatemap/internal/country"
	countryService "mandatemap/internal/country/service"
	"mandatemap/internal/platform/middleware"
	"mandatemap/pkg/apierrors"
	"mandatemap/pkg/httputil"
)

// Service defines the country operations the handler depends on.
type Service interface {
	List(ctx context.Context, q countryService.ListQuery) ([]country.Country, int, error)
	Get(ctx context.Context, code string) (*country.Country, error)
	All(ctx context.Context) []country.Country
}

// Handler handles country endpoints.
type Handler struct {
	countries   Service
	logger      *slog.Logger
	exportLimit func(http.Handler) http.Handler
}

// New creates a country Handler. exportLimit throttles the export route and
// may be nil.
func New(countries Service, logger *slog.Logger, exportLimit func(http.Handler) http.Handler) *Handler {
	return &Handler{countries: countries, logger: logger, exportLimit: exportLimit}
}

// Register mounts the country routes on the given router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/countries", h.handleList)
	if h.exportLimit != nil {
		r.With(h.exportLimit).Get("/countries/export", h.handleExport)
	} else {
		r.Get("/countries/export", h.handleExport)
	}
	r.Get("/countries/{countryId}", h.handleGet)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	q := countryService.ListQuery{
		Search:    r.URL.Query().Get("search"),
		Continent: r.URL.Query().Get("continent"),
	}

	var err error
	if q.Page, err = queryInt(r, "page", 1); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if q.Limit, err = queryInt(r, "limit", 0); err != nil {
		httputil.WriteError(w, err)
		return
	}

	countries, total, err := h.countries.List(ctx, q)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list countries",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	// Meta reports the effective limit, not the raw query value.
	limit := q.Limit
	if limit == 0 {
		limit = countryService.DefaultLimit
	}
	if limit > countryService.MaxLimit {
		limit = countryService.MaxLimit
	}
	httputil.WriteDataMeta(w, countries, httputil.PageMeta(total, q.Page, limit))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	code := chi.URLParam(r, "countryId")

	c, err := h.countries.Get(ctx, code)
	if err != nil {
		if !apierrors.Is(err, apierrors.CodeCountryNotFound) {
			h.logger.ErrorContext(ctx, "failed to get country",
				"request_id", middleware.GetRequestID(ctx),
				"country_code", code,
				"error", err.Error(),
			)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, c)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	countries := h.countries.All(ctx)
	stamp := time.Now().UTC().Format("2006-01-02")

	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="countries-`+stamp+`.csv"`)
		if err := country.WriteCSV(w, countries); err != nil {
			h.logger.ErrorContext(ctx, "csv export failed",
				"request_id", middleware.GetRequestID(ctx),
				"error", err.Error(),
			)
		}
	case "json":
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="countries-`+stamp+`.json"`)
		if err := country.WriteJSON(w, countries); err != nil {
			h.logger.ErrorContext(ctx, "json export failed",
				"request_id", middleware.GetRequestID(ctx),
				"error", err.Error(),
			)
		}
	default:
		httputil.WriteError(w, apierrors.New(apierrors.CodeValidation, "unsupported export format").
			WithDetails(map[string]string{"format": "must be csv or json"}))
	}
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, apierrors.New(apierrors.CodeValidation, "invalid query parameter").
			WithDetails(map[string]string{name: "must be a positive integer"})
	}
	return v, nil
}
