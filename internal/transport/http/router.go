// Package httptransport assembles the HTTP surface: middleware chain,
// versioned API routes, health and metrics endpoints, and the remote
// shutdown hook.
package httptransport

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	complianceHandler "mandatemap/internal/compliance/handler"
	countryHandler "mandatemap/internal/country/handler"
	customcontentHandler "mandatemap/internal/customcontent/handler"
	customlinkHandler "mandatemap/internal/customlink/handler"
	"mandatemap/internal/platform/metrics"
	"mandatemap/internal/platform/middleware"
	"mandatemap/internal/ratelimit"
	"mandatemap/pkg/httputil"
)

const requestTimeout = 30 * time.Second

// Config carries everything the router needs.
type Config struct {
	Logger  *slog.Logger
	Metrics *metrics.Metrics

	Countries     countryHandler.Service
	Compliance    complianceHandler.Service
	CustomLinks   customlinkHandler.Service
	CustomContent customcontentHandler.Service

	Limiter    *ratelimit.Middleware
	RateLimit  int
	RateWindow time.Duration

	// Shutdown is invoked after the shutdown endpoint has responded.
	Shutdown func()
}

// New builds the full router.
func New(cfg Config) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Timeout(requestTimeout))
	if cfg.Metrics != nil {
		r.Use(latency(cfg.Metrics))
	}

	r.Get("/healthz", handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	limit := func(action string) func(http.Handler) http.Handler {
		if cfg.Limiter == nil {
			return nil
		}
		return cfg.Limiter.Limit(action, cfg.RateLimit, cfg.RateWindow)
	}

	r.Route("/api/v1", func(api chi.Router) {
		countryHandler.New(cfg.Countries, cfg.Logger, limit("export")).Register(api)
		complianceHandler.New(cfg.Compliance, cfg.Logger, limit("refresh")).Register(api)
		customlinkHandler.New(cfg.CustomLinks, cfg.Logger, limit("resolve")).Register(api)
		customcontentHandler.New(cfg.CustomContent, cfg.Logger).Register(api)

		api.Post("/shutdown", handleShutdown(cfg.Logger, cfg.Shutdown))
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteData(w, map[string]string{"status": "ok"})
}

// handleShutdown acknowledges the request first, then triggers the graceful
// stop so the caller gets a response before the listener closes.
func handleShutdown(logger *slog.Logger, shutdown func()) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger.InfoContext(r.Context(), "shutdown requested over HTTP",
			"request_id", middleware.GetRequestID(r.Context()),
		)
		httputil.WriteData(w, map[string]string{"status": "shutting down"})
		if shutdown != nil {
			shutdown()
		}
	}
}

// latency records request duration by matched route pattern and status.
func latency(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = "unmatched"
			}
			m.RequestDuration.
				WithLabelValues(route, strconv.Itoa(rec.status)).
				Observe(time.Since(start).Seconds())
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
