package ratelimit

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"mandatemap/internal/platform/middleware"
	"mandatemap/pkg/apierrors"
	"mandatemap/pkg/httputil"
)

// Middleware applies fixed-window limits per client IP. A store failure
// fails open: throttling is a courtesy, not a security boundary, and
// blocking reads because Redis is down would be worse than not throttling.
type Middleware struct {
	store    Store
	logger   *slog.Logger
	disabled bool
}

// Option configures the Middleware.
type Option func(*Middleware)

// WithDisabled turns limiting off entirely (tests, demo mode).
func WithDisabled(disabled bool) Option {
	return func(m *Middleware) { m.disabled = disabled }
}

func NewMiddleware(store Store, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{store: store, logger: logger}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Limit returns a chi-compatible middleware enforcing limit requests per
// window for the named action, keyed by action and client IP.
func (m *Middleware) Limit(action string, limit int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m.disabled {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			key := action + ":" + middleware.GetClientIP(ctx)

			result, err := m.store.Allow(ctx, key, limit, window)
			if err != nil {
				m.logger.ErrorContext(ctx, "rate limit check failed, allowing request",
					"action", action, "error", err)
				next.ServeHTTP(w, r)
				return
			}

			setRateLimitHeaders(w, result)
			if !result.Allowed {
				httputil.WriteError(w, apierrors.New(apierrors.CodeRateLimited,
					"rate limit exceeded for "+action+", retry after the window resets"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func setRateLimitHeaders(w http.ResponseWriter, result *Result) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
	if !result.Allowed {
		retryAfter := max(int(time.Until(result.ResetAt).Seconds()), 1)
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	}
}
