// Command server runs the e-invoicing compliance API: merged country data,
// custom link overrides, custom content submissions, and the compliance
// refresh, behind the versioned HTTP surface.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gocache "github.com/patrickmn/go-cache"

	complianceService "mandatemap/internal/compliance/service"
	countryService "mandatemap/internal/country/service"
	"mandatemap/internal/customcontent"
	"mandatemap/internal/customlink"
	linkService "mandatemap/internal/customlink/service"
	"mandatemap/internal/dataset"
	"mandatemap/internal/platform/audit"
	"mandatemap/internal/platform/config"
	"mandatemap/internal/platform/httpserver"
	"mandatemap/internal/platform/logger"
	"mandatemap/internal/platform/metrics"
	platformredis "mandatemap/internal/platform/redis"
	"mandatemap/internal/ratelimit"
	httptransport "mandatemap/internal/transport/http"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	data, err := dataset.Open(ctx, cfg.CountriesPath, cfg.CompliancePath)
	if err != nil {
		return err
	}
	defer closeWithTimeout(log, "dataset store", data.Close)

	keyMode := customlink.KeyMode(cfg.LinkKeyMode)
	linkStore, err := openLinkStore(ctx, cfg, keyMode, log)
	if err != nil {
		return err
	}
	defer closeWithTimeout(log, "custom link store", linkStore.Close)

	contentStore, err := customcontent.NewFileStore(cfg.CustomFormatsPath, cfg.CustomLegislationPath)
	if err != nil {
		return err
	}
	defer closeWithTimeout(log, "custom content store", contentStore.Close)

	auditor, err := buildAuditor(cfg, log)
	if err != nil {
		return err
	}
	defer closeWithTimeout(log, "audit publisher", auditor.Close)

	limiter, redisClient, err := buildLimiter(ctx, cfg, log)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	cache := gocache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	countries := countryService.New(data, cache, log, m)
	compliance := complianceService.New(data, countries, log, m, auditor)
	links := linkService.New(linkStore, log, auditor)
	content := customcontent.NewService(contentStore, log, auditor)

	shutdownRequested := make(chan struct{}, 1)
	router := httptransport.New(httptransport.Config{
		Logger:        log,
		Metrics:       m,
		Countries:     countries,
		Compliance:    compliance,
		CustomLinks:   links,
		CustomContent: content,
		Limiter:       limiter,
		RateLimit:     cfg.RateLimit,
		RateWindow:    cfg.RateLimitWindow,
		Shutdown: func() {
			select {
			case shutdownRequested <- struct{}{}:
			default:
			}
		},
	})

	srv := httpserver.New(cfg.Addr, router)
	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("signal received, shutting down")
	case <-shutdownRequested:
		log.Info("shutdown endpoint triggered, shutting down")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}

// openLinkStore selects the custom link backend: Postgres when DATABASE_URL
// is set, otherwise the JSON file store.
func openLinkStore(ctx context.Context, cfg config.Config, keyMode customlink.KeyMode, log *slog.Logger) (customlink.Store, error) {
	if cfg.DatabaseURL != "" {
		log.Info("using postgres custom link store")
		return customlink.NewPostgresStore(ctx, cfg.DatabaseURL, keyMode)
	}
	log.Info("using file custom link store", "path", cfg.CustomLinksPath)
	return customlink.NewFileStore(cfg.CustomLinksPath, keyMode, log)
}

func buildAuditor(cfg config.Config, log *slog.Logger) (audit.Publisher, error) {
	kafka, err := audit.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, log)
	if err != nil {
		return nil, err
	}
	if kafka == nil {
		return audit.Noop{}, nil
	}
	log.Info("audit events publishing to kafka", "topic", cfg.KafkaTopic)
	return kafka, nil
}

// buildLimiter prefers Redis when configured so limits hold across
// instances; otherwise the per-process memory store.
func buildLimiter(ctx context.Context, cfg config.Config, log *slog.Logger) (*ratelimit.Middleware, *platformredis.Client, error) {
	var store ratelimit.Store = ratelimit.NewInMemoryStore()

	redisClient, err := platformredis.New(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	if redisClient != nil {
		log.Info("rate limiting backed by redis")
		store = ratelimit.NewRedisStore(redisClient.Client)
	}

	limiter := ratelimit.NewMiddleware(store, log,
		ratelimit.WithDisabled(!cfg.RateLimitEnabled))
	return limiter, redisClient, nil
}

func closeWithTimeout(log *slog.Logger, name string, close func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := close(ctx); err != nil {
		log.Error("failed to close "+name, "error", err)
	}
}
