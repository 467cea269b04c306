// Package service serves the merged country view: listing with search and
// pagination, single-country lookup, and the full set for exports. The
// merged list is cached with a TTL and invalidated on compliance refresh.
package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"mandatemap/internal/country"
	"mandatemap/internal/platform/metrics"
	"mandatemap/pkg/apierrors"
)

const mergedCacheKey = "countries:merged"

var tracer trace.Tracer = otel.Tracer("mandatemap/country")

// DataSource provides the raw datasets to merge.
type DataSource interface {
	Identities() []country.CountryIdentity
	Compliance() []country.ComplianceRecord
}

// ListQuery are the supported list filters.
type ListQuery struct {
	Search    string
	Continent string
	Page      int
	Limit     int
}

// DefaultLimit and MaxLimit bound list page sizes.
const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// Service merges and serves countries.
type Service struct {
	data    DataSource
	cache   *gocache.Cache
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New builds a Service. The cache is injected so its lifecycle is owned by
// main, not hidden module state; metrics may be nil in tests.
func New(data DataSource, cache *gocache.Cache, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{data: data, cache: cache, logger: logger, metrics: m}
}

// List returns one page of countries matching the query plus the total
// match count.
func (s *Service) List(ctx context.Context, q ListQuery) ([]country.Country, int, error) {
	ctx, span := tracer.Start(ctx, "country.List")
	defer span.End()

	all := s.merged(ctx)
	filtered := filter(all, q)
	span.SetAttributes(attribute.Int("countries.matched", len(filtered)))

	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	start := (page - 1) * limit
	if start >= len(filtered) {
		return []country.Country{}, len(filtered), nil
	}
	end := min(start+limit, len(filtered))

	if s.metrics != nil {
		s.metrics.CountriesServed.Inc()
	}
	return filtered[start:end], len(filtered), nil
}

// Get returns a single country by ISO3 code, case-insensitively.
func (s *Service) Get(ctx context.Context, code string) (*country.Country, error) {
	ctx, span := tracer.Start(ctx, "country.Get")
	defer span.End()

	want := strings.ToUpper(strings.TrimSpace(code))
	for _, c := range s.merged(ctx) {
		if c.ISOCode3 == want {
			return &c, nil
		}
	}
	return nil, apierrors.New(apierrors.CodeCountryNotFound, "country "+want+" not found")
}

// All returns the full merged list in display order, for exports.
func (s *Service) All(ctx context.Context) []country.Country {
	ctx, span := tracer.Start(ctx, "country.All")
	defer span.End()
	return s.merged(ctx)
}

// InvalidateCache drops the merged list so the next read re-merges.
// Called after a compliance refresh persists changes.
func (s *Service) InvalidateCache() {
	if s.cache != nil {
		s.cache.Delete(mergedCacheKey)
	}
}

func (s *Service) merged(ctx context.Context) []country.Country {
	if s.cache != nil {
		if cached, ok := s.cache.Get(mergedCacheKey); ok {
			if s.metrics != nil {
				s.metrics.CacheHits.Inc()
			}
			return cached.([]country.Country)
		}
	}
	if s.metrics != nil {
		s.metrics.CacheMisses.Inc()
	}

	countries := country.MergeCountries(s.data.Identities(), s.data.Compliance(), time.Now())
	s.logger.DebugContext(ctx, "merged country datasets", "countries", len(countries))
	if s.cache != nil {
		s.cache.SetDefault(mergedCacheKey, countries)
	}
	return countries
}

func filter(all []country.Country, q ListQuery) []country.Country {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	continent := strings.ToLower(strings.TrimSpace(q.Continent))
	if search == "" && continent == "" {
		return all
	}
	var out []country.Country
	for _, c := range all {
		if continent != "" && strings.ToLower(c.Continent) != continent {
			continue
		}
		if search != "" && !matches(c, search) {
			continue
		}
		out = append(out, c)
	}
	if out == nil {
		out = []country.Country{}
	}
	return out
}

func matches(c country.Country, search string) bool {
	return strings.Contains(strings.ToLower(c.Name), search) ||
		strings.Contains(strings.ToLower(c.ISOCode2), search) ||
		strings.Contains(strings.ToLower(c.ISOCode3), search)
}
