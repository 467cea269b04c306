// Package service runs the compliance refresh: it applies the default rule
// tables across the dataset, persists changed records, and invalidates the
// merged country cache.
package service

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"mandatemap/internal/compliance"
	"mandatemap/internal/country"
	"mandatemap/internal/platform/audit"
	"mandatemap/internal/platform/metrics"
	"mandatemap/pkg/apierrors"
)

// DataStore is the dataset surface the refresh needs.
type DataStore interface {
	Identities() []country.CountryIdentity
	Compliance() []country.ComplianceRecord
	SaveCompliance(ctx context.Context, records []country.ComplianceRecord) error
}

// CacheInvalidator drops the merged country cache after a refresh persists.
type CacheInvalidator interface {
	InvalidateCache()
}

// Summary reports what a refresh changed.
type Summary struct {
	CountriesUpdated int      `json:"countriesUpdated"`
	ChannelsChanged  int      `json:"channelsChanged"`
	UpdatedCountries []string `json:"updatedCountries"`
	RefreshedAt      string   `json:"refreshedAt"`
}

// Service applies the default compliance rules across the dataset.
type Service struct {
	data        DataStore
	invalidator CacheInvalidator
	logger      *slog.Logger
	metrics     *metrics.Metrics
	auditor     audit.Publisher
	now         func() time.Time
}

// New builds the refresh service. auditor may be nil; metrics may be nil in
// tests.
func New(data DataStore, invalidator CacheInvalidator, logger *slog.Logger, m *metrics.Metrics, auditor audit.Publisher) *Service {
	if auditor == nil {
		auditor = audit.Noop{}
	}
	return &Service{
		data:        data,
		invalidator: invalidator,
		logger:      logger,
		metrics:     m,
		auditor:     auditor,
		now:         time.Now,
	}
}

// Refresh applies the rule tables to every country. Existing records are
// updated in place; countries with an identity but no compliance record get
// a fresh record when a rule claims at least one of their channels. Nothing
// is persisted when no channel changed.
func (s *Service) Refresh(ctx context.Context) (*Summary, error) {
	now := s.now()
	existing := s.data.Compliance()

	records := make([]country.ComplianceRecord, 0, len(existing))
	seenCode := make(map[string]bool, len(existing))
	seenName := make(map[string]bool, len(existing))

	summary := &Summary{
		UpdatedCountries: []string{},
		RefreshedAt:      now.UTC().Format(time.RFC3339),
	}

	for _, rec := range existing {
		updated, changed := compliance.ApplyDefaultComplianceRules(rec, now)
		if changed {
			s.recordChange(summary, rec, updated)
		}
		records = append(records, updated)
		if rec.ISOCode3 != "" {
			seenCode[strings.ToUpper(rec.ISOCode3)] = true
		}
		if rec.Name != "" {
			seenName[strings.ToLower(rec.Name)] = true
		}
	}

	for _, id := range s.data.Identities() {
		if seenCode[strings.ToUpper(id.ISOCode3)] || seenName[strings.ToLower(id.Name)] {
			continue
		}
		fresh := country.ComplianceRecord{ISOCode3: strings.ToUpper(id.ISOCode3)}
		updated, changed := compliance.ApplyDefaultComplianceRules(fresh, now)
		if !changed {
			continue
		}
		s.recordChange(summary, fresh, updated)
		records = append(records, updated)
	}

	if summary.CountriesUpdated == 0 {
		s.logger.InfoContext(ctx, "compliance refresh found nothing to change")
		return summary, nil
	}

	if err := s.data.SaveCompliance(ctx, records); err != nil {
		s.logger.ErrorContext(ctx, "failed to persist refreshed compliance records",
			"countries_updated", summary.CountriesUpdated, "error", err)
		return nil, apierrors.New(apierrors.CodeInternal, "failed to persist compliance refresh")
	}
	s.invalidator.InvalidateCache()

	if s.metrics != nil {
		s.metrics.RefreshesApplied.Inc()
		s.metrics.ChannelsDefaulted.Add(float64(summary.ChannelsChanged))
	}
	s.auditor.Emit(ctx, audit.Event{
		Action:  audit.ActionRefreshApplied,
		Subject: "compliance",
		Detail:  strconv.Itoa(summary.CountriesUpdated) + " countries updated",
	})

	s.logger.InfoContext(ctx, "compliance refresh applied",
		"countries_updated", summary.CountriesUpdated,
		"channels_changed", summary.ChannelsChanged,
	)
	return summary, nil
}

func (s *Service) recordChange(summary *Summary, before, after country.ComplianceRecord) {
	summary.CountriesUpdated++
	summary.UpdatedCountries = append(summary.UpdatedCountries, after.ISOCode3)
	summary.ChannelsChanged += channelsChanged(before, after)
}

func channelsChanged(before, after country.ComplianceRecord) int {
	n := 0
	if before.B2G.Status != after.B2G.Status {
		n++
	}
	if before.B2B.Status != after.B2B.Status {
		n++
	}
	if before.B2C.Status != after.B2C.Status {
		n++
	}
	return n
}
