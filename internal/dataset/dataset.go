// Package dataset owns the two JSON files the whole system is built on:
// the static country identity list and the compliance records. Reads are
// served from memory; compliance updates are serialized through a single
// writer and written atomically so concurrent refreshes cannot corrupt or
// half-apply the file.
package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"mandatemap/internal/country"
)

// Store loads and serves the datasets.
type Store struct {
	countriesPath  string
	compliancePath string

	mu         sync.RWMutex
	identities []country.CountryIdentity
	compliance []country.ComplianceRecord

	jobs      chan datasetJob
	done      chan struct{}
	closeOnce sync.Once
}

type datasetJob struct {
	apply func() error
	reply chan error
}

// Open reads both files concurrently and starts the writer goroutine. A
// missing compliance file starts empty (the merge defaults cover it); a
// missing countries file is an error, since without identities there is
// nothing to serve.
func Open(ctx context.Context, countriesPath, compliancePath string) (*Store, error) {
	s := &Store{
		countriesPath:  countriesPath,
		compliancePath: compliancePath,
		jobs:           make(chan datasetJob),
		done:           make(chan struct{}),
	}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		data, err := os.ReadFile(countriesPath)
		if err != nil {
			return fmt.Errorf("read countries dataset: %w", err)
		}
		if err := json.Unmarshal(data, &s.identities); err != nil {
			return fmt.Errorf("parse countries dataset: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		data, err := os.ReadFile(compliancePath)
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return fmt.Errorf("read compliance dataset: %w", err)
		}
		if err := json.Unmarshal(data, &s.compliance); err != nil {
			return fmt.Errorf("parse compliance dataset: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	go s.writer()
	return s, nil
}

func (s *Store) writer() {
	for job := range s.jobs {
		job.reply <- job.apply()
	}
	close(s.done)
}

// Identities returns a copy of the country identity records.
func (s *Store) Identities() []country.CountryIdentity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]country.CountryIdentity(nil), s.identities...)
}

// Compliance returns a copy of the compliance records.
func (s *Store) Compliance() []country.ComplianceRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]country.ComplianceRecord(nil), s.compliance...)
}

// SaveCompliance replaces the compliance records and persists them. The
// write happens on the writer goroutine via temp file + rename.
func (s *Store) SaveCompliance(ctx context.Context, records []country.ComplianceRecord) error {
	snapshot := append([]country.ComplianceRecord(nil), records...)
	job := datasetJob{reply: make(chan error, 1)}
	job.apply = func() error {
		data, err := json.MarshalIndent(snapshot, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal compliance dataset: %w", err)
		}
		tmp, err := os.CreateTemp(filepath.Dir(s.compliancePath), ".compliance-*.json")
		if err != nil {
			return fmt.Errorf("create temp file: %w", err)
		}
		if _, err := tmp.Write(data); err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
			return fmt.Errorf("write temp file: %w", err)
		}
		if err := tmp.Close(); err != nil {
			os.Remove(tmp.Name())
			return fmt.Errorf("close temp file: %w", err)
		}
		if err := os.Rename(tmp.Name(), s.compliancePath); err != nil {
			os.Remove(tmp.Name())
			return fmt.Errorf("replace compliance dataset: %w", err)
		}
		s.mu.Lock()
		s.compliance = snapshot
		s.mu.Unlock()
		return nil
	}

	select {
	case s.jobs <- job:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-job.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the writer after queued writes drain.
func (s *Store) Close(ctx context.Context) error {
	s.closeOnce.Do(func() { close(s.jobs) })
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
