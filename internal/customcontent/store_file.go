package customcontent

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore persists the two submission collections as JSON arrays, one
// file each. Mutations are serialized through a single writer goroutine and
// snapshots are written atomically (temp file + rename), the same
// discipline as the custom link file store.
type FileStore struct {
	formatsPath     string
	legislationPath string

	mu          sync.RWMutex
	formats     []CustomFormat
	legislation []CustomLegislation

	jobs      chan storeJob
	done      chan struct{}
	closeOnce sync.Once
}

type storeJob struct {
	apply func() error
	reply chan error
}

// NewFileStore loads both collections (missing files start empty) and
// starts the writer goroutine.
func NewFileStore(formatsPath, legislationPath string) (*FileStore, error) {
	s := &FileStore{
		formatsPath:     formatsPath,
		legislationPath: legislationPath,
		jobs:            make(chan storeJob),
		done:            make(chan struct{}),
	}
	if err := loadJSON(formatsPath, &s.formats); err != nil {
		return nil, fmt.Errorf("load custom formats: %w", err)
	}
	if err := loadJSON(legislationPath, &s.legislation); err != nil {
		return nil, fmt.Errorf("load custom legislation: %w", err)
	}
	go s.writer()
	return s, nil
}

func (s *FileStore) writer() {
	for job := range s.jobs {
		job.reply <- job.apply()
	}
	close(s.done)
}

func (s *FileStore) submit(ctx context.Context, fn func() error) error {
	job := storeJob{apply: fn, reply: make(chan error, 1)}
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

// AppendFormat adds a format submission and persists the collection.
func (s *FileStore) AppendFormat(ctx context.Context, format CustomFormat) error {
	return s.submit(ctx, func() error {
		s.mu.Lock()
		s.formats = append(s.formats, format)
		snapshot := append([]CustomFormat(nil), s.formats...)
		s.mu.Unlock()
		return writeJSONAtomic(s.formatsPath, snapshot)
	})
}

// AppendLegislation adds a legislation submission and persists the
// collection.
func (s *FileStore) AppendLegislation(ctx context.Context, leg CustomLegislation) error {
	return s.submit(ctx, func() error {
		s.mu.Lock()
		s.legislation = append(s.legislation, leg)
		snapshot := append([]CustomLegislation(nil), s.legislation...)
		s.mu.Unlock()
		return writeJSONAtomic(s.legislationPath, snapshot)
	})
}

// ListFormats returns all format submissions, newest last.
func (s *FileStore) ListFormats(context.Context) ([]CustomFormat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]CustomFormat(nil), s.formats...), nil
}

// ListLegislation returns all legislation submissions, newest last.
func (s *FileStore) ListLegislation(context.Context) ([]CustomLegislation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]CustomLegislation(nil), s.legislation...), nil
}

// Close stops the writer after queued mutations drain.
func (s *FileStore) Close(ctx context.Context) error {
	s.closeOnce.Do(func() { close(s.jobs) })
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func loadJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return json.Unmarshal(data, out)
}

func writeJSONAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".content-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}
