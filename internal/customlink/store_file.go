package customlink

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// FileStore persists overrides in a single JSON array on disk. All mutations
// flow through one writer goroutine, so concurrent requests cannot interleave
// read-modify-write cycles, and every snapshot is written to a temp file and
// renamed into place so a crash never leaves a half-written file behind.
type FileStore struct {
	path    string
	keyMode KeyMode
	logger  *slog.Logger

	mu    sync.RWMutex
	byKey map[string]CustomLink

	jobs      chan fileJob
	done      chan struct{}
	closeOnce sync.Once
}

type fileJob struct {
	apply func() error
	reply chan error
}

// NewFileStore loads the file at path (a missing file starts empty) and
// starts the writer goroutine. Callers must Close the store to flush and
// stop the writer.
func NewFileStore(path string, keyMode KeyMode, logger *slog.Logger) (*FileStore, error) {
	s := &FileStore{
		path:    path,
		keyMode: keyMode,
		logger:  logger,
		byKey:   make(map[string]CustomLink),
		jobs:    make(chan fileJob),
		done:    make(chan struct{}),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	go s.writer()
	return s, nil
}

func (s *FileStore) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read custom links file: %w", err)
	}
	var links []CustomLink
	if err := json.Unmarshal(data, &links); err != nil {
		return fmt.Errorf("parse custom links file: %w", err)
	}
	for _, link := range links {
		key := ResolutionKey(s.keyMode, link.CountryCode, link.LinkType, link.OriginalURL)
		s.byKey[key] = link
	}
	return nil
}

func (s *FileStore) writer() {
	for job := range s.jobs {
		job.reply <- job.apply()
	}
	close(s.done)
}

// submit runs fn on the writer goroutine and waits for its result.
func (s *FileStore) submit(ctx context.Context, fn func() error) error {
	job := fileJob{apply: fn, reply: make(chan error, 1)}
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

func (s *FileStore) Upsert(ctx context.Context, link CustomLink) (CustomLink, error) {
	err := s.submit(ctx, func() error {
		key := ResolutionKey(s.keyMode, link.CountryCode, link.LinkType, link.OriginalURL)
		s.mu.Lock()
		s.byKey[key] = link
		s.mu.Unlock()
		return s.persist()
	})
	if err != nil {
		return CustomLink{}, err
	}
	return link, nil
}

func (s *FileStore) Delete(ctx context.Context, id string) (bool, error) {
	var removed bool
	err := s.submit(ctx, func() error {
		s.mu.Lock()
		for key, link := range s.byKey {
			if link.ID == id {
				delete(s.byKey, key)
				removed = true
				break
			}
		}
		s.mu.Unlock()
		if !removed {
			return nil
		}
		return s.persist()
	})
	return removed, err
}

func (s *FileStore) ListByCountry(_ context.Context, countryCode string) ([]CustomLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cc := strings.ToUpper(strings.TrimSpace(countryCode))
	var links []CustomLink
	for _, link := range s.byKey {
		if strings.ToUpper(link.CountryCode) == cc {
			links = append(links, link)
		}
	}
	sort.Slice(links, func(i, j int) bool { return links[i].CreatedAt.Before(links[j].CreatedAt) })
	return links, nil
}

func (s *FileStore) Find(_ context.Context, countryCode string, lt LinkType, originalURL string) (*CustomLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key := ResolutionKey(s.keyMode, countryCode, lt, originalURL)
	if link, ok := s.byKey[key]; ok {
		return &link, nil
	}
	return nil, ErrNotFound
}

// Close stops the writer after all queued mutations have been applied.
func (s *FileStore) Close(ctx context.Context) error {
	s.closeOnce.Do(func() { close(s.jobs) })
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// persist writes the full snapshot via temp file + rename. Runs only on the
// writer goroutine.
func (s *FileStore) persist() error {
	s.mu.RLock()
	links := make([]CustomLink, 0, len(s.byKey))
	for _, link := range s.byKey {
		links = append(links, link)
	}
	s.mu.RUnlock()
	sort.Slice(links, func(i, j int) bool { return links[i].CreatedAt.Before(links[j].CreatedAt) })

	data, err := json.MarshalIndent(links, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal custom links: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".custom-links-*.json")
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
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace custom links file: %w", err)
	}
	return nil
}
