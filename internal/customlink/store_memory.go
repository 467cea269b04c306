package customlink

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// InMemoryStore keeps overrides in a map guarded by an RWMutex. Used in
// tests and as the fallback when neither a file path nor a database is
// configured.
type InMemoryStore struct {
	mu      sync.RWMutex
	keyMode KeyMode
	byKey   map[string]CustomLink
}

func NewInMemoryStore(keyMode KeyMode) *InMemoryStore {
	return &InMemoryStore{
		keyMode: keyMode,
		byKey:   make(map[string]CustomLink),
	}
}

func (s *InMemoryStore) Upsert(_ context.Context, link CustomLink) (CustomLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := ResolutionKey(s.keyMode, link.CountryCode, link.LinkType, link.OriginalURL)
	s.byKey[key] = link
	return link, nil
}

func (s *InMemoryStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, link := range s.byKey {
		if link.ID == id {
			delete(s.byKey, key)
			return true, nil
		}
	}
	return false, nil
}

func (s *InMemoryStore) ListByCountry(_ context.Context, countryCode string) ([]CustomLink, error) {
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

func (s *InMemoryStore) Find(_ context.Context, countryCode string, lt LinkType, originalURL string) (*CustomLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key := ResolutionKey(s.keyMode, countryCode, lt, originalURL)
	if link, ok := s.byKey[key]; ok {
		return &link, nil
	}
	return nil, ErrNotFound
}

func (s *InMemoryStore) Close(context.Context) error { return nil }
