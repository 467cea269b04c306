//go:build integration

package customlink_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"mandatemap/internal/customlink"
	"mandatemap/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	store *customlink.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	pg := containers.NewPostgresContainer(s.T())
	store, err := customlink.NewPostgresStore(context.Background(), pg.URL, customlink.KeyModeExact)
	s.Require().NoError(err)
	s.store = store
}

func (s *PostgresStoreSuite) TearDownSuite() {
	if s.store != nil {
		_ = s.store.Close(context.Background())
	}
}

func (s *PostgresStoreSuite) link(id, country, originalURL string) customlink.CustomLink {
	return customlink.CustomLink{
		ID:          id,
		CountryCode: country,
		LinkType:    customlink.LinkTypeLegislation,
		OriginalURL: originalURL,
		CustomURL:   "https://fixed.example.gov/" + id,
		Title:       "override " + id,
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}
}

func (s *PostgresStoreSuite) TestUpsertReplacesByKey() {
	ctx := context.Background()

	_, err := s.store.Upsert(ctx, s.link("pg-one", "DEU", "https://old.example.gov/pg-a"))
	s.Require().NoError(err)

	_, err = s.store.Upsert(ctx, s.link("pg-two", "DEU", "https://old.example.gov/pg-a"))
	s.Require().NoError(err)

	found, err := s.store.Find(ctx, "DEU", customlink.LinkTypeLegislation, "https://old.example.gov/pg-a")
	s.Require().NoError(err)
	s.Equal("pg-two", found.ID)

	links, err := s.store.ListByCountry(ctx, "deu")
	s.Require().NoError(err)

	var matches int
	for _, l := range links {
		if l.OriginalURL == "https://old.example.gov/pg-a" {
			matches++
		}
	}
	s.Equal(1, matches)
}

func (s *PostgresStoreSuite) TestDeleteIsIdempotent() {
	ctx := context.Background()

	_, err := s.store.Upsert(ctx, s.link("pg-del", "FRA", "https://old.example.gov/pg-del"))
	s.Require().NoError(err)

	removed, err := s.store.Delete(ctx, "pg-del")
	s.Require().NoError(err)
	s.True(removed)

	removed, err = s.store.Delete(ctx, "pg-del")
	s.Require().NoError(err)
	s.False(removed)
}

func (s *PostgresStoreSuite) TestFindMissingReturnsNotFound() {
	_, err := s.store.Find(context.Background(), "ZZZ", customlink.LinkTypeNews, "https://nowhere.example")
	s.ErrorIs(err, customlink.ErrNotFound)
}
