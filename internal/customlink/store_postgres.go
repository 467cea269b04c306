package customlink

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists overrides in PostgreSQL. The resolution key is
// computed in Go and stored in a unique column so the upsert-by-key
// semantics match the other backends exactly, regardless of key mode.
type PostgresStore struct {
	pool    *pgxpool.Pool
	keyMode KeyMode
}

const createCustomLinksTable = `
CREATE TABLE IF NOT EXISTS custom_links (
	id             TEXT PRIMARY KEY,
	country_code   TEXT NOT NULL,
	link_type      TEXT NOT NULL,
	original_url   TEXT NOT NULL,
	custom_url     TEXT NOT NULL,
	title          TEXT NOT NULL,
	notes          TEXT NOT NULL DEFAULT '',
	created_at     TIMESTAMPTZ NOT NULL,
	resolution_key TEXT NOT NULL UNIQUE
)`

// NewPostgresStore connects, ensures the schema exists, and returns the
// store.
func NewPostgresStore(ctx context.Context, databaseURL string, keyMode KeyMode) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, createCustomLinksTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure custom_links schema: %w", err)
	}
	return &PostgresStore{pool: pool, keyMode: keyMode}, nil
}

func (s *PostgresStore) Upsert(ctx context.Context, link CustomLink) (CustomLink, error) {
	key := ResolutionKey(s.keyMode, link.CountryCode, link.LinkType, link.OriginalURL)
	_, err := s.pool.Exec(ctx, `
		INSERT INTO custom_links
			(id, country_code, link_type, original_url, custom_url, title, notes, created_at, resolution_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (resolution_key) DO UPDATE SET
			id = EXCLUDED.id,
			country_code = EXCLUDED.country_code,
			original_url = EXCLUDED.original_url,
			custom_url = EXCLUDED.custom_url,
			title = EXCLUDED.title,
			notes = EXCLUDED.notes,
			created_at = EXCLUDED.created_at`,
		link.ID, link.CountryCode, string(link.LinkType), link.OriginalURL,
		link.CustomURL, link.Title, link.Notes, link.CreatedAt, key)
	if err != nil {
		return CustomLink{}, fmt.Errorf("upsert custom link: %w", err)
	}
	return link, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM custom_links WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete custom link: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PostgresStore) ListByCountry(ctx context.Context, countryCode string) ([]CustomLink, error) {
	cc := strings.ToUpper(strings.TrimSpace(countryCode))
	rows, err := s.pool.Query(ctx, `
		SELECT id, country_code, link_type, original_url, custom_url, title, notes, created_at
		FROM custom_links
		WHERE UPPER(country_code) = $1
		ORDER BY created_at`, cc)
	if err != nil {
		return nil, fmt.Errorf("list custom links: %w", err)
	}
	defer rows.Close()

	var links []CustomLink
	for rows.Next() {
		var link CustomLink
		var linkType string
		if err := rows.Scan(&link.ID, &link.CountryCode, &linkType, &link.OriginalURL,
			&link.CustomURL, &link.Title, &link.Notes, &link.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan custom link: %w", err)
		}
		link.LinkType = LinkType(linkType)
		links = append(links, link)
	}
	return links, rows.Err()
}

func (s *PostgresStore) Find(ctx context.Context, countryCode string, lt LinkType, originalURL string) (*CustomLink, error) {
	key := ResolutionKey(s.keyMode, countryCode, lt, originalURL)
	var link CustomLink
	var linkType string
	err := s.pool.QueryRow(ctx, `
		SELECT id, country_code, link_type, original_url, custom_url, title, notes, created_at
		FROM custom_links
		WHERE resolution_key = $1`, key).
		Scan(&link.ID, &link.CountryCode, &linkType, &link.OriginalURL,
			&link.CustomURL, &link.Title, &link.Notes, &link.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find custom link: %w", err)
	}
	link.LinkType = LinkType(linkType)
	return &link, nil
}

func (s *PostgresStore) Close(context.Context) error {
	s.pool.Close()
	return nil
}
