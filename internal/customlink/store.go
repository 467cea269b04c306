package customlink

import (
	"context"

	"mandatemap/pkg/apierrors"
)

// ErrNotFound keeps store-level 404s consistent across implementations.
var ErrNotFound = apierrors.New(apierrors.CodeNotFound, "custom link not found")

// Store persists overrides. Upsert replaces any record sharing the same
// resolution key (most recent write wins); Delete is idempotent and reports
// whether a record was removed.
type Store interface {
	Upsert(ctx context.Context, link CustomLink) (CustomLink, error)
	Delete(ctx context.Context, id string) (bool, error)
	ListByCountry(ctx context.Context, countryCode string) ([]CustomLink, error)
	Find(ctx context.Context, countryCode string, lt LinkType, originalURL string) (*CustomLink, error)
	Close(ctx context.Context) error
}
