package repository

import (
	"context"

	"github.com/isaacphi/mapsxplr/internal/domain"
)

// PlaceRepository persists geocode results keyed by normalized query.
type PlaceRepository interface {
	// Get returns the stored place for query, or nil when there is none.
	Get(ctx context.Context, query string) (*domain.CachedPlace, error)
	Save(ctx context.Context, place *domain.CachedPlace) error
	List(ctx context.Context, limit int) ([]*domain.CachedPlace, error)
	Clear(ctx context.Context) (int64, error)
}
