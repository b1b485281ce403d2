package geocode

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/isaacphi/mapsxplr/internal/domain"
	"github.com/isaacphi/mapsxplr/internal/repository"
	"github.com/patrickmn/go-cache"
)

// Normalize returns the cache key for a query.
func Normalize(query string) string {
	return strings.ToLower(strings.Join(strings.Fields(query), " "))
}

// Cached serves lookups from memory, then from the store, and only then from
// the wrapped geocoder. Misses are not cached.
type Cached struct {
	next   Geocoder
	mem    *cache.Cache
	store  repository.PlaceRepository
	logger *slog.Logger
	now    func() time.Time
}

// NewCached wraps next. store may be nil. A ttl of zero keeps entries in
// memory for the life of the process.
func NewCached(next Geocoder, store repository.PlaceRepository, ttl time.Duration, logger *slog.Logger) *Cached {
	if logger == nil {
		logger = slog.Default()
	}
	expiration, cleanup := ttl, 2*ttl
	if ttl <= 0 {
		expiration, cleanup = cache.NoExpiration, 0
	}
	return &Cached{
		next:   next,
		mem:    cache.New(expiration, cleanup),
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

func (c *Cached) Lookup(ctx context.Context, query string) (domain.Geocoded, error) {
	if err := ctx.Err(); err != nil {
		return domain.Geocoded{}, err
	}
	key := Normalize(query)

	if hit, ok := c.mem.Get(key); ok {
		return hit.(domain.Geocoded), nil
	}

	if c.store != nil {
		stored, err := c.store.Get(ctx, key)
		if err != nil {
			c.logger.Warn("reading geocode cache failed", "query", key, "error", err)
		} else if stored != nil {
			g := stored.Geocoded()
			c.mem.SetDefault(key, g)
			return g, nil
		}
	}

	g, err := c.next.Lookup(ctx, query)
	if err != nil {
		return domain.Geocoded{}, err
	}

	c.mem.SetDefault(key, g)
	if c.store != nil {
		row := &domain.CachedPlace{
			Query:       key,
			DisplayName: g.DisplayName,
			Lat:         g.Lat(),
			Lon:         g.Lon(),
			ResolvedAt:  c.now(),
		}
		if err := c.store.Save(ctx, row); err != nil {
			c.logger.Warn("writing geocode cache failed", "query", key, "error", err)
		}
	}
	return g, nil
}

// Forget drops every in-memory entry.
func (c *Cached) Forget() {
	c.mem.Flush()
}
