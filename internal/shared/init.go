package shared

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/isaacphi/mapsxplr/internal/config"
	"github.com/isaacphi/mapsxplr/internal/explorer"
	"github.com/isaacphi/mapsxplr/internal/geocode"
	"github.com/isaacphi/mapsxplr/internal/llm"
	"github.com/isaacphi/mapsxplr/internal/render"
	"github.com/isaacphi/mapsxplr/internal/repository"
	sqliteRepo "github.com/isaacphi/mapsxplr/internal/repository/sqlite"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Services holds the collaborators built from the configuration.
type Services struct {
	Explorer *explorer.Explorer
	Renderer *render.Renderer
	Geocoder *geocode.Cached
	Places   repository.PlaceRepository

	db *gorm.DB
}

// Close releases the geocode store.
func (s *Services) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return sqliteRepo.Close(s.db)
}

// InitializeGeocoder opens the geocode store and wraps the configured search
// service with it.
func InitializeGeocoder(cfg *config.ConfigSchema, logger *slog.Logger) (*Services, error) {
	db, err := sqliteRepo.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open geocode store: %w", err)
	}
	s := &Services{db: db, Places: sqliteRepo.NewPlaceRepository(db)}
	s.Geocoder = newGeocoder(cfg.Geocoder, s.Places, logger)
	return s, nil
}

func newGeocoder(cfg config.Geocoder, places repository.PlaceRepository, logger *slog.Logger) *geocode.Cached {
	search := geocode.NewNominatim(cfg, geocode.WithLogger(logger))
	return geocode.NewCached(search, places, cfg.CacheTTL, logger)
}

// InitializeExplorer builds everything needed to ask for and render
// recommendations. The time zone polygons and the geocode store are loaded
// concurrently. A missing API key fails before anything is opened.
func InitializeExplorer(ctx context.Context, cfg *config.ConfigSchema, logger *slog.Logger) (*Services, error) {
	client, err := llm.NewClient(cfg.Provider, cfg.SystemMessage, llm.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	var (
		zones render.TimeZoneFinder
		db    *gorm.DB
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		zones, err = render.NewTimeZoneFinder()
		if err != nil {
			return fmt.Errorf("failed to load time zones: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		db, err = sqliteRepo.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("failed to open geocode store: %w", err)
		}
		return ctx.Err()
	})
	if err := g.Wait(); err != nil {
		if db != nil {
			sqliteRepo.Close(db)
		}
		return nil, err
	}

	s := &Services{db: db, Places: sqliteRepo.NewPlaceRepository(db)}
	s.Geocoder = newGeocoder(cfg.Geocoder, s.Places, logger)
	s.Renderer = render.NewRenderer(s.Geocoder, render.NewMapView(cfg.Map), zones, logger)
	s.Explorer = explorer.New(client, s.Renderer, logger)
	return s, nil
}
