package render

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/isaacphi/mapsxplr/internal/domain"
	"github.com/isaacphi/mapsxplr/internal/geocode"
	"github.com/ringsaturn/tzf"
)

// TimeZoneFinder resolves the IANA time zone at a coordinate.
type TimeZoneFinder interface {
	GetTimezoneName(lng float64, lat float64) string
}

// NewTimeZoneFinder loads the embedded time zone polygons.
func NewTimeZoneFinder() (TimeZoneFinder, error) {
	return tzf.NewDefaultFinder()
}

// Renderer shows recommended places on a MapView.
type Renderer struct {
	geocoder geocode.Geocoder
	view     *MapView
	zones    TimeZoneFinder
	logger   *slog.Logger
}

// NewRenderer creates a renderer. zones may be nil.
func NewRenderer(g geocode.Geocoder, view *MapView, zones TimeZoneFinder, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{geocoder: g, view: view, zones: zones, logger: logger}
}

// View returns the map view the renderer draws on.
func (r *Renderer) View() *MapView {
	return r.view
}

// Render locates place and focuses the map on it. Failures are logged and
// leave the map unchanged, as does a ctx cancelled before the view is
// focused. The caption is always part of the result.
func (r *Renderer) Render(ctx context.Context, place domain.Place) domain.Recommendation {
	r.view.Init()
	rec := domain.Recommendation{Place: place}

	if strings.TrimSpace(place.Location) == "" {
		return rec
	}

	g, err := r.geocoder.Lookup(ctx, place.Location)
	switch {
	case ctx.Err() != nil:
		// superseded requests never move the map
		r.logger.Debug("render abandoned", "location", place.Location, "error", ctx.Err())
		return rec
	case errors.Is(err, domain.ErrPlaceNotFound):
		r.logger.Warn("location not found", "location", place.Location)
		return rec
	case err != nil:
		r.logger.Error("error during map rendering", "location", place.Location, "error", err)
		return rec
	}

	r.view.Focus(g.Point)
	rec.Found = true
	rec.Point = g.Point
	rec.DisplayName = g.DisplayName
	if r.zones != nil {
		rec.TimeZone = r.zones.GetTimezoneName(g.Lon(), g.Lat())
	}
	r.logger.Debug("rendered place", "location", place.Location, "lat", g.Lat(), "lon", g.Lon(), "timezone", rec.TimeZone)
	return rec
}
