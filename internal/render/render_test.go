package render

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/isaacphi/mapsxplr/internal/config"
	"github.com/isaacphi/mapsxplr/internal/domain"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

var defaultMap = config.Map{CenterLat: 20, CenterLon: 0, Zoom: 2, FocusZoom: 10}

type stubGeocoder map[string]domain.Geocoded

func (s stubGeocoder) Lookup(_ context.Context, query string) (domain.Geocoded, error) {
	if query == "broken" {
		return domain.Geocoded{}, errors.New("geocoding failed: 503 Service Unavailable")
	}
	g, ok := s[query]
	if !ok {
		return domain.Geocoded{}, domain.ErrPlaceNotFound
	}
	return g, nil
}

type stubZones string

func (z stubZones) GetTimezoneName(float64, float64) string { return string(z) }

func TestMapViewCreateOnceUpdateInPlace(t *testing.T) {
	m := NewMapView(defaultMap)
	assert.False(t, m.Snapshot().Initialized)

	m.Init()
	s := m.Snapshot()
	assert.True(t, s.Initialized)
	assert.Equal(t, orb.Point{0, 20}, s.Center)
	assert.Equal(t, 2, s.Zoom)
	assert.Nil(t, s.Marker)

	ub := orb.Point{106.9177, 47.9185}
	m.Focus(ub)
	s = m.Snapshot()
	assert.Equal(t, ub, s.Center)
	assert.Equal(t, 10, s.Zoom)
	require.NotNil(t, s.Marker)
	assert.Equal(t, ub, *s.Marker)

	lima := orb.Point{-77.04, -12.05}
	m.Focus(lima)
	m.Init()
	s = m.Snapshot()
	assert.Equal(t, lima, *s.Marker)
	assert.Equal(t, lima, s.Center)
	assert.Equal(t, 1, m.MarkerCreations())
}

func TestSnapshotTile(t *testing.T) {
	m := NewMapView(defaultMap)
	m.Focus(orb.Point{0.0001, 0.0001})
	s := m.Snapshot()

	tile := s.Tile()
	assert.EqualValues(t, 10, tile.Z)
	assert.EqualValues(t, 512, tile.X)
	assert.EqualValues(t, 511, tile.Y)
	assert.Equal(t, "https://tile.openstreetmap.org/10/512/511.png", s.TileURL())
}

func TestRenderer(t *testing.T) {
	geo := stubGeocoder{
		"Ulaanbaatar, Mongolia": {Point: orb.Point{106.9177, 47.9185}, DisplayName: "Улаанбаатар"},
	}

	tests := []struct {
		name      string
		place     domain.Place
		found     bool
		timezone  string
		hasMarker bool
	}{
		{
			name:      "found",
			place:     domain.Place{Location: "Ulaanbaatar, Mongolia", Caption: "Coldest capital."},
			found:     true,
			timezone:  "Asia/Ulaanbaatar",
			hasMarker: true,
		},
		{
			name:  "not found",
			place: domain.Place{Location: "Atlantis", Caption: "Lost city."},
		},
		{
			name:  "geocoder failure",
			place: domain.Place{Location: "broken", Caption: "Still shown."},
		},
		{
			name:  "empty location",
			place: domain.Place{Caption: "Only a caption."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := NewMapView(defaultMap)
			r := NewRenderer(geo, view, stubZones("Asia/Ulaanbaatar"), quietLogger)

			rec := r.Render(context.Background(), tt.place)
			assert.Equal(t, tt.place, rec.Place)
			assert.Equal(t, tt.found, rec.Found)
			assert.Equal(t, tt.timezone, rec.TimeZone)

			s := view.Snapshot()
			assert.True(t, s.Initialized)
			assert.Equal(t, tt.hasMarker, s.Marker != nil)
			if !tt.found {
				assert.Equal(t, 2, s.Zoom)
				assert.Empty(t, rec.MapURL(10))
			}
		})
	}
}

// lateGeocoder answers after the request has been cancelled.
type lateGeocoder struct {
	cancel context.CancelFunc
	hit    domain.Geocoded
}

func (g lateGeocoder) Lookup(context.Context, string) (domain.Geocoded, error) {
	g.cancel()
	return g.hit, nil
}

func TestRendererIgnoresCancelledLookup(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	view := NewMapView(defaultMap)
	geo := lateGeocoder{cancel: cancel, hit: domain.Geocoded{Point: orb.Point{10, 20}, DisplayName: "Somewhere"}}
	r := NewRenderer(geo, view, stubZones("UTC"), quietLogger)

	place := domain.Place{Location: "Somewhere", Caption: "Too late."}
	rec := r.Render(ctx, place)
	assert.Equal(t, place, rec.Place)
	assert.False(t, rec.Found)
	assert.Empty(t, rec.TimeZone)

	s := view.Snapshot()
	assert.Nil(t, s.Marker)
	assert.Equal(t, orb.Point{0, 20}, s.Center)
	assert.Zero(t, view.MarkerCreations())
}
