package render

import (
	"fmt"
	"sync"

	"github.com/isaacphi/mapsxplr/internal/config"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
)

// MapView holds the state of the single map shown to the user. The view is
// created on first use and the marker is created on the first focus; both
// are updated in place afterwards. It is safe for concurrent use.
type MapView struct {
	mu sync.RWMutex

	defaultCenter orb.Point
	defaultZoom   int
	focusZoom     int

	initialized bool
	center      orb.Point
	zoom        int
	marker      *orb.Point
	markerAdds  int
}

// Snapshot is a copy of the view state.
type Snapshot struct {
	Initialized bool
	Center      orb.Point
	Zoom        int
	Marker      *orb.Point
}

func NewMapView(cfg config.Map) *MapView {
	return &MapView{
		defaultCenter: orb.Point{cfg.CenterLon, cfg.CenterLat},
		defaultZoom:   cfg.Zoom,
		focusZoom:     cfg.FocusZoom,
	}
}

// Init shows the default world view. It has no effect once the view exists.
func (m *MapView) Init() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.init()
}

func (m *MapView) init() {
	if m.initialized {
		return
	}
	m.initialized = true
	m.center = m.defaultCenter
	m.zoom = m.defaultZoom
}

// Focus centers the view on p at the focus zoom and places the marker there.
func (m *MapView) Focus(p orb.Point) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.init()
	m.center = p
	m.zoom = m.focusZoom
	if m.marker == nil {
		m.marker = new(orb.Point)
		m.markerAdds++
	}
	*m.marker = p
}

func (m *MapView) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := Snapshot{Initialized: m.initialized, Center: m.center, Zoom: m.zoom}
	if m.marker != nil {
		p := *m.marker
		s.Marker = &p
	}
	return s
}

// MarkerCreations returns how many times a marker was created.
func (m *MapView) MarkerCreations() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.markerAdds
}

// Tile returns the slippy map tile under the view center.
func (s Snapshot) Tile() maptile.Tile {
	return maptile.At(s.Center, maptile.Zoom(s.Zoom))
}

// TileURL links to the OpenStreetMap tile under the view center.
func (s Snapshot) TileURL() string {
	t := s.Tile()
	return fmt.Sprintf("https://tile.openstreetmap.org/%d/%d/%d.png", t.Z, t.X, t.Y)
}
