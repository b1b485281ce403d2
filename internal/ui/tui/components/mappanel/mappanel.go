package mappanel

import (
	"fmt"
	"strings"

	"github.com/isaacphi/mapsxplr/internal/domain"
	"github.com/isaacphi/mapsxplr/internal/render"
	"github.com/isaacphi/mapsxplr/internal/ui/tui/theme"
)

// View renders the map state as a panel. rec is the place last shown, if any.
func View(thm *theme.Theme, snap render.Snapshot, rec *domain.Recommendation, width int) string {
	var b strings.Builder
	row := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", thm.LabelStyle.Render(label), value)
	}

	if !snap.Initialized {
		b.WriteString("Loading map…")
		return thm.PanelStyle.Width(width).Render(b.String())
	}

	if rec != nil && rec.Found {
		name := rec.DisplayName
		if name == "" {
			name = rec.Location
		}
		row("Place", name)
	} else {
		row("Place", "World view")
	}
	row("Center", fmt.Sprintf("%.4f, %.4f", snap.Center.Lat(), snap.Center.Lon()))
	row("Zoom", fmt.Sprint(snap.Zoom))
	if rec != nil && rec.TimeZone != "" {
		row("Zone", rec.TimeZone)
	}
	if snap.Marker != nil {
		row("Marker", fmt.Sprintf("%.4f, %.4f", snap.Marker.Lat(), snap.Marker.Lon()))
	}
	row("Tile", snap.TileURL())
	if rec != nil && rec.Found {
		row("Open", rec.MapURL(snap.Zoom))
	}

	return thm.PanelStyle.Width(width).Render(strings.TrimSuffix(b.String(), "\n"))
}
