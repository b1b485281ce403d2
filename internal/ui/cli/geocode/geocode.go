package geocode

import (
	"errors"
	"fmt"
	"strings"

	"github.com/isaacphi/mapsxplr/internal/appState"
	"github.com/isaacphi/mapsxplr/internal/domain"
	"github.com/isaacphi/mapsxplr/internal/shared"
	"github.com/spf13/cobra"
)

var GeocodeCmd = &cobra.Command{
	Use:   "geocode <query>",
	Short: "Resolve a location to coordinates",
	Long:  `Look up a free-form location through the cached geocoder, as done for recommended places.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := appState.Get()
		query := strings.Join(args, " ")

		svc, err := shared.InitializeGeocoder(app.Config, app.Logger)
		if err != nil {
			return err
		}
		defer svc.Close()

		g, err := svc.Geocoder.Lookup(cmd.Context(), query)
		if errors.Is(err, domain.ErrPlaceNotFound) {
			return fmt.Errorf("%s: %w", query, err)
		}
		if err != nil {
			return fmt.Errorf("failed to geocode %q: %w", query, err)
		}

		rec := domain.Recommendation{Found: true, Point: g.Point, DisplayName: g.DisplayName}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, g.DisplayName)
		fmt.Fprintf(out, "%.5f, %.5f\n", g.Lat(), g.Lon())
		fmt.Fprintln(out, rec.MapURL(app.Config.Map.FocusZoom))
		return nil
	},
}
