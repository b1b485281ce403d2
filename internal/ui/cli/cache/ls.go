package cache

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/isaacphi/mapsxplr/internal/appState"
	"github.com/isaacphi/mapsxplr/internal/repository/sqlite"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "ls",
	Short: "List stored geocode results",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appState.Get().Config
		db, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer sqlite.Close(db)

		places, err := sqlite.NewPlaceRepository(db).List(cmd.Context(), limitFlag)
		if err != nil {
			return fmt.Errorf("failed to list places: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "Query\tResolved\tLat\tLon\tName")

		for _, place := range places {
			name := place.DisplayName
			if len(name) > 50 {
				name = name[:47] + "..."
			}

			fmt.Fprintf(w, "%s\t%s\t%.4f\t%.4f\t%s\n",
				place.Query,
				place.ResolvedAt.Format(time.RFC822),
				place.Lat,
				place.Lon,
				name,
			)
		}
		w.Flush()

		return nil
	},
}

func init() {
	listCmd.Flags().IntVarP(&limitFlag, "limit", "n", 0, "Limit the number of places to show (0 for all)")
	CacheCmd.AddCommand(listCmd)
}
