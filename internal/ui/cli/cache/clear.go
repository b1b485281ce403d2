package cache

import (
	"fmt"

	"github.com/isaacphi/mapsxplr/internal/appState"
	"github.com/isaacphi/mapsxplr/internal/repository/sqlite"
	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every stored geocode result",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appState.Get().Config
		db, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer sqlite.Close(db)

		n, err := sqlite.NewPlaceRepository(db).Clear(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to clear places: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d stored places\n", n)
		return nil
	},
}

func init() {
	CacheCmd.AddCommand(clearCmd)
}
