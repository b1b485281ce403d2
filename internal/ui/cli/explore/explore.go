package explore

import (
	"github.com/isaacphi/mapsxplr/internal/appState"
	"github.com/isaacphi/mapsxplr/internal/ui/tui"
	"github.com/spf13/cobra"
)

// InteractiveAnnotation marks commands that take over the terminal.
const InteractiveAnnotation = "interactive"

var ExploreCmd = &cobra.Command{
	Use:         "explore",
	Short:       "Start the interactive explorer",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{InteractiveAnnotation: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app := appState.Get()
		return tui.StartTUI(cmd.Context(), app.Config, app.Logger)
	},
}
