package ask

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/isaacphi/mapsxplr/internal/appState"
	"github.com/isaacphi/mapsxplr/internal/prompt"
	"github.com/spf13/cobra"
)

var PresetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the preset prompts",
	RunE: func(cmd *cobra.Command, args []string) error {
		presets := prompt.NewManager(appState.Get().Config.Presets).Presets()

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "#\tLabel\tPrompt")
		for i, p := range presets {
			preview := strings.Join(strings.Fields(p.Prompt), " ")
			if len(preview) > 60 {
				preview = preview[:57] + "..."
			}
			fmt.Fprintf(w, "%d\t%s\t%s\n", i+1, p.Label, preview)
		}
		return w.Flush()
	},
}

var PresetCmd = &cobra.Command{
	Use:   "preset <label|number>",
	Short: "Ask for a recommendation with a preset prompt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := prompt.NewManager(appState.Get().Config.Presets).Resolve(args[0])
		if err != nil {
			return err
		}
		return recommend(cmd, p.Prompt)
	},
}
