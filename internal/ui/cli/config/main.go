package config

import (
	"github.com/isaacphi/mapsxplr/internal/appState"
	"github.com/spf13/cobra"
)

var (
	includeSources bool

	ConfigCmd = &cobra.Command{
		Use:   "config [prefix]",
		Short: "View configuration",
		Long:  "Read configuration. If prefix is included, only show configuration under that path. E.g. mapsxplr config provider",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := appState.Get().Config

			var prefix string
			if len(args) > 0 {
				prefix = args[0]
			}

			if includeSources {
				cfg.PrintConfig(cmd.OutOrStdout(), prefix)
				return nil
			}
			return cfg.WriteYAML(cmd.OutOrStdout(), prefix)
		},
	}
)

func init() {
	ConfigCmd.Flags().BoolVarP(&includeSources, "include-sources", "s", false, "Show source file for each configuration value")
}
