package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/isaacphi/mapsxplr/internal/appState"
	"github.com/isaacphi/mapsxplr/internal/config"
	"github.com/isaacphi/mapsxplr/internal/ui/cli/ask"
	"github.com/isaacphi/mapsxplr/internal/ui/cli/cache"
	configCmd "github.com/isaacphi/mapsxplr/internal/ui/cli/config"
	"github.com/isaacphi/mapsxplr/internal/ui/cli/explore"
	"github.com/isaacphi/mapsxplr/internal/ui/cli/geocode"
	"github.com/spf13/cobra"
)

var (
	logLevel    string
	logFile     string
	model       string
	temperature float64
)

var rootCmd = &cobra.Command{
	Use:               "mapsxplr",
	Short:             "Explore the world one recommended place at a time",
	Long:              `Ask a language model where to go and see its answer on a map`,
	DisableAutoGenTag: true,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Set up the root command to use this context
	rootCmd.SetContext(ctx)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Add global flags for logging and the model
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Set logging level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Log file path (defaults to stderr)")
	rootCmd.PersistentFlags().StringVar(&model, "model", "", "Model to ask for recommendations")
	rootCmd.PersistentFlags().Float64Var(&temperature, "temperature", 0, "Sampling temperature (0-2)")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		overrides := &config.RuntimeOverrides{}
		if logLevel != "" {
			overrides.LogLevel = &logLevel
		}
		if logFile != "" {
			overrides.LogFile = &logFile
		}
		if model != "" {
			overrides.Model = &model
		}
		if cmd.Flags().Changed("temperature") {
			overrides.Temperature = &temperature
		}
		return appState.Initialize(overrides, appState.Options{
			Interactive: cmd.Annotations[explore.InteractiveAnnotation] == "true",
		})
	}

	rootCmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return appState.Cleanup()
	}

	// Remove "completions" command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(
		configCmd.ConfigCmd,
		ask.AskCmd,
		ask.PresetsCmd,
		ask.PresetCmd,
		explore.ExploreCmd,
		geocode.GeocodeCmd,
		cache.CacheCmd,
	)
}
