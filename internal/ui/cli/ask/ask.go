package ask

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/isaacphi/mapsxplr/internal/appState"
	"github.com/isaacphi/mapsxplr/internal/domain"
	"github.com/isaacphi/mapsxplr/internal/shared"
	"github.com/spf13/cobra"
)

var AskCmd = &cobra.Command{
	Use:   "ask <prompt>",
	Short: "Ask for a place recommendation",
	Long:  `Send a prompt, stream the answer and print every recommended place with a map link.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return recommend(cmd, strings.Join(args, " "))
	},
}

func recommend(cmd *cobra.Command, prompt string) error {
	app := appState.Get()
	out := cmd.OutOrStdout()

	svc, err := shared.InitializeExplorer(cmd.Context(), app.Config, app.Logger)
	if err != nil {
		if errors.Is(err, domain.ErrMissingAPIKey) {
			return errors.New(domain.MissingAPIKeyMessage)
		}
		return err
	}
	defer svc.Close()

	res, err := svc.Explorer.Recommend(cmd.Context(), prompt, func(text string) {
		fmt.Fprint(out, text)
	})
	if err != nil {
		app.Logger.Error("recommendation failed", "error", err)
		return errors.New(domain.UserMessage(err))
	}
	if res.Content != "" {
		fmt.Fprintln(out)
	}
	if res.Dropped != nil {
		app.Logger.Warn("some tool calls were dropped", "error", res.Dropped)
	}

	if len(res.Recommendations) == 0 {
		fmt.Fprintln(out, "No place was recommended.")
		return nil
	}
	for _, rec := range res.Recommendations {
		printRecommendation(out, rec, app.Config.Map.FocusZoom)
	}
	return nil
}

func printRecommendation(w io.Writer, rec domain.Recommendation, zoom int) {
	fmt.Fprintf(w, "\n📍 %s\n", rec.Location)
	fmt.Fprintf(w, "   %s\n", rec.Caption)
	if !rec.Found {
		fmt.Fprintln(w, "   (not found on the map)")
		return
	}

	details := []string{fmt.Sprintf("%.4f, %.4f", rec.Point.Lat(), rec.Point.Lon())}
	if rec.TimeZone != "" {
		details = append(details, rec.TimeZone)
	}
	if rec.DisplayName != "" {
		fmt.Fprintf(w, "   %s\n", rec.DisplayName)
	}
	fmt.Fprintf(w, "   %s\n", strings.Join(details, " · "))
	fmt.Fprintf(w, "   %s\n", rec.MapURL(zoom))
}
