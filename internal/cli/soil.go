package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jrsteele09/securecrop-client/api"
	"github.com/jrsteele09/securecrop-client/internal/ui"
	"github.com/jrsteele09/securecrop-client/soil"
	"github.com/spf13/cobra"
)

func newSoilCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "soil",
		Short: "Submit and review soil readings",
	}
	cmd.AddCommand(newSoilSubmitCmd(app), newSoilListCmd(app, false), newSoilListCmd(app, true), newSoilShowCmd(app))
	return cmd
}

func newSoilSubmitCmd(app *App) *cobra.Command {
	var data api.SoilInputData

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a soil reading and get a crop recommendation",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			renderReading(out, app.Painter, data.Reading())

			resp, err := app.API.Soil.Create(cmd.Context(), data)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "\nRecommended crop: %s\n", strings.ToUpper(resp.Recommendation.CropName))
			if resp.Recommendation.Explanation != "" {
				fmt.Fprintln(out, resp.Recommendation.Explanation)
			}
			fmt.Fprintf(out, "Integrity: %s  Anomaly: %s\n", resp.SecurityCheck.IntegrityStatus, app.Painter.Flag(resp.SecurityCheck.AnomalyDetected))
			if resp.FarmingGuide != nil {
				renderGuide(out, resp.FarmingGuide)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.Float64Var(&data.NLevel, "nitrogen", 0, "Nitrogen (N) level, 0-200")
	f.Float64Var(&data.PLevel, "phosphorus", 0, "Phosphorus (P) level, 0-200")
	f.Float64Var(&data.KLevel, "potassium", 0, "Potassium (K) level, 0-200")
	f.Float64Var(&data.PH, "ph", 0, "Soil pH, 0-14")
	f.Float64Var(&data.Moisture, "moisture", 0, "Moisture percentage, 0-100")
	f.Float64Var(&data.Temperature, "temperature", 0, "Temperature in Celsius, -10-60")
	for _, name := range []string{"nitrogen", "phosphorus", "potassium", "ph", "moisture", "temperature"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newSoilListCmd(app *App, all bool) *cobra.Command {
	use, short := "list", "List your soil readings"
	if all {
		use, short = "all", "List every user's soil readings (admin)"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			list := app.API.Soil.List
			if all {
				list = app.API.Soil.ListAll
			}
			inputs, err := list(cmd.Context())
			if err != nil {
				return err
			}

			tw := newTable(cmd.OutOrStdout(), table.Row{"ID", "User", "N", "P", "K", "pH", "Moisture", "Temp", "Created"})
			for _, in := range inputs {
				tw.AppendRow(table.Row{in.ID, orDash(in.UserUsername), in.NLevel, in.PLevel, in.KLevel, in.PH, in.Moisture, in.Temperature, in.CreatedAt})
			}
			tw.AppendFooter(table.Row{"", "Total", len(inputs)})
			tw.Render()
			return nil
		},
	}
}

func newSoilShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one soil reading with parameter status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			input, err := app.API.Soil.Get(cmd.Context(), id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Soil reading #%d (%s)\n", input.ID, input.CreatedAt)
			renderReading(out, app.Painter, input.Data().Reading())
			if input.IntegrityHash != nil {
				fmt.Fprintf(out, "Integrity hash: %s\n", *input.IntegrityHash)
			}
			return nil
		},
	}
}

func renderReading(out io.Writer, painter ui.Painter, reading soil.Reading) {
	tw := newTable(out, table.Row{"Parameter", "Value", "Optimal", "Status"})
	for _, p := range soil.Parameters {
		optimal := "-"
		if r, ok := soil.RangeFor(p); ok {
			optimal = fmt.Sprintf("%g-%g", r.OptimalMin, r.OptimalMax)
		}
		tw.AppendRow(table.Row{p, reading[p], optimal, painter.Status(soil.Rate(p, reading[p]))})
	}
	tw.Render()
}

func renderGuide(out io.Writer, guide *api.FarmingGuide) {
	fmt.Fprintf(out, "\nFarming guide for %s (%s)\n", guide.CropName, guide.Source)
	section := func(title, text string) {
		if text != "" {
			fmt.Fprintf(out, "\n%s\n  %s\n", title, text)
		}
	}
	section("Why", guide.WhyRecommended)
	if len(guide.CultivationSteps) > 0 {
		fmt.Fprintln(out, "\nCultivation")
		for i, step := range guide.CultivationSteps {
			fmt.Fprintf(out, "  %d. %s\n", i+1, step)
		}
	}
	section("Watering", guide.WateringGuide)
	section("Fertilisation", guide.FertilizationTips)
	section("Harvesting", guide.HarvestingTips)
	for _, p := range guide.CommonProblems {
		fmt.Fprintf(out, "  - %s: %s\n", p.Problem, p.Solution)
	}
	section("Expected yield", guide.ExpectedYield)
	section("Growth duration", guide.GrowthDuration)
}

func newRecommendationsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "recommendations",
		Aliases: []string{"recs"},
		Short:   "Review crop recommendations",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List your recommendations",
		RunE: func(cmd *cobra.Command, args []string) error {
			recs, err := app.API.Recommendations.List(cmd.Context())
			if err != nil {
				return err
			}
			tw := newTable(cmd.OutOrStdout(), table.Row{"ID", "Crop", "Created"})
			for _, r := range recs {
				tw.AppendRow(table.Row{r.ID, r.CropName, r.CreatedAt})
			}
			tw.Render()
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show ID",
		Short: "Show one recommendation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			rec, err := app.API.Recommendations.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Recommendation #%d: %s\n", rec.ID, strings.ToUpper(rec.CropName))
			fmt.Fprintln(out, rec.Explanation)
			if rec.SoilInput != nil {
				renderReading(out, app.Painter, rec.SoilInput.Data().Reading())
			}
			return nil
		},
	}

	cmd.AddCommand(list, show)
	return cmd
}
