package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jrsteele09/securecrop-client/api"
	"github.com/spf13/cobra"
)

func newFeedbackCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Rate the service",
	}

	var data api.FeedbackData
	submit := &cobra.Command{
		Use:   "submit",
		Short: "Submit a rating (1-5) with comments",
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := app.API.Feedback.Create(cmd.Context(), data)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), orDash(created.Message))
			return nil
		},
	}
	submit.Flags().IntVar(&data.Rating, "rating", 0, "Rating from 1 to 5")
	submit.Flags().StringVar(&data.Comments, "comments", "", "Comments")
	_ = submit.MarkFlagRequired("rating")

	list := &cobra.Command{
		Use:   "list",
		Short: "List feedback",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := app.API.Feedback.List(cmd.Context())
			if err != nil {
				return err
			}
			tw := newTable(cmd.OutOrStdout(), table.Row{"ID", "User", "Rating", "Comments", "Created"})
			for _, e := range entries {
				tw.AppendRow(table.Row{e.ID, orDash(e.UserUsername), e.Rating, e.Comments, e.CreatedAt})
			}
			tw.Render()
			return nil
		},
	}

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show feedback totals (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.API.Feedback.Stats(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Total: %d  Average rating: %.2f\n", s.TotalFeedbacks, s.AverageRating)
			return nil
		},
	}

	cmd.AddCommand(submit, list, stats)
	return cmd
}
