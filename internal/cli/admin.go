package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jrsteele09/securecrop-client/api"
	"github.com/jrsteele09/securecrop-client/internal/utils"
	"github.com/spf13/cobra"
)

func newAdminCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Audit logs (admin)",
	}

	var anomaly string
	var integrity string
	cyberLogs := &cobra.Command{
		Use:   "cyber-logs",
		Short: "List soil input integrity checks",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := api.CyberLogFilter{IntegrityStatus: integrity}
			if anomaly != "" {
				detected, err := strconv.ParseBool(anomaly)
				if err != nil {
					return fmt.Errorf("--anomaly must be true or false")
				}
				filter.AnomalyDetected = utils.Ptr(detected)
			}

			logs, err := app.API.Admin.CyberLogs(cmd.Context(), filter)
			if err != nil {
				return err
			}
			tw := newTable(cmd.OutOrStdout(), table.Row{"ID", "Input", "User", "Anomaly", "Integrity", "Details", "Time"})
			for _, l := range logs {
				input := "-"
				if l.InputID != nil {
					input = strconv.Itoa(*l.InputID)
				}
				tw.AppendRow(table.Row{l.ID, input, orDash(utils.Value(l.UserUsername)), app.Painter.Flag(l.AnomalyDetected), l.IntegrityStatus, l.Details, l.Timestamp})
			}
			tw.Render()
			return nil
		},
	}
	cyberLogs.Flags().StringVar(&anomaly, "anomaly", "", "Filter on anomaly_detected (true|false)")
	cyberLogs.Flags().StringVar(&integrity, "integrity", "", "Filter on integrity status")

	cyberStats := &cobra.Command{
		Use:   "cyber-stats",
		Short: "Summarise integrity checks",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.API.Admin.CyberLogStats(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Logs: %d  Anomalies: %d  Rate: %.1f%%\n", s.TotalLogs, s.AnomaliesDetected, s.AnomalyRate)
			tw := newTable(out, table.Row{"Integrity", "Count"})
			for _, c := range s.StatusBreakdown {
				tw.AppendRow(table.Row{c.IntegrityStatus, c.Count})
			}
			tw.Render()
			return nil
		},
	}

	actions := &cobra.Command{
		Use:   "actions",
		Short: "List admin actions",
		RunE: func(cmd *cobra.Command, args []string) error {
			logs, err := app.API.Admin.AdminLogs(cmd.Context())
			if err != nil {
				return err
			}
			tw := newTable(cmd.OutOrStdout(), table.Row{"ID", "Admin", "Action", "Time"})
			for _, l := range logs {
				tw.AppendRow(table.Row{l.ID, orDash(l.AdminUsername), l.Action, l.Timestamp})
			}
			tw.Render()
			return nil
		},
	}

	cmd.AddCommand(cyberLogs, cyberStats, actions)
	return cmd
}

func newNotificationsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "Weather alert emails (admin)",
	}

	show := &cobra.Command{
		Use:   "show ID",
		Short: "Show one sent alert",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			payload, err := app.API.Notifications.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), payload)
		},
	}

	var all bool
	var users string
	send := &cobra.Command{
		Use:   "send",
		Short: "Send weather alerts to all eligible users or to --users",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDList(users)
			if err != nil {
				return err
			}
			payload, err := app.API.Notifications.SendAlerts(cmd.Context(), all, ids)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), payload)
		},
	}
	send.Flags().BoolVar(&all, "all", false, "Send to every eligible user")
	send.Flags().StringVar(&users, "users", "", "Comma separated user IDs")

	cmd.AddCommand(
		passthroughCmd("stats", "Show alert statistics", func(cmd *cobra.Command) (api.Payload, error) {
			return app.API.Notifications.Stats(cmd.Context())
		}),
		passthroughCmd("eligible", "List users eligible for alerts", func(cmd *cobra.Command) (api.Payload, error) {
			return app.API.Notifications.EligibleUsers(cmd.Context())
		}),
		passthroughCmd("history", "List sent alerts", func(cmd *cobra.Command) (api.Payload, error) {
			return app.API.Notifications.History(cmd.Context())
		}),
		show,
		send,
	)
	return cmd
}

func parseIDList(s string) ([]int, error) {
	var ids []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := parseID(part)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
