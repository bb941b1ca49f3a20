package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jrsteele09/securecrop-client/api"
	"github.com/spf13/cobra"
)

func newContactCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Contact inquiries",
	}

	var data api.ContactInquiryData
	submit := &cobra.Command{
		Use:   "submit",
		Short: "Send an inquiry (no login needed)",
		RunE: func(cmd *cobra.Command, args []string) error {
			inquiry, err := app.API.Contact.Submit(cmd.Context(), data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Inquiry #%d received (%s)\n", inquiry.ID, inquiry.Status)
			return nil
		},
	}
	sf := submit.Flags()
	sf.StringVar(&data.Name, "name", "", "Your name")
	sf.StringVar(&data.Email, "email", "", "Reply address")
	sf.StringVar(&data.Phone, "phone", "", "Phone number")
	sf.StringVar(&data.Subject, "subject", "", "Subject")
	sf.StringVar(&data.Message, "message", "", "Message")
	sf.StringVar(&data.Category, "category", "", "Category")

	var filter api.ContactFilter
	var status string
	list := &cobra.Command{
		Use:   "list",
		Short: "List inquiries (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter.Status = api.InquiryStatus(status)
			inquiries, err := app.API.Contact.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			tw := newTable(cmd.OutOrStdout(), table.Row{"ID", "Name", "Email", "Subject", "Category", "Status", "Created"})
			for _, q := range inquiries {
				tw.AppendRow(table.Row{q.ID, q.Name, q.Email, q.Subject, orDash(q.Category), q.Status, q.CreatedAt})
			}
			tw.Render()
			return nil
		},
	}
	list.Flags().StringVar(&status, "status", "", "Filter by status (pending|in_progress|resolved|closed)")
	list.Flags().StringVar(&filter.Category, "category", "", "Filter by category")

	show := &cobra.Command{
		Use:   "show ID",
		Short: "Show one inquiry (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			inquiry, err := app.API.Contact.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), inquiry)
		},
	}

	setStatus := &cobra.Command{
		Use:   "status ID STATUS",
		Short: "Change an inquiry's status (admin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			payload, err := app.API.Contact.UpdateStatus(cmd.Context(), id, api.InquiryStatus(args[1]))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), payload)
		},
	}

	reply := &cobra.Command{
		Use:   "reply ID MESSAGE",
		Short: "Email a reply to an inquiry (admin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			payload, err := app.API.Contact.Reply(cmd.Context(), id, args[1])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), payload)
		},
	}

	cmd.AddCommand(
		submit,
		list,
		passthroughCmd("stats", "Show inquiry statistics (admin)", func(cmd *cobra.Command) (api.Payload, error) {
			return app.API.Contact.Stats(cmd.Context())
		}),
		show,
		setStatus,
		reply,
	)
	return cmd
}
