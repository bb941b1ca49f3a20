package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jrsteele09/securecrop-client/api"
	"github.com/jrsteele09/securecrop-client/internal/errors"
	"github.com/jrsteele09/securecrop-client/internal/ui"
	"github.com/spf13/cobra"
)

func newLoginCmd(app *App) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				var err error
				if password, err = readSecret(cmd, bufio.NewReader(cmd.InOrStdin()), "Password: "); err != nil {
					return err
				}
			}

			resp, err := app.API.Auth.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", resp.User.Username, resp.User.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password (read from stdin when omitted)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newRegisterCmd(app *App) *cobra.Command {
	var data api.RegisterData
	var login bool

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if data.Password == "" {
				var err error
				in := bufio.NewReader(cmd.InOrStdin())
				if data.Password, err = readSecret(cmd, in, "Password: "); err != nil {
					return err
				}
				if data.PasswordConfirm, err = readSecret(cmd, in, "Confirm password: "); err != nil {
					return err
				}
			}
			if data.PasswordConfirm == "" {
				data.PasswordConfirm = data.Password
			}

			resp, err := app.API.Auth.Register(cmd.Context(), data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s\n", resp.User.Username)

			if !login {
				return nil
			}
			if _, err := app.API.Auth.Login(cmd.Context(), data.Email, data.Password); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", resp.User.Username)
			return nil
		},
	}

	cmd.Flags().StringVar(&data.Email, "email", "", "Account email")
	cmd.Flags().StringVar(&data.Username, "username", "", "Username")
	cmd.Flags().StringVar(&data.Password, "password", "", "Password (read from stdin when omitted)")
	cmd.Flags().BoolVar(&login, "login", false, "Log in after registering")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.API.Auth.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Check the stored session with the backend and show the user",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := app.API.Auth.Restore(cmd.Context())
			if err != nil {
				return err
			}

			tw := newTable(cmd.OutOrStdout(), table.Row{"Field", "Value"})
			tw.AppendRows([]table.Row{
				{"ID", user.ID},
				{"Username", user.Username},
				{"Email", user.Email},
				{"Role", user.Role},
				{"Joined", orDash(user.CreatedAt)},
			})
			tw.Render()
			return nil
		},
	}
}

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the stored session without contacting the backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := app.Client.Store().Get()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Session file: %s\n", app.SessionFile)
			if session.IsEmpty() {
				return errors.ErrNoSession
			}

			user := "-"
			if session.User != nil {
				user = fmt.Sprintf("%s <%s> %s", session.User.Username, session.User.Email, session.User.Role)
			}

			access := "none"
			if session.HasAccessToken() {
				access = "present"
				if expiry := session.Token().Expiry; !expiry.IsZero() {
					state := app.Painter.Paint(ui.Green, "valid")
					if session.AccessTokenExpired() {
						state = app.Painter.Paint(ui.Red, "expired")
					}
					access = fmt.Sprintf("%s, expires %s", state, expiry.Local().Format(time.RFC1123))
				}
			}
			refresh := "none"
			if session.HasRefreshToken() {
				refresh = "present"
			}

			fmt.Fprintf(out, "User:          %s\n", user)
			fmt.Fprintf(out, "Access token:  %s\n", access)
			fmt.Fprintf(out, "Refresh token: %s\n", refresh)
			return nil
		},
	}
}

// readSecret reads one line from in after printing prompt to stderr.
func readSecret(cmd *cobra.Command, in *bufio.Reader, prompt string) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	line, err := in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read password: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.Wrapf(errors.ErrInvalidRequest, "password is required")
	}
	return line, nil
}
