package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/jrsteele09/securecrop-client/api"
	"github.com/jrsteele09/securecrop-client/apiclient"
	"github.com/jrsteele09/securecrop-client/internal/errors"
	"github.com/spf13/cobra"
)

func newRequestCmd(app *App) *cobra.Command {
	var data string
	var params []string
	var anonymous bool

	cmd := &cobra.Command{
		Use:   "request METHOD PATH",
		Short: "Send a raw request with the stored session, e.g. request GET /auth/me/",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			method := strings.ToUpper(args[0])
			req := &apiclient.Request{Method: method, Path: args[1], Anonymous: anonymous}

			if len(params) > 0 {
				req.Query = url.Values{}
				for _, p := range params {
					key, value, ok := strings.Cut(p, "=")
					if !ok {
						return errors.Wrapf(errors.ErrInvalidRequest, "query parameter %q is not key=value", p)
					}
					req.Query.Add(key, value)
				}
			}
			if data != "" {
				if !json.Valid([]byte(data)) {
					return errors.Wrapf(errors.ErrInvalidRequest, "--data is not valid JSON")
				}
				req.Body = json.RawMessage(data)
			}

			resp, err := app.Client.Do(cmd.Context(), req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			fmt.Fprintf(cmd.ErrOrStderr(), "%s %s -> %d (request %s)\n", app.Painter.Method(method), req.Path, resp.StatusCode, req.ID())
			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("read response: %w", err)
			}
			if len(body) == 0 {
				return nil
			}
			if !json.Valid(body) {
				_, err = cmd.OutOrStdout().Write(body)
				return err
			}
			return printJSON(cmd.OutOrStdout(), api.Payload(body))
		},
	}

	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON request body")
	cmd.Flags().StringArrayVarP(&params, "query", "q", nil, "Query parameter key=value (repeatable)")
	cmd.Flags().BoolVar(&anonymous, "anonymous", false, "Send without the session's bearer token")
	return cmd
}
