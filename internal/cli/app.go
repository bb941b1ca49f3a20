package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/jrsteele09/securecrop-client/api"
	"github.com/jrsteele09/securecrop-client/apiclient"
	"github.com/jrsteele09/securecrop-client/geocode"
	"github.com/jrsteele09/securecrop-client/internal/config"
	"github.com/jrsteele09/securecrop-client/internal/errors"
	"github.com/jrsteele09/securecrop-client/internal/ui"
	"github.com/jrsteele09/securecrop-client/sessions/filestore"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// App holds everything the commands share.
type App struct {
	AppName     string
	SessionFile string
	Client      *apiclient.Client
	API         *api.Client
	Geocoder    *geocode.Client
	Painter     ui.Painter
}

// NewApp wires the session file, HTTP client and services from configuration.
func NewApp(c config.Config) *App {
	store := filestore.New(c.GetSessionFile(), c.GetSessionKey())
	client := apiclient.New(c.GetAPIBaseURL(), store,
		apiclient.WithHTTPClient(&http.Client{Timeout: c.GetRequestTimeout()}),
		apiclient.WithRefreshCoalescing(c.GetCoalesceRefresh()),
		apiclient.WithUserAgent(c.GetAppName()+"-cli"),
	)

	return &App{
		AppName:     c.GetAppName(),
		SessionFile: store.Path(),
		Client:      client,
		API:         api.New(client),
		Geocoder:    geocode.New(c.GetGeocodeBaseURL(), c.GetOpenWeatherAPIKey()),
		Painter:     ui.Painter{Enabled: isatty.IsTerminal(os.Stdout.Fd())},
	}
}

// NewRootCmd builds the securecrop command tree.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "securecrop",
		Short:         "Command line client for the SecureCrop crop recommendation API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newLoginCmd(app),
		newRegisterCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newStatusCmd(app),
		newSoilCmd(app),
		newRecommendationsCmd(app),
		newFeedbackCmd(app),
		newAdminCmd(app),
		newNotificationsCmd(app),
		newContactCmd(app),
		newWeatherCmd(app),
		newMarketCmd(app),
		newRequestCmd(app),
		newVersionCmd(app),
	)
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, root *cobra.Command, stderr io.Writer) int {
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, DescribeError(err))
		return 1
	}
	return 0
}

// DescribeError turns a command error into the line shown to the user.
func DescribeError(err error) string {
	var httpErr *apiclient.HTTPError
	switch {
	case errors.Is(err, apiclient.ErrAuthenticationRequired):
		return "Your session has expired. Please log in again with 'securecrop login'."
	case errors.Is(err, errors.ErrNoSession):
		return "Not logged in. Run 'securecrop login' first."
	case errors.As(err, &httpErr):
		if httpErr.IsUnauthorized() {
			return "Not authorised: " + httpErr.Message()
		}
		return fmt.Sprintf("Request failed (%d): %s", httpErr.StatusCode, httpErr.Message())
	default:
		return "Error: " + err.Error()
	}
}
