package cli

import (
	"fmt"
	"runtime/debug"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
)

func newVersionCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the client version",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprint(out, figure.NewFigure(app.AppName, "cybermedium", true).String())
			fmt.Fprintln(out)
			fmt.Fprintf(out, "version %s\n", version())
			fmt.Fprintf(out, "api     %s\n", app.Client.BaseURL())
		},
	}
}

func version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" {
		return "(devel)"
	}
	return info.Main.Version
}
