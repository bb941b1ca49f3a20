package cli

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jrsteele09/securecrop-client/api"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// position holds the optional --lat/--lon flags of a command.
type position struct {
	lat, lon float64
}

func (p *position) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&p.lat, "lat", 0, "Latitude (defaults to your saved location)")
	cmd.Flags().Float64Var(&p.lon, "lon", 0, "Longitude (defaults to your saved location)")
	cmd.MarkFlagsRequiredTogether("lat", "lon")
}

// coordinates returns nil unless --lat and --lon were given.
func (p *position) coordinates(cmd *cobra.Command) *api.Coordinates {
	if !cmd.Flags().Changed("lat") {
		return nil
	}
	return &api.Coordinates{Lat: p.lat, Lon: p.lon}
}

func newWeatherCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weather",
		Short: "Weather dashboard",
	}

	withPosition := func(use, short string, call func(cmd *cobra.Command, at *api.Coordinates) (api.Payload, error)) *cobra.Command {
		var pos position
		c := &cobra.Command{
			Use:   use,
			Short: short,
			RunE: func(cmd *cobra.Command, args []string) error {
				at := pos.coordinates(cmd)
				describePosition(cmd, app, at)
				payload, err := call(cmd, at)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), payload)
			},
		}
		pos.register(c)
		return c
	}

	var days int
	forecast := withPosition("forecast", "Daily forecast", func(cmd *cobra.Command, at *api.Coordinates) (api.Payload, error) {
		return app.API.Weather.Forecast(cmd.Context(), at, days)
	})
	forecast.Flags().IntVar(&days, "days", 3, "Number of days")

	var crop string
	insights := withPosition("insights", "Farming insights for a crop", func(cmd *cobra.Command, at *api.Coordinates) (api.Payload, error) {
		return app.API.Weather.Insights(cmd.Context(), crop, at)
	})
	insights.Flags().StringVar(&crop, "crop", "", "Crop name")

	var historyDays int
	history := passthroughCmd("history", "Recorded weather", func(cmd *cobra.Command) (api.Payload, error) {
		return app.API.Weather.History(cmd.Context(), historyDays)
	})
	history.Flags().IntVar(&historyDays, "days", 7, "Number of days")

	read := &cobra.Command{
		Use:   "read ID",
		Short: "Mark a stored alert as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			payload, err := app.API.Weather.MarkAlertRead(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), payload)
		},
	}

	var location api.Location
	setLocation := &cobra.Command{
		Use:   "set-location",
		Short: "Save your farm location",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := app.API.Weather.UpdateLocation(cmd.Context(), location)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), payload)
		},
	}
	lf := setLocation.Flags()
	lf.StringVar(&location.City, "city", "", "City")
	lf.StringVar(&location.State, "state", "", "State")
	lf.Float64Var(&location.Latitude, "lat", 0, "Latitude")
	lf.Float64Var(&location.Longitude, "lon", 0, "Longitude")
	_ = setLocation.MarkFlagRequired("city")
	_ = setLocation.MarkFlagRequired("lat")
	_ = setLocation.MarkFlagRequired("lon")

	cmd.AddCommand(
		withPosition("current", "Current conditions", func(cmd *cobra.Command, at *api.Coordinates) (api.Payload, error) {
			return app.API.Weather.Current(cmd.Context(), at)
		}),
		forecast,
		withPosition("alerts", "Live weather alerts", func(cmd *cobra.Command, at *api.Coordinates) (api.Payload, error) {
			return app.API.Weather.Alerts(cmd.Context(), at)
		}),
		passthroughCmd("stored-alerts", "Alerts saved for your account", func(cmd *cobra.Command) (api.Payload, error) {
			return app.API.Weather.StoredAlerts(cmd.Context())
		}),
		read,
		withPosition("risk", "Crop risk score", func(cmd *cobra.Command, at *api.Coordinates) (api.Payload, error) {
			return app.API.Weather.RiskScore(cmd.Context(), at)
		}),
		insights,
		history,
		passthroughCmd("location", "Show your saved location", func(cmd *cobra.Command) (api.Payload, error) {
			return app.API.Weather.Location(cmd.Context())
		}),
		setLocation,
	)
	return cmd
}

func newMarketCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "market",
		Short: "Find markets, buyers and agricultural stores",
	}

	var pos position
	var radius float64
	var placeType string
	search := &cobra.Command{
		Use:   "search",
		Short: "Search around a position, nearest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			at := api.Coordinates{Lat: pos.lat, Lon: pos.lon}
			describePosition(cmd, app, &at)

			places, err := app.API.Market.Search(cmd.Context(), at, radius)
			if err != nil {
				return err
			}
			if placeType != "" {
				places = api.FilterPlaces(places, api.PlaceType(placeType))
			}
			renderPlaces(cmd.OutOrStdout(), places)
			return nil
		},
	}
	search.Flags().Float64Var(&pos.lat, "lat", 0, "Latitude")
	search.Flags().Float64Var(&pos.lon, "lon", 0, "Longitude")
	search.Flags().Float64Var(&radius, "radius", 10, "Search radius in km")
	search.Flags().StringVar(&placeType, "type", "", "Only show market, buyer or agri_store")
	_ = search.MarkFlagRequired("lat")
	_ = search.MarkFlagRequired("lon")

	cmd.AddCommand(search)
	return cmd
}

func renderPlaces(out io.Writer, places []api.Place) {
	tw := newTable(out, table.Row{"Name", "Type", "Distance (km)", "Address", "Phone", "Hours"})
	for _, p := range places {
		tw.AppendRow(table.Row{p.Name, p.Type, fmt.Sprintf("%.1f", p.DistanceKM), orDash(p.Address), orDash(p.Phone), orDash(p.OpeningHours)})
	}
	tw.AppendFooter(table.Row{"", "Found", len(places)})
	tw.Render()
}

// describePosition prints the place name for at when geocoding is configured.
func describePosition(cmd *cobra.Command, app *App, at *api.Coordinates) {
	if at == nil || app.Geocoder == nil || !app.Geocoder.Enabled() {
		return
	}
	place, err := app.Geocoder.Reverse(cmd.Context(), at.Lat, at.Lon)
	if err != nil {
		log.Debug().Err(err).Float64("lat", at.Lat).Float64("lon", at.Lon).Msg("reverse geocoding failed")
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Location: %s\n", place.DisplayName())
}
