package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/jrsteele09/securecrop-client/apiclient"
	"github.com/jrsteele09/securecrop-client/internal/errors"
)

const (
	defaultForecastDays = 3
	defaultHistoryDays  = 7
)

// Weather defines the weather dashboard operations. A nil position makes
// the backend use the user's saved location. Responses are passed through.
type Weather interface {
	Current(ctx context.Context, at *Coordinates) (Payload, error)
	Forecast(ctx context.Context, at *Coordinates, days int) (Payload, error)
	Alerts(ctx context.Context, at *Coordinates) (Payload, error)
	StoredAlerts(ctx context.Context) (Payload, error)
	MarkAlertRead(ctx context.Context, alertID int) (Payload, error)
	RiskScore(ctx context.Context, at *Coordinates) (Payload, error)
	Insights(ctx context.Context, crop string, at *Coordinates) (Payload, error)
	History(ctx context.Context, days int) (Payload, error)
	Location(ctx context.Context) (Payload, error)
	UpdateLocation(ctx context.Context, location Location) (Payload, error)
}

type weatherClient struct {
	client *apiclient.Client
}

func NewWeatherClient(client *apiclient.Client) Weather {
	return &weatherClient{client: client}
}

func (c *weatherClient) Current(ctx context.Context, at *Coordinates) (Payload, error) {
	return c.get(ctx, "/weather/current/", positionQuery(at))
}

func (c *weatherClient) Forecast(ctx context.Context, at *Coordinates, days int) (Payload, error) {
	if days <= 0 {
		days = defaultForecastDays
	}
	query := positionQuery(at)
	query.Set("days", strconv.Itoa(days))
	return c.get(ctx, "/weather/forecast/", query)
}

func (c *weatherClient) Alerts(ctx context.Context, at *Coordinates) (Payload, error) {
	return c.get(ctx, "/weather/alerts/", positionQuery(at))
}

func (c *weatherClient) StoredAlerts(ctx context.Context) (Payload, error) {
	return c.get(ctx, "/weather/alerts/stored/", nil)
}

func (c *weatherClient) MarkAlertRead(ctx context.Context, alertID int) (Payload, error) {
	var payload Payload
	if err := postJSON(ctx, c.client, fmt.Sprintf("/weather/alerts/%d/read/", alertID), struct{}{}, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (c *weatherClient) RiskScore(ctx context.Context, at *Coordinates) (Payload, error) {
	return c.get(ctx, "/weather/risk-score/", positionQuery(at))
}

func (c *weatherClient) Insights(ctx context.Context, crop string, at *Coordinates) (Payload, error) {
	query := positionQuery(at)
	if crop != "" {
		query.Set("crop", crop)
	}
	return c.get(ctx, "/weather/insights/", query)
}

func (c *weatherClient) History(ctx context.Context, days int) (Payload, error) {
	if days <= 0 {
		days = defaultHistoryDays
	}
	return c.get(ctx, "/weather/history/", url.Values{"days": {strconv.Itoa(days)}})
}

func (c *weatherClient) Location(ctx context.Context) (Payload, error) {
	return c.get(ctx, "/weather/location/", nil)
}

func (c *weatherClient) UpdateLocation(ctx context.Context, location Location) (Payload, error) {
	if location.City == "" {
		return nil, errors.Wrapf(errors.ErrInvalidRequest, "city is required")
	}
	if err := validateCoordinates(Coordinates{Lat: location.Latitude, Lon: location.Longitude}); err != nil {
		return nil, err
	}

	var payload Payload
	if err := postJSON(ctx, c.client, "/weather/location/", location, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (c *weatherClient) get(ctx context.Context, path string, query url.Values) (Payload, error) {
	var payload Payload
	if err := getJSON(ctx, c.client, path, query, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// positionQuery returns lat/lon parameters, or an empty set for a nil position.
func positionQuery(at *Coordinates) url.Values {
	query := url.Values{}
	if at == nil {
		return query
	}
	query.Set("lat", strconv.FormatFloat(at.Lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(at.Lon, 'f', -1, 64))
	return query
}

func validateCoordinates(at Coordinates) error {
	if at.Lat < -90 || at.Lat > 90 {
		return errors.Wrapf(errors.ErrOutOfRange, "latitude %v", at.Lat)
	}
	if at.Lon < -180 || at.Lon > 180 {
		return errors.Wrapf(errors.ErrOutOfRange, "longitude %v", at.Lon)
	}
	return nil
}
