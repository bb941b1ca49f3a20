package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jrsteele09/securecrop-client/apiclient"
)

// Client groups the endpoint services of the SecureCrop API. Every service
// shares one apiclient.Client and therefore one session.
type Client struct {
	Auth            Auth
	Soil            Soil
	Recommendations Recommendations
	Feedback        Feedback
	Admin           Admin
	Notifications   Notifications
	Contact         Contact
	Weather         Weather
	Market          Market
}

func New(client *apiclient.Client) *Client {
	return &Client{
		Auth:            NewAuthClient(client),
		Soil:            NewSoilClient(client),
		Recommendations: NewRecommendationClient(client),
		Feedback:        NewFeedbackClient(client),
		Admin:           NewAdminClient(client),
		Notifications:   NewNotificationClient(client),
		Contact:         NewContactClient(client),
		Weather:         NewWeatherClient(client),
		Market:          NewMarketClient(client),
	}
}

func getJSON(ctx context.Context, c *apiclient.Client, path string, query url.Values, v any) error {
	resp, err := c.Get(ctx, path, query)
	if err != nil {
		return err
	}
	return apiclient.DecodeResponse(resp, v)
}

func getList[T any](ctx context.Context, c *apiclient.Client, path string, query url.Values) ([]T, error) {
	resp, err := c.Get(ctx, path, query)
	if err != nil {
		return nil, err
	}
	return apiclient.DecodeList[T](resp)
}

func sendJSON(ctx context.Context, c *apiclient.Client, method, path string, body, v any) error {
	resp, err := c.Do(ctx, &apiclient.Request{Method: method, Path: path, Body: body})
	if err != nil {
		return err
	}
	return apiclient.DecodeResponse(resp, v)
}

func postJSON(ctx context.Context, c *apiclient.Client, path string, body, v any) error {
	return sendJSON(ctx, c, http.MethodPost, path, body, v)
}

// postAnonymous sends body without a bearer token (login, register, public forms).
func postAnonymous(ctx context.Context, c *apiclient.Client, path string, body, v any) error {
	resp, err := c.Do(ctx, &apiclient.Request{Method: http.MethodPost, Path: path, Body: body, Anonymous: true})
	if err != nil {
		return err
	}
	return apiclient.DecodeResponse(resp, v)
}
