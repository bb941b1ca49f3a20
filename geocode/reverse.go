package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jrsteele09/securecrop-client/internal/errors"
)

// Place is one reverse geocoding match.
type Place struct {
	Name    string  `json:"name"`
	State   string  `json:"state,omitempty"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// DisplayName renders "City, State, CC", skipping empty parts.
func (p Place) DisplayName() string {
	parts := make([]string, 0, 3)
	for _, part := range []string{p.Name, p.State, p.Country} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ", ")
}

// Client calls OpenWeatherMap's geocoding API. It is unauthenticated with
// respect to SecureCrop and never sees the session.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// Reverse returns the place nearest to lat/lon.
func (c *Client) Reverse(ctx context.Context, lat, lon float64) (*Place, error) {
	if !c.Enabled() {
		return nil, errors.Wrapf(errors.ErrUnsupported, "reverse geocoding needs OPENWEATHER_API_KEY")
	}

	query := url.Values{
		"lat":   {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon":   {strconv.FormatFloat(lon, 'f', -1, 64)},
		"limit": {"1"},
		"appid": {c.apiKey},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/reverse?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("[geocode Reverse] %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("[geocode Reverse] %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("[geocode Reverse] %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var places []Place
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, fmt.Errorf("[geocode Reverse] decode: %w", err)
	}
	if len(places) == 0 {
		return nil, errors.ErrNotFound
	}
	return &places[0], nil
}
