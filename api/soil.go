package api

import (
	"context"
	"fmt"

	"github.com/jrsteele09/securecrop-client/apiclient"
	"github.com/jrsteele09/securecrop-client/soil"
)

// Soil defines the soil input operations
type Soil interface {
	// Create submits a reading and returns the backend's recommendation.
	Create(ctx context.Context, data SoilInputData) (*SoilInputResponse, error)
	List(ctx context.Context) ([]SoilInput, error)
	Get(ctx context.Context, id int) (*SoilInput, error)
	// ListAll returns every user's readings (admin only).
	ListAll(ctx context.Context) ([]SoilInput, error)
}

type soilClient struct {
	client *apiclient.Client
}

func NewSoilClient(client *apiclient.Client) Soil {
	return &soilClient{client: client}
}

func (c *soilClient) Create(ctx context.Context, data SoilInputData) (*SoilInputResponse, error) {
	if err := soil.Validate(data.Reading()); err != nil {
		return nil, err
	}

	var response SoilInputResponse
	if err := postJSON(ctx, c.client, "/soil-inputs/create/", data, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

func (c *soilClient) List(ctx context.Context) ([]SoilInput, error) {
	return getList[SoilInput](ctx, c.client, "/soil-inputs/", nil)
}

func (c *soilClient) Get(ctx context.Context, id int) (*SoilInput, error) {
	var input SoilInput
	if err := getJSON(ctx, c.client, fmt.Sprintf("/soil-inputs/%d/", id), nil, &input); err != nil {
		return nil, err
	}
	return &input, nil
}

func (c *soilClient) ListAll(ctx context.Context) ([]SoilInput, error) {
	return getList[SoilInput](ctx, c.client, "/soil-inputs/admin/all/", nil)
}

// Reading converts the submission into the values the soil package rates.
func (d SoilInputData) Reading() soil.Reading {
	return soil.Reading{
		soil.Nitrogen:    d.NLevel,
		soil.Phosphorus:  d.PLevel,
		soil.Potassium:   d.KLevel,
		soil.PH:          d.PH,
		soil.Moisture:    d.Moisture,
		soil.Temperature: d.Temperature,
	}
}
