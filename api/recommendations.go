package api

import (
	"context"
	"fmt"

	"github.com/jrsteele09/securecrop-client/apiclient"
)

// Recommendations defines the crop recommendation operations
type Recommendations interface {
	List(ctx context.Context) ([]Recommendation, error)
	Get(ctx context.Context, id int) (*Recommendation, error)
}

type recommendationClient struct {
	client *apiclient.Client
}

func NewRecommendationClient(client *apiclient.Client) Recommendations {
	return &recommendationClient{client: client}
}

func (c *recommendationClient) List(ctx context.Context) ([]Recommendation, error) {
	return getList[Recommendation](ctx, c.client, "/recommendations/", nil)
}

func (c *recommendationClient) Get(ctx context.Context, id int) (*Recommendation, error) {
	var rec Recommendation
	if err := getJSON(ctx, c.client, fmt.Sprintf("/recommendations/%d/", id), nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}
