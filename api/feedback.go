package api

import (
	"context"

	"github.com/jrsteele09/securecrop-client/apiclient"
	"github.com/jrsteele09/securecrop-client/internal/errors"
)

// Feedback defines the feedback operations
type Feedback interface {
	Create(ctx context.Context, data FeedbackData) (*FeedbackCreated, error)
	List(ctx context.Context) ([]FeedbackEntry, error)
	Stats(ctx context.Context) (*FeedbackStats, error)
}

type feedbackClient struct {
	client *apiclient.Client
}

func NewFeedbackClient(client *apiclient.Client) Feedback {
	return &feedbackClient{client: client}
}

func (c *feedbackClient) Create(ctx context.Context, data FeedbackData) (*FeedbackCreated, error) {
	if data.Rating < 1 || data.Rating > 5 {
		return nil, errors.Wrapf(errors.ErrOutOfRange, "rating %d must be between 1 and 5", data.Rating)
	}

	var created FeedbackCreated
	if err := postJSON(ctx, c.client, "/feedback/create/", data, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *feedbackClient) List(ctx context.Context) ([]FeedbackEntry, error) {
	return getList[FeedbackEntry](ctx, c.client, "/feedback/", nil)
}

func (c *feedbackClient) Stats(ctx context.Context) (*FeedbackStats, error) {
	var stats FeedbackStats
	if err := getJSON(ctx, c.client, "/feedback/stats/", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
