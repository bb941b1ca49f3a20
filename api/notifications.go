package api

import (
	"context"
	"fmt"

	"github.com/jrsteele09/securecrop-client/apiclient"
	"github.com/jrsteele09/securecrop-client/internal/errors"
)

// Notifications defines the weather alert broadcast operations (admin only).
// Responses are passed through as returned by the backend.
type Notifications interface {
	Stats(ctx context.Context) (Payload, error)
	EligibleUsers(ctx context.Context) (Payload, error)
	History(ctx context.Context) (Payload, error)
	Get(ctx context.Context, alertID int) (Payload, error)
	// SendAlerts emails weather alerts to every eligible user, or to userIDs
	// when sendToAll is false.
	SendAlerts(ctx context.Context, sendToAll bool, userIDs []int) (Payload, error)
}

type notificationClient struct {
	client *apiclient.Client
}

func NewNotificationClient(client *apiclient.Client) Notifications {
	return &notificationClient{client: client}
}

type sendAlertsRequest struct {
	SendToAll bool  `json:"send_to_all"`
	UserIDs   []int `json:"user_ids,omitempty"`
}

func (c *notificationClient) Stats(ctx context.Context) (Payload, error) {
	return c.get(ctx, "/notifications/stats/")
}

func (c *notificationClient) EligibleUsers(ctx context.Context) (Payload, error) {
	return c.get(ctx, "/notifications/eligible-users/")
}

func (c *notificationClient) History(ctx context.Context) (Payload, error) {
	return c.get(ctx, "/notifications/history/")
}

func (c *notificationClient) Get(ctx context.Context, alertID int) (Payload, error) {
	return c.get(ctx, fmt.Sprintf("/notifications/%d/", alertID))
}

func (c *notificationClient) SendAlerts(ctx context.Context, sendToAll bool, userIDs []int) (Payload, error) {
	if !sendToAll && len(userIDs) == 0 {
		return nil, errors.Wrapf(errors.ErrInvalidRequest, "no recipients selected")
	}

	var payload Payload
	if err := postJSON(ctx, c.client, "/notifications/send-alerts/", sendAlertsRequest{SendToAll: sendToAll, UserIDs: userIDs}, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (c *notificationClient) get(ctx context.Context, path string) (Payload, error) {
	var payload Payload
	if err := getJSON(ctx, c.client, path, nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}
