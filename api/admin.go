package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/jrsteele09/securecrop-client/apiclient"
)

// Admin defines the audit log operations (admin only)
type Admin interface {
	CyberLogs(ctx context.Context, filter CyberLogFilter) ([]CyberLog, error)
	CyberLogStats(ctx context.Context) (*CyberLogStats, error)
	AdminLogs(ctx context.Context) ([]AdminLog, error)
}

type adminClient struct {
	client *apiclient.Client
}

func NewAdminClient(client *apiclient.Client) Admin {
	return &adminClient{client: client}
}

func (c *adminClient) CyberLogs(ctx context.Context, filter CyberLogFilter) ([]CyberLog, error) {
	query := url.Values{}
	if filter.AnomalyDetected != nil {
		query.Set("anomaly_detected", strconv.FormatBool(*filter.AnomalyDetected))
	}
	if filter.IntegrityStatus != "" {
		query.Set("integrity_status", filter.IntegrityStatus)
	}
	return getList[CyberLog](ctx, c.client, "/admin/logs/cyber/", query)
}

func (c *adminClient) CyberLogStats(ctx context.Context) (*CyberLogStats, error) {
	var stats CyberLogStats
	if err := getJSON(ctx, c.client, "/admin/logs/cyber/stats/", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *adminClient) AdminLogs(ctx context.Context) ([]AdminLog, error) {
	return getList[AdminLog](ctx, c.client, "/admin/logs/admin-actions/", nil)
}
