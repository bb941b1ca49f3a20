package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/jrsteele09/securecrop-client/apiclient"
	"github.com/jrsteele09/securecrop-client/internal/errors"
)

// Contact defines the contact inquiry operations. Submit is public; the
// rest are admin only.
type Contact interface {
	Submit(ctx context.Context, data ContactInquiryData) (*ContactInquiry, error)
	List(ctx context.Context, filter ContactFilter) ([]ContactInquiry, error)
	Stats(ctx context.Context) (Payload, error)
	Get(ctx context.Context, inquiryID int) (*ContactInquiry, error)
	UpdateStatus(ctx context.Context, inquiryID int, status InquiryStatus) (Payload, error)
	Reply(ctx context.Context, inquiryID int, reply string) (Payload, error)
}

type contactClient struct {
	client *apiclient.Client
}

func NewContactClient(client *apiclient.Client) Contact {
	return &contactClient{client: client}
}

func (c *contactClient) Submit(ctx context.Context, data ContactInquiryData) (*ContactInquiry, error) {
	if strings.TrimSpace(data.Email) == "" || strings.TrimSpace(data.Message) == "" {
		return nil, errors.Wrapf(errors.ErrInvalidRequest, "email and message are required")
	}

	var inquiry ContactInquiry
	if err := postAnonymous(ctx, c.client, "/contact/inquiries/", data, &inquiry); err != nil {
		return nil, err
	}
	return &inquiry, nil
}

func (c *contactClient) List(ctx context.Context, filter ContactFilter) ([]ContactInquiry, error) {
	query := url.Values{}
	if filter.Status != "" {
		query.Set("status", string(filter.Status))
	}
	if filter.Category != "" {
		query.Set("category", filter.Category)
	}
	return getList[ContactInquiry](ctx, c.client, "/contact/admin/list/", query)
}

func (c *contactClient) Stats(ctx context.Context) (Payload, error) {
	var payload Payload
	if err := getJSON(ctx, c.client, "/contact/admin/stats/", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (c *contactClient) Get(ctx context.Context, inquiryID int) (*ContactInquiry, error) {
	var inquiry ContactInquiry
	if err := getJSON(ctx, c.client, fmt.Sprintf("/contact/admin/%d/", inquiryID), nil, &inquiry); err != nil {
		return nil, err
	}
	return &inquiry, nil
}

func (c *contactClient) UpdateStatus(ctx context.Context, inquiryID int, status InquiryStatus) (Payload, error) {
	if !ValidInquiryStatus(status) {
		return nil, errors.Wrapf(errors.ErrInvalidRequest, "unknown inquiry status %q", status)
	}

	var payload Payload
	path := fmt.Sprintf("/contact/admin/%d/update/", inquiryID)
	if err := sendJSON(ctx, c.client, http.MethodPatch, path, map[string]InquiryStatus{"status": status}, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (c *contactClient) Reply(ctx context.Context, inquiryID int, reply string) (Payload, error) {
	if strings.TrimSpace(reply) == "" {
		return nil, errors.Wrapf(errors.ErrInvalidRequest, "reply is empty")
	}

	var payload Payload
	path := fmt.Sprintf("/contact/admin/%d/reply/", inquiryID)
	if err := postJSON(ctx, c.client, path, map[string]string{"reply": reply}, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}
