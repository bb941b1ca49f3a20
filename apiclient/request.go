package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/jrsteele09/securecrop-client/internal/errors"
)

const (
	contentTypeJSON = "application/json"
	contentTypeForm = "application/x-www-form-urlencoded"

	headerRequestID = "X-Request-ID"
)

// Request describes one logical call to the backend. The same Request is
// sent again, unchanged apart from its bearer token, when a refresh succeeds.
type Request struct {
	Method string
	Path   string // Relative to the client's base URL, e.g. "/soil-inputs/"
	Query  url.Values
	Header http.Header

	// Body is JSON encoded, except []byte which is sent as is with
	// ContentType, and url.Values which is form encoded.
	Body        any
	ContentType string

	// Anonymous requests carry no bearer token and a 401 is returned as is.
	Anonymous bool

	id       string
	retried  bool
	prepared bool
	payload  []byte
}

// Retried reports whether the request has been resent after a refresh.
func (r *Request) Retried() bool {
	return r.retried
}

// ID returns the X-Request-ID shared by every attempt of the request.
func (r *Request) ID() string {
	return r.id
}

func (r *Request) prepare() error {
	if r.prepared {
		return nil
	}
	if r.Method == "" {
		r.Method = http.MethodGet
	}
	if !strings.HasPrefix(r.Path, "/") {
		return errors.Wrapf(errors.ErrInvalidRequest, "path %q must start with /", r.Path)
	}
	r.id = uuid.NewString()

	switch body := r.Body.(type) {
	case nil:
	case []byte:
		r.payload = body
		if r.ContentType == "" {
			r.ContentType = contentTypeJSON
		}
	case url.Values:
		r.payload = []byte(body.Encode())
		if r.ContentType == "" {
			r.ContentType = contentTypeForm
		}
	default:
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("[apiclient] encode %s %s body: %w", r.Method, r.Path, err)
		}
		r.payload = payload
		if r.ContentType == "" {
			r.ContentType = contentTypeJSON
		}
	}

	r.prepared = true
	return nil
}

// build creates the wire request for one attempt. The payload is replayed
// from memory so every attempt sends an identical body.
func (r *Request) build(ctx context.Context, baseURL, userAgent string) (*http.Request, error) {
	target := baseURL + r.Path
	if len(r.Query) > 0 {
		target += "?" + r.Query.Encode()
	}

	var body io.Reader
	if r.payload != nil {
		body = bytes.NewReader(r.payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, r.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("[apiclient] build %s %s: %w", r.Method, r.Path, err)
	}

	for key, values := range r.Header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	if r.payload != nil {
		httpReq.Header.Set("Content-Type", r.ContentType)
	}
	httpReq.Header.Set("Accept", contentTypeJSON)
	httpReq.Header.Set(headerRequestID, r.id)
	if userAgent != "" {
		httpReq.Header.Set("User-Agent", userAgent)
	}
	return httpReq, nil
}
