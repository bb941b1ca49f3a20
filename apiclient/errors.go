package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// ErrAuthenticationRequired is in the chain of every terminal authentication
// failure. The session has been cleared and the user has to log in again.
var ErrAuthenticationRequired = errors.New("authentication required")

// HTTPError is returned for every response outside the 2xx range.
type HTTPError struct {
	Method     string
	Path       string
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (e *HTTPError) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	if detail := e.Message(); detail != "" {
		msg += ": " + detail
	}
	return msg
}

// IsUnauthorized reports a 401 response.
func (e *HTTPError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// Message extracts the backend's human readable error. The API answers
// {"error": "..."}, {"detail": "..."} or field errors such as
// {"email": ["already registered"]}.
func (e *HTTPError) Message() string {
	var body map[string]any
	if err := json.Unmarshal(e.Body, &body); err != nil {
		return strings.TrimSpace(string(truncate(e.Body, 200)))
	}

	for _, key := range []string{"error", "detail", "message"} {
		if s, ok := body[key].(string); ok && s != "" {
			return s
		}
	}

	fields := make([]string, 0, len(body))
	for field := range body {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		if list, ok := body[field].([]any); ok && len(list) > 0 {
			if s, ok := list[0].(string); ok {
				return fmt.Sprintf("%s: %s", field, s)
			}
		}
	}
	return ""
}

// AuthError is a terminal authentication failure: the refresh token was
// rejected (or the refresh call failed) and the session has been cleared.
type AuthError struct {
	Cause error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s: session cleared: %v", ErrAuthenticationRequired, e.Cause)
}

func (e *AuthError) Unwrap() []error {
	return []error{ErrAuthenticationRequired, e.Cause}
}

// StatusCode returns the HTTP status carried by err, or 0 when err is not an
// HTTPError.
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
