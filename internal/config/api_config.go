package config

import (
	"strings"
	"time"
)

const (
	apiURLVar          = "SECURECROP_API_URL"
	requestTimeoutVar  = "SECURECROP_REQUEST_TIMEOUT"
	coalesceRefreshVar = "SECURECROP_COALESCE_REFRESH"
)

type API struct{}

var _ APIConfig = API{}

// GetAPIBaseURL returns the backend API root without a trailing slash
// (e.g. "http://127.0.0.1:8000/api"). Endpoint paths are joined onto it.
func (API) GetAPIBaseURL() string {
	return strings.TrimRight(GetEnv(apiURLVar, "http://127.0.0.1:8000/api"), "/")
}

func (API) GetRequestTimeout() time.Duration {
	return GetEnvDuration(requestTimeoutVar, 30*time.Second)
}

// GetCoalesceRefresh reports whether concurrent 401s share one refresh call.
func (API) GetCoalesceRefresh() bool {
	return GetEnvBool(coalesceRefreshVar, true)
}
