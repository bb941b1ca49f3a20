package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	apperrors "github.com/jrsteele09/securecrop-client/internal/errors"
	"github.com/rs/zerolog/log"
)

// refreshRequest is the body of POST /auth/token/refresh/.
type refreshRequest struct {
	Refresh string `json:"refresh"`
}

// refreshResponse carries the new access token and, when the backend rotates
// refresh tokens, a new refresh token.
type refreshResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

type refreshCall struct {
	done   chan struct{}
	access string
	err    error
}

// refresh exchanges refreshToken for a new access token and stores it. On
// failure the session is cleared and an *AuthError returned. With coalescing
// enabled, callers arriving while a refresh is in flight share its outcome,
// and a caller whose rejected token has already been replaced in the store
// reuses the stored token.
func (c *Client) refresh(ctx context.Context, refreshToken, rejectedToken string) (string, error) {
	if !c.coalesce {
		return c.refreshAndStore(ctx, refreshToken)
	}

	c.refreshLock.Lock()
	call := c.inflight
	if call == nil {
		if session, err := c.store.Get(); err == nil && session.HasAccessToken() && session.AccessToken != rejectedToken {
			c.refreshLock.Unlock()
			return session.AccessToken, nil
		}
		call = &refreshCall{done: make(chan struct{})}
		c.inflight = call
		// Detached so one caller's cancellation does not fail the others.
		go c.runRefresh(context.WithoutCancel(ctx), call, refreshToken)
	}
	c.refreshLock.Unlock()

	select {
	case <-call.done:
		return call.access, call.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (c *Client) runRefresh(ctx context.Context, call *refreshCall, refreshToken string) {
	call.access, call.err = c.refreshAndStore(ctx, refreshToken)

	c.refreshLock.Lock()
	c.inflight = nil
	c.refreshLock.Unlock()
	close(call.done)
}

func (c *Client) refreshAndStore(ctx context.Context, refreshToken string) (string, error) {
	tokens, err := c.callRefresh(ctx, refreshToken)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			// The caller gave up; that says nothing about the refresh token.
			return "", ctxErr
		}
		log.Warn().Err(err).Msg("token refresh failed, clearing session")
		if clearErr := c.store.Clear(); clearErr != nil {
			log.Error().Err(clearErr).Msg("failed to clear session after refresh failure")
		}
		return "", &AuthError{Cause: err}
	}

	session, err := c.store.Get()
	if err != nil {
		log.Warn().Err(err).Msg("session unreadable after refresh, retrying with new token only")
		return tokens.Access, nil
	}
	session.AccessToken = tokens.Access
	if tokens.Refresh != "" {
		session.RefreshToken = tokens.Refresh
	}
	if err := c.store.Set(session); err != nil {
		log.Warn().Err(err).Msg("failed to store refreshed access token")
	}

	log.Info().Bool("rotated", tokens.Refresh != "").Msg("access token refreshed")
	return tokens.Access, nil
}

// callRefresh posts the refresh token. It bypasses Do: the call carries no
// bearer and its own 401 must never trigger another refresh.
func (c *Client) callRefresh(ctx context.Context, refreshToken string) (*refreshResponse, error) {
	req := &Request{
		Method:    http.MethodPost,
		Path:      c.refreshPath,
		Body:      refreshRequest{Refresh: refreshToken},
		Anonymous: true,
	}
	if err := req.prepare(); err != nil {
		return nil, err
	}

	resp, err := c.send(ctx, req, "")
	if err != nil {
		return nil, fmt.Errorf("[apiclient refresh] %w", err)
	}
	resp, err = checkStatus(req, resp)
	if err != nil {
		return nil, errors.Join(apperrors.ErrRefreshRejected, err)
	}

	var tokens refreshResponse
	if err := DecodeResponse(resp, &tokens); err != nil {
		return nil, fmt.Errorf("[apiclient refresh] %w", err)
	}
	if tokens.Access == "" {
		return nil, apperrors.Wrapf(apperrors.ErrRefreshRejected, "[apiclient refresh] response has no access token")
	}
	return &tokens, nil
}
