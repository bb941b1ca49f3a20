package api

import (
	"context"
	"fmt"

	"github.com/jrsteele09/securecrop-client/apiclient"
	"github.com/jrsteele09/securecrop-client/internal/errors"
	"github.com/jrsteele09/securecrop-client/sessions"
	"github.com/rs/zerolog/log"
)

// Auth defines the account operations
type Auth interface {
	// Login authenticates and stores the session.
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
	// Register creates an account. The session is not touched; log in afterwards.
	Register(ctx context.Context, data RegisterData) (*LoginResponse, error)
	// Me fetches the current user.
	Me(ctx context.Context) (*User, error)
	// Logout clears the stored session.
	Logout() error
	// Restore checks a stored session against /auth/me/ and clears it when
	// the backend no longer accepts it.
	Restore(ctx context.Context) (*User, error)
}

type authClient struct {
	client *apiclient.Client
}

func NewAuthClient(client *apiclient.Client) Auth {
	return &authClient{client: client}
}

func (c *authClient) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	credentials := map[string]string{"email": email, "password": password}

	var response LoginResponse
	if err := postAnonymous(ctx, c.client, "/auth/login/", credentials, &response); err != nil {
		return nil, err
	}
	if response.Tokens.Access == "" {
		return nil, errors.Wrapf(errors.ErrInvalidToken, "[Auth Login] no access token in response")
	}

	user := response.User
	if err := c.client.Store().Set(sessions.Session{
		AccessToken:  response.Tokens.Access,
		RefreshToken: response.Tokens.Refresh,
		User:         &user,
	}); err != nil {
		return nil, fmt.Errorf("[Auth Login] failed to store session: %w", err)
	}

	log.Info().Str("user", user.Username).Str("role", string(user.Role)).Msg("logged in")
	return &response, nil
}

func (c *authClient) Register(ctx context.Context, data RegisterData) (*LoginResponse, error) {
	if data.Password != data.PasswordConfirm {
		return nil, errors.Wrapf(errors.ErrInvalidRequest, "passwords do not match")
	}

	var response LoginResponse
	if err := postAnonymous(ctx, c.client, "/auth/register/", data, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

func (c *authClient) Me(ctx context.Context) (*User, error) {
	var user User
	if err := getJSON(ctx, c.client, "/auth/me/", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *authClient) Logout() error {
	if err := c.client.Store().Clear(); err != nil {
		return fmt.Errorf("[Auth Logout] %w", err)
	}
	return nil
}

func (c *authClient) Restore(ctx context.Context) (*User, error) {
	store := c.client.Store()
	session, err := store.Get()
	if err != nil {
		return nil, fmt.Errorf("[Auth Restore] %w", err)
	}
	if session.User == nil || !session.HasAccessToken() {
		return nil, errors.ErrNoSession
	}

	user, err := c.Me(ctx)
	if err != nil {
		log.Info().Err(err).Msg("stored session rejected, clearing")
		if clearErr := store.Clear(); clearErr != nil {
			log.Error().Err(clearErr).Msg("failed to clear session")
		}
		return nil, err
	}

	// Me may have refreshed the token; keep whatever the store holds now.
	if current, err := store.Get(); err == nil && current.HasAccessToken() {
		current.User = user
		if err := store.Set(current); err != nil {
			log.Warn().Err(err).Msg("failed to update stored user")
		}
	}
	return user, nil
}
