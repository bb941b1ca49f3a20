package sessions

import (
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/securecrop-client/internal/errors"
	"golang.org/x/oauth2"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// AccessTokenExpiry reads the exp claim of a JWT access token without
// verifying its signature. The signing key belongs to the backend; the client
// only needs the expiry for display and for oauth2.Token.Valid.
func AccessTokenExpiry(rawToken string) (time.Time, error) {
	token, _, err := jwtlib.NewParser().ParseUnverified(rawToken, jwtlib.MapClaims{})
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", errors.ErrInvalidToken, err)
	}

	exp, err := token.Claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", errors.ErrInvalidToken, err)
	}
	if exp == nil {
		return time.Time{}, errors.ErrMissingExpiry
	}
	return exp.Time, nil
}

// Token returns the session as an oauth2 bearer token. Expiry is left zero
// when the access token is not a JWT with an exp claim.
func (s Session) Token() *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  s.AccessToken,
		TokenType:    "Bearer",
		RefreshToken: s.RefreshToken,
	}
	if expiry, err := AccessTokenExpiry(s.AccessToken); err == nil {
		tok.Expiry = expiry
	}
	return tok
}

// AccessTokenExpired reports whether the access token's exp claim is in the
// past. Tokens without a readable expiry are treated as not expired; the
// backend remains the authority and answers 401 if it disagrees.
func (s Session) AccessTokenExpired() bool {
	expiry, err := AccessTokenExpiry(s.AccessToken)
	if err != nil {
		return false
	}
	return !NowTimeFunc().Before(expiry)
}
