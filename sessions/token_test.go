package sessions_test

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/securecrop-client/internal/errors"
	"github.com/jrsteele09/securecrop-client/sessions"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwtlib.MapClaims) string {
	t.Helper()
	tok, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return tok
}

func TestAccessTokenExpiry(t *testing.T) {
	exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	tok := signedToken(t, jwtlib.MapClaims{"user_id": 1, "exp": exp.Unix()})

	got, err := sessions.AccessTokenExpiry(tok)
	require.NoError(t, err)
	require.True(t, exp.Equal(got))
}

func TestAccessTokenExpiryErrors(t *testing.T) {
	_, err := sessions.AccessTokenExpiry("opaque-token")
	require.ErrorIs(t, err, errors.ErrInvalidToken)

	_, err = sessions.AccessTokenExpiry(signedToken(t, jwtlib.MapClaims{"user_id": 1}))
	require.ErrorIs(t, err, errors.ErrMissingExpiry)
}

func TestSessionToken(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	sessions.NowTimeFunc = func() time.Time { return now }
	t.Cleanup(func() { sessions.NowTimeFunc = time.Now })

	live := sessions.Session{
		AccessToken:  signedToken(t, jwtlib.MapClaims{"exp": now.Add(time.Hour).Unix()}),
		RefreshToken: "refresh",
	}
	tok := live.Token()
	require.Equal(t, "Bearer", tok.Type())
	require.Equal(t, "refresh", tok.RefreshToken)
	require.True(t, now.Add(time.Hour).Equal(tok.Expiry))
	require.False(t, live.AccessTokenExpired())

	expired := sessions.Session{AccessToken: signedToken(t, jwtlib.MapClaims{"exp": now.Add(-time.Minute).Unix()})}
	require.True(t, expired.AccessTokenExpired())

	opaque := sessions.Session{AccessToken: "opaque"}
	require.True(t, opaque.Token().Expiry.IsZero())
	require.False(t, opaque.AccessTokenExpired())
}

func TestSessionPredicates(t *testing.T) {
	require.True(t, sessions.Session{}.IsEmpty())
	require.False(t, sessions.Session{RefreshToken: "r"}.IsEmpty())
	require.False(t, sessions.Session{AccessToken: "  "}.HasAccessToken())
	require.True(t, sessions.Session{RefreshToken: "r"}.HasRefreshToken())

	admin := &sessions.UserSummary{Role: sessions.RoleAdmin}
	require.True(t, admin.IsAdmin())
	var nobody *sessions.UserSummary
	require.False(t, nobody.IsAdmin())
}
