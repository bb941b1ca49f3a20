package sessions

import "strings"

// RoleType is the backend role carried on the stored user.
type RoleType string

const (
	RoleUser  RoleType = "USER"
	RoleAdmin RoleType = "ADMIN"
)

// UserSummary is the user object returned by login and /auth/me/.
type UserSummary struct {
	ID        int      `json:"id"`
	Email     string   `json:"email"`
	Username  string   `json:"username"`
	Role      RoleType `json:"role"`
	CreatedAt string   `json:"created_at,omitempty"`
	LastLogin *string  `json:"last_login,omitempty"`
}

func (u *UserSummary) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Session is the client's authentication state. It is created on login,
// has its AccessToken replaced whenever a refresh succeeds, and is removed
// as a whole on logout or when a refresh fails.
type Session struct {
	AccessToken  string       // Bearer credential sent on every authenticated request
	RefreshToken string       // Exchanged at /auth/token/refresh/ for a new AccessToken
	User         *UserSummary // Nil until login has completed
}

// IsEmpty reports whether nothing is stored.
func (s Session) IsEmpty() bool {
	return s.AccessToken == "" && s.RefreshToken == "" && s.User == nil
}

// HasAccessToken reports whether a bearer credential is stored.
func (s Session) HasAccessToken() bool {
	return strings.TrimSpace(s.AccessToken) != ""
}

// HasRefreshToken reports whether a refresh can be attempted.
func (s Session) HasRefreshToken() bool {
	return strings.TrimSpace(s.RefreshToken) != ""
}
