package sessions

// Store is durable key/value storage for the session. The persisted keys are
// KeyAccessToken, KeyRefreshToken and KeyUser (JSON-serialized).
//
// Implementations must be safe for concurrent use: requests running on
// different goroutines read the store and a refresh writes it.
type Store interface {
	// Get returns the stored session. A missing session is the zero Session
	// and a nil error.
	Get() (Session, error)

	// Set replaces the stored session.
	Set(session Session) error

	// Clear removes all three keys.
	Clear() error
}

const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyUser         = "user"
)
