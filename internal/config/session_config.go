package config

import (
	"os"
	"path/filepath"
)

const (
	sessionFileVar = "SECURECROP_SESSION_FILE"
	sessionKeyVar  = "SECURECROP_SESSION_KEY"
)

type Session struct{}

var _ SessionConfig = Session{}

// GetSessionFile returns where the access token, refresh token and user are kept
// between invocations.
func (Session) GetSessionFile() string {
	if file := os.Getenv(sessionFileVar); file != "" {
		return file
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".securecrop", "session.json")
	}
	return filepath.Join(home, ".securecrop", "session.json")
}

// GetSessionKey returns the passphrase used to seal the session file. Empty
// means the file is written in the clear (mode 0600).
func (Session) GetSessionKey() string {
	return GetEnv(sessionKeyVar, "")
}
