package filestore

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/jrsteele09/securecrop-client/internal/errors"
	"github.com/jrsteele09/securecrop-client/sessions"
)

var _ sessions.Store = (*FileStore)(nil)

// FileStore keeps the session in a single file as three string keys:
// access_token, refresh_token and user (the user object JSON-serialized).
// With a passphrase the file contents are sealed, see seal.go.
type FileStore struct {
	path       string
	passphrase string
	lock       sync.RWMutex
}

// New creates a file backed session store. The file and its directory are
// created on the first Set.
func New(path, passphrase string) *FileStore {
	return &FileStore{
		path:       path,
		passphrase: passphrase,
	}
}

// Path returns the backing file.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Get() (sessions.Session, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return sessions.Session{}, nil
	}
	if err != nil {
		return sessions.Session{}, fmt.Errorf("[FileStore Get] read %s: %w", s.path, err)
	}

	if isSealed(data) {
		if s.passphrase == "" {
			return sessions.Session{}, errors.ErrSessionSealed
		}
		if data, err = open(data, s.passphrase); err != nil {
			return sessions.Session{}, err
		}
	}

	return decode(data)
}

func (s *FileStore) Set(session sessions.Session) error {
	data, err := encode(session)
	if err != nil {
		return err
	}
	if s.passphrase != "" {
		if data, err = seal(data, s.passphrase); err != nil {
			return err
		}
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	return writeFileAtomic(s.path, data)
}

func (s *FileStore) Clear() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("[FileStore Clear] remove %s: %w", s.path, err)
	}
	return nil
}

func encode(session sessions.Session) ([]byte, error) {
	keys := map[string]string{}
	if session.AccessToken != "" {
		keys[sessions.KeyAccessToken] = session.AccessToken
	}
	if session.RefreshToken != "" {
		keys[sessions.KeyRefreshToken] = session.RefreshToken
	}
	if session.User != nil {
		user, err := json.Marshal(session.User)
		if err != nil {
			return nil, fmt.Errorf("[FileStore] marshal user: %w", err)
		}
		keys[sessions.KeyUser] = string(user)
	}
	return json.MarshalIndent(keys, "", "  ")
}

func decode(data []byte) (sessions.Session, error) {
	keys := map[string]string{}
	if err := json.Unmarshal(data, &keys); err != nil {
		return sessions.Session{}, errors.Wrapf(errors.ErrSessionCorrupt, "[FileStore] %v", err)
	}

	session := sessions.Session{
		AccessToken:  keys[sessions.KeyAccessToken],
		RefreshToken: keys[sessions.KeyRefreshToken],
	}
	if raw, ok := keys[sessions.KeyUser]; ok && raw != "" {
		var user sessions.UserSummary
		if err := json.Unmarshal([]byte(raw), &user); err != nil {
			return sessions.Session{}, errors.Wrapf(errors.ErrSessionCorrupt, "[FileStore] user: %v", err)
		}
		session.User = &user
	}
	return session, nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("[FileStore] create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("[FileStore] create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once renamed

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("[FileStore] chmod: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("[FileStore] write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("[FileStore] close: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("[FileStore] rename: %w", err)
	}
	return nil
}
