package fakesessionstore

import (
	"sync"

	"github.com/jrsteele09/securecrop-client/sessions"
)

var _ sessions.Store = (*FakeSessionStore)(nil)

// FakeSessionStore is an in-memory sessions.Store that counts writes and
// clears so tests can assert on session side effects.
type FakeSessionStore struct {
	session sessions.Session
	sets    int
	clears  int
	lock    sync.RWMutex
}

func NewFakeSessionStore(initial sessions.Session) *FakeSessionStore {
	return &FakeSessionStore{session: copySession(initial)}
}

func (fs *FakeSessionStore) Get() (sessions.Session, error) {
	fs.lock.RLock()
	defer fs.lock.RUnlock()
	return copySession(fs.session), nil
}

func (fs *FakeSessionStore) Set(session sessions.Session) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	fs.session = copySession(session)
	fs.sets++
	return nil
}

func (fs *FakeSessionStore) Clear() error {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	fs.session = sessions.Session{}
	fs.clears++
	return nil
}

// Sets returns how many times Set was called.
func (fs *FakeSessionStore) Sets() int {
	fs.lock.RLock()
	defer fs.lock.RUnlock()
	return fs.sets
}

// Clears returns how many times Clear was called.
func (fs *FakeSessionStore) Clears() int {
	fs.lock.RLock()
	defer fs.lock.RUnlock()
	return fs.clears
}

func copySession(s sessions.Session) sessions.Session {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}
