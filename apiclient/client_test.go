package apiclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/jrsteele09/securecrop-client/apiclient"
	"github.com/jrsteele09/securecrop-client/sessions"
	fakesessionstore "github.com/jrsteele09/securecrop-client/sessions/repofakes"
	"github.com/stretchr/testify/require"
)

const (
	testExpiredAccess = "expired-access"
	testFreshAccess   = "fresh-access"
	testRefreshToken  = "refresh-1"
)

// fakeBackend is a minimal SecureCrop API: /protected/ accepts only the
// current valid access token and /auth/token/refresh/ issues it.
type fakeBackend struct {
	server *httptest.Server

	lock           sync.Mutex
	validAccess    string
	refreshStatus  int
	rotatedRefresh string
	refreshDelay   time.Duration
	refreshCalls   int
	refreshBodies  []string
	hits           map[string]int
	authHeaders    []string
	requestIDs     []string

	// When set, requests presenting a stale token are held until
	// staleBarrier of them have arrived, so their 401s are concurrent.
	staleBarrier  int
	staleArrivals int
	allStale      chan struct{}
}

func setupFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()

	b := &fakeBackend{
		validAccess:   testFreshAccess,
		refreshStatus: http.StatusOK,
		hits:          map[string]int{},
		allStale:      make(chan struct{}),
	}

	r := mux.NewRouter()
	r.HandleFunc("/api/protected/", b.protected).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/api/always-401/", b.record(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "token revoked"})
	}))
	r.HandleFunc("/api/boom/", b.record(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "model unavailable"})
	}))
	r.HandleFunc("/api/slow/", b.record(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
			writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
		}
	}))
	r.HandleFunc("/api/auth/token/refresh/", b.refresh).Methods(http.MethodPost)

	b.server = httptest.NewServer(r)
	t.Cleanup(b.server.Close)
	return b
}

func (b *fakeBackend) baseURL() string {
	return b.server.URL + "/api"
}

func (b *fakeBackend) record(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.lock.Lock()
		b.hits[r.URL.Path]++
		b.authHeaders = append(b.authHeaders, r.Header.Get("Authorization"))
		b.requestIDs = append(b.requestIDs, r.Header.Get("X-Request-ID"))
		b.lock.Unlock()
		next(w, r)
	}
}

func (b *fakeBackend) protected(w http.ResponseWriter, r *http.Request) {
	b.record(func(w http.ResponseWriter, r *http.Request) {
		b.lock.Lock()
		valid := r.Header.Get("Authorization") == "Bearer "+b.validAccess
		barrier := b.staleBarrier
		if !valid && barrier > 0 {
			b.staleArrivals++
			if b.staleArrivals == barrier {
				close(b.allStale)
			}
		}
		b.lock.Unlock()

		if !valid {
			if barrier > 0 {
				select {
				case <-b.allStale:
				case <-time.After(2 * time.Second):
				}
			}
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Given token not valid for any token type"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "method": r.Method})
	})(w, r)
}

func (b *fakeBackend) refresh(w http.ResponseWriter, r *http.Request) {
	var body map[string]string
	_ = json.NewDecoder(r.Body).Decode(&body)

	b.lock.Lock()
	b.refreshCalls++
	b.refreshBodies = append(b.refreshBodies, body["refresh"])
	b.hits[r.URL.Path]++
	b.authHeaders = append(b.authHeaders, r.Header.Get("Authorization"))
	status, delay, rotated, access := b.refreshStatus, b.refreshDelay, b.rotatedRefresh, b.validAccess
	b.lock.Unlock()

	time.Sleep(delay)
	if status != http.StatusOK {
		writeJSON(w, status, map[string]string{"detail": "Token is invalid or expired", "code": "token_not_valid"})
		return
	}
	resp := map[string]string{"access": access}
	if rotated != "" {
		resp["refresh"] = rotated
	}
	writeJSON(w, http.StatusOK, resp)
}

func (b *fakeBackend) counts() (hits map[string]int, refreshCalls int) {
	b.lock.Lock()
	defer b.lock.Unlock()
	hits = make(map[string]int, len(b.hits))
	for k, v := range b.hits {
		hits[k] = v
	}
	return hits, b.refreshCalls
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newClient(b *fakeBackend, store sessions.Store, opts ...apiclient.Option) *apiclient.Client {
	return apiclient.New(b.baseURL(), store, opts...)
}

func TestBearerTokenAttached(t *testing.T) {
	b := setupFakeBackend(t)
	store := fakesessionstore.NewFakeSessionStore(sessions.Session{AccessToken: testFreshAccess, RefreshToken: testRefreshToken})

	resp, err := newClient(b, store).Get(context.Background(), "/protected/", nil)
	require.NoError(t, err)
	require.NoError(t, apiclient.DecodeResponse(resp, nil))

	hits, refreshCalls := b.counts()
	require.Equal(t, 1, hits["/api/protected/"])
	require.Zero(t, refreshCalls)
	require.Equal(t, []string{"Bearer " + testFreshAccess}, b.authHeaders)
	require.Zero(t, store.Sets())
}

func TestNoTokenSendsNoAuthorization(t *testing.T) {
	b := setupFakeBackend(t)
	store := fakesessionstore.NewFakeSessionStore(sessions.Session{})

	_, err := newClient(b, store).Get(context.Background(), "/protected/", nil)
	require.Equal(t, http.StatusUnauthorized, apiclient.StatusCode(err))
	require.Equal(t, []string{""}, b.authHeaders)
}

func TestRefreshAndRetryOnce(t *testing.T) {
	b := setupFakeBackend(t)
	store := fakesessionstore.NewFakeSessionStore(sessions.Session{
		AccessToken:  testExpiredAccess,
		RefreshToken: testRefreshToken,
		User:         &sessions.UserSummary{ID: 1, Username: "farmer"},
	})

	req := &apiclient.Request{Method: http.MethodPost, Path: "/protected/", Body: map[string]int{"N_level": 90}}
	resp, err := newClient(b, store).Do(context.Background(), req)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, apiclient.DecodeResponse(resp, &body))
	require.Equal(t, true, body["ok"])
	require.True(t, req.Retried())

	hits, refreshCalls := b.counts()
	require.Equal(t, 1, refreshCalls)
	require.Equal(t, 2, hits["/api/protected/"])
	require.Equal(t, []string{testRefreshToken}, b.refreshBodies)
	require.Equal(t, []string{"Bearer " + testExpiredAccess, "", "Bearer " + testFreshAccess}, b.authHeaders)
	require.Equal(t, b.requestIDs[0], b.requestIDs[1], "retry reuses the request id")

	s, err := store.Get()
	require.NoError(t, err)
	require.Equal(t, testFreshAccess, s.AccessToken)
	require.Equal(t, testRefreshToken, s.RefreshToken)
	require.Equal(t, "farmer", s.User.Username)
	require.Zero(t, store.Clears())
}

func TestRotatedRefreshTokenIsStored(t *testing.T) {
	b := setupFakeBackend(t)
	b.rotatedRefresh = "refresh-2"
	store := fakesessionstore.NewFakeSessionStore(sessions.Session{AccessToken: testExpiredAccess, RefreshToken: testRefreshToken})

	resp, err := newClient(b, store).Get(context.Background(), "/protected/", nil)
	require.NoError(t, err)
	require.NoError(t, apiclient.DecodeResponse(resp, nil))

	s, err := store.Get()
	require.NoError(t, err)
	require.Equal(t, "refresh-2", s.RefreshToken)
}

func TestSecondUnauthorizedIsNotRetried(t *testing.T) {
	b := setupFakeBackend(t)
	store := fakesessionstore.NewFakeSessionStore(sessions.Session{AccessToken: testExpiredAccess, RefreshToken: testRefreshToken})

	_, err := newClient(b, store).Get(context.Background(), "/always-401/", nil)

	var httpErr *apiclient.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.True(t, httpErr.IsUnauthorized())
	require.Equal(t, "token revoked", httpErr.Message())
	require.NotErrorIs(t, err, apiclient.ErrAuthenticationRequired)

	hits, refreshCalls := b.counts()
	require.Equal(t, 2, hits["/api/always-401/"])
	require.Equal(t, 1, refreshCalls)
	require.Zero(t, store.Clears())
}

func TestUnauthorizedWithoutRefreshToken(t *testing.T) {
	b := setupFakeBackend(t)
	store := fakesessionstore.NewFakeSessionStore(sessions.Session{AccessToken: testExpiredAccess})

	_, err := newClient(b, store).Get(context.Background(), "/protected/", nil)
	require.Equal(t, http.StatusUnauthorized, apiclient.StatusCode(err))
	require.NotErrorIs(t, err, apiclient.ErrAuthenticationRequired)

	hits, refreshCalls := b.counts()
	require.Equal(t, 1, hits["/api/protected/"])
	require.Zero(t, refreshCalls)
	require.Zero(t, store.Clears())

	s, _ := store.Get()
	require.Equal(t, testExpiredAccess, s.AccessToken)
}

func TestRefreshFailureClearsSession(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusBadRequest, http.StatusInternalServerError} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			b := setupFakeBackend(t)
			b.refreshStatus = status
			store := fakesessionstore.NewFakeSessionStore(sessions.Session{
				AccessToken:  testExpiredAccess,
				RefreshToken: testRefreshToken,
				User:         &sessions.UserSummary{ID: 1},
			})

			_, err := newClient(b, store).Get(context.Background(), "/protected/", nil)
			require.ErrorIs(t, err, apiclient.ErrAuthenticationRequired)
			var authErr *apiclient.AuthError
			require.ErrorAs(t, err, &authErr)
			require.Equal(t, status, apiclient.StatusCode(authErr.Cause))

			s, err := store.Get()
			require.NoError(t, err)
			require.True(t, s.IsEmpty())
			require.Equal(t, 1, store.Clears())

			hits, _ := b.counts()
			require.Equal(t, 1, hits["/api/protected/"], "no retry after a failed refresh")
		})
	}
}

func TestRefreshEndpointMissingClearsSession(t *testing.T) {
	b := setupFakeBackend(t)
	store := fakesessionstore.NewFakeSessionStore(sessions.Session{AccessToken: testExpiredAccess, RefreshToken: testRefreshToken})
	client := newClient(b, store, apiclient.WithRefreshPath("/missing-refresh/"))

	_, err := client.Get(context.Background(), "/protected/", nil)
	require.ErrorIs(t, err, apiclient.ErrAuthenticationRequired)
	s, _ := store.Get()
	require.True(t, s.IsEmpty())
}

func TestNonUnauthorizedErrorsPassThrough(t *testing.T) {
	b := setupFakeBackend(t)
	store := fakesessionstore.NewFakeSessionStore(sessions.Session{AccessToken: testExpiredAccess, RefreshToken: testRefreshToken})
	client := newClient(b, store)

	_, err := client.Get(context.Background(), "/boom/", nil)
	var httpErr *apiclient.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
	require.Equal(t, "model unavailable", httpErr.Message())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = client.Get(ctx, "/slow/", nil)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Zero(t, apiclient.StatusCode(err))

	_, refreshCalls := b.counts()
	require.Zero(t, refreshCalls)
	require.Zero(t, store.Sets())
	require.Zero(t, store.Clears())
}

func TestAnonymousRequestSkipsBearerAndRefresh(t *testing.T) {
	b := setupFakeBackend(t)
	store := fakesessionstore.NewFakeSessionStore(sessions.Session{AccessToken: testExpiredAccess, RefreshToken: testRefreshToken})

	_, err := newClient(b, store).Do(context.Background(), &apiclient.Request{Path: "/protected/", Anonymous: true})
	require.Equal(t, http.StatusUnauthorized, apiclient.StatusCode(err))
	require.Equal(t, []string{""}, b.authHeaders)

	_, refreshCalls := b.counts()
	require.Zero(t, refreshCalls)
}

func TestRelativePathRequired(t *testing.T) {
	store := fakesessionstore.NewFakeSessionStore(sessions.Session{})
	_, err := apiclient.New("http://127.0.0.1:0/api", store).Get(context.Background(), "protected/", nil)
	require.Error(t, err)
}

func TestConcurrentUnauthorizedCoalesced(t *testing.T) {
	const workers = 6
	b := setupFakeBackend(t)
	b.staleBarrier = workers
	b.refreshDelay = 50 * time.Millisecond
	store := fakesessionstore.NewFakeSessionStore(sessions.Session{AccessToken: testExpiredAccess, RefreshToken: testRefreshToken})
	client := newClient(b, store, apiclient.WithRefreshCoalescing(true))

	errs := runConcurrently(workers, func() error {
		resp, err := client.Get(context.Background(), "/protected/", nil)
		if err != nil {
			return err
		}
		return apiclient.DecodeResponse(resp, nil)
	})
	for _, err := range errs {
		require.NoError(t, err)
	}

	_, refreshCalls := b.counts()
	require.Equal(t, 1, refreshCalls)
}

func TestConcurrentUnauthorizedWithoutCoalescing(t *testing.T) {
	const workers = 4
	b := setupFakeBackend(t)
	b.staleBarrier = workers
	store := fakesessionstore.NewFakeSessionStore(sessions.Session{AccessToken: testExpiredAccess, RefreshToken: testRefreshToken})
	client := newClient(b, store, apiclient.WithRefreshCoalescing(false))

	errs := runConcurrently(workers, func() error {
		resp, err := client.Get(context.Background(), "/protected/", nil)
		if err != nil {
			return err
		}
		return apiclient.DecodeResponse(resp, nil)
	})
	for _, err := range errs {
		require.NoError(t, err)
	}

	_, refreshCalls := b.counts()
	require.Equal(t, workers, refreshCalls, "each 401 refreshes on its own")
}

func TestCoalescedRefreshFailureSharedByWaiters(t *testing.T) {
	const workers = 3
	b := setupFakeBackend(t)
	b.staleBarrier = workers
	b.refreshStatus = http.StatusUnauthorized
	b.refreshDelay = 50 * time.Millisecond
	store := fakesessionstore.NewFakeSessionStore(sessions.Session{AccessToken: testExpiredAccess, RefreshToken: testRefreshToken})
	client := newClient(b, store, apiclient.WithRefreshCoalescing(true))

	errs := runConcurrently(workers, func() error {
		_, err := client.Get(context.Background(), "/protected/", nil)
		return err
	})
	for _, err := range errs {
		require.Error(t, err)
	}

	s, _ := store.Get()
	require.True(t, s.IsEmpty())
}

func runConcurrently(n int, fn func() error) []error {
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = fn()
		}(i)
	}
	wg.Wait()
	return errs
}
