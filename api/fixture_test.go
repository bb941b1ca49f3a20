package api_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/jrsteele09/securecrop-client/api"
	"github.com/jrsteele09/securecrop-client/apiclient"
	"github.com/jrsteele09/securecrop-client/sessions"
	fakesessionstore "github.com/jrsteele09/securecrop-client/sessions/repofakes"
	"github.com/stretchr/testify/require"
)

const (
	testEmail        = "farmer@example.com"
	testPassword     = "secret-pass"
	testAccess       = "access-current"
	testStaleAccess  = "access-stale"
	testRefreshToken = "refresh-1"
)

var testUser = api.User{ID: 11, Email: testEmail, Username: "farmer", Role: sessions.RoleUser, CreatedAt: "2025-01-10T08:00:00Z"}

// testBackend fakes the SecureCrop API closely enough to drive the services.
type testBackend struct {
	server *httptest.Server

	lock         sync.Mutex
	validAccess  string
	refreshCalls int
	calls        map[string]int
	lastQuery    map[string]string
	lastBody     map[string]string
	lastAuth     map[string]string
}

type testFixture struct {
	backend *testBackend
	store   *fakesessionstore.FakeSessionStore
	client  *api.Client
}

func setupTestFixture(t *testing.T, initial sessions.Session) *testFixture {
	t.Helper()

	b := &testBackend{
		validAccess: testAccess,
		calls:       map[string]int{},
		lastQuery:   map[string]string{},
		lastBody:    map[string]string{},
		lastAuth:    map[string]string{},
	}

	r := mux.NewRouter()
	r.Use(b.recordMiddleware)
	a := r.PathPrefix("/api").Subrouter()

	a.HandleFunc("/auth/login/", b.login).Methods(http.MethodPost)
	a.HandleFunc("/auth/register/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, api.LoginResponse{User: testUser, Tokens: api.AuthTokens{Access: "a", Refresh: "r"}, Message: "User registered successfully"})
	}).Methods(http.MethodPost)
	a.HandleFunc("/auth/token/refresh/", b.refresh).Methods(http.MethodPost)
	a.HandleFunc("/auth/me/", b.protected(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, testUser)
	})).Methods(http.MethodGet)

	a.HandleFunc("/soil-inputs/", b.protected(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"count":   1,
			"results": []api.SoilInput{{ID: 5, User: 11, NLevel: 90, PLevel: 42, KLevel: 43, PH: 6.5, Moisture: 60, Temperature: 25}},
		})
	})).Methods(http.MethodGet)
	a.HandleFunc("/soil-inputs/create/", b.protected(func(w http.ResponseWriter, r *http.Request) {
		var data api.SoilInputData
		_ = json.Unmarshal([]byte(b.body(r.URL.Path)), &data)
		writeJSON(w, http.StatusCreated, api.SoilInputResponse{
			SoilInput:      api.SoilInput{ID: 6, NLevel: data.NLevel},
			Recommendation: api.Recommendation{ID: 9, CropName: "rice"},
			SecurityCheck:  api.SecurityCheck{IntegrityStatus: "VALID"},
			Message:        "Soil input processed successfully",
		})
	})).Methods(http.MethodPost)
	a.HandleFunc("/soil-inputs/{id:[0-9]+}/", b.protected(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
	})).Methods(http.MethodGet)

	a.HandleFunc("/recommendations/", b.protected(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []api.Recommendation{{ID: 9, CropName: "rice"}, {ID: 10, CropName: "maize"}})
	})).Methods(http.MethodGet)

	a.HandleFunc("/admin/logs/cyber/", b.protected(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []api.CyberLog{{ID: 1, AnomalyDetected: true, IntegrityStatus: "TAMPERED"}})
	})).Methods(http.MethodGet)

	a.HandleFunc("/contact/inquiries/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, api.ContactInquiry{ID: 3, Email: testEmail, Status: api.InquiryPending})
	}).Methods(http.MethodPost)
	a.HandleFunc("/contact/admin/{id:[0-9]+}/update/", b.protected(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Status updated"})
	})).Methods(http.MethodPatch)

	a.HandleFunc("/notifications/send-alerts/", b.protected(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]int{"sent": 2})
	})).Methods(http.MethodPost)

	a.PathPrefix("/weather/").Handler(b.protected(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"path": r.URL.Path})
	}))

	a.HandleFunc("/market/search/all/", b.protected(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []api.Place{
			{ID: "osm_node_1", Name: "Pasar Borong", Type: api.PlaceMarket, DistanceKM: 1.2},
			{ID: "osm_node_2", Name: "Agro Supplies", Type: api.PlaceAgriStore, DistanceKM: 2.5},
			{ID: "osm_node_3", Name: "Tani Buyer", Type: api.PlaceBuyer, DistanceKM: 3.1},
		})
	})).Methods(http.MethodGet)

	b.server = httptest.NewServer(r)
	t.Cleanup(b.server.Close)

	store := fakesessionstore.NewFakeSessionStore(initial)
	return &testFixture{
		backend: b,
		store:   store,
		client:  api.New(apiclient.New(b.server.URL+"/api", store)),
	}
}

func (b *testBackend) recordMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		b.lock.Lock()
		b.calls[r.Method+" "+r.URL.Path]++
		b.lastQuery[r.URL.Path] = r.URL.RawQuery
		b.lastBody[r.URL.Path] = string(body)
		b.lastAuth[r.URL.Path] = r.Header.Get("Authorization")
		b.lock.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (b *testBackend) protected(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.lock.Lock()
		valid := r.Header.Get("Authorization") == "Bearer "+b.validAccess
		b.lock.Unlock()
		if !valid {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Given token not valid for any token type"})
			return
		}
		next(w, r)
	}
}

func (b *testBackend) login(w http.ResponseWriter, r *http.Request) {
	var creds map[string]string
	_ = json.Unmarshal([]byte(b.body(r.URL.Path)), &creds)
	if creds["email"] != testEmail || creds["password"] != testPassword {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
		return
	}
	writeJSON(w, http.StatusOK, api.LoginResponse{
		User:    testUser,
		Tokens:  api.AuthTokens{Access: testAccess, Refresh: testRefreshToken},
		Message: "Login successful",
	})
}

func (b *testBackend) refresh(w http.ResponseWriter, r *http.Request) {
	var body map[string]string
	_ = json.Unmarshal([]byte(b.body(r.URL.Path)), &body)

	b.lock.Lock()
	b.refreshCalls++
	access := b.validAccess
	b.lock.Unlock()

	if body["refresh"] != testRefreshToken {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Token is invalid or expired"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"access": access})
}

func (b *testBackend) body(path string) string {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.lastBody[path]
}

func (b *testBackend) query(path string) string {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.lastQuery[path]
}

func (b *testBackend) auth(path string) string {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.lastAuth[path]
}

func (b *testBackend) callCount(key string) int {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.calls[key]
}

func (b *testBackend) refreshCount() int {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.refreshCalls
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func requireSession(t *testing.T, store sessions.Store) sessions.Session {
	t.Helper()
	s, err := store.Get()
	require.NoError(t, err)
	return s
}
