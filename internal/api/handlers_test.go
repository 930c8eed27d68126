package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"example.com/ecoquest/internal/account"
	"example.com/ecoquest/internal/auth"
	"example.com/ecoquest/internal/domain"
	"example.com/ecoquest/internal/gamification"
	"example.com/ecoquest/internal/persistence/memory"
)

var testAuth = auth.Config{Secret: "test-secret", Issuer: "ecoquest.test", TTL: time.Hour}

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()
	repo := memory.NewRepository()
	now := time.Date(2025, time.October, 17, 12, 0, 0, 0, time.UTC)
	logger := zerolog.New(zerolog.NewTestWriter(t))
	service := domain.NewService(repo,
		domain.WithClock(func() time.Time { return now }),
		domain.WithLogger(logger),
	)
	accounts := account.NewService(repo, testAuth, bcrypt.MinCost)

	mux := http.NewServeMux()
	NewHandler(service, accounts, WithLogger(logger)).RegisterRoutes(mux)
	return mux
}

func withUser(req *http.Request, user string, scopes ...string) *http.Request {
	claims := &auth.Claims{
		Subject:   user,
		Scopes:    map[string]struct{}{},
		ExpiresAt: time.Now().Add(time.Hour),
	}
	for _, s := range scopes {
		claims.Scopes[s] = struct{}{}
	}
	return req.WithContext(auth.WithClaims(req.Context(), claims))
}

func postJSON(t *testing.T, path string, body any) *http.Request {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	return httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
}

func serve(mux *http.ServeMux, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func TestLogActivityCreated(t *testing.T) {
	mux := newTestMux(t)
	req := withUser(postJSON(t, "/v1/activities", LogActivityRequest{
		Type:    "Travel",
		Subtype: "car",
		Details: map[string]string{"distance": "50", "duration": "1"},
	}), "alice", auth.ScopeActivitiesWrite)

	rr := serve(mux, req)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp LogActivityResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, int64(1), resp.Activity.ActivityID)
	require.Equal(t, "alice", resp.Activity.UserID)
	require.Equal(t, "Travel", resp.Activity.ActivityType)
	require.Equal(t, 10.5, resp.Activity.CarbonFootprint)
	require.Equal(t, "50", resp.Activity.Details["distance"])
	require.Len(t, resp.NewlyEarned, 1)
	require.Equal(t, "first_activity", resp.NewlyEarned[0].ID)
}

func TestLogActivityValidationMessage(t *testing.T) {
	mux := newTestMux(t)

	rr := serve(mux, withUser(postJSON(t, "/v1/activities", LogActivityRequest{
		Type:    "Purchase",
		Details: map[string]string{"item_name": "Shirt", "quantity": "abc"},
	}), "alice", auth.ScopeActivitiesWrite))
	require.Equal(t, http.StatusBadRequest, rr.Code)
	body := decodeError(t, rr)
	require.Equal(t, "validation_failed", body["type"])
	require.Equal(t, "Please enter valid numbers for all fields.", body["detail"])

	rr = serve(mux, withUser(postJSON(t, "/v1/activities", LogActivityRequest{Type: "Cooking"}), "alice", auth.ScopeActivitiesWrite))
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "Invalid activity type selected.", decodeError(t, rr)["detail"])
}

func TestLogActivityRequiresWriteScope(t *testing.T) {
	mux := newTestMux(t)
	body := LogActivityRequest{Type: "Energy", Details: map[string]string{"consumption": "10"}}

	rr := serve(mux, postJSON(t, "/v1/activities", body))
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = serve(mux, withUser(postJSON(t, "/v1/activities", body), "alice", auth.ScopeActivitiesRead))
	require.Equal(t, http.StatusForbidden, rr.Code)
}

func TestListActivitiesFiltersAndPages(t *testing.T) {
	mux := newTestMux(t)
	for _, distance := range []string{"10", "20", "30"} {
		rr := serve(mux, withUser(postJSON(t, "/v1/activities", LogActivityRequest{
			Type:    "Travel",
			Subtype: "bus",
			Details: map[string]string{"distance": distance, "duration": "1"},
		}), "alice", auth.ScopeActivitiesWrite))
		require.Equal(t, http.StatusCreated, rr.Code)
	}
	rr := serve(mux, withUser(postJSON(t, "/v1/activities", LogActivityRequest{
		Type:    "Energy",
		Details: map[string]string{"consumption": "5"},
	}), "bob", auth.ScopeActivitiesWrite))
	require.Equal(t, http.StatusCreated, rr.Code)

	req := withUser(httptest.NewRequest(http.MethodGet, "/v1/activities?type=Travel&limit=2", nil), "alice", auth.ScopeActivitiesRead)
	rr = serve(mux, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var first ListActivitiesResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &first))
	require.Len(t, first.Items, 2)
	require.NotEmpty(t, first.NextCursor)
	for _, item := range first.Items {
		require.Equal(t, "alice", item.UserID)
	}

	req = withUser(httptest.NewRequest(http.MethodGet, "/v1/activities?type=Travel&limit=2&cursor="+first.NextCursor, nil), "alice", auth.ScopeActivitiesRead)
	rr = serve(mux, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var second ListActivitiesResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &second))
	require.Len(t, second.Items, 1)
	require.Empty(t, second.NextCursor)

	req = withUser(httptest.NewRequest(http.MethodGet, "/v1/activities?cursor=bm90LWEtY3Vyc29y", nil), "alice", auth.ScopeActivitiesRead)
	require.Equal(t, http.StatusBadRequest, serve(mux, req).Code)

	req = withUser(httptest.NewRequest(http.MethodGet, "/v1/activities?from=17-10-2025", nil), "alice", auth.ScopeActivitiesRead)
	require.Equal(t, http.StatusBadRequest, serve(mux, req).Code)
}

func TestProgressRejectsUnknownPeriod(t *testing.T) {
	mux := newTestMux(t)

	req := withUser(httptest.NewRequest(http.MethodGet, "/v1/progress?period=Decade", nil), "alice", auth.ScopeActivitiesRead)
	require.Equal(t, http.StatusBadRequest, serve(mux, req).Code)

	req = withUser(httptest.NewRequest(http.MethodGet, "/v1/progress", nil), "alice", auth.ScopeActivitiesRead)
	rr := serve(mux, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, "Month", body["period"])
}

func TestDashboardAndGamification(t *testing.T) {
	mux := newTestMux(t)
	rr := serve(mux, withUser(postJSON(t, "/v1/activities", LogActivityRequest{
		Type:    "Travel",
		Subtype: "car",
		Details: map[string]string{"distance": "50", "duration": "1"},
	}), "alice", auth.ScopeActivitiesWrite))
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = serve(mux, withUser(httptest.NewRequest(http.MethodGet, "/v1/dashboard", nil), "alice", auth.ScopeActivitiesRead))
	require.Equal(t, http.StatusOK, rr.Code)
	var dash DashboardResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &dash))
	require.Len(t, dash.Recent, 1)
	require.Equal(t, 10.5, dash.TotalCarbonFootprint)
	require.Equal(t, 1, dash.Points)
	require.Equal(t, 1, dash.Streak)
	require.False(t, dash.Equivalency.Empty)

	rr = serve(mux, withUser(httptest.NewRequest(http.MethodGet, "/v1/gamification", nil), "alice", auth.ScopeActivitiesRead))
	require.Equal(t, http.StatusOK, rr.Code)
	var snap gamification.Snapshot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &snap))
	require.Equal(t, 1, snap.Points)
	require.Equal(t, 1, snap.UnlockedCount)
	require.Len(t, snap.Achievements, len(gamification.Catalog()))

	rr = serve(mux, httptest.NewRequest(http.MethodGet, "/v1/suggestions", nil))
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestRegisterAndLogin(t *testing.T) {
	mux := newTestMux(t)
	creds := CredentialsRequest{Username: "alice", Password: "s3cret"}

	rr := serve(mux, postJSON(t, "/v1/auth/register", creds))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var session SessionResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &session))
	require.Equal(t, "alice", session.Username)

	claims, err := auth.Parse(session.Token, testAuth)
	require.NoError(t, err)
	require.Equal(t, "alice", claims.Subject)
	require.True(t, claims.HasScope(auth.ScopeActivitiesWrite))

	rr = serve(mux, postJSON(t, "/v1/auth/register", creds))
	require.Equal(t, http.StatusConflict, rr.Code)
	require.Equal(t, "Username 'alice' already exists.", decodeError(t, rr)["detail"])

	rr = serve(mux, postJSON(t, "/v1/auth/login", CredentialsRequest{Username: "alice", Password: "wrong"}))
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Equal(t, "Invalid username or password.", decodeError(t, rr)["detail"])

	rr = serve(mux, postJSON(t, "/v1/auth/login", CredentialsRequest{Username: "", Password: ""}))
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = serve(mux, postJSON(t, "/v1/auth/login", creds))
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestRegisterOverlongPasswordIsValidationError(t *testing.T) {
	mux := newTestMux(t)

	rr := serve(mux, postJSON(t, "/v1/auth/register", CredentialsRequest{
		Username: "alice",
		Password: strings.Repeat("x", account.MaxPasswordBytes+1),
	}))
	require.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
	body := decodeError(t, rr)
	require.Equal(t, "validation_failed", body["type"])
	require.Equal(t, "Password must be at most 72 bytes.", body["detail"])

	rr = serve(mux, postJSON(t, "/v1/auth/login", CredentialsRequest{Username: "alice", Password: "short"}))
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRequestLoggerRecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, float64(http.StatusTeapot), entry["status"])
	require.Equal(t, "/healthz", entry["path"])
}

func TestCORSPreflight(t *testing.T) {
	handler := CORS("http://localhost:3000")(http.NotFoundHandler())
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodOptions, "/v1/activities", nil))
	require.Equal(t, http.StatusNoContent, rr.Code)
	require.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))
}
