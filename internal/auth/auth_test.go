package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testConfig = Config{Secret: "test-secret", Issuer: "ecoquest.test", TTL: time.Hour}

func TestIssueAndParse(t *testing.T) {
	token, expires, err := Issue("alice", UserScopes, testConfig, time.Now())
	require.NoError(t, err)

	claims, err := Parse(token, testConfig)
	require.NoError(t, err)
	require.Equal(t, "alice", claims.Subject)
	require.True(t, claims.HasScope(ScopeActivitiesRead))
	require.True(t, claims.HasScope(ScopeActivitiesWrite))
	require.WithinDuration(t, expires, claims.ExpiresAt, time.Second)
}

func TestParseRejectsBadTokens(t *testing.T) {
	_, err := Parse("", testConfig)
	require.ErrorIs(t, err, ErrMissingToken)

	expired, _, err := Issue("alice", UserScopes, testConfig, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)
	_, err = Parse(expired, testConfig)
	require.ErrorIs(t, err, ErrInvalidToken)

	otherIssuer := testConfig
	otherIssuer.Issuer = "someone-else"
	foreign, _, err := Issue("alice", UserScopes, otherIssuer, time.Now())
	require.NoError(t, err)
	_, err = Parse(foreign, testConfig)
	require.ErrorIs(t, err, ErrInvalidToken)

	wrongKey := testConfig
	wrongKey.Secret = "nope"
	_, err = Parse(foreign, wrongKey)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAcceptsScopeArrays(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":    "bob",
		"iss":    testConfig.Issuer,
		"exp":    time.Now().Add(time.Hour).Unix(),
		"scopes": []string{ScopeActivitiesRead},
	})
	signed, err := token.SignedString([]byte(testConfig.Secret))
	require.NoError(t, err)

	claims, err := Parse(signed, testConfig)
	require.NoError(t, err)
	require.True(t, claims.HasScope(ScopeActivitiesRead))
	require.False(t, claims.HasScope(ScopeActivitiesWrite))
}

func TestMiddleware(t *testing.T) {
	var seen *Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	handler := NewMiddleware(testConfig, PublicPaths).Wrap(next)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/dashboard", nil))
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Contains(t, rr.Body.String(), "unauthorized")

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/auth/login", nil))
	require.Equal(t, http.StatusNoContent, rr.Code)
	require.Nil(t, seen)

	token, _, err := Issue("alice", UserScopes, testConfig, time.Now())
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/v1/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	require.Equal(t, http.StatusNoContent, rr.Code)
	require.NotNil(t, seen)
	require.Equal(t, "alice", seen.Subject)
}
