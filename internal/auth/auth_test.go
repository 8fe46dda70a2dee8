package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	authlib "example.com/habitkick/pkg/auth"
)

var testConfig = Config{Secret: "test-secret", Issuer: "habitkick.test"}

func TestIssuerGrantsDefaultScopes(t *testing.T) {
	issuer := NewIssuer(testConfig, time.Hour)
	token, expiresAt, err := issuer.IssueToken("user-1", "a@example.com")
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := authlib.Parse(token, testConfig)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	for _, scope := range DefaultScopes {
		require.True(t, claims.HasScope(scope), scope)
	}
}

func TestMiddlewareSkipsPublicRoutes(t *testing.T) {
	var subject string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject = UserID(r.Context())
	})
	handler := NewMiddleware(testConfig).Wrap(next)

	for _, path := range []string{"/healthz", "/metrics", "/v1/auth/sign-in"} {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, path, nil))
		require.Equal(t, http.StatusOK, rr.Code, path)
		require.Empty(t, subject)
	}

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/profile", nil))
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	token, _, err := NewIssuer(testConfig, time.Hour).IssueToken("user-2", "")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/v1/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "user-2", subject)
}
