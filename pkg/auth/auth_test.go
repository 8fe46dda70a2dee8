package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testConfig = Config{Secret: "test-secret", Issuer: "habitkick.test"}

func TestIssueAndParseRoundTrip(t *testing.T) {
	token, err := Issue(testConfig, "user-1", "user@example.com", []string{"habits:read", "habits:write"}, time.Hour)
	require.NoError(t, err)

	claims, err := Parse(token, testConfig)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	require.Equal(t, "user@example.com", claims.Email)
	require.True(t, claims.HasScope("habits:write"))
	require.False(t, claims.HasScope("competitions:write"))
	require.True(t, claims.HasAnyScope("nope", "habits:read"))
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	token, err := Issue(Config{Secret: testConfig.Secret, Issuer: "someone-else"}, "user-1", "", nil, time.Hour)
	require.NoError(t, err)

	_, err = Parse(token, testConfig)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	token, err := Issue(testConfig, "user-1", "", nil, -time.Minute)
	require.NoError(t, err)

	_, err = Parse(token, testConfig)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsMissingSubject(t *testing.T) {
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss": testConfig.Issuer,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	token, err := raw.SignedString([]byte(testConfig.Secret))
	require.NoError(t, err)

	_, err = Parse(token, testConfig)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAcceptsScopeArray(t *testing.T) {
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":    "user-2",
		"iss":    testConfig.Issuer,
		"exp":    time.Now().Add(time.Hour).Unix(),
		"scopes": []string{"habits:read", ""},
	})
	token, err := raw.SignedString([]byte(testConfig.Secret))
	require.NoError(t, err)

	claims, err := Parse(token, testConfig)
	require.NoError(t, err)
	require.Len(t, claims.Scopes, 1)
}

func TestParseEmptyToken(t *testing.T) {
	_, err := Parse("  ", testConfig)
	require.True(t, errors.Is(err, ErrMissingToken))
}

func TestMiddlewareAttachesClaims(t *testing.T) {
	token, err := Issue(testConfig, "user-3", "", []string{"habits:read"}, time.Hour)
	require.NoError(t, err)

	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SubjectFromContext(r.Context())
	})
	mw := NewMiddleware(testConfig, func(r *http.Request) bool { return r.URL.Path == "/healthz" })

	req := httptest.NewRequest(http.MethodGet, "/v1/weights", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	mw.Wrap(next).ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "user-3", seen)

	rr = httptest.NewRecorder()
	mw.Wrap(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/weights", nil))
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = httptest.NewRecorder()
	mw.Wrap(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestMiddlewareRejectsNonBearerScheme(t *testing.T) {
	token, err := Issue(testConfig, "user-4", "", nil, time.Hour)
	require.NoError(t, err)

	mw := NewMiddleware(testConfig, nil)
	req := httptest.NewRequest(http.MethodGet, "/v1/weights", nil)
	req.Header.Set("Authorization", "Basic "+token)
	rr := httptest.NewRecorder()
	mw.Wrap(http.NotFoundHandler()).ServeHTTP(rr, req)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Contains(t, rr.Header().Get("WWW-Authenticate"), "Bearer")
	require.Contains(t, rr.Body.String(), ErrInvalidToken.Error())
}

func TestSkipPaths(t *testing.T) {
	skip := SkipPaths([]string{"/healthz"}, []string{"/v1/auth/"})

	cases := map[string]bool{
		"/healthz":        true,
		"/healthz/deep":   false,
		"/v1/auth/signin": true,
		"/v1/authors":     false,
		"/v1/weights":     false,
	}
	for path, want := range cases {
		require.Equalf(t, want, skip(httptest.NewRequest(http.MethodGet, path, nil)), "path %s", path)
	}
}
