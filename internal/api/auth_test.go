package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestPrincipal_Can(t *testing.T) {
	require.True(t, Principal{Permissions: []string{PermAll}}.Can(PermProjectsWrite))
	require.True(t, Principal{Permissions: []string{PermProjectsWrite}}.Can(PermProjectsWrite))
	require.False(t, Principal{Permissions: []string{PermProjectsWrite}}.Can(PermMasterDataWrite))
	require.False(t, Principal{}.Can(PermProjectsWrite))
}

func TestParseToken(t *testing.T) {
	token, err := IssueToken(testSecret, Principal{Subject: "sam", Tenant: "t1", Permissions: []string{"projects:write"}}, time.Hour)
	require.NoError(t, err)

	p, err := ParseToken(testSecret, token)
	require.NoError(t, err)
	require.Equal(t, "sam", p.Subject)
	require.Equal(t, "t1", p.Tenant)
	require.True(t, p.Can(PermProjectsWrite))
}

func TestParseToken_Rejects(t *testing.T) {
	expired, err := IssueToken(testSecret, Principal{Tenant: "t1"}, -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(testSecret, expired)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)

	noTenant, err := IssueToken(testSecret, Principal{Subject: "x"}, time.Hour)
	require.NoError(t, err)
	_, err = ParseToken(testSecret, noTenant)
	require.ErrorContains(t, err, "tenant")

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Tenant: "t1"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ParseToken(testSecret, unsigned)
	require.Error(t, err)
}

func TestRequirePermission_NoPrincipal(t *testing.T) {
	called := false
	h := RequirePermission(PermProjectsWrite)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/projects", nil))
	require.False(t, called)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRecoveryMiddleware(t *testing.T) {
	h := RecoveryMiddleware(discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotContains(t, w.Body.String(), "boom")
}
