package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireAuth_RejectsWithoutLeakingTheReason(t *testing.T) {
	t.Parallel()

	tokens, err := NewJWTService(testSecret)
	require.NoError(t, err)
	mw := NewMiddleware(tokens)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler must not run for unauthorized requests")
	})

	headers := []string{
		"",
		"Bearer",
		"Bearer ",
		"Basic dXNlcjpwYXNz",
		"Bearer garbage-token",
		"Bearer a b c",
	}

	for _, header := range headers {
		req := httptest.NewRequest(http.MethodGet, "/v1/users/abc", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()

		mw.RequireAuth(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
		assert.Contains(t, rec.Body.String(), "User not authorized", "header %q", header)
	}
}

func TestRequireAuth_InjectsIdentity(t *testing.T) {
	t.Parallel()

	tokens, err := NewJWTService(testSecret)
	require.NoError(t, err)
	mw := NewMiddleware(tokens)

	userID := uuid.New()
	token, err := tokens.CreateToken(userID, "reader@example.com", "Jane Reader", time.Hour)
	require.NoError(t, err)

	var got Identity
	var found bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, found = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/users/abc", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	mw.RequireAuth(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, found)
	assert.Equal(t, userID, got.ID)
	assert.Equal(t, "reader@example.com", got.Email)
	assert.Equal(t, "Jane Reader", got.Name)
}

func TestIdentityFromContext_Empty(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := IdentityFromContext(req.Context())
	assert.False(t, ok)
}
