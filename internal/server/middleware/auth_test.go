package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubValidator accepts the tokens it maps to owners.
type stubValidator map[string]uuid.UUID

func (v stubValidator) ValidateToken(token string) (UserIDGetter, error) {
	owner, ok := v[token]
	if !ok {
		return nil, errors.New("unknown token")
	}
	return ownerClaims(owner), nil
}

type ownerClaims uuid.UUID

func (c ownerClaims) GetUserID() uuid.UUID { return uuid.UUID(c) }

// serveResumes sends a request to a protected resume route and reports the
// user the handler saw, or uuid.Nil when it was not reached.
func serveResumes(t *testing.T, v TokenValidator, authorization string) (*httptest.ResponseRecorder, uuid.UUID) {
	t.Helper()
	seen := uuid.Nil
	protected := AuthMiddleware(v)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := GetUserID(r)
		require.NoError(t, err)
		seen = id
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/resumes/"+uuid.NewString()+"/pages", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	protected.ServeHTTP(w, req)
	return w, seen
}

func TestAuthMiddleware_Authorization(t *testing.T) {
	owner := uuid.New()
	v := stubValidator{"editor-token": owner}

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "bearer token", header: "Bearer editor-token", want: http.StatusNoContent},
		{name: "scheme is case-insensitive", header: "bEaReR editor-token", want: http.StatusNoContent},
		{name: "extra whitespace", header: "Bearer   editor-token", want: http.StatusNoContent},
		{name: "no header", header: "", want: http.StatusUnauthorized},
		{name: "token without scheme", header: "editor-token", want: http.StatusUnauthorized},
		{name: "scheme without token", header: "Bearer", want: http.StatusUnauthorized},
		{name: "basic auth", header: "Basic ZWRpdG9yOnRva2Vu", want: http.StatusUnauthorized},
		{name: "trailing garbage", header: "Bearer editor-token extra", want: http.StatusUnauthorized},
		{name: "unknown token", header: "Bearer share-token", want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, seen := serveResumes(t, v, tt.header)

			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusNoContent {
				assert.Equal(t, owner, seen)
			} else {
				assert.Equal(t, uuid.Nil, seen, "protected handler must not run")
			}
		})
	}
}

func TestAuthMiddleware_UnauthorizedBody(t *testing.T) {
	w, _ := serveResumes(t, stubValidator{}, "Bearer stale")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("WWW-Authenticate"), "Bearer")
	assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
}

func TestGetUserID(t *testing.T) {
	owner := uuid.New()
	base := httptest.NewRequest(http.MethodGet, "/resumes", nil)

	got, err := GetUserID(base.WithContext(WithUserID(base.Context(), owner)))
	require.NoError(t, err)
	assert.Equal(t, owner, got)

	got, err = GetUserID(base)
	assert.ErrorContains(t, err, "user ID not found")
	assert.Equal(t, uuid.Nil, got)

	wrongType := context.WithValue(base.Context(), UserIDKey(), owner.String())
	got, err = GetUserID(base.WithContext(wrongType))
	assert.Error(t, err)
	assert.Equal(t, uuid.Nil, got)
}
