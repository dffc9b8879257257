package server

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jonathan/resume-layout/internal/server/ratelimit"
	"github.com/jonathan/resume-layout/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecurity_PasswordHashNeverReturned(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/auth/register", "", types.CreateUserRequest{
		Name: "Hash Test", Email: "hash@example.com", Password: "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	body := strings.ToLower(w.Body.String())
	assert.NotContains(t, body, "password")
	assert.NotContains(t, body, "$2a$")

	w = env.do(t, http.MethodPost, "/auth/login", "", types.LoginRequest{Email: "hash@example.com", Password: "password123"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "$2a$")
}

func TestSecurity_TokenValidation(t *testing.T) {
	env := newTestEnv(t)
	valid := env.register(t, "tokens@example.com")

	forge := func(secret string, method jwt.SigningMethod, claims *Claims) string {
		token := jwt.NewWithClaims(method, claims)
		s, err := token.SignedString([]byte(secret))
		require.NoError(t, err)
		return s
	}
	now := time.Now()
	claims := func(exp time.Time) *Claims {
		return &Claims{UserID: uuid.New(), RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		}}
	}

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{name: "valid", token: valid, want: http.StatusOK},
		{name: "wrong secret", token: forge("another-secret-that-is-long-enough-123", jwt.SigningMethodHS256, claims(now.Add(time.Hour))), want: http.StatusUnauthorized},
		{name: "expired", token: forge(testJWTSecret, jwt.SigningMethodHS256, claims(now.Add(-time.Hour))), want: http.StatusUnauthorized},
		{name: "nil user", token: forge(testJWTSecret, jwt.SigningMethodHS256, &Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))}}), want: http.StatusUnauthorized},
		{name: "tampered", token: valid[:len(valid)-2] + "xx", want: http.StatusUnauthorized},
		{name: "garbage", token: "a.b.c", want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodGet, "/resumes", tt.token, nil)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestSecurity_RateLimiting_Login(t *testing.T) {
	env := newTestEnv(t)
	env.server.rateLimiter.Stop()
	env.server.rateLimiter = ratelimit.NewLimiter(&ratelimit.Config{
		Enabled:         true,
		DefaultLimit:    1000,
		DefaultWindow:   time.Minute,
		Whitelist:       map[string]bool{},
		Blacklist:       map[string]bool{},
		EndpointConfigs: ratelimit.DefaultEndpointConfigs(),
	})
	defer env.server.rateLimiter.Stop()
	env.handler = env.server.withRateLimit(env.server.withLogging(env.server.withCORS(env.server.routes())))

	body := types.LoginRequest{Email: "nobody@example.com", Password: "password123"}
	limited := false
	for i := 0; i < 10; i++ {
		w := env.do(t, http.MethodPost, "/auth/login", "", body)
		if w.Code == http.StatusTooManyRequests {
			limited = true
			assert.GreaterOrEqual(t, i, 5, "burst of 5 is allowed")
			break
		}
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}
	assert.True(t, limited, "login attempts are rate limited")
}

func TestSecurity_SharedPreviewIsReadOnly(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "readonly@example.com")
	resume := createResume(t, env, token)

	w := env.do(t, http.MethodPost, "/resumes/"+resume.ID.String()+"/share", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	for _, method := range []string{http.MethodPut, http.MethodDelete, http.MethodPost} {
		w := env.do(t, method, "/shared/anything", "", nil)
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code, method)
	}
}
