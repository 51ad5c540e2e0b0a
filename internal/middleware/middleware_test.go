package middleware

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/coeval-backend/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAuth map[string]model.Identity

func (f fakeAuth) Authenticate(token string) (model.Identity, error) {
	if token == "expired" {
		return model.Identity{}, fmt.Errorf("parse token: %w", jwt.ErrTokenExpired)
	}
	ident, ok := f[token]
	if !ok {
		return model.Identity{}, errors.New("bad token")
	}
	return ident, nil
}

var auth = fakeAuth{
	"teacher": {UserID: "t1", Role: model.RoleTeacher},
	"student": {UserID: "s1", Role: model.RoleStudent},
}

func do(r *gin.Engine, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestRequireIdentity(t *testing.T) {
	r := gin.New()
	r.GET("/", RequireIdentity(auth), func(c *gin.Context) {
		ident, ok := GetIdentity(c)
		require.True(t, ok)
		c.String(http.StatusOK, ident.UserID.String())
	})

	tests := []struct {
		name   string
		token  string
		status int
		body   string
	}{
		{name: "missing", status: http.StatusUnauthorized, body: "TOKEN_REQUIRED"},
		{name: "invalid", token: "nope", status: http.StatusUnauthorized, body: "TOKEN_INVALID"},
		{name: "expired", token: "expired", status: http.StatusUnauthorized, body: "TOKEN_EXPIRED"},
		{name: "valid", token: "student", status: http.StatusOK, body: "s1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, tt.token)
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
		})
	}
}

func TestRequireRole(t *testing.T) {
	r := gin.New()
	r.GET("/", RequireIdentity(auth), RequireTeacher(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	assert.Equal(t, http.StatusNoContent, do(r, "teacher").Code)

	w := do(r, "student")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "TEACHER_ACCESS_ONLY")
}

func TestRateLimiter_Refill(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute, nil)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"), "buckets are per key")

	now = now.Add(time.Minute)
	assert.True(t, rl.Allow("a"))
}

func TestRateLimiter_ByIdentity(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour, ByIdentity)
	r := gin.New()
	r.GET("/", RequireIdentity(auth), rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	assert.Equal(t, http.StatusNoContent, do(r, "student").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, "student").Code)
	assert.Equal(t, http.StatusNoContent, do(r, "teacher").Code)
}

func TestBrotli(t *testing.T) {
	large := strings.Repeat("coevaluación ", 400)
	r := gin.New()
	r.Use(Brotli())
	r.GET("/large", func(c *gin.Context) { c.String(http.StatusOK, large) })
	r.GET("/small", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Accept-Encoding", "gzip, br")
		r.ServeHTTP(w, req)
		return w
	}

	w := get("/large")
	require.Equal(t, "br", w.Header().Get("Content-Encoding"))
	plain, err := io.ReadAll(brotli.NewReader(bytes.NewReader(w.Body.Bytes())))
	require.NoError(t, err)
	assert.Equal(t, large, string(plain))

	w = get("/small")
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Equal(t, "ok", w.Body.String())
}

func TestNoStore(t *testing.T) {
	r := gin.New()
	r.Use(NoStore())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, "no-store", do(r, "").Header().Get("Cache-Control"))
}
