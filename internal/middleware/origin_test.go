package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeOrigin(t *testing.T) {
	cases := []struct {
		in       string
		want     string
		hostname string
		ok       bool
	}{
		{"https://Example.com", "https://example.com", "example.com", true},
		{"https://example.com:443/", "https://example.com", "example.com", true},
		{"http://localhost:3000", "http://localhost:3000", "localhost", true},
		{"http://[::1]:8080", "http://[::1]:8080", "::1", true},
		{"ftp://example.com", "", "", false},
		{"https://example.com/path", "", "", false},
		{"https://user@example.com", "", "", false},
		{"example.com", "", "", false},
		{"http://example.com:0", "", "", false},
	}
	for _, tc := range cases {
		got, host, ok := NormalizeOrigin(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
		assert.Equal(t, tc.hostname, host, tc.in)
	}
}

func TestOriginPolicyAllow(t *testing.T) {
	p := NewOriginPolicy(
		[]string{"https://thinkenlac.es", "http://localhost:3000", "not an origin"},
		[]string{".thinkenlac.es", "example.org"},
	)

	assert.True(t, p.Allow(""))
	assert.True(t, p.Allow("https://thinkenlac.es"))
	assert.True(t, p.Allow("https://THINKENLAC.es:443"))
	assert.True(t, p.Allow("http://localhost:3000"))
	assert.True(t, p.Allow("https://app.thinkenlac.es"))
	assert.True(t, p.Allow("https://a.example.org"))

	assert.False(t, p.Allow("http://localhost:3001"))
	assert.False(t, p.Allow("https://evilthinkenlac.es"))
	assert.False(t, p.Allow("null"))
	assert.False(t, p.Allow("https://attacker.test"))
}

func TestOriginPolicyWildcard(t *testing.T) {
	p := NewOriginPolicy([]string{"*"}, nil)
	assert.True(t, p.Allow("https://anything.test"))
}

func TestCheckOrigin(t *testing.T) {
	p := NewOriginPolicy([]string{"http://localhost:3000"}, nil)

	r := httptest.NewRequest(http.MethodGet, "/ws", nil)
	r.Header.Set("Origin", "http://localhost:3000")
	assert.True(t, p.CheckOrigin(r))

	r.Header.Set("Origin", "http://localhost:9999")
	assert.False(t, p.CheckOrigin(r))
}

func newCORSEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS(NewOriginPolicy([]string{"http://localhost:3000"}, nil)))
	r.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return r
}

func TestCORSAllowedOrigin(t *testing.T) {
	r := newCORSEngine()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflight(t *testing.T) {
	r := newCORSEngine()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestCORSRejectsOrigin(t *testing.T) {
	r := newCORSEngine()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://attacker.test")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSWithoutOrigin(t *testing.T) {
	r := newCORSEngine()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
