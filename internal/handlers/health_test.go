package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thereayou/voxus-signal/internal/events"
)

func newHealthEngine(f *routerFixture) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	health := NewHealthHandler(f.relay)
	r.GET("/", health.Banner)
	r.GET("/health", health.Health)
	return r
}

func TestHealthCounts(t *testing.T) {
	f := newRouter(t, 0)
	f.setupRoom(t, "a", "b")
	f.connect("idle")

	w := httptest.NewRecorder()
	newHealthEngine(f).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Status    string `json:"status"`
		Rooms     int    `json:"rooms"`
		Users     int    `json:"users"`
		Timestamp string `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, 1, body.Rooms)
	assert.Equal(t, 3, body.Users)
	_, err := time.Parse(time.RFC3339, body.Timestamp)
	assert.NoError(t, err)

	f.send(t, "a", events.TypeLeaveRoom, `{}`)
	f.send(t, "b", events.TypeLeaveRoom, `{}`)

	w = httptest.NewRecorder()
	newHealthEngine(f).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Zero(t, body.Rooms)
}

func TestBanner(t *testing.T) {
	f := newRouter(t, 0)

	w := httptest.NewRecorder()
	newHealthEngine(f).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, Version, body["version"])
	assert.NotEmpty(t, body["message"])
	assert.NotEmpty(t, body["timestamp"])
}
