package keepalive

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHandleRoot_NotLoggedIn(t *testing.T) {
	s := &Server{started: time.Now()}

	rec := httptest.NewRecorder()
	s.handleRoot(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var payload map[string]any
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "Bot is running!", payload["status"])
	assert.Equal(t, "Not logged in", payload["botStatus"])
	assert.NotEmpty(t, payload["timestamp"])
}

func TestHandleHealth_Disconnected(t *testing.T) {
	s := &Server{started: time.Now().Add(-time.Minute)}

	rec := httptest.NewRecorder()
	s.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var payload map[string]any
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "healthy", payload["status"])
	assert.Equal(t, "disconnected", payload["discord"])
	assert.GreaterOrEqual(t, payload["uptime"].(float64), 59.0)
}
