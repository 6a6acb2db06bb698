package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"breakd/internal/structures"
	"breakd/internal/tabs"
	"breakd/internal/testutil"
)

type stubConn struct{}

func (stubConn) Write(context.Context, websocket.MessageType, []byte) error { return nil }
func (stubConn) Close(websocket.StatusCode, string) error { return nil }

func newTestHub(t *testing.T) *tabs.Hub {
	hub := tabs.NewHub(&structures.Config{}, &testutil.MockLogger{}, &testutil.MockMetrics{})
	t.Cleanup(hub.Close)
	return hub
}

func TestHealth_ReturnsOK(t *testing.T) {
	hub := newTestHub(t)
	hub.Register(1, "https://a.example", stubConn{})
	hub.Register(2, "https://b.example", stubConn{})
	hc := NewHealthController(hub)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	hc.Health(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Contains(t, resp, "uptime")
	assert.Contains(t, resp, "uptime_seconds")
	assert.Equal(t, float64(2), resp["connected_tabs"])
}

func TestHealth_MethodNotAllowed(t *testing.T) {
	hc := NewHealthController(newTestHub(t))

	req := httptest.NewRequest(http.MethodPost, "/health", nil)
	rr := httptest.NewRecorder()
	hc.Health(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestHealth_StatusSubscribersNotCounted(t *testing.T) {
	hub := newTestHub(t)
	hub.Subscribe(stubConn{})
	hc := NewHealthController(hub)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	hc.Health(rr, req)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, float64(0), resp["connected_tabs"])
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{"zero", 0, "0h0m0s"},
		{"one minute", 60 * time.Second, "0h1m0s"},
		{"one hour", time.Hour, "1h0m0s"},
		{"mixed", time.Hour + time.Minute + time.Second, "1h1m1s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatDuration(tt.duration))
		})
	}
}
