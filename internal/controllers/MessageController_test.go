package controllers

import (
	"context"
	"net/http"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"breakd/internal/models"
)

func TestMessageController_ActivityOpensSession(t *testing.T) {
	h := newHarness(t)

	rr := do(h.messages.Activity, http.MethodPost, "/activity?tab=7", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	st := h.timer(t)
	assert.True(t, st.IsActive)
	assert.Equal(t, models.TabID(7), st.LastActiveTabID)
	assert.Equal(t, models.Millis(1_000), st.ActivityStartTime)

	h.clock.Advance(4 * time.Second)
	rr = do(h.messages.TimeRemaining, http.MethodGet, "/time-remaining", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp models.TimeRemainingResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, models.TimeRemainingResponse{TimeRemaining: 6_000, IsActive: true, Enabled: true, BreakInterval: 10}, resp)
}

func TestMessageController_ActivityRejectsBadTab(t *testing.T) {
	h := newHarness(t)

	rr := do(h.messages.Activity, http.MethodPost, "/activity?tab=abc", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(h.messages.Activity, http.MethodPost, "/activity?tab=-3", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.False(t, h.timer(t).IsActive)
}

func TestMessageController_ActivityRequiresTab(t *testing.T) {
	h := newHarness(t)

	rr := do(h.messages.Activity, http.MethodPost, "/activity?tab=7", "")
	require.Equal(t, http.StatusNoContent, rr.Code)
	h.clock.Advance(10 * time.Second)

	rr = do(h.messages.Activity, http.MethodPost, "/activity", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	rr = do(h.messages.Message, http.MethodPost, "/message", `{"type":"ACTIVITY_DETECTED"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Nil(t, h.messages.HandleMessage(context.Background(), models.Sender{}, models.Message{Type: models.MsgActivityDetected}))

	st := h.timer(t)
	assert.Equal(t, models.Millis(1_000), st.LastBreakTime)
	assert.Equal(t, models.TabID(7), st.LastActiveTabID)

	rr = do(h.messages.Activity, http.MethodPost, "/activity?tab=7", "")
	require.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, models.Millis(11_000), h.timer(t).LastBreakTime)
}

func TestMessageController_ShouldShow(t *testing.T) {
	h := newHarness(t)

	rr := do(h.messages.ShouldShow, http.MethodGet, "/should-show", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	do(h.messages.Activity, http.MethodPost, "/activity?tab=1", "")
	h.clock.Advance(3 * time.Second)

	rr = do(h.messages.ShouldShow, http.MethodGet, "/should-show?url=https://example.com/a", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var resp models.ShouldShowBreakResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.False(t, resp.ShouldShow)
	require.NotNil(t, resp.TimeRemaining)
	assert.Equal(t, int64(7_000), *resp.TimeRemaining)

	h.clock.Advance(10 * time.Second)
	rr = do(h.messages.ShouldShow, http.MethodGet, "/should-show?url=https://example.com/a", "")
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.ShouldShow)
	assert.Equal(t, int64(0), *resp.TimeRemaining)
}

func TestMessageController_BreakCompletedRecordsStats(t *testing.T) {
	h := newHarness(t)
	h.clock.Advance(30 * time.Second)

	rr := do(h.messages.BreakCompleted, http.MethodPost, "/break-completed", `{"game":"sudoku","durationMs":45000}`)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	st := h.timer(t)
	assert.Equal(t, models.Millis(31_000), st.LastBreakTime)
	assert.True(t, st.IsActive)

	stats, err := h.repo.LoadStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalBreaks)
	assert.Equal(t, 1, stats.GamesPlayed[models.GameSudoku])
	assert.Equal(t, int64(45_000), stats.TotalTimeMs)
}

func TestMessageController_BreakCompletedUnknownGameStillResets(t *testing.T) {
	h := newHarness(t)
	h.clock.Advance(30 * time.Second)

	rr := do(h.messages.BreakCompleted, http.MethodPost, "/break-completed", `{"game":"chess"}`)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, models.Millis(31_000), h.timer(t).LastBreakTime)

	stats, err := h.repo.LoadStats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalBreaks)
}

func TestMessageController_BreakCompletedMalformedBody(t *testing.T) {
	h := newHarness(t)

	rr := do(h.messages.BreakCompleted, http.MethodPost, "/break-completed", `{"game":`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, models.Millis(1_000), h.timer(t).LastBreakTime)
}

func TestMessageController_Restart(t *testing.T) {
	h := newHarness(t)
	h.clock.Advance(5 * time.Second)

	rr := do(h.messages.Restart, http.MethodPost, "/restart", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"ok":true}`, rr.Body.String())
	assert.Equal(t, models.Millis(6_000), h.timer(t).LastBreakTime)
}

func TestMessageController_MessageEnvelope(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantType models.MessageType
	}{
		{"activity is fire and forget", `{"type":"ACTIVITY_DETECTED"}`, http.StatusNoContent, ""},
		{"time remaining echoes id", `{"id":"q1","type":"GET_TIME_REMAINING"}`, http.StatusOK, models.MsgGetTimeRemaining},
		{"should show", `{"id":"q2","type":"CHECK_SHOULD_SHOW_BREAK","url":"https://example.com"}`, http.StatusOK, models.MsgCheckShouldShowBreak},
		{"unknown type", `{"id":"q3","type":"LAUNCH_ROCKET"}`, http.StatusBadRequest, models.MsgError},
		{"missing type", `{"id":"q4"}`, http.StatusBadRequest, ""},
		{"malformed", `not json`, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(h.messages.Message, http.MethodPost, "/message?tab=2", tt.body)
			assert.Equal(t, tt.wantCode, rr.Code)
			if tt.wantType == "" {
				return
			}
			var reply models.Reply
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &reply))
			assert.Equal(t, tt.wantType, reply.Type)
		})
	}
}

func TestMessageController_HandleMessageWebcamCompleted(t *testing.T) {
	h := newHarness(t)
	h.clock.Advance(20 * time.Second)

	reply := h.messages.HandleMessage(context.Background(), models.Sender{Tab: 4}, models.Message{Type: models.MsgWebcamCompleted, DurationMs: 10_000})
	assert.Nil(t, reply)
	assert.Equal(t, models.Millis(21_000), h.timer(t).LastBreakTime)

	stats, err := h.repo.LoadStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.GamesPlayed[models.GameMotion])
}

func TestMessageController_Badge(t *testing.T) {
	h := newHarness(t)

	rr := do(h.messages.Badge, http.MethodGet, "/badge", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"text":""}`, rr.Body.String())

	do(h.messages.Activity, http.MethodPost, "/activity?tab=1", "")
	rr = do(h.messages.Badge, http.MethodGet, "/badge", "")
	assert.JSONEq(t, `{"text":"!","color":"#FF5722"}`, rr.Body.String())
}
