package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"breakd/internal/models"
	"breakd/internal/scheduler"
	"breakd/internal/services"
	"breakd/internal/storage"
	"breakd/internal/structures"
	"breakd/internal/tabs"
	"breakd/internal/testutil"
)

type harness struct {
	conf      *structures.Config
	store     *testutil.MockStore
	repo      *storage.SettingsRepository
	clock     *testutil.MockClock
	hub       *tabs.Hub
	sched     *scheduler.Scheduler
	presenter *scheduler.BadgePresenter
	messages  *MessageController
	settings  *SettingsController
	stats     *StatsController
	sockets   *SocketController
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	conf := &structures.Config{
		Scheduler: structures.SchedulerConfig{DefaultBreakInterval: 10 * time.Second},
	}
	conf.ApplyDefaults()

	logger := &testutil.MockLogger{}
	metrics := &testutil.MockMetrics{}
	h := &harness{
		conf:  conf,
		store: testutil.NewMockStore(),
		clock: testutil.NewMockClock(1_000),
	}
	h.repo = storage.NewSettingsRepository(h.store, conf)
	h.hub = tabs.NewHub(conf, logger, metrics)
	t.Cleanup(h.hub.Close)
	h.sched = scheduler.NewScheduler(conf, h.repo, h.hub, scheduler.NewDomainGate(testutil.NewMockCache()), h.clock, logger, metrics)
	require.NoError(t, h.sched.Install(context.Background()))
	h.presenter = scheduler.NewBadgePresenter(h.sched, h.hub)

	statsService := services.NewStatsService(conf, h.repo, h.clock, logger)
	h.messages = NewMessageController(logger, h.sched, statsService, h.presenter)
	h.settings = NewSettingsController(logger, services.NewSettingsService(conf, h.sched, logger))
	h.stats = NewStatsController(logger, statsService)
	h.sockets = NewSocketController(conf, h.hub, h.messages, h.presenter, logger)
	return h
}

func (h *harness) timer(t *testing.T) models.TimerState {
	t.Helper()
	_, st, err := h.repo.Load(context.Background())
	require.NoError(t, err)
	return st
}

func (h *harness) sessionOpen() bool {
	_, st, err := h.repo.Load(context.Background())
	return err == nil && st.SessionOpen()
}

func (h *harness) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.sockets.Tab)
	mux.HandleFunc("/ws/status", h.sockets.Status)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "") })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, data, err := conn.Read(ctx)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v))
}

func writeFrame(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, conn.Write(ctx, websocket.MessageText, data))
}

func do(handler http.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}
