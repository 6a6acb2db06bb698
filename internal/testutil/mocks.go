package testutil

import (
	"context"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"breakd/internal/models"
	"breakd/internal/providers"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.Logs {
		if l.Level == level {
			n++
		}
	}
	return n
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
	Gets int
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Gets++
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

func (m *MockCache) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data = make(map[string][]byte)
}

// MockCompressor implements storage.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	// Default: return as-is (identity)
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {}

// MockStore implements storage.StoreInterface. Errors are injectable per
// operation; with Block set every call waits for its context to end.
type MockStore struct {
	mu        sync.Mutex
	Values    map[string]json.RawMessage
	GetErr    error
	SetErr    error
	RemoveErr error
	Block     bool
	SetCalls  int
}

func NewMockStore() *MockStore {
	return &MockStore{Values: make(map[string]json.RawMessage)}
}

func (m *MockStore) wait(ctx context.Context) error {
	if m.Block {
		<-ctx.Done()
		return ctx.Err()
	}
	return ctx.Err()
}

func (m *MockStore) Get(ctx context.Context, keys ...string) (map[string]json.RawMessage, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	out := make(map[string]json.RawMessage)
	for k, v := range m.Values {
		if len(keys) == 0 {
			out[k] = v
			continue
		}
		for _, want := range keys {
			if k == want {
				out[k] = v
			}
		}
	}
	return out, nil
}

func (m *MockStore) Set(ctx context.Context, values map[string]any) error {
	if err := m.wait(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetCalls++
	if m.SetErr != nil {
		return m.SetErr
	}
	if m.Values == nil {
		m.Values = make(map[string]json.RawMessage)
	}
	for k, v := range values {
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}
		m.Values[k] = raw
	}
	return nil
}

func (m *MockStore) Remove(ctx context.Context, keys ...string) error {
	if err := m.wait(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	for _, k := range keys {
		delete(m.Values, k)
	}
	return nil
}

func (m *MockStore) Snapshot() map[string]json.RawMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]json.RawMessage, len(m.Values))
	for k, v := range m.Values {
		out[k] = v
	}
	return out
}

func (m *MockStore) Load(values map[string]json.RawMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Values = values
}

// SetFailing toggles SetErr under the store lock.
func (m *MockStore) SetFailing(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetErr = err
}

// MockMetrics implements providers.MetricsProviderInterface and counts the
// scheduler-facing series.
type MockMetrics struct {
	mu              sync.Mutex
	Requests        int
	CacheHits       int
	CacheMisses     int
	Persisted       int
	Transitions     map[string]int
	BreaksTriggered int
	Dispatches      map[string]int
	StoreFailures   map[string]int
	ConnectedTabs   int
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests++
}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}
func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}
func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Persisted++
}
func (m *MockMetrics) IncTransitions(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Transitions == nil {
		m.Transitions = make(map[string]int)
	}
	m.Transitions[kind]++
}
func (m *MockMetrics) IncBreaksTriggered() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BreaksTriggered++
}
func (m *MockMetrics) IncDispatch(command string, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Dispatches == nil {
		m.Dispatches = make(map[string]int)
	}
	m.Dispatches[command+"/"+outcome]++
}
func (m *MockMetrics) IncStoreFailures(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StoreFailures == nil {
		m.StoreFailures = make(map[string]int)
	}
	m.StoreFailures[op]++
}
func (m *MockMetrics) SetConnectedTabs(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ConnectedTabs = count
}

// MetricsCounts is a point-in-time copy of MockMetrics.
type MetricsCounts struct {
	Requests        int
	CacheHits       int
	CacheMisses     int
	Persisted       int
	Transitions     map[string]int
	BreaksTriggered int
	Dispatches      map[string]int
	StoreFailures   map[string]int
	ConnectedTabs   int
}

func (m *MockMetrics) Snapshot() MetricsCounts {
	m.mu.Lock()
	defer m.mu.Unlock()
	return MetricsCounts{
		Requests:        m.Requests,
		CacheHits:       m.CacheHits,
		CacheMisses:     m.CacheMisses,
		Persisted:       m.Persisted,
		Transitions:     copyCounts(m.Transitions),
		BreaksTriggered: m.BreaksTriggered,
		Dispatches:      copyCounts(m.Dispatches),
		StoreFailures:   copyCounts(m.StoreFailures),
		ConnectedTabs:   m.ConnectedTabs,
	}
}

func copyCounts(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// Dispatched is one command handed to MockDispatcher.
type Dispatched struct {
	Tab models.TabID
	Msg models.Message
}

// MockDispatcher implements scheduler.DispatcherInterface and
// scheduler.BadgeSinkInterface.
type MockDispatcher struct {
	mu      sync.Mutex
	Sent    []Dispatched
	Badges  []models.Badge
	Outcome models.DispatchOutcome
}

func (m *MockDispatcher) Dispatch(_ context.Context, tab models.TabID, msg models.Message) models.DispatchOutcome {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, Dispatched{Tab: tab, Msg: msg})
	if m.Outcome == models.DispatchNone {
		return models.DispatchDelivered
	}
	return m.Outcome
}

func (m *MockDispatcher) PublishBadge(badge models.Badge) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Badges = append(m.Badges, badge)
}

func (m *MockDispatcher) Commands() []Dispatched {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Dispatched(nil), m.Sent...)
}

func (m *MockDispatcher) Published() []models.Badge {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Badge(nil), m.Badges...)
}

// MockClock is a settable clock; the zero value reads as Unix 0.
type MockClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewMockClock(ms int64) *MockClock {
	return &MockClock{now: time.UnixMilli(ms)}
}

func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.now.IsZero() {
		return time.UnixMilli(0)
	}
	return c.now
}

func (c *MockClock) Set(ms int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = time.UnixMilli(ms)
}

func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.now.IsZero() {
		c.now = time.UnixMilli(0)
	}
	c.now = c.now.Add(d)
}
