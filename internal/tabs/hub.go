package tabs

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/coder/websocket"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/atomic"

	"breakd/internal/models"
	"breakd/internal/providers"
	"breakd/internal/structures"
)

// Conn is the part of *websocket.Conn the hub writes through.
type Conn interface {
	Write(ctx context.Context, typ websocket.MessageType, p []byte) error
	Close(code websocket.StatusCode, reason string) error
}

// Client is one open socket: either a page bound to a tab or a status UI.
type Client struct {
	ID  string
	Tab models.TabID
	URL string

	conn Conn
	wmu  sync.Mutex
}

// Send writes one JSON frame. Concurrent senders are serialized.
func (c *Client) Send(ctx context.Context, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.wmu.Lock()
	defer c.wmu.Unlock()
	return c.conn.Write(ctx, websocket.MessageText, data)
}

type HubInterface interface {
	Register(tab models.TabID, url string, conn Conn) *Client
	Subscribe(conn Conn) *Client
	Unregister(c *Client)
	Dispatch(ctx context.Context, tab models.TabID, msg models.Message) models.DispatchOutcome
	PublishBadge(badge models.Badge)
	Connected() int
	Close()
}

// Hub routes scheduler commands to the socket of a given tab and fans badge
// updates out to status subscribers.
type Hub struct {
	mu      sync.RWMutex
	tabs    map[models.TabID]*Client
	status  map[string]*Client
	closed  bool
	count   *atomic.Int64
	timeout time.Duration
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

func NewHub(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) *Hub {
	timeout := conf.Tabs.DispatchTimeout
	if timeout <= 0 {
		timeout = structures.DefaultDispatchTimeout
	}
	return &Hub{
		tabs:    make(map[models.TabID]*Client),
		status:  make(map[string]*Client),
		count:   atomic.NewInt64(0),
		timeout: timeout,
		logger:  logger,
		metrics: metrics,
	}
}

// Register binds conn to tab. A reconnect from the same tab (navigation,
// reload) replaces the previous socket.
func (h *Hub) Register(tab models.TabID, url string, conn Conn) *Client {
	c := &Client{ID: uuid.NewString(), Tab: tab, URL: url, conn: conn}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close(websocket.StatusGoingAway, "server shutting down")
		return c
	}
	prev, replaced := h.tabs[tab]
	h.tabs[tab] = c
	if !replaced {
		h.count.Inc()
	}
	h.mu.Unlock()

	if replaced {
		h.logger.Debugf(providers.TypeTabs, "Tab %d reconnected, dropping socket %s", tab, prev.ID)
		_ = prev.conn.Close(websocket.StatusPolicyViolation, "replaced by a newer connection")
	}
	h.metrics.SetConnectedTabs(int(h.count.Load()))
	h.logger.Debugf(providers.TypeTabs, "Tab %d connected (%s)", tab, c.ID)
	return c
}

func (h *Hub) Subscribe(conn Conn) *Client {
	c := &Client{ID: uuid.NewString(), conn: conn}
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close(websocket.StatusGoingAway, "server shutting down")
		return c
	}
	h.status[c.ID] = c
	h.mu.Unlock()
	h.logger.Debugf(providers.TypeTabs, "Status subscriber connected (%s)", c.ID)
	return c
}

// Unregister forgets c. It is a no-op when c has already been replaced.
func (h *Hub) Unregister(c *Client) {
	if c == nil {
		return
	}
	h.mu.Lock()
	if c.Tab == 0 {
		delete(h.status, c.ID)
		h.mu.Unlock()
		return
	}
	current, ok := h.tabs[c.Tab]
	removed := ok && current.ID == c.ID
	if removed {
		delete(h.tabs, c.Tab)
		h.count.Dec()
	}
	h.mu.Unlock()

	if removed {
		h.metrics.SetConnectedTabs(int(h.count.Load()))
		h.logger.Debugf(providers.TypeTabs, "Tab %d disconnected (%s)", c.Tab, c.ID)
	}
}

// Dispatch sends msg to tab and reports what happened. It never blocks longer
// than the configured dispatch timeout.
func (h *Hub) Dispatch(ctx context.Context, tab models.TabID, msg models.Message) models.DispatchOutcome {
	outcome := h.dispatch(ctx, tab, msg)
	h.metrics.IncDispatch(string(msg.Type), outcome.String())
	if outcome != models.DispatchDelivered {
		h.logger.Infof(providers.TypeTabs, "%s to tab %d not delivered: %s", msg.Type, tab, outcome)
	}
	return outcome
}

func (h *Hub) dispatch(ctx context.Context, tab models.TabID, msg models.Message) models.DispatchOutcome {
	h.mu.RLock()
	c, ok := h.tabs[tab]
	h.mu.RUnlock()
	if !ok {
		return models.DispatchTargetGone
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	err := c.Send(ctx, msg)
	switch {
	case err == nil:
		return models.DispatchDelivered
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return models.DispatchTimeout
	default:
		h.logger.Debugf(providers.TypeTabs, "Write to tab %d failed: %s", tab, err)
		h.Unregister(c)
		return models.DispatchTargetGone
	}
}

func (h *Hub) PublishBadge(badge models.Badge) {
	h.mu.RLock()
	subscribers := make([]*Client, 0, len(h.status))
	for _, c := range h.status {
		subscribers = append(subscribers, c)
	}
	h.mu.RUnlock()

	reply := models.Reply{Type: models.MsgBadgeUpdate, Payload: badge}
	for _, c := range subscribers {
		ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
		err := c.Send(ctx, reply)
		cancel()
		if err != nil {
			h.logger.Debugf(providers.TypeTabs, "Dropping status subscriber %s: %s", c.ID, err)
			h.Unregister(c)
			_ = c.conn.Close(websocket.StatusGoingAway, "write failed")
		}
	}
}

func (h *Hub) Connected() int {
	return int(h.count.Load())
}

func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	all := make([]*Client, 0, len(h.tabs)+len(h.status))
	for _, c := range h.tabs {
		all = append(all, c)
	}
	for _, c := range h.status {
		all = append(all, c)
	}
	h.tabs = make(map[models.TabID]*Client)
	h.status = make(map[string]*Client)
	h.count.Store(0)
	h.mu.Unlock()

	for _, c := range all {
		_ = c.conn.Close(websocket.StatusGoingAway, "server shutting down")
	}
	h.metrics.SetConnectedTabs(0)
}
