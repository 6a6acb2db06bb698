package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/coder/websocket"
	json "github.com/goccy/go-json"

	"breakd/internal/models"
	"breakd/internal/providers"
	"breakd/internal/scheduler"
	"breakd/internal/structures"
	"breakd/internal/tabs"
)

// SocketController upgrades page and status connections and feeds their
// frames into the message protocol.
type SocketController struct {
	hub       tabs.HubInterface
	messages  *MessageController
	presenter *scheduler.BadgePresenter
	readLimit int64
	logger    providers.Logger
}

func NewSocketController(conf *structures.Config, hub tabs.HubInterface, messages *MessageController, presenter *scheduler.BadgePresenter, logger providers.Logger) *SocketController {
	return &SocketController{
		hub:       hub,
		messages:  messages,
		presenter: presenter,
		readLimit: conf.Tabs.MaxMessageBytes,
		logger:    logger,
	}
}

func (sc *SocketController) accept(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		sc.logger.Warnf(providers.TypeTabs, "websocket accept failed: %s", err)
		return nil, err
	}
	if sc.readLimit > 0 {
		conn.SetReadLimit(sc.readLimit)
	}
	return conn, nil
}

// Tab serves /ws?tab=<id>&url=<page url>. The connection is the sender.
func (sc *SocketController) Tab(w http.ResponseWriter, r *http.Request) {
	sender, err := senderFromRequest(r)
	if err != nil || sender.Tab == 0 {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	conn, err := sc.accept(w, r)
	if err != nil {
		return
	}

	client := sc.hub.Register(sender.Tab, sender.URL, conn)
	defer func() {
		sc.hub.Unregister(client)
		conn.Close(websocket.StatusNormalClosure, "")
	}()

	ctx := r.Context()
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == -1 && !errors.Is(err, context.Canceled) {
				sc.logger.Debugf(providers.TypeTabs, "Tab %d read failed: %s", sender.Tab, err)
			}
			return
		}

		var msg models.Message
		if err := json.Unmarshal(data, &msg); err != nil || msg.Type == "" {
			_ = client.Send(ctx, models.Reply{Type: models.MsgError, Error: "malformed message"})
			continue
		}
		if msg.URL != "" {
			sender.URL = msg.URL
		}
		if reply := sc.messages.HandleMessage(ctx, sender, msg); reply != nil {
			if err := client.Send(ctx, reply); err != nil {
				return
			}
		}
	}
}

// Status serves /ws/status: the current badge on connect, then every change.
func (sc *SocketController) Status(w http.ResponseWriter, r *http.Request) {
	conn, err := sc.accept(w, r)
	if err != nil {
		return
	}

	ctx := r.Context()
	badge := sc.presenter.Badge(ctx)
	client := sc.hub.Subscribe(conn)
	defer func() {
		sc.hub.Unregister(client)
		conn.Close(websocket.StatusNormalClosure, "")
	}()

	if err := client.Send(ctx, models.Reply{Type: models.MsgBadgeUpdate, Payload: badge}); err != nil {
		return
	}
	for {
		if _, _, err := conn.Read(ctx); err != nil {
			return
		}
	}
}
