package controllers

import (
	"context"
	"net/http"
	"time"

	"breakd/internal/models"
	"breakd/internal/providers"
	"breakd/internal/scheduler"
	"breakd/internal/services"
)

type breakCompletedPayload struct {
	Game       models.GameType `json:"game"`
	DurationMs int64           `json:"durationMs"`
}

// MessageController speaks the page/status protocol. The same handler serves
// socket frames and the HTTP endpoints.
type MessageController struct {
	logger    providers.Logger
	scheduler scheduler.SchedulerInterface
	stats     services.StatsServiceInterface
	presenter *scheduler.BadgePresenter
}

func NewMessageController(logger providers.Logger, sched scheduler.SchedulerInterface, stats services.StatsServiceInterface, presenter *scheduler.BadgePresenter) *MessageController {
	return &MessageController{
		logger:    logger,
		scheduler: sched,
		stats:     stats,
		presenter: presenter,
	}
}

// HandleMessage runs one protocol message from sender. It returns nil for
// fire-and-forget messages.
func (mc *MessageController) HandleMessage(ctx context.Context, sender models.Sender, msg models.Message) *models.Reply {
	var payload any
	switch msg.Type {
	case models.MsgActivityDetected:
		if sender.Tab == 0 {
			mc.logger.Debugf(providers.TypeTabs, "Dropping activity signal without a sender tab")
			return nil
		}
		mc.scheduler.HandleActivity(ctx, sender.Tab)
		return nil
	case models.MsgCheckShouldShowBreak:
		url := msg.URL
		if url == "" {
			url = sender.URL
		}
		payload = mc.scheduler.CheckShouldShowBreak(ctx, url)
	case models.MsgBreakCompleted:
		mc.completeBreak(ctx, msg.Game, msg.DurationMs)
		return nil
	case models.MsgWebcamCompleted:
		mc.completeBreak(ctx, models.GameMotion, msg.DurationMs)
		mc.scheduler.CloseOverlay(ctx)
		return nil
	case models.MsgGetTimeRemaining:
		payload = mc.scheduler.TimeRemaining(ctx)
	case models.MsgRestartCountdown:
		payload = mc.scheduler.RestartCountdown(ctx)
	default:
		mc.logger.Warnf(providers.TypeTabs, "Unknown message type %q from tab %d", msg.Type, sender.Tab)
		return &models.Reply{ID: msg.ID, Type: models.MsgError, Error: "unknown message type"}
	}
	return &models.Reply{ID: msg.ID, Type: msg.Type, Payload: payload}
}

// completeBreak resets the countdown first; statistics are best effort.
func (mc *MessageController) completeBreak(ctx context.Context, game models.GameType, durationMs int64) {
	mc.scheduler.BreakCompleted(ctx)
	if game == "" {
		return
	}
	took := time.Duration(max(durationMs, 0)) * time.Millisecond
	if _, err := mc.stats.Record(ctx, game, took); err != nil {
		mc.logger.Warnf(providers.TypeStore, "Recording %q break failed: %s", game, err)
	}
}

// Activity needs the sender tab: a due break is dispatched to it.
func (mc *MessageController) Activity(w http.ResponseWriter, r *http.Request) {
	sender, err := senderFromRequest(r)
	if err != nil || sender.Tab == 0 {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	mc.HandleMessage(r.Context(), sender, models.Message{Type: models.MsgActivityDetected})
	w.WriteHeader(http.StatusNoContent)
}

func (mc *MessageController) ShouldShow(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, mc.scheduler.CheckShouldShowBreak(r.Context(), url))
}

func (mc *MessageController) BreakCompleted(w http.ResponseWriter, r *http.Request) {
	var payload breakCompletedPayload
	if err := decodeBody(w, r, &payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	mc.completeBreak(r.Context(), payload.Game, payload.DurationMs)
	w.WriteHeader(http.StatusNoContent)
}

func (mc *MessageController) TimeRemaining(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, mc.scheduler.TimeRemaining(r.Context()))
}

func (mc *MessageController) Restart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, mc.scheduler.RestartCountdown(r.Context()))
}

func (mc *MessageController) Badge(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, mc.presenter.Badge(r.Context()))
}

// Message accepts a protocol envelope over plain HTTP.
func (mc *MessageController) Message(w http.ResponseWriter, r *http.Request) {
	sender, err := senderFromRequest(r)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	var msg models.Message
	if err := decodeBody(w, r, &msg); err != nil || msg.Type == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if msg.Type == models.MsgActivityDetected && sender.Tab == 0 {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	reply := mc.HandleMessage(r.Context(), sender, msg)
	switch {
	case reply == nil:
		w.WriteHeader(http.StatusNoContent)
	case reply.Type == models.MsgError:
		writeJSON(w, http.StatusBadRequest, reply)
	default:
		writeJSON(w, http.StatusOK, reply)
	}
}
