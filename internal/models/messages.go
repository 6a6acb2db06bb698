package models

type MessageType string

const (
	MsgActivityDetected     MessageType = "ACTIVITY_DETECTED"
	MsgCheckShouldShowBreak MessageType = "CHECK_SHOULD_SHOW_BREAK"
	MsgShowBreak            MessageType = "SHOW_BREAK"
	MsgBreakCompleted       MessageType = "BREAK_COMPLETED"
	MsgWebcamCompleted      MessageType = "WEBCAM_COMPLETED"
	MsgCloseOverlay         MessageType = "CLOSE_OVERLAY"
	MsgGetTimeRemaining     MessageType = "GET_TIME_REMAINING"
	MsgRestartCountdown     MessageType = "RESTART_COUNTDOWN"
	MsgBadgeUpdate          MessageType = "BADGE_UPDATE"
	MsgError                MessageType = "ERROR"
)

// Message is the envelope exchanged with pages and status UIs. ID is an
// optional correlation token echoed back in replies.
type Message struct {
	ID         string      `json:"id,omitempty"`
	Type       MessageType `json:"type"`
	URL        string      `json:"url,omitempty"`
	Game       GameType    `json:"game,omitempty"`
	DurationMs int64       `json:"durationMs,omitempty"`
}

// Sender is the tab a message came from, known from its connection or header.
type Sender struct {
	Tab TabID
	URL string
}

type Reply struct {
	ID      string      `json:"id,omitempty"`
	Type    MessageType `json:"type"`
	Payload any         `json:"payload,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type ShouldShowBreakResponse struct {
	ShouldShow    bool   `json:"shouldShow"`
	TimeRemaining *int64 `json:"timeRemaining,omitempty"`
}

type TimeRemainingResponse struct {
	TimeRemaining int64 `json:"timeRemaining"`
	IsActive      bool  `json:"isActive"`
	Enabled       bool  `json:"enabled"`
	BreakInterval int   `json:"breakInterval,omitempty"`
}

type OkResponse struct {
	Ok bool `json:"ok"`
}

type DispatchOutcome int

const (
	DispatchNone DispatchOutcome = iota
	DispatchDelivered
	DispatchTargetGone
	DispatchTimeout
)

func (o DispatchOutcome) String() string {
	switch o {
	case DispatchNone:
		return "none"
	case DispatchDelivered:
		return "delivered"
	case DispatchTargetGone:
		return "target-gone"
	case DispatchTimeout:
		return "timeout"
	}
	return "unknown"
}

type Badge struct {
	Text  string `json:"text"`
	Color string `json:"color,omitempty"`
}

const (
	BadgeColorCountdown = "#4CAF50"
	BadgeColorUrgent    = "#FF5722"
)
