package models

import "time"

// Store keys shared with the extension's sync storage layout.
const (
	KeyEnabled           = "enabled"
	KeyBreakInterval     = "breakInterval"
	KeyActiveDomains     = "activeDomains"
	KeyLastBreakTime     = "lastBreakTime"
	KeyActivityStartTime = "activityStartTime"
	KeyIsActive          = "isActive"
	KeyLastActiveTabID   = "lastActiveTabId"
	KeyBreakStats        = "breakStats"
)

var ConfigKeys = []string{KeyEnabled, KeyBreakInterval, KeyActiveDomains}

var TimerKeys = []string{KeyLastBreakTime, KeyActivityStartTime, KeyIsActive, KeyLastActiveTabID}

// Millis is a wall-clock instant in Unix milliseconds. Zero means unset.
type Millis int64

func MillisOf(t time.Time) Millis {
	return Millis(t.UnixMilli())
}

func (m Millis) IsSet() bool {
	return m != 0
}

// TabID identifies a browser tab. Zero means unset.
type TabID int64

type BreakConfig struct {
	Enabled              bool     `json:"enabled"`
	BreakIntervalSeconds int      `json:"breakInterval"`
	ActiveDomains        []string `json:"activeDomains"`
}

func (c BreakConfig) IntervalMillis() int64 {
	return int64(c.BreakIntervalSeconds) * 1000
}

func DefaultBreakConfig(interval time.Duration) BreakConfig {
	seconds := int(interval / time.Second)
	if seconds <= 0 {
		seconds = 1
	}
	return BreakConfig{
		Enabled:              true,
		BreakIntervalSeconds: seconds,
		ActiveDomains:        []string{AllDomains},
	}
}

type TimerState struct {
	LastBreakTime     Millis `json:"lastBreakTime"`
	ActivityStartTime Millis `json:"activityStartTime"`
	IsActive          bool   `json:"isActive"`
	LastActiveTabID   TabID  `json:"lastActiveTabId"`
}

// SessionOpen reports whether activity has been seen since the last idle
// point. IsActive covers a session that started at instant zero.
func (s TimerState) SessionOpen() bool {
	return s.IsActive || s.ActivityStartTime.IsSet()
}

type Phase string

const (
	PhaseDisabled Phase = "disabled"
	PhaseIdle     Phase = "idle"
	PhaseCounting Phase = "counting"
	PhaseDue      Phase = "due"
)

// PhaseAt derives the scheduler phase; nothing stores it.
func PhaseAt(cfg BreakConfig, st TimerState, now Millis) Phase {
	switch {
	case !cfg.Enabled:
		return PhaseDisabled
	case !st.SessionOpen():
		return PhaseIdle
	case Elapsed(st, now) >= cfg.IntervalMillis():
		return PhaseDue
	default:
		return PhaseCounting
	}
}

// Elapsed is the time since the last reset, never negative.
func Elapsed(st TimerState, now Millis) int64 {
	return max(int64(now-st.LastBreakTime), 0)
}
