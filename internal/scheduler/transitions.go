package scheduler

import "breakd/internal/models"

// eventTime clamps now so that a reset never moves lastBreakTime backwards.
func eventTime(st models.TimerState, now models.Millis) models.Millis {
	return max(now, st.LastBreakTime)
}

// applyActivity returns the state after an activity signal from tab and
// whether the break interval has elapsed. A disabled config leaves st as is.
func applyActivity(cfg models.BreakConfig, st models.TimerState, tab models.TabID, now models.Millis) (models.TimerState, bool) {
	if !cfg.Enabled {
		return st, false
	}
	t := eventTime(st, now)

	if !st.SessionOpen() {
		opened := models.TimerState{
			LastBreakTime:     t,
			ActivityStartTime: t,
			IsActive:          true,
			LastActiveTabID:   st.LastActiveTabID,
		}
		if tab != 0 {
			opened.LastActiveTabID = tab
		}
		return opened, false
	}

	next := st
	next.IsActive = true
	if tab != 0 {
		next.LastActiveTabID = tab
	}
	if int64(t-st.LastBreakTime) < cfg.IntervalMillis() {
		return next, false
	}
	next.LastBreakTime = t
	return next, true
}

// applyCompletion starts a fresh session at now; the user is known to be present.
func applyCompletion(st models.TimerState, now models.Millis) models.TimerState {
	t := eventTime(st, now)
	return models.TimerState{
		LastBreakTime:     t,
		ActivityStartTime: t,
		IsActive:          true,
		LastActiveTabID:   st.LastActiveTabID,
	}
}

// applySettings grants a fresh grace period when the scheduler is switched on.
// Any other change leaves the timer alone.
func applySettings(prev, next models.BreakConfig, st models.TimerState, now models.Millis) models.TimerState {
	if prev.Enabled || !next.Enabled {
		return st
	}
	t := eventTime(st, now)
	st.LastBreakTime = t
	st.ActivityStartTime = t
	return st
}

func projectTimeRemaining(cfg models.BreakConfig, st models.TimerState, now models.Millis) models.TimeRemainingResponse {
	switch models.PhaseAt(cfg, st, now) {
	case models.PhaseDisabled:
		return models.TimeRemainingResponse{}
	case models.PhaseIdle:
		return models.TimeRemainingResponse{
			TimeRemaining: cfg.IntervalMillis(),
			Enabled:       true,
			BreakInterval: cfg.BreakIntervalSeconds,
		}
	}
	return models.TimeRemainingResponse{
		TimeRemaining: max(0, cfg.IntervalMillis()-models.Elapsed(st, now)),
		IsActive:      true,
		Enabled:       true,
		BreakInterval: cfg.BreakIntervalSeconds,
	}
}

// projectShouldShow answers the page-load query once the domain gate passed.
// A countdown that never started is not due.
func projectShouldShow(cfg models.BreakConfig, st models.TimerState, now models.Millis) models.ShouldShowBreakResponse {
	interval := cfg.IntervalMillis()
	if !st.LastBreakTime.IsSet() && !st.SessionOpen() {
		return models.ShouldShowBreakResponse{TimeRemaining: &interval}
	}
	elapsed := models.Elapsed(st, now)
	remaining := max(0, interval-elapsed)
	return models.ShouldShowBreakResponse{
		ShouldShow:    elapsed >= interval,
		TimeRemaining: &remaining,
	}
}
