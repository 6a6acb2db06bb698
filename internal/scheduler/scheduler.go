package scheduler

import (
	"context"
	"sync"
	"time"

	"breakd/internal/models"
	"breakd/internal/providers"
	"breakd/internal/storage"
	"breakd/internal/structures"
)

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func NewSystemClock() Clock {
	return systemClock{}
}

// DispatcherInterface delivers a command to one tab.
type DispatcherInterface interface {
	Dispatch(ctx context.Context, tab models.TabID, msg models.Message) models.DispatchOutcome
}

// ActivityResult describes what an activity signal did. Skipped means the
// store could not be read or written and no decision was taken. Outcome stays
// DispatchNone unless a break was triggered.
type ActivityResult struct {
	Phase     models.Phase
	Triggered bool
	Outcome   models.DispatchOutcome
	Skipped   bool
}

type SchedulerInterface interface {
	Install(ctx context.Context) error
	HandleActivity(ctx context.Context, tab models.TabID) ActivityResult
	BreakCompleted(ctx context.Context)
	RestartCountdown(ctx context.Context) models.OkResponse
	CloseOverlay(ctx context.Context) models.DispatchOutcome
	UpdateSettings(ctx context.Context, mutate func(*models.BreakConfig) error) (models.BreakConfig, error)
	Settings(ctx context.Context) (models.BreakConfig, error)
	TimeRemaining(ctx context.Context) models.TimeRemainingResponse
	CheckShouldShowBreak(ctx context.Context, url string) models.ShouldShowBreakResponse
	OnChange(fn func())
}

// Scheduler owns the timer state. Every transition runs its
// read-compute-write cycle under mu; dispatches happen after mu is released.
type Scheduler struct {
	mu           sync.Mutex
	repo         storage.SettingsRepositoryInterface
	dispatcher   DispatcherInterface
	gate         *DomainGate
	clock        Clock
	storeTimeout time.Duration
	defaults     models.BreakConfig
	logger       providers.Logger
	metrics      providers.MetricsProviderInterface

	listenersMu sync.RWMutex
	listeners   []func()
}

func NewScheduler(
	conf *structures.Config,
	repo storage.SettingsRepositoryInterface,
	dispatcher DispatcherInterface,
	gate *DomainGate,
	clock Clock,
	logger providers.Logger,
	metrics providers.MetricsProviderInterface,
) *Scheduler {
	storeTimeout := conf.Scheduler.StoreTimeout
	if storeTimeout <= 0 {
		storeTimeout = structures.DefaultStoreTimeout
	}
	return &Scheduler{
		repo:         repo,
		dispatcher:   dispatcher,
		gate:         gate,
		clock:        clock,
		storeTimeout: storeTimeout,
		defaults:     models.DefaultBreakConfig(conf.Scheduler.DefaultBreakInterval),
		logger:       logger,
		metrics:      metrics,
	}
}

func (s *Scheduler) now() models.Millis {
	return models.MillisOf(s.clock.Now())
}

func (s *Scheduler) load(ctx context.Context) (models.BreakConfig, models.TimerState, bool) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	cfg, st, err := s.repo.Load(ctx)
	if err != nil {
		s.metrics.IncStoreFailures("load")
		s.logger.Errorf(providers.TypeScheduler, "Reading settings failed, skipping this cycle: %s", err)
		return cfg, st, false
	}
	return cfg, st, true
}

func (s *Scheduler) saveTimer(ctx context.Context, st models.TimerState) bool {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	if err := s.repo.SaveTimerState(ctx, st); err != nil {
		s.metrics.IncStoreFailures("save")
		s.logger.Errorf(providers.TypeScheduler, "Writing timer state failed, skipping this cycle: %s", err)
		return false
	}
	return true
}

// Install writes first-run defaults when no interval has ever been stored.
// The countdown starts from now but no session is open.
func (s *Scheduler) Install(ctx context.Context) error {
	installed, err := s.install(ctx)
	if err != nil {
		return err
	}
	if installed {
		s.metrics.IncTransitions("install")
		s.notify()
	}
	return nil
}

func (s *Scheduler) install(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	ok, err := s.repo.HasConfig(ctx)
	if err != nil {
		s.metrics.IncStoreFailures("load")
		return false, err
	}
	if ok {
		return false, nil
	}

	s.logger.Infof(providers.TypeScheduler, "No settings found, initializing defaults (interval %ds)", s.defaults.BreakIntervalSeconds)
	st := models.TimerState{LastBreakTime: s.now()}
	if err := s.repo.Save(ctx, s.defaultConfig(), st); err != nil {
		s.metrics.IncStoreFailures("save")
		return false, err
	}
	return true, nil
}

func (s *Scheduler) defaultConfig() models.BreakConfig {
	cfg := s.defaults
	cfg.ActiveDomains = append([]string(nil), s.defaults.ActiveDomains...)
	return cfg
}

func (s *Scheduler) HandleActivity(ctx context.Context, tab models.TabID) ActivityResult {
	s.mu.Lock()
	cfg, st, ok := s.load(ctx)
	if !ok {
		s.mu.Unlock()
		return ActivityResult{Skipped: true}
	}

	now := s.now()
	result := ActivityResult{Phase: models.PhaseAt(cfg, st, now)}
	next, due := applyActivity(cfg, st, tab, now)
	if next == st {
		s.mu.Unlock()
		return result
	}
	if !s.saveTimer(ctx, next) {
		s.mu.Unlock()
		result.Skipped = true
		return result
	}
	s.mu.Unlock()

	s.metrics.IncTransitions("activity")
	opened := !st.SessionOpen()
	if opened {
		s.logger.Debugf(providers.TypeScheduler, "First activity from tab %d, session opened", tab)
	}
	if opened || next.LastBreakTime != st.LastBreakTime {
		s.notify()
	}
	if !due {
		return result
	}

	s.metrics.IncBreaksTriggered()
	s.logger.Infof(providers.TypeScheduler, "Break due for tab %d after %ds", tab, int64(next.LastBreakTime-st.LastBreakTime)/1000)
	result.Triggered = true
	result.Outcome = s.dispatcher.Dispatch(ctx, tab, models.Message{Type: models.MsgShowBreak})
	return result
}

// BreakCompleted starts a new session at now. Repeated calls only move the
// timestamps forward.
func (s *Scheduler) BreakCompleted(ctx context.Context) {
	if s.complete(ctx) {
		s.metrics.IncTransitions("completion")
		s.notify()
	}
}

func (s *Scheduler) complete(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, st, ok := s.load(ctx)
	if !ok {
		return false
	}
	return s.saveTimer(ctx, applyCompletion(st, s.now()))
}

// RestartCountdown behaves like a completed break and also asks the last
// active tab to dismiss its overlay.
func (s *Scheduler) RestartCountdown(ctx context.Context) models.OkResponse {
	if s.complete(ctx) {
		s.metrics.IncTransitions("restart")
		s.notify()
	}
	s.CloseOverlay(ctx)
	return models.OkResponse{Ok: true}
}

func (s *Scheduler) CloseOverlay(ctx context.Context) models.DispatchOutcome {
	_, st, ok := s.load(ctx)
	if !ok || st.LastActiveTabID == 0 {
		return models.DispatchTargetGone
	}
	return s.dispatcher.Dispatch(ctx, st.LastActiveTabID, models.Message{Type: models.MsgCloseOverlay})
}

// UpdateSettings applies mutate to the stored config under the transition
// lock. Errors from mutate or from the store are returned to the caller.
func (s *Scheduler) UpdateSettings(ctx context.Context, mutate func(*models.BreakConfig) error) (models.BreakConfig, error) {
	s.mu.Lock()

	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	prev, st, err := s.repo.Load(storeCtx)
	if err != nil {
		s.mu.Unlock()
		s.metrics.IncStoreFailures("load")
		return models.BreakConfig{}, err
	}

	next := prev
	next.ActiveDomains = append([]string(nil), prev.ActiveDomains...)
	if err := mutate(&next); err != nil {
		s.mu.Unlock()
		return prev, err
	}
	next.ActiveDomains = models.NormalizeDomainPatterns(next.ActiveDomains)
	if next.BreakIntervalSeconds <= 0 {
		next.BreakIntervalSeconds = prev.BreakIntervalSeconds
	}

	if err := s.repo.Save(storeCtx, next, applySettings(prev, next, st, s.now())); err != nil {
		s.mu.Unlock()
		s.metrics.IncStoreFailures("save")
		return prev, err
	}
	s.mu.Unlock()

	s.metrics.IncTransitions("settings")
	switch {
	case !prev.Enabled && next.Enabled:
		s.logger.Infof(providers.TypeScheduler, "Break scheduling enabled, countdown restarted")
	case prev.Enabled && !next.Enabled:
		s.logger.Infof(providers.TypeScheduler, "Break scheduling disabled")
	}
	s.notify()
	return next, nil
}

func (s *Scheduler) Settings(ctx context.Context) (models.BreakConfig, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	cfg, _, err := s.repo.Load(ctx)
	if err != nil {
		s.metrics.IncStoreFailures("load")
		return models.BreakConfig{}, err
	}
	return cfg, nil
}

// TimeRemaining is a read-only projection and does not take the transition
// lock. When the store is unreachable it answers from the defaults.
func (s *Scheduler) TimeRemaining(ctx context.Context) models.TimeRemainingResponse {
	cfg, st, ok := s.load(ctx)
	if !ok {
		cfg, st = s.defaultConfig(), models.TimerState{}
	}
	return projectTimeRemaining(cfg, st, s.now())
}

func (s *Scheduler) CheckShouldShowBreak(ctx context.Context, url string) models.ShouldShowBreakResponse {
	cfg, st, ok := s.load(ctx)
	if !ok || !cfg.Enabled {
		return models.ShouldShowBreakResponse{}
	}
	if !s.gate.Allows(url, cfg.ActiveDomains) {
		return models.ShouldShowBreakResponse{}
	}
	return projectShouldShow(cfg, st, s.now())
}

// OnChange registers fn to run after every transition that moved the
// countdown or changed the settings. fn runs without the transition lock.
func (s *Scheduler) OnChange(fn func()) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Scheduler) notify() {
	s.listenersMu.RLock()
	listeners := append([]func(){}, s.listeners...)
	s.listenersMu.RUnlock()

	for _, fn := range listeners {
		fn()
	}
}
