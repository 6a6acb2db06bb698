package storage

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"

	"breakd/internal/models"
	"breakd/internal/structures"
)

type SettingsRepositoryInterface interface {
	Load(ctx context.Context) (models.BreakConfig, models.TimerState, error)
	HasConfig(ctx context.Context) (bool, error)
	SaveConfig(ctx context.Context, cfg models.BreakConfig) error
	SaveTimerState(ctx context.Context, st models.TimerState) error
	Save(ctx context.Context, cfg models.BreakConfig, st models.TimerState) error
	LoadStats(ctx context.Context) (*models.BreakStats, error)
	SaveStats(ctx context.Context, stats *models.BreakStats) error
	RemoveStats(ctx context.Context) error
}

// SettingsRepository maps typed models onto store keys. Keys that are missing
// or fail to decode fall back to defaults one by one.
type SettingsRepository struct {
	store    StoreInterface
	defaults models.BreakConfig
}

func NewSettingsRepository(store StoreInterface, conf *structures.Config) *SettingsRepository {
	return &SettingsRepository{
		store:    store,
		defaults: models.DefaultBreakConfig(conf.Scheduler.DefaultBreakInterval),
	}
}

func (r *SettingsRepository) Defaults() models.BreakConfig {
	cfg := r.defaults
	cfg.ActiveDomains = append([]string(nil), r.defaults.ActiveDomains...)
	return cfg
}

func (r *SettingsRepository) Load(ctx context.Context) (models.BreakConfig, models.TimerState, error) {
	keys := append(append([]string{}, models.ConfigKeys...), models.TimerKeys...)
	raw, err := r.store.Get(ctx, keys...)
	if err != nil {
		return models.BreakConfig{}, models.TimerState{}, fmt.Errorf("load settings: %w", err)
	}
	return r.decodeConfig(raw), decodeTimerState(raw), nil
}

func (r *SettingsRepository) HasConfig(ctx context.Context) (bool, error) {
	raw, err := r.store.Get(ctx, models.KeyBreakInterval)
	if err != nil {
		return false, fmt.Errorf("load settings: %w", err)
	}
	_, ok := raw[models.KeyBreakInterval]
	return ok, nil
}

func (r *SettingsRepository) decodeConfig(raw map[string]json.RawMessage) models.BreakConfig {
	cfg := r.Defaults()
	decodeKey(raw, models.KeyEnabled, &cfg.Enabled)

	var seconds int
	if decodeKey(raw, models.KeyBreakInterval, &seconds) && seconds > 0 {
		cfg.BreakIntervalSeconds = seconds
	}

	var domains []string
	if decodeKey(raw, models.KeyActiveDomains, &domains) {
		cfg.ActiveDomains = models.NormalizeDomainPatterns(domains)
	}
	return cfg
}

func decodeTimerState(raw map[string]json.RawMessage) models.TimerState {
	var st models.TimerState
	decodeKey(raw, models.KeyLastBreakTime, &st.LastBreakTime)
	decodeKey(raw, models.KeyActivityStartTime, &st.ActivityStartTime)
	decodeKey(raw, models.KeyIsActive, &st.IsActive)
	decodeKey(raw, models.KeyLastActiveTabID, &st.LastActiveTabID)
	if st.LastBreakTime < 0 {
		st.LastBreakTime = 0
	}
	if st.ActivityStartTime < 0 {
		st.ActivityStartTime = 0
	}
	return st
}

// decodeKey leaves dst untouched unless the key is present and decodes cleanly.
func decodeKey[T any](raw map[string]json.RawMessage, key string, dst *T) bool {
	v, ok := raw[key]
	if !ok || string(v) == "null" {
		return false
	}
	var tmp T
	if err := json.Unmarshal(v, &tmp); err != nil {
		return false
	}
	*dst = tmp
	return true
}

func configValues(cfg models.BreakConfig) map[string]any {
	return map[string]any{
		models.KeyEnabled:       cfg.Enabled,
		models.KeyBreakInterval: cfg.BreakIntervalSeconds,
		models.KeyActiveDomains: cfg.ActiveDomains,
	}
}

func timerValues(st models.TimerState) map[string]any {
	return map[string]any{
		models.KeyLastBreakTime:     st.LastBreakTime,
		models.KeyActivityStartTime: st.ActivityStartTime,
		models.KeyIsActive:          st.IsActive,
		models.KeyLastActiveTabID:   st.LastActiveTabID,
	}
}

func (r *SettingsRepository) SaveConfig(ctx context.Context, cfg models.BreakConfig) error {
	if err := r.store.Set(ctx, configValues(cfg)); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

func (r *SettingsRepository) SaveTimerState(ctx context.Context, st models.TimerState) error {
	if err := r.store.Set(ctx, timerValues(st)); err != nil {
		return fmt.Errorf("save timer state: %w", err)
	}
	return nil
}

// Save writes config and timer state in a single store call.
func (r *SettingsRepository) Save(ctx context.Context, cfg models.BreakConfig, st models.TimerState) error {
	values := configValues(cfg)
	for k, v := range timerValues(st) {
		values[k] = v
	}
	if err := r.store.Set(ctx, values); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

func (r *SettingsRepository) LoadStats(ctx context.Context) (*models.BreakStats, error) {
	raw, err := r.store.Get(ctx, models.KeyBreakStats)
	if err != nil {
		return nil, fmt.Errorf("load stats: %w", err)
	}
	stats := models.NewBreakStats()
	if decodeKey(raw, models.KeyBreakStats, stats) {
		stats.FillDefaults()
	}
	return stats, nil
}

func (r *SettingsRepository) SaveStats(ctx context.Context, stats *models.BreakStats) error {
	if err := r.store.Set(ctx, map[string]any{models.KeyBreakStats: stats}); err != nil {
		return fmt.Errorf("save stats: %w", err)
	}
	return nil
}

func (r *SettingsRepository) RemoveStats(ctx context.Context) error {
	if err := r.store.Remove(ctx, models.KeyBreakStats); err != nil {
		return fmt.Errorf("remove stats: %w", err)
	}
	return nil
}
