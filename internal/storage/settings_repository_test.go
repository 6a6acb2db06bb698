package storage

import (
	"context"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"breakd/internal/models"
	"breakd/internal/structures"
	"breakd/internal/testutil"
)

func repoConfig() *structures.Config {
	return &structures.Config{
		Scheduler: structures.SchedulerConfig{DefaultBreakInterval: 5 * time.Minute},
	}
}

func newTestRepository() (*SettingsRepository, *FileStore) {
	store := NewFileStore(storeConfig(0, 0))
	return NewSettingsRepository(store, repoConfig()), store
}

func TestSettingsRepository_LoadEmptyGivesDefaults(t *testing.T) {
	repo, _ := newTestRepository()

	cfg, st, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.BreakConfig{Enabled: true, BreakIntervalSeconds: 300, ActiveDomains: []string{"*"}}, cfg)
	assert.Equal(t, models.TimerState{}, st)
}

func TestSettingsRepository_SaveLoad(t *testing.T) {
	repo, _ := newTestRepository()
	ctx := context.Background()

	cfg := models.BreakConfig{Enabled: false, BreakIntervalSeconds: 60, ActiveDomains: []string{"reddit.com"}}
	st := models.TimerState{LastBreakTime: 2000, ActivityStartTime: 1000, IsActive: true, LastActiveTabID: 7}
	require.NoError(t, repo.Save(ctx, cfg, st))

	gotCfg, gotSt, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, cfg, gotCfg)
	assert.Equal(t, st, gotSt)
}

func TestSettingsRepository_MalformedKeysFallBackIndividually(t *testing.T) {
	repo, store := newTestRepository()
	store.Load(map[string]json.RawMessage{
		models.KeyEnabled:       json.RawMessage(`"yes"`),
		models.KeyBreakInterval: json.RawMessage(`-5`),
		models.KeyActiveDomains: json.RawMessage(`["HTTPS://www.X.com/", ""]`),
		models.KeyLastBreakTime: json.RawMessage(`1500`),
		models.KeyIsActive:      json.RawMessage(`null`),
	})

	cfg, st, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 300, cfg.BreakIntervalSeconds)
	assert.Equal(t, []string{"x.com"}, cfg.ActiveDomains)
	assert.Equal(t, models.Millis(1500), st.LastBreakTime)
	assert.False(t, st.IsActive)
}

func TestSettingsRepository_HasConfig(t *testing.T) {
	repo, _ := newTestRepository()
	ctx := context.Background()

	ok, err := repo.HasConfig(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.SaveConfig(ctx, repo.Defaults()))
	ok, err = repo.HasConfig(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSettingsRepository_DefaultsAreCopies(t *testing.T) {
	repo, _ := newTestRepository()
	d := repo.Defaults()
	d.ActiveDomains[0] = "mutated"
	assert.Equal(t, []string{"*"}, repo.Defaults().ActiveDomains)
}

func TestSettingsRepository_Stats(t *testing.T) {
	repo, _ := newTestRepository()
	ctx := context.Background()

	stats, err := repo.LoadStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalBreaks)

	stats.Record(models.GameSudoku, time.Minute, time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC))
	require.NoError(t, repo.SaveStats(ctx, stats))

	loaded, err := repo.LoadStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.TotalBreaks)
	assert.Equal(t, 1, loaded.GamesPlayed[models.GameSudoku])
	assert.Equal(t, 0, loaded.GamesPlayed[models.GameTiles])

	require.NoError(t, repo.RemoveStats(ctx))
	loaded, err = repo.LoadStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.TotalBreaks)
}

func TestSettingsRepository_StatsFitQuotaForYears(t *testing.T) {
	store := NewFileStore(storeConfig(structures.DefaultQuotaBytes, structures.DefaultQuotaBytesPerItem))
	repo := NewSettingsRepository(store, repoConfig())
	ctx := context.Background()
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 3*365; i++ {
		stats, err := repo.LoadStats(ctx)
		require.NoError(t, err)
		now := start.AddDate(0, 0, i)
		for n := 0; n < 12; n++ {
			stats.Record(models.GameWordle, time.Minute, now.Add(time.Duration(n)*time.Minute))
		}
		require.NoError(t, repo.SaveStats(ctx, stats), "day %d", i)
	}

	stats, err := repo.LoadStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 12*3*365, stats.TotalBreaks)
	assert.Len(t, stats.DailyBreaks, models.DailyBreaksWindow)
	assert.LessOrEqual(t, store.BytesInUse(), structures.DefaultQuotaBytesPerItem)
}

func TestSettingsRepository_StoreErrorsAreWrapped(t *testing.T) {
	store := &testutil.MockStore{GetErr: ErrQuotaExceeded, SetErr: ErrQuotaExceeded}
	repo := NewSettingsRepository(store, repoConfig())
	ctx := context.Background()

	_, _, err := repo.Load(ctx)
	assert.ErrorIs(t, err, ErrQuotaExceeded)
	assert.ErrorIs(t, repo.SaveTimerState(ctx, models.TimerState{}), ErrQuotaExceeded)
	_, err = repo.LoadStats(ctx)
	assert.ErrorIs(t, err, ErrQuotaExceeded)
}
