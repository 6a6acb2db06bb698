package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"breakd/internal/testutil"
)

func newTestFileManager(compressor CompressorInterface) (*FileManager, *FileStore) {
	store := NewFileStore(storeConfig(0, 0))
	return NewFileManager(compressor, store, &testutil.MockLogger{}), store
}

func TestFileManager_SaveToFile_AtomicWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.dat")
	fm, store := newTestFileManager(&testutil.MockCompressor{})
	require.NoError(t, store.Set(context.Background(), map[string]any{"enabled": true}))

	require.NoError(t, fm.SaveToFile(path))

	_, err := os.Stat(path)
	assert.NoError(t, err)
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestFileManager_Roundtrip_Zstd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.dat")
	comp, err := NewZstdCompressor()
	require.NoError(t, err)
	fm, store := newTestFileManager(comp)
	defer fm.Close()

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, map[string]any{
		"enabled":       true,
		"breakInterval": 600,
		"activeDomains": []string{"reddit.com"},
		"lastBreakTime": 1700000000000,
	}))
	require.NoError(t, fm.SaveToFile(path))

	restored := NewFileStore(storeConfig(0, 0))
	fm2 := NewFileManager(comp, restored, &testutil.MockLogger{})
	require.NoError(t, fm2.LoadFromFile(path))

	got, err := restored.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, store.Snapshot(), got)
}

func TestFileManager_LoadFromFile_FileNotExist(t *testing.T) {
	fm, _ := newTestFileManager(&testutil.MockCompressor{})
	assert.NoError(t, fm.LoadFromFile("/nonexistent/path/store.dat"))
}

func TestFileManager_LoadFromFile_FlatObject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"enabled":false,"breakInterval":120}`), 0644))

	logger := &testutil.MockLogger{}
	store := NewFileStore(storeConfig(0, 0))
	fm := NewFileManager(&testutil.MockCompressor{}, store, logger)
	require.NoError(t, fm.LoadFromFile(path))

	got, err := store.Get(context.Background(), "enabled", "breakInterval")
	require.NoError(t, err)
	assert.Equal(t, "false", string(got["enabled"]))
	assert.Equal(t, "120", string(got["breakInterval"]))
	assert.NotEmpty(t, logger.Logs)
}

func TestFileManager_LoadFromFile_Garbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.dat")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))

	fm, _ := newTestFileManager(&testutil.MockCompressor{})
	assert.Error(t, fm.LoadFromFile(path))
}

func TestFileManager_SaveToFile_CompressError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.dat")
	fm, _ := newTestFileManager(&testutil.MockCompressor{
		CompressFn: func([]byte) ([]byte, error) { return nil, errors.New("boom") },
	})

	assert.Error(t, fm.SaveToFile(path))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestFileManager_SaveToFile_BadDirectory(t *testing.T) {
	fm, _ := newTestFileManager(&testutil.MockCompressor{})
	assert.Error(t, fm.SaveToFile("/nonexistent/dir/store.dat"))
}
