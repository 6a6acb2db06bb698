package storage

import (
	"os"

	json "github.com/goccy/go-json"

	"breakd/internal/providers"
)

const snapshotVersion = 1

type snapshot struct {
	Version int                        `json:"version"`
	Values  map[string]json.RawMessage `json:"values"`
}

type FileManager struct {
	store      StoreInterface
	compressor CompressorInterface
	logger     providers.Logger
}

func NewFileManager(compressor CompressorInterface, store StoreInterface, logger providers.Logger) *FileManager {
	return &FileManager{
		compressor: compressor,
		store:      store,
		logger:     logger,
	}
}

func (f *FileManager) SaveToFile(fileName string) error {
	jsonData, err := json.Marshal(snapshot{Version: snapshotVersion, Values: f.store.Snapshot()})
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

func (f *FileManager) Close() {
	f.compressor.Close()
}

// LoadFromFile restores the store. A missing file is a first run, not an error.
func (f *FileManager) LoadFromFile(fileName string) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	decompressedData, err := f.compressor.Decompress(data)
	if err != nil {
		return err
	}

	var snap snapshot
	if err := json.Unmarshal(decompressedData, &snap); err == nil && snap.Version > 0 {
		if snap.Values == nil {
			snap.Values = make(map[string]json.RawMessage)
		}
		f.store.Load(snap.Values)
		return nil
	}

	// Exported extension storage is a bare key/value object.
	f.logger.Warnf(providers.TypeStore, "Snapshot has no version, loading as flat key/value data")
	var flat map[string]json.RawMessage
	if err := json.Unmarshal(decompressedData, &flat); err != nil {
		f.logger.Warnf(providers.TypeStore, "Snapshot could not be decoded")
		return err
	}
	f.store.Load(flat)
	return nil
}
