package storage

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"

	json "github.com/goccy/go-json"

	"breakd/internal/structures"
)

var ErrQuotaExceeded = errors.New("storage quota exceeded")

// StoreInterface is the key/value Settings Store. Values travel as raw JSON so
// that callers decide how to decode each key.
type StoreInterface interface {
	Get(ctx context.Context, keys ...string) (map[string]json.RawMessage, error)
	Set(ctx context.Context, values map[string]any) error
	Remove(ctx context.Context, keys ...string) error
	Snapshot() map[string]json.RawMessage
	Load(values map[string]json.RawMessage)
}

type FileStore struct {
	mu           sync.RWMutex
	values       map[string]json.RawMessage
	used         int
	quota        int
	quotaPerItem int
}

func NewFileStore(conf *structures.Config) *FileStore {
	return &FileStore{
		values:       make(map[string]json.RawMessage),
		quota:        conf.Storage.QuotaBytes,
		quotaPerItem: conf.Storage.QuotaBytesPerItem,
	}
}

func itemSize(key string, value []byte) int {
	return len(key) + len(value)
}

// Get returns the stored values for keys; missing keys are absent from the
// result. With no keys it returns everything.
func (s *FileStore) Get(ctx context.Context, keys ...string) (map[string]json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(keys) == 0 {
		return cloneValues(s.values), nil
	}
	out := make(map[string]json.RawMessage, len(keys))
	for _, k := range keys {
		if v, ok := s.values[k]; ok {
			out[k] = append(json.RawMessage(nil), v...)
		}
	}
	return out, nil
}

// Set writes all values or none of them.
func (s *FileStore) Set(ctx context.Context, values map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	encoded := make(map[string]json.RawMessage, len(values))
	for k, v := range values {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %q: %w", k, err)
		}
		if s.quotaPerItem > 0 && itemSize(k, raw) > s.quotaPerItem {
			return fmt.Errorf("%w: item %q is %d bytes, limit %d", ErrQuotaExceeded, k, itemSize(k, raw), s.quotaPerItem)
		}
		encoded[k] = raw
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	used := s.used
	for k, raw := range encoded {
		if old, ok := s.values[k]; ok {
			used -= itemSize(k, old)
		}
		used += itemSize(k, raw)
	}
	if s.quota > 0 && used > s.quota {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrQuotaExceeded, used, s.quota)
	}

	maps.Copy(s.values, encoded)
	s.used = used
	return nil
}

func (s *FileStore) Remove(ctx context.Context, keys ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, k := range keys {
		if old, ok := s.values[k]; ok {
			s.used -= itemSize(k, old)
			delete(s.values, k)
		}
	}
	return nil
}

func (s *FileStore) Snapshot() map[string]json.RawMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneValues(s.values)
}

// Load replaces the whole content, typically from a restored snapshot.
// Quotas are not enforced on restore.
func (s *FileStore) Load(values map[string]json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values = cloneValues(values)
	s.used = 0
	for k, v := range s.values {
		s.used += itemSize(k, v)
	}
}

func (s *FileStore) BytesInUse() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.used
}

func cloneValues(in map[string]json.RawMessage) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(in))
	for k, v := range in {
		out[k] = append(json.RawMessage(nil), v...)
	}
	return out
}
