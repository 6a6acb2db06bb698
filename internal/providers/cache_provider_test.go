package providers

import (
	"testing"
	"time"

	"breakd/internal/structures"

	"github.com/stretchr/testify/assert"
)

// local mock logger to avoid import cycle with testutil
type cacheTestLogger struct{}

func (m *cacheTestLogger) Errorf(_ TypeEnum, _ string, _ ...interface{}) {}
func (m *cacheTestLogger) Warnf(_ TypeEnum, _ string, _ ...interface{})  {}
func (m *cacheTestLogger) Debugf(_ TypeEnum, _ string, _ ...interface{}) {}
func (m *cacheTestLogger) Infof(_ TypeEnum, _ string, _ ...interface{})  {}
func (m *cacheTestLogger) Fatalf(_ TypeEnum, _ string, _ ...interface{}) {}
func (m *cacheTestLogger) Close()                                        {}

func cacheConfig(enabled bool, size int, ttl time.Duration) *structures.Config {
	return &structures.Config{
		Cache: structures.CacheConfig{
			Enabled: enabled,
			Size:    size,
			TTL:     ttl,
		},
	}
}

func TestCacheProvider_DisabledReturnsNoop(t *testing.T) {
	c := NewCacheProvider(cacheConfig(false, 10, time.Minute), &cacheTestLogger{})
	_, ok := c.Get("any")
	assert.False(t, ok)
	assert.IsType(t, &noopCache{}, c)
}

func TestCacheProvider_ZeroSizeReturnsNoop(t *testing.T) {
	c := NewCacheProvider(cacheConfig(true, 0, time.Minute), &cacheTestLogger{})
	assert.IsType(t, &noopCache{}, c)
}

func TestCacheProvider_SetGetAndClear(t *testing.T) {
	c := NewCacheProvider(cacheConfig(true, 1, time.Minute), &cacheTestLogger{})
	assert.IsType(t, &CacheProvider{}, c)

	c.Set("gate:*|example.com", []byte{1})
	val, ok := c.Get("gate:*|example.com")
	assert.True(t, ok)
	assert.Equal(t, []byte{1}, val)

	c.Set("gate:*|example.com", []byte{0})
	val, _ = c.Get("gate:*|example.com")
	assert.Equal(t, []byte{0}, val)

	c.Clear()
	_, ok = c.Get("gate:*|example.com")
	assert.False(t, ok)
}

func TestCacheProvider_Miss(t *testing.T) {
	c := NewCacheProvider(cacheConfig(true, 1, time.Minute), &cacheTestLogger{})
	val, ok := c.Get("nonexistent")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestNoopCache_AlwaysMiss(t *testing.T) {
	c := &noopCache{}
	c.Set("key1", []byte("value1"))
	c.Clear()

	val, ok := c.Get("key1")
	assert.False(t, ok)
	assert.Nil(t, val)
}
