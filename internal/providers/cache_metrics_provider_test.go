package providers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type cacheMetricsTestMetrics struct {
	noopMetrics
	hits   int
	misses int
}

func (m *cacheMetricsTestMetrics) IncCacheHits()   { m.hits++ }
func (m *cacheMetricsTestMetrics) IncCacheMisses() { m.misses++ }

type cacheMetricsTestInner struct {
	data    map[string][]byte
	cleared bool
}

func (c *cacheMetricsTestInner) Get(key string) ([]byte, bool) {
	v, ok := c.data[key]
	return v, ok
}
func (c *cacheMetricsTestInner) Set(key string, value []byte) { c.data[key] = value }
func (c *cacheMetricsTestInner) Clear()                       { c.cleared = true }

func TestMetricsCacheProvider_HitAndMiss(t *testing.T) {
	inner := &cacheMetricsTestInner{data: map[string][]byte{"a": []byte("1")}}
	metrics := &cacheMetricsTestMetrics{}
	cache := &MetricsCacheProvider{inner: inner, metrics: metrics}

	cache.Get("a")
	cache.Get("b")
	cache.Get("a")

	assert.Equal(t, 2, metrics.hits)
	assert.Equal(t, 1, metrics.misses)
}

func TestMetricsCacheProvider_DelegatesSetAndClear(t *testing.T) {
	inner := &cacheMetricsTestInner{data: map[string][]byte{}}
	cache := &MetricsCacheProvider{inner: inner, metrics: &cacheMetricsTestMetrics{}}

	cache.Set("key2", []byte("val2"))
	cache.Clear()

	assert.Equal(t, []byte("val2"), inner.data["key2"])
	assert.True(t, inner.cleared)
}

func TestNewInstrumentedCacheProvider_DisabledIsNotWrapped(t *testing.T) {
	c := NewInstrumentedCacheProvider(cacheConfig(false, 1, time.Minute), &cacheTestLogger{}, &cacheMetricsTestMetrics{})
	assert.IsType(t, &noopCache{}, c)
}

func TestNewInstrumentedCacheProvider_EnabledIsWrapped(t *testing.T) {
	c := NewInstrumentedCacheProvider(cacheConfig(true, 1, time.Minute), &cacheTestLogger{}, &cacheMetricsTestMetrics{})
	assert.IsType(t, &MetricsCacheProvider{}, c)
}
