package scheduler

import (
	"slices"
	"strings"

	"breakd/internal/models"
	"breakd/internal/providers"
)

// DomainGate decides whether a page is opted in. Decisions depend only on the
// hostname and the pattern set, so they are memoized per pair.
type DomainGate struct {
	cache providers.CacheProviderInterface
}

func NewDomainGate(cache providers.CacheProviderInterface) *DomainGate {
	return &DomainGate{cache: cache}
}

func gateKey(host string, patterns []string) string {
	return "gate:" + strings.Join(patterns, ",") + "|" + host
}

func (g *DomainGate) Allows(url string, patterns []string) bool {
	if slices.Contains(patterns, models.AllDomains) {
		return true
	}
	host := models.Hostname(url)
	if host == "" {
		return false
	}

	key := gateKey(host, patterns)
	if v, ok := g.cache.Get(key); ok && len(v) == 1 {
		return v[0] == 1
	}

	allowed := models.MatchDomain(url, patterns)
	var v byte
	if allowed {
		v = 1
	}
	g.cache.Set(key, []byte{v})
	return allowed
}
