package breach

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type cacheEntry struct {
	key    []byte
	result *Result
}

// cache memoizes results for the lifetime of a session. Entries are
// bucketed by the xxhash of the serialized parameters and compared by the
// full key. Nothing is evicted.
type cache struct {
	mu      sync.Mutex
	entries map[uint64][]cacheEntry
	hits    prometheus.Counter
	misses  prometheus.Counter
}

func newCache(reg prometheus.Registerer) *cache {
	factory := promauto.With(reg)
	return &cache{
		entries: make(map[uint64][]cacheEntry),
		hits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "outlay",
			Subsystem: "breach_cache",
			Name:      "hits_total",
			Help:      "Breach impact lookups served from the cache.",
		}),
		misses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "outlay",
			Subsystem: "breach_cache",
			Name:      "misses_total",
			Help:      "Breach impact lookups that required a computation.",
		}),
	}
}

func cacheKey(params Parameters) ([]byte, error) {
	key, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("serialize breach parameters: %w", err)
	}
	return key, nil
}

func (c *cache) get(key []byte) (*Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, entry := range c.entries[xxhash.Sum64(key)] {
		if bytes.Equal(entry.key, key) {
			c.hits.Inc()
			return entry.result, true
		}
	}
	c.misses.Inc()
	return nil, false
}

// put stores result unless an equal key was stored concurrently, in which
// case the stored result wins.
func (c *cache) put(key []byte, result *Result) *Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	sum := xxhash.Sum64(key)
	for _, entry := range c.entries[sum] {
		if bytes.Equal(entry.key, key) {
			return entry.result
		}
	}
	c.entries[sum] = append(c.entries[sum], cacheEntry{key: key, result: result})
	return result
}

func (c *cache) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[uint64][]cacheEntry)
}

func (c *cache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, bucket := range c.entries {
		n += len(bucket)
	}
	return n
}
