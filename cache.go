package algoviz

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"slices"
	"sync"

	"github.com/golang/groupcache/lru"
)

// CacheStats reports TraceCache activity.
type CacheStats struct {
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
	Entries   int    `json:"entries"`
}

// TraceCache memoizes algorithm outputs by algorithm id and input, evicting
// the least recently used entry once it holds maxEntries. It is safe for
// concurrent use. Create one per owner and pass it explicitly.
type TraceCache struct {
	mu    sync.Mutex
	lru   *lru.Cache
	stats CacheStats
}

// NewTraceCache returns a cache bounded to maxEntries. maxEntries <= 0
// means no limit.
func NewTraceCache(maxEntries int) *TraceCache {
	if maxEntries < 0 {
		maxEntries = 0
	}
	c := &TraceCache{lru: lru.New(maxEntries)}
	c.lru.OnEvicted = func(lru.Key, any) { c.stats.Evictions++ }
	return c
}

// CacheKey returns the cache key for running id on in.
func CacheKey(id AlgorithmID, in Input) string {
	b, err := json.Marshal(in)
	if err != nil {
		return ""
	}
	h := sha256.New()
	h.Write([]byte(id))
	h.Write([]byte{0})
	h.Write(b)
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns a copy of the cached output for key.
func (c *TraceCache) Get(key string) (Output, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.lru.Get(key)
	if !ok {
		c.stats.Misses++
		return Output{}, false
	}
	c.stats.Hits++
	return v.(Output).clone(), true
}

// Add stores a copy of out under key.
func (c *TraceCache) Add(key string, out Output) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Add(key, out.clone())
}

// Run returns the cached output of a on in, running a on a miss. The second
// result reports a cache hit. Inputs with a custom Heuristic bypass the
// cache because functions cannot be keyed.
func (c *TraceCache) Run(a Algorithm, in Input) (Output, bool) {
	if in.Heuristic != nil {
		return a.Run(in), false
	}
	key := CacheKey(a.ID(), in)
	if out, ok := c.Get(key); ok {
		return out, true
	}
	out := a.Run(in)
	c.Add(key, out)
	return out, false
}

// Len returns the number of cached entries.
func (c *TraceCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Purge drops every entry. Stats other than Entries are kept.
func (c *TraceCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	onEvicted := c.lru.OnEvicted
	c.lru.OnEvicted = nil
	c.lru.Clear()
	c.lru.OnEvicted = onEvicted
}

// Stats returns a snapshot of the cache counters.
func (c *TraceCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Entries = c.lru.Len()
	return s
}

// clone copies the result slices; the Trace is already immutable.
func (o Output) clone() Output {
	o.Sorted = slices.Clone(o.Sorted)
	o.Path = slices.Clone(o.Path)
	o.Visited = slices.Clone(o.Visited)
	return o
}
