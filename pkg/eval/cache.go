package eval

import (
	"sort"
	"sync"
	"time"

	"github.com/halfmove/chesscore/pkg/board"
	"go.uber.org/atomic"
)

// staleAfter is the age at which a cached entry is evicted outright rather
// than merely being a drop-25%-of-oldest candidate.
const staleAfter = 60 * time.Second

// evictFraction is the share of entries dropped when the cache crosses
// highWatermark utilization.
const evictFraction = 0.25

// highWatermark is the load factor at which a proactive eviction sweep runs.
const highWatermark = 0.90

type cacheEntry struct {
	score Score
	stamp time.Time
}

// Cache is a fixed-capacity, Zobrist-keyed cache of static evaluations. It is
// safe for concurrent use by lazy-SMP search threads.
type Cache struct {
	mu       sync.Mutex
	capacity int
	entries  map[board.ZobristHash]cacheEntry

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewCache allocates an evaluation cache with room for capacity entries.
func NewCache(capacity int) *Cache {
	return &Cache{
		capacity: capacity,
		entries:  make(map[board.ZobristHash]cacheEntry, capacity),
	}
}

// Get returns the cached score for hash, if present and not stale.
func (c *Cache) Get(hash board.ZobristHash) (Score, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[hash]
	if !ok || time.Since(e.stamp) > staleAfter {
		if ok {
			delete(c.entries, hash)
		}
		c.misses.Inc()
		return 0, false
	}
	c.hits.Inc()
	return e.score, true
}

// Put stores score for hash, evicting stale or excess entries as needed.
func (c *Cache) Put(hash board.ZobristHash, score Score) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.evictStale()
	if float64(len(c.entries))/float64(c.capacity) >= highWatermark {
		c.evictOldest()
	}

	c.entries[hash] = cacheEntry{score: score, stamp: time.Now()}
}

func (c *Cache) evictStale() {
	for h, e := range c.entries {
		if time.Since(e.stamp) > staleAfter {
			delete(c.entries, h)
		}
	}
}

func (c *Cache) evictOldest() {
	type aged struct {
		hash  board.ZobristHash
		stamp time.Time
	}
	all := make([]aged, 0, len(c.entries))
	for h, e := range c.entries {
		all = append(all, aged{h, e.stamp})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].stamp.Before(all[j].stamp) })

	n := int(float64(len(all)) * evictFraction)
	for i := 0; i < n; i++ {
		delete(c.entries, all[i].hash)
	}
}

// Stats returns the cumulative hit/miss counts.
func (c *Cache) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}

// Len returns the current number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
