package lunar

import (
	"sync"
	"time"
)

const (
	// CacheQuantum is the bucket width for cache keys. Phase motion within a
	// bucket is visually negligible, so a whole bucket shares one descriptor.
	CacheQuantum = 5 * time.Minute

	// DefaultCacheCapacity is the entry limit used when NewPhaseCache is given
	// a non-positive capacity.
	DefaultCacheCapacity = 1000
)

var quantumMillis = CacheQuantum.Milliseconds()

// CacheStats is a snapshot of cache counters.
type CacheStats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// PhaseCache memoizes a Calculator over 5-minute buckets. Eviction is by
// insertion order: a hit never refreshes or promotes an entry.
//
// A PhaseCache is an ordinary value owned by whoever creates it; there is no
// package-level instance. It is safe for concurrent use.
type PhaseCache struct {
	mu       sync.Mutex
	calc     Calculator
	capacity int
	entries  map[int64]PhaseDescriptor

	// order is a FIFO ring of inserted keys; head is the oldest.
	order []int64
	head  int
	count int

	stats CacheStats
}

// NewPhaseCache creates a cache in front of calc. A nil calc uses PhaseOf; a
// non-positive capacity uses DefaultCacheCapacity.
func NewPhaseCache(capacity int, calc Calculator) *PhaseCache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	if calc == nil {
		calc = DefaultCalculator
	}
	return &PhaseCache{
		calc:     calc,
		capacity: capacity,
		entries:  make(map[int64]PhaseDescriptor, capacity+1),
		order:    make([]int64, capacity+1),
	}
}

// cacheKey returns floor(unixMillis / quantum), rounding toward negative
// infinity so pre-1970 instants bucket the same way as later ones.
func cacheKey(t time.Time) int64 {
	ms := t.UnixMilli()
	k := ms / quantumMillis
	if ms%quantumMillis != 0 && ms < 0 {
		k--
	}
	return k
}

// Get returns the descriptor for t's bucket, computing and storing it on a
// miss. On a hit the stored descriptor is returned as is, including the
// Instant of whichever call first filled the bucket.
func (c *PhaseCache) Get(t time.Time) PhaseDescriptor {
	k := cacheKey(t)

	c.mu.Lock()
	defer c.mu.Unlock()

	if d, ok := c.entries[k]; ok {
		c.stats.Hits++
		return d
	}
	c.stats.Misses++

	d := c.calc.Phase(t)
	c.entries[k] = d
	c.push(k)
	if c.count > c.capacity {
		c.evictOldest()
	}
	return d
}

// Phase implements Calculator so a cache can stand in for the calculator it
// wraps.
func (c *PhaseCache) Phase(t time.Time) PhaseDescriptor {
	return c.Get(t)
}

// Len returns the number of cached entries.
func (c *PhaseCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Capacity returns the entry limit.
func (c *PhaseCache) Capacity() int {
	return c.capacity
}

// Stats returns a snapshot of the hit, miss and eviction counters.
func (c *PhaseCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Clear drops all entries and zeroes the counters. Meant for tests and
// resets, not for interactive paths.
func (c *PhaseCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
	c.head = 0
	c.count = 0
	c.stats = CacheStats{}
}

// push appends k at the tail of the ring. The ring holds capacity+1 slots so
// the transient over-capacity entry fits before eviction.
func (c *PhaseCache) push(k int64) {
	tail := (c.head + c.count) % len(c.order)
	c.order[tail] = k
	c.count++
}

func (c *PhaseCache) evictOldest() {
	k := c.order[c.head]
	c.head = (c.head + 1) % len(c.order)
	c.count--
	delete(c.entries, k)
	c.stats.Evictions++
}
