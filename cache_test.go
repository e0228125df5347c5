package lunar

import (
	"sync"
	"testing"
	"time"
)

// countingCalc wraps PhaseOf and counts calls.
type countingCalc struct {
	mu    sync.Mutex
	calls int
}

func (c *countingCalc) Phase(t time.Time) PhaseDescriptor {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return PhaseOf(t)
}

var cacheBase = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestPhaseCache_SameBucket(t *testing.T) {
	calc := &countingCalc{}
	c := NewPhaseCache(10, calc)

	first := c.Get(cacheBase)
	second := c.Get(cacheBase.Add(4*time.Minute + 59*time.Second))

	if calc.calls != 1 {
		t.Errorf("calculator called %d times, want 1", calc.calls)
	}
	if !first.Equal(second) {
		t.Errorf("same bucket returned different descriptors: %+v vs %+v", first, second)
	}
	if !second.Instant.Equal(cacheBase) {
		t.Errorf("hit Instant = %v, want the first instant %v", second.Instant, cacheBase)
	}
	if s := c.Stats(); s.Hits != 1 || s.Misses != 1 {
		t.Errorf("stats = %+v, want 1 hit 1 miss", s)
	}
}

func TestPhaseCache_NextBucketMisses(t *testing.T) {
	calc := &countingCalc{}
	c := NewPhaseCache(10, calc)
	c.Get(cacheBase)
	c.Get(cacheBase.Add(CacheQuantum))
	if calc.calls != 2 {
		t.Errorf("calculator called %d times, want 2", calc.calls)
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
}

func TestCacheKey(t *testing.T) {
	tests := []struct {
		ms   int64
		want int64
	}{
		{0, 0},
		{299_999, 0},
		{300_000, 1},
		{-1, -1},
		{-300_000, -1},
		{-300_001, -2},
	}
	for _, tt := range tests {
		if got := cacheKey(time.UnixMilli(tt.ms)); got != tt.want {
			t.Errorf("cacheKey(%d ms) = %d, want %d", tt.ms, got, tt.want)
		}
	}
}

func TestPhaseCache_CapacityNeverExceeded(t *testing.T) {
	c := NewPhaseCache(0, nil)
	if c.Capacity() != DefaultCacheCapacity {
		t.Fatalf("Capacity = %d, want %d", c.Capacity(), DefaultCacheCapacity)
	}
	for i := 0; i < 2500; i++ {
		c.Get(cacheBase.Add(time.Duration(i) * CacheQuantum))
		if c.Len() > DefaultCacheCapacity {
			t.Fatalf("after %d inserts Len = %d", i+1, c.Len())
		}
	}
	if c.Len() != DefaultCacheCapacity {
		t.Errorf("Len = %d, want %d", c.Len(), DefaultCacheCapacity)
	}
	if got := c.Stats().Evictions; got != 1500 {
		t.Errorf("Evictions = %d, want 1500", got)
	}
}

func TestPhaseCache_EvictsByInsertionOrder(t *testing.T) {
	c := NewPhaseCache(2, nil)
	a := cacheBase
	b := cacheBase.Add(CacheQuantum)
	d := cacheBase.Add(2 * CacheQuantum)

	c.Get(a)
	c.Get(b)
	c.Get(a) // hit; must not promote a
	c.Get(d)

	if _, ok := c.entries[cacheKey(a)]; ok {
		t.Error("oldest-inserted entry survived eviction after a hit")
	}
	for _, k := range []time.Time{b, d} {
		if _, ok := c.entries[cacheKey(k)]; !ok {
			t.Errorf("entry for %v evicted, want kept", k)
		}
	}
}

func TestPhaseCache_Clear(t *testing.T) {
	c := NewPhaseCache(4, nil)
	for i := 0; i < 6; i++ {
		c.Get(cacheBase.Add(time.Duration(i) * CacheQuantum))
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len after Clear = %d", c.Len())
	}
	if s := c.Stats(); s != (CacheStats{}) {
		t.Errorf("Stats after Clear = %+v", s)
	}
	// The ring must be usable again from a clean state.
	for i := 0; i < 6; i++ {
		c.Get(cacheBase.Add(time.Duration(i) * CacheQuantum))
	}
	if c.Len() != 4 {
		t.Errorf("Len = %d, want 4", c.Len())
	}
}

func TestPhaseCache_IsCalculator(t *testing.T) {
	var calc Calculator = NewPhaseCache(8, nil)
	at := time.Date(2023, 8, 31, 1, 35, 0, 0, time.UTC)
	if got, want := calc.Phase(at), PhaseOf(at); !got.Equal(want) {
		t.Errorf("Phase = %+v, want %+v", got, want)
	}
}

func TestPhaseCache_Concurrent(t *testing.T) {
	c := NewPhaseCache(64, nil)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				c.Get(cacheBase.Add(time.Duration(g*37+i) * CacheQuantum))
			}
		}(g)
	}
	wg.Wait()
	if c.Len() > 64 {
		t.Errorf("Len = %d, want <= 64", c.Len())
	}
	s := c.Stats()
	if s.Hits+s.Misses != 1600 {
		t.Errorf("hits+misses = %d, want 1600", s.Hits+s.Misses)
	}
}
