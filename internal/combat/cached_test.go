package combat

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStats counts how often each accessor reaches the underlying weapon.
type countingStats struct {
	fixedStats
	accuracy atomic.Int64
	damage   atomic.Int64
	burst    atomic.Int64
	capacity atomic.Int64
}

func (c *countingStats) Accuracy(d float64) float64 {
	c.accuracy.Add(1)
	return c.fixedStats.Accuracy(d)
}

func (c *countingStats) Damage(d float64) float64 {
	c.damage.Add(1)
	return c.fixedStats.Damage(d)
}

func (c *countingStats) Burst(d float64) (int, int) {
	c.burst.Add(1)
	return c.fixedStats.Burst(d)
}

func (c *countingStats) AmmoCapacity() int {
	c.capacity.Add(1)
	return c.fixedStats.AmmoCapacity()
}

func TestCached_ComputesOncePerKey(t *testing.T) {
	inner := &countingStats{fixedStats: rifle()}
	c := Memo(inner)

	for i := 0; i < 5; i++ {
		assert.Equal(t, 100.0, c.Accuracy(10))
		assert.Equal(t, 10, c.AmmoCapacity())
	}
	assert.Equal(t, int64(1), inner.accuracy.Load())
	assert.Equal(t, int64(1), inner.capacity.Load())

	c.Accuracy(20)
	assert.Equal(t, int64(2), inner.accuracy.Load())
	assert.Equal(t, 2, c.Len())
}

func TestCached_BurstPair(t *testing.T) {
	w := rifle()
	w.bmin, w.bmax = 2, Unbounded
	inner := &countingStats{fixedStats: w}
	c := Memo(inner)

	lo, hi := c.Burst(5)
	assert.Equal(t, 2, lo)
	assert.Equal(t, Unbounded, hi)
	c.Burst(5)
	assert.Equal(t, int64(1), inner.burst.Load())
}

func TestCached_ConcurrentAtMostOnce(t *testing.T) {
	inner := &countingStats{fixedStats: rifle()}
	c := Memo(inner)

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, 40.0, c.Damage(42.5))
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(1), inner.damage.Load())
}

func TestCached_Reset(t *testing.T) {
	inner := &countingStats{fixedStats: rifle()}
	c := Memo(inner)

	c.Accuracy(10)
	c.Reset()
	require.Equal(t, 0, c.Len())
	c.Accuracy(10)
	assert.Equal(t, int64(2), inner.accuracy.Load())
	assert.Same(t, inner, c.Unwrap())
}

func TestCached_SameResultsAsUncached(t *testing.T) {
	w := rifle()
	w.acc, w.crit, w.bmin, w.bmax, w.capacity = 55, 10, 1, 3, 9
	p := DefaultParams(20)

	assertDistInDelta(t, MagazineDist(w, p), MagazineDist(Memo(w), p), 1e-12)
}
