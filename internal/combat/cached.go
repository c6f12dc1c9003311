package combat

import (
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

type memoKey struct {
	op string
	d  float64
}

// Cached memoizes a Stats by (operation, distance). Each key is computed at most once for
// the lifetime of the adapter, also when shared between goroutines.
// Build one per weapon configuration; it is not a global cache.
type Cached struct {
	stats  Stats
	mu     sync.Mutex
	values map[memoKey]any
	group  singleflight.Group
}

// Memo wraps s in a fresh cache.
func Memo(s Stats) *Cached {
	return &Cached{stats: s, values: make(map[memoKey]any)}
}

// Unwrap returns the decorated Stats.
func (c *Cached) Unwrap() Stats { return c.stats }

// Reset drops every cached value.
func (c *Cached) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = make(map[memoKey]any)
}

// Len is the number of cached values.
func (c *Cached) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.values)
}

func (c *Cached) lookup(k memoKey) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[k]
	return v, ok
}

func memo[T any](c *Cached, op string, d float64, fn func() T) T {
	k := memoKey{op: op, d: d}
	if v, ok := c.lookup(k); ok {
		return v.(T)
	}
	v, _, _ := c.group.Do(op+"/"+strconv.FormatFloat(d, 'g', -1, 64), func() (any, error) {
		// a caller that lost the race to a finished flight finds the value here
		if v, ok := c.lookup(k); ok {
			return v, nil
		}
		v := fn()
		c.mu.Lock()
		c.values[k] = v
		c.mu.Unlock()
		return v, nil
	})
	return v.(T)
}

func (c *Cached) Accuracy(d float64) float64 {
	return memo(c, "accuracy", d, func() float64 { return c.stats.Accuracy(d) })
}

func (c *Cached) FollowupAccuracy(d float64) float64 {
	return memo(c, "followup_accuracy", d, func() float64 { return c.stats.FollowupAccuracy(d) })
}

func (c *Cached) CritChance(d float64) float64 {
	return memo(c, "crit_chance", d, func() float64 { return c.stats.CritChance(d) })
}

func (c *Cached) Damage(d float64) float64 {
	return memo(c, "damage", d, func() float64 { return c.stats.Damage(d) })
}

func (c *Cached) Penetration(d float64) float64 {
	return memo(c, "penetration", d, func() float64 { return c.stats.Penetration(d) })
}

func (c *Cached) Pellets() int {
	return memo(c, "pellets", 0, func() int { return c.stats.Pellets() })
}

func (c *Cached) Burst(d float64) (int, int) {
	r := memo(c, "burst", d, func() [2]int {
		lo, hi := c.stats.Burst(d)
		return [2]int{lo, hi}
	})
	return r[0], r[1]
}

func (c *Cached) CycleTime(d float64) float64 {
	return memo(c, "cycle_time", d, func() float64 { return c.stats.CycleTime(d) })
}

func (c *Cached) AimTime(d float64) float64 {
	return memo(c, "aim_time", d, func() float64 { return c.stats.AimTime(d) })
}

func (c *Cached) ResetTime(d float64) float64 {
	return memo(c, "reset_time", d, func() float64 { return c.stats.ResetTime(d) })
}

func (c *Cached) AmmoCapacity() int {
	return memo(c, "ammo_capacity", 0, func() int { return c.stats.AmmoCapacity() })
}

func (c *Cached) ReloadEmptyTime() float64 {
	return memo(c, "reload_empty_time", 0, func() float64 { return c.stats.ReloadEmptyTime() })
}
