package outcome

import (
	"math"
	"sort"
)

// Eps is the smallest probability mass worth tracking; anything below it may be pruned.
const Eps = 1e-6

// Key identifies one outcome: elapsed time in milliseconds and cumulative damage.
type Key struct {
	Time   int
	Damage int
}

// Dist is a probability mass function over (time, damage) outcomes.
// Shared keys always add up; operations return new values unless noted.
type Dist map[Key]float64

// New returns an empty distribution.
func New() Dist { return Dist{} }

// Single returns a distribution holding one outcome with probability p (clipped to [0,1]).
func Single(time, damage int, p float64) Dist {
	return Dist{{Time: time, Damage: damage}: clip(p)}
}

// Certain returns the distribution of an event that always takes time ms and deals damage.
func Certain(time, damage int) Dist {
	return Single(time, damage, 1)
}

// Add accumulates p onto the (time, damage) outcome in place.
func (d Dist) Add(time, damage int, p float64) {
	d[Key{Time: time, Damage: damage}] += p
}

// Clone returns an independent copy.
func (d Dist) Clone() Dist {
	out := make(Dist, len(d))
	for k, p := range d {
		out[k] = p
	}
	return out
}

// Merge folds alternative outcomes of the same event into one distribution.
func (d Dist) Merge(o Dist) Dist {
	out := d.Clone()
	for k, p := range o {
		out[k] += p
	}
	return out
}

// Scale weights every outcome by p.
func (d Dist) Scale(p float64) Dist {
	out := make(Dist, len(d))
	for k, v := range d {
		out[k] = v * p
	}
	return out
}

// Combine composes two independent events: times and damages add, probabilities multiply.
// Cost is O(len(d)*len(o)).
func (d Dist) Combine(o Dist) Dist {
	out := make(Dist, len(d)*len(o))
	for sk, sp := range d {
		for ok, op := range o {
			out.Add(sk.Time+ok.Time, sk.Damage+ok.Damage, sp*op)
		}
	}
	return out
}

// Total is the summed probability mass.
func (d Dist) Total() float64 {
	var sum float64
	for _, p := range d {
		sum += p
	}
	return sum
}

// Normalized returns a copy rescaled to total mass 1. A massless distribution yields an empty one.
func (d Dist) Normalized() Dist {
	t := d.Total()
	if t <= 0 {
		return New()
	}
	return d.Scale(1 / t)
}

// Normalize rescales d in place to total mass 1.
func (d Dist) Normalize() {
	t := d.Total()
	if t <= 0 {
		return
	}
	for k := range d {
		d[k] /= t
	}
}

// Expected returns mean time and mean damage of the normalized distribution.
// An empty distribution never resolves: (+Inf, 0).
func (d Dist) Expected() (time, damage float64) {
	n := d.Normalized()
	if len(n) == 0 {
		return math.Inf(1), 0
	}
	for k, p := range n {
		time += float64(k.Time) * p
		damage += float64(k.Damage) * p
	}
	return time, damage
}

// Capped clamps every outcome's damage to maxHP.
func (d Dist) Capped(maxHP int) Dist {
	out := make(Dist, len(d))
	for k, p := range d {
		out.Add(k.Time, min(k.Damage, maxHP), p)
	}
	return out
}

// Cap clamps damage to maxHP in place.
func (d Dist) Cap(maxHP int) {
	capped := d.Capped(maxHP)
	clear(d)
	for k, p := range capped {
		d[k] = p
	}
}

// SplitByDamage separates outcomes below hp (alive) from those at or above it (dead).
func (d Dist) SplitByDamage(hp int) (alive, dead Dist) {
	alive, dead = New(), New()
	for k, p := range d {
		if k.Damage < hp {
			alive[k] += p
		} else {
			dead[k] += p
		}
	}
	return alive, dead
}

// SplitByTime separates outcomes strictly before limit from those at or after it.
func (d Dist) SplitByTime(limit int) (before, after Dist) {
	before, after = New(), New()
	for k, p := range d {
		if k.Time < limit {
			before[k] += p
		} else {
			after[k] += p
		}
	}
	return before, after
}

// Keys returns the outcome keys ordered by time, then damage.
func (d Dist) Keys() []Key {
	keys := make([]Key, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Time != keys[j].Time {
			return keys[i].Time < keys[j].Time
		}
		return keys[i].Damage < keys[j].Damage
	})
	return keys
}

// clip keeps a probability within [0,1].
func clip(p float64) float64 {
	if math.IsNaN(p) || p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
