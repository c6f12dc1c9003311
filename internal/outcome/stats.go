package outcome

import (
	"math"
	"sort"
)

// DPS is the sustained damage per second: 1000 * E[damage] / E[time].
// Zero when the expected time is not positive or the distribution never resolves.
func (d Dist) DPS() float64 {
	t, dmg := d.Expected()
	if t <= 0 || math.IsInf(t, 1) {
		return 0
	}
	return 1000 * dmg / t
}

// KillChance is the mass of outcomes that reached hp.
func (d Dist) KillChance(hp int) float64 {
	_, dead := d.SplitByDamage(hp)
	return dead.Total()
}

// KillTime returns the smallest time by which the target is dead with probability pmin.
//
// Dead outcomes are scanned in ascending time. If they do not carry enough mass, the
// surviving outcomes are extrapolated linearly to hp (time/damage*hp) and visited from the
// fastest extrapolation to the slowest; outcomes without damage cannot be extrapolated and
// are left out.
// When all mass is used up without reaching pmin the slowest extrapolation is scaled by
// pmin over the accumulated mass. The result never decreases as pmin grows.
func (d Dist) KillTime(pmin float64, hp int) float64 {
	alive, dead := d.SplitByDamage(hp)

	var tp, tmax float64
	for _, k := range dead.Keys() {
		tp += dead[k]
		tmax = float64(k.Time)
		if tp >= pmin {
			return tmax
		}
	}

	type projection struct {
		key Key
		at  float64 // extrapolated time of death
		p   float64
	}
	rest := make([]projection, 0, len(alive))
	for k, p := range alive {
		at := math.Inf(1)
		if k.Damage > 0 {
			at = float64(k.Time) / float64(k.Damage) * float64(hp)
		}
		rest = append(rest, projection{key: k, at: at, p: p})
	}
	sort.Slice(rest, func(i, j int) bool {
		if rest[i].at != rest[j].at {
			return rest[i].at < rest[j].at
		}
		if rest[i].key.Time != rest[j].key.Time {
			return rest[i].key.Time < rest[j].key.Time
		}
		return rest[i].key.Damage < rest[j].key.Damage
	})

	for _, r := range rest {
		if math.IsInf(r.at, 1) {
			continue
		}
		tp += r.p
		tmax = max(tmax, r.at)
		if tp > pmin {
			return tmax
		}
	}

	if tp <= 0 || tmax <= 0 {
		return math.Inf(1)
	}
	return tmax / tp * pmin
}
