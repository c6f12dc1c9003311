package combat

import (
	"math"
	"sort"
)

// Sample is one drawn engagement.
type Sample struct {
	Time   int
	Damage int
	Killed bool
}

// SampleStats summarizes sampled engagements. Kill-time percentiles only cover trials that
// killed and are +Inf when none did.
type SampleStats struct {
	Trials      int
	MeanTime    float64
	MeanDamage  float64
	KillRate    float64
	KillTimeP50 float64
	KillTimeP90 float64
	KillTimeP99 float64
	// Optional: raw samples if caller needs histograms/exports
	Samples []Sample `json:"-"`
}

func samplePellet(s Stats, p Params, followup int, g dice) int {
	d := p.Distance
	if !g.chance(hitChance(s, p, followup)) {
		return 0
	}
	if g.percent(s.CritChance(d)) {
		return p.HP()
	}
	if s.Penetration(d) < p.Armor.Piercing && g.percent(p.Armor.Coverage) {
		return 1
	}
	return int(s.Damage(d))
}

func sampleShot(s Stats, p Params, followup int, g dice) int {
	dmg := 0
	for i := 0; i < max(s.Pellets(), 1); i++ {
		dmg += samplePellet(s, p, followup, g)
	}
	return min(dmg, p.HP())
}

// SampleMagazine draws one magazine engagement with the rules Magazine resolves exactly.
func SampleMagazine(s Stats, p Params, ammoUsed int, rng RandomSource) Sample {
	g := newDice(rng)
	d := p.Distance
	hp := p.HP()
	capacity := s.AmmoCapacity() - ammoUsed
	t, dmg, fired := 0, 0, 0

	done := func() Sample { return Sample{Time: t, Damage: dmg, Killed: dmg >= hp} }
	shoot := func() {
		dmg = min(dmg+sampleShot(s, p, fired, g), hp)
		t += ms(s.CycleTime(d))
		fired++
	}

	for {
		if fired >= capacity {
			t += ms(s.ReloadEmptyTime())
			return done()
		}
		if dmg >= hp || s.Accuracy(d)+float64(fired)*s.FollowupAccuracy(d) < 0 {
			return done()
		}
		left := capacity - fired
		bmin, bmax := s.Burst(d)
		bmin = min(bmin, left)
		bmax = min(bmax, left)
		if left < 1 || bmax == 0 {
			return done()
		}

		t += ms(s.AimTime(d) + s.ResetTime(d))
		if bmax < 0 {
			for n := 1; n <= left; n++ {
				shoot()
				if n >= bmin && dmg >= hp {
					break
				}
			}
		} else {
			n := g.between(max(min(bmin, bmax), 1), bmax)
			for i := 0; i < n; i++ {
				shoot()
			}
		}

		if p.Timeout > 0 && t >= p.Timeout {
			return done()
		}
	}
}

// percentile interpolates the p-quantile of sorted values.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.Inf(1)
	}
	if n == 1 || p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	pos := p * float64(n-1)
	i := int(math.Floor(pos))
	f := pos - float64(i)
	if i+1 >= n {
		return sorted[i]
	}
	return sorted[i]*(1-f) + sorted[i+1]*f
}

// RunMonteCarlo samples trials magazine engagements and summarizes them.
// Used to cross-check the exact resolution.
func RunMonteCarlo(s Stats, p Params, trials int, rng RandomSource) SampleStats {
	if trials <= 0 {
		return SampleStats{}
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	samples := make([]Sample, trials)
	var sumT, sumD float64
	var kills []float64
	for i := range samples {
		smp := SampleMagazine(s, p, 0, rng)
		samples[i] = smp
		sumT += float64(smp.Time)
		sumD += float64(smp.Damage)
		if smp.Killed {
			kills = append(kills, float64(smp.Time))
		}
	}
	sort.Float64s(kills)
	n := float64(trials)
	return SampleStats{
		Trials:      trials,
		MeanTime:    sumT / n,
		MeanDamage:  sumD / n,
		KillRate:    float64(len(kills)) / n,
		KillTimeP50: percentile(kills, 0.50),
		KillTimeP90: percentile(kills, 0.90),
		KillTimeP99: percentile(kills, 0.99),
		Samples:     samples,
	}
}
