package combat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/ttk-backend/internal/outcome"
)

func totalMass(branches []Branch) float64 {
	var sum float64
	for _, b := range branches {
		sum += b.Dist.Total()
	}
	return sum
}

func TestMagazine_KillsWithoutReload(t *testing.T) {
	w := rifle()
	p := DefaultParams(10)
	out := Magazine(w, p, 0)

	require.Len(t, out, 1)
	assert.Equal(t, 3, out[0].Shots)
	assert.Equal(t, outcome.Dist{{Time: 300, Damage: 100}: 1}, out[0].Dist)

	d := MagazineDist(w, p)
	assert.Equal(t, 1.0, d.KillChance(p.MaxHP))
	assert.Equal(t, 300.0, d.KillTime(0.95, p.MaxHP))
}

func TestMagazine_AmmoExhaustion(t *testing.T) {
	w := rifle()
	w.acc, w.capacity = 0, 5
	out := Magazine(w, DefaultParams(10), 0)

	require.Len(t, out, 1)
	assert.Equal(t, 5, out[0].Shots)
	assert.Equal(t, outcome.Dist{{Time: 5*100 + 2000, Damage: 0}: 1}, out[0].Dist)
	assert.InDelta(t, 1.0, totalMass(out), outcome.Eps)
}

func TestMagazine_AmmoUsedShrinksMagazine(t *testing.T) {
	w := rifle()
	w.acc, w.capacity = 0, 5
	out := Magazine(w, DefaultParams(10), 3)

	require.Len(t, out, 1)
	assert.Equal(t, 2, out[0].Shots)
	assert.Equal(t, outcome.Dist{{Time: 2*100 + 2000, Damage: 0}: 1}, out[0].Dist)
}

func TestMagazine_MissOnlyNeverKills(t *testing.T) {
	w := rifle()
	w.acc, w.bmax = 0, Unbounded
	p := DefaultParams(10)
	out := Magazine(w, p, 0)

	require.NotEmpty(t, out)
	for _, b := range out {
		assert.Equal(t, 0.0, b.Dist.KillChance(p.MaxHP))
	}
	assert.InDelta(t, 1.0, totalMass(out), outcome.Eps)
}

func TestMagazine_StallsWhenAccuracyDegenerates(t *testing.T) {
	w := rifle()
	w.acc = -10
	out := Magazine(w, DefaultParams(10), 0)

	require.Len(t, out, 1)
	assert.Equal(t, 0, out[0].Shots)
	assert.Equal(t, outcome.Certain(0, 0), out[0].Dist)
}

func TestMagazine_StallsWhenFollowupPenaltyAccumulates(t *testing.T) {
	w := rifle()
	w.acc, w.followup, w.dmg = 30, -20, 10
	out := Magazine(w, DefaultParams(10), 0)

	// 30% then 10%, then the third shot would be at -10%
	require.NotEmpty(t, out)
	for _, b := range out {
		assert.LessOrEqual(t, b.Shots, 2)
	}
	assert.InDelta(t, 1.0, totalMass(out), outcome.Eps)
}

func TestMagazine_OutOfRangeResolvesImmediately(t *testing.T) {
	w := rifle()
	w.bmin, w.bmax = 0, 0
	out := Magazine(w, DefaultParams(400), 0)

	require.Len(t, out, 1)
	assert.Equal(t, outcome.Certain(0, 0), out[0].Dist)
}

func TestMagazine_Timeout(t *testing.T) {
	w := rifle()
	w.acc, w.capacity = 0, 1000
	p := DefaultParams(10)
	p.Timeout = 1000
	out := Magazine(w, p, 0)

	require.NotEmpty(t, out)
	assert.InDelta(t, 1.0, totalMass(out), outcome.Eps)
	for _, b := range out {
		for k := range b.Dist {
			assert.GreaterOrEqual(t, k.Time, p.Timeout)
		}
	}
}

func TestMagazine_TimeoutDisabled(t *testing.T) {
	w := rifle()
	w.acc, w.capacity = 0, 40
	p := DefaultParams(10)
	p.Timeout = 0
	out := Magazine(w, p, 0)

	require.Len(t, out, 1)
	assert.Equal(t, outcome.Dist{{Time: 40*100 + 2000, Damage: 0}: 1}, out[0].Dist)
}

func TestMagazine_ConservesMass(t *testing.T) {
	w := fixedStats{
		acc: 60, followup: -2, crit: 10, dmg: 35, pen: 1, pellets: 1,
		bmin: 1, bmax: 3, cycle: 90, aim: 150, reset: 60,
		capacity: 12, reload: 2400,
	}
	p := DefaultParams(25)
	p.Armor = Armor{Piercing: 2, Coverage: 30}
	out := Magazine(w, p, 0)

	assert.InDelta(t, 1.0, totalMass(out), 1e-3)
	for _, b := range out {
		assert.LessOrEqual(t, b.Shots, w.capacity)
		for k, pr := range b.Dist {
			assert.LessOrEqual(t, k.Damage, p.MaxHP)
			assert.GreaterOrEqual(t, pr, 0.0)
		}
	}
}

func TestMagazine_KillTimeMonotonic(t *testing.T) {
	w := rifle()
	w.acc, w.crit, w.bmin, w.bmax, w.capacity = 45, 5, 1, 2, 8
	p := DefaultParams(30)
	d := MagazineDist(w, p)

	prev := 0.0
	for _, conf := range []float64{0.05, 0.25, 0.5, 0.75, 0.9, 0.95, 0.99, 1} {
		kt := d.KillTime(conf, p.MaxHP)
		assert.GreaterOrEqual(t, kt, prev, "confidence %.2f", conf)
		prev = kt
	}
}

func TestMergeByShots(t *testing.T) {
	in := []Branch{
		{Shots: 3, Dist: outcome.Dist{{Time: 1}: 0.25}},
		{Shots: 1, Dist: outcome.Dist{{Time: 1}: 0.25}},
		{Shots: 3, Dist: outcome.Dist{{Time: 1}: 0.25, {Time: 2}: 0.25}},
	}
	out := mergeByShots(in)

	require.Len(t, out, 2)
	assert.Equal(t, 1, out[0].Shots)
	assert.Equal(t, 3, out[1].Shots)
	assert.InDelta(t, 0.5, out[1].Dist[outcome.Key{Time: 1}], 1e-12)
	assert.InDelta(t, 0.25, in[0].Dist[outcome.Key{Time: 1}], 1e-12)
}
