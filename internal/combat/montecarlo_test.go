package combat

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDice_ChanceBounds(t *testing.T) {
	g := newDice(NewSeededRNG(1))
	for i := 0; i < 100; i++ {
		assert.False(t, g.chance(0))
		assert.False(t, g.chance(-0.5))
		assert.True(t, g.chance(1))
		assert.True(t, g.chance(1.5))
		assert.True(t, g.percent(100))
		assert.False(t, g.percent(0))
	}
}

func TestDice_ChanceFrequency(t *testing.T) {
	const n = 100000
	g := newDice(NewSeededRNG(42))
	hit, pct := 0, 0
	for i := 0; i < n; i++ {
		if g.chance(0.3) {
			hit++
		}
		if g.percent(70) {
			pct++
		}
	}
	assert.InDelta(t, 0.3, float64(hit)/n, 0.01)
	assert.InDelta(t, 0.7, float64(pct)/n, 0.01)
}

func TestDice_Between(t *testing.T) {
	g := newDice(NewSeededRNG(5))
	assert.Equal(t, 3, g.between(3, 3))
	assert.Equal(t, 4, g.between(4, 2))

	seen := map[int]int{}
	for i := 0; i < 30000; i++ {
		v := g.between(2, 4)
		require.GreaterOrEqual(t, v, 2)
		require.LessOrEqual(t, v, 4)
		seen[v]++
	}
	for v := 2; v <= 4; v++ {
		assert.InDelta(t, 10000, seen[v], 500, "value %d", v)
	}
}

func TestDefaultRNG_Range(t *testing.T) {
	rng := DefaultRNG()
	for i := 0; i < 1000; i++ {
		v := rng.Float64()
		require.GreaterOrEqual(t, v, 0.0)
		require.Less(t, v, 1.0)
	}
}

func TestSampleMagazine_Deterministic(t *testing.T) {
	w := rifle()
	got := SampleMagazine(w, DefaultParams(10), 0, NewSeededRNG(7))
	assert.Equal(t, Sample{Time: 300, Damage: 100, Killed: true}, got)

	w.acc, w.capacity = 0, 5
	got = SampleMagazine(w, DefaultParams(10), 0, NewSeededRNG(7))
	assert.Equal(t, Sample{Time: 2500, Damage: 0, Killed: false}, got)
}

func TestRunMonteCarlo_Empty(t *testing.T) {
	assert.Equal(t, SampleStats{}, RunMonteCarlo(rifle(), DefaultParams(10), 0, nil))
}

func TestRunMonteCarlo_NoKills(t *testing.T) {
	w := rifle()
	w.acc = 0
	st := RunMonteCarlo(w, DefaultParams(10), 50, NewSeededRNG(3))
	assert.Equal(t, 0.0, st.KillRate)
	assert.True(t, math.IsInf(st.KillTimeP50, 1))
	assert.Len(t, st.Samples, 50)
}

func TestRunMonteCarlo_AgreesWithExactResolution(t *testing.T) {
	weapons := map[string]fixedStats{
		"burst rifle": {
			acc: 60, crit: 5, dmg: 35, pellets: 1,
			bmin: 2, bmax: 3, cycle: 100, aim: 200, reset: 50,
			capacity: 8, reload: 2500,
		},
		"automatic": {
			acc: 35, followup: 1, dmg: 22, pellets: 1,
			bmin: 2, bmax: Unbounded, cycle: 80, aim: 300,
			capacity: 20, reload: 3000,
		},
		"shotgun": {
			acc: 40, dmg: 18, pellets: 6, pen: 1,
			bmin: 1, bmax: 1, cycle: 900, aim: 150,
			capacity: 5, reload: 4000,
		},
	}
	for name, w := range weapons {
		t.Run(name, func(t *testing.T) {
			p := DefaultParams(20)
			p.Armor = Armor{Piercing: 2, Coverage: 30}

			exact := MagazineDist(w, p)
			et, ed := exact.Expected()
			st := RunMonteCarlo(w, p, 20000, NewSeededRNG(2024))

			assert.InDelta(t, et, st.MeanTime, 0.03*et, "mean time")
			assert.InDelta(t, ed, st.MeanDamage, 2.0, "mean damage")
			assert.InDelta(t, exact.KillChance(p.MaxHP), st.KillRate, 0.02, "kill rate")
		})
	}
}
