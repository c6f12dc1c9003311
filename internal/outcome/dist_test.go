package outcome

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() Dist {
	d := New()
	d.Add(0, 0, 0.2)
	d.Add(100, 30, 0.3)
	d.Add(100, 120, 0.1)
	d.Add(250, 100, 0.4)
	return d
}

func TestSingle_ClipsProbability(t *testing.T) {
	assert.Equal(t, 1.0, Single(10, 5, 3)[Key{10, 5}])
	assert.Equal(t, 0.0, Single(10, 5, -1)[Key{10, 5}])
	assert.Equal(t, 1.0, Certain(7, 0).Total())
}

func TestDist_AddAccumulates(t *testing.T) {
	d := New()
	d.Add(1, 2, 0.25)
	d.Add(1, 2, 0.25)
	require.Len(t, d, 1)
	assert.InDelta(t, 0.5, d[Key{1, 2}], 1e-12)
}

func TestDist_MergeConservesMass(t *testing.T) {
	a := sample()
	b := Dist{{100, 30}: 0.5, {5, 5}: 0.25}

	m := a.Merge(b)
	assert.InDelta(t, a.Total()+b.Total(), m.Total(), 1e-12)
	assert.InDelta(t, 0.8, m[Key{100, 30}], 1e-12)
	// operands untouched
	assert.InDelta(t, 0.3, a[Key{100, 30}], 1e-12)
	assert.Len(t, b, 2)
}

func TestDist_CombineConservesMass(t *testing.T) {
	a := sample()
	b := Dist{{50, 10}: 0.5, {60, 0}: 0.3}

	c := a.Combine(b)
	assert.InDelta(t, a.Total()*b.Total(), c.Total(), 1e-12)
	assert.InDelta(t, 0.2*0.5, c[Key{50, 10}], 1e-12)
	assert.InDelta(t, 0.3*0.3, c[Key{160, 30}], 1e-12)
}

func TestDist_CombineWithEmpty(t *testing.T) {
	assert.Empty(t, sample().Combine(New()))
	assert.Empty(t, New().Combine(sample()))
}

func TestDist_Scale(t *testing.T) {
	s := sample().Scale(0.5)
	assert.InDelta(t, 0.5, s.Total(), 1e-12)
	assert.InDelta(t, 0.2, s[Key{250, 100}], 1e-12)
}

func TestDist_Normalize(t *testing.T) {
	d := Dist{{0, 0}: 0.1, {10, 10}: 0.3}
	n := d.Normalized()
	assert.InDelta(t, 1.0, n.Total(), 1e-12)
	assert.InDelta(t, 0.75, n[Key{10, 10}], 1e-12)
	assert.InDelta(t, 0.4, d.Total(), 1e-12)

	d.Normalize()
	assert.InDelta(t, 1.0, d.Total(), 1e-12)

	assert.Empty(t, New().Normalized())
	assert.Empty(t, Dist{{1, 1}: 0}.Normalized())
}

func TestDist_Expected(t *testing.T) {
	d := Dist{{100, 10}: 0.25, {200, 50}: 0.25}
	tm, dmg := d.Expected()
	assert.InDelta(t, 150, tm, 1e-9)
	assert.InDelta(t, 30, dmg, 1e-9)
}

func TestDist_ExpectedEmpty(t *testing.T) {
	tm, dmg := New().Expected()
	assert.True(t, math.IsInf(tm, 1))
	assert.Equal(t, 0.0, dmg)
}

func TestDist_CappedMergesDuplicates(t *testing.T) {
	c := sample().Capped(30)
	require.Len(t, c, 3)
	assert.InDelta(t, 0.4, c[Key{100, 30}], 1e-12)
	assert.InDelta(t, 0.4, c[Key{250, 30}], 1e-12)
	_, over := c[Key{100, 120}]
	assert.False(t, over)
	assert.InDelta(t, sample().Total(), c.Total(), 1e-12)
}

func TestDist_CapIdempotent(t *testing.T) {
	once := sample().Capped(50)
	twice := once.Capped(50)
	assert.Equal(t, once, twice)

	inPlace := sample()
	inPlace.Cap(50)
	assert.Equal(t, once, inPlace)
}

func TestDist_SplitByDamageIsComplete(t *testing.T) {
	d := sample()
	for _, hp := range []int{0, 30, 99, 100, 101, 500} {
		alive, dead := d.SplitByDamage(hp)
		assert.Equal(t, d, alive.Merge(dead), "hp=%d", hp)
		for k := range alive {
			assert.Less(t, k.Damage, hp)
		}
		for k := range dead {
			assert.GreaterOrEqual(t, k.Damage, hp)
		}
	}
}

func TestDist_SplitByDamageAtCapCountsAsDead(t *testing.T) {
	alive, dead := sample().SplitByDamage(100)
	assert.InDelta(t, 0.5, dead.Total(), 1e-12)
	assert.InDelta(t, 0.5, alive.Total(), 1e-12)
}

func TestDist_SplitByTimeIsComplete(t *testing.T) {
	d := sample()
	for _, limit := range []int{0, 100, 101, 250, 1000} {
		before, after := d.SplitByTime(limit)
		assert.Equal(t, d, before.Merge(after), "limit=%d", limit)
		for k := range before {
			assert.Less(t, k.Time, limit)
		}
		for k := range after {
			assert.GreaterOrEqual(t, k.Time, limit)
		}
	}
}

func TestDist_KeysSorted(t *testing.T) {
	keys := sample().Keys()
	require.Len(t, keys, 4)
	assert.Equal(t, []Key{{0, 0}, {100, 30}, {100, 120}, {250, 100}}, keys)
}
