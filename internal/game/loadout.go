package game

import (
	"math"
	"sort"

	"github.com/xtding233/ttk-backend/internal/combat"
)

// At evaluates the ramp at distance x.
func (r Ramp) At(x float64) float64 {
	return interp(x, r.StartDist, r.EndDist, r.Start, r.End)
}

// interp is linear between (x0,y0) and (x1,y1) and clamps to the nearer edge outside.
func interp(x, x0, x1, y0, y1 float64) float64 {
	if x0 > x1 {
		x0, x1, y0, y1 = x1, x0, y1, y0
	}
	switch {
	case x <= x0:
		return y0
	case x >= x1:
		return y1
	}
	r := (x - x0) / (x1 - x0)
	return (1-r)*y0 + r*y1
}

type rangedAttack struct {
	Range float64
	Type  *AttackType
}

// Loadout is one weapon / ammo / scope / cover combination. It implements combat.Stats.
type Loadout struct {
	Weapon  *WeaponDef
	Ammo    *AmmoDef
	Scope   *ScopeDef // nil for weapons without sights
	InCover bool

	attacks []rangedAttack // ascending range
}

var _ combat.Stats = (*Loadout)(nil)

// LoadoutInfo identifies a loadout in listings and responses.
type LoadoutInfo struct {
	Weapon  string   `json:"weapon"`
	Ammo    string   `json:"ammo"`
	Scope   string   `json:"scope,omitempty"`
	InCover bool     `json:"in_cover"`
	Side    Side     `json:"side"`
	Slot    Slot     `json:"slot"`
	Classes []string `json:"classes,omitempty"`

	ReloadTime float64 `json:"reload_time,omitempty"`
	GuardTime  float64 `json:"guard_time,omitempty"`
	ReadyTime  float64 `json:"ready_time,omitempty"`
}

func (l *Loadout) Info() LoadoutInfo {
	info := LoadoutInfo{
		Weapon:  l.Weapon.Name,
		Ammo:    l.Ammo.Name,
		InCover: l.InCover,
		Side:    l.Weapon.Side,
		Slot:    l.Weapon.Slot,
		Classes: l.Weapon.Classes,

		ReloadTime: l.ReloadTime(),
		GuardTime:  l.GuardTime(),
		ReadyTime:  l.ReadyTime(),
	}
	if l.Scope != nil {
		info.Scope = l.Scope.Name
	}
	return info
}

func (l *Loadout) String() string {
	s := l.Weapon.Name + " / " + l.Ammo.Name
	if l.Scope != nil {
		s += " / " + l.Scope.Name
	}
	if l.InCover {
		s += " (in cover)"
	}
	return s
}

// Cutoffs returns the sorted distances where stats jump instead of interpolating:
// attack-type range limits and scope modifier bounds, plus 0.
func (l *Loadout) Cutoffs() []float64 {
	set := map[float64]struct{}{0: {}}
	for _, a := range l.attacks {
		set[a.Range] = struct{}{}
	}
	if l.Scope != nil {
		for _, m := range l.Scope.Modifiers {
			set[m.MinRange] = struct{}{}
			set[m.MaxRange] = struct{}{}
		}
	}
	out := make([]float64, 0, len(set))
	for d := range set {
		out = append(out, d)
	}
	sort.Float64s(out)
	return out
}

// CanAttack reports whether any attack type reaches distance d.
func (l *Loadout) CanAttack(d float64) bool {
	return len(l.attacks) > 0 && d <= l.attacks[len(l.attacks)-1].Range
}

func (l *Loadout) attackAt(d float64) *AttackType {
	for _, a := range l.attacks {
		if a.Range >= d {
			return a.Type
		}
	}
	return nil
}

// attackRange returns the distance band served by the attack type at d.
func (l *Loadout) attackRange(d float64) (lo, hi float64, ok bool) {
	for _, a := range l.attacks {
		if a.Range >= d {
			return lo, a.Range, true
		}
		lo = a.Range
	}
	return 0, 0, false
}

func (l *Loadout) scopeMod(d float64) *ScopeModifier {
	if l.Scope == nil {
		return nil
	}
	for i := range l.Scope.Modifiers {
		m := &l.Scope.Modifiers[i]
		if d >= m.MinRange && d <= m.MaxRange {
			return m
		}
	}
	return nil
}

func (l *Loadout) Accuracy(d float64) float64 {
	acc := l.Weapon.Accuracy.At(d)
	if at := l.attackAt(d); at != nil {
		acc += at.AccuracyAdd
	}
	if m := l.scopeMod(d); m != nil {
		acc += m.AccuracyAdd
	}
	return acc
}

func (l *Loadout) FollowupAccuracy(d float64) float64 {
	if at := l.attackAt(d); at != nil {
		return at.FollowupAccuracyAdd
	}
	return 0
}

func (l *Loadout) CritChance(d float64) float64 {
	cc := l.Ammo.CritChance.At(d)
	if at := l.attackAt(d); at != nil {
		cc += at.CritChanceAdd
	}
	if m := l.scopeMod(d); m != nil {
		cc += m.CritChanceAdd
	}
	return cc
}

func (l *Loadout) Damage(d float64) float64      { return l.Ammo.Damage.At(d) }
func (l *Loadout) Penetration(d float64) float64 { return l.Ammo.Penetration.At(d) }

// Pellets prefers the ammo's pellet count over the weapon's.
func (l *Loadout) Pellets() int {
	switch {
	case l.Ammo.NumPellets > 0:
		return l.Ammo.NumPellets
	case l.Weapon.NumPellets > 0:
		return l.Weapon.NumPellets
	}
	return 1
}

// Burst is (0,0) out of range and (1,1) when the attack type leaves the shot counts unset.
func (l *Loadout) Burst(d float64) (int, int) {
	at := l.attackAt(d)
	if at == nil {
		return 0, 0
	}
	if at.MinShots == nil || at.MaxShots == nil {
		return 1, 1
	}
	return *at.MinShots, *at.MaxShots
}

func (l *Loadout) CycleTime(d float64) float64 {
	if at := l.attackAt(d); at != nil && at.RoundsPerSecondOverride != nil && *at.RoundsPerSecondOverride > 0 {
		return 1000 / *at.RoundsPerSecondOverride
	}
	return 1000 / l.Ammo.RoundsPerSecond
}

// AimTime interpolates across the attack type's distance band; +Inf out of range.
func (l *Loadout) AimTime(d float64) float64 {
	lo, hi, ok := l.attackRange(d)
	if !ok {
		return math.Inf(1)
	}
	at := l.attackAt(d)
	aim := interp(d, lo, hi, at.MinAimTime, at.MaxAimTime)
	if m := l.scopeMod(d); m != nil {
		aim += interp(d, m.MinRange, m.MaxRange, m.MinAimTime, m.MaxAimTime)
	}
	return aim
}

func (l *Loadout) ResetTime(d float64) float64 {
	var rt float64
	if at := l.attackAt(d); at != nil {
		rt = at.ResetTime
	}
	if m := l.scopeMod(d); m != nil {
		rt += m.ResetTime
	}
	return rt
}

// AmmoCapacity counts the chambered round of closed-bolt weapons.
func (l *Loadout) AmmoCapacity() int {
	n := l.Weapon.RoundsPerMagazine
	if l.Weapon.ClosedBolt {
		n++
	}
	return n
}

func (l *Loadout) ReloadEmptyTime() float64 {
	rt := l.Weapon.ReloadEmptyTime
	if l.Scope != nil {
		rt += l.Scope.ReloadEmptyTime
	}
	return rt
}

// ReloadTime is the tactical reload with rounds left in the magazine.
func (l *Loadout) ReloadTime() float64 {
	rt := l.Weapon.ReloadTime
	if l.Scope != nil {
		rt += l.Scope.ReloadTime
	}
	return rt
}

// GuardTime is the time to lower the weapon.
func (l *Loadout) GuardTime() float64 {
	gt := l.Weapon.GuardTime
	if l.Scope != nil {
		gt += l.Scope.GuardTime
	}
	return gt
}

// ReadyTime is the time to raise the weapon from guard.
func (l *Loadout) ReadyTime() float64 {
	rt := l.Weapon.ReadyTime
	if l.Scope != nil {
		rt += l.Scope.ReadyTime
	}
	return rt
}
