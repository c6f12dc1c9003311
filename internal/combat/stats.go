package combat

import (
	"errors"
	"fmt"
	"math"
)

// Stats exposes the distance-parameterized numbers of one weapon configuration.
// Distances are in meters, times in milliseconds, percentages in 0..100.
type Stats interface {
	Accuracy(d float64) float64
	FollowupAccuracy(d float64) float64
	CritChance(d float64) float64
	Damage(d float64) float64
	Penetration(d float64) float64
	Pellets() int
	// Burst returns the shot count range of one burst; max == Unbounded fires until dead or empty.
	Burst(d float64) (min, max int)
	CycleTime(d float64) float64
	AimTime(d float64) float64
	ResetTime(d float64) float64
	AmmoCapacity() int
	ReloadEmptyTime() float64
}

// Unbounded is the burst maximum that keeps firing until the target dies or the gun is empty.
const Unbounded = -1

const (
	DefaultMaxHP   = 100
	DefaultTimeout = 10000 // ms
)

var ErrInvalidParams = errors.New("invalid simulation params")

// Armor is the target's protection: piercing rating and coverage percentage (0..100).
type Armor struct {
	Piercing float64 `json:"piercing"`
	Coverage float64 `json:"coverage"`
}

// Params describes the target and engagement a configuration is evaluated against.
type Params struct {
	Distance float64 `json:"distance"` // meters
	MaxHP    int     `json:"max_hp"`   // hit-point pool, <=0 means DefaultMaxHP
	Armor    Armor   `json:"armor"`
	Cover    bool    `json:"cover"`   // target in cover: incoming accuracy halved
	Timeout  int     `json:"timeout"` // simulated ms budget for a magazine; 0 disables
}

// DefaultParams returns params at distance d with the default hp pool and timeout.
func DefaultParams(d float64) Params {
	return Params{Distance: d, MaxHP: DefaultMaxHP, Timeout: DefaultTimeout}
}

// Validate reports the first out-of-range field.
func (p Params) Validate() error {
	switch {
	case math.IsNaN(p.Distance) || math.IsInf(p.Distance, 0) || p.Distance < 0:
		return fmt.Errorf("%w: distance must be a finite value >= 0", ErrInvalidParams)
	case p.MaxHP < 0:
		return fmt.Errorf("%w: max_hp must be >= 0 (0 means default to 100)", ErrInvalidParams)
	case p.Armor.Coverage < 0 || p.Armor.Coverage > 100:
		return fmt.Errorf("%w: armor coverage must be in [0,100]", ErrInvalidParams)
	case p.Timeout < 0:
		return fmt.Errorf("%w: timeout must be >= 0", ErrInvalidParams)
	}
	return nil
}

// HP is the effective hit-point pool.
func (p Params) HP() int {
	if p.MaxHP <= 0 {
		return DefaultMaxHP
	}
	return p.MaxHP
}

// ms truncates a provider time to whole milliseconds, keeping non-finite values in range.
func ms(v float64) int {
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= math.MaxInt32:
		return math.MaxInt32
	}
	return int(v)
}

// clip keeps v within [0,1].
func clip(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
