// types.go
package game

// Catalog is the game data loaded from YAML: weapons, ammunition, attack types and scopes.
type Catalog struct {
	Version     string       `yaml:"version"`
	Notes       string       `yaml:"notes,omitempty"`
	Weapons     []WeaponDef  `yaml:"weapons"`
	Ammo        []AmmoDef    `yaml:"ammo"`
	AttackTypes []AttackType `yaml:"attack_types"`
	Scopes      []ScopeDef   `yaml:"scopes"`
}

// Ramp is a value that moves linearly from Start at StartDist to End at EndDist
// and holds its edge values outside that range.
type Ramp struct {
	Start     float64 `yaml:"start"`
	End       float64 `yaml:"end"`
	StartDist float64 `yaml:"start_dist"`
	EndDist   float64 `yaml:"end_dist"`
}

type Side string

const (
	SidePlayer Side = "player"
	SideEnemy  Side = "enemy"
)

type Slot string

const (
	SlotPrimary   Slot = "primary"
	SlotSecondary Slot = "secondary"
)

// WeaponDef is a firearm and the equipment it accepts.
type WeaponDef struct {
	Name              string      `yaml:"name"`
	Side              Side        `yaml:"side"`
	Slot              Slot        `yaml:"slot"`
	Classes           []string    `yaml:"classes,omitempty"`
	RoundsPerMagazine int         `yaml:"rounds_per_magazine"`
	ClosedBolt        bool        `yaml:"closed_bolt"` // one extra round in the chamber
	NumPellets        int         `yaml:"num_pellets,omitempty"`
	ReloadEmptyTime   float64     `yaml:"reload_empty_time"`
	ReloadTime        float64     `yaml:"reload_time,omitempty"` // tactical, rounds left
	GuardTime         float64     `yaml:"guard_time,omitempty"`
	ReadyTime         float64     `yaml:"ready_time,omitempty"`
	Accuracy          Ramp        `yaml:"accuracy"`
	Ammo              []string    `yaml:"ammo"`
	Scopes            []string    `yaml:"scopes,omitempty"`
	Attacks           []AttackRef `yaml:"attacks"`
}

// AttackRef binds an attack type to the distances up to Range (meters).
type AttackRef struct {
	Name            string  `yaml:"name"`
	Range           float64 `yaml:"range"`
	InCoverOverride string  `yaml:"in_cover_override,omitempty"`
}

type AmmoDef struct {
	Name            string  `yaml:"name"`
	Damage          Ramp    `yaml:"damage"`
	Penetration     Ramp    `yaml:"penetration"`
	CritChance      Ramp    `yaml:"crit_chance"`
	RoundsPerSecond float64 `yaml:"rounds_per_second"`
	NumPellets      int     `yaml:"num_pellets,omitempty"` // overrides the weapon's when set
}

// AttackType holds the firing-mode parameters; nil shot counts default to a single shot.
type AttackType struct {
	Name                    string   `yaml:"name"`
	AccuracyAdd             float64  `yaml:"accuracy_add,omitempty"`
	CritChanceAdd           float64  `yaml:"crit_chance_add,omitempty"`
	FollowupAccuracyAdd     float64  `yaml:"followup_accuracy_add,omitempty"`
	MinShots                *int     `yaml:"min_shots,omitempty"`
	MaxShots                *int     `yaml:"max_shots,omitempty"` // -1: until dead or empty
	MinAimTime              float64  `yaml:"min_aim_time"`
	MaxAimTime              float64  `yaml:"max_aim_time"`
	ResetTime               float64  `yaml:"reset_time,omitempty"`
	RoundsPerSecondOverride *float64 `yaml:"rounds_per_second_override,omitempty"`
}

type ScopeDef struct {
	Name            string          `yaml:"name"`
	Modifiers       []ScopeModifier `yaml:"modifiers,omitempty"`
	// added to the weapon's
	ReloadEmptyTime float64 `yaml:"reload_empty_time,omitempty"`
	ReloadTime      float64 `yaml:"reload_time,omitempty"`
	GuardTime       float64 `yaml:"guard_time,omitempty"`
	ReadyTime       float64 `yaml:"ready_time,omitempty"`
}

// ScopeModifier applies within [MinRange, MaxRange].
type ScopeModifier struct {
	MinRange      float64 `yaml:"min_range"`
	MaxRange      float64 `yaml:"max_range"`
	AccuracyAdd   float64 `yaml:"accuracy_add,omitempty"`
	CritChanceAdd float64 `yaml:"crit_chance_add,omitempty"`
	MinAimTime    float64 `yaml:"min_aim_time,omitempty"`
	MaxAimTime    float64 `yaml:"max_aim_time,omitempty"`
	ResetTime     float64 `yaml:"reset_time,omitempty"`
}

func (c *Catalog) weapon(name string) (*WeaponDef, bool) {
	for i := range c.Weapons {
		if c.Weapons[i].Name == name {
			return &c.Weapons[i], true
		}
	}
	return nil, false
}

func (c *Catalog) ammo(name string) (*AmmoDef, bool) {
	for i := range c.Ammo {
		if c.Ammo[i].Name == name {
			return &c.Ammo[i], true
		}
	}
	return nil, false
}

func (c *Catalog) attackType(name string) (*AttackType, bool) {
	for i := range c.AttackTypes {
		if c.AttackTypes[i].Name == name {
			return &c.AttackTypes[i], true
		}
	}
	return nil, false
}

func (c *Catalog) scope(name string) (*ScopeDef, bool) {
	for i := range c.Scopes {
		if c.Scopes[i].Name == name {
			return &c.Scopes[i], true
		}
	}
	return nil, false
}

// UsesCover reports whether the weapon switches attack types when fired from cover.
func (w *WeaponDef) UsesCover() bool {
	for _, a := range w.Attacks {
		if a.InCoverOverride != "" {
			return true
		}
	}
	return false
}
