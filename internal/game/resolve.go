// resolve.go
package game

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
)

var (
	ErrUnknownWeapon = errors.New("unknown weapon")
	ErrUnknownAmmo   = errors.New("unknown ammo")
	ErrUnknownScope  = errors.New("unknown scope")
	ErrIncompatible  = errors.New("incompatible equipment")
)

// Resolve builds the loadout for a weapon. Empty ammo picks the weapon's first ammo; a
// name that is not a full ammo name is matched as a prefix of the weapon's ammo list.
// Empty scope picks the weapon's first scope. inCover only takes effect for weapons
// whose attacks have a cover override.
func (c *Catalog) Resolve(weapon, ammo, scope string, inCover bool) (*Loadout, error) {
	w, ok := c.weapon(weapon)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWeapon, weapon)
	}
	a, err := c.resolveAmmo(w, ammo)
	if err != nil {
		return nil, err
	}
	s, err := c.resolveScope(w, scope)
	if err != nil {
		return nil, err
	}

	l := &Loadout{Weapon: w, Ammo: a, Scope: s, InCover: inCover && w.UsesCover()}
	for _, ref := range w.Attacks {
		name := ref.Name
		if l.InCover && ref.InCoverOverride != "" {
			name = ref.InCoverOverride
		}
		at, ok := c.attackType(name)
		if !ok {
			return nil, fmt.Errorf("weapon %q: unknown attack type %q", w.Name, name)
		}
		l.attacks = append(l.attacks, rangedAttack{Range: ref.Range, Type: at})
	}
	sort.SliceStable(l.attacks, func(i, j int) bool { return l.attacks[i].Range < l.attacks[j].Range })
	return l, nil
}

func (c *Catalog) resolveAmmo(w *WeaponDef, name string) (*AmmoDef, error) {
	if name == "" {
		if len(w.Ammo) == 0 {
			return nil, fmt.Errorf("%w: weapon %q lists no ammo", ErrUnknownAmmo, w.Name)
		}
		name = w.Ammo[0]
	} else if _, known := c.ammo(name); known {
		if !slices.Contains(w.Ammo, name) {
			return nil, fmt.Errorf("%w: weapon %q does not take ammo %q", ErrIncompatible, w.Name, name)
		}
	} else {
		full := ""
		for _, an := range w.Ammo {
			if strings.HasPrefix(an, name) {
				full = an
				break
			}
		}
		if full == "" {
			return nil, fmt.Errorf("%w: %q for weapon %q", ErrUnknownAmmo, name, w.Name)
		}
		name = full
	}
	a, ok := c.ammo(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAmmo, name)
	}
	return a, nil
}

func (c *Catalog) resolveScope(w *WeaponDef, name string) (*ScopeDef, error) {
	if name == "" {
		if len(w.Scopes) == 0 {
			return nil, nil
		}
		name = w.Scopes[0]
	} else if !slices.Contains(w.Scopes, name) {
		if _, known := c.scope(name); !known {
			return nil, fmt.Errorf("%w: %q", ErrUnknownScope, name)
		}
		return nil, fmt.Errorf("%w: weapon %q does not take scope %q", ErrIncompatible, w.Name, name)
	}
	s, ok := c.scope(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScope, name)
	}
	return s, nil
}

// Filter selects loadouts for Match. Empty fields match anything; Ammo entries are prefixes.
// A nil InCover yields both variants for weapons that use cover.
type Filter struct {
	Sides   []Side
	Slots   []Slot
	Classes []string
	Weapons []string
	Ammo    []string
	Scopes  []string
	InCover *bool
}

func (f Filter) weapon(w *WeaponDef) bool {
	if len(f.Sides) > 0 && !slices.Contains(f.Sides, w.Side) {
		return false
	}
	if len(f.Slots) > 0 && !slices.Contains(f.Slots, w.Slot) {
		return false
	}
	if len(f.Weapons) > 0 && !slices.Contains(f.Weapons, w.Name) {
		return false
	}
	if len(f.Classes) > 0 && !slices.ContainsFunc(w.Classes, func(c string) bool { return slices.Contains(f.Classes, c) }) {
		return false
	}
	return true
}

func (f Filter) ammo(name string) bool {
	if len(f.Ammo) == 0 {
		return true
	}
	return slices.ContainsFunc(f.Ammo, func(p string) bool { return strings.HasPrefix(name, p) })
}

// Match enumerates every loadout the filter admits, in catalog order.
func (c *Catalog) Match(f Filter) []*Loadout {
	var out []*Loadout
	for i := range c.Weapons {
		w := &c.Weapons[i]
		if !f.weapon(w) {
			continue
		}
		covers := []bool{false}
		switch {
		case f.InCover != nil:
			covers = []bool{*f.InCover}
		case w.UsesCover():
			covers = []bool{false, true}
		}

		scopes := make([]string, 0, len(w.Scopes))
		for _, s := range w.Scopes {
			if len(f.Scopes) == 0 || slices.Contains(f.Scopes, s) {
				scopes = append(scopes, s)
			}
		}
		if len(w.Scopes) == 0 && len(f.Scopes) == 0 {
			scopes = append(scopes, "")
		}

		for _, a := range w.Ammo {
			if !f.ammo(a) {
				continue
			}
			for _, s := range scopes {
				for _, cover := range covers {
					l, err := c.Resolve(w.Name, a, s, cover)
					if err != nil {
						continue
					}
					out = append(out, l)
				}
			}
		}
	}
	return out
}

// Cutoffs is the sorted union of the loadouts' cutoffs.
func Cutoffs(loadouts []*Loadout) []float64 {
	set := make(map[float64]struct{})
	for _, l := range loadouts {
		for _, d := range l.Cutoffs() {
			set[d] = struct{}{}
		}
	}
	out := make([]float64, 0, len(set))
	for d := range set {
		out = append(out, d)
	}
	sort.Float64s(out)
	return out
}
