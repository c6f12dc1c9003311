package game

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidCatalog = errors.New("catalog validation failed")

// ValidateCatalog checks semantic constraints and cross references of a merged Catalog.
func ValidateCatalog(cat Catalog) error {
	var errs []string

	for i, a := range cat.Ammo {
		if a.Name == "" {
			errs = append(errs, fmt.Sprintf("ammo[%d].name is required", i))
		}
		if a.RoundsPerSecond <= 0 {
			errs = append(errs, fmt.Sprintf("ammo %q: rounds_per_second must be > 0", a.Name))
		}
		if a.NumPellets < 0 {
			errs = append(errs, fmt.Sprintf("ammo %q: num_pellets must be >= 0 (0 means use the weapon's)", a.Name))
		}
	}

	for i, at := range cat.AttackTypes {
		if at.Name == "" {
			errs = append(errs, fmt.Sprintf("attack_types[%d].name is required", i))
		}
		if (at.MinShots == nil) != (at.MaxShots == nil) {
			errs = append(errs, fmt.Sprintf("attack type %q: min_shots and max_shots must be set together", at.Name))
		}
		if at.MinShots != nil && *at.MinShots < 0 {
			errs = append(errs, fmt.Sprintf("attack type %q: min_shots must be >= 0", at.Name))
		}
		if at.MaxShots != nil && *at.MaxShots < -1 {
			errs = append(errs, fmt.Sprintf("attack type %q: max_shots must be >= -1 (-1 means until dead or empty)", at.Name))
		}
		if at.MinAimTime < 0 || at.MaxAimTime < 0 || at.ResetTime < 0 {
			errs = append(errs, fmt.Sprintf("attack type %q: aim and reset times must be >= 0", at.Name))
		}
		if at.RoundsPerSecondOverride != nil && *at.RoundsPerSecondOverride <= 0 {
			errs = append(errs, fmt.Sprintf("attack type %q: rounds_per_second_override must be > 0", at.Name))
		}
	}

	for i, s := range cat.Scopes {
		if s.Name == "" {
			errs = append(errs, fmt.Sprintf("scopes[%d].name is required", i))
		}
		if s.ReloadEmptyTime < 0 || s.ReloadTime < 0 || s.GuardTime < 0 || s.ReadyTime < 0 {
			errs = append(errs, fmt.Sprintf("scope %q: reload, guard and ready times must be >= 0", s.Name))
		}
		for j, m := range s.Modifiers {
			if m.MinRange > m.MaxRange {
				errs = append(errs, fmt.Sprintf("scope %q: modifiers[%d] min_range must be <= max_range", s.Name, j))
			}
		}
	}

	for i, w := range cat.Weapons {
		if w.Name == "" {
			errs = append(errs, fmt.Sprintf("weapons[%d].name is required", i))
		}
		switch w.Side {
		case SidePlayer, SideEnemy:
		default:
			errs = append(errs, fmt.Sprintf("weapon %q: side must be one of: player, enemy", w.Name))
		}
		switch w.Slot {
		case SlotPrimary, SlotSecondary:
		default:
			errs = append(errs, fmt.Sprintf("weapon %q: slot must be one of: primary, secondary", w.Name))
		}
		if w.RoundsPerMagazine < 1 {
			errs = append(errs, fmt.Sprintf("weapon %q: rounds_per_magazine must be >= 1", w.Name))
		}
		if w.NumPellets < 0 {
			errs = append(errs, fmt.Sprintf("weapon %q: num_pellets must be >= 0 (0 means 1)", w.Name))
		}
		if w.ReloadEmptyTime < 0 || w.ReloadTime < 0 || w.GuardTime < 0 || w.ReadyTime < 0 {
			errs = append(errs, fmt.Sprintf("weapon %q: reload, guard and ready times must be >= 0", w.Name))
		}

		if len(w.Ammo) == 0 {
			errs = append(errs, fmt.Sprintf("weapon %q: at least one ammo is required", w.Name))
		}
		for _, a := range w.Ammo {
			if _, ok := cat.ammo(a); !ok {
				errs = append(errs, fmt.Sprintf("weapon %q: unknown ammo %q", w.Name, a))
			}
		}
		if w.Side == SideEnemy && len(w.Scopes) > 0 {
			errs = append(errs, fmt.Sprintf("weapon %q: enemy weapons take no scopes", w.Name))
		}
		for _, s := range w.Scopes {
			if _, ok := cat.scope(s); !ok {
				errs = append(errs, fmt.Sprintf("weapon %q: unknown scope %q", w.Name, s))
			}
		}

		if len(w.Attacks) == 0 {
			errs = append(errs, fmt.Sprintf("weapon %q: at least one attack is required", w.Name))
		}
		for _, ref := range w.Attacks {
			if ref.Range < 0 {
				errs = append(errs, fmt.Sprintf("weapon %q: attack %q range must be >= 0", w.Name, ref.Name))
			}
			if _, ok := cat.attackType(ref.Name); !ok {
				errs = append(errs, fmt.Sprintf("weapon %q: unknown attack type %q", w.Name, ref.Name))
			}
			if ref.InCoverOverride != "" {
				if _, ok := cat.attackType(ref.InCoverOverride); !ok {
					errs = append(errs, fmt.Sprintf("weapon %q: unknown in_cover_override %q", w.Name, ref.InCoverOverride))
				}
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidCatalog, strings.Join(errs, "; "))
	}
	return nil
}
