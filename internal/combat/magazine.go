package combat

import (
	"sort"

	"github.com/xtding233/ttk-backend/internal/outcome"
)

// Magazine resolves a full engagement with one magazine after ammoUsed rounds were spent.
//
// Bursts are fired until each branch ends one of four ways:
//   - the magazine is empty: reload-empty time is appended
//   - the target is dead: no reload
//   - the weapon cannot fire any more (accuracy below zero, out of range): resolved as-is
//   - p.Timeout > 0 and the branch reached it: resolved at the time it crossed
//
// The returned branches are the resolved ones, tagged with the rounds they fired.
func Magazine(s Stats, p Params, ammoUsed int) []Branch {
	d := p.Distance
	hp := p.HP()
	capacity := s.AmmoCapacity() - ammoUsed
	reload := outcome.Certain(ms(s.ReloadEmptyTime()), 0)

	current := []Branch{{Shots: 0, Dist: outcome.Certain(0, 0)}}
	var resolved []Branch

	for len(current) > 0 {
		var next []Branch
		for _, b := range current {
			if b.Shots >= capacity {
				resolved = append(resolved, Branch{Shots: b.Shots, Dist: b.Dist.Combine(reload)})
				continue
			}

			alive, dead := b.Dist.SplitByDamage(hp)
			if dead.Total() > outcome.Eps {
				resolved = append(resolved, Branch{Shots: b.Shots, Dist: dead})
			}
			if alive.Total() <= outcome.Eps {
				continue
			}

			if s.Accuracy(d)+float64(b.Shots)*s.FollowupAccuracy(d) < 0 {
				// stalled: the weapon can no longer hit
				resolved = append(resolved, Branch{Shots: b.Shots, Dist: alive})
				continue
			}
			burst := Burst(s, p, b.Shots, ammoUsed)
			if len(burst) == 0 {
				resolved = append(resolved, Branch{Shots: b.Shots, Dist: alive})
				continue
			}
			for _, nb := range burst {
				next = append(next, Branch{Shots: b.Shots + nb.Shots, Dist: alive.Combine(nb.Dist).Capped(hp)})
			}
		}
		next = mergeByShots(next)

		if p.Timeout <= 0 {
			current = next
			continue
		}
		current = nil
		for _, b := range next {
			before, after := b.Dist.SplitByTime(p.Timeout)
			if before.Total() > outcome.Eps {
				current = append(current, Branch{Shots: b.Shots, Dist: before})
			}
			if after.Total() > outcome.Eps {
				resolved = append(resolved, Branch{Shots: b.Shots, Dist: after})
			}
		}
	}
	return resolved
}

// MagazineDist is the collapsed distribution of a full magazine.
func MagazineDist(s Stats, p Params) outcome.Dist {
	return Collapse(Magazine(s, p, 0))
}

// mergeByShots folds branches that fired the same number of rounds into one,
// ordered by rounds fired.
func mergeByShots(branches []Branch) []Branch {
	if len(branches) < 2 {
		return branches
	}
	idx := make(map[int]int, len(branches))
	var out []Branch
	for _, b := range branches {
		i, ok := idx[b.Shots]
		if !ok {
			idx[b.Shots] = len(out)
			out = append(out, Branch{Shots: b.Shots, Dist: b.Dist})
			continue
		}
		out[i].Dist = out[i].Dist.Merge(b.Dist)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Shots < out[j].Shots })
	return out
}
