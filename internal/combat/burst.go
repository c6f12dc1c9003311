package combat

import "github.com/xtding233/ttk-backend/internal/outcome"

// Branch is a partial engagement tagged with the number of rounds it fired.
type Branch struct {
	Shots int
	Dist  outcome.Dist
}

// Collapse merges tagged branches into one distribution.
func Collapse(branches []Branch) outcome.Dist {
	out := outcome.New()
	for _, b := range branches {
		for k, p := range b.Dist {
			out[k] += p
		}
	}
	return out
}

// Burst resolves one burst fired after followup shots of this magazine and ammoUsed rounds
// spent before it. Each returned branch holds the mass of bursts of that length.
//
// Timing: aim and reset time once, then one cycle time per shot. Follow-up accuracy keeps
// counting across bursts of the same magazine.
//
//   - no rounds left, or max == 0 (target out of range): nil
//   - max == Unbounded: fire one shot at a time; from the min-th shot on, kills split off
//     into their own branch and firing stops once the survivors carry less than Eps
//   - otherwise: the length is uniform over [min,max]
func Burst(s Stats, p Params, followup, ammoUsed int) []Branch {
	d := p.Distance
	hp := p.HP()
	left := s.AmmoCapacity() - followup - ammoUsed
	bmin, bmax := s.Burst(d)
	bmin = min(bmin, left)
	bmax = min(bmax, left)

	if left < 1 || bmax == 0 {
		return nil
	}

	// damage is capped after every shot
	seq := outcome.Certain(ms(s.AimTime(d)+s.ResetTime(d)), 0)
	var out []Branch

	if bmax < 0 {
		fired := 0
		for fired < left {
			seq = seq.Combine(Shot(s, p, followup+fired)).Capped(hp)
			fired++
			if fired < bmin {
				continue
			}
			alive, dead := seq.SplitByDamage(hp)
			if alive.Total() < outcome.Eps {
				break
			}
			if dead.Total() > outcome.Eps {
				out = append(out, Branch{Shots: fired, Dist: dead})
			}
			seq = alive
		}
		return append(out, Branch{Shots: fired, Dist: seq})
	}

	// a burst always fires at least once
	bmin = max(min(bmin, bmax), 1)
	w := 1 / float64(1+bmax-bmin)
	for n := 1; n <= bmax; n++ {
		seq = seq.Combine(Shot(s, p, followup+n-1)).Capped(hp)
		if n >= bmin {
			out = append(out, Branch{Shots: n, Dist: seq.Scale(w)})
		}
	}
	return out
}

// BurstDist is the collapsed distribution of a first burst with a full magazine.
func BurstDist(s Stats, p Params) outcome.Dist {
	return Collapse(Burst(s, p, 0, 0))
}
