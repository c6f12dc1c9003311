package combat

import "github.com/xtding233/ttk-backend/internal/outcome"

// Shot resolves one discharge. A single projectile keeps its raw damage. With several
// pellets each one is an independent projectile and the summed damage is capped to the hp
// pool before the cycle time is attached, so dead outcomes are not told apart by overkill.
func Shot(s Stats, p Params, followup int) outcome.Dist {
	cycle := outcome.Certain(ms(s.CycleTime(p.Distance)), 0)
	pellet := Projectile(s, p, followup)
	if s.Pellets() <= 1 {
		return pellet.Combine(cycle)
	}
	shot := pellet
	for i := 1; i < s.Pellets(); i++ {
		shot = shot.Combine(pellet)
	}
	return shot.Capped(p.HP()).Combine(cycle)
}
