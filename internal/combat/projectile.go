package combat

import "github.com/xtding233/ttk-backend/internal/outcome"

// hitChance is the probability one projectile hits at the given follow-up index.
func hitChance(s Stats, p Params, followup int) float64 {
	d := p.Distance
	ca := clip((s.Accuracy(d) + float64(followup)*s.FollowupAccuracy(d)) * 0.01)
	if p.Cover {
		ca *= 0.5
	}
	return ca
}

// Projectile resolves one projectile: miss, armor-absorbed hit, full hit, or critical.
// Criticals deal the full hp pool and ignore armor. All outcomes take no time.
func Projectile(s Stats, p Params, followup int) outcome.Dist {
	d := p.Distance
	hp := p.HP()
	ca := hitChance(s, p, followup)
	cc := clip(s.CritChance(d) * 0.01)

	ev := outcome.New()
	if ca > 0 {
		if cc > 0 {
			ev.Add(0, hp, ca*cc)
		}
		if cc < 1 {
			dmg := int(s.Damage(d))
			if s.Penetration(d) < p.Armor.Piercing {
				// armor stops the round where it covers the target
				cov := p.Armor.Coverage * 0.01
				if cov > 0 {
					ev.Add(0, 1, ca*(1-cc)*cov)
				}
				if cov < 1 {
					ev.Add(0, dmg, ca*(1-cc)*(1-cov))
				}
			} else {
				ev.Add(0, dmg, ca*(1-cc))
			}
		}
	}
	if ca < 1 {
		ev.Add(0, 0, 1-ca)
	}
	return ev
}
