package report

import (
	"context"
	"slices"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/xtding233/ttk-backend/internal/combat"
)

// Summary is every per-distance statistic of one configuration.
type Summary struct {
	Distance        float64 `json:"distance"`
	BaseDamage      Number  `json:"base_damage"`
	Accuracy        Number  `json:"accuracy"`
	CritChance      Number  `json:"crit_chance"`
	AimTime         Number  `json:"aim_time"`
	RateOfFire      Number  `json:"rate_of_fire"` // rounds per second
	EffectiveDamage Number  `json:"effective_damage"`

	BurstKillChance Number `json:"burst_kill_chance"`
	BurstTime       Number `json:"burst_time"`
	BurstDamage     Number `json:"burst_damage"`
	DPS             Number `json:"dps"`
	KillTime50      Number `json:"kill_time_50"`
	KillTime95      Number `json:"kill_time_95"`

	DPSWithReload        Number `json:"dps_with_reload"`
	KillTime50WithReload Number `json:"kill_time_50_with_reload"`
	KillTime95WithReload Number `json:"kill_time_95_with_reload"`
}

// Summarize evaluates s against p: one shot, one burst and one magazine.
func Summarize(s combat.Stats, p combat.Params) Summary {
	d, hp := p.Distance, p.HP()

	sum := Summary{
		Distance:   d,
		BaseDamage: Number(s.Damage(d)),
		Accuracy:   Number(s.Accuracy(d)),
		CritChance: Number(s.CritChance(d)),
		AimTime:    Number(s.AimTime(d)),
		RateOfFire: Number(1000 / s.CycleTime(d)),
	}
	_, dmg := combat.Shot(s, p, 0).Expected()
	sum.EffectiveDamage = Number(dmg)

	burst := combat.BurstDist(s, p)
	bt, bd := burst.Expected()
	sum.BurstKillChance = Number(burst.KillChance(hp))
	sum.BurstTime = Number(bt)
	sum.BurstDamage = Number(bd)
	sum.DPS = Number(burst.DPS())
	sum.KillTime50 = Number(burst.KillTime(0.5, hp))
	sum.KillTime95 = Number(burst.KillTime(0.95, hp))

	mag := combat.MagazineDist(s, p)
	sum.DPSWithReload = Number(mag.DPS())
	sum.KillTime50WithReload = Number(mag.KillTime(0.5, hp))
	sum.KillTime95WithReload = Number(mag.KillTime(0.95, hp))
	return sum
}

// Axis builds a distance axis from points quantized to stepsPerMeter. A cutoff is replaced
// by two points split meters to either side so a curve shows the jump instead of a ramp.
// Points outside [min(points), max(points)] are dropped.
func Axis(points, cutoffs []float64, split float64, stepsPerMeter int) []float64 {
	if len(points) == 0 {
		return nil
	}
	if stepsPerMeter <= 0 {
		stepsPerMeter = 10
	}
	if split <= 0 {
		split = 1e-3
	}
	scale := float64(stepsPerMeter)
	lo, hi := slices.Min(points), slices.Max(points)

	steps := make(map[int]struct{}, len(points)+len(cutoffs))
	for _, p := range points {
		steps[int(p*scale)] = struct{}{}
	}
	splits := make(map[int]struct{}, len(cutoffs))
	for _, c := range cutoffs {
		splits[int(c*scale)] = struct{}{}
		steps[int(c*scale)] = struct{}{}
	}

	set := make(map[float64]struct{}, len(steps)+len(splits))
	for st := range steps {
		x := float64(st) / scale
		if _, ok := splits[st]; !ok {
			set[x] = struct{}{}
			continue
		}
		for _, v := range []float64{x - split, x + split} {
			if v >= lo && v <= hi {
				set[v] = struct{}{}
			}
		}
	}
	axis := make([]float64, 0, len(set))
	for x := range set {
		axis = append(axis, x)
	}
	sort.Float64s(axis)
	return axis
}

// Curve summarizes s at every distance, in parallel, through one shared memo.
// The result is ordered like distances.
func Curve(ctx context.Context, s combat.Stats, distances []float64, base combat.Params, workers int) ([]Summary, error) {
	if workers <= 0 {
		workers = 1
	}
	memo, ok := s.(*combat.Cached)
	if !ok {
		memo = combat.Memo(s)
	}

	out := make([]Summary, len(distances))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, d := range distances {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p := base
			p.Distance = d
			if err := p.Validate(); err != nil {
				return err
			}
			out[i] = Summarize(memo, p)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
