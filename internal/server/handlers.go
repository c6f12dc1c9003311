package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/hlog"

	"github.com/xtding233/ttk-backend/internal/combat"
	"github.com/xtding233/ttk-backend/internal/game"
	"github.com/xtding233/ttk-backend/internal/outcome"
	"github.com/xtding233/ttk-backend/internal/report"
)

const maxTrials = 200000

type errResp struct {
	Err string `json:"err"`
}

type outcomeJSON struct {
	Time   int     `json:"time"`
	Damage int     `json:"damage"`
	P      float64 `json:"p"`
}

type distResp struct {
	Loadout        game.LoadoutInfo `json:"loadout"`
	Params         combat.Params    `json:"params"`
	Total          report.Number    `json:"total"`
	ExpectedTime   report.Number    `json:"expected_time"`
	ExpectedDamage report.Number    `json:"expected_damage"`
	DPS            report.Number    `json:"dps"`
	KillChance     report.Number    `json:"kill_chance"`
	KillTime50     report.Number    `json:"kill_time_50"`
	KillTime95     report.Number    `json:"kill_time_95"`
	Outcomes       []outcomeJSON    `json:"outcomes,omitempty"`
}

type summaryResp struct {
	Loadout   game.LoadoutInfo `json:"loadout"`
	Params    combat.Params    `json:"params"`
	CanAttack bool             `json:"can_attack"`
	report.Summary
}

type curveResp struct {
	Loadout game.LoadoutInfo `json:"loadout"`
	Params  combat.Params    `json:"params"`
	Cutoffs []float64        `json:"cutoffs"`
	Points  []report.Summary `json:"points"`
}

type sampleStats struct {
	Trials      int           `json:"trials"`
	MeanTime    report.Number `json:"mean_time"`
	MeanDamage  report.Number `json:"mean_damage"`
	KillRate    report.Number `json:"kill_rate"`
	KillTimeP50 report.Number `json:"kill_time_p50"`
	KillTimeP90 report.Number `json:"kill_time_p90"`
	KillTimeP99 report.Number `json:"kill_time_p99"`
}

type sampleResp struct {
	Loadout game.LoadoutInfo `json:"loadout"`
	Params  combat.Params    `json:"params"`
	Seed    *uint64          `json:"seed,omitempty"`
	Stats   sampleStats      `json:"stats"`
	Exact   distResp         `json:"exact"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, game.ErrUnknownWeapon), errors.Is(err, game.ErrUnknownAmmo), errors.Is(err, game.ErrUnknownScope):
		return http.StatusNotFound
	case errors.Is(err, game.ErrIncompatible), errors.Is(err, combat.ErrInvalidParams):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// request resolves the loadout and target params shared by the simulation endpoints.
// It writes the error response itself and returns ok=false on failure.
func (s *Server) request(w http.ResponseWriter, r *http.Request, distOptional bool) (*game.Loadout, combat.Params, bool) {
	cat := s.Catalog()
	if cat == nil {
		writeJSON(w, http.StatusServiceUnavailable, errResp{Err: "catalog not loaded"})
		return nil, combat.Params{}, false
	}
	weapon := r.URL.Query().Get("weapon")
	if weapon == "" {
		http.Error(w, "missing param weapon", http.StatusBadRequest)
		return nil, combat.Params{}, false
	}
	inCover, _, msg := parseBool(r, "in_cover")
	if msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return nil, combat.Params{}, false
	}
	p, msg := s.parseParams(r, distOptional)
	if msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return nil, combat.Params{}, false
	}
	if err := p.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errResp{Err: err.Error()})
		return nil, combat.Params{}, false
	}

	l, err := cat.Resolve(weapon, r.URL.Query().Get("ammo"), r.URL.Query().Get("scope"), inCover)
	if err != nil {
		writeJSON(w, errorStatus(err), errResp{Err: err.Error()})
		return nil, combat.Params{}, false
	}
	return l, p, true
}

// shotState reads followup and ammo_used, which place the query mid-magazine.
func shotState(w http.ResponseWriter, r *http.Request) (followup, ammoUsed int, ok bool) {
	followup, _, msg := parseInt(r, "followup")
	if msg == "" {
		ammoUsed, _, msg = parseInt(r, "ammo_used")
	}
	if msg == "" && (followup < 0 || ammoUsed < 0) {
		msg = "followup and ammo_used must be >= 0"
	}
	if msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return 0, 0, false
	}
	return followup, ammoUsed, true
}

func describe(l *game.Loadout, p combat.Params, d outcome.Dist, withOutcomes bool) distResp {
	t, dmg := d.Expected()
	hp := p.HP()
	resp := distResp{
		Loadout:        l.Info(),
		Params:         p,
		Total:          report.Number(d.Total()),
		ExpectedTime:   report.Number(t),
		ExpectedDamage: report.Number(dmg),
		DPS:            report.Number(d.DPS()),
		KillChance:     report.Number(d.KillChance(hp)),
		KillTime50:     report.Number(d.KillTime(0.5, hp)),
		KillTime95:     report.Number(d.KillTime(0.95, hp)),
	}
	if withOutcomes {
		for _, k := range d.Keys() {
			resp.Outcomes = append(resp.Outcomes, outcomeJSON{Time: k.Time, Damage: k.Damage, P: d[k]})
		}
	}
	return resp
}

func (s *Server) observe(r *http.Request, op string, l *game.Loadout, start time.Time) {
	elapsed := time.Since(start)
	s.metrics.Simulation(r.Context(), op, elapsed)
	hlog.FromRequest(r).Debug().
		Str("op", op).
		Stringer("loadout", l).
		Dur("elapsed", elapsed).
		Msg("simulation resolved")
}

func (s *Server) handleLoadouts(w http.ResponseWriter, r *http.Request) {
	cat := s.Catalog()
	if cat == nil {
		writeJSON(w, http.StatusServiceUnavailable, errResp{Err: "catalog not loaded"})
		return
	}
	f := game.Filter{
		Classes: parseList(r, "class"),
		Weapons: parseList(r, "weapon"),
		Ammo:    parseList(r, "ammo"),
		Scopes:  parseList(r, "scope"),
	}
	for _, v := range parseList(r, "side") {
		f.Sides = append(f.Sides, game.Side(v))
	}
	for _, v := range parseList(r, "slot") {
		f.Slots = append(f.Slots, game.Slot(v))
	}
	if v, ok, msg := parseBool(r, "in_cover"); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	} else if ok {
		f.InCover = &v
	}

	loadouts := cat.Match(f)
	infos := make([]game.LoadoutInfo, 0, len(loadouts))
	for _, l := range loadouts {
		infos = append(infos, l.Info())
	}
	writeJSON(w, http.StatusOK, infos)
}

func (s *Server) handleShot(w http.ResponseWriter, r *http.Request) {
	l, p, ok := s.request(w, r, false)
	if !ok {
		return
	}
	followup, _, ok := shotState(w, r)
	if !ok {
		return
	}
	start := time.Now()
	d := combat.Shot(l, p, followup)
	s.observe(r, "shot", l, start)
	writeJSON(w, http.StatusOK, describe(l, p, d, r.URL.Query().Get("outcomes") == "1"))
}

func (s *Server) handleBurst(w http.ResponseWriter, r *http.Request) {
	l, p, ok := s.request(w, r, false)
	if !ok {
		return
	}
	followup, ammoUsed, ok := shotState(w, r)
	if !ok {
		return
	}
	start := time.Now()
	d := combat.Collapse(combat.Burst(combat.Memo(l), p, followup, ammoUsed))
	s.observe(r, "burst", l, start)
	writeJSON(w, http.StatusOK, describe(l, p, d, r.URL.Query().Get("outcomes") == "1"))
}

func (s *Server) handleMag(w http.ResponseWriter, r *http.Request) {
	l, p, ok := s.request(w, r, false)
	if !ok {
		return
	}
	_, ammoUsed, ok := shotState(w, r)
	if !ok {
		return
	}
	start := time.Now()
	d := combat.Collapse(combat.Magazine(combat.Memo(l), p, ammoUsed))
	s.observe(r, "mag", l, start)
	writeJSON(w, http.StatusOK, describe(l, p, d, r.URL.Query().Get("outcomes") == "1"))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	l, p, ok := s.request(w, r, false)
	if !ok {
		return
	}
	start := time.Now()
	sum := report.Summarize(combat.Memo(l), p)
	s.observe(r, "summary", l, start)
	writeJSON(w, http.StatusOK, summaryResp{
		Loadout:   l.Info(),
		Params:    p,
		CanAttack: l.CanAttack(p.Distance),
		Summary:   sum,
	})
}

func (s *Server) handleCurve(w http.ResponseWriter, r *http.Request) {
	l, p, ok := s.request(w, r, true)
	if !ok {
		return
	}
	from, _, msg := parseFloat(r, "from")
	if msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}
	to, hasTo, msg := parseFloat(r, "to")
	if msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}
	if !hasTo {
		cuts := l.Cutoffs()
		to = cuts[len(cuts)-1]
	}
	step, hasStep, msg := parseFloat(r, "step")
	if msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}
	if !hasStep {
		step = 5
	}
	if step <= 0 || from < 0 || to < from {
		http.Error(w, "need 0 <= from <= to and step > 0", http.StatusBadRequest)
		return
	}
	if (to-from)/step+1 > float64(s.sim.MaxPoints) {
		http.Error(w, "too many points", http.StatusBadRequest)
		return
	}

	var points []float64
	for i := 0; ; i++ {
		d := from + float64(i)*step
		if d > to {
			break
		}
		points = append(points, d)
	}
	cutoffs := l.Cutoffs()
	axis := report.Axis(points, cutoffs, 0, 10)

	start := time.Now()
	out, err := report.Curve(r.Context(), l, axis, p, s.sim.Workers)
	if err != nil {
		writeJSON(w, errorStatus(err), errResp{Err: err.Error()})
		return
	}
	s.observe(r, "curve", l, start)
	writeJSON(w, http.StatusOK, curveResp{Loadout: l.Info(), Params: p, Cutoffs: cutoffs, Points: out})
}

// handleSample cross-checks the exact magazine distribution with a Monte-Carlo run.
func (s *Server) handleSample(w http.ResponseWriter, r *http.Request) {
	l, p, ok := s.request(w, r, false)
	if !ok {
		return
	}
	trials, hasTrials, msg := parseInt(r, "trials")
	if msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}
	if !hasTrials {
		trials = 10000
	}
	if trials < 1 || trials > maxTrials {
		http.Error(w, "invalid trials", http.StatusBadRequest)
		return
	}

	resp := sampleResp{Loadout: l.Info(), Params: p}
	rng := combat.DefaultRNG()
	seed, hasSeed, msg := parseInt(r, "seed")
	if msg != "" || seed < 0 {
		http.Error(w, "invalid seed", http.StatusBadRequest)
		return
	}
	if hasSeed {
		u := uint64(seed)
		resp.Seed = &u
		rng = combat.NewSeededRNG(u)
	}

	memo := combat.Memo(l)
	start := time.Now()
	st := combat.RunMonteCarlo(memo, p, trials, rng)
	resp.Stats = sampleStats{
		Trials:      st.Trials,
		MeanTime:    report.Number(st.MeanTime),
		MeanDamage:  report.Number(st.MeanDamage),
		KillRate:    report.Number(st.KillRate),
		KillTimeP50: report.Number(st.KillTimeP50),
		KillTimeP90: report.Number(st.KillTimeP90),
		KillTimeP99: report.Number(st.KillTimeP99),
	}
	resp.Exact = describe(l, p, combat.MagazineDist(memo, p), false)
	s.observe(r, "sample", l, start)
	writeJSON(w, http.StatusOK, resp)
}
