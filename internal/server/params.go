package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/xtding233/ttk-backend/internal/combat"
)

func parseFloat(r *http.Request, key string) (float64, bool, string) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return 0, false, ""
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, "invalid " + key
	}
	return v, true, ""
}

func parseInt(r *http.Request, key string) (int, bool, string) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return 0, false, ""
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false, "invalid " + key
	}
	return v, true, ""
}

func parseBool(r *http.Request, key string) (bool, bool, string) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return false, false, ""
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, false, "invalid " + key
	}
	return v, true, ""
}

// parseList accepts repeated keys and comma separated values.
func parseList(r *http.Request, key string) []string {
	var out []string
	for _, v := range r.URL.Query()[key] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// parseParams reads the target description. d is required unless distOptional is set.
func (s *Server) parseParams(r *http.Request, distOptional bool) (combat.Params, string) {
	p := combat.Params{MaxHP: s.sim.MaxHP, Timeout: s.sim.TimeoutMs}

	d, ok, msg := parseFloat(r, "d")
	if msg != "" {
		return p, msg
	}
	if !ok && !distOptional {
		return p, "missing param d"
	}
	p.Distance = d

	if v, ok, msg := parseInt(r, "hp"); msg != "" {
		return p, msg
	} else if ok {
		p.MaxHP = v
	}
	if v, ok, msg := parseFloat(r, "pierce"); msg != "" {
		return p, msg
	} else if ok {
		p.Armor.Piercing = v
	}
	if v, ok, msg := parseFloat(r, "coverage"); msg != "" {
		return p, msg
	} else if ok {
		p.Armor.Coverage = v
	}
	if v, ok, msg := parseBool(r, "target_cover"); msg != "" {
		return p, msg
	} else if ok {
		p.Cover = v
	}
	if v, ok, msg := parseInt(r, "timeout"); msg != "" {
		return p, msg
	} else if ok {
		p.Timeout = v
	}
	return p, ""
}
