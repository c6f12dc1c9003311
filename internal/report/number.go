package report

import (
	"math"
	"strconv"
)

// Number is a float64 that encodes NaN and infinities as JSON null,
// e.g. the kill time of a configuration that cannot kill.
type Number float64

func (n Number) MarshalJSON() ([]byte, error) {
	v := float64(n)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, v, 'f', -1, 64), nil
}

func (n *Number) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*n = Number(math.Inf(1))
		return nil
	}
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	*n = Number(v)
	return nil
}

// Finite reports whether n is neither NaN nor infinite.
func (n Number) Finite() bool {
	v := float64(n)
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
