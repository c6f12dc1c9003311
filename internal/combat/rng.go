package combat

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// RandomSource yields uniform values in [0, 1).
type RandomSource interface {
	Float64() float64
}

// entropySource reads the operating system generator. It backs unseeded sampling runs.
type entropySource struct{}

func (entropySource) Float64() float64 {
	var buf [8]byte
	if _, err := cryptoRand.Read(buf[:]); err != nil {
		return rand.Float64()
	}
	return float64(binary.LittleEndian.Uint64(buf[:])>>11) * 0x1p-53
}

func DefaultRNG() RandomSource { return entropySource{} }

// NewSeededRNG returns a PCG source: the same seed replays the same engagements.
func NewSeededRNG(seed uint64) RandomSource {
	return rand.New(rand.NewPCG(seed, 0))
}

// dice draws the discrete events of an engagement.
type dice struct{ src RandomSource }

func newDice(src RandomSource) dice {
	if src == nil {
		src = DefaultRNG()
	}
	return dice{src: src}
}

// chance reports whether an event of probability p happened.
// Certain and impossible events do not consume a draw.
func (g dice) chance(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return g.src.Float64() < p
}

// percent is chance for a value given in percent.
func (g dice) percent(pct float64) bool { return g.chance(pct * 0.01) }

// between draws uniformly from [lo, hi].
func (g dice) between(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return min(lo+int(g.src.Float64()*float64(hi-lo+1)), hi)
}
