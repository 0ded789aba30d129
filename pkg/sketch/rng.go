// Package sketch turns exact geometry into a hand-drawn look.
//
// Every generator here is a pure function of its inputs and a seed: the same
// primitive with the same seed always produces the same jittered paths, on
// both backends. That keeps golden-output tests and artifact caching valid.
package sketch

// RNG is a small linear congruential generator. It is deliberately not
// math/rand: the stream must stay stable across Go releases because rendered
// output is compared byte-for-byte.
type RNG struct {
	state uint64
}

// NewRNG creates a generator for the given seed. The seed is mixed so that
// small consecutive seeds do not produce correlated streams.
func NewRNG(seed uint64) *RNG {
	s := seed ^ 0x9E3779B97F4A7C15
	if s == 0 {
		s = 0xDEADBEEFCAFEBABE
	}
	return &RNG{state: s}
}

// Uint64 advances the generator.
func (r *RNG) Uint64() uint64 {
	// Numerical Recipes LCG parameters.
	r.state = r.state*6364136223846793005 + 1
	return r.state
}

// Float64 returns a value in [0,1) with 53 bits of precision.
func (r *RNG) Float64() float64 {
	return float64(r.Uint64()>>11) / (1 << 53)
}

// Range returns a value in [min,max).
func (r *RNG) Range(min, max float64) float64 {
	return min + (max-min)*r.Float64()
}
