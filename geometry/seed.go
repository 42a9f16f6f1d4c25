// Package geometry produces reproducible layout parameters from hash-derived
// seeds.
//
// Nothing in this package touches the platform random source, wall-clock
// time, or any shared state: every output is a pure function of the seed, so
// visually organic layouts stay byte-reproducible for a given logical input.
// The mixing constants and recurrences below are part of the artifact format;
// changing any of them changes every minted artifact's rendering.
package geometry

import "math/bits"

// seedMultiplier is the 32-bit golden-ratio constant used for diffusion.
const seedMultiplier = 0x9E3779B1

// seedRotation is the post-multiply left rotation applied after each XOR.
const seedRotation = 13

// SeedFromHex folds a hex digest string into a 32-bit seed.
//
// For each code point of the string: acc ^= cp, then acc *= 0x9E3779B1, then
// acc = rotl32(acc, 13). The multiply/rotate diffusion step after every XOR
// keeps nearby digests from producing nearby seeds. This exact sequence must
// be implemented identically by any renderer that wants to reproduce a
// container's geometry.
func SeedFromHex(hexDigest string) uint32 {
	var acc uint32
	for _, cp := range hexDigest {
		acc ^= uint32(cp)
		acc *= seedMultiplier
		acc = bits.RotateLeft32(acc, seedRotation)
	}
	return acc
}

// zeroSeedReplacement keeps the xorshift recurrence out of its all-zero fixed
// point. Any generator seeded with 0 behaves as if seeded with this constant.
const zeroSeedReplacement = 0x6C078965

// Generator is a seeded xorshift32 sequence. Same seed, same sequence,
// forever; the zero value is usable and equivalent to NewGenerator(0).
type Generator struct {
	state uint32
	init  bool
}

// NewGenerator returns a generator positioned at the start of the sequence
// for seed.
func NewGenerator(seed uint32) *Generator {
	g := &Generator{}
	g.Seed(seed)
	return g
}

// Seed resets the generator to the start of the sequence for seed.
func (g *Generator) Seed(seed uint32) {
	if seed == 0 {
		seed = zeroSeedReplacement
	}
	g.state = seed
	g.init = true
}

// Next advances the fixed recurrence x ^= x<<13; x ^= x>>17; x ^= x<<5 and
// returns the new state.
func (g *Generator) Next() uint32 {
	if !g.init {
		g.Seed(0)
	}
	x := g.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	g.state = x
	return x
}

// Float64 returns the next value normalized to [0, 1) by dividing by 2^32.
func (g *Generator) Float64() float64 {
	return float64(g.Next()) / (1 << 32)
}

// IntN returns a value in [0, n) derived from the next output. n must be
// positive.
func (g *Generator) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return int(g.Float64() * float64(n))
}
