package determinism

import (
	"encoding/hex"
	"math/rand"
)

// RNG is a per-chunk seeded random source. The planner never reads from a
// global stream: it derives a fresh RNG from a digest for every chunk it
// generates, so chunk generation is order-independent and reproducible
// across hosts and runs (spec.md §4.1).
type RNG struct {
	src *rand.Rand
}

// NewRNGFromSeed builds an RNG directly from an int64 seed.
func NewRNGFromSeed(seed int64) *RNG {
	return &RNG{src: rand.New(rand.NewSource(seed))}
}

// NewRNGFromDigest derives a seed from the leading 32 bits of a hex digest
// (the first 8 hex characters), mirroring the original implementation's
// `int(chunk_seed[:8], 16)` numpy seeding.
func NewRNGFromDigest(digestHex string) (*RNG, error) {
	if len(digestHex) < 8 {
		return nil, ErrNonCanonicalizable
	}
	raw, err := hex.DecodeString(digestHex[:8])
	if err != nil {
		return nil, err
	}
	seed := int64(raw[0])<<24 | int64(raw[1])<<16 | int64(raw[2])<<8 | int64(raw[3])
	return NewRNGFromSeed(seed), nil
}

// Float64s returns n deterministic draws in [0, 1).
func (r *RNG) Float64s(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = r.src.Float64()
	}
	return out
}
