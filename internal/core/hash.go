package core

import "math"

// Hash32 applies the 32-bit avalanche mix used for every deterministic draw
// in the engine: initial seeding and homeostasis reseeding both go through
// it. The constants are load-bearing; the output stream must stay
// bit-identical across runs and platforms, so this never delegates to
// math/rand.
func Hash32(state uint32) uint32 {
	state ^= 2747636419
	state *= 2654435769
	state ^= state >> 16
	state *= 2654435769
	state ^= state >> 16
	state *= 2654435769
	return state
}

// CoordSeed packs grid coordinates into the canonical per-cell hash seed.
// Each axis gets 16 bits, which caps grid dimensions at 65536.
func CoordSeed(x, y int) uint32 {
	return uint32(y)<<16 | uint32(x)
}

// Float01 normalizes a hashed value onto the unit interval by dividing by
// 2^32 - 1.
func Float01(h uint32) float64 {
	return float64(h) / float64(math.MaxUint32)
}
