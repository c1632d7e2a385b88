// Package seeded provides a reproducible pseudo-random sequence derived from a
// string key. It exists only for stable, repeatable shuffling: the same key and
// input order always produce the same output, and no state is shared between
// calls.
package seeded

import "unicode/utf16"

// Hash returns the rolling polynomial hash of key (h = h*31 + c over UTF-16
// code units, wrapped to 32 bits) as an absolute value.
func Hash(key string) uint32 {
	var h int32
	for _, c := range utf16.Encode([]rune(key)) {
		h = h*31 + int32(c)
	}
	if h < 0 {
		return uint32(-int64(h))
	}
	return uint32(h)
}

// Random maps seed to a float in [0, 1) using the Mulberry32 mixing function.
func Random(seed uint32) float64 {
	t := seed + 0x6D2B79F5
	t = (t ^ t>>15) * (t | 1)
	t ^= t + (t^t>>7)*(t|61)
	return float64(t^t>>14) / 4294967296
}

// Shuffle returns a Fisher-Yates permutation of items driven by key.
// The seed starts at Hash(key) and is incremented once per swap step.
// items itself is left untouched.
func Shuffle[T any](items []T, key string) []T {
	out := make([]T, len(items))
	copy(out, items)

	seed := Hash(key)
	for i := len(out) - 1; i > 0; i-- {
		seed++
		j := int(Random(seed) * float64(i+1))
		out[i], out[j] = out[j], out[i]
	}
	return out
}
