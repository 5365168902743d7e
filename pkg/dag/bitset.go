package dag

import "math/bits"

// Bitset is a dense bitset over small non-negative integers (variable ids),
// used for each node's support set (§3: "a bitset over variable ids").
type Bitset struct {
	words []uint64
}

func NewBitset() *Bitset { return &Bitset{} }

func (b *Bitset) ensure(n int) {
	w := n/64 + 1
	for len(b.words) < w {
		b.words = append(b.words, 0)
	}
}

// Set marks bit i.
func (b *Bitset) Set(i int) {
	b.ensure(i)
	b.words[i/64] |= 1 << uint(i%64)
}

// Test reports whether bit i is set.
func (b *Bitset) Test(i int) bool {
	if i/64 >= len(b.words) {
		return false
	}
	return b.words[i/64]&(1<<uint(i%64)) != 0
}

// Union returns the bitwise union of b and o as a new Bitset.
func (b *Bitset) Union(o *Bitset) *Bitset {
	n := len(b.words)
	if len(o.words) > n {
		n = len(o.words)
	}
	out := &Bitset{words: make([]uint64, n)}
	for i := 0; i < n; i++ {
		var bw, ow uint64
		if i < len(b.words) {
			bw = b.words[i]
		}
		if i < len(o.words) {
			ow = o.words[i]
		}
		out.words[i] = bw | ow
	}
	return out
}

// PopCount returns the number of set bits (used by nbOccurrences-style
// queries over a node's support, e.g. BC3's single-occurrence check when
// combined with a per-variable occurrence counter).
func (b *Bitset) PopCount() int {
	n := 0
	for _, w := range b.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Each calls f for every set bit in ascending order.
func (b *Bitset) Each(f func(i int)) {
	for wi, w := range b.words {
		for w != 0 {
			tz := bits.TrailingZeros64(w)
			f(wi*64 + tz)
			w &= w - 1
		}
	}
}
