package ncsp

import (
	"fmt"
	"math"
	"sort"

	"github.com/paveproof/ncsp/pkg/interval"
)

// Domain is a typed enclosure (§3). Every variant implements a common
// contract: discretized size, emptiness, interval-intersection, split, and
// midpoint/hull. `.seed/domain.go`'s Domain interface plays the same role
// for integer BitSetDomains; here it is generalized to continuous and
// mixed discrete/continuous enclosures.
type Domain interface {
	// Size returns the discretized width: for continuous domains this is
	// the interval width; for discrete domains the count of representable
	// values.
	Size() float64
	IsEmpty() bool
	// IntersectInterval narrows this domain to its overlap with x.
	IntersectInterval(x interval.Interval) Domain
	// Split divides the domain at its midpoint into two non-overlapping
	// halves covering the original (the default slicer, §4.6 Bisection).
	Split() (Domain, Domain)
	Midpoint() float64
	Hull() interval.Interval
	String() string
}

// IntervalDomain is a single (possibly unbounded) Interval.
type IntervalDomain struct {
	I interval.Interval
}

func NewIntervalDomain(i interval.Interval) IntervalDomain { return IntervalDomain{I: i} }

func (d IntervalDomain) Size() float64      { return d.I.Width() }
func (d IntervalDomain) IsEmpty() bool      { return d.I.IsEmpty() }
func (d IntervalDomain) Midpoint() float64  { return d.I.Mid() }
func (d IntervalDomain) Hull() interval.Interval { return d.I }
func (d IntervalDomain) String() string     { return d.I.String() }

func (d IntervalDomain) IntersectInterval(x interval.Interval) Domain {
	return IntervalDomain{I: d.I.Inter(x)}
}

func (d IntervalDomain) Split() (Domain, Domain) {
	if d.I.IsEmpty() {
		return d, NewIntervalDomain(interval.Empty())
	}
	m := d.I.Mid()
	left := interval.New(d.I.Lo(), m)
	right := interval.New(m, d.I.Hi())
	return IntervalDomain{I: left}, IntervalDomain{I: right}
}

// IntervalUnion is a disjoint sorted union of Intervals.
type IntervalUnion struct {
	Pieces []interval.Interval // sorted, pairwise disjoint, non-touching
}

// NewIntervalUnion normalizes pieces into sorted, merged disjoint form.
func NewIntervalUnion(pieces ...interval.Interval) IntervalUnion {
	filtered := make([]interval.Interval, 0, len(pieces))
	for _, p := range pieces {
		if !p.IsEmpty() {
			filtered = append(filtered, p)
		}
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].Lo() < filtered[j].Lo() })
	merged := make([]interval.Interval, 0, len(filtered))
	for _, p := range filtered {
		if len(merged) > 0 && merged[len(merged)-1].Overlaps(p) {
			merged[len(merged)-1] = merged[len(merged)-1].Hull(p)
			continue
		}
		merged = append(merged, p)
	}
	return IntervalUnion{Pieces: merged}
}

func (d IntervalUnion) IsEmpty() bool { return len(d.Pieces) == 0 }

func (d IntervalUnion) Size() float64 {
	total := 0.0
	for _, p := range d.Pieces {
		total += p.Width()
	}
	return total
}

func (d IntervalUnion) Hull() interval.Interval {
	h := interval.Empty()
	for _, p := range d.Pieces {
		h = h.Hull(p)
	}
	return h
}

func (d IntervalUnion) Midpoint() float64 { return d.Hull().Mid() }

func (d IntervalUnion) IntersectInterval(x interval.Interval) Domain {
	out := make([]interval.Interval, 0, len(d.Pieces))
	for _, p := range d.Pieces {
		out = append(out, p.Inter(x))
	}
	return NewIntervalUnion(out...)
}

func (d IntervalUnion) Split() (Domain, Domain) {
	if len(d.Pieces) == 0 {
		return d, NewIntervalUnion()
	}
	if len(d.Pieces) == 1 {
		a, b := IntervalDomain{I: d.Pieces[0]}.Split()
		return NewIntervalUnion(a.Hull()), NewIntervalUnion(b.Hull())
	}
	mid := len(d.Pieces) / 2
	return NewIntervalUnion(d.Pieces[:mid]...), NewIntervalUnion(d.Pieces[mid:]...)
}

func (d IntervalUnion) String() string {
	s := "{"
	for i, p := range d.Pieces {
		if i > 0 {
			s += " ∪ "
		}
		s += p.String()
	}
	return s + "}"
}

// BinaryDomain is one of {0}, {1}, {0,1}, or {} (empty).
type BinaryDomain struct {
	Has0, Has1 bool
}

func NewBinaryDomain(has0, has1 bool) BinaryDomain { return BinaryDomain{Has0: has0, Has1: has1} }

func (d BinaryDomain) IsEmpty() bool { return !d.Has0 && !d.Has1 }

func (d BinaryDomain) Size() float64 {
	n := 0.0
	if d.Has0 {
		n++
	}
	if d.Has1 {
		n++
	}
	return n
}

func (d BinaryDomain) Hull() interval.Interval {
	switch {
	case d.Has0 && d.Has1:
		return interval.New(0, 1)
	case d.Has0:
		return interval.Point(0)
	case d.Has1:
		return interval.Point(1)
	default:
		return interval.Empty()
	}
}

func (d BinaryDomain) Midpoint() float64 { return d.Hull().Mid() }

func (d BinaryDomain) IntersectInterval(x interval.Interval) Domain {
	return BinaryDomain{Has0: d.Has0 && x.Contains(0), Has1: d.Has1 && x.Contains(1)}
}

func (d BinaryDomain) Split() (Domain, Domain) {
	if d.Has0 && d.Has1 {
		return BinaryDomain{Has0: true}, BinaryDomain{Has1: true}
	}
	return d, NewBinaryDomain(false, false)
}

func (d BinaryDomain) String() string {
	switch {
	case d.Has0 && d.Has1:
		return "{0,1}"
	case d.Has0:
		return "{0}"
	case d.Has1:
		return "{1}"
	default:
		return "{}"
	}
}

// Range is an integer interval [Lo, Hi].
type Range struct {
	Lo, Hi int
	Empty  bool
}

func NewRange(lo, hi int) Range {
	if lo > hi {
		return Range{Empty: true}
	}
	return Range{Lo: lo, Hi: hi}
}

func (d Range) IsEmpty() bool { return d.Empty }
func (d Range) Size() float64 {
	if d.Empty {
		return 0
	}
	return float64(d.Hi - d.Lo + 1)
}

func (d Range) Hull() interval.Interval {
	if d.Empty {
		return interval.Empty()
	}
	return interval.New(float64(d.Lo), float64(d.Hi))
}

func (d Range) Midpoint() float64 { return d.Hull().Mid() }

func (d Range) IntersectInterval(x interval.Interval) Domain {
	if d.Empty || x.IsEmpty() {
		return Range{Empty: true}
	}
	lo := d.Lo
	if c := int(math.Ceil(x.Lo())); c > lo {
		lo = c
	}
	hi := d.Hi
	if f := int(math.Floor(x.Hi())); f < hi {
		hi = f
	}
	return NewRange(lo, hi)
}

func (d Range) Split() (Domain, Domain) {
	if d.Empty || d.Lo == d.Hi {
		return d, Range{Empty: true}
	}
	m := d.Lo + (d.Hi-d.Lo)/2
	return NewRange(d.Lo, m), NewRange(m+1, d.Hi)
}

func (d Range) String() string {
	if d.Empty {
		return "[]"
	}
	return fmt.Sprintf("[%d..%d]", d.Lo, d.Hi)
}

// RangeUnion is a disjoint sorted union of integer Ranges.
type RangeUnion struct {
	Pieces []Range
}

func NewRangeUnion(pieces ...Range) RangeUnion {
	filtered := make([]Range, 0, len(pieces))
	for _, p := range pieces {
		if !p.IsEmpty() {
			filtered = append(filtered, p)
		}
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].Lo < filtered[j].Lo })
	merged := make([]Range, 0, len(filtered))
	for _, p := range filtered {
		if len(merged) > 0 && p.Lo <= merged[len(merged)-1].Hi+1 {
			last := merged[len(merged)-1]
			if p.Hi > last.Hi {
				last.Hi = p.Hi
			}
			merged[len(merged)-1] = last
			continue
		}
		merged = append(merged, p)
	}
	return RangeUnion{Pieces: merged}
}

func (d RangeUnion) IsEmpty() bool { return len(d.Pieces) == 0 }

func (d RangeUnion) Size() float64 {
	total := 0.0
	for _, p := range d.Pieces {
		total += p.Size()
	}
	return total
}

func (d RangeUnion) Hull() interval.Interval {
	h := interval.Empty()
	for _, p := range d.Pieces {
		h = h.Hull(p.Hull())
	}
	return h
}

func (d RangeUnion) Midpoint() float64 { return d.Hull().Mid() }

func (d RangeUnion) IntersectInterval(x interval.Interval) Domain {
	out := make([]Range, 0, len(d.Pieces))
	for _, p := range d.Pieces {
		if r, ok := p.IntersectInterval(x).(Range); ok {
			out = append(out, r)
		}
	}
	return NewRangeUnion(out...)
}

func (d RangeUnion) Split() (Domain, Domain) {
	if len(d.Pieces) == 0 {
		return d, NewRangeUnion()
	}
	if len(d.Pieces) == 1 {
		a, b := d.Pieces[0].Split()
		ar, _ := a.(Range)
		br, _ := b.(Range)
		return NewRangeUnion(ar), NewRangeUnion(br)
	}
	mid := len(d.Pieces) / 2
	return NewRangeUnion(d.Pieces[:mid]...), NewRangeUnion(d.Pieces[mid:]...)
}

func (d RangeUnion) String() string {
	s := "{"
	for i, p := range d.Pieces {
		if i > 0 {
			s += " ∪ "
		}
		s += p.String()
	}
	return s + "}"
}
