package contractor

import "github.com/paveproof/ncsp/pkg/interval"

// Slicer produces a finite ordered sequence of sub-intervals covering x
// (§4.6). Defined here rather than in the search package because
// ContractorVar3B consumes it directly; the search package's Slicer
// registry wraps these same implementations.
type Slicer interface {
	Slice(x interval.Interval) []interval.Interval
	String() string
}

// Bisection splits x into two halves at the midpoint.
type Bisection struct{}

func (Bisection) Slice(x interval.Interval) []interval.Interval {
	if x.IsEmpty() {
		return nil
	}
	mid := x.Mid()
	return []interval.Interval{interval.New(x.Lo(), mid), interval.New(mid, x.Hi())}
}

func (Bisection) String() string { return "Bisection" }

// Peeling returns a thin boundary slice of width factor·|x| from the left,
// plus the remainder.
type Peeling struct {
	Factor float64
}

func (p Peeling) Slice(x interval.Interval) []interval.Interval {
	if x.IsEmpty() {
		return nil
	}
	w := p.Factor * x.Width()
	return []interval.Interval{interval.New(x.Lo(), x.Lo()+w), interval.New(x.Lo()+w, x.Hi())}
}

func (p Peeling) String() string { return "Peeling" }

// Partition splits x into N equal sub-intervals.
type Partition struct {
	N int
}

func (p Partition) Slice(x interval.Interval) []interval.Interval {
	if x.IsEmpty() || p.N <= 0 {
		return nil
	}
	out := make([]interval.Interval, p.N)
	w := x.Width() / float64(p.N)
	lo := x.Lo()
	for i := 0; i < p.N; i++ {
		hi := lo + w
		if i == p.N-1 {
			hi = x.Hi()
		}
		out[i] = interval.New(lo, hi)
		lo = hi
	}
	return out
}

func (p Partition) String() string { return "Partition" }
