package ncsp

import (
	"fmt"
	"strings"

	"github.com/paveproof/ncsp/pkg/interval"
)

// DomainBox is a total map Scope → owned Domain (§3). It is the outer,
// typed representation a Problem declares and that preprocessing narrows;
// IntervalBox (below) is the inner working representation contractors
// mutate in the search loop.
type DomainBox struct {
	scope *Scope
	doms  []Domain // parallel to scope.Vars()
}

// NewDomainBox builds a box over scope with the given per-variable domains,
// in scope order.
func NewDomainBox(scope *Scope, doms []Domain) *DomainBox {
	owned := make([]Domain, len(doms))
	copy(owned, doms)
	return &DomainBox{scope: scope, doms: owned}
}

// Scope returns the box's index scope.
func (b *DomainBox) Scope() *Scope { return b.scope }

// Get returns the domain of v, or nil if v is not in scope.
func (b *DomainBox) Get(v *Variable) Domain {
	i := b.scope.IndexOf(v)
	if i < 0 {
		return nil
	}
	return b.doms[i]
}

// GetAt returns the domain at scope position i.
func (b *DomainBox) GetAt(i int) Domain { return b.doms[i] }

// Set replaces v's domain.
func (b *DomainBox) Set(v *Variable, d Domain) {
	i := b.scope.IndexOf(v)
	if i < 0 {
		return
	}
	b.doms[i] = d
}

// Narrow intersects v's domain with x, the basic narrowing operation named
// in §3.
func (b *DomainBox) Narrow(v *Variable, x interval.Interval) {
	i := b.scope.IndexOf(v)
	if i < 0 {
		return
	}
	b.doms[i] = b.doms[i].IntersectInterval(x)
}

// Clone returns a deep-enough copy: the Domain values are themselves
// immutable value types, so only the backing slice needs copying.
func (b *DomainBox) Clone() *DomainBox {
	doms := make([]Domain, len(b.doms))
	copy(doms, b.doms)
	return &DomainBox{scope: b.scope, doms: doms}
}

// IsEmpty reports whether any coordinate domain is empty.
func (b *DomainBox) IsEmpty() bool {
	for _, d := range b.doms {
		if d.IsEmpty() {
			return true
		}
	}
	return false
}

// ToIntervalBox projects every typed Domain onto its interval Hull,
// producing the working representation contractors consume (§3).
func (b *DomainBox) ToIntervalBox() *IntervalBox {
	ivals := make([]interval.Interval, len(b.doms))
	for i, d := range b.doms {
		ivals[i] = d.Hull()
	}
	return &IntervalBox{scope: b.scope, ivals: ivals}
}

// String renders "name: domain" lines in scope order.
func (b *DomainBox) String() string {
	var sb strings.Builder
	for i, v := range b.scope.Vars() {
		fmt.Fprintf(&sb, "%s: %s\n", v.Name(), b.doms[i].String())
	}
	return sb.String()
}

// IntervalBox is a Scope-indexed vector of Intervals (§3): the working
// representation contractors mutate in place and the search tree branches
// on. A node owns exactly one IntervalBox (§5 Memory); it is value-copied on
// branching.
type IntervalBox struct {
	scope *Scope
	ivals []interval.Interval
}

// NewIntervalBox builds a box over scope with the given per-variable
// intervals, in scope order.
func NewIntervalBox(scope *Scope, ivals []interval.Interval) *IntervalBox {
	owned := make([]interval.Interval, len(ivals))
	copy(owned, ivals)
	return &IntervalBox{scope: scope, ivals: owned}
}

// Scope returns the box's index scope.
func (b *IntervalBox) Scope() *Scope { return b.scope }

// At returns the interval at scope position i.
func (b *IntervalBox) At(i int) interval.Interval { return b.ivals[i] }

// SetAt replaces the interval at scope position i.
func (b *IntervalBox) SetAt(i int, x interval.Interval) { b.ivals[i] = x }

// Get returns v's interval, or Empty if v is not in scope.
func (b *IntervalBox) Get(v *Variable) interval.Interval {
	i := b.scope.IndexOf(v)
	if i < 0 {
		return interval.Empty()
	}
	return b.ivals[i]
}

// Set replaces v's interval.
func (b *IntervalBox) Set(v *Variable, x interval.Interval) {
	i := b.scope.IndexOf(v)
	if i < 0 {
		return
	}
	b.ivals[i] = x
}

// Narrow intersects v's interval with x.
func (b *IntervalBox) Narrow(v *Variable, x interval.Interval) {
	i := b.scope.IndexOf(v)
	if i < 0 {
		return
	}
	b.ivals[i] = b.ivals[i].Inter(x)
}

// NarrowAt intersects the interval at scope position i with x.
func (b *IntervalBox) NarrowAt(i int, x interval.Interval) {
	b.ivals[i] = b.ivals[i].Inter(x)
}

// IsEmpty reports whether any coordinate is empty.
func (b *IntervalBox) IsEmpty() bool {
	for _, x := range b.ivals {
		if x.IsEmpty() {
			return true
		}
	}
	return false
}

// Clone returns a value copy, the operation every branch/push performs
// (§5 Memory: "IntervalBoxes are value-typed and copied on branching").
func (b *IntervalBox) Clone() *IntervalBox {
	ivals := make([]interval.Interval, len(b.ivals))
	copy(ivals, b.ivals)
	return &IntervalBox{scope: b.scope, ivals: ivals}
}

// MaxWidthIndex returns the scope position of the widest coordinate and its
// width, used by the MaxDom selector.
func (b *IntervalBox) MaxWidthIndex() (int, float64) {
	best, bestW := -1, -1.0
	for i, x := range b.ivals {
		w := x.Width()
		if w > bestW {
			best, bestW = i, w
		}
	}
	return best, bestW
}

// ToDomainBox reconstructs typed domains by wrapping each coordinate in an
// IntervalDomain, respecting each variable's nominal Kind by rounding to a
// Range/BinaryDomain where the kind demands it (§3 "Convertible to/from
// DomainBox by projecting/reconstructing typed domains").
func (b *IntervalBox) ToDomainBox() *DomainBox {
	doms := make([]Domain, len(b.ivals))
	for i, v := range b.scope.Vars() {
		doms[i] = reconstructTyped(v.Kind(), b.ivals[i])
	}
	return &DomainBox{scope: b.scope, doms: doms}
}

func reconstructTyped(k Kind, x interval.Interval) Domain {
	switch k {
	case Binary:
		return BinaryDomain{Has0: x.Contains(0), Has1: x.Contains(1)}
	case Integer:
		if x.IsEmpty() {
			return Range{Empty: true}
		}
		return NewRange(int(ceilToInt(x.Lo())), int(floorToInt(x.Hi())))
	default:
		return IntervalDomain{I: x}
	}
}

func ceilToInt(v float64) int {
	i := int(v)
	if float64(i) < v {
		i++
	}
	return i
}

func floorToInt(v float64) int {
	i := int(v)
	if float64(i) > v {
		i--
	}
	return i
}

// String renders "name: interval" lines in scope order.
func (b *IntervalBox) String() string {
	var sb strings.Builder
	for i, v := range b.scope.Vars() {
		fmt.Fprintf(&sb, "%s: %s\n", v.Name(), b.ivals[i].String())
	}
	return sb.String()
}
