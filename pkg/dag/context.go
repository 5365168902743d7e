package dag

import "github.com/paveproof/ncsp/pkg/interval"

// DagContext is a per-search-node mutable overlay of per-node projection
// domains (§3, §5): shared subexpression nodes (those with >1 parent) need
// their hc4Revise `dom` field isolated per search node so sibling nodes in
// the branch-and-prune tree don't interfere with each other's in-progress
// backward pass.
//
// Modeled as a parent-chain with copy-on-write overrides, the same shape as
// SolverState's sparse parent chain (.seed/solver.go): branching
// a node allocates a new, empty override map referencing the parent context
// rather than copying the whole overlay, so Child() is O(1) regardless of
// DAG size. A lookup walks the chain until it finds an override or reaches
// the root, where unset nodes read as Whole() (the universe, per §4.3 step
// 5: "for shared nodes initialize dom := universe").
type DagContext struct {
	parent    *DagContext
	overrides map[int]interval.Interval
	depth     int
}

// NewDagContext returns the default (root) context: every node's dom reads
// as the universe until explicitly set.
func NewDagContext() *DagContext {
	return &DagContext{overrides: make(map[int]interval.Interval)}
}

// Child returns a new overlay chained off c, used when a search node
// branches (§5, §9: "owned, cloned on branching"). The child is O(1) to
// create; it only allocates storage the first time a node's dom is set.
func (c *DagContext) Child() *DagContext {
	return &DagContext{parent: c, overrides: make(map[int]interval.Interval), depth: c.depth + 1}
}

// Dom returns the current projection domain for nodeIdx, walking the chain
// to the nearest override, or Whole() if none exists anywhere in the chain.
func (c *DagContext) Dom(nodeIdx int) interval.Interval {
	for ctx := c; ctx != nil; ctx = ctx.parent {
		if v, ok := ctx.overrides[nodeIdx]; ok {
			return v
		}
	}
	return interval.Whole()
}

// SetDom writes nodeIdx's projection domain in this overlay (never in an
// ancestor), so a contractor's mutation is scoped to the calling search
// node and its descendants only.
func (c *DagContext) SetDom(nodeIdx int, x interval.Interval) {
	c.overrides[nodeIdx] = x
}

// Reset clears every override in this overlay (not ancestors), used
// between independent contractor invocations that must start from a clean
// universe per node (§4.3 step 5 is per-hc4Revise-call, not cross-call).
func (c *DagContext) Reset() {
	c.overrides = make(map[int]interval.Interval)
}

// Binding scopes an overlay acquisition/release to a single contractor
// call (§5: "binding/unbinding is scoped to the contractor invocation with
// guaranteed release on every exit path"). Callers should `defer
// binding.Release()` immediately after Bind.
type Binding struct {
	ctx    *DagContext
	active bool
}

// Bind acquires ctx for the duration of one contractor call.
func Bind(ctx *DagContext) *Binding {
	return &Binding{ctx: ctx, active: true}
}

// Release marks the binding inactive. Idempotent, so a deferred Release
// after an early return is always safe.
func (b *Binding) Release() { b.active = false }

// Context returns the bound overlay, or nil once released.
func (b *Binding) Context() *DagContext {
	if !b.active {
		return nil
	}
	return b.ctx
}
