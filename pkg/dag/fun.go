package dag

import "github.com/paveproof/ncsp/pkg/interval"

// DagFun is the image of one original Constraint in the shared graph
// (§3): a root node index, the constraint's admissible Image interval
// (the RHS bounds for inequalities/ranges, {0} for equations), and the
// ordered node list reachable from that root in topological order
// (ascending index, which the arena's dense insertion order already
// guarantees per §3's invariant).
type DagFun struct {
	Root    int
	Image   interval.Interval
	Nodes   []int // topological order, reachable from Root
	dag     *DAG
}

// NewDagFun builds a DagFun for root under image, collecting the reachable
// node set from the owning DAG.
func NewDagFun(d *DAG, root int, image interval.Interval) *DagFun {
	reachable := make(map[int]bool)
	var rec func(i int)
	rec = func(i int) {
		if reachable[i] {
			return
		}
		reachable[i] = true
		n := d.nodes[i]
		for _, c := range n.Children {
			rec(c)
		}
		if n.Kind == KindLin {
			for _, e := range n.LinEntries {
				rec(e.VarIndex)
			}
		}
	}
	rec(root)
	// Node indices are already dense and topologically ordered by
	// construction (§3 invariant), so sorting the reachable set ascending
	// yields a valid topological order.
	nodes := make([]int, 0, len(reachable))
	for i := range reachable {
		nodes = append(nodes, i)
	}
	insertionSort(nodes)
	return &DagFun{Root: root, Image: image, Nodes: nodes, dag: d}
}

func insertionSort(a []int) {
	for i := 1; i < len(a); i++ {
		for j := i; j > 0 && a[j-1] > a[j]; j-- {
			a[j-1], a[j] = a[j], a[j-1]
		}
	}
}

// DAG returns the owning arena.
func (f *DagFun) DAG() *DAG { return f.dag }
