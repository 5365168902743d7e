package problem

import (
	"fmt"
	"io"

	"github.com/paveproof/ncsp/pkg/ncsp"
)

// SolutionBox is one reported enclosure: its box and the proof certificate
// it carries. Kept decoupled from pkg/search/pkg/solver's own Node/Result
// types so this package (which pkg/solver itself depends on, for its
// Preprocess step) never imports back into the solver layer.
type SolutionBox struct {
	Box   *ncsp.IntervalBox
	Proof ncsp.Proof
}

// Report is everything WriteSolutions needs to render a `<base>.sol` file:
// the clustered solution list plus, on partial termination, the
// pending-node hull (§4.6 Limits paragraph, §6 solution-file format).
type Report struct {
	Solutions    []SolutionBox
	Partial      bool
	PendingHull  *ncsp.IntervalBox
	PendingCount int
}

// statusWord renders a solution node's proof in §6's solution-file
// vocabulary: INNER boxes are "inner", FEASIBLE ones are "safe", and
// anything still MAYBE (un-certified) is reported as "unsafe".
func statusWord(proof ncsp.Proof) string {
	switch proof {
	case ncsp.Inner:
		return "inner"
	case ncsp.Feasible:
		return "safe"
	default:
		return "unsafe"
	}
}

// WriteSolutions renders rep to w in the `<base>.sol` format of §6: one
// `SOLUTION k` block per clustered box, the scope's variables listed either
// one-per-line or as a single `SCOPE = ...` vector line when vecDisplay is
// set (DISPLAY_REGION=VEC), followed by a pending-node hull section when
// the run terminated early.
func WriteSolutions(w io.Writer, scope *ncsp.Scope, rep *Report, vecDisplay bool) error {
	for k, s := range rep.Solutions {
		width := hullWidth(s.Box)
		if _, err := fmt.Fprintf(w, "SOLUTION %d %g %s\n", k+1, width, statusWord(s.Proof)); err != nil {
			return err
		}
		if err := writeBox(w, scope, s.Box, vecDisplay); err != nil {
			return err
		}
	}

	if rep.Partial && rep.PendingHull != nil {
		if _, err := fmt.Fprintf(w, "HULL OF PENDING NODES %d\n", rep.PendingCount); err != nil {
			return err
		}
		if err := writeBox(w, scope, rep.PendingHull, vecDisplay); err != nil {
			return err
		}
	}
	return nil
}

func writeBox(w io.Writer, scope *ncsp.Scope, box *ncsp.IntervalBox, vecDisplay bool) error {
	if vecDisplay {
		if _, err := fmt.Fprint(w, "SCOPE ="); err != nil {
			return err
		}
		for i := 0; i < scope.Len(); i++ {
			iv := box.At(i)
			if _, err := fmt.Fprintf(w, " [%g,%g]", iv.Lo(), iv.Hi()); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintln(w)
		return err
	}
	for i := 0; i < scope.Len(); i++ {
		v := scope.At(i)
		iv := box.At(i)
		if _, err := fmt.Fprintf(w, "%s = [%g, %g]\n", v.Name(), iv.Lo(), iv.Hi()); err != nil {
			return err
		}
	}
	return nil
}

// hullWidth is the largest per-coordinate width in box, the single number
// a SOLUTION header reports (§6).
func hullWidth(box *ncsp.IntervalBox) float64 {
	_, w := box.MaxWidthIndex()
	return w
}
