// Package verify implements §8's solution-soundness testable property:
// "for every reported INNER/FEASIBLE solution, every point in the box
// satisfies every constraint (verifiable by random sampling for
// equalities relaxed with ε)". It runs as a read-only post-search check,
// parallel across solutions over a small fixed-size internal/parallel
// worker pool, never touching the single-threaded solving core.
package verify

import (
	"context"
	"math/rand"
	"sync"

	"github.com/paveproof/ncsp/internal/parallel"
	"github.com/paveproof/ncsp/pkg/constraint"
	"github.com/paveproof/ncsp/pkg/interval"
	"github.com/paveproof/ncsp/pkg/ncsp"
)

// Options tunes the sampling check.
type Options struct {
	Samples int     // random points drawn per solution box
	Epsilon float64 // admissible per-constraint violation after rounding
	Workers int      // 0 lets the pool default to runtime.NumCPU()
	Seed    int64
}

// DefaultOptions mirrors the sampling counts used by the end-to-end
// scenarios in §8.
func DefaultOptions() Options {
	return Options{Samples: 64, Epsilon: 1e-6, Seed: 1}
}

// Failure is one sampled point that violated a constraint beyond Epsilon.
type Failure struct {
	SolutionIndex   int
	ConstraintIndex int
	Point           []float64
	Violation       float64
}

// Report summarizes a verification run.
type Report struct {
	SolutionsChecked int
	SamplesPerSolution int
	Failures         []Failure
}

// Sound reports whether every sampled point satisfied every constraint
// within Epsilon.
func (r *Report) Sound() bool { return len(r.Failures) == 0 }

// Verify draws opts.Samples uniform random points from each box in
// solutions and evaluates every constraint's Violation at each point,
// recording any that exceed opts.Epsilon. Solutions are checked
// concurrently; each gets its own seeded *rand.Rand so the check is
// reproducible regardless of worker scheduling.
func Verify(ctx context.Context, solutions []*ncsp.IntervalBox, constraints []constraint.Constraint, opts Options) (*Report, error) {
	pool := parallel.NewWorkerPool(opts.Workers)
	defer pool.Shutdown()

	report := &Report{SolutionsChecked: len(solutions), SamplesPerSolution: opts.Samples}
	var mu sync.Mutex
	var wg sync.WaitGroup
	var firstErr error

	for i, box := range solutions {
		i, box := i, box
		wg.Add(1)
		err := pool.Submit(ctx, func() {
			defer wg.Done()
			failures := checkOne(i, box, constraints, opts)
			if len(failures) == 0 {
				return
			}
			mu.Lock()
			report.Failures = append(report.Failures, failures...)
			mu.Unlock()
		})
		if err != nil {
			wg.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = err
			}
			mu.Unlock()
			break
		}
	}
	wg.Wait()

	if firstErr != nil {
		return report, firstErr
	}
	return report, nil
}

// checkOne samples opts.Samples points from box and returns every
// constraint violation found at any of them.
func checkOne(solutionIndex int, box *ncsp.IntervalBox, constraints []constraint.Constraint, opts Options) []Failure {
	scope := box.Scope()
	r := rand.New(rand.NewSource(opts.Seed + int64(solutionIndex)))

	var failures []Failure
	for s := 0; s < opts.Samples; s++ {
		point := samplePoint(r, box)
		pointBox := ncsp.NewIntervalBox(scope, point)
		for ci, c := range constraints {
			if v := c.Violation(pointBox); v > opts.Epsilon {
				failures = append(failures, Failure{
					SolutionIndex:   solutionIndex,
					ConstraintIndex: ci,
					Point:           pointCoords(scope, pointBox),
					Violation:       v,
				})
			}
		}
	}
	return failures
}

func samplePoint(r *rand.Rand, box *ncsp.IntervalBox) []interval.Interval {
	scope := box.Scope()
	out := make([]interval.Interval, scope.Len())
	for i := 0; i < scope.Len(); i++ {
		iv := box.At(i)
		if iv.IsPoint() {
			out[i] = iv
			continue
		}
		x := iv.Lo() + r.Float64()*(iv.Hi()-iv.Lo())
		out[i] = interval.Point(x)
	}
	return out
}

func pointCoords(scope *ncsp.Scope, box *ncsp.IntervalBox) []float64 {
	out := make([]float64, scope.Len())
	for i := 0; i < scope.Len(); i++ {
		out[i] = box.At(i).Mid()
	}
	return out
}
