package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/paveproof/ncsp/internal/obs"
	"github.com/paveproof/ncsp/pkg/ncsp"
	"github.com/paveproof/ncsp/pkg/problem"
	"github.com/paveproof/ncsp/pkg/solver"
)

// run implements §6's CLI flow end to end: parse, preprocess, solve,
// write the side-effect files, and print the fixed-schema stdout report.
func run(stdout io.Writer, problemPath, paramsPath string) error {
	logger := obs.Default()
	base := strings.TrimSuffix(problemPath, filepath.Ext(problemPath))

	problemText, err := os.ReadFile(problemPath)
	if err != nil {
		return fmt.Errorf("reading problem file: %w", err)
	}
	p, err := problem.NewGrammarSource(filepath.Base(problemPath), string(problemText)).Load()
	if err != nil {
		return fmt.Errorf("parsing problem file: %w", err)
	}

	ps := problem.DefaultParamSet()
	if paramsPath != "" {
		paramsText, err := os.ReadFile(paramsPath)
		if err != nil {
			return fmt.Errorf("reading parameter file: %w", err)
		}
		ps, err = problem.NewKVParamSource(string(paramsText)).Load()
		if err != nil {
			return fmt.Errorf("parsing parameter file: %w", err)
		}
	}

	preStart := time.Now()
	pre, err := preprocess(p, ps)
	if err != nil {
		return fmt.Errorf("building preprocessing strategy: %w", err)
	}
	preElapsed := time.Since(preStart)

	var (
		res         *solver.Result
		solveElapsed time.Duration
	)
	if !pre.Infeasible {
		params, err := solver.BuildParams(pre.Reduced, ps)
		if err != nil {
			return fmt.Errorf("building solve strategy: %w", err)
		}
		solveStart := time.Now()
		res, err = solver.Solve(pre.Reduced.InitialBox, params)
		if err != nil {
			return fmt.Errorf("solving: %w", err)
		}
		solveElapsed = time.Since(solveStart)
	} else {
		res = &solver.Result{Status: solver.Complete}
	}

	rep := expandReport(p, pre, res)
	solutionStatus := solver.ClassifySolutionStatus(pre, res)

	if err := writeSolutionFile(base+".sol", p, rep, ps); err != nil {
		return fmt.Errorf("writing solution file: %w", err)
	}

	st := problem.Stats{
		ProblemName:            p.Name,
		NumVars:                len(p.Vars),
		NumConstraints:         len(p.Constraints),
		FixedByPreprocessing:   len(pre.Fixed),
		DroppedInactive:        pre.DroppedInactive,
		InfeasibleAtPreprocess: pre.Infeasible,
		Nodes:                  res.Nodes,
		Solutions:              len(rep.Solutions),
		PendingCount:           res.PendingCount,
		Status:                 res.Status.String(),
		SolutionStatus:         solutionStatus,
		LimitHit:               res.LimitHit,
		PreprocessElapsed:      preElapsed,
		SolveElapsed:           solveElapsed,
		Elapsed:                preElapsed + solveElapsed,
	}
	if err := writeStatsFile(base+".sta", st); err != nil {
		return fmt.Errorf("writing stats file: %w", err)
	}
	if err := writeLogFile(base+".log", st); err != nil {
		return fmt.Errorf("writing log file: %w", err)
	}
	problem.NewZerologStatsSink(logger).Report(st)

	printReport(stdout, problemPath, st)
	return nil
}

// preprocess runs §4.7's preprocessing step, or hands back the original
// problem untouched when PREPROCESSING=NO.
func preprocess(p *problem.Problem, ps *problem.ParamSet) (*solver.PreprocessResult, error) {
	if ps.Preprocessing == "NO" {
		return &solver.PreprocessResult{Reduced: p, Fixed: map[*ncsp.Variable]float64{}}, nil
	}
	params, err := solver.BuildParams(p, ps)
	if err != nil {
		return nil, err
	}
	return solver.Preprocess(p, params.Contractor, xtolValue(ps.XTol)), nil
}

// xtolValue extracts the numeric width from a §6 tolerance literal
// (`<number><A|R>`), defaulting to the documented XTOL default when the
// parameter file left it unset or malformed.
func xtolValue(lit string) float64 {
	lit = strings.TrimSpace(lit)
	if lit == "" {
		return ncsp.DefaultTolerance.Value
	}
	lit = strings.TrimSuffix(strings.TrimSuffix(lit, "A"), "R")
	v, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return ncsp.DefaultTolerance.Value
	}
	return v
}

// expandReport lifts the driver's reduced-scope result back to the
// original problem's full scope, certificate and all.
func expandReport(p *problem.Problem, pre *solver.PreprocessResult, res *solver.Result) *problem.Report {
	rep := &problem.Report{
		Partial:      res.Status == solver.Partial,
		PendingCount: res.PendingCount,
	}
	for _, n := range res.Solutions {
		rep.Solutions = append(rep.Solutions, problem.SolutionBox{
			Box:   expandBox(p, pre, n.Box),
			Proof: n.Proof,
		})
	}
	if res.PendingHull != nil {
		rep.PendingHull = expandBox(p, pre, res.PendingHull)
	}
	return rep
}

func expandBox(p *problem.Problem, pre *solver.PreprocessResult, box *ncsp.IntervalBox) *ncsp.IntervalBox {
	if pre.Reduced == p {
		return box
	}
	return solver.ExpandSolution(p, pre, box)
}

func writeSolutionFile(path string, p *problem.Problem, rep *problem.Report, ps *problem.ParamSet) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return problem.WriteSolutions(f, p.Scope(), rep, ps.DisplayRegion == "VEC")
}

func writeStatsFile(path string, st problem.Stats) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return problem.WriteStatsFile(f, st)
}

func writeLogFile(path string, st problem.Stats) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	problem.NewZerologStatsSink(obs.New(f, obs.Default().GetLevel())).Report(st)
	return nil
}

// printReport prints §6's fixed-schema stdout report.
func printReport(w io.Writer, problemPath string, st problem.Stats) {
	fmt.Fprintf(w, "input file       : %s\n", problemPath)
	fmt.Fprintf(w, "preprocess time  : %s\n", st.PreprocessElapsed)
	fmt.Fprintf(w, "solve time       : %s\n", st.SolveElapsed)
	fmt.Fprintf(w, "nodes            : %d\n", st.Nodes)
	fmt.Fprintf(w, "search status    : %s\n", st.Status)
	fmt.Fprintf(w, "solution status  : %s\n", st.SolutionStatus)
	fmt.Fprintf(w, "solutions        : %d\n", st.Solutions)
	fmt.Fprintf(w, "pending nodes    : %d\n", st.PendingCount)
	limitHit := st.LimitHit
	if limitHit == "" {
		limitHit = "none"
	}
	fmt.Fprintf(w, "limit hit        : %s\n", limitHit)
}
