package problem

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
)

// Stats is the run summary §6's `<base>.sta` file and stdout report are
// built from: preprocessing effects, the branch-and-prune tree shape, and
// how the run ended. Decoupled from pkg/solver's own types for the same
// reason Report is (pkg/solver depends on this package, not the reverse).
type Stats struct {
	ProblemName string
	NumVars     int
	NumConstraints int

	FixedByPreprocessing int
	DroppedInactive      int
	InfeasibleAtPreprocess bool

	Nodes            int
	Solutions        int
	PendingCount     int
	Status           string // search status: complete/partial/aborted
	SolutionStatus   string // feasible/unfeasible/no-proof/no-solution
	LimitHit         string
	PreprocessElapsed time.Duration
	SolveElapsed     time.Duration
	Elapsed          time.Duration
}

// StatsSink receives a completed run's Stats, e.g. to log it or persist it
// as the `<base>.sta` side-effect file (§6).
type StatsSink interface {
	Report(Stats)
}

// ZerologStatsSink logs Stats as a single structured event, in
// internal/obs's style (github.com/rs/zerolog).
type ZerologStatsSink struct {
	Logger zerolog.Logger
}

func NewZerologStatsSink(logger zerolog.Logger) *ZerologStatsSink {
	return &ZerologStatsSink{Logger: logger}
}

func (s *ZerologStatsSink) Report(st Stats) {
	s.Logger.Info().
		Str("problem", st.ProblemName).
		Int("vars", st.NumVars).
		Int("constraints", st.NumConstraints).
		Int("fixed", st.FixedByPreprocessing).
		Int("dropped_inactive", st.DroppedInactive).
		Bool("infeasible_at_preprocess", st.InfeasibleAtPreprocess).
		Int("nodes", st.Nodes).
		Int("solutions", st.Solutions).
		Int("pending", st.PendingCount).
		Str("status", st.Status).
		Str("solution_status", st.SolutionStatus).
		Str("limit_hit", st.LimitHit).
		Dur("preprocess_elapsed", st.PreprocessElapsed).
		Dur("solve_elapsed", st.SolveElapsed).
		Dur("elapsed", st.Elapsed).
		Msg("solve finished")
}

// NopStatsSink discards every report, the default when no `.sta` output was
// requested.
type NopStatsSink struct{}

func (NopStatsSink) Report(Stats) {}

// WriteStatsFile renders st as the `<base>.sta` side-effect file of §6:
// one KEY=value line per field, in the same vocabulary the ParamSource
// keys use.
func WriteStatsFile(w io.Writer, st Stats) error {
	lines := []struct {
		key string
		val interface{}
	}{
		{"PROBLEM", st.ProblemName},
		{"VARS", st.NumVars},
		{"CONSTRAINTS", st.NumConstraints},
		{"FIXED_BY_PREPROCESSING", st.FixedByPreprocessing},
		{"DROPPED_INACTIVE", st.DroppedInactive},
		{"INFEASIBLE_AT_PREPROCESS", st.InfeasibleAtPreprocess},
		{"NODES", st.Nodes},
		{"SOLUTIONS", st.Solutions},
		{"PENDING", st.PendingCount},
		{"STATUS", st.Status},
		{"SOLUTION_STATUS", st.SolutionStatus},
		{"LIMIT_HIT", st.LimitHit},
		{"PREPROCESS_ELAPSED_SEC", st.PreprocessElapsed.Seconds()},
		{"SOLVE_ELAPSED_SEC", st.SolveElapsed.Seconds()},
		{"ELAPSED_SEC", st.Elapsed.Seconds()},
	}
	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "%s = %v\n", l.key, l.val); err != nil {
			return err
		}
	}
	return nil
}
