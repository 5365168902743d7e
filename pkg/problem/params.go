package problem

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/paveproof/ncsp/pkg/ncsperr"
)

// ParamSet is the parsed KEY=value parameter file of §6: every recognized
// key plus an Extra map for implementer-added keys this reference reader
// doesn't know about (the grammar explicitly allows unrecognized keys).
type ParamSet struct {
	// Limits
	TimeLimitSec  float64
	NodeLimit     int
	SolutionLimit int
	DepthLimit    int

	// Tolerances
	XTol               string
	GaussSeidelXTol    float64
	GaussSeidelDTol    float64
	NewtonRelTol       float64
	NewtonCertifyRelTol float64
	LoopContractorTol  float64
	RelaxationEqTol    float64
	SolutionClusterGap float64

	// Iteration caps
	PropagationIterLimit   int
	BC3IterLimit           int
	UniNewtonIterLimit     int
	NewtonCertifyIterLimit int
	GaussSeidelIterLimit   int
	LPIterLimit            int

	// Factors
	BC3PeelFactor    float64
	InflationDelta   float64
	InflationChi     float64
	GaussianMinPivot float64

	// Strategy selectors
	PropagationBase         string
	PropagationWithPolytope string
	PropagationWithNewton   string
	SplitSelector           string
	SplitSlicer             string
	BPNodeSelection         string
	DisplayRegion           string
	Preprocessing           string

	Extra map[string]string
}

// DefaultParamSet mirrors §6's documented defaults.
func DefaultParamSet() *ParamSet {
	return &ParamSet{
		GaussSeidelXTol:        1e-10,
		GaussSeidelDTol:        1e-10,
		NewtonRelTol:           1e-10,
		NewtonCertifyRelTol:    1e-10,
		LoopContractorTol:      1e-9,
		RelaxationEqTol:        1e-9,
		SolutionClusterGap:     1e-6,
		PropagationIterLimit:   200,
		BC3IterLimit:           200,
		UniNewtonIterLimit:     50,
		NewtonCertifyIterLimit: 20,
		GaussSeidelIterLimit:   50,
		LPIterLimit:            200,
		BC3PeelFactor:          0.1,
		InflationDelta:         1.125,
		InflationChi:           1e-10,
		GaussianMinPivot:       1e-10,
		PropagationBase:        "HC4",
		PropagationWithPolytope: "NO",
		PropagationWithNewton:   "NO",
		SplitSelector:           "MaxDom",
		SplitSlicer:             "BISECTION",
		BPNodeSelection:         "DFS",
		DisplayRegion:           "STD",
		Preprocessing:           "YES",
		Extra:                   map[string]string{},
	}
}

// ParamSource loads a ParamSet from some external representation.
type ParamSource interface {
	Load() (*ParamSet, error)
}

// KVParamSource reads §6's `KEY = value` parameter file line by line,
// `#` comments ignored, recognized keys populating ParamSet's named
// fields and everything else kept verbatim in Extra.
type KVParamSource struct {
	text string
}

func NewKVParamSource(text string) *KVParamSource { return &KVParamSource{text: text} }

func (s *KVParamSource) Load() (*ParamSet, error) {
	p := DefaultParamSet()
	scanner := bufio.NewScanner(strings.NewReader(s.text))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if idx := strings.Index(line, "#"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		eq := strings.Index(line, "=")
		if eq < 0 {
			return nil, ncsperr.NewParseError(lineNo, "expected KEY = value")
		}
		key := strings.TrimSpace(line[:eq])
		val := strings.TrimSpace(line[eq+1:])
		if err := p.set(key, val, lineNo); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *ParamSet) set(key, val string, line int) error {
	switch key {
	case "TIME_LIMIT":
		return p.setFloat(&p.TimeLimitSec, val, line)
	case "NODE_LIMIT":
		return p.setInt(&p.NodeLimit, val, line)
	case "SOLUTION_LIMIT":
		return p.setInt(&p.SolutionLimit, val, line)
	case "DEPTH_LIMIT":
		return p.setInt(&p.DepthLimit, val, line)
	case "XTOL":
		p.XTol = val
	case "GAUSS_SEIDEL_XTOL":
		return p.setFloat(&p.GaussSeidelXTol, val, line)
	case "GAUSS_SEIDEL_DTOL":
		return p.setFloat(&p.GaussSeidelDTol, val, line)
	case "NEWTON_REL_TOL":
		return p.setFloat(&p.NewtonRelTol, val, line)
	case "NEWTON_CERTIFY_REL_TOL":
		return p.setFloat(&p.NewtonCertifyRelTol, val, line)
	case "LOOP_CONTRACTOR_TOL":
		return p.setFloat(&p.LoopContractorTol, val, line)
	case "RELAXATION_EQ_TOL":
		return p.setFloat(&p.RelaxationEqTol, val, line)
	case "SOLUTION_CLUSTER_GAP":
		return p.setFloat(&p.SolutionClusterGap, val, line)
	case "PROPAGATION_ITER_LIMIT":
		return p.setInt(&p.PropagationIterLimit, val, line)
	case "BC3_ITER_LIMIT":
		return p.setInt(&p.BC3IterLimit, val, line)
	case "UNI_NEWTON_ITER_LIMIT":
		return p.setInt(&p.UniNewtonIterLimit, val, line)
	case "NEWTON_CERTIFY_ITER_LIMIT":
		return p.setInt(&p.NewtonCertifyIterLimit, val, line)
	case "GAUSS_SEIDEL_ITER_LIMIT":
		return p.setInt(&p.GaussSeidelIterLimit, val, line)
	case "LP_ITER_LIMIT":
		return p.setInt(&p.LPIterLimit, val, line)
	case "BC3_PEEL_FACTOR":
		return p.setFloat(&p.BC3PeelFactor, val, line)
	case "INFLATION_DELTA":
		return p.setFloat(&p.InflationDelta, val, line)
	case "INFLATION_CHI":
		return p.setFloat(&p.InflationChi, val, line)
	case "GAUSSIAN_MIN_PIVOT":
		return p.setFloat(&p.GaussianMinPivot, val, line)
	case "PROPAGATION_BASE":
		p.PropagationBase = val
	case "PROPAGATION_WITH_POLYTOPE":
		p.PropagationWithPolytope = val
	case "PROPAGATION_WITH_NEWTON":
		p.PropagationWithNewton = val
	case "SPLIT_SELECTOR":
		p.SplitSelector = val
	case "SPLIT_SLICER":
		p.SplitSlicer = val
	case "BP_NODE_SELECTION":
		p.BPNodeSelection = val
	case "DISPLAY_REGION":
		p.DisplayRegion = val
	case "PREPROCESSING":
		p.Preprocessing = val
	default:
		if p.Extra == nil {
			p.Extra = map[string]string{}
		}
		p.Extra[key] = val
	}
	return nil
}

func (p *ParamSet) setFloat(dst *float64, val string, line int) error {
	v, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return ncsperr.NewParseError(line, "expected a number, got '"+val+"'")
	}
	*dst = v
	return nil
}

func (p *ParamSet) setInt(dst *int, val string, line int) error {
	v, err := strconv.Atoi(val)
	if err != nil {
		return ncsperr.NewParseError(line, "expected an integer, got '"+val+"'")
	}
	*dst = v
	return nil
}
