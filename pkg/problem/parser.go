package problem

import (
	"math"

	"github.com/paveproof/ncsp/pkg/constraint"
	"github.com/paveproof/ncsp/pkg/interval"
	"github.com/paveproof/ncsp/pkg/ncsp"
	"github.com/paveproof/ncsp/pkg/ncsperr"
	"github.com/paveproof/ncsp/pkg/term"
)

// ProblemSource loads a Problem from some external representation. The
// grammar-file reader below is the reference implementation of §6's input
// file format; other sources (e.g. a programmatic builder) can implement
// the same interface.
type ProblemSource interface {
	Load() (*Problem, error)
}

// tokSrc yields the grammar's token stream; implemented by the live lexer
// and, for re-evaluating a Functions-section body at each call site, by a
// replay over its captured tokens.
type tokSrc interface {
	next() (token, error)
}

type tokenSlice struct {
	toks []token
	pos  int
}

func (s *tokenSlice) next() (token, error) {
	if s.pos >= len(s.toks) {
		return token{kind: tokEOF}, nil
	}
	t := s.toks[s.pos]
	s.pos++
	return t, nil
}

// funcDef is a user Functions-section definition: f(u,v) = u*u+v, captured
// as its parameter names and the body's raw token stream so each call site
// can re-evaluate the body with its own argument terms bound to the
// parameter names (pkg/term has no tree-rewrite/substitution operation, so
// bodies are replayed rather than rewritten).
type funcDef struct {
	params []string
	body   []token
}

// GrammarSource parses §6's input file grammar: Variables, Constants,
// Aliases, Functions and Constraints sections in any order, semicolon
// terminated, comma-separated within a declaration, `#` line comments.
// Grounded on the hand-rolled recursive-descent idiom this codebase uses
// throughout (no parser-generator anywhere), generalized from the existing
// term/visitor composition to this grammar's operators and built-ins.
type GrammarSource struct {
	src tokSrc
	cur token

	name string
	bank *ncsp.Bank

	vars      map[string]*ncsp.Variable
	varOrder  []string
	varDomain map[*ncsp.Variable]interval.Interval

	consts map[string]float64
	alias  map[string]term.Term
	funcs  map[string]funcDef

	// paramEnv binds Functions-section parameter names to the argument
	// terms of the call currently being expanded; checked before vars.
	paramEnv map[string]term.Term
}

// NewGrammarSource builds a parser over src, using name as the resulting
// Problem's name (typically the input file's base name).
func NewGrammarSource(name, src string) *GrammarSource {
	return &GrammarSource{
		src:       newLexer(src),
		name:      name,
		bank:      ncsp.NewBank(),
		vars:      map[string]*ncsp.Variable{},
		varDomain: map[*ncsp.Variable]interval.Interval{},
		consts:    map[string]float64{},
		alias:     map[string]term.Term{},
		funcs:     map[string]funcDef{},
	}
}

func (g *GrammarSource) advance() error {
	t, err := g.src.next()
	if err != nil {
		return err
	}
	g.cur = t
	return nil
}

func (g *GrammarSource) atEOF() bool { return g.cur.kind == tokEOF }

func (g *GrammarSource) isIdent(name string) bool {
	return g.cur.kind == tokIdent && g.cur.text == name
}

func (g *GrammarSource) isPunct(p string) bool {
	return (g.cur.kind == tokPunct || g.cur.kind == tokOp) && g.cur.text == p
}

func (g *GrammarSource) expectPunct(p string) error {
	if !g.isPunct(p) {
		return ncsperr.NewParseError(g.cur.line, "expected '"+p+"'")
	}
	return g.advance()
}

func (g *GrammarSource) expectIdent() (string, error) {
	if g.cur.kind != tokIdent {
		return "", ncsperr.NewParseError(g.cur.line, "expected an identifier")
	}
	name := g.cur.text
	return name, g.advance()
}

// Load runs the grammar over the source and returns the assembled Problem.
func (g *GrammarSource) Load() (*Problem, error) {
	if err := g.advance(); err != nil {
		return nil, err
	}
	p := New(g.name)
	p.Bank = g.bank

	for !g.atEOF() {
		var err error
		switch {
		case g.isIdent("Variables"):
			err = g.parseVariables()
		case g.isIdent("Constants"):
			err = g.parseConstants()
		case g.isIdent("Aliases"):
			err = g.parseAliases()
		case g.isIdent("Functions"):
			err = g.parseFunctions()
		case g.isIdent("Constraints"):
			err = g.parseConstraints(p)
		default:
			err = ncsperr.NewParseError(g.cur.line, "expected a section keyword, got '"+g.cur.text+"'")
		}
		if err != nil {
			return nil, err
		}
	}

	p.Vars = make([]*ncsp.Variable, 0, len(g.varOrder))
	ivals := make([]interval.Interval, 0, len(g.varOrder))
	for _, name := range g.varOrder {
		v := g.vars[name]
		p.Vars = append(p.Vars, v)
		ivals = append(ivals, g.varDomain[v])
	}
	p.InitialBox = ncsp.NewIntervalBox(p.Scope(), ivals)
	return p, nil
}

// parseVariables reads `Variables x in [a,b], y in [a,b] tol 1e-6A, i
// integer in [m,n];` declarations.
func (g *GrammarSource) parseVariables() error {
	if err := g.advance(); err != nil { // consume 'Variables'
		return err
	}
	for {
		kind := ncsp.Real
		if g.isIdent("integer") {
			kind = ncsp.Integer
			if err := g.advance(); err != nil {
				return err
			}
		} else if g.isIdent("binary") {
			kind = ncsp.Binary
			if err := g.advance(); err != nil {
				return err
			}
		}

		name, err := g.expectIdent()
		if err != nil {
			return err
		}
		if !g.isIdent("in") {
			return ncsperr.NewParseError(g.cur.line, "expected 'in' after variable name '"+name+"'")
		}
		if err := g.advance(); err != nil {
			return err
		}
		lo, hi, err := g.parseBracketInterval()
		if err != nil {
			return err
		}

		tol := ncsp.DefaultTolerance
		if g.isIdent("tol") {
			if err := g.advance(); err != nil {
				return err
			}
			tol, err = g.parseToleranceLiteral()
			if err != nil {
				return err
			}
		}

		v := g.bank.NewVariable(name, kind, tol)
		g.vars[name] = v
		g.varOrder = append(g.varOrder, name)
		g.varDomain[v] = interval.New(lo, hi)

		if g.isPunct(",") {
			if err := g.advance(); err != nil {
				return err
			}
			continue
		}
		return g.expectPunct(";")
	}
}

func (g *GrammarSource) parseBracketInterval() (float64, float64, error) {
	if err := g.expectPunct("["); err != nil {
		return 0, 0, err
	}
	lo, err := g.parseSignedNumber()
	if err != nil {
		return 0, 0, err
	}
	if err := g.expectPunct(","); err != nil {
		return 0, 0, err
	}
	hi, err := g.parseSignedNumber()
	if err != nil {
		return 0, 0, err
	}
	if err := g.expectPunct("]"); err != nil {
		return 0, 0, err
	}
	return lo, hi, nil
}

func (g *GrammarSource) parseSignedNumber() (float64, error) {
	neg := false
	if g.isPunct("-") {
		neg = true
		if err := g.advance(); err != nil {
			return 0, err
		}
	}
	if g.isIdent("inf") {
		if err := g.advance(); err != nil {
			return 0, err
		}
		if neg {
			return math.Inf(-1), nil
		}
		return math.Inf(1), nil
	}
	if g.cur.kind != tokNumber {
		return 0, ncsperr.NewParseError(g.cur.line, "expected a number")
	}
	v := g.cur.num
	if err := g.advance(); err != nil {
		return 0, err
	}
	if neg {
		v = -v
	}
	return v, nil
}

// parseToleranceLiteral reads `<number><A|R>`, e.g. 1e-6A or 0.01R.
func (g *GrammarSource) parseToleranceLiteral() (ncsp.Tolerance, error) {
	if g.cur.kind != tokNumber {
		return ncsp.Tolerance{}, ncsperr.NewParseError(g.cur.line, "expected a tolerance literal")
	}
	v := g.cur.num
	if err := g.advance(); err != nil {
		return ncsp.Tolerance{}, err
	}
	relative := false
	if g.cur.kind == tokIdent && (g.cur.text == "A" || g.cur.text == "R") {
		relative = g.cur.text == "R"
		if err := g.advance(); err != nil {
			return ncsp.Tolerance{}, err
		}
	}
	return ncsp.Tolerance{Value: v, Relative: relative}, nil
}

// parseConstants reads `Constants pi = 3.14159, e = 2.71828;`.
func (g *GrammarSource) parseConstants() error {
	if err := g.advance(); err != nil {
		return err
	}
	for {
		name, err := g.expectIdent()
		if err != nil {
			return err
		}
		if err := g.expectPunct("="); err != nil {
			return err
		}
		v, err := g.parseSignedNumber()
		if err != nil {
			return err
		}
		g.consts[name] = v

		if g.isPunct(",") {
			if err := g.advance(); err != nil {
				return err
			}
			continue
		}
		return g.expectPunct(";")
	}
}

// parseAliases reads `Aliases e = x+y;` — an alias is a named sub-expression
// substituted wherever its name appears later.
func (g *GrammarSource) parseAliases() error {
	if err := g.advance(); err != nil {
		return err
	}
	for {
		name, err := g.expectIdent()
		if err != nil {
			return err
		}
		if err := g.expectPunct("="); err != nil {
			return err
		}
		t, err := g.parseExpr()
		if err != nil {
			return err
		}
		g.alias[name] = t

		if g.isPunct(",") {
			if err := g.advance(); err != nil {
				return err
			}
			continue
		}
		return g.expectPunct(";")
	}
}

// parseFunctions reads `Functions f(u,v) = u*u + v;`, capturing the body's
// token stream unevaluated — each call site replays it with its own
// argument terms bound to u,v via paramEnv.
func (g *GrammarSource) parseFunctions() error {
	if err := g.advance(); err != nil {
		return err
	}
	for {
		name, err := g.expectIdent()
		if err != nil {
			return err
		}
		if err := g.expectPunct("("); err != nil {
			return err
		}
		var params []string
		for !g.isPunct(")") {
			pname, err := g.expectIdent()
			if err != nil {
				return err
			}
			params = append(params, pname)
			if g.isPunct(",") {
				if err := g.advance(); err != nil {
					return err
				}
				continue
			}
			break
		}
		if err := g.expectPunct(")"); err != nil {
			return err
		}
		if err := g.expectPunct("="); err != nil {
			return err
		}

		body, err := g.captureBalancedExpr()
		if err != nil {
			return err
		}
		g.funcs[name] = funcDef{params: params, body: body}

		if g.isPunct(",") {
			if err := g.advance(); err != nil {
				return err
			}
			continue
		}
		return g.expectPunct(";")
	}
}

// captureBalancedExpr records the current token and every following token
// up to (but excluding) the next top-level ',' or ';', tracking
// paren/bracket/brace depth so nested calls' commas are not mistaken for
// section separators.
func (g *GrammarSource) captureBalancedExpr() ([]token, error) {
	var toks []token
	depth := 0
	for {
		if depth == 0 && (g.isPunct(",") || g.isPunct(";")) {
			return toks, nil
		}
		if g.atEOF() {
			return nil, ncsperr.NewParseError(g.cur.line, "unexpected end of input in expression")
		}
		switch g.cur.text {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			depth--
		}
		toks = append(toks, g.cur)
		if err := g.advance(); err != nil {
			return nil, err
		}
	}
}

// parseConstraints reads `Constraints x^2+y<=1, f(x,y)==0, table({x,y},
// {0,1,2,3});` and appends a constraint.Constraint per declaration.
func (g *GrammarSource) parseConstraints(p *Problem) error {
	if err := g.advance(); err != nil {
		return err
	}
	for {
		c, err := g.parseConstraintDecl(p)
		if err != nil {
			return err
		}
		if c != nil {
			p.AddConstraint(c)
		}
		if g.isPunct(",") {
			if err := g.advance(); err != nil {
				return err
			}
			continue
		}
		return g.expectPunct(";")
	}
}

func (g *GrammarSource) parseConstraintDecl(p *Problem) (constraint.Constraint, error) {
	if g.isIdent("table") {
		return g.parseTableConstraint(p)
	}

	lhs, err := g.parseExpr()
	if err != nil {
		return nil, err
	}

	var rel constraint.Relation
	switch {
	case g.isPunct("=="):
		rel = constraint.Eq
	case g.isPunct("<="):
		rel = constraint.Le
	case g.isPunct(">="):
		rel = constraint.Ge
	case g.isPunct("<"):
		rel = constraint.Lt
	case g.isPunct(">"):
		rel = constraint.Gt
	default:
		return nil, ncsperr.NewParseError(g.cur.line, "expected a relational operator")
	}
	if err := g.advance(); err != nil {
		return nil, err
	}

	rhs, err := g.parseExpr()
	if err != nil {
		return nil, err
	}

	return constraint.NewArithmetic(p.DAG(), lhs, rhs, rel)
}

// parseTableConstraint reads `table({x,y}, {v1,v2, v3,v4, ...})`: a
// variable list followed by a flat row-major value list.
func (g *GrammarSource) parseTableConstraint(p *Problem) (constraint.Constraint, error) {
	if err := g.advance(); err != nil { // consume 'table'
		return nil, err
	}
	if err := g.expectPunct("("); err != nil {
		return nil, err
	}
	if err := g.expectPunct("{"); err != nil {
		return nil, err
	}
	var vars []*ncsp.Variable
	for !g.isPunct("}") {
		name, err := g.expectIdent()
		if err != nil {
			return nil, err
		}
		v, ok := g.vars[name]
		if !ok {
			return nil, ncsperr.NewParseError(g.cur.line, "unknown variable '"+name+"' in table()")
		}
		vars = append(vars, v)
		if g.isPunct(",") {
			if err := g.advance(); err != nil {
				return nil, err
			}
		}
	}
	if err := g.expectPunct("}"); err != nil {
		return nil, err
	}
	if err := g.expectPunct(","); err != nil {
		return nil, err
	}
	if err := g.expectPunct("{"); err != nil {
		return nil, err
	}
	var flat []float64
	for !g.isPunct("}") {
		v, err := g.parseSignedNumber()
		if err != nil {
			return nil, err
		}
		flat = append(flat, v)
		if g.isPunct(",") {
			if err := g.advance(); err != nil {
				return nil, err
			}
		}
	}
	if err := g.expectPunct("}"); err != nil {
		return nil, err
	}
	if err := g.expectPunct(")"); err != nil {
		return nil, err
	}

	n := len(vars)
	if n == 0 || len(flat)%n != 0 {
		return nil, ncsperr.NewParseError(g.cur.line, "table() value count is not a multiple of its variable count")
	}
	rows := make([][]interval.Interval, len(flat)/n)
	for r := range rows {
		row := make([]interval.Interval, n)
		for c := 0; c < n; c++ {
			row[c] = interval.Point(flat[r*n+c])
		}
		rows[r] = row
	}
	return constraint.NewTable(vars, rows)
}
