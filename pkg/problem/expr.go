package problem

import (
	"strconv"

	"github.com/paveproof/ncsp/pkg/ncsperr"
	"github.com/paveproof/ncsp/pkg/term"
)

// parseExpr parses the grammar's additive level: `a + b - c`.
func (g *GrammarSource) parseExpr() (term.Term, error) {
	lhs, err := g.parseMul()
	if err != nil {
		return nil, err
	}
	for g.isPunct("+") || g.isPunct("-") {
		op := g.cur.text
		if err := g.advance(); err != nil {
			return nil, err
		}
		rhs, err := g.parseMul()
		if err != nil {
			return nil, err
		}
		if op == "+" {
			lhs = term.Add(lhs, rhs)
		} else {
			lhs = term.Sub(lhs, rhs)
		}
	}
	return lhs, nil
}

// parseMul parses `a * b / c`.
func (g *GrammarSource) parseMul() (term.Term, error) {
	lhs, err := g.parsePow()
	if err != nil {
		return nil, err
	}
	for g.isPunct("*") || g.isPunct("/") {
		op := g.cur.text
		if err := g.advance(); err != nil {
			return nil, err
		}
		rhs, err := g.parsePow()
		if err != nil {
			return nil, err
		}
		if op == "*" {
			lhs = term.Mul(lhs, rhs)
		} else {
			lhs = term.Div(lhs, rhs)
		}
	}
	return lhs, nil
}

// parsePow parses right-associative `a ^ n`, n a non-negative integer
// literal (pkg/term's PowInt carries only an integer exponent; a general
// real-exponent power is outside pkg/term's closed operator set).
func (g *GrammarSource) parsePow() (term.Term, error) {
	base, err := g.parseUnary()
	if err != nil {
		return nil, err
	}
	if g.isPunct("^") {
		if err := g.advance(); err != nil {
			return nil, err
		}
		if g.cur.kind != tokNumber {
			return nil, ncsperr.NewParseError(g.cur.line, "'^' exponent must be an integer literal")
		}
		n := int(g.cur.num)
		if err := g.advance(); err != nil {
			return nil, err
		}
		return term.PowInt(base, n), nil
	}
	return base, nil
}

// parseUnary parses a leading unary minus and `|x|` absolute-value bars.
func (g *GrammarSource) parseUnary() (term.Term, error) {
	if g.isPunct("-") {
		if err := g.advance(); err != nil {
			return nil, err
		}
		x, err := g.parseUnary()
		if err != nil {
			return nil, err
		}
		return term.Neg(x), nil
	}
	if g.isPunct("|") {
		if err := g.advance(); err != nil {
			return nil, err
		}
		x, err := g.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := g.expectPunct("|"); err != nil {
			return nil, err
		}
		return term.Abs(x), nil
	}
	return g.parsePrimary()
}

var unaryBuiltins = map[string]func(term.Term) term.Term{
	"abs":  term.Abs,
	"sgn":  term.Sgn,
	"sqr":  term.Sqr,
	"sqrt": term.Sqrt,
	"exp":  term.Exp,
	"log":  term.Log,
	"cos":  term.Cos,
	"sin":  term.Sin,
	"tan":  term.Tan,
}

var binaryBuiltins = map[string]func(term.Term, term.Term) term.Term{
	"min": term.Min,
	"max": term.Max,
}

// parsePrimary parses a number, `(expr)`, or an identifier: a bound
// parameter, a variable, a constant, an alias, a built-in call, or a
// user-defined function call.
func (g *GrammarSource) parsePrimary() (term.Term, error) {
	if g.cur.kind == tokNumber {
		v := g.cur.num
		if err := g.advance(); err != nil {
			return nil, err
		}
		return term.ConstF(v), nil
	}

	if g.isPunct("(") {
		if err := g.advance(); err != nil {
			return nil, err
		}
		x, err := g.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := g.expectPunct(")"); err != nil {
			return nil, err
		}
		return x, nil
	}

	if g.cur.kind != tokIdent {
		return nil, ncsperr.NewParseError(g.cur.line, "expected a number, '(', or identifier")
	}
	name := g.cur.text
	line := g.cur.line
	if err := g.advance(); err != nil {
		return nil, err
	}

	if !g.isPunct("(") {
		return g.resolveIdent(name, line)
	}

	if err := g.advance(); err != nil { // consume '('
		return nil, err
	}
	var args []term.Term
	for !g.isPunct(")") {
		a, err := g.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, a)
		if g.isPunct(",") {
			if err := g.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if err := g.expectPunct(")"); err != nil {
		return nil, err
	}

	if fn, ok := unaryBuiltins[name]; ok {
		if len(args) != 1 {
			return nil, ncsperr.NewParseError(line, name+"() takes exactly one argument")
		}
		return fn(args[0]), nil
	}
	if fn, ok := binaryBuiltins[name]; ok {
		if len(args) != 2 {
			return nil, ncsperr.NewParseError(line, name+"() takes exactly two arguments")
		}
		return fn(args[0], args[1]), nil
	}
	if name == "pow" {
		if len(args) != 2 {
			return nil, ncsperr.NewParseError(line, "pow() takes exactly two arguments")
		}
		n, ok := term.EvalConst(args[1])
		if !ok || !n.IsPoint() {
			return nil, ncsperr.NewParseError(line, "pow()'s second argument must be an integer literal")
		}
		return term.PowInt(args[0], int(n.Mid())), nil
	}

	return g.callUserFunc(name, args, line)
}

// resolveIdent resolves a bare identifier in priority order: a
// function-call parameter currently bound (paramEnv), a declared
// variable, a named constant, or a named alias.
func (g *GrammarSource) resolveIdent(name string, line int) (term.Term, error) {
	if g.paramEnv != nil {
		if t, ok := g.paramEnv[name]; ok {
			return t, nil
		}
	}
	if v, ok := g.vars[name]; ok {
		return term.Var(v), nil
	}
	if c, ok := g.consts[name]; ok {
		return term.ConstF(c), nil
	}
	if a, ok := g.alias[name]; ok {
		return a, nil
	}
	return nil, ncsperr.NewParseError(line, "undeclared identifier '"+name+"'")
}

// callUserFunc replays a Functions-section body's captured tokens with its
// parameters bound to args, restoring the caller's paramEnv afterward
// (calls do not nest inside their own body — recursive function
// definitions are not supported by this grammar).
func (g *GrammarSource) callUserFunc(name string, args []term.Term, line int) (term.Term, error) {
	fn, ok := g.funcs[name]
	if !ok {
		return nil, ncsperr.NewParseError(line, "undefined function '"+name+"'")
	}
	if len(args) != len(fn.params) {
		return nil, ncsperr.NewParseError(line, name+"() expects "+strconv.Itoa(len(fn.params))+" argument(s)")
	}

	env := make(map[string]term.Term, len(fn.params))
	for i, p := range fn.params {
		env[p] = args[i]
	}

	savedSrc, savedCur, savedEnv := g.src, g.cur, g.paramEnv
	g.src = &tokenSlice{toks: fn.body}
	g.paramEnv = env
	if err := g.advance(); err != nil {
		g.src, g.cur, g.paramEnv = savedSrc, savedCur, savedEnv
		return nil, err
	}

	body, err := g.parseExpr()

	g.src, g.cur, g.paramEnv = savedSrc, savedCur, savedEnv
	return body, err
}
