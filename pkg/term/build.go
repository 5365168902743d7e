package term

import (
	"github.com/paveproof/ncsp/pkg/interval"
	"github.com/paveproof/ncsp/pkg/ncsp"
)

// Const builds a constant leaf.
func Const(i interval.Interval) Term {
	return &ConstTerm{Val: i, scope: ncsp.NewScope()}
}

// ConstF builds a point-constant leaf.
func ConstF(v float64) Term { return Const(interval.Point(v)) }

// Var builds a variable leaf.
func Var(v *ncsp.Variable) Term {
	return &VarTerm{V: v, scope: ncsp.NewScope(v)}
}

// asLin reports t's Lin-equivalent form (const, coefficient-per-variable),
// used by Add/Sub/scalar-Mul to perform the §4.2 local canonicalizations.
func asLin(t Term) (float64, []*ncsp.Variable, []float64, bool) {
	switch v := t.(type) {
	case *ConstTerm:
		if v.Val.IsPoint() {
			return v.Val.Lo(), nil, nil, true
		}
		return 0, nil, nil, false
	case *LinTerm:
		return v.Const, v.Vars, v.Coefs, true
	case *VarTerm:
		return 0, []*ncsp.Variable{v.V}, []float64{1}, true
	default:
		return 0, nil, nil, false
	}
}

func makeLin(c float64, vars []*ncsp.Variable, coefs []float64) Term {
	sv, sc := sortLinEntries(vars, coefs)
	if len(sv) == 0 {
		return ConstF(c)
	}
	return &LinTerm{Const: c, Vars: sv, Coefs: sc, scope: linScope(sv)}
}

// Add builds x+y, collapsing into a single Lin node when both operands are
// linear (§4.2: "Sums of linear terms collapse into a single Lin node").
func Add(x, y Term) Term {
	if cx, vx, ax, ok1 := asLin(x); ok1 {
		if cy, vy, ay, ok2 := asLin(y); ok2 {
			vars := append(append([]*ncsp.Variable{}, vx...), vy...)
			coefs := append(append([]float64{}, ax...), ay...)
			return makeLin(cx+cy, vars, coefs)
		}
	}
	return &BinaryTerm{Op: OpAdd, X: x, Y: y, scope: scopeOf(x, y)}
}

// Sub builds x-y with the same Lin collapsing as Add.
func Sub(x, y Term) Term {
	if cx, vx, ax, ok1 := asLin(x); ok1 {
		if cy, vy, ay, ok2 := asLin(y); ok2 {
			vars := append(append([]*ncsp.Variable{}, vx...), vy...)
			coefs := append([]float64{}, ax...)
			for _, c := range ay {
				coefs = append(coefs, -c)
			}
			return makeLin(cx-cy, vars, coefs)
		}
	}
	return &BinaryTerm{Op: OpSub, X: x, Y: y, scope: scopeOf(x, y)}
}

// Neg builds -x, collapsing through Lin when possible.
func Neg(x Term) Term {
	if c, vars, coefs, ok := asLin(x); ok {
		neg := make([]float64, len(coefs))
		for i, v := range coefs {
			neg[i] = -v
		}
		return makeLin(-c, vars, neg)
	}
	return &UnaryTerm{Op: OpNeg, X: x, scope: scopeOf(x)}
}

// Mul builds x*y. Per §4.2, `x·constant` and `constant·x` become a Lin with
// one term (scaling); general products are not collapsed.
func Mul(x, y Term) Term {
	if cx, ok := asPointConst(x); ok {
		return scaleLin(y, cx)
	}
	if cy, ok := asPointConst(y); ok {
		return scaleLin(x, cy)
	}
	return &BinaryTerm{Op: OpMul, X: x, Y: y, scope: scopeOf(x, y)}
}

func asPointConst(t Term) (float64, bool) {
	if c, ok := t.(*ConstTerm); ok && c.Val.IsPoint() {
		return c.Val.Lo(), true
	}
	return 0, false
}

func scaleLin(t Term, k float64) Term {
	if c, vars, coefs, ok := asLin(t); ok {
		scaled := make([]float64, len(coefs))
		for i, v := range coefs {
			scaled[i] = v * k
		}
		return makeLin(c*k, vars, scaled)
	}
	return &BinaryTerm{Op: OpMul, X: ConstF(k), Y: t, scope: scopeOf(t)}
}

// Div builds x/y.
func Div(x, y Term) Term {
	return &BinaryTerm{Op: OpDiv, X: x, Y: y, scope: scopeOf(x, y)}
}

// Min builds min(x,y).
func Min(x, y Term) Term { return &BinaryTerm{Op: OpMin, X: x, Y: y, scope: scopeOf(x, y)} }

// Max builds max(x,y).
func Max(x, y Term) Term { return &BinaryTerm{Op: OpMax, X: x, Y: y, scope: scopeOf(x, y)} }

// PowInt builds x^n for integer n. `pow(x,2)` uses the dedicated Sqr unary
// node per §4.2.
func PowInt(x Term, n int) Term {
	if n == 2 {
		return Sqr(x)
	}
	return &BinaryTerm{Op: OpPowInt, X: x, N: n, scope: scopeOf(x)}
}

func unary(op UnaryOp, x Term) Term { return &UnaryTerm{Op: op, X: x, scope: scopeOf(x)} }

func Abs(x Term) Term  { return unary(OpAbs, x) }
func Sgn(x Term) Term  { return unary(OpSgn, x) }
func Sqr(x Term) Term  { return unary(OpSqr, x) }
func Sqrt(x Term) Term { return unary(OpSqrt, x) }
func Exp(x Term) Term  { return unary(OpExp, x) }
func Log(x Term) Term  { return unary(OpLog, x) }
func Cos(x Term) Term  { return unary(OpCos, x) }
func Sin(x Term) Term  { return unary(OpSin, x) }
func Tan(x Term) Term  { return unary(OpTan, x) }

// EvalConst folds a constant-only subtree to an Interval; returns
// (Empty, false) the moment it encounters a variable (§4.2).
func EvalConst(t Term) (interval.Interval, bool) {
	folder := &constFolder{ok: true}
	t.Accept(folder)
	if !folder.ok {
		return interval.Empty(), false
	}
	return folder.val, true
}

type constFolder struct {
	val interval.Interval
	ok  bool
}

func (f *constFolder) VisitConst(t *ConstTerm) { f.val = t.Val }
func (f *constFolder) VisitVar(t *VarTerm)      { f.ok = false }
func (f *constFolder) VisitUnary(t *UnaryTerm) {
	x, ok := EvalConst(t.X)
	if !ok {
		f.ok = false
		return
	}
	f.val = applyUnaryConst(t.Op, x)
}
func (f *constFolder) VisitBinary(t *BinaryTerm) {
	x, ok := EvalConst(t.X)
	if !ok {
		f.ok = false
		return
	}
	if t.Op == OpPowInt {
		f.val = interval.PowInt(x, t.N)
		return
	}
	y, ok2 := EvalConst(t.Y)
	if !ok2 {
		f.ok = false
		return
	}
	f.val = applyBinaryConst(t.Op, x, y)
}
func (f *constFolder) VisitLin(t *LinTerm) {
	if len(t.Vars) > 0 {
		f.ok = false
		return
	}
	f.val = interval.Point(t.Const)
}

func applyUnaryConst(op UnaryOp, x interval.Interval) interval.Interval {
	switch op {
	case OpNeg:
		return interval.Neg(x)
	case OpAbs:
		return interval.Abs(x)
	case OpSgn:
		return interval.Sgn(x)
	case OpSqr:
		return interval.Sqr(x)
	case OpSqrt:
		return interval.Sqrt(x)
	case OpExp:
		return interval.Exp(x)
	case OpLog:
		return interval.Log(x)
	case OpCos:
		return interval.Cos(x)
	case OpSin:
		return interval.Sin(x)
	case OpTan:
		return interval.Tan(x)
	}
	return interval.Empty()
}

func applyBinaryConst(op BinaryOp, x, y interval.Interval) interval.Interval {
	switch op {
	case OpAdd:
		return interval.Add(x, y)
	case OpSub:
		return interval.Sub(x, y)
	case OpMul:
		return interval.Mul(x, y)
	case OpDiv:
		return interval.Div(x, y)
	case OpMin:
		return interval.Min(x, y)
	case OpMax:
		return interval.Max(x, y)
	}
	return interval.Empty()
}
