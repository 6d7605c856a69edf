package compiler

import (
	"fmt"
	"io"
	"math/big"
)

// MaxCallDepth bounds recursion in the evaluator, in line with the default
// recursion limit of the Python interpreter running generated code.
const MaxCallDepth = 1000

// value is the result of an expression. none marks the missing result of a
// function that finished without returning a value. n is never mutated once
// stored; arithmetic always allocates a fresh result.
type value struct {
	n    *big.Int
	none bool
}

// frame is the variable environment of one active call.
type frame struct {
	scopes []map[string]value
}

func (f *frame) push() { f.scopes = append(f.scopes, make(map[string]value)) }
func (f *frame) pop()  { f.scopes = f.scopes[:len(f.scopes)-1] }

func (f *frame) declare(name string, v value) {
	f.scopes[len(f.scopes)-1][name] = v
}

func (f *frame) lookup(name string) (map[string]value, bool) {
	for i := len(f.scopes) - 1; i >= 0; i-- {
		if _, ok := f.scopes[i][name]; ok {
			return f.scopes[i], true
		}
	}
	return nil, false
}

// Evaluator is a tree-walking interpreter that defines the observable
// behaviour generated code must reproduce: block scoping, arbitrary precision
// integer arithmetic with floor division, comparisons yielding 0 or 1, and
// print writing one decimal value per line.
//
// The first runtime error is kept in err; every visit method returns early
// once it is set, so the walk unwinds without further side effects.
type Evaluator struct {
	prog  *Program
	out   io.Writer
	frame *frame
	depth int

	val       value // result of the last expression
	returning bool  // a return statement is unwinding the current call
	err       error
}

// Evaluate runs main and returns its result. Output of print goes to out.
// A main that returns nothing yields 0.
func Evaluate(prog *Program, out io.Writer) (*big.Int, error) {
	ev := &Evaluator{prog: prog, out: out}
	v, err := ev.call("main", nil)
	if err != nil {
		return nil, err
	}
	if v.none {
		return new(big.Int), nil
	}
	return v.n, nil
}

func (ev *Evaluator) fail(format string, args ...any) error {
	if ev.err == nil {
		ev.err = &RuntimeError{Msg: fmt.Sprintf(format, args...)}
	}
	return ev.err
}

func (ev *Evaluator) halted() bool { return ev.err != nil || ev.returning }

func (ev *Evaluator) eval(e Expr) (value, error) {
	e.Accept(ev)
	if ev.err != nil {
		return value{}, ev.err
	}
	return ev.val, nil
}

// number evaluates e and insists on an integer result.
func (ev *Evaluator) number(e Expr) (*big.Int, error) {
	v, err := ev.eval(e)
	if err != nil {
		return nil, err
	}
	if v.none {
		return nil, ev.fail("value of %s is used but the call returned nothing", e)
	}
	return v.n, nil
}

func (ev *Evaluator) call(name string, args []value) (value, error) {
	fn := ev.prog.Function(name)
	if fn == nil {
		return value{}, ev.fail("function '%s' is not defined", name)
	}
	if len(args) != len(fn.Params) {
		return value{}, ev.fail("%s() takes %d arguments but %d were given", name, len(fn.Params), len(args))
	}
	if ev.depth >= MaxCallDepth {
		return value{}, ev.fail("maximum call depth exceeded in %s()", name)
	}

	saved := ev.frame
	ev.frame = &frame{}
	ev.depth++
	defer func() {
		ev.frame = saved
		ev.depth--
		ev.returning = false
	}()

	ev.frame.push()
	for i, p := range fn.Params {
		ev.frame.declare(p.Name, args[i])
	}
	for _, stmt := range fn.Body {
		stmt.Accept(ev)
		if ev.err != nil {
			return value{}, ev.err
		}
		if ev.returning {
			return ev.val, nil
		}
	}
	return value{none: true}, nil
}

// scoped runs body inside a fresh scope of the current call.
func (ev *Evaluator) scoped(body Stmt) {
	ev.frame.push()
	defer ev.frame.pop()
	body.Accept(ev)
}

func (ev *Evaluator) VisitProgram(p *Program) {
	ev.call("main", nil)
}

func (ev *Evaluator) VisitFunctionDef(*FunctionDef) {}

func (ev *Evaluator) VisitVarDecl(d *VarDecl) {
	v := value{n: new(big.Int)}
	if d.Init != nil {
		var err error
		if v, err = ev.eval(d.Init); err != nil {
			return
		}
	}
	ev.frame.declare(d.Name, v)
}

func (ev *Evaluator) VisitExprStmt(s *ExprStmt) {
	ev.eval(s.Expr)
}

func (ev *Evaluator) VisitReturn(r *Return) {
	v := value{none: true}
	if r.Value != nil {
		var err error
		if v, err = ev.eval(r.Value); err != nil {
			return
		}
	}
	ev.val = v
	ev.returning = true
}

func (ev *Evaluator) VisitPrint(p *Print) {
	n, err := ev.number(p.Value)
	if err != nil {
		return
	}
	if _, err := io.WriteString(ev.out, n.String()+"\n"); err != nil {
		ev.fail("print: %v", err)
	}
}

func (ev *Evaluator) VisitIf(i *If) {
	test, err := ev.number(i.Test)
	if err != nil {
		return
	}
	if test.Sign() != 0 {
		ev.scoped(i.Consequent)
	} else if i.Alternate != nil {
		ev.scoped(i.Alternate)
	}
}

func (ev *Evaluator) VisitWhile(w *While) {
	for !ev.halted() {
		test, err := ev.number(w.Test)
		if err != nil || test.Sign() == 0 {
			return
		}
		ev.scoped(w.Body)
	}
}

func (ev *Evaluator) VisitBlock(b *Block) {
	for _, stmt := range b.Body {
		stmt.Accept(ev)
		if ev.halted() {
			return
		}
	}
}

func (ev *Evaluator) VisitAssignment(a *Assignment) {
	v, err := ev.eval(a.Value)
	if err != nil {
		return
	}
	scope, ok := ev.frame.lookup(a.Target)
	if !ok {
		ev.fail("assignment to undefined variable '%s'", a.Target)
		return
	}
	scope[a.Target] = v
	ev.val = v
}

func (ev *Evaluator) VisitBinaryOp(b *BinaryOp) {
	l, err := ev.number(b.Left)
	if err != nil {
		return
	}
	r, err := ev.number(b.Right)
	if err != nil {
		return
	}
	n, err := applyOp(b.Op, l, r)
	if err != nil {
		ev.fail("%v", err)
		return
	}
	ev.val = value{n: n}
}

func applyOp(op string, l, r *big.Int) (*big.Int, error) {
	bool2int := func(b bool) *big.Int {
		if b {
			return big.NewInt(1)
		}
		return new(big.Int)
	}
	switch op {
	case "+":
		return new(big.Int).Add(l, r), nil
	case "-":
		return new(big.Int).Sub(l, r), nil
	case "*":
		return new(big.Int).Mul(l, r), nil
	case "/":
		if r.Sign() == 0 {
			return nil, fmt.Errorf("integer division by zero")
		}
		q, _ := floorDivMod(l, r)
		return q, nil
	case "%":
		if r.Sign() == 0 {
			return nil, fmt.Errorf("integer modulo by zero")
		}
		_, m := floorDivMod(l, r)
		return m, nil
	case "==":
		return bool2int(l.Cmp(r) == 0), nil
	case "!=":
		return bool2int(l.Cmp(r) != 0), nil
	case "<":
		return bool2int(l.Cmp(r) < 0), nil
	case ">":
		return bool2int(l.Cmp(r) > 0), nil
	case "<=":
		return bool2int(l.Cmp(r) <= 0), nil
	case ">=":
		return bool2int(l.Cmp(r) >= 0), nil
	}
	return nil, fmt.Errorf("unknown operator %q", op)
}

// floorDivMod rounds the quotient toward negative infinity and gives the
// remainder the sign of the divisor, as Python's // and % do.
func floorDivMod(l, r *big.Int) (q, m *big.Int) {
	q, m = new(big.Int).QuoRem(l, r, new(big.Int))
	if m.Sign() != 0 && m.Sign() != r.Sign() {
		q.Sub(q, big.NewInt(1))
		m.Add(m, r)
	}
	return q, m
}

func (ev *Evaluator) VisitCall(c *Call) {
	args := make([]value, len(c.Args))
	for i, a := range c.Args {
		v, err := ev.eval(a)
		if err != nil {
			return
		}
		args[i] = v
	}
	v, err := ev.call(c.Callee, args)
	if err != nil {
		return
	}
	ev.val = v
}

func (ev *Evaluator) VisitIdentifier(id *Identifier) {
	scope, ok := ev.frame.lookup(id.Name)
	if !ok {
		ev.fail("name '%s' is not defined", id.Name)
		return
	}
	ev.val = scope[id.Name]
}

func (ev *Evaluator) VisitLiteral(l *Literal) {
	ev.val = value{n: l.Value}
}
