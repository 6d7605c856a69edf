package compiler

import "fmt"

// reservedNames cannot be used as Python identifiers in a generated module:
// the Python keywords, plus the names the preamble and the entry point guard
// rely on. Source identifiers that collide with one are renamed.
var reservedNames = map[string]bool{
	"__name__": true, "sys": true,

	"False": true, "None": true, "True": true, "and": true, "as": true,
	"assert": true, "async": true, "await": true, "break": true, "class": true,
	"continue": true, "def": true, "del": true, "elif": true, "else": true,
	"except": true, "finally": true, "for": true, "from": true, "global": true,
	"if": true, "import": true, "in": true, "is": true, "lambda": true,
	"nonlocal": true, "not": true, "or": true, "pass": true, "raise": true,
	"return": true, "try": true, "while": true, "with": true, "yield": true,
}

// renamer maps source names to Python names. Python has one namespace per
// function, so a declaration that would hide a visible binding (an outer
// local, a parameter or a function) gets a fresh name instead.
type renamer struct {
	scopes []map[string]string
	taken  map[string]bool
}

func newRenamer(taken map[string]bool) *renamer {
	return &renamer{scopes: []map[string]string{make(map[string]string)}, taken: taken}
}

func (r *renamer) push() {
	r.scopes = append(r.scopes, make(map[string]string))
}

func (r *renamer) pop() {
	if len(r.scopes) > 1 {
		r.scopes = r.scopes[:len(r.scopes)-1]
	}
}

func (r *renamer) fresh(name string) string {
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s_%d", name, n)
		if !r.taken[candidate] {
			r.taken[candidate] = true
			return candidate
		}
	}
}

// declare binds name in the current scope and returns its Python name.
func (r *renamer) declare(name string) string {
	cur := r.scopes[len(r.scopes)-1]
	if py, ok := cur[name]; ok {
		return py
	}
	py := name
	if _, visible := r.lookup(name); visible || reservedNames[name] {
		py = r.fresh(name)
	}
	cur[name] = py
	r.taken[py] = true
	return py
}

func (r *renamer) lookup(name string) (string, bool) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if py, ok := r.scopes[i][name]; ok {
			return py, true
		}
	}
	return "", false
}

// resolve returns the Python name for a use of name.
func (r *renamer) resolve(name string) string {
	if py, ok := r.lookup(name); ok {
		return py
	}
	if reservedNames[name] {
		return name + "_"
	}
	return name
}

// nameCollector records every name spelled in a subtree.
type nameCollector struct {
	names map[string]bool
}

func collectNames(n Node, into map[string]bool) {
	n.Accept(&nameCollector{names: into})
}

func (c *nameCollector) VisitProgram(p *Program) {
	for _, f := range p.Body {
		f.Accept(c)
	}
}

func (c *nameCollector) VisitFunctionDef(f *FunctionDef) {
	c.names[f.Name] = true
	for _, p := range f.Params {
		c.names[p.Name] = true
	}
	for _, s := range f.Body {
		s.Accept(c)
	}
}

func (c *nameCollector) VisitVarDecl(d *VarDecl) {
	c.names[d.Name] = true
	if d.Init != nil {
		d.Init.Accept(c)
	}
}

func (c *nameCollector) VisitExprStmt(s *ExprStmt) { s.Expr.Accept(c) }

func (c *nameCollector) VisitReturn(r *Return) {
	if r.Value != nil {
		r.Value.Accept(c)
	}
}

func (c *nameCollector) VisitPrint(p *Print) { p.Value.Accept(c) }

func (c *nameCollector) VisitIf(i *If) {
	i.Test.Accept(c)
	i.Consequent.Accept(c)
	if i.Alternate != nil {
		i.Alternate.Accept(c)
	}
}

func (c *nameCollector) VisitWhile(w *While) {
	w.Test.Accept(c)
	w.Body.Accept(c)
}

func (c *nameCollector) VisitBlock(b *Block) {
	for _, s := range b.Body {
		s.Accept(c)
	}
}

func (c *nameCollector) VisitAssignment(a *Assignment) {
	c.names[a.Target] = true
	a.Value.Accept(c)
}

func (c *nameCollector) VisitBinaryOp(b *BinaryOp) {
	b.Left.Accept(c)
	b.Right.Accept(c)
}

func (c *nameCollector) VisitCall(call *Call) {
	c.names[call.Callee] = true
	for _, a := range call.Args {
		a.Accept(c)
	}
}

func (c *nameCollector) VisitIdentifier(id *Identifier) { c.names[id.Name] = true }

func (c *nameCollector) VisitLiteral(*Literal) {}
