package compiler

import "fmt"

// Analyzer checks name resolution over a parsed Program. Each Analyzer owns
// its own SymbolTable and is used for exactly one Program.
type Analyzer struct {
	syms *SymbolTable
	errs []*SemanticError
}

func newAnalyzer() *Analyzer {
	return &Analyzer{syms: NewSymbolTable()}
}

// Analyze walks prog once and returns every semantic error found. An empty
// result means the program may be handed to Generate.
func Analyze(prog *Program) []*SemanticError {
	a := newAnalyzer()
	prog.Accept(a)
	return a.errs
}

func (a *Analyzer) errorf(n Node, format string, args ...any) {
	a.errs = append(a.errs, &SemanticError{Msg: fmt.Sprintf(format, args...), Line: n.Pos()})
}

// scoped runs body inside a fresh scope.
func (a *Analyzer) scoped(body Stmt) {
	a.syms.EnterScope()
	body.Accept(a)
	a.syms.ExitScope()
}

func (a *Analyzer) VisitProgram(p *Program) {
	// Register every signature before any body so functions can call each
	// other regardless of source order. A duplicate is reported and replaces
	// the earlier signature, as Program.Function resolves to the last one.
	for _, f := range p.Body {
		if a.syms.DeclaredInCurrent(f.Name) {
			a.errorf(f, "Function '%s' already declared", f.Name)
		}
		a.syms.Add(f.Name, Symbol{Kind: SymbolFunction, ReturnType: f.ReturnType, Params: f.Params})
	}
	for _, f := range p.Body {
		f.Accept(a)
	}
}

func (a *Analyzer) VisitFunctionDef(f *FunctionDef) {
	a.syms.EnterScope()
	for _, param := range f.Params {
		if a.syms.DeclaredInCurrent(param.Name) {
			a.errorf(f, "Variable '%s' already declared in this scope", param.Name)
		}
		a.syms.Add(param.Name, Symbol{Kind: SymbolVariable, DataType: param.DataType})
	}
	for _, stmt := range f.Body {
		stmt.Accept(a)
	}
	a.syms.ExitScope()
}

func (a *Analyzer) VisitVarDecl(d *VarDecl) {
	if a.syms.DeclaredInCurrent(d.Name) {
		a.errorf(d, "Variable '%s' already declared in this scope", d.Name)
	}
	// Registered even when duplicated so later uses do not cascade.
	a.syms.Add(d.Name, Symbol{Kind: SymbolVariable, DataType: d.DataType})
	if d.Init != nil {
		d.Init.Accept(a)
	}
}

func (a *Analyzer) VisitExprStmt(s *ExprStmt) {
	s.Expr.Accept(a)
}

func (a *Analyzer) VisitReturn(r *Return) {
	if r.Value != nil {
		r.Value.Accept(a)
	}
}

func (a *Analyzer) VisitPrint(p *Print) {
	p.Value.Accept(a)
}

func (a *Analyzer) VisitIf(i *If) {
	i.Test.Accept(a)
	a.scoped(i.Consequent)
	if i.Alternate != nil {
		a.scoped(i.Alternate)
	}
}

func (a *Analyzer) VisitWhile(w *While) {
	w.Test.Accept(a)
	a.scoped(w.Body)
}

// VisitBlock checks the statements in the scope the caller provides.
func (a *Analyzer) VisitBlock(b *Block) {
	for _, stmt := range b.Body {
		stmt.Accept(a)
	}
}

func (a *Analyzer) VisitAssignment(as *Assignment) {
	if _, ok := a.syms.Lookup(as.Target); !ok {
		a.errorf(as, "Assignment to undeclared variable '%s'", as.Target)
	}
	as.Value.Accept(a)
}

func (a *Analyzer) VisitBinaryOp(b *BinaryOp) {
	b.Left.Accept(a)
	b.Right.Accept(a)
}

// VisitCall resolves the callee only; argument count and types are not
// compared with the signature.
func (a *Analyzer) VisitCall(c *Call) {
	if sym, ok := a.syms.Lookup(c.Callee); !ok || sym.Kind != SymbolFunction {
		a.errorf(c, "Call to undeclared or non-function '%s'", c.Callee)
	}
	for _, arg := range c.Args {
		arg.Accept(a)
	}
}

func (a *Analyzer) VisitIdentifier(id *Identifier) {
	if _, ok := a.syms.Lookup(id.Name); !ok {
		a.errorf(id, "Use of undeclared variable '%s'", id.Name)
	}
}

func (a *Analyzer) VisitLiteral(*Literal) {}
