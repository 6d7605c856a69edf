package compiler

import (
	"strings"
)

// Preamble opens every generated module.
const Preamble = "# Transpiled Python Code\nimport sys\n\n"

const indentUnit = "    "

// CodeGen walks an analyzed AST and emits Python source text. Expressions
// are written straight into the current line; statements write whole lines.
type CodeGen struct {
	out    *strings.Builder
	indent int
	names  *renamer
}

func newCodeGen(prog *Program) *CodeGen {
	taken := make(map[string]bool)
	collectNames(prog, taken)
	return &CodeGen{out: &strings.Builder{}, names: newRenamer(taken)}
}

// Generate renders prog as a Python module. The same tree always yields the
// same text.
func Generate(prog *Program) string {
	cg := newCodeGen(prog)
	prog.Accept(cg)
	return cg.out.String()
}

func (cg *CodeGen) startLine() {
	cg.out.WriteString(strings.Repeat(indentUnit, cg.indent))
}

func (cg *CodeGen) endLine() {
	cg.out.WriteByte('\n')
}

// line writes one complete line at the current indentation.
func (cg *CodeGen) line(text string) {
	cg.startLine()
	cg.out.WriteString(text)
	cg.endLine()
}

// suite renders the body of a def/if/else/while one level deeper. A body
// that renders nothing becomes "pass".
func (cg *CodeGen) suite(render func()) {
	cg.indent++
	start := cg.out.Len()
	render()
	if cg.out.Len() == start {
		cg.line("pass")
	}
	cg.indent--
}

// branch renders the statement owned by if, else or while in its own scope.
// A Block contributes its statements; any other statement is rendered on
// its own and stripped of trailing whitespace.
func (cg *CodeGen) branch(body Stmt) {
	cg.names.push()
	defer cg.names.pop()
	cg.suite(func() {
		if b, ok := body.(*Block); ok {
			b.Accept(cg)
			return
		}
		saved := cg.out
		cg.out = &strings.Builder{}
		body.Accept(cg)
		text := strings.TrimRight(cg.out.String(), " \t\r\n")
		cg.out = saved
		if text != "" {
			cg.out.WriteString(text)
			cg.endLine()
		}
	})
}

func (cg *CodeGen) VisitProgram(p *Program) {
	for _, f := range p.Body {
		cg.names.declare(f.Name)
	}
	cg.out.WriteString(Preamble)
	for _, f := range p.Body {
		f.Accept(cg)
		cg.endLine()
	}
	cg.out.WriteString("\nif __name__ == '__main__':\n")
	cg.out.WriteString(indentUnit + cg.names.resolve("main") + "()\n")
}

func (cg *CodeGen) VisitFunctionDef(f *FunctionDef) {
	cg.names.push()
	defer cg.names.pop()

	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = cg.names.declare(p.Name)
	}
	cg.line("def " + cg.names.resolve(f.Name) + "(" + strings.Join(params, ", ") + "):")
	cg.suite(func() {
		for _, stmt := range f.Body {
			stmt.Accept(cg)
		}
	})
}

func (cg *CodeGen) VisitVarDecl(d *VarDecl) {
	// The initializer is rendered before the name is bound so that a
	// renamed declaration does not capture its own initializer.
	saved := cg.out
	cg.out = &strings.Builder{}
	if d.Init != nil {
		d.Init.Accept(cg)
	} else {
		cg.out.WriteString("0")
	}
	init := cg.out.String()
	cg.out = saved

	cg.line(cg.names.declare(d.Name) + " = " + init)
}

func (cg *CodeGen) VisitExprStmt(s *ExprStmt) {
	cg.startLine()
	if a, ok := s.Expr.(*Assignment); ok {
		cg.out.WriteString(cg.names.resolve(a.Target) + " = ")
		a.Value.Accept(cg)
	} else {
		s.Expr.Accept(cg)
	}
	cg.endLine()
}

func (cg *CodeGen) VisitReturn(r *Return) {
	cg.startLine()
	cg.out.WriteString("return")
	if r.Value != nil {
		cg.out.WriteByte(' ')
		r.Value.Accept(cg)
	}
	cg.endLine()
}

func (cg *CodeGen) VisitPrint(p *Print) {
	cg.startLine()
	cg.out.WriteString("print(int(")
	p.Value.Accept(cg)
	cg.out.WriteString("))")
	cg.endLine()
}

func (cg *CodeGen) VisitIf(i *If) {
	cg.startLine()
	cg.out.WriteString("if ")
	i.Test.Accept(cg)
	cg.out.WriteByte(':')
	cg.endLine()
	cg.branch(i.Consequent)
	if i.Alternate != nil {
		cg.line("else:")
		cg.branch(i.Alternate)
	}
}

func (cg *CodeGen) VisitWhile(w *While) {
	cg.startLine()
	cg.out.WriteString("while ")
	w.Test.Accept(cg)
	cg.out.WriteByte(':')
	cg.endLine()
	cg.branch(w.Body)
}

// VisitBlock renders the statements at the current level; a block opens no
// scope of its own.
func (cg *CodeGen) VisitBlock(b *Block) {
	for _, stmt := range b.Body {
		stmt.Accept(cg)
	}
}

// VisitAssignment renders an assignment nested inside an expression.
func (cg *CodeGen) VisitAssignment(a *Assignment) {
	cg.out.WriteString("(" + cg.names.resolve(a.Target) + " := ")
	a.Value.Accept(cg)
	cg.out.WriteByte(')')
}

// VisitBinaryOp always parenthesizes. "/" becomes "//" because every value
// is an integer.
func (cg *CodeGen) VisitBinaryOp(b *BinaryOp) {
	op := b.Op
	if op == "/" {
		op = "//"
	}
	cg.out.WriteByte('(')
	b.Left.Accept(cg)
	cg.out.WriteString(" " + op + " ")
	b.Right.Accept(cg)
	cg.out.WriteByte(')')
}

func (cg *CodeGen) VisitCall(c *Call) {
	cg.out.WriteString(cg.names.resolve(c.Callee) + "(")
	for i, arg := range c.Args {
		if i > 0 {
			cg.out.WriteString(", ")
		}
		arg.Accept(cg)
	}
	cg.out.WriteByte(')')
}

func (cg *CodeGen) VisitIdentifier(id *Identifier) {
	cg.out.WriteString(cg.names.resolve(id.Name))
}

func (cg *CodeGen) VisitLiteral(l *Literal) {
	cg.out.WriteString(l.Value.String())
}
