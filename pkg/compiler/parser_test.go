package compiler

import (
	"errors"
	"math/big"
	"strconv"
	"testing"

	"github.com/kr/pretty"
)

// lineEraser zeroes every Line field so trees can be compared by shape.
type lineEraser struct{}

func eraseLines(n Node) { n.Accept(lineEraser{}) }

func (e lineEraser) VisitProgram(p *Program) {
	for _, f := range p.Body {
		f.Accept(e)
	}
}

func (e lineEraser) VisitFunctionDef(f *FunctionDef) {
	f.Line = 0
	for _, s := range f.Body {
		s.Accept(e)
	}
}

func (e lineEraser) VisitVarDecl(d *VarDecl) {
	d.Line = 0
	if d.Init != nil {
		d.Init.Accept(e)
	}
}

func (e lineEraser) VisitExprStmt(s *ExprStmt) { s.Expr.Accept(e) }

func (e lineEraser) VisitReturn(r *Return) {
	r.Line = 0
	if r.Value != nil {
		r.Value.Accept(e)
	}
}

func (e lineEraser) VisitPrint(p *Print) {
	p.Line = 0
	p.Value.Accept(e)
}

func (e lineEraser) VisitIf(i *If) {
	i.Line = 0
	i.Test.Accept(e)
	i.Consequent.Accept(e)
	if i.Alternate != nil {
		i.Alternate.Accept(e)
	}
}

func (e lineEraser) VisitWhile(w *While) {
	w.Line = 0
	w.Test.Accept(e)
	w.Body.Accept(e)
}

func (e lineEraser) VisitBlock(b *Block) {
	b.Line = 0
	for _, s := range b.Body {
		s.Accept(e)
	}
}

func (e lineEraser) VisitAssignment(a *Assignment) {
	a.Line = 0
	a.Value.Accept(e)
}

func (e lineEraser) VisitBinaryOp(b *BinaryOp) {
	b.Line = 0
	b.Left.Accept(e)
	b.Right.Accept(e)
}

func (e lineEraser) VisitCall(c *Call) {
	c.Line = 0
	for _, a := range c.Args {
		a.Accept(e)
	}
}

func (e lineEraser) VisitIdentifier(i *Identifier) { i.Line = 0 }
func (e lineEraser) VisitLiteral(l *Literal)       { l.Line = 0 }

func mustParse(t *testing.T, src string) *Program {
	t.Helper()
	tokens, lexErrs := Lex(src)
	if len(lexErrs) != 0 {
		t.Fatalf("Lex(%q) errors: %v", src, lexErrs)
	}
	prog, err := Parse(tokens)
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", src, err)
	}
	return prog
}

// parseMainBody parses body as the body of int main() and returns its statements
// with line numbers erased.
func parseMainBody(t *testing.T, body string) []Stmt {
	t.Helper()
	prog := mustParse(t, "int main() {"+body+"}")
	eraseLines(prog)
	return prog.Body[0].Body
}

// num builds a literal the way the parser does, so compared trees share the
// same big.Int representation.
func num(v int64) *Literal { return bigNum(strconv.FormatInt(v, 10)) }

func bigNum(digits string) *Literal {
	n, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		panic("bad literal " + digits)
	}
	return &Literal{Value: n}
}

func ident(n string) *Identifier { return &Identifier{Name: n} }
func bin(op string, l, r Expr) *BinaryOp {
	return &BinaryOp{Op: op, Left: l, Right: r}
}

func TestParse_Expressions(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want Expr
	}{
		{
			name: "Precedence",
			src:  "1 + 2 * 3",
			want: bin("+", num(1), bin("*", num(2), num(3))),
		},
		{
			name: "Left associative",
			src:  "10 - 4 - 3",
			want: bin("-", bin("-", num(10), num(4)), num(3)),
		},
		{
			name: "Parentheses",
			src:  "(1 + 2) * 3",
			want: bin("*", bin("+", num(1), num(2)), num(3)),
		},
		{
			name: "Relational below additive",
			src:  "a + 1 < b % 2",
			want: bin("<", bin("+", ident("a"), num(1)), bin("%", ident("b"), num(2))),
		},
		{
			name: "Equality below relational",
			src:  "a < b == c >= d",
			want: bin("==", bin("<", ident("a"), ident("b")), bin(">=", ident("c"), ident("d"))),
		},
		{
			name: "Right associative assignment",
			src:  "a = b = 3",
			want: &Assignment{Target: "a", Value: &Assignment{Target: "b", Value: num(3)}},
		},
		{
			name: "Assignment of comparison",
			src:  "a = b != 0",
			want: &Assignment{Target: "a", Value: bin("!=", ident("b"), num(0))},
		},
		{
			name: "Calls",
			src:  "f() + g(1, h(x), y = 2)",
			want: bin("+",
				&Call{Callee: "f"},
				&Call{Callee: "g", Args: []Expr{
					num(1),
					&Call{Callee: "h", Args: []Expr{ident("x")}},
					&Assignment{Target: "y", Value: num(2)},
				}},
			),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmts := parseMainBody(t, tt.src+";")
			want := []Stmt{&ExprStmt{Expr: tt.want}}
			if diff := pretty.Diff(stmts, want); len(diff) > 0 {
				t.Errorf("AST mismatch for %q:\n%s", tt.src, diff)
			}
		})
	}
}

func TestParse_Statements(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []Stmt
	}{
		{
			name: "Declarations",
			body: "int x; int y = x + 1;",
			want: []Stmt{
				&VarDecl{Name: "x", DataType: TypeInt},
				&VarDecl{Name: "y", DataType: TypeInt, Init: bin("+", ident("x"), num(1))},
			},
		},
		{
			name: "Return and print",
			body: "print(x); return; return 0;",
			want: []Stmt{
				&Print{Value: ident("x")},
				&Return{},
				&Return{Value: num(0)},
			},
		},
		{
			name: "Empty statements are dropped",
			body: ";; x = 1; ;",
			want: []Stmt{
				&ExprStmt{Expr: &Assignment{Target: "x", Value: num(1)}},
			},
		},
		{
			name: "Nested blocks",
			body: "{ int a; { } }",
			want: []Stmt{
				&Block{Body: []Stmt{
					&VarDecl{Name: "a", DataType: TypeInt},
					&Block{},
				}},
			},
		},
		{
			name: "If else",
			body: "if (x > 0) { print(x); } else print(0);",
			want: []Stmt{
				&If{
					Test:       bin(">", ident("x"), num(0)),
					Consequent: &Block{Body: []Stmt{&Print{Value: ident("x")}}},
					Alternate:  &Print{Value: num(0)},
				},
			},
		},
		{
			name: "Dangling else binds to nearest if",
			body: "if (a) if (b) x = 1; else x = 2;",
			want: []Stmt{
				&If{
					Test: ident("a"),
					Consequent: &If{
						Test:       ident("b"),
						Consequent: &ExprStmt{Expr: &Assignment{Target: "x", Value: num(1)}},
						Alternate:  &ExprStmt{Expr: &Assignment{Target: "x", Value: num(2)}},
					},
				},
			},
		},
		{
			name: "Empty bodies",
			body: "while (x) ; if (y) ; else ;",
			want: []Stmt{
				&While{Test: ident("x"), Body: &Block{}},
				&If{Test: ident("y"), Consequent: &Block{}, Alternate: &Block{}},
			},
		},
		{
			name: "While",
			body: "while (i < 10) { i = i + 1; }",
			want: []Stmt{
				&While{
					Test: bin("<", ident("i"), num(10)),
					Body: &Block{Body: []Stmt{
						&ExprStmt{Expr: &Assignment{Target: "i", Value: bin("+", ident("i"), num(1))}},
					}},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmts := parseMainBody(t, tt.body)
			if diff := pretty.Diff(stmts, tt.want); len(diff) > 0 {
				t.Errorf("AST mismatch:\n%s", diff)
			}
		})
	}
}

func TestParse_Functions(t *testing.T) {
	prog := mustParse(t, `
int add(int a, int b) { return a + b; }
void noop() { }
int main() { return add(1, 2); }
`)
	eraseLines(prog)

	want := &Program{Body: []*FunctionDef{
		{
			Name:       "add",
			ReturnType: TypeInt,
			Params:     []Param{{Name: "a", DataType: TypeInt}, {Name: "b", DataType: TypeInt}},
			Body:       []Stmt{&Return{Value: bin("+", ident("a"), ident("b"))}},
		},
		{Name: "noop", ReturnType: TypeVoid},
		{
			Name:       "main",
			ReturnType: TypeInt,
			Body:       []Stmt{&Return{Value: &Call{Callee: "add", Args: []Expr{num(1), num(2)}}}},
		},
	}}
	if diff := pretty.Diff(prog, want); len(diff) > 0 {
		t.Errorf("AST mismatch:\n%s", diff)
	}
}

func TestParse_LineNumbers(t *testing.T) {
	prog := mustParse(t, "int main() {\n  int x = 1;\n  if (x)\n    print(x);\n}")
	f := prog.Body[0]
	if f.Line != 1 {
		t.Errorf("FunctionDef line: expected 1, got %d", f.Line)
	}
	if got := f.Body[0].Pos(); got != 2 {
		t.Errorf("VarDecl line: expected 2, got %d", got)
	}
	ifStmt := f.Body[1].(*If)
	if ifStmt.Line != 3 {
		t.Errorf("If line: expected 3, got %d", ifStmt.Line)
	}
	if got := ifStmt.Consequent.Pos(); got != 4 {
		t.Errorf("Print line: expected 4, got %d", got)
	}
}

func TestParse_LargeLiteral(t *testing.T) {
	body := parseMainBody(t, "return 99999999999999999999 + 007;")
	want := []Stmt{&Return{Value: bin("+", bigNum("99999999999999999999"), num(7))}}
	if diff := pretty.Diff(body, want); len(diff) > 0 {
		t.Errorf("AST mismatch:\n%s", diff)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"Empty input", "", "Syntax error at EOF"},
		{"Missing semicolon", "int main() { int x = 1 }", "Syntax error at '}' (line 1)"},
		{"Unclosed body", "int main() { return 0;", "Syntax error at EOF"},
		{"Statement at top level", "x = 1;", "Syntax error at 'x' (line 1)"},
		{"Bad parameter", "int f(a) { }", "Syntax error at 'a' (line 1)"},
		{"Missing operand", "int main() {\n return 1 + ; }", "Syntax error at ';' (line 2)"},
		{"Assignment to literal", "int main() { 1 = 2; }", "Syntax error at '=' (line 1)"},
		{"Print without parens", "int main() { print 1; }", "Syntax error at '1' (line 1)"},
		{"Trailing garbage", "int main() { } }", "Syntax error at '}' (line 1)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, _ := Lex(tt.src)
			prog, err := Parse(tokens)
			if err == nil {
				t.Fatalf("expected error, got program %v", prog)
			}
			if prog != nil {
				t.Errorf("expected no partial program, got %v", prog)
			}
			var syntaxErr *SyntaxError
			if !errors.As(err, &syntaxErr) {
				t.Fatalf("expected *SyntaxError, got %T", err)
			}
			if err.Error() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, err.Error())
			}
		})
	}
}
