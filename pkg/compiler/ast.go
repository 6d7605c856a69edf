package compiler

import (
	"fmt"
	"math/big"
	"strings"
)

// DataType is the declared type of a variable, parameter or function result.
type DataType string

const (
	TypeInt  DataType = "int"
	TypeVoid DataType = "void"
)

// Node is implemented by every AST node. Accept dispatches to the Visitor
// method for the node's concrete type, so adding a node type means adding a
// Visitor method and every pass stops compiling until it handles it.
type Node interface {
	Accept(v Visitor)
	Pos() int // 1-based source line of the node's leading token, 0 if unknown
}

// Visitor has one method per AST node type.
type Visitor interface {
	VisitProgram(*Program)
	VisitFunctionDef(*FunctionDef)
	VisitVarDecl(*VarDecl)
	VisitExprStmt(*ExprStmt)
	VisitReturn(*Return)
	VisitPrint(*Print)
	VisitIf(*If)
	VisitWhile(*While)
	VisitBlock(*Block)
	VisitAssignment(*Assignment)
	VisitBinaryOp(*BinaryOp)
	VisitCall(*Call)
	VisitIdentifier(*Identifier)
	VisitLiteral(*Literal)
}

//  Expression nodes

// Expr is implemented by every node that produces a value.
type Expr interface {
	Node
	exprNode()
	String() string
}

// Literal is a non-negative integer constant of any size.
//
//	int x = 10;
//	        ^^  Literal{Value: 10}
type Literal struct {
	Value *big.Int
	Line  int
}

func (*Literal) exprNode()          {}
func (l *Literal) Pos() int         { return l.Line }
func (l *Literal) Accept(v Visitor) { v.VisitLiteral(l) }
func (l *Literal) String() string   { return l.Value.String() }

// Identifier is a read of a named variable.
//
//	return x;
//	       ^  Identifier{Name: "x"}
type Identifier struct {
	Name string
	Line int
}

func (*Identifier) exprNode()          {}
func (i *Identifier) Pos() int         { return i.Line }
func (i *Identifier) Accept(v Visitor) { v.VisitIdentifier(i) }
func (i *Identifier) String() string   { return i.Name }

// BinaryOp represents Left Op Right, where Op is the operator text
// ("+", "<=", ...).
//
//	x + 1
//	^ ^ ^
//	| | |
//	| | Right
//	| Op
//	Left
type BinaryOp struct {
	Op    string
	Left  Expr
	Right Expr
	Line  int
}

func (*BinaryOp) exprNode()          {}
func (b *BinaryOp) Pos() int         { return b.Line }
func (b *BinaryOp) Accept(v Visitor) { v.VisitBinaryOp(b) }
func (b *BinaryOp) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right)
}

// Assignment represents Target = Value. It is an expression so that
// a = b = c parses right-associatively.
type Assignment struct {
	Target string
	Value  Expr
	Line   int
}

func (*Assignment) exprNode()          {}
func (a *Assignment) Pos() int         { return a.Line }
func (a *Assignment) Accept(v Visitor) { v.VisitAssignment(a) }
func (a *Assignment) String() string {
	return fmt.Sprintf("(%s = %s)", a.Target, a.Value)
}

// Call represents callee(args)
type Call struct {
	Callee string
	Args   []Expr
	Line   int
}

func (*Call) exprNode()          {}
func (c *Call) Pos() int         { return c.Line }
func (c *Call) Accept(v Visitor) { v.VisitCall(c) }
func (c *Call) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.Callee, strings.Join(args, ", "))
}

//  Statement nodes

// Stmt is implemented by every node that does not produce a value.
type Stmt interface {
	Node
	stmtNode()
}

// VarDecl represents  int name [= init];
type VarDecl struct {
	Name     string
	DataType DataType
	Init     Expr // may be nil
	Line     int
}

func (*VarDecl) stmtNode()          {}
func (d *VarDecl) Pos() int         { return d.Line }
func (d *VarDecl) Accept(v Visitor) { v.VisitVarDecl(d) }

// ExprStmt is an expression evaluated for its side effects (an assignment
// or a call). It has no representation of its own in the AST document.
type ExprStmt struct {
	Expr Expr
}

func (*ExprStmt) stmtNode()          {}
func (e *ExprStmt) Pos() int         { return e.Expr.Pos() }
func (e *ExprStmt) Accept(v Visitor) { v.VisitExprStmt(e) }

// Return represents  return [value];
type Return struct {
	Value Expr // may be nil
	Line  int
}

func (*Return) stmtNode()          {}
func (r *Return) Pos() int         { return r.Line }
func (r *Return) Accept(v Visitor) { v.VisitReturn(r) }

// Print represents  print(value);
type Print struct {
	Value Expr
	Line  int
}

func (*Print) stmtNode()          {}
func (p *Print) Pos() int         { return p.Line }
func (p *Print) Accept(v Visitor) { v.VisitPrint(p) }

// If represents if (test) consequent [else alternate]
type If struct {
	Test       Expr
	Consequent Stmt
	Alternate  Stmt // may be nil
	Line       int
}

func (*If) stmtNode()          {}
func (i *If) Pos() int         { return i.Line }
func (i *If) Accept(v Visitor) { v.VisitIf(i) }

// While represents while (test) body
type While struct {
	Test Expr
	Body Stmt
	Line int
}

func (*While) stmtNode()          {}
func (w *While) Pos() int         { return w.Line }
func (w *While) Accept(v Visitor) { v.VisitWhile(w) }

// Block represents { statement ... }. A block does not open a scope of its
// own; scopes belong to functions, if branches and while bodies.
type Block struct {
	Body []Stmt
	Line int
}

func (*Block) stmtNode()          {}
func (b *Block) Pos() int         { return b.Line }
func (b *Block) Accept(v Visitor) { v.VisitBlock(b) }

//  Top level

// Param is a single function parameter.
type Param struct {
	Name     string
	DataType DataType
}

// FunctionDef represents  type name(params) { body }
type FunctionDef struct {
	Name       string
	ReturnType DataType
	Params     []Param
	Body       []Stmt
	Line       int
}

func (f *FunctionDef) Pos() int         { return f.Line }
func (f *FunctionDef) Accept(v Visitor) { v.VisitFunctionDef(f) }

// Program is the root of the tree: the functions in source order.
type Program struct {
	Body []*FunctionDef
}

func (p *Program) Pos() int         { return 1 }
func (p *Program) Accept(v Visitor) { v.VisitProgram(p) }

// Function returns the last definition named name, or nil. The last one
// wins, as it does in the generated module.
func (p *Program) Function(name string) *FunctionDef {
	for i := len(p.Body) - 1; i >= 0; i-- {
		if p.Body[i].Name == name {
			return p.Body[i]
		}
	}
	return nil
}
