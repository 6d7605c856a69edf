package compiler

import (
	"encoding/json"
	"fmt"
	"math/big"
)

// AST document format: one JSON object per node, each carrying a "type"
// discriminator and exactly the fields of that node type. Absent optional
// children are written as null. Statement-position expressions appear
// directly in the enclosing body.

type programDoc struct {
	Type string `json:"type"`
	Body []any  `json:"body"`
}

type functionDefDoc struct {
	Type       string     `json:"type"`
	Name       string     `json:"name"`
	ReturnType DataType   `json:"returnType"`
	Params     []paramDoc `json:"params"`
	Body       []any      `json:"body"`
}

type paramDoc struct {
	Type     string   `json:"type"`
	Name     string   `json:"name"`
	DataType DataType `json:"dataType"`
}

type varDeclDoc struct {
	Type     string   `json:"type"`
	Name     string   `json:"name"`
	DataType DataType `json:"dataType"`
	Init     any      `json:"init"`
}

type assignmentDoc struct {
	Type   string `json:"type"`
	Target string `json:"target"`
	Value  any    `json:"value"`
}

type valueDoc struct {
	Type  string `json:"type"`
	Value any    `json:"value"`
}

type ifDoc struct {
	Type       string `json:"type"`
	Test       any    `json:"test"`
	Consequent any    `json:"consequent"`
	Alternate  any    `json:"alternate"`
}

type whileDoc struct {
	Type string `json:"type"`
	Test any    `json:"test"`
	Body any    `json:"body"`
}

type blockDoc struct {
	Type string `json:"type"`
	Body []any  `json:"body"`
}

type binaryOpDoc struct {
	Type  string `json:"type"`
	Op    string `json:"op"`
	Left  any    `json:"left"`
	Right any    `json:"right"`
}

type callDoc struct {
	Type   string `json:"type"`
	Callee string `json:"callee"`
	Args   []any  `json:"args"`
}

type identifierDoc struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// MarshalAST encodes prog as an indented AST document.
func MarshalAST(prog *Program) ([]byte, error) {
	return json.MarshalIndent(encodeNode(prog), "", "  ")
}

// encoder converts nodes to their document structs.
type encoder struct {
	doc any
}

func encodeNode(n Node) any {
	if n == nil {
		return nil
	}
	e := &encoder{}
	n.Accept(e)
	return e.doc
}

func encodeExpr(x Expr) any {
	if x == nil {
		return nil
	}
	return encodeNode(x)
}

func encodeStmt(s Stmt) any {
	if s == nil {
		return nil
	}
	return encodeNode(s)
}

func encodeStmts(stmts []Stmt) []any {
	out := make([]any, 0, len(stmts))
	for _, s := range stmts {
		out = append(out, encodeNode(s))
	}
	return out
}

func (e *encoder) VisitProgram(p *Program) {
	body := make([]any, 0, len(p.Body))
	for _, f := range p.Body {
		body = append(body, encodeNode(f))
	}
	e.doc = programDoc{Type: "Program", Body: body}
}

func (e *encoder) VisitFunctionDef(f *FunctionDef) {
	params := make([]paramDoc, 0, len(f.Params))
	for _, p := range f.Params {
		params = append(params, paramDoc{Type: "Param", Name: p.Name, DataType: p.DataType})
	}
	e.doc = functionDefDoc{Type: "FunctionDef", Name: f.Name, ReturnType: f.ReturnType, Params: params, Body: encodeStmts(f.Body)}
}

func (e *encoder) VisitVarDecl(d *VarDecl) {
	e.doc = varDeclDoc{Type: "VarDecl", Name: d.Name, DataType: d.DataType, Init: encodeExpr(d.Init)}
}

func (e *encoder) VisitExprStmt(s *ExprStmt) {
	e.doc = encodeExpr(s.Expr)
}

func (e *encoder) VisitReturn(r *Return) {
	e.doc = valueDoc{Type: "Return", Value: encodeExpr(r.Value)}
}

func (e *encoder) VisitPrint(p *Print) {
	e.doc = valueDoc{Type: "Print", Value: encodeExpr(p.Value)}
}

func (e *encoder) VisitIf(i *If) {
	e.doc = ifDoc{Type: "If", Test: encodeExpr(i.Test), Consequent: encodeStmt(i.Consequent), Alternate: encodeStmt(i.Alternate)}
}

func (e *encoder) VisitWhile(w *While) {
	e.doc = whileDoc{Type: "While", Test: encodeExpr(w.Test), Body: encodeStmt(w.Body)}
}

func (e *encoder) VisitBlock(b *Block) {
	e.doc = blockDoc{Type: "Block", Body: encodeStmts(b.Body)}
}

func (e *encoder) VisitAssignment(a *Assignment) {
	e.doc = assignmentDoc{Type: "Assignment", Target: a.Target, Value: encodeExpr(a.Value)}
}

func (e *encoder) VisitBinaryOp(b *BinaryOp) {
	e.doc = binaryOpDoc{Type: "BinaryOp", Op: b.Op, Left: encodeExpr(b.Left), Right: encodeExpr(b.Right)}
}

func (e *encoder) VisitCall(c *Call) {
	args := make([]any, 0, len(c.Args))
	for _, a := range c.Args {
		args = append(args, encodeExpr(a))
	}
	e.doc = callDoc{Type: "Call", Callee: c.Callee, Args: args}
}

func (e *encoder) VisitIdentifier(id *Identifier) {
	e.doc = identifierDoc{Type: "Identifier", Name: id.Name}
}

func (e *encoder) VisitLiteral(l *Literal) {
	e.doc = valueDoc{Type: "Literal", Value: l.Value}
}

//  Decoding

// rawNode holds every field any node type may carry. Unknown fields are
// ignored so newer documents still load.
type rawNode struct {
	Type       string            `json:"type"`
	Name       string            `json:"name"`
	ReturnType DataType          `json:"returnType"`
	DataType   DataType          `json:"dataType"`
	Params     []rawNode         `json:"params"`
	Body       json.RawMessage   `json:"body"`
	Init       json.RawMessage   `json:"init"`
	Target     string            `json:"target"`
	Value      json.RawMessage   `json:"value"`
	Test       json.RawMessage   `json:"test"`
	Consequent json.RawMessage   `json:"consequent"`
	Alternate  json.RawMessage   `json:"alternate"`
	Op         string            `json:"op"`
	Left       json.RawMessage   `json:"left"`
	Right      json.RawMessage   `json:"right"`
	Callee     string            `json:"callee"`
	Args       []json.RawMessage `json:"args"`
}

// UnmarshalAST decodes an AST document produced by MarshalAST.
func UnmarshalAST(data []byte) (*Program, error) {
	var root rawNode
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("ast document: %w", err)
	}
	if root.Type != "Program" {
		return nil, fmt.Errorf("ast document: root node is %q, want Program", root.Type)
	}
	var funcs []rawNode
	if err := json.Unmarshal(root.Body, &funcs); err != nil {
		return nil, fmt.Errorf("ast document: Program.body: %w", err)
	}
	prog := &Program{}
	for _, raw := range funcs {
		f, err := decodeFunctionDef(raw)
		if err != nil {
			return nil, err
		}
		prog.Body = append(prog.Body, f)
	}
	return prog, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

func checkDataType(node, field string, dt DataType) error {
	if dt != TypeInt && dt != TypeVoid {
		return fmt.Errorf("ast document: %s.%s: unknown type %q", node, field, dt)
	}
	return nil
}

func decodeFunctionDef(raw rawNode) (*FunctionDef, error) {
	if raw.Type != "FunctionDef" {
		return nil, fmt.Errorf("ast document: Program.body holds %q, want FunctionDef", raw.Type)
	}
	if err := checkDataType("FunctionDef", "returnType", raw.ReturnType); err != nil {
		return nil, err
	}
	f := &FunctionDef{Name: raw.Name, ReturnType: raw.ReturnType}
	for _, p := range raw.Params {
		if p.Type != "Param" {
			return nil, fmt.Errorf("ast document: FunctionDef.params holds %q, want Param", p.Type)
		}
		if err := checkDataType("Param", "dataType", p.DataType); err != nil {
			return nil, err
		}
		f.Params = append(f.Params, Param{Name: p.Name, DataType: p.DataType})
	}
	body, err := decodeStmtList(raw.Body)
	if err != nil {
		return nil, err
	}
	f.Body = body
	return f, nil
}

func decodeStmtList(data json.RawMessage) ([]Stmt, error) {
	if isNull(data) {
		return nil, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("ast document: body: %w", err)
	}
	var stmts []Stmt
	for _, item := range items {
		s, err := decodeStmt(item)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	return stmts, nil
}

func decodeStmt(data json.RawMessage) (Stmt, error) {
	if isNull(data) {
		return nil, fmt.Errorf("ast document: missing statement")
	}
	var raw rawNode
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("ast document: %w", err)
	}
	switch raw.Type {
	case "VarDecl":
		if err := checkDataType("VarDecl", "dataType", raw.DataType); err != nil {
			return nil, err
		}
		init, err := decodeOptionalExpr(raw.Init)
		if err != nil {
			return nil, err
		}
		return &VarDecl{Name: raw.Name, DataType: raw.DataType, Init: init}, nil
	case "Return":
		value, err := decodeOptionalExpr(raw.Value)
		if err != nil {
			return nil, err
		}
		return &Return{Value: value}, nil
	case "Print":
		value, err := decodeExpr(raw.Value)
		if err != nil {
			return nil, err
		}
		return &Print{Value: value}, nil
	case "If":
		test, err := decodeExpr(raw.Test)
		if err != nil {
			return nil, err
		}
		cons, err := decodeStmt(raw.Consequent)
		if err != nil {
			return nil, err
		}
		node := &If{Test: test, Consequent: cons}
		if !isNull(raw.Alternate) {
			if node.Alternate, err = decodeStmt(raw.Alternate); err != nil {
				return nil, err
			}
		}
		return node, nil
	case "While":
		test, err := decodeExpr(raw.Test)
		if err != nil {
			return nil, err
		}
		body, err := decodeStmt(raw.Body)
		if err != nil {
			return nil, err
		}
		return &While{Test: test, Body: body}, nil
	case "Block":
		body, err := decodeStmtList(raw.Body)
		if err != nil {
			return nil, err
		}
		return &Block{Body: body}, nil
	}
	expr, err := decodeExpr(data)
	if err != nil {
		return nil, err
	}
	return &ExprStmt{Expr: expr}, nil
}

func decodeOptionalExpr(data json.RawMessage) (Expr, error) {
	if isNull(data) {
		return nil, nil
	}
	return decodeExpr(data)
}

func decodeExpr(data json.RawMessage) (Expr, error) {
	if isNull(data) {
		return nil, fmt.Errorf("ast document: missing expression")
	}
	var raw rawNode
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("ast document: %w", err)
	}
	switch raw.Type {
	case "Literal":
		if isNull(raw.Value) {
			return nil, fmt.Errorf("ast document: Literal.value is missing")
		}
		v := new(big.Int)
		if err := json.Unmarshal(raw.Value, v); err != nil {
			return nil, fmt.Errorf("ast document: Literal.value: %w", err)
		}
		return &Literal{Value: v}, nil
	case "Identifier":
		return &Identifier{Name: raw.Name}, nil
	case "Assignment":
		value, err := decodeExpr(raw.Value)
		if err != nil {
			return nil, err
		}
		return &Assignment{Target: raw.Target, Value: value}, nil
	case "BinaryOp":
		if !validOp(raw.Op) {
			return nil, fmt.Errorf("ast document: BinaryOp.op: unknown operator %q", raw.Op)
		}
		left, err := decodeExpr(raw.Left)
		if err != nil {
			return nil, err
		}
		right, err := decodeExpr(raw.Right)
		if err != nil {
			return nil, err
		}
		return &BinaryOp{Op: raw.Op, Left: left, Right: right}, nil
	case "Call":
		call := &Call{Callee: raw.Callee}
		for _, a := range raw.Args {
			arg, err := decodeExpr(a)
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, arg)
		}
		return call, nil
	}
	return nil, fmt.Errorf("ast document: unknown node type %q", raw.Type)
}

func validOp(op string) bool {
	for _, known := range binaryOps {
		if known == op {
			return true
		}
	}
	return false
}
