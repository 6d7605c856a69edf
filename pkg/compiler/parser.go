package compiler

import (
	"math/big"
)

// Parser consumes the flat token slice produced by the Lexer and builds an AST.
// It is a pure syntax pass: names are not resolved here.
//
// Grammar:
//
//	program        = function { function } EOF
//	function       = type IDENTIFIER "(" [ param { "," param } ] ")" "{" { statement } "}"
//	param          = type IDENTIFIER
//	type           = "int" | "void"
//	statement      = varDecl | block | if | while | return | print | exprStmt | ";"
//	varDecl        = type IDENTIFIER [ "=" expression ] ";"
//	block          = "{" { statement } "}"
//	if             = "if" "(" expression ")" statement [ "else" statement ]
//	while          = "while" "(" expression ")" statement
//	return         = "return" [ expression ] ";"
//	print          = "print" "(" expression ")" ";"
//	exprStmt       = expression ";"
//	expression     = assignment
//	assignment     = IDENTIFIER "=" assignment | equality
//	equality       = relational (("==" | "!=") relational)*
//	relational     = additive (("<" | ">" | "<=" | ">=") additive)*
//	additive       = multiplicative (("+" | "-") multiplicative)*
//	multiplicative = primary (("*" | "/" | "%") primary)*
//	primary        = INTEGER | IDENTIFIER [ "(" args ")" ] | "(" expression ")"
type Parser struct {
	tokens []Token
	pos    int
}

func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// errorAt builds the fatal error for an unexpected token.
func (p *Parser) errorAt(tok Token) error {
	return &SyntaxError{Tok: tok, AtEOF: tok.Type == EOF}
}

// peek returns the current token without consuming it.
func (p *Parser) peek() Token {
	return p.peekAt(0)
}

// peekAt returns the token at the given offset from the current position.
func (p *Parser) peekAt(offset int) Token {
	if p.pos+offset >= len(p.tokens) {
		line := 1
		if n := len(p.tokens); n > 0 {
			line = p.tokens[n-1].Line
		}
		return Token{Type: EOF, Line: line}
	}
	return p.tokens[p.pos+offset]
}

// advance consumes and returns the current token.
func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// expect consumes the current token if it matches tt, otherwise returns an error.
func (p *Parser) expect(tt TokenType) (Token, error) {
	tok := p.peek()
	if tok.Type != tt {
		return tok, p.errorAt(tok)
	}
	return p.advance(), nil
}

// parseExpression is the entry point for expression parsing.
func (p *Parser) parseExpression() (Expr, error) {
	return p.parseAssignment()
}

// parseAssignment handles right-associative =
func (p *Parser) parseAssignment() (Expr, error) {
	if p.peek().Type == IDENTIFIER && p.peekAt(1).Type == ASSIGN {
		target := p.advance()
		p.advance() // =
		value, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		return &Assignment{Target: target.Lexeme, Value: value, Line: target.Line}, nil
	}
	return p.parseEquality()
}

// parseBinary parses one left-associative precedence level.
func (p *Parser) parseBinary(next func() (Expr, error), ops ...TokenType) (Expr, error) {
	expr, err := next()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		matched := false
		for _, op := range ops {
			if tok.Type == op {
				matched = true
				break
			}
		}
		if !matched {
			return expr, nil
		}
		p.advance()
		right, err := next()
		if err != nil {
			return nil, err
		}
		expr = &BinaryOp{Op: binaryOps[tok.Type], Left: expr, Right: right, Line: tok.Line}
	}
}

// parseEquality handles == and !=
func (p *Parser) parseEquality() (Expr, error) {
	return p.parseBinary(p.parseRelational, EQUALS, NOT_EQ)
}

// parseRelational handles <, >, <= and >=
func (p *Parser) parseRelational() (Expr, error) {
	return p.parseBinary(p.parseAdditive, LESS, GREATER, LESS_EQ, GREATER_EQ)
}

// parseAdditive handles + and -
func (p *Parser) parseAdditive() (Expr, error) {
	return p.parseBinary(p.parseMultiplicative, PLUS, MINUS)
}

// parseMultiplicative handles *, / and %
func (p *Parser) parseMultiplicative() (Expr, error) {
	return p.parseBinary(p.parsePrimary, STAR, SLASH, PERCENT)
}

func (p *Parser) parseCallArgs() ([]Expr, error) {
	var args []Expr
	if p.peek().Type != RPAREN {
		for {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)

			if p.peek().Type != COMMA {
				break
			}
			p.advance()
		}
	}

	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	return args, nil
}

// parsePrimary handles literals, variables, calls and parenthesised expressions.
func (p *Parser) parsePrimary() (Expr, error) {
	tok := p.peek()
	switch tok.Type {
	case INTEGER:
		p.advance()
		val, ok := new(big.Int).SetString(tok.Lexeme, 10)
		if !ok {
			return nil, p.errorAt(tok)
		}
		return &Literal{Value: val, Line: tok.Line}, nil

	case IDENTIFIER:
		p.advance()
		if p.peek().Type == LPAREN {
			p.advance() // (
			args, err := p.parseCallArgs()
			if err != nil {
				return nil, err
			}
			return &Call{Callee: tok.Lexeme, Args: args, Line: tok.Line}, nil
		}
		return &Identifier{Name: tok.Lexeme, Line: tok.Line}, nil

	case LPAREN:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN); err != nil {
			return nil, err
		}
		return expr, nil

	default:
		return nil, p.errorAt(tok)
	}
}

// parseType consumes "int" or "void".
func (p *Parser) parseType() (DataType, error) {
	tok := p.peek()
	switch tok.Type {
	case INT:
		p.advance()
		return TypeInt, nil
	case VOID:
		p.advance()
		return TypeVoid, nil
	}
	return "", p.errorAt(tok)
}

// parseVarDecl parses  type name [= expr] ;
func (p *Parser) parseVarDecl() (Stmt, error) {
	line := p.peek().Line
	dt, err := p.parseType()
	if err != nil {
		return nil, err
	}
	nameTok, err := p.expect(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	decl := &VarDecl{Name: nameTok.Lexeme, DataType: dt, Line: line}

	if p.peek().Type == ASSIGN {
		p.advance()
		init, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		decl.Init = init
	}

	if _, err := p.expect(SEMICOLON); err != nil {
		return nil, err
	}
	return decl, nil
}

// parseReturn parses  return [expr] ;
// The leading RETURN token has already been consumed by parseStatement.
func (p *Parser) parseReturn(line int) (Stmt, error) {
	if p.peek().Type == SEMICOLON {
		p.advance()
		return &Return{Line: line}, nil
	}

	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return nil, err
	}
	return &Return{Value: expr, Line: line}, nil
}

// parsePrint parses  print ( expr ) ;
// The leading PRINT token has already been consumed by parseStatement.
func (p *Parser) parsePrint(line int) (Stmt, error) {
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return nil, err
	}
	return &Print{Value: expr, Line: line}, nil
}

// parseStatementList parses statements up to the closing brace and consumes it.
func (p *Parser) parseStatementList() ([]Stmt, error) {
	var stmts []Stmt
	for p.peek().Type != RBRACE {
		if p.peek().Type == EOF {
			return nil, p.errorAt(p.peek())
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	p.advance() // }
	return stmts, nil
}

// parseBlock parses { stmt1; stmt2; ... }
// The leading LBRACE token has already been consumed by parseStatement.
func (p *Parser) parseBlock(line int) (Stmt, error) {
	stmts, err := p.parseStatementList()
	if err != nil {
		return nil, err
	}
	return &Block{Body: stmts, Line: line}, nil
}

// parseCondition parses ( expr )
func (p *Parser) parseCondition() (Expr, error) {
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	return cond, nil
}

// parseBody parses the statement governed by if, else or while. A lone
// ";" becomes an empty block so the owner always has a body.
func (p *Parser) parseBody() (Stmt, error) {
	line := p.peek().Line
	stmt, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	if stmt == nil {
		return &Block{Line: line}, nil
	}
	return stmt, nil
}

// parseIf parses if ( cond ) body [ else elseBody ]
// The leading IF token has already been consumed by parseStatement.
func (p *Parser) parseIf(line int) (Stmt, error) {
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}

	var elseBody Stmt
	if p.peek().Type == ELSE {
		p.advance()
		elseBody, err = p.parseBody()
		if err != nil {
			return nil, err
		}
	}

	return &If{Test: cond, Consequent: body, Alternate: elseBody, Line: line}, nil
}

// parseWhile parses while ( cond ) body
// The leading WHILE token has already been consumed by parseStatement.
func (p *Parser) parseWhile(line int) (Stmt, error) {
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	return &While{Test: cond, Body: body, Line: line}, nil
}

// parseStatement dispatches to the correct sub-parser based on the leading
// token. It returns a nil statement for an empty ";".
func (p *Parser) parseStatement() (Stmt, error) {
	tok := p.peek()
	switch tok.Type {

	case LBRACE:
		p.advance()
		return p.parseBlock(tok.Line)

	case IF:
		p.advance()
		return p.parseIf(tok.Line)

	case WHILE:
		p.advance()
		return p.parseWhile(tok.Line)

	case RETURN:
		p.advance()
		return p.parseReturn(tok.Line)

	case PRINT:
		p.advance()
		return p.parsePrint(tok.Line)

	case INT, VOID:
		return p.parseVarDecl()

	case SEMICOLON:
		p.advance()
		return nil, nil

	default:
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(SEMICOLON); err != nil {
			return nil, err
		}
		return &ExprStmt{Expr: expr}, nil
	}
}

// parseFunctionDef parses int name(params) { ... } or void name(params) { ... }
func (p *Parser) parseFunctionDef() (*FunctionDef, error) {
	line := p.peek().Line
	retType, err := p.parseType()
	if err != nil {
		return nil, err
	}
	nameTok, err := p.expect(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}

	var params []Param
	if p.peek().Type != RPAREN {
		for {
			dt, err := p.parseType()
			if err != nil {
				return nil, err
			}
			paramName, err := p.expect(IDENTIFIER)
			if err != nil {
				return nil, err
			}
			params = append(params, Param{Name: paramName.Lexeme, DataType: dt})

			if p.peek().Type != COMMA {
				break
			}
			p.advance()
		}
	}

	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(LBRACE); err != nil {
		return nil, err
	}

	body, err := p.parseStatementList()
	if err != nil {
		return nil, err
	}

	return &FunctionDef{Name: nameTok.Lexeme, ReturnType: retType, Params: params, Body: body, Line: line}, nil
}

// Parse builds the Program for a token stream. The first syntax error stops
// parsing and no partial tree is returned.
func Parse(tokens []Token) (*Program, error) {
	p := NewParser(tokens)
	prog := &Program{}
	for {
		f, err := p.parseFunctionDef()
		if err != nil {
			return nil, err
		}
		prog.Body = append(prog.Body, f)
		if p.peek().Type == EOF {
			return prog, nil
		}
	}
}
