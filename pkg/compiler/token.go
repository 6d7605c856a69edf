package compiler

import "fmt"

// TokenType identifies the category of a lexed token.
type TokenType int

const (
	EOF TokenType = iota // sentinel: end of input

	// Literals
	IDENTIFIER // variable / function name
	INTEGER    // decimal integer literal

	// Keywords
	INT    // "int"
	VOID   // "void"
	IF     // "if"
	ELSE   // "else"
	WHILE  // "while"
	RETURN // "return"
	PRINT  // "print"

	// Paired delimiters
	LBRACE // {
	RBRACE // }
	LPAREN // (
	RPAREN // )

	// Punctuation
	SEMICOLON // ;
	COMMA     // ,

	// Arithmetic operators
	PLUS    // +
	MINUS   // -
	STAR    // *
	SLASH   // /
	PERCENT // %

	// Assignment / comparison  (order matters: ASSIGN before EQUALS)
	ASSIGN     // =
	EQUALS     // ==
	NOT_EQ     // !=
	LESS       // <
	GREATER    // >
	LESS_EQ    // <=
	GREATER_EQ // >=
)

// tokenNames is indexed by TokenType.
var tokenNames = [...]string{
	EOF:        "EOF",
	IDENTIFIER: "IDENTIFIER",
	INTEGER:    "INTEGER",
	INT:        "INT",
	VOID:       "VOID",
	IF:         "IF",
	ELSE:       "ELSE",
	WHILE:      "WHILE",
	RETURN:     "RETURN",
	PRINT:      "PRINT",
	LBRACE:     "LBRACE",
	RBRACE:     "RBRACE",
	LPAREN:     "LPAREN",
	RPAREN:     "RPAREN",
	SEMICOLON:  "SEMICOLON",
	COMMA:      "COMMA",
	PLUS:       "PLUS",
	MINUS:      "MINUS",
	STAR:       "STAR",
	SLASH:      "SLASH",
	PERCENT:    "PERCENT",
	ASSIGN:     "ASSIGN",
	EQUALS:     "EQUALS",
	NOT_EQ:     "NOT_EQ",
	LESS:       "LESS",
	GREATER:    "GREATER",
	LESS_EQ:    "LESS_EQ",
	GREATER_EQ: "GREATER_EQ",
}

func (tt TokenType) String() string {
	if int(tt) >= 0 && int(tt) < len(tokenNames) {
		return tokenNames[tt]
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// binaryOps maps operator tokens to the operator text stored in BinaryOp.Op.
var binaryOps = map[TokenType]string{
	PLUS:       "+",
	MINUS:      "-",
	STAR:       "*",
	SLASH:      "/",
	PERCENT:    "%",
	EQUALS:     "==",
	NOT_EQ:     "!=",
	LESS:       "<",
	GREATER:    ">",
	LESS_EQ:    "<=",
	GREATER_EQ: ">=",
}

// Token is a single lexical unit produced by the Lexer.
type Token struct {
	Type   TokenType
	Lexeme string // the exact source text that was matched
	Line   int    // 1-based source line
}

func (t Token) String() string {
	return fmt.Sprintf("%-10s %-14q  line %d", t.Type, t.Lexeme, t.Line)
}
