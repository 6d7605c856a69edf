package compiler

import (
	"fmt"
	"strings"
)

// LexicalError reports a character the lexer could not classify. It is
// recoverable: the character is skipped and scanning continues.
type LexicalError struct {
	Char rune
	Line int
	Msg  string // set for conditions other than a single illegal character
}

func (e *LexicalError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("%s at line %d", e.Msg, e.Line)
	}
	return fmt.Sprintf("Illegal character '%c' at line %d", e.Char, e.Line)
}

// SyntaxError is fatal. Tok is the offending token; AtEOF is set when the
// token stream ended before the grammar was satisfied.
type SyntaxError struct {
	Tok   Token
	AtEOF bool
}

func (e *SyntaxError) Error() string {
	if e.AtEOF {
		return "Syntax error at EOF"
	}
	return fmt.Sprintf("Syntax error at '%s' (line %d)", e.Tok.Lexeme, e.Tok.Line)
}

// SemanticError is one finding of the analyzer.
type SemanticError struct {
	Msg  string
	Line int // 0 when the node has no source position (decoded ASTs)
}

func (e *SemanticError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("Semantic Error: %s (line %d)", e.Msg, e.Line)
	}
	return "Semantic Error: " + e.Msg
}

// CompileError aggregates the semantic findings of a failed compilation.
type CompileError struct {
	Errors []*SemanticError
}

func (e *CompileError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, se := range e.Errors {
		msgs[i] = se.Error()
	}
	return strings.Join(msgs, "\n")
}

// RuntimeError is raised by the reference evaluator.
type RuntimeError struct {
	Msg string
}

func (e *RuntimeError) Error() string {
	return "runtime error: " + e.Msg
}
