package compiler

import (
	"fmt"
	"io"

	"minic/pkg/logger"
)

// Options controls a single compilation.
type Options struct {
	// Diagnostics receives one human-readable line per lexical, syntax or
	// semantic error. Nil discards them.
	Diagnostics io.Writer
	// Name identifies the source in log records.
	Name string
}

// Result holds everything a successful compilation produced.
type Result struct {
	Tokens    []Token
	Program   *Program
	Python    string
	AST       []byte
	LexErrors []*LexicalError
}

// Compile runs the whole pipeline over src. Lexical errors are reported and
// skipped. A syntax error is returned as *SyntaxError, and a program with
// semantic errors is returned as *CompileError; in both cases no Python text
// or AST document is produced.
func Compile(src string, opts Options) (*Result, error) {
	log := logger.With("source", opts.Name)
	diag := opts.Diagnostics
	if diag == nil {
		diag = io.Discard
	}

	tokens, lexErrs := Lex(src)
	for _, e := range lexErrs {
		fmt.Fprintln(diag, e)
	}
	logger.LogPhase(log, "lex", "tokens", len(tokens), "errors", len(lexErrs))

	prog, err := Parse(tokens)
	if err != nil {
		fmt.Fprintln(diag, err)
		log.Debug("parse failed", "error", err)
		return nil, err
	}
	logger.LogPhase(log, "parse", "functions", len(prog.Body))

	if semErrs := Analyze(prog); len(semErrs) > 0 {
		for _, e := range semErrs {
			fmt.Fprintln(diag, e)
		}
		log.Debug("analysis failed", "errors", len(semErrs))
		return nil, &CompileError{Errors: semErrs}
	}
	logger.LogPhase(log, "analyze")

	python := Generate(prog)
	logger.LogPhase(log, "codegen", "bytes", len(python))

	doc, err := MarshalAST(prog)
	if err != nil {
		return nil, fmt.Errorf("encoding AST: %w", err)
	}

	return &Result{
		Tokens:    tokens,
		Program:   prog,
		Python:    python,
		AST:       doc,
		LexErrors: lexErrs,
	}, nil
}
