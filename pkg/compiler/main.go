// Package compiler provides a lexer, parser, semantic analyzer and code
// generator that translate a small C-like language into Python 3 source.
//
// Pipeline: source → Lex → Parse → Analyze → Generate → Python text
//
// The AST can also be written to and read from a JSON document, and
// Evaluate runs a program directly as a reference for generated code.
package compiler
