package compiler

import (
	"fmt"
	"sort"
	"strings"
)

// SymbolKind distinguishes variables from functions.
type SymbolKind int

const (
	SymbolVariable SymbolKind = iota
	SymbolFunction
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolVariable:
		return "variable"
	case SymbolFunction:
		return "function"
	default:
		return "unknown"
	}
}

// Symbol is the descriptor stored for a declared name. DataType is set for
// variables; ReturnType and Params for functions.
type Symbol struct {
	Kind       SymbolKind
	DataType   DataType
	ReturnType DataType
	Params     []Param
}

// SymbolTable is a stack of lexical scopes. Index 0 is the global scope and
// is never popped.
type SymbolTable struct {
	scopes []map[string]Symbol
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{scopes: []map[string]Symbol{make(map[string]Symbol)}}
}

// EnterScope pushes an empty scope.
func (s *SymbolTable) EnterScope() {
	s.scopes = append(s.scopes, make(map[string]Symbol))
}

// ExitScope pops the current scope. The global scope always remains.
func (s *SymbolTable) ExitScope() {
	if len(s.scopes) > 1 {
		s.scopes = s.scopes[:len(s.scopes)-1]
	}
}

// Depth returns the number of scopes on the stack, including the global one.
func (s *SymbolTable) Depth() int {
	return len(s.scopes)
}

// Add binds name in the CURRENT scope, replacing any binding it already has
// there. Enclosing scopes are untouched.
func (s *SymbolTable) Add(name string, sym Symbol) {
	s.scopes[len(s.scopes)-1][name] = sym
}

// DeclaredInCurrent reports whether name is bound in the current scope itself.
func (s *SymbolTable) DeclaredInCurrent(name string) bool {
	_, ok := s.scopes[len(s.scopes)-1][name]
	return ok
}

// Lookup returns the innermost binding of name and whether it was found.
func (s *SymbolTable) Lookup(name string) (Symbol, bool) {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		if sym, ok := s.scopes[i][name]; ok {
			return sym, true
		}
	}
	return Symbol{}, false
}

// String returns a deterministically ordered dump of the table.
func (s *SymbolTable) String() string {
	var sb strings.Builder
	for i, scope := range s.scopes {
		if i == 0 {
			sb.WriteString("Globals:\n")
		} else {
			fmt.Fprintf(&sb, "Scope %d:\n", i)
		}
		if len(scope) == 0 {
			sb.WriteString("  (empty)\n")
			continue
		}
		names := make([]string, 0, len(scope))
		for name := range scope {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			sym := scope[name]
			if sym.Kind == SymbolFunction {
				params := make([]string, len(sym.Params))
				for j, p := range sym.Params {
					params[j] = string(p.DataType) + " " + p.Name
				}
				fmt.Fprintf(&sb, "  %-20s  function %s(%s)\n", name, sym.ReturnType, strings.Join(params, ", "))
			} else {
				fmt.Fprintf(&sb, "  %-20s  variable %s\n", name, sym.DataType)
			}
		}
	}
	return sb.String()
}
