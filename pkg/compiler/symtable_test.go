package compiler

import (
	"testing"
)

func TestSymbolTable(t *testing.T) {
	t.Run("GlobalScope", func(t *testing.T) {
		s := NewSymbolTable()
		if s.Depth() != 1 {
			t.Fatalf("new table depth: expected 1, got %d", s.Depth())
		}
		s.Add("main", Symbol{Kind: SymbolFunction, ReturnType: TypeInt})

		sym, ok := s.Lookup("main")
		if !ok {
			t.Fatal("main not found")
		}
		if sym.Kind != SymbolFunction || sym.ReturnType != TypeInt {
			t.Errorf("main: unexpected symbol %+v", sym)
		}
		if _, ok := s.Lookup("missing"); ok {
			t.Error("lookup of an unbound name succeeded")
		}
	})

	t.Run("ExitScopeKeepsGlobal", func(t *testing.T) {
		s := NewSymbolTable()
		s.Add("g", Symbol{Kind: SymbolVariable, DataType: TypeInt})
		s.ExitScope()
		s.ExitScope()
		if s.Depth() != 1 {
			t.Errorf("depth after popping global: expected 1, got %d", s.Depth())
		}
		if _, ok := s.Lookup("g"); !ok {
			t.Error("global binding lost after ExitScope")
		}
	})

	t.Run("Shadowing", func(t *testing.T) {
		s := NewSymbolTable()
		s.Add("x", Symbol{Kind: SymbolFunction, ReturnType: TypeVoid})
		s.EnterScope()
		s.Add("x", Symbol{Kind: SymbolVariable, DataType: TypeInt})

		sym, _ := s.Lookup("x")
		if sym.Kind != SymbolVariable {
			t.Errorf("inner lookup: expected variable, got %v", sym.Kind)
		}
		if !s.DeclaredInCurrent("x") {
			t.Error("x should be declared in the current scope")
		}

		s.EnterScope()
		if s.DeclaredInCurrent("x") {
			t.Error("x should not be declared in a fresh scope")
		}
		if sym, _ := s.Lookup("x"); sym.Kind != SymbolVariable {
			t.Errorf("lookup through fresh scope: expected variable, got %v", sym.Kind)
		}

		s.ExitScope()
		s.ExitScope()
		sym, _ = s.Lookup("x")
		if sym.Kind != SymbolFunction {
			t.Errorf("after exit: expected function, got %v", sym.Kind)
		}
	})

	t.Run("AddOverwritesCurrentOnly", func(t *testing.T) {
		s := NewSymbolTable()
		s.Add("x", Symbol{Kind: SymbolVariable, DataType: TypeInt})
		s.EnterScope()
		s.Add("x", Symbol{Kind: SymbolVariable, DataType: TypeVoid})
		s.Add("x", Symbol{Kind: SymbolVariable, DataType: TypeInt})
		s.ExitScope()

		sym, _ := s.Lookup("x")
		if sym.DataType != TypeInt {
			t.Errorf("outer binding changed: got %+v", sym)
		}
	})

	t.Run("String", func(t *testing.T) {
		s := NewSymbolTable()
		s.Add("main", Symbol{Kind: SymbolFunction, ReturnType: TypeInt})
		s.Add("add", Symbol{Kind: SymbolFunction, ReturnType: TypeInt, Params: []Param{
			{Name: "a", DataType: TypeInt}, {Name: "b", DataType: TypeInt},
		}})
		s.EnterScope()
		s.Add("y", Symbol{Kind: SymbolVariable, DataType: TypeInt})
		s.EnterScope()

		want := "Globals:\n" +
			"  add                   function int(int a, int b)\n" +
			"  main                  function int()\n" +
			"Scope 1:\n" +
			"  y                     variable int\n" +
			"Scope 2:\n" +
			"  (empty)\n"
		if got := s.String(); got != want {
			t.Errorf("String() mismatch\ngot:\n%s\nwant:\n%s", got, want)
		}
	})
}

func TestSymbolKind_String(t *testing.T) {
	if SymbolVariable.String() != "variable" || SymbolFunction.String() != "function" {
		t.Errorf("unexpected kind names %q %q", SymbolVariable, SymbolFunction)
	}
}
