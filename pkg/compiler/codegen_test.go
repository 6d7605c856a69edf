package compiler

import (
	"strings"
	"testing"
)

// assertContains checks if the generated code contains the expected substring.
func assertContains(t *testing.T, code, expected string) {
	t.Helper()
	if !strings.Contains(code, expected) {
		t.Errorf("Expected code to contain %q, but it didn't.\nCode:\n%s", expected, code)
	}
}

func generateSource(t *testing.T, src string) string {
	t.Helper()
	prog := mustParse(t, src)
	if errs := Analyze(prog); len(errs) != 0 {
		t.Fatalf("unexpected semantic errors: %v", errs)
	}
	return Generate(prog)
}

func TestGenerate_ScenarioA(t *testing.T) {
	code := generateSource(t, "int main(){ int x=10; if (x>5) { int y=20; print(y); } print(x); return 0; }")
	want := `# Transpiled Python Code
import sys

def main():
    x = 10
    if (x > 5):
        y = 20
        print(int(y))
    print(int(x))
    return 0


if __name__ == '__main__':
    main()
`
	if code != want {
		t.Errorf("generated code mismatch\ngot:\n%s\nwant:\n%s", code, want)
	}
}

func TestGenerate_ScenarioD(t *testing.T) {
	code := generateSource(t, "int add(int a,int b){ int result=a+b; return result; } int main(){ int x=5; int y=3; int sum=add(x,y); print(sum); return 0; }")
	want := `# Transpiled Python Code
import sys

def add(a, b):
    result = (a + b)
    return result

def main():
    x = 5
    y = 3
    sum = add(x, y)
    print(int(sum))
    return 0


if __name__ == '__main__':
    main()
`
	if code != want {
		t.Errorf("generated code mismatch\ngot:\n%s\nwant:\n%s", code, want)
	}
}

func TestGenerate_Statements(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected []string
	}{
		{
			name:     "Empty function",
			src:      "void f() { } int main() { f(); return 0; }",
			expected: []string{"def f():\n    pass\n", "    f()\n"},
		},
		{
			name:     "Uninitialized declaration",
			src:      "int main() { int x; return x; }",
			expected: []string{"    x = 0\n"},
		},
		{
			name:     "Bare return",
			src:      "void main() { return; }",
			expected: []string{"    return\n"},
		},
		{
			name:     "Integer division",
			src:      "int main() { print(7 / 2 % 3); return 0; }",
			expected: []string{"    print(int(((7 // 2) % 3)))\n"},
		},
		{
			name:     "Chained assignment",
			src:      "int main() { int a; int b; a = b = 3; return a; }",
			expected: []string{"    a = (b := 3)\n"},
		},
		{
			name:     "Assignment inside condition",
			src:      "int main() { int n; while ((n = n + 1) < 3) print(n); return 0; }",
			expected: []string{"    while ((n := (n + 1)) < 3):\n        print(int(n))\n"},
		},
		{
			name: "Non-block bodies",
			src:  "int main() { int x = 1; if (x) print(x); else x = 2; return 0; }",
			expected: []string{
				"    if x:\n        print(int(x))\n    else:\n        x = 2\n",
			},
		},
		{
			name: "Empty bodies",
			src:  "int main() { int x; while (x) ; if (x) { } else ; return 0; }",
			expected: []string{
				"    while x:\n        pass\n",
				"    if x:\n        pass\n    else:\n        pass\n",
			},
		},
		{
			name: "Else if chain",
			src:  "int main() { int x = 2; if (x == 1) print(1); else if (x == 2) print(2); else print(3); return 0; }",
			expected: []string{
				"    if (x == 1):\n" +
					"        print(int(1))\n" +
					"    else:\n" +
					"        if (x == 2):\n" +
					"            print(int(2))\n" +
					"        else:\n" +
					"            print(int(3))\n",
			},
		},
		{
			name: "Nested block flattens",
			src:  "int main() { { int a = 1; { print(a); } } return 0; }",
			expected: []string{
				"def main():\n    a = 1\n    print(int(a))\n    return 0\n",
			},
		},
		{
			name:     "Empty block only",
			src:      "int main() { { } }",
			expected: []string{"def main():\n    pass\n"},
		},
		{
			name:     "Literals beyond 64 bits",
			src:      "int main() { print(99999999999999999999 * 2); return 0; }",
			expected: []string{"    print(int((99999999999999999999 * 2)))\n"},
		},
		{
			name:     "Call arguments",
			src:      "int f(int a, int b, int c) { return a; } int main() { return f(1, 2 + 3, f(4, 5, 6)); }",
			expected: []string{"def f(a, b, c):\n", "    return f(1, (2 + 3), f(4, 5, 6))\n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code := generateSource(t, tt.src)
			for _, exp := range tt.expected {
				assertContains(t, code, exp)
			}
		})
	}
}

func TestGenerate_Renaming(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected []string
	}{
		{
			name: "Shadowed local",
			src:  "int main() { int x = 1; if (x) { int x = 2; print(x); } print(x); return 0; }",
			expected: []string{
				"    x = 1\n    if x:\n        x_1 = 2\n        print(int(x_1))\n    print(int(x))\n",
			},
		},
		{
			name: "Sibling scopes keep their names",
			src:  "int main() { int i = 0; while (i < 2) { int t = i; i = t + 1; } if (i) { int t = 5; print(t); } return 0; }",
			expected: []string{
				"        t = i\n",
				"        t = 5\n        print(int(t))\n",
			},
		},
		{
			name: "Fresh name avoids existing names",
			src:  "int main() { int x_1 = 1; int x = 2; if (x) { int x = 3; print(x + x_1); } return 0; }",
			expected: []string{
				"        x_2 = 3\n        print(int((x_2 + x_1)))\n",
			},
		},
		{
			name: "Local named like a function",
			src:  "int f() { return 1; } int main() { if (1) { int f = 2; print(f); } return f(); }",
			expected: []string{
				"        f_1 = 2\n        print(int(f_1))\n",
				"    return f()\n",
			},
		},
		{
			name: "Parameter shadowed in branch",
			src:  "int f(int n) { while (n) { int n = 0; print(n); } return n; } int main() { return f(0); }",
			expected: []string{
				"def f(n):\n    while n:\n        n_1 = 0\n        print(int(n_1))\n    return n\n",
			},
		},
		{
			name: "Initializer reads the outer binding",
			src:  "int main() { int x = 1; if (x) { int x = x + 1; print(x); } return 0; }",
			expected: []string{
				"        x_1 = (x + 1)\n        print(int(x_1))\n",
			},
		},
		{
			name: "Python keywords",
			src:  "int lambda(int pass) { int None = pass; return None; } int main() { return lambda(1); }",
			expected: []string{
				"def lambda_1(pass_1):\n    None_1 = pass_1\n    return None_1\n",
				"    return lambda_1(1)\n",
			},
		},
		{
			name: "Names the module itself uses",
			src:  "int __name__() { return 0; } int main() { int sys = 7; print(sys + __name__()); return 0; }",
			expected: []string{
				"def __name___1():\n    return 0\n",
				"    sys_1 = 7\n    print(int((sys_1 + __name___1())))\n",
				"if __name__ == '__main__':\n    main()\n",
			},
		},
		{
			name: "Entry point follows renamed main",
			src:  "int main() { return 0; }",
			expected: []string{
				"if __name__ == '__main__':\n    main()\n",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code := generateSource(t, tt.src)
			for _, exp := range tt.expected {
				assertContains(t, code, exp)
			}
		})
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	src := `int fib(int n) { if (n < 2) return n; return fib(n - 1) + fib(n - 2); }
int main() { int i = 0; while (i < 10) { int i2 = fib(i); print(i2); i = i + 1; } return 0; }`
	prog := mustParse(t, src)
	first := Generate(prog)
	for i := 0; i < 5; i++ {
		if got := Generate(prog); got != first {
			t.Fatalf("run %d produced different output:\n%s\nvs\n%s", i, got, first)
		}
	}
}
