package mython

import (
	"strings"
	"testing"
)

func compileExpectError(t *testing.T, source, wantSubstring string) {
	t.Helper()
	engine := NewEngine(Config{})
	_, err := engine.Compile(source)
	if err == nil {
		t.Fatalf("expected parse error containing %q, got none", wantSubstring)
	}
	if !strings.Contains(err.Error(), wantSubstring) {
		t.Fatalf("error %q does not contain %q", err.Error(), wantSubstring)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name   string
		source string
		want   string
	}{
		{"def at top level", "def m(self):\n  return 1\n", "only allowed inside a class"},
		{"stray indent", "  x = 1\n", "unexpected change of indentation"},
		{"unknown base class", "class B(A):\n  def m(self):\n    return 1\n", "base class A is not defined"},
		{"non-def in class body", "class C:\n  x = 1\n", "expected a method definition"},
		{"method without self", "class C:\n  def m(a):\n    return a\n", "must be self"},
		{"assignment to literal", "1 = 2\n", "left side of assignment"},
		{"unknown class call", "x = Missing()\n", "class Missing is not defined"},
		{"str arity", "print str(1, 2)\n", "str expects exactly one argument"},
		{"missing indent", "if 1:\nprint 2\n", "expected INDENT"},
		{"unterminated block", "class C:\n  def m(self):\n", "expected INDENT"},
		{"missing paren", "print (1 + 2\n", "expected )"},
		{"field access on call result", "class C:\n  def m(self):\n    return 1\nx = C().field\n", "expected a method call"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			compileExpectError(t, tc.source, tc.want)
		})
	}
}

func TestParseErrorReportsPosition(t *testing.T) {
	engine := NewEngine(Config{})
	_, err := engine.Compile("x = 1\ny = Missing()\n")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse error at 2:") {
		t.Fatalf("error %q missing line info", err.Error())
	}
}

func TestParseDottedAssignmentTargets(t *testing.T) {
	source := "class P:\n" +
		"  def __init__(self):\n" +
		"    self.x = 0\n" +
		"p = P()\n" +
		"p.x = 3\n"
	engine := NewEngine(Config{})
	prog, err := engine.Compile(source)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}

	last := prog.Statements[len(prog.Statements)-1]
	fa, ok := last.(*FieldAssignment)
	if !ok {
		t.Fatalf("expected FieldAssignment, got %T", last)
	}
	if fa.Field != "x" || len(fa.Object.Path) != 1 || fa.Object.Path[0] != "p" {
		t.Fatalf("unexpected target: %+v", fa)
	}
}

func TestParseMethodBodiesAreWrapped(t *testing.T) {
	source := "class C:\n" +
		"  def m(self, a, b):\n" +
		"    return a\n"
	engine := NewEngine(Config{})
	prog, err := engine.Compile(source)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}

	def, ok := prog.Statements[0].(*ClassDefinition)
	if !ok {
		t.Fatalf("expected ClassDefinition, got %T", prog.Statements[0])
	}
	if len(def.Class.Methods) != 1 {
		t.Fatalf("expected one method, got %d", len(def.Class.Methods))
	}
	m := def.Class.Methods[0]
	if m.Name != "m" {
		t.Fatalf("method name = %q", m.Name)
	}
	if len(m.FormalParams) != 2 || m.FormalParams[0] != "a" || m.FormalParams[1] != "b" {
		t.Fatalf("formal params = %v (self must be excluded)", m.FormalParams)
	}
	if _, ok := m.Body.(*MethodBody); !ok {
		t.Fatalf("method body not wrapped: %T", m.Body)
	}
}

func TestParseClassParentLink(t *testing.T) {
	source := "class A:\n" +
		"  def m(self):\n" +
		"    return 1\n" +
		"class B(A):\n" +
		"  def n(self):\n" +
		"    return 2\n"
	engine := NewEngine(Config{})
	prog, err := engine.Compile(source)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}

	a := prog.Statements[0].(*ClassDefinition).Class
	b := prog.Statements[1].(*ClassDefinition).Class
	if b.Parent != a {
		t.Fatalf("B.Parent = %v, want A", b.Parent)
	}
	if a.Parent != nil {
		t.Fatalf("A.Parent = %v, want nil", a.Parent)
	}
}

func TestParseBareReturn(t *testing.T) {
	source := "class Q:\n" +
		"  def nothing(self):\n" +
		"    return\n"
	engine := NewEngine(Config{})
	prog, err := engine.Compile(source)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	body := prog.Statements[0].(*ClassDefinition).Class.Methods[0].Body.(*MethodBody)
	ret := body.Body.(*Compound).Statements[0].(*ReturnStmt)
	if ret.Value != nil {
		t.Fatalf("bare return should carry no expression, got %T", ret.Value)
	}
}

func TestParseIfElse(t *testing.T) {
	source := "if x == 1:\n  print 'one'\nelse:\n  print 'other'\n"
	engine := NewEngine(Config{})
	prog, err := engine.Compile(source)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	stmt, ok := prog.Statements[0].(*IfElseStmt)
	if !ok {
		t.Fatalf("expected IfElseStmt, got %T", prog.Statements[0])
	}
	if stmt.Else == nil {
		t.Fatal("else branch missing")
	}
}

func TestParseComparisonIsNonAssociative(t *testing.T) {
	compileExpectError(t, "print 1 < 2 < 3\n", "expected")
}
