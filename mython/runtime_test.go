package mython

import (
	"io"
	"strings"
	"testing"
)

func testExecution() *Execution {
	return newExecution(io.Discard, "", defaultRecursionLimit)
}

func TestTruthiness(t *testing.T) {
	class := &Class{Name: "C"}
	cases := []struct {
		name string
		val  Value
		want bool
	}{
		{"none", NewNone(), false},
		{"false", NewBool(false), false},
		{"true", NewBool(true), true},
		{"zero", NewNumber(0), false},
		{"nonzero", NewNumber(7), true},
		{"negative", NewNumber(-1), true},
		{"empty string", NewString(""), false},
		{"string", NewString("x"), true},
		{"class", NewClassValue(class), false},
		{"instance", NewInstanceValue(NewInstanceOf(class)), false},
	}
	for _, tc := range cases {
		if got := Truthy(tc.val); got != tc.want {
			t.Fatalf("%s: Truthy = %t, want %t", tc.name, got, tc.want)
		}
	}
}

func TestFormatPrimitives(t *testing.T) {
	exec := testExecution()
	cases := []struct {
		val  Value
		want string
	}{
		{NewNone(), "None"},
		{NewNumber(42), "42"},
		{NewNumber(-3), "-3"},
		{NewString("hi"), "hi"},
		{NewBool(true), "True"},
		{NewBool(false), "False"},
		{NewClassValue(&Class{Name: "Point"}), "Class Point"},
	}
	for _, tc := range cases {
		got, err := exec.format(tc.val)
		if err != nil {
			t.Fatalf("format: %v", err)
		}
		if got != tc.want {
			t.Fatalf("format = %q, want %q", got, tc.want)
		}
	}
}

func TestFormatInstanceWithoutStr(t *testing.T) {
	exec := testExecution()
	inst := NewInstanceOf(&Class{Name: "Widget"})
	got, err := exec.format(NewInstanceValue(inst))
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if !strings.HasPrefix(got, "<Widget object at ") {
		t.Fatalf("format = %q, want identity token", got)
	}
}

func TestMethodLookupLinearity(t *testing.T) {
	grandparent := &Class{Name: "G", Methods: []*Method{
		{Name: "m", FormalParams: []string{"a"}},
		{Name: "only_g"},
	}}
	parent := &Class{Name: "P", Parent: grandparent, Methods: []*Method{
		{Name: "m"},
	}}
	child := &Class{Name: "C", Parent: parent, Methods: []*Method{
		{Name: "n"},
	}}

	if m := child.GetMethod("m"); m == nil || len(m.FormalParams) != 0 {
		t.Fatalf("expected P.m (arity 0) to shadow G.m, got %#v", m)
	}
	if m := child.GetMethod("only_g"); m == nil {
		t.Fatal("expected lookup to reach the grandparent")
	}
	if m := child.GetMethod("absent"); m != nil {
		t.Fatalf("expected nil for missing method, got %#v", m)
	}

	// The first name match wins regardless of arity: P.m/0 hides G.m/1, so
	// an arity-1 call resolves to no method at all.
	inst := NewInstanceOf(child)
	if inst.HasMethod("m", 1) {
		t.Fatal("arity-1 m should be hidden by the arity-0 override")
	}
	if !inst.HasMethod("m", 0) {
		t.Fatal("arity-0 m should resolve")
	}
}

func TestComparisonDerivations(t *testing.T) {
	exec := testExecution()
	values := []Value{
		NewNumber(1), NewNumber(2), NewNumber(2),
		NewString("a"), NewString("b"), NewString(""),
		NewBool(false), NewBool(true),
	}
	pairs := [][2]Value{}
	for _, a := range values {
		for _, b := range values {
			if a.Kind() == b.Kind() {
				pairs = append(pairs, [2]Value{a, b})
			}
		}
	}
	for _, pair := range pairs {
		a, b := pair[0], pair[1]
		less, err := exec.valuesLess(a, b, Position{})
		if err != nil {
			t.Fatalf("valuesLess: %v", err)
		}
		eq, err := exec.valuesEqual(a, b, Position{})
		if err != nil {
			t.Fatalf("valuesEqual: %v", err)
		}
		ge, _ := exec.valuesGreaterOrEqual(a, b, Position{})
		if ge != !less {
			t.Fatalf("%v >= %v: got %t, want %t", a, b, ge, !less)
		}
		le, _ := exec.valuesLessOrEqual(a, b, Position{})
		if le != (less || eq) {
			t.Fatalf("%v <= %v: got %t, want %t", a, b, le, less || eq)
		}
		gt, _ := exec.valuesGreater(a, b, Position{})
		if gt != !(less || eq) {
			t.Fatalf("%v > %v: got %t, want %t", a, b, gt, !(less || eq))
		}
		ne, _ := exec.valuesNotEqual(a, b, Position{})
		if ne != !eq {
			t.Fatalf("%v != %v: got %t, want %t", a, b, ne, !eq)
		}
	}
}

func TestEqualityAcrossTypes(t *testing.T) {
	exec := testExecution()
	eq, err := exec.valuesEqual(NewNone(), NewNone(), Position{})
	if err != nil || !eq {
		t.Fatalf("None == None: got %t, %v", eq, err)
	}
	eq, err = exec.valuesEqual(NewNumber(0), NewBool(false), Position{})
	if err != nil || eq {
		t.Fatalf("0 == False should be false without error, got %t, %v", eq, err)
	}
	eq, err = exec.valuesEqual(NewNone(), NewNumber(0), Position{})
	if err != nil || eq {
		t.Fatalf("None == 0 should be false without error, got %t, %v", eq, err)
	}
}

func TestOrderingAcrossTypesFails(t *testing.T) {
	exec := testExecution()
	cases := [][2]Value{
		{NewNone(), NewNone()},
		{NewNumber(1), NewBool(true)},
		{NewString("a"), NewNumber(1)},
		{NewNone(), NewNumber(0)},
	}
	for _, pair := range cases {
		if _, err := exec.valuesLess(pair[0], pair[1], Position{}); err == nil {
			t.Fatalf("expected ordering %v < %v to fail", pair[0], pair[1])
		}
	}
}

func TestClosureInsertionOrder(t *testing.T) {
	c := NewClosure()
	c.Set("b", NewNumber(1))
	c.Set("a", NewNumber(2))
	c.Set("c", NewNumber(3))
	c.Set("a", NewNumber(4)) // overwrite keeps position

	want := []string{"b", "a", "c"}
	got := c.Names()
	if len(got) != len(want) {
		t.Fatalf("Names = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Names = %v, want %v", got, want)
		}
	}
	if v, ok := c.Get("a"); !ok || v.Number() != 4 {
		t.Fatalf("overwrite lost: %v %t", v, ok)
	}
	if c.Len() != 3 {
		t.Fatalf("Len = %d, want 3", c.Len())
	}
}
