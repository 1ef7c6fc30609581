package mython

import (
	"fmt"
	"strconv"
)

const (
	initMethod = "__init__"
	strMethod  = "__str__"
	eqMethod   = "__eq__"
	ltMethod   = "__lt__"
	addMethod  = "__add__"
)

// Truthy implements the dialect's truth rules: non-zero numbers, non-empty
// strings and True are truthy; everything else — the absent value, False,
// zero, the empty string, classes and instances — is falsy.
func Truthy(v Value) bool {
	switch v.Kind() {
	case KindBool:
		return v.Bool()
	case KindNumber:
		return v.Number() != 0
	case KindString:
		return v.String() != ""
	}
	return false
}

// format renders a value in its canonical printed form. Instances dispatch
// to a zero-argument __str__ when one exists.
func (exec *Execution) format(v Value) (string, error) {
	switch v.Kind() {
	case KindNone:
		return "None", nil
	case KindNumber:
		return strconv.FormatInt(v.Number(), 10), nil
	case KindString:
		return v.String(), nil
	case KindBool:
		if v.Bool() {
			return "True", nil
		}
		return "False", nil
	case KindClass:
		return "Class " + v.Class().Name, nil
	case KindInstance:
		inst := v.Instance()
		if inst.HasMethod(strMethod, 0) {
			res, err := exec.callMethod(inst, strMethod, nil, Position{})
			if err != nil {
				return "", err
			}
			return exec.format(res)
		}
		return fmt.Sprintf("<%s object at %p>", inst.Class().Name, inst), nil
	}
	return "", fmt.Errorf("unprintable value kind %s", v.Kind())
}

// callMethod resolves a method by name and arity, builds the call closure
// (self plus the formal parameters) and runs the body. The method body node
// consumes any return signal, so the result here is already the call's
// value.
func (exec *Execution) callMethod(inst *Instance, name string, args []Value, pos Position) (Value, error) {
	m := inst.Class().GetMethod(name)
	if m == nil || len(m.FormalParams) != len(args) {
		return NewNone(), exec.errorAt(pos, "%s has no method %s taking %d arguments", inst.Class().Name, name, len(args))
	}

	if err := exec.pushFrame(inst.Class().Name+"."+name, pos); err != nil {
		return NewNone(), err
	}
	defer exec.popFrame()

	closure := NewClosure()
	closure.Set("self", NewInstanceValue(inst))
	for i, param := range m.FormalParams {
		closure.Set(param, args[i])
	}

	// Method bodies are MethodBody nodes, which consume the return signal,
	// so the returned flag is already spent by the time the call unwinds.
	val, _, err := exec.execStatement(m.Body, closure)
	if err != nil {
		return NewNone(), err
	}
	return val, nil
}

// valuesEqual compares by type: primitives by value, instances through a
// unary __eq__ when the receiver defines one. Mismatched types are simply
// unequal.
func (exec *Execution) valuesEqual(lhs, rhs Value, pos Position) (bool, error) {
	if lhs.IsNone() && rhs.IsNone() {
		return true, nil
	}
	switch {
	case lhs.Kind() == KindBool && rhs.Kind() == KindBool:
		return lhs.Bool() == rhs.Bool(), nil
	case lhs.Kind() == KindNumber && rhs.Kind() == KindNumber:
		return lhs.Number() == rhs.Number(), nil
	case lhs.Kind() == KindString && rhs.Kind() == KindString:
		return lhs.String() == rhs.String(), nil
	case lhs.Kind() == KindInstance && rhs.Kind() == KindInstance:
		inst := lhs.Instance()
		if inst.HasMethod(eqMethod, 1) {
			res, err := exec.callMethod(inst, eqMethod, []Value{rhs}, pos)
			if err != nil {
				return false, err
			}
			return Truthy(res), nil
		}
		return false, nil
	}
	return false, nil
}

// valuesLess orders primitives of a common type and dispatches instances to
// a unary __lt__. Any other pairing is a runtime error.
func (exec *Execution) valuesLess(lhs, rhs Value, pos Position) (bool, error) {
	switch {
	case lhs.Kind() == KindBool && rhs.Kind() == KindBool:
		return !lhs.Bool() && rhs.Bool(), nil
	case lhs.Kind() == KindNumber && rhs.Kind() == KindNumber:
		return lhs.Number() < rhs.Number(), nil
	case lhs.Kind() == KindString && rhs.Kind() == KindString:
		return lhs.String() < rhs.String(), nil
	case lhs.Kind() == KindInstance && rhs.Kind() == KindInstance:
		inst := lhs.Instance()
		if inst.HasMethod(ltMethod, 1) {
			res, err := exec.callMethod(inst, ltMethod, []Value{rhs}, pos)
			if err != nil {
				return false, err
			}
			return Truthy(res), nil
		}
	}
	return false, exec.errorAt(pos, "cannot order %s and %s values", lhs.Kind(), rhs.Kind())
}

func (exec *Execution) valuesNotEqual(lhs, rhs Value, pos Position) (bool, error) {
	eq, err := exec.valuesEqual(lhs, rhs, pos)
	return !eq, err
}

func (exec *Execution) valuesGreater(lhs, rhs Value, pos Position) (bool, error) {
	less, err := exec.valuesLess(lhs, rhs, pos)
	if err != nil {
		return false, err
	}
	eq, err := exec.valuesEqual(lhs, rhs, pos)
	if err != nil {
		return false, err
	}
	return !(less || eq), nil
}

func (exec *Execution) valuesLessOrEqual(lhs, rhs Value, pos Position) (bool, error) {
	less, err := exec.valuesLess(lhs, rhs, pos)
	if err != nil {
		return false, err
	}
	if less {
		return true, nil
	}
	return exec.valuesEqual(lhs, rhs, pos)
}

func (exec *Execution) valuesGreaterOrEqual(lhs, rhs Value, pos Position) (bool, error) {
	less, err := exec.valuesLess(lhs, rhs, pos)
	return !less, err
}
