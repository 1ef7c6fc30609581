package mython

import (
	"fmt"
	"strings"
)

// execStatement walks one statement. The middle result reports an in-flight
// return signal: true means a return statement fired somewhere below and
// the carried value must keep unwinding until a MethodBody consumes it.
func (exec *Execution) execStatement(stmt Statement, closure *Closure) (Value, bool, error) {
	switch s := stmt.(type) {
	case *Compound:
		for _, inner := range s.Statements {
			val, returned, err := exec.execStatement(inner, closure)
			if err != nil {
				return NewNone(), false, err
			}
			if returned {
				return val, true, nil
			}
		}
		return NewNone(), false, nil

	case *MethodBody:
		val, returned, err := exec.execStatement(s.Body, closure)
		if err != nil {
			return NewNone(), false, err
		}
		if returned {
			return val, false, nil
		}
		return NewNone(), false, nil

	case *ReturnStmt:
		if s.Value == nil {
			return NewNone(), true, nil
		}
		val, err := exec.evalExpression(s.Value, closure)
		if err != nil {
			return NewNone(), false, err
		}
		return val, true, nil

	case *Assignment:
		val, err := exec.evalExpression(s.Value, closure)
		if err != nil {
			return NewNone(), false, err
		}
		closure.Set(s.Name, val)
		return val, false, nil

	case *FieldAssignment:
		receiver, err := exec.evalExpression(s.Object, closure)
		if err != nil {
			return NewNone(), false, err
		}
		inst := receiver.Instance()
		if inst == nil {
			return NewNone(), false, exec.errorAt(s.Pos(), "cannot assign field %s: %s is not an object", s.Field, receiver.Kind())
		}
		val, err := exec.evalExpression(s.Value, closure)
		if err != nil {
			return NewNone(), false, err
		}
		inst.Fields().Set(s.Field, val)
		return val, false, nil

	case *PrintStmt:
		var parts []string
		for _, arg := range s.Args {
			val, err := exec.evalExpression(arg, closure)
			if err != nil {
				return NewNone(), false, err
			}
			text, err := exec.format(val)
			if err != nil {
				return NewNone(), false, err
			}
			parts = append(parts, text)
		}
		fmt.Fprintln(exec.out, strings.Join(parts, " "))
		return NewNone(), false, nil

	case *IfElseStmt:
		cond, err := exec.evalExpression(s.Condition, closure)
		if err != nil {
			return NewNone(), false, err
		}
		if Truthy(cond) {
			return exec.execStatement(s.Then, closure)
		}
		if s.Else != nil {
			return exec.execStatement(s.Else, closure)
		}
		return NewNone(), false, nil

	case *ClassDefinition:
		val := NewClassValue(s.Class)
		closure.Set(s.Class.Name, val)
		return val, false, nil

	case *ExprStmt:
		val, err := exec.evalExpression(s.Expr, closure)
		return val, false, err

	case *VariableValue, *MethodCallExpr, *NewInstanceExpr:
		val, err := exec.evalExpression(s.(Expression), closure)
		return val, false, err
	}

	return NewNone(), false, exec.errorAt(stmt.Pos(), "cannot execute statement of type %T", stmt)
}
