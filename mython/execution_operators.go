package mython

// evalExpression walks one expression node. Expressions never carry a
// return signal: a return statement can only reach an expression through a
// method call, and the callee's MethodBody consumes it there.
func (exec *Execution) evalExpression(expr Expression, closure *Closure) (Value, error) {
	switch e := expr.(type) {
	case *NumberLiteral:
		return NewNumber(e.Value), nil
	case *StringLiteral:
		return NewString(e.Value), nil
	case *BoolLiteral:
		return NewBool(e.Value), nil
	case *NoneLiteral:
		return NewNone(), nil

	case *VariableValue:
		return exec.evalVariableValue(e, closure)

	case *StringifyExpr:
		val, err := exec.evalExpression(e.Arg, closure)
		if err != nil {
			return NewNone(), err
		}
		text, err := exec.format(val)
		if err != nil {
			return NewNone(), err
		}
		return NewString(text), nil

	case *NotExpr:
		val, err := exec.evalExpression(e.Arg, closure)
		if err != nil {
			return NewNone(), err
		}
		return NewBool(!Truthy(val)), nil

	case *BinaryExpr:
		return exec.evalBinaryExpr(e, closure)

	case *MethodCallExpr:
		return exec.evalMethodCall(e, closure)

	case *NewInstanceExpr:
		return exec.evalNewInstance(e, closure)
	}

	return NewNone(), exec.errorAt(expr.Pos(), "cannot evaluate expression of type %T", expr)
}

func (exec *Execution) evalVariableValue(e *VariableValue, closure *Closure) (Value, error) {
	head, ok := closure.Get(e.Path[0])
	if !ok {
		return NewNone(), exec.errorAt(e.Pos(), "name %s is not defined", e.Path[0])
	}
	if len(e.Path) == 1 {
		return head, nil
	}

	inst := head.Instance()
	if inst == nil {
		return NewNone(), exec.errorAt(e.Pos(), "%s is not an object, cannot read field %s", e.Path[0], e.Path[1])
	}
	for _, field := range e.Path[1 : len(e.Path)-1] {
		val, ok := inst.Fields().Get(field)
		if !ok {
			return NewNone(), exec.errorAt(e.Pos(), "%s object has no field %s", inst.Class().Name, field)
		}
		inst = val.Instance()
		if inst == nil {
			return NewNone(), exec.errorAt(e.Pos(), "field %s is not an object", field)
		}
	}

	last := e.Path[len(e.Path)-1]
	val, ok := inst.Fields().Get(last)
	if !ok {
		return NewNone(), exec.errorAt(e.Pos(), "%s object has no field %s", inst.Class().Name, last)
	}
	return val, nil
}

func (exec *Execution) evalBinaryExpr(e *BinaryExpr, closure *Closure) (Value, error) {
	// or short-circuits on a truthy left side; and deliberately does not,
	// both operands always run.
	if e.Op == tokenOr {
		lhs, err := exec.evalExpression(e.Left, closure)
		if err != nil {
			return NewNone(), err
		}
		if Truthy(lhs) {
			return NewBool(true), nil
		}
		rhs, err := exec.evalExpression(e.Right, closure)
		if err != nil {
			return NewNone(), err
		}
		return NewBool(Truthy(rhs)), nil
	}

	lhs, err := exec.evalExpression(e.Left, closure)
	if err != nil {
		return NewNone(), err
	}
	rhs, err := exec.evalExpression(e.Right, closure)
	if err != nil {
		return NewNone(), err
	}

	switch e.Op {
	case tokenAnd:
		return NewBool(Truthy(lhs) && Truthy(rhs)), nil

	case tokenPlus:
		return exec.addValues(lhs, rhs, e.Pos())

	case tokenMinus:
		if lhs.Kind() == KindNumber && rhs.Kind() == KindNumber {
			return NewNumber(lhs.Number() - rhs.Number()), nil
		}
		return NewNone(), exec.errorAt(e.Pos(), "cannot subtract %s from %s", rhs.Kind(), lhs.Kind())

	case tokenAsterisk:
		if lhs.Kind() == KindNumber && rhs.Kind() == KindNumber {
			return NewNumber(lhs.Number() * rhs.Number()), nil
		}
		return NewNone(), exec.errorAt(e.Pos(), "cannot multiply %s by %s", lhs.Kind(), rhs.Kind())

	case tokenSlash:
		if lhs.Kind() == KindNumber && rhs.Kind() == KindNumber {
			if rhs.Number() == 0 {
				return NewNone(), exec.errorAt(e.Pos(), "division by zero")
			}
			return NewNumber(lhs.Number() / rhs.Number()), nil
		}
		return NewNone(), exec.errorAt(e.Pos(), "cannot divide %s by %s", lhs.Kind(), rhs.Kind())

	case tokenEQ:
		res, err := exec.valuesEqual(lhs, rhs, e.Pos())
		return NewBool(res), err
	case tokenNotEQ:
		res, err := exec.valuesNotEqual(lhs, rhs, e.Pos())
		return NewBool(res), err
	case tokenLT:
		res, err := exec.valuesLess(lhs, rhs, e.Pos())
		return NewBool(res), err
	case tokenGT:
		res, err := exec.valuesGreater(lhs, rhs, e.Pos())
		return NewBool(res), err
	case tokenLTE:
		res, err := exec.valuesLessOrEqual(lhs, rhs, e.Pos())
		return NewBool(res), err
	case tokenGTE:
		res, err := exec.valuesGreaterOrEqual(lhs, rhs, e.Pos())
		return NewBool(res), err
	}

	return NewNone(), exec.errorAt(e.Pos(), "unsupported operator %s", e.Op)
}

func (exec *Execution) addValues(lhs, rhs Value, pos Position) (Value, error) {
	if lhs.Kind() == KindNumber && rhs.Kind() == KindNumber {
		return NewNumber(lhs.Number() + rhs.Number()), nil
	}
	if lhs.Kind() == KindString && rhs.Kind() == KindString {
		return NewString(lhs.String() + rhs.String()), nil
	}
	if inst := lhs.Instance(); inst != nil && inst.HasMethod(addMethod, 1) {
		return exec.callMethod(inst, addMethod, []Value{rhs}, pos)
	}
	return NewNone(), exec.errorAt(pos, "cannot add %s and %s", lhs.Kind(), rhs.Kind())
}

func (exec *Execution) evalMethodCall(e *MethodCallExpr, closure *Closure) (Value, error) {
	receiver, err := exec.evalExpression(e.Object, closure)
	if err != nil {
		return NewNone(), err
	}
	inst := receiver.Instance()
	if inst == nil {
		return NewNone(), exec.errorAt(e.Pos(), "cannot call method %s on %s value", e.Method, receiver.Kind())
	}

	args := make([]Value, 0, len(e.Args))
	for _, arg := range e.Args {
		val, err := exec.evalExpression(arg, closure)
		if err != nil {
			return NewNone(), err
		}
		args = append(args, val)
	}
	return exec.callMethod(inst, e.Method, args, e.Pos())
}

func (exec *Execution) evalNewInstance(e *NewInstanceExpr, closure *Closure) (Value, error) {
	inst := NewInstanceOf(e.Class)
	if inst.HasMethod(initMethod, len(e.Args)) {
		args := make([]Value, 0, len(e.Args))
		for _, arg := range e.Args {
			val, err := exec.evalExpression(arg, closure)
			if err != nil {
				return NewNone(), err
			}
			args = append(args, val)
		}
		if _, err := exec.callMethod(inst, initMethod, args, e.Pos()); err != nil {
			return NewNone(), err
		}
	}
	return NewInstanceValue(inst), nil
}
