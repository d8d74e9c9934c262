package prolog

import (
	"math"
)

// evalArith evaluates an arithmetic expression down to an Integer or a
// Float. The tower is two-level: any Float operand promotes the result to
// Float, except where an operator is Integer-only. Integer arithmetic
// wraps per two's complement.
func evalArith(t Term, env *Env) (Term, error) {
	switch t := env.Resolve(t).(type) {
	case Integer:
		return t, nil
	case Float:
		return t, nil
	case Variable:
		return nil, ErrInstantiation
	case Atom:
		switch t {
		case "nan":
			return Float(math.NaN()), nil
		case "inf":
			return Float(math.Inf(1)), nil
		default:
			return nil, &UnknownOperatorError{Culprit: t}
		}
	case *Compound:
		args := make([]Term, len(t.Args))
		for i, a := range t.Args {
			n, err := evalArith(a, env)
			if err != nil {
				return nil, err
			}
			args[i] = n
		}
		switch len(args) {
		case 1:
			return evalUnary(t.Functor, args[0], t)
		case 2:
			return evalBinary(t.Functor, args[0], args[1], t)
		default:
			return nil, &UnknownOperatorError{Culprit: t}
		}
	default:
		return nil, &TypeError{ValidType: "evaluable", Culprit: t}
	}
}

func evalUnary(op Atom, x Term, culprit Term) (Term, error) {
	switch op {
	case "-":
		if i, ok := x.(Integer); ok {
			return -i, nil
		}
		return -x.(Float), nil
	case "abs":
		if i, ok := x.(Integer); ok {
			if i < 0 {
				return -i, nil
			}
			return i, nil
		}
		return Float(math.Abs(float64(x.(Float)))), nil
	case "sign":
		if i, ok := x.(Integer); ok {
			switch {
			case i > 0:
				return Integer(1), nil
			case i < 0:
				return Integer(-1), nil
			default:
				return Integer(0), nil
			}
		}
		f := float64(x.(Float))
		switch {
		case f > 0:
			return Float(1), nil
		case f < 0:
			return Float(-1), nil
		default:
			return Float(f), nil // 0, -0 and NaN keep themselves
		}
	default:
		return nil, &UnknownOperatorError{Culprit: culprit}
	}
}

func evalBinary(op Atom, x, y Term, culprit Term) (Term, error) {
	switch op {
	case "+":
		return promote(x, y, func(a, b Integer) Integer { return a + b }, func(a, b Float) Float { return a + b }), nil
	case "-":
		return promote(x, y, func(a, b Integer) Integer { return a - b }, func(a, b Float) Float { return a - b }), nil
	case "*":
		return promote(x, y, func(a, b Integer) Integer { return a * b }, func(a, b Float) Float { return a * b }), nil
	case "/":
		// always float division
		return toFloat(x) / toFloat(y), nil
	case "//":
		a, b, err := bothIntegers(x, y)
		if err != nil {
			return nil, err
		}
		if b == 0 {
			return nil, &EvaluationError{What: "zero divisor"}
		}
		return a / b, nil
	case "div":
		a, b, err := bothIntegers(x, y)
		if err != nil {
			return nil, err
		}
		if b == 0 {
			return nil, &EvaluationError{What: "zero divisor"}
		}
		return floorDiv(a, b), nil
	case "mod":
		a, b, err := bothIntegers(x, y)
		if err != nil {
			return nil, err
		}
		if b == 0 {
			return nil, &EvaluationError{What: "zero divisor"}
		}
		return a - floorDiv(a, b)*b, nil
	case "rem":
		a, b, err := bothIntegers(x, y)
		if err != nil {
			return nil, err
		}
		if b == 0 {
			return nil, &EvaluationError{What: "zero divisor"}
		}
		return a % b, nil
	case "min":
		return promote(x, y, func(a, b Integer) Integer {
			if a < b {
				return a
			}
			return b
		}, func(a, b Float) Float {
			return Float(math.Min(float64(a), float64(b)))
		}), nil
	case "max":
		return promote(x, y, func(a, b Integer) Integer {
			if a > b {
				return a
			}
			return b
		}, func(a, b Float) Float {
			return Float(math.Max(float64(a), float64(b)))
		}), nil
	default:
		return nil, &UnknownOperatorError{Culprit: culprit}
	}
}

// promote applies fi if both operands are Integers, else ff on the floated
// operands.
func promote(x, y Term, fi func(a, b Integer) Integer, ff func(a, b Float) Float) Term {
	a, aInt := x.(Integer)
	b, bInt := y.(Integer)
	if aInt && bInt {
		return fi(a, b)
	}
	return ff(toFloat(x), toFloat(y))
}

func toFloat(t Term) Float {
	switch t := t.(type) {
	case Integer:
		return Float(t)
	default:
		return t.(Float)
	}
}

func bothIntegers(x, y Term) (Integer, Integer, error) {
	a, ok := x.(Integer)
	if !ok {
		return 0, 0, &TypeError{ValidType: "integer", Culprit: x}
	}
	b, ok := y.(Integer)
	if !ok {
		return 0, 0, &TypeError{ValidType: "integer", Culprit: y}
	}
	return a, b, nil
}

// floorDiv truncates toward negative infinity.
func floorDiv(a, b Integer) Integer {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// compareArith evaluates both sides and compares them as floats,
// promoting Integers. Any comparison involving NaN is false.
func compareArith(op Atom, x, y Term, env *Env) (bool, error) {
	xv, err := evalArith(x, env)
	if err != nil {
		return false, err
	}
	yv, err := evalArith(y, env)
	if err != nil {
		return false, err
	}
	a, b := float64(toFloat(xv)), float64(toFloat(yv))
	switch op {
	case "<":
		return a < b, nil
	case ">":
		return a > b, nil
	case "=<":
		return a <= b, nil
	case ">=":
		return a >= b, nil
	case "=:=":
		return a == b, nil
	case "=\\=":
		return a != b && !math.IsNaN(a) && !math.IsNaN(b), nil
	default:
		return false, &UnknownOperatorError{Culprit: op}
	}
}
