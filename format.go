package prolog

import (
	"io"
	"strconv"
)

// format processes format/1,2: a directive string (atom or Str) and a
// proper list of arguments. Unknown directives are copied literally;
// running out of arguments is a structural error.
func (e *Engine) format(spec, args Term, env *Env) error {
	var src string
	switch spec := env.Resolve(spec).(type) {
	case Atom:
		src = string(spec)
	case Str:
		src = string(spec)
	default:
		return &TypeError{ValidType: "atom or string", Culprit: spec}
	}

	rest, ok := slice(args, env)
	if !ok {
		return &TypeError{ValidType: "list", Culprit: args}
	}

	next := func(directive string) (Term, error) {
		if len(rest) == 0 {
			return nil, &FormatError{Directive: directive, Reason: "not enough arguments"}
		}
		var a Term
		a, rest = rest[0], rest[1:]
		return env.Resolve(a), nil
	}

	runes := []rune(src)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '~' || i+1 == len(runes) {
			if _, err := io.WriteString(e.out, string(r)); err != nil {
				return err
			}
			continue
		}
		i++
		d := runes[i]
		switch d {
		case 'w':
			a, err := next("~w")
			if err != nil {
				return err
			}
			if err := WriteTerm(e.out, a, env); err != nil {
				return err
			}
		case 'd':
			a, err := next("~d")
			if err != nil {
				return err
			}
			n, ok := a.(Integer)
			if !ok {
				return &TypeError{ValidType: "integer", Culprit: a}
			}
			if _, err := io.WriteString(e.out, strconv.FormatInt(int64(n), 10)); err != nil {
				return err
			}
		case 'f':
			a, err := next("~f")
			if err != nil {
				return err
			}
			var f float64
			switch a := a.(type) {
			case Integer:
				f = float64(a)
			case Float:
				f = float64(a)
			default:
				return &TypeError{ValidType: "number", Culprit: a}
			}
			if _, err := io.WriteString(e.out, strconv.FormatFloat(f, 'f', 6, 64)); err != nil {
				return err
			}
		case 'a':
			a, err := next("~a")
			if err != nil {
				return err
			}
			name, ok := a.(Atom)
			if !ok {
				return &TypeError{ValidType: "atom", Culprit: a}
			}
			if _, err := io.WriteString(e.out, string(name)); err != nil {
				return err
			}
		case 's':
			a, err := next("~s")
			if err != nil {
				return err
			}
			var raw string
			switch a := a.(type) {
			case Str:
				raw = string(a)
			case Atom:
				raw = string(a)
			default:
				return &TypeError{ValidType: "string", Culprit: a}
			}
			if _, err := io.WriteString(e.out, raw); err != nil {
				return err
			}
		case 'n':
			if _, err := io.WriteString(e.out, "\n"); err != nil {
				return err
			}
		case '~':
			if _, err := io.WriteString(e.out, "~"); err != nil {
				return err
			}
		default:
			if _, err := io.WriteString(e.out, "~"+string(d)); err != nil {
				return err
			}
		}
	}
	return nil
}
