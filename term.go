package prolog

import (
	"strings"
)

// Term is a Prolog datum. It's either an Atom, a Variable, an Integer,
// a Float, a Str, or a *Compound.
type Term interface {
	String() string
}

// Atom is a Prolog atom.
type Atom string

func (a Atom) String() string {
	var sb strings.Builder
	_ = WriteTerm(&sb, a, nil)
	return sb.String()
}

// Variable is a logic variable, identified by name. Bindings live in an
// Env, not in the variable itself.
type Variable string

func (v Variable) String() string {
	return string(v)
}

// Integer is a Prolog integer. Arithmetic on it wraps per two's complement.
type Integer int64

func (i Integer) String() string {
	var sb strings.Builder
	_ = WriteTerm(&sb, i, nil)
	return sb.String()
}

// Float is a Prolog floating-point number. Inf and NaN are legal values.
type Float float64

func (f Float) String() string {
	var sb strings.Builder
	_ = WriteTerm(&sb, f, nil)
	return sb.String()
}

// Str is an opaque byte sequence, distinct from Atom.
type Str string

func (s Str) String() string {
	var sb strings.Builder
	_ = WriteTerm(&sb, s, nil)
	return sb.String()
}

// Compound is a term with a functor and one or more arguments.
// Lists are compounds with functor `.` and 2 arguments.
type Compound struct {
	Functor Atom
	Args    []Term
}

func (c *Compound) String() string {
	var sb strings.Builder
	_ = WriteTerm(&sb, c, nil)
	return sb.String()
}

// Cons returns a list cell `.`(car, cdr).
func Cons(car, cdr Term) Term {
	return &Compound{
		Functor: ".",
		Args:    []Term{car, cdr},
	}
}

// List returns a proper list of the given terms.
func List(ts ...Term) Term {
	return ListRest(Atom("[]"), ts...)
}

// ListRest returns a partial list of the given terms ending with rest.
func ListRest(rest Term, ts ...Term) Term {
	l := rest
	for i := len(ts) - 1; i >= 0; i-- {
		l = Cons(ts[i], l)
	}
	return l
}

// indicator renders a predicate key in "functor/arity" form, the clause
// database key.
func indicator(name Atom, arity int) string {
	var sb strings.Builder
	sb.WriteString(string(name))
	sb.WriteByte('/')
	writeUint(&sb, arity)
	return sb.String()
}

func writeUint(sb *strings.Builder, n int) {
	if n >= 10 {
		writeUint(sb, n/10)
	}
	sb.WriteByte(byte('0' + n%10))
}

// goalIndicator classifies a callable term, or fails for anything else.
func goalIndicator(t Term) (string, bool) {
	switch t := t.(type) {
	case Atom:
		return indicator(t, 0), true
	case *Compound:
		return indicator(t.Functor, len(t.Args)), true
	default:
		return "", false
	}
}

// eachElem iterates over the elements of a proper or partial list and
// returns the tail it stopped at.
func eachElem(t Term, env *Env, f func(Term)) Term {
	for {
		t = env.Resolve(t)
		c, ok := t.(*Compound)
		if !ok || c.Functor != "." || len(c.Args) != 2 {
			return t
		}
		f(c.Args[0])
		t = c.Args[1]
	}
}

// slice converts a proper list into a Go slice.
func slice(t Term, env *Env) ([]Term, bool) {
	var ret []Term
	tail := eachElem(t, env, func(e Term) {
		ret = append(ret, e)
	})
	if a, ok := tail.(Atom); !ok || a != "[]" {
		return nil, false
	}
	return ret, true
}
