package prolog

import (
	"strconv"
)

// Rule is a clause: a head plus an ordered, possibly empty body. A fact is
// a rule with an empty body.
type Rule struct {
	Head Term
	Body []Term
}

// NewRule splits a clause term into head and body. `:-`(H, B) is a rule
// with B flattened on commas; anything else callable is a fact.
func NewRule(t Term) (*Rule, error) {
	if c, ok := t.(*Compound); ok && c.Functor == ":-" && len(c.Args) == 2 {
		switch c.Args[0].(type) {
		case Atom, Variable, *Compound:
			return &Rule{Head: c.Args[0], Body: conjunction(c.Args[1])}, nil
		default:
			return nil, &TypeError{ValidType: "callable", Culprit: c.Args[0]}
		}
	}
	switch t.(type) {
	case Atom, Variable, *Compound:
		return &Rule{Head: t}, nil
	default:
		return nil, &TypeError{ValidType: "callable", Culprit: t}
	}
}

// conjunction flattens a `,`/2 tree into a goal sequence.
func conjunction(t Term) []Term {
	var goals []Term
	for {
		c, ok := t.(*Compound)
		if !ok || c.Functor != "," || len(c.Args) != 2 {
			return append(goals, t)
		}
		goals = append(goals, c.Args[0])
		t = c.Args[1]
	}
}

// rename freshens every variable in the rule with a suffix unique to one
// activation. Constants are shared with the original.
func (r *Rule) rename(activation int64) *Rule {
	suffix := "#" + strconv.FormatInt(activation, 10)
	body := make([]Term, len(r.Body))
	for i, g := range r.Body {
		body[i] = renameTerm(g, suffix)
	}
	return &Rule{Head: renameTerm(r.Head, suffix), Body: body}
}

func renameTerm(t Term, suffix string) Term {
	switch t := t.(type) {
	case Variable:
		return Variable(string(t) + suffix)
	case *Compound:
		args := make([]Term, len(t.Args))
		changed := false
		for i, a := range t.Args {
			args[i] = renameTerm(a, suffix)
			if args[i] != a {
				changed = true
			}
		}
		if !changed {
			return t
		}
		return &Compound{Functor: t.Functor, Args: args}
	default:
		return t
	}
}
