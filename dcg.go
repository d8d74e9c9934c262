package prolog

import (
	"strconv"
)

// Grammar-rule expansion. A clause of the form `Head --> Body.` is
// rewritten at ingestion into a plain clause whose head and non-terminals
// carry a threaded pair of difference-list arguments. phrase/2,3 mirrors
// the rewrite for calls at run time (see phraseGoal).

// expandDCG rewrites `-->`(head, body) into an ordinary rule.
func expandDCG(t *Compound) (*Rule, error) {
	x := dcgExpansion{}
	s0 := x.fresh()
	var goals []Term
	for _, el := range conjunction(t.Args[1]) {
		if err := x.element(el, &goals); err != nil {
			return nil, err
		}
	}
	sn := x.cursor
	head, err := dcgNonTerminal(t.Args[0], s0, sn)
	if err != nil {
		return nil, err
	}
	return &Rule{Head: head, Body: goals}, nil
}

type dcgExpansion struct {
	n      int
	cursor Variable
}

// fresh mints the next difference-list variable. The names can't collide
// with surface variables: the lexer never produces `#`.
func (x *dcgExpansion) fresh() Variable {
	v := Variable("_#S" + strconv.Itoa(x.n))
	x.n++
	x.cursor = v
	return v
}

// element appends the expansion of one DCG body element to goals and
// advances the cursor.
func (x *dcgExpansion) element(el Term, goals *[]Term) error {
	cur := x.cursor
	switch el := el.(type) {
	case Atom:
		switch el {
		case "[]":
			*goals = append(*goals, eq(cur, x.fresh()))
			return nil
		case "!":
			*goals = append(*goals, el, eq(cur, x.fresh()))
			return nil
		default:
			g, err := dcgNonTerminal(el, cur, x.fresh())
			if err != nil {
				return err
			}
			*goals = append(*goals, g)
			return nil
		}
	case *Compound:
		switch {
		case el.Functor == "." && len(el.Args) == 2:
			// terminal list: attach the next cursor as the open tail
			elems, ok := slice(el, nil)
			if !ok {
				return &TypeError{ValidType: "list", Culprit: el}
			}
			*goals = append(*goals, eq(cur, ListRest(x.fresh(), elems...)))
			return nil
		case el.Functor == "{}" && len(el.Args) == 1:
			*goals = append(*goals, el.Args[0], eq(cur, x.fresh()))
			return nil
		default:
			g, err := dcgNonTerminal(el, cur, x.fresh())
			if err != nil {
				return err
			}
			*goals = append(*goals, g)
			return nil
		}
	default:
		return &TypeError{ValidType: "callable", Culprit: el}
	}
}

// dcgNonTerminal adjoins the difference-list pair to a head or body
// non-terminal.
func dcgNonTerminal(t Term, s0, s1 Term) (Term, error) {
	switch t := t.(type) {
	case Atom:
		return &Compound{Functor: t, Args: []Term{s0, s1}}, nil
	case *Compound:
		args := make([]Term, 0, len(t.Args)+2)
		args = append(args, t.Args...)
		args = append(args, s0, s1)
		return &Compound{Functor: t.Functor, Args: args}, nil
	default:
		return nil, &TypeError{ValidType: "callable", Culprit: t}
	}
}

func eq(a, b Term) Term {
	return &Compound{Functor: "=", Args: []Term{a, b}}
}
