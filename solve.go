package prolog

import (
	"errors"
	"io"

	"github.com/sirupsen/logrus"
)

// Handler is a solution callback. It's invoked once per refutation with
// the environment of the solution; the environment must be treated as
// read only. Returning ErrStop abandons the search for further solutions;
// any other error aborts the query.
type Handler func(env *Env) error

// solveResult is the tagged return of the solver. cut=false is the Normal
// result; cut=true carries the scope the cut is aimed at.
type solveResult struct {
	cut   bool
	scope int64
}

var normal = solveResult{}

// Solve proves the goal sequence left to right against env, invoking k at
// every refutation. The returned error conveys structural faults only;
// logic failure is the absence of handler invocations.
func (e *Engine) Solve(goals []Term, env *Env, k Handler) error {
	if env == nil {
		env = NewEnv()
	}
	if k == nil {
		k = func(*Env) error { return nil }
	}
	_, err := e.solve(goals, env, 0, e.nextActivation(), k)
	if errors.Is(err, ErrStop) {
		return nil
	}
	return err
}

func (e *Engine) solve(goals []Term, env *Env, depth int, scope int64, k Handler) (solveResult, error) {
	if depth > e.MaxDepth {
		return normal, &DepthError{Depth: depth}
	}

	for {
		if len(goals) == 0 {
			if err := k(env); err != nil {
				return normal, err
			}
			return normal, nil
		}

		g := env.Resolve(goals[0])
		rest := goals[1:]

		switch g := g.(type) {
		case Atom:
			switch g {
			case "true":
				goals = rest
				continue
			case "fail", "false":
				return normal, nil
			case "!":
				r, err := e.solve(rest, env, depth, scope, k)
				if err != nil {
					return r, err
				}
				if r.cut {
					return r, nil
				}
				return solveResult{cut: true, scope: scope}, nil
			case "nl":
				if _, err := io.WriteString(e.out, "\n"); err != nil {
					return normal, err
				}
				goals = rest
				continue
			case "repeat":
				for {
					r, err := e.solve(rest, env.Clone(), depth, scope, k)
					if err != nil {
						return r, err
					}
					if r.cut {
						return r, nil
					}
				}
			default:
				return e.resolveClause(g, rest, env, depth, scope, k)
			}

		case Variable:
			// an unbound goal resolves against the whole database
			return e.resolveClause(g, rest, env, depth, scope, k)

		case *Compound:
			switch {
			case g.Functor == "," && len(g.Args) == 2:
				goals = append(conjunction(g), rest...)
				continue

			case g.Functor == "$end_scope" && len(g.Args) == 2:
				parent, ok := env.Resolve(g.Args[1]).(Integer)
				if !ok {
					return normal, &TypeError{ValidType: "integer", Culprit: g.Args[1]}
				}
				scope = int64(parent)
				goals = rest
				continue

			case g.Functor == "is" && len(g.Args) == 2:
				v, err := evalArith(g.Args[1], env)
				if err != nil {
					return normal, err
				}
				if !Unify(g.Args[0], v, env) {
					return normal, nil
				}
				goals = rest
				continue

			case isComparison(g):
				ok, err := compareArith(g.Functor, g.Args[0], g.Args[1], env)
				if err != nil {
					return normal, err
				}
				if !ok {
					return normal, nil
				}
				goals = rest
				continue

			case g.Functor == "=" && len(g.Args) == 2:
				if !Unify(g.Args[0], g.Args[1], env) {
					return normal, nil
				}
				goals = rest
				continue

			case g.Functor == "\\=" && len(g.Args) == 2:
				if Unify(g.Args[0], g.Args[1], env.Clone()) {
					return normal, nil
				}
				goals = rest
				continue

			case g.Functor == "->" && len(g.Args) == 2:
				sol, hit, err := e.probe(g.Args[0], env, depth)
				if err != nil {
					return normal, err
				}
				if !hit {
					return normal, nil
				}
				env.copyFrom(sol)
				goals = prepend(g.Args[1], rest)
				continue

			case g.Functor == ";" && len(g.Args) == 2:
				if c, ok := env.Resolve(g.Args[0]).(*Compound); ok && c.Functor == "->" && len(c.Args) == 2 {
					// if-then-else: commit to the first solution of the condition
					sol, hit, err := e.probe(c.Args[0], env, depth)
					if err != nil {
						return normal, err
					}
					if hit {
						env.copyFrom(sol)
						goals = prepend(c.Args[1], rest)
					} else {
						goals = prepend(g.Args[1], rest)
					}
					continue
				}
				r, err := e.solve(prepend(g.Args[0], rest), env.Clone(), depth, scope, k)
				if err != nil || r.cut {
					return r, err
				}
				env = env.Clone()
				goals = prepend(g.Args[1], rest)
				continue

			case (g.Functor == "\\+" || g.Functor == "not") && len(g.Args) == 1:
				_, hit, err := e.probe(g.Args[0], env, depth)
				if err != nil {
					return normal, err
				}
				if hit {
					return normal, nil
				}
				goals = rest
				continue

			case g.Functor == "phrase" && (len(g.Args) == 2 || len(g.Args) == 3):
				adjoined, err := phraseGoal(g, env)
				if err != nil {
					return normal, err
				}
				goals = prepend(adjoined, rest)
				continue

			case g.Functor == "distinct" && len(g.Args) == 2:
				return e.distinct(g.Args[0], g.Args[1], rest, env, depth, scope, k)

			case g.Functor == "format" && (len(g.Args) == 1 || len(g.Args) == 2):
				args := Term(Atom("[]"))
				if len(g.Args) == 2 {
					args = g.Args[1]
				}
				if err := e.format(g.Args[0], args, env); err != nil {
					return normal, err
				}
				goals = rest
				continue

			case g.Functor == "write" && len(g.Args) == 1:
				if err := WriteTerm(e.out, g.Args[0], env); err != nil {
					return normal, err
				}
				goals = rest
				continue

			case g.Functor == "{}" && len(g.Args) == 1:
				goals = prepend(g.Args[0], rest)
				continue

			default:
				return e.resolveClause(g, rest, env, depth, scope, k)
			}

		default:
			return normal, &TypeError{ValidType: "callable", Culprit: g}
		}
	}
}

// resolveClause enumerates the index's candidates for an ordinary goal.
// With exactly one candidate the activation is deterministic and mutates
// env in place; otherwise each trial runs on its own clone.
func (e *Engine) resolveClause(g Term, rest []Term, env *Env, depth int, scope int64, k Handler) (solveResult, error) {
	cands := e.db.candidates(g, env)
	pi, _ := goalIndicator(env.Resolve(g))
	logrus.WithFields(logrus.Fields{
		"predicate":  pi,
		"depth":      depth,
		"candidates": len(cands),
	}).Debug("arrive")

	deterministic := len(cands) == 1
	for _, ci := range cands {
		act := e.nextActivation()
		fresh := e.db.rules[ci].rename(act)

		trial := env
		if !deterministic {
			trial = env.Clone()
		}
		if !Unify(g, fresh.Head, trial) {
			continue
		}

		goals := make([]Term, 0, len(fresh.Body)+1+len(rest))
		goals = append(goals, fresh.Body...)
		goals = append(goals, &Compound{
			Functor: "$end_scope",
			Args:    []Term{Integer(act), Integer(scope)},
		})
		goals = append(goals, rest...)

		r, err := e.solve(goals, trial, depth+1, act, k)
		if err != nil {
			return normal, err
		}
		if r.cut {
			if r.scope == act {
				logrus.WithFields(logrus.Fields{"goal": g, "scope": act}).Debug("cut")
				return normal, nil
			}
			return r, nil
		}
	}
	return normal, nil
}

// probe runs a one-shot sub-search for goal on a clone of env. On success
// it returns the solution's environment; bindings reach the caller only if
// it copies them back.
func (e *Engine) probe(goal Term, env *Env, depth int) (*Env, bool, error) {
	var sol *Env
	_, err := e.solve([]Term{goal}, env.Clone(), depth+1, e.nextActivation(), func(se *Env) error {
		sol = se
		return errProbeHit
	})
	if err != nil {
		if errors.Is(err, errProbeHit) {
			return sol, true, nil
		}
		return nil, false, err
	}
	return nil, false, nil
}

// distinct filters the continuation's solutions down to the first
// occurrence of each template value. NaN-bearing templates are never
// counted as seen.
func (e *Engine) distinct(template, goal Term, rest []Term, env *Env, depth int, scope int64, k Handler) (solveResult, error) {
	seen := map[uint64]struct{}{}
	wrapped := func(se *Env) error {
		t := se.Simplify(template)
		if containsNaN(t, nil) {
			return k(se)
		}
		h := termHash(t, nil)
		if _, dup := seen[h]; dup {
			return nil
		}
		seen[h] = struct{}{}
		return k(se)
	}
	return e.solve(prepend(goal, rest), env, depth, scope, wrapped)
}

// phraseGoal adjoins the difference-list pair to a grammar-rule body
// call: phrase(G, L) becomes G(L, []) and phrase(G, L, R) becomes G(L, R).
func phraseGoal(g *Compound, env *Env) (Term, error) {
	body := env.Resolve(g.Args[0])
	list := g.Args[1]
	rest := Term(Atom("[]"))
	if len(g.Args) == 3 {
		rest = g.Args[2]
	}
	switch body := body.(type) {
	case Atom:
		return &Compound{Functor: body, Args: []Term{list, rest}}, nil
	case *Compound:
		args := make([]Term, 0, len(body.Args)+2)
		args = append(args, body.Args...)
		args = append(args, list, rest)
		return &Compound{Functor: body.Functor, Args: args}, nil
	case Variable:
		return nil, ErrInstantiation
	default:
		return nil, &TypeError{ValidType: "callable", Culprit: body}
	}
}

func isComparison(c *Compound) bool {
	if len(c.Args) != 2 {
		return false
	}
	switch c.Functor {
	case ">", "<", ">=", "=<", "=:=", "=\\=":
		return true
	default:
		return false
	}
}

func prepend(g Term, rest []Term) []Term {
	goals := make([]Term, 0, 1+len(rest))
	goals = append(goals, g)
	return append(goals, rest...)
}
