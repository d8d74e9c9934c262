package prolog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// DefaultMaxDepth is the solver's recursion ceiling, a guard against
// non-terminating programs.
const DefaultMaxDepth = 600

// Engine is a Prolog session: an append-only clause database, the output
// sink, and the solver knobs. The zero value is not usable; call New.
type Engine struct {
	// MaxDepth bounds the solver's recursion depth. Crossing it aborts
	// the query with a DepthError.
	MaxDepth int

	db          *database
	out         io.Writer
	activations int64
}

// New creates a session with an empty database writing to stdout.
func New() *Engine {
	return &Engine{
		MaxDepth: DefaultMaxDepth,
		db:       newDatabase(),
		out:      os.Stdout,
	}
}

// SetOutput redirects write/1, format/1,2 and nl.
func (e *Engine) SetOutput(w io.Writer) {
	e.out = w
}

// nextActivation mints an identifier unique within the session, used for
// cut scopes and clause-variable freshening.
func (e *Engine) nextActivation() int64 {
	e.activations++
	return e.activations
}

// Exec consults program text: clauses and facts are asserted, grammar
// rules are expanded first, and `:-`/`?-` directives run immediately.
func (e *Engine) Exec(src string) error {
	ts, err := NewParser(src).Program()
	if err != nil {
		return err
	}
	for _, t := range ts {
		if c, ok := t.(*Compound); ok && len(c.Args) == 1 && (c.Functor == ":-" || c.Functor == "?-") {
			ok, err := e.run(c.Args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("directive failed: %s", c.Args[0])
			}
			continue
		}
		if err := e.AddClause(t); err != nil {
			return err
		}
	}
	return nil
}

// AddClause appends one clause term to the database, expanding grammar
// rules on the way in.
func (e *Engine) AddClause(t Term) error {
	var r *Rule
	var err error
	if c, ok := t.(*Compound); ok && c.Functor == "-->" && len(c.Args) == 2 {
		r, err = expandDCG(c)
	} else {
		r, err = NewRule(t)
	}
	if err != nil {
		return err
	}
	e.db.Assert(r)
	return nil
}

// run proves a goal once.
func (e *Engine) run(goal Term) (bool, error) {
	found := false
	err := e.Solve(conjunction(goal), NewEnv(), func(*Env) error {
		found = true
		return ErrStop
	})
	return found, err
}

// Solution is the read-only view a Query handler receives once per
// refutation.
type Solution struct {
	vars []Variable
	env  *Env
}

// Vars returns the query's variable names in order of first appearance.
func (s *Solution) Vars() []string {
	ns := make([]string, len(s.vars))
	for i, v := range s.vars {
		ns[i] = string(v)
	}
	return ns
}

// Scan copies the resolved value of every query variable into out.
func (s *Solution) Scan(out map[string]Term) {
	for _, v := range s.vars {
		out[string(v)] = s.env.Simplify(v)
	}
}

// Query parses one query and enumerates its solutions through h. A nil h
// checks for the first solution only. The boolean reports whether any
// solution was found; the error reports structural faults, not logic
// failure.
func (e *Engine) Query(src string, h func(*Solution) error) (bool, error) {
	t, err := NewParser(src).Clause()
	if err == io.EOF {
		return false, &SyntaxError{Reason: "empty query"}
	}
	if err != nil {
		return false, err
	}
	if c, ok := t.(*Compound); ok && len(c.Args) == 1 && (c.Functor == "?-" || c.Functor == ":-") {
		t = c.Args[0]
	}

	vars := queryVariables(t)
	found := false
	err = e.Solve(conjunction(t), NewEnv(), func(env *Env) error {
		found = true
		if h == nil {
			return ErrStop
		}
		return h(&Solution{vars: vars, env: env})
	})
	return found, err
}

// Resolve follows t's binding chain in env. A utility for solution
// handlers.
func (e *Engine) Resolve(t Term, env *Env) Term {
	return env.Resolve(t)
}

// CopyResolved returns a deep copy of t with all bindings applied, safe
// to hold after the query moves on.
func (e *Engine) CopyResolved(t Term, env *Env) Term {
	return env.Simplify(t)
}

// queryVariables collects the named variables of a query in order of
// first appearance. Generated variables (holding `#`) are skipped.
func queryVariables(t Term) []Variable {
	var vars []Variable
	seen := map[Variable]struct{}{}
	var walk func(Term)
	walk = func(t Term) {
		switch t := t.(type) {
		case Variable:
			if strings.ContainsRune(string(t), '#') {
				return
			}
			if _, dup := seen[t]; dup {
				return
			}
			seen[t] = struct{}{}
			vars = append(vars, t)
		case *Compound:
			for _, a := range t.Args {
				walk(a)
			}
		}
	}
	walk(t)
	return vars
}

// IsStructural reports whether err is one of the engine's typed faults as
// opposed to an I/O failure bubbling out of the sink.
func IsStructural(err error) bool {
	var de *DepthError
	var te *TypeError
	var ue *UnknownOperatorError
	var ee *EvaluationError
	var fe *FormatError
	var se *SyntaxError
	return errors.Is(err, ErrInstantiation) ||
		errors.As(err, &de) || errors.As(err, &te) || errors.As(err, &ue) ||
		errors.As(err, &ee) || errors.As(err, &fe) || errors.As(err, &se)
}
