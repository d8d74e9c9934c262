package prolog

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

// collect runs a query and returns one row per solution, each variable
// rendered with the canonical writer.
func collect(t *testing.T, e *Engine, query string) []map[string]string {
	t.Helper()
	var out []map[string]string
	_, err := e.Query(query, func(s *Solution) error {
		m := map[string]Term{}
		s.Scan(m)
		row := map[string]string{}
		for _, n := range s.Vars() {
			row[n] = m[n].String()
		}
		out = append(out, row)
		return nil
	})
	assert.NoError(t, err)
	return out
}

func testEngine(t *testing.T, src string) *Engine {
	t.Helper()
	e := New()
	e.SetOutput(&bytes.Buffer{})
	assert.NoError(t, e.Exec(src))
	return e
}

func TestSolve_Facts(t *testing.T) {
	e := testEngine(t, `
parent(john, mary).
parent(jane, mary).
parent(mary, ann).
grandparent(X, Y) :- parent(X, Z), parent(Z, Y).
`)

	t.Run("solutions in database order", func(t *testing.T) {
		assert.Equal(t, []map[string]string{
			{"X": "john"},
			{"X": "jane"},
		}, collect(t, e, `grandparent(X, ann).`))
	})

	t.Run("ground query", func(t *testing.T) {
		found, err := e.Query(`grandparent(john, ann).`, nil)
		assert.NoError(t, err)
		assert.True(t, found)
	})

	t.Run("logic failure is not an error", func(t *testing.T) {
		found, err := e.Query(`grandparent(ann, john).`, nil)
		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("unknown predicate fails silently", func(t *testing.T) {
		found, err := e.Query(`sibling(john, jane).`, nil)
		assert.NoError(t, err)
		assert.False(t, found)
	})
}

func TestSolve_Append(t *testing.T) {
	e := testEngine(t, `
append([], L, L).
append([H|T], L, [H|R]) :- append(T, L, R).
`)

	t.Run("concatenate", func(t *testing.T) {
		assert.Equal(t, []map[string]string{
			{"X": "[1, 2, 3]"},
		}, collect(t, e, `append([1, 2], [3], X).`))
	})

	t.Run("split enumerates every division", func(t *testing.T) {
		assert.Equal(t, []map[string]string{
			{"A": "[]", "B": "[1, 2]"},
			{"A": "[1]", "B": "[2]"},
			{"A": "[1, 2]", "B": "[]"},
		}, collect(t, e, `append(A, B, [1, 2]).`))
	})
}

func TestSolve_Arithmetic(t *testing.T) {
	e := testEngine(t, ``)

	tests := []struct {
		query string
		want  string
	}{
		{query: `X is 7 / 2.`, want: "3.5"},
		{query: `X is 7 // 2.`, want: "3"},
		{query: `X is 7 mod 3.`, want: "1"},
		{query: `X is 1.0Inf + 1.`, want: "1.0Inf"},
		{query: `X is 2 + 3 * 4.`, want: "14"},
		{query: `X is -(3).`, want: "-3"},
		{query: `X is min(2, 1.5).`, want: "1.5"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, []map[string]string{{"X": tt.want}}, collect(t, e, tt.query))
		})
	}

	t.Run("comparisons guard the branch", func(t *testing.T) {
		found, err := e.Query(`3 < 4, 4 >= 4, 3 =:= 3.0, 3 =\= 4.`, nil)
		assert.NoError(t, err)
		assert.True(t, found)

		found, err = e.Query(`4 =< 3.`, nil)
		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("uninstantiated expression aborts the query", func(t *testing.T) {
		_, err := e.Query(`X is Y + 1.`, nil)
		assert.ErrorIs(t, err, ErrInstantiation)
	})

	t.Run("unification of the result can fail quietly", func(t *testing.T) {
		found, err := e.Query(`4 is 2 + 3.`, nil)
		assert.NoError(t, err)
		assert.False(t, found)
	})
}

func TestSolve_Cut(t *testing.T) {
	t.Run("commits to the first matching clause", func(t *testing.T) {
		e := testEngine(t, `
max(X, Y, X) :- X >= Y, !.
max(_, Y, Y).
`)
		assert.Equal(t, []map[string]string{
			{"Z": "7"},
		}, collect(t, e, `max(3, 7, Z).`))

		assert.Equal(t, []map[string]string{
			{"Z": "9"},
		}, collect(t, e, `max(9, 7, Z).`))
	})

	t.Run("cut inside a disjunction stays inside the predicate", func(t *testing.T) {
		e := testEngine(t, `
a(1).
a(2).
b(X) :- (X = 1, ! ; X = 2).
`)
		assert.Equal(t, []map[string]string{
			{"Y": "1"},
			{"Y": "2"},
		}, collect(t, e, `a(Y), b(Y).`))
	})

	t.Run("cut prunes earlier goals of the same body", func(t *testing.T) {
		e := testEngine(t, `
p(1).
p(2).
q(X) :- p(X), !.
`)
		assert.Equal(t, []map[string]string{
			{"X": "1"},
		}, collect(t, e, `q(X).`))
	})

	t.Run("cut in a middle clause leaves earlier solutions alone", func(t *testing.T) {
		e := testEngine(t, `
r(1).
r(2) :- !.
r(3).
`)
		assert.Equal(t, []map[string]string{
			{"X": "1"},
			{"X": "2"},
		}, collect(t, e, `r(X).`))
	})
}

func TestSolve_Disjunction(t *testing.T) {
	e := testEngine(t, ``)

	t.Run("tries both alternatives in order", func(t *testing.T) {
		assert.Equal(t, []map[string]string{
			{"X": "1"},
			{"X": "2"},
		}, collect(t, e, `(X = 1 ; X = 2).`))
	})

	t.Run("alternatives don't leak bindings", func(t *testing.T) {
		assert.Equal(t, []map[string]string{
			{"X": "1", "Y": "Y"},
			{"X": "X", "Y": "2"},
		}, collect(t, e, `(X = 1 ; Y = 2).`))
	})
}

func TestSolve_IfThenElse(t *testing.T) {
	e := testEngine(t, `
p(1).
p(2).
`)

	t.Run("then branch", func(t *testing.T) {
		assert.Equal(t, []map[string]string{
			{"X": "5", "Y": "big"},
		}, collect(t, e, `X = 5, (X > 3 -> Y = big ; Y = small).`))
	})

	t.Run("else branch", func(t *testing.T) {
		assert.Equal(t, []map[string]string{
			{"X": "1", "Y": "small"},
		}, collect(t, e, `X = 1, (X > 3 -> Y = big ; Y = small).`))
	})

	t.Run("commits to the condition's first solution", func(t *testing.T) {
		assert.Equal(t, []map[string]string{
			{"X": "1", "Y": "1"},
		}, collect(t, e, `(p(X) -> Y = X ; Y = none).`))
	})

	t.Run("if-then without else fails when the condition does", func(t *testing.T) {
		found, err := e.Query(`(p(3) -> true).`, nil)
		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("condition bindings reach the then branch", func(t *testing.T) {
		assert.Equal(t, []map[string]string{
			{"X": "1"},
		}, collect(t, e, `(p(X) -> true ; fail).`))
	})
}

func TestSolve_Negation(t *testing.T) {
	e := testEngine(t, `
p(1).
p(2).
`)

	t.Run("succeeds when the goal has no solution", func(t *testing.T) {
		found, err := e.Query(`\+ p(3).`, nil)
		assert.NoError(t, err)
		assert.True(t, found)
	})

	t.Run("fails when the goal has one", func(t *testing.T) {
		found, err := e.Query(`\+ p(1).`, nil)
		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("not/1 is a synonym", func(t *testing.T) {
		found, err := e.Query(`not(p(3)).`, nil)
		assert.NoError(t, err)
		assert.True(t, found)
	})

	t.Run("probe bindings never leak", func(t *testing.T) {
		assert.Equal(t, []map[string]string{
			{"X": "2"},
		}, collect(t, e, `\+ (X = 1, fail), X = 2.`))
	})
}

func TestSolve_NotUnifiable(t *testing.T) {
	e := testEngine(t, ``)

	t.Run("distinct constants", func(t *testing.T) {
		found, err := e.Query(`1 \= 2.`, nil)
		assert.NoError(t, err)
		assert.True(t, found)
	})

	t.Run("unifiable terms fail", func(t *testing.T) {
		found, err := e.Query(`f(X) \= f(1).`, nil)
		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("the probe's bindings are discarded", func(t *testing.T) {
		assert.Equal(t, []map[string]string{
			{"X": "2"},
		}, collect(t, e, `\+ X \= 1, X = 2.`))
	})
}

func TestSolve_Repeat(t *testing.T) {
	e := testEngine(t, ``)

	t.Run("cut terminates", func(t *testing.T) {
		found, err := e.Query(`repeat, !.`, nil)
		assert.NoError(t, err)
		assert.True(t, found)
	})

	t.Run("yields until stopped", func(t *testing.T) {
		n := 0
		_, err := e.Query(`repeat, X = 1.`, func(*Solution) error {
			n++
			if n == 3 {
				return ErrStop
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 3, n)
	})
}

func TestSolve_DepthGuard(t *testing.T) {
	e := testEngine(t, `loop :- loop.`)

	_, err := e.Query(`loop.`, nil)
	var de *DepthError
	assert.ErrorAs(t, err, &de)
}

func TestSolve_Distinct(t *testing.T) {
	e := testEngine(t, `
p(1).
p(2).
p(1).
`)

	t.Run("drops duplicate template values", func(t *testing.T) {
		assert.Equal(t, []map[string]string{
			{"X": "1"},
			{"X": "2"},
		}, collect(t, e, `distinct(X, p(X)).`))
	})

	t.Run("nan is never a duplicate", func(t *testing.T) {
		e := testEngine(t, `
n(nan).
n(nan).
`)
		got := collect(t, e, `n(E), X is E, distinct(X, true).`)
		assert.Len(t, got, 2)
	})
}

func TestSolve_Determinism(t *testing.T) {
	// the emitted solutions must not depend on whether an activation ran
	// deterministically in place or on clones.
	e := testEngine(t, `
f(1).
f(2).
h(1, one).
h(2, two).
g(X, Y) :- f(X), h(X, Y).
single(V) :- f(V).
`)

	t.Run("indexed deterministic inner call", func(t *testing.T) {
		assert.Equal(t, []map[string]string{
			{"X": "1", "Y": "one"},
			{"X": "2", "Y": "two"},
		}, collect(t, e, `g(X, Y).`))
	})

	t.Run("single clause chain", func(t *testing.T) {
		assert.Equal(t, []map[string]string{
			{"V": "1"},
			{"V": "2"},
		}, collect(t, e, `single(V).`))
	})
}

func TestSolve_Output(t *testing.T) {
	t.Run("write and nl", func(t *testing.T) {
		e := New()
		var buf bytes.Buffer
		e.SetOutput(&buf)
		found, err := e.Query(`write(f(a, [1, 2])), nl.`, nil)
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "f(a, [1, 2])\n", buf.String())
	})

	t.Run("write resolves bindings", func(t *testing.T) {
		e := New()
		var buf bytes.Buffer
		e.SetOutput(&buf)
		_, err := e.Query(`X = hello, write(X).`, nil)
		assert.NoError(t, err)
		assert.Equal(t, "hello", buf.String())
	})
}

func TestSolve_VariableGoal(t *testing.T) {
	e := testEngine(t, `
p(1).
q(2).
`)

	t.Run("bound goal is called", func(t *testing.T) {
		assert.Equal(t, []map[string]string{
			{"G": "p(1)", "X": "1"},
		}, collect(t, e, `G = p(X), G.`))
	})

	t.Run("integer goal is a type error", func(t *testing.T) {
		_, err := e.Query(`G = 7, G.`, nil)
		var te *TypeError
		assert.ErrorAs(t, err, &te)
	})
}
