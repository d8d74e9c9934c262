package prolog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnv_Resolve(t *testing.T) {
	t.Run("unbound", func(t *testing.T) {
		env := NewEnv()
		assert.Equal(t, Variable("X"), env.Resolve(Variable("X")))
	})

	t.Run("chain", func(t *testing.T) {
		env := NewEnv()
		env.bind("X", Variable("Y"))
		env.bind("Y", Variable("Z"))
		env.bind("Z", Atom("a"))
		assert.Equal(t, Atom("a"), env.Resolve(Variable("X")))
	})

	t.Run("non-variable", func(t *testing.T) {
		env := NewEnv()
		env.bind("X", Atom("a"))
		assert.Equal(t, Integer(1), env.Resolve(Integer(1)))
	})

	t.Run("nil env", func(t *testing.T) {
		var env *Env
		assert.Equal(t, Variable("X"), env.Resolve(Variable("X")))
	})

	t.Run("idempotent", func(t *testing.T) {
		env := NewEnv()
		env.bind("X", Variable("Y"))
		env.bind("Y", Cons(Atom("a"), Variable("T")))
		once := env.Resolve(Variable("X"))
		assert.Equal(t, once, env.Resolve(once))
	})
}

func TestEnv_Clone(t *testing.T) {
	env := NewEnv()
	env.bind("X", Atom("a"))

	c := env.Clone()
	c.bind("Y", Atom("b"))
	c.bind("X", Atom("c"))

	assert.Equal(t, Atom("a"), env.Resolve(Variable("X")))
	assert.Equal(t, Variable("Y"), env.Resolve(Variable("Y")))
	assert.Equal(t, Atom("c"), c.Resolve(Variable("X")))
}

func TestEnv_Simplify(t *testing.T) {
	t.Run("deep", func(t *testing.T) {
		env := NewEnv()
		env.bind("X", Variable("Y"))
		env.bind("Y", Integer(1))
		env.bind("T", List(Integer(2)))
		assert.Equal(t, List(Integer(1), Integer(2)), env.Simplify(ListRest(Variable("T"), Variable("X"))))
	})

	t.Run("unbound variables remain", func(t *testing.T) {
		env := NewEnv()
		assert.Equal(t, &Compound{Functor: "f", Args: []Term{Variable("X")}}, env.Simplify(&Compound{Functor: "f", Args: []Term{Variable("X")}}))
	})

	t.Run("cyclic binding", func(t *testing.T) {
		env := NewEnv()
		env.bind("X", &Compound{Functor: "f", Args: []Term{Variable("X")}})
		got := env.Simplify(Variable("X"))
		c, ok := got.(*Compound)
		if assert.True(t, ok) {
			assert.Equal(t, Atom("f"), c.Functor)
			assert.Equal(t, Variable("X"), c.Args[0])
		}
	})
}
