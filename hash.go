package prolog

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/spaolacci/murmur3"
)

// Structural hashing of terms, used by the first-argument clause index and
// by distinct/2. Hash collisions are tolerated by every caller: the index
// filters survivors through unification, distinct/2 accepts the (remote)
// possibility of dropping a colliding solution.

const (
	hashTagAtom byte = iota + 1
	hashTagVariable
	hashTagInteger
	hashTagFloat
	hashTagStr
	hashTagCompound
)

// termHash hashes the resolved form of t. Equal ground terms hash equally;
// -0.0 hashes like 0.0 so the two count as the same value.
func termHash(t Term, env *Env) uint64 {
	h := murmur3.New128()
	hashTerm(h, t, env, nil)
	sum, _ := h.Sum128()
	return sum
}

func hashTerm(w io.Writer, t Term, env *Env, pending map[Variable]struct{}) {
	t = env.Resolve(t)
	switch t := t.(type) {
	case Atom:
		_, _ = w.Write([]byte{hashTagAtom})
		_, _ = w.Write([]byte(t))
	case Variable:
		_, _ = w.Write([]byte{hashTagVariable})
		_, _ = w.Write([]byte(t))
	case Integer:
		_, _ = w.Write([]byte{hashTagInteger})
		_ = binary.Write(w, binary.LittleEndian, int64(t))
	case Float:
		f := float64(t)
		if f == 0 {
			f = 0 // collapses -0.0 into 0.0
		}
		_, _ = w.Write([]byte{hashTagFloat})
		_ = binary.Write(w, binary.LittleEndian, math.Float64bits(f))
	case Str:
		_, _ = w.Write([]byte{hashTagStr})
		_, _ = w.Write([]byte(t))
	case *Compound:
		_, _ = w.Write([]byte{hashTagCompound})
		_, _ = w.Write([]byte(t.Functor))
		_ = binary.Write(w, binary.LittleEndian, int64(len(t.Args)))
		for _, a := range t.Args {
			hashArg(w, a, env, pending)
		}
	}
}

// hashArg guards against cyclic bindings: a variable already on its own
// resolution path is hashed as a variable instead of being chased again.
func hashArg(w io.Writer, t Term, env *Env, pending map[Variable]struct{}) {
	v, ok := t.(Variable)
	if !ok {
		hashTerm(w, t, env, pending)
		return
	}
	if _, open := pending[v]; open {
		_, _ = w.Write([]byte{hashTagVariable})
		_, _ = w.Write([]byte(v))
		return
	}
	if pending == nil {
		pending = map[Variable]struct{}{}
	}
	pending[v] = struct{}{}
	hashTerm(w, env.Resolve(v), env, pending)
	delete(pending, v)
}

// containsNaN reports whether the resolved form of t mentions a NaN.
// distinct/2 never counts NaN-bearing templates as seen, matching the
// arithmetic rule that NaN compares unequal to itself.
func containsNaN(t Term, env *Env) bool {
	switch t := env.Resolve(t).(type) {
	case Float:
		return math.IsNaN(float64(t))
	case *Compound:
		for _, a := range t.Args {
			if containsNaN(a, env) {
				return true
			}
		}
	}
	return false
}
