package prolog

// Unify attempts to make t1 and t2 identical under env, binding variables
// as needed. It reports success; on failure bindings made along the way
// remain (callers that need atomic failure clone env first). No occurs
// check is performed, so unification can construct cyclic terms.
func Unify(t1, t2 Term, env *Env) bool {
	t1, t2 = env.Resolve(t1), env.Resolve(t2)

	if v, ok := t1.(Variable); ok {
		if w, ok := t2.(Variable); ok && v == w {
			return true
		}
		env.bind(v, t2)
		return true
	}
	if v, ok := t2.(Variable); ok {
		env.bind(v, t1)
		return true
	}

	switch t1 := t1.(type) {
	case Atom:
		t2, ok := t2.(Atom)
		return ok && t1 == t2
	case Integer:
		t2, ok := t2.(Integer)
		return ok && t1 == t2
	case Float:
		// NaN never unifies, not even with itself.
		t2, ok := t2.(Float)
		return ok && t1 == t2
	case Str:
		t2, ok := t2.(Str)
		return ok && t1 == t2
	case *Compound:
		t2, ok := t2.(*Compound)
		if !ok {
			return false
		}
		if t1 == t2 {
			return true
		}
		if t1.Functor != t2.Functor || len(t1.Args) != len(t2.Args) {
			return false
		}
		for i := range t1.Args {
			if !Unify(t1.Args[i], t2.Args[i], env) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
