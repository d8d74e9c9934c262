package prolog

// database holds the clauses of a session in insertion order, together
// with the indices that narrow candidate selection: functor/arity buckets
// and, within a bucket, a first-argument value hash for clauses whose
// first argument is a ground constant. The database is append-only; every
// Assert keeps the indices consistent.
type database struct {
	rules     []*Rule
	buckets   map[string]*bucket
	unindexed []int // rules whose head is a variable; tried for every goal
}

type bucket struct {
	all      []int            // every clause for the key, insertion order
	byFirst  map[uint64][]int // ground first argument, by value hash
	varFirst []int            // first argument is a variable
}

func newDatabase() *database {
	return &database{buckets: map[string]*bucket{}}
}

// Assert appends a rule and indexes its head.
func (db *database) Assert(r *Rule) {
	idx := len(db.rules)
	db.rules = append(db.rules, r)

	switch head := r.Head.(type) {
	case Variable:
		db.unindexed = append(db.unindexed, idx)
	case Atom:
		db.bucket(indicator(head, 0)).add(idx, nil)
	case *Compound:
		db.bucket(indicator(head.Functor, len(head.Args))).add(idx, head.Args[0])
	}
}

func (db *database) bucket(key string) *bucket {
	b, ok := db.buckets[key]
	if !ok {
		b = &bucket{byFirst: map[uint64][]int{}}
		db.buckets[key] = b
	}
	return b
}

func (b *bucket) add(idx int, firstArg Term) {
	b.all = append(b.all, idx)
	switch firstArg.(type) {
	case nil:
	case Atom, Integer, Float, Str:
		h := termHash(firstArg, nil)
		b.byFirst[h] = append(b.byFirst[h], idx)
	case Variable:
		b.varFirst = append(b.varFirst, idx)
	default:
		// compound first argument: reachable through the ordered list only
	}
}

// candidates returns the indices of the clauses a goal may resolve
// against, in trial order. Hash collisions are tolerated; unification
// filters survivors.
func (db *database) candidates(goal Term, env *Env) []int {
	goal = env.Resolve(goal)

	var name Atom
	var args []Term
	switch goal := goal.(type) {
	case Variable:
		// an unbound goal may resolve against anything
		ret := make([]int, len(db.rules))
		for i := range ret {
			ret[i] = i
		}
		return ret
	case Atom:
		name = goal
	case *Compound:
		name, args = goal.Functor, goal.Args
	default:
		return db.unindexed
	}

	b, ok := db.buckets[indicator(name, len(args))]
	if !ok {
		return db.unindexed
	}

	var ret []int
	if len(args) >= 1 {
		switch first := env.Resolve(args[0]).(type) {
		case Atom, Integer, Float, Str:
			ret = append(ret, b.byFirst[termHash(first, nil)]...)
			ret = append(ret, b.varFirst...)
			return append(ret, db.unindexed...)
		}
	}
	ret = append(ret, b.all...)
	return append(ret, db.unindexed...)
}
