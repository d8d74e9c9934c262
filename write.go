package prolog

import (
	"io"
	"math"
	"strconv"
	"strings"
)

// WriteTerm renders the resolved form of t onto w in the canonical
// notation: quoted atoms where needed, list syntax for `.`/2 chains, a
// fixed set of infix operators, and the 1.0Inf / -1.0Inf / 1.5NaN float
// forms. Cyclic structures render an ellipsis at the point of revisit.
func WriteTerm(w io.Writer, t Term, env *Env) error {
	tw := termWriter{w: w, env: env}
	tw.term(t)
	return tw.err
}

// writeTermString is a convenience for hosts building solution lines.
func writeTermString(t Term, env *Env) string {
	var sb strings.Builder
	_ = WriteTerm(&sb, t, env)
	return sb.String()
}

var infixOperators = map[Atom]struct{}{
	"+": {}, "-": {}, "*": {}, "/": {},
	">": {}, "<": {}, ">=": {}, "=<": {},
	"\\=": {}, "=": {}, "is": {}, ";": {},
}

type termWriter struct {
	w       io.Writer
	env     *Env
	err     error
	visited map[*Compound]struct{}
}

func (tw *termWriter) write(s string) {
	if tw.err != nil {
		return
	}
	_, tw.err = io.WriteString(tw.w, s)
}

func (tw *termWriter) term(t Term) {
	switch t := tw.env.Resolve(t).(type) {
	case Variable:
		tw.write(string(t))
	case Atom:
		tw.atom(t)
	case Integer:
		tw.write(strconv.FormatInt(int64(t), 10))
	case Float:
		tw.write(formatFloat(float64(t)))
	case Str:
		tw.write(`"`)
		tw.write(string(t))
		tw.write(`"`)
	case *Compound:
		if _, ok := tw.visited[t]; ok {
			tw.write("...")
			return
		}
		if tw.visited == nil {
			tw.visited = map[*Compound]struct{}{}
		}
		tw.visited[t] = struct{}{}
		tw.compound(t)
		delete(tw.visited, t)
	}
}

func (tw *termWriter) compound(c *Compound) {
	if c.Functor == "." && len(c.Args) == 2 {
		tw.list(c)
		return
	}
	if _, ok := infixOperators[c.Functor]; ok && len(c.Args) == 2 {
		tw.term(c.Args[0])
		if letterAtom(c.Functor) {
			tw.write(" ")
			tw.write(string(c.Functor))
			tw.write(" ")
		} else {
			tw.write(string(c.Functor))
		}
		tw.term(c.Args[1])
		return
	}
	tw.atom(c.Functor)
	tw.write("(")
	for i, a := range c.Args {
		if i > 0 {
			tw.write(", ")
		}
		tw.term(a)
	}
	tw.write(")")
}

func (tw *termWriter) list(c *Compound) {
	tw.write("[")
	tw.term(c.Args[0])
	var cells []*Compound
	defer func() {
		for _, cell := range cells {
			delete(tw.visited, cell)
		}
	}()
	t := tw.env.Resolve(c.Args[1])
	for {
		cell, ok := t.(*Compound)
		if !ok || cell.Functor != "." || len(cell.Args) != 2 {
			break
		}
		if _, seen := tw.visited[cell]; seen {
			tw.write("|...]")
			return
		}
		tw.visited[cell] = struct{}{}
		cells = append(cells, cell)
		tw.write(", ")
		tw.term(cell.Args[0])
		t = tw.env.Resolve(cell.Args[1])
	}
	if a, ok := t.(Atom); !ok || a != "[]" {
		tw.write("|")
		tw.term(t)
	}
	tw.write("]")
}

func (tw *termWriter) atom(a Atom) {
	if unquotedAtom(a) {
		tw.write(string(a))
		return
	}
	tw.write("'")
	tw.write(strings.ReplaceAll(string(a), "'", "''"))
	tw.write("'")
}

// unquotedAtom reports whether the name renders bare: a lowercase-initial
// identifier, an all-graphic name, or one of the solo atoms.
func unquotedAtom(a Atom) bool {
	switch a {
	case "[]", "{}", "!", ";", ",":
		return true
	case "":
		return false
	}
	if letterAtom(a) {
		return true
	}
	for _, r := range string(a) {
		if !strings.ContainsRune("#$&*+-./:<=>?@^~\\", r) {
			return false
		}
	}
	return true
}

func letterAtom(a Atom) bool {
	for i, r := range string(a) {
		switch {
		case i == 0 && (r < 'a' || r > 'z'):
			return false
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return len(string(a)) > 0
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "1.0Inf"
	case math.IsInf(f, -1):
		return "-1.0Inf"
	case math.IsNaN(f):
		return "1.5NaN"
	case f == math.Trunc(f) && math.Abs(f) <= 1e15:
		return strconv.FormatFloat(f, 'f', 1, 64)
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}
