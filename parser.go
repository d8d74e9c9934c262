package prolog

import (
	"fmt"
	"io"
	"strconv"
)

// Parser builds terms from surface syntax: a Pratt parser over the fixed
// operator table below, based on the Pratt parsing article at
// https://matklad.github.io/2020/04/13/simple-but-powerful-pratt-parsing.html
type Parser struct {
	lexer   *Lexer
	current Token
	anon    int
}

type opType byte

const (
	xfx opType = iota
	xfy
	yfx
	fy
	fx
)

type operator struct {
	priority int // 1 ~ 1200
	typ      opType
}

func (o operator) right() int {
	switch o.typ {
	case xfy, fy:
		return o.priority
	default:
		return o.priority - 1
	}
}

var infixOps = map[string]operator{
	":-":  {1200, xfx},
	"-->": {1200, xfx},
	";":   {1100, xfy},
	"->":  {1050, xfy},
	",":   {1000, xfy},
	"=":   {700, xfx},
	"\\=": {700, xfx},
	"=:=": {700, xfx},
	"=\\=": {700, xfx},
	"<":   {700, xfx},
	">":   {700, xfx},
	"=<":  {700, xfx},
	">=":  {700, xfx},
	"is":  {700, xfx},
	"+":   {500, yfx},
	"-":   {500, yfx},
	"*":   {400, yfx},
	"/":   {400, yfx},
	"//":  {400, yfx},
	"mod": {400, yfx},
	"rem": {400, yfx},
	"div": {400, yfx},
}

var prefixOps = map[string]operator{
	":-":  {1200, fx},
	"?-":  {1200, fx},
	"\\+": {900, fy},
	"-":   {200, fy},
}

func NewParser(input string) *Parser {
	return &Parser{lexer: NewLexer(input)}
}

func (p *Parser) advance() error {
	t, err := p.lexer.Next()
	if err != nil {
		return err
	}
	p.current = t
	return nil
}

// Program parses clauses until end of input.
func (p *Parser) Program() ([]Term, error) {
	var ret []Term
	for {
		t, err := p.Clause()
		if err == io.EOF {
			return ret, nil
		}
		if err != nil {
			return nil, err
		}
		ret = append(ret, t)
	}
}

// Clause parses one term followed by the clause terminator. It returns
// io.EOF at end of input and ErrInsufficient when input stops mid-term.
func (p *Parser) Clause() (Term, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.current.Kind == TokenEOS {
		return nil, io.EOF
	}
	t, err := p.expr(1200)
	if err != nil {
		return nil, err
	}
	if p.current.Kind != TokenEnd {
		if p.current.Kind == TokenEOS {
			return nil, ErrInsufficient
		}
		return nil, &SyntaxError{Reason: fmt.Sprintf("operator expected before %s", p.current)}
	}
	return t, nil
}

func (p *Parser) expr(max int) (Term, error) {
	lhs, err := p.left(max)
	if err != nil {
		return nil, err
	}

	for {
		name, op, ok := p.peekInfix()
		if !ok || op.priority > max {
			return lhs, nil
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.expr(op.right())
		if err != nil {
			return nil, err
		}
		lhs = &Compound{Functor: Atom(name), Args: []Term{lhs, rhs}}
	}
}

func (p *Parser) peekInfix() (string, operator, bool) {
	switch p.current.Kind {
	case TokenAtom:
		op, ok := infixOps[p.current.Val]
		return p.current.Val, op, ok
	case TokenSeparator:
		if p.current.Val == "," {
			return ",", infixOps[","], true
		}
	}
	return "", operator{}, false
}

func (p *Parser) left(max int) (Term, error) {
	if p.current.Kind == TokenAtom {
		if op, ok := prefixOps[p.current.Val]; ok && op.priority <= max {
			name := p.current.Val
			if err := p.advance(); err != nil {
				return nil, err
			}
			// negative numeric literals fold the sign
			if name == "-" {
				switch p.current.Kind {
				case TokenInteger, TokenFloat:
					n, err := p.primary()
					if err != nil {
						return nil, err
					}
					if i, ok := n.(Integer); ok {
						return -i, nil
					}
					return -n.(Float), nil
				}
			}
			if !p.startsTerm() {
				return Atom(name), nil
			}
			x, err := p.expr(op.right())
			if err != nil {
				return nil, err
			}
			if name == "-" {
				return &Compound{Functor: "-", Args: []Term{x}}, nil
			}
			return &Compound{Functor: Atom(name), Args: []Term{x}}, nil
		}
	}
	return p.primary()
}

// startsTerm reports whether the current token can begin a term, which is
// how a prefix-operator atom standing alone is told apart from a prefix
// application.
func (p *Parser) startsTerm() bool {
	switch p.current.Kind {
	case TokenAtom:
		if _, ok := infixOps[p.current.Val]; ok {
			_, pre := prefixOps[p.current.Val]
			return pre
		}
		return true
	case TokenVariable, TokenInteger, TokenFloat, TokenStr:
		return true
	case TokenSeparator:
		switch p.current.Val {
		case "(", "[", "{":
			return true
		}
	}
	return false
}

func (p *Parser) primary() (Term, error) {
	switch p.current.Kind {
	case TokenEOS:
		return nil, ErrInsufficient
	case TokenInteger:
		i, err := strconv.ParseInt(p.current.Val, 10, 64)
		if err != nil {
			return nil, &SyntaxError{Reason: fmt.Sprintf("malformed integer %s", p.current.Val)}
		}
		return Integer(i), p.advance()
	case TokenFloat:
		f, err := strconv.ParseFloat(p.current.Val, 64)
		if err != nil {
			return nil, &SyntaxError{Reason: fmt.Sprintf("malformed float %s", p.current.Val)}
		}
		return Float(f), p.advance()
	case TokenStr:
		s := Str(p.current.Val)
		return s, p.advance()
	case TokenVariable:
		name := p.current.Val
		if name == "_" {
			// each bare underscore is a distinct variable
			p.anon++
			name = "_#A" + strconv.Itoa(p.anon)
		}
		return Variable(name), p.advance()
	case TokenAtom:
		name := p.current.Val
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.current.Kind == TokenSeparator && p.current.Val == "(" {
			return p.compound(name)
		}
		return Atom(name), nil
	case TokenSeparator:
		switch p.current.Val {
		case "(":
			if err := p.advance(); err != nil {
				return nil, err
			}
			t, err := p.expr(1200)
			if err != nil {
				return nil, err
			}
			if err := p.expectSeparator(")"); err != nil {
				return nil, err
			}
			return t, nil
		case "[":
			return p.list()
		case "{":
			return p.braces()
		}
	}
	return nil, &SyntaxError{Reason: fmt.Sprintf("unexpected %s", p.current)}
}

func (p *Parser) compound(name string) (Term, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	var args []Term
	for {
		a, err := p.expr(999)
		if err != nil {
			return nil, err
		}
		args = append(args, a)
		if p.current.Kind != TokenSeparator {
			return nil, p.separatorError(`"," or ")"`)
		}
		switch p.current.Val {
		case ",":
			if err := p.advance(); err != nil {
				return nil, err
			}
		case ")":
			return &Compound{Functor: Atom(name), Args: args}, p.advance()
		default:
			return nil, p.separatorError(`"," or ")"`)
		}
	}
}

func (p *Parser) list() (Term, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.current.Kind == TokenSeparator && p.current.Val == "]" {
		return Atom("[]"), p.advance()
	}
	var elems []Term
	for {
		e, err := p.expr(999)
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		if p.current.Kind != TokenSeparator {
			return nil, p.separatorError(`"," or "|" or "]"`)
		}
		switch p.current.Val {
		case ",":
			if err := p.advance(); err != nil {
				return nil, err
			}
		case "|":
			if err := p.advance(); err != nil {
				return nil, err
			}
			tail, err := p.expr(999)
			if err != nil {
				return nil, err
			}
			if err := p.expectSeparator("]"); err != nil {
				return nil, err
			}
			return ListRest(tail, elems...), nil
		case "]":
			return List(elems...), p.advance()
		default:
			return nil, p.separatorError(`"," or "|" or "]"`)
		}
	}
}

func (p *Parser) braces() (Term, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.current.Kind == TokenSeparator && p.current.Val == "}" {
		return Atom("{}"), p.advance()
	}
	t, err := p.expr(1200)
	if err != nil {
		return nil, err
	}
	if err := p.expectSeparator("}"); err != nil {
		return nil, err
	}
	return &Compound{Functor: "{}", Args: []Term{t}}, nil
}

func (p *Parser) expectSeparator(val string) error {
	if p.current.Kind != TokenSeparator || p.current.Val != val {
		return p.separatorError(strconv.Quote(val))
	}
	return p.advance()
}

func (p *Parser) separatorError(expected string) error {
	if p.current.Kind == TokenEOS {
		return ErrInsufficient
	}
	return &SyntaxError{Reason: fmt.Sprintf("expected %s, got %s", expected, p.current)}
}
