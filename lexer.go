package prolog

import (
	"fmt"
	"strings"
	"unicode"
)

// Lexer tokenizes Prolog surface syntax. It produces atoms, variables,
// numbers, strings and separators; the clause terminator `.` is emitted
// as TokenEnd when followed by layout or end of input.
type Lexer struct {
	input []rune
	pos   int
}

func NewLexer(input string) *Lexer {
	return &Lexer{input: []rune(input)}
}

type Token struct {
	Kind TokenKind
	Val  string
}

func (t Token) String() string {
	return fmt.Sprintf("<%s %q>", t.Kind, t.Val)
}

type TokenKind byte

const (
	TokenEOS TokenKind = iota
	TokenEnd
	TokenAtom
	TokenVariable
	TokenInteger
	TokenFloat
	TokenStr
	TokenSeparator
)

func (k TokenKind) String() string {
	switch k {
	case TokenEOS:
		return "eos"
	case TokenEnd:
		return "end"
	case TokenAtom:
		return "atom"
	case TokenVariable:
		return "variable"
	case TokenInteger:
		return "integer"
	case TokenFloat:
		return "float"
	case TokenStr:
		return "string"
	case TokenSeparator:
		return "separator"
	default:
		return fmt.Sprintf("unknown(%d)", k)
	}
}

func (l *Lexer) next() (rune, bool) {
	if l.pos >= len(l.input) {
		return 0, false
	}
	r := l.input[l.pos]
	l.pos++
	return r, true
}

func (l *Lexer) peek() (rune, bool) {
	if l.pos >= len(l.input) {
		return 0, false
	}
	return l.input[l.pos], true
}

func (l *Lexer) backup() {
	l.pos--
}

// Next returns the next token. At end of input it keeps returning a
// TokenEOS.
func (l *Lexer) Next() (Token, error) {
	l.skipLayout()

	r, ok := l.next()
	if !ok {
		return Token{Kind: TokenEOS}, nil
	}

	switch {
	case r == '.' && l.endFollows():
		return Token{Kind: TokenEnd, Val: "."}, nil
	case unicode.IsLower(r):
		l.backup()
		return Token{Kind: TokenAtom, Val: l.takeWhile(isAlnum)}, nil
	case unicode.IsUpper(r), r == '_':
		l.backup()
		return Token{Kind: TokenVariable, Val: l.takeWhile(isAlnum)}, nil
	case unicode.IsDigit(r):
		l.backup()
		return l.number()
	case r == '\'':
		return l.quotedAtom()
	case r == '"':
		return l.str()
	case isGraphic(r):
		l.backup()
		return Token{Kind: TokenAtom, Val: l.takeWhile(isGraphic)}, nil
	case r == '!' || r == ';':
		return Token{Kind: TokenAtom, Val: string(r)}, nil
	case strings.ContainsRune("()[]{},|", r):
		return Token{Kind: TokenSeparator, Val: string(r)}, nil
	default:
		return Token{}, &SyntaxError{Reason: fmt.Sprintf("unexpected character %q", r)}
	}
}

func (l *Lexer) skipLayout() {
	for {
		r, ok := l.next()
		switch {
		case !ok:
			return
		case unicode.IsSpace(r):
		case r == '%':
			for {
				r, ok := l.next()
				if !ok || r == '\n' {
					break
				}
			}
		case r == '/':
			if p, ok := l.peek(); ok && p == '*' {
				l.next()
				for {
					r, ok := l.next()
					if !ok {
						return
					}
					if r == '*' {
						if p, ok := l.peek(); ok && p == '/' {
							l.next()
							break
						}
					}
				}
				continue
			}
			l.backup()
			return
		default:
			l.backup()
			return
		}
	}
}

// endFollows reports whether the `.` just read terminates a clause:
// layout, a comment, or end of input comes next.
func (l *Lexer) endFollows() bool {
	r, ok := l.peek()
	if ok && r == '/' && l.pos+1 < len(l.input) && l.input[l.pos+1] == '*' {
		return true
	}
	return !ok || unicode.IsSpace(r) || r == '%'
}

func (l *Lexer) takeWhile(pred func(rune) bool) string {
	var b strings.Builder
	for {
		r, ok := l.next()
		if !ok {
			break
		}
		if !pred(r) {
			l.backup()
			break
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (l *Lexer) number() (Token, error) {
	intPart := l.takeWhile(unicode.IsDigit)

	r, ok := l.peek()
	if !ok || r != '.' {
		return Token{Kind: TokenInteger, Val: intPart}, nil
	}
	// a digit must follow the dot, else the dot belongs to the clause end
	l.next()
	if r, ok := l.peek(); !ok || !unicode.IsDigit(r) {
		l.backup()
		return Token{Kind: TokenInteger, Val: intPart}, nil
	}
	frac := l.takeWhile(unicode.IsDigit)
	val := intPart + "." + frac

	// the writer's special float forms read back: 1.0Inf, -1.0Inf, 1.5NaN
	if l.literalFollows("Inf") {
		return Token{Kind: TokenFloat, Val: "Inf"}, nil
	}
	if l.literalFollows("NaN") {
		return Token{Kind: TokenFloat, Val: "NaN"}, nil
	}

	if r, ok := l.peek(); ok && (r == 'e' || r == 'E') {
		l.next()
		sign := ""
		if r, ok := l.peek(); ok && (r == '+' || r == '-') {
			l.next()
			sign = string(r)
		}
		exp := l.takeWhile(unicode.IsDigit)
		if exp == "" {
			return Token{}, &SyntaxError{Reason: "malformed float exponent"}
		}
		val += "e" + sign + exp
	}
	return Token{Kind: TokenFloat, Val: val}, nil
}

func (l *Lexer) literalFollows(s string) bool {
	for i, r := range s {
		if l.pos+i >= len(l.input) || l.input[l.pos+i] != r {
			return false
		}
	}
	l.pos += len(s)
	return true
}

func (l *Lexer) quotedAtom() (Token, error) {
	var b strings.Builder
	for {
		r, ok := l.next()
		if !ok {
			return Token{}, ErrInsufficient
		}
		switch r {
		case '\'':
			if p, ok := l.peek(); ok && p == '\'' {
				l.next()
				b.WriteRune('\'')
				continue
			}
			return Token{Kind: TokenAtom, Val: b.String()}, nil
		case '\\':
			e, err := l.escape()
			if err != nil {
				return Token{}, err
			}
			b.WriteRune(e)
		default:
			b.WriteRune(r)
		}
	}
}

func (l *Lexer) str() (Token, error) {
	var b strings.Builder
	for {
		r, ok := l.next()
		if !ok {
			return Token{}, ErrInsufficient
		}
		switch r {
		case '"':
			return Token{Kind: TokenStr, Val: b.String()}, nil
		case '\\':
			e, err := l.escape()
			if err != nil {
				return Token{}, err
			}
			b.WriteRune(e)
		default:
			b.WriteRune(r)
		}
	}
}

func (l *Lexer) escape() (rune, error) {
	r, ok := l.next()
	if !ok {
		return 0, ErrInsufficient
	}
	switch r {
	case 'a':
		return '\a', nil
	case 'b':
		return '\b', nil
	case 'f':
		return '\f', nil
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 't':
		return '\t', nil
	case 'v':
		return '\v', nil
	case '\\', '\'', '"', '`':
		return r, nil
	default:
		return 0, &SyntaxError{Reason: fmt.Sprintf("unknown escape \\%c", r)}
	}
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func isGraphic(r rune) bool {
	return strings.ContainsRune("#$&*+-./:<=>?@^~\\", r)
}
