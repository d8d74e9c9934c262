package main

import (
	"strings"

	"github.com/ziglog/prolog"
)

// ANSI colors for solution values on interactive terminals.
const (
	colorReset  = "\x1b[0m"
	colorNumber = "\x1b[36m"
	colorAtom   = "\x1b[32m"
	colorVar    = "\x1b[33m"
	colorStr    = "\x1b[35m"
)

// colorize re-tokenizes a rendered term and wraps each token class in its
// color. Anything the lexer chokes on is printed as is.
func colorize(rendered string, enabled bool) string {
	if !enabled {
		return rendered
	}

	l := prolog.NewLexer(rendered)
	var b strings.Builder
	pos := 0
	for {
		tok, err := l.Next()
		if err != nil || tok.Kind == prolog.TokenEOS {
			break
		}
		start := strings.Index(rendered[pos:], rawToken(tok))
		if start < 0 {
			return rendered
		}
		b.WriteString(rendered[pos : pos+start])
		b.WriteString(paint(tok))
		pos += start + len(rawToken(tok))
	}
	b.WriteString(rendered[pos:])
	return b.String()
}

// rawToken reconstructs the surface text a token came from, closely
// enough to find it again in the rendered string.
func rawToken(tok prolog.Token) string {
	switch tok.Kind {
	case prolog.TokenStr:
		return `"` + tok.Val + `"`
	default:
		return tok.Val
	}
}

func paint(tok prolog.Token) string {
	raw := rawToken(tok)
	switch tok.Kind {
	case prolog.TokenInteger, prolog.TokenFloat:
		return colorNumber + raw + colorReset
	case prolog.TokenAtom:
		return colorAtom + raw + colorReset
	case prolog.TokenVariable:
		return colorVar + raw + colorReset
	case prolog.TokenStr:
		return colorStr + raw + colorReset
	default:
		return raw
	}
}
