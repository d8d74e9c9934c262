package prolog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func tokenize(t *testing.T, src string) []Token {
	t.Helper()
	l := NewLexer(src)
	var ts []Token
	for {
		tok, err := l.Next()
		assert.NoError(t, err)
		if tok.Kind == TokenEOS {
			return ts
		}
		ts = append(ts, tok)
	}
}

func TestLexer_Next(t *testing.T) {
	tests := []struct {
		title string
		src   string
		want  []Token
	}{
		{
			title: "fact",
			src:   `parent(john, mary).`,
			want: []Token{
				{Kind: TokenAtom, Val: "parent"},
				{Kind: TokenSeparator, Val: "("},
				{Kind: TokenAtom, Val: "john"},
				{Kind: TokenSeparator, Val: ","},
				{Kind: TokenAtom, Val: "mary"},
				{Kind: TokenSeparator, Val: ")"},
				{Kind: TokenEnd, Val: "."},
			},
		},
		{
			title: "rule neck and variables",
			src:   `f(X) :- g(X).`,
			want: []Token{
				{Kind: TokenAtom, Val: "f"},
				{Kind: TokenSeparator, Val: "("},
				{Kind: TokenVariable, Val: "X"},
				{Kind: TokenSeparator, Val: ")"},
				{Kind: TokenAtom, Val: ":-"},
				{Kind: TokenAtom, Val: "g"},
				{Kind: TokenSeparator, Val: "("},
				{Kind: TokenVariable, Val: "X"},
				{Kind: TokenSeparator, Val: ")"},
				{Kind: TokenEnd, Val: "."},
			},
		},
		{
			title: "numbers",
			src:   `7 3.14 2.5e10 1.0Inf 1.5NaN`,
			want: []Token{
				{Kind: TokenInteger, Val: "7"},
				{Kind: TokenFloat, Val: "3.14"},
				{Kind: TokenFloat, Val: "2.5e10"},
				{Kind: TokenFloat, Val: "Inf"},
				{Kind: TokenFloat, Val: "NaN"},
			},
		},
		{
			title: "integer then clause end",
			src:   `x(7).`,
			want: []Token{
				{Kind: TokenAtom, Val: "x"},
				{Kind: TokenSeparator, Val: "("},
				{Kind: TokenInteger, Val: "7"},
				{Kind: TokenSeparator, Val: ")"},
				{Kind: TokenEnd, Val: "."},
			},
		},
		{
			title: "graphic atoms",
			src:   `X --> Y ; \+ Z`,
			want: []Token{
				{Kind: TokenVariable, Val: "X"},
				{Kind: TokenAtom, Val: "-->"},
				{Kind: TokenVariable, Val: "Y"},
				{Kind: TokenAtom, Val: ";"},
				{Kind: TokenAtom, Val: "\\+"},
				{Kind: TokenVariable, Val: "Z"},
			},
		},
		{
			title: "list sugar",
			src:   `[a, b | T]`,
			want: []Token{
				{Kind: TokenSeparator, Val: "["},
				{Kind: TokenAtom, Val: "a"},
				{Kind: TokenSeparator, Val: ","},
				{Kind: TokenAtom, Val: "b"},
				{Kind: TokenSeparator, Val: "|"},
				{Kind: TokenVariable, Val: "T"},
				{Kind: TokenSeparator, Val: "]"},
			},
		},
		{
			title: "quoted atom with doubled quote",
			src:   `'it''s'`,
			want: []Token{
				{Kind: TokenAtom, Val: "it's"},
			},
		},
		{
			title: "string",
			src:   `"hi\nthere"`,
			want: []Token{
				{Kind: TokenStr, Val: "hi\nthere"},
			},
		},
		{
			title: "cut and braces",
			src:   `! {g}`,
			want: []Token{
				{Kind: TokenAtom, Val: "!"},
				{Kind: TokenSeparator, Val: "{"},
				{Kind: TokenAtom, Val: "g"},
				{Kind: TokenSeparator, Val: "}"},
			},
		},
		{
			title: "comments are layout",
			src: `a. % line comment
/* block
comment */ b.`,
			want: []Token{
				{Kind: TokenAtom, Val: "a"},
				{Kind: TokenEnd, Val: "."},
				{Kind: TokenAtom, Val: "b"},
				{Kind: TokenEnd, Val: "."},
			},
		},
		{
			title: "end needs following layout",
			src:   `a.b`,
			want: []Token{
				{Kind: TokenAtom, Val: "a"},
				{Kind: TokenAtom, Val: "."},
				{Kind: TokenAtom, Val: "b"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, tokenize(t, tt.src))
		})
	}
}

func TestLexer_Insufficient(t *testing.T) {
	l := NewLexer(`'unterminated`)
	_, err := l.Next()
	assert.ErrorIs(t, err, ErrInsufficient)
}
