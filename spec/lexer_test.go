package spec

import (
	"errors"
	"strings"
	"testing"
)

func TestLexerTokens(t *testing.T) {
	src := `token num = /a\/b/;
prod s = num | (x)*?;
entry s;
// a trailing comment
`
	wants := []*token{
		newSymbolToken(tokenKindKWToken, newPosition(1, 1)),
		newIDToken("num", newPosition(1, 7)),
		newSymbolToken(tokenKindEq, newPosition(1, 11)),
		newTerminalPatternToken("a/b", newPosition(1, 13)),
		newSymbolToken(tokenKindSemicolon, newPosition(1, 19)),
		newSymbolToken(tokenKindKWProd, newPosition(2, 1)),
		newIDToken("s", newPosition(2, 6)),
		newSymbolToken(tokenKindEq, newPosition(2, 8)),
		newIDToken("num", newPosition(2, 10)),
		newSymbolToken(tokenKindOr, newPosition(2, 14)),
		newSymbolToken(tokenKindGroupOpen, newPosition(2, 16)),
		newIDToken("x", newPosition(2, 17)),
		newSymbolToken(tokenKindGroupClose, newPosition(2, 18)),
		newSymbolToken(tokenKindStar, newPosition(2, 19)),
		newSymbolToken(tokenKindQuestion, newPosition(2, 20)),
		newSymbolToken(tokenKindSemicolon, newPosition(2, 21)),
		newSymbolToken(tokenKindKWEntry, newPosition(3, 1)),
		newIDToken("s", newPosition(3, 7)),
		newSymbolToken(tokenKindSemicolon, newPosition(3, 8)),
		newEOFToken(newPosition(5, 1)),
	}

	lex, err := newLexer(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range wants {
		tok, err := lex.next()
		if err != nil {
			t.Fatal(err)
		}
		if tok.kind != want.kind || tok.text != want.text || tok.pos != want.pos {
			t.Fatalf("unexpected token %v; want: %+v, got: %+v", i, want, tok)
		}
	}
}

func TestLexerStringEscapes(t *testing.T) {
	tests := []struct {
		src  string
		text string
	}{
		{src: `"a\nb"`, text: "a\nb"},
		{src: `"a\tb"`, text: "a\tb"},
		{src: `"a\rb"`, text: "a\rb"},
		{src: `"\\"`, text: `\`},
		{src: `"\""`, text: `"`},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			lex, err := newLexer(strings.NewReader(tt.src))
			if err != nil {
				t.Fatal(err)
			}
			tok, err := lex.next()
			if err != nil {
				t.Fatal(err)
			}
			if tok.kind != tokenKindStringLiteral || tok.text != tt.text {
				t.Fatalf("unexpected token; want: %q, got: %q (%v)", tt.text, tok.text, tok.kind)
			}
		})
	}
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		caption string
		src     string
		cause   error
	}{
		{caption: "a string hitting EOF", src: `"x`, cause: synErrUnclosedString},
		{caption: "a string spanning lines", src: "\"x\ny\"", cause: synErrUnclosedString},
		{caption: "an empty string", src: `""`, cause: synErrEmptyString},
		{caption: "a pattern hitting EOF", src: `/x`, cause: synErrUnclosedPattern},
		{caption: "a pattern spanning lines", src: "/x\ny/", cause: synErrUnclosedPattern},
		{caption: "an unknown string escape", src: `"\q"`, cause: synErrInvalidEscSeq},
		{caption: "a bare backslash at EOF", src: `"\`, cause: synErrIncompletedEscSeq},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			lex, err := newLexer(strings.NewReader(tt.src))
			if err != nil {
				t.Fatal(err)
			}
			_, err = lex.next()
			if err == nil {
				t.Fatal("expected an error, got nil")
			}
			if !errors.Is(err, tt.cause) {
				t.Fatalf("unexpected cause; want: %v, got: %v", tt.cause, err)
			}
		})
	}
}
