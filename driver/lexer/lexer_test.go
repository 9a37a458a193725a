package lexer

import (
	"strings"
	"testing"

	"github.com/mollete/gratab/grammar"
	spec "github.com/mollete/gratab/spec"
	"github.com/stretchr/testify/require"
)

func newTestLexer(t *testing.T, grammarSrc, src string) *Lexer {
	t.Helper()

	ast, err := spec.Parse(strings.NewReader(grammarSrc))
	require.NoError(t, err)
	b := grammar.GrammarBuilder{
		AST:  ast,
		Name: "test",
	}
	gram, err := b.Build()
	require.NoError(t, err)
	cgram, _, err := grammar.Compile(gram)
	require.NoError(t, err)
	lex, err := NewLexer(NewLexSpec(cgram.Lexical), strings.NewReader(src))
	require.NoError(t, err)
	return lex
}

type expectedToken struct {
	kindName string
	lexeme   string
	row      int
	col      int
	eof      bool
	invalid  bool
}

func expectTokens(t *testing.T, lex *Lexer, wants []expectedToken) {
	t.Helper()

	for _, want := range wants {
		tok, err := lex.Next()
		require.NoError(t, err)
		require.Equal(t, want.eof, tok.EOF, "lexeme: %q", tok.Lexeme)
		require.Equal(t, want.invalid, tok.Invalid, "lexeme: %q", tok.Lexeme)
		require.Equal(t, want.lexeme, string(tok.Lexeme))
		if !want.eof && !want.invalid {
			require.Equal(t, want.kindName, tok.KindName)
		}
		require.Equal(t, want.row, tok.Row, "lexeme: %q", tok.Lexeme)
		require.Equal(t, want.col, tok.Col, "lexeme: %q", tok.Lexeme)
	}
}

func TestLexerMaximalMunch(t *testing.T) {
	grammarSrc := `
token ab = /ab/;
token a = "a";
entry s;
prod s = ab a;
`
	// The lexer prefers the longest match, so `ab` wins over `a` even though
	// `a` alone would already accept.
	lex := newTestLexer(t, grammarSrc, "aba")
	expectTokens(t, lex, []expectedToken{
		{kindName: "ab", lexeme: "ab", row: 0, col: 0},
		{kindName: "a", lexeme: "a", row: 0, col: 2},
		{eof: true, row: 0, col: 3},
	})
}

func TestLexerDeclarationOrderTieBreak(t *testing.T) {
	grammarSrc := `
token x = /a|b/;
token y = /b|c/;
entry s;
prod s = x y;
`
	// Both patterns match `b` with the same length, so the earlier declaration
	// takes it.
	lex := newTestLexer(t, grammarSrc, "bc")
	expectTokens(t, lex, []expectedToken{
		{kindName: "x", lexeme: "b", row: 0, col: 0},
		{kindName: "y", lexeme: "c", row: 0, col: 1},
		{eof: true, row: 0, col: 2},
	})
}

func TestLexerInvalidTokens(t *testing.T) {
	grammarSrc := `
token a = "a";
entry s;
prod s = a;
`
	// Consecutive unrecognized characters merge into one invalid token.
	lex := newTestLexer(t, grammarSrc, "!?a?")
	expectTokens(t, lex, []expectedToken{
		{invalid: true, lexeme: "!?", row: 0, col: 0},
		{kindName: "a", lexeme: "a", row: 0, col: 2},
		{invalid: true, lexeme: "?", row: 0, col: 3},
		{eof: true, row: 0, col: 4},
	})
}

func TestLexerPositions(t *testing.T) {
	grammarSrc := `
token w = /[a-z]+/;
token nl = "\n";
entry s;
prod s = w nl w;
`
	lex := newTestLexer(t, grammarSrc, "ab\ncd")
	expectTokens(t, lex, []expectedToken{
		{kindName: "w", lexeme: "ab", row: 0, col: 0},
		{kindName: "nl", lexeme: "\n", row: 0, col: 2},
		{kindName: "w", lexeme: "cd", row: 1, col: 0},
		{eof: true, row: 1, col: 2},
	})
}
