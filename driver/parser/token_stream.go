package parser

import (
	"io"

	"github.com/mollete/gratab/driver/lexer"
	spec "github.com/mollete/gratab/spec"
)

type VToken interface {
	// TerminalID returns the terminal symbol number the token's kind maps to.
	TerminalID() int

	// KindName returns the name of the token's kind.
	KindName() string

	// Lexeme returns a lexeme.
	Lexeme() []byte

	// EOF returns true when a token represents EOF.
	EOF() bool

	// Invalid returns true when a token is invalid.
	Invalid() bool

	// Position returns (row, column) pair.
	Position() (int, int)
}

type vToken struct {
	terminalID int
	tok        *lexer.Token
}

func (t *vToken) TerminalID() int {
	return t.terminalID
}

func (t *vToken) KindName() string {
	return t.tok.KindName
}

func (t *vToken) Lexeme() []byte {
	return t.tok.Lexeme
}

func (t *vToken) EOF() bool {
	return t.tok.EOF
}

func (t *vToken) Invalid() bool {
	return t.tok.Invalid
}

func (t *vToken) Position() (int, int) {
	return t.tok.Row, t.tok.Col
}

type TokenStream interface {
	Next() (VToken, error)
}

type tokenStream struct {
	lex            *lexer.Lexer
	kindToTerminal []int
	skip           map[int]struct{}
}

// NewTokenStream returns a stream of the tokens of `src` with the skip kinds
// already filtered out.
func NewTokenStream(g *spec.CompiledGrammar, src io.Reader) (TokenStream, error) {
	lex, err := lexer.NewLexer(lexer.NewLexSpec(g.Lexical), src)
	if err != nil {
		return nil, err
	}

	skip := map[int]struct{}{}
	for _, kind := range g.Lexical.Skip {
		skip[kind] = struct{}{}
	}

	return &tokenStream{
		lex:            lex,
		kindToTerminal: g.Syntactic.KindToTerminal,
		skip:           skip,
	}, nil
}

func (l *tokenStream) Next() (VToken, error) {
	for {
		tok, err := l.lex.Next()
		if err != nil {
			return nil, err
		}
		if !tok.EOF && !tok.Invalid {
			if _, ok := l.skip[tok.KindID.Int()]; ok {
				continue
			}
		}
		return &vToken{
			terminalID: l.kindToTerminal[tok.KindID.Int()],
			tok:        tok,
		}, nil
	}
}
