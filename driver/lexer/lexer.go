package lexer

import (
	"io"
	"unicode/utf8"
)

// Token representes a token.
type Token struct {
	// KindID is an ID of a kind. The IDs follow the declaration order of the
	// tokens in a grammar, starting at 1.
	KindID KindID

	// KindName is the name of the kind.
	KindName string

	// Row is a row number where a lexeme appears.
	Row int

	// Col is a column number where a lexeme appears.
	// Note that Col is counted in code points, not bytes.
	Col int

	// Lexeme is a byte sequence matched a pattern of a lexical specification.
	Lexeme []byte

	// When this field is true, it means the token is the EOF token.
	EOF bool

	// When this field is true, it means the token is an error token.
	Invalid bool
}

type lexerState struct {
	srcPtr int
	row    int
	col    int
}

type Lexer struct {
	spec              LexSpec
	src               []byte
	state             lexerState
	lastAcceptedState lexerState
	tokBuf            []*Token
}

// NewLexer returns a new lexer.
func NewLexer(spec LexSpec, src io.Reader) (*Lexer, error) {
	b, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	return &Lexer{
		spec: spec,
		src:  b,
	}, nil
}

// Next returns a next token. Consecutive invalid characters are merged into
// one invalid token.
func (l *Lexer) Next() (*Token, error) {
	if len(l.tokBuf) > 0 {
		tok := l.tokBuf[0]
		l.tokBuf = l.tokBuf[1:]
		return tok, nil
	}

	tok, err := l.next()
	if err != nil {
		return nil, err
	}
	if !tok.Invalid {
		return tok, nil
	}
	errTok := tok
	for {
		tok, err = l.next()
		if err != nil {
			return nil, err
		}
		if !tok.Invalid {
			break
		}
		errTok.Lexeme = append(errTok.Lexeme, tok.Lexeme...)
	}
	l.tokBuf = append(l.tokBuf, tok)

	return errTok, nil
}

func (l *Lexer) next() (*Token, error) {
	state := l.spec.InitialState()
	buf := []byte{}
	row := l.state.row
	col := l.state.col
	var tok *Token
	for {
		ptr := l.state.srcPtr
		c, eof := l.read()
		if eof {
			if tok != nil {
				l.revert()
				return tok, nil
			}
			// When `buf` has unaccepted data and reads the EOF, the lexer treats the buffered data as an invalid token.
			if len(buf) > 0 {
				return &Token{
					Lexeme:  buf,
					Row:     row,
					Col:     col,
					Invalid: true,
				}, nil
			}
			return &Token{
				Row: row,
				Col: col,
				EOF: true,
			}, nil
		}
		buf = append(buf, l.src[ptr:l.state.srcPtr]...)
		nextState, ok := l.spec.NextState(state, c)
		if !ok {
			if tok != nil {
				l.revert()
				return tok, nil
			}
			return &Token{
				Lexeme:  buf,
				Row:     row,
				Col:     col,
				Invalid: true,
			}, nil
		}
		state = nextState
		if kindID, ok := l.spec.Accept(state); ok {
			tok = &Token{
				KindID:   kindID,
				KindName: l.spec.KindName(kindID),
				Lexeme:   buf,
				Row:      row,
				Col:      col,
			}
			l.accept()
		}
	}
}

func (l *Lexer) read() (rune, bool) {
	if l.state.srcPtr >= len(l.src) {
		return 0, true
	}

	c, size := utf8.DecodeRune(l.src[l.state.srcPtr:])
	l.state.srcPtr += size

	// The lexer treats LF as the end of lines and counts columns in code
	// points, not bytes.
	if c == '\n' {
		l.state.row++
		l.state.col = 0
	} else {
		l.state.col++
	}

	return c, false
}

// accept saves the current state.
func (l *Lexer) accept() {
	l.lastAcceptedState = l.state
}

// revert reverts the lexer state to the last accepted state.
//
// We must not call this function consecutively.
func (l *Lexer) revert() {
	l.state = l.lastAcceptedState
}
