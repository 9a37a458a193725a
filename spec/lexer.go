package spec

import (
	"io"

	verr "github.com/mollete/gratab/error"
)

type tokenKind string

const (
	tokenKindKWToken         = tokenKind("token")
	tokenKindKWProd          = tokenKind("prod")
	tokenKindKWEntry         = tokenKind("entry")
	tokenKindID              = tokenKind("id")
	tokenKindStringLiteral   = tokenKind("string")
	tokenKindTerminalPattern = tokenKind("terminal pattern")
	tokenKindEq              = tokenKind("=")
	tokenKindSemicolon       = tokenKind(";")
	tokenKindOr              = tokenKind("|")
	tokenKindGroupOpen       = tokenKind("(")
	tokenKindGroupClose      = tokenKind(")")
	tokenKindStar            = tokenKind("*")
	tokenKindPlus            = tokenKind("+")
	tokenKindQuestion        = tokenKind("?")
	tokenKindEOF             = tokenKind("eof")
	tokenKindInvalid         = tokenKind("invalid")
)

type Position struct {
	Row int
	Col int
}

func newPosition(row, col int) Position {
	return Position{
		Row: row,
		Col: col,
	}
}

type token struct {
	kind tokenKind
	text string
	pos  Position
}

func newSymbolToken(kind tokenKind, pos Position) *token {
	return &token{
		kind: kind,
		pos:  pos,
	}
}

func newIDToken(text string, pos Position) *token {
	return &token{
		kind: tokenKindID,
		text: text,
		pos:  pos,
	}
}

func newStringLiteralToken(text string, pos Position) *token {
	return &token{
		kind: tokenKindStringLiteral,
		text: text,
		pos:  pos,
	}
}

func newTerminalPatternToken(text string, pos Position) *token {
	return &token{
		kind: tokenKindTerminalPattern,
		text: text,
		pos:  pos,
	}
}

func newEOFToken(pos Position) *token {
	return &token{
		kind: tokenKindEOF,
		pos:  pos,
	}
}

func newInvalidToken(text string, pos Position) *token {
	return &token{
		kind: tokenKindInvalid,
		text: text,
		pos:  pos,
	}
}

type lexer struct {
	src []rune
	idx int
	row int
	col int
}

func newLexer(src io.Reader) (*lexer, error) {
	b, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	return &lexer{
		src: []rune(string(b)),
		row: 1,
		col: 1,
	}, nil
}

func (l *lexer) next() (*token, error) {
	l.skipWSsAndComments()

	pos := newPosition(l.row, l.col)
	c, eof := l.read()
	if eof {
		return newEOFToken(pos), nil
	}
	switch c {
	case '=':
		return newSymbolToken(tokenKindEq, pos), nil
	case ';':
		return newSymbolToken(tokenKindSemicolon, pos), nil
	case '|':
		return newSymbolToken(tokenKindOr, pos), nil
	case '(':
		return newSymbolToken(tokenKindGroupOpen, pos), nil
	case ')':
		return newSymbolToken(tokenKindGroupClose, pos), nil
	case '*':
		return newSymbolToken(tokenKindStar, pos), nil
	case '+':
		return newSymbolToken(tokenKindPlus, pos), nil
	case '?':
		return newSymbolToken(tokenKindQuestion, pos), nil
	case '"':
		return l.lexStringLiteral(pos)
	case '/':
		return l.lexTerminalPattern(pos)
	}
	if isIDHead(c) {
		return l.lexID(c, pos), nil
	}
	return newInvalidToken(string(c), pos), nil
}

func (l *lexer) lexStringLiteral(pos Position) (*token, error) {
	var text []rune
	for {
		c, eof := l.read()
		if eof {
			return nil, &verr.SpecError{
				Cause: synErrUnclosedString,
				Row:   pos.Row,
				Col:   pos.Col,
			}
		}
		switch c {
		case '"':
			if len(text) == 0 {
				return nil, &verr.SpecError{
					Cause: synErrEmptyString,
					Row:   pos.Row,
					Col:   pos.Col,
				}
			}
			return newStringLiteralToken(string(text), pos), nil
		case '\n':
			return nil, &verr.SpecError{
				Cause: synErrUnclosedString,
				Row:   pos.Row,
				Col:   pos.Col,
			}
		case '\\':
			e, eof := l.read()
			if eof {
				return nil, &verr.SpecError{
					Cause: synErrIncompletedEscSeq,
					Row:   pos.Row,
					Col:   pos.Col,
				}
			}
			switch e {
			case '\\', '"':
				text = append(text, e)
			case 'n':
				text = append(text, '\n')
			case 'r':
				text = append(text, '\r')
			case 't':
				text = append(text, '\t')
			default:
				return nil, &verr.SpecError{
					Cause:  synErrInvalidEscSeq,
					Detail: "\\" + string(e),
					Row:    pos.Row,
					Col:    pos.Col,
				}
			}
		default:
			text = append(text, c)
		}
	}
}

func (l *lexer) lexTerminalPattern(pos Position) (*token, error) {
	var text []rune
	for {
		c, eof := l.read()
		if eof {
			return nil, &verr.SpecError{
				Cause: synErrUnclosedPattern,
				Row:   pos.Row,
				Col:   pos.Col,
			}
		}
		switch c {
		case '/':
			if len(text) == 0 {
				return nil, &verr.SpecError{
					Cause: synErrEmptyPattern,
					Row:   pos.Row,
					Col:   pos.Col,
				}
			}
			return newTerminalPatternToken(string(text), pos), nil
		case '\n':
			return nil, &verr.SpecError{
				Cause: synErrUnclosedPattern,
				Row:   pos.Row,
				Col:   pos.Col,
			}
		case '\\':
			e, eof := l.read()
			if eof {
				return nil, &verr.SpecError{
					Cause: synErrIncompletedEscSeq,
					Row:   pos.Row,
					Col:   pos.Col,
				}
			}
			// \/ loses the backslash here because the slash is a delimiter of
			// the pattern, not part of its syntax. All other escape sequences
			// pass through to the pattern parser untouched.
			if e == '/' {
				text = append(text, '/')
			} else {
				text = append(text, '\\', e)
			}
		default:
			text = append(text, c)
		}
	}
}

func (l *lexer) lexID(head rune, pos Position) *token {
	text := []rune{head}
	for {
		c, eof := l.read()
		if eof {
			break
		}
		if !isIDChar(c) {
			l.unread()
			break
		}
		text = append(text, c)
	}
	switch string(text) {
	case "token":
		return newSymbolToken(tokenKindKWToken, pos)
	case "prod":
		return newSymbolToken(tokenKindKWProd, pos)
	case "entry":
		return newSymbolToken(tokenKindKWEntry, pos)
	}
	return newIDToken(string(text), pos)
}

func (l *lexer) skipWSsAndComments() {
	for {
		c, eof := l.read()
		if eof {
			return
		}
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			continue
		}
		if c == '/' && l.idx < len(l.src) && l.src[l.idx] == '/' {
			for {
				c, eof := l.read()
				if eof || c == '\n' {
					break
				}
			}
			continue
		}
		l.unread()
		return
	}
}

func (l *lexer) read() (rune, bool) {
	if l.idx >= len(l.src) {
		return 0, true
	}
	c := l.src[l.idx]
	l.idx++
	if c == '\n' {
		l.row++
		l.col = 1
	} else {
		l.col++
	}
	return c, false
}

func (l *lexer) unread() {
	l.idx--
	c := l.src[l.idx]
	if c == '\n' {
		l.row--
		// The column is recomputed by scanning back to the preceding newline.
		col := 1
		for i := l.idx - 1; i >= 0 && l.src[i] != '\n'; i-- {
			col++
		}
		l.col = col
	} else {
		l.col--
	}
}

func isIDHead(c rune) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

func isIDChar(c rune) bool {
	return isIDHead(c) || c >= '0' && c <= '9'
}
