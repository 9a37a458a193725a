package parser

import (
	"fmt"
	"strconv"
)

// PatternError is an error occurred in parsing a token pattern. Cause is one
// of the synErr values and Detail carries the offending fragment.
type PatternError struct {
	Cause  error
	Detail string
}

func (e *PatternError) Error() string {
	if e.Detail == "" {
		return e.Cause.Error()
	}
	return fmt.Sprintf("%v: %v", e.Cause, e.Detail)
}

func (e *PatternError) Unwrap() error {
	return e.Cause
}

// Parse parses a token pattern into a pattern tree.
func Parse(pattern string) (root PatternNode, retErr error) {
	if pattern == "" {
		return nil, &PatternError{
			Cause: synErrNullPattern,
		}
	}
	p := &parser{
		src: []rune(pattern),
	}
	defer func() {
		err := recover()
		if err != nil {
			var ok bool
			retErr, ok = err.(*PatternError)
			if !ok {
				panic(err)
			}
			return
		}
	}()
	return p.parseRegexp(), nil
}

type parser struct {
	src []rune
	idx int
}

func raiseParseError(cause error, detail string) {
	panic(&PatternError{
		Cause:  cause,
		Detail: detail,
	})
}

func (p *parser) parseRegexp() PatternNode {
	alt := p.parseAlt()
	if alt == nil {
		if p.peekIs(')') {
			raiseParseError(synErrGroupNoInitiator, "")
		}
		raiseParseError(synErrNullPattern, "")
	}
	if !p.eof() {
		if p.peekIs(')') {
			raiseParseError(synErrGroupNoInitiator, "")
		}
		raiseParseError(synErrUnexpectedToken, string(p.src[p.idx]))
	}
	return alt
}

func (p *parser) parseAlt() PatternNode {
	left := p.parseConcat()
	if left == nil {
		if p.peekIs('|') {
			raiseParseError(synErrAltLackOfOperand, "")
		}
		return nil
	}
	for p.consume('|') {
		right := p.parseConcat()
		if right == nil {
			raiseParseError(synErrAltLackOfOperand, "")
		}
		left = NewAltNode(left, right)
	}
	return left
}

func (p *parser) parseConcat() PatternNode {
	left := p.parseRepeat()
	if left == nil {
		return nil
	}
	for {
		right := p.parseRepeat()
		if right == nil {
			break
		}
		left = NewConcatNode(left, right)
	}
	return left
}

func (p *parser) parseRepeat() PatternNode {
	atom := p.parseAtom()
	if atom == nil {
		if p.peekIs('*') || p.peekIs('+') || p.peekIs('?') {
			raiseParseError(synErrRepNoTarget, "")
		}
		return nil
	}
	for {
		switch {
		case p.consume('*'):
			atom = NewRepeatNode(atom)
		case p.consume('+'):
			atom = NewConcatNode(atom, NewRepeatNode(atom))
		case p.consume('?'):
			atom = NewOptionNode(atom)
		default:
			return atom
		}
	}
}

func (p *parser) parseAtom() PatternNode {
	switch {
	case p.consume('('):
		alt := p.parseAlt()
		if alt == nil {
			if p.consume(')') {
				raiseParseError(synErrGroupNoElem, "")
			}
			raiseParseError(synErrGroupUnclosed, "")
		}
		if !p.consume(')') {
			raiseParseError(synErrGroupUnclosed, "")
		}
		return alt
	case p.consume('['):
		return p.parseBracketExp()
	}
	if p.eof() {
		return nil
	}
	c := p.src[p.idx]
	switch c {
	case '|', ')', '*', '+', '?':
		return nil
	case '\\':
		p.idx++
		return p.parseEscape()
	}
	p.idx++
	return NewSymbolNode(c)
}

func (p *parser) parseBracketExp() PatternNode {
	negated := p.consume('^')
	var ranges []*SymbolNode
	for {
		if p.eof() {
			raiseParseError(synErrBExpUnclosed, "")
		}
		if p.consume(']') {
			break
		}
		ranges = append(ranges, p.parseBracketItem())
	}
	if len(ranges) == 0 {
		raiseParseError(synErrBExpNoElem, "")
	}
	if negated {
		ranges = complementRanges(ranges)
		if len(ranges) == 0 {
			raiseParseError(synErrBExpNegatesAll, "")
		}
	}
	return altRanges(ranges)
}

func (p *parser) parseBracketItem() *SymbolNode {
	from := p.parseBracketChar()
	if !p.peekIs('-') {
		return from
	}
	// A trailing `-` is a literal, not a range operator.
	if p.idx+1 < len(p.src) && p.src[p.idx+1] == ']' {
		return from
	}
	p.idx++
	if p.eof() {
		raiseParseError(synErrRangeInvalidForm, "")
	}
	to := p.parseBracketChar()
	if from.From != from.To || to.From != to.To {
		raiseParseError(synErrRangeInvalidForm, "")
	}
	if from.From > to.To {
		raiseParseError(synErrRangeInvalidOrder, fmt.Sprintf("%q-%q", from.From, to.To))
	}
	return NewRangeSymbolNode(from.From, to.To)
}

func (p *parser) parseBracketChar() *SymbolNode {
	c := p.src[p.idx]
	if c == '\\' {
		p.idx++
		return p.parseEscape()
	}
	p.idx++
	return NewSymbolNode(c)
}

func (p *parser) parseEscape() *SymbolNode {
	if p.eof() {
		raiseParseError(synErrIncompletedEscSeq, "")
	}
	c := p.src[p.idx]
	p.idx++
	switch c {
	case 'n':
		return NewSymbolNode('\n')
	case 'r':
		return NewSymbolNode('\r')
	case 't':
		return NewSymbolNode('\t')
	case 'u':
		return p.parseCodePointExp()
	case '\\', '(', ')', '[', ']', '|', '*', '+', '?', '.', '/', '-', '^', '"':
		return NewSymbolNode(c)
	}
	raiseParseError(synErrInvalidEscSeq, "\\"+string(c))
	return nil
}

func (p *parser) parseCodePointExp() *SymbolNode {
	if !p.consume('{') {
		raiseParseError(synErrCPExpInvalidForm, "")
	}
	var digits []rune
	for {
		if p.eof() {
			raiseParseError(synErrCPExpInvalidForm, "")
		}
		if p.consume('}') {
			break
		}
		digits = append(digits, p.src[p.idx])
		p.idx++
	}
	if len(digits) != 4 && len(digits) != 6 {
		raiseParseError(synErrInvalidCodePoint, string(digits))
	}
	n, err := strconv.ParseInt(string(digits), 16, 64)
	if err != nil {
		raiseParseError(synErrInvalidCodePoint, string(digits))
	}
	if n > int64(codePointMax) {
		raiseParseError(synErrCPExpOutOfRange, string(digits))
	}
	return NewSymbolNode(rune(n))
}

func (p *parser) consume(c rune) bool {
	if p.peekIs(c) {
		p.idx++
		return true
	}
	return false
}

func (p *parser) peekIs(c rune) bool {
	return p.idx < len(p.src) && p.src[p.idx] == c
}

func (p *parser) eof() bool {
	return p.idx >= len(p.src)
}
