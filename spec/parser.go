package spec

import (
	"io"

	verr "github.com/mollete/gratab/error"
)

type RootNode struct {
	Tokens      []*TokenNode
	Entries     []*EntryNode
	Productions []*ProductionNode
}

type TokenNode struct {
	Name    string
	Pattern string
	IsRegex bool
	Pos     Position
}

type EntryNode struct {
	Name string
	Pos  Position
}

type ProductionNode struct {
	LHS          string
	Alternatives []*AlternativeNode
	Pos          Position
}

type AlternativeNode struct {
	Elements []*ElementNode
}

type ElementNode struct {
	ID    string
	Group *GroupNode
	Pos   Position
}

type RepetitionKind int

const (
	RepetitionNone RepetitionKind = iota
	RepetitionZeroOrMore
	RepetitionOneOrMore
	RepetitionOption
)

type GroupNode struct {
	Alternatives []*AlternativeNode
	Rep          RepetitionKind
}

func raiseSyntaxError(row, col int, synErr *SyntaxError) {
	panic(&verr.SpecError{
		Cause: synErr,
		Row:   row,
		Col:   col,
	})
}

func Parse(src io.Reader) (*RootNode, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	return p.parse()
}

type parser struct {
	lex       *lexer
	peekedTok *token
	lastTok   *token
}

func newParser(src io.Reader) (*parser, error) {
	lex, err := newLexer(src)
	if err != nil {
		return nil, err
	}
	return &parser{
		lex: lex,
	}, nil
}

func (p *parser) parse() (root *RootNode, retErr error) {
	defer func() {
		err := recover()
		if err != nil {
			retErr = err.(error)
			return
		}
	}()
	return p.parseRoot(), nil
}

func (p *parser) parseRoot() *RootNode {
	root := &RootNode{}
	for {
		if p.consume(tokenKindEOF) {
			break
		}
		switch {
		case p.consume(tokenKindKWToken):
			root.Tokens = append(root.Tokens, p.parseTokenDecl())
		case p.consume(tokenKindKWEntry):
			root.Entries = append(root.Entries, p.parseEntryDecl())
		case p.consume(tokenKindKWProd):
			root.Productions = append(root.Productions, p.parseProductionDecl())
		default:
			tok := p.peek()
			raiseSyntaxError(tok.pos.Row, tok.pos.Col, synErrInvalidToken)
		}
	}
	if len(root.Tokens) == 0 && len(root.Productions) == 0 {
		raiseSyntaxError(p.lastTok.pos.Row, p.lastTok.pos.Col, synErrEmptyGrammar)
	}
	return root
}

func (p *parser) parseTokenDecl() *TokenNode {
	declPos := p.lastTok.pos
	if !p.consume(tokenKindID) {
		raiseSyntaxError(declPos.Row, declPos.Col, synErrNoTokenName)
	}
	name := p.lastTok.text
	if !p.consume(tokenKindEq) {
		raiseSyntaxError(declPos.Row, declPos.Col, synErrNoEq)
	}
	var pattern string
	var isRegex bool
	switch {
	case p.consume(tokenKindStringLiteral):
		pattern = p.lastTok.text
	case p.consume(tokenKindTerminalPattern):
		pattern = p.lastTok.text
		isRegex = true
	default:
		raiseSyntaxError(declPos.Row, declPos.Col, synErrNoTokenPattern)
	}
	if !p.consume(tokenKindSemicolon) {
		raiseSyntaxError(declPos.Row, declPos.Col, synErrNoSemicolon)
	}
	return &TokenNode{
		Name:    name,
		Pattern: pattern,
		IsRegex: isRegex,
		Pos:     declPos,
	}
}

func (p *parser) parseEntryDecl() *EntryNode {
	declPos := p.lastTok.pos
	if !p.consume(tokenKindID) {
		raiseSyntaxError(declPos.Row, declPos.Col, synErrNoEntryName)
	}
	name := p.lastTok.text
	if !p.consume(tokenKindSemicolon) {
		raiseSyntaxError(declPos.Row, declPos.Col, synErrNoSemicolon)
	}
	return &EntryNode{
		Name: name,
		Pos:  declPos,
	}
}

func (p *parser) parseProductionDecl() *ProductionNode {
	declPos := p.lastTok.pos
	if !p.consume(tokenKindID) {
		raiseSyntaxError(declPos.Row, declPos.Col, synErrNoProdName)
	}
	lhs := p.lastTok.text
	if !p.consume(tokenKindEq) {
		raiseSyntaxError(declPos.Row, declPos.Col, synErrNoEq)
	}
	alts := []*AlternativeNode{p.parseAlternative()}
	for p.consume(tokenKindOr) {
		alts = append(alts, p.parseAlternative())
	}
	if !p.consume(tokenKindSemicolon) {
		raiseSyntaxError(declPos.Row, declPos.Col, synErrNoSemicolon)
	}
	return &ProductionNode{
		LHS:          lhs,
		Alternatives: alts,
		Pos:          declPos,
	}
}

func (p *parser) parseAlternative() *AlternativeNode {
	var elems []*ElementNode
	for {
		elem := p.parseElement()
		if elem == nil {
			break
		}
		elems = append(elems, elem)
	}
	if len(elems) == 0 {
		tok := p.peek()
		raiseSyntaxError(tok.pos.Row, tok.pos.Col, synErrEmptyAlternative)
	}
	return &AlternativeNode{
		Elements: elems,
	}
}

func (p *parser) parseElement() *ElementNode {
	switch {
	case p.consume(tokenKindID):
		return &ElementNode{
			ID:  p.lastTok.text,
			Pos: p.lastTok.pos,
		}
	case p.consume(tokenKindGroupOpen):
		groupPos := p.lastTok.pos
		return &ElementNode{
			Group: p.parseGroup(groupPos),
			Pos:   groupPos,
		}
	}
	return nil
}

func (p *parser) parseGroup(groupPos Position) *GroupNode {
	if p.consume(tokenKindGroupClose) {
		raiseSyntaxError(groupPos.Row, groupPos.Col, synErrGroupEmpty)
	}
	alts := []*AlternativeNode{p.parseAlternative()}
	for p.consume(tokenKindOr) {
		alts = append(alts, p.parseAlternative())
	}
	if !p.consume(tokenKindGroupClose) {
		raiseSyntaxError(groupPos.Row, groupPos.Col, synErrGroupUnclosed)
	}
	rep := RepetitionNone
	switch {
	case p.consume(tokenKindStar):
		rep = RepetitionZeroOrMore
	case p.consume(tokenKindPlus):
		rep = RepetitionOneOrMore
	case p.consume(tokenKindQuestion):
		rep = RepetitionOption
	}
	return &GroupNode{
		Alternatives: alts,
		Rep:          rep,
	}
}

func (p *parser) peek() *token {
	if p.peekedTok == nil {
		tok, err := p.lex.next()
		if err != nil {
			panic(err)
		}
		p.peekedTok = tok
	}
	return p.peekedTok
}

func (p *parser) consume(expected tokenKind) bool {
	var tok *token
	var err error
	if p.peekedTok != nil {
		tok = p.peekedTok
		p.peekedTok = nil
	} else {
		tok, err = p.lex.next()
		if err != nil {
			panic(err)
		}
	}
	p.lastTok = tok
	if tok.kind == tokenKindInvalid {
		raiseSyntaxError(tok.pos.Row, tok.pos.Col, synErrInvalidToken)
	}
	if tok.kind == expected {
		return true
	}
	p.peekedTok = tok
	p.lastTok = nil

	return false
}
