package parser

// SemanticActionSet is a set of semantic actions an LR parser calls.
type SemanticActionSet interface {
	// Shift runs when the parser shifts a symbol onto a state stack. `tok` is a token corresponding to the symbol.
	Shift(tok VToken)

	// Reduce runs when the parser reduces an RHS of a production to its LHS. `prodNum` is a number of the production.
	Reduce(prodNum int)

	// Accept runs when the parser accepts an input.
	Accept()

	// MissError runs when the parser detects a syntax error. `cause` is a token that caused the error.
	MissError(cause VToken)
}

type LRParserOption func(p *LRParser) error

// SemanticAction attaches a semantic action set to the parser.
func SemanticAction(semAct SemanticActionSet) LRParserOption {
	return func(p *LRParser) error {
		p.semAct = semAct
		return nil
	}
}

// LRParser runs the LALR(1) tables of a compiled grammar. Acceptance is the
// reduction by the start production, so the parser never pushes the augmented
// start symbol.
type LRParser struct {
	gram       Grammar
	toks       TokenStream
	stateStack []int
	semAct     SemanticActionSet
	synErrs    []*SyntaxError
}

func NewLRParser(gram Grammar, toks TokenStream, opts ...LRParserOption) (*LRParser, error) {
	p := &LRParser{
		gram: gram,
		toks: toks,
	}
	for _, opt := range opts {
		err := opt(p)
		if err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Parse performs syntax analysis. When it detects a syntax error, it stops
// and the error is available via SyntaxErrors.
func (p *LRParser) Parse() error {
	p.push(p.gram.InitialState())
	tok, err := p.toks.Next()
	if err != nil {
		return err
	}

	for {
		act := p.lookupAction(tok)
		switch {
		case act < 0: // Shift
			p.push(act * -1)

			if p.semAct != nil {
				p.semAct.Shift(tok)
			}

			tok, err = p.toks.Next()
			if err != nil {
				return err
			}
		case act > 0: // Reduce
			prodNum := act

			if prodNum == p.gram.StartProduction() {
				if p.semAct != nil {
					p.semAct.Accept()
				}
				return nil
			}

			lhs := p.gram.LHS(prodNum)
			n := len(p.gram.AlternativeSymbols(prodNum))
			p.pop(n)
			p.push(p.gram.GoTo(p.top(), lhs))

			if p.semAct != nil {
				p.semAct.Reduce(prodNum)
			}
		default: // Error
			row, col := tok.Position()
			p.synErrs = append(p.synErrs, &SyntaxError{
				Row:               row,
				Col:               col,
				Message:           "unexpected token",
				Token:             tok,
				ExpectedTerminals: p.expectedTerminals(p.top()),
			})

			if p.semAct != nil {
				p.semAct.MissError(tok)
			}

			return nil
		}
	}
}

func (p *LRParser) lookupAction(tok VToken) int {
	term := p.tokenToTerminal(tok)
	return p.gram.Action(p.top(), term)
}

func (p *LRParser) tokenToTerminal(tok VToken) int {
	if tok.EOF() {
		return p.gram.EOF()
	}
	return tok.TerminalID()
}

func (p *LRParser) top() int {
	return p.stateStack[len(p.stateStack)-1]
}

func (p *LRParser) push(state int) {
	p.stateStack = append(p.stateStack, state)
}

func (p *LRParser) pop(n int) {
	p.stateStack = p.stateStack[:len(p.stateStack)-n]
}

// SyntaxErrors returns the syntax errors the parser detected.
func (p *LRParser) SyntaxErrors() []*SyntaxError {
	return p.synErrs
}

func (p *LRParser) expectedTerminals(state int) []string {
	kinds := []string{}
	for term := 0; term < p.gram.TerminalCount(); term++ {
		if p.gram.Action(state, term) == 0 {
			continue
		}
		kinds = append(kinds, p.gram.Terminal(term))
	}
	return kinds
}
