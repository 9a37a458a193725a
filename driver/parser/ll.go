package parser

// LLSemanticActionSet is a set of semantic actions an LL parser calls. Enter
// and Exit are strictly balanced. For a synthetic non-terminal the parser
// passes the owning non-terminal's name and sets `synthetic`.
type LLSemanticActionSet interface {
	// Enter runs before the parser expands a non-terminal.
	Enter(nonTerminal string, synthetic bool)

	// Exit runs when a non-terminal's production has been fully derived.
	Exit(nonTerminal string, synthetic bool)

	// Token runs when the parser consumes a terminal.
	Token(tok VToken)

	// Accept runs when the parser accepts an input.
	Accept()

	// MissError runs when the parser detects a syntax error. `cause` is a token that caused the error.
	MissError(cause VToken)
}

type LLParserOption func(p *LLParser) error

// LLSemanticAction attaches a semantic action set to the parser.
func LLSemanticAction(semAct LLSemanticActionSet) LLParserOption {
	return func(p *LLParser) error {
		p.semAct = semAct
		return nil
	}
}

// llFrame is an entry of the prediction stack. RHS symbols keep the encoding
// of the compiled grammar: positive terminal numbers and negated non-terminal
// numbers. An exit frame marks the point where a non-terminal's derivation
// completes.
type llFrame struct {
	sym  int
	exit bool
}

// LLParser runs the LL(1) predictive table of a compiled grammar with an
// explicit symbol stack.
type LLParser struct {
	gram    Grammar
	toks    TokenStream
	stack   []llFrame
	semAct  LLSemanticActionSet
	synErrs []*SyntaxError
}

func NewLLParser(gram Grammar, toks TokenStream, opts ...LLParserOption) (*LLParser, error) {
	p := &LLParser{
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
func (p *LLParser) Parse() error {
	p.stack = append(p.stack, llFrame{
		sym: -p.gram.EntrySymbol(),
	})
	tok, err := p.toks.Next()
	if err != nil {
		return err
	}

	for len(p.stack) > 0 {
		f := p.stack[len(p.stack)-1]
		p.stack = p.stack[:len(p.stack)-1]

		if f.exit {
			if p.semAct != nil {
				name, synthetic := p.nonTerminalName(-f.sym)
				p.semAct.Exit(name, synthetic)
			}
			continue
		}

		if f.sym > 0 { // terminal
			term := p.tokenToTerminal(tok)
			if term != f.sym {
				p.missError(tok, []string{p.gram.Terminal(f.sym)})
				return nil
			}

			if p.semAct != nil {
				p.semAct.Token(tok)
			}

			tok, err = p.toks.Next()
			if err != nil {
				return err
			}
			continue
		}

		// non-terminal
		nt := -f.sym
		term := p.tokenToTerminal(tok)
		prodNum := p.gram.LLProduction(nt, term)
		if prodNum == 0 {
			p.missError(tok, p.expectedTerminals(nt))
			return nil
		}

		if p.semAct != nil {
			name, synthetic := p.nonTerminalName(nt)
			p.semAct.Enter(name, synthetic)
		}

		p.stack = append(p.stack, llFrame{
			sym:  f.sym,
			exit: true,
		})
		rhs := p.gram.AlternativeSymbols(prodNum)
		for i := len(rhs) - 1; i >= 0; i-- {
			p.stack = append(p.stack, llFrame{
				sym: rhs[i],
			})
		}
	}

	if !tok.EOF() {
		p.missError(tok, []string{p.gram.Terminal(p.gram.EOF())})
		return nil
	}

	if p.semAct != nil {
		p.semAct.Accept()
	}

	return nil
}

func (p *LLParser) missError(cause VToken, expected []string) {
	row, col := cause.Position()
	p.synErrs = append(p.synErrs, &SyntaxError{
		Row:               row,
		Col:               col,
		Message:           "unexpected token",
		Token:             cause,
		ExpectedTerminals: expected,
	})
	if p.semAct != nil {
		p.semAct.MissError(cause)
	}
}

func (p *LLParser) tokenToTerminal(tok VToken) int {
	if tok.EOF() {
		return p.gram.EOF()
	}
	return tok.TerminalID()
}

// nonTerminalName resolves a non-terminal number to the name semantic actions
// see. A synthetic non-terminal reports under its owner's name.
func (p *LLParser) nonTerminalName(nt int) (string, bool) {
	if owner := p.gram.SyntheticOwner(nt); owner != 0 {
		return p.gram.NonTerminal(owner), true
	}
	return p.gram.NonTerminal(nt), false
}

func (p *LLParser) expectedTerminals(nt int) []string {
	kinds := []string{}
	for term := 0; term < p.gram.TerminalCount(); term++ {
		if p.gram.LLProduction(nt, term) == 0 {
			continue
		}
		kinds = append(kinds, p.gram.Terminal(term))
	}
	return kinds
}

// SyntaxErrors returns the syntax errors the parser detected.
func (p *LLParser) SyntaxErrors() []*SyntaxError {
	return p.synErrs
}
