package parser

import spec "github.com/mollete/gratab/spec"

type Grammar interface {
	TableKind() string
	InitialState() int
	StartProduction() int
	Action(state int, terminal int) int
	GoTo(state int, lhs int) int
	LLProduction(nonTerminal int, terminal int) int
	AlternativeSymbols(prod int) []int
	TerminalCount() int
	NonTerminal(nonTerminal int) string
	Terminal(terminal int) string
	LHS(prod int) int
	EOF() int
	EntrySymbol() int
	SyntheticOwner(nonTerminal int) int
}

type grammarImpl struct {
	g *spec.CompiledGrammar
}

func NewGrammar(g *spec.CompiledGrammar) *grammarImpl {
	return &grammarImpl{
		g: g,
	}
}

func (g *grammarImpl) TableKind() string {
	return g.g.Syntactic.TableKind
}

// InitialState returns the initial state of the LALR(1) automaton. The
// initial kernel is always numbered 0.
func (g *grammarImpl) InitialState() int {
	return 0
}

func (g *grammarImpl) StartProduction() int {
	return g.g.Syntactic.StartProduction
}

func (g *grammarImpl) Action(state int, terminal int) int {
	return g.g.Syntactic.Action[state*g.g.Syntactic.TerminalCount+terminal]
}

func (g *grammarImpl) GoTo(state int, lhs int) int {
	return g.g.Syntactic.GoTo[state*g.g.Syntactic.NonTerminalCount+lhs]
}

func (g *grammarImpl) LLProduction(nonTerminal int, terminal int) int {
	return g.g.Syntactic.LLTable[nonTerminal*g.g.Syntactic.TerminalCount+terminal]
}

func (g *grammarImpl) AlternativeSymbols(prod int) []int {
	return g.g.Syntactic.AlternativeSymbols[prod]
}

func (g *grammarImpl) TerminalCount() int {
	return g.g.Syntactic.TerminalCount
}

func (g *grammarImpl) NonTerminal(nonTerminal int) string {
	return g.g.Syntactic.NonTerminals[nonTerminal]
}

func (g *grammarImpl) Terminal(terminal int) string {
	return g.g.Syntactic.Terminals[terminal]
}

func (g *grammarImpl) LHS(prod int) int {
	return g.g.Syntactic.LHSSymbols[prod]
}

func (g *grammarImpl) EOF() int {
	return g.g.Syntactic.EOFSymbol
}

func (g *grammarImpl) EntrySymbol() int {
	return g.g.Syntactic.EntrySymbol
}

func (g *grammarImpl) SyntheticOwner(nonTerminal int) int {
	return g.g.Syntactic.SyntheticOwners[nonTerminal]
}
