package grammar

import (
	"errors"
	"fmt"
	"strings"

	verr "github.com/mollete/gratab/error"
	"github.com/mollete/gratab/grammar/lexical"
	"github.com/mollete/gratab/grammar/symbol"
	spec "github.com/mollete/gratab/spec"
)

// Grammar is the intermediate representation of a grammar specification. All
// names are interned into symbols, and every group expression of the source
// has already been desugared into plain productions over synthetic
// non-terminals.
type Grammar struct {
	name                 string
	lexSpec              *lexical.LexSpec
	skipKinds            []int
	productionSet        *productionSet
	augmentedStartSymbol symbol.Symbol
	entrySymbol          symbol.Symbol
	symbolTable          *symbol.SymbolTableReader
	kindToTerminal       []int
}

type GrammarBuilder struct {
	AST *spec.RootNode

	// Name is the name the compiled artifact carries. The DSL has no name
	// directive, so callers usually pass the grammar file's base name.
	Name string

	errs      verr.SpecErrors
	w         *symbol.SymbolTableWriter
	r         *symbol.SymbolTableReader
	prods     *productionSet
	usedTerms map[symbol.Symbol]struct{}
	synNums   map[string]int
}

func (b *GrammarBuilder) addErr(cause error, detail string, pos spec.Position) {
	b.errs = append(b.errs, &verr.SpecError{
		Cause:  cause,
		Detail: detail,
		Row:    pos.Row,
		Col:    pos.Col,
	})
}

func (b *GrammarBuilder) Build() (*Grammar, error) {
	name := b.Name
	if name == "" {
		name = "grammar"
	}

	tokens := map[string]*spec.TokenNode{}
	for _, tok := range b.AST.Tokens {
		if _, ok := tokens[tok.Name]; ok {
			b.addErr(semErrDuplicateToken, tok.Name, tok.Pos)
			continue
		}
		tokens[tok.Name] = tok
	}

	prodNodes := map[string]*spec.ProductionNode{}
	for _, prod := range b.AST.Productions {
		if _, ok := prodNodes[prod.LHS]; ok {
			b.addErr(semErrDuplicateProduction, prod.LHS, prod.Pos)
			continue
		}
		if _, ok := tokens[prod.LHS]; ok {
			b.addErr(semErrDuplicateName, prod.LHS, prod.Pos)
			continue
		}
		prodNodes[prod.LHS] = prod
	}
	if len(b.AST.Productions) == 0 {
		b.errs = append(b.errs, &verr.SpecError{
			Cause: semErrNoProduction,
		})
	}

	var entry *spec.EntryNode
	switch len(b.AST.Entries) {
	case 0:
		b.errs = append(b.errs, &verr.SpecError{
			Cause: semErrNoEntry,
		})
	case 1:
		entry = b.AST.Entries[0]
	default:
		entry = b.AST.Entries[0]
		for _, e := range b.AST.Entries[1:] {
			b.addErr(semErrDuplicateEntry, e.Name, e.Pos)
		}
	}
	if entry != nil {
		if _, ok := prodNodes[entry.Name]; !ok {
			b.addErr(semErrUndefinedSym, fmt.Sprintf("an entry symbol must refer to a production: %v", entry.Name), entry.Pos)
			entry = nil
		}
	}
	if len(b.errs) > 0 {
		return nil, b.errs
	}

	symTab := symbol.NewSymbolTable()
	b.w = symTab.Writer()
	b.r = symTab.Reader()

	startSym, err := b.w.RegisterStartSymbol(entry.Name + "'")
	if err != nil {
		return nil, err
	}
	for _, prod := range b.AST.Productions {
		if _, err := b.w.RegisterNonTerminalSymbol(prod.LHS); err != nil {
			return nil, err
		}
	}

	lexEntries := make([]*lexical.LexEntry, 0, len(b.AST.Tokens))
	kindToTerminal := make([]int, len(b.AST.Tokens)+1)
	for i, tok := range b.AST.Tokens {
		sym, err := b.w.RegisterTerminalSymbol(tok.Name)
		if err != nil {
			return nil, err
		}
		kindToTerminal[i+1] = sym.Num().Int()
		lexEntries = append(lexEntries, &lexical.LexEntry{
			Kind:    tok.Name,
			Pattern: tok.Pattern,
			Literal: !tok.IsRegex,
			Row:     tok.Pos.Row,
			Col:     tok.Pos.Col,
		})
	}

	entrySym, ok := b.r.ToSymbol(entry.Name)
	if !ok {
		return nil, fmt.Errorf("entry symbol not found in a symbol table: %v", entry.Name)
	}

	b.prods = newProductionSet()
	b.usedTerms = map[symbol.Symbol]struct{}{}
	b.synNums = map[string]int{}

	startProd, err := newProduction(startSym, []symbol.Symbol{entrySym})
	if err != nil {
		return nil, err
	}
	b.prods.append(startProd)

	for _, prodNode := range b.AST.Productions {
		lhsSym, ok := b.r.ToSymbol(prodNode.LHS)
		if !ok {
			return nil, fmt.Errorf("symbol not found in a symbol table: %v", prodNode.LHS)
		}
		for _, alt := range prodNode.Alternatives {
			rhs, ok, err := b.genRHS(prodNode, alt)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			p, err := newProduction(lhsSym, rhs)
			if err != nil {
				return nil, err
			}
			if !b.prods.append(p) {
				b.addErr(semErrDuplicateProduction, fmt.Sprintf("%v has duplicate alternatives", prodNode.LHS), prodNode.Pos)
			}
		}
	}
	if len(b.errs) > 0 {
		return nil, b.errs
	}

	var skip []int
	for i, tok := range b.AST.Tokens {
		sym, ok := b.r.ToSymbol(tok.Name)
		if !ok {
			return nil, fmt.Errorf("symbol not found in a symbol table: %v", tok.Name)
		}
		if _, used := b.usedTerms[sym]; !used {
			skip = append(skip, i+1)
		}
	}

	return &Grammar{
		name: name,
		lexSpec: &lexical.LexSpec{
			Entries: lexEntries,
		},
		skipKinds:            skip,
		productionSet:        b.prods,
		augmentedStartSymbol: startSym,
		entrySymbol:          entrySym,
		symbolTable:          b.r,
		kindToTerminal:       kindToTerminal,
	}, nil
}

// genRHS resolves an alternative into a symbol sequence, desugaring nested
// groups on the way. It returns false when any reference in the alternative
// was invalid; resolution continues over the remaining elements so that a
// single pass reports every undefined symbol.
func (b *GrammarBuilder) genRHS(owner *spec.ProductionNode, alt *spec.AlternativeNode) ([]symbol.Symbol, bool, error) {
	rhs := make([]symbol.Symbol, 0, len(alt.Elements))
	ok := true
	for _, elem := range alt.Elements {
		if elem.Group != nil {
			synSym, gOK, err := b.genGroup(owner, elem.Group)
			if err != nil {
				return nil, false, err
			}
			if !gOK {
				ok = false
				continue
			}
			rhs = append(rhs, synSym)
			continue
		}
		sym, found := b.r.ToSymbol(elem.ID)
		if !found {
			b.addErr(semErrUndefinedSym, elem.ID, elem.Pos)
			ok = false
			continue
		}
		if sym.IsTerminal() {
			b.usedTerms[sym] = struct{}{}
		}
		rhs = append(rhs, sym)
	}
	return rhs, ok, nil
}

// genGroup turns a group expression into a synthetic non-terminal. The
// synthetic symbol's name contains `<` and `>` so it can never collide with
// a user-defined identifier, and it records the owning non-terminal so that
// drivers can splice synthetic nodes back into their owner.
//
// A trailing repetition operator desugars as follows, where g ranges over the
// group's alternatives and rep/opt is the synthetic symbol:
//
//	(g)* : rep → ε | g rep
//	(g)+ : rep → g | g rep
//	(g)? : opt → ε | g
func (b *GrammarBuilder) genGroup(owner *spec.ProductionNode, group *spec.GroupNode) (symbol.Symbol, bool, error) {
	ownerSym, found := b.r.ToSymbol(owner.LHS)
	if !found {
		return symbol.SymbolNil, false, fmt.Errorf("symbol not found in a symbol table: %v", owner.LHS)
	}
	b.synNums[owner.LHS]++
	text := fmt.Sprintf("<%v.%v>", owner.LHS, b.synNums[owner.LHS])
	synSym, err := b.w.RegisterSyntheticSymbol(text, ownerSym)
	if err != nil {
		return symbol.SymbolNil, false, err
	}

	ok := true
	var alts [][]symbol.Symbol
	for _, alt := range group.Alternatives {
		rhs, altOK, err := b.genRHS(owner, alt)
		if err != nil {
			return symbol.SymbolNil, false, err
		}
		if !altOK {
			ok = false
			continue
		}
		alts = append(alts, rhs)
	}
	if !ok {
		return symbol.SymbolNil, false, nil
	}

	appendProd := func(rhs []symbol.Symbol) error {
		p, err := newProduction(synSym, rhs)
		if err != nil {
			return err
		}
		// Desugared alternatives may coincide, like in (a | a)?. The
		// duplicates are harmless, so they are dropped silently.
		b.prods.append(p)
		return nil
	}
	withTail := func(rhs []symbol.Symbol) []symbol.Symbol {
		r := make([]symbol.Symbol, len(rhs)+1)
		copy(r, rhs)
		r[len(rhs)] = synSym
		return r
	}

	switch group.Rep {
	case spec.RepetitionZeroOrMore:
		if err := appendProd(nil); err != nil {
			return symbol.SymbolNil, false, err
		}
		for _, rhs := range alts {
			if err := appendProd(withTail(rhs)); err != nil {
				return symbol.SymbolNil, false, err
			}
		}
	case spec.RepetitionOneOrMore:
		for _, rhs := range alts {
			if err := appendProd(rhs); err != nil {
				return symbol.SymbolNil, false, err
			}
			if err := appendProd(withTail(rhs)); err != nil {
				return symbol.SymbolNil, false, err
			}
		}
	case spec.RepetitionOption:
		if err := appendProd(nil); err != nil {
			return symbol.SymbolNil, false, err
		}
		for _, rhs := range alts {
			if err := appendProd(rhs); err != nil {
				return symbol.SymbolNil, false, err
			}
		}
	default:
		for _, rhs := range alts {
			if err := appendProd(rhs); err != nil {
				return symbol.SymbolNil, false, err
			}
		}
	}

	return synSym, true, nil
}

type compileConfig struct {
	isReportingEnabled bool
}

type CompileOption func(config *compileConfig)

func EnableReporting() CompileOption {
	return func(config *compileConfig) {
		config.isReportingEnabled = true
	}
}

// Compile turns a Grammar into its driver tables. It builds the lexical DFA
// first, then tries an LL(1) table; when left recursion or LL(1) conflicts
// rule that out, it falls back to LALR(1) and keeps the reasons as report
// notes. Shift/reduce and reduce/reduce conflicts in the LALR(1) table are
// fatal, and in that case the LL-phase reasons are returned alongside them.
func Compile(gram *Grammar, opts ...CompileOption) (*spec.CompiledGrammar, *spec.Report, error) {
	config := &compileConfig{}
	for _, opt := range opts {
		opt(config)
	}

	lspec, err := lexical.Compile(gram.lexSpec)
	if err != nil {
		var cerrs lexical.CompileErrors
		if errors.As(err, &cerrs) {
			var errs verr.SpecErrors
			for _, cerr := range cerrs {
				if errors.Is(cerr.Cause, lexical.ErrNullablePattern) || errors.Is(cerr.Cause, lexical.ErrUnreachablePattern) {
					errs = append(errs, &verr.SpecError{
						Cause:  semErrAmbiguousToken,
						Detail: fmt.Sprintf("%v: %v", cerr.Kind, cerr.Cause),
						Row:    cerr.Row,
						Col:    cerr.Col,
					})
					continue
				}
				errs = append(errs, &verr.SpecError{
					Cause:  cerr.Cause,
					Detail: fmt.Sprintf("%v: %v", cerr.Kind, cerr.Detail),
					Row:    cerr.Row,
					Col:    cerr.Col,
				})
			}
			return nil, nil, errs
		}
		return nil, nil, err
	}

	termCount := gram.symbolTable.TerminalCount()
	ntCount := gram.symbolTable.NonTerminalCount()

	// The LL phase. Left recursion is ruled out before FIRST/FOLLOW so that
	// the diagnostics name the cycle itself. Left recursion and LL(1)
	// conflicts disqualify the grammar from predictive parsing but not from
	// the LALR(1) fallback, so they are collected instead of returned.
	var llErrs verr.SpecErrors
	var ll *llTable
	cycles := detectLeftRecursions(gram.productionSet)

	fst, err := genFirstSet(gram.productionSet)
	if err != nil {
		return nil, nil, err
	}

	if len(cycles) > 0 {
		for _, cycle := range cycles {
			llErrs = append(llErrs, &verr.SpecError{
				Cause:  semErrLeftRecursion,
				Detail: formatCycle(gram, cycle),
			})
		}
	} else {
		flw, err := genFollowSet(gram.productionSet, fst)
		if err != nil {
			return nil, nil, err
		}
		tab, conflicts, err := genLL1Table(gram.productionSet, fst, flw, ntCount, termCount)
		if err != nil {
			return nil, nil, err
		}
		if len(conflicts) > 0 {
			for _, c := range conflicts {
				llErrs = append(llErrs, &verr.SpecError{
					Cause:  semErrLL1Conflict,
					Detail: formatLLConflict(gram, c),
				})
			}
		} else {
			ll = tab
		}
	}

	tableKind := spec.TableKindLL1
	var notes []string
	var ptab *ParsingTable
	var automaton *lr0Automaton
	if ll == nil {
		tableKind = spec.TableKindLALR1
		for _, e := range llErrs {
			notes = append(notes, fmt.Sprintf("%v: %v", e.Cause, e.Detail))
		}

		lr0, err := genLR0Automaton(gram.productionSet, gram.augmentedStartSymbol)
		if err != nil {
			return nil, nil, err
		}
		lalr, err := genLALR1Automaton(lr0, gram.productionSet, fst)
		if err != nil {
			return nil, nil, err
		}
		builder := &lrTableBuilder{
			automaton:    lalr.lr0Automaton,
			prods:        gram.productionSet,
			termCount:    termCount,
			nonTermCount: ntCount,
		}
		tab, err := builder.build()
		if err != nil {
			return nil, nil, err
		}
		if len(builder.conflicts) > 0 {
			errs := llErrs
			for _, c := range builder.conflicts {
				switch c := c.(type) {
				case *shiftReduceConflict:
					errs = append(errs, &verr.SpecError{
						Cause:  semErrSRConflict,
						Detail: fmt.Sprintf("state %v: symbol %v: shift %v or reduce %v", c.state, symbolText(gram, c.sym), c.nextState, formatProduction(gram, c.prodNum)),
					})
				case *reduceReduceConflict:
					errs = append(errs, &verr.SpecError{
						Cause:  semErrRRConflict,
						Detail: fmt.Sprintf("state %v: symbol %v: reduce %v or reduce %v", c.state, symbolText(gram, c.sym), formatProduction(gram, c.prodNum1), formatProduction(gram, c.prodNum2)),
					})
				}
			}
			return nil, nil, errs
		}
		ptab = tab
		automaton = lalr.lr0Automaton
	}

	cg, err := genCompiledGrammar(gram, lspec, tableKind, ll, ptab)
	if err != nil {
		return nil, nil, err
	}

	var report *spec.Report
	if config.isReportingEnabled {
		report, err = genReport(gram, tableKind, notes, ll, ptab, automaton)
		if err != nil {
			return nil, nil, err
		}
	}

	return cg, report, nil
}

func symbolText(gram *Grammar, sym symbol.Symbol) string {
	text, ok := gram.symbolTable.ToText(sym)
	if !ok {
		return sym.String()
	}
	return text
}

func formatCycle(gram *Grammar, cycle []symbol.Symbol) string {
	names := make([]string, len(cycle))
	for i, sym := range cycle {
		names[i] = symbolText(gram, sym)
	}
	return strings.Join(names, " -> ")
}

func formatLLConflict(gram *Grammar, c *llConflict) string {
	return fmt.Sprintf("non-terminal %v: lookahead %v: %v or %v",
		symbolText(gram, c.nonTermSym), symbolText(gram, c.lookAhead),
		formatProduction(gram, c.prod1), formatProduction(gram, c.prod2))
}

func formatProduction(gram *Grammar, num productionNum) string {
	prod, ok := gram.productionSet.findByNum(num)
	if !ok {
		return fmt.Sprintf("#%v", num)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "#%v (%v →", num, symbolText(gram, prod.lhs))
	if prod.isEmpty() {
		fmt.Fprintf(&b, " ε")
	}
	for _, sym := range prod.rhs {
		fmt.Fprintf(&b, " %v", symbolText(gram, sym))
	}
	fmt.Fprintf(&b, ")")
	return b.String()
}

func genCompiledGrammar(gram *Grammar, lspec *lexical.CompiledLexSpec, tableKind string, ll *llTable, ptab *ParsingTable) (*spec.CompiledGrammar, error) {
	transition := make([]int, len(lspec.DFA.Transition))
	for i, s := range lspec.DFA.Transition {
		transition[i] = int(s)
	}
	accepting := make([]int, len(lspec.DFA.AcceptingStates))
	for i, k := range lspec.DFA.AcceptingStates {
		accepting[i] = int(k)
	}

	termCount := gram.symbolTable.TerminalCount()
	ntCount := gram.symbolTable.NonTerminalCount()

	termTexts, err := gram.symbolTable.TerminalTexts()
	if err != nil {
		return nil, err
	}
	ntTexts, err := gram.symbolTable.NonTerminalTexts()
	if err != nil {
		return nil, err
	}

	synthetic := make([]int, ntCount)
	for _, sym := range gram.symbolTable.NonTerminalSymbols() {
		if owner, ok := gram.symbolTable.SyntheticOwner(sym); ok {
			synthetic[sym.Num().Int()] = owner.Num().Int()
		}
	}

	prodCount := gram.productionSet.count()
	lhs := make([]int, prodCount+1)
	alts := make([][]int, prodCount+1)
	for _, p := range gram.productionSet.getAllProductions() {
		lhs[p.num.Int()] = p.lhs.Num().Int()
		rhs := make([]int, p.rhsLen)
		for i, sym := range p.rhs {
			if sym.IsTerminal() {
				rhs[i] = sym.Num().Int()
			} else {
				rhs[i] = -sym.Num().Int()
			}
		}
		alts[p.num.Int()] = rhs
	}

	syntactic := &spec.SyntacticSpec{
		TableKind:          tableKind,
		TerminalCount:      termCount,
		NonTerminalCount:   ntCount,
		Terminals:          termTexts,
		NonTerminals:       ntTexts,
		SyntheticOwners:    synthetic,
		KindToTerminal:     gram.kindToTerminal,
		EOFSymbol:          symbol.SymbolEOF.Num().Int(),
		EntrySymbol:        gram.entrySymbol.Num().Int(),
		StartProduction:    productionNumStart.Int(),
		LHSSymbols:         lhs,
		AlternativeSymbols: alts,
	}
	switch tableKind {
	case spec.TableKindLL1:
		entries := make([]int, len(ll.entries))
		for i, p := range ll.entries {
			entries[i] = p.Int()
		}
		syntactic.LLTable = entries
	case spec.TableKindLALR1:
		action := make([]int, len(ptab.actionTable))
		for i, a := range ptab.actionTable {
			action[i] = int(a)
		}
		goTo := make([]int, len(ptab.goToTable))
		for i, g := range ptab.goToTable {
			goTo[i] = int(g)
		}
		syntactic.Action = action
		syntactic.GoTo = goTo
		syntactic.StateCount = ptab.stateCount
	}

	return &spec.CompiledGrammar{
		Name: gram.name,
		Lexical: &spec.LexicalSpec{
			Ranges:          lspec.Ranges,
			InitialStateID:  int(lspec.DFA.InitialStateID),
			StateCount:      lspec.DFA.RowCount,
			ClassCount:      lspec.DFA.ColCount,
			Transition:      transition,
			AcceptingStates: accepting,
			KindNames:       lspec.KindNames,
			Skip:            gram.skipKinds,
		},
		Syntactic: syntactic,
	}, nil
}
