package grammar

import (
	"fmt"
	"sort"

	spec "github.com/mollete/gratab/spec"
)

// genReport builds the human-oriented description of the compiled tables.
// Slices indexed by symbol or production number keep a nil slot at the
// indices no symbol occupies.
func genReport(gram *Grammar, tableKind string, notes []string, ll *llTable, ptab *ParsingTable, automaton *lr0Automaton) (*spec.Report, error) {
	var terms []*spec.Terminal
	{
		termSyms := gram.symbolTable.TerminalSymbols()
		terms = make([]*spec.Terminal, len(termSyms)+1)

		for _, sym := range termSyms {
			name, ok := gram.symbolTable.ToText(sym)
			if !ok {
				return nil, fmt.Errorf("failed to generate terminals: symbol not found: %v", sym)
			}

			term := &spec.Terminal{
				Number: sym.Num().Int(),
				Name:   name,
			}
			if !sym.IsEOF() {
				for i, k := range gram.kindToTerminal {
					if k == sym.Num().Int() && i > 0 {
						term.Pattern = gram.lexSpec.Entries[i-1].Pattern
						break
					}
				}
			}

			terms[sym.Num()] = term
		}
	}

	var nonTerms []*spec.NonTerminal
	{
		nonTermSyms := gram.symbolTable.NonTerminalSymbols()
		nonTerms = make([]*spec.NonTerminal, len(nonTermSyms)+1)
		for _, sym := range nonTermSyms {
			name, ok := gram.symbolTable.ToText(sym)
			if !ok {
				return nil, fmt.Errorf("failed to generate non-terminals: symbol not found: %v", sym)
			}

			_, synthetic := gram.symbolTable.SyntheticOwner(sym)
			nonTerms[sym.Num()] = &spec.NonTerminal{
				Number:    sym.Num().Int(),
				Name:      name,
				Synthetic: synthetic,
			}
		}
	}

	var prods []*spec.Production
	{
		ps := gram.productionSet.getAllProductions()
		prods = make([]*spec.Production, len(ps)+1)
		for _, p := range ps {
			rhs := make([]int, len(p.rhs))
			for i, e := range p.rhs {
				if e.IsTerminal() {
					rhs[i] = e.Num().Int()
				} else {
					rhs[i] = e.Num().Int() * -1
				}
			}

			prods[p.num.Int()] = &spec.Production{
				Number: p.num.Int(),
				LHS:    p.lhs.Num().Int(),
				RHS:    rhs,
			}
		}
	}

	report := &spec.Report{
		Name:         gram.name,
		TableKind:    tableKind,
		Notes:        notes,
		Terminals:    terms,
		NonTerminals: nonTerms,
		Productions:  prods,
	}

	switch tableKind {
	case spec.TableKindLL1:
		termCount := gram.symbolTable.TerminalCount()
		var entries []*spec.LLEntry
		for nt := 0; nt < gram.symbolTable.NonTerminalCount(); nt++ {
			for t := 0; t < termCount; t++ {
				prod := ll.entries[nt*termCount+t]
				if prod == productionNumNil {
					continue
				}
				entries = append(entries, &spec.LLEntry{
					NonTerminal: nt,
					LookAhead:   t,
					Production:  prod.Int(),
				})
			}
		}
		report.LLEntries = entries
	case spec.TableKindLALR1:
		states, err := genStateReport(gram, ptab, automaton)
		if err != nil {
			return nil, err
		}
		report.States = states
	}

	return report, nil
}

func genStateReport(gram *Grammar, ptab *ParsingTable, automaton *lr0Automaton) ([]*spec.State, error) {
	states := make([]*spec.State, len(automaton.states))
	for _, s := range automaton.states {
		kernel := make([]*spec.Item, len(s.items))
		for i, item := range s.items {
			p, ok := gram.productionSet.findByID(item.prod)
			if !ok {
				return nil, fmt.Errorf("failed to generate states: production of kernel item not found: %v", item.prod)
			}

			kernel[i] = &spec.Item{
				Production: p.num.Int(),
				Dot:        item.dot,
			}
		}

		sort.Slice(kernel, func(i, j int) bool {
			if kernel[i].Production < kernel[j].Production {
				return true
			}
			if kernel[i].Production > kernel[j].Production {
				return false
			}
			return kernel[i].Dot < kernel[j].Dot
		})

		var shift []*spec.Transition
		var reduce []*spec.Reduce
		var goTo []*spec.Transition
	TERMINALS_LOOP:
		for _, t := range gram.symbolTable.TerminalSymbols() {
			act, next, prod := ptab.getAction(s.num, t.Num())
			switch act {
			case ActionTypeShift:
				shift = append(shift, &spec.Transition{
					Symbol: t.Num().Int(),
					State:  next.Int(),
				})
			case ActionTypeReduce:
				for _, r := range reduce {
					if r.Production == prod.Int() {
						r.LookAhead = append(r.LookAhead, t.Num().Int())
						continue TERMINALS_LOOP
					}
				}
				reduce = append(reduce, &spec.Reduce{
					LookAhead:  []int{t.Num().Int()},
					Production: prod.Int(),
				})
			}
		}

		for _, n := range gram.symbolTable.NonTerminalSymbols() {
			ty, next := ptab.getGoTo(s.num, n.Num())
			if ty == GoToTypeRegistered {
				goTo = append(goTo, &spec.Transition{
					Symbol: n.Num().Int(),
					State:  next.Int(),
				})
			}
		}

		sort.Slice(shift, func(i, j int) bool {
			return shift[i].State < shift[j].State
		})
		sort.Slice(reduce, func(i, j int) bool {
			return reduce[i].Production < reduce[j].Production
		})
		sort.Slice(goTo, func(i, j int) bool {
			return goTo[i].State < goTo[j].State
		})

		states[s.num.Int()] = &spec.State{
			Number: s.num.Int(),
			Kernel: kernel,
			Shift:  shift,
			Reduce: reduce,
			GoTo:   goTo,
		}
	}

	return states, nil
}
