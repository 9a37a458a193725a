package grammar

import (
	"fmt"

	"github.com/mollete/gratab/grammar/symbol"
)

// itemRef addresses one item of one state.
type itemRef struct {
	state kernelID
	item  lrItemID
}

// lookAheadEdge records that the item at dest receives every lookahead the
// item at src receives.
type lookAheadEdge struct {
	src  itemRef
	dest itemRef
}

type lalr1Automaton struct {
	*lr0Automaton
}

// genLALR1Automaton attaches LALR(1) lookahead sets to the states of an LR(0)
// automaton. Each kernel item is closed once; symbols the closure generates on
// its own are applied immediately, and items flagged for propagation become
// edges resolved by a fixed point afterwards.
func genLALR1Automaton(lr0 *lr0Automaton, prods *productionSet, first *firstSet) (*lalr1Automaton, error) {
	// The initial item of the augmented start production reduces on EOF only.
	initial := lr0.states[lr0.initialState]
	initial.items[0].lookAhead.add(symbol.SymbolEOF)

	var edges []*lookAheadEdge
	for _, state := range lr0.states {
		for _, kItem := range state.items {
			kItem.lookAhead.propagation = true
			items, err := genLALR1Closure(kItem, prods, first)
			if err != nil {
				return nil, err
			}

			src := itemRef{
				state: state.id,
				item:  kItem.id,
			}
			for _, item := range items {
				dest, err := wireClosureItem(lr0, state, item, prods)
				if err != nil {
					return nil, err
				}
				if dest != nil {
					edges = append(edges, &lookAheadEdge{
						src:  src,
						dest: *dest,
					})
				}
			}
		}
	}

	err := propagateLookAheads(lr0, edges)
	if err != nil {
		return nil, fmt.Errorf("failed to propagate look-ahead symbols: %v", err)
	}

	return &lalr1Automaton{
		lr0Automaton: lr0,
	}, nil
}

// wireClosureItem applies the spontaneous lookaheads a closure item carries to
// the item of the automaton they belong to, and returns the reference of that
// item when it must also follow the kernel item's lookaheads.
func wireClosureItem(lr0 *lr0Automaton, state *lrState, item *lrItem, prods *productionSet) (*itemRef, error) {
	if item.reducible {
		prod, ok := prods.findByID(item.prod)
		if !ok {
			return nil, fmt.Errorf("production not found: %v", item.prod)
		}
		if !prod.isEmpty() {
			return nil, nil
		}

		// An empty production reduces in the state its item appears in, so the
		// lookaheads land on the state's own empty-production item.
		ref := itemRef{
			state: state.id,
			item:  item.id,
		}
		target, err := findStateItem(lr0, ref)
		if err != nil {
			return nil, err
		}
		target.lookAhead.merge(&item.lookAhead)
		return &ref, nil
	}

	advanced, err := advanceDot(item, prods)
	if err != nil {
		return nil, err
	}
	ref := itemRef{
		state: state.next[item.dottedSymbol],
		item:  advanced.id,
	}
	if item.lookAhead.propagation {
		return &ref, nil
	}
	target, err := findStateItem(lr0, ref)
	if err != nil {
		return nil, err
	}
	target.lookAhead.merge(&item.lookAhead)
	return nil, nil
}

// genLALR1Closure computes the LR(1) closure of a single kernel item. Every
// generated item carries either exactly one spontaneous lookahead symbol or
// the propagation flag.
func genLALR1Closure(kItem *lrItem, prods *productionSet, first *firstSet) ([]*lrItem, error) {
	items := []*lrItem{kItem}
	spontaneous := map[lrItemID]map[symbol.Symbol]struct{}{}
	propagated := map[lrItemID]struct{}{}

	addSpontaneous := func(prod *production, sym symbol.Symbol) error {
		item, err := newLR0Item(prod, 0)
		if err != nil {
			return err
		}
		if _, ok := spontaneous[item.id][sym]; ok {
			return nil
		}
		if spontaneous[item.id] == nil {
			spontaneous[item.id] = map[symbol.Symbol]struct{}{}
		}
		spontaneous[item.id][sym] = struct{}{}
		item.lookAhead.add(sym)
		items = append(items, item)
		return nil
	}
	addPropagated := func(prod *production) error {
		item, err := newLR0Item(prod, 0)
		if err != nil {
			return err
		}
		if _, ok := propagated[item.id]; ok {
			return nil
		}
		propagated[item.id] = struct{}{}
		item.lookAhead.propagation = true
		items = append(items, item)
		return nil
	}

	for i := 0; i < len(items); i++ {
		item := items[i]
		if !item.dottedSymbol.IsNonTerminal() {
			continue
		}

		prod, ok := prods.findByID(item.prod)
		if !ok {
			return nil, fmt.Errorf("production not found: %v", item.prod)
		}
		fst, err := first.find(prod, item.dot+1)
		if err != nil {
			return nil, err
		}

		ps, _ := prods.findByLHS(item.dottedSymbol)
		for _, p := range ps {
			// The lookaheads of the generated items are FIRST of the RHS rest;
			// when the rest is nullable, the item's own lookaheads shine
			// through as well.
			for sym := range fst.symbols {
				if err := addSpontaneous(p, sym); err != nil {
					return nil, err
				}
			}
			if fst.empty {
				for sym := range item.lookAhead.symbols {
					if err := addSpontaneous(p, sym); err != nil {
						return nil, err
					}
				}
				if err := addPropagated(p); err != nil {
					return nil, err
				}
			}
		}
	}

	return items, nil
}

func findStateItem(lr0 *lr0Automaton, ref itemRef) (*lrItem, error) {
	state, ok := lr0.states[ref.state]
	if !ok {
		return nil, fmt.Errorf("state not found: %v", ref.state)
	}
	for _, item := range state.items {
		if item.id == ref.item {
			return item, nil
		}
	}
	for _, item := range state.emptyProdItems {
		if item.id == ref.item {
			return item, nil
		}
	}
	return nil, fmt.Errorf("item not found: %v", ref.item)
}

func propagateLookAheads(lr0 *lr0Automaton, edges []*lookAheadEdge) error {
	for {
		changed := false
		for _, e := range edges {
			src, err := findStateItem(lr0, e.src)
			if err != nil {
				return err
			}
			dest, err := findStateItem(lr0, e.dest)
			if err != nil {
				return err
			}
			if dest.lookAhead.merge(&src.lookAhead) {
				changed = true
			}
		}
		if !changed {
			return nil
		}
	}
}
