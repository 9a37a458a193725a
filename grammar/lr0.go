package grammar

import (
	"fmt"
	"sort"

	"github.com/mollete/gratab/grammar/symbol"
)

type lr0Automaton struct {
	initialState kernelID
	states       map[kernelID]*lrState
}

// genLR0Automaton builds the canonical LR(0) collection from the augmented
// start symbol. States are discovered by a worklist over unexplored kernels
// and numbered in discovery order, so the initial state is always number 0.
func genLR0Automaton(prods *productionSet, startSym symbol.Symbol) (*lr0Automaton, error) {
	if !startSym.IsStart() {
		return nil, fmt.Errorf("passed symbol is not a start symbol")
	}

	startProds, _ := prods.findByLHS(startSym)
	initialItem, err := newLR0Item(startProds[0], 0)
	if err != nil {
		return nil, err
	}
	initialKernel, err := newKernel([]*lrItem{initialItem})
	if err != nil {
		return nil, err
	}

	automaton := &lr0Automaton{
		initialState: initialKernel.id,
		states:       map[kernelID]*lrState{},
	}

	queue := []*kernel{initialKernel}
	queued := map[kernelID]struct{}{
		initialKernel.id: {},
	}
	num := stateNumInitial
	for len(queue) > 0 {
		k := queue[0]
		queue = queue[1:]

		state, neighbours, err := genLRState(k, prods)
		if err != nil {
			return nil, err
		}
		state.num = num
		num++
		automaton.states[state.id] = state

		for _, n := range neighbours {
			if _, ok := queued[n.id]; ok {
				continue
			}
			queued[n.id] = struct{}{}
			queue = append(queue, n)
		}
	}

	return automaton, nil
}

// genLRState expands a kernel to its closure and derives the state: the goto
// target per dotted symbol, the reduce candidates, and the items of empty
// productions. It also returns the kernels the gotos lead to.
func genLRState(k *kernel, prods *productionSet) (*lrState, []*kernel, error) {
	items, err := genLR0Closure(k, prods)
	if err != nil {
		return nil, nil, err
	}

	shifted := map[symbol.Symbol][]*lrItem{}
	reducible := map[productionID]struct{}{}
	var emptyProdItems []*lrItem
	for _, item := range items {
		if item.reducible {
			reducible[item.prod] = struct{}{}

			prod, ok := prods.findByID(item.prod)
			if !ok {
				return nil, nil, fmt.Errorf("reducible production not found: %v", item.prod)
			}
			if prod.isEmpty() {
				emptyProdItems = append(emptyProdItems, item)
			}
			continue
		}

		advanced, err := advanceDot(item, prods)
		if err != nil {
			return nil, nil, err
		}
		shifted[item.dottedSymbol] = append(shifted[item.dottedSymbol], advanced)
	}

	// The kernels are assembled in symbol order to keep the construction
	// deterministic.
	syms := make([]symbol.Symbol, 0, len(shifted))
	for sym := range shifted {
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool {
		return syms[i] < syms[j]
	})

	next := map[symbol.Symbol]kernelID{}
	neighbours := make([]*kernel, 0, len(syms))
	for _, sym := range syms {
		nk, err := newKernel(shifted[sym])
		if err != nil {
			return nil, nil, err
		}
		next[sym] = nk.id
		neighbours = append(neighbours, nk)
	}

	return &lrState{
		kernel:         k,
		next:           next,
		reducible:      reducible,
		emptyProdItems: emptyProdItems,
	}, neighbours, nil
}

func genLR0Closure(k *kernel, prods *productionSet) ([]*lrItem, error) {
	items := make([]*lrItem, len(k.items))
	copy(items, k.items)
	seen := map[lrItemID]struct{}{}
	for i := 0; i < len(items); i++ {
		item := items[i]
		if !item.dottedSymbol.IsNonTerminal() {
			continue
		}
		ps, _ := prods.findByLHS(item.dottedSymbol)
		for _, prod := range ps {
			newItem, err := newLR0Item(prod, 0)
			if err != nil {
				return nil, err
			}
			if _, ok := seen[newItem.id]; ok {
				continue
			}
			seen[newItem.id] = struct{}{}
			items = append(items, newItem)
		}
	}
	return items, nil
}
