package grammar

import (
	"sort"

	"github.com/mollete/gratab/grammar/symbol"
)

type llConflict struct {
	nonTermSym symbol.Symbol
	lookAhead  symbol.Symbol
	prod1      productionNum
	prod2      productionNum
}

// llTable maps (non-terminal number, lookahead terminal number) to a
// production number. A zero entry is an error entry. The EOF symbol occupies
// terminal number 1, so FOLLOW-derived entries on end of input fit the same
// flat layout.
type llTable struct {
	entries   []productionNum
	termCount int
}

func (t *llTable) lookup(nt, term symbol.Symbol) productionNum {
	return t.entries[nt.Num().Int()*t.termCount+term.Num().Int()]
}

func (t *llTable) set(nt, term symbol.Symbol, prod productionNum) {
	t.entries[nt.Num().Int()*t.termCount+term.Num().Int()] = prod
}

func genLL1Table(prods *productionSet, fst *firstSet, flw *followSet, ntCount, termCount int) (*llTable, []*llConflict, error) {
	tab := &llTable{
		entries:   make([]productionNum, ntCount*termCount),
		termCount: termCount,
	}

	sorted := make([]*production, 0, prods.count())
	for _, prod := range prods.getAllProductions() {
		sorted = append(sorted, prod)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].num < sorted[j].num
	})

	var conflicts []*llConflict
	claim := func(nt, la symbol.Symbol, prod productionNum) {
		prior := tab.lookup(nt, la)
		if prior != productionNumNil && prior != prod {
			conflicts = append(conflicts, &llConflict{
				nonTermSym: nt,
				lookAhead:  la,
				prod1:      prior,
				prod2:      prod,
			})
			return
		}
		tab.set(nt, la, prod)
	}

	for _, prod := range sorted {
		e, err := fst.find(prod, 0)
		if err != nil {
			return nil, nil, err
		}
		las := make([]symbol.Symbol, 0, len(e.symbols))
		for sym := range e.symbols {
			las = append(las, sym)
		}
		sortSymbols(las)
		for _, la := range las {
			claim(prod.lhs, la, prod.num)
		}
		if e.empty {
			flwE, err := flw.find(prod.lhs)
			if err != nil {
				return nil, nil, err
			}
			las := make([]symbol.Symbol, 0, len(flwE.symbols)+1)
			for sym := range flwE.symbols {
				las = append(las, sym)
			}
			sortSymbols(las)
			for _, la := range las {
				claim(prod.lhs, la, prod.num)
			}
			if flwE.eof {
				claim(prod.lhs, symbol.SymbolEOF, prod.num)
			}
		}
	}

	if len(conflicts) > 0 {
		return nil, conflicts, nil
	}
	return tab, nil, nil
}
