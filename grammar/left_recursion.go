package grammar

import (
	"sort"

	"github.com/mollete/gratab/grammar/symbol"
)

func sortSymbols(syms []symbol.Symbol) {
	sort.Slice(syms, func(i, j int) bool {
		return syms[i] < syms[j]
	})
}

// detectLeftRecursions finds direct and indirect left recursion, including
// recursion reachable through nullable prefixes. It runs before FIRST/FOLLOW
// computation since a left-recursive grammar can never yield a usable LL(1)
// table.
func detectLeftRecursions(prods *productionSet) [][]symbol.Symbol {
	nullable := genNullableSet(prods)

	edges := map[symbol.Symbol][]symbol.Symbol{}
	for _, prod := range prods.getAllProductions() {
		for _, sym := range prod.rhs {
			if sym.IsTerminal() {
				break
			}
			edges[prod.lhs] = append(edges[prod.lhs], sym)
			if _, ok := nullable[sym]; !ok {
				break
			}
		}
	}

	var nts []symbol.Symbol
	for nt := range edges {
		nts = append(nts, nt)
	}
	sortSymbols(nts)

	const (
		colorWhite = 0
		colorGray  = 1
		colorBlack = 2
	)
	color := map[symbol.Symbol]int{}
	var cycles [][]symbol.Symbol
	var stack []symbol.Symbol

	var walk func(sym symbol.Symbol)
	walk = func(sym symbol.Symbol) {
		color[sym] = colorGray
		stack = append(stack, sym)
		for _, next := range edges[sym] {
			switch color[next] {
			case colorWhite:
				walk(next)
			case colorGray:
				start := 0
				for i, s := range stack {
					if s == next {
						start = i
						break
					}
				}
				cycle := make([]symbol.Symbol, 0, len(stack)-start+1)
				cycle = append(cycle, stack[start:]...)
				cycle = append(cycle, next)
				cycles = append(cycles, cycle)
			}
		}
		stack = stack[:len(stack)-1]
		color[sym] = colorBlack
	}

	for _, nt := range nts {
		if color[nt] == colorWhite {
			walk(nt)
		}
	}

	return cycles
}

// genNullableSet computes the non-terminals that can derive the empty string.
func genNullableSet(prods *productionSet) map[symbol.Symbol]struct{} {
	nullable := map[symbol.Symbol]struct{}{}
	for {
		more := false
		for _, prod := range prods.getAllProductions() {
			if _, ok := nullable[prod.lhs]; ok {
				continue
			}
			allNullable := true
			for _, sym := range prod.rhs {
				if sym.IsTerminal() {
					allNullable = false
					break
				}
				if _, ok := nullable[sym]; !ok {
					allNullable = false
					break
				}
			}
			if allNullable {
				nullable[prod.lhs] = struct{}{}
				more = true
			}
		}
		if !more {
			break
		}
	}
	return nullable
}
