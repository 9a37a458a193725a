package dfa

import (
	"fmt"
	"sort"

	"github.com/mollete/gratab/grammar/lexical/parser"
	spec "github.com/mollete/gratab/spec"
)

type ClassID int

func (id ClassID) Int() int {
	return int(id)
}

const codePointMax = rune(0x10ffff)

// Alphabet partitions the code point space into equivalence classes. Every
// range endpoint occurring in any pattern starts a new class, so each symbol
// range of a pattern covers a contiguous run of whole classes and transition
// tables are indexed by class instead of code point.
type Alphabet struct {
	ranges []spec.CharRange
}

func GenAlphabet(trees []parser.PatternNode) *Alphabet {
	bounds := map[rune]struct{}{
		0: {},
	}
	for _, tree := range trees {
		collectSymbolRanges(tree, func(from, to rune) {
			bounds[from] = struct{}{}
			if to < codePointMax {
				bounds[to+1] = struct{}{}
			}
		})
	}
	starts := make([]rune, 0, len(bounds))
	for b := range bounds {
		starts = append(starts, b)
	}
	sort.Slice(starts, func(i, j int) bool {
		return starts[i] < starts[j]
	})
	ranges := make([]spec.CharRange, len(starts))
	for i, from := range starts {
		to := codePointMax
		if i+1 < len(starts) {
			to = starts[i+1] - 1
		}
		ranges[i] = spec.CharRange{
			From: from,
			To:   to,
		}
	}
	return &Alphabet{
		ranges: ranges,
	}
}

func collectSymbolRanges(node parser.PatternNode, f func(from, to rune)) {
	switch n := node.(type) {
	case *parser.SymbolNode:
		f(n.From, n.To)
	case *parser.ConcatNode:
		collectSymbolRanges(n.Left, f)
		collectSymbolRanges(n.Right, f)
	case *parser.AltNode:
		collectSymbolRanges(n.Left, f)
		collectSymbolRanges(n.Right, f)
	case *parser.RepeatNode:
		collectSymbolRanges(n.Child, f)
	case *parser.OptionNode:
		collectSymbolRanges(n.Child, f)
	default:
		panic(fmt.Errorf("invalid pattern node: %T", node))
	}
}

func (a *Alphabet) ClassCount() int {
	return len(a.ranges)
}

func (a *Alphabet) Ranges() []spec.CharRange {
	return a.ranges
}

func (a *Alphabet) ClassOf(c rune) ClassID {
	i := sort.Search(len(a.ranges), func(i int) bool {
		return a.ranges[i].To >= c
	})
	return ClassID(i)
}

// ClassesOf returns the contiguous run of classes covering [from, to]. The
// endpoints of every pattern range are class boundaries, so the run covers
// exactly the requested code points.
func (a *Alphabet) ClassesOf(from, to rune) (ClassID, ClassID) {
	return a.ClassOf(from), a.ClassOf(to)
}
