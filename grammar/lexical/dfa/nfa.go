package dfa

import (
	"fmt"

	"github.com/mollete/gratab/grammar/lexical/parser"
)

// LexKindID numbers tokens in declaration order starting at 1. It doubles as
// the match priority: the smaller the ID, the stronger the claim.
type LexKindID int

func (id LexKindID) Int() int {
	return int(id)
}

const LexKindIDNil = LexKindID(0)

type nfaStateID int

// NFA is the union of all token pattern fragments under one epsilon start
// state. Transitions are labeled with alphabet classes.
type NFA struct {
	initial  nfaStateID
	trans    []map[ClassID][]nfaStateID
	epsilons [][]nfaStateID
	accepts  []LexKindID
}

func GenNFA(alphabet *Alphabet, trees []parser.PatternNode) *NFA {
	n := &NFA{}
	n.initial = n.newState()
	for i, tree := range trees {
		start, end := n.genFragment(alphabet, tree)
		n.addEpsilon(n.initial, start)
		n.accepts[end] = LexKindID(i + 1)
	}
	return n
}

func (n *NFA) newState() nfaStateID {
	id := nfaStateID(len(n.trans))
	n.trans = append(n.trans, nil)
	n.epsilons = append(n.epsilons, nil)
	n.accepts = append(n.accepts, LexKindIDNil)
	return id
}

func (n *NFA) addTransition(from nfaStateID, class ClassID, to nfaStateID) {
	if n.trans[from] == nil {
		n.trans[from] = map[ClassID][]nfaStateID{}
	}
	n.trans[from][class] = append(n.trans[from][class], to)
}

func (n *NFA) addEpsilon(from, to nfaStateID) {
	n.epsilons[from] = append(n.epsilons[from], to)
}

func (n *NFA) genFragment(alphabet *Alphabet, node parser.PatternNode) (nfaStateID, nfaStateID) {
	switch nd := node.(type) {
	case *parser.SymbolNode:
		start := n.newState()
		end := n.newState()
		lo, hi := alphabet.ClassesOf(nd.From, nd.To)
		for c := lo; c <= hi; c++ {
			n.addTransition(start, c, end)
		}
		return start, end
	case *parser.ConcatNode:
		lStart, lEnd := n.genFragment(alphabet, nd.Left)
		rStart, rEnd := n.genFragment(alphabet, nd.Right)
		n.addEpsilon(lEnd, rStart)
		return lStart, rEnd
	case *parser.AltNode:
		start := n.newState()
		end := n.newState()
		lStart, lEnd := n.genFragment(alphabet, nd.Left)
		rStart, rEnd := n.genFragment(alphabet, nd.Right)
		n.addEpsilon(start, lStart)
		n.addEpsilon(start, rStart)
		n.addEpsilon(lEnd, end)
		n.addEpsilon(rEnd, end)
		return start, end
	case *parser.RepeatNode:
		start := n.newState()
		end := n.newState()
		cStart, cEnd := n.genFragment(alphabet, nd.Child)
		n.addEpsilon(start, cStart)
		n.addEpsilon(start, end)
		n.addEpsilon(cEnd, cStart)
		n.addEpsilon(cEnd, end)
		return start, end
	case *parser.OptionNode:
		start := n.newState()
		end := n.newState()
		cStart, cEnd := n.genFragment(alphabet, nd.Child)
		n.addEpsilon(start, cStart)
		n.addEpsilon(start, end)
		n.addEpsilon(cEnd, end)
		return start, end
	default:
		panic(fmt.Errorf("invalid pattern node: %T", node))
	}
}
