package parser

import (
	"fmt"
	"sort"
)

const codePointMax = rune(0x10ffff)

// PatternNode is a node of a parsed token pattern. The set of implementations
// is closed; consumers switch over all of them.
type PatternNode interface {
	fmt.Stringer
	isPatternNode()
}

var (
	_ PatternNode = &SymbolNode{}
	_ PatternNode = &ConcatNode{}
	_ PatternNode = &AltNode{}
	_ PatternNode = &RepeatNode{}
	_ PatternNode = &OptionNode{}
)

// SymbolNode matches any single code point in the inclusive range [From, To].
type SymbolNode struct {
	From rune
	To   rune
}

func NewSymbolNode(c rune) *SymbolNode {
	return &SymbolNode{
		From: c,
		To:   c,
	}
}

func NewRangeSymbolNode(from, to rune) *SymbolNode {
	return &SymbolNode{
		From: from,
		To:   to,
	}
}

func (n *SymbolNode) isPatternNode() {}

func (n *SymbolNode) String() string {
	if n.From == n.To {
		return fmt.Sprintf("symbol(%q)", n.From)
	}
	return fmt.Sprintf("symbol(%q-%q)", n.From, n.To)
}

type ConcatNode struct {
	Left  PatternNode
	Right PatternNode
}

func NewConcatNode(left, right PatternNode) *ConcatNode {
	return &ConcatNode{
		Left:  left,
		Right: right,
	}
}

func (n *ConcatNode) isPatternNode() {}

func (n *ConcatNode) String() string {
	return fmt.Sprintf("concat(%v, %v)", n.Left, n.Right)
}

type AltNode struct {
	Left  PatternNode
	Right PatternNode
}

func NewAltNode(left, right PatternNode) *AltNode {
	return &AltNode{
		Left:  left,
		Right: right,
	}
}

func (n *AltNode) isPatternNode() {}

func (n *AltNode) String() string {
	return fmt.Sprintf("alt(%v, %v)", n.Left, n.Right)
}

// RepeatNode matches zero or more repetitions of its child.
type RepeatNode struct {
	Child PatternNode
}

func NewRepeatNode(child PatternNode) *RepeatNode {
	return &RepeatNode{
		Child: child,
	}
}

func (n *RepeatNode) isPatternNode() {}

func (n *RepeatNode) String() string {
	return fmt.Sprintf("repeat(%v)", n.Child)
}

type OptionNode struct {
	Child PatternNode
}

func NewOptionNode(child PatternNode) *OptionNode {
	return &OptionNode{
		Child: child,
	}
}

func (n *OptionNode) isPatternNode() {}

func (n *OptionNode) String() string {
	return fmt.Sprintf("option(%v)", n.Child)
}

// Nullable reports whether a pattern can match the empty string. Such a
// pattern cannot participate in maximal-munch scanning.
func Nullable(node PatternNode) bool {
	switch n := node.(type) {
	case *SymbolNode:
		return false
	case *ConcatNode:
		return Nullable(n.Left) && Nullable(n.Right)
	case *AltNode:
		return Nullable(n.Left) || Nullable(n.Right)
	case *RepeatNode:
		return true
	case *OptionNode:
		return true
	default:
		panic(fmt.Errorf("invalid pattern node: %T", node))
	}
}

// ParseLiteral builds the pattern tree of a literal token: a plain chain of
// its characters.
func ParseLiteral(text string) PatternNode {
	var root PatternNode
	for _, c := range text {
		var sym PatternNode = NewSymbolNode(c)
		if root == nil {
			root = sym
		} else {
			root = NewConcatNode(root, sym)
		}
	}
	return root
}

func altRanges(ranges []*SymbolNode) PatternNode {
	var root PatternNode
	for _, r := range ranges {
		if root == nil {
			root = r
		} else {
			root = NewAltNode(root, r)
		}
	}
	return root
}

// complementRanges inverts a set of inclusive ranges against the whole code
// point space.
func complementRanges(ranges []*SymbolNode) []*SymbolNode {
	sorted := make([]*SymbolNode, len(ranges))
	copy(sorted, ranges)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].From < sorted[j].From
	})
	var comp []*SymbolNode
	next := rune(0)
	for _, r := range sorted {
		if r.From > next {
			comp = append(comp, NewRangeSymbolNode(next, r.From-1))
		}
		if r.To+1 > next {
			next = r.To + 1
		}
	}
	if next <= codePointMax {
		comp = append(comp, NewRangeSymbolNode(next, codePointMax))
	}
	return comp
}
