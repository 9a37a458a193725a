package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

type NodeType int

const (
	NodeTypeTerminal    NodeType = 1
	NodeTypeNonTerminal NodeType = 2
)

// Node is a node of a syntax tree.
type Node struct {
	Type     NodeType
	KindName string
	Text     string
	Row      int
	Col      int
	Children []*Node

	// synthetic marks a node a desugared group expression produced. Tree
	// builders splice the children of a synthetic node into its parent, so a
	// finished tree never contains one.
	synthetic bool
}

func (n *Node) MarshalJSON() ([]byte, error) {
	switch n.Type {
	case NodeTypeTerminal:
		return json.Marshal(struct {
			Type     NodeType `json:"type"`
			KindName string   `json:"kind_name"`
			Text     string   `json:"text"`
			Row      int      `json:"row"`
			Col      int      `json:"col"`
		}{
			Type:     n.Type,
			KindName: n.KindName,
			Text:     n.Text,
			Row:      n.Row,
			Col:      n.Col,
		})
	case NodeTypeNonTerminal:
		return json.Marshal(struct {
			Type     NodeType `json:"type"`
			KindName string   `json:"kind_name"`
			Children []*Node  `json:"children"`
		}{
			Type:     n.Type,
			KindName: n.KindName,
			Children: n.Children,
		})
	default:
		return nil, fmt.Errorf("invalid node type: %v", n.Type)
	}
}

// PrintTree prints a syntax tree whose root is `node`.
func PrintTree(w io.Writer, node *Node) {
	printTree(w, node, "", "")
}

func printTree(w io.Writer, node *Node, ruledLine string, childRuledLinePrefix string) {
	if node == nil {
		return
	}

	switch node.Type {
	case NodeTypeTerminal:
		fmt.Fprintf(w, "%v%v %v\n", ruledLine, node.KindName, strconv.Quote(node.Text))
	case NodeTypeNonTerminal:
		fmt.Fprintf(w, "%v%v\n", ruledLine, node.KindName)

		num := len(node.Children)
		for i, child := range node.Children {
			var line string
			if num > 1 && i < num-1 {
				line = "├─ "
			} else {
				line = "└─ "
			}

			var prefix string
			if i >= num-1 {
				prefix = "   "
			} else {
				prefix = "│  "
			}

			printTree(w, child, childRuledLinePrefix+line, childRuledLinePrefix+prefix)
		}
	}
}

var _ SemanticActionSet = &SyntaxTreeActionSet{}

// SyntaxTreeActionSet is an implementation of SemanticActionSet that
// constructs a syntax tree. Nodes of synthetic non-terminals are spliced into
// their parents, so the tree follows the productions as the user wrote them.
type SyntaxTreeActionSet struct {
	gram     Grammar
	semStack *semanticStack
	tree     *Node
}

func NewSyntaxTreeActionSet(gram Grammar) *SyntaxTreeActionSet {
	return &SyntaxTreeActionSet{
		gram:     gram,
		semStack: newSemanticStack(),
	}
}

// Shift is an implementation of SemanticActionSet.Shift method.
func (a *SyntaxTreeActionSet) Shift(tok VToken) {
	term := tok.TerminalID()
	row, col := tok.Position()
	a.semStack.push(&Node{
		Type:     NodeTypeTerminal,
		KindName: a.gram.Terminal(term),
		Text:     string(tok.Lexeme()),
		Row:      row,
		Col:      col,
	})
}

// Reduce is an implementation of SemanticActionSet.Reduce method.
func (a *SyntaxTreeActionSet) Reduce(prodNum int) {
	lhs := a.gram.LHS(prodNum)

	// When an alternative is empty, `n` will be 0, and `handle` will be empty slice.
	n := len(a.gram.AlternativeSymbols(prodNum))
	handle := a.semStack.pop(n)

	node := &Node{
		Type:     NodeTypeNonTerminal,
		Children: spliceSynthetic(handle),
	}
	if owner := a.gram.SyntheticOwner(lhs); owner != 0 {
		node.KindName = a.gram.NonTerminal(owner)
		node.synthetic = true
	} else {
		node.KindName = a.gram.NonTerminal(lhs)
	}

	a.semStack.push(node)
}

// Accept is an implementation of SemanticActionSet.Accept method.
func (a *SyntaxTreeActionSet) Accept() {
	top := a.semStack.pop(1)
	a.tree = top[0]
}

// MissError is an implementation of SemanticActionSet.MissError method.
func (a *SyntaxTreeActionSet) MissError(cause VToken) {
}

// Tree returns a syntax tree when the parser has accepted an input. If a syntax error occurs, the return value is nil.
func (a *SyntaxTreeActionSet) Tree() *Node {
	return a.tree
}

// spliceSynthetic flattens synthetic nodes into the child list. Splicing is
// shallow because every synthetic node was itself built with spliced
// children.
func spliceSynthetic(handle []*Node) []*Node {
	l := 0
	for _, n := range handle {
		if n.synthetic {
			l += len(n.Children)
		} else {
			l++
		}
	}
	children := make([]*Node, 0, l)
	for _, n := range handle {
		if n.synthetic {
			children = append(children, n.Children...)
			continue
		}
		children = append(children, n)
	}
	return children
}

type semanticStack struct {
	frames []*Node
}

func newSemanticStack() *semanticStack {
	return &semanticStack{
		frames: make([]*Node, 0, 100),
	}
}

func (s *semanticStack) push(f *Node) {
	s.frames = append(s.frames, f)
}

func (s *semanticStack) pop(n int) []*Node {
	fs := s.frames[len(s.frames)-n:]
	s.frames = s.frames[:len(s.frames)-n]

	return fs
}

var _ LLSemanticActionSet = &LLSyntaxTreeActionSet{}

// LLSyntaxTreeActionSet is an implementation of LLSemanticActionSet that
// constructs a syntax tree from the enter/exit/token event sequence.
type LLSyntaxTreeActionSet struct {
	stack []*Node
	tree  *Node
}

func NewLLSyntaxTreeActionSet() *LLSyntaxTreeActionSet {
	return &LLSyntaxTreeActionSet{}
}

// Enter is an implementation of LLSemanticActionSet.Enter method.
func (a *LLSyntaxTreeActionSet) Enter(nonTerminal string, synthetic bool) {
	a.stack = append(a.stack, &Node{
		Type:      NodeTypeNonTerminal,
		KindName:  nonTerminal,
		synthetic: synthetic,
	})
}

// Exit is an implementation of LLSemanticActionSet.Exit method.
func (a *LLSyntaxTreeActionSet) Exit(nonTerminal string, synthetic bool) {
	n := a.stack[len(a.stack)-1]
	a.stack = a.stack[:len(a.stack)-1]
	if len(a.stack) == 0 {
		a.tree = n
		return
	}
	parent := a.stack[len(a.stack)-1]
	if n.synthetic {
		parent.Children = append(parent.Children, n.Children...)
		return
	}
	parent.Children = append(parent.Children, n)
}

// Token is an implementation of LLSemanticActionSet.Token method.
func (a *LLSyntaxTreeActionSet) Token(tok VToken) {
	row, col := tok.Position()
	node := &Node{
		Type:     NodeTypeTerminal,
		KindName: tok.KindName(),
		Text:     string(tok.Lexeme()),
		Row:      row,
		Col:      col,
	}
	top := a.stack[len(a.stack)-1]
	top.Children = append(top.Children, node)
}

// Accept is an implementation of LLSemanticActionSet.Accept method.
func (a *LLSyntaxTreeActionSet) Accept() {
}

// MissError is an implementation of LLSemanticActionSet.MissError method.
func (a *LLSyntaxTreeActionSet) MissError(cause VToken) {
	a.tree = nil
}

// Tree returns a syntax tree when the parser has accepted an input. If a syntax error occurs, the return value is nil.
func (a *LLSyntaxTreeActionSet) Tree() *Node {
	return a.tree
}
