package lexer

import (
	"sort"

	spec "github.com/mollete/gratab/spec"
)

type StateID int

func (id StateID) Int() int {
	return int(id)
}

type KindID int

func (id KindID) Int() int {
	return int(id)
}

type LexSpec interface {
	InitialState() StateID
	NextState(state StateID, c rune) (StateID, bool)
	Accept(state StateID) (KindID, bool)
	KindName(kind KindID) string
}

type lexSpec struct {
	spec *spec.LexicalSpec
}

func NewLexSpec(spec *spec.LexicalSpec) *lexSpec {
	return &lexSpec{
		spec: spec,
	}
}

func (s *lexSpec) InitialState() StateID {
	return StateID(s.spec.InitialStateID)
}

func (s *lexSpec) NextState(state StateID, c rune) (StateID, bool) {
	class, ok := s.classOf(c)
	if !ok {
		return 0, false
	}
	// State 0 is the reject state.
	next := s.spec.Transition[state.Int()*s.spec.ClassCount+class]
	if next == 0 {
		return 0, false
	}
	return StateID(next), true
}

func (s *lexSpec) Accept(state StateID) (KindID, bool) {
	kind := s.spec.AcceptingStates[state]
	return KindID(kind), kind != 0
}

func (s *lexSpec) KindName(kind KindID) string {
	return s.spec.KindNames[kind]
}

// classOf maps a code point to its alphabet class. The ranges of a lexical
// specification are sorted and non-overlapping, so the class is the index of
// the containing range.
func (s *lexSpec) classOf(c rune) (int, bool) {
	ranges := s.spec.Ranges
	i := sort.Search(len(ranges), func(i int) bool {
		return ranges[i].To >= c
	})
	if i >= len(ranges) || c < ranges[i].From {
		return 0, false
	}
	return i, true
}
