package dfa

import (
	"encoding/binary"
	"sort"
)

type StateID int

func (id StateID) Int() int {
	return int(id)
}

const (
	// StateIDNil is the reject state of a total DFA. All undefined
	// transitions lead here.
	StateIDNil = StateID(0)
	StateIDMin = StateID(1)
)

type nfaStateSet struct {
	states map[nfaStateID]struct{}
}

func newNFAStateSet() *nfaStateSet {
	return &nfaStateSet{
		states: map[nfaStateID]struct{}{},
	}
}

func (s *nfaStateSet) add(state nfaStateID) {
	s.states[state] = struct{}{}
}

func (s *nfaStateSet) contains(state nfaStateID) bool {
	_, ok := s.states[state]
	return ok
}

func (s *nfaStateSet) empty() bool {
	return len(s.states) == 0
}

func (s *nfaStateSet) set() []nfaStateID {
	states := make([]nfaStateID, 0, len(s.states))
	for state := range s.states {
		states = append(states, state)
	}
	sort.Slice(states, func(i, j int) bool {
		return states[i] < states[j]
	})
	return states
}

func (s *nfaStateSet) hash() string {
	if len(s.states) == 0 {
		return ""
	}
	sorted := s.set()
	buf := make([]byte, 0, len(sorted)*4)
	var b [4]byte
	for _, state := range sorted {
		binary.LittleEndian.PutUint32(b[:], uint32(state))
		buf = append(buf, b[:]...)
	}
	return string(buf)
}

// closure expands a state set along epsilon transitions in place.
func (n *NFA) closure(set *nfaStateSet) {
	stack := set.set()
	for len(stack) > 0 {
		state := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, next := range n.epsilons[state] {
			if set.contains(next) {
				continue
			}
			set.add(next)
			stack = append(stack, next)
		}
	}
}

type DFA struct {
	States               []string
	InitialState         string
	AcceptingStatesTable map[string]LexKindID
	TransitionTable      map[string][]string
	ClassCount           int
}

// GenDFA converts an NFA to a DFA by subset construction. Accepting states
// reachable by multiple tokens take the identity of the token with the lowest
// kind ID.
func GenDFA(nfa *NFA, alphabet *Alphabet) *DFA {
	classCount := alphabet.ClassCount()

	initialState := newNFAStateSet()
	initialState.add(nfa.initial)
	nfa.closure(initialState)
	initialStateHash := initialState.hash()

	stateMap := map[string]*nfaStateSet{
		initialStateHash: initialState,
	}
	tranTab := map[string][]string{}
	{
		unmarkedStates := map[string]*nfaStateSet{
			initialStateHash: initialState,
		}
		for len(unmarkedStates) > 0 {
			nextUnmarkedStates := map[string]*nfaStateSet{}
			for hash, state := range unmarkedStates {
				moves := make([]*nfaStateSet, classCount)
				for _, s := range state.set() {
					for class, targets := range nfa.trans[s] {
						if moves[class] == nil {
							moves[class] = newNFAStateSet()
						}
						for _, t := range targets {
							moves[class].add(t)
						}
					}
				}
				tabOfState := make([]string, classCount)
				for class, move := range moves {
					if move == nil || move.empty() {
						continue
					}
					nfa.closure(move)
					h := move.hash()
					if _, ok := stateMap[h]; !ok {
						stateMap[h] = move
						nextUnmarkedStates[h] = move
					}
					tabOfState[class] = h
				}
				tranTab[hash] = tabOfState
			}
			unmarkedStates = nextUnmarkedStates
		}
	}

	accTab := map[string]LexKindID{}
	{
		for h, s := range stateMap {
			for _, state := range s.set() {
				id := nfa.accepts[state]
				if id == LexKindIDNil {
					continue
				}
				priorID, ok := accTab[h]
				if !ok || id < priorID {
					accTab[h] = id
				}
			}
		}
	}

	var states []string
	{
		for s := range stateMap {
			states = append(states, s)
		}
		sort.Slice(states, func(i, j int) bool {
			return states[i] < states[j]
		})
		// The initial state must get the lowest state ID.
		for i, s := range states {
			if s == initialStateHash {
				states[0], states[i] = states[i], states[0]
				break
			}
		}
	}

	return &DFA{
		States:               states,
		InitialState:         initialStateHash,
		AcceptingStatesTable: accTab,
		TransitionTable:      tranTab,
		ClassCount:           classCount,
	}
}

type TransitionTable struct {
	InitialStateID  StateID
	RowCount        int
	ColCount        int
	Transition      []StateID
	AcceptingStates []LexKindID
}

// GenTransitionTable flattens a DFA into a row-major table. Row 0 is the
// reject state and stays all zero, keeping the automaton total.
func GenTransitionTable(dfa *DFA) *TransitionTable {
	stateHash2ID := map[string]StateID{}
	for i, s := range dfa.States {
		stateHash2ID[s] = StateID(i + StateIDMin.Int())
	}

	acc := make([]LexKindID, len(dfa.States)+1)
	for _, s := range dfa.States {
		id, ok := dfa.AcceptingStatesTable[s]
		if !ok {
			continue
		}
		acc[stateHash2ID[s]] = id
	}

	rowCount := len(dfa.States) + 1
	colCount := dfa.ClassCount
	tran := make([]StateID, rowCount*colCount)
	for s, tab := range dfa.TransitionTable {
		for class, to := range tab {
			if to == "" {
				continue
			}
			tran[stateHash2ID[s].Int()*colCount+class] = stateHash2ID[to]
		}
	}

	return &TransitionTable{
		InitialStateID:  stateHash2ID[dfa.InitialState],
		RowCount:        rowCount,
		ColCount:        colCount,
		Transition:      tran,
		AcceptingStates: acc,
	}
}
