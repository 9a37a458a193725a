package lexical

import (
	"fmt"
	"strings"

	"github.com/mollete/gratab/grammar/lexical/dfa"
	psr "github.com/mollete/gratab/grammar/lexical/parser"
	spec "github.com/mollete/gratab/spec"
)

var (
	// ErrNullablePattern marks a pattern that can match the empty string.
	// Such a token would stall maximal-munch scanning.
	ErrNullablePattern = fmt.Errorf("a pattern must not match the empty string")

	// ErrUnreachablePattern marks a token that can never win an accepting
	// state because earlier-declared tokens cover its whole language.
	ErrUnreachablePattern = fmt.Errorf("a token is unmatchable; earlier-declared tokens always take precedence")
)

type CompileError struct {
	Kind   string
	Cause  error
	Detail string
	Row    int
	Col    int
}

func (e *CompileError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%v: %v", e.Kind, e.Cause)
	}
	return fmt.Sprintf("%v: %v: %v", e.Kind, e.Cause, e.Detail)
}

func (e *CompileError) Unwrap() error {
	return e.Cause
}

type CompileErrors []*CompileError

func (e CompileErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}

// CompiledLexSpec is a total, deterministic scanner table for the union of
// all token patterns of a LexSpec.
type CompiledLexSpec struct {
	KindNames []string
	Ranges    []spec.CharRange
	DFA       *dfa.TransitionTable
}

// Compile builds the combined DFA of a lexical specification. It returns
// either a complete table or the full list of pattern diagnostics, never a
// partial table.
func Compile(lexspec *LexSpec) (*CompiledLexSpec, error) {
	var errs CompileErrors

	trees := make([]psr.PatternNode, 0, len(lexspec.Entries))
	for _, e := range lexspec.Entries {
		var tree psr.PatternNode
		if e.Literal {
			tree = psr.ParseLiteral(e.Pattern)
		} else {
			var err error
			tree, err = psr.Parse(e.Pattern)
			if err != nil {
				perr, ok := err.(*psr.PatternError)
				if !ok {
					return nil, err
				}
				errs = append(errs, &CompileError{
					Kind:   e.Kind,
					Cause:  perr.Cause,
					Detail: perr.Detail,
					Row:    e.Row,
					Col:    e.Col,
				})
				continue
			}
		}
		if tree == nil || psr.Nullable(tree) {
			errs = append(errs, &CompileError{
				Kind:  e.Kind,
				Cause: ErrNullablePattern,
				Row:   e.Row,
				Col:   e.Col,
			})
			continue
		}
		trees = append(trees, tree)
	}
	if len(errs) > 0 {
		return nil, errs
	}

	alphabet := dfa.GenAlphabet(trees)
	nfa := dfa.GenNFA(alphabet, trees)
	d := dfa.GenDFA(nfa, alphabet)
	tranTab := dfa.GenTransitionTable(d)

	// A token that never wins an accepting state is dead: every lexeme it
	// matches is claimed by an earlier token of at least equal length.
	winners := map[dfa.LexKindID]struct{}{}
	for _, id := range tranTab.AcceptingStates {
		if id != dfa.LexKindIDNil {
			winners[id] = struct{}{}
		}
	}
	for i, e := range lexspec.Entries {
		if _, ok := winners[dfa.LexKindID(i+1)]; !ok {
			errs = append(errs, &CompileError{
				Kind:  e.Kind,
				Cause: ErrUnreachablePattern,
				Row:   e.Row,
				Col:   e.Col,
			})
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	kindNames := make([]string, len(lexspec.Entries)+1)
	for i, e := range lexspec.Entries {
		kindNames[i+1] = e.Kind
	}

	return &CompiledLexSpec{
		KindNames: kindNames,
		Ranges:    alphabet.Ranges(),
		DFA:       tranTab,
	}, nil
}
