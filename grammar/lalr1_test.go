package grammar

import (
	"testing"

	"github.com/mollete/gratab/grammar/symbol"
)

const lrExprGrammar = `
token id = /[a-z]+/;
token add = "+";
token mul = "*";
token lp = "(";
token rp = ")";
entry e;
prod e = e add t | t;
prod t = t mul f | f;
prod f = lp e rp | id;
`

func genTestLALR1Table(t *testing.T, gram *Grammar) (*ParsingTable, []conflict) {
	t.Helper()

	fst, err := genFirstSet(gram.productionSet)
	if err != nil {
		t.Fatal(err)
	}
	lr0, err := genLR0Automaton(gram.productionSet, gram.augmentedStartSymbol)
	if err != nil {
		t.Fatal(err)
	}
	lalr, err := genLALR1Automaton(lr0, gram.productionSet, fst)
	if err != nil {
		t.Fatal(err)
	}
	b := &lrTableBuilder{
		automaton:    lalr.lr0Automaton,
		prods:        gram.productionSet,
		termCount:    gram.symbolTable.TerminalCount(),
		nonTermCount: gram.symbolTable.NonTerminalCount(),
	}
	ptab, err := b.build()
	if err != nil {
		t.Fatal(err)
	}
	return ptab, b.conflicts
}

// simulateLR drives a parsing table over a terminal sequence the same way the
// runtime parser does and reports whether the input is accepted.
func simulateLR(t *testing.T, gram *Grammar, ptab *ParsingTable, termTexts []string) bool {
	t.Helper()

	input := make([]symbol.Symbol, 0, len(termTexts)+1)
	for _, text := range termTexts {
		input = append(input, toTestSymbol(t, gram, text))
	}
	input = append(input, symbol.SymbolEOF)

	stack := []stateNum{ptab.InitialState}
	idx := 0
	for {
		top := stack[len(stack)-1]
		act, next, prodNum := ptab.getAction(top, input[idx].Num())
		switch act {
		case ActionTypeShift:
			stack = append(stack, next)
			idx++
		case ActionTypeReduce:
			if prodNum == productionNumStart {
				return true
			}
			prod, ok := gram.productionSet.findByNum(prodNum)
			if !ok {
				t.Fatalf("production not found: %v", prodNum)
			}
			stack = stack[:len(stack)-prod.rhsLen]
			ty, gotoNext := ptab.getGoTo(stack[len(stack)-1], prod.lhs.Num())
			if ty != GoToTypeRegistered {
				t.Fatalf("goto entry not found; state: %v, symbol: %v", stack[len(stack)-1], prod.lhs)
			}
			stack = append(stack, gotoNext)
		default:
			return false
		}
	}
}

func TestGenLR0Automaton(t *testing.T) {
	gram := buildGrammar(t, lrExprGrammar)
	automaton, err := genLR0Automaton(gram.productionSet, gram.augmentedStartSymbol)
	if err != nil {
		t.Fatal(err)
	}

	// The canonical LR(0) collection of this expression grammar has 12 states.
	if len(automaton.states) != 12 {
		t.Fatalf("unexpected state count; want: 12, got: %v", len(automaton.states))
	}

	initial, ok := automaton.states[automaton.initialState]
	if !ok {
		t.Fatal("the initial state is missing")
	}
	if initial.num != stateNumInitial {
		t.Fatalf("the initial state must be numbered %v; got: %v", stateNumInitial, initial.num)
	}
	if len(initial.items) != 1 || !initial.items[0].initial {
		t.Fatal("the kernel of the initial state must be the initial item only")
	}

	nums := map[stateNum]struct{}{}
	for _, state := range automaton.states {
		if _, ok := nums[state.num]; ok {
			t.Fatalf("state number %v assigned twice", state.num)
		}
		nums[state.num] = struct{}{}
	}
}

func TestGenLALR1ParsingTable(t *testing.T) {
	gram := buildGrammar(t, lrExprGrammar)
	ptab, conflicts := genTestLALR1Table(t, gram)
	if len(conflicts) > 0 {
		t.Fatalf("unexpected conflicts: %v", conflicts)
	}
	if ptab.InitialState != stateNumInitial {
		t.Fatalf("unexpected initial state: %v", ptab.InitialState)
	}

	accepted := [][]string{
		{"id"},
		{"id", "add", "id"},
		{"id", "add", "id", "mul", "id"},
		{"lp", "id", "add", "id", "rp", "mul", "id"},
	}
	for _, input := range accepted {
		if !simulateLR(t, gram, ptab, input) {
			t.Errorf("input must be accepted: %v", input)
		}
	}

	rejected := [][]string{
		{},
		{"add"},
		{"id", "id"},
		{"id", "add"},
		{"lp", "id"},
		{"id", "rp"},
	}
	for _, input := range rejected {
		if simulateLR(t, gram, ptab, input) {
			t.Errorf("input must be rejected: %v", input)
		}
	}
}

func TestGenLALR1ParsingTableLookAheads(t *testing.T) {
	// FOLLOW(x) is {a, c}, but in the state reached by d alone only a may
	// follow x. A lookahead computation that falls back to FOLLOW would
	// report a conflict between shifting c and reducing x.
	src := `
token a = "a";
token b = "b";
token c = "c";
token d = "d";
entry s;
prod s = x a | b x c | d c | b d a;
prod x = d;
`
	gram := buildGrammar(t, src)
	ptab, conflicts := genTestLALR1Table(t, gram)
	if len(conflicts) > 0 {
		t.Fatalf("unexpected conflicts: %v", conflicts)
	}

	accepted := [][]string{
		{"d", "a"},
		{"b", "d", "c"},
		{"d", "c"},
		{"b", "d", "a"},
	}
	for _, input := range accepted {
		if !simulateLR(t, gram, ptab, input) {
			t.Errorf("input must be accepted: %v", input)
		}
	}

	rejected := [][]string{
		{"d"},
		{"b", "d"},
		{"b", "c"},
		{"a"},
	}
	for _, input := range rejected {
		if simulateLR(t, gram, ptab, input) {
			t.Errorf("input must be rejected: %v", input)
		}
	}
}

func TestGenLALR1ParsingTableEmptyProduction(t *testing.T) {
	src := `
token a = "a";
token b = "b";
entry s;
prod s = (a)? b;
`
	gram := buildGrammar(t, src)
	ptab, conflicts := genTestLALR1Table(t, gram)
	if len(conflicts) > 0 {
		t.Fatalf("unexpected conflicts: %v", conflicts)
	}

	if !simulateLR(t, gram, ptab, []string{"b"}) {
		t.Error("b must be accepted")
	}
	if !simulateLR(t, gram, ptab, []string{"a", "b"}) {
		t.Error("a b must be accepted")
	}
	if simulateLR(t, gram, ptab, []string{"a"}) {
		t.Error("a must be rejected")
	}
	if simulateLR(t, gram, ptab, []string{"b", "b"}) {
		t.Error("b b must be rejected")
	}
}

func TestGenLALR1ParsingTableConflicts(t *testing.T) {
	t.Run("shift/reduce", func(t *testing.T) {
		src := `
token a = "a";
entry e;
prod e = e e | a;
`
		gram := buildGrammar(t, src)
		_, conflicts := genTestLALR1Table(t, gram)
		found := false
		for _, c := range conflicts {
			if _, ok := c.(*shiftReduceConflict); ok {
				found = true
			}
		}
		if !found {
			t.Fatalf("expected a shift/reduce conflict; got: %v", conflicts)
		}
	})

	t.Run("reduce/reduce", func(t *testing.T) {
		src := `
token a = "a";
entry s;
prod s = x | y;
prod x = a;
prod y = a;
`
		gram := buildGrammar(t, src)
		_, conflicts := genTestLALR1Table(t, gram)
		found := false
		for _, c := range conflicts {
			if _, ok := c.(*reduceReduceConflict); ok {
				found = true
			}
		}
		if !found {
			t.Fatalf("expected a reduce/reduce conflict; got: %v", conflicts)
		}
	})
}
