package grammar

import (
	"testing"

	"github.com/mollete/gratab/grammar/symbol"
)

func genTestLL1Table(t *testing.T, gram *Grammar) (*llTable, []*llConflict) {
	t.Helper()

	fst, err := genFirstSet(gram.productionSet)
	if err != nil {
		t.Fatal(err)
	}
	flw, err := genFollowSet(gram.productionSet, fst)
	if err != nil {
		t.Fatal(err)
	}
	tab, conflicts, err := genLL1Table(gram.productionSet, fst, flw,
		gram.symbolTable.NonTerminalCount(), gram.symbolTable.TerminalCount())
	if err != nil {
		t.Fatal(err)
	}
	return tab, conflicts
}

func TestGenLL1Table(t *testing.T) {
	gram := buildGrammar(t, llExprGrammar)
	tab, conflicts := genTestLL1Table(t, gram)
	if len(conflicts) > 0 {
		t.Fatalf("unexpected conflicts: %v", conflicts)
	}

	findProd := func(lhsText string, rhsLen int) productionNum {
		lhs := toTestSymbol(t, gram, lhsText)
		prods, ok := gram.productionSet.findByLHS(lhs)
		if !ok {
			t.Fatalf("productions not found: %v", lhsText)
		}
		for _, prod := range prods {
			if prod.rhsLen == rhsLen {
				return prod.num
			}
		}
		t.Fatalf("production not found: %v with %v RHS symbols", lhsText, rhsLen)
		return productionNumNil
	}

	eSym := toTestSymbol(t, gram, "e")
	fSym := toTestSymbol(t, gram, "f")
	synSym := toTestSymbol(t, gram, "<e.1>")
	lpSym := toTestSymbol(t, gram, "lp")
	idSym := toTestSymbol(t, gram, "id")
	addSym := toTestSymbol(t, gram, "add")
	rpSym := toTestSymbol(t, gram, "rp")

	eProd := findProd("e", 2)
	synGrow := findProd("<e.1>", 3)
	synEmpty := findProd("<e.1>", 0)

	if got := tab.lookup(eSym, lpSym); got != eProd {
		t.Errorf("unexpected entry of M[e, lp]; want: %v, got: %v", eProd, got)
	}
	if got := tab.lookup(eSym, idSym); got != eProd {
		t.Errorf("unexpected entry of M[e, id]; want: %v, got: %v", eProd, got)
	}
	if got := tab.lookup(eSym, addSym); got != productionNumNil {
		t.Errorf("M[e, add] must be an error entry; got: %v", got)
	}
	if got := tab.lookup(synSym, addSym); got != synGrow {
		t.Errorf("unexpected entry of M[<e.1>, add]; want: %v, got: %v", synGrow, got)
	}
	if got := tab.lookup(synSym, rpSym); got != synEmpty {
		t.Errorf("unexpected entry of M[<e.1>, rp]; want: %v, got: %v", synEmpty, got)
	}
	if got := tab.lookup(synSym, symbol.SymbolEOF); got != synEmpty {
		t.Errorf("unexpected entry of M[<e.1>, eof]; want: %v, got: %v", synEmpty, got)
	}

	fID := findProd("f", 1)
	if got := tab.lookup(fSym, idSym); got != fID {
		t.Errorf("unexpected entry of M[f, id]; want: %v, got: %v", fID, got)
	}
}

func TestGenLL1TableConflict(t *testing.T) {
	src := `
token a = "a";
token b = "b";
token c = "c";
entry s;
prod s = a b | a c;
`
	gram := buildGrammar(t, src)
	tab, conflicts := genTestLL1Table(t, gram)
	if tab != nil {
		t.Fatal("a conflicting grammar must not yield a table")
	}
	if len(conflicts) != 1 {
		t.Fatalf("unexpected conflict count; want: 1, got: %v", len(conflicts))
	}
	c := conflicts[0]
	if c.nonTermSym != toTestSymbol(t, gram, "s") {
		t.Errorf("unexpected conflicting non-terminal; want: s, got: %v", c.nonTermSym)
	}
	if c.lookAhead != toTestSymbol(t, gram, "a") {
		t.Errorf("unexpected conflicting lookahead; want: a, got: %v", c.lookAhead)
	}
	if c.prod1 == c.prod2 {
		t.Error("a conflict must involve two distinct productions")
	}
}

func TestGenLL1TableNullableConflict(t *testing.T) {
	// FIRST(<s.1>) and FOLLOW(<s.1>) overlap on a, so the nullable group
	// cannot be predicted with one lookahead symbol.
	src := `
token a = "a";
entry s;
prod s = (a)? a;
`
	gram := buildGrammar(t, src)
	tab, conflicts := genTestLL1Table(t, gram)
	if tab != nil {
		t.Fatal("a conflicting grammar must not yield a table")
	}
	if len(conflicts) == 0 {
		t.Fatal("expected a conflict, got none")
	}
}
