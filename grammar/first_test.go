package grammar

import (
	"testing"
)

const llExprGrammar = `
token id = /[a-z]+/;
token add = "+";
token mul = "*";
token lp = "(";
token rp = ")";
entry e;
prod e = t (add t)*;
prod t = f (mul f)*;
prod f = lp e rp | id;
`

func TestGenFirstSet(t *testing.T) {
	tests := []struct {
		caption string
		src     string
		firsts  []struct {
			lhs     string
			symbols []string
			empty   bool
		}
	}{
		{
			caption: "an expression grammar",
			src:     llExprGrammar,
			firsts: []struct {
				lhs     string
				symbols []string
				empty   bool
			}{
				{lhs: "e'", symbols: []string{"lp", "id"}},
				{lhs: "e", symbols: []string{"lp", "id"}},
				{lhs: "t", symbols: []string{"lp", "id"}},
				{lhs: "f", symbols: []string{"lp", "id"}},
				{lhs: "<e.1>", symbols: []string{"add"}, empty: true},
				{lhs: "<t.1>", symbols: []string{"mul"}, empty: true},
			},
		},
		{
			caption: "a nullable non-terminal",
			src: `
token a = "a";
token b = "b";
entry s;
prod s = x b;
prod x = (a)?;
`,
			firsts: []struct {
				lhs     string
				symbols []string
				empty   bool
			}{
				{lhs: "s", symbols: []string{"a", "b"}},
				{lhs: "x", symbols: []string{"a"}, empty: true},
				{lhs: "<x.1>", symbols: []string{"a"}, empty: true},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			gram := buildGrammar(t, tt.src)
			fst, err := genFirstSet(gram.productionSet)
			if err != nil {
				t.Fatal(err)
			}
			for _, expected := range tt.firsts {
				lhsSym := toTestSymbol(t, gram, expected.lhs)
				e := fst.findBySymbol(lhsSym)
				if e == nil {
					t.Fatalf("FIRST entry not found: %v", expected.lhs)
				}
				if e.empty != expected.empty {
					t.Errorf("unexpected empty flag of FIRST(%v); want: %v, got: %v", expected.lhs, expected.empty, e.empty)
				}
				if len(e.symbols) != len(expected.symbols) {
					t.Fatalf("unexpected FIRST(%v); want: %v, got: %v", expected.lhs, expected.symbols, e.symbols)
				}
				for _, symText := range expected.symbols {
					sym := toTestSymbol(t, gram, symText)
					if _, ok := e.symbols[sym]; !ok {
						t.Errorf("FIRST(%v) must contain %v", expected.lhs, symText)
					}
				}
			}
		})
	}
}

func TestFirstSetFindSuffix(t *testing.T) {
	gram := buildGrammar(t, llExprGrammar)
	fst, err := genFirstSet(gram.productionSet)
	if err != nil {
		t.Fatal(err)
	}

	eSym := toTestSymbol(t, gram, "e")
	prods, ok := gram.productionSet.findByLHS(eSym)
	if !ok || len(prods) != 1 {
		t.Fatal("production of e not found")
	}
	prod := prods[0]

	// e → t <e.1>; the suffix starting after t is nullable and begins with add.
	e, err := fst.find(prod, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !e.empty {
		t.Error("the suffix after t must be nullable")
	}
	addSym := toTestSymbol(t, gram, "add")
	if _, ok := e.symbols[addSym]; !ok || len(e.symbols) != 1 {
		t.Errorf("unexpected FIRST of the suffix; want: {add}, got: %v", e.symbols)
	}

	// The empty suffix derives only the empty string.
	e, err = fst.find(prod, prod.rhsLen)
	if err != nil {
		t.Fatal(err)
	}
	if !e.empty || len(e.symbols) != 0 {
		t.Errorf("the empty suffix must contain only the empty string; got: %v", e.symbols)
	}
}
