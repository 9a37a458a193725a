package grammar

import (
	"errors"
	"strings"
	"testing"

	verr "github.com/mollete/gratab/error"
	"github.com/mollete/gratab/grammar/symbol"
	spec "github.com/mollete/gratab/spec"
)

func buildGrammar(t *testing.T, src string) *Grammar {
	t.Helper()

	ast, err := spec.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	b := GrammarBuilder{
		AST:  ast,
		Name: "test",
	}
	gram, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	return gram
}

func buildGrammarError(t *testing.T, src string) verr.SpecErrors {
	t.Helper()

	ast, err := spec.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	b := GrammarBuilder{
		AST: ast,
	}
	_, err = b.Build()
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	errs, ok := err.(verr.SpecErrors)
	if !ok {
		t.Fatalf("unexpected error type: %T: %v", err, err)
	}
	return errs
}

func toTestSymbol(t *testing.T, gram *Grammar, text string) symbol.Symbol {
	t.Helper()

	sym, ok := gram.symbolTable.ToSymbol(text)
	if !ok {
		t.Fatalf("symbol not found: %v", text)
	}
	return sym
}

func toTestSymbols(t *testing.T, gram *Grammar, texts ...string) []symbol.Symbol {
	t.Helper()

	syms := make([]symbol.Symbol, len(texts))
	for i, text := range texts {
		syms[i] = toTestSymbol(t, gram, text)
	}
	return syms
}

func containsCause(errs verr.SpecErrors, cause error) bool {
	for _, e := range errs {
		if errors.Is(e, cause) {
			return true
		}
	}
	return false
}
