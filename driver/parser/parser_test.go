package parser

import (
	"strings"
	"testing"

	"github.com/mollete/gratab/driver/lexer"
	"github.com/mollete/gratab/grammar"
	spec "github.com/mollete/gratab/spec"
	"github.com/stretchr/testify/require"
)

func compileGrammarSrc(t *testing.T, src string) *spec.CompiledGrammar {
	t.Helper()

	ast, err := spec.Parse(strings.NewReader(src))
	require.NoError(t, err)
	b := grammar.GrammarBuilder{
		AST:  ast,
		Name: "test",
	}
	gram, err := b.Build()
	require.NoError(t, err)
	cgram, _, err := grammar.Compile(gram)
	require.NoError(t, err)
	return cgram
}

const llTestGrammar = `
token num = /[0-9]+/;
token add = "+";
token ws = / +/;
entry expr;
prod expr = term (add term)*;
prod term = num;
`

const lrTestGrammar = `
token num = /[0-9]+/;
token add = "+";
entry expr;
prod expr = expr add num | num;
`

func TestLLParserTree(t *testing.T) {
	cgram := compileGrammarSrc(t, llTestGrammar)
	require.Equal(t, spec.TableKindLL1, cgram.Syntactic.TableKind)

	toks, err := NewTokenStream(cgram, strings.NewReader("1 + 2"))
	require.NoError(t, err)
	gram := NewGrammar(cgram)
	treeAct := NewLLSyntaxTreeActionSet()
	p, err := NewLLParser(gram, toks, LLSemanticAction(treeAct))
	require.NoError(t, err)
	require.NoError(t, p.Parse())
	require.Empty(t, p.SyntaxErrors())

	tree := treeAct.Tree()
	require.NotNil(t, tree)
	require.Equal(t, "expr", tree.KindName)

	// The synthetic non-terminal the group expression produced is spliced
	// away, so the root holds the whole derivation.
	require.Len(t, tree.Children, 3)

	term1 := tree.Children[0]
	require.Equal(t, "term", term1.KindName)
	require.Len(t, term1.Children, 1)
	require.Equal(t, "num", term1.Children[0].KindName)
	require.Equal(t, "1", term1.Children[0].Text)

	add := tree.Children[1]
	require.Equal(t, NodeTypeTerminal, add.Type)
	require.Equal(t, "add", add.KindName)
	require.Equal(t, "+", add.Text)

	term2 := tree.Children[2]
	require.Equal(t, "term", term2.KindName)
	require.Equal(t, "2", term2.Children[0].Text)
}

type llEvent struct {
	kind      string
	name      string
	synthetic bool
}

type llEventRecorder struct {
	events []llEvent
}

func (r *llEventRecorder) Enter(nonTerminal string, synthetic bool) {
	r.events = append(r.events, llEvent{kind: "enter", name: nonTerminal, synthetic: synthetic})
}

func (r *llEventRecorder) Exit(nonTerminal string, synthetic bool) {
	r.events = append(r.events, llEvent{kind: "exit", name: nonTerminal, synthetic: synthetic})
}

func (r *llEventRecorder) Token(tok VToken) {
	r.events = append(r.events, llEvent{kind: "token", name: tok.KindName()})
}

func (r *llEventRecorder) Accept() {
	r.events = append(r.events, llEvent{kind: "accept"})
}

func (r *llEventRecorder) MissError(cause VToken) {
	r.events = append(r.events, llEvent{kind: "error"})
}

func TestLLParserEvents(t *testing.T) {
	cgram := compileGrammarSrc(t, llTestGrammar)
	toks, err := NewTokenStream(cgram, strings.NewReader("1+2"))
	require.NoError(t, err)
	rec := &llEventRecorder{}
	p, err := NewLLParser(NewGrammar(cgram), toks, LLSemanticAction(rec))
	require.NoError(t, err)
	require.NoError(t, p.Parse())
	require.Empty(t, p.SyntaxErrors())

	// Synthetic non-terminals report under their owner's name with the
	// synthetic flag set. Enter and exit events are strictly balanced.
	want := []llEvent{
		{kind: "enter", name: "expr"},
		{kind: "enter", name: "term"},
		{kind: "token", name: "num"},
		{kind: "exit", name: "term"},
		{kind: "enter", name: "expr", synthetic: true},
		{kind: "token", name: "add"},
		{kind: "enter", name: "term"},
		{kind: "token", name: "num"},
		{kind: "exit", name: "term"},
		{kind: "enter", name: "expr", synthetic: true},
		{kind: "exit", name: "expr", synthetic: true},
		{kind: "exit", name: "expr", synthetic: true},
		{kind: "exit", name: "expr"},
		{kind: "accept"},
	}
	require.Equal(t, want, rec.events)
}

func TestLLParserSyntaxError(t *testing.T) {
	cgram := compileGrammarSrc(t, llTestGrammar)
	toks, err := NewTokenStream(cgram, strings.NewReader("1 +"))
	require.NoError(t, err)
	treeAct := NewLLSyntaxTreeActionSet()
	p, err := NewLLParser(NewGrammar(cgram), toks, LLSemanticAction(treeAct))
	require.NoError(t, err)
	require.NoError(t, p.Parse())

	synErrs := p.SyntaxErrors()
	require.Len(t, synErrs, 1)
	require.True(t, synErrs[0].Token.EOF())
	require.Contains(t, synErrs[0].ExpectedTerminals, "num")
	require.Nil(t, treeAct.Tree())
}

const arithGrammar = `
token PLUS = "+";
token MINUS = "-";
token ASTERISK = "*";
token SLASH = "/";
token LPAR = "(";
token RPAR = ")";
token NUMBER = /([1-9][0-9]*|0)/;
token WS = /[ \t\n\r]+/;
entry sum;
prod sum = factor ((PLUS | MINUS) factor)*;
prod factor = operand ((ASTERISK | SLASH) operand)*;
prod operand = (NUMBER | LPAR sum RPAR);
`

func TestLLParserArithmetic(t *testing.T) {
	cgram := compileGrammarSrc(t, arithGrammar)
	require.Equal(t, spec.TableKindLL1, cgram.Syntactic.TableKind)

	t.Run("token sequence", func(t *testing.T) {
		lex, err := lexer.NewLexer(lexer.NewLexSpec(cgram.Lexical), strings.NewReader("3 * 13 + 4 / 52 - 11 + 87"))
		require.NoError(t, err)

		want := []struct {
			kind   string
			lexeme string
		}{
			{"NUMBER", "3"}, {"WS", " "},
			{"ASTERISK", "*"}, {"WS", " "},
			{"NUMBER", "13"}, {"WS", " "},
			{"PLUS", "+"}, {"WS", " "},
			{"NUMBER", "4"}, {"WS", " "},
			{"SLASH", "/"}, {"WS", " "},
			{"NUMBER", "52"}, {"WS", " "},
			{"MINUS", "-"}, {"WS", " "},
			{"NUMBER", "11"}, {"WS", " "},
			{"PLUS", "+"}, {"WS", " "},
			{"NUMBER", "87"},
		}
		for _, w := range want {
			tok, err := lex.Next()
			require.NoError(t, err)
			require.False(t, tok.Invalid)
			require.Equal(t, w.kind, tok.KindName)
			require.Equal(t, w.lexeme, string(tok.Lexeme))
		}
		tok, err := lex.Next()
		require.NoError(t, err)
		require.True(t, tok.EOF)
	})

	t.Run("full input", func(t *testing.T) {
		toks, err := NewTokenStream(cgram, strings.NewReader("3 * 13 + 4 / 52 - 11 + 87"))
		require.NoError(t, err)
		rec := &llEventRecorder{}
		p, err := NewLLParser(NewGrammar(cgram), toks, LLSemanticAction(rec))
		require.NoError(t, err)
		require.NoError(t, p.Parse())
		require.Empty(t, p.SyntaxErrors())

		var tokens []string
		depth := 0
		for _, e := range rec.events {
			switch e.kind {
			case "enter":
				depth++
			case "exit":
				depth--
				require.GreaterOrEqual(t, depth, 0)
			case "token":
				tokens = append(tokens, e.name)
			}
		}
		require.Equal(t, 0, depth)
		require.Equal(t, "accept", rec.events[len(rec.events)-1].kind)

		// WS is unreferenced by any production, so the token stream skips it.
		wantTokens := []string{
			"NUMBER", "ASTERISK", "NUMBER", "PLUS", "NUMBER", "SLASH",
			"NUMBER", "MINUS", "NUMBER", "PLUS", "NUMBER",
		}
		require.Equal(t, wantTokens, tokens)
	})

	t.Run("derivation", func(t *testing.T) {
		toks, err := NewTokenStream(cgram, strings.NewReader("3 + 13"))
		require.NoError(t, err)
		rec := &llEventRecorder{}
		p, err := NewLLParser(NewGrammar(cgram), toks, LLSemanticAction(rec))
		require.NoError(t, err)
		require.NoError(t, p.Parse())
		require.Empty(t, p.SyntaxErrors())

		// With the events of the desugared group expressions dropped, the
		// trace shows the derivation over the user-defined symbols only.
		var got []llEvent
		for _, e := range rec.events {
			if e.synthetic {
				continue
			}
			got = append(got, e)
		}
		want := []llEvent{
			{kind: "enter", name: "sum"},
			{kind: "enter", name: "factor"},
			{kind: "enter", name: "operand"},
			{kind: "token", name: "NUMBER"},
			{kind: "exit", name: "operand"},
			{kind: "exit", name: "factor"},
			{kind: "token", name: "PLUS"},
			{kind: "enter", name: "factor"},
			{kind: "enter", name: "operand"},
			{kind: "token", name: "NUMBER"},
			{kind: "exit", name: "operand"},
			{kind: "exit", name: "factor"},
			{kind: "exit", name: "sum"},
			{kind: "accept"},
		}
		require.Equal(t, want, got)
	})

	t.Run("syntax error", func(t *testing.T) {
		toks, err := NewTokenStream(cgram, strings.NewReader("3 *"))
		require.NoError(t, err)
		treeAct := NewLLSyntaxTreeActionSet()
		p, err := NewLLParser(NewGrammar(cgram), toks, LLSemanticAction(treeAct))
		require.NoError(t, err)
		require.NoError(t, p.Parse())

		synErrs := p.SyntaxErrors()
		require.Len(t, synErrs, 1)
		require.True(t, synErrs[0].Token.EOF())
		require.Nil(t, treeAct.Tree())
	})
}

func TestLRParserTree(t *testing.T) {
	cgram := compileGrammarSrc(t, lrTestGrammar)
	require.Equal(t, spec.TableKindLALR1, cgram.Syntactic.TableKind)

	toks, err := NewTokenStream(cgram, strings.NewReader("1+2"))
	require.NoError(t, err)
	gram := NewGrammar(cgram)
	treeAct := NewSyntaxTreeActionSet(gram)
	p, err := NewLRParser(gram, toks, SemanticAction(treeAct))
	require.NoError(t, err)
	require.NoError(t, p.Parse())
	require.Empty(t, p.SyntaxErrors())

	tree := treeAct.Tree()
	require.NotNil(t, tree)
	require.Equal(t, "expr", tree.KindName)
	require.Len(t, tree.Children, 3)

	inner := tree.Children[0]
	require.Equal(t, "expr", inner.KindName)
	require.Len(t, inner.Children, 1)
	require.Equal(t, "1", inner.Children[0].Text)

	require.Equal(t, "add", tree.Children[1].KindName)
	require.Equal(t, "num", tree.Children[2].KindName)
	require.Equal(t, "2", tree.Children[2].Text)
}

func TestLRParserSyntaxError(t *testing.T) {
	cgram := compileGrammarSrc(t, lrTestGrammar)
	toks, err := NewTokenStream(cgram, strings.NewReader("1+"))
	require.NoError(t, err)
	gram := NewGrammar(cgram)
	treeAct := NewSyntaxTreeActionSet(gram)
	p, err := NewLRParser(gram, toks, SemanticAction(treeAct))
	require.NoError(t, err)
	require.NoError(t, p.Parse())

	synErrs := p.SyntaxErrors()
	require.Len(t, synErrs, 1)
	require.True(t, synErrs[0].Token.EOF())
	require.Contains(t, synErrs[0].ExpectedTerminals, "num")
	require.Nil(t, treeAct.Tree())
}
