package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mollete/gratab/driver/parser"
	"github.com/mollete/gratab/spec"
	"github.com/spf13/cobra"
)

var parseFlags = struct {
	source *string
	json   *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "parse",
		Short:   "Parse a text stream",
		Example: `  cat src | gratab parse grammar.json`,
		Args:    cobra.ExactArgs(1),
		RunE:    runParse,
	}
	parseFlags.source = cmd.Flags().StringP("source", "s", "", "source file path (default stdin)")
	parseFlags.json = cmd.Flags().Bool("json", false, "enable JSON output")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	cgram, err := readCompiledGrammar(args[0])
	if err != nil {
		return fmt.Errorf("Cannot read a compiled grammar: %w", err)
	}

	var src io.Reader
	if *parseFlags.source != "" {
		f, err := os.Open(*parseFlags.source)
		if err != nil {
			return fmt.Errorf("Cannot open the source file %s: %w", *parseFlags.source, err)
		}
		defer f.Close()
		src = f
	} else {
		src = os.Stdin
	}

	toks, err := parser.NewTokenStream(cgram, src)
	if err != nil {
		return err
	}

	gram := parser.NewGrammar(cgram)

	var tree *parser.Node
	var synErrs []*parser.SyntaxError
	switch cgram.Syntactic.TableKind {
	case spec.TableKindLL1:
		treeAct := parser.NewLLSyntaxTreeActionSet()
		p, err := parser.NewLLParser(gram, toks, parser.LLSemanticAction(treeAct))
		if err != nil {
			return err
		}
		err = p.Parse()
		if err != nil {
			return err
		}
		tree = treeAct.Tree()
		synErrs = p.SyntaxErrors()
	case spec.TableKindLALR1:
		treeAct := parser.NewSyntaxTreeActionSet(gram)
		p, err := parser.NewLRParser(gram, toks, parser.SemanticAction(treeAct))
		if err != nil {
			return err
		}
		err = p.Parse()
		if err != nil {
			return err
		}
		tree = treeAct.Tree()
		synErrs = p.SyntaxErrors()
	default:
		return fmt.Errorf("unknown table kind: %v", cgram.Syntactic.TableKind)
	}

	for _, synErr := range synErrs {
		writeSyntaxError(os.Stderr, synErr)
	}

	if tree != nil {
		if *parseFlags.json {
			b, err := json.Marshal(tree)
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, string(b))
		} else {
			parser.PrintTree(os.Stdout, tree)
		}
	}

	if len(synErrs) > 0 {
		return fmt.Errorf("syntax error")
	}

	return nil
}

func readCompiledGrammar(path string) (*spec.CompiledGrammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	d, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	cgram := &spec.CompiledGrammar{}
	err = json.Unmarshal(d, cgram)
	if err != nil {
		return nil, err
	}

	return cgram, nil
}

func writeSyntaxError(w io.Writer, synErr *parser.SyntaxError) {
	fmt.Fprintf(w, "%v:%v: %v", synErr.Row+1, synErr.Col+1, synErr.Message)

	tok := synErr.Token
	switch {
	case tok.EOF():
		fmt.Fprintf(w, "; token: <eof>")
	case tok.Invalid():
		fmt.Fprintf(w, "; token: '%v' (<invalid>)", string(tok.Lexeme()))
	default:
		fmt.Fprintf(w, "; token: '%v' (%v)", string(tok.Lexeme()), tok.KindName())
	}

	if len(synErr.ExpectedTerminals) > 0 {
		fmt.Fprintf(w, "; expected: %v", synErr.ExpectedTerminals[0])
		for _, t := range synErr.ExpectedTerminals[1:] {
			fmt.Fprintf(w, ", %v", t)
		}
	}

	fmt.Fprintf(w, "\n")
}
