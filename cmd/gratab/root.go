package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gratab",
	Short: "Generate lexing and parsing tables from a grammar",
	Long: `gratab compiles a grammar into deterministic tables:
- a total DFA driving a maximal-munch lexer, and
- an LL(1) predictive table, or LALR(1) action/goto tables when the grammar
  is not LL(1).
The compiled tables drive the built-in table-based lexer and parsers.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute() error {
	return rootCmd.Execute()
}
