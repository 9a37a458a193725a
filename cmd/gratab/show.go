package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mollete/gratab/spec"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "show",
		Short:   "Print a report in a readable format",
		Example: `  gratab show grammar-report.json`,
		Args:    cobra.ExactArgs(1),
		RunE:    runShow,
	}
	rootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	report, err := readReport(args[0])
	if err != nil {
		return err
	}
	return writeReport(report)
}

func readReport(path string) (*spec.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Cannot open the report %s: %w", path, err)
	}
	defer f.Close()

	d, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	report := &spec.Report{}
	err = json.Unmarshal(d, report)
	if err != nil {
		return nil, err
	}

	return report, nil
}

func writeReport(report *spec.Report) error {
	termName := func(sym int) string {
		return report.Terminals[sym].Name
	}
	nonTermName := func(sym int) string {
		return report.NonTerminals[sym].Name
	}
	prodText := func(prod *spec.Production) string {
		var b strings.Builder
		fmt.Fprintf(&b, "%v →", nonTermName(prod.LHS))
		if len(prod.RHS) == 0 {
			fmt.Fprintf(&b, " ε")
		}
		for _, e := range prod.RHS {
			if e > 0 {
				fmt.Fprintf(&b, " %v", termName(e))
			} else {
				fmt.Fprintf(&b, " %v", nonTermName(e*-1))
			}
		}
		return b.String()
	}

	pterm.Info.Println(fmt.Sprintf("%v: %v table", report.Name, report.TableKind))
	for _, note := range report.Notes {
		pterm.Info.Println("note: " + note)
	}

	{
		ll := pterm.LeveledList{{Level: 0, Text: "Terminals"}}
		for _, term := range report.Terminals {
			if term == nil {
				continue
			}
			text := fmt.Sprintf("%v %v", term.Number, term.Name)
			if term.Pattern != "" {
				text = fmt.Sprintf("%v (%v)", text, term.Pattern)
			}
			ll = append(ll, pterm.LeveledListItem{Level: 1, Text: text})
		}
		err := pterm.DefaultTree.WithRoot(pterm.NewTreeFromLeveledList(ll)).Render()
		if err != nil {
			return err
		}
	}

	{
		ll := pterm.LeveledList{{Level: 0, Text: "Non-terminals"}}
		for _, nt := range report.NonTerminals {
			if nt == nil {
				continue
			}
			text := fmt.Sprintf("%v %v", nt.Number, nt.Name)
			if nt.Synthetic {
				text += " (synthetic)"
			}
			ll = append(ll, pterm.LeveledListItem{Level: 1, Text: text})
		}
		err := pterm.DefaultTree.WithRoot(pterm.NewTreeFromLeveledList(ll)).Render()
		if err != nil {
			return err
		}
	}

	{
		ll := pterm.LeveledList{{Level: 0, Text: "Productions"}}
		for _, prod := range report.Productions {
			if prod == nil {
				continue
			}
			ll = append(ll, pterm.LeveledListItem{
				Level: 1,
				Text:  fmt.Sprintf("#%v %v", prod.Number, prodText(prod)),
			})
		}
		err := pterm.DefaultTree.WithRoot(pterm.NewTreeFromLeveledList(ll)).Render()
		if err != nil {
			return err
		}
	}

	if len(report.LLEntries) > 0 {
		ll := pterm.LeveledList{{Level: 0, Text: "LL(1) table"}}
		for _, e := range report.LLEntries {
			ll = append(ll, pterm.LeveledListItem{
				Level: 1,
				Text:  fmt.Sprintf("%v on %v: #%v", nonTermName(e.NonTerminal), termName(e.LookAhead), e.Production),
			})
		}
		err := pterm.DefaultTree.WithRoot(pterm.NewTreeFromLeveledList(ll)).Render()
		if err != nil {
			return err
		}
	}

	if len(report.States) > 0 {
		ll := pterm.LeveledList{{Level: 0, Text: "States"}}
		for _, s := range report.States {
			ll = append(ll, pterm.LeveledListItem{Level: 1, Text: fmt.Sprintf("State %v", s.Number)})
			for _, item := range s.Kernel {
				prod := report.Productions[item.Production]
				var b strings.Builder
				fmt.Fprintf(&b, "%v →", nonTermName(prod.LHS))
				for i, e := range prod.RHS {
					if i == item.Dot {
						fmt.Fprintf(&b, " ・")
					}
					if e > 0 {
						fmt.Fprintf(&b, " %v", termName(e))
					} else {
						fmt.Fprintf(&b, " %v", nonTermName(e*-1))
					}
				}
				if item.Dot >= len(prod.RHS) {
					fmt.Fprintf(&b, " ・")
				}
				ll = append(ll, pterm.LeveledListItem{Level: 2, Text: b.String()})
			}
			for _, tran := range s.Shift {
				ll = append(ll, pterm.LeveledListItem{
					Level: 2,
					Text:  fmt.Sprintf("shift %v on %v", tran.State, termName(tran.Symbol)),
				})
			}
			for _, reduce := range s.Reduce {
				las := make([]string, len(reduce.LookAhead))
				for i, la := range reduce.LookAhead {
					las[i] = termName(la)
				}
				ll = append(ll, pterm.LeveledListItem{
					Level: 2,
					Text:  fmt.Sprintf("reduce #%v on %v", reduce.Production, strings.Join(las, ", ")),
				})
			}
			for _, tran := range s.GoTo {
				ll = append(ll, pterm.LeveledListItem{
					Level: 2,
					Text:  fmt.Sprintf("goto %v on %v", tran.State, nonTermName(tran.Symbol)),
				})
			}
		}
		err := pterm.DefaultTree.WithRoot(pterm.NewTreeFromLeveledList(ll)).Render()
		if err != nil {
			return err
		}
	}

	return nil
}
