package spec

const (
	TableKindLL1   = "ll1"
	TableKindLALR1 = "lalr1"
)

type CompiledGrammar struct {
	Name      string         `json:"name"`
	Lexical   *LexicalSpec   `json:"lexical_specification"`
	Syntactic *SyntacticSpec `json:"syntactic_specification"`
}

// CharRange is an inclusive range of code points. The ranges of a lexical
// specification cover the whole code point space without overlapping, so the
// index of the range containing a code point is its alphabet class.
type CharRange struct {
	From rune `json:"from"`
	To   rune `json:"to"`
}

// LexicalSpec drives the runtime lexer. The transition table is row-major,
// indexed by state*ClassCount+class, and total: state 0 is the reject state
// and every undefined transition leads to it.
type LexicalSpec struct {
	Ranges          []CharRange `json:"ranges"`
	InitialStateID  int         `json:"initial_state_id"`
	StateCount      int         `json:"state_count"`
	ClassCount      int         `json:"class_count"`
	Transition      []int       `json:"transition"`
	AcceptingStates []int       `json:"accepting_states"`
	KindNames       []string    `json:"kind_names"`
	Skip            []int       `json:"skip"`
}

// SyntacticSpec drives the runtime parsers. RHS symbols are encoded as
// positive terminal numbers and negated non-terminal numbers.
type SyntacticSpec struct {
	TableKind          string   `json:"table_kind"`
	TerminalCount      int      `json:"terminal_count"`
	NonTerminalCount   int      `json:"non_terminal_count"`
	Terminals          []string `json:"terminals"`
	NonTerminals       []string `json:"non_terminals"`
	SyntheticOwners    []int    `json:"synthetic_owners"`
	KindToTerminal     []int    `json:"kind_to_terminal"`
	EOFSymbol          int      `json:"eof_symbol"`
	EntrySymbol        int      `json:"entry_symbol"`
	StartProduction    int      `json:"start_production"`
	LHSSymbols         []int    `json:"lhs_symbols"`
	AlternativeSymbols [][]int  `json:"alternative_symbols"`

	// LL(1)
	LLTable []int `json:"ll_table,omitempty"`

	// LALR(1)
	Action     []int `json:"action,omitempty"`
	GoTo       []int `json:"goto,omitempty"`
	StateCount int   `json:"state_count,omitempty"`
}
