package spec

type Terminal struct {
	Number  int    `json:"number"`
	Name    string `json:"name"`
	Pattern string `json:"pattern,omitempty"`
}

type NonTerminal struct {
	Number    int    `json:"number"`
	Name      string `json:"name"`
	Synthetic bool   `json:"synthetic,omitempty"`
}

type Production struct {
	Number int   `json:"number"`
	LHS    int   `json:"lhs"`
	RHS    []int `json:"rhs"`
}

type Item struct {
	Production int `json:"production"`
	Dot        int `json:"dot"`
}

type Transition struct {
	Symbol int `json:"symbol"`
	State  int `json:"state"`
}

type Reduce struct {
	LookAhead  []int `json:"look_ahead"`
	Production int   `json:"production"`
}

type State struct {
	Number int           `json:"number"`
	Kernel []*Item       `json:"kernel"`
	Shift  []*Transition `json:"shift"`
	Reduce []*Reduce     `json:"reduce"`
	GoTo   []*Transition `json:"goto"`
}

type LLEntry struct {
	NonTerminal int `json:"non_terminal"`
	LookAhead   int `json:"look_ahead"`
	Production  int `json:"production"`
}

// Report is the human-oriented companion of a CompiledGrammar. Notes carry
// the reasons an LL(1) table could not be built when the compiler fell back
// to LALR(1).
type Report struct {
	Name         string         `json:"name"`
	TableKind    string         `json:"table_kind"`
	Notes        []string       `json:"notes,omitempty"`
	Terminals    []*Terminal    `json:"terminals"`
	NonTerminals []*NonTerminal `json:"non_terminals"`
	Productions  []*Production  `json:"productions"`
	LLEntries    []*LLEntry     `json:"ll_entries,omitempty"`
	States       []*State       `json:"states,omitempty"`
}
