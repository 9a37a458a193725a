package lexical

// LexEntry is one token declaration. Entries keep their declaration order;
// an entry's position in a LexSpec determines its kind ID and thereby its
// match priority.
type LexEntry struct {
	Kind    string
	Pattern string
	Literal bool
	Row     int
	Col     int
}

type LexSpec struct {
	Entries []*LexEntry
}
