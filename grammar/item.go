package grammar

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sort"
	"strconv"

	"github.com/mollete/gratab/grammar/symbol"
)

type lrItemID [32]byte

func (id lrItemID) String() string {
	return fmt.Sprintf("%x", id.num())
}

func (id lrItemID) num() uint32 {
	return binary.LittleEndian.Uint32(id[:])
}

func genLRItemID(prod productionID, dot int) lrItemID {
	b := make([]byte, 0, len(prod)+8)
	b = append(b, prod[:]...)
	var d [8]byte
	binary.LittleEndian.PutUint64(d[:], uint64(dot))
	return sha256.Sum256(append(b, d[:]...))
}

// lookAheadSet holds the terminals on which an item may reduce. An item with
// the propagation flag additionally receives every lookahead its kernel item
// receives.
type lookAheadSet struct {
	symbols     map[symbol.Symbol]struct{}
	propagation bool
}

func (s *lookAheadSet) add(sym symbol.Symbol) bool {
	if _, ok := s.symbols[sym]; ok {
		return false
	}
	if s.symbols == nil {
		s.symbols = map[symbol.Symbol]struct{}{}
	}
	s.symbols[sym] = struct{}{}
	return true
}

func (s *lookAheadSet) merge(other *lookAheadSet) bool {
	changed := false
	for sym := range other.symbols {
		if s.add(sym) {
			changed = true
		}
	}
	return changed
}

// lrItem is a production with a dot position. dottedSymbol is the RHS symbol
// the dot precedes, or SymbolNil when the dot sits at the end of the RHS.
type lrItem struct {
	id           lrItemID
	prod         productionID
	dot          int
	dottedSymbol symbol.Symbol

	// initial marks the dot-at-start item of the augmented start production.
	initial bool

	// reducible means the dot reached the end of the RHS.
	reducible bool

	// Kernel items identify a state: the initial item and every item whose dot
	// has advanced at least once.
	kernel bool

	lookAhead lookAheadSet
}

func newLR0Item(prod *production, dot int) (*lrItem, error) {
	if prod == nil {
		return nil, fmt.Errorf("production must be non-nil")
	}
	if dot < 0 || dot > prod.rhsLen {
		return nil, fmt.Errorf("dot must be between 0 and %v", prod.rhsLen)
	}

	dotted := symbol.SymbolNil
	if dot < prod.rhsLen {
		dotted = prod.rhs[dot]
	}
	initial := prod.lhs.IsStart() && dot == 0

	return &lrItem{
		id:           genLRItemID(prod.id, dot),
		prod:         prod.id,
		dot:          dot,
		dottedSymbol: dotted,
		initial:      initial,
		reducible:    dot == prod.rhsLen,
		kernel:       initial || dot > 0,
	}, nil
}

// advanceDot returns the item with the dot moved past the dotted symbol.
func advanceDot(item *lrItem, prods *productionSet) (*lrItem, error) {
	prod, ok := prods.findByID(item.prod)
	if !ok {
		return nil, fmt.Errorf("production not found: %v", item.prod)
	}
	return newLR0Item(prod, item.dot+1)
}

type kernelID [32]byte

func (id kernelID) String() string {
	return fmt.Sprintf("%x", binary.LittleEndian.Uint32(id[:]))
}

type kernel struct {
	id    kernelID
	items []*lrItem
}

// newKernel deduplicates and sorts the items so that two kernels with the
// same item set always get the same ID.
func newKernel(items []*lrItem) (*kernel, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("a kernel needs at least one item")
	}

	uniq := map[lrItemID]*lrItem{}
	for _, item := range items {
		if !item.kernel {
			return nil, fmt.Errorf("not a kernel item: %v", item.id)
		}
		uniq[item.id] = item
	}
	sorted := make([]*lrItem, 0, len(uniq))
	for _, item := range uniq {
		sorted = append(sorted, item)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].id.num() < sorted[j].id.num()
	})

	h := sha256.New()
	for _, item := range sorted {
		h.Write(item.id[:])
	}
	var id kernelID
	copy(id[:], h.Sum(nil))

	return &kernel{
		id:    id,
		items: sorted,
	}, nil
}

type stateNum int

const stateNumInitial = stateNum(0)

func (n stateNum) Int() int {
	return int(n)
}

func (n stateNum) String() string {
	return strconv.Itoa(int(n))
}

// lrState is a state of the canonical collection: its kernel plus the goto
// targets and reduce candidates derived from the closure.
type lrState struct {
	*kernel
	num       stateNum
	next      map[symbol.Symbol]kernelID
	reducible map[productionID]struct{}

	// Items of empty productions never advance a dot, so they belong to no
	// kernel and would vanish with the rest of the closure. They are kept here
	// because the lookahead computation needs somewhere to put their symbols.
	emptyProdItems []*lrItem
}
