package rate

import "github.com/pkg/errors"

// Table sizing. Eight generations of at most 1024 rates bound the cache
// at a few hundred kilobytes while keeping recently seen environments
// resident; environments recur locally, so recent fingerprints dominate
// the hits.
const (
	NTables = 8
	MaxSize = 1024
)

// ErrNotStored is returned when retrieving a key the table does not
// hold.
var ErrNotStored = errors.New("rate key not stored")

// Table is a generational cache of computed rates keyed by environment
// fingerprint. Inserts fill the current generation; when it reaches
// MaxSize the ring advances and the incoming generation is emptied
// before reuse, evicting its previous contents en bloc. There is no
// per-entry bookkeeping.
type Table struct {
	tables  []map[uint64]float64
	current int
}

// NewTable returns an empty table.
func NewTable() *Table {
	t := &Table{tables: make([]map[uint64]float64, NTables)}
	for i := range t.tables {
		t.tables[i] = make(map[uint64]float64)
	}
	return t
}

// Stored returns the index of the generation holding key, or -1. The
// generations are scanned in index order, so a key duplicated across a
// generation boundary resolves to the lowest-indexed copy.
func (t *Table) Stored(key uint64) int {
	for i := range t.tables {
		if _, ok := t.tables[i][key]; ok {
			return i
		}
	}
	return -1
}

// Store writes the rate into the current generation, overwriting any
// value the same generation already holds for the key, and rotates the
// ring when the generation is full.
func (t *Table) Store(key uint64, value float64) {
	t.tables[t.current][key] = value

	if len(t.tables[t.current]) >= MaxSize {
		t.current = (t.current + 1) % NTables
		t.tables[t.current] = make(map[uint64]float64, MaxSize)
	}
}

// Retrieve returns the cached rate for key, or ErrNotStored.
func (t *Table) Retrieve(key uint64) (float64, error) {
	for i := range t.tables {
		if v, ok := t.tables[i][key]; ok {
			return v, nil
		}
	}
	return 0, errors.Wrapf(ErrNotStored, "key %#x", key)
}
