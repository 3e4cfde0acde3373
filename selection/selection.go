// Package selection builds and orders index subsets over a record
// source. A selection is an ordered list of source indices matching a
// predicate, plus a movable window over that list for walking groups
// of consecutive records in sorted data.
package selection

import (
	"errors"
	"fmt"

	"github.com/fvdb/fvdb/record"
	"github.com/fvdb/fvdb/vlog"
)

// ErrBadPredicate means a predicate doesn't compile, e.g. its
// pattern's regular expression is invalid or its range is inverted
var ErrBadPredicate = errors.New("bad predicate")

// Source is anything records can be selected from: a store, or
// another Index (whose visible window then acts as the source).
type Source interface {
	Size() int
	// At returns the record at index, nil if out of range
	At(index int) record.View
}

type predicateKind int

const (
	predAll predicateKind = iota
	predMatch
	predRange
	predWhere
)

// Predicate selects records. The zero value selects everything.
type Predicate struct {
	kind predicateKind
	pat  *record.Pattern
	lo   int
	hi   int
	crit record.Criteria
}

// All selects every record
func All() Predicate {
	return Predicate{}
}

// Match selects records where any field's first value matches pattern
func Match(pattern string) (Predicate, error) {
	p, err := record.Compile(pattern)
	if err != nil {
		return Predicate{}, fmt.Errorf("%w: %s", ErrBadPredicate, err)
	}
	return Predicate{kind: predMatch, pat: p}, nil
}

// Range selects records with index in [lo, hi], inclusive both ends
func Range(lo, hi int) (Predicate, error) {
	if lo > hi {
		return Predicate{}, fmt.Errorf("%w: range [%d, %d]", ErrBadPredicate, lo, hi)
	}
	return Predicate{kind: predRange, lo: lo, hi: hi}, nil
}

// Where selects records matching every field's pattern (AND)
func Where(criteria map[string]string) (Predicate, error) {
	c, err := record.CompileCriteria(criteria)
	if err != nil {
		return Predicate{}, fmt.Errorf("%w: %s", ErrBadPredicate, err)
	}
	return Predicate{kind: predWhere, crit: c}, nil
}

func (p Predicate) holds(index int, rec record.View) bool {
	switch p.kind {
	case predMatch:
		return rec != nil && rec.MatchesAny(p.pat)
	case predRange:
		return index >= p.lo && index <= p.hi
	case predWhere:
		return rec != nil && rec.Matches(p.crit)
	}
	return true
}

// Index is one selection: the matching source indices in source
// order, and a visible window (offset, length) into them. The window
// starts covering the whole selection; Slice narrows it, ClearSlice
// restores it. Re-ordering via Sort always applies to the whole
// selection, not the window.
type Index struct {
	src Source
	sel []int
	off int
	n   int

	log *vlog.Logger
}

// New builds a selection of src's records satisfying pred
func New(src Source, pred Predicate) (*Index, error) {
	x := &Index{src: src}
	if err := x.Select(pred); err != nil {
		return nil, err
	}
	return x, nil
}

// SetLogger injects a logger, nil silences
func (x *Index) SetLogger(l *vlog.Logger) {
	x.log = l
}

// Select rebuilds the selection by scanning source indices 0..size-1
// in order, and resets the window to the full selection
func (x *Index) Select(pred Predicate) error {
	x.sel = x.sel[:0]
	for i := 0; i < x.src.Size(); i++ {
		if pred.holds(i, x.src.At(i)) {
			x.sel = append(x.sel, i)
		}
	}
	x.off = 0
	x.n = len(x.sel)
	x.log.Verbosef("selection: %d of %d records\n", x.n, x.src.Size())
	return nil
}

// Size returns the length of the visible window
func (x *Index) Size() int {
	return x.n
}

// At returns the record at window position i, nil if out of range
func (x *Index) At(i int) record.View {
	if i < 0 || i >= x.n {
		return nil
	}
	return x.src.At(x.sel[x.off+i])
}

// Indices returns a copy of the window's underlying source indices
func (x *Index) Indices() []int {
	return append([]int{}, x.sel[x.off:x.off+x.n]...)
}

// Slice narrows the window to the single contiguous run of selection
// entries where pred holds. With fromStart the scan covers the whole
// selection from offset 0; otherwise it begins right after the end of
// the previous window, which lets repeated calls walk consecutive
// groups in sorted data. No match leaves an empty window at the end
// of the scanned range; a fully consumed selection stays consumed, it
// never wraps around.
func (x *Index) Slice(pred Predicate, fromStart bool) {
	start := x.off + x.n
	if fromStart {
		start = 0
	}
	i := start
	for ; i < len(x.sel); i++ {
		if pred.holds(x.sel[i], x.src.At(x.sel[i])) {
			break
		}
	}
	if i == len(x.sel) {
		x.off = len(x.sel)
		x.n = 0
		return
	}
	x.off = i
	for ; i < len(x.sel); i++ {
		if !pred.holds(x.sel[i], x.src.At(x.sel[i])) {
			break
		}
	}
	x.n = i - x.off
}

// ClearSlice restores the window to the full selection
func (x *Index) ClearSlice() {
	x.off = 0
	x.n = len(x.sel)
}

// Column collects field's first value from every record in the
// window, in window order. With unique, values already seen are
// skipped (first occurrence wins). Records without the field are
// skipped.
func (x *Index) Column(field string, unique bool) []string {
	var vals []string
	seen := map[string]bool{}
	for i := 0; i < x.n; i++ {
		rec := x.At(i)
		if rec == nil {
			continue
		}
		v, ok := rec.Get(field)
		if !ok {
			continue
		}
		if unique {
			if seen[v] {
				continue
			}
			seen[v] = true
		}
		vals = append(vals, v)
	}
	return vals
}
