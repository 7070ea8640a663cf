package interval

import (
	store "github.com/biogo/store/interval"
)

// entry adapts a Span to the biogo interval interface. Overlap uses
// half-open indexing, so a query returns exactly the spans whose
// intersection with it has positive length.
type entry struct {
	span Span
}

func (e entry) Overlap(b store.IntRange) bool {
	return e.span.End > b.Start && e.span.Start < b.End
}

func (e entry) ID() uintptr { return uintptr(e.span.ID) }

func (e entry) Range() store.IntRange {
	return store.IntRange{Start: e.span.Start, End: e.span.End}
}

// Tree indexes a group of spans for overlap-candidate enumeration.
type Tree struct {
	t store.IntTree
}

// NewTree builds a tree over the given spans.
func NewTree(spans []Span) (*Tree, error) {
	t := &Tree{}
	for _, s := range spans {
		if err := t.t.Insert(entry{s}, false); err != nil {
			return nil, err
		}
	}
	t.t.AdjustRanges()
	return t, nil
}

// Candidates calls fn for every indexed span whose intersection with q has
// positive length. Enumeration order is unspecified.
func (t *Tree) Candidates(q Span, fn func(Span)) {
	for _, iv := range t.t.Get(entry{q}) {
		fn(iv.(entry).span)
	}
}
