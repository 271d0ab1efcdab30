// Package watch implements the WatchLists module: for each literal, the set
// of clauses currently watching it.
//
// Grounded on yass/internal/sat.Solver's Watch/Unwatch methods and its
// watcher struct, which already carries a cached "blocker" literal (there
// called guard) alongside the watched clause to let the propagator skip
// clauses that are already satisfied without touching their storage.
package watch

import (
	"github.com/rhartert/jamsat/internal/clause"
	"github.com/rhartert/jamsat/internal/literal"
)

// Entry is a clause attached to the watch list of some literal ¬ℓ, to be
// examined whenever ℓ becomes true.
type Entry struct {
	Clause  clause.Handle
	Blocker literal.Lit // the clause's other watched literal, cached
}

// Lists holds, for every literal, the watch entries registered against it.
type Lists struct {
	byLit [][]Entry
}

// New returns an empty Lists.
func New() *Lists {
	return &Lists{}
}

// Grow adds watch-list slots for a newly created variable (one per
// polarity).
func (w *Lists) Grow() {
	w.byLit = append(w.byLit, nil, nil)
}

// Watch registers clause c on the watch list of literal l, with blocker as
// the clause's other watched literal.
func (w *Lists) Watch(l literal.Lit, c clause.Handle, blocker literal.Lit) {
	w.byLit[l] = append(w.byLit[l], Entry{Clause: c, Blocker: blocker})
}

// Unwatch removes clause c from the watch list of literal l.
func (w *Lists) Unwatch(l literal.Lit, c clause.Handle) {
	entries := w.byLit[l]
	j := 0
	for i := range entries {
		if entries[i].Clause != c {
			entries[j] = entries[i]
			j++
		}
	}
	w.byLit[l] = entries[:j]
}

// Entries returns the watch list of literal l. The caller must not retain
// the slice past the next mutation of l's watch list.
func (w *Lists) Entries(l literal.Lit) []Entry {
	return w.byLit[l]
}

// Take removes and returns the entire watch list of l, leaving it empty.
// Used by the propagator to iterate the list while allowing entries to be
// re-appended (e.g. a still-watching clause) without double-processing
// them in the same pass.
func (w *Lists) Take(l literal.Lit) []Entry {
	cur := w.byLit[l]
	w.byLit[l] = nil
	return cur
}

// Append re-adds an entry to the watch list of l. Used by the propagator
// to keep a clause watching l after it has decided not to move the watch.
func (w *Lists) Append(l literal.Lit, e Entry) {
	w.byLit[l] = append(w.byLit[l], e)
}

// SetList replaces the watch list of l outright.
func (w *Lists) SetList(l literal.Lit, entries []Entry) {
	w.byLit[l] = entries
}

// Remap rewrites every clause handle held in every watch list through the
// given remap, as returned by clause.Store.Compact. Entries whose clause is
// absent from remap (i.e. was deleted) are dropped.
func (w *Lists) Remap(remap map[clause.Handle]clause.Handle) {
	for i, entries := range w.byLit {
		j := 0
		for _, e := range entries {
			if nh, ok := remap[e.Clause]; ok {
				e.Clause = nh
				entries[j] = e
				j++
			}
		}
		w.byLit[i] = entries[:j]
	}
}
