// Package propagate implements the watched-literal Propagator (BCP):
// consuming the trail head, enforcing unit propagation, and reporting
// conflicts.
//
// Grounded on yass/internal/sat.Solver.Propagate and
// yass/sat.Clause.Propagate, reworked onto a positional invariant: watches
// always live at clause positions [0] and [1], and a literal's watch-list
// holds exactly the clauses that have that literal (not its negation) at a
// watched position. yass's prevPos scan position is not kept: the search
// for a replacement watch always starts at position 2.
package propagate

import (
	"github.com/rhartert/jamsat/internal/clause"
	"github.com/rhartert/jamsat/internal/literal"
	"github.com/rhartert/jamsat/internal/trail"
	"github.com/rhartert/jamsat/internal/watch"
)

// Run drains the trail's propagation queue, enforcing unit propagation via
// watched literals. It returns the conflicting clause and true if
// propagation reached a conflict; otherwise it returns (0, false) once the
// queue is empty.
func Run(tr *trail.Trail, wl *watch.Lists, st *clause.Store) (clause.Handle, bool) {
	for tr.Head() < tr.Len() {
		l := tr.At(tr.Head())
		tr.SetHead(tr.Head() + 1)

		// l just became true, so the watch-list of its negation holds
		// every clause that now needs re-examining.
		falsified := l.Negate()
		entries := wl.Take(falsified)

		for i := 0; i < len(entries); i++ {
			e := entries[i]

			// The clause is already satisfied by its other watch: no need
			// to touch its storage at all.
			if tr.Value(e.Blocker) == literal.True {
				wl.Append(falsified, e)
				continue
			}

			v := st.View(e.Clause)
			status, newWatch, newBlocker := propagateOne(tr, v, falsified)

			switch status {
			case statusMoved:
				wl.Watch(newWatch, e.Clause, newBlocker)
			case statusConflict:
				// Restore this entry and every entry not yet examined,
				// then report the conflict; the caller backtracks before
				// propagation resumes.
				wl.Append(falsified, e)
				for j := i + 1; j < len(entries); j++ {
					wl.Append(falsified, entries[j])
				}
				return e.Clause, true
			default: // statusUnit: keeps watching falsified.
				wl.Append(falsified, e)
			}
		}
	}
	return 0, false
}

type status int

const (
	statusUnit status = iota
	statusMoved
	statusConflict
)

// Watch registers a freshly built clause's two watched literals, which are
// always kept at positions [0] and [1]. Called once when a clause (original
// or learned) is added to the solver.
func Watch(wl *watch.Lists, v clause.View, h clause.Handle) {
	wl.Watch(v.Lit(0), h, v.Lit(1))
	wl.Watch(v.Lit(1), h, v.Lit(0))
}

// Unwatch removes a clause from both of its watched literals' lists. Called
// when a clause is deleted.
func Unwatch(wl *watch.Lists, v clause.View, h clause.Handle) {
	wl.Unwatch(v.Lit(0), h)
	wl.Unwatch(v.Lit(1), h)
}

// propagateOne applies one watched clause's reaction to watched (a literal
// of the clause, stored at position 0 or 1) having just become false. It
// implements three cases:
//
//  1. the clause's other watch is true: already satisfied (the caller has
//     already checked this via the cached blocker in the common case; this
//     is the authoritative check);
//  2. a non-false literal at a position >= 2 is found: the watch moves
//     there;
//  3. no replacement is found: the clause is unit (enqueue the other
//     watch) or, if the other watch is also false, conflicting.
func propagateOne(tr *trail.Trail, v clause.View, watched literal.Lit) (status, literal.Lit, literal.Lit) {
	// Normalize so that position 1 holds the falsified watch; position 0
	// then always holds the literal to potentially assert.
	if v.Lit(0) == watched {
		v.Swap(0, 1)
	}

	other := v.Lit(0)
	if tr.Value(other) == literal.True {
		return statusUnit, 0, 0
	}

	for i := 2; i < v.Size(); i++ {
		if tr.Value(v.Lit(i)) != literal.False {
			v.Swap(1, i)
			return statusMoved, v.Lit(1), other
		}
	}

	if tr.Value(other) == literal.False {
		return statusConflict, 0, 0
	}
	tr.Enqueue(other, v.Handle())
	return statusUnit, 0, 0
}
