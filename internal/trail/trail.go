// Package trail implements the Trail module: the ordered sequence of
// assigned literals partitioned into decision levels, together with
// per-variable assignment, reason, and level bookkeeping.
//
// Grounded on the trail-related methods of yass/internal/sat.Solver
// (enqueue, assume, cancel, cancelUntil, undoOne), lifted out of Solver
// into their own type.
package trail

import (
	"github.com/rhartert/jamsat/internal/clause"
	"github.com/rhartert/jamsat/internal/literal"
)

// NoReason marks a trail entry with no reason clause: a decision, an
// assumption, or a top-level unit fact.
const NoReason = clause.Handle(-1)

// Trail tracks the current partial assignment as an ordered log of literal
// assignments grouped by decision level.
type Trail struct {
	assigns []literal.TBool // indexed by raw literal, both polarities
	level   []int32         // indexed by variable
	reason  []clause.Handle // indexed by variable

	lits     []literal.Lit // the trail itself, in assignment order
	trailLim []int32       // trail index of each decision level's first entry
	head     int           // index of the first not-yet-propagated trail entry
}

// New returns an empty Trail.
func New() *Trail {
	return &Trail{}
}

// Grow adds bookkeeping slots for a newly created variable.
func (t *Trail) Grow() literal.Var {
	v := literal.Var(len(t.level))
	t.assigns = append(t.assigns, literal.Unknown, literal.Unknown)
	t.level = append(t.level, -1)
	t.reason = append(t.reason, NoReason)
	return v
}

// NumVars returns the number of variables known to the trail.
func (t *Trail) NumVars() int {
	return len(t.level)
}

// Len returns the number of assigned literals.
func (t *Trail) Len() int {
	return len(t.lits)
}

// At returns the i-th assigned literal, in assignment order.
func (t *Trail) At(i int) literal.Lit {
	return t.lits[i]
}

// Level returns the current decision level (0 = root).
func (t *Trail) Level() int {
	return len(t.trailLim)
}

// VarLevel returns the decision level at which v was assigned, or -1 if
// unassigned.
func (t *Trail) VarLevel(v literal.Var) int {
	return int(t.level[v])
}

// VarReason returns the reason clause for v's assignment, or NoReason.
func (t *Trail) VarReason(v literal.Var) clause.Handle {
	return t.reason[v]
}

// SetVarReason overwrites the reason clause recorded for v. (After a
// Compact, the learned-clause manager remaps reasons through RemapReasons.)
func (t *Trail) SetVarReason(v literal.Var, h clause.Handle) {
	t.reason[v] = h
}

// Value returns the current truth value of literal l.
func (t *Trail) Value(l literal.Lit) literal.TBool {
	return t.assigns[l]
}

// VarValue returns the current truth value of variable v, from its
// positive literal's perspective.
func (t *Trail) VarValue(v literal.Var) literal.TBool {
	return t.assigns[literal.Pos(v)]
}

// Head returns the index of the first trail entry not yet processed by
// propagation.
func (t *Trail) Head() int {
	return t.head
}

// SetHead sets the propagation head, e.g. to rewind it after a restart.
func (t *Trail) SetHead(h int) {
	t.head = h
}

// AdvanceHead moves the propagation head to the current end of the trail,
// used once a round of BCP has drained the queue.
func (t *Trail) AdvanceHead() {
	t.head = len(t.lits)
}

// Enqueue assigns l's variable so that l becomes true, recording the
// current decision level and reason, and appends it to the trail. The
// caller must ensure the variable is currently Unknown; enqueuing an
// already-assigned variable is a bug and panics.
func (t *Trail) Enqueue(l literal.Lit, reason clause.Handle) {
	v := l.Var()
	if t.assigns[literal.Pos(v)] != literal.Unknown {
		panic("trail: enqueue of already-assigned variable")
	}
	t.assigns[l] = literal.True
	t.assigns[l.Negate()] = literal.False
	t.level[v] = int32(t.Level())
	t.reason[v] = reason
	t.lits = append(t.lits, l)
}

// NewDecisionLevel opens a new decision level and returns its number.
func (t *Trail) NewDecisionLevel() int {
	t.trailLim = append(t.trailLim, int32(len(t.lits)))
	return t.Level()
}

// BacktrackTo undoes every trail entry with level > target. For each
// undone literal, onUndo is invoked with the variable and the sign it had
// (for phase saving) before its assignment is cleared. After the call the
// trail ends exactly at the target level's boundary and the propagation
// head is clamped to the new trail length.
func (t *Trail) BacktrackTo(target int, onUndo func(v literal.Var, wasTrue bool)) {
	for t.Level() > target {
		boundary := int(t.trailLim[len(t.trailLim)-1])
		for i := len(t.lits) - 1; i >= boundary; i-- {
			l := t.lits[i]
			v := l.Var()
			if onUndo != nil {
				onUndo(v, l.IsPositive())
			}
			t.assigns[l] = literal.Unknown
			t.assigns[l.Negate()] = literal.Unknown
			t.reason[v] = NoReason
			t.level[v] = -1
		}
		t.lits = t.lits[:boundary]
		t.trailLim = t.trailLim[:len(t.trailLim)-1]
	}
	if t.head > len(t.lits) {
		t.head = len(t.lits)
	}
}

// RemapReasons applies a handle remap (as returned by clause.Store.Compact)
// to every reason clause currently recorded on the trail.
func (t *Trail) RemapReasons(remap map[clause.Handle]clause.Handle) {
	for v, r := range t.reason {
		if r == NoReason {
			continue
		}
		if nh, ok := remap[r]; ok {
			t.reason[literal.Var(v)] = nh
		}
	}
}
