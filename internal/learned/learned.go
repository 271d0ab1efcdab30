// Package learned implements the LearnedClauseManager module: tracking
// learned clauses, bumping and decaying their activity, and periodically
// reducing the database by deleting the least useful ones.
//
// Grounded on yass/internal/sat.Solver's clause-activity fields
// (clauseInc/clauseDecay, BumpClaActivity/DecayClaActivity) and its ReduceDB
// method, adapted onto the arena-backed clause.Store: deletion marks a
// clause rather than freeing it immediately, and a reduction pass finishes
// by calling Store.Compact and propagating the resulting remap to every
// other handle holder (trail reasons, watch lists).
package learned

import (
	"sort"

	"github.com/rhartert/jamsat/internal/clause"
	"github.com/rhartert/jamsat/internal/literal"
	"github.com/rhartert/jamsat/internal/propagate"
	"github.com/rhartert/jamsat/internal/trail"
	"github.com/rhartert/jamsat/internal/watch"
)

// claActivityRescaleThreshold bounds clause activities the same way yass's
// BumpClaActivity does, rescaling before overflow rather than clamping.
const claActivityRescaleThreshold = 1e20

// Manager owns the set of learned-clause handles and their activity
// bookkeeping. It does not own the clause storage itself.
type Manager struct {
	st *clause.Store

	handles []clause.Handle
	inc     float32
	decay   float32

	// growthFactor and nextLimit implement a growing reduction threshold,
	// mirroring yass's Search loop where numLearnts is allowed to grow by a
	// fixed factor after each reduction.
	nextLimit    int
	growthFactor float64
}

// Options configures a Manager. ClauseDecay mirrors yass's Options.ClauseDecay
// (default 0.999).
type Options struct {
	ClauseDecay  float32
	InitialLimit int
	GrowthFactor float64
}

// DefaultOptions mirrors yass's DefaultOptions for the clause-activity
// portion of Options.
func DefaultOptions() Options {
	return Options{
		ClauseDecay:  0.999,
		InitialLimit: 2000,
		GrowthFactor: 1.1,
	}
}

// New returns a Manager backed by st.
func New(st *clause.Store, opts Options) *Manager {
	return &Manager{
		st:           st,
		inc:          1,
		decay:        opts.ClauseDecay,
		nextLimit:    opts.InitialLimit,
		growthFactor: opts.GrowthFactor,
	}
}

// Track registers a freshly learned clause with the manager, giving it
// initial activity equal to the current increment (so it is not immediately
// the first clause eligible for removal).
func (m *Manager) Track(h clause.Handle) {
	m.st.View(h).SetActivity(float32(m.inc))
	m.handles = append(m.handles, h)
}

// Bump increases h's activity, rescaling every learned clause's activity (and
// the increment) if h's activity exceeds claActivityRescaleThreshold.
// Grounded on yass's BumpClaActivity.
func (m *Manager) Bump(h clause.Handle) {
	v := m.st.View(h)
	v.SetActivity(v.Activity() + float32(m.inc))
	if v.Activity() > claActivityRescaleThreshold {
		for _, h2 := range m.handles {
			v2 := m.st.View(h2)
			v2.SetActivity(v2.Activity() * 1e-20)
		}
		m.inc *= 1e-20
	}
}

// Decay grows the activity increment (divides it by the decay factor),
// making future bumps relatively more significant than past ones. Grounded
// on yass's DecayClaActivity.
func (m *Manager) Decay() {
	m.inc /= m.decay
}

// ShouldReduce reports whether the number of tracked learned clauses has
// reached the current threshold.
func (m *Manager) ShouldReduce() bool {
	return len(m.handles) >= m.nextLimit
}

// Reduce deletes roughly the worse half of the tracked learned clauses,
// protecting clauses that are a current propagation reason (locked) or that
// were learned with a low LBD (glue clauses), then
// compacts the backing store and propagates the resulting handle remap to
// the trail and watch lists. It returns the remap so the caller (solver)
// can also apply it to any other handle it holds, e.g. the current
// conflicting clause.
func (m *Manager) Reduce(tr *trail.Trail, wl *watch.Lists, glueLBD uint32) map[clause.Handle]clause.Handle {
	locked := func(h clause.Handle) bool {
		v := m.st.View(h)
		if v.Size() == 0 {
			return false
		}
		l0 := v.Lit(0)
		return tr.Value(l0) == literal.True && tr.VarReason(l0.Var()) == h
	}

	// Worse clauses sort first: higher LBD first, then lower activity first.
	sort.Slice(m.handles, func(i, j int) bool {
		vi, vj := m.st.View(m.handles[i]), m.st.View(m.handles[j])
		if vi.Lbd() != vj.Lbd() {
			return vi.Lbd() > vj.Lbd()
		}
		return vi.Activity() < vj.Activity()
	})

	half := len(m.handles) / 2
	kept := m.handles[:0]
	for i, h := range m.handles {
		v := m.st.View(h)
		keep := i >= half || locked(h) || v.Lbd() <= glueLBD || v.IsProtected()
		if keep {
			kept = append(kept, h)
			continue
		}
		propagate.Unwatch(wl, v, h)
		v.MarkDeleted()
	}
	m.handles = kept

	remap := m.st.Compact()
	tr.RemapReasons(remap)
	wl.Remap(remap)

	newHandles := make([]clause.Handle, 0, len(m.handles))
	for _, h := range m.handles {
		if nh, ok := remap[h]; ok {
			newHandles = append(newHandles, nh)
		}
	}
	m.handles = newHandles

	m.nextLimit = int(float64(m.nextLimit) * m.growthFactor)
	return remap
}

// Remap rewrites every tracked handle through remap without running a
// reduction pass. Used by the solver when some other component (e.g. a
// budget-triggered Compact unrelated to reduction) has already compacted
// the store.
func (m *Manager) Remap(remap map[clause.Handle]clause.Handle) {
	newHandles := make([]clause.Handle, 0, len(m.handles))
	for _, h := range m.handles {
		if nh, ok := remap[h]; ok {
			newHandles = append(newHandles, nh)
		}
	}
	m.handles = newHandles
}

// Len returns the number of currently tracked learned clauses.
func (m *Manager) Len() int {
	return len(m.handles)
}
