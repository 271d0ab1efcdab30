// Package solver implements the SearchDriver module and owns every other
// component: ClauseStore, Trail, WatchLists, the propagator, conflict
// analyzer, learned-clause manager, decision heuristic, restart policy, and
// proof emitter.
//
// Grounded on yass/internal/sat.Solver, split back out into dedicated
// per-concern packages; Search/Solve below is a direct translation of
// yass's own Search/Solve loop onto those packages, extended with
// assumptions and deadline handling that yass itself does not implement.
package solver

import (
	"time"

	"github.com/rhartert/jamsat/internal/analyze"
	"github.com/rhartert/jamsat/internal/clause"
	"github.com/rhartert/jamsat/internal/heuristic"
	"github.com/rhartert/jamsat/internal/learned"
	"github.com/rhartert/jamsat/internal/literal"
	"github.com/rhartert/jamsat/internal/propagate"
	"github.com/rhartert/jamsat/internal/proof"
	"github.com/rhartert/jamsat/internal/restart"
	"github.com/rhartert/jamsat/internal/trail"
	"github.com/rhartert/jamsat/internal/watch"
)

// Status is the outcome of a Solve call.
type Status int

const (
	Indeterminate Status = iota
	Satisfiable
	Unsatisfiable
)

func (s Status) String() string {
	switch s {
	case Satisfiable:
		return "SATISFIABLE"
	case Unsatisfiable:
		return "UNSATISFIABLE"
	default:
		return "INDETERMINATE"
	}
}

// Options configures a Solver. Defaults mirror yass.DefaultOptions for the
// fields yass also has; GlueLBD, InitialLearntLimit, LearntGrowthFactor and
// RestartUnit have no yass equivalent and use common CDCL-solver defaults.
type Options struct {
	ClauseDecay        float32
	VariableDecay      float64
	PhaseSaving        bool
	InitialLearntLimit int
	LearntGrowthFactor float64
	GlueLBD            uint32
	RestartUnit        int
	ClauseWordBudget   int // 0 = unlimited
}

// DefaultOptions mirrors yass.DefaultOptions plus chosen defaults for the
// fields yass does not have.
func DefaultOptions() Options {
	return Options{
		ClauseDecay:        0.999,
		VariableDecay:      0.95,
		PhaseSaving:        true,
		InitialLearntLimit: 2000,
		LearntGrowthFactor: 1.1,
		GlueLBD:            2,
		RestartUnit:        100,
		ClauseWordBudget:   0,
	}
}

// Solver owns every core SAT-solving component and orchestrates the search.
type Solver struct {
	opts Options

	store   *clause.Store
	trail   *trail.Trail
	watches *watch.Lists
	seen    *analyze.Seen
	learnts *learned.Manager
	heur    *heuristic.VSIDS
	restart *restart.Policy
	proof   proof.Emitter

	constraints []clause.Handle

	unsat bool // a root-level conflict was derived: permanently UNSAT

	assumptions       []literal.Lit // staged by Assume, consumed by the next Solve
	liveAssumptions   []literal.Lit // the snapshot Solve is currently searching under
	isAssumptionVar   map[literal.Var]bool
	failedAssumptions []literal.Lit

	model []bool

	// TerminateFunc, if set, is polled between propagation rounds; a true
	// return aborts the current Solve with Indeterminate. Mirrors an
	// IPASIR-style setTerminate callback.
	TerminateFunc func() bool
	// LearnFunc, if set, is invoked with every learned clause of at most
	// LearnMaxLen literals, in DIMACS integer form. Mirrors an IPASIR-style
	// setLearn callback.
	LearnFunc   func(lits []int32)
	LearnMaxLen int

	Deadline time.Time // zero value means no deadline

	TotalConflicts int64
	TotalRestarts  int64
	TotalDecisions int64
}

// New returns an empty Solver.
func New(opts Options) *Solver {
	st := clause.NewStore(opts.ClauseWordBudget)
	return &Solver{
		opts:            opts,
		store:           st,
		trail:           trail.New(),
		watches:         watch.New(),
		seen:            &analyze.Seen{},
		learnts:         learned.New(st, learned.Options{ClauseDecay: opts.ClauseDecay, InitialLimit: opts.InitialLearntLimit, GrowthFactor: opts.LearntGrowthFactor}),
		heur:            heuristic.New(heuristic.Options{Decay: opts.VariableDecay, PhaseSaving: opts.PhaseSaving}),
		restart:         restart.NewPolicy(opts.RestartUnit),
		proof:           proof.Noop(),
		isAssumptionVar: map[literal.Var]bool{},
	}
}

// SetProofEmitter directs clause-addition and clause-deletion events to e.
// Pass proof.Noop() (the default) to disable proof output.
func (s *Solver) SetProofEmitter(e proof.Emitter) {
	s.proof = e
}

// NumVariables returns the number of variables created so far.
func (s *Solver) NumVariables() int {
	return s.trail.NumVars()
}

// growTo ensures variable v exists, creating every variable up to it.
func (s *Solver) growTo(v literal.Var) {
	for literal.Var(s.trail.NumVars()) <= v {
		s.growVar()
	}
}

func (s *Solver) growVar() literal.Var {
	v := s.trail.Grow()
	s.watches.Grow()
	s.seen.Grow()
	s.heur.AddVar(v, 0, true)
	return v
}

// AddClause adds an original (non-learned) clause. It may only be called at
// decision level 0: original clauses are added before search begins.
func (s *Solver) AddClause(lits []literal.Lit) error {
	if s.trail.Level() != 0 {
		return &Error{Kind: InvariantViolation, Message: "AddClause called above decision level 0"}
	}
	for _, l := range lits {
		s.growTo(l.Var())
	}

	out, tautology := clause.Preprocess(lits, s.trail.Value)
	if tautology {
		return nil
	}
	if s.proof != nil {
		s.proof.AddClause(out)
	}

	switch len(out) {
	case 0:
		s.unsat = true
		return nil
	case 1:
		switch s.trail.Value(out[0]) {
		case literal.False:
			s.unsat = true
		case literal.Unknown:
			s.trail.Enqueue(out[0], trail.NoReason)
		}
		return nil
	default:
		h, err := s.store.Add(out, false)
		if err != nil {
			remap := s.learnts.Reduce(s.trail, s.watches, s.opts.GlueLBD)
			s.applyRemap(remap)
			h, err = s.store.Add(out, false)
		}
		if err != nil {
			return &Error{Kind: LimitExceeded, Message: err.Error(), cause: err}
		}
		s.constraints = append(s.constraints, h)
		propagate.Watch(s.watches, s.store.View(h), h)
		return nil
	}
}

// Assume registers a single-shot assumption literal for the next call to
// Solve. Assumptions are cleared after every Solve call, whatever its
// outcome.
func (s *Solver) Assume(l literal.Lit) {
	s.growTo(l.Var())
	s.assumptions = append(s.assumptions, l)
}

// Val reports the truth of l under the most recent satisfying model:
// literal.True or literal.False, or literal.Unknown if no model is available
// or l's variable is not covered by it.
func (s *Solver) Val(l literal.Lit) literal.TBool {
	if s.model == nil || int(l.Var()) >= len(s.model) {
		return literal.Unknown
	}
	if s.model[l.Var()] == l.IsPositive() {
		return literal.True
	}
	return literal.False
}

// Failed reports whether l was part of the failed-assumption set of the
// most recent Solve call that returned Unsatisfiable under assumptions.
func (s *Solver) Failed(l literal.Lit) bool {
	for _, f := range s.failedAssumptions {
		if f == l {
			return true
		}
	}
	return false
}

// simplify removes satisfied clauses and shrinks falsified tails from the
// root-level clause database. Grounded on yass.Solver.Simplify /
// simplifyPtr.
func (s *Solver) simplify() {
	if s.trail.Level() != 0 {
		panic("solver: simplify called above decision level 0")
	}
	s.constraints = simplifySet(s.store, s.watches, s.proof, s.constraints, s.trail)
}

// applyRemap rewrites every original-clause handle through remap, as
// returned by learned.Manager.Reduce once it compacts the shared
// clause.Store: every handle not present in remap named a clause that
// compaction removed, so it is dropped rather than carried forward stale.
func (s *Solver) applyRemap(remap map[clause.Handle]clause.Handle) {
	kept := s.constraints[:0]
	for _, h := range s.constraints {
		if nh, ok := remap[h]; ok {
			kept = append(kept, nh)
		}
	}
	s.constraints = kept
}

func simplifySet(st *clause.Store, wl *watch.Lists, pf proof.Emitter, handles []clause.Handle, tr *trail.Trail) []clause.Handle {
	kept := handles[:0]
	for _, h := range handles {
		v := st.View(h)
		satisfied := false
		n := 0
		for i := 0; i < v.Size(); i++ {
			switch tr.Value(v.Lit(i)) {
			case literal.True:
				satisfied = true
			case literal.Unknown:
				v.SetLit(n, v.Lit(i))
				n++
			}
		}
		if satisfied {
			propagate.Unwatch(wl, v, h)
			pf.DeleteClause(v.Literals())
			v.MarkDeleted()
			continue
		}
		v.Truncate(n)
		kept = append(kept, h)
	}
	return kept
}
