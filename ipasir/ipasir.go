// Package ipasir exposes internal/solver through the incremental SAT API
// shape: init/add/assume/solve/val/failed/setTerminate/setLearn/release.
// Pure Go, no cgo export shim.
package ipasir

import (
	"github.com/rhartert/jamsat/internal/literal"
	"github.com/rhartert/jamsat/internal/solver"
)

// Solver is a thin incremental-API adapter over *solver.Solver.
type Solver struct {
	s           *solver.Solver
	pendingLits []literal.Lit
	released    bool
}

// Init returns a freshly initialized Solver, equivalent to IPASIR's init().
func Init() *Solver {
	return &Solver{s: solver.New(solver.DefaultOptions())}
}

func (s *Solver) checkAlive() {
	if s.released {
		panic("ipasir: use of a released solver")
	}
}

// Add appends a literal to the clause under construction; lit == 0
// finalizes and adds the clause.
func (s *Solver) Add(lit int) {
	s.checkAlive()
	if lit == 0 {
		lits := s.pendingLits
		s.pendingLits = nil
		if err := s.s.AddClause(lits); err != nil {
			panic(err)
		}
		return
	}
	s.pendingLits = append(s.pendingLits, fromDIMACS(lit))
}

// Assume sets a single-shot assumption literal for the next Solve call.
func (s *Solver) Assume(lit int) {
	s.checkAlive()
	s.s.Assume(fromDIMACS(lit))
}

// Solve runs the solver and returns 10 (SAT), 20 (UNSAT), or 0
// (INDETERMINATE).
func (s *Solver) Solve() int {
	s.checkAlive()
	switch s.s.Solve() {
	case solver.Satisfiable:
		return 10
	case solver.Unsatisfiable:
		return 20
	default:
		return 0
	}
}

// Val returns lit if it is TRUE under the current model, -lit if FALSE, or
// 0 if indeterminate.
func (s *Solver) Val(lit int) int {
	s.checkAlive()
	switch s.s.Val(fromDIMACS(lit)) {
	case literal.True:
		return lit
	case literal.False:
		return -lit
	default:
		return 0
	}
}

// Failed reports whether lit was part of the last failed-assumption set.
func (s *Solver) Failed(lit int) bool {
	s.checkAlive()
	return s.s.Failed(fromDIMACS(lit))
}

// SetTerminate registers a cooperative termination callback, polled between
// propagation rounds; a true return aborts the in-progress Solve.
func (s *Solver) SetTerminate(callback func() bool) {
	s.checkAlive()
	s.s.TerminateFunc = callback
}

// SetLearn registers a callback invoked with every learned clause of at
// most maxLen literals, in DIMACS integer form (no 0 terminator).
func (s *Solver) SetLearn(maxLen int, callback func(clause []int32)) {
	s.checkAlive()
	s.s.LearnMaxLen = maxLen
	s.s.LearnFunc = callback
}

// Release marks the solver unusable. The underlying memory is reclaimed by
// the garbage collector once the Solver value itself is unreachable; there
// is no external resource to close.
func (s *Solver) Release() {
	s.released = true
	s.s = nil
}

func fromDIMACS(lit int) literal.Lit {
	if lit < 0 {
		return literal.Neg(literal.Var(-lit - 1))
	}
	return literal.Pos(literal.Var(lit - 1))
}
