package solver

import (
	"testing"

	"github.com/rhartert/jamsat/internal/literal"
)

func addClauseOrFatal(t *testing.T, s *Solver, lits ...literal.Lit) {
	t.Helper()
	if err := s.AddClause(lits); err != nil {
		t.Fatalf("AddClause(%v): %v", lits, err)
	}
}

func TestSolve_ImmediateConflict(t *testing.T) {
	t.Parallel()

	s := New(DefaultOptions())
	addClauseOrFatal(t, s, literal.Pos(0))
	addClauseOrFatal(t, s, literal.Neg(0))

	if got := s.Solve(); got != Unsatisfiable {
		t.Fatalf("Solve() = %v, want Unsatisfiable", got)
	}
	// Repeated calls must remain Unsatisfiable once a root-level conflict has
	// been derived.
	if got := s.Solve(); got != Unsatisfiable {
		t.Errorf("Solve() (second call) = %v, want Unsatisfiable", got)
	}
}

func TestSolve_MiniSAT(t *testing.T) {
	t.Parallel()

	s := New(DefaultOptions())
	// (1 ∨ 2) ∧ (¬2 ∨ 3) ∧ (¬1 ∨ 3)
	addClauseOrFatal(t, s, literal.Pos(0), literal.Pos(1))
	addClauseOrFatal(t, s, literal.Neg(1), literal.Pos(2))
	addClauseOrFatal(t, s, literal.Neg(0), literal.Pos(2))

	if got := s.Solve(); got != Satisfiable {
		t.Fatalf("Solve() = %v, want Satisfiable", got)
	}

	if got := s.Val(literal.Pos(2)); got != literal.True {
		t.Errorf("Val(3) = %v, want True", got)
	}
	if v1, v2 := s.Val(literal.Pos(0)), s.Val(literal.Pos(1)); v1 != literal.True && v2 != literal.True {
		t.Errorf("Val(1)=%v Val(2)=%v, want at least one True", v1, v2)
	}
}

func TestSolve_UnsatUnderAssumptionsReportsFailed(t *testing.T) {
	t.Parallel()

	s := New(DefaultOptions())
	addClauseOrFatal(t, s, literal.Pos(0), literal.Pos(1))

	s.Assume(literal.Neg(0))
	s.Assume(literal.Neg(1))

	if got := s.Solve(); got != Unsatisfiable {
		t.Fatalf("Solve() = %v, want Unsatisfiable", got)
	}
	if !s.Failed(literal.Neg(0)) && !s.Failed(literal.Neg(1)) {
		t.Errorf("Failed(): neither assumption reported failed")
	}
}

func TestSolve_SatisfiableWithoutAssumptionsAfterFailedOnes(t *testing.T) {
	t.Parallel()

	s := New(DefaultOptions())
	addClauseOrFatal(t, s, literal.Pos(0), literal.Pos(1))

	s.Assume(literal.Neg(0))
	s.Assume(literal.Neg(1))
	if got := s.Solve(); got != Unsatisfiable {
		t.Fatalf("Solve() (assumptions) = %v, want Unsatisfiable", got)
	}

	// Assumptions and failures must be cleared for the next call, so the
	// formula is satisfiable again.
	if got := s.Solve(); got != Satisfiable {
		t.Fatalf("Solve() (no assumptions) = %v, want Satisfiable", got)
	}
	if s.Failed(literal.Neg(0)) || s.Failed(literal.Neg(1)) {
		t.Errorf("Failed(): stale failed assumption survived into unassumed Solve")
	}
}

func TestSolve_AssumptionAlreadyFalseAtRootIsImmediatelyUnsat(t *testing.T) {
	t.Parallel()

	s := New(DefaultOptions())
	addClauseOrFatal(t, s, literal.Pos(0))

	s.Assume(literal.Neg(0))
	if got := s.Solve(); got != Unsatisfiable {
		t.Fatalf("Solve() = %v, want Unsatisfiable", got)
	}
	if !s.Failed(literal.Neg(0)) {
		t.Errorf("Failed(¬0) = false, want true")
	}
}

func TestSolve_AssumptionFailureFoundOnlyViaSearch(t *testing.T) {
	t.Parallel()

	s := New(DefaultOptions())
	// With x0 assumed true, each clause below still needs a decision on x1 or
	// x2 before it can propagate a conflict: no unit propagation from the
	// assumption alone reaches a contradiction, so this only fails once
	// search actually picks a decision and backjumps back down to the
	// assumption's level. Without x0 assumed, x0=false satisfies every
	// clause immediately.
	addClauseOrFatal(t, s, literal.Neg(0), literal.Pos(1), literal.Pos(2))
	addClauseOrFatal(t, s, literal.Neg(0), literal.Pos(1), literal.Neg(2))
	addClauseOrFatal(t, s, literal.Neg(0), literal.Neg(1), literal.Pos(2))
	addClauseOrFatal(t, s, literal.Neg(0), literal.Neg(1), literal.Neg(2))

	s.Assume(literal.Pos(0))
	if got := s.Solve(); got != Unsatisfiable {
		t.Fatalf("Solve() (assumed x0) = %v, want Unsatisfiable", got)
	}
	if !s.Failed(literal.Pos(0)) {
		t.Errorf("Failed(x0) = false, want true")
	}

	if got := s.Solve(); got != Satisfiable {
		t.Fatalf("Solve() (no assumptions) = %v, want Satisfiable", got)
	}
}

func TestSolve_UnsatViaRootLevelPropagation(t *testing.T) {
	t.Parallel()

	s := New(DefaultOptions())
	// "At most one of 1, 2, 3" plus the units 1 and 2: propagating the units
	// at level 0 falsifies (¬1∨¬2), so no decision is ever made.
	addClauseOrFatal(t, s, literal.Pos(0), literal.Pos(1), literal.Pos(2))
	addClauseOrFatal(t, s, literal.Neg(0), literal.Neg(1))
	addClauseOrFatal(t, s, literal.Neg(0), literal.Neg(2))
	addClauseOrFatal(t, s, literal.Neg(1), literal.Neg(2))
	addClauseOrFatal(t, s, literal.Pos(0))
	addClauseOrFatal(t, s, literal.Pos(1))

	if got := s.Solve(); got != Unsatisfiable {
		t.Fatalf("Solve() = %v, want Unsatisfiable", got)
	}
}
