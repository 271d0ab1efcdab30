package propagate

import (
	"testing"

	"github.com/rhartert/jamsat/internal/clause"
	"github.com/rhartert/jamsat/internal/literal"
	"github.com/rhartert/jamsat/internal/trail"
	"github.com/rhartert/jamsat/internal/watch"
)

func setup(nVars int) (*trail.Trail, *watch.Lists, *clause.Store) {
	tr := trail.New()
	wl := watch.New()
	st := clause.NewStore(0)
	for i := 0; i < nVars; i++ {
		tr.Grow()
		wl.Grow()
	}
	return tr, wl, st
}

func addClause(t *testing.T, st *clause.Store, wl *watch.Lists, lits ...literal.Lit) clause.Handle {
	t.Helper()
	h, err := st.Add(lits, false)
	if err != nil {
		t.Fatalf("Add(): unexpected error: %v", err)
	}
	Watch(wl, st.View(h), h)
	return h
}

func TestRun_UnitPropagation(t *testing.T) {
	t.Parallel()

	tr, wl, st := setup(3)
	v0, v1, v2 := literal.Var(0), literal.Var(1), literal.Var(2)

	// (¬v0 ∨ ¬v1 ∨ v2): once v0 and v1 are true, v2 must become true.
	addClause(t, st, wl, literal.Neg(v0), literal.Neg(v1), literal.Pos(v2))

	tr.NewDecisionLevel()
	tr.Enqueue(literal.Pos(v0), trail.NoReason)
	tr.NewDecisionLevel()
	tr.Enqueue(literal.Pos(v1), trail.NoReason)

	if _, conflict := Run(tr, wl, st); conflict {
		t.Fatalf("Run(): unexpected conflict")
	}
	if got := tr.VarValue(v2); got != literal.True {
		t.Errorf("VarValue(v2) = %v, want True", got)
	}
}

func TestRun_Conflict(t *testing.T) {
	t.Parallel()

	tr, wl, st := setup(2)
	v0, v1 := literal.Var(0), literal.Var(1)

	// (v0 ∨ v1) and (v0 ∨ ¬v1): forcing v0 false and v1 both ways conflicts.
	addClause(t, st, wl, literal.Pos(v0), literal.Pos(v1))
	addClause(t, st, wl, literal.Pos(v0), literal.Neg(v1))

	tr.NewDecisionLevel()
	tr.Enqueue(literal.Neg(v0), trail.NoReason)
	tr.NewDecisionLevel()
	tr.Enqueue(literal.Pos(v1), trail.NoReason)

	if _, conflict := Run(tr, wl, st); !conflict {
		t.Fatalf("Run(): want conflict, got none")
	}
}

func TestRun_WatchedLiteralsStayNonFalseAfterStabilizing(t *testing.T) {
	t.Parallel()

	tr, wl, st := setup(4)
	v0, v1, v2, v3 := literal.Var(0), literal.Var(1), literal.Var(2), literal.Var(3)

	h := addClause(t, st, wl, literal.Pos(v0), literal.Pos(v1), literal.Pos(v2), literal.Pos(v3))

	tr.NewDecisionLevel()
	tr.Enqueue(literal.Neg(v0), trail.NoReason)

	if _, conflict := Run(tr, wl, st); conflict {
		t.Fatalf("Run(): unexpected conflict")
	}

	v := st.View(h)
	for _, pos := range [2]int{0, 1} {
		if tr.Value(v.Lit(pos)) == literal.False {
			t.Errorf("watched literal at position %d is False after stabilizing: %v", pos, v.Lit(pos))
		}
	}
}
