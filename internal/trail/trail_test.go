package trail

import (
	"testing"

	"github.com/rhartert/jamsat/internal/literal"
)

func TestTrail_EnqueueAndValue(t *testing.T) {
	t.Parallel()

	tr := New()
	v := tr.Grow()
	tr.Enqueue(literal.Pos(v), NoReason)

	if got := tr.VarValue(v); got != literal.True {
		t.Errorf("VarValue() = %v, want True", got)
	}
	if got := tr.Value(literal.Neg(v)); got != literal.False {
		t.Errorf("Value(neg) = %v, want False", got)
	}
	if tr.Len() != 1 {
		t.Errorf("Len() = %d, want 1", tr.Len())
	}
}

func TestTrail_EnqueueAlreadyAssignedPanics(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Errorf("Enqueue(): want panic on already-assigned variable")
		}
	}()

	tr := New()
	v := tr.Grow()
	tr.Enqueue(literal.Pos(v), NoReason)
	tr.Enqueue(literal.Pos(v), NoReason)
}

func TestTrail_BacktrackTo(t *testing.T) {
	t.Parallel()

	tr := New()
	v0 := tr.Grow()
	v1 := tr.Grow()
	v2 := tr.Grow()

	tr.NewDecisionLevel()
	tr.Enqueue(literal.Pos(v0), NoReason)
	tr.NewDecisionLevel()
	tr.Enqueue(literal.Pos(v1), NoReason)
	tr.NewDecisionLevel()
	tr.Enqueue(literal.Neg(v2), NoReason)

	if tr.Level() != 3 {
		t.Fatalf("Level() = %d, want 3", tr.Level())
	}

	var undone []literal.Var
	tr.BacktrackTo(1, func(v literal.Var, wasTrue bool) {
		undone = append(undone, v)
	})

	if tr.Level() != 1 {
		t.Errorf("Level() after backtrack = %d, want 1", tr.Level())
	}
	if tr.Len() != 1 {
		t.Errorf("Len() after backtrack = %d, want 1", tr.Len())
	}
	if got := tr.VarValue(v0); got != literal.True {
		t.Errorf("VarValue(v0) = %v, want True (level 1 survives)", got)
	}
	if got := tr.VarValue(v1); got != literal.Unknown {
		t.Errorf("VarValue(v1) = %v, want Unknown", got)
	}
	if got := tr.VarValue(v2); got != literal.Unknown {
		t.Errorf("VarValue(v2) = %v, want Unknown", got)
	}
	if len(undone) != 2 {
		t.Errorf("onUndo called %d times, want 2", len(undone))
	}
}

func TestTrail_VarLevel(t *testing.T) {
	t.Parallel()

	tr := New()
	v := tr.Grow()
	tr.NewDecisionLevel()
	tr.NewDecisionLevel()
	tr.Enqueue(literal.Pos(v), NoReason)

	if got := tr.VarLevel(v); got != 2 {
		t.Errorf("VarLevel() = %d, want 2", got)
	}
}
