package clause

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rhartert/jamsat/internal/literal"
)

func lits(vars ...int32) []literal.Lit {
	out := make([]literal.Lit, len(vars))
	for i, v := range vars {
		if v < 0 {
			out[i] = literal.Neg(literal.Var(-v - 1))
		} else {
			out[i] = literal.Pos(literal.Var(v - 1))
		}
	}
	return out
}

func TestStore_AddAndView(t *testing.T) {
	t.Parallel()

	st := NewStore(0)
	h, err := st.Add(lits(1, -2, 3), false)
	if err != nil {
		t.Fatalf("Add(): unexpected error: %v", err)
	}

	v := st.View(h)
	if v.Size() != 3 {
		t.Errorf("Size() = %d, want 3", v.Size())
	}
	if v.IsLearned() {
		t.Errorf("IsLearned() = true, want false")
	}
	if diff := cmp.Diff(lits(1, -2, 3), v.Literals()); diff != "" {
		t.Errorf("Literals() mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_MarkDeletedSetsUndefLiteral(t *testing.T) {
	t.Parallel()

	st := NewStore(0)
	h, _ := st.Add(lits(1, 2), true)
	v := st.View(h)
	v.MarkDeleted()

	if !v.IsDeleted() {
		t.Errorf("IsDeleted() = false, want true")
	}
	if v.Lit(0) != literal.Undef {
		t.Errorf("Lit(0) = %v, want Undef", v.Lit(0))
	}
}

func TestStore_Compact(t *testing.T) {
	t.Parallel()

	st := NewStore(0)
	h1, _ := st.Add(lits(1, 2), false)
	h2, _ := st.Add(lits(3, 4), false)
	h3, _ := st.Add(lits(5, 6), false)

	st.View(h2).MarkDeleted()

	remap := st.Compact()

	if _, ok := remap[h2]; ok {
		t.Errorf("Compact(): deleted handle %v present in remap", h2)
	}

	nh1, ok := remap[h1]
	if !ok {
		t.Fatalf("Compact(): handle %v missing from remap", h1)
	}
	if diff := cmp.Diff(lits(1, 2), st.View(nh1).Literals()); diff != "" {
		t.Errorf("Literals() after compaction mismatch (-want +got):\n%s", diff)
	}

	nh3, ok := remap[h3]
	if !ok {
		t.Fatalf("Compact(): handle %v missing from remap", h3)
	}
	if diff := cmp.Diff(lits(5, 6), st.View(nh3).Literals()); diff != "" {
		t.Errorf("Literals() after compaction mismatch (-want +got):\n%s", diff)
	}
	if st.NumHandles() != 2 {
		t.Errorf("NumHandles() = %d, want 2", st.NumHandles())
	}
}

func TestStore_AddOutOfBudget(t *testing.T) {
	t.Parallel()

	st := NewStore(headerWords + 2) // room for exactly one 2-literal clause
	if _, err := st.Add(lits(1, 2), false); err != nil {
		t.Fatalf("Add(): unexpected error: %v", err)
	}
	if _, err := st.Add(lits(3, 4), false); err == nil {
		t.Errorf("Add(): want ErrOutOfBudget, got nil")
	}
}

func TestView_ActivityRoundTrip(t *testing.T) {
	t.Parallel()

	st := NewStore(0)
	h, _ := st.Add(lits(1, 2), true)
	v := st.View(h)
	v.SetActivity(3.5)
	if got := v.Activity(); got != 3.5 {
		t.Errorf("Activity() = %v, want 3.5", got)
	}
}
