// Package clause implements the ClauseStore module: a contiguous,
// bump-allocating arena of clauses addressed by stable handles, with
// compacting garbage collection of clauses marked deleted.
//
// The arena layout is grounded on the size-class bucketing ideas in
// yass/internal/sat/clauses_alloc.go, generalized into a single relocatable
// arena (instead of a sync.Pool of *[]Literal, which cannot be relocated
// through a caller-visible remap the way Compact requires).
package clause

import (
	"fmt"
	"math"

	"github.com/rhartert/jamsat/internal/literal"
)

// Handle is an opaque reference to a clause stored in a Store. Handles are
// invalidated only by Store.Compact; every holder of a handle (watch lists,
// trail reasons, the learned-clause index) must apply the remap returned by
// Compact before using the handle again.
type Handle int32

// headerWords is the number of int32 words reserved for a clause's header:
// size, flags, lbd, activity (stored as float32 bits).
const headerWords = 4

const (
	flagLearned   uint32 = 1 << 0
	flagDeleted   uint32 = 1 << 1
	flagProtected uint32 = 1 << 2
)

// Store is a bump-allocating arena of 32-bit words holding clause headers
// and their literal payloads back to back.
type Store struct {
	words   []int32
	handles []Handle // allocation order, walked by Compact

	// budget is the maximum number of words the arena may hold, or 0 for no
	// limit. Add returns ErrOutOfBudget when adding a clause would exceed it.
	budget int
}

// ErrOutOfBudget is returned by Add when the configured memory limit would
// be exceeded. The caller is expected to run a learned-clause reduction and
// retry once.
type ErrOutOfBudget struct {
	Requested int
	Budget    int
}

func (e *ErrOutOfBudget) Error() string {
	return fmt.Sprintf("clause store: adding %d words would exceed budget of %d words", e.Requested, e.Budget)
}

// NewStore returns an empty Store. A wordBudget of 0 means unlimited.
func NewStore(wordBudget int) *Store {
	return &Store{budget: wordBudget}
}

// NumWords returns the current size of the arena, including dead clauses
// not yet reclaimed by Compact.
func (s *Store) NumWords() int {
	return len(s.words)
}

// NumHandles returns the number of handles the store tracks: clauses that
// survived the last Compact plus those added since, including clauses marked
// deleted but not yet reclaimed.
func (s *Store) NumHandles() int {
	return len(s.handles)
}

// Add writes a new clause's header and literal payload into the arena and
// returns a stable handle to it. lits must contain at least one literal.
func (s *Store) Add(lits []literal.Lit, learned bool) (Handle, error) {
	need := headerWords + len(lits)
	if s.budget > 0 && len(s.words)+need > s.budget {
		return 0, &ErrOutOfBudget{Requested: need, Budget: s.budget}
	}

	h := Handle(len(s.words))
	flags := uint32(0)
	if learned {
		flags |= flagLearned
	}

	s.words = append(s.words, int32(len(lits)), int32(flags), 0, 0)
	for _, l := range lits {
		s.words = append(s.words, int32(l))
	}

	s.handles = append(s.handles, h)
	return h, nil
}

// View returns a mutable view over the clause referenced by h. The view is
// valid until the next call to Compact.
func (s *Store) View(h Handle) View {
	return View{s: s, h: h}
}

// View is a lightweight accessor into a clause stored in a Store.
type View struct {
	s *Store
	h Handle
}

func (v View) base() int32 { return int32(v.h) }

// Handle returns the handle this view was constructed from.
func (v View) Handle() Handle { return v.h }

// Size returns the number of literals in the clause.
func (v View) Size() int {
	return int(v.s.words[v.base()])
}

func (v View) setSize(n int) {
	v.s.words[v.base()] = int32(n)
}

func (v View) flags() uint32 {
	return uint32(v.s.words[v.base()+1])
}

func (v View) setFlags(f uint32) {
	v.s.words[v.base()+1] = int32(f)
}

// IsLearned reports whether the clause was added as a learned clause.
func (v View) IsLearned() bool {
	return v.flags()&flagLearned != 0
}

// IsProtected reports whether the clause is protected from reduction.
func (v View) IsProtected() bool {
	return v.flags()&flagProtected != 0
}

// SetProtected marks the clause as protected from the next reduction pass.
func (v View) SetProtected(p bool) {
	f := v.flags()
	if p {
		f |= flagProtected
	} else {
		f &^= flagProtected
	}
	v.setFlags(f)
}

// IsDeleted reports whether the clause has been marked deleted, i.e. its
// first literal has been overwritten with literal.Undef.
func (v View) IsDeleted() bool {
	return v.flags()&flagDeleted != 0
}

// MarkDeleted marks the clause as deleted. Its storage is only physically
// reclaimed by the next call to Store.Compact.
func (v View) MarkDeleted() {
	v.setFlags(v.flags() | flagDeleted)
	if v.Size() > 0 {
		v.SetLit(0, literal.Undef)
	}
}

// Lbd returns the clause's Literal Block Distance. Only meaningful for
// learned clauses.
func (v View) Lbd() uint32 {
	return uint32(v.s.words[v.base()+2])
}

// SetLbd sets the clause's LBD.
func (v View) SetLbd(lbd uint32) {
	v.s.words[v.base()+2] = int32(lbd)
}

// Activity returns the clause's activity score, used by the learned-clause
// manager to rank clauses during reduction.
func (v View) Activity() float32 {
	return math.Float32frombits(uint32(v.s.words[v.base()+3]))
}

// SetActivity sets the clause's activity score.
func (v View) SetActivity(a float32) {
	v.s.words[v.base()+3] = int32(math.Float32bits(a))
}

// Lit returns the literal at position i.
func (v View) Lit(i int) literal.Lit {
	return literal.Lit(v.s.words[v.base()+headerWords+int32(i)])
}

// SetLit overwrites the literal at position i.
func (v View) SetLit(i int, l literal.Lit) {
	v.s.words[v.base()+headerWords+int32(i)] = int32(l)
}

// Swap exchanges the literals at positions i and j.
func (v View) Swap(i, j int) {
	li, lj := v.Lit(i), v.Lit(j)
	v.SetLit(i, lj)
	v.SetLit(j, li)
}

// Literals returns a copy of the clause's literals, in order.
func (v View) Literals() []literal.Lit {
	out := make([]literal.Lit, v.Size())
	for i := range out {
		out[i] = v.Lit(i)
	}
	return out
}

// Truncate shrinks the clause to the first n literals. Used by clause
// simplification to discard root-level-falsified literals.
func (v View) Truncate(n int) {
	v.setSize(n)
}

func (v View) String() string {
	n := v.Size()
	if n == 0 {
		return "Clause[]"
	}
	s := "Clause["
	for i := 0; i < n; i++ {
		if i > 0 {
			s += " "
		}
		s += v.Lit(i).String()
	}
	return s + "]"
}

// Compact relocates every non-deleted clause to a fresh arena, reclaiming
// the storage of deleted clauses, and returns a map from every old handle
// that survived to its new handle. Handles of clauses that were deleted are
// absent from the returned map. All handles held by callers (watch lists,
// trail reasons, the learned-clause index) must be remapped through it; any
// handle held across a Compact call without being remapped is invalid.
func (s *Store) Compact() map[Handle]Handle {
	newWords := make([]int32, 0, len(s.words))
	newHandles := make([]Handle, 0, len(s.handles))
	remap := make(map[Handle]Handle, len(s.handles))

	for _, h := range s.handles {
		v := View{s: s, h: h}
		if v.IsDeleted() {
			continue
		}
		size := v.Size()
		newH := Handle(len(newWords))
		start := int(h)
		end := start + headerWords + size
		newWords = append(newWords, s.words[start:end]...)
		newHandles = append(newHandles, newH)
		remap[h] = newH
	}

	s.words = newWords
	s.handles = newHandles
	return remap
}
