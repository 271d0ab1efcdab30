package solver

import (
	"time"

	"github.com/rhartert/jamsat/internal/analyze"
	"github.com/rhartert/jamsat/internal/clause"
	"github.com/rhartert/jamsat/internal/literal"
	"github.com/rhartert/jamsat/internal/propagate"
	"github.com/rhartert/jamsat/internal/trail"
)

// Solve runs the search driver to completion, a timeout, or termination
// request. Assumptions registered via Assume are consumed and cleared
// regardless of outcome.
func (s *Solver) Solve() Status {
	s.liveAssumptions = s.assumptions
	s.assumptions = nil
	s.failedAssumptions = nil
	for v := range s.isAssumptionVar {
		delete(s.isAssumptionVar, v)
	}
	for _, a := range s.liveAssumptions {
		s.isAssumptionVar[a.Var()] = true
	}
	s.model = nil

	if s.unsat {
		return Unsatisfiable
	}

	if h, conflict := propagate.Run(s.trail, s.watches, s.store); conflict {
		s.handleRootPropagationConflict(h)
		s.trail.BacktrackTo(0, s.onUndo)
		if s.trail.Level() == 0 && s.unsat {
			return Unsatisfiable
		}
	}

	numConflicts := 100

	for {
		status := s.search(numConflicts)
		if status != Indeterminate {
			s.trail.BacktrackTo(0, s.onUndo)
			return status
		}
		if s.pastDeadline() || (s.TerminateFunc != nil && s.TerminateFunc()) {
			s.trail.BacktrackTo(0, s.onUndo)
			return Indeterminate
		}
		numConflicts += numConflicts / 10
	}
}

// handleRootPropagationConflict marks the solver permanently UNSAT when a
// conflict is reached by plain propagation of the original clauses, before
// any decision has been made.
func (s *Solver) handleRootPropagationConflict(_ clause.Handle) {
	s.unsat = true
}

func (s *Solver) pastDeadline() bool {
	return !s.Deadline.IsZero() && !time.Now().Before(s.Deadline)
}

// onUndo is passed to trail.BacktrackTo to reinsert unassigned variables
// into the decision heuristic, with phase saving.
func (s *Solver) onUndo(v literal.Var, wasTrue bool) {
	s.heur.Reinsert(v, wasTrue)
}

// search runs the CDCL loop until more than nConflicts conflicts have been
// seen during this call (checked before each decision; Luby restarts inside
// the call do not reset the count), a solution is found, or the formula is
// proven UNSAT.
// Grounded on yass.Solver.Search.
func (s *Solver) search(nConflicts int) Status {
	conflictsThisRound := 0

	for {
		if s.pastDeadline() || (s.TerminateFunc != nil && s.TerminateFunc()) {
			return Indeterminate
		}

		h, conflict := propagate.Run(s.trail, s.watches, s.store)
		if conflict {
			conflictsThisRound++
			s.TotalConflicts++

			if s.trail.Level() == 0 {
				s.unsat = true
				return Unsatisfiable
			}

			result := analyze.Analyze(s.trail, s.store, h, s.seen, analyze.Hooks{
				BumpVar:    s.heur.Bump,
				BumpClause: s.learnts.Bump,
			})

			if s.proof != nil {
				s.proof.AddClause(result.Learnt)
			}
			if s.LearnFunc != nil && len(result.Learnt) <= s.LearnMaxLen {
				s.LearnFunc(toDIMACS(result.Learnt))
			}

			s.trail.BacktrackTo(result.BackjumpLevel, s.onUndo)
			if !s.recordLearnt(result.Learnt, result.LBD) {
				return Indeterminate
			}

			s.heur.Decay()
			s.learnts.Decay()

			if s.restart.OnConflict() {
				s.restart.Reset()
				s.TotalRestarts++
				s.trail.BacktrackTo(0, s.onUndo)
				s.simplify()
				if s.unsat {
					return Unsatisfiable
				}
				if h2, c2 := propagate.Run(s.trail, s.watches, s.store); c2 {
					s.handleRootPropagationConflict(h2)
					return Unsatisfiable
				}
			}
			continue
		}

		if s.trail.Level() == 0 {
			s.simplify()
			if s.unsat {
				return Unsatisfiable
			}
		}

		if s.learnts.ShouldReduce() {
			remap := s.learnts.Reduce(s.trail, s.watches, s.opts.GlueLBD)
			s.applyRemap(remap)
		}

		if conflictsThisRound > nConflicts {
			return Indeterminate
		}

		// Re-establish any assumption decision a backjump or restart dropped
		// before asking the heuristic for a fresh decision, or before
		// declaring the trail a model: an assumption already implied by the
		// current trail just consumes a decision level, one found false
		// means the formula is unsatisfiable under the live assumption set,
		// and the first still-unassigned one becomes the next decision in
		// its place. Levels 1..len(assumptions) are always exactly the live
		// assumptions, in order, whenever the trail hasn't grown past them
		// yet, so this loop alone is enough to both pin assumptions across
		// backjumps and detect a conflict that only surfaces once search
		// resolves it back down to their level. This must run before the
		// "every variable assigned" check below: a fully-propagated trail
		// that happens to disagree with a not-yet-established assumption
		// must fail that assumption, not report a model.
		next := literal.Undef
		for s.trail.Level() < len(s.liveAssumptions) {
			p := s.liveAssumptions[s.trail.Level()]
			switch s.trail.Value(p) {
			case literal.True:
				s.trail.NewDecisionLevel()
				continue
			case literal.False:
				s.failedAssumptions = s.analyzeFinal(p)
				return Unsatisfiable
			default:
				next = p
			}
			break
		}

		if next == literal.Undef {
			if s.trail.Len() == s.trail.NumVars() {
				s.saveModel()
				return Satisfiable
			}
			next = s.heur.NextDecision(s.trail.VarValue)
		}

		s.TotalDecisions++
		s.trail.NewDecisionLevel()
		s.trail.Enqueue(next, trail.NoReason)
	}
}

// analyzeFinal derives the failed-assumption subset responsible for p being
// false while the live assumptions were being (re-)established: p itself,
// plus every other assumption decision the conflict's implication graph
// actually passes through. Grounded on MiniSat-style analyzeFinal; yass has
// no assumption support to ground this on.
func (s *Solver) analyzeFinal(p literal.Lit) []literal.Lit {
	out := []literal.Lit{p}
	if s.trail.Level() == 0 {
		return out
	}

	s.seen.Clear()
	s.seen.Add(p.Var())

	for i := s.trail.Len() - 1; i >= 0; i-- {
		l := s.trail.At(i)
		v := l.Var()
		if !s.seen.Contains(v) {
			continue
		}
		reason := s.trail.VarReason(v)
		if reason == trail.NoReason {
			if v != p.Var() && s.trail.VarLevel(v) > 0 && s.isAssumptionVar[v] {
				out = append(out, l)
			}
			continue
		}
		cv := s.store.View(reason)
		for j := 1; j < cv.Size(); j++ {
			q := cv.Lit(j)
			if s.trail.VarLevel(q.Var()) > 0 {
				s.seen.Add(q.Var())
			}
		}
	}
	return out
}

// recordLearnt stores a freshly derived learned clause and enqueues its
// asserting literal, returning false if the clause-memory budget is
// exhausted even after an immediate reduction pass (recovered by the caller
// returning Indeterminate). Grounded on yass.Solver.record; unit learned
// clauses are enqueued without ever being materialized in the clause store,
// exactly as yass.NewClause does for size-1 clauses.
func (s *Solver) recordLearnt(lits []literal.Lit, lbd uint32) bool {
	if len(lits) == 1 {
		s.trail.Enqueue(lits[0], trail.NoReason)
		return true
	}

	h, err := s.store.Add(lits, true)
	if err != nil {
		remap := s.learnts.Reduce(s.trail, s.watches, s.opts.GlueLBD)
		s.applyRemap(remap)
		h, err = s.store.Add(lits, true)
		if err != nil {
			return false
		}
	}

	v := s.store.View(h)
	v.SetLbd(lbd)
	s.learnts.Track(h)
	propagate.Watch(s.watches, v, h)
	s.trail.Enqueue(lits[0], h)
	return true
}

func (s *Solver) saveModel() {
	model := make([]bool, s.trail.NumVars())
	for v := 0; v < s.trail.NumVars(); v++ {
		val := s.trail.VarValue(literal.Var(v))
		if val == literal.Unknown {
			panic(&Error{Kind: InvariantViolation, Message: "saveModel called with an incomplete assignment"})
		}
		model[v] = val == literal.True
	}
	s.model = model
}

func toDIMACS(lits []literal.Lit) []int32 {
	out := make([]int32, len(lits))
	for i, l := range lits {
		n := int32(l.Var()) + 1
		if !l.IsPositive() {
			n = -n
		}
		out[i] = n
	}
	return out
}
