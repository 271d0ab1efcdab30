// Package analyze implements the ConflictAnalyzer module: deriving a
// first-UIP asserting clause, a backjump level, and the LBD of the learned
// clause from a conflicting clause.
//
// Grounded on yass/internal/sat.Solver.analyze, extended with recursive
// self-subsumption clause minimization, which yass does not implement.
package analyze

import (
	"github.com/rhartert/jamsat/internal/clause"
	"github.com/rhartert/jamsat/internal/literal"
	"github.com/rhartert/jamsat/internal/trail"
)

// Hooks lets the caller observe activity bumps without this package
// depending on the heuristic or learned-clause-manager packages.
type Hooks struct {
	BumpVar    func(v literal.Var)
	BumpClause func(h clause.Handle)
}

// Result is the outcome of one conflict analysis.
type Result struct {
	Learnt         []literal.Lit
	BackjumpLevel  int
	LBD            uint32
	AssumeFailures []literal.Lit // always nil: Analyze does not fill it in
}

// Analyze derives a first-UIP asserting clause from the conflicting clause
// confl, given the current trail. seen is a caller-owned, reusable marker
// set (cleared internally).
func Analyze(tr *trail.Trail, st *clause.Store, confl clause.Handle, seen *Seen, hooks Hooks) Result {
	level := tr.Level()
	seen.Clear()

	learnt := []literal.Lit{literal.Undef} // placeholder for the FUIP
	pending := 0
	backjump := 0

	l := literal.Undef
	reasonHandle := confl
	nextIdx := tr.Len() - 1

	for {
		v := st.View(reasonHandle)
		if v.IsLearned() && hooks.BumpClause != nil {
			hooks.BumpClause(reasonHandle)
		}

		start := 0
		if l != literal.Undef {
			start = 1 // skip the asserted literal itself
		}
		for i := start; i < v.Size(); i++ {
			q := v.Lit(i).Negate() // the currently-true literal implicated by this antecedent
			qv := q.Var()
			if seen.Contains(qv) {
				continue
			}
			seen.Add(qv)
			if hooks.BumpVar != nil {
				hooks.BumpVar(qv)
			}
			if tr.VarLevel(qv) == level {
				pending++
				continue
			}
			learnt = append(learnt, q.Negate())
			if lv := tr.VarLevel(qv); lv > backjump {
				backjump = lv
			}
		}

		// Select the next seen trail literal to resolve against.
		var qv literal.Var
		for {
			l = tr.At(nextIdx)
			nextIdx--
			qv = l.Var()
			if seen.Contains(qv) {
				break
			}
		}
		reasonHandle = tr.VarReason(qv)

		pending--
		if pending <= 0 {
			break
		}
	}

	learnt[0] = l.Negate()

	learnt = minimize(tr, st, learnt, seen)
	backjump = secondHighestLevel(tr, learnt)
	placeSecondWatch(tr, learnt)
	lbd := computeLBD(tr, learnt)

	return Result{Learnt: learnt, BackjumpLevel: backjump, LBD: lbd}
}

// secondHighestLevel returns the highest decision level among learnt[1:],
// or 0 if learnt is unary. This is the backjump level.
func secondHighestLevel(tr *trail.Trail, learnt []literal.Lit) int {
	bl := 0
	for _, x := range learnt[1:] {
		if lv := tr.VarLevel(x.Var()); lv > bl {
			bl = lv
		}
	}
	return bl
}

// placeSecondWatch swaps the literal with the highest level among
// positions >= 1 into position 1, so that after backjumping both watches
// are non-false (or the asserting literal is the only non-false one).
func placeSecondWatch(tr *trail.Trail, learnt []literal.Lit) {
	if len(learnt) < 2 {
		return
	}
	best := 1
	bestLevel := tr.VarLevel(learnt[1].Var())
	for i := 2; i < len(learnt); i++ {
		if lv := tr.VarLevel(learnt[i].Var()); lv > bestLevel {
			bestLevel = lv
			best = i
		}
	}
	learnt[1], learnt[best] = learnt[best], learnt[1]
}

// computeLBD returns the number of distinct decision levels among lits'
// variables (the clause's literal block distance).
func computeLBD(tr *trail.Trail, lits []literal.Lit) uint32 {
	levels := make(map[int]struct{}, len(lits))
	for _, l := range lits {
		levels[tr.VarLevel(l.Var())] = struct{}{}
	}
	return uint32(len(levels))
}

// minimize post-processes a freshly derived learned clause: a literal x in
// learnt (other than the asserting literal at position 0) is dropped if its
// negation is derivable by resolution from other literals already in
// learnt, using only the reason clauses of variables whose levels already
// occur in learnt (an over-approximating level set used to prune the
// recursion quickly).
func minimize(tr *trail.Trail, st *clause.Store, learnt []literal.Lit, seen *Seen) []literal.Lit {
	if len(learnt) <= 1 {
		return learnt
	}

	levelSet := make(map[int]bool, len(learnt))
	for _, x := range learnt {
		levelSet[tr.VarLevel(x.Var())] = true
	}

	memo := make(map[literal.Var]bool)
	out := learnt[:1]
	for _, x := range learnt[1:] {
		if isRedundant(tr, st, seen, levelSet, memo, x) {
			continue
		}
		out = append(out, x)
	}
	return out
}

// isRedundant reports whether literal l's assignment is implied by other
// literals already present in the learned clause (tracked via seen, which
// Analyze left populated with every variable touched during resolution) or
// by root-level facts, recursing through reason clauses as needed.
func isRedundant(tr *trail.Trail, st *clause.Store, seen *Seen, levelSet map[int]bool, memo map[literal.Var]bool, l literal.Lit) bool {
	reason := tr.VarReason(l.Var())
	if reason == trail.NoReason {
		return false
	}

	v := st.View(reason)
	for i := 1; i < v.Size(); i++ {
		p := v.Lit(i)
		pv := p.Var()

		if seen.Contains(pv) || tr.VarLevel(pv) == 0 {
			continue
		}
		if !levelSet[tr.VarLevel(pv)] {
			return false
		}
		if red, ok := memo[pv]; ok {
			if !red {
				return false
			}
			continue
		}
		if !isRedundant(tr, st, seen, levelSet, memo, p) {
			memo[pv] = false
			return false
		}
		memo[pv] = true
		seen.Add(pv)
	}
	return true
}
