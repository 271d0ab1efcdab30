// Package heuristic implements the DecisionHeuristic module: a VSIDS
// variable ordering with phase saving, backed by a priority heap.
//
// Grounded on yass/internal/sat.VarOrder, translated from int-indexed
// variables and its own LBool type onto this module's literal.Var and
// literal.TBool.
package heuristic

import (
	"github.com/rhartert/jamsat/internal/literal"
	"github.com/rhartert/yagh"
)

// rescaleThreshold bounds variable scores the same way yass does, rescaling
// before overflow rather than clamping.
const rescaleThreshold = 1e100

// VSIDS maintains the order in which unassigned variables are proposed as
// the next decision, biased toward variables that have recently appeared in
// conflicts.
type VSIDS struct {
	order *yagh.IntMap[float64]

	scores   []float64
	scoreInc float64
	decay    float64

	phases      []literal.TBool
	phaseSaving bool
}

// Options configures a VSIDS heuristic. Decay mirrors yass's
// Options.VariableDecay (default 0.95).
type Options struct {
	Decay       float64
	PhaseSaving bool
}

// DefaultOptions mirrors yass's DefaultOptions for the variable-activity
// portion of Options.
func DefaultOptions() Options {
	return Options{Decay: 0.95, PhaseSaving: true}
}

// New returns an empty VSIDS heuristic.
func New(opts Options) *VSIDS {
	return &VSIDS{
		order:       yagh.New[float64](0),
		scoreInc:    1,
		decay:       opts.Decay,
		phaseSaving: opts.PhaseSaving,
	}
}

// AddVar registers a newly created variable with the given initial score
// and initial phase.
func (h *VSIDS) AddVar(v literal.Var, initScore float64, initPhase bool) {
	h.scores = append(h.scores, initScore)
	h.phases = append(h.phases, literal.Lift(initPhase))
	h.order.GrowBy(1)
	h.order.Put(int(v), -initScore)
}

// Reinsert makes v a candidate for selection again, recording its last
// assigned polarity for phase saving. Called by the solver whenever v is
// unassigned by a backtrack.
func (h *VSIDS) Reinsert(v literal.Var, wasTrue bool) {
	if h.phaseSaving {
		h.phases[v] = literal.Lift(wasTrue)
	}
	h.order.Put(int(v), -h.scores[v])
}

// Decay grows the score increment (divides it by the decay factor), making
// future bumps relatively more significant than past ones.
func (h *VSIDS) Decay() {
	h.scoreInc /= h.decay
	if h.scoreInc > rescaleThreshold {
		h.rescale()
	}
}

// Bump increases v's score, rescaling every variable's score if it grows
// past a fixed threshold.
func (h *VSIDS) Bump(v literal.Var) {
	newScore := h.scores[v] + h.scoreInc
	h.scores[v] = newScore
	if h.order.Contains(int(v)) {
		h.order.Put(int(v), -newScore)
	}
	if newScore > rescaleThreshold {
		h.rescale()
	}
}

func (h *VSIDS) rescale() {
	h.scoreInc *= 1e-100
	for v, s := range h.scores {
		newScore := s * 1e-100
		h.scores[v] = newScore
		if h.order.Contains(v) {
			h.order.Put(v, -newScore)
		}
	}
}

// valueOf reports the current assigned truth value of a variable, queried
// from the caller to avoid a direct dependency on the trail package (which
// would be an otherwise harmless but unnecessary edge in the package graph).
type valueOf func(v literal.Var) literal.TBool

// NextDecision pops variables off the heap until it finds one still
// unassigned, and returns the literal of that variable matching its saved
// phase (or the initial phase given to AddVar, if no phase has been saved
// for it yet). It panics if
// every registered variable is already assigned; the caller (solver) must
// only invoke it when the formula is not yet fully satisfied.
func (h *VSIDS) NextDecision(value valueOf) literal.Lit {
	for {
		next, ok := h.order.Pop()
		if !ok {
			panic("heuristic: NextDecision called with no unassigned variables left")
		}
		v := literal.Var(next.Elem)
		if value(v) != literal.Unknown {
			continue
		}
		switch h.phases[v] {
		case literal.False:
			return literal.Neg(v)
		default:
			return literal.Pos(v)
		}
	}
}
