// Package restart implements the RestartPolicy module: a Luby-sequence
// conflict budget, and an exponential moving average used to judge whether
// recent conflicts are clustering (a common trigger for more aggressive
// restart schedules).
//
// The Luby sequence is grounded on original_source's
// libjamsat/utils/LubySequence.h; the moving average is adapted from
// yass/sat.EMA, yass's own (otherwise orphaned) averaging helper.
package restart

// Luby computes successive elements of the Luby sequence: 1, 1, 2, 1, 1, 2,
// 4, 1, 1, 2, 1, 1, 2, 4, 8, ...
type Luby struct {
	u, v int64
}

// NewLuby returns a fresh Luby sequence generator.
func NewLuby() *Luby {
	return &Luby{u: 1, v: 1}
}

// Next advances the sequence and returns its new current element.
func (l *Luby) Next() int64 {
	if (l.u & -l.u) == l.v {
		l.u, l.v = l.u+1, 1
	} else {
		l.v *= 2
	}
	return l.v
}

// Policy tracks a Luby-scaled conflict budget: a restart is due once the
// number of conflicts since the last restart reaches the current budget,
// which is unitSize times the current Luby element.
type Policy struct {
	luby       *Luby
	unitSize   int
	budget     int64
	sinceReset int64
}

// NewPolicy returns a Policy with the given restart unit size (a conflict
// count multiplier; 100 is a common CDCL solver default).
func NewPolicy(unitSize int) *Policy {
	l := NewLuby()
	return &Policy{luby: l, unitSize: unitSize, budget: int64(unitSize) * l.v}
}

// OnConflict records one conflict and reports whether a restart is due.
func (p *Policy) OnConflict() bool {
	p.sinceReset++
	return p.sinceReset >= p.budget
}

// Reset is called once the solver actually performs the restart: it advances
// the Luby sequence and resets the conflict counter.
func (p *Policy) Reset() {
	p.sinceReset = 0
	p.budget = int64(p.unitSize) * p.luby.Next()
}

// ConflictEMA is an exponential moving average of a per-conflict metric
// (e.g. LBD), used to detect when the search is thrashing.
type ConflictEMA struct {
	decay float64
	value float64
	init  bool
}

// NewConflictEMA returns a zero-valued moving average with the given decay
// factor in (0, 1); higher values weigh history more heavily.
func NewConflictEMA(decay float64) ConflictEMA {
	return ConflictEMA{decay: decay}
}

// Add folds a new sample into the average.
func (e *ConflictEMA) Add(x float64) {
	if !e.init {
		e.init = true
		e.value = x
		return
	}
	e.value = e.decay*e.value + x*(1-e.decay)
}

// Value returns the current average.
func (e *ConflictEMA) Value() float64 {
	return e.value
}
