package clause

import "github.com/rhartert/jamsat/internal/literal"

// Preprocess simplifies an original (non-learned) clause against the
// current root-level assignment before it is added to a Store: duplicate
// literals are removed, literals already assigned False are dropped, and a
// clause containing both a literal and its negation, or a literal already
// assigned True, is reported as a tautology (always satisfied, need not be
// stored).
//
// lits is simplified in place and the simplified prefix is returned.
// Grounded on yass/sat/clauses.go NewClause's seen-map loop.
func Preprocess(lits []literal.Lit, valueOf func(literal.Lit) literal.TBool) (out []literal.Lit, tautology bool) {
	size := len(lits)
	seen := make(map[literal.Lit]struct{}, size)

	for i := size - 1; i >= 0; i-- {
		l := lits[i]

		if _, ok := seen[l.Negate()]; ok {
			return nil, true
		}
		if _, ok := seen[l]; ok {
			size--
			lits[i], lits[size] = lits[size], lits[i]
			continue
		}
		seen[l] = struct{}{}

		switch valueOf(l) {
		case literal.True:
			return nil, true
		case literal.False:
			size--
			lits[i], lits[size] = lits[size], lits[i]
		}
	}

	return lits[:size], false
}
