// Package cnf loads DIMACS CNF instances and model files into a solver.
//
// Grounded on yass/parsers/parsers.go, adapted from yass's own
// sat.Literal/sat.Solver types onto this module's literal and solver
// packages. Keeps the github.com/rhartert/dimacs Builder-callback reader
// rather than a hand-rolled scanner.
package cnf

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"

	"github.com/rhartert/dimacs"
	"github.com/rhartert/jamsat/internal/literal"
)

// Solver is the subset of *solver.Solver that loading a CNF instance needs.
// Declared locally (rather than imported from package solver) to avoid a
// cnf->solver->... import edge that nothing else requires.
type Solver interface {
	AddClause(lits []literal.Lit) error
}

func open(filename string, gzipped bool) (io.ReadCloser, error) {
	if filename == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	rc := io.ReadCloser(file)
	if gzipped {
		rc, err = gzip.NewReader(rc)
		if err != nil {
			return nil, err
		}
	}
	return rc, nil
}

// Load parses filename as DIMACS CNF and adds every clause to solver.
// gzipped selects transparent gzip decompression for ".cnf.gz" instances.
// filename == "-" reads from stdin.
func Load(filename string, gzipped bool, solver Solver) error {
	r, err := open(filename, gzipped)
	if err != nil {
		return fmt.Errorf("cnf: opening %q: %w", filename, err)
	}
	defer r.Close()

	b := &builder{solver: solver}
	if err := dimacs.ReadBuilder(r, b); err != nil {
		return fmt.Errorf("cnf: parsing %q: %w", filename, err)
	}
	return nil
}

type builder struct {
	solver Solver
}

func (b *builder) Problem(problem string, nVars int, nClauses int) error {
	if problem != "cnf" {
		return fmt.Errorf("cnf: unsupported problem type %q", problem)
	}
	return nil
}

func (b *builder) Clause(raw []int) error {
	lits := make([]literal.Lit, len(raw))
	for i, n := range raw {
		if n < 0 {
			lits[i] = literal.Neg(literal.Var(-n - 1))
		} else {
			lits[i] = literal.Pos(literal.Var(n - 1))
		}
	}
	return b.solver.AddClause(lits)
}

func (b *builder) Comment(_ string) error {
	return nil
}

// ReadModels parses filename as a whitespace-separated-integer model file
// (one model per line, each line DIMACS-clause-terminated by 0) and returns
// the decoded models. Used by the test harness to compare against
// precomputed reference models.
func ReadModels(filename string) ([][]bool, error) {
	r, err := open(filename, false)
	if err != nil {
		return nil, fmt.Errorf("cnf: opening %q: %w", filename, err)
	}
	defer r.Close()

	b := &modelBuilder{}
	if err := dimacs.ReadBuilder(r, b); err != nil {
		return nil, fmt.Errorf("cnf: parsing %q: %w", filename, err)
	}
	return b.models, nil
}

type modelBuilder struct {
	models [][]bool
}

func (b *modelBuilder) Problem(problem string, nVars int, nClauses int) error {
	return fmt.Errorf("cnf: model files should not have a problem line")
}

func (b *modelBuilder) Comment(_ string) error {
	return nil
}

func (b *modelBuilder) Clause(raw []int) error {
	model := make([]bool, len(raw))
	for i, n := range raw {
		model[i] = n > 0
	}
	b.models = append(b.models, model)
	return nil
}
