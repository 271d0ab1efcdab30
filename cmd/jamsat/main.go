// Command jamsat reads a DIMACS CNF instance and reports its satisfiability.
//
// Grounded on yass/main.go's flag-based config/run split, extended with the
// --timeout, --drat and --drup flags described by SPEC_FULL.md §6.3 (taken
// from original_source/src/jamsat/Options.cpp's own --timeout=N/--version/
// --help surface, which yass's CLI does not have).
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/rhartert/jamsat/internal/cnf"
	"github.com/rhartert/jamsat/internal/proof"
	"github.com/rhartert/jamsat/internal/solver"
)

const version = "jamsat 0.1.0"

var (
	flagVersion = flag.Bool("version", false, "print the version of jamsat and exit")
	flagTimeout = flag.Uint("timeout", 0, "stop solving after N seconds (0 = no timeout)")
	flagDRAT    = flag.String("drat", "", "write a binary DRAT certificate to FILE")
	flagDRUP    = flag.String("drup", "", "write a plain-text DRUP certificate to FILE")
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: jamsat [--version] [--help] [--timeout=N] [--drat=FILE] [--drup=FILE] <FILE>")
	flag.PrintDefaults()
}

type config struct {
	instanceFile string
	timeout      time.Duration
	dratFile     string
	drupFile     string
}

func parseConfig() (*config, error) {
	flag.Usage = usage
	flag.Parse()

	if *flagVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	if flag.NArg() == 0 || flag.Arg(0) == "" {
		return nil, fmt.Errorf("missing instance file")
	}

	return &config{
		instanceFile: flag.Arg(0),
		timeout:      time.Duration(*flagTimeout) * time.Second,
		dratFile:     *flagDRAT,
		drupFile:     *flagDRUP,
	}, nil
}

func run(cfg *config) (solver.Status, error) {
	s := solver.New(solver.DefaultOptions())

	if cfg.timeout > 0 {
		s.Deadline = time.Now().Add(cfg.timeout)
	}

	if cfg.dratFile != "" && cfg.drupFile != "" {
		return solver.Indeterminate, fmt.Errorf("--drat and --drup are mutually exclusive")
	}
	closeProof, err := attachProofEmitter(s, cfg)
	if err != nil {
		return solver.Indeterminate, err
	}
	defer closeProof()

	gzipped := strings.HasSuffix(cfg.instanceFile, ".gz")
	if err := cnf.Load(cfg.instanceFile, gzipped, s); err != nil {
		return solver.Indeterminate, fmt.Errorf("could not load instance: %w", err)
	}

	fmt.Printf("c variables: %d\n", s.NumVariables())

	start := time.Now()
	status := s.Solve()
	elapsed := time.Since(start)

	fmt.Printf("c time (sec): %f\n", elapsed.Seconds())
	fmt.Printf("c conflicts:  %d\n", s.TotalConflicts)
	fmt.Println(status.String())

	return status, nil
}

func attachProofEmitter(s *solver.Solver, cfg *config) (func(), error) {
	switch {
	case cfg.dratFile != "":
		f, err := os.Create(cfg.dratFile)
		if err != nil {
			return nil, fmt.Errorf("could not create DRAT file: %w", err)
		}
		emitter := proof.NewBinary(f)
		s.SetProofEmitter(emitter)
		return func() { emitter.Close(); f.Close() }, nil
	case cfg.drupFile != "":
		f, err := os.Create(cfg.drupFile)
		if err != nil {
			return nil, fmt.Errorf("could not create DRUP file: %w", err)
		}
		emitter := proof.NewPlain(f)
		s.SetProofEmitter(emitter)
		return func() { emitter.Close(); f.Close() }, nil
	default:
		return func() {}, nil
	}
}

func main() {
	cfg, err := parseConfig()
	if err != nil {
		log.Fatal(err)
	}

	status, err := run(cfg)
	if err != nil {
		log.Fatal(err)
	}

	switch status {
	case solver.Satisfiable:
		os.Exit(10)
	case solver.Unsatisfiable:
		os.Exit(20)
	default:
		os.Exit(0)
	}
}
