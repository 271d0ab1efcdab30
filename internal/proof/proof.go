// Package proof implements the ProofEmitter module: a sink that records
// every added and deleted clause so an external tool can machine-check the
// solver's UNSAT verdicts.
//
// Grounded on original_source's PlainDRUPCertificate.cpp (textual DRUP) and
// BinaryDRATEncoder.cpp/.h (binary DRAT's base-128 varint encoding), neither
// of which yass implements; the Emitter interface and io.Writer-based
// construction follow yass's plain-struct, no-framework style.
package proof

import (
	"bufio"
	"fmt"
	"io"

	"github.com/rhartert/jamsat/internal/literal"
)

// Emitter is the capability set a proof sink must implement.
type Emitter interface {
	AddClause(lits []literal.Lit)
	DeleteClause(lits []literal.Lit)
	Close() error
}

// noop implements Emitter by discarding everything, used when the solver is
// configured without a proof output.
type noop struct{}

func (noop) AddClause([]literal.Lit)    {}
func (noop) DeleteClause([]literal.Lit) {}
func (noop) Close() error               { return nil }

// Noop returns an Emitter that records nothing.
func Noop() Emitter { return noop{} }

// Plain writes a textual DRUP certificate: each clause as space-separated
// signed integers terminated by 0, deletions prefixed with "d ".
type Plain struct {
	w   *bufio.Writer
	err error
}

// NewPlain returns a Plain emitter writing to w.
func NewPlain(w io.Writer) *Plain {
	return &Plain{w: bufio.NewWriter(w)}
}

func (p *Plain) writeClause(lits []literal.Lit, deleted bool) {
	if p.err != nil {
		return
	}
	if deleted {
		if _, err := p.w.WriteString("d "); err != nil {
			p.err = err
			return
		}
	}
	for _, l := range lits {
		if _, err := fmt.Fprintf(p.w, "%d ", dimacsInt(l)); err != nil {
			p.err = err
			return
		}
	}
	if _, err := p.w.WriteString("0\n"); err != nil {
		p.err = err
	}
}

// AddClause records a clause added to the proof (original or learned).
func (p *Plain) AddClause(lits []literal.Lit) { p.writeClause(lits, false) }

// DeleteClause records a clause removed from the active database.
func (p *Plain) DeleteClause(lits []literal.Lit) { p.writeClause(lits, true) }

// Close writes the proof's closing "0\n" and flushes the underlying writer.
func (p *Plain) Close() error {
	if p.err == nil {
		_, p.err = p.w.WriteString("0\n")
	}
	if ferr := p.w.Flush(); p.err == nil {
		p.err = ferr
	}
	return p.err
}

// Binary writes a binary DRAT certificate: each literal encoded as a
// little-endian base-128 varint of 2*(variable+1) + signBit (DRAT numbers
// variables from 1 and, like this module, uses LSB=0 for positive literals),
// a 0 byte terminating each clause, and deletions prefixed by the byte 'd'.
type Binary struct {
	w   *bufio.Writer
	buf []byte
	err error
}

// NewBinary returns a Binary emitter writing to w.
func NewBinary(w io.Writer) *Binary {
	return &Binary{w: bufio.NewWriter(w)}
}

func (b *Binary) writeClause(lits []literal.Lit, deleted bool) {
	if b.err != nil {
		return
	}
	if deleted {
		if err := b.w.WriteByte('d'); err != nil {
			b.err = err
			return
		}
	}
	need := len(lits) * 5
	if cap(b.buf) < need {
		b.buf = make([]byte, need)
	}
	n := encodeBinaryDRAT(lits, b.buf)
	if _, err := b.w.Write(b.buf[:n]); err != nil {
		b.err = err
		return
	}
	if err := b.w.WriteByte(0); err != nil {
		b.err = err
	}
}

// AddClause records a clause added to the proof.
func (b *Binary) AddClause(lits []literal.Lit) { b.writeClause(lits, false) }

// DeleteClause records a clause removed from the active database.
func (b *Binary) DeleteClause(lits []literal.Lit) { b.writeClause(lits, true) }

// Close flushes the underlying writer.
func (b *Binary) Close() error {
	if ferr := b.w.Flush(); b.err == nil {
		b.err = ferr
	}
	return b.err
}

// dimacsInt converts l to the signed-integer convention used by DIMACS and
// plain DRUP: the variable number (1-based), negated if l is a negative
// literal.
func dimacsInt(l literal.Lit) int32 {
	n := int32(l.Var()) + 1
	if !l.IsPositive() {
		n = -n
	}
	return n
}

// encodeBinaryDRAT encodes literals into target, which must have length at
// least 5*len(literals), and returns the number of bytes written. Grounded
// on original_source's EncodeBinaryDRAT (BinaryDRATEncoder.cpp).
func encodeBinaryDRAT(literals []literal.Lit, target []byte) int {
	out := 0
	for _, l := range literals {
		raw := uint32(l) + 2 // shift to 1-based variables; the sign bit already matches DRAT
		for {
			b := byte(raw & 0x7f)
			raw >>= 7
			if raw != 0 {
				b |= 0x80
			}
			target[out] = b
			out++
			if raw == 0 {
				break
			}
		}
	}
	return out
}
