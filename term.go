package gowick

import "strings"

// ============================================================
// Term (engine input)
// ============================================================

// Term is one summand of an operator expression: a prefactor, scalar
// coefficients, summation symbols, a product of ladder operators and any
// constraints on the operator labels. The engine never modifies a Term.
type Term struct {
	Prefactor      Rational
	Coefficients   []Coefficient
	Sums           SumContainer
	Operators      []Operator
	MomentumDeltas []MomentumDelta
	IndexDeltas    []IndexDelta
}

// NewTerm returns a term with prefactor 1.
func NewTerm(ops ...Operator) Term { return Term{Prefactor: R(1), Operators: ops} }

// IsIdentity reports a term without operators.
func (t Term) IsIdentity() bool { return len(t.Operators) == 0 }

func (t Term) CountFermions() int {
	n := 0
	for _, op := range t.Operators {
		if op.IsFermion {
			n++
		}
	}
	return n
}

func (t Term) CountBosons() int { return len(t.Operators) - t.CountFermions() }

// IsNormalOrdered reports whether every creator precedes every annihilator
// of the same statistics.
func (t Term) IsNormalOrdered() bool {
	seen := map[bool]bool{}
	for _, op := range t.Operators {
		if !op.Daggered {
			seen[op.IsFermion] = true
		} else if seen[op.IsFermion] {
			return false
		}
	}
	return true
}

func (t Term) Clone() Term {
	out := Term{
		Prefactor:      t.Prefactor,
		Sums:           t.Sums.Clone(),
		MomentumDeltas: append([]MomentumDelta(nil), t.MomentumDeltas...),
		IndexDeltas:    append([]IndexDelta(nil), t.IndexDeltas...),
	}
	for _, c := range t.Coefficients {
		out.Coefficients = append(out.Coefficients, c.Clone())
	}
	for _, op := range t.Operators {
		out.Operators = append(out.Operators, op.Clone())
	}
	return out
}

// HermitianConjugate reverses the operator product, flips every dagger and
// conjugates the coefficients.
func (t Term) HermitianConjugate() Term {
	out := t.Clone()
	for i := range out.Coefficients {
		out.Coefficients[i].Daggered = !out.Coefficients[i].Daggered
	}
	n := len(out.Operators)
	ops := make([]Operator, n)
	for i, op := range out.Operators {
		ops[n-1-i] = op.HermitianConjugate()
	}
	out.Operators = ops
	return out
}

// RenameMomentum replaces the symbol from by to everywhere in the term.
func (t Term) RenameMomentum(from, to Symbol) Term {
	out := t.Clone()
	table := map[Symbol]Symbol{from: to}
	for i := range out.Operators {
		out.Operators[i].Momentum = out.Operators[i].Momentum.Rename(table)
	}
	for i := range out.Coefficients {
		for j, m := range out.Coefficients[i].Momenta {
			out.Coefficients[i].Momenta[j] = m.Rename(table)
		}
	}
	for i, d := range out.MomentumDeltas {
		out.MomentumDeltas[i] = Delta(d.First.Rename(table), d.Second.Rename(table))
	}
	for i, s := range out.Sums.Momenta {
		if s == from {
			out.Sums.Momenta[i] = to
		}
	}
	return out
}

// String uses the notation accepted by ParseTerm.
func (t Term) String() string {
	parts := []string{t.Prefactor.String()}
	if !t.Sums.IsEmpty() {
		parts = append(parts, t.Sums.String())
	}
	for _, c := range t.Coefficients {
		parts = append(parts, "c:"+c.String())
	}
	for _, d := range t.MomentumDeltas {
		parts = append(parts, "delta:momentum{"+d.First.String()+","+d.Second.String()+"}")
	}
	for _, d := range t.IndexDeltas {
		parts = append(parts, "delta:index{"+d.First.String()+","+d.Second.String()+"}")
	}
	for _, op := range t.Operators {
		parts = append(parts, op.String())
	}
	return strings.Join(parts, " ")
}

func (t Term) LaTeX() string {
	var b strings.Builder
	b.WriteString(t.Prefactor.LaTeX() + ` \cdot `)
	b.WriteString(t.Sums.LaTeX())
	for _, c := range t.Coefficients {
		b.WriteString(c.LaTeX() + " ")
	}
	for _, d := range t.MomentumDeltas {
		b.WriteString(d.LaTeX() + " ")
	}
	for _, d := range t.IndexDeltas {
		b.WriteString(d.LaTeX() + " ")
	}
	for _, op := range t.Operators {
		b.WriteString(op.LaTeX() + " ")
	}
	return strings.TrimSpace(b.String())
}
