package gowick

import (
	"strings"
)

// ============================================================
// WickTerm and WickTermCollector
// ============================================================

// WickTerm is one summand after contraction: operators are expectation
// values rather than ladder operators.
type WickTerm struct {
	Prefactor      Rational
	Coefficients   []Coefficient
	Sums           SumContainer
	Operators      []WickOperator
	MomentumDeltas []MomentumDelta
	IndexDeltas    []IndexDelta
}

// newWickTerm copies the scalar part of an input term.
func newWickTerm(t Term) WickTerm {
	w := WickTerm{
		Prefactor:      t.Prefactor,
		Sums:           t.Sums.Clone(),
		MomentumDeltas: append([]MomentumDelta(nil), t.MomentumDeltas...),
		IndexDeltas:    append([]IndexDelta(nil), t.IndexDeltas...),
	}
	if w.Prefactor.Rat == nil {
		w.Prefactor = R(1)
	}
	for _, c := range t.Coefficients {
		w.Coefficients = append(w.Coefficients, c.Clone())
	}
	return w
}

func (w WickTerm) Clone() WickTerm {
	out := WickTerm{
		Prefactor:      w.Prefactor,
		Sums:           w.Sums.Clone(),
		MomentumDeltas: append([]MomentumDelta(nil), w.MomentumDeltas...),
		IndexDeltas:    append([]IndexDelta(nil), w.IndexDeltas...),
	}
	for _, c := range w.Coefficients {
		out.Coefficients = append(out.Coefficients, c.Clone())
	}
	for _, op := range w.Operators {
		out.Operators = append(out.Operators, op.Clone())
	}
	return out
}

// IsIdentity reports a term without expectation values.
func (w WickTerm) IsIdentity() bool { return len(w.Operators) == 0 }

// IncludesType reports whether any operator is of type t.
func (w WickTerm) IncludesType(t OperatorType) bool {
	for _, op := range w.Operators {
		if op.Type == t {
			return true
		}
	}
	return false
}

// UsesIndex reports whether idx occurs on an operator, a coefficient or a delta.
func (w WickTerm) UsesIndex(idx Index) bool {
	for _, op := range w.Operators {
		for _, i := range op.Indices {
			if i == idx {
				return true
			}
		}
	}
	for _, c := range w.Coefficients {
		for _, i := range c.Indices {
			if i == idx {
				return true
			}
		}
	}
	for _, d := range w.IndexDeltas {
		if d.First == idx || d.Second == idx {
			return true
		}
	}
	return false
}

// eachMomentum visits every momentum in canonical order: operators,
// coefficients, then deltas.
func (w WickTerm) eachMomentum(fn func(Momentum)) {
	for _, op := range w.Operators {
		fn(op.Momentum)
	}
	for _, c := range w.Coefficients {
		for _, m := range c.Momenta {
			fn(m)
		}
	}
	for _, d := range w.MomentumDeltas {
		fn(d.First)
		fn(d.Second)
	}
}

// mapMomenta rewrites every momentum of the term in place.
func (w *WickTerm) mapMomenta(fn func(Momentum) Momentum) {
	for i := range w.Operators {
		w.Operators[i].Momentum = fn(w.Operators[i].Momentum)
	}
	for i := range w.Coefficients {
		for j := range w.Coefficients[i].Momenta {
			w.Coefficients[i].Momenta[j] = fn(w.Coefficients[i].Momenta[j])
		}
	}
	for i, d := range w.MomentumDeltas {
		w.MomentumDeltas[i] = Delta(fn(d.First), fn(d.Second))
	}
}

// mapIndices rewrites every index of the term in place.
func (w *WickTerm) mapIndices(fn func(Index) Index) {
	for i := range w.Operators {
		for j := range w.Operators[i].Indices {
			w.Operators[i].Indices[j] = fn(w.Operators[i].Indices[j])
		}
	}
	for i := range w.Coefficients {
		for j := range w.Coefficients[i].Indices {
			w.Coefficients[i].Indices[j] = fn(w.Coefficients[i].Indices[j])
		}
	}
	for i, d := range w.IndexDeltas {
		w.IndexDeltas[i] = Delta(fn(d.First), fn(d.Second))
	}
}

// SameStructure compares everything except the prefactor.
func (w WickTerm) SameStructure(o WickTerm) bool {
	if len(w.Coefficients) != len(o.Coefficients) || len(w.Operators) != len(o.Operators) {
		return false
	}
	for i := range w.Coefficients {
		if !w.Coefficients[i].Equal(o.Coefficients[i]) {
			return false
		}
	}
	for i := range w.Operators {
		if !w.Operators[i].Equal(o.Operators[i]) {
			return false
		}
	}
	return w.Sums.Equal(o.Sums) &&
		deltaSetsEqual(w.MomentumDeltas, o.MomentumDeltas) &&
		deltaSetsEqual(w.IndexDeltas, o.IndexDeltas)
}

func (w WickTerm) Equal(o WickTerm) bool {
	return w.Prefactor.Cmp(o.Prefactor) == 0 && w.SameStructure(o)
}

// structureKey is a string that identifies SameStructure classes of
// canonical terms.
func (w WickTerm) structureKey() string {
	c := w.Clone()
	c.Prefactor = R(1)
	return c.String()
}

// String uses the notation accepted by ParseWickTerm.
func (w WickTerm) String() string {
	parts := []string{w.Prefactor.String()}
	if !w.Sums.IsEmpty() {
		parts = append(parts, w.Sums.String())
	}
	for _, c := range w.Coefficients {
		parts = append(parts, "c:"+c.String())
	}
	for _, d := range w.MomentumDeltas {
		parts = append(parts, "delta:momentum{"+d.First.String()+","+d.Second.String()+"}")
	}
	for _, d := range w.IndexDeltas {
		parts = append(parts, "delta:index{"+d.First.String()+","+d.Second.String()+"}")
	}
	for _, op := range w.Operators {
		parts = append(parts, "o:"+op.String())
	}
	return strings.Join(parts, " ")
}

func (w WickTerm) LaTeX() string {
	var b strings.Builder
	b.WriteString(w.Prefactor.LaTeX() + ` \cdot `)
	b.WriteString(w.Sums.LaTeX())
	for _, c := range w.Coefficients {
		b.WriteString(c.LaTeX() + " ")
	}
	for _, d := range w.MomentumDeltas {
		b.WriteString(d.LaTeX() + " ")
	}
	for _, d := range w.IndexDeltas {
		b.WriteString(d.LaTeX() + " ")
	}
	if w.IsIdentity() {
		b.WriteString(`\mathbb{1} `)
	}
	for _, op := range w.Operators {
		b.WriteString(op.LaTeX() + " ")
	}
	return strings.TrimSpace(b.String())
}

// ============================================================
// Collector
// ============================================================

// WickTermCollector is an ordered sum of WickTerms.
type WickTermCollector []WickTerm

func (c WickTermCollector) Clone() WickTermCollector {
	if c == nil {
		return nil
	}
	out := make(WickTermCollector, len(c))
	for i, t := range c {
		out[i] = t.Clone()
	}
	return out
}

func (c WickTermCollector) Equal(o WickTermCollector) bool {
	if len(c) != len(o) {
		return false
	}
	for i := range c {
		if !c[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

// Add merges t into the collector: a structurally equal term absorbs its
// prefactor (and vanishes when the sum is zero), otherwise t is appended.
func (c WickTermCollector) Add(t WickTerm) WickTermCollector {
	for i := range c {
		if c[i].SameStructure(t) {
			c[i].Prefactor = c[i].Prefactor.Add(t.Prefactor)
			if c[i].Prefactor.IsZero() {
				return append(c[:i], c[i+1:]...)
			}
			return c
		}
	}
	return append(c, t)
}

// CountType counts terms that include an operator of type t.
func (c WickTermCollector) CountType(t OperatorType) int {
	n := 0
	for _, w := range c {
		if w.IncludesType(t) {
			n++
		}
	}
	return n
}

func (c WickTermCollector) String() string {
	lines := make([]string, len(c))
	for i, t := range c {
		lines[i] = t.String()
	}
	return strings.Join(lines, "\n")
}

// LaTeX renders the sum as rows of an align environment.
func (c WickTermCollector) LaTeX() string {
	if len(c) == 0 {
		return "0"
	}
	var b strings.Builder
	b.WriteString(`\begin{align*}` + "\n")
	for i, t := range c {
		b.WriteString("\t&" + t.LaTeX())
		if i < len(c)-1 {
			b.WriteString(` \\`)
		}
		b.WriteString("\n")
	}
	b.WriteString(`\end{align*}`)
	return b.String()
}
