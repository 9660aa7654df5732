package gowick

import (
	"fmt"
	"strings"
)

// ============================================================
// Operator (raw creation/annihilation operators)
// ============================================================

// Operator is a fermionic (c) or bosonic (b) ladder operator.
type Operator struct {
	Momentum  Momentum
	Indices   []Index
	Daggered  bool
	IsFermion bool
}

// C returns the fermionic annihilator c_{m, indices}.
func C(m Momentum, indices ...Index) Operator {
	return Operator{Momentum: m, Indices: indices, IsFermion: true}
}

// CDag returns the fermionic creator c^†_{m, indices}.
func CDag(m Momentum, indices ...Index) Operator {
	return Operator{Momentum: m, Indices: indices, Daggered: true, IsFermion: true}
}

// B returns the bosonic annihilator b_{m, indices}.
func B(m Momentum, indices ...Index) Operator {
	return Operator{Momentum: m, Indices: indices}
}

// BDag returns the bosonic creator b^†_{m, indices}.
func BDag(m Momentum, indices ...Index) Operator {
	return Operator{Momentum: m, Indices: indices, Daggered: true}
}

func (o Operator) Clone() Operator {
	o.Indices = append([]Index(nil), o.Indices...)
	return o
}

func (o Operator) Equal(x Operator) bool {
	return o.Daggered == x.Daggered && o.IsFermion == x.IsFermion &&
		o.Momentum.Equal(x.Momentum) && indicesEqual(o.Indices, x.Indices)
}

// HermitianConjugate flips the dagger.
func (o Operator) HermitianConjugate() Operator {
	o = o.Clone()
	o.Daggered = !o.Daggered
	return o
}

func (o Operator) letter() string {
	if o.IsFermion {
		return "c"
	}
	return "b"
}

// String uses the ParseTerm notation, e.g. "c{k;up}^+".
func (o Operator) String() string {
	s := fmt.Sprintf("%s{%s;%s}", o.letter(), o.Momentum.String(), indexListString(o.Indices, Index.String))
	if o.Daggered {
		s += "^+"
	}
	return s
}

func (o Operator) LaTeX() string {
	parts := []string{o.Momentum.LaTeX()}
	for _, idx := range o.Indices {
		parts = append(parts, idx.LaTeX())
	}
	s := fmt.Sprintf("%s_{%s}", o.letter(), strings.Join(parts, ", "))
	if o.Daggered {
		s += `^\dagger`
	}
	return s
}
