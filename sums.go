package gowick

import (
	"sort"
	"strings"
)

// SumContainer holds the free summation symbols of a term.
type SumContainer struct {
	Momenta []Symbol
	Spins   []Index
}

// SumMomenta returns a container summing over the given momentum symbols.
func SumMomenta(names ...rune) SumContainer {
	var s SumContainer
	for _, n := range names {
		s.Momenta = append(s.Momenta, Symbol(n))
	}
	return s
}

func (s SumContainer) Clone() SumContainer {
	return SumContainer{
		Momenta: append([]Symbol(nil), s.Momenta...),
		Spins:   append([]Index(nil), s.Spins...),
	}
}

func (s SumContainer) HasMomentum(name Symbol) bool {
	for _, m := range s.Momenta {
		if m == name {
			return true
		}
	}
	return false
}

func (s SumContainer) HasSpin(idx Index) bool {
	for _, i := range s.Spins {
		if i == idx {
			return true
		}
	}
	return false
}

func (s *SumContainer) RemoveMomentum(name Symbol) {
	out := s.Momenta[:0]
	for _, m := range s.Momenta {
		if m != name {
			out = append(out, m)
		}
	}
	s.Momenta = out
}

func (s *SumContainer) RemoveSpin(idx Index) {
	out := s.Spins[:0]
	for _, i := range s.Spins {
		if i != idx {
			out = append(out, i)
		}
	}
	s.Spins = out
}

// Append adds the symbols of o that s does not already hold.
func (s *SumContainer) Append(o SumContainer) {
	for _, m := range o.Momenta {
		if !s.HasMomentum(m) {
			s.Momenta = append(s.Momenta, m)
		}
	}
	for _, i := range o.Spins {
		if !s.HasSpin(i) {
			s.Spins = append(s.Spins, i)
		}
	}
}

func (s SumContainer) IsEmpty() bool { return len(s.Momenta) == 0 && len(s.Spins) == 0 }

func (s SumContainer) Equal(o SumContainer) bool {
	if len(s.Momenta) != len(o.Momenta) || len(s.Spins) != len(o.Spins) {
		return false
	}
	for i := range s.Momenta {
		if s.Momenta[i] != o.Momenta[i] {
			return false
		}
	}
	return indicesEqual(s.Spins, o.Spins)
}

func (s *SumContainer) sort() {
	sortSymbols(s.Momenta)
	sort.Slice(s.Spins, func(i, j int) bool { return s.Spins[i] < s.Spins[j] })
}

func (s SumContainer) String() string {
	var parts []string
	if len(s.Momenta) > 0 {
		names := make([]string, len(s.Momenta))
		for i, m := range s.Momenta {
			names[i] = m.String()
		}
		parts = append(parts, "sum:momentum{"+strings.Join(names, ",")+"}")
	}
	if len(s.Spins) > 0 {
		parts = append(parts, "sum:index{"+indexListString(s.Spins, Index.String)+"}")
	}
	return strings.Join(parts, " ")
}

func (s SumContainer) LaTeX() string {
	var b strings.Builder
	if len(s.Momenta) > 0 {
		names := make([]string, len(s.Momenta))
		for i, m := range s.Momenta {
			names[i] = m.String()
		}
		b.WriteString(`\sum_{` + strings.Join(names, ", ") + `} `)
	}
	if len(s.Spins) > 0 {
		b.WriteString(`\sum_{` + indexListString(s.Spins, Index.LaTeX) + `} `)
	}
	return b.String()
}
