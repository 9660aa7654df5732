package gowick

import (
	"strings"
)

// SymmetryKind enumerates the supported symmetry rewrites.
type SymmetryKind int

const (
	// SymmetrySpinFold maps spin down onto spin up (spin degeneracy).
	SymmetrySpinFold SymmetryKind = iota
	// SymmetryMomentumFlip negates operator momenta with a negative
	// leading coefficient (inversion symmetry).
	SymmetryMomentumFlip
	// SymmetryPhase drops the dagger of the listed operator types (real
	// expectation values).
	SymmetryPhase
)

// Symmetry is one rewrite applied during cleanup. Types is only read by
// SymmetryPhase.
type Symmetry struct {
	Kind  SymmetryKind
	Types []OperatorType
}

func SpinFold() Symmetry     { return Symmetry{Kind: SymmetrySpinFold} }
func MomentumFlip() Symmetry { return Symmetry{Kind: SymmetryMomentumFlip} }

func Phase(types ...OperatorType) Symmetry {
	return Symmetry{Kind: SymmetryPhase, Types: types}
}

// Apply rewrites w in place.
func (s Symmetry) Apply(w *WickTerm) {
	switch s.Kind {
	case SymmetrySpinFold:
		for i := range w.Operators {
			for j, idx := range w.Operators[i].Indices {
				if idx == IndexSpinDown {
					w.Operators[i].Indices[j] = IndexSpinUp
				}
			}
		}
	case SymmetryMomentumFlip:
		for i := range w.Operators {
			if w.Operators[i].Momentum.LeadingNegative() {
				w.Operators[i].Momentum = w.Operators[i].Momentum.Neg()
			}
		}
	case SymmetryPhase:
		for i := range w.Operators {
			for _, t := range s.Types {
				if w.Operators[i].Type == t {
					w.Operators[i].Daggered = false
				}
			}
		}
	}
}

func (s Symmetry) String() string {
	switch s.Kind {
	case SymmetrySpinFold:
		return "spin-fold"
	case SymmetryMomentumFlip:
		return "momentum-flip"
	case SymmetryPhase:
		names := make([]string, len(s.Types))
		for i, t := range s.Types {
			names[i] = t.String()
			if t == EtaType {
				names[i] = "eta"
			}
		}
		return "phase:" + strings.Join(names, ",")
	}
	return "unknown"
}

// ParseSymmetry accepts "spin-fold", "momentum-flip" and "phase:f,g".
func ParseSymmetry(s string) (Symmetry, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "spin-fold":
		return SpinFold(), nil
	case "momentum-flip":
		return MomentumFlip(), nil
	}
	rest, ok := strings.CutPrefix(s, "phase:")
	if !ok {
		return Symmetry{}, &ParseError{Input: s, Reason: "unknown symmetry"}
	}
	var types []OperatorType
	for _, name := range strings.Split(rest, ",") {
		t, err := ParseOperatorType(name)
		if err != nil {
			return Symmetry{}, err
		}
		types = append(types, t)
	}
	return Phase(types...), nil
}

// ParseSymmetries parses a list of symmetry names.
func ParseSymmetries(names []string) ([]Symmetry, error) {
	out := make([]Symmetry, 0, len(names))
	for _, n := range names {
		s, err := ParseSymmetry(n)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
