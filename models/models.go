// Package models holds ready-made Hamiltonians together with the pairing
// templates and symmetries needed to decouple them.
package models

import (
	"fmt"
	"sort"

	"github.com/njchilds90/gowick"
)

// Model describes a physical system for the contraction engine.
type Model interface {
	Name() string
	Hamiltonian() []gowick.Term
	Templates() []gowick.WickOperatorTemplate
	Symmetries() []gowick.Symmetry
}

var registry = map[string]func() Model{
	"bcs":              func() Model { return BCS{} },
	"hubbard":          func() Model { return Hubbard{} },
	"hubbard-extended": func() Model { return Hubbard{Extended: true} },
}

// ByName looks up a registered model.
func ByName(name string) (Model, error) {
	mk, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown model %q (known: %v)", name, Names())
	}
	return mk(), nil
}

// Names lists the registered models in sorted order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for n := range registry {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

var (
	up    = gowick.IndexSpinUp
	down  = gowick.IndexSpinDown
	sigma = gowick.IndexSigma
)

func mom(s string) gowick.Momentum { return gowick.MustParseMomentum(s) }

// scTemplate pairs c_{-k↓} c_{k↑} (and its conjugate) into f or η.
func scTemplate(t gowick.OperatorType, diff gowick.Momentum) gowick.WickOperatorTemplate {
	return gowick.WickOperatorTemplate{
		Indices:            []gowick.IndexComparison{{Base: up, Other: down}},
		MomentumDifference: diff,
		Type:               t,
		SCShaped:           true,
	}
}

// numberTemplate pairs c^†_{k σ} c_{k+diff σ} into n or g.
func numberTemplate(t gowick.OperatorType, diff gowick.Momentum) gowick.WickOperatorTemplate {
	return gowick.WickOperatorTemplate{
		Indices:            []gowick.IndexComparison{{AnyIdentical: true}},
		MomentumDifference: diff,
		Type:               t,
	}
}

// kinetic is Σ_{q,σ} ε(q) c^†_{qσ} c_{qσ}.
func kinetic() gowick.Term {
	return gowick.Term{
		Prefactor: gowick.R(1),
		Coefficients: []gowick.Coefficient{{
			Name:               `\epsilon_0`,
			Momenta:            []gowick.Momentum{mom("q")},
			InversionSymmetric: true,
		}},
		Sums:      gowick.SumContainer{Momenta: []gowick.Symbol{'q'}, Spins: []gowick.Index{sigma}},
		Operators: []gowick.Operator{gowick.CDag(mom("q"), sigma), gowick.C(mom("q"), sigma)},
	}
}
