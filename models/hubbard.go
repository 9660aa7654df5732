package models

import "github.com/njchilds90/gowick"

// Hubbard is the momentum-space Hubbard model at half filling with
// superconducting, η-pairing, number and charge density wave channels.
// Extended adds a spin-independent nearest-neighbour interaction Ṽ(q).
type Hubbard struct {
	Extended bool
}

func (h Hubbard) Name() string {
	if h.Extended {
		return "hubbard-extended"
	}
	return "hubbard"
}

func (h Hubbard) Hamiltonian() []gowick.Term {
	onsite := gowick.Term{
		Prefactor:    gowick.R(1),
		Coefficients: []gowick.Coefficient{{Name: `\frac{U}{N}`}},
		Sums:         gowick.SumMomenta('r', 'p', 'q'),
		Operators: []gowick.Operator{
			gowick.CDag(mom("r"), up),
			gowick.CDag(mom("p"), down),
			gowick.C(mom("p-q"), down),
			gowick.C(mom("r+q"), up),
		},
	}
	terms := []gowick.Term{kinetic(), onsite}
	if !h.Extended {
		return terms
	}
	sigmaPrime := gowick.IndexSigmaPrime
	nearest := gowick.Term{
		Prefactor: gowick.R(1),
		Coefficients: []gowick.Coefficient{{
			Name:               `\tilde{V}`,
			Momenta:            []gowick.Momentum{mom("q")},
			InversionSymmetric: true,
			QChangesSign:       true,
		}},
		Sums: gowick.SumContainer{
			Momenta: []gowick.Symbol{'r', 'p', 'q'},
			Spins:   []gowick.Index{sigma, sigmaPrime},
		},
		Operators: []gowick.Operator{
			gowick.CDag(mom("r"), sigma),
			gowick.CDag(mom("p"), sigmaPrime),
			gowick.C(mom("p-q"), sigmaPrime),
			gowick.C(mom("r+q"), sigma),
		},
	}
	return append(terms, nearest)
}

func (Hubbard) Templates() []gowick.WickOperatorTemplate {
	return []gowick.WickOperatorTemplate{
		scTemplate(gowick.SCType, gowick.Momentum{}),
		scTemplate(gowick.EtaType, gowick.MomQ()),
		numberTemplate(gowick.NumberType, gowick.Momentum{}),
		numberTemplate(gowick.CDWType, gowick.MomQ()),
	}
}

func (Hubbard) Symmetries() []gowick.Symmetry {
	return []gowick.Symmetry{
		gowick.SpinFold(),
		gowick.MomentumFlip(),
		gowick.Phase(gowick.SCType, gowick.CDWType),
	}
}
