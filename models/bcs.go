package models

import "github.com/njchilds90/gowick"

// BCS is the reduced pairing Hamiltonian
//
//	H = Σ_{q,σ} ε(q) c^†_{qσ} c_{qσ} - V Σ_{k,q} c^†_{k↑} c^†_{-k↓} c_{-q↓} c_{q↑}.
type BCS struct{}

func (BCS) Name() string { return "bcs" }

func (BCS) Hamiltonian() []gowick.Term {
	pairing := gowick.Term{
		Prefactor:    gowick.R(-1),
		Coefficients: []gowick.Coefficient{{Name: "V"}},
		Sums:         gowick.SumMomenta('k', 'q'),
		Operators: []gowick.Operator{
			gowick.CDag(mom("k"), up),
			gowick.CDag(mom("-k"), down),
			gowick.C(mom("-q"), down),
			gowick.C(mom("q"), up),
		},
	}
	return []gowick.Term{kinetic(), pairing}
}

func (BCS) Templates() []gowick.WickOperatorTemplate {
	return []gowick.WickOperatorTemplate{
		scTemplate(gowick.SCType, gowick.Momentum{}),
		numberTemplate(gowick.NumberType, gowick.Momentum{}),
	}
}

func (BCS) Symmetries() []gowick.Symmetry {
	return []gowick.Symmetry{gowick.SpinFold(), gowick.MomentumFlip()}
}
