package gowick

import "fmt"

// ============================================================
// Pairing templates
// ============================================================

// IndexComparison describes what a template requires of one index slot.
// With AnyIdentical the two operators must carry the same index, which is
// copied onto the produced operator. Otherwise the slot must read
// (Base, Other), or (Other, Base) in the swapped branch, and the produced
// operator carries no index for it.
type IndexComparison struct {
	AnyIdentical bool
	Base         Index
	Other        Index
}

// WickOperatorTemplate is a pairing rule: which pairs of operators contract
// into an expectation value of Type.
//
// SC-shaped templates accept two creators or two annihilators; number-shaped
// templates accept a creator followed by an annihilator.
type WickOperatorTemplate struct {
	Indices            []IndexComparison
	MomentumDifference Momentum
	Type               OperatorType
	SCShaped           bool
}

// TemplateBranch is one alternative outcome of a pairing: the produced
// operator with its sign and the index constraints under which it applies.
type TemplateBranch struct {
	Factor      int
	Operator    WickOperator
	IndexDeltas []IndexDelta
}

// TemplateResult holds all branches of one template application. The
// momentum delta applies to every branch.
type TemplateResult struct {
	Branches      []TemplateBranch
	MomentumDelta MomentumDelta
}

// Impossible reports a momentum constraint that can never hold.
func (r TemplateResult) Impossible() bool { return momentumDeltaImpossible(r.MomentumDelta) }

// Prune drops branches with an impossible index delta.
func (r *TemplateResult) Prune() {
	out := r.Branches[:0]
next:
	for _, b := range r.Branches {
		for _, d := range b.IndexDeltas {
			if indexDeltaImpossible(d) {
				continue next
			}
		}
		out = append(out, b)
	}
	r.Branches = out
}

// CreateFromOperators applies the template to the ordered pair (left, right).
// It returns nil when the template does not apply and ErrInvariantViolation
// when a number-shaped template receives a pair that is not normal ordered.
func (t WickOperatorTemplate) CreateFromOperators(left, right Operator) (*TemplateResult, error) {
	if left.IsFermion != right.IsFermion {
		return nil, nil
	}
	if t.SCShaped {
		if left.Daggered != right.Daggered {
			return nil, nil
		}
		return t.scResult(left, right), nil
	}
	if left.Daggered == right.Daggered {
		return nil, nil
	}
	if !left.Daggered {
		return nil, fmt.Errorf("%w: %s template applied to %s %s: creator must come first",
			ErrInvariantViolation, t.Type, left, right)
	}
	return t.numberResult(left, right), nil
}

func (t WickOperatorTemplate) scResult(left, right Operator) *TemplateResult {
	base, other := right, left
	if left.Daggered {
		base, other = left, right
	}
	swapSign := 1
	if left.IsFermion {
		swapSign = -1
	}
	res := &TemplateResult{
		Branches: []TemplateBranch{{
			Factor:   1,
			Operator: WickOperator{Type: t.Type, Daggered: left.Daggered, Momentum: base.Momentum},
		}},
		MomentumDelta: Delta(t.MomentumDifference, base.Momentum.Add(other.Momentum).Neg()),
	}

	for i, cmp := range t.Indices {
		bi, oi := indexAt(base.Indices, i), indexAt(other.Indices, i)
		n := len(res.Branches)
		if cmp.AnyIdentical {
			for j := range res.Branches {
				b := &res.Branches[j]
				b.IndexDeltas = append(b.IndexDeltas, Delta(bi, oi))
				b.Operator.Indices = append(b.Operator.Indices, bi)
			}
			for j := 0; j < n; j++ {
				res.Branches = append(res.Branches, swapBranch(res.Branches[j], swapSign, other.Momentum))
			}
			continue
		}
		for j := 0; j < n; j++ {
			swapped := swapBranch(res.Branches[j], swapSign, other.Momentum)
			swapped.IndexDeltas = append(swapped.IndexDeltas, Delta(bi, cmp.Other), Delta(oi, cmp.Base))
			res.Branches = append(res.Branches, swapped)

			b := &res.Branches[j]
			b.IndexDeltas = append(b.IndexDeltas, Delta(bi, cmp.Base), Delta(oi, cmp.Other))
		}
	}
	for j := range res.Branches {
		res.Branches[j].IndexDeltas = compactDeltas(res.Branches[j].IndexDeltas)
	}
	return res
}

func swapBranch(b TemplateBranch, sign int, m Momentum) TemplateBranch {
	return TemplateBranch{
		Factor: b.Factor * sign,
		Operator: WickOperator{
			Type:     b.Operator.Type,
			Daggered: b.Operator.Daggered,
			Momentum: m,
			Indices:  append([]Index(nil), b.Operator.Indices...),
		},
		IndexDeltas: append([]IndexDelta(nil), b.IndexDeltas...),
	}
}

func (t WickOperatorTemplate) numberResult(left, right Operator) *TemplateResult {
	b := TemplateBranch{
		Factor:   1,
		Operator: WickOperator{Type: t.Type, Momentum: left.Momentum},
	}
	for i, cmp := range t.Indices {
		li, ri := indexAt(left.Indices, i), indexAt(right.Indices, i)
		if cmp.AnyIdentical {
			b.IndexDeltas = append(b.IndexDeltas, Delta(li, ri))
			b.Operator.Indices = append(b.Operator.Indices, li)
			continue
		}
		b.IndexDeltas = append(b.IndexDeltas, Delta(li, cmp.Base), Delta(ri, cmp.Other))
	}
	b.IndexDeltas = compactDeltas(b.IndexDeltas)
	return &TemplateResult{
		Branches:      []TemplateBranch{b},
		MomentumDelta: Delta(t.MomentumDifference, right.Momentum.Sub(left.Momentum)),
	}
}
