// Package gowick applies Wick's theorem to products of fermionic and bosonic
// ladder operators and reduces the result to mean-field expectation values.
//
// Overview:
//   - Terms are products of ladder operators with exact rational prefactors,
//     coefficients, momentum and spin sums and Kronecker deltas
//   - WickOperatorTemplate decides which operator pairs contract and into
//     which expectation value (n, g, f or η)
//   - WicksTheorem enumerates every perfect matching with its fermion sign
//   - CleanWicks resolves deltas, applies symmetries, renames summed
//     variables and merges equal terms until the printed form is stable
//   - Every value type renders with String (parsable notation) and LaTeX
package gowick

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ============================================================
// Wick's theorem
// ============================================================

// pairing is one contraction (Left < Right, positions in the input term).
type pairing struct{ Left, Right int }

// matching is a perfect matching of a term's operators with its sign.
type matching struct {
	Pairs []pairing
	Sign  int
}

// IdentifyWickOperators returns the results of every template accepting
// (left, right). Branches with impossible index constraints are pruned and
// results with an impossible momentum constraint are dropped.
func IdentifyWickOperators(left, right Operator, templates []WickOperatorTemplate) ([]TemplateResult, error) {
	var out []TemplateResult
	for _, tmpl := range templates {
		res, err := tmpl.CreateFromOperators(left, right)
		if err != nil {
			return nil, err
		}
		if res == nil {
			continue
		}
		res.Prune()
		if len(res.Branches) == 0 || res.Impossible() {
			continue
		}
		out = append(out, *res)
	}
	return out, nil
}

// WicksTheorem contracts every term into all fully paired expectation-value
// products admitted by templates.
func WicksTheorem(terms []Term, templates []WickOperatorTemplate) (WickTermCollector, error) {
	var out WickTermCollector
	for i, t := range terms {
		res, err := expandTerm(t, templates)
		if err != nil {
			return nil, fmt.Errorf("term %d: %w", i, err)
		}
		out = append(out, res...)
	}
	return out, nil
}

// WicksTheoremParallel is WicksTheorem with terms expanded on up to workers
// goroutines (GOMAXPROCS when workers <= 0). The result is identical to the
// sequential version.
func WicksTheoremParallel(ctx context.Context, terms []Term, templates []WickOperatorTemplate, workers int) (WickTermCollector, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	blocks := make([]WickTermCollector, len(terms))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range terms {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := expandTerm(terms[i], templates)
			if err != nil {
				return fmt.Errorf("term %d: %w", i, err)
			}
			blocks[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	var out WickTermCollector
	for _, b := range blocks {
		out = append(out, b...)
	}
	return out, nil
}

// ClearEtas returns the terms that contain no η expectation value.
func ClearEtas(terms WickTermCollector) WickTermCollector {
	out := make(WickTermCollector, 0, len(terms))
	for _, t := range terms {
		if !t.IncludesType(EtaType) {
			out = append(out, t)
		}
	}
	return out
}

func expandTerm(t Term, templates []WickOperatorTemplate) (WickTermCollector, error) {
	if t.IsIdentity() {
		return WickTermCollector{newWickTerm(t)}, nil
	}
	if len(t.Operators)%2 != 0 {
		return nil, nil
	}
	var out WickTermCollector
	for _, m := range perfectMatchings(t.Operators) {
		res, err := contract(t, m, templates)
		if err != nil {
			return nil, err
		}
		out = append(out, res...)
	}
	return out, nil
}

// contract multiplies out the template results of every pair of m.
func contract(t Term, m matching, templates []WickOperatorTemplate) (WickTermCollector, error) {
	base := newWickTerm(t)
	base.Prefactor = base.Prefactor.MulInt(m.Sign)
	partial := WickTermCollector{base}

	for _, p := range m.Pairs {
		results, err := IdentifyWickOperators(t.Operators[p.Left], t.Operators[p.Right], templates)
		if err != nil {
			return nil, err
		}
		if len(results) == 0 {
			return nil, nil
		}
		var next WickTermCollector
		for _, w := range partial {
			for _, res := range results {
				for _, br := range res.Branches {
					nw := w.Clone()
					nw.Prefactor = nw.Prefactor.MulInt(br.Factor)
					nw.Operators = append(nw.Operators, br.Operator.Clone())
					nw.IndexDeltas = append(nw.IndexDeltas, br.IndexDeltas...)
					if !res.MomentumDelta.IsOne() {
						nw.MomentumDeltas = append(nw.MomentumDeltas, res.MomentumDelta)
					}
					next = append(next, nw)
				}
			}
		}
		partial = next
	}

	out := partial[:0]
	for _, w := range partial {
		if !w.hasImpossibleDelta() {
			out = append(out, w)
		}
	}
	return out, nil
}

func (w WickTerm) hasImpossibleDelta() bool {
	for _, d := range w.IndexDeltas {
		if indexDeltaImpossible(d) {
			return true
		}
	}
	for _, d := range w.MomentumDeltas {
		if momentumDeltaImpossible(d) {
			return true
		}
	}
	return false
}

// perfectMatchings enumerates all (n-1)!! pairings of ops in a fixed order:
// the first remaining operator is paired with each later one in turn. The
// sign is the parity of fermion transpositions needed to bring each pair
// together.
func perfectMatchings(ops []Operator) []matching {
	remaining := make([]int, len(ops))
	for i := range remaining {
		remaining[i] = i
	}
	var out []matching
	var walk func(rest []int, pairs []pairing, sign int)
	walk = func(rest []int, pairs []pairing, sign int) {
		if len(rest) == 0 {
			out = append(out, matching{Pairs: append([]pairing(nil), pairs...), Sign: sign})
			return
		}
		first := rest[0]
		for j := 1; j < len(rest); j++ {
			partner := rest[j]
			s := sign
			if ops[partner].IsFermion {
				for _, between := range rest[1:j] {
					if ops[between].IsFermion {
						s = -s
					}
				}
			}
			left := make([]int, 0, len(rest)-2)
			left = append(left, rest[1:j]...)
			left = append(left, rest[j+1:]...)
			walk(left, append(pairs, pairing{Left: first, Right: partner}), s)
		}
	}
	walk(remaining, nil, 1)
	return out
}
