package gowick

import (
	"sort"
)

// ============================================================
// Cleanup
// ============================================================

const (
	maxCleanPasses = 16
	maxDeltaSweeps = 256
)

// summedMomentumNames is the renaming pool for summed momenta. It is
// ascending so that renaming by first appearance preserves operator order.
var summedMomentumNames = []Symbol("pqrstuvwxyz")

// CleanWicks brings every term into canonical form and merges equal terms.
//
// Each term is iterated to a fixed point of: apply symmetries, resolve
// deltas, canonicalize. Terms with a contradictory constraint vanish.
// Structurally equal terms are merged into the first occurrence and terms
// whose prefactors cancel are dropped. The input is not modified, and
// CleanWicks(CleanWicks(x)) equals CleanWicks(x).
func CleanWicks(terms WickTermCollector, symmetries ...Symmetry) WickTermCollector {
	out := make(WickTermCollector, 0, len(terms))
	slot := make(map[string]int, len(terms))
	for _, t := range terms {
		if t.Prefactor.IsZero() {
			continue
		}
		w, ok, _ := cleanTerm(t, symmetries)
		if !ok {
			continue
		}
		key := w.structureKey()
		if i, seen := slot[key]; seen {
			out[i].Prefactor = out[i].Prefactor.Add(w.Prefactor)
			continue
		}
		slot[key] = len(out)
		out = append(out, w)
	}
	res := out[:0]
	for _, w := range out {
		if !w.Prefactor.IsZero() {
			res = append(res, w)
		}
	}
	return res
}

// cleanTerm iterates one term to its fixed point. ok is false when the term
// vanishes; converged is false when maxCleanPasses ran out first.
func cleanTerm(t WickTerm, symmetries []Symmetry) (w WickTerm, ok, converged bool) {
	w = t.Clone()
	for pass := 0; pass < maxCleanPasses; pass++ {
		before := w.Clone()
		for _, s := range symmetries {
			s.Apply(&w)
		}
		if !w.resolveIndexDeltas() || !w.resolveMomentumDeltas() {
			return WickTerm{}, false, true
		}
		w.canonicalize()
		if w.Equal(before) {
			return w, true, true
		}
	}
	return w, true, false
}

// ------------------------------------------------------------
// Delta resolution
// ------------------------------------------------------------

// resolveIndexDeltas eliminates index deltas. It returns false when the term
// carries a contradiction.
func (w *WickTerm) resolveIndexDeltas() bool {
	for sweep := 0; sweep < maxDeltaSweeps; sweep++ {
		changed := false
		for i := 0; i < len(w.IndexDeltas) && !changed; i++ {
			d := w.IndexDeltas[i]
			if d.IsOne() {
				w.IndexDeltas = removeAt(w.IndexDeltas, i)
				changed = true
				break
			}
			if indexDeltaImpossible(d) {
				return false
			}
			from, to := indexPivot(d, w.Sums)
			if w.Sums.HasSpin(from) {
				w.IndexDeltas = removeAt(w.IndexDeltas, i)
				w.replaceIndex(from, to, -1)
				w.Sums.RemoveSpin(from)
				changed = true
				break
			}
			if d.First != from {
				w.IndexDeltas[i] = Delta(from, to)
				changed = true
			}
			if w.replaceIndex(from, to, i) {
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	w.IndexDeltas = compactDeltas(w.IndexDeltas)
	for _, d := range w.IndexDeltas {
		if indexDeltaImpossible(d) {
			return false
		}
	}
	return true
}

// indexPivot picks the side of d to eliminate: a summed variable first, then
// any variable, and between two free variables the later one.
func indexPivot(d IndexDelta, sums SumContainer) (from, to Index) {
	a, b := d.First, d.Second
	switch {
	case a.IsMutable() && sums.HasSpin(a):
		return a, b
	case b.IsMutable() && sums.HasSpin(b):
		return b, a
	case a.IsMutable() && !b.IsMutable():
		return a, b
	case b.IsMutable() && !a.IsMutable():
		return b, a
	case a > b:
		return a, b
	}
	return b, a
}

// replaceIndex substitutes from → to everywhere except in the index delta at
// position skip. It reports whether anything changed.
func (w *WickTerm) replaceIndex(from, to Index, skip int) bool {
	changed := false
	sub := func(i Index) Index {
		if i == from {
			changed = true
			return to
		}
		return i
	}
	for i := range w.Operators {
		for j := range w.Operators[i].Indices {
			w.Operators[i].Indices[j] = sub(w.Operators[i].Indices[j])
		}
	}
	for i := range w.Coefficients {
		for j := range w.Coefficients[i].Indices {
			w.Coefficients[i].Indices[j] = sub(w.Coefficients[i].Indices[j])
		}
	}
	for i, d := range w.IndexDeltas {
		if i != skip {
			w.IndexDeltas[i] = Delta(sub(d.First), sub(d.Second))
		}
	}
	return changed
}

// resolveMomentumDeltas eliminates momentum deltas. It returns false when the
// term carries a contradiction.
func (w *WickTerm) resolveMomentumDeltas() bool {
	for sweep := 0; sweep < maxDeltaSweeps; sweep++ {
		changed := false
		for i := 0; i < len(w.MomentumDeltas) && !changed; i++ {
			d := w.MomentumDeltas[i]
			diff := d.First.Sub(d.Second)
			if diff.IsZero() {
				w.MomentumDeltas = removeAt(w.MomentumDeltas, i)
				changed = true
				break
			}
			if diff.IsQ() {
				return false
			}
			pivot, ok := momentumPivot(diff, w.Sums)
			if !ok {
				if d.First.Compare(d.Second) > 0 {
					w.MomentumDeltas[i] = Delta(d.Second, d.First)
					changed = true
				}
				continue
			}
			// f·pivot + rest = 0 with f = ±1
			solution := diff.without(pivot).Scale(-diff.Factor(pivot))
			if w.Sums.HasMomentum(pivot) {
				w.MomentumDeltas = removeAt(w.MomentumDeltas, i)
				w.replaceMomentum(pivot, solution, -1)
				w.Sums.RemoveMomentum(pivot)
				changed = true
				break
			}
			oriented := Delta(Mom(rune(pivot)), solution)
			if !d.First.Equal(oriented.First) || !d.Second.Equal(oriented.Second) {
				w.MomentumDeltas[i] = oriented
				changed = true
			}
			if w.replaceMomentum(pivot, solution, i) {
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	w.MomentumDeltas = compactDeltas(w.MomentumDeltas)
	for _, d := range w.MomentumDeltas {
		if momentumDeltaImpossible(d) {
			return false
		}
	}
	return true
}

// momentumPivot picks a symbol with coefficient ±1: a summed one if
// possible, otherwise the one with the greatest name.
func momentumPivot(diff Momentum, sums SumContainer) (Symbol, bool) {
	for _, s := range sums.Momenta {
		if absInt(diff.Factor(s)) == 1 {
			return s, true
		}
	}
	for i := len(diff.Terms) - 1; i >= 0; i-- {
		if absInt(diff.Terms[i].Factor) == 1 {
			return diff.Terms[i].Name, true
		}
	}
	return 0, false
}

// replaceMomentum substitutes name → with everywhere except in the momentum
// delta at position skip. It reports whether anything changed.
func (w *WickTerm) replaceMomentum(name Symbol, with Momentum, skip int) bool {
	changed := false
	sub := func(m Momentum) Momentum {
		if m.Uses(name) {
			changed = true
			return m.Replace(name, with)
		}
		return m
	}
	for i := range w.Operators {
		w.Operators[i].Momentum = sub(w.Operators[i].Momentum)
	}
	for i := range w.Coefficients {
		for j := range w.Coefficients[i].Momenta {
			w.Coefficients[i].Momenta[j] = sub(w.Coefficients[i].Momenta[j])
		}
	}
	for i, d := range w.MomentumDeltas {
		if i != skip {
			w.MomentumDeltas[i] = Delta(sub(d.First), sub(d.Second))
		}
	}
	return changed
}

// ------------------------------------------------------------
// Canonical form
// ------------------------------------------------------------

func (w *WickTerm) canonicalize() {
	// Σ_σ over a spin nothing depends on is a factor 2.
	for _, s := range append([]Index(nil), w.Sums.Spins...) {
		if s.IsMutable() && !w.UsesIndex(s) {
			w.Sums.RemoveSpin(s)
			w.Prefactor = w.Prefactor.MulInt(2)
		}
	}

	for i := range w.Coefficients {
		c := &w.Coefficients[i]
		for j, m := range c.Momenta {
			if c.QChangesSign && m.AddQ {
				m.AddQ = false
				w.Prefactor = w.Prefactor.Neg()
			}
			if c.InversionSymmetric && m.LeadingNegative() {
				m = m.Neg()
			}
			c.Momenta[j] = m
		}
	}

	// g(k+Q) = g(k)^†
	for i := range w.Operators {
		op := &w.Operators[i]
		if op.Type == CDWType && op.Momentum.AddQ {
			op.Momentum.AddQ = false
			op.Daggered = !op.Daggered
		}
	}

	sort.SliceStable(w.Operators, func(i, j int) bool { return w.Operators[i].compare(w.Operators[j]) < 0 })
	// Σ_q f(-q) = Σ_q f(q)
	for _, s := range w.Sums.Momenta {
		if w.firstFactor(s) < 0 {
			w.mapMomenta(func(m Momentum) Momentum { return m.FlipSingle(s) })
		}
	}
	w.renameSummedMomenta()
	w.renameSummedSpins()

	sort.SliceStable(w.Operators, func(i, j int) bool { return w.Operators[i].compare(w.Operators[j]) < 0 })
	sort.SliceStable(w.Coefficients, func(i, j int) bool { return w.Coefficients[i].compare(w.Coefficients[j]) < 0 })
	for i, d := range w.IndexDeltas {
		from, to := indexPivot(d, SumContainer{})
		w.IndexDeltas[i] = Delta(from, to)
	}
	sort.SliceStable(w.IndexDeltas, func(i, j int) bool {
		a, b := w.IndexDeltas[i], w.IndexDeltas[j]
		if a.First != b.First {
			return a.First < b.First
		}
		return a.Second < b.Second
	})
	sort.SliceStable(w.MomentumDeltas, func(i, j int) bool {
		a, b := w.MomentumDeltas[i], w.MomentumDeltas[j]
		if r := a.First.Compare(b.First); r != 0 {
			return r < 0
		}
		return a.Second.Compare(b.Second) < 0
	})
	w.Sums.sort()
}

// firstFactor returns the coefficient of s at its first occurrence, or 0.
func (w WickTerm) firstFactor(s Symbol) int {
	f := 0
	w.eachMomentum(func(m Momentum) {
		if f == 0 {
			f = m.Factor(s)
		}
	})
	return f
}

func (w *WickTerm) renameSummedMomenta() {
	if len(w.Sums.Momenta) == 0 {
		return
	}
	var order []Symbol
	seen := map[Symbol]bool{}
	w.eachMomentum(func(m Momentum) {
		for _, s := range m.Symbols() {
			if w.Sums.HasMomentum(s) && !seen[s] {
				seen[s] = true
				order = append(order, s)
			}
		}
	})
	for _, s := range w.Sums.Momenta {
		if !seen[s] {
			seen[s] = true
			order = append(order, s)
		}
	}

	free := map[Symbol]bool{}
	w.eachMomentum(func(m Momentum) {
		for _, s := range m.Symbols() {
			if !w.Sums.HasMomentum(s) {
				free[s] = true
			}
		}
	})
	table := make(map[Symbol]Symbol, len(order))
	pool := summedMomentumNames
	for _, s := range order {
		for len(pool) > 0 && free[pool[0]] {
			pool = pool[1:]
		}
		if len(pool) == 0 {
			return
		}
		table[s] = pool[0]
		pool = pool[1:]
	}
	w.mapMomenta(func(m Momentum) Momentum { return m.Rename(table) })
	for i, s := range w.Sums.Momenta {
		w.Sums.Momenta[i] = table[s]
	}
}

func (w *WickTerm) renameSummedSpins() {
	if len(w.Sums.Spins) == 0 {
		return
	}
	var order []Index
	seen := map[Index]bool{}
	visit := func(i Index) {
		if w.Sums.HasSpin(i) && !seen[i] {
			seen[i] = true
			order = append(order, i)
		}
	}
	for _, op := range w.Operators {
		for _, i := range op.Indices {
			visit(i)
		}
	}
	for _, c := range w.Coefficients {
		for _, i := range c.Indices {
			visit(i)
		}
	}
	for _, d := range w.IndexDeltas {
		visit(d.First)
		visit(d.Second)
	}
	for _, i := range w.Sums.Spins {
		visit(i)
	}

	table := make(map[Index]Index, len(order))
	pool := spinVariables
	for _, s := range order {
		if !s.IsMutable() {
			table[s] = s
			continue
		}
		for len(pool) > 0 && w.UsesIndex(pool[0]) && !w.Sums.HasSpin(pool[0]) {
			pool = pool[1:]
		}
		if len(pool) == 0 {
			return
		}
		table[s] = pool[0]
		pool = pool[1:]
	}
	w.mapIndices(func(i Index) Index {
		if to, ok := table[i]; ok {
			return to
		}
		return i
	})
	for i, s := range w.Sums.Spins {
		w.Sums.Spins[i] = table[s]
	}
}

func removeAt[T any](list []T, i int) []T {
	out := make([]T, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...)
}
