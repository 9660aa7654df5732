package gowick

import "fmt"

// ============================================================
// Kronecker deltas
// ============================================================

// DeltaValue is satisfied by Momentum and Index.
type DeltaValue[T any] interface {
	Equal(T) bool
	String() string
	LaTeX() string
}

// KroneckerDelta is an unordered equality constraint between two values.
type KroneckerDelta[T DeltaValue[T]] struct {
	First  T
	Second T
}

type (
	MomentumDelta = KroneckerDelta[Momentum]
	IndexDelta    = KroneckerDelta[Index]
)

// Delta builds δ(a, b).
func Delta[T DeltaValue[T]](a, b T) KroneckerDelta[T] {
	return KroneckerDelta[T]{First: a, Second: b}
}

// IsOne reports a trivially satisfied delta.
func (d KroneckerDelta[T]) IsOne() bool { return d.First.Equal(d.Second) }

// Equal is symmetric: δ(a,b) equals δ(b,a).
func (d KroneckerDelta[T]) Equal(o KroneckerDelta[T]) bool {
	return (d.First.Equal(o.First) && d.Second.Equal(o.Second)) ||
		(d.First.Equal(o.Second) && d.Second.Equal(o.First))
}

func (d KroneckerDelta[T]) String() string {
	return fmt.Sprintf("delta(%s,%s)", d.First.String(), d.Second.String())
}

func (d KroneckerDelta[T]) LaTeX() string {
	return fmt.Sprintf(`\delta_{%s, %s}`, d.First.LaTeX(), d.Second.LaTeX())
}

// indexDeltaImpossible reports two fixed, different values.
func indexDeltaImpossible(d IndexDelta) bool {
	return !d.First.IsMutable() && !d.Second.IsMutable() && d.First != d.Second
}

// momentumDeltaImpossible reports sides that differ only by Q.
func momentumDeltaImpossible(d MomentumDelta) bool {
	return d.First.DiffersOnlyInQ(d.Second)
}

// compactDeltas drops trivially true deltas and collapses duplicates,
// keeping the first occurrence.
func compactDeltas[T DeltaValue[T]](list []KroneckerDelta[T]) []KroneckerDelta[T] {
	out := list[:0:0]
outer:
	for _, d := range list {
		if d.IsOne() {
			continue
		}
		for _, kept := range out {
			if kept.Equal(d) {
				continue outer
			}
		}
		out = append(out, d)
	}
	return out
}

func containsDelta[T DeltaValue[T]](list []KroneckerDelta[T], d KroneckerDelta[T]) bool {
	for _, own := range list {
		if own.Equal(d) {
			return true
		}
	}
	return false
}

// deltaSetsEqual compares delta lists as multisets up to orientation.
func deltaSetsEqual[T DeltaValue[T]](a, b []KroneckerDelta[T]) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
outer:
	for _, d := range a {
		for j, o := range b {
			if !used[j] && d.Equal(o) {
				used[j] = true
				continue outer
			}
		}
		return false
	}
	return true
}
