package models

import (
	"context"

	"github.com/njchilds90/gowick"
)

// Options tune an expansion run.
type Options struct {
	// Workers bounds the parallel expansion; 0 uses GOMAXPROCS.
	Workers   int
	ClearEtas bool
	// Symmetries replace the model's own when non-nil.
	Symmetries []gowick.Symmetry
	// Raw skips CleanWicks.
	Raw bool
}

// Expand contracts terms (the model Hamiltonian when terms is empty) with the
// model templates and cleans the result.
func Expand(ctx context.Context, m Model, terms []gowick.Term, opts Options) (gowick.WickTermCollector, error) {
	if len(terms) == 0 {
		terms = m.Hamiltonian()
	}
	out, err := gowick.WicksTheoremParallel(ctx, terms, m.Templates(), opts.Workers)
	if err != nil {
		return nil, err
	}
	if opts.ClearEtas {
		out = gowick.ClearEtas(out)
	}
	if opts.Raw {
		return out, nil
	}
	syms := opts.Symmetries
	if syms == nil {
		syms = m.Symmetries()
	}
	return gowick.CleanWicks(out, syms...), nil
}
