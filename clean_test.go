package gowick_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gowick"
)

func assertCollector(t *testing.T, want []string, got gowick.WickTermCollector) {
	t.Helper()
	lines := make([]string, len(got))
	for i, w := range got {
		lines[i] = w.String()
	}
	assert.Equal(t, want, lines)
}

// ============================================================
// Delta resolution
// ============================================================

func TestCleanWicks_SummedMomentumDelta(t *testing.T) {
	in := mustWickTerms(t, "1 sum:momentum{q} delta:momentum{q,k} o:n{q;up}")
	assertCollector(t, []string{"1 o:n{k;up}"}, gowick.CleanWicks(in))
}

func TestCleanWicks_FreeMomentumDeltaKept(t *testing.T) {
	in := mustWickTerms(t, "1 delta:momentum{k,q} o:n{q;up}")
	assertCollector(t, []string{"1 delta:momentum{q,k} o:n{k;up}"}, gowick.CleanWicks(in))
}

func TestCleanWicks_SummedSpinDelta(t *testing.T) {
	in := mustWickTerms(t, "1 sum:index{sigma} delta:index{sigma,down} o:n{k;sigma}")
	assertCollector(t, []string{"1 o:n{k;down}"}, gowick.CleanWicks(in))
}

func TestCleanWicks_ContradictionEliminated(t *testing.T) {
	in := mustWickTerms(t,
		"1 delta:index{sigma,up} delta:index{sigma,down} o:n{k;sigma}",
		"1 sum:index{sigma} delta:index{sigma,up} delta:index{sigma,down} o:n{k;sigma}",
		"1 delta:momentum{k,0} delta:momentum{k,Q} o:n{k;up}",
		"1 delta:momentum{k,k+Q} o:n{k;up}",
		"2 o:n{q;down}",
	)
	assertCollector(t, []string{"2 o:n{q;down}"}, gowick.CleanWicks(in))
}

func TestCleanWicks_DuplicateDeltasCollapse(t *testing.T) {
	in := mustWickTerms(t, "1 delta:momentum{k,q} delta:momentum{q,k} o:n{k;up}")
	assertCollector(t, []string{"1 delta:momentum{q,k} o:n{k;up}"}, gowick.CleanWicks(in))
}

// ============================================================
// Canonical form
// ============================================================

func TestCleanWicks_UnusedSpinSumDoubles(t *testing.T) {
	in := mustWickTerms(t, "1 sum:index{sigma} o:n{k;up}")
	assertCollector(t, []string{"2 o:n{k;up}"}, gowick.CleanWicks(in))
}

func TestCleanWicks_CDWAtQ(t *testing.T) {
	in := mustWickTerms(t, "1 o:g{k+Q;up}")
	assertCollector(t, []string{"1 o:g{k;up}^+"}, gowick.CleanWicks(in))
}

func TestCleanWicks_RenamesSums(t *testing.T) {
	in := mustWickTerms(t,
		"1 sum:momentum{a} o:n{a;up}",
		"1 sum:momentum{z} o:n{z;up}",
	)
	assertCollector(t, []string{"2 sum:momentum{p} o:n{p;up}"}, gowick.CleanWicks(in))
}

func TestCleanWicks_InvertsSummedMomentum(t *testing.T) {
	in := mustWickTerms(t, "1 sum:momentum{q} o:n{k-q;up}")
	assertCollector(t, []string{"1 sum:momentum{p} o:n{k+p;up}"}, gowick.CleanWicks(in))
}

func TestCleanWicks_Symmetries(t *testing.T) {
	in := mustWickTerms(t,
		"1 o:n{-k;down}",
		"1 o:n{k;up}",
		"1 o:f{k;}^+",
		"-1 o:f{k;}",
	)
	got := gowick.CleanWicks(in,
		gowick.SpinFold(),
		gowick.MomentumFlip(),
		gowick.Phase(gowick.SCType),
	)
	assertCollector(t, []string{"2 o:n{k;up}"}, got)
}

func TestCleanWicks_CoefficientSymmetries(t *testing.T) {
	w, err := gowick.ParseWickTerm("1 o:n{k;up}")
	require.NoError(t, err)
	w.Coefficients = []gowick.Coefficient{{
		Name:               "eps",
		Momenta:            []gowick.Momentum{gowick.MustParseMomentum("-k+Q")},
		InversionSymmetric: true,
		QChangesSign:       true,
	}}
	got := gowick.CleanWicks(gowick.WickTermCollector{w})
	assertCollector(t, []string{"-1 c:eps{k;} o:n{k;up}"}, got)
}

func TestCleanWicks_DropsZeros(t *testing.T) {
	in := mustWickTerms(t, "1 o:n{k;up}", "0 o:n{q;up}", "-1 o:n{k;up}")
	assert.Empty(t, gowick.CleanWicks(in))
}

func TestCleanWicks_DoesNotModifyInput(t *testing.T) {
	in := mustWickTerms(t, "1 sum:momentum{q} delta:momentum{q,k} o:n{q;up}")
	before := in.String()
	gowick.CleanWicks(in, gowick.SpinFold())
	assert.Equal(t, before, in.String())
}

// ============================================================
// Whole pipeline
// ============================================================

func bcsTerms(t *testing.T) []gowick.Term {
	t.Helper()
	terms := mustTerms(t,
		"sum:momentum{k} sum:index{sigma} c:eps{k;} c{k;sigma}^+ c{k;sigma}",
		"-1 sum:momentum{k,q} c:U{;} c{k;up}^+ c{-k;down}^+ c{-q;down} c{q;up}",
	)
	terms[0].Coefficients[0].InversionSymmetric = true
	return terms
}

func TestPipeline_BCSMeanField(t *testing.T) {
	raw, err := gowick.WicksTheorem(bcsTerms(t), pairing)
	require.NoError(t, err)
	got := gowick.CleanWicks(gowick.ClearEtas(raw), gowick.SpinFold(), gowick.MomentumFlip())
	assertCollector(t, []string{
		"1 sum:momentum{p} sum:index{sigma} c:eps{p;} o:n{p;sigma}",
		"-1 sum:momentum{p,q} c:U{;} o:f{p;}^+ o:f{q;}",
		"-1 sum:momentum{p} c:U{;} o:n{p;up} o:n{p;up}",
	}, got)
}

func TestCleanWicks_Idempotent(t *testing.T) {
	hubbard := []gowick.WickOperatorTemplate{
		pairing[0], pairing[1], pairing[2],
		{
			Indices:            []gowick.IndexComparison{{AnyIdentical: true}},
			MomentumDifference: gowick.MomQ(),
			Type:               gowick.CDWType,
		},
	}
	terms := append(bcsTerms(t), mustTerms(t,
		"sum:momentum{k,l,q} c:U{;} c{k+q;up}^+ c{l-q;down}^+ c{l;down} c{k;up}",
		"sum:momentum{k} sum:index{sigma} c{k;sigma}^+ c{k+Q;sigma}",
	)...)
	raw, err := gowick.WicksTheorem(terms, hubbard)
	require.NoError(t, err)

	for _, syms := range [][]gowick.Symmetry{
		nil,
		{gowick.SpinFold(), gowick.MomentumFlip()},
		{gowick.SpinFold(), gowick.Phase(gowick.SCType, gowick.CDWType)},
	} {
		once := gowick.CleanWicks(raw, syms...)
		twice := gowick.CleanWicks(once, syms...)
		assert.True(t, once.Equal(twice), "once:\n%s\ntwice:\n%s", once, twice)
		assert.NotEmpty(t, once)
	}
}
