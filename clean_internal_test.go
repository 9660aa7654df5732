package gowick

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanTerm_ConvergesWithinPassLimit(t *testing.T) {
	terms, err := ParseTerms(`
sum:momentum{k} sum:index{sigma} c:eps{k;} c{k;sigma}^+ c{k;sigma}
-1 sum:momentum{k,q} c:V{;} c{k;up}^+ c{-k;down}^+ c{-q;down} c{q;up}
sum:momentum{r,p,q} c:U{;} c{r;up}^+ c{p;down}^+ c{p-q;down} c{r+q;up}
sum:momentum{r,p,q} sum:index{sigma,sigma'} c:W{q;} c{r;sigma}^+ c{p;sigma'}^+ c{p-q;sigma'} c{r+q;sigma}
`)
	require.NoError(t, err)
	sc := IndexComparison{Base: IndexSpinUp, Other: IndexSpinDown}
	same := IndexComparison{AnyIdentical: true}
	templates := []WickOperatorTemplate{
		{Indices: []IndexComparison{sc}, Type: SCType, SCShaped: true},
		{Indices: []IndexComparison{sc}, MomentumDifference: MomQ(), Type: EtaType, SCShaped: true},
		{Indices: []IndexComparison{same}, Type: NumberType},
		{Indices: []IndexComparison{same}, MomentumDifference: MomQ(), Type: CDWType},
	}
	raw, err := WicksTheorem(terms, templates)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	symmetries := []Symmetry{SpinFold(), MomentumFlip(), Phase(SCType, CDWType)}
	for _, w := range raw {
		cleaned, ok, converged := cleanTerm(w, symmetries)
		assert.True(t, converged, "no fixed point for %s", w)
		if !ok {
			continue
		}
		again, ok, converged := cleanTerm(cleaned, symmetries)
		require.True(t, ok, "clean term vanished on second pass: %s", cleaned)
		assert.True(t, converged)
		assert.True(t, cleaned.Equal(again), "%s\n%s", cleaned, again)
	}
}
