package gowick_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gowick"
)

func TestParseTerm_RoundTrip(t *testing.T) {
	in := "-1/2 sum:momentum{k,q} sum:index{sigma} c:V{k,q;} delta:momentum{k,q+Q} delta:index{sigma,up} c{k;sigma}^+ b{q;A}"
	term, err := gowick.ParseTerm(in)
	require.NoError(t, err)
	assert.Equal(t, in, term.String())
	require.Len(t, term.Operators, 2)
	assert.True(t, term.Operators[0].IsFermion)
	assert.False(t, term.Operators[1].IsFermion)
}

func TestParseWickTerm_RoundTrip(t *testing.T) {
	in := "3 sum:momentum{p} c:eps{p;up}^+ o:n{p;up} o:eta{p+Q;}^+"
	w, err := gowick.ParseWickTerm(in)
	require.NoError(t, err)
	assert.Equal(t, in, w.String())
	assert.True(t, w.IncludesType(gowick.EtaType))
}

func TestParseTerm_Errors(t *testing.T) {
	for _, in := range []string{
		"c{k;up} x{q;up}",
		"sum:momentum{kq}",
		"sum:spin{sigma}",
		"delta:index{up}",
		"delta:momentum{k,*}",
		"c{k;middle}",
		"0.5 c{k;up}",
	} {
		_, err := gowick.ParseTerm(in)
		var pe *gowick.ParseError
		assert.ErrorAs(t, err, &pe, in)
	}
}

func TestParseWickTerm_RejectsLadderOperators(t *testing.T) {
	_, err := gowick.ParseWickTerm("1 c{k;up}^+")
	assert.Error(t, err)
}

func TestParseTerms_SkipsComments(t *testing.T) {
	terms, err := gowick.ParseTerms("# kinetic\nsum:momentum{k} c{k;up}^+ c{k;up}\n\n2 c:U{;}\n")
	require.NoError(t, err)
	require.Len(t, terms, 2)
	assert.True(t, terms[1].IsIdentity())
}

func TestWickTermCollector_LaTeX(t *testing.T) {
	c := mustWickTerms(t, "1 sum:momentum{p} o:n{p;up}", "-1/2 c:U{;}")
	want := "\\begin{align*}\n" +
		"\t&+1 \\cdot \\sum_{p} \\langle \\hat{n}_{p, \\uparrow} \\rangle \\\\\n" +
		"\t&-\\frac{1}{2} \\cdot U \\mathbb{1}\n" +
		"\\end{align*}"
	assert.Equal(t, want, c.LaTeX())
	assert.Equal(t, "0", gowick.WickTermCollector{}.LaTeX())
}

func TestWickTermCollector_Add(t *testing.T) {
	c := mustWickTerms(t, "1 o:n{k;up}")
	extra := mustWickTerms(t, "2 o:n{k;up}", "1 o:f{k;}", "-3 o:n{k;up}")
	for _, w := range extra {
		c = c.Add(w)
	}
	assertCollector(t, []string{"1 o:f{k;}"}, c)
}
