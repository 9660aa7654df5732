package models_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gowick"
	"github.com/njchilds90/gowick/models"
)

func meanField(t *testing.T, m models.Model) gowick.WickTermCollector {
	t.Helper()
	raw, err := gowick.WicksTheorem(m.Hamiltonian(), m.Templates())
	require.NoError(t, err)
	return gowick.CleanWicks(gowick.ClearEtas(raw), m.Symmetries()...)
}

func TestByName(t *testing.T) {
	for _, name := range models.Names() {
		m, err := models.ByName(name)
		require.NoError(t, err)
		assert.Equal(t, name, m.Name())
	}
	_, err := models.ByName("jellium")
	assert.Error(t, err)
}

func TestHamiltonians_NormalOrdered(t *testing.T) {
	for _, name := range models.Names() {
		m, err := models.ByName(name)
		require.NoError(t, err)
		for _, term := range m.Hamiltonian() {
			assert.True(t, term.IsNormalOrdered(), "%s: %s", name, term)
		}
	}
}

func lines(c gowick.WickTermCollector) []string {
	out := make([]string, len(c))
	for i, w := range c {
		out[i] = w.String()
	}
	return out
}

func TestBCS_MeanField(t *testing.T) {
	assert.Equal(t, []string{
		`1 sum:momentum{p} sum:index{sigma} c:\epsilon_0{p;} o:n{p;sigma}`,
		"-1 sum:momentum{p,q} c:V{;} o:f{p;}^+ o:f{q;}",
		"-1 sum:momentum{p} c:V{;} o:n{p;up} o:n{p;up}",
	}, lines(meanField(t, models.BCS{})))
}

func TestHubbard_MeanFieldLines(t *testing.T) {
	// Pairing (r,p) fixes r = -p; the density channels fix q = 0 for n and
	// q = Q for g. The crossed matching needs up = down and drops out.
	assert.Equal(t, []string{
		`1 sum:momentum{p} sum:index{sigma} c:\epsilon_0{p;} o:n{p;sigma}`,
		`1 sum:momentum{p,q} c:\frac{U}{N}{;} o:f{p;} o:f{p+q;}`,
		`1 sum:momentum{p,q} c:\frac{U}{N}{;} o:n{p;up} o:n{q;up}`,
		`1 sum:momentum{p,q} c:\frac{U}{N}{;} o:g{p;up} o:g{q;up}`,
	}, lines(meanField(t, models.Hubbard{})))
}

func TestHubbard_MeanField(t *testing.T) {
	for _, m := range []models.Model{models.Hubbard{}, models.Hubbard{Extended: true}} {
		got := meanField(t, m)
		require.NotEmpty(t, got, m.Name())
		assert.Positive(t, got.CountType(gowick.SCType), m.Name())
		assert.Positive(t, got.CountType(gowick.NumberType), m.Name())
		assert.Positive(t, got.CountType(gowick.CDWType), m.Name())
		assert.Zero(t, got.CountType(gowick.EtaType), m.Name())

		again := gowick.CleanWicks(got, m.Symmetries()...)
		assert.True(t, got.Equal(again), "%s not idempotent:\n%s\n---\n%s", m.Name(), got, again)
	}
}

func TestHubbard_KeepsEtaWithoutClear(t *testing.T) {
	m := models.Hubbard{}
	raw, err := gowick.WicksTheorem(m.Hamiltonian(), m.Templates())
	require.NoError(t, err)
	assert.Positive(t, gowick.CleanWicks(raw, m.Symmetries()...).CountType(gowick.EtaType))
}

func TestExpand(t *testing.T) {
	ctx := context.Background()
	m := models.BCS{}

	got, err := models.Expand(ctx, m, nil, models.Options{Workers: 2, ClearEtas: true})
	require.NoError(t, err)
	assert.True(t, meanField(t, m).Equal(got))

	raw, err := models.Expand(ctx, m, nil, models.Options{Raw: true})
	require.NoError(t, err)
	want, err := gowick.WicksTheorem(m.Hamiltonian(), m.Templates())
	require.NoError(t, err)
	assert.True(t, want.Equal(raw))

	// explicit terms replace the Hamiltonian
	kinetic := m.Hamiltonian()[:1]
	got, err = models.Expand(ctx, m, kinetic, models.Options{Symmetries: []gowick.Symmetry{}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, gowick.NumberType, got[0].Operators[0].Type)
}
