package termstore_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gowick"
	"github.com/njchilds90/gowick/termstore"
)

func sampleCollector(t *testing.T, lines ...string) gowick.WickTermCollector {
	t.Helper()
	var out gowick.WickTermCollector
	for _, l := range lines {
		w, err := gowick.ParseWickTerm(l)
		require.NoError(t, err)
		out = append(out, w)
	}
	return out
}

func sampleMatrices(t *testing.T) (termstore.Matrix, termstore.Matrix) {
	t.Helper()
	m, n := termstore.NewMatrix(2), termstore.NewMatrix(2)
	m.Set(0, 0, sampleCollector(t, "1 sum:momentum{p} o:n{p;up}"))
	m.Set(0, 1, sampleCollector(t,
		"-1/2 sum:momentum{p,q} sum:index{sigma} c:V{p,q;sigma}^+ o:f{p;}^+ o:g{q;sigma}",
		"2 delta:momentum{q,k+Q} delta:index{sigma,up} o:eta{k+Q;}",
	))
	m.Set(1, 0, gowick.WickTermCollector{})
	m.Set(1, 1, sampleCollector(t, "3 c:U{;}"))
	for row := 0; row < 2; row++ {
		for col := 0; col < 2; col++ {
			n.Set(row, col, sampleCollector(t, "1 o:n{k;down}"))
		}
	}
	return m, n
}

func lines(c gowick.WickTermCollector) []string {
	out := make([]string, len(c))
	for i, w := range c {
		out[i] = w.String()
	}
	return out
}

func TestFileStore_FileName(t *testing.T) {
	s := &termstore.FileStore{Dir: "data", XP: true, Format: termstore.FormatText, StartAt: 1}
	assert.Equal(t, filepath.Join("data", "XP_wick_M_3_2.txt"), s.FileName(termstore.KindM, 2, 1))

	s = &termstore.FileStore{Dir: "data"}
	assert.Equal(t, filepath.Join("data", "wick_N_0_4.bin"), s.FileName(termstore.KindN, 0, 4))
}

func TestFileStore_RoundTrip(t *testing.T) {
	for _, format := range []termstore.Format{termstore.FormatText, termstore.FormatBinary} {
		t.Run(format.String(), func(t *testing.T) {
			s := &termstore.FileStore{Dir: t.TempDir(), Format: format}
			m, n := sampleMatrices(t)
			require.NoError(t, s.Save(m, n))

			gotM, gotN, err := s.Load(2)
			require.NoError(t, err)
			for i := range m.Terms {
				assert.True(t, m.Terms[i].Equal(gotM.Terms[i]), "M entry %d", i)
				assert.True(t, n.Terms[i].Equal(gotN.Terms[i]), "N entry %d", i)
				if diff := cmp.Diff(lines(m.Terms[i]), lines(gotM.Terms[i])); diff != "" {
					t.Errorf("M entry %d mismatch (-want +got):\n%s", i, diff)
				}
			}
			// declared symmetries survive storage
			c, err := s.LoadCollector(termstore.KindM, 0, 1)
			require.NoError(t, err)
			assert.True(t, c[0].Coefficients[0].Daggered)
		})
	}
}

func TestFileStore_RoundTripEngineOutput(t *testing.T) {
	// an any-identical slot over index-less operators yields an IndexNone slot
	raw, err := gowick.WicksTheorem(
		[]gowick.Term{gowick.NewTerm(gowick.CDag(gowick.Mom('k')), gowick.C(gowick.Mom('k')))},
		[]gowick.WickOperatorTemplate{{
			Indices: []gowick.IndexComparison{{AnyIdentical: true}},
			Type:    gowick.NumberType,
		}},
	)
	require.NoError(t, err)
	require.Equal(t, []string{"1 o:n{k;none}"}, lines(raw))

	kappa := gowick.WickTerm{
		Prefactor: gowick.R(2),
		Sums:      gowick.SumMomenta('κ'),
		Operators: []gowick.WickOperator{{
			Type:     gowick.NumberType,
			Momentum: gowick.Mom('κ').Add(gowick.MomQ()),
			Indices:  []gowick.Index{gowick.IndexSpinUp},
		}},
	}
	want := append(raw, kappa)

	for _, format := range []termstore.Format{termstore.FormatText, termstore.FormatBinary} {
		t.Run(format.String(), func(t *testing.T) {
			s := &termstore.FileStore{Dir: t.TempDir(), Format: format}
			require.NoError(t, s.SaveCollector(termstore.KindM, 0, 0, want))
			got, err := s.LoadCollector(termstore.KindM, 0, 0)
			require.NoError(t, err)
			assert.True(t, want.Equal(got), "got %s", got)
			assert.Equal(t, []string{"1 o:n{k;none}", "2 sum:momentum{κ} o:n{κ+Q;up}"}, lines(got))
		})
	}

	for _, l := range lines(want) {
		w, err := gowick.ParseWickTerm(l)
		require.NoError(t, err, l)
		assert.Equal(t, l, w.String())
	}
}

func TestFileStore_MissingFile(t *testing.T) {
	s := &termstore.FileStore{Dir: t.TempDir(), Format: termstore.FormatBinary}
	m, n := sampleMatrices(t)
	require.NoError(t, s.Save(m, n))

	victim := s.FileName(termstore.KindN, 1, 0)
	require.NoError(t, os.Remove(victim))

	_, _, err := s.Load(2)
	var missing *gowick.DataMissingError
	require.True(t, errors.As(err, &missing), "got %v", err)
	assert.Equal(t, victim, missing.Path)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileStore_CorruptFile(t *testing.T) {
	s := &termstore.FileStore{Dir: t.TempDir(), Format: termstore.FormatText}
	require.NoError(t, s.SaveCollector(termstore.KindM, 0, 0, sampleCollector(t, "1 o:n{k;up}")))
	path := s.FileName(termstore.KindM, 0, 0)
	require.NoError(t, os.WriteFile(path, []byte(`{"size": 3, "terms": []}`), 0o644))

	_, err := s.LoadCollector(termstore.KindM, 0, 0)
	var missing *gowick.DataMissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, path, missing.Path)
}

func TestParseFormat(t *testing.T) {
	f, err := termstore.ParseFormat("TXT")
	require.NoError(t, err)
	assert.Equal(t, termstore.FormatText, f)
	_, err = termstore.ParseFormat("xml")
	assert.Error(t, err)
}

func TestArchive_RoundTrip(t *testing.T) {
	ctx := context.Background()
	a, err := termstore.OpenArchive(ctx, filepath.Join(t.TempDir(), "terms.db"), nil)
	require.NoError(t, err)
	defer a.Close()

	m, _ := sampleMatrices(t)
	require.NoError(t, a.SaveMatrix(ctx, termstore.KindM, m))
	got, err := a.LoadMatrix(ctx, termstore.KindM, 2)
	require.NoError(t, err)
	for i := range m.Terms {
		assert.True(t, m.Terms[i].Equal(got.Terms[i]), "entry %d", i)
	}

	_, err = a.Get(ctx, termstore.KindN, 0, 0)
	var missing *gowick.DataMissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "archive:N[0,0]", missing.Path)
}

func TestArchive_Import(t *testing.T) {
	ctx := context.Background()
	s := &termstore.FileStore{Dir: t.TempDir(), Format: termstore.FormatBinary, XP: true}
	m, n := sampleMatrices(t)
	require.NoError(t, s.Save(m, n))

	a, err := termstore.OpenArchive(ctx, filepath.Join(t.TempDir(), "terms.db"), nil)
	require.NoError(t, err)
	defer a.Close()
	require.NoError(t, a.Import(ctx, s, 2))

	c, err := a.Get(ctx, termstore.KindN, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"1 o:n{k;down}"}, lines(c))

	replacement := sampleCollector(t, "5 o:n{q;up}")
	require.NoError(t, a.Put(ctx, termstore.KindN, 1, 1, replacement))
	c, err = a.Get(ctx, termstore.KindN, 1, 1)
	require.NoError(t, err)
	assert.True(t, replacement.Equal(c))
}
