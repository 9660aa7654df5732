package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute(), out.String())
	return out.String()
}

func TestExpandSaveLoadArchive(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GOWICK_STORE_DIR", dir)
	t.Setenv("GOWICK_STORE_FORMAT", "txt")
	t.Setenv("GOWICK_STORE_ARCHIVE", filepath.Join(dir, "terms.db"))
	t.Setenv("GOWICK_LOG_LEVEL", "error")

	out := execute(t, "expand", "--model", "bcs", "--clear-etas", "--save", "M", "--row", "0", "--col", "0")
	assert.Equal(t, 3, strings.Count(out, "\n"), out)
	assert.Contains(t, out, "o:f{p;}^+ o:f{q;}")
	assert.FileExists(t, filepath.Join(dir, "wick_M_0_0.txt"))

	execute(t, "expand", "--model", "bcs", "--clear-etas", "--save", "N", "--row", "0", "--col", "0")

	loaded := execute(t, "load", "--size", "1")
	assert.Contains(t, loaded, "# M[0,0]\n")
	assert.Contains(t, loaded, "# N[0,0]\n")
	assert.Contains(t, loaded, "o:f{p;}^+ o:f{q;}")

	assert.Contains(t, execute(t, "archive", "--size", "1"), "archived 1x1 matrices")
	fromArchive := execute(t, "load", "--size", "1", "--from-archive")
	assert.Equal(t, loaded, fromArchive)
}

func TestVersion(t *testing.T) {
	assert.Equal(t, "gowick dev\n", execute(t, "version"))
}
