package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gowick/termstore"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gowick.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
store:
  dir: /tmp/terms
  format: txt
  xp: true
  start_at: 1
engine:
  model: hubbard
  workers: 8
  clear_etas: true
  symmetries: [spin-fold, "phase:f,n"]
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "hubbard", cfg.Engine.Model)
	assert.Equal(t, 8, cfg.Engine.Workers)
	assert.True(t, cfg.Engine.ClearEtas)
	assert.Equal(t, []string{"spin-fold", "phase:f,n"}, cfg.Engine.Symmetries)

	fs, err := cfg.Store.FileStore()
	require.NoError(t, err)
	assert.Equal(t, termstore.FormatText, fs.Format)
	assert.Equal(t, filepath.Join("/tmp/terms", "XP_wick_M_1_1.txt"), fs.FileName(termstore.KindM, 0, 0))
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "engine:\n  model: bcs\n  workers: 2\n")
	t.Setenv("GOWICK_MODEL", "hubbard-extended")
	t.Setenv("GOWICK_WORKERS", "16")
	t.Setenv("GOWICK_SYMMETRIES", "spin-fold;phase:f,g")
	t.Setenv("GOWICK_MCP_TRANSPORT", "http")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "hubbard-extended", cfg.Engine.Model)
	assert.Equal(t, 16, cfg.Engine.Workers)
	assert.Equal(t, []string{"spin-fold", "phase:f,g"}, cfg.Engine.Symmetries)
	assert.Equal(t, "http", cfg.MCP.Transport)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"format", "store:\n  format: xml\n"},
		{"workers", "engine:\n  workers: -1\n"},
		{"model", "engine:\n  model: ising\n"},
		{"symmetry", "engine:\n  symmetries: [mirror]\n"},
		{"transport", "mcp:\n  transport: grpc\n"},
		{"yaml", "log: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}
