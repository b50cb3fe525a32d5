package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, 1e-12, c.Analysis.DT)
	assert.Zero(t, c.Analysis.TMax)
	assert.False(t, c.Analysis.SkipMalformed)
	assert.Equal(t, "csv", c.Export.Format)
	assert.Equal(t, "traces/delete_me.vcd", c.Simulator.Output)
	assert.Equal(t, 1e-8, c.Simulator.AbsTol)
	assert.Equal(t, 1e-4, c.Simulator.RelTol)
	assert.Equal(t, "info", c.Logging.Level)
	require.NoError(t, c.Validate())
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
analysis:
  dt: 5.0e-13
  override_wavelength: 1.55e-6
  skip_malformed: true
  max_steps: 1000
export:
  format: arrow
simulator:
  dir: /opt/specs
logging:
  level: debug
`)
	c, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 5e-13, c.Analysis.DT)
	assert.Equal(t, 1.55e-6, c.Analysis.OverrideWavelength)
	assert.True(t, c.Analysis.SkipMalformed)
	assert.Equal(t, 1000, c.Analysis.MaxSteps)
	assert.Equal(t, "arrow", c.Export.Format)
	assert.Equal(t, "/opt/specs", c.Simulator.Dir)
	assert.Equal(t, 1e-8, c.Simulator.AbsTol, "unset keys keep defaults")
	assert.Equal(t, "debug", c.Logging.Level)
	require.NoError(t, c.Validate())
}

func TestLoadFromFile_Errors(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "reading config file")

	path := writeConfig(t, t.TempDir(), "analysis: [unclosed")
	_, err = LoadFromFile(path)
	assert.ErrorContains(t, err, "parsing config file")
}

func TestLoad_HomeConfigAndEnv(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".pulsetrace"), 0o755))
	writeConfig(t, filepath.Join(home, ".pulsetrace"), "export:\n  format: json\n")

	t.Setenv("PULSETRACE_DT", "2e-12")
	t.Setenv("PULSETRACE_SKIP_MALFORMED", "1")
	t.Setenv("PULSETRACE_MAX_STEPS", "not-a-number")
	t.Setenv("PULSETRACE_LOG_LEVEL", "trace")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "json", c.Export.Format)
	assert.Equal(t, 2e-12, c.Analysis.DT)
	assert.True(t, c.Analysis.SkipMalformed)
	assert.Zero(t, c.Analysis.MaxSteps, "unparseable override ignored")
	assert.Equal(t, "trace", c.Logging.Level)
	assert.Equal(t, filepath.Join(home, ".pulsetrace", "snapshots.db"), c.SnapshotDB())
	assert.Equal(t, filepath.Join(home, ".pulsetrace"), c.RunDir())
}

func TestLoad_NoFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default().Export, c.Export)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero dt", func(c *Config) { c.Analysis.DT = 0 }, "analysis.dt"},
		{"negative tmax", func(c *Config) { c.Analysis.TMax = -1 }, "analysis.tmax"},
		{"negative wavelength", func(c *Config) { c.Analysis.OverrideWavelength = -1 }, "override_wavelength"},
		{"negative max steps", func(c *Config) { c.Analysis.MaxSteps = -1 }, "max_steps"},
		{"unknown format", func(c *Config) { c.Export.Format = "xlsx" }, "invalid export format"},
		{"zero abstol", func(c *Config) { c.Simulator.AbsTol = 0 }, "tolerances"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "invalid log level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			assert.ErrorContains(t, c.Validate(), tt.wantErr)
		})
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	assert.Equal(t, filepath.Join(home, "x.db"), expandHome("~/x.db"))
	assert.Equal(t, home, expandHome("~"))
	assert.Equal(t, "/abs/x.db", expandHome("/abs/x.db"))
	assert.Equal(t, "~user/x", expandHome("~user/x"))
}
