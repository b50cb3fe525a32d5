// Package config provides unified configuration loading for pulsetrace.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/pulsetrace/export"
	"github.com/katalvlaran/pulsetrace/simulator"
)

// Config contains all pulsetrace configuration settings.
type Config struct {
	// Analysis controls trace ingestion, reduction and rendering.
	Analysis AnalysisConfig `json:"analysis" yaml:"analysis"`

	// Export selects the default waveform format.
	Export ExportConfig `json:"export" yaml:"export"`

	// Snapshot locates the snapshot database.
	Snapshot SnapshotConfig `json:"snapshot" yaml:"snapshot"`

	// Simulator configures runs of the SPECS binary.
	Simulator SimulatorConfig `json:"simulator" yaml:"simulator"`

	// Logging contains settings for operational and run logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// AnalysisConfig configures the analysis pipeline.
type AnalysisConfig struct {
	// DT is the waveform sample step in seconds.
	DT float64 `json:"dt" yaml:"dt"`

	// TMax is the sampling horizon in seconds; 0 means "end of last pulse".
	TMax float64 `json:"tmax,omitempty" yaml:"tmax,omitempty"`

	// OverrideWavelength, if > 0, forces every pulse onto that carrier (m).
	OverrideWavelength float64 `json:"override_wavelength,omitempty" yaml:"override_wavelength,omitempty"`

	// SkipMalformed drops bad trace records instead of aborting.
	SkipMalformed bool `json:"skip_malformed" yaml:"skip_malformed"`

	// MaxSteps bounds combine steps per reduction; 0 is unlimited.
	MaxSteps int `json:"max_steps,omitempty" yaml:"max_steps,omitempty"`
}

// ExportConfig configures waveform export.
type ExportConfig struct {
	// Format is one of the registered export formats.
	Format string `json:"format" yaml:"format"`
}

// SnapshotConfig configures snapshot persistence.
type SnapshotConfig struct {
	// DB is the SQLite database path. Supports ~ for the home directory.
	DB string `json:"db" yaml:"db"`
}

// SimulatorConfig configures simulator runs.
type SimulatorConfig struct {
	Dir    string  `json:"dir,omitempty" yaml:"dir,omitempty"`
	Output string  `json:"output" yaml:"output"`
	AbsTol float64 `json:"abstol" yaml:"abstol"`
	RelTol float64 `json:"reltol" yaml:"reltol"`
}

// LoggingConfig configures pulsetrace's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" enables run logging to <RunDir>/runs.jsonl.
	// "trace" additionally logs every combine step of a reduction.
	Level string `json:"level" yaml:"level"`

	// RunDir is where runs.jsonl is written.
	RunDir string `json:"run_dir,omitempty" yaml:"run_dir,omitempty"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			DT: 1e-12,
		},
		Export: ExportConfig{
			Format: "csv",
		},
		Snapshot: SnapshotConfig{
			DB: filepath.Join("~", ".pulsetrace", "snapshots.db"),
		},
		Simulator: SimulatorConfig{
			Output: simulator.DefaultOutput,
			AbsTol: simulator.DefaultAbsTol,
			RelTol: simulator.DefaultRelTol,
		},
		Logging: LoggingConfig{
			Level:  "info",
			RunDir: filepath.Join("~", ".pulsetrace"),
		},
	}
}

// Load loads configuration from the default locations and environment variables.
// Order: defaults -> ~/.pulsetrace/config.yaml -> environment variables
func Load() (*Config, error) {
	config := Default()

	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".pulsetrace", "config.yaml")
		if _, statErr := os.Stat(configPath); statErr == nil {
			fileConfig, loadErr := LoadFromFile(configPath)
			if loadErr != nil {
				return nil, fmt.Errorf("loading config file: %w", loadErr)
			}
			config = fileConfig
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file on top of the
// defaults, then applies environment overrides.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	applyEnvOverrides(config)

	return config, nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	a := c.Analysis
	if !(a.DT > 0) || math.IsInf(a.DT, 0) {
		return fmt.Errorf("analysis.dt must be positive and finite, got %g", a.DT)
	}
	if !(a.TMax >= 0) || math.IsInf(a.TMax, 0) {
		return fmt.Errorf("analysis.tmax must be non-negative and finite, got %g", a.TMax)
	}
	if a.OverrideWavelength < 0 || math.IsNaN(a.OverrideWavelength) || math.IsInf(a.OverrideWavelength, 0) {
		return fmt.Errorf("analysis.override_wavelength must be 0 or positive, got %g", a.OverrideWavelength)
	}
	if a.MaxSteps < 0 {
		return fmt.Errorf("analysis.max_steps must be non-negative, got %d", a.MaxSteps)
	}

	formats := export.Formats()
	known := false
	for _, f := range formats {
		known = known || f == c.Export.Format
	}
	if !known {
		return fmt.Errorf("invalid export format: %s (valid: %s)", c.Export.Format, strings.Join(formats, ", "))
	}

	if c.Simulator.AbsTol <= 0 || c.Simulator.RelTol <= 0 {
		return fmt.Errorf("simulator tolerances must be positive, got abstol=%g reltol=%g",
			c.Simulator.AbsTol, c.Simulator.RelTol)
	}

	validLevels := map[string]bool{"info": true, "debug": true, "trace": true, "warn": true, "error": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, warn, error, or empty for default)", c.Logging.Level)
	}

	return nil
}

// SnapshotDB returns the snapshot database path with ~ expanded.
func (c *Config) SnapshotDB() string { return expandHome(c.Snapshot.DB) }

// RunDir returns the run log directory with ~ expanded.
func (c *Config) RunDir() string { return expandHome(c.Logging.RunDir) }

// applyEnvOverrides applies PULSETRACE_* environment variable overrides.
// Unparseable numeric values are ignored.
func applyEnvOverrides(config *Config) {
	setFloat := func(key string, dst *float64) {
		if v := os.Getenv(key); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				*dst = f
			}
		}
	}
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setFloat("PULSETRACE_DT", &config.Analysis.DT)
	setFloat("PULSETRACE_TMAX", &config.Analysis.TMax)
	setFloat("PULSETRACE_OVERRIDE_WAVELENGTH", &config.Analysis.OverrideWavelength)
	if v := os.Getenv("PULSETRACE_SKIP_MALFORMED"); v != "" {
		config.Analysis.SkipMalformed = v == "true" || v == "1"
	}
	if v := os.Getenv("PULSETRACE_MAX_STEPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Analysis.MaxSteps = n
		}
	}

	setString("PULSETRACE_EXPORT_FORMAT", &config.Export.Format)
	setString("PULSETRACE_SNAPSHOT_DB", &config.Snapshot.DB)

	setString("PULSETRACE_SIMULATOR_DIR", &config.Simulator.Dir)
	setString("PULSETRACE_SIMULATOR_OUTPUT", &config.Simulator.Output)
	setFloat("PULSETRACE_ABSTOL", &config.Simulator.AbsTol)
	setFloat("PULSETRACE_RELTOL", &config.Simulator.RelTol)

	setString("PULSETRACE_LOG_LEVEL", &config.Logging.Level)
	setString("PULSETRACE_RUN_DIR", &config.Logging.RunDir)
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~"+string(filepath.Separator)) {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
