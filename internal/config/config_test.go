package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.InDelta(t, 0.229065, cfg.Transform.Scale, 1e-6)
	assert.Equal(t, 127.0, cfg.SpanMM)
}

func TestValidateRejectsDegenerateGeometry(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero height", func(c *Config) { c.Specimen.HeightMM = 0 }},
		{"zero width", func(c *Config) { c.Specimen.WidthMM = 0 }},
		{"negative span", func(c *Config) { c.SpanMM = -1 }},
		{"zero scale", func(c *Config) { c.Transform.Scale = 0 }},
		{"inverted plot window", func(c *Config) { c.PlotMaxMM = -1 }},
		{"unknown log level", func(c *Config) { c.Runtime.LogLevel = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("FLEXFIT_DATA_DIR", "/data/run1")
	t.Setenv("FLEXFIT_DISPLAY", "false")
	t.Setenv("FLEXFIT_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/data/run1", cfg.Runtime.DataDir)
	assert.False(t, cfg.Runtime.Display)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel())
	assert.Equal(t, filepath.Join("/data/run1", "Mecanicos.2.TXT"), cfg.TheoreticalPath())
	assert.Equal(t, filepath.Join("/data/run1", "Default Dataset.csv"), cfg.ExperimentalPath())
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("FLEXFIT_REPORT_PDF=out.pdf\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("FLEXFIT_REPORT_PDF") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "out.pdf", cfg.Runtime.ReportPDF)
	assert.True(t, cfg.Runtime.Display)
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
