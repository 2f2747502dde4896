package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "raven.yml"))
	require.NoError(t, err)

	def := DefaultConfig()
	assert.Equal(t, def.Analysis.Timeout, cfg.Analysis.Timeout)
	assert.Equal(t, def.Analysis.ShutdownGrace, cfg.Analysis.ShutdownGrace)
	assert.Equal(t, def.Analysis.RootType, cfg.Analysis.RootType)
	assert.Equal(t, def.Log.Level, cfg.Log.Level)
	assert.Empty(t, cfg.Analysis.CommonTypes)
	assert.Zero(t, cfg.Analysis.Workers)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raven.yml")
	require.NoError(t, os.WriteFile(path, []byte(`analysis:
  timeout: 45s
  shutdown_grace: 2s
  workers: 2
  root_type: kotlin.Any
  common_types:
    - kotlin.String
    - kotlin.collections.List
  replace_common_types: true
log:
  level: debug
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 45*time.Second, cfg.Analysis.Timeout)
	assert.Equal(t, 2*time.Second, cfg.Analysis.ShutdownGrace)
	assert.Equal(t, 2, cfg.Analysis.Workers)
	assert.Equal(t, "kotlin.Any", cfg.Analysis.RootType)
	assert.Equal(t, []string{"kotlin.String", "kotlin.collections.List"}, cfg.Analysis.CommonTypes)
	assert.True(t, cfg.Analysis.ReplaceCommonTypes)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("RAVEN_ANALYSIS_TIMEOUT", "90s")
	t.Setenv("RAVEN_LOG_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 90*time.Second, cfg.Analysis.Timeout)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yml")
	require.NoError(t, os.WriteFile(bad, []byte("analysis: [nope"), 0644))
	_, err := Load(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")

	negative := filepath.Join(dir, "negative.yml")
	require.NoError(t, os.WriteFile(negative, []byte("analysis:\n  workers: -1\n"), 0644))
	_, err = Load(negative)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "analysis.workers")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero timeout", func(c *Config) { c.Analysis.Timeout = 0 }, "analysis.timeout"},
		{"negative grace", func(c *Config) { c.Analysis.ShutdownGrace = -time.Second }, "analysis.shutdown_grace"},
		{"blank root", func(c *Config) { c.Analysis.RootType = " " }, "analysis.root_type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	assert.NoError(t, DefaultConfig().Validate())
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raven.yml")
	cfg := DefaultConfig()
	cfg.Analysis.Timeout = 3 * time.Minute
	cfg.Analysis.CommonTypes = []string{"com.acme.Money"}

	require.NoError(t, SaveConfig(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("RAVEN_TEST_LOADED=yes\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("RAVEN_TEST_LOADED") })

	require.NoError(t, LoadEnvFiles(filepath.Join(dir, "missing.env"), envFile))
	assert.Equal(t, "yes", os.Getenv("RAVEN_TEST_LOADED"))
}
