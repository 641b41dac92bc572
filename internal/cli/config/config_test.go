package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir switches into dir for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "evaldbt.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	chdir(t, dir)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	root, err := os.Getwd()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, DefaultManifest), cfg.Manifest)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.True(t, cfg.FailOnViolation)
	assert.Zero(t, cfg.Workers)
	assert.Empty(t, cfg.Rules)
	assert.Empty(t, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_File(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, `manifest: build/manifest.json
rules:
  - no-parents
  - ModelFanOut
output: json
workers: 4
fail_on_violation: false
metrics_file: evaldbt.prom
lint:
  disabled: [unused-sources]
  severity:
    no-parents: error
`)

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, cfgPath, GetConfigFileUsed())
	assert.Equal(t, filepath.Join(dir, "build", "manifest.json"), cfg.Manifest)
	assert.Equal(t, dir, cfg.ProjectRoot)
	assert.Equal(t, []string{"no-parents", "ModelFanOut"}, cfg.Rules)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, 4, cfg.Workers)
	assert.False(t, cfg.FailOnViolation)
	assert.Equal(t, "evaldbt.prom", cfg.MetricsFile)
	require.NotNil(t, cfg.Lint)
	assert.Equal(t, []string{"unused-sources"}, cfg.Lint.Disabled)
	assert.Equal(t, "error", cfg.Lint.Severity["no-parents"])
}

func TestLoadConfig_DiscoversProjectRootUpward(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	writeConfig(t, dir, "output: markdown\n")
	nested := filepath.Join(dir, "models", "staging")
	require.NoError(t, os.MkdirAll(nested, 0755))
	chdir(t, nested)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "markdown", cfg.OutputFormat)
	assert.Equal(t, "evaldbt.yaml", filepath.Base(GetConfigFileUsed()))
	assert.Equal(t, filepath.Join(cfg.ProjectRoot, DefaultManifest), cfg.Manifest)

	wantRoot, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	gotRoot, err := filepath.EvalSymlinks(cfg.ProjectRoot)
	require.NoError(t, err)
	assert.Equal(t, wantRoot, gotRoot)
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, "rules: [unterminated\n")

	_, err := LoadConfig(cfgPath, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, "output: xml\nworkers: -1\nlog_level: loud\n")

	_, err := LoadConfig(cfgPath, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
	assert.Contains(t, err.Error(), "output must be one of")
	assert.Contains(t, err.Error(), "workers must be >= 0")
	assert.Contains(t, err.Error(), "log_level must be one of")
	assert.Nil(t, GetCurrentConfig())
}

func TestLoadConfig_EnvPrecedenceOverFile(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, "output: json\nworkers: 2\n")

	t.Setenv("EVALDBT_OUTPUT", "yaml")
	t.Setenv("EVALDBT_RULES", "no-parents, model-fan-out")
	t.Setenv("EVALDBT_FAIL_ON_VIOLATION", "false")

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, "yaml", cfg.OutputFormat, "env should override config file")
	assert.Equal(t, 2, cfg.Workers, "file value should survive when env is unset")
	assert.Equal(t, []string{"no-parents", "model-fan-out"}, cfg.Rules)
	assert.False(t, cfg.FailOnViolation)
}

func TestLoadConfig_FlagPrecedence(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, "output: json\nworkers: 2\n")
	t.Setenv("EVALDBT_OUTPUT", "yaml")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.StringP("output", "o", "", "output format")
	flags.Int("workers", 0, "workers")
	flags.StringSlice("rules", nil, "rules")
	flags.String("manifest", "", "manifest path")
	flags.Bool("fail-on-violation", true, "fail")
	require.NoError(t, flags.Set("output", "text"))
	require.NoError(t, flags.Set("rules", "no-parents,bad-directory"))
	require.NoError(t, flags.Set("manifest", "custom.json"))
	require.NoError(t, flags.Set("fail-on-violation", "false"))

	cfg, err := LoadConfig(cfgPath, flags)
	require.NoError(t, err)

	wantManifest, err := filepath.Abs("custom.json")
	require.NoError(t, err)

	assert.Equal(t, "text", cfg.OutputFormat, "flag should override env and file")
	assert.Equal(t, 2, cfg.Workers, "unchanged flag should not override file")
	assert.Equal(t, []string{"no-parents", "bad-directory"}, cfg.Rules)
	assert.Equal(t, wantManifest, cfg.Manifest, "manifest flag is relative to the working directory")
	assert.False(t, cfg.FailOnViolation)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		errSubstr string
	}{
		{"defaults", *Default(), ""},
		{"empty manifest", Config{OutputFormat: "auto"}, "manifest is required"},
		{"bad output", Config{Manifest: "m.json", OutputFormat: "html"}, "output must be one of"},
		{"md alias", Config{Manifest: "m.json", OutputFormat: "md"}, ""},
		{"bad level", Config{Manifest: "m.json", LogLevel: "trace"}, "log_level must be one of"},
		{"negative workers", Config{Manifest: "m.json", Workers: -2}, "workers must be >= 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestConfig_Level(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, (&Config{}).Level())
	assert.Equal(t, slog.LevelInfo, (&Config{LogLevel: "info"}).Level())
	assert.Equal(t, slog.LevelError, (&Config{LogLevel: "ERROR"}).Level())
	assert.Equal(t, slog.LevelDebug, (&Config{LogLevel: "error", Verbose: true}).Level())
	assert.Equal(t, slog.LevelWarn, (&Config{LogLevel: "bogus"}).Level())
}

func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()))

	logger := slog.New(slog.DiscardHandler)
	ctx := context.WithValue(context.Background(), LoggerKey(), logger)
	assert.Same(t, logger, GetLogger(ctx))
}
