package commands

import (
	"bytes"
	"encoding/json"
	"runtime"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/evaldbt/internal/cli/config"
	evaltest "github.com/leapstack-labs/evaldbt/internal/testutil"
)

// execute runs cmd with args and returns stdout and stderr.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	config.ResetConfig()

	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

// jaffleManifest writes the shared fixture and returns its path.
func jaffleManifest(t *testing.T) string {
	t.Helper()
	return evaltest.WriteManifest(t, t.TempDir(), evaltest.JaffleManifest)
}

func TestNewCheckCommand(t *testing.T) {
	cmd := NewCheckCommand()

	assert.Equal(t, "check [manifest]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")
	assert.Equal(t, []string{"evaluate"}, cmd.Aliases)

	flags := []string{"rules", "all", "format", "workers", "watch", "fail-on-violation", "metrics-file"}
	for _, flag := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
	assert.Equal(t, "r", cmd.Flags().Lookup("rules").Shorthand)
	assert.Equal(t, "true", cmd.Flags().Lookup("fail-on-violation").DefValue)
}

func TestNewRulesCommand(t *testing.T) {
	cmd := NewRulesCommand()

	assert.Equal(t, "rules [rule]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	for _, flag := range []string{"group", "default", "format"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestNewGraphCommand(t *testing.T) {
	cmd := NewGraphCommand()

	assert.Equal(t, "graph [manifest]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotNil(t, cmd.Flags().Lookup("format"))
}

func TestVersionCommand(t *testing.T) {
	tests := []struct {
		name    string
		info    BuildInfo
		wantOut []string
		notOut  []string
	}{
		{
			name:    "release build",
			info:    BuildInfo{Version: "0.1.0", Commit: "abc123", BuildDate: "2026-01-02"},
			wantOut: []string{"evaldbt v0.1.0", "dbt manifest", "commit abc123, built 2026-01-02", runtime.GOOS},
		},
		{
			name:    "dev build",
			info:    BuildInfo{Version: "dev", Commit: "unknown"},
			wantOut: []string{"evaldbt vdev"},
			notOut:  []string{"commit"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewVersionCommand(tt.info)
			assert.Equal(t, "version", cmd.Use)
			assert.NotEmpty(t, cmd.Long)

			out, _, err := execute(t, cmd)
			require.NoError(t, err)
			for _, want := range tt.wantOut {
				assert.Contains(t, out, want)
			}
			for _, not := range tt.notOut {
				assert.NotContains(t, out, not)
			}
		})
	}
}

func TestVersionCommand_JSON(t *testing.T) {
	out, _, err := execute(t, NewVersionCommand(BuildInfo{Version: "1.2.3"}), "-f", "json")
	require.NoError(t, err)

	var info BuildInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "1.2.3", info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
}

func TestManifestPath(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, config.DefaultManifest, manifestPath(cfg, nil))
	assert.Equal(t, "x.json", manifestPath(cfg, []string{"x.json"}))
	assert.Equal(t, config.DefaultManifest, manifestPath(cfg, []string{""}))
}

func TestBuildLintConfig(t *testing.T) {
	t.Run("nil lint section", func(t *testing.T) {
		lintCfg, err := buildLintConfig(config.Default())
		require.NoError(t, err)
		assert.Empty(t, lintCfg.DisabledRules)
	})

	t.Run("disabled and severity", func(t *testing.T) {
		cfg := config.Default()
		cfg.Lint = &config.LintConfig{
			Disabled: []string{"unused-sources,NoParents"},
			Severity: map[string]string{"model-fan-out": "error"},
		}
		lintCfg, err := buildLintConfig(cfg)
		require.NoError(t, err)

		assert.Len(t, lintCfg.DisabledRules, 2)
		assert.Equal(t, "error", lintCfg.GetSeverity(ruleByFlag(t, "model-fan-out")).String())
	})

	t.Run("unknown disabled rule", func(t *testing.T) {
		cfg := config.Default()
		cfg.Lint = &config.LintConfig{Disabled: []string{"nope"}}
		_, err := buildLintConfig(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "lint.disabled")
	})

	t.Run("invalid severity", func(t *testing.T) {
		cfg := config.Default()
		cfg.Lint = &config.LintConfig{Severity: map[string]string{"no-parents": "fatal"}}
		_, err := buildLintConfig(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `invalid severity "fatal"`)
	})
}
