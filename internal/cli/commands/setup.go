package commands

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/evaldbt/internal/cli/config"
	"github.com/leapstack-labs/evaldbt/internal/cli/output"
	"github.com/leapstack-labs/evaldbt/internal/dag"
	"github.com/leapstack-labs/evaldbt/internal/manifest"
	"github.com/leapstack-labs/evaldbt/pkg/core"
	"github.com/leapstack-labs/evaldbt/pkg/lint"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the loaded configuration.
// A non-empty format overrides the configured output mode.
func NewCommandContext(cmd *cobra.Command, format string) (*CommandContext, error) {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	requested := cfg.OutputFormat
	if format != "" {
		requested = format
	}
	mode, err := output.ParseMode(requested)
	if err != nil {
		return nil, err
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode),
	}, nil
}

// getConfig returns the current configuration, or defaults when the command
// runs without the root command's config loading.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}

// manifestPath picks the positional argument over the configured path.
func manifestPath(cfg *config.Config, args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return cfg.Manifest
}

// loadGraph reads the manifest at path and builds its graph.
func loadGraph(path string, logger *slog.Logger) (*dag.Graph, error) {
	m, err := manifest.Load(path)
	if err != nil {
		return nil, err
	}

	g := m.Graph()
	parents, children := m.EdgeCount()
	logger.Debug("manifest loaded",
		"path", path,
		"nodes", g.NodeCount(),
		"parent_edges", parents,
		"child_edges", children)

	if dangling := g.Dangling(); len(dangling) > 0 {
		logger.Warn("manifest references unknown nodes", "count", len(dangling), "ids", dangling)
	}
	return g, nil
}

// buildLintConfig turns the project's lint section into a lint.Config.
func buildLintConfig(cfg *config.Config) (*lint.Config, error) {
	lintCfg := lint.NewConfig()
	if cfg == nil || cfg.Lint == nil {
		return lintCfg, nil
	}

	disabled, err := lint.ParseRules(cfg.Lint.Disabled)
	if err != nil {
		return nil, fmt.Errorf("lint.disabled: %w", err)
	}
	for _, r := range disabled {
		lintCfg.Disable(r)
	}

	for name, sev := range cfg.Lint.Severity {
		r, err := lint.ParseRule(name)
		if err != nil {
			return nil, fmt.Errorf("lint.severity: %w", err)
		}
		s, ok := core.ParseSeverity(strings.TrimSpace(sev))
		if !ok {
			return nil, fmt.Errorf("lint.severity: invalid severity %q for %s", sev, r)
		}
		lintCfg.SetSeverity(r, s)
	}

	return lintCfg, nil
}
