package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/evaldbt/internal/cli/output"
	"github.com/leapstack-labs/evaldbt/internal/metrics"
	"github.com/leapstack-labs/evaldbt/pkg/lint"
)

// ErrViolationsFound is returned by check when the report is not empty and
// violations should fail the run.
var ErrViolationsFound = errors.New("violations found")

// watchDebounce coalesces the burst of events dbt emits while rewriting a manifest.
const watchDebounce = 100 * time.Millisecond

// CheckOptions holds options for the check command.
type CheckOptions struct {
	Rules           []string // Rule names, symbolic or kebab-case
	All             bool     // Evaluate the whole catalog
	Format          string   // Output format override
	Workers         int      // Parallel shards, 0 or 1 = sequential
	Watch           bool     // Re-run when the manifest changes
	FailOnViolation bool     // Return ErrViolationsFound on a non-empty report
	MetricsFile     string   // Prometheus textfile output
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}
	cmd := &cobra.Command{
		Use:     "check [manifest]",
		Aliases: []string{"evaluate"},
		Short:   "Check a dbt manifest for modeling smells",
		Long: `Evaluate rules against every node of a compiled dbt manifest.

The manifest defaults to target/manifest.json relative to the project root.
Without --rules or --all the default selection is used; naming-conventions
and bad-directory are opt-in.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON/YAML: Machine-readable format`,
		Example: `  # Check the default manifest with the default rules
  evaldbt check

  # Check a specific manifest
  evaldbt check path/to/manifest.json

  # Only some rules
  evaldbt check --rules no-parents,model-fan-out

  # Every rule, as JSON
  evaldbt check --all --format json

  # Re-check whenever dbt recompiles
  evaldbt check --watch`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, opts)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.Rules, "rules", "r", nil, "Rules to evaluate (repeatable, comma separated)")
	cmd.Flags().BoolVar(&opts.All, "all", false, "Evaluate every rule in the catalog")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json, yaml")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "Evaluate nodes in this many parallel shards")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "Re-run when the manifest changes")
	cmd.Flags().BoolVar(&opts.FailOnViolation, "fail-on-violation", true, "Exit non-zero when violations are found")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "Write Prometheus metrics to this file")

	_ = cmd.RegisterFlagCompletionFunc("rules", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		var names []string
		for _, r := range lint.AllRules() {
			names = append(names, r.Flag())
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// applyConfig fills options the user did not set on the command line.
func applyConfig(cmd *cobra.Command, cmdCtx *CommandContext, opts *CheckOptions) {
	cfg := cmdCtx.Cfg
	flags := cmd.Flags()
	if !flags.Changed("rules") {
		opts.Rules = cfg.Rules
	}
	if !flags.Changed("workers") {
		opts.Workers = cfg.Workers
	}
	if !flags.Changed("fail-on-violation") {
		opts.FailOnViolation = cfg.FailOnViolation
	}
	if !flags.Changed("metrics-file") {
		opts.MetricsFile = cfg.MetricsFile
	}
}

// selectRules resolves the rule selection. An empty selection falls through
// to the engine's defaults.
func selectRules(opts *CheckOptions) ([]lint.Rule, error) {
	if opts.All {
		return lint.AllRules(), nil
	}
	return lint.ParseRules(opts.Rules)
}

func runCheck(cmd *cobra.Command, args []string, opts *CheckOptions) error {
	cmdCtx, err := NewCommandContext(cmd, opts.Format)
	if err != nil {
		return err
	}
	applyConfig(cmd, cmdCtx, opts)

	rules, err := selectRules(opts)
	if err != nil {
		return err
	}
	lintCfg, err := buildLintConfig(cmdCtx.Cfg)
	if err != nil {
		return err
	}

	path := manifestPath(cmdCtx.Cfg, args)
	run := func() (*lint.Report, error) {
		return evaluate(cmd.Context(), cmdCtx, path, rules, lintCfg, opts)
	}

	if opts.Watch {
		return watchManifest(cmd.Context(), path, cmdCtx.Logger, func() {
			if _, err := run(); err != nil {
				cmdCtx.Renderer.Warning(err.Error())
			}
		})
	}

	report, err := run()
	if err != nil {
		return err
	}
	if !report.Empty() && opts.FailOnViolation {
		return ErrViolationsFound
	}
	return nil
}

// evaluate runs one check: load, build, evaluate, record, render.
func evaluate(ctx context.Context, cmdCtx *CommandContext, path string, rules []lint.Rule, lintCfg *lint.Config, opts *CheckOptions) (*lint.Report, error) {
	runID := uuid.NewString()
	logger := cmdCtx.Logger.With("run_id", runID)
	start := time.Now()

	g, err := loadGraph(path, logger)
	if err != nil {
		return nil, err
	}

	eng := lint.NewEngine(rules,
		lint.WithConfig(lintCfg),
		lint.WithWorkers(opts.Workers),
		lint.WithLogger(logger),
	)
	report, err := eng.Run(ctx, g)
	if err != nil {
		return nil, fmt.Errorf("evaluation failed: %w", err)
	}

	if opts.MetricsFile != "" {
		reg := metrics.NewRegistry()
		reg.RecordGraph(g)
		reg.RecordCheck(eng.Rules(), g.NodeCount(), report, time.Since(start))
		if err := reg.WriteTextfile(opts.MetricsFile); err != nil {
			return nil, err
		}
		logger.Debug("metrics written", "path", opts.MetricsFile)
	}

	result := buildCheckOutput(runID, path, g.NodeCount(), eng.Rules(), lintCfg, report)
	if err := renderCheck(cmdCtx.Renderer, result); err != nil {
		return nil, err
	}
	return report, nil
}

func buildCheckOutput(runID, path string, nodes int, rules []lint.Rule, lintCfg *lint.Config, report *lint.Report) output.CheckOutput {
	byDescription := make(map[string]lint.Rule, len(rules))
	names := make([]string, 0, len(rules))
	for _, r := range rules {
		byDescription[r.Description()] = r
		names = append(names, r.String())
	}

	result := output.CheckOutput{
		RunID:      runID,
		Manifest:   path,
		Rules:      names,
		Violations: []output.RuleViolations{},
		Report:     report.Map(),
		Summary: output.CheckSummary{
			Nodes:         nodes,
			RulesChecked:  len(rules),
			RulesViolated: report.Len(),
			Violations:    report.Total(),
		},
	}

	for _, desc := range report.Descriptions() {
		r := byDescription[desc]
		result.Violations = append(result.Violations, output.RuleViolations{
			Rule:        r.String(),
			Severity:    lintCfg.GetSeverity(r).String(),
			Description: desc,
			Nodes:       report.Get(desc),
		})
	}
	return result
}

func renderCheck(r *output.Renderer, result output.CheckOutput) error {
	if ok, err := r.Structured(result); ok {
		return err
	}

	if r.EffectiveMode() == output.ModeMarkdown {
		renderCheckMarkdown(r, result)
	} else {
		renderCheckText(r, result)
	}
	return nil
}

func renderCheckText(r *output.Renderer, result output.CheckOutput) {
	styles := r.Styles()

	if len(result.Violations) == 0 {
		r.Success(fmt.Sprintf("No violations found (%d nodes, %d rules)", result.Summary.Nodes, result.Summary.RulesChecked))
		return
	}

	r.Println(styles.Muted.Render(result.Manifest))
	r.Println("")
	for _, v := range result.Violations {
		r.Printf("%s  %s  %s\n",
			severityLabel(r, v.Severity),
			styles.Bold.Render(v.Rule),
			styles.Muted.Render(v.Description))
		for _, name := range v.Nodes {
			r.Println("    " + styles.NodeName.Render(name))
		}
		r.Println("")
	}

	r.Printf("Summary: %d violations across %d rules in %d nodes\n",
		result.Summary.Violations, result.Summary.RulesViolated, result.Summary.Nodes)
}

func renderCheckMarkdown(r *output.Renderer, result output.CheckOutput) {
	r.Println(output.FormatHeader(1, "Manifest Check"))
	r.Println("")
	r.Println(output.FormatKeyValue("Manifest", result.Manifest))
	r.Println(output.FormatKeyValue("Nodes", fmt.Sprintf("%d", result.Summary.Nodes)))
	r.Println(output.FormatKeyValue("Rules", fmt.Sprintf("%d", result.Summary.RulesChecked)))
	r.Println(output.FormatKeyValue("Violations", fmt.Sprintf("%d", result.Summary.Violations)))
	r.Println("")

	if len(result.Violations) == 0 {
		r.Success("No violations found")
		return
	}

	for _, v := range result.Violations {
		r.Println(output.FormatHeader(2, v.Rule))
		r.Println("")
		r.Printf("> %s (`%s`)\n\n", v.Description, v.Severity)
		for _, name := range v.Nodes {
			r.Printf("- `%s`\n", name)
		}
		r.Println("")
	}
}

func severityLabel(r *output.Renderer, sev string) string {
	styles := r.Styles()
	switch sev {
	case "error":
		return styles.Error.Render("error  ")
	case "warning":
		return styles.Warning.Render("warning")
	case "info":
		return styles.Info.Render("info   ")
	default:
		return styles.Muted.Render(sev)
	}
}

// watchManifest calls run once, then again after each change to path until
// ctx is cancelled. The parent directory is watched because dbt replaces the
// manifest rather than writing it in place.
func watchManifest(ctx context.Context, path string, logger *slog.Logger, run func()) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	run()

	debounce := time.NewTimer(watchDebounce)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("manifest changed", "op", event.Op.String())
			debounce.Reset(watchDebounce)
		case <-debounce.C:
			run()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		}
	}
}
