package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/evaldbt/internal/cli/output"
	"github.com/leapstack-labs/evaldbt/pkg/core"
	"github.com/leapstack-labs/evaldbt/pkg/lint"
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Group       string // Filter by group
	DefaultOnly bool   // Only the default selection
	Format      string // Output format
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [rule]",
		Short: "List available rules",
		Long: `List the rule catalog with each rule's group, severity and description.

Rules are accepted by symbolic name (NoParents) or flag name (no-parents)
anywhere a rule is expected. Severity reflects lint.severity overrides from
evaldbt.yaml.`,
		Example: `  # List all rules
  evaldbt rules

  # Show details for a specific rule
  evaldbt rules model-fan-out

  # Only the structure group
  evaldbt rules --group structure

  # Output as YAML
  evaldbt rules --format yaml`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return showRule(cmd, args[0], opts)
			}
			return listRules(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Group, "group", "g", "", "Filter by group: modeling, structure")
	cmd.Flags().BoolVar(&opts.DefaultOnly, "default", false, "Only list rules in the default selection")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json, yaml")

	return cmd
}

// RulesOutput is the structured output for the rules listing.
type RulesOutput struct {
	Rules []core.RuleInfo `json:"rules" yaml:"rules"`
	Count struct {
		Default int `json:"default" yaml:"default"`
		Total   int `json:"total" yaml:"total"`
	} `json:"count" yaml:"count"`
}

// ruleInfos returns catalog metadata with configured severities applied.
func ruleInfos(lintCfg *lint.Config, opts *RulesOptions) []core.RuleInfo {
	var infos []core.RuleInfo
	for _, r := range lint.AllRules() {
		if opts.Group != "" && r.Group() != opts.Group {
			continue
		}
		if opts.DefaultOnly && !r.IsDefault() {
			continue
		}
		info := r.Info()
		info.DefaultSeverity = lintCfg.GetSeverity(r)
		infos = append(infos, info)
	}
	return infos
}

func listRules(cmd *cobra.Command, opts *RulesOptions) error {
	cmdCtx, err := NewCommandContext(cmd, opts.Format)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	lintCfg, err := buildLintConfig(cmdCtx.Cfg)
	if err != nil {
		return err
	}

	infos := ruleInfos(lintCfg, opts)
	if len(infos) == 0 {
		return fmt.Errorf("no rules in group %q", opts.Group)
	}

	result := RulesOutput{Rules: infos}
	for _, info := range infos {
		if info.Default {
			result.Count.Default++
		}
	}
	result.Count.Total = len(infos)

	if ok, err := r.Structured(result); ok {
		return err
	}

	markdown := r.EffectiveMode() == output.ModeMarkdown
	title := fmt.Sprintf("Rules (%d total, %d default)", result.Count.Total, result.Count.Default)
	if markdown {
		r.Println(output.FormatHeader(1, title))
	} else {
		r.Println(r.Styles().Header1.Render(title))
	}
	r.Println("")

	caser := cases.Title(language.English)
	for _, group := range []string{lint.GroupModeling, lint.GroupStructure} {
		var rows []table.Row
		for _, info := range infos {
			if info.Group != group {
				continue
			}
			def := ""
			if info.Default {
				def = "yes"
			}
			rows = append(rows, table.Row{info.ID, info.Flag, info.DefaultSeverity.String(), def, info.Description})
		}
		if len(rows) == 0 {
			continue
		}

		if markdown {
			r.Println(output.FormatHeader(2, caser.String(group)))
		} else {
			r.Println(r.Styles().Header2.Render(caser.String(group)))
		}
		r.Println("")
		r.Table(table.Row{"Rule", "Flag", "Severity", "Default", "Description"}, rows)
		r.Println("")
	}

	if !markdown {
		r.Println(r.Styles().Muted.Render("Use 'evaldbt rules <rule>' for details"))
	}
	return nil
}

func showRule(cmd *cobra.Command, name string, opts *RulesOptions) error {
	cmdCtx, err := NewCommandContext(cmd, opts.Format)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	rule, err := lint.ParseRule(name)
	if err != nil {
		return err
	}
	lintCfg, err := buildLintConfig(cmdCtx.Cfg)
	if err != nil {
		return err
	}

	info := rule.Info()
	info.DefaultSeverity = lintCfg.GetSeverity(rule)

	if ok, err := r.Structured(info); ok {
		return err
	}

	def := "no"
	if info.Default {
		def = "yes"
	}

	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println(output.FormatHeader(1, info.ID))
		r.Println("")
		r.Println(info.Description)
		r.Println("")
		r.Println(output.FormatKeyValue("Flag", "`"+info.Flag+"`"))
		r.Println(output.FormatKeyValue("Group", info.Group))
		r.Println(output.FormatKeyValue("Severity", info.DefaultSeverity.String()))
		r.Println(output.FormatKeyValue("Default", def))
		r.Println(output.FormatKeyValue("Applies to", info.AppliesTo))
		if info.Rationale != "" {
			r.Println("")
			r.Println(output.FormatHeader(2, "Why This Matters"))
			r.Println("")
			r.Println(info.Rationale)
		}
		return nil
	}

	styles := r.Styles()
	r.Println(styles.Header1.Render(fmt.Sprintf("%s (%s)", info.ID, info.Flag)))
	r.Println("")
	r.Println("  " + info.Description)
	r.Println("")
	r.Printf("  %s: %s\n", styles.Bold.Render("Group"), info.Group)
	r.Printf("  %s: %s\n", styles.Bold.Render("Severity"), info.DefaultSeverity.String())
	r.Printf("  %s: %s\n", styles.Bold.Render("Default"), def)
	r.Printf("  %s: %s\n", styles.Bold.Render("Applies to"), info.AppliesTo)
	if info.Rationale != "" {
		r.Println("")
		r.Println(styles.Bold.Render("Why This Matters"))
		r.Println("  " + info.Rationale)
	}
	return nil
}
