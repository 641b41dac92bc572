package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/evaldbt/internal/cli/output"
	"github.com/leapstack-labs/evaldbt/internal/dag"
)

// GraphOptions holds options for the graph command.
type GraphOptions struct {
	Format string
}

// NewGraphCommand creates the graph command.
func NewGraphCommand() *cobra.Command {
	opts := &GraphOptions{}
	cmd := &cobra.Command{
		Use:   "graph [manifest]",
		Short: "Summarize the manifest dependency graph",
		Long: `Build the node graph from a manifest and summarize it.

Shows node counts by resource type, edge count, roots (no parents),
leaves (no children), ids the edge lists mention but the manifest does
not define, and whether the graph contains a cycle.`,
		Example: `  # Summarize the default manifest
  evaldbt graph

  # Output as JSON
  evaldbt graph target/manifest.json --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json, yaml")

	return cmd
}

func runGraph(cmd *cobra.Command, args []string, opts *GraphOptions) error {
	cmdCtx, err := NewCommandContext(cmd, opts.Format)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	path := manifestPath(cmdCtx.Cfg, args)
	g, err := loadGraph(path, cmdCtx.Logger)
	if err != nil {
		return err
	}

	result := buildGraphOutput(path, g)
	if ok, err := r.Structured(result); ok {
		return err
	}

	markdown := r.EffectiveMode() == output.ModeMarkdown
	header := func(level int, text string) string {
		if markdown {
			return output.FormatHeader(level, text)
		}
		if level == 1 {
			return r.Styles().Header1.Render(text)
		}
		return r.Styles().Header2.Render(text)
	}

	r.Println(header(1, "Dependency Graph"))
	r.Println("")
	r.Println(output.FormatKeyValue("Manifest", result.Manifest))
	r.Println(output.FormatKeyValue("Nodes", fmt.Sprintf("%d", result.Nodes)))
	r.Println(output.FormatKeyValue("Edges", fmt.Sprintf("%d", result.Edges)))
	r.Println("")

	types := make([]string, 0, len(result.ByType))
	for rt := range result.ByType {
		types = append(types, rt)
	}
	sort.Strings(types)
	rows := make([]table.Row, 0, len(types))
	for _, rt := range types {
		rows = append(rows, table.Row{rt, result.ByType[rt]})
	}
	r.Println(header(2, "Resource Types"))
	r.Println("")
	r.Table(table.Row{"Resource Type", "Count"}, rows)
	r.Println("")

	r.Println(header(2, "Structure"))
	r.Println("")
	r.Println(output.FormatKeyValue("Roots", output.FormatList(result.Roots)))
	r.Println(output.FormatKeyValue("Leaves", output.FormatList(result.Leaves)))
	r.Println(output.FormatKeyValue("Dangling", output.FormatList(result.Dangling)))
	if result.HasCycle {
		r.Println(output.FormatKeyValue("Cycle", strings.Join(result.Cycle, " -> ")))
	} else {
		r.Println(output.FormatKeyValue("Cycle", "none"))
	}

	return nil
}

func buildGraphOutput(path string, g *dag.Graph) output.GraphOutput {
	byType := make(map[string]int)
	for rt, n := range g.CountByType() {
		byType[string(rt)] = n
	}

	hasCycle, cycle := g.HasCycle()
	return output.GraphOutput{
		Manifest: path,
		Nodes:    g.NodeCount(),
		Edges:    g.EdgeCount(),
		ByType:   byType,
		Roots:    g.GetRoots(),
		Leaves:   g.GetLeaves(),
		Dangling: g.Dangling(),
		HasCycle: hasCycle,
		Cycle:    cycle,
	}
}
