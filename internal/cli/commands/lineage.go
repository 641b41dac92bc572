package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/evaldbt/internal/cli/output"
	"github.com/leapstack-labs/evaldbt/internal/dag"
)

// LineageOptions holds options for the lineage command.
type LineageOptions struct {
	Format     string
	Upstream   bool
	Downstream bool
	Depth      int
}

// NewLineageCommand creates the lineage command.
func NewLineageCommand() *cobra.Command {
	opts := &LineageOptions{}

	cmd := &cobra.Command{
		Use:   "lineage <node>",
		Short: "Show lineage for a node",
		Long: `Display the upstream dependencies and downstream dependents of a node.

The node may be given by its unique id (model.jaffle_shop.orders) or by
name when the name is unambiguous.`,
		Example: `  # Show full lineage for a model
  evaldbt lineage stg_orders

  # Show only upstream dependencies
  evaldbt lineage model.jaffle_shop.orders --downstream=false

  # Limit traversal depth
  evaldbt lineage stg_orders --depth 1

  # Output as JSON
  evaldbt lineage stg_orders --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLineage(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json, yaml")
	cmd.Flags().BoolVar(&opts.Upstream, "upstream", true, "Include upstream dependencies")
	cmd.Flags().BoolVar(&opts.Downstream, "downstream", true, "Include downstream dependents")
	cmd.Flags().IntVar(&opts.Depth, "depth", 0, "Max traversal depth (0 = unlimited)")

	return cmd
}

func runLineage(cmd *cobra.Command, ref string, opts *LineageOptions) error {
	if opts.Depth < 0 {
		return fmt.Errorf("depth must be >= 0 (got %d)", opts.Depth)
	}

	cmdCtx, err := NewCommandContext(cmd, opts.Format)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	path := manifestPath(cmdCtx.Cfg, nil)
	g, err := loadGraph(path, cmdCtx.Logger)
	if err != nil {
		return err
	}

	id, err := resolveNode(g, ref)
	if err != nil {
		return err
	}

	result := output.LineageOutput{Root: id, Upstream: []string{}, Downstream: []string{}}
	if opts.Upstream {
		result.Upstream = walkWithDepth(g, id, opts.Depth, upstream)
	}
	if opts.Downstream {
		result.Downstream = walkWithDepth(g, id, opts.Depth, downstream)
	}

	if ok, err := r.Structured(result); ok {
		return err
	}

	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println(output.FormatHeader(1, "Lineage: "+id))
	} else {
		r.Println(r.Styles().Header1.Render("Lineage: " + id))
	}
	r.Println("")
	if opts.Upstream {
		r.Println(output.FormatKeyValue(fmt.Sprintf("Upstream (%d)", len(result.Upstream)), output.FormatList(result.Upstream)))
	}
	if opts.Downstream {
		r.Println(output.FormatKeyValue(fmt.Sprintf("Downstream (%d)", len(result.Downstream)), output.FormatList(result.Downstream)))
	}
	return nil
}

// resolveNode accepts a node id or an unambiguous node name.
func resolveNode(g *dag.Graph, ref string) (string, error) {
	if _, ok := g.GetNode(ref); ok {
		return ref, nil
	}

	var matches []string
	for _, node := range g.GetAllNodes() {
		if node.Name == ref {
			matches = append(matches, node.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("node not found: %s", ref)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("node name %q is ambiguous: %s", ref, strings.Join(matches, ", "))
	}
}

type direction int

const (
	upstream direction = iota
	downstream
)

// walkWithDepth collects nodes reachable in dir, up to maxDepth hops
// (0 = unlimited). The result is sorted.
func walkWithDepth(g *dag.Graph, id string, maxDepth int, dir direction) []string {
	if maxDepth == 0 {
		if dir == upstream {
			return g.GetUpstreamNodes(id)
		}
		return g.GetDownstreamNodes(id)
	}

	next := g.GetChildren
	if dir == upstream {
		next = g.GetParents
	}

	visited := map[string]bool{id: true}
	result := []string{}
	frontier := []string{id}
	for depth := 1; depth <= maxDepth && len(frontier) > 0; depth++ {
		var nextFrontier []string
		for _, nodeID := range frontier {
			for _, adj := range next(nodeID) {
				if !visited[adj] {
					visited[adj] = true
					result = append(result, adj)
					nextFrontier = append(nextFrontier, adj)
				}
			}
		}
		frontier = nextFrontier
	}

	sort.Strings(result)
	return result
}
