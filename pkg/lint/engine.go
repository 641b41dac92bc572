package lint

import (
	"context"
	"log/slog"
	"time"

	"github.com/leapstack-labs/evaldbt/pkg/core"
	"golang.org/x/sync/errgroup"
)

// Graph is the read side of a manifest graph the engine needs.
// Nodes must come back in a stable order; *dag.Graph sorts them by id.
type Graph interface {
	GetAllNodes() []*core.Node
}

// Check evaluates every rule against every node and groups violating node
// names by rule description. Nodes are visited in graph order and rules in
// the order given; a rule listed twice reports its nodes twice.
func Check(g Graph, rules []Rule) *Report {
	report := NewReport()
	if g == nil {
		return report
	}
	checkNodes(g.GetAllNodes(), rules, report)
	return report
}

func checkNodes(nodes []*core.Node, rules []Rule, report *Report) {
	for _, node := range nodes {
		for _, rule := range rules {
			if rule.IsInvalid(node) {
				report.Add(rule.Description(), node.Name)
			}
		}
	}
}

// CheckParallel shards nodes across workers and merges the partial reports
// by shard index. The result is identical to Check. It only fails when ctx
// is cancelled.
func CheckParallel(ctx context.Context, g Graph, rules []Rule, workers int) (*Report, error) {
	if g == nil {
		return NewReport(), nil
	}
	nodes := g.GetAllNodes()
	if workers <= 1 || len(nodes) <= 1 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		report := NewReport()
		checkNodes(nodes, rules, report)
		return report, nil
	}

	if workers > len(nodes) {
		workers = len(nodes)
	}
	shardSize := (len(nodes) + workers - 1) / workers
	shards := make([]*Report, workers)

	eg, egCtx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		start := i * shardSize
		end := min(start+shardSize, len(nodes))
		shards[i] = NewReport()
		if start >= end {
			continue
		}

		shard, part := nodes[start:end], shards[i]
		eg.Go(func() error {
			for _, node := range shard {
				if err := egCtx.Err(); err != nil {
					return err
				}
				checkNodes([]*core.Node{node}, rules, part)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	report := NewReport()
	for _, part := range shards {
		report.Merge(part)
	}
	return report, nil
}

// Engine runs a fixed rule selection against manifest graphs.
type Engine struct {
	rules   []Rule
	workers int
	logger  *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers sets how many shards evaluate nodes concurrently.
// Values below 2 keep evaluation sequential.
func WithWorkers(n int) Option {
	return func(e *Engine) { e.workers = n }
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithConfig drops rules the config disables.
func WithConfig(cfg *Config) Option {
	return func(e *Engine) { e.rules = cfg.Filter(e.rules) }
}

// NewEngine creates an engine for the given selection. An empty selection
// means DefaultRules.
func NewEngine(rules []Rule, opts ...Option) *Engine {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	e := &Engine{
		rules:  append([]Rule(nil), rules...),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Rules returns the engine's selection in evaluation order.
func (e *Engine) Rules() []Rule {
	return append([]Rule(nil), e.rules...)
}

// Run evaluates the engine's rules against g.
func (e *Engine) Run(ctx context.Context, g Graph) (*Report, error) {
	start := time.Now()
	e.logger.Debug("evaluating rules", "rules", len(e.rules), "workers", e.workers)

	report, err := CheckParallel(ctx, g, e.rules, e.workers)
	if err != nil {
		return nil, err
	}

	e.logger.Info("evaluation complete",
		"buckets", report.Len(),
		"violations", report.Total(),
		"duration", time.Since(start))
	return report, nil
}
