package commands

import (
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/evaldbt/internal/cli/output"
	evaltest "github.com/leapstack-labs/evaldbt/internal/testutil"
)

const cyclicManifest = `{
  "nodes": {
    "model.p.a": {"name": "a", "resource_type": "model", "fqn": ["p", "a"]},
    "model.p.b": {"name": "b", "resource_type": "model", "fqn": ["p", "b"]}
  },
  "parent_map": {"model.p.a": ["model.p.b"], "model.p.b": ["model.p.a", "seed.p.missing"]},
  "child_map": {"model.p.a": ["model.p.b"], "model.p.b": ["model.p.a"]}
}`

func TestGraphCommand_JSON(t *testing.T) {
	path := jaffleManifest(t)

	out, _, err := execute(t, NewGraphCommand(), path, "--format", "json")
	require.NoError(t, err)

	var result output.GraphOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))

	assert.Equal(t, 5, result.Nodes)
	assert.Equal(t, 4, result.Edges)
	assert.Equal(t, map[string]int{"model": 4, "source": 1}, result.ByType)
	assert.Equal(t, []string{"model.jaffle_shop.calendar", "source.jaffle_shop.raw.orders"}, result.Roots)
	assert.Contains(t, result.Leaves, "model.jaffle_shop.orders")
	assert.Empty(t, result.Dangling)
	assert.False(t, result.HasCycle)
}

func TestGraphCommand_Markdown(t *testing.T) {
	path := jaffleManifest(t)

	out, _, err := execute(t, NewGraphCommand(), path)
	require.NoError(t, err)

	assert.Contains(t, out, "# Dependency Graph")
	assert.Contains(t, out, "- **Nodes:** 5")
	assert.Contains(t, out, "## Resource Types")
	assert.Contains(t, out, "| model | 4 |")
	assert.Contains(t, out, "- **Cycle:** none")
}

func TestGraphCommand_CycleAndDangling(t *testing.T) {
	path := evaltest.WriteManifest(t, t.TempDir(), cyclicManifest)

	out, _, err := execute(t, NewGraphCommand(), path, "-f", "json")
	require.NoError(t, err)

	var result output.GraphOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.HasCycle)
	assert.NotEmpty(t, result.Cycle)
	assert.Equal(t, []string{"seed.p.missing"}, result.Dangling)
}

func TestLoadGraph_Logging(t *testing.T) {
	t.Run("clean manifest", func(t *testing.T) {
		logger, logs := evaltest.NewCaptureLogger(slog.LevelDebug)

		g, err := loadGraph(jaffleManifest(t), logger)
		require.NoError(t, err)
		assert.Equal(t, 5, g.NodeCount())
		assert.Contains(t, logs.String(), "manifest loaded")
		assert.Contains(t, logs.String(), "parent_edges=4")
		assert.NotContains(t, logs.String(), "unknown nodes")
	})

	t.Run("dangling ids warn", func(t *testing.T) {
		logger, logs := evaltest.NewCaptureLogger(slog.LevelWarn)

		_, err := loadGraph(evaltest.WriteManifest(t, t.TempDir(), cyclicManifest), logger)
		require.NoError(t, err)
		assert.NotContains(t, logs.String(), "manifest loaded")
		assert.Contains(t, logs.String(), "manifest references unknown nodes")
		assert.Contains(t, logs.String(), "count=1")
	})
}
