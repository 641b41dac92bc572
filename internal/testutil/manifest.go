package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// JaffleManifest is a trimmed dbt manifest with a known set of smells:
//
//   - orders refs a model and reads a source (DirectJoinSource, MartsOrIntermediateOnSource)
//   - calendar has neither refs nor sources (HardCodedReferences, NoParents)
//   - the orders source feeds three models (SourceFanOut)
//   - stg_customers reads a source from marts (MartsOrIntermediateOnSource, BadDirectory opt-in)
const JaffleManifest = `{
  "metadata": {"dbt_version": "1.7.0"},
  "nodes": {
    "model.jaffle_shop.stg_orders": {
      "name": "stg_orders",
      "resource_type": "model",
      "fqn": ["jaffle_shop", "staging", "stg_orders"],
      "sources": [["raw", "orders"]],
      "columns": {"order_id": {"name": "order_id", "description": "primary key"}}
    },
    "model.jaffle_shop.stg_customers": {
      "name": "stg_customers",
      "resource_type": "model",
      "fqn": ["jaffle_shop", "marts", "stg_customers"],
      "sources": [["raw", "orders"]],
      "columns": {}
    },
    "model.jaffle_shop.orders": {
      "name": "orders",
      "resource_type": "model",
      "fqn": ["jaffle_shop", "marts", "orders"],
      "refs": [["stg_orders"]],
      "sources": [["raw", "orders"]],
      "columns": {}
    },
    "model.jaffle_shop.calendar": {
      "name": "calendar",
      "resource_type": "model",
      "fqn": ["jaffle_shop", "marts", "calendar"],
      "columns": {}
    },
    "source.jaffle_shop.raw.orders": {
      "name": "orders",
      "resource_type": "source",
      "fqn": ["jaffle_shop", "raw", "orders"],
      "columns": {}
    }
  },
  "parent_map": {
    "model.jaffle_shop.stg_orders": ["source.jaffle_shop.raw.orders"],
    "model.jaffle_shop.stg_customers": ["source.jaffle_shop.raw.orders"],
    "model.jaffle_shop.orders": ["model.jaffle_shop.stg_orders", "source.jaffle_shop.raw.orders"],
    "model.jaffle_shop.calendar": []
  },
  "child_map": {
    "source.jaffle_shop.raw.orders": [
      "model.jaffle_shop.stg_orders",
      "model.jaffle_shop.stg_customers",
      "model.jaffle_shop.orders"
    ],
    "model.jaffle_shop.stg_orders": ["model.jaffle_shop.orders"],
    "model.jaffle_shop.orders": []
  }
}`

// WriteManifest writes content to <dir>/target/manifest.json and returns the path.
func WriteManifest(t testing.TB, dir, content string) string {
	t.Helper()

	target := filepath.Join(dir, "target")
	if err := os.MkdirAll(target, 0o755); err != nil {
		t.Fatalf("failed to create %s: %v", target, err)
	}
	path := filepath.Join(target, "manifest.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	return path
}
