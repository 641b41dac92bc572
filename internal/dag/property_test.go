package dag

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/leapstack-labs/evaldbt/pkg/core"
)

func distinct(ids []string) int {
	return core.NewIDSet(ids...).Len()
}

// TestBuildInvariants checks the builder against randomly generated manifests.
func TestBuildInvariants(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("node count equals distinct raw ids", prop.ForAll(
		func(ids []string) bool {
			raw := make(map[string]core.RawNode, len(ids))
			for _, id := range ids {
				raw[id] = rawModel(id)
			}
			return Build(raw, nil, nil).NodeCount() == distinct(ids)
		},
		gen.SliceOf(gen.Identifier()),
	))

	properties.Property("adjacency sizes match de-duplicated edge lists", prop.ForAll(
		func(ids, parentEdges, childEdges []string) bool {
			raw := make(map[string]core.RawNode, len(ids))
			parents := make(map[string][]string, len(ids))
			children := make(map[string][]string, len(ids))
			for _, id := range ids {
				raw[id] = rawModel(id)
				parents[id] = parentEdges
				children[id] = childEdges
			}

			g := Build(raw, parents, children)
			for _, n := range g.GetAllNodes() {
				if n.ParentIDs.Len() != distinct(parentEdges) || n.ChildIDs.Len() != distinct(childEdges) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Identifier()),
		gen.SliceOf(gen.Identifier()),
		gen.SliceOf(gen.Identifier()),
	))

	properties.Property("nodes outside the edge maps get empty sets", prop.ForAll(
		func(ids []string) bool {
			raw := make(map[string]core.RawNode, len(ids))
			for _, id := range ids {
				raw[id] = rawModel(id)
			}
			for _, n := range Build(raw, map[string][]string{}, map[string][]string{}).GetAllNodes() {
				if n.ParentIDs == nil || n.ChildIDs == nil || n.ParentIDs.Len() != 0 || n.ChildIDs.Len() != 0 {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Identifier()),
	))

	properties.TestingRun(t)
}
