// Package dag builds the navigable manifest graph from a flat manifest.
// It folds the global parent/child edge maps into per-node adjacency and
// supports cycle detection and upstream/downstream traversal for reporting.
package dag

import (
	"maps"
	"slices"
	"sort"

	"github.com/leapstack-labs/evaldbt/pkg/core"
)

// Graph owns every manifest node keyed by node id. It is built once and
// not mutated afterwards.
type Graph struct {
	nodes map[string]*core.Node
	ids   []string // sorted node ids
}

// Build creates a Graph from raw manifest nodes and the global edge maps.
//
// Every node starts with empty parent and child sets, which are then filled
// from parents[id] and children[id]. A node missing from an edge map simply
// keeps an empty set. Ids referenced by an edge but absent from rawNodes are
// kept as opaque ids in the set.
func Build(rawNodes map[string]core.RawNode, parents, children map[string][]string) *Graph {
	g := &Graph{
		nodes: make(map[string]*core.Node, len(rawNodes)),
		ids:   make([]string, 0, len(rawNodes)),
	}

	for id, raw := range rawNodes {
		node := &core.Node{
			ID:           id,
			Name:         raw.Name,
			ResourceType: raw.ResourceType,
			FQN:          slices.Clone(raw.FQN),
			Refs:         cloneNames(raw.Refs),
			Sources:      cloneNames(raw.Sources),
			Columns:      maps.Clone(raw.Columns),
			ParentIDs:    core.NewIDSet(parents[id]...),
			ChildIDs:     core.NewIDSet(children[id]...),
		}
		g.nodes[id] = node
		g.ids = append(g.ids, id)
	}

	// Sort for deterministic output
	sort.Strings(g.ids)

	return g
}

// cloneNames deep-copies ref and source name lists. nil stays nil.
func cloneNames(names [][]string) [][]string {
	if names == nil {
		return nil
	}
	out := make([][]string, len(names))
	for i, n := range names {
		out[i] = slices.Clone(n)
	}
	return out
}

// GetNode returns a node by ID.
func (g *Graph) GetNode(id string) (*core.Node, bool) {
	node, exists := g.nodes[id]
	return node, exists
}

// GetParents returns the parent ids of a node in sorted order.
func (g *Graph) GetParents(id string) []string {
	if node, ok := g.nodes[id]; ok {
		return node.ParentIDs.Sorted()
	}
	return nil
}

// GetChildren returns the child ids of a node in sorted order.
func (g *Graph) GetChildren(id string) []string {
	if node, ok := g.nodes[id]; ok {
		return node.ChildIDs.Sorted()
	}
	return nil
}

// IDs returns all node ids in sorted order.
func (g *Graph) IDs() []string {
	out := make([]string, len(g.ids))
	copy(out, g.ids)
	return out
}

// GetAllNodes returns all nodes sorted by id.
func (g *Graph) GetAllNodes() []*core.Node {
	nodes := make([]*core.Node, 0, len(g.ids))
	for _, id := range g.ids {
		nodes = append(nodes, g.nodes[id])
	}
	return nodes
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of child edges, dangling ones included.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, node := range g.nodes {
		count += node.ChildIDs.Len()
	}
	return count
}

// CountByType returns the number of nodes per resource type.
func (g *Graph) CountByType() map[core.ResourceType]int {
	counts := make(map[core.ResourceType]int)
	for _, node := range g.nodes {
		counts[node.ResourceType]++
	}
	return counts
}

// Dangling returns edge targets that are not nodes of the graph, sorted.
func (g *Graph) Dangling() []string {
	seen := make(map[string]bool)
	for _, node := range g.nodes {
		for id := range node.ParentIDs {
			if _, ok := g.nodes[id]; !ok {
				seen[id] = true
			}
		}
		for id := range node.ChildIDs {
			if _, ok := g.nodes[id]; !ok {
				seen[id] = true
			}
		}
	}
	result := make([]string, 0, len(seen))
	for id := range seen {
		result = append(result, id)
	}
	sort.Strings(result)
	return result
}

// HasCycle returns true if the graph contains a cycle, along with the cycle path.
// Only edges between known nodes are followed.
func (g *Graph) HasCycle() (bool, []string) {
	visited := make(map[string]bool)
	recStack := make(map[string]bool)
	path := make(map[string]string) // Track the path for error reporting

	var cyclePath []string

	var dfs func(id string) bool
	dfs = func(id string) bool {
		visited[id] = true
		recStack[id] = true

		for _, childID := range g.nodes[id].ChildIDs.Sorted() {
			if _, known := g.nodes[childID]; !known {
				continue
			}
			if !visited[childID] {
				path[childID] = id
				if dfs(childID) {
					return true
				}
			} else if recStack[childID] {
				// Found cycle, reconstruct path
				cyclePath = []string{childID}
				for curr := id; curr != childID; curr = path[curr] {
					cyclePath = append([]string{curr}, cyclePath...)
				}
				cyclePath = append([]string{childID}, cyclePath...)
				return true
			}
		}

		recStack[id] = false
		return false
	}

	for _, id := range g.ids {
		if !visited[id] {
			if dfs(id) {
				return true, cyclePath
			}
		}
	}

	return false, nil
}

// GetDownstreamNodes returns every node reachable through child edges.
func (g *Graph) GetDownstreamNodes(id string) []string {
	return g.walk(id, func(n *core.Node) core.IDSet { return n.ChildIDs })
}

// GetUpstreamNodes returns all nodes upstream of the given node (its dependencies and their dependencies).
func (g *Graph) GetUpstreamNodes(id string) []string {
	return g.walk(id, func(n *core.Node) core.IDSet { return n.ParentIDs })
}

func (g *Graph) walk(id string, next func(*core.Node) core.IDSet) []string {
	seen := make(map[string]bool)

	var mark func(nodeID string)
	mark = func(nodeID string) {
		node, ok := g.nodes[nodeID]
		if !ok {
			return
		}
		for adj := range next(node) {
			if !seen[adj] && adj != id {
				seen[adj] = true
				mark(adj)
			}
		}
	}

	mark(id)

	result := make([]string, 0, len(seen))
	for nodeID := range seen {
		result = append(result, nodeID)
	}
	sort.Strings(result)
	return result
}

// GetRoots returns nodes with no parents (no dependencies).
func (g *Graph) GetRoots() []string {
	var roots []string
	for _, id := range g.ids {
		if g.nodes[id].ParentIDs.Len() == 0 {
			roots = append(roots, id)
		}
	}
	return roots
}

// GetLeaves returns nodes with no children (no dependents).
func (g *Graph) GetLeaves() []string {
	var leaves []string
	for _, id := range g.ids {
		if g.nodes[id].ChildIDs.Len() == 0 {
			leaves = append(leaves, id)
		}
	}
	return leaves
}
