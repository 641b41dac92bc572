package core

import (
	"slices"
	"strings"
)

// ResourceType tags what kind of manifest entry a node is.
type ResourceType string

// Resource types the rule catalog knows about. Other values pass through
// unchanged and match no rule.
const (
	ResourceTypeModel  ResourceType = "model"
	ResourceTypeSource ResourceType = "source"
)

// Column is carried through from the manifest; no rule inspects it.
type Column struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// RawNode is a node exactly as it appears in the manifest, before the
// global parent/child maps have been folded into it.
type RawNode struct {
	Name         string            `json:"name" validate:"required"`
	ResourceType ResourceType      `json:"resource_type" validate:"required"`
	FQN          []string          `json:"fqn" validate:"required,dive,required"`
	Refs         [][]string        `json:"refs"`
	Sources      [][]string        `json:"sources"`
	Columns      map[string]Column `json:"columns"`
}

// Node is a graph vertex with its resolved adjacency.
type Node struct {
	// ID is the manifest key, e.g. "model.jaffle_shop.stg_orders"
	ID string
	// Name is the short name, e.g. "stg_orders"; it is the report key
	Name         string
	ResourceType ResourceType
	// FQN holds path segments (package, directories, name)
	FQN []string
	// Refs are references to other models
	Refs [][]string
	// Sources are references to raw sources
	Sources [][]string
	Columns map[string]Column
	// ParentIDs are the ids this node depends on
	ParentIDs IDSet
	// ChildIDs are the ids that depend on this node
	ChildIDs IDSet
}

// IsModel reports whether the node is a model.
func (n *Node) IsModel() bool { return n.ResourceType == ResourceTypeModel }

// IsSource reports whether the node is a raw source.
func (n *Node) IsSource() bool { return n.ResourceType == ResourceTypeSource }

// InDirectory reports whether dir appears anywhere in the node's fqn.
func (n *Node) InDirectory(dir string) bool {
	return slices.Contains(n.FQN, dir)
}

// HasPrefix reports whether the node's name starts with prefix.
func (n *Node) HasPrefix(prefix string) bool {
	return strings.HasPrefix(n.Name, prefix)
}
