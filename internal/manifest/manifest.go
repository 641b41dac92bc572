// Package manifest reads a compiled dbt manifest and turns it into a graph.
//
// Only the parts the rule catalog needs are decoded: nodes, parent_map and
// child_map. Everything else in the file (metadata, macros, exposures) is
// ignored. Shape problems are reported as ErrMalformedManifest before any
// graph is built.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/leapstack-labs/evaldbt/internal/dag"
	"github.com/leapstack-labs/evaldbt/pkg/core"
)

// ErrMalformedManifest marks input that cannot be turned into a graph.
var ErrMalformedManifest = errors.New("malformed manifest")

// validate is a singleton validator instance
var validate = validator.New()

// Manifest is the unprocessed manifest shape.
type Manifest struct {
	Nodes     map[string]core.RawNode `json:"nodes" validate:"required"`
	ParentMap map[string][]string     `json:"parent_map"`
	ChildMap  map[string][]string     `json:"child_map"`
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	m, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse decodes and validates manifest JSON.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedManifest, err)
	}
	return finish(&m)
}

// Decode reads manifest JSON from r.
func Decode(r io.Reader) (*Manifest, error) {
	var m Manifest
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedManifest, err)
	}
	return finish(&m)
}

func finish(m *Manifest) (*Manifest, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	m.normalize()
	return m, nil
}

// Validate checks the manifest shape. Node ids are checked in sorted order
// so the first reported problem is stable.
func (m *Manifest) Validate() error {
	if err := validate.Struct(m); err != nil {
		return fmt.Errorf("%w: %s", ErrMalformedManifest, formatValidationError(err))
	}

	ids := make([]string, 0, len(m.Nodes))
	for id := range m.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		node := m.Nodes[id]
		if err := validate.Struct(&node); err != nil {
			return fmt.Errorf("%w: node %q: %s", ErrMalformedManifest, id, formatValidationError(err))
		}
	}
	return nil
}

// normalize gives omitted refs, sources and columns their empty defaults.
func (m *Manifest) normalize() {
	for id, node := range m.Nodes {
		if node.Refs == nil {
			node.Refs = [][]string{}
		}
		if node.Sources == nil {
			node.Sources = [][]string{}
		}
		if node.Columns == nil {
			node.Columns = map[string]core.Column{}
		}
		m.Nodes[id] = node
	}
}

// Graph folds the edge maps into a navigable graph.
func (m *Manifest) Graph() *dag.Graph {
	return dag.Build(m.Nodes, m.ParentMap, m.ChildMap)
}

// EdgeCount returns the number of entries across both edge maps.
func (m *Manifest) EdgeCount() (parents, children int) {
	for _, ids := range m.ParentMap {
		parents += len(ids)
	}
	for _, ids := range m.ChildMap {
		children += len(ids)
	}
	return parents, children
}

// formatValidationError converts validator errors to a readable message
func formatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}

	msgs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		field := jsonFieldName(e.Namespace())
		switch e.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", field, e.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}

var fieldNames = map[string]string{
	"Nodes":        "nodes",
	"Name":         "name",
	"ResourceType": "resource_type",
	"FQN":          "fqn",
}

// jsonFieldName maps "RawNode.FQN[1]" to "fqn[1]".
func jsonFieldName(namespace string) string {
	parts := strings.Split(namespace, ".")
	last := parts[len(parts)-1]
	field, index, _ := strings.Cut(last, "[")
	if name, ok := fieldNames[field]; ok {
		field = name
	}
	if index != "" {
		return field + "[" + index
	}
	return field
}
