// Package core defines the shared language of evaldbt.
//
// This package contains:
//   - Manifest entities (RawNode, Node, Column)
//   - Resource type tags (model, source)
//   - Rule metadata DTOs (RuleInfo, Severity)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
