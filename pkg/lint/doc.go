// Package lint evaluates a manifest graph against a fixed catalog of
// structural smell rules.
//
// # Rule Catalog
//
// The catalog is closed: every rule is a value of the Rule enum and is
// dispatched by a switch in Rule.IsInvalid. Adding a rule means adding an
// enum value, a catalog entry and a case; existing rules never change.
//
// Modeling rules (DAG shape):
//   - DirectJoinSource, MartsOrIntermediateOnSource, HardCodedReferences,
//     ModelFanOut, MultipleSourcesJoined, NoParents, StagingOnDownstream,
//     SourceFanOut, StagingOnStaging, UnusedSources
//
// Structure rules (naming and directories, opt-in):
//   - NamingConventions, BadDirectory
//
// Every predicate looks at a single node. Fan-out rules count the node's own
// parent/child ids and never traverse further. UnusedSources is a
// placeholder for a whole-graph check and never reports a node.
//
// # Usage
//
//	g := manifest.Graph()
//	report := lint.Check(g, lint.DefaultRules())
//	for _, desc := range report.Descriptions() {
//		fmt.Println(desc, report.Get(desc))
//	}
//
// For large manifests CheckParallel shards nodes across workers and merges
// the partial reports into the same result Check would produce.
package lint
