package lint

import "github.com/leapstack-labs/evaldbt/pkg/core"

const (
	stagingPrefix      = "stg_"
	intermediatePrefix = "int_"
	modelIDPrefix      = "model"

	stagingDir      = "staging"
	intermediateDir = "intermediate"
	martsDir        = "marts"

	modelFanOutThreshold = 3
)

// IsInvalid reports whether node violates the rule. It is pure and total:
// rules scoped to models or sources return false for every other resource
// type, and unknown rules return false.
func (r Rule) IsInvalid(node *core.Node) bool {
	if node == nil {
		return false
	}

	switch r {
	case DirectJoinSource:
		return node.IsModel() && len(node.Sources) > 0 && len(node.Refs) > 0

	case MartsOrIntermediateOnSource:
		return node.IsModel() && len(node.Sources) > 0 &&
			(node.InDirectory(martsDir) || node.InDirectory(intermediateDir))

	case HardCodedReferences:
		return node.IsModel() && len(node.Refs) == 0 && len(node.Sources) == 0

	case ModelFanOut:
		return node.IsModel() && node.ChildIDs.Len() > modelFanOutThreshold

	case MultipleSourcesJoined:
		return node.IsModel() && len(node.Sources) > 1

	case NoParents:
		// Same condition as HardCodedReferences; both stay so reports keep
		// their distinct descriptions.
		return node.IsModel() && len(node.Sources) == 0 && len(node.Refs) == 0

	case StagingOnDownstream:
		return node.IsModel() && node.HasPrefix(stagingPrefix) && len(node.Refs) > 0

	case SourceFanOut:
		return node.IsSource() && node.ChildIDs.CountPrefix(modelIDPrefix) > 1

	case StagingOnStaging:
		return node.IsModel() && node.HasPrefix(stagingPrefix) &&
			node.ParentIDs.CountPrefix(stagingPrefix) > 1

	case UnusedSources:
		// not evaluated per node
		return false

	case NamingConventions:
		return node.IsModel() &&
			((node.InDirectory(intermediateDir) && node.HasPrefix(intermediatePrefix)) ||
				(node.InDirectory(stagingDir) && node.HasPrefix(stagingPrefix)))

	case BadDirectory:
		return node.IsModel() &&
			((!node.InDirectory(stagingDir) && node.HasPrefix(stagingPrefix)) ||
				(!node.InDirectory(intermediateDir) && node.HasPrefix(intermediatePrefix)))
	}

	return false
}
