package lint

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/evaldbt/pkg/core"
)

// ErrUnknownRule is returned when a rule selection names a rule outside the catalog.
var ErrUnknownRule = errors.New("unknown rule")

// Rule identifies a catalog entry.
type Rule int

// Catalog rules, in declaration order.
const (
	DirectJoinSource Rule = iota
	MartsOrIntermediateOnSource
	HardCodedReferences
	ModelFanOut
	MultipleSourcesJoined
	NoParents
	StagingOnDownstream
	SourceFanOut
	StagingOnStaging
	UnusedSources
	NamingConventions
	BadDirectory

	ruleCount
)

// Rule groups.
const (
	GroupModeling  = "modeling"
	GroupStructure = "structure"
)

type ruleDef struct {
	id          string
	flag        string
	group       string
	description string
	appliesTo   core.ResourceType
	isDefault   bool
	rationale   string
}

var catalog = [ruleCount]ruleDef{
	DirectJoinSource: {
		id:          "DirectJoinSource",
		flag:        "direct-join-source",
		group:       GroupModeling,
		description: "Found models with a reference to both a model and a source",
		appliesTo:   core.ResourceTypeModel,
		isDefault:   true,
		rationale:   "Sources should be read through a staging model before being joined with other models.",
	},
	MartsOrIntermediateOnSource: {
		id:          "MartsOrIntermediateOnSource",
		flag:        "marts-or-intermediate-on-source",
		group:       GroupModeling,
		description: "Found marts or intermediates with a reference to a source",
		appliesTo:   core.ResourceTypeModel,
		isDefault:   true,
		rationale:   "Marts and intermediate models should only build on staging or other downstream models.",
	},
	HardCodedReferences: {
		id:          "HardCodedReferences",
		flag:        "hard-coded-references",
		group:       GroupModeling,
		description: "Found models with hardcoded references",
		appliesTo:   core.ResourceTypeModel,
		isDefault:   true,
		rationale:   "A model with neither ref nor source selects from a hardcoded relation that lineage cannot see.",
	},
	ModelFanOut: {
		id:          "ModelFanOut",
		flag:        "model-fan-out",
		group:       GroupModeling,
		description: "Found models with more than 3 leaf children",
		appliesTo:   core.ResourceTypeModel,
		isDefault:   true,
		rationale:   "More than 3 direct dependents usually means shared logic belongs in its own model.",
	},
	MultipleSourcesJoined: {
		id:          "MultipleSourcesJoined",
		flag:        "multiple-sources-joined",
		group:       GroupModeling,
		description: "Found models with references to more than one source",
		appliesTo:   core.ResourceTypeModel,
		isDefault:   true,
		rationale:   "Each source should be staged on its own before sources are combined.",
	},
	NoParents: {
		id:          "NoParents",
		flag:        "no-parents",
		group:       GroupModeling,
		description: "Found models with 0 direct parents",
		appliesTo:   core.ResourceTypeModel,
		isDefault:   true,
		rationale:   "Every model should depend on at least one source or model.",
	},
	StagingOnDownstream: {
		id:          "StagingOnDownstream",
		flag:        "staging-on-downstream",
		group:       GroupModeling,
		description: "Found staging models with references to downstream models",
		appliesTo:   core.ResourceTypeModel,
		isDefault:   true,
		rationale:   "Staging models sit directly on sources and should not ref other models.",
	},
	SourceFanOut: {
		id:          "SourceFanOut",
		flag:        "source-fan-out",
		group:       GroupModeling,
		description: "Found sources with multiple children",
		appliesTo:   core.ResourceTypeSource,
		isDefault:   true,
		rationale:   "A source read by more than one model should go through a single staging model.",
	},
	StagingOnStaging: {
		id:          "StagingOnStaging",
		flag:        "staging-on-staging",
		group:       GroupModeling,
		description: "Found staging models with references to other staging models",
		appliesTo:   core.ResourceTypeModel,
		isDefault:   true,
		rationale:   "Combining staging models is the job of an intermediate model.",
	},
	UnusedSources: {
		id:          "UnusedSources",
		flag:        "unused-sources",
		group:       GroupModeling,
		description: "Found unused sources",
		appliesTo:   core.ResourceTypeSource,
		isDefault:   true,
		rationale:   "Needs the whole graph; not evaluated per node and never reports.",
	},
	NamingConventions: {
		id:          "NamingConventions",
		flag:        "naming-conventions",
		group:       GroupStructure,
		description: "Found models with bad naming conventions",
		appliesTo:   core.ResourceTypeModel,
		rationale:   "Checks stg_ and int_ prefixes against the staging and intermediate directories.",
	},
	BadDirectory: {
		id:          "BadDirectory",
		flag:        "bad-directory",
		group:       GroupStructure,
		description: "Found models not in the appropriate directory",
		appliesTo:   core.ResourceTypeModel,
		rationale:   "stg_ models belong under staging and int_ models under intermediate.",
	},
}

func (r Rule) def() (ruleDef, bool) {
	if r < 0 || r >= ruleCount {
		return ruleDef{}, false
	}
	return catalog[r], true
}

// Valid reports whether r is a catalog rule.
func (r Rule) Valid() bool {
	_, ok := r.def()
	return ok
}

// String returns the symbolic rule name, e.g. "DirectJoinSource".
func (r Rule) String() string {
	if d, ok := r.def(); ok {
		return d.id
	}
	return fmt.Sprintf("Rule(%d)", int(r))
}

// Flag returns the kebab-case name accepted on the command line.
func (r Rule) Flag() string {
	d, _ := r.def()
	return d.flag
}

// Group returns the rule category.
func (r Rule) Group() string {
	d, _ := r.def()
	return d.group
}

// Description returns the human-readable text used as the report key.
func (r Rule) Description() string {
	d, _ := r.def()
	return d.description
}

// IsDefault reports whether the rule runs when the caller selects nothing.
func (r Rule) IsDefault() bool {
	d, _ := r.def()
	return d.isDefault
}

// Info returns the rule metadata for documentation and tooling.
func (r Rule) Info() core.RuleInfo {
	d, _ := r.def()
	return core.RuleInfo{
		ID:              d.id,
		Flag:            d.flag,
		Group:           d.group,
		Description:     d.description,
		DefaultSeverity: core.SeverityWarning,
		Default:         d.isDefault,
		AppliesTo:       string(d.appliesTo),
		Rationale:       d.rationale,
	}
}

// MarshalText encodes the rule by its symbolic name.
func (r Rule) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownRule, int(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText decodes a symbolic or kebab-case rule name.
func (r *Rule) UnmarshalText(text []byte) error {
	parsed, err := ParseRule(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// AllRules returns every catalog rule in declaration order.
func AllRules() []Rule {
	rules := make([]Rule, 0, ruleCount)
	for r := Rule(0); r < ruleCount; r++ {
		rules = append(rules, r)
	}
	return rules
}

// DefaultRules returns the selection used when the caller names no rules.
func DefaultRules() []Rule {
	return []Rule{
		DirectJoinSource,
		HardCodedReferences,
		MartsOrIntermediateOnSource,
		ModelFanOut,
		SourceFanOut,
		MultipleSourcesJoined,
		NoParents,
		StagingOnStaging,
		StagingOnDownstream,
		UnusedSources,
	}
}

// normalizeRuleName folds "DirectJoinSource", "direct-join-source" and
// "direct_join_source" onto the same key.
func normalizeRuleName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", "", "_", "").Replace(s)
}

var rulesByName = func() map[string]Rule {
	m := make(map[string]Rule, ruleCount)
	for _, r := range AllRules() {
		m[normalizeRuleName(r.String())] = r
	}
	return m
}()

// ParseRule resolves a rule by symbolic or kebab-case name, ignoring case.
func ParseRule(name string) (Rule, error) {
	if r, ok := rulesByName[normalizeRuleName(name)]; ok {
		return r, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRule, name)
}

// ParseRules resolves a rule selection. Entries may be comma separated;
// order and duplicates are preserved. Empty entries are skipped.
func ParseRules(names []string) ([]Rule, error) {
	var rules []Rule
	for _, entry := range names {
		for _, name := range strings.Split(entry, ",") {
			if strings.TrimSpace(name) == "" {
				continue
			}
			r, err := ParseRule(name)
			if err != nil {
				return nil, err
			}
			rules = append(rules, r)
		}
	}
	return rules, nil
}
