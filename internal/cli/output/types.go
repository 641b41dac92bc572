package output

// CheckOutput is the structured form of a check run.
type CheckOutput struct {
	RunID      string              `json:"run_id" yaml:"run_id"`
	Manifest   string              `json:"manifest" yaml:"manifest"`
	Rules      []string            `json:"rules" yaml:"rules"`
	Summary    CheckSummary        `json:"summary" yaml:"summary"`
	Violations []RuleViolations    `json:"violations" yaml:"violations"`
	Report     map[string][]string `json:"report" yaml:"report"`
}

// CheckSummary holds aggregate counts for a check run.
type CheckSummary struct {
	Nodes         int `json:"nodes" yaml:"nodes"`
	RulesChecked  int `json:"rules_checked" yaml:"rules_checked"`
	RulesViolated int `json:"rules_violated" yaml:"rules_violated"`
	Violations    int `json:"violations" yaml:"violations"`
}

// RuleViolations lists the nodes one rule flagged.
type RuleViolations struct {
	Rule        string   `json:"rule" yaml:"rule"`
	Severity    string   `json:"severity" yaml:"severity"`
	Description string   `json:"description" yaml:"description"`
	Nodes       []string `json:"nodes" yaml:"nodes"`
}

// GraphOutput is the structured form of the graph command.
type GraphOutput struct {
	Manifest string         `json:"manifest" yaml:"manifest"`
	Nodes    int            `json:"nodes" yaml:"nodes"`
	Edges    int            `json:"edges" yaml:"edges"`
	ByType   map[string]int `json:"by_type" yaml:"by_type"`
	Roots    []string       `json:"roots" yaml:"roots"`
	Leaves   []string       `json:"leaves" yaml:"leaves"`
	Dangling []string       `json:"dangling" yaml:"dangling"`
	HasCycle bool           `json:"has_cycle" yaml:"has_cycle"`
	Cycle    []string       `json:"cycle,omitempty" yaml:"cycle,omitempty"`
}

// LineageOutput is the structured form of the lineage command.
type LineageOutput struct {
	Root       string   `json:"root" yaml:"root"`
	Upstream   []string `json:"upstream" yaml:"upstream"`
	Downstream []string `json:"downstream" yaml:"downstream"`
}
