package lint

// Report maps a rule description to the names of the nodes violating it.
// Descriptions are remembered in the order they were first hit and names in
// the order nodes were evaluated.
type Report struct {
	buckets map[string][]string
	order   []string
}

// NewReport returns an empty report.
func NewReport() *Report {
	return &Report{buckets: make(map[string][]string)}
}

// Add appends name to the bucket for description, creating the bucket on first hit.
func (r *Report) Add(description, name string) {
	if _, ok := r.buckets[description]; !ok {
		r.order = append(r.order, description)
	}
	r.buckets[description] = append(r.buckets[description], name)
}

// Get returns the violating node names for description.
func (r *Report) Get(description string) []string {
	names := r.buckets[description]
	if names == nil {
		return nil
	}
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// Descriptions returns bucket keys in first-hit order.
func (r *Report) Descriptions() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of non-empty buckets.
func (r *Report) Len() int {
	return len(r.buckets)
}

// Total returns the number of violations across all buckets.
func (r *Report) Total() int {
	total := 0
	for _, names := range r.buckets {
		total += len(names)
	}
	return total
}

// Empty reports whether no rule found a violation.
func (r *Report) Empty() bool {
	return len(r.buckets) == 0
}

// Merge appends other's buckets after r's, bucket by bucket.
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}
	for _, desc := range other.order {
		for _, name := range other.buckets[desc] {
			r.Add(desc, name)
		}
	}
}

// Map returns a copy of the report as a plain map.
func (r *Report) Map() map[string][]string {
	m := make(map[string][]string, len(r.buckets))
	for _, desc := range r.order {
		m[desc] = r.Get(desc)
	}
	return m
}

// MarshalYAML encodes the report as a mapping.
func (r *Report) MarshalYAML() (any, error) {
	return r.Map(), nil
}
