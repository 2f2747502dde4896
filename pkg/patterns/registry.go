package patterns

// Registry manages detection heuristics
type Registry struct {
	heuristics []Heuristic
}

// NewRegistry creates a Registry holding the default heuristics
func NewRegistry() *Registry {
	r := &Registry{
		heuristics: make([]Heuristic, 0, 3),
	}
	for _, h := range DefaultHeuristics() {
		r.Register(h)
	}
	return r
}

// NewEmptyRegistry creates a Registry with no heuristics.
func NewEmptyRegistry() *Registry {
	return &Registry{}
}

// Register adds a heuristic. Heuristics run in registration order.
func (r *Registry) Register(h Heuristic) {
	r.heuristics = append(r.heuristics, h)
}

// Heuristics returns all registered heuristics
func (r *Registry) Heuristics() []Heuristic {
	out := make([]Heuristic, len(r.heuristics))
	copy(out, r.heuristics)
	return out
}

// Find returns heuristics matching the given predicate
func (r *Registry) Find(predicate func(Heuristic) bool) []Heuristic {
	var matches []Heuristic
	for _, h := range r.heuristics {
		if predicate(h) {
			matches = append(matches, h)
		}
	}
	return matches
}
