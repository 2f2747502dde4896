// Package patterns flags types that look like participants of well-known
// design patterns.
//
// Detection is heuristic. Each heuristic is a pure function over the same
// snapshot of edges and hierarchy nodes; a Match is a claim with a fixed
// confidence, not a proof.
package patterns

import (
	"sort"
	"strings"

	"github.com/simonhull/firebird-suite/raven/pkg/facts"
	"github.com/simonhull/firebird-suite/raven/pkg/hierarchy"
	"github.com/simonhull/firebird-suite/raven/pkg/relationship"
)

// Kind names a design pattern.
type Kind string

const (
	KindSingleton Kind = "SINGLETON"
	KindFactory   Kind = "FACTORY"
	KindObserver  Kind = "OBSERVER"
)

// Match is a detected pattern candidate.
type Match struct {
	Kind         Kind     `json:"kind"`
	Anchor       string   `json:"anchor"`
	Participants []string `json:"participants"`
	Confidence   float64  `json:"confidence"`
}

// Snapshot is the immutable input every heuristic reads.
type Snapshot struct {
	Edges       []relationship.Edge
	Hierarchies hierarchy.Map
}

// NewSnapshot captures edges and hierarchies for detection.
func NewSnapshot(edges *relationship.EdgeSet, hierarchies hierarchy.Map) Snapshot {
	return Snapshot{Edges: edges.Edges(), Hierarchies: hierarchies}
}

// TypeNames returns every type known to the snapshot (hierarchy nodes and
// edge sources), sorted.
func (s Snapshot) TypeNames() []string {
	seen := make(map[string]bool, len(s.Hierarchies))
	for name := range s.Hierarchies {
		seen[name] = true
	}
	for _, e := range s.Edges {
		seen[e.Source] = true
	}
	return sortedKeys(seen)
}

// Heuristic describes one detection pass.
type Heuristic struct {
	ID          string
	Kind        Kind
	DisplayName string
	Description string
	Confidence  float64
	Tags        []string
	Detect      func(Snapshot) []Match
}

// DefaultHeuristics returns the built-in singleton, factory and observer
// passes.
func DefaultHeuristics() []Heuristic {
	return []Heuristic{
		{
			ID:          "singleton-name",
			Kind:        KindSingleton,
			DisplayName: "Singleton",
			Description: "Hierarchy leaves named '*Singleton*', '*Manager' or '*Instance'",
			Confidence:  0.6,
			Tags:        []string{"naming-pattern", "creational"},
			Detect:      detectSingletons,
		},
		{
			ID:          "factory-name",
			Kind:        KindFactory,
			DisplayName: "Factory",
			Description: "Types named '*Factory*' that use or produce other types",
			Confidence:  0.7,
			Tags:        []string{"naming-pattern", "creational"},
			Detect:      detectFactories,
		},
		{
			ID:          "observer-subject",
			Kind:        KindObserver,
			DisplayName: "Observer",
			Description: "Types named '*Subject*' or '*Observable*' associated with two or more types",
			Confidence:  0.6,
			Tags:        []string{"naming-pattern", "behavioral"},
			Detect:      detectObservers,
		},
	}
}

// detectSingletons reports leaves of the hierarchy (types nothing inherits
// from) whose name suggests a single shared instance.
func detectSingletons(s Snapshot) []Match {
	supertypes := make(map[string]bool)
	for _, e := range s.Edges {
		if e.Kind == relationship.KindInheritance {
			supertypes[e.Target] = true
		}
	}

	var matches []Match
	for _, name := range s.Hierarchies.Names() {
		if supertypes[name] {
			continue
		}
		simple := strings.ToLower(facts.SimpleName(name))
		if strings.Contains(simple, "singleton") ||
			strings.HasSuffix(simple, "manager") ||
			strings.HasSuffix(simple, "instance") {
			matches = append(matches, Match{
				Kind:         KindSingleton,
				Anchor:       name,
				Participants: []string{name},
				Confidence:   0.6,
			})
		}
	}
	return matches
}

// detectFactories reports factory-named types together with the types they
// use or produce.
func detectFactories(s Snapshot) []Match {
	products := make(map[string]map[string]bool)
	for _, e := range s.Edges {
		if e.Kind != relationship.KindAssociation && e.Kind != relationship.KindDependency {
			continue
		}
		if products[e.Source] == nil {
			products[e.Source] = make(map[string]bool)
		}
		products[e.Source][e.Target] = true
	}

	var matches []Match
	for _, name := range s.TypeNames() {
		if !strings.Contains(strings.ToLower(facts.SimpleName(name)), "factory") {
			continue
		}
		targets := products[name]
		if len(targets) == 0 {
			continue
		}
		matches = append(matches, Match{
			Kind:         KindFactory,
			Anchor:       name,
			Participants: sortedKeys(targets),
			Confidence:   0.7,
		})
	}
	return matches
}

// detectObservers reports subject-named types associated with at least two
// distinct types, taken as their observers.
func detectObservers(s Snapshot) []Match {
	observers := make(map[string]map[string]bool)
	for _, e := range s.Edges {
		if e.Kind != relationship.KindAssociation {
			continue
		}
		simple := strings.ToLower(facts.SimpleName(e.Source))
		if !strings.Contains(simple, "subject") && !strings.Contains(simple, "observable") {
			continue
		}
		if observers[e.Source] == nil {
			observers[e.Source] = make(map[string]bool)
		}
		observers[e.Source][e.Target] = true
	}

	var matches []Match
	for _, source := range sortedKeys(observers) {
		targets := observers[source]
		if len(targets) < 2 {
			continue
		}
		matches = append(matches, Match{
			Kind:         KindObserver,
			Anchor:       source,
			Participants: sortedKeys(targets),
			Confidence:   0.6,
		})
	}
	return matches
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
