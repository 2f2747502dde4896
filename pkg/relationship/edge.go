// Package relationship turns type facts into typed edges of the
// architecture graph.
package relationship

import (
	"sort"
)

// Kind classifies an edge.
type Kind string

const (
	KindInheritance    Kind = "INHERITANCE"
	KindImplementation Kind = "IMPLEMENTATION"
	KindComposition    Kind = "COMPOSITION"
	KindAggregation    Kind = "AGGREGATION"
	KindAssociation    Kind = "ASSOCIATION"
	// KindDependency is reserved for references found inside method bodies.
	// Facts carry no instruction-level data, so no edge of this kind is ever
	// produced; the kind stays in the taxonomy so counts and consumers keep a
	// stable bucket for it.
	KindDependency Kind = "DEPENDENCY"
	KindNested     Kind = "NESTED"
)

// Kinds lists every kind in a stable order.
var Kinds = []Kind{
	KindInheritance,
	KindImplementation,
	KindComposition,
	KindAggregation,
	KindAssociation,
	KindDependency,
	KindNested,
}

// Strength is the coupling strength of an edge.
type Strength string

const (
	Weak   Strength = "WEAK"
	Strong Strength = "STRONG"
)

// Edge is a directed relationship between two types.
type Edge struct {
	Source   string   `json:"source"`
	Target   string   `json:"target"`
	Kind     Kind     `json:"kind"`
	Strength Strength `json:"strength"`
}

type edgeKey struct {
	source string
	target string
	kind   Kind
}

func (e Edge) key() edgeKey {
	return edgeKey{source: e.Source, target: e.Target, kind: e.Kind}
}

// EdgeSet holds edges deduplicated on (Source, Target, Kind). The first
// edge added for a key wins. The zero value is ready to use.
type EdgeSet struct {
	edges map[edgeKey]Edge
}

// NewEdgeSet returns an empty set.
func NewEdgeSet() *EdgeSet {
	return &EdgeSet{edges: make(map[edgeKey]Edge)}
}

// Add inserts e and reports whether it was new.
func (s *EdgeSet) Add(e Edge) bool {
	if s.edges == nil {
		s.edges = make(map[edgeKey]Edge)
	}
	k := e.key()
	if _, exists := s.edges[k]; exists {
		return false
	}
	s.edges[k] = e
	return true
}

// Merge adds every edge of other.
func (s *EdgeSet) Merge(other *EdgeSet) {
	if other == nil {
		return
	}
	for _, e := range other.edges {
		s.Add(e)
	}
}

// Contains reports whether an edge with the same key is present.
func (s *EdgeSet) Contains(source, target string, kind Kind) bool {
	if s == nil {
		return false
	}
	_, ok := s.edges[edgeKey{source: source, target: target, kind: kind}]
	return ok
}

// Len returns the number of edges.
func (s *EdgeSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.edges)
}

// Edges returns a copy of the edges sorted by source, target and kind.
func (s *EdgeSet) Edges() []Edge {
	if s == nil {
		return nil
	}
	out := make([]Edge, 0, len(s.edges))
	for _, e := range s.edges {
		out = append(out, e)
	}
	SortEdges(out)
	return out
}

// Filter returns the sorted edges for which keep returns true.
func (s *EdgeSet) Filter(keep func(Edge) bool) []Edge {
	all := s.Edges()
	out := all[:0]
	for _, e := range all {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// OfKind returns the sorted edges of one kind.
func (s *EdgeSet) OfKind(kind Kind) []Edge {
	return s.Filter(func(e Edge) bool { return e.Kind == kind })
}

// CountByKind returns the number of edges per kind. Every kind in Kinds is
// present, with zero when no edge has it.
func (s *EdgeSet) CountByKind() map[Kind]int {
	counts := make(map[Kind]int, len(Kinds))
	for _, k := range Kinds {
		counts[k] = 0
	}
	if s == nil {
		return counts
	}
	for _, e := range s.edges {
		counts[e.Kind]++
	}
	return counts
}

// SortEdges orders edges by source, target, then kind.
func SortEdges(edges []Edge) {
	sort.Slice(edges, func(i, j int) bool {
		a, b := edges[i], edges[j]
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		if a.Target != b.Target {
			return a.Target < b.Target
		}
		return a.Kind < b.Kind
	})
}
