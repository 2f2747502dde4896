// Package metrics aggregates the relationship graph and hierarchy into
// coupling, cohesion and hierarchy statistics.
package metrics

import (
	"github.com/simonhull/firebird-suite/raven/pkg/hierarchy"
	"github.com/simonhull/firebird-suite/raven/pkg/relationship"
)

// Cohesion scoring. A node starts at cohesionBase, gains cohesionDepthBonus
// for a moderate depth (1..cohesionMaxDepth) and cohesionContractBonus for
// implementing any contract; the per-node score is capped at 1.
const (
	cohesionBase          = 0.5
	cohesionDepthBonus    = 0.2
	cohesionContractBonus = 0.3
	cohesionMaxDepth      = 3
)

// Metrics summarizes one analysis.
type Metrics struct {
	TotalRelationships          int                       `json:"totalRelationships"`
	PerKindCounts               map[relationship.Kind]int `json:"perKindCounts"`
	AverageRelationshipsPerType float64                   `json:"averageRelationshipsPerType"`
	TotalHierarchies            int                       `json:"totalHierarchies"`
	DeepestHierarchy            int                       `json:"deepestHierarchy"`
	AverageHierarchyDepth       float64                   `json:"averageHierarchyDepth"`
	CouplingIndex               float64                   `json:"couplingIndex"`
	CohesionIndex               float64                   `json:"cohesionIndex"`
	AbstractTypeCount           int                       `json:"abstractTypeCount"`
	InterfaceCount              int                       `json:"interfaceCount"`
}

// Calculate computes metrics for edges and hierarchies over totalTypes
// analyzed types.
func Calculate(edges *relationship.EdgeSet, hierarchies hierarchy.Map, totalTypes int) Metrics {
	m := Metrics{
		TotalRelationships: edges.Len(),
		PerKindCounts:      edges.CountByKind(),
	}

	if totalTypes > 0 {
		m.AverageRelationshipsPerType = float64(m.TotalRelationships) / float64(totalTypes)
	}
	m.CouplingIndex = CouplingIndex(m.TotalRelationships, totalTypes)
	m.CohesionIndex = CohesionIndex(hierarchies)

	depthSum := 0
	for _, n := range hierarchies {
		m.TotalHierarchies++
		depthSum += n.Depth
		if n.Depth > m.DeepestHierarchy {
			m.DeepestHierarchy = n.Depth
		}
		if n.IsAbstract {
			m.AbstractTypeCount++
		}
		if n.IsInterface {
			m.InterfaceCount++
		}
	}
	if m.TotalHierarchies > 0 {
		m.AverageHierarchyDepth = float64(depthSum) / float64(m.TotalHierarchies)
	}

	return m
}

// CouplingIndex is the observed edge count over the n*(n-1) possible
// directed pairs, clamped to [0,1]. It is 0 for one type or fewer.
func CouplingIndex(edgeCount, totalTypes int) float64 {
	if totalTypes <= 1 || edgeCount <= 0 {
		return 0
	}
	pairs := float64(totalTypes) * float64(totalTypes-1)
	return clamp01(float64(edgeCount) / pairs)
}

// CohesionIndex is the mean per-node cohesion score, 0 with no nodes.
func CohesionIndex(hierarchies hierarchy.Map) float64 {
	if len(hierarchies) == 0 {
		return 0
	}
	total := 0.0
	for _, n := range hierarchies {
		total += nodeCohesion(n)
	}
	return clamp01(total / float64(len(hierarchies)))
}

func nodeCohesion(n *hierarchy.Node) float64 {
	score := cohesionBase
	if n.Depth > 0 && n.Depth <= cohesionMaxDepth {
		score += cohesionDepthBonus
	}
	if n.Implements() {
		score += cohesionContractBonus
	}
	return clamp01(score)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
