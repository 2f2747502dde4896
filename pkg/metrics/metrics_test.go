package metrics

import (
	"testing"

	"github.com/simonhull/firebird-suite/raven/pkg/hierarchy"
	"github.com/simonhull/firebird-suite/raven/pkg/relationship"
	"github.com/stretchr/testify/assert"
)

func node(name string, depth int, contracts ...string) *hierarchy.Node {
	path := []string{name}
	for i := 0; i < depth; i++ {
		path = append(path, "ancestor")
	}
	return &hierarchy.Node{TypeName: name, Depth: depth, AncestorPath: path, ImplementedContracts: contracts}
}

func TestCalculate_AnimalScenario(t *testing.T) {
	edges := relationship.NewEdgeSet()
	edges.Add(relationship.Edge{Source: "Dog", Target: "Animal", Kind: relationship.KindInheritance, Strength: relationship.Strong})
	edges.Add(relationship.Edge{Source: "Cat", Target: "Animal", Kind: relationship.KindInheritance, Strength: relationship.Strong})

	animal := node("Animal", 0)
	animal.IsAbstract = true
	hier := hierarchy.Map{
		"Animal": animal,
		"Dog":    node("Dog", 1),
		"Cat":    node("Cat", 1),
	}

	m := Calculate(edges, hier, 3)

	assert.Equal(t, 2, m.TotalRelationships)
	assert.Equal(t, 2, m.PerKindCounts[relationship.KindInheritance])
	assert.Equal(t, 0, m.PerKindCounts[relationship.KindDependency])
	assert.InDelta(t, 2.0/3.0, m.AverageRelationshipsPerType, 1e-9)
	assert.InDelta(t, 2.0/6.0, m.CouplingIndex, 1e-9)
	assert.Equal(t, 3, m.TotalHierarchies)
	assert.Equal(t, 1, m.DeepestHierarchy)
	assert.InDelta(t, 2.0/3.0, m.AverageHierarchyDepth, 1e-9)
	assert.InDelta(t, (0.5+0.7+0.7)/3, m.CohesionIndex, 1e-9)
	assert.Equal(t, 1, m.AbstractTypeCount)
	assert.Equal(t, 0, m.InterfaceCount)
}

func TestCalculate_Empty(t *testing.T) {
	m := Calculate(relationship.NewEdgeSet(), nil, 0)

	assert.Zero(t, m.TotalRelationships)
	assert.Zero(t, m.AverageRelationshipsPerType)
	assert.Zero(t, m.CouplingIndex)
	assert.Zero(t, m.CohesionIndex)
	assert.Zero(t, m.DeepestHierarchy)
	assert.Zero(t, m.AverageHierarchyDepth)
	assert.Len(t, m.PerKindCounts, len(relationship.Kinds))
}

func TestCouplingIndex(t *testing.T) {
	tests := []struct {
		name  string
		edges int
		types int
		want  float64
	}{
		{"no types", 5, 0, 0},
		{"single type", 5, 1, 0},
		{"no edges", 0, 4, 0},
		{"half", 1, 2, 0.5},
		{"dense", 12, 4, 1},
		{"overfull is clamped", 30, 3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CouplingIndex(tt.edges, tt.types)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		})
	}
}

func TestCohesionIndex(t *testing.T) {
	tests := []struct {
		name string
		node *hierarchy.Node
		want float64
	}{
		{"root without contracts", node("A", 0), 0.5},
		{"root with contract", node("A", 0, "C"), 0.8},
		{"moderate depth", node("A", 3), 0.7},
		{"too deep", node("A", 4), 0.5},
		{"moderate depth with contract", node("A", 2, "C"), 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CohesionIndex(hierarchy.Map{"A": tt.node})
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}

	assert.Zero(t, CohesionIndex(hierarchy.Map{}))
}

func TestCalculate_BoundsHoldForManyShapes(t *testing.T) {
	edges := relationship.NewEdgeSet()
	hier := hierarchy.Map{}
	for i := 0; i < 10; i++ {
		name := string(rune('A' + i))
		hier[name] = node(name, i%5, "Contract")
		for j := 0; j < 10; j++ {
			for _, k := range relationship.Kinds {
				edges.Add(relationship.Edge{Source: name, Target: string(rune('A' + j)), Kind: k})
			}
		}
	}

	for _, total := range []int{0, 1, 2, 10, 100} {
		m := Calculate(edges, hier, total)
		assert.GreaterOrEqual(t, m.CouplingIndex, 0.0)
		assert.LessOrEqual(t, m.CouplingIndex, 1.0)
		assert.GreaterOrEqual(t, m.CohesionIndex, 0.0)
		assert.LessOrEqual(t, m.CohesionIndex, 1.0)
	}
}
