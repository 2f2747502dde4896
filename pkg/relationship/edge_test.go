package relationship

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEdgeSet_Dedup(t *testing.T) {
	var s EdgeSet

	assert.True(t, s.Add(Edge{Source: "A", Target: "B", Kind: KindAssociation, Strength: Weak}))
	assert.False(t, s.Add(Edge{Source: "A", Target: "B", Kind: KindAssociation, Strength: Strong}))
	assert.True(t, s.Add(Edge{Source: "A", Target: "B", Kind: KindAggregation, Strength: Weak}))

	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Contains("A", "B", KindAssociation))
	assert.False(t, s.Contains("B", "A", KindAssociation))

	// first edge for a key wins
	assert.Equal(t, Weak, s.OfKind(KindAssociation)[0].Strength)
}

func TestEdgeSet_MergeAndCounts(t *testing.T) {
	a := NewEdgeSet()
	a.Add(Edge{Source: "A", Target: "B", Kind: KindInheritance, Strength: Strong})
	b := NewEdgeSet()
	b.Add(Edge{Source: "A", Target: "B", Kind: KindInheritance, Strength: Strong})
	b.Add(Edge{Source: "C", Target: "B", Kind: KindNested, Strength: Strong})

	a.Merge(b)
	a.Merge(nil)

	counts := a.CountByKind()
	assert.Len(t, counts, len(Kinds))
	assert.Equal(t, 1, counts[KindInheritance])
	assert.Equal(t, 1, counts[KindNested])
	assert.Equal(t, 0, counts[KindDependency])
}

func TestEdgeSet_SortedOutput(t *testing.T) {
	s := NewEdgeSet()
	s.Add(Edge{Source: "B", Target: "A", Kind: KindAssociation})
	s.Add(Edge{Source: "A", Target: "C", Kind: KindNested})
	s.Add(Edge{Source: "A", Target: "C", Kind: KindAggregation})

	got := s.Edges()
	assert.Equal(t, []Edge{
		{Source: "A", Target: "C", Kind: KindAggregation},
		{Source: "A", Target: "C", Kind: KindNested},
		{Source: "B", Target: "A", Kind: KindAssociation},
	}, got)

	from := s.Filter(func(e Edge) bool { return e.Source == "A" })
	assert.Len(t, from, 2)
}

func TestEdgeSet_Nil(t *testing.T) {
	var s *EdgeSet
	assert.Zero(t, s.Len())
	assert.Nil(t, s.Edges())
	assert.False(t, s.Contains("A", "B", KindNested))
	assert.Equal(t, 0, s.CountByKind()[KindNested])
}

func TestNormalizeTypeName(t *testing.T) {
	tests := map[string]string{
		"com.acme.User":                    "com.acme.User",
		"com.acme.User[]":                  "com.acme.User",
		"int[][]":                          "int",
		"com.acme.User...":                 "com.acme.User",
		"java.util.Map<String, List<User>>": "java.util.Map",
		"  Engine ":                        "Engine",
		"":                                 "",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeTypeName(in), in)
	}
}

func TestCommonTypes(t *testing.T) {
	c := DefaultCommonTypes("com.acme.Money")

	assert.True(t, c.Excluded("int"))
	assert.True(t, c.Excluded("byte[]"))
	assert.True(t, c.Excluded("void"))
	assert.True(t, c.Excluded("java.util.List<com.acme.User>"))
	assert.True(t, c.Excluded("String"))
	assert.True(t, c.Excluded("com.acme.Money"))
	assert.True(t, c.Excluded(""))
	assert.False(t, c.Excluded("com.acme.User"))
	assert.False(t, c.Excluded("com.acme.List"))

	custom := NewCommonTypes("kotlin.String", " ")
	assert.Equal(t, 1, custom.Len())
	assert.False(t, custom.Excluded("java.lang.String"))

	var zero CommonTypes
	assert.False(t, zero.Excluded("com.acme.User"))
	assert.True(t, zero.Excluded("long"))
}
