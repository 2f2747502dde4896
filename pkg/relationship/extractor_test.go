package relationship

import (
	"testing"

	"github.com/simonhull/firebird-suite/raven/pkg/facts"
	"github.com/simonhull/firebird-suite/raven/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSet(t *testing.T, types ...*facts.TypeFact) *facts.Set {
	t.Helper()
	set, err := facts.NewSet(types)
	require.NoError(t, err)
	return set
}

func newExtractor(set *facts.Set) *Extractor {
	return NewExtractor(set, DefaultCommonTypes()).WithLogger(logger.NewSilentLogger())
}

func TestExtract_Inheritance(t *testing.T) {
	animal := &facts.TypeFact{Name: "Animal", IsAbstract: true, SuperType: DefaultRootType}
	dog := &facts.TypeFact{Name: "Dog", SuperType: "Animal"}
	cat := &facts.TypeFact{Name: "Cat", SuperType: "Animal"}
	set := newSet(t, animal, dog, cat)
	x := newExtractor(set)

	all := NewEdgeSet()
	for _, ty := range set.Types() {
		all.Merge(x.Extract(ty))
	}

	inheritance := all.OfKind(KindInheritance)
	assert.Equal(t, []Edge{
		{Source: "Cat", Target: "Animal", Kind: KindInheritance, Strength: Strong},
		{Source: "Dog", Target: "Animal", Kind: KindInheritance, Strength: Strong},
	}, inheritance)
}

func TestExtract_RootAndUnresolvedSkipped(t *testing.T) {
	orphan := &facts.TypeFact{
		Name:       "Orphan",
		SuperType:  "com.vendor.Missing",
		Interfaces: []string{"com.vendor.Contract", "Known"},
	}
	plain := &facts.TypeFact{Name: "Plain", SuperType: DefaultRootType}
	known := &facts.TypeFact{Name: "Known", IsInterface: true}
	x := newExtractor(newSet(t, orphan, plain, known))

	edges := x.Extract(orphan)
	assert.Empty(t, edges.OfKind(KindInheritance))
	assert.Equal(t, []Edge{
		{Source: "Orphan", Target: "Known", Kind: KindImplementation, Strength: Strong},
	}, edges.OfKind(KindImplementation))

	assert.Zero(t, x.Extract(plain).Len())
}

func TestExtract_CustomRootType(t *testing.T) {
	base := &facts.TypeFact{Name: "Base"}
	child := &facts.TypeFact{Name: "Child", SuperType: "Base"}
	x := newExtractor(newSet(t, base, child)).WithRootType("Base")

	assert.Zero(t, x.Extract(child).Len())
}

func TestExtract_FieldClassification(t *testing.T) {
	tests := []struct {
		name  string
		field facts.Field
		want  Kind
	}{
		{"final field is composition", facts.Field{Name: "cache", Type: "Engine", Final: true}, KindComposition},
		{"owned name is composition", facts.Field{Name: "ownedResource", Type: "Resource"}, KindComposition},
		{"child name is composition", facts.Field{Name: "children", Type: "Node[]"}, KindComposition},
		{"part name is composition", facts.Field{Name: "spareParts", Type: "Wheel"}, KindComposition},
		{"plain field is aggregation", facts.Field{Name: "cache", Type: "Cache"}, KindAggregation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner := &facts.TypeFact{Name: "Owner", Fields: []facts.Field{tt.field}}
			edges := newExtractor(newSet(t, owner)).Extract(owner).Edges()

			require.Len(t, edges, 1)
			assert.Equal(t, tt.want, edges[0].Kind)
			assert.Equal(t, Weak, edges[0].Strength)
			assert.Equal(t, NormalizeTypeName(tt.field.Type), edges[0].Target)
		})
	}
}

func TestExtract_CarEngine(t *testing.T) {
	car := &facts.TypeFact{
		Name: "Car",
		Fields: []facts.Field{
			{Name: "engine", Type: "Engine", Final: true},
			{Name: "name", Type: "java.lang.String", Final: true},
			{Name: "wheels", Type: "int"},
			{Name: "tags", Type: "java.util.List<Tag>"},
		},
	}

	edges := newExtractor(newSet(t, car)).Extract(car).Edges()
	assert.Equal(t, []Edge{
		{Source: "Car", Target: "Engine", Kind: KindComposition, Strength: Weak},
	}, edges)
}

func TestExtract_Associations(t *testing.T) {
	factory := &facts.TypeFact{
		Name: "UserFactory",
		Methods: []facts.Method{
			{Name: "createUser", ReturnType: "User"},
			{Name: "copy", ParameterTypes: []string{"User", "UserFactory", "int"}, ReturnType: "UserFactory"},
			{Name: "describe", ParameterTypes: []string{"String"}, ReturnType: "void"},
			{Name: "batch", ParameterTypes: []string{"Profile..."}, ReturnType: "Account[]"},
		},
	}

	edges := newExtractor(newSet(t, factory)).Extract(factory).OfKind(KindAssociation)
	assert.Equal(t, []Edge{
		{Source: "UserFactory", Target: "Account", Kind: KindAssociation, Strength: Weak},
		{Source: "UserFactory", Target: "Profile", Kind: KindAssociation, Strength: Weak},
		{Source: "UserFactory", Target: "User", Kind: KindAssociation, Strength: Weak},
	}, edges)
}

func TestExtract_Nested(t *testing.T) {
	outer := &facts.TypeFact{Name: "Outer", NestedTypes: []string{"Outer$Inner", " ", "Outer$Builder"}}

	edges := newExtractor(newSet(t, outer)).Extract(outer).OfKind(KindNested)
	require.Len(t, edges, 2)
	for _, e := range edges {
		assert.Equal(t, Strong, e.Strength)
	}
}

func TestExtract_NeverProducesDependency(t *testing.T) {
	busy := &facts.TypeFact{
		Name:        "Busy",
		Fields:      []facts.Field{{Name: "repo", Type: "Repo"}},
		Methods:     []facts.Method{{Name: "run", ParameterTypes: []string{"Job"}, ReturnType: "Report"}},
		NestedTypes: []string{"Busy$State"},
	}

	counts := newExtractor(newSet(t, busy)).Extract(busy).CountByKind()
	assert.Zero(t, counts[KindDependency])
}

func TestExtract_NilSourceAndFact(t *testing.T) {
	x := NewExtractor(nil, DefaultCommonTypes()).WithLogger(logger.NewSilentLogger())
	assert.Zero(t, x.Extract(nil).Len())

	child := &facts.TypeFact{Name: "Child", SuperType: "Parent", Interfaces: []string{"Contract"}}
	assert.Zero(t, x.Extract(child).Len(), "nothing resolves without a source")
}
