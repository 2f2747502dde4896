package relationship

import (
	"strings"

	"github.com/simonhull/firebird-suite/raven/pkg/facts"
	"github.com/simonhull/firebird-suite/raven/pkg/logger"
)

// ownershipTokens mark a non-final field as owned by its declaring type.
var ownershipTokens = []string{"own", "child", "part"}

// Extractor converts the facts of one type into edges.
type Extractor struct {
	source   facts.Source
	common   CommonTypes
	rootType string
	logger   logger.Logger
}

// NewExtractor creates an Extractor that resolves supertypes and contracts
// through source and ignores the given common types.
func NewExtractor(source facts.Source, common CommonTypes) *Extractor {
	return &Extractor{
		source:   source,
		common:   common,
		rootType: DefaultRootType,
		logger:   logger.Default(),
	}
}

// WithLogger returns a copy of the Extractor using log.
func (x *Extractor) WithLogger(log logger.Logger) *Extractor {
	c := *x
	c.logger = log
	return &c
}

// WithRootType returns a copy of the Extractor treating root as the
// universal supertype.
func (x *Extractor) WithRootType(root string) *Extractor {
	c := *x
	c.rootType = root
	return &c
}

// Extract returns the edges declared by t. Unresolvable supertypes and
// contracts are skipped; they never make extraction fail.
func (x *Extractor) Extract(t *facts.TypeFact) *EdgeSet {
	edges := NewEdgeSet()
	if t == nil {
		return edges
	}

	log := x.logger.WithFields(logger.F("type", t.Name))

	x.extractInheritance(t, edges, log)
	x.extractImplementations(t, edges, log)
	x.extractFields(t, edges)
	x.extractAssociations(t, edges)
	x.extractNested(t, edges)

	log.Debug("Extracted relationships", logger.F("edges", edges.Len()))
	return edges
}

func (x *Extractor) extractInheritance(t *facts.TypeFact, edges *EdgeSet, log logger.Logger) {
	super := strings.TrimSpace(t.SuperType)
	if super == "" || super == x.rootType {
		return
	}
	if !x.resolves(super) {
		log.Debug("Skipping unresolved supertype", logger.F("supertype", super))
		return
	}
	edges.Add(Edge{Source: t.Name, Target: super, Kind: KindInheritance, Strength: Strong})
}

func (x *Extractor) extractImplementations(t *facts.TypeFact, edges *EdgeSet, log logger.Logger) {
	for _, contract := range t.Interfaces {
		contract = strings.TrimSpace(contract)
		if contract == "" {
			continue
		}
		if !x.resolves(contract) {
			log.Debug("Skipping unresolved contract", logger.F("contract", contract))
			continue
		}
		edges.Add(Edge{Source: t.Name, Target: contract, Kind: KindImplementation, Strength: Strong})
	}
}

func (x *Extractor) extractFields(t *facts.TypeFact, edges *EdgeSet) {
	for _, f := range t.Fields {
		if x.common.Excluded(f.Type) {
			continue
		}
		kind := KindAggregation
		if f.Final || ownsByName(f.Name) {
			kind = KindComposition
		}
		edges.Add(Edge{
			Source:   t.Name,
			Target:   NormalizeTypeName(f.Type),
			Kind:     kind,
			Strength: Weak,
		})
	}
}

func (x *Extractor) extractAssociations(t *facts.TypeFact, edges *EdgeSet) {
	for _, m := range t.Methods {
		for _, p := range m.ParameterTypes {
			x.addAssociation(t, p, edges)
		}
		x.addAssociation(t, m.ReturnType, edges)
	}
}

func (x *Extractor) addAssociation(t *facts.TypeFact, declared string, edges *EdgeSet) {
	if x.common.Excluded(declared) {
		return
	}
	target := NormalizeTypeName(declared)
	if target == t.Name {
		return
	}
	edges.Add(Edge{Source: t.Name, Target: target, Kind: KindAssociation, Strength: Weak})
}

func (x *Extractor) extractNested(t *facts.TypeFact, edges *EdgeSet) {
	for _, nested := range t.NestedTypes {
		nested = strings.TrimSpace(nested)
		if nested == "" {
			continue
		}
		edges.Add(Edge{Source: t.Name, Target: nested, Kind: KindNested, Strength: Strong})
	}
}

func (x *Extractor) resolves(name string) bool {
	if x.source == nil {
		return false
	}
	_, ok := x.source.FactByName(name)
	return ok
}

func ownsByName(field string) bool {
	name := strings.ToLower(field)
	for _, token := range ownershipTokens {
		if strings.Contains(name, token) {
			return true
		}
	}
	return false
}
