// Package hierarchy computes inheritance depth and ancestor paths for types.
package hierarchy

import (
	"sort"
	"strings"

	"github.com/simonhull/firebird-suite/raven/pkg/facts"
	"github.com/simonhull/firebird-suite/raven/pkg/logger"
)

// DefaultRootType ends every supertype walk.
const DefaultRootType = "java.lang.Object"

// Node is the hierarchy position of one type.
//
// Depth is always len(AncestorPath)-1; AncestorPath starts with the type
// itself and ends with the furthest resolvable ancestor.
type Node struct {
	TypeName             string   `json:"typeName"`
	ParentType           string   `json:"parentType,omitempty"`
	ImplementedContracts []string `json:"implementedContracts,omitempty"`
	IsInterface          bool     `json:"isInterface"`
	IsAbstract           bool     `json:"isAbstract"`
	Depth                int      `json:"depth"`
	AncestorPath         []string `json:"ancestorPath"`
}

// Implements reports whether the node declares at least one contract.
func (n *Node) Implements() bool {
	return len(n.ImplementedContracts) > 0
}

// Map indexes nodes by type name.
type Map map[string]*Node

// Names returns the type names in sorted order.
func (m Map) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Builder walks supertype chains through a fact source. Built nodes are kept
// in an arena so repeated builds of the same type reuse the first result.
type Builder struct {
	source   facts.Source
	rootType string
	logger   logger.Logger
	arena    Map
}

// NewBuilder creates a Builder resolving supertypes through source.
func NewBuilder(source facts.Source) *Builder {
	return &Builder{
		source:   source,
		rootType: DefaultRootType,
		logger:   logger.Default(),
		arena:    make(Map),
	}
}

// WithLogger sets the logger and returns the Builder.
func (b *Builder) WithLogger(log logger.Logger) *Builder {
	b.logger = log
	return b
}

// WithRootType sets the universal root type and returns the Builder.
func (b *Builder) WithRootType(root string) *Builder {
	b.rootType = root
	return b
}

// Build returns the hierarchy node for t. The walk stops at the root type,
// at an unresolvable supertype, or when it would revisit a type (a cyclic
// or self-referential chain), so it always terminates.
func (b *Builder) Build(t *facts.TypeFact) *Node {
	if t == nil {
		return nil
	}
	if n, ok := b.arena[t.Name]; ok {
		return n
	}

	path := []string{t.Name}
	visited := map[string]bool{t.Name: true}

	current := t
	for {
		next := strings.TrimSpace(current.SuperType)
		if next == "" || next == b.rootType {
			break
		}
		if visited[next] {
			b.logger.Warn("Supertype cycle detected",
				logger.F("type", t.Name),
				logger.F("at", current.Name),
				logger.F("supertype", next))
			break
		}
		parent, ok := b.resolve(next)
		if !ok {
			b.logger.Debug("Supertype not resolvable",
				logger.F("type", t.Name),
				logger.F("supertype", next))
			break
		}
		visited[next] = true
		path = append(path, next)
		current = parent
	}

	n := &Node{
		TypeName:             t.Name,
		ImplementedContracts: uniqueContracts(t.Interfaces),
		IsInterface:          t.IsInterface,
		IsAbstract:           t.IsAbstract,
		Depth:                len(path) - 1,
		AncestorPath:         path,
	}
	if len(path) > 1 {
		n.ParentType = path[1]
	}

	b.arena[t.Name] = n
	return n
}

// Nodes returns the arena of every node built so far.
func (b *Builder) Nodes() Map {
	out := make(Map, len(b.arena))
	for k, v := range b.arena {
		out[k] = v
	}
	return out
}

func (b *Builder) resolve(name string) (*facts.TypeFact, bool) {
	if b.source == nil {
		return nil, false
	}
	return b.source.FactByName(name)
}

func uniqueContracts(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, c := range in {
		c = strings.TrimSpace(c)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
