// Package facts defines the per-type structural facts raven consumes.
//
// Facts are produced by an external extractor (a bytecode reader, a source
// indexer, a hand-written fixture) and are read-only once loaded. A Set is
// safe to share between concurrent analyses because nothing mutates it.
package facts

import (
	"fmt"
	"strings"
)

// Field describes a declared field of a type.
type Field struct {
	Name   string `yaml:"name" json:"name" validate:"required"`
	Type   string `yaml:"type" json:"type" validate:"required"`
	Final  bool   `yaml:"final,omitempty" json:"final,omitempty"`
	Static bool   `yaml:"static,omitempty" json:"static,omitempty"`
}

// Method describes a declared method signature. An empty ReturnType means
// the method returns nothing.
type Method struct {
	Name           string   `yaml:"name" json:"name" validate:"required"`
	ParameterTypes []string `yaml:"parameterTypes,omitempty" json:"parameterTypes,omitempty" validate:"dive,required"`
	ReturnType     string   `yaml:"returnType,omitempty" json:"returnType,omitempty"`
}

// TypeFact is the structural description of one compiled type.
type TypeFact struct {
	Name        string   `yaml:"name" json:"name" validate:"required"`
	SuperType   string   `yaml:"superType,omitempty" json:"superType,omitempty"`
	Interfaces  []string `yaml:"interfaces,omitempty" json:"interfaces,omitempty" validate:"dive,required"`
	Fields      []Field  `yaml:"fields,omitempty" json:"fields,omitempty" validate:"dive"`
	Methods     []Method `yaml:"methods,omitempty" json:"methods,omitempty" validate:"dive"`
	NestedTypes []string `yaml:"nestedTypes,omitempty" json:"nestedTypes,omitempty" validate:"dive,required"`
	IsInterface bool     `yaml:"interface,omitempty" json:"interface,omitempty"`
	IsAbstract  bool     `yaml:"abstract,omitempty" json:"abstract,omitempty"`
}

// SimpleName returns the name without its package qualifier.
func (t *TypeFact) SimpleName() string {
	return SimpleName(t.Name)
}

// SimpleName strips the package qualifier (and any enclosing type separated
// by '$') from a fully-qualified type name.
func SimpleName(name string) string {
	if i := strings.LastIndexAny(name, ".$"); i >= 0 {
		return name[i+1:]
	}
	return name
}

// Source resolves a type name to its facts.
type Source interface {
	FactByName(name string) (*TypeFact, bool)
}

// Set is an ordered, name-indexed collection of facts. Order is the order
// in which facts were added and is the order analyses walk them in.
type Set struct {
	types []*TypeFact
	index map[string]*TypeFact
}

// NewSet builds a Set, rejecting nil entries, empty names and duplicates.
func NewSet(types []*TypeFact) (*Set, error) {
	s := &Set{
		types: make([]*TypeFact, 0, len(types)),
		index: make(map[string]*TypeFact, len(types)),
	}
	for i, t := range types {
		if err := s.add(t); err != nil {
			return nil, fmt.Errorf("type %d: %w", i, err)
		}
	}
	return s, nil
}

func (s *Set) add(t *TypeFact) error {
	if t == nil {
		return fmt.Errorf("nil type fact")
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("type fact has no name")
	}
	if _, dup := s.index[t.Name]; dup {
		return fmt.Errorf("duplicate type fact %q", t.Name)
	}
	s.types = append(s.types, t)
	s.index[t.Name] = t
	return nil
}

// FactByName implements Source.
func (s *Set) FactByName(name string) (*TypeFact, bool) {
	if s == nil {
		return nil, false
	}
	t, ok := s.index[name]
	return t, ok
}

// Types returns the facts in insertion order. Callers must not modify the
// returned facts.
func (s *Set) Types() []*TypeFact {
	if s == nil {
		return nil
	}
	out := make([]*TypeFact, len(s.types))
	copy(out, s.types)
	return out
}

// Len returns the number of facts; a nil Set has none.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.types)
}
