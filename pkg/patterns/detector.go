package patterns

import (
	"sort"

	"github.com/simonhull/firebird-suite/raven/pkg/hierarchy"
	"github.com/simonhull/firebird-suite/raven/pkg/relationship"
)

// Detector runs every registered heuristic over a snapshot.
type Detector struct {
	registry *Registry
}

// NewDetector creates a Detector with the default heuristics
func NewDetector() *Detector {
	return &Detector{registry: NewRegistry()}
}

// NewDetectorWithRegistry creates a Detector backed by r.
func NewDetectorWithRegistry(r *Registry) *Detector {
	return &Detector{registry: r}
}

// Register adds a custom heuristic to the detector
func (d *Detector) Register(h Heuristic) {
	d.registry.Register(h)
}

// Detect returns the pattern candidates found in edges and hierarchies.
//
// The result holds at most one match per (Kind, Anchor); when several
// heuristics claim the same pair the first registered wins. Matches are
// sorted by kind then anchor, so identical inputs give identical output.
func (d *Detector) Detect(edges *relationship.EdgeSet, hierarchies hierarchy.Map) []Match {
	return d.DetectSnapshot(NewSnapshot(edges, hierarchies))
}

// DetectSnapshot is Detect over a prepared snapshot.
func (d *Detector) DetectSnapshot(s Snapshot) []Match {
	type key struct {
		kind   Kind
		anchor string
	}
	seen := make(map[key]bool)
	var out []Match

	for _, h := range d.registry.heuristics {
		if h.Detect == nil {
			continue
		}
		for _, m := range h.Detect(s) {
			k := key{kind: m.Kind, anchor: m.Anchor}
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, m)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Anchor < out[j].Anchor
	})
	return out
}
