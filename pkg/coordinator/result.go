package coordinator

import (
	"encoding/json"
	"time"

	"github.com/simonhull/firebird-suite/raven/pkg/hierarchy"
	"github.com/simonhull/firebird-suite/raven/pkg/metrics"
	"github.com/simonhull/firebird-suite/raven/pkg/patterns"
	"github.com/simonhull/firebird-suite/raven/pkg/relationship"
)

// Status is the outcome of one Analyze call.
type Status string

const (
	StatusCompleted Status = "COMPLETED"
	StatusTimedOut  Status = "TIMED_OUT"
	StatusCancelled Status = "CANCELLED"
	StatusFailed    Status = "FAILED"
)

// Result is the immutable outcome of one analysis. Only a COMPLETED result
// carries edges, hierarchies, patterns and metrics; every accessor returns
// a copy.
type Result struct {
	runID    string
	status   Status
	reason   string
	err      error
	duration time.Duration

	edges       *relationship.EdgeSet
	hierarchies hierarchy.Map
	patterns    []patterns.Match
	metrics     metrics.Metrics
}

func failedResult(runID string, status Status, err error, elapsed time.Duration) *Result {
	return &Result{
		runID:    runID,
		status:   status,
		reason:   err.Error(),
		err:      err,
		duration: elapsed,
		edges:    relationship.NewEdgeSet(),
	}
}

// RunID identifies the analysis in logs.
func (r *Result) RunID() string { return r.runID }

// Status returns the outcome.
func (r *Result) Status() Status { return r.status }

// Success reports whether the analysis completed.
func (r *Result) Success() bool { return r.status == StatusCompleted }

// Reason describes why an unsuccessful analysis stopped; empty on success.
func (r *Result) Reason() string { return r.reason }

// Err returns the cause of an unsuccessful analysis, comparable with
// errors.Is against ErrEmptyInput, ErrShutdown, ErrTimeout and ErrCancelled.
func (r *Result) Err() error { return r.err }

// Duration is the wall-clock time the caller spent in Analyze.
func (r *Result) Duration() time.Duration { return r.duration }

// Edges returns every edge, sorted.
func (r *Result) Edges() []relationship.Edge {
	return r.edges.Edges()
}

// EdgeCount returns the number of edges.
func (r *Result) EdgeCount() int {
	return r.edges.Len()
}

// EdgesOfKind returns the edges of one kind.
func (r *Result) EdgesOfKind(kind relationship.Kind) []relationship.Edge {
	return r.edges.OfKind(kind)
}

// EdgesFrom returns the edges whose source is typeName.
func (r *Result) EdgesFrom(typeName string) []relationship.Edge {
	return r.edges.Filter(func(e relationship.Edge) bool { return e.Source == typeName })
}

// EdgesTo returns the edges whose target is typeName.
func (r *Result) EdgesTo(typeName string) []relationship.Edge {
	return r.edges.Filter(func(e relationship.Edge) bool { return e.Target == typeName })
}

// Hierarchy returns a copy of the node for typeName.
func (r *Result) Hierarchy(typeName string) (hierarchy.Node, bool) {
	n, ok := r.hierarchies[typeName]
	if !ok {
		return hierarchy.Node{}, false
	}
	return copyNode(n), true
}

// Hierarchies returns a copy of every hierarchy node keyed by type name.
func (r *Result) Hierarchies() map[string]hierarchy.Node {
	out := make(map[string]hierarchy.Node, len(r.hierarchies))
	for name, n := range r.hierarchies {
		out[name] = copyNode(n)
	}
	return out
}

// Patterns returns every pattern match.
func (r *Result) Patterns() []patterns.Match {
	out := make([]patterns.Match, len(r.patterns))
	for i, m := range r.patterns {
		out[i] = copyMatch(m)
	}
	return out
}

// PatternsOfKind returns the matches of one pattern kind.
func (r *Result) PatternsOfKind(kind patterns.Kind) []patterns.Match {
	var out []patterns.Match
	for _, m := range r.patterns {
		if m.Kind == kind {
			out = append(out, copyMatch(m))
		}
	}
	return out
}

// Metrics returns the aggregate metrics.
func (r *Result) Metrics() metrics.Metrics {
	m := r.metrics
	m.PerKindCounts = make(map[relationship.Kind]int, len(r.metrics.PerKindCounts))
	for k, v := range r.metrics.PerKindCounts {
		m.PerKindCounts[k] = v
	}
	return m
}

type resultJSON struct {
	RunID       string                    `json:"runId"`
	Status      Status                    `json:"status"`
	Success     bool                      `json:"success"`
	Reason      string                    `json:"reason,omitempty"`
	DurationMS  int64                     `json:"durationMs"`
	Edges       []relationship.Edge       `json:"edges"`
	Hierarchies map[string]hierarchy.Node `json:"hierarchies"`
	Patterns    []patterns.Match          `json:"patterns"`
	Metrics     *metrics.Metrics          `json:"metrics,omitempty"`
}

// MarshalJSON renders the result for reporting tools.
func (r *Result) MarshalJSON() ([]byte, error) {
	view := resultJSON{
		RunID:       r.runID,
		Status:      r.status,
		Success:     r.Success(),
		Reason:      r.reason,
		DurationMS:  r.duration.Milliseconds(),
		Edges:       r.Edges(),
		Hierarchies: r.Hierarchies(),
		Patterns:    r.Patterns(),
	}
	if r.Success() {
		m := r.Metrics()
		view.Metrics = &m
	}
	return json.Marshal(view)
}

func copyNode(n *hierarchy.Node) hierarchy.Node {
	c := *n
	c.ImplementedContracts = append([]string(nil), n.ImplementedContracts...)
	c.AncestorPath = append([]string(nil), n.AncestorPath...)
	return c
}

func copyMatch(m patterns.Match) patterns.Match {
	m.Participants = append([]string(nil), m.Participants...)
	return m
}
