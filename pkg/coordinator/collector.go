package coordinator

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "raven"

// collectors holds the run-level Prometheus instruments of one Coordinator.
type collectors struct {
	runs           *prometheus.CounterVec
	duration       prometheus.Histogram
	typesProcessed prometheus.Counter
	inFlight       prometheus.Gauge
}

func newCollectors(reg prometheus.Registerer) *collectors {
	c := &collectors{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "analysis",
			Name:      "runs_total",
			Help:      "Analyses finished, by outcome status.",
		}, []string{"status"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "analysis",
			Name:      "duration_seconds",
			Help:      "Wall-clock time of one analysis.",
			Buckets:   []float64{.01, .05, .1, .5, 1, 5, 15, 60, 300},
		}),
		typesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "analysis",
			Name:      "types_processed_total",
			Help:      "Type facts run through extraction and hierarchy building.",
		}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "analysis",
			Name:      "in_flight",
			Help:      "Analyses currently running.",
		}),
	}

	if reg == nil {
		return c
	}
	c.runs = register(reg, c.runs)
	c.duration = register(reg, c.duration)
	c.typesProcessed = register(reg, c.typesProcessed)
	c.inFlight = register(reg, c.inFlight)
	return c
}

// register adds col to reg, reusing the collector already registered under
// the same descriptor so several coordinators can share one registry.
func register[T prometheus.Collector](reg prometheus.Registerer, col T) T {
	if err := reg.Register(col); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
		panic(err)
	}
	return col
}
