// Package coordinator runs one structural analysis per call on a bounded
// worker pool, under a time budget, and reports the outcome as a Result.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/semaphore"

	"github.com/simonhull/firebird-suite/raven/pkg/config"
	"github.com/simonhull/firebird-suite/raven/pkg/facts"
	"github.com/simonhull/firebird-suite/raven/pkg/hierarchy"
	"github.com/simonhull/firebird-suite/raven/pkg/logger"
	"github.com/simonhull/firebird-suite/raven/pkg/metrics"
	"github.com/simonhull/firebird-suite/raven/pkg/patterns"
	"github.com/simonhull/firebird-suite/raven/pkg/relationship"
)

const (
	// DefaultTimeout is the budget of one analysis.
	DefaultTimeout = 5 * time.Minute
	// DefaultShutdownGrace is how long Shutdown waits for in-flight work.
	DefaultShutdownGrace = 10 * time.Second
	// MaxWorkers caps the pool regardless of GOMAXPROCS.
	MaxWorkers = 4
)

var (
	ErrEmptyInput = errors.New("no type facts to analyze")
	ErrShutdown   = errors.New("coordinator shut down")
	ErrTimeout    = errors.New("analysis timed out")
	ErrCancelled  = errors.New("analysis cancelled")
)

// State is the lifecycle state of a Coordinator.
type State string

const (
	StateIdle     State = "IDLE"
	StateRunning  State = "RUNNING"
	StateShutdown State = "SHUTDOWN"
)

// Input is what Analyze consumes: the types to analyze plus the lookup used
// to resolve their supertypes and contracts. *facts.Set satisfies it.
type Input interface {
	facts.Source
	Types() []*facts.TypeFact
}

// Options configures a Coordinator. Zero values select defaults.
type Options struct {
	Timeout       time.Duration
	ShutdownGrace time.Duration
	// Workers caps concurrent analyses; 0 means min(GOMAXPROCS, MaxWorkers).
	Workers     int
	RootType    string
	CommonTypes *relationship.CommonTypes
	Detector    *patterns.Detector
	Logger      logger.Logger
	// Registerer receives the run metrics; nil leaves them unregistered.
	Registerer prometheus.Registerer
}

// OptionsFromConfig maps raven.yml settings onto Options.
func OptionsFromConfig(cfg *config.Config) Options {
	a := cfg.Analysis
	common := relationship.DefaultCommonTypes(a.CommonTypes...)
	if a.ReplaceCommonTypes {
		common = relationship.NewCommonTypes(a.CommonTypes...)
	}
	return Options{
		Timeout:       a.Timeout,
		ShutdownGrace: a.ShutdownGrace,
		Workers:       a.Workers,
		RootType:      a.RootType,
		CommonTypes:   &common,
	}
}

// Coordinator dispatches analyses onto a bounded pool. It is safe for
// concurrent use; once shut down it never runs again.
type Coordinator struct {
	timeout  time.Duration
	grace    time.Duration
	workers  int
	rootType string
	common   relationship.CommonTypes
	detector *patterns.Detector
	logger   logger.Logger
	metrics  *collectors

	pool *semaphore.Weighted

	// stopping is cancelled when shutdown is requested; workers check it
	// before each type.
	stopping context.Context
	stop     context.CancelFunc

	mu       sync.Mutex
	shutdown bool
	running  int
	inFlight sync.WaitGroup
	cancels  map[string]context.CancelCauseFunc
}

// New creates a Coordinator.
func New(opts Options) *Coordinator {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.ShutdownGrace <= 0 {
		opts.ShutdownGrace = DefaultShutdownGrace
	}
	if opts.Workers <= 0 {
		opts.Workers = min(runtime.GOMAXPROCS(0), MaxWorkers)
	}
	if opts.RootType == "" {
		opts.RootType = relationship.DefaultRootType
	}
	common := relationship.DefaultCommonTypes()
	if opts.CommonTypes != nil {
		common = *opts.CommonTypes
	}
	if opts.Detector == nil {
		opts.Detector = patterns.NewDetector()
	}
	if opts.Logger == nil {
		opts.Logger = logger.Default()
	}

	stopping, stop := context.WithCancel(context.Background())
	return &Coordinator{
		timeout:  opts.Timeout,
		grace:    opts.ShutdownGrace,
		workers:  opts.Workers,
		rootType: opts.RootType,
		common:   common,
		detector: opts.Detector,
		logger:   opts.Logger,
		metrics:  newCollectors(opts.Registerer),
		pool:     semaphore.NewWeighted(int64(opts.Workers)),
		stopping: stopping,
		stop:     stop,
		cancels:  make(map[string]context.CancelCauseFunc),
	}
}

// Workers returns the pool size.
func (c *Coordinator) Workers() int {
	return c.workers
}

// State reports the lifecycle state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.shutdown:
		return StateShutdown
	case c.running > 0:
		return StateRunning
	default:
		return StateIdle
	}
}

// analysis is the outcome handed back from the pooled goroutine.
type analysis struct {
	result *Result
	err    error
}

// Analyze runs relationship extraction, hierarchy building, pattern
// detection and metrics over in. It always returns a Result; failures are
// reported through its Status, Reason and Err rather than a second return.
func (c *Coordinator) Analyze(ctx context.Context, in Input) *Result {
	start := time.Now()
	runID := uuid.NewString()
	log := c.logger.WithFields(logger.F("run_id", runID))

	if !c.begin() {
		log.Warn("Analysis rejected", logger.F("reason", ErrShutdown))
		return c.finish(log, failedResult(runID, StatusFailed, ErrShutdown, time.Since(start)))
	}
	defer c.end()

	var types []*facts.TypeFact
	if in != nil {
		types = in.Types()
	}
	if len(types) == 0 {
		log.Warn("Analysis rejected", logger.F("reason", ErrEmptyInput))
		return c.finish(log, failedResult(runID, StatusFailed, ErrEmptyInput, time.Since(start)))
	}

	runCtx, cancelRun := context.WithTimeout(ctx, c.timeout)
	defer cancelRun()
	workCtx, cancelWork := context.WithCancelCause(runCtx)
	defer cancelWork(nil)
	c.track(runID, cancelWork)
	defer c.untrack(runID)

	log.Info("Starting analysis",
		logger.F("types", len(types)),
		logger.F("timeout", c.timeout))

	// A waiting acquirer must not outlive a shutdown request.
	stopWaiting := context.AfterFunc(c.stopping, func() { cancelWork(ErrShutdown) })
	err := c.pool.Acquire(workCtx, 1)
	stopWaiting()
	if err != nil {
		return c.finish(log, c.interrupted(workCtx, runID, time.Since(start)))
	}

	done := make(chan analysis, 1)
	go func() {
		defer c.pool.Release(1)
		res, err := c.run(workCtx, runID, in, types, log)
		done <- analysis{result: res, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			return c.finish(log, c.classify(runID, out.err, time.Since(start)))
		}
		out.result.duration = time.Since(start)
		return c.finish(log, out.result)
	case <-workCtx.Done():
		return c.finish(log, c.interrupted(workCtx, runID, time.Since(start)))
	}
}

// run is the per-type loop plus the aggregate phases. It executes on a
// pooled goroutine and converts panics into errors.
func (c *Coordinator) run(ctx context.Context, runID string, in Input, types []*facts.TypeFact, log logger.Logger) (res *Result, err error) {
	phase := "extraction"
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during %s: %v", phase, r)
		}
	}()

	extractor := relationship.NewExtractor(in, c.common).
		WithLogger(log).
		WithRootType(c.rootType)
	builder := hierarchy.NewBuilder(in).
		WithLogger(log).
		WithRootType(c.rootType)
	edges := relationship.NewEdgeSet()

	for _, t := range types {
		if err := c.checkpoint(ctx); err != nil {
			return nil, err
		}
		phase = "extraction of " + t.Name
		edges.Merge(extractor.Extract(t))
		phase = "hierarchy of " + t.Name
		builder.Build(t)
		c.metrics.typesProcessed.Inc()
	}

	if err := c.checkpoint(ctx); err != nil {
		return nil, err
	}
	hierarchies := builder.Nodes()

	phase = "pattern detection"
	found := c.detector.Detect(edges, hierarchies)

	phase = "metrics"
	m := metrics.Calculate(edges, hierarchies, len(types))

	log.Debug("Analysis phases finished",
		logger.F("edges", edges.Len()),
		logger.F("hierarchies", len(hierarchies)),
		logger.F("patterns", len(found)))

	return &Result{
		runID:       runID,
		status:      StatusCompleted,
		edges:       edges,
		hierarchies: hierarchies,
		patterns:    found,
		metrics:     m,
	}, nil
}

// checkpoint returns the reason the loop must stop, if any.
func (c *Coordinator) checkpoint(ctx context.Context) error {
	select {
	case <-c.stopping.Done():
		return ErrShutdown
	default:
	}
	if ctx.Err() != nil {
		return context.Cause(ctx)
	}
	return nil
}

// interrupted builds the result for a run whose context ended first.
func (c *Coordinator) interrupted(ctx context.Context, runID string, elapsed time.Duration) *Result {
	return c.classify(runID, context.Cause(ctx), elapsed)
}

func (c *Coordinator) classify(runID string, err error, elapsed time.Duration) *Result {
	switch {
	case errors.Is(err, ErrShutdown):
		return failedResult(runID, StatusFailed, ErrShutdown, elapsed)
	case errors.Is(err, context.DeadlineExceeded):
		return failedResult(runID, StatusTimedOut, fmt.Errorf("%w after %s", ErrTimeout, c.timeout), elapsed)
	case errors.Is(err, context.Canceled):
		if c.stopping.Err() != nil {
			return failedResult(runID, StatusFailed, ErrShutdown, elapsed)
		}
		return failedResult(runID, StatusCancelled, ErrCancelled, elapsed)
	default:
		return failedResult(runID, StatusFailed, err, elapsed)
	}
}

func (c *Coordinator) finish(log logger.Logger, res *Result) *Result {
	c.metrics.runs.WithLabelValues(string(res.status)).Inc()
	c.metrics.duration.Observe(res.duration.Seconds())

	fields := []logger.Field{
		logger.F("status", res.status),
		logger.F("duration", res.duration),
	}
	if res.Success() {
		log.Info("Analysis finished", append(fields, logger.F("edges", res.EdgeCount()))...)
	} else {
		log.Warn("Analysis finished", append(fields, logger.F("reason", res.reason))...)
	}
	return res
}

// begin registers an in-flight call unless shutdown was requested.
func (c *Coordinator) begin() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.shutdown {
		return false
	}
	c.running++
	c.inFlight.Add(1)
	c.metrics.inFlight.Inc()
	return true
}

func (c *Coordinator) end() {
	c.mu.Lock()
	c.running--
	c.mu.Unlock()
	c.metrics.inFlight.Dec()
	c.inFlight.Done()
}

func (c *Coordinator) track(runID string, cancel context.CancelCauseFunc) {
	c.mu.Lock()
	c.cancels[runID] = cancel
	c.mu.Unlock()
}

func (c *Coordinator) untrack(runID string) {
	c.mu.Lock()
	delete(c.cancels, runID)
	c.mu.Unlock()
}

// Shutdown stops accepting analyses and signals in-flight ones to stop at
// their next type boundary. It waits up to the shutdown grace period, then
// cancels the remaining runs outright. Calling it again is harmless.
//
// Goroutines blocked inside a fact source cannot be preempted; their
// Analyze calls still return once cancelled.
func (c *Coordinator) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	first := !c.shutdown
	c.shutdown = true
	c.mu.Unlock()

	if first {
		c.logger.Info("Shutting down coordinator", logger.F("grace", c.grace))
		c.stop()
	}

	drained := make(chan struct{})
	go func() {
		c.inFlight.Wait()
		close(drained)
	}()

	grace := time.NewTimer(c.grace)
	defer grace.Stop()

	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-grace.C:
	}

	c.mu.Lock()
	forced := len(c.cancels)
	for _, cancel := range c.cancels {
		cancel(ErrShutdown)
	}
	c.mu.Unlock()
	c.logger.Warn("Grace period expired, cancelling analyses", logger.F("count", forced))

	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
