package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/simonhull/firebird-suite/raven/internal/output"
	"github.com/simonhull/firebird-suite/raven/pkg/config"
	"github.com/simonhull/firebird-suite/raven/pkg/coordinator"
	"github.com/simonhull/firebird-suite/raven/pkg/facts"
	"github.com/simonhull/firebird-suite/raven/pkg/logger"
	"github.com/simonhull/firebird-suite/raven/pkg/relationship"
	"github.com/spf13/cobra"
)

type analyzeOptions struct {
	configPath  string
	envFiles    []string
	jsonOutput  bool
	timeout     time.Duration
	logLevel    string
	metricsFile string
}

// AnalyzeCmd creates the analyze command
func AnalyzeCmd() *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze <facts.yml>...",
		Short: "Reconstruct the architecture described by fact documents",
		Long: `Loads one or more TypeFacts documents, then extracts relationships,
builds inheritance hierarchies, detects design-pattern candidates and
computes coupling and cohesion metrics.

Examples:
  raven analyze facts/*.yml
  raven analyze app.yml --json > structure.json
  raven analyze app.yml --timeout 30s --metrics-file raven.prom`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "raven.yml", "Path to configuration file")
	cmd.Flags().StringSliceVar(&opts.envFiles, "env-file", nil, "Environment files to load before reading configuration (default .env)")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Print the result as JSON")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Analysis budget (overrides analysis.timeout)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides log.level)")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus metrics in text format to this file")

	return cmd
}

func runAnalyze(cmd *cobra.Command, opts *analyzeOptions, paths []string) error {
	if err := config.LoadEnvFiles(opts.envFiles...); err != nil {
		return err
	}
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.timeout > 0 {
		cfg.Analysis.Timeout = opts.timeout
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}

	log, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	output.Verbose(fmt.Sprintf("Loading %d fact document(s)", len(paths)))
	set, err := facts.LoadFiles(ctx, log, paths...)
	if err != nil {
		return fmt.Errorf("loading facts: %w", err)
	}

	registry := prometheus.NewRegistry()
	copts := coordinator.OptionsFromConfig(cfg)
	copts.Logger = log
	copts.Registerer = registry
	coord := coordinator.New(copts)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Analysis.ShutdownGrace+time.Second)
		defer cancel()
		if err := coord.Shutdown(shutdownCtx); err != nil {
			log.Warn("Coordinator shutdown incomplete", logger.Err(err))
		}
	}()

	output.Verbose(fmt.Sprintf("Analyzing %d types with %d workers", set.Len(), coord.Workers()))
	res := coord.Analyze(ctx, set)

	if opts.metricsFile != "" {
		if err := prometheus.WriteToTextfile(opts.metricsFile, registry); err != nil {
			log.Warn("Failed to write metrics file", logger.F("path", opts.metricsFile), logger.Err(err))
		}
	}

	if opts.jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
	} else {
		printResult(res)
	}

	if !res.Success() {
		return fmt.Errorf("analysis %s: %s", res.Status(), res.Reason())
	}
	return nil
}

func newLogger(cmd *cobra.Command, cfg *config.Config) (logger.Logger, error) {
	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	if output.IsVerbose() {
		level = logger.LevelDebug
	}
	log := logger.NewLogger(level, cmd.ErrOrStderr())
	logger.SetDefault(log)
	return log, nil
}

// printResult displays the analysis in the terminal
func printResult(res *coordinator.Result) {
	if !res.Success() {
		output.Error(fmt.Sprintf("Analysis %s after %s: %s",
			res.Status(), res.Duration().Round(time.Millisecond), res.Reason()))
		return
	}

	output.Success(fmt.Sprintf("Analysis completed in %s", res.Duration().Round(time.Millisecond)))

	m := res.Metrics()

	output.Header("Relationships")
	output.KeyValue("Total", m.TotalRelationships)
	for _, kind := range relationship.Kinds {
		if n := m.PerKindCounts[kind]; n > 0 {
			output.KeyValue(string(kind), n)
		}
	}
	if output.IsVerbose() {
		for _, e := range res.Edges() {
			output.Step(fmt.Sprintf("%s -[%s/%s]-> %s", e.Source, e.Kind, e.Strength, e.Target))
		}
	}

	output.Header("Hierarchies")
	output.KeyValue("Types", m.TotalHierarchies)
	output.KeyValue("Deepest", m.DeepestHierarchy)
	output.KeyValue("Average depth", fmt.Sprintf("%.2f", m.AverageHierarchyDepth))
	output.KeyValue("Abstract types", m.AbstractTypeCount)
	output.KeyValue("Interfaces", m.InterfaceCount)
	if output.IsVerbose() {
		hier := res.Hierarchies()
		names := make([]string, 0, len(hier))
		for name := range hier {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			n := hier[name]
			if n.Depth > 0 {
				output.Step(fmt.Sprintf("%s (depth %d): %v", name, n.Depth, n.AncestorPath))
			}
		}
	}

	output.Header("Patterns")
	found := res.Patterns()
	if len(found) == 0 {
		output.Step("none detected")
	}
	for _, p := range found {
		output.Step(fmt.Sprintf("%-9s %s (%.0f%%) %v", p.Kind, p.Anchor, p.Confidence*100, p.Participants))
	}

	output.Header("Metrics")
	output.KeyValue("Relationships per type", fmt.Sprintf("%.2f", m.AverageRelationshipsPerType))
	output.KeyValue("Coupling index", fmt.Sprintf("%.3f", m.CouplingIndex))
	output.KeyValue("Cohesion index", fmt.Sprintf("%.3f", m.CohesionIndex))
}
