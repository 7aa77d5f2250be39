// Package suite runs the one-shot setup phase of a test run and produces the
// immutable Suite handed to the external test runner.
//
// Setup order:
//
//  1. resolve the build configuration (tools root + build type)
//  2. register the baseline tool substitutions
//  3. derive one %check-<stage> substitution per pipeline stage
//  4. run the capability probes and add the static features
//
// Everything runs sequentially on the caller's goroutine. The returned Suite
// is never mutated afterwards and may be shared freely.
package suite

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/roach88/vastlit/internal/config"
	"github.com/roach88/vastlit/internal/pipeline"
	"github.com/roach88/vastlit/internal/probe"
	"github.com/roach88/vastlit/internal/subst"
)

// Options tune Setup. The zero value runs the built-in probes as real processes.
type Options struct {
	Runner     probe.Runner  // nil uses probe.ExecRunner
	Probes     []probe.Probe // nil uses probe.Builtin
	SkipProbes bool
	GOOS       string // empty uses runtime.GOOS
}

// Suite is the finished configuration of one test run.
type Suite struct {
	config   *config.Config
	table    *subst.Table
	features probe.FeatureSet
	results  []probe.Result
}

// Setup builds the substitution table and the feature set for cfg.
//
// Configuration problems (malformed stage names, unparsable host compiler)
// are returned as errors. Probe failures never are: they only leave the
// corresponding feature out.
func Setup(ctx context.Context, cfg *config.Config, opts Options) (*Suite, error) {
	resolver := cfg.Resolver()
	slog.Debug("setting up test suite", "tools_dir", resolver.ToolsRoot, "build_type", resolver.BuildType)

	b := subst.NewBuilder()
	if err := registerBaseline(b, cfg); err != nil {
		return nil, fmt.Errorf("register baseline tools: %w", err)
	}

	stages := cfg.Stages
	if len(stages) == 0 {
		stages = pipeline.DefaultStages()
	}
	if err := pipeline.DefaultExpander().Expand(b, stages); err != nil {
		return nil, fmt.Errorf("expand pipeline stages: %w", err)
	}

	table := b.Build(resolver)
	if collisions := table.Collisions(); len(collisions) > 0 {
		slog.Warn("substitution tokens registered more than once", "tokens", collisions)
	}

	var (
		results  []probe.Result
		features probe.FeatureSet
	)
	if !opts.SkipProbes {
		runner := opts.Runner
		if runner == nil {
			runner = probe.ExecRunner{}
		}
		probes := opts.Probes
		if probes == nil {
			probes = probe.Builtin()
		}
		prober := &probe.Prober{
			Runner:   runner,
			Resolver: resolver,
			GOOS:     opts.GOOS,
			Skip:     cfg.SkipProbes,
		}
		results, features = prober.Run(ctx, probes)
	}
	features = features.With(probe.StaticFeatures(cfg.HostCC, cfg.SARIF)...)

	slog.Info("test suite configured",
		"substitutions", table.Len(),
		"features", features.String(),
		"build_type", cfg.BuildType,
	)

	return &Suite{
		config:   cfg,
		table:    table,
		features: features,
		results:  results,
	}, nil
}

// Config returns the run configuration. Callers must not modify it.
func (s *Suite) Config() *config.Config {
	return s.config
}

// Substitutions returns the frozen substitution table.
func (s *Suite) Substitutions() *subst.Table {
	return s.table
}

// Features returns the available feature set.
func (s *Suite) Features() probe.FeatureSet {
	return s.features
}

// ProbeResults returns the outcome of every probe, in probe order.
func (s *Suite) ProbeResults() []probe.Result {
	return slices.Clone(s.results)
}

// Collisions returns substitution tokens registered more than once.
func (s *Suite) Collisions() []string {
	return s.table.Collisions()
}
