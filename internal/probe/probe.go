package probe

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"slices"

	"github.com/roach88/vastlit/internal/subst"
)

// Probe is one trial compilation guarding one feature name.
type Probe struct {
	Feature  string
	Compiler subst.Command // InTree or Ambient
	Args     []string
	Source   string

	// Platforms lists the GOOS values the probe applies to. Empty means all.
	Platforms []string
}

// Applies reports whether the probe is meaningful on goos.
func (p Probe) Applies(goos string) bool {
	return len(p.Platforms) == 0 || slices.Contains(p.Platforms, goos)
}

// Result is the outcome of a single probe.
type Result struct {
	Feature  string `json:"feature"`
	Present  bool   `json:"present"`
	Skipped  bool   `json:"skipped,omitempty"`
	ExitCode int    `json:"exit_code"`
	Reason   string `json:"reason,omitempty"`
}

// Prober runs probes sequentially on the calling goroutine.
type Prober struct {
	Runner   Runner
	Resolver subst.Resolver
	GOOS     string   // defaults to runtime.GOOS
	Skip     []string // feature names that are never probed
}

// Probe runs a single probe. It never returns an error: every failure is
// folded into a Result with Present set to false.
func (p *Prober) Probe(ctx context.Context, pr Probe) Result {
	res := Result{Feature: pr.Feature, ExitCode: -1}

	goos := p.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	switch {
	case slices.Contains(p.Skip, pr.Feature):
		res.Skipped = true
		res.Reason = "skipped by configuration"
		return res
	case !pr.Applies(goos):
		res.Skipped = true
		res.Reason = "not applicable on " + goos
		return res
	}

	path, err := p.compilerPath(pr.Compiler)
	if err != nil {
		res.Reason = err.Error()
		return res
	}

	code, err := p.Runner.Run(ctx, path, pr.Args, []byte(pr.Source))
	if err != nil {
		res.Reason = err.Error()
		slog.Debug("probe could not run", "feature", pr.Feature, "compiler", path, "error", err)
		return res
	}

	res.ExitCode = code
	res.Present = code == 0
	if !res.Present {
		res.Reason = fmt.Sprintf("exit status %d", code)
	}
	slog.Debug("probe finished", "feature", pr.Feature, "compiler", path, "present", res.Present, "exit_code", code)
	return res
}

// Run executes every probe and returns the per-probe results together with
// the set of features whose probe succeeded.
func (p *Prober) Run(ctx context.Context, probes []Probe) ([]Result, FeatureSet) {
	results := make([]Result, 0, len(probes))
	var present []string
	for _, pr := range probes {
		res := p.Probe(ctx, pr)
		results = append(results, res)
		if res.Present {
			present = append(present, res.Feature)
		}
	}
	return results, NewFeatureSet(present...)
}

func (p *Prober) compilerPath(cmd subst.Command) (string, error) {
	switch cmd.Kind {
	case subst.InTree:
		if p.Resolver == nil {
			return "", fmt.Errorf("no resolver for in-tree compiler %s", cmd.Name)
		}
		return p.Resolver.Resolve(cmd.Name), nil
	case subst.Ambient:
		return cmd.Name, nil
	default:
		return "", fmt.Errorf("probe compiler must be in-tree or ambient, got %s", cmd)
	}
}
