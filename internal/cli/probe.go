package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/vastlit/internal/probe"
)

// ProbeReport is the JSON payload of the probe command.
type ProbeReport struct {
	Results  []probe.Result   `json:"results"`
	Features probe.FeatureSet `json:"features"`
}

// NewProbeCommand creates the probe command.
func NewProbeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SiteOptions{}

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Run the capability probes",
		Long: `Run every capability probe against the host toolchain and report
which optional features are available. A probe that fails for any
reason only leaves its feature out; the command itself succeeds.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProbe(rootOpts, opts, cmd)
		},
	}

	opts.addFlags(cmd, false)

	return cmd
}

func runProbe(rootOpts *RootOptions, opts *SiteOptions, cmd *cobra.Command) error {
	formatter := newFormatter(rootOpts, cmd)

	cfg, err := loadConfig(rootOpts, opts)
	if err != nil {
		return failLoad(formatter, err)
	}

	runner := rootOpts.ProbeRunner
	if runner == nil {
		runner = probe.ExecRunner{}
	}
	prober := &probe.Prober{
		Runner:   runner,
		Resolver: cfg.Resolver(),
		Skip:     cfg.SkipProbes,
	}
	results, features := prober.Run(cmd.Context(), probe.Builtin())

	if formatter.JSON() {
		return formatter.Success(ProbeReport{Results: results, Features: features})
	}
	writeProbeText(formatter.Writer, results)
	return nil
}

func writeProbeText(w io.Writer, results []probe.Result) {
	present := 0
	for _, r := range results {
		switch {
		case r.Skipped:
			fmt.Fprintf(w, "- %s (%s)\n", r.Feature, r.Reason)
		case r.Present:
			present++
			fmt.Fprintf(w, "✓ %s\n", r.Feature)
		default:
			fmt.Fprintf(w, "✗ %s (%s)\n", r.Feature, r.Reason)
		}
	}
	fmt.Fprintf(w, "\n%d of %d features available\n", present, len(results))
}
