// Package probe detects optional host and toolchain capabilities.
//
// A Probe is a single trial compilation: one compiler, fixed flags, and a
// small source snippet piped on stdin with the output discarded. Only the exit
// status is observed. Status zero publishes the probe's feature name; any
// other outcome (nonzero status, crash, missing compiler, launch failure)
// means the feature is absent. Absence is a normal result, not an error, and
// nothing escapes the Prober as one.
//
// Probes are independent and run one at a time. Any subset may be skipped,
// either because the probe does not apply to the host OS or because the
// configuration disables it, without affecting the others.
package probe
