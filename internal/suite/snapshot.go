package suite

import (
	"fmt"
	"slices"

	"github.com/roach88/vastlit/internal/canon"
	"github.com/roach88/vastlit/internal/subst"
)

// Snapshot is the serializable view of a Suite consumed by the test runner.
type Snapshot struct {
	Name           string                `json:"name"`
	TestSourceRoot string                `json:"test_source_root"`
	TestExecRoot   string                `json:"test_exec_root"`
	BuildType      string                `json:"build_type"`
	Suffixes       []string              `json:"suffixes"`
	Excludes       []string              `json:"excludes"`
	Environment    map[string]string     `json:"environment"`
	Substitutions  []subst.ResolvedEntry `json:"substitutions"`
	Features       []string              `json:"features"`
}

// Snapshot captures the suite's outputs.
func (s *Suite) Snapshot() Snapshot {
	env := make(map[string]string, len(s.config.Environment))
	for k, v := range s.config.Environment {
		env[k] = v
	}
	return Snapshot{
		Name:           s.config.Name,
		TestSourceRoot: s.config.TestSourceRoot,
		TestExecRoot:   s.config.TestExecRoot,
		BuildType:      s.config.BuildType,
		Suffixes:       slices.Clone(s.config.Suffixes),
		Excludes:       slices.Clone(s.config.Excludes),
		Environment:    env,
		Substitutions:  s.table.Entries(),
		Features:       s.features.List(),
	}
}

// Canonical returns the canonical JSON encoding of the snapshot.
func (s Snapshot) Canonical() ([]byte, error) {
	subs := make([]any, len(s.Substitutions))
	for i, e := range s.Substitutions {
		entry := map[string]any{
			"token":   e.Token,
			"kind":    e.Command.Kind.String(),
			"command": e.Path,
		}
		if len(e.ExtraArgs) > 0 {
			entry["extra_args"] = e.ExtraArgs
		}
		subs[i] = entry
	}

	env := make(map[string]any, len(s.Environment))
	for k, v := range s.Environment {
		env[k] = v
	}

	data, err := canon.Marshal(map[string]any{
		"name":             s.Name,
		"test_source_root": s.TestSourceRoot,
		"test_exec_root":   s.TestExecRoot,
		"build_type":       s.BuildType,
		"suffixes":         s.Suffixes,
		"excludes":         s.Excludes,
		"environment":      env,
		"substitutions":    subs,
		"features":         s.Features,
	})
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	return data, nil
}

// Hash returns the domain-separated SHA-256 of the canonical encoding.
func (s Snapshot) Hash() (string, error) {
	data, err := s.Canonical()
	if err != nil {
		return "", err
	}
	return canon.Hash(canon.DomainSnapshot, data), nil
}
