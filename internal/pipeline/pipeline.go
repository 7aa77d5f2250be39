// Package pipeline derives one diagnostic substitution per compiler pipeline
// stage. Each derived token runs the front-end and dumps the IR right after
// the named stage, discarding the normal output.
//
// Stage names are opaque. Only the namespace prefix is interpreted: it is
// stripped to build the token, so "vast-hl-dce" becomes "%check-hl-dce".
package pipeline

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/roach88/vastlit/internal/subst"
)

// defaultStages is the VAST lowering pipeline, in pipeline order.
var defaultStages = []string{
	"vast-hl-splice-trailing-scopes",
	"vast-hl-to-hl-builtin",
	"vast-hl-ude",
	"vast-hl-dce",
	"vast-hl-lower-elaborated-types",
	"vast-hl-lower-typedefs",
	"vast-hl-lower-enum-refs",
	"vast-hl-lower-enum-decls",
	"vast-hl-lower-types",
	"vast-hl-to-ll-func",
	"vast-hl-to-ll-cf",
	"vast-hl-to-ll-geps",
	"vast-vars-to-cells",
	"vast-refs-to-ssa",
	"vast-evict-static-locals",
	"vast-strip-param-lvalues",
	"vast-lower-value-categories",
	"vast-hl-to-lazy-regions",
	"vast-emit-abi",
	"vast-lower-abi",
	"vast-irs-to-llvm",
	"vast-core-to-llvm",
}

// DefaultStages returns a fresh copy of the VAST lowering pipeline.
func DefaultStages() []string {
	return slices.Clone(defaultStages)
}

// ErrMalformedStage is wrapped by every StageError.
var ErrMalformedStage = errors.New("malformed pipeline stage name")

// StageError reports a stage name that cannot be turned into a token.
type StageError struct {
	Stage   string
	Message string
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %q: %s", e.Stage, e.Message)
}

func (e *StageError) Unwrap() error {
	return ErrMalformedStage
}

// Expander turns stage names into substitution entries.
type Expander struct {
	Namespace string        // prefix every stage name must carry, e.g. "vast-"
	Marker    string        // token prefix, e.g. "%check-"
	Tool      subst.Command // front-end that performs the dump
	DumpFlag  string        // flag taking the stage name, e.g. "-vast-emit-mlir-after="
	Discard   string        // output destination meaning "discard"
}

// DefaultExpander returns the expander used by the VAST test suite.
func DefaultExpander() Expander {
	return Expander{
		Namespace: "vast-",
		Marker:    "%check-",
		Tool:      subst.InTreeTool("vast-front"),
		DumpFlag:  "-vast-emit-mlir-after=",
		Discard:   "-",
	}
}

// Token returns the derived token for stage.
func (x Expander) Token(stage string) (string, error) {
	name, ok := strings.CutPrefix(stage, x.Namespace)
	if !ok {
		return "", &StageError{Stage: stage, Message: fmt.Sprintf("missing %q prefix", x.Namespace)}
	}
	if name == "" {
		return "", &StageError{Stage: stage, Message: "empty name after prefix"}
	}
	return x.Marker + name, nil
}

// Args returns the front-end arguments that dump the IR after stage.
func (x Expander) Args(stage string) []string {
	return []string{x.DumpFlag + stage, "-o", x.Discard}
}

// Expand registers one substitution per stage into b.
//
// All stage names are validated before anything is registered, so a
// malformed list leaves b untouched. Duplicate stages overwrite each other
// following the builder's last-write-wins rule.
func (x Expander) Expand(b *subst.Builder, stages []string) error {
	tokens := make([]string, len(stages))
	var errs []error
	for i, stage := range stages {
		tok, err := x.Token(stage)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		tokens[i] = tok
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	for i, stage := range stages {
		if err := b.Register(tokens[i], x.Tool, x.Args(stage)...); err != nil {
			return fmt.Errorf("register %s: %w", tokens[i], err)
		}
	}
	slog.Debug("pipeline stages expanded", "count", len(stages))
	return nil
}
