// Package config loads the site configuration written by the build system
// and combines it with run parameters into the immutable Config consumed by
// the rest of the harness.
//
// Site files may be YAML or CUE:
//
//	# lit.site.yaml
//	src_root: ../vast
//	obj_root: ../vast/build
//	host_cc: /usr/bin/clang
//	shlib_ext: .so
//	enable_sarif: false
//
// Relative roots are resolved against the directory holding the site file.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"
)

// Site holds the values the build system knows about the tree under test.
type Site struct {
	// SrcRoot is the toolchain source checkout.
	SrcRoot string `yaml:"src_root" json:"src_root"`

	// ObjRoot is the build directory holding tools/ and test/.
	ObjRoot string `yaml:"obj_root" json:"obj_root"`

	// HostCC is the host C compiler, possibly with a launcher ("ccache clang").
	HostCC string `yaml:"host_cc" json:"host_cc"`

	// ShlibExt is the shared library suffix. Empty selects the host default.
	ShlibExt string `yaml:"shlib_ext,omitempty" json:"shlib_ext,omitempty"`

	// EnableSARIF publishes the "sarif" feature without probing.
	EnableSARIF bool `yaml:"enable_sarif,omitempty" json:"enable_sarif,omitempty"`

	// Stages overrides the pipeline stage list used for %check- tokens.
	Stages []string `yaml:"stages,omitempty" json:"stages,omitempty"`

	// SkipProbes lists feature names whose probes are never run.
	SkipProbes []string `yaml:"skip_probes,omitempty" json:"skip_probes,omitempty"`
}

var siteFields = map[string]bool{
	"src_root":     true,
	"obj_root":     true,
	"host_cc":      true,
	"shlib_ext":    true,
	"enable_sarif": true,
	"stages":       true,
	"skip_probes":  true,
}

// SiteError describes an invalid site configuration.
type SiteError struct {
	Field   string
	Message string
	Pos     token.Pos // set for CUE sources
}

func (e *SiteError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// LoadSite reads a .yaml, .yml or .cue site file.
func LoadSite(path string) (*Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read site config: %w", err)
	}

	var site *Site
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		site, err = parseYAML(data)
	case ".cue":
		site, err = parseCUE(path, data)
	default:
		return nil, fmt.Errorf("unsupported site config format %q", ext)
	}
	if err != nil {
		return nil, err
	}

	site.resolvePaths(filepath.Dir(path))
	if err := site.Validate(); err != nil {
		return nil, err
	}
	return site, nil
}

func parseYAML(data []byte) (*Site, error) {
	var site Site
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // reject typos like "objroot:"
	if err := decoder.Decode(&site); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &site, nil
}

func parseCUE(path string, data []byte) (*Site, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	iter, err := v.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		label := iter.Selector().String()
		if !siteFields[label] {
			return nil, &SiteError{Field: label, Message: "unknown field", Pos: iter.Value().Pos()}
		}
	}

	var site Site
	if err := v.Decode(&site); err != nil {
		return nil, formatCUEError(err)
	}
	return &site, nil
}

// formatCUEError keeps the position of the first CUE error.
func formatCUEError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		return &SiteError{Field: "cue", Message: first.Error(), Pos: positions[0]}
	}
	return err
}

func (s *Site) resolvePaths(base string) {
	if s.SrcRoot != "" && !filepath.IsAbs(s.SrcRoot) {
		s.SrcRoot = filepath.Join(base, s.SrcRoot)
	}
	if s.ObjRoot != "" && !filepath.IsAbs(s.ObjRoot) {
		s.ObjRoot = filepath.Join(base, s.ObjRoot)
	}
}

// Validate checks required fields.
func (s *Site) Validate() error {
	switch {
	case s.SrcRoot == "":
		return &SiteError{Field: "src_root", Message: "src_root is required"}
	case s.ObjRoot == "":
		return &SiteError{Field: "obj_root", Message: "obj_root is required"}
	case strings.TrimSpace(s.HostCC) == "":
		return &SiteError{Field: "host_cc", Message: "host_cc is required"}
	}
	return nil
}
