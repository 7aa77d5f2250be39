package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/vastlit/internal/config"
	"github.com/roach88/vastlit/internal/pipeline"
	"github.com/roach88/vastlit/internal/suite"
)

// SiteOptions are the flags shared by every command that builds a suite.
type SiteOptions struct {
	Site       string
	Params     []string
	SkipProbes bool
}

func (o *SiteOptions) addFlags(cmd *cobra.Command, withSkip bool) {
	cmd.Flags().StringVar(&o.Site, "site", "", "site config file (.yaml or .cue)")
	cmd.Flags().StringArrayVarP(&o.Params, "param", "D", nil, "run parameter KEY=VALUE (repeatable)")
	if withSkip {
		cmd.Flags().BoolVar(&o.SkipProbes, "skip-probes", false, "do not run capability probes")
	}
	_ = cmd.MarkFlagRequired("site")
}

// LoadError represents a failure to build the run configuration.
type LoadError struct {
	Code    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// loadConfig reads the site file and combines it with the run parameters.
func loadConfig(root *RootOptions, o *SiteOptions) (*config.Config, error) {
	params, err := config.ParseParams(o.Params)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeInvalidParam, Message: err.Error(), Err: err}
	}
	site, err := config.LoadSite(o.Site)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeSiteConfig, Message: err.Error(), Err: err}
	}
	return config.New(site, params, root.LookupEnv), nil
}

// setupSuite loads the configuration and runs suite setup.
// skipProbes overrides the --skip-probes flag when true.
func setupSuite(ctx context.Context, root *RootOptions, o *SiteOptions, skipProbes bool) (*suite.Suite, error) {
	cfg, err := loadConfig(root, o)
	if err != nil {
		return nil, err
	}
	s, err := suite.Setup(ctx, cfg, suite.Options{
		Runner:     root.ProbeRunner,
		SkipProbes: skipProbes || o.SkipProbes,
	})
	if err != nil {
		code := ErrCodeGeneric
		if errors.Is(err, pipeline.ErrMalformedStage) {
			code = ErrCodeMalformedStage
		}
		return nil, &LoadError{Code: code, Message: err.Error(), Err: err}
	}
	return s, nil
}

// failLoad reports err through the formatter with exit code 2.
func failLoad(f *OutputFormatter, err error) error {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return failWith(f, ExitCommandError, loadErr.Code, loadErr.Err)
	}
	return failWith(f, ExitCommandError, ErrCodeGeneric, err)
}

// failWith reports err and returns an ExitError that keeps err as its cause.
func failWith(f *OutputFormatter, exitCode int, code string, err error) error {
	_ = f.Error(code, err.Error(), nil)
	return WrapExitError(exitCode, code, err)
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}
