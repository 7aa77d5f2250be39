package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// CheckResult is the JSON payload of a successful check.
type CheckResult struct {
	Substitutions int `json:"substitutions"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SiteOptions{}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the suite configuration",
		Long: `Build the substitution table without probing and fail when a token
was registered more than once, which silently shadows the earlier
command.

Exit codes:
  0 - configuration is consistent
  1 - duplicate substitution tokens
  2 - invalid site config, run parameter or stage name`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, opts, cmd)
		},
	}

	opts.addFlags(cmd, false)

	return cmd
}

func runCheck(rootOpts *RootOptions, opts *SiteOptions, cmd *cobra.Command) error {
	formatter := newFormatter(rootOpts, cmd)

	s, err := setupSuite(cmd.Context(), rootOpts, opts, true)
	if err != nil {
		return failLoad(formatter, err)
	}

	if collisions := s.Collisions(); len(collisions) > 0 {
		return formatter.Fail(ExitFailure, ErrCodeCollision,
			fmt.Sprintf("substitution tokens registered more than once: %s", strings.Join(collisions, ", ")),
			map[string]any{"tokens": collisions})
	}

	n := s.Substitutions().Len()
	if formatter.JSON() {
		return formatter.Success(CheckResult{Substitutions: n})
	}
	fmt.Fprintf(formatter.Writer, "✓ %d substitutions, no collisions\n", n)
	return nil
}
