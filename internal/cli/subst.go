package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// NewSubstCommand creates the subst command.
func NewSubstCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SiteOptions{}

	cmd := &cobra.Command{
		Use:   "subst [file|-]",
		Short: "Expand substitution tokens in a test script",
		Long: `Read a test script (a file, or stdin when the argument is "-" or
missing) and print it with every substitution token replaced by its
command line. Probes are not run.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			return runSubst(rootOpts, opts, path, cmd)
		},
	}

	opts.addFlags(cmd, false)

	return cmd
}

func runSubst(rootOpts *RootOptions, opts *SiteOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(rootOpts, cmd)

	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return failWith(formatter, ExitCommandError, ErrCodeReadFailed, fmt.Errorf("failed to read script: %w", err))
	}

	s, err := setupSuite(cmd.Context(), rootOpts, opts, true)
	if err != nil {
		return failLoad(formatter, err)
	}

	out := s.Substitutions().Apply(string(data))
	if formatter.JSON() {
		return formatter.Success(map[string]string{"text": out})
	}
	_, err = io.WriteString(formatter.Writer, out)
	return err
}
