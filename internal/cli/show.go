package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/vastlit/internal/store"
	"github.com/roach88/vastlit/internal/suite"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	SiteOptions
	Record string // snapshot database; empty disables recording
}

// ShowResult is the JSON payload of the show command.
type ShowResult struct {
	Snapshot suite.Snapshot `json:"snapshot"`
	Hash     string         `json:"hash"`
	RecordID string         `json:"record_id,omitempty"`
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the configured test suite",
		Long: `Build the test suite configuration from a site file and print it:
roots, build type, every substitution and the available features.

With --record the canonical snapshot is appended to a SQLite history
database for later comparison with verify.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(rootOpts, opts, cmd)
		},
	}

	opts.addFlags(cmd, true)
	cmd.Flags().StringVar(&opts.Record, "record", "", "append the snapshot to this history database")

	return cmd
}

func runShow(rootOpts *RootOptions, opts *ShowOptions, cmd *cobra.Command) error {
	formatter := newFormatter(rootOpts, cmd)
	ctx := cmd.Context()

	s, err := setupSuite(ctx, rootOpts, &opts.SiteOptions, false)
	if err != nil {
		return failLoad(formatter, err)
	}

	snap := s.Snapshot()
	body, err := snap.Canonical()
	if err != nil {
		return failWith(formatter, ExitCommandError, ErrCodeGeneric, err)
	}
	hash, err := snap.Hash()
	if err != nil {
		return failWith(formatter, ExitCommandError, ErrCodeGeneric, err)
	}

	result := ShowResult{Snapshot: snap, Hash: hash}
	if opts.Record != "" {
		st, err := store.Open(opts.Record)
		if err != nil {
			return failWith(formatter, ExitCommandError, ErrCodeStore, err)
		}
		defer st.Close()

		rec, err := st.Save(ctx, snap.BuildType, hash, body)
		if err != nil {
			return failWith(formatter, ExitCommandError, ErrCodeStore, err)
		}
		result.RecordID = rec.ID
		formatter.VerboseLog("Recorded snapshot %s in %s", rec.ID, opts.Record)
	}

	if formatter.JSON() {
		return formatter.Success(result)
	}
	return writeShowText(formatter.Writer, s, result)
}

func writeShowText(w io.Writer, s *suite.Suite, result ShowResult) error {
	snap := result.Snapshot
	fmt.Fprintf(w, "Suite:       %s\n", snap.Name)
	fmt.Fprintf(w, "Build type:  %s\n", snap.BuildType)
	fmt.Fprintf(w, "Source root: %s\n", snap.TestSourceRoot)
	fmt.Fprintf(w, "Exec root:   %s\n", snap.TestExecRoot)
	fmt.Fprintf(w, "Suffixes:    %s\n", strings.Join(snap.Suffixes, " "))
	fmt.Fprintf(w, "Features:    %s\n", s.Features().String())
	fmt.Fprintf(w, "Hash:        %s\n", result.Hash)
	if result.RecordID != "" {
		fmt.Fprintf(w, "Recorded:    %s\n", result.RecordID)
	}

	fmt.Fprintf(w, "\nSubstitutions (%d):\n", s.Substitutions().Len())
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if err := s.Substitutions().Write(tw); err != nil {
		return err
	}
	return tw.Flush()
}
