package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/vastlit/internal/store"
)

// VerifyOptions holds flags for the verify command.
type VerifyOptions struct {
	SiteOptions
	DB string
}

// VerifyResult is the JSON payload of a successful verify.
type VerifyResult struct {
	Hash     string `json:"hash"`
	RecordID string `json:"record_id"`
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VerifyOptions{}

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Compare the suite with the last recorded snapshot",
		Long: `Build the suite configuration and compare its hash with the most
recent snapshot recorded for the same build type.

Exit codes:
  0 - configuration unchanged
  1 - configuration differs from the recorded snapshot
  2 - invalid configuration, database error, or nothing recorded`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(rootOpts, opts, cmd)
		},
	}

	opts.addFlags(cmd, true)
	cmd.Flags().StringVar(&opts.DB, "db", "", "snapshot history database")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runVerify(rootOpts *RootOptions, opts *VerifyOptions, cmd *cobra.Command) error {
	formatter := newFormatter(rootOpts, cmd)
	ctx := cmd.Context()

	s, err := setupSuite(ctx, rootOpts, &opts.SiteOptions, false)
	if err != nil {
		return failLoad(formatter, err)
	}
	snap := s.Snapshot()
	hash, err := snap.Hash()
	if err != nil {
		return failWith(formatter, ExitCommandError, ErrCodeGeneric, err)
	}

	st, err := store.Open(opts.DB)
	if err != nil {
		return failWith(formatter, ExitCommandError, ErrCodeStore, err)
	}
	defer st.Close()

	rec, err := st.Latest(ctx, snap.BuildType)
	if errors.Is(err, store.ErrNotFound) {
		return formatter.Fail(ExitCommandError, ErrCodeNoSnapshot,
			fmt.Sprintf("no snapshot recorded for build type %s", snap.BuildType), nil)
	}
	if err != nil {
		return failWith(formatter, ExitCommandError, ErrCodeStore, err)
	}

	if rec.Hash != hash {
		return formatter.Fail(ExitFailure, ErrCodeMismatch,
			fmt.Sprintf("configuration differs from snapshot %s", rec.ID),
			map[string]string{"recorded": rec.Hash, "current": hash})
	}

	if formatter.JSON() {
		return formatter.Success(VerifyResult{Hash: hash, RecordID: rec.ID})
	}
	fmt.Fprintf(formatter.Writer, "✓ configuration matches snapshot %s\n", rec.ID)
	return nil
}
