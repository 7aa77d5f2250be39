package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/vastlit/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	DB    string
	Limit int
	ID    string // show one snapshot with its body
}

// SnapshotDetail is one recorded snapshot including its canonical body.
type SnapshotDetail struct {
	store.Record
	Snapshot json.RawMessage `json:"snapshot"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{}

	cmd := &cobra.Command{
		Use:           "history",
		Short:         "List recorded snapshots",
		Long: `List the snapshots recorded with "show --record", newest first.

With --id, print a single snapshot including its canonical JSON body.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "snapshot history database")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "maximum number of snapshots (0 for all)")
	cmd.Flags().StringVar(&opts.ID, "id", "", "show the snapshot with this ID")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(rootOpts *RootOptions, opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(rootOpts, cmd)

	st, err := store.Open(opts.DB)
	if err != nil {
		return failWith(formatter, ExitCommandError, ErrCodeStore, err)
	}
	defer st.Close()

	if opts.ID != "" {
		return showRecord(formatter, st, opts.ID, cmd)
	}

	records, err := st.List(cmd.Context(), opts.Limit)
	if err != nil {
		return failWith(formatter, ExitCommandError, ErrCodeStore, err)
	}

	if formatter.JSON() {
		if records == nil {
			records = []store.Record{}
		}
		return formatter.Success(records)
	}

	if len(records) == 0 {
		fmt.Fprintln(formatter.Writer, "No snapshots recorded")
		return nil
	}
	tw := tabwriter.NewWriter(formatter.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tID\tBUILD\tHASH\tCREATED")
	for _, r := range records {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			r.Seq, r.ID, r.BuildType, shortHash(r.Hash), r.CreatedAt.Format(time.RFC3339))
	}
	return tw.Flush()
}

func showRecord(formatter *OutputFormatter, st *store.Store, id string, cmd *cobra.Command) error {
	rec, err := st.Get(cmd.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return formatter.Fail(ExitCommandError, ErrCodeNoSnapshot, fmt.Sprintf("no snapshot with ID %s", id), nil)
	}
	if err != nil {
		return failWith(formatter, ExitCommandError, ErrCodeStore, err)
	}

	if formatter.JSON() {
		return formatter.Success(SnapshotDetail{Record: *rec, Snapshot: json.RawMessage(rec.Body)})
	}
	w := formatter.Writer
	fmt.Fprintf(w, "ID:         %s\n", rec.ID)
	fmt.Fprintf(w, "Seq:        %d\n", rec.Seq)
	fmt.Fprintf(w, "Build type: %s\n", rec.BuildType)
	fmt.Fprintf(w, "Hash:       %s\n", rec.Hash)
	fmt.Fprintf(w, "Created:    %s\n", rec.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "\n%s\n", rec.Body)
	return nil
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
