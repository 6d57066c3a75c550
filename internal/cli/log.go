package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/gridstate/internal/store"
)

// LogOptions holds flags for the log command.
type LogOptions struct {
	*RootOptions
	Database string
	TableID  string
}

// TableSummary describes one stored session.
type TableSummary struct {
	TableID       string `json:"table_id"`
	Locale        string `json:"locale"`
	SelectionMode string `json:"selection_mode"`
	DatasetHash   string `json:"dataset_hash"`
	LastSeq       int64  `json:"last_seq"`
}

// LogEntry is one logged event.
type LogEntry struct {
	Seq          int64  `json:"seq"`
	Type         string `json:"type"`
	Key          string `json:"key,omitempty"`
	RowID        string `json:"row_id,omitempty"`
	Query        string `json:"query,omitempty"`
	SnapshotHash string `json:"snapshot_hash"`
}

// TableLog is a table and its events, oldest first.
type TableLog struct {
	TableSummary
	Events []LogEntry `json:"events"`
}

// NewLogCommand creates the log command.
func NewLogCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LogOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "log",
		Short: "List stored tables or print a table's event log",
		Long: `Without --table-id, list every stored table with its settings and the
sequence number of its last event. With --table-id, print that table's
events in order.

Examples:
  gridstate log --db ./grid.db
  gridstate log --db ./grid.db --table-id t1 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLog(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.TableID, "table-id", "", "print the events of this table")

	return cmd
}

func runLog(opts *LogOptions, cmd *cobra.Command) error {
	ctx := context.Background()
	f := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	if _, err := os.Stat(opts.Database); err != nil {
		return WrapExitError(ExitCommandError, "database not found", err)
	}
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	if opts.TableID == "" {
		tables, err := listTables(ctx, st)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list tables", err)
		}
		if opts.Format == "json" {
			return f.Success(tables)
		}
		return outputTablesText(cmd, tables)
	}

	tl, err := readTableLog(ctx, st, opts.TableID)
	if errors.Is(err, store.ErrTableNotFound) {
		return WrapExitError(ExitCommandError, fmt.Sprintf("table %s", opts.TableID), err)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read log", err)
	}
	if opts.Format == "json" {
		return f.Success(tl)
	}
	return outputLogText(cmd, tl)
}

func summarize(ctx context.Context, st *store.Store, id string) (TableSummary, error) {
	rec, err := st.ReadTable(ctx, id)
	if err != nil {
		return TableSummary{}, err
	}
	last, err := st.LastSeq(ctx, id)
	if err != nil {
		return TableSummary{}, err
	}
	return TableSummary{
		TableID:       rec.ID,
		Locale:        rec.Locale,
		SelectionMode: string(rec.SelectionMode),
		DatasetHash:   rec.DatasetHash,
		LastSeq:       last,
	}, nil
}

func listTables(ctx context.Context, st *store.Store) ([]TableSummary, error) {
	ids, err := st.ListTables(ctx)
	if err != nil {
		return nil, err
	}
	tables := make([]TableSummary, 0, len(ids))
	for _, id := range ids {
		ts, err := summarize(ctx, st, id)
		if err != nil {
			return nil, err
		}
		tables = append(tables, ts)
	}
	return tables, nil
}

func readTableLog(ctx context.Context, st *store.Store, id string) (TableLog, error) {
	ts, err := summarize(ctx, st, id)
	if err != nil {
		return TableLog{}, err
	}
	records, err := st.ReadEvents(ctx, id)
	if err != nil {
		return TableLog{}, err
	}

	tl := TableLog{TableSummary: ts, Events: make([]LogEntry, len(records))}
	for i, rec := range records {
		tl.Events[i] = LogEntry{
			Seq:          rec.Seq,
			Type:         string(rec.Event.Type),
			Key:          rec.Event.Key,
			RowID:        rec.Event.RowID,
			Query:        rec.Event.Query,
			SnapshotHash: rec.SnapshotHash,
		}
	}
	return tl, nil
}

func outputTablesText(cmd *cobra.Command, tables []TableSummary) error {
	w := cmd.OutOrStdout()
	if len(tables) == 0 {
		fmt.Fprintln(w, "No tables found in database.")
		return nil
	}
	for _, ts := range tables {
		fmt.Fprintf(w, "%s  locale=%s mode=%s events=%d\n", ts.TableID, ts.Locale, ts.SelectionMode, ts.LastSeq)
	}
	return nil
}

func outputLogText(cmd *cobra.Command, tl TableLog) error {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s  locale=%s mode=%s\n", tl.TableID, tl.Locale, tl.SelectionMode)
	for _, e := range tl.Events {
		arg := e.Key
		switch {
		case e.RowID != "":
			arg = e.RowID
		case e.Type == "filter":
			arg = fmt.Sprintf("%q", e.Query)
		}
		fmt.Fprintf(w, "%4d  %-17s %-12s %s\n", e.Seq, e.Type, arg, shortHash(e.SnapshotHash))
	}
	return nil
}

// shortHash trims a snapshot hash for display.
func shortHash(h string) string {
	const n = 12
	if len(h) <= n {
		return h
	}
	return h[:n]
}
