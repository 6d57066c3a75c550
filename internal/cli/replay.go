package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/gridstate/internal/engine"
	"github.com/roach88/gridstate/internal/ir"
	"github.com/roach88/gridstate/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	TableID  string // optional - specific table only
}

// Replay statuses of a single table.
const (
	ReplayMatch          = "match"
	ReplayDiverged       = "diverged"
	ReplayDatasetChanged = "dataset_changed"
)

// ReplayTableResult holds the replay result for a single table.
type ReplayTableResult struct {
	TableID    string   `json:"table_id"`
	Status     string   `json:"status"`
	Events     int      `json:"events"`
	Revision   int64    `json:"revision"`
	DivergedAt int64    `json:"diverged_at,omitempty"`
	RowOrder   []string `json:"row_order,omitempty"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Tables         []ReplayTableResult `json:"tables"`
	TotalTables    int                 `json:"total_tables"`
	AllMatch       bool                `json:"all_match"`
	SkippedChanged int                 `json:"skipped_changed"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay <fixture>",
		Short: "Replay stored sessions and verify every snapshot",
		Long: `Replay the event log of each stored table against a fixture and compare
every replayed snapshot hash with the recorded one.

Tables recorded against a different dataset are reported as
dataset_changed and skipped, unless --table-id names one explicitly.

Exit codes:
  0 - Every replayed table matches its log
  1 - A replay diverged, or the named table belongs to another dataset
  2 - Command error (database or table not found, etc.)

Examples:
  gridstate replay fruits.yaml --db ./grid.db
  gridstate replay fruits.yaml --db ./grid.db --table-id t1
  gridstate replay fruits.yaml --db ./grid.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.TableID, "table-id", "", "replay specific table only")

	return cmd
}

func runReplay(opts *ReplayOptions, fixturePath string, cmd *cobra.Command) error {
	ctx := context.Background()

	if _, err := os.Stat(opts.Database); err != nil {
		return WrapExitError(ExitCommandError, "database not found", err)
	}

	tbl, err := loadFixture(fixturePath)
	if err != nil {
		return err
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	var tableIDs []string
	if opts.TableID != "" {
		tableIDs = []string{opts.TableID}
	} else {
		tableIDs, err = st.ListTables(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list tables", err)
		}
	}

	result := ReplayResult{
		Tables:      make([]ReplayTableResult, 0, len(tableIDs)),
		TotalTables: len(tableIDs),
		AllMatch:    true,
	}

	for _, id := range tableIDs {
		tr, err := replayTable(ctx, st, id, tbl.Rows, tbl.Columns)
		switch {
		case errors.Is(err, store.ErrDatasetChanged) && opts.TableID == "":
			tr = ReplayTableResult{TableID: id, Status: ReplayDatasetChanged}
			result.SkippedChanged++
		case errors.Is(err, store.ErrDatasetChanged):
			return WrapExitError(ExitFailure, fmt.Sprintf("table %s", id), err)
		case errors.Is(err, store.ErrTableNotFound):
			return WrapExitError(ExitCommandError, fmt.Sprintf("table %s", id), err)
		case err != nil:
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay table %s", id), err)
		}

		result.Tables = append(result.Tables, tr)
		if tr.Status == ReplayDiverged {
			result.AllMatch = false
		}
	}

	if opts.Format == "json" {
		return outputReplayJSON(cmd, result)
	}
	return outputReplayText(cmd, result, opts.Verbose)
}

// replayTable restores one table and reports the first diverging step.
func replayTable(ctx context.Context, st *store.Store, id string, rows []ir.MapRecord, columns []ir.Column) (ReplayTableResult, error) {
	c, steps, err := store.Restore(ctx, st, id, rows, columns, engine.WithLogger(slog.Default()))
	if err != nil {
		return ReplayTableResult{}, err
	}

	tr := ReplayTableResult{
		TableID:  id,
		Status:   ReplayMatch,
		Events:   len(steps),
		Revision: c.Revision(),
	}
	for _, step := range steps {
		if !step.Match() {
			tr.Status = ReplayDiverged
			tr.DivergedAt = step.Seq
			break
		}
	}
	if tr.Status == ReplayMatch {
		tr.RowOrder = c.Snapshot().RowIDs()
	}
	return tr, nil
}

// outputReplayJSON outputs the replay result as JSON.
func outputReplayJSON(cmd *cobra.Command, result ReplayResult) error {
	status := "ok"
	if !result.AllMatch {
		status = "error"
	}

	response := CLIResponse{
		Status: status,
		Data:   result,
	}
	if !result.AllMatch {
		response.Error = &CLIError{
			Code:    "E_REPLAY_DIVERGED",
			Message: "replayed snapshots differ from the recorded log",
		}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(response); err != nil {
		return err
	}

	if !result.AllMatch {
		return NewExitError(ExitFailure, "replay diverged")
	}
	return nil
}

// outputReplayText outputs the replay result as text.
func outputReplayText(cmd *cobra.Command, result ReplayResult, verbose bool) error {
	w := cmd.OutOrStdout()

	if result.TotalTables == 0 {
		fmt.Fprintln(w, "No tables found in database.")
		return nil
	}

	for _, tr := range result.Tables {
		switch tr.Status {
		case ReplayMatch:
			fmt.Fprintf(w, "ok   %s (%d events, revision %d)\n", tr.TableID, tr.Events, tr.Revision)
			if verbose {
				fmt.Fprintf(w, "     rows: %v\n", tr.RowOrder)
			}
		case ReplayDiverged:
			fmt.Fprintf(w, "FAIL %s diverged at seq %d\n", tr.TableID, tr.DivergedAt)
		case ReplayDatasetChanged:
			fmt.Fprintf(w, "skip %s (recorded against another dataset)\n", tr.TableID)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Replay Summary: %d tables, %d skipped\n", result.TotalTables, result.SkippedChanged)

	if !result.AllMatch {
		return NewExitError(ExitFailure, "replay diverged")
	}
	fmt.Fprintln(w, "All replayed tables match their logs")
	return nil
}
