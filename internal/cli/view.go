package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/roach88/gridstate/internal/engine"
)

// ViewOptions holds flags for the view command.
type ViewOptions struct {
	*RootOptions
	Database string
	TableID  string
	Locale   string
	Mode     string
	Fuzzy    int
}

// IgnoredEvent is an event the controller treated as a no-op.
type IgnoredEvent struct {
	Event   string `json:"event"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ViewResult is the output of the view command.
type ViewResult struct {
	Snapshot engine.Snapshot `json:"snapshot"`
	Resumed  bool            `json:"resumed"`
	Ignored  []IgnoredEvent  `json:"ignored,omitempty"`
}

// RenderText renders the result for text output.
func (r ViewResult) RenderText(lr *lipgloss.Renderer) string {
	var b strings.Builder
	b.WriteString(renderSnapshot(lr, r.Snapshot))
	for _, ig := range r.Ignored {
		fmt.Fprintf(&b, "\nignored %s: %s", ig.Event, ig.Message)
	}
	return b.String()
}

// NewViewCommand creates the view command.
func NewViewCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ViewOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "view <fixture> [event...]",
		Short: "Apply events to a dataset and print the table",
		Long: `Load a fixture (YAML, JSON or CUE), dispatch the given events in order
and print the resulting table state.

Events:
  sort:<column>       cycle the sort of a column (DESC, ASC, NONE)
  filter:<text>       set the filter query ("filter:" clears it)
  toggle_row:<id>     toggle the selection of a row
  toggle_all          select all rows, or clear when all are selected
  cancel_batch        clear the selection and hide batch actions
  toggle_expand:<id>  toggle the expansion of a row
  toggle_expand_all   expand all rows, or collapse when all are expanded

With --db, the events are appended to an event log. Passing the same
--table-id again resumes the stored session before applying new events.
The --fuzzy setting is not stored; resume a session with the value it was
recorded with.

Examples:
  gridstate view fruits.yaml sort:name
  gridstate view fruits.yaml sort:name filter:an toggle_row:a
  gridstate view fruits.yaml --db grid.db --table-id t1 toggle_all`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd.Context(), opts, args[0], args[1:], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "event log database (optional)")
	cmd.Flags().StringVar(&opts.TableID, "table-id", "", "table id to create or resume")
	cmd.Flags().StringVar(&opts.Locale, "locale", "", "collation locale, overrides the fixture (BCP 47)")
	cmd.Flags().StringVar(&opts.Mode, "mode", "", "selection mode, overrides the fixture (multiple|single)")
	cmd.Flags().IntVar(&opts.Fuzzy, "fuzzy", 0, "also match filter words within this many edits")

	return cmd
}

func runView(ctx context.Context, opts *ViewOptions, fixturePath string, tokens []string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Fuzzy < 0 {
		return NewExitError(ExitCommandError, "--fuzzy must not be negative")
	}
	f := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	events, err := ParseEventTokens(tokens)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid event", err)
	}

	sess, err := openSession(ctx, sessionConfig{
		FixturePath: fixturePath,
		Database:    opts.Database,
		TableID:     opts.TableID,
		Locale:      opts.Locale,
		Mode:        opts.Mode,
		Fuzzy:       opts.Fuzzy,
	})
	if err != nil {
		return err
	}
	defer sess.Close()

	result := ViewResult{Snapshot: sess.controller.Snapshot(), Resumed: sess.resumed}
	for _, ev := range events {
		snap, ignored, err := sess.apply(ctx, ev)
		if err != nil {
			return err
		}
		if ignored != nil {
			slog.Warn("event ignored", "event", string(ev.Type), "code", string(ignored.Code), "target", ignored.Target)
			result.Ignored = append(result.Ignored, IgnoredEvent{
				Event:   string(ev.Type),
				Code:    string(ignored.Code),
				Message: ignored.Error(),
			})
		}
		result.Snapshot = snap
	}

	f.VerboseLog("table %s at revision %d (%d events applied)", result.Snapshot.TableID, result.Snapshot.Revision, len(events))
	return f.Success(result)
}
