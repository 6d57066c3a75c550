package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/gridstate/internal/engine"
	"github.com/roach88/gridstate/internal/fixture"
	"github.com/roach88/gridstate/internal/ir"
	"github.com/roach88/gridstate/internal/store"
)

// session is a controller bound to its dataset and, optionally, to an
// event log.
type session struct {
	table      *fixture.Table
	controller *engine.Controller[ir.MapRecord]
	store      *store.Store // nil when the session is not persisted
	resumed    bool
}

// sessionConfig selects how a session is opened.
type sessionConfig struct {
	FixturePath string
	Database    string
	TableID     string
	Locale      string
	Mode        string
	Fuzzy       int // max edit distance for filter words; 0 disables
}

// loadFixture reads a fixture and maps its errors to exit codes.
func loadFixture(path string) (*fixture.Table, error) {
	tbl, err := fixture.Load(path)
	if err == nil {
		return tbl, nil
	}
	if fixture.IsLoadError(err, fixture.ErrCodeNotFound) {
		return nil, WrapExitError(ExitCommandError, "cannot load fixture", err)
	}
	return nil, WrapExitError(ExitFailure, "invalid fixture", err)
}

// openSession loads the fixture and builds the controller. With a
// database it resumes the stored session named by TableID, or registers a
// new one when no such session exists.
func openSession(ctx context.Context, cfg sessionConfig) (*session, error) {
	tbl, err := loadFixture(cfg.FixturePath)
	if err != nil {
		return nil, err
	}
	if cfg.Locale != "" {
		if _, err := engine.ParseLocale(cfg.Locale); err != nil {
			return nil, WrapExitError(ExitCommandError, "invalid --locale", err)
		}
		tbl.Locale = cfg.Locale
	}
	if cfg.Mode != "" {
		mode := engine.SelectionMode(cfg.Mode)
		if mode != engine.SelectionMultiple && mode != engine.SelectionSingle {
			return nil, NewExitError(ExitCommandError, fmt.Sprintf("invalid --mode %q: must be multiple or single", cfg.Mode))
		}
		tbl.SelectionMode = mode
	}

	logger := slog.Default()
	extra := []engine.Option{engine.WithLogger(logger)}
	if cfg.Fuzzy > 0 {
		extra = append(extra, engine.WithMatcher(engine.FuzzyMatcher(cfg.Fuzzy)))
	}
	opts := append(tbl.Options(), extra...)
	if cfg.TableID != "" {
		opts = append(opts, engine.WithTableID(cfg.TableID))
	}

	if cfg.Database == "" {
		return &session{table: tbl, controller: engine.New(tbl.Rows, tbl.Columns, opts...)}, nil
	}

	st, err := store.Open(cfg.Database)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "cannot open database", err)
	}
	sess := &session{table: tbl, store: st}

	if cfg.TableID != "" {
		if err := checkStoredSettings(ctx, st, cfg); err != nil {
			st.Close()
			return nil, err
		}
		c, steps, err := store.Restore(ctx, st, cfg.TableID, tbl.Rows, tbl.Columns, extra...)
		switch {
		case err == nil:
			for _, step := range steps {
				if !step.Match() {
					st.Close()
					return nil, NewExitError(ExitFailure, fmt.Sprintf("stored session %s diverges at seq %d", cfg.TableID, step.Seq))
				}
			}
			logger.Debug("session resumed", "table", cfg.TableID, "events", len(steps))
			sess.controller = c
			sess.resumed = true
			return sess, nil
		case errors.Is(err, store.ErrDatasetChanged):
			st.Close()
			return nil, WrapExitError(ExitFailure, "cannot resume session", err)
		case !errors.Is(err, store.ErrTableNotFound):
			st.Close()
			return nil, WrapExitError(ExitCommandError, "cannot resume session", err)
		}
	}

	sess.controller = engine.New(tbl.Rows, tbl.Columns, opts...)
	if err := store.CreateTable(ctx, st, sess.controller, tbl.Rows, tbl.Columns, tbl.LocaleTag(), tbl.Mode()); err != nil {
		st.Close()
		return nil, WrapExitError(ExitCommandError, "cannot register session", err)
	}
	logger.Debug("session created", "table", sess.controller.ID())
	return sess, nil
}

// checkStoredSettings rejects --locale and --mode values that differ from
// the ones the stored session was recorded under. A session that does not
// exist yet has nothing to conflict with.
func checkStoredSettings(ctx context.Context, st *store.Store, cfg sessionConfig) error {
	rec, err := st.ReadTable(ctx, cfg.TableID)
	if errors.Is(err, store.ErrTableNotFound) {
		return nil
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "cannot resume session", err)
	}
	if cfg.Locale != "" && cfg.Locale != rec.Locale {
		return NewExitError(ExitCommandError, fmt.Sprintf("--locale %q conflicts with stored session %s (locale %q)", cfg.Locale, rec.ID, rec.Locale))
	}
	if cfg.Mode != "" && engine.SelectionMode(cfg.Mode) != rec.SelectionMode {
		return NewExitError(ExitCommandError, fmt.Sprintf("--mode %q conflicts with stored session %s (mode %q)", cfg.Mode, rec.ID, rec.SelectionMode))
	}
	return nil
}

// apply dispatches ev and appends it to the log when one is attached.
// ignored is non-nil when the controller treated ev as a no-op.
func (s *session) apply(ctx context.Context, ev engine.Event) (snap engine.Snapshot, ignored *engine.EventError, err error) {
	snap, evErr := s.controller.Apply(ev)
	if evErr != nil && !errors.As(evErr, &ignored) {
		return snap, nil, evErr
	}
	if s.store != nil {
		if err := s.store.RecordEvent(ctx, ev, snap); err != nil {
			return snap, ignored, WrapExitError(ExitCommandError, "cannot record event", err)
		}
	}
	return snap, ignored, nil
}

func (s *session) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}
