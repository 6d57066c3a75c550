// gridstate is the command-line front end of the gridstate table engine.
//
// It loads a dataset fixture, applies table events (sort, filter, select,
// expand), prints the resulting state, and records sessions in a SQLite
// event log that can be replayed and inspected later.
//
// Usage:
//
//	gridstate view <fixture> [event...] [--db path --table-id id]
//	gridstate replay <fixture> --db path [--table-id id]
//	gridstate log --db path [--table-id id]
//	gridstate validate <file>...
//	gridstate test <scenarios-dir> [--update] [--filter glob]
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/roach88/gridstate/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := cli.NewRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(cli.GetExitCode(err))
	}
}
