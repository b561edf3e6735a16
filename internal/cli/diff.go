package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/scriptvec/internal/store"
)

// NewDiffCommand creates the diff command.
func NewDiffCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LedgerOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "diff <run-a> <run-b>",
		Short: "Compare the vectors of two recorded runs",
		Long: `Compare the compiled vectors of two runs recorded in a ledger.

Runs are named by ID or by a unique ID prefix. Vectors are compared by
content address: added vectors exist only in run-b, removed ones only in
run-a. Exits 1 when the runs differ.

Example:
  scriptvec diff --db ledger.db 0192f3a1 0192f3b7`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite ledger (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runDiff(opts *LedgerOptions, refA, refB string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	st, err := opts.openLedger()
	if err != nil {
		return formatter.Fail(ExitCommandError, err)
	}
	defer st.Close()

	ctx := cmd.Context()
	var ids [2]string
	for i, ref := range []string{refA, refB} {
		run, err := st.ResolveRun(ctx, ref)
		if err != nil {
			return formatter.Fail(ExitCommandError, runLookupError(opts.Database, err))
		}
		ids[i] = run.ID
	}

	d, err := st.DiffRuns(ctx, ids[0], ids[1])
	if err != nil {
		return formatter.Fail(ExitCommandError, &LoadError{Code: ErrCodeLedger, Message: err.Error(), Path: opts.Database, Err: err})
	}

	if err := outputDiff(formatter, d); err != nil {
		return err
	}
	if d.Changed() {
		return NewExitError(ExitFailure, fmt.Sprintf("runs differ: %d added, %d removed", len(d.Added), len(d.Removed)))
	}
	return nil
}

func runLookupError(db string, err error) error {
	code := ErrCodeLedger
	switch {
	case errors.Is(err, store.ErrRunNotFound):
		code = ErrCodeRunNotFound
	case errors.Is(err, store.ErrAmbiguousRun):
		code = ErrCodeAmbiguousRun
	}
	return &LoadError{Code: code, Message: err.Error(), Path: db, Err: err}
}

func outputDiff(formatter *OutputFormatter, d store.Diff) error {
	if formatter.Format == "json" {
		return formatter.Success(d)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "Diff %s..%s\n", truncateID(d.From), truncateID(d.To))
	for _, id := range d.Removed {
		fmt.Fprintf(w, "- %s\n", id)
	}
	for _, id := range d.Added {
		fmt.Fprintf(w, "+ %s\n", id)
	}
	fmt.Fprintf(w, "%d added, %d removed, %d unchanged\n", len(d.Added), len(d.Removed), d.Unchanged)
	return nil
}
