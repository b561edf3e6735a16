package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/scriptvec/internal/store"
)

// LedgerOptions holds flags shared by the ledger commands.
type LedgerOptions struct {
	*RootOptions
	Database string
}

// openLedger opens an existing ledger. Unlike compile, reading commands
// never create one.
func (o *LedgerOptions) openLedger() (*store.Store, error) {
	if !fileExists(o.Database) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("ledger not found: %s", o.Database), Path: o.Database}
	}
	st, err := store.Open(o.Database)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeLedger, Message: err.Error(), Path: o.Database, Err: err}
	}
	return st, nil
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LedgerOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List compile runs recorded in a ledger",
		Long: `List the compile runs recorded with compile --db, oldest first.

Example:
  scriptvec history --db ledger.db
  scriptvec history --db ledger.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite ledger (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *LedgerOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	st, err := opts.openLedger()
	if err != nil {
		return formatter.Fail(ExitCommandError, err)
	}
	defer st.Close()

	runs, err := st.ListRuns(cmd.Context())
	if err != nil {
		return formatter.Fail(ExitCommandError, &LoadError{Code: ErrCodeLedger, Message: err.Error(), Path: opts.Database, Err: err})
	}

	if formatter.Format == "json" {
		if runs == nil {
			runs = []store.Run{}
		}
		return formatter.Success(runs)
	}

	w := formatter.Writer
	if len(runs) == 0 {
		fmt.Fprintf(w, "No runs recorded in %s\n", opts.Database)
		return nil
	}
	fmt.Fprintf(w, "%d run(s) in %s\n\n", len(runs), opts.Database)
	for _, r := range runs {
		fmt.Fprintf(w, "  [%d] %s  %s  %s\n", r.Seq, truncateID(r.ID), r.CreatedAt.Format("2006-01-02 15:04:05"), r.CorpusPath)
		fmt.Fprintf(w, "       Processed: %d  Excluded: %d  Overridden: %d  Diagnostics: %d\n",
			r.Processed, r.Excluded, r.Overridden, r.Diagnostics)
		fmt.Fprintf(w, "       Corpus: %s\n", truncateID(r.CorpusHash))
	}
	return nil
}

// truncateID shortens an ID for display.
func truncateID(id string) string {
	if len(id) > 12 {
		return id[:12] + "..."
	}
	return id
}
