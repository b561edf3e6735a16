package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/scriptvec/internal/override"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Path      string                     `json:"path"`
	Valid     bool                       `json:"valid"`
	Overrides int                        `json:"overrides"`
	Skips     int                        `json:"skips"`
	Errors    []override.ValidationError `json:"errors,omitempty"`
}

// fatalCount counts the errors that would stop a compile.
func (r ValidationResult) fatalCount() int {
	n := 0
	for _, e := range r.Errors {
		if e.Fatal() {
			n++
		}
	}
	return n
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <overrides-file>",
		Short: "Check an override document without compiling",
		Long: `Load an override document and check it without compiling a corpus.

Reports entries that cannot have their intended effect (empty overrides and
skip pairs, unknown flags in key_fork or fork, unknown outcome labels) and the
key conflicts that would make compile fail.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	spec, err := LoadOverrides(path)
	if err != nil {
		return formatter.Fail(ExitCommandError, err)
	}
	formatter.VerboseLog("Loaded %d override(s) and %d skip(s) from %s",
		len(spec.Overrides), len(spec.Skips), path)

	result := ValidationResult{
		Path:      path,
		Overrides: len(spec.Overrides),
		Skips:     len(spec.Skips),
		Errors:    override.Validate(spec),
	}
	result.Valid = len(result.Errors) == 0

	if result.Valid {
		return outputValidateSuccess(formatter, result)
	}
	return outputValidationErrors(formatter, result)
}

func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "✓ %s: %d override(s), %d skip(s)\n",
		result.Path, result.Overrides, result.Skips)
	return nil
}

// outputValidationErrors prints every error. Validation errors exit 1;
// conflicts are reported the same way but flagged as fatal.
func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	msg := fmt.Sprintf("validation failed with %d error(s)", len(result.Errors))
	if formatter.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
		return NewExitError(ExitFailure, msg)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "✗ %s: validation failed\n\n", result.Path)
	for _, e := range result.Errors {
		suffix := ""
		if e.Fatal() {
			suffix = " (fatal)"
		}
		fmt.Fprintf(w, "  %s: %s: %s%s\n", e.Code, e.Field, e.Message, suffix)
	}
	if n := result.fatalCount(); n > 0 {
		fmt.Fprintf(w, "\n%d conflict(s) would stop compile\n", n)
	}
	return NewExitError(ExitFailure, msg)
}
