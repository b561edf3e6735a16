package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/scriptvec/internal/compiler"
	"github.com/roach88/scriptvec/internal/emit"
	"github.com/roach88/scriptvec/internal/ir"
	"github.com/roach88/scriptvec/internal/store"
)

// HeaderFile is the name of the fixture written under --output-dir.
const HeaderFile = "script_tests.hpp"

// maxListedDiagnostics bounds the diagnostics printed in text mode.
const maxListedDiagnostics = 10

// Default C++ namespaces of the generated fixture.
const (
	DefaultForkNamespace  = "kth::domain::machine"
	DefaultErrorNamespace = "kth::error"
	forkEnumName          = "rule_fork"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Overrides      string
	OutputDir      string
	ReplaceInFile  string
	JSONOut        string
	ChunkSize      int
	Workers        int
	DB             string
	Config         string
	ForkNamespace  string
	ErrorNamespace string
}

// CompileOutput is the data of a successful compile.
type CompileOutput struct {
	Corpus      string           `json:"corpus"`
	Summary     compiler.Summary `json:"summary"`
	Diagnostics []ir.Diagnostic  `json:"diagnostics"`
	Skipped     []ir.SkipRecord  `json:"skipped,omitempty"`
	Written     []string         `json:"written,omitempty"`
	RunID       string           `json:"run_id,omitempty"`
}

// artifact is one rendered output waiting to be written.
type artifact struct {
	path   string
	data   []byte
	splice bool
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile [corpus.json]",
		Short: "Compile a script test corpus into fixtures",
		Long: `Compile a JSON script test corpus into a C++ fixture header.

Every row is classified, its flags resolved to a fork rule, its expected
result mapped to an outcome code and its scripts normalized. Overrides and
skips from --overrides are applied before the fixture is rendered.

Nothing is written when the corpus, the overrides or the splice target
cannot be used. Diagnostics do not stop the compile; they set exit code 1.

Example:
  scriptvec compile script_tests.json --output-dir ./include
  scriptvec compile script_tests.json --overrides overrides.yaml \
    --replace-in-file test/script.cpp --db ledger.db`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			corpus := ""
			if len(args) == 1 {
				corpus = args[0]
			}
			return runCompile(opts, corpus, cmd)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.Overrides, "overrides", "", "override document (.json, .yaml or .cue)")
	f.StringVarP(&opts.OutputDir, "output-dir", "o", "", "directory to write "+HeaderFile+" into")
	f.StringVar(&opts.ReplaceInFile, "replace-in-file", "", "splice the vector arrays between the markers of this file")
	f.StringVar(&opts.JSONOut, "json-out", "", "write the canonical JSON fixture to this path")
	f.IntVar(&opts.ChunkSize, "chunk-size", emit.DefaultChunkSize, "vectors per generated array")
	f.IntVar(&opts.Workers, "workers", 1, "concurrent per-vector workers")
	f.StringVar(&opts.DB, "db", "", "record the run in this SQLite ledger")
	f.StringVar(&opts.Config, "config", "", "project file (default "+DefaultConfigFile+" when present)")
	f.StringVar(&opts.ForkNamespace, "fork-namespace", DefaultForkNamespace, "C++ namespace of the "+forkEnumName+" enum")
	f.StringVar(&opts.ErrorNamespace, "error-namespace", DefaultErrorNamespace, "C++ namespace of the error code enum")

	return cmd
}

func runCompile(opts *CompileOptions, corpusPath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	cfg, cfgPath, err := findConfig(opts.Config)
	if err != nil {
		return formatter.Fail(ExitCommandError, err)
	}
	cfg.apply(opts, cmd.Flags().Changed)
	if corpusPath == "" && cfg != nil {
		corpusPath = cfg.Corpus
	}
	if err := checkCompileArgs(opts, corpusPath); err != nil {
		return formatter.Fail(ExitCommandError, err)
	}
	if cfgPath != "" {
		formatter.VerboseLog("Using config %s", cfgPath)
	}

	logger := newLogger(formatter.GetErrWriter(), opts.Verbose)
	defer func() { _ = logger.Sync() }()

	corpus, raw, err := LoadCorpus(corpusPath)
	if err != nil {
		return formatter.Fail(ExitCommandError, err)
	}
	logger.Debug("Loaded corpus",
		zap.String("path", corpusPath),
		zap.Int("rows", corpus.Rows),
		zap.Int("candidates", len(corpus.Vectors)))

	table, err := BuildOverrides(opts.Overrides)
	if err != nil {
		return formatter.Fail(ExitCommandError, err)
	}
	if table != nil {
		logger.Debug("Loaded overrides",
			zap.String("path", opts.Overrides),
			zap.Int("overrides", table.Overrides()),
			zap.Int("skips", table.Skips()))
	}

	res, err := compiler.Compile(corpus, table, compiler.Options{Workers: opts.Workers, Logger: logger})
	if err != nil {
		return formatter.Fail(ExitCommandError, err)
	}

	artifacts, err := renderArtifacts(opts, corpusPath, res)
	if err != nil {
		return formatter.Fail(ExitCommandError, err)
	}

	var ledger *store.Store
	if opts.DB != "" {
		ledger, err = store.Open(opts.DB)
		if err != nil {
			return formatter.Fail(ExitCommandError, &LoadError{Code: ErrCodeLedger, Message: err.Error(), Path: opts.DB, Err: err})
		}
		defer ledger.Close()
	}

	out := CompileOutput{
		Corpus:      corpusPath,
		Summary:     res.Report.Summary(),
		Diagnostics: res.Report.Diagnostics,
		Skipped:     res.Report.Skipped,
	}
	for _, a := range artifacts {
		if err := writeArtifact(a); err != nil {
			return formatter.Fail(ExitCommandError, err)
		}
		logger.Debug("Wrote artifact", zap.String("path", a.path), zap.Int("bytes", len(a.data)))
		out.Written = append(out.Written, a.path)
	}

	if ledger != nil {
		run := store.NewRun(corpusPath, opts.Overrides, raw, opts.ChunkSize, res)
		run, err = ledger.WriteRun(cmd.Context(), run, res.Vectors, res.Report.Diagnostics)
		if err != nil {
			return formatter.Fail(ExitCommandError, &LoadError{Code: ErrCodeLedger, Message: err.Error(), Path: opts.DB, Err: err})
		}
		logger.Debug("Recorded run", zap.String("id", run.ID), zap.Int64("seq", run.Seq))
		out.RunID = run.ID
	}

	if err := outputCompileSuccess(formatter, out, opts.DB); err != nil {
		return err
	}
	if !res.Report.Clean() {
		return NewExitError(ExitFailure, fmt.Sprintf("compiled with %d diagnostic(s)", len(res.Report.Diagnostics)))
	}
	return nil
}

func checkCompileArgs(opts *CompileOptions, corpusPath string) error {
	invalid := func(format string, args ...any) error {
		return &LoadError{Code: ErrCodeInvalidArgs, Message: fmt.Sprintf(format, args...)}
	}
	switch {
	case corpusPath == "":
		return invalid("no corpus given: pass <corpus.json> or set corpus in %s", DefaultConfigFile)
	case opts.ChunkSize <= 0:
		return invalid("--chunk-size must be positive, got %d", opts.ChunkSize)
	case opts.Workers < 0:
		return invalid("--workers must not be negative, got %d", opts.Workers)
	}
	return nil
}

// emitOptions maps the command flags onto the renderer.
func (o *CompileOptions) emitOptions(corpusPath string) emit.Options {
	opts := emit.DefaultOptions()
	opts.ChunkSize = o.ChunkSize
	opts.Source = filepath.Base(corpusPath)
	if o.ForkNamespace != "" {
		opts.ForkEnum = o.ForkNamespace + "::" + forkEnumName
	}
	if o.ErrorNamespace != "" {
		opts.ErrorNamespace = o.ErrorNamespace
	}
	return opts
}

// renderArtifacts renders every requested output in memory and checks
// the splice target, so a failure here leaves the filesystem untouched.
func renderArtifacts(opts *CompileOptions, corpusPath string, res *compiler.Result) ([]artifact, error) {
	eopts := opts.emitOptions(corpusPath)
	var artifacts []artifact

	if opts.OutputDir != "" {
		var buf bytes.Buffer
		if err := emit.WriteHeader(&buf, res, eopts); err != nil {
			return nil, fmt.Errorf("rendering header: %w", err)
		}
		artifacts = append(artifacts, artifact{path: filepath.Join(opts.OutputDir, HeaderFile), data: buf.Bytes()})
	}

	if opts.ReplaceInFile != "" {
		var buf bytes.Buffer
		if err := emit.WriteArrays(&buf, res, eopts); err != nil {
			return nil, fmt.Errorf("rendering arrays: %w", err)
		}
		content, err := readInput(opts.ReplaceInFile, "splice target")
		if err != nil {
			return nil, err
		}
		if _, err := emit.Splice(content, buf.Bytes()); err != nil {
			return nil, markerError(opts.ReplaceInFile, err)
		}
		artifacts = append(artifacts, artifact{path: opts.ReplaceInFile, data: buf.Bytes(), splice: true})
	}

	if opts.JSONOut != "" {
		var buf bytes.Buffer
		if err := emit.WriteJSON(&buf, res, eopts); err != nil {
			return nil, fmt.Errorf("rendering JSON fixture: %w", err)
		}
		artifacts = append(artifacts, artifact{path: opts.JSONOut, data: buf.Bytes()})
	}

	return artifacts, nil
}

func writeArtifact(a artifact) error {
	var err error
	if a.splice {
		err = emit.SpliceFile(a.path, a.data)
	} else {
		err = emit.WriteFile(a.path, a.data)
	}
	if err != nil {
		return &LoadError{Code: ErrCodeWriteFailed, Message: fmt.Sprintf("writing %s: %v", a.path, err), Path: a.path, Err: err}
	}
	return nil
}

// outputCompileSuccess prints the compile summary.
func outputCompileSuccess(formatter *OutputFormatter, out CompileOutput, db string) error {
	if formatter.Format == "json" {
		if out.Diagnostics == nil {
			out.Diagnostics = []ir.Diagnostic{}
		}
		return formatter.Success(out)
	}

	w := formatter.Writer
	s := out.Summary
	mark := "✓"
	if !s.Clean {
		mark = "⚠"
	}
	fmt.Fprintf(w, "%s Compiled %d vector(s) from %s\n", mark, s.Processed, out.Corpus)
	fmt.Fprintf(w, "  Rows: %d  Processed: %d  Excluded: %d  Overridden: %d  Diagnostics: %d\n",
		s.Rows, s.Processed, s.Excluded, s.Overridden, s.Diagnostics)

	if len(out.Diagnostics) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Diagnostics:")
		for _, d := range out.Diagnostics[:min(len(out.Diagnostics), maxListedDiagnostics)] {
			fmt.Fprintf(w, "  row %d: %s\n", d.Row, d.Message)
		}
		if extra := len(out.Diagnostics) - maxListedDiagnostics; extra > 0 {
			fmt.Fprintf(w, "  ... and %d more\n", extra)
		}
	}

	if len(out.Skipped) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Skipped:")
		for _, sk := range out.Skipped {
			fmt.Fprintf(w, "  row %d: %s\n", sk.Row, sk.Reason)
		}
	}

	if len(out.Written) > 0 || out.RunID != "" {
		fmt.Fprintln(w)
	}
	for _, path := range out.Written {
		fmt.Fprintf(w, "Wrote %s\n", path)
	}
	if out.RunID != "" {
		fmt.Fprintf(w, "Recorded run %s in %s\n", out.RunID, db)
	}
	return nil
}

// fileExists reports whether path names an existing file.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
