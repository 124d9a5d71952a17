package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/roach88/provgraph/internal/compiler"
	"github.com/roach88/provgraph/internal/ontology"
	"github.com/roach88/provgraph/internal/schema"
	"github.com/roach88/provgraph/internal/store"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Glob        string // doublestar pattern of extra ontology sources
	KeyOrder    string // key-order override table
	Names       string // naming override table
	Profile     string // usage profile table
	ProfileOnly bool   // drop records left unused by the profile
	Lang        string // preferred label language
	Output      string // output file path
	Database    string // store to record the schema version in
	Label       string // label of the stored schema version
}

// CompileSummary is the result of a successful compile.
type CompileSummary struct {
	Classes    int                         `json:"classes"`
	Properties int                         `json:"properties"`
	Hash       string                      `json:"hash"`
	Output     string                      `json:"output,omitempty"`
	Seq        int64                       `json:"seq,omitempty"`
	Warnings   []compiler.HierarchyWarning `json:"warnings,omitempty"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile [ontology...]",
		Short: "Compile ontology sources to a schema table",
		Long: `Compile RDF/XML, Turtle or N-Triples ontology sources into the
canonical tab-separated schema table.

Override tables adjust key order, short names and the usage profile.
Without --output the table is written to stdout.

Examples:
  provgraph compile cidoc.rdf linkedart.ttl -o schema.tsv
  provgraph compile --glob "ontologies/**/*.ttl" --profile profile.yaml
  provgraph compile cidoc.rdf --db provgraph.db --label v7.1`,
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Glob, "glob", "", "doublestar pattern of ontology sources")
	cmd.Flags().StringVar(&opts.KeyOrder, "key-order", "", "key order override table")
	cmd.Flags().StringVar(&opts.Names, "names", "", "short name override table")
	cmd.Flags().StringVar(&opts.Profile, "profile", "", "usage profile table")
	cmd.Flags().BoolVar(&opts.ProfileOnly, "profile-only", false, "drop terms the profile leaves unused")
	cmd.Flags().StringVar(&opts.Lang, "lang", "en", "preferred label language")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the schema version in this SQLite store")
	cmd.Flags().StringVar(&opts.Label, "label", "", "label of the stored schema version")

	return cmd
}

func runCompile(opts *CompileOptions, sources []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	logger := opts.logger(cmd.ErrOrStderr())

	if len(sources) == 0 && opts.Glob == "" {
		return outputCompileError(formatter, ErrCodeNotFound, "no ontology sources: pass files or --glob", nil)
	}

	g, err := readSources(opts, sources)
	if err != nil {
		return outputCompileError(formatter, ErrCodeNotFound, err.Error(), nil)
	}
	formatter.VerboseLog("Read %d term(s) from %d source(s)", g.Len(), len(sources))
	for _, uri := range g.Undeclared() {
		logger.Debug("referenced term is never declared", "uri", uri)
	}

	ov, err := compiler.LoadOverrides(opts.KeyOrder, opts.Names, opts.Profile)
	if err != nil {
		var ce *compiler.CompileError
		if errors.As(err, &ce) {
			return outputCompileErrors(formatter, compiler.CompileErrors{ce})
		}
		return outputCompileError(formatter, ErrCodeNotFound, err.Error(), nil)
	}

	records, err := compiler.CompileWithOptions(g, ov, compiler.CompileOptions{ProfileOnly: opts.ProfileOnly})
	if err != nil {
		var ces compiler.CompileErrors
		if errors.As(err, &ces) {
			return outputCompileErrors(formatter, ces)
		}
		return outputCompileError(formatter, ErrCodeGeneric, err.Error(), nil)
	}

	ns := schema.DefaultNamespaces()
	table, err := schema.MarshalTable(records, ns)
	if err != nil {
		return outputCompileError(formatter, ErrCodeGeneric, err.Error(), nil)
	}

	summary := CompileSummary{
		Hash:     schema.HashBytes(table),
		Output:   opts.Output,
		Warnings: compiler.AnalyzeHierarchy(records),
	}
	for _, r := range records {
		if r.IsClass() {
			summary.Classes++
		} else {
			summary.Properties++
		}
	}
	for _, w := range summary.Warnings {
		logger.Warn("hierarchy", "level", w.Level, "message", w.Message, "path", strings.Join(w.Path, " -> "))
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, table, 0644); err != nil {
			return outputCompileError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
		}
	}

	if opts.Database != "" {
		label := opts.Label
		if label == "" {
			label = strings.TrimSpace(strings.Join(sources, " ") + " " + opts.Glob)
		}
		version, err := saveSchema(cmd.Context(), opts.Database, records, ns, label)
		if err != nil {
			return outputCompileError(formatter, ErrCodeStore, err.Error(), nil)
		}
		summary.Seq = version.Seq
		logger.Info("schema version stored", "db", opts.Database, "hash", version.Hash, "seq", version.Seq)
	}

	return outputCompileSuccess(formatter, summary, table)
}

// readSources reads the positional sources and the --glob matches into one
// graph, so declarations may span files.
func readSources(opts *CompileOptions, sources []string) (*ontology.Graph, error) {
	readOpts := []ontology.Option{ontology.WithLanguage(opts.Lang)}
	if len(sources) == 0 {
		return ontology.ReadGlob(opts.Glob, readOpts...)
	}

	paths := slices.Clone(sources)
	if opts.Glob != "" {
		matched, err := doublestar.FilepathGlob(opts.Glob)
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", opts.Glob, err)
		}
		if len(matched) == 0 {
			return nil, fmt.Errorf("glob %q matched no files", opts.Glob)
		}
		slices.Sort(matched)
		paths = append(paths, matched...)
	}
	return ontology.ReadFiles(paths, readOpts...)
}

func saveSchema(ctx context.Context, path string, records []schema.Record, ns *schema.Namespaces, label string) (store.SchemaVersion, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	st, err := store.Open(path)
	if err != nil {
		return store.SchemaVersion{}, err
	}
	defer st.Close()
	return st.SaveSchema(ctx, records, ns, label)
}

// outputCompileSuccess outputs successful compilation results. In text
// mode without --output the table itself is the output.
func outputCompileSuccess(formatter *OutputFormatter, summary CompileSummary, table []byte) error {
	if formatter.Format == "json" {
		return formatter.Success(summary)
	}

	if summary.Output == "" {
		_, err := formatter.Writer.Write(table)
		return err
	}

	fmt.Fprintf(formatter.Writer, "✓ Compiled %d class(es), %d propert(ies)\n",
		summary.Classes, summary.Properties)
	fmt.Fprintf(formatter.Writer, "Wrote schema table to %s\n", summary.Output)
	fmt.Fprintf(formatter.Writer, "Schema hash: %s\n", summary.Hash)
	if summary.Seq > 0 {
		fmt.Fprintf(formatter.Writer, "Stored as schema version %d\n", summary.Seq)
	}
	for _, w := range summary.Warnings {
		fmt.Fprintf(formatter.Writer, "  %s: %s\n", w.Level, w.Message)
	}
	return nil
}

// outputCompileError outputs a single compilation error.
func outputCompileError(formatter *OutputFormatter, code, message string, details any) error {
	_ = formatter.Error(code, message, details)
	// Compilation errors are command-level errors (exit code 2)
	return WrapExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message), nil)
}

// outputCompileErrors outputs every collected compile error.
func outputCompileErrors(formatter *OutputFormatter, errs compiler.CompileErrors) error {
	if formatter.Format == "json" {
		cliErrors := make([]CLIError, len(errs))
		for i, err := range errs {
			cliErrors[i] = CLIError{
				Code:    err.Code,
				Message: err.Message,
				Details: err.URI,
			}
		}

		response := CLIResponse{
			Status: "error",
			Error:  &cliErrors[0],
			Data:   cliErrors, // Include all errors in data
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		return NewExitError(ExitCommandError, fmt.Sprintf("compilation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Compilation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		if err.URI != "" {
			fmt.Fprintln(formatter.Writer, err.URI)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", err.Code, err.Message)
	}

	return NewExitError(ExitCommandError, fmt.Sprintf("compilation failed with %d error(s)", len(errs)))
}
