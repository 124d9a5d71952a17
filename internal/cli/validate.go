package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/provgraph/internal/compiler"
	"github.com/roach88/provgraph/internal/extension"
	"github.com/roach88/provgraph/internal/registry"
	"github.com/roach88/provgraph/internal/schema"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Extensions []string // CUE extension files or directories
	Builtins   []string // built-in extension sets
	Strict     bool     // dangling references and cycles fail validation
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid      bool                        `json:"valid"`
	Hash       string                      `json:"hash"`
	Classes    int                         `json:"classes"`
	Properties int                         `json:"properties"`
	Unused     int                         `json:"unused"`
	Dangling   []string                    `json:"dangling,omitempty"`
	Warnings   []compiler.HierarchyWarning `json:"warnings,omitempty"`
	Errors     []string                    `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <table.tsv>",
		Short: "Validate a schema table and its extensions",
		Long: `Load a compiled schema table into a registry, apply extensions,
and report its classes, properties and dangling references.

Dangling domains, ranges and parents are treated as unconstrained and
hierarchy cycles are reported as warnings; with --strict both fail
validation.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Extensions, "extensions", nil, "CUE extension file or directory (repeatable)")
	cmd.Flags().StringSliceVar(&opts.Builtins, "builtin", nil, fmt.Sprintf("built-in extension set %v (repeatable)", extension.BuiltinNames()))
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "fail on dangling references and hierarchy cycles")

	return cmd
}

func runValidate(opts *ValidateOptions, tablePath string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	logger := opts.logger(cmd.ErrOrStderr())

	f, err := os.Open(tablePath)
	if err != nil {
		return outputValidateError(formatter, ExitCommandError, ErrCodeNotFound, fmt.Sprintf("schema table not found: %s", tablePath))
	}
	defer f.Close()

	ns := schema.DefaultNamespaces()
	records, err := schema.ReadTable(f, ns)
	if err != nil {
		var te *schema.TableError
		if errors.As(err, &te) {
			return outputValidateError(formatter, ExitFailure, ErrCodeTable, fmt.Sprintf("%s:%d: %s", tablePath, te.Line, te.Msg))
		}
		return outputValidateError(formatter, ExitFailure, ErrCodeTable, err.Error())
	}
	formatter.VerboseLog("Read %d record(s) from %s", len(records), tablePath)

	reg, err := registry.Load(records, registry.WithNamespaces(ns), registry.WithLogger(logger))
	if err != nil {
		return outputValidateError(formatter, ExitFailure, ErrCodeTable, err.Error())
	}

	defs, err := loadExtensions(opts)
	if err != nil {
		return outputValidateError(formatter, ExitFailure, ErrCodeExtension, err.Error())
	}
	if err := extension.Apply(reg, defs); err != nil {
		return outputValidateError(formatter, ExitFailure, ErrCodeExtension, err.Error())
	}

	hash, err := schema.Hash(records, ns)
	if err != nil {
		return outputValidateError(formatter, ExitFailure, ErrCodeTable, err.Error())
	}

	result := ValidationResult{
		Valid:      true,
		Hash:       hash,
		Classes:    len(reg.Classes()),
		Properties: len(reg.Properties()),
		Dangling:   reg.Dangling(),
		Warnings:   compiler.AnalyzeHierarchy(records),
	}
	for _, r := range records {
		if r.Usage == schema.UsageUnused {
			result.Unused++
		}
	}
	if opts.Strict {
		for _, w := range result.Warnings {
			if w.Level == "warning" {
				result.Errors = append(result.Errors, w.Message)
			}
		}
		for _, uri := range result.Dangling {
			result.Errors = append(result.Errors, "dangling reference "+uri)
		}
	}
	result.Valid = len(result.Errors) == 0

	return outputValidateResult(formatter, result)
}

// loadExtensions merges built-in sets and CUE files in flag order.
func loadExtensions(opts *ValidateOptions) (extension.Definitions, error) {
	var defs extension.Definitions
	for _, name := range opts.Builtins {
		d, ok := extension.Builtin(name)
		if !ok {
			return defs, fmt.Errorf("unknown built-in extension %q (known: %v)", name, extension.BuiltinNames())
		}
		defs = defs.Merge(d)
	}
	for _, path := range opts.Extensions {
		d, err := extension.Load(path)
		if err != nil {
			return defs, err
		}
		defs = defs.Merge(d)
	}
	return defs, nil
}

// outputValidateResult outputs the validation report.
func outputValidateResult(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		w := formatter.Writer
		mark := "✓"
		if !result.Valid {
			mark = "✗"
		}
		fmt.Fprintf(w, "%s %d class(es), %d propert(ies), %d unused record(s)\n",
			mark, result.Classes, result.Properties, result.Unused)
		fmt.Fprintf(w, "Schema hash: %s\n", result.Hash)
		if len(result.Dangling) > 0 {
			fmt.Fprintln(w, "Dangling references:")
			for _, uri := range result.Dangling {
				fmt.Fprintf(w, "  %s\n", uri)
			}
		}
		for _, hw := range result.Warnings {
			fmt.Fprintf(w, "  %s: %s\n", hw.Level, hw.Message)
		}
		for _, e := range result.Errors {
			fmt.Fprintf(w, "  error: %s\n", e)
		}
	}

	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(result.Errors)))
	}
	return nil
}

// outputValidateError outputs a validation error and returns an exit
// error with the given code.
func outputValidateError(formatter *OutputFormatter, exitCode int, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return WrapExitError(exitCode, fmt.Sprintf("%s: %s", code, message), nil)
}
