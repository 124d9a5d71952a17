package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/provgraph/internal/store"
)

// SchemasOptions holds flags for the schemas command.
type SchemasOptions struct {
	*RootOptions
	Database string // path to the SQLite store
}

// SchemaSummary describes one stored schema version.
type SchemaSummary struct {
	Hash      string `json:"hash"`
	Seq       int64  `json:"seq"`
	Label     string `json:"label,omitempty"`
	Records   int    `json:"records"`
	Documents int    `json:"documents"`
}

// NewSchemasCommand creates the schemas command.
func NewSchemasCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SchemasOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "schemas",
		Short: "List stored schema versions",
		Long: `List the schema versions recorded in a store, oldest first, with the
number of documents built against each.

Examples:
  provgraph schemas --db provgraph.db
  provgraph schemas --db provgraph.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchemas(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the SQLite store (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runSchemas(opts *SchemasOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	if _, err := os.Stat(opts.Database); err != nil {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("database not found: %s", opts.Database), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("database not found: %s", opts.Database))
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	versions, err := st.ListSchemas(ctx)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to list schemas", err)
	}

	summaries := make([]SchemaSummary, 0, len(versions))
	for _, v := range versions {
		docs, err := st.ListDocuments(ctx, v.Hash)
		if err != nil {
			_ = formatter.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to list documents", err)
		}
		summaries = append(summaries, SchemaSummary{
			Hash:      v.Hash,
			Seq:       v.Seq,
			Label:     v.Label,
			Records:   v.RecordCount,
			Documents: len(docs),
		})
	}
	formatter.VerboseLog("Found %d schema version(s) in %s", len(summaries), opts.Database)

	if formatter.Format == "json" {
		return formatter.Success(summaries)
	}

	if len(summaries) == 0 {
		fmt.Fprintln(formatter.Writer, "No schema versions stored.")
		return nil
	}

	tw := tabwriter.NewWriter(formatter.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tHASH\tRECORDS\tDOCUMENTS\tLABEL")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%s\n", s.Seq, s.Hash, s.Records, s.Documents, s.Label)
	}
	return tw.Flush()
}
