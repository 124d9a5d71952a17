package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/roach88/provgraph/internal/harness"
	"github.com/roach88/provgraph/internal/metrics"
	"github.com/roach88/provgraph/internal/model"
	"github.com/roach88/provgraph/internal/serialize"
)

// SerializeOptions holds flags for the serialize command.
type SerializeOptions struct {
	*RootOptions
	Compact    bool   // compact names with an inline context
	FullNames  bool   // prefixed ontology names instead of short names
	Indent     string // indent unit; empty renders a single line
	ContextURI string // remote context replacing the inline one
	UUID       bool   // random identifiers for anonymous entities
	Metrics    bool   // report validation and serialization counters
	Database   string // store to record the schema and document in
}

// SerializeResult is the JSON payload of a successful serialize.
type SerializeResult struct {
	Document     any                `json:"document"`
	SchemaHash   string             `json:"schema_hash"`
	DocumentHash string             `json:"document_hash"`
	Warnings     []string           `json:"warnings,omitempty"`
	Metrics      map[string]float64 `json:"metrics,omitempty"`
}

// NewSerializeCommand creates the serialize command.
func NewSerializeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SerializeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serialize <scenario.yaml>",
		Short: "Build a scenario graph and print its JSON-LD",
		Long: `Build the entities of a scenario and print the root entity as a
JSON-LD document. Render flags override the scenario's render block.

Assertions are evaluated; rejected assignments and failed assertions
exit 1 after the document is printed.

Examples:
  provgraph serialize scenarios/purchase.yaml
  provgraph serialize scenarios/purchase.yaml --compact=false
  provgraph serialize scenarios/timespan.yaml --full-names --indent ""
  provgraph serialize scenarios/payment.yaml --db provgraph.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSerialize(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Compact, "compact", true, "compact names with an inline context")
	cmd.Flags().BoolVar(&opts.FullNames, "full-names", false, "prefixed ontology names (compact only)")
	cmd.Flags().StringVar(&opts.Indent, "indent", "  ", "indent unit; empty for a single line")
	cmd.Flags().StringVar(&opts.ContextURI, "context-uri", "", "remote @context replacing the inline one")
	cmd.Flags().BoolVar(&opts.UUID, "uuid", false, "random identifiers for anonymous entities")
	cmd.Flags().BoolVar(&opts.Metrics, "metrics", false, "report validation and serialization counters")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the schema and document in this SQLite store")

	return cmd
}

func runSerialize(opts *SerializeOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	logger := opts.logger(cmd.ErrOrStderr())

	scenario, err := harness.LoadScenario(path)
	if err != nil {
		return outputSerializeError(formatter, ExitCommandError, ErrCodeScenario, err.Error())
	}

	flags := cmd.Flags()
	if flags.Changed("compact") {
		scenario.Render.Expanded = !opts.Compact
	}
	if flags.Changed("full-names") {
		scenario.Render.FullNames = opts.FullNames
	}
	if flags.Changed("context-uri") {
		scenario.Render.ContextURI = opts.ContextURI
	}
	if scenario.Render.Expanded && scenario.Render.FullNames {
		return outputSerializeError(formatter, ExitCommandError, ErrCodeScenario, "full names require compact output")
	}

	runOpts := []harness.Option{harness.WithLogger(logger)}
	if opts.UUID {
		runOpts = append(runOpts, harness.WithIDGenerator(model.UUIDGenerator{}))
	}
	if opts.Database != "" {
		runOpts = append(runOpts, harness.WithDatabase(opts.Database))
	}
	var reg *prometheus.Registry
	if opts.Metrics {
		reg = prometheus.NewRegistry()
		runOpts = append(runOpts, harness.WithMetrics(metrics.New(reg)))
	}

	result, err := harness.Run(scenario, runOpts...)
	if err != nil {
		return outputSerializeError(formatter, ExitCommandError, ErrCodeScenario, err.Error())
	}

	var counters map[string]float64
	if reg != nil {
		counters, err = gatherCounters(reg)
		if err != nil {
			return outputSerializeError(formatter, ExitCommandError, ErrCodeGeneric, err.Error())
		}
	}

	if formatter.Format == "json" {
		if err := formatter.Success(SerializeResult{
			Document:     result.Node(),
			SchemaHash:   result.SchemaHash,
			DocumentHash: result.DocumentHash,
			Warnings:     result.Warnings,
			Metrics:      counters,
		}); err != nil {
			return err
		}
	} else {
		data, err := serialize.MarshalIndent(result.Node(), opts.Indent)
		if err != nil {
			return outputSerializeError(formatter, ExitCommandError, ErrCodeGeneric, err.Error())
		}
		w := formatter.Writer
		fmt.Fprintln(w, string(data))
		ew := formatter.GetErrWriter()
		for _, warning := range result.Warnings {
			fmt.Fprintf(ew, "warning: %s\n", warning)
		}
		for _, e := range result.Errors {
			fmt.Fprintf(ew, "error: %s\n", e)
		}
		for _, name := range sortedKeys(counters) {
			fmt.Fprintf(ew, "%s %g\n", name, counters[name])
		}
	}

	if !result.Pass {
		return NewExitError(ExitFailure, fmt.Sprintf("scenario %s failed with %d error(s)", scenario.Name, len(result.Errors)))
	}
	return nil
}

// gatherCounters flattens counter and histogram-count samples of reg into
// name{label="value"} keys.
func gatherCounters(reg *prometheus.Registry) (map[string]float64, error) {
	families, err := reg.Gather()
	if err != nil {
		return nil, fmt.Errorf("gathering metrics: %w", err)
	}
	counters := make(map[string]float64)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var labels []string
			for _, lp := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
			}
			name := mf.GetName()
			if len(labels) > 0 {
				name += "{" + strings.Join(labels, ",") + "}"
			}
			switch {
			case m.GetCounter() != nil:
				counters[name] = m.GetCounter().GetValue()
			case m.GetHistogram() != nil:
				counters[name+"_count"] = float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	return counters, nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// outputSerializeError outputs an error and returns an exit error with
// the given code.
func outputSerializeError(formatter *OutputFormatter, exitCode int, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return WrapExitError(exitCode, fmt.Sprintf("%s: %s", code, message), nil)
}
