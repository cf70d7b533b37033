package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/casebreak/casebreak/pkg/sarif"
	"github.com/casebreak/casebreak/pkg/store"
	"github.com/casebreak/casebreak/pkg/types"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	reportDatastore string
	reportFormat    string
	reportColor     string
)

// styles holds color formatters for human report output
type styles struct {
	path       *color.Color
	heading    *color.Color
	changed    *color.Color
	unchanged  *color.Color
	diagnostic *color.Color
	metadata   *color.Color
}

// newStyles creates color formatters for report output
// enabled=false respects --color=never and the NO_COLOR env var
func newStyles(enabled bool) *styles {
	s := &styles{
		path:       color.New(color.Bold, color.FgHiWhite),
		heading:    color.New(color.Bold),
		changed:    color.New(color.FgYellow),
		unchanged:  color.New(color.FgHiGreen),
		diagnostic: color.New(color.FgHiRed),
		metadata:   color.New(color.FgHiBlue),
	}

	if !enabled {
		s.path.DisableColor()
		s.heading.DisableColor()
		s.changed.DisableColor()
		s.unchanged.DisableColor()
		s.diagnostic.DisableColor()
		s.metadata.DisableColor()
	}

	return s
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a report from a rewrite datastore",
	Long:  "Read per-file results from a datastore and output a summary report",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportDatastore, "datastore", "casebreak.db", "Path to datastore file")
	reportCmd.Flags().StringVar(&reportFormat, "format", "human", "Output format: human, json, sarif")
	reportCmd.Flags().StringVar(&reportColor, "color", "auto", "Color output: auto, always, never")
}

func runReport(cmd *cobra.Command, args []string) error {
	if reportDatastore == ":memory:" {
		return fmt.Errorf("cannot report from in-memory store")
	}
	if _, err := os.Stat(reportDatastore); err != nil {
		return fmt.Errorf("datastore not found: %s", reportDatastore)
	}

	s, err := store.New(store.Config{Path: reportDatastore})
	if err != nil {
		return fmt.Errorf("opening datastore: %w", err)
	}
	defer s.Close()

	results, err := s.Results()
	if err != nil {
		return fmt.Errorf("retrieving results: %w", err)
	}
	summary, err := s.Summary()
	if err != nil {
		return fmt.Errorf("summarizing results: %w", err)
	}

	switch reportFormat {
	case "json":
		return outputReportJSON(cmd, results)
	case "sarif":
		return outputReportSARIF(cmd, results)
	case "human":
		return outputReportHuman(cmd, results, summary)
	default:
		return fmt.Errorf("unknown output format: %s", reportFormat)
	}
}

func outputReportJSON(cmd *cobra.Command, results []*types.FileResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling results: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

func outputReportSARIF(cmd *cobra.Command, results []*types.FileResult) error {
	report := sarif.NewReport()
	for _, r := range results {
		report.AddFileResult(r)
	}
	data, err := report.ToJSON()
	if err != nil {
		return fmt.Errorf("marshaling SARIF: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

func outputReportHuman(cmd *cobra.Command, results []*types.FileResult, summary store.Summary) error {
	switch reportColor {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	default: // "auto"
		// Check if stdout is a TTY and NO_COLOR is not set
		if !term.IsTerminal(int(os.Stdout.Fd())) || os.Getenv("NO_COLOR") != "" {
			color.NoColor = true
		} else {
			color.NoColor = false
		}
	}
	st := newStyles(!color.NoColor)
	out := cmd.OutOrStdout()

	for _, r := range results {
		st.path.Fprintln(out, r.Path)
		if r.Changed {
			st.changed.Fprintf(out, "  rewritten: %d break(s) injected, %d directive(s) removed\n", r.Injections, r.Directives)
		} else {
			st.unchanged.Fprintln(out, "  unchanged")
		}
		st.metadata.Fprintf(out, "  %d -> %d bytes\n", r.BytesIn, r.BytesOut)
		for _, d := range r.Diagnostics {
			st.diagnostic.Fprintf(out, "  %s\n", d)
		}
	}

	st.heading.Fprintln(out, "Summary")
	fmt.Fprintf(out, "  files:       %d\n", summary.Files)
	fmt.Fprintf(out, "  rewritten:   %d\n", summary.Changed)
	fmt.Fprintf(out, "  injections:  %d\n", summary.Injections)
	fmt.Fprintf(out, "  directives:  %d\n", summary.Directives)
	fmt.Fprintf(out, "  diagnostics: %d\n", summary.Diagnostics)
	return nil
}
