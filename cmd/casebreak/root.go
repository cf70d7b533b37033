package main

import (
	"github.com/spf13/cobra"
)

var (
	verbose bool
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "casebreak",
	Short: "Casebreak - fall_through(bool) switch rewriter for C++",
	Long: `Casebreak rewrites C++ sources that use the fall_through(bool) directive.

A switch preceded by fall_through(false); gets an implicit break at the end of
every case that does not already end in a control transfer or [[fallthrough]];.
Directives are removed from the output, so the result compiles with any
unmodified C++ compiler.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode (errors only)")

	// Add subcommands
	rootCmd.AddCommand(rewriteCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
