// Package cli wires the aef commands. Commands are thin: they parse
// flags, call into the validation/adapter/render packages, and map
// outcomes to exit codes.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "aef",
	Short: "Validate, adapt, and render AEF agent execution logs",
	Long: "aef works with the Agent Event Format, a normalized NDJSON interchange\n" +
		"format for AI-agent execution traces. It validates documents against the\n" +
		"format's structural and cross-entry rules, converts vendor logs into the\n" +
		"format, and renders validated logs as HTML.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
