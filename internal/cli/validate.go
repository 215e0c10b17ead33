package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/warmautomation/aef/internal/config"
	"github.com/warmautomation/aef/internal/logio"
	"github.com/warmautomation/aef/internal/report"
	"github.com/warmautomation/aef/internal/semantic"
)

var (
	validateFormat string
	validateConfig string
	validateQuiet  bool
)

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringVarP(&validateFormat, "format", "f", "text", "Output format (text|json)")
	validateCmd.Flags().StringVarP(&validateConfig, "config", "c", "", "Path to .aef.yaml tool config")
	validateCmd.Flags().BoolVarP(&validateQuiet, "quiet", "q", false, "Suppress warnings in output (they still never affect the exit code)")
}

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate an AEF log file",
	Long: "Runs structural validation per line, then the cross-entry semantic rules\n" +
		"over the surviving entries, and reports every violation found in one pass.\n\n" +
		"Reads stdin when no file is given. Exit code 0 if the document is valid\n" +
		"(warnings allowed), 1 if any line is rejected or any semantic error is\n" +
		"found, 2 on I/O or config failure.",
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(validateConfig)
	if err != nil {
		return exitf(2, "%v", err)
	}

	var doc *logio.Document
	file := ""
	if len(args) == 1 {
		file = args[0]
		doc, err = logio.ReadFile(file)
	} else {
		doc, err = logio.Read(io.Reader(os.Stdin))
	}
	if err != nil {
		return exitf(2, "%v", err)
	}

	rep := report.Build(file, doc, semantic.Validate(doc.Entries), cfg.Rules)
	if validateQuiet {
		rep.Semantic.Warnings = rep.Semantic.Warnings[:0]
	}

	switch validateFormat {
	case "json":
		out, err := report.FormatJSON(rep)
		if err != nil {
			return exitf(2, "%v", err)
		}
		fmt.Println(out)
	default:
		fmt.Print(report.FormatText(rep))
	}

	if !rep.Clean() {
		os.Exit(1)
	}
	return nil
}

// exitf prints an error and exits with the given status. Used where the
// failure is operational (bad path, bad config) rather than an invalid
// document, which gets exit code 1.
func exitf(code int, format string, args ...any) error {
	fmt.Fprintf(os.Stderr, "aef: "+format+"\n", args...)
	os.Exit(code)
	return nil
}
