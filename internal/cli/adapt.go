package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/warmautomation/aef/internal/adapter"
	"github.com/warmautomation/aef/internal/logio"
)

var (
	adaptFrom   string
	adaptOutput string
)

func init() {
	rootCmd.AddCommand(adaptCmd)
	adaptCmd.Flags().StringVar(&adaptFrom, "from", "", "Source format ("+strings.Join(adapter.Names(), "|")+") (required)")
	adaptCmd.Flags().StringVarP(&adaptOutput, "output", "o", "", "Output file (default stdout)")
	adaptCmd.MarkFlagRequired("from")
}

var adaptCmd = &cobra.Command{
	Use:   "adapt <file>",
	Short: "Convert a vendor agent log into AEF",
	Long: "Reads a vendor-specific session log and emits the equivalent AEF\n" +
		"document, one JSON entry per line. The output is expected to pass\n" +
		"'aef validate'; run it afterwards to be sure.",
	Args: cobra.ExactArgs(1),
	RunE: runAdapt,
}

func runAdapt(cmd *cobra.Command, args []string) error {
	a, err := adapter.Lookup(adaptFrom)
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open source log: %w", err)
	}
	defer f.Close()

	entries, err := a.Convert(f)
	if err != nil {
		return fmt.Errorf("convert %s: %w", args[0], err)
	}

	if adaptOutput != "" {
		if err := logio.WriteFile(adaptOutput, entries); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "wrote %d entries to %s\n", len(entries), adaptOutput)
		return nil
	}

	w := logio.NewWriter(os.Stdout)
	for _, e := range entries {
		if err := w.Write(e); err != nil {
			return err
		}
	}
	return w.Flush()
}
