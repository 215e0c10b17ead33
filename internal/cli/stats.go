package cli

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/warmautomation/aef/internal/logio"
	"github.com/warmautomation/aef/internal/stats"
)

var statsFormat string

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringVarP(&statsFormat, "format", "f", "text", "Output format (text|json)")
}

var statsCmd = &cobra.Command{
	Use:   "stats <file>",
	Short: "Summarize an AEF log file",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	doc, err := logio.ReadFile(args[0])
	if err != nil {
		return err
	}
	s := stats.Summarize(doc.Entries)

	if statsFormat == "json" {
		out, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("%s: %d entries in %d session(s), %dms span\n", args[0], s.Entries, s.Sessions, s.DurationMS)
	types := make([]string, 0, len(s.ByType))
	for t := range s.ByType {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		fmt.Printf("  %-24s %d\n", t, s.ByType[t])
	}
	if s.ToolResults > 0 {
		fmt.Printf("  tool failures: %d/%d\n", s.FailedResults, s.ToolResults)
	}
	if len(doc.Rejected) > 0 {
		fmt.Printf("  rejected lines: %d\n", len(doc.Rejected))
	}
	return nil
}
