package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/warmautomation/aef/internal/entry"
)

func init() {
	rootCmd.AddCommand(classifyCmd)
}

var classifyCmd = &cobra.Command{
	Use:   "classify <entryType>...",
	Short: "Classify entryType strings as core, extension, or invalid",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		for _, arg := range args {
			fmt.Printf("%s\t%s\n", arg, entry.Classify(arg))
		}
	},
}
