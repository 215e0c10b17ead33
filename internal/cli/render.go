package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/warmautomation/aef/internal/config"
	"github.com/warmautomation/aef/internal/logio"
	"github.com/warmautomation/aef/internal/render"
	"github.com/warmautomation/aef/internal/semantic"
)

var (
	renderOutput string
	renderTitle  string
	renderConfig string
)

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Output HTML file (default stdout)")
	renderCmd.Flags().StringVar(&renderTitle, "title", "", "Page title (default from config)")
	renderCmd.Flags().StringVarP(&renderConfig, "config", "c", "", "Path to .aef.yaml tool config")
}

var renderCmd = &cobra.Command{
	Use:   "render <file>",
	Short: "Render an AEF log as HTML",
	Long: "Validates the log, then renders it as a standalone HTML page with each\n" +
		"violation annotated on the entries it names. Structurally invalid lines\n" +
		"are skipped; semantic errors do not stop rendering.",
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(renderConfig)
	if err != nil {
		return err
	}

	doc, err := logio.ReadFile(args[0])
	if err != nil {
		return err
	}

	title := renderTitle
	if title == "" {
		title = cfg.Render.Title
	}
	page, err := render.HTML(doc.Entries, semantic.Validate(doc.Entries), render.Options{Title: title})
	if err != nil {
		return fmt.Errorf("render %s: %w", args[0], err)
	}

	if renderOutput != "" {
		if err := os.WriteFile(renderOutput, page, 0644); err != nil {
			return fmt.Errorf("write %s: %w", renderOutput, err)
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", renderOutput)
		return nil
	}
	_, err = os.Stdout.Write(page)
	return err
}
