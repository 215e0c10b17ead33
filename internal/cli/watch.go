package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/warmautomation/aef/internal/config"
	"github.com/warmautomation/aef/internal/logio"
	"github.com/warmautomation/aef/internal/report"
	"github.com/warmautomation/aef/internal/semantic"
	"github.com/warmautomation/aef/internal/watch"
)

var watchConfig string

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVarP(&watchConfig, "config", "c", "", "Path to .aef.yaml tool config")
}

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-validate a log file whenever it changes",
	Long: "Watches the file and re-runs full validation after each settled burst\n" +
		"of writes. Each pass validates the whole file as a snapshot; this is a\n" +
		"development convenience, not a streaming mode. Ctrl-C to stop.",
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(watchConfig)
	if err != nil {
		return err
	}

	revalidate := func(path string) {
		doc, err := logio.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "aef: %v\n", err)
			return
		}
		rep := report.Build(path, doc, semantic.Validate(doc.Entries), cfg.Rules)
		fmt.Print(report.FormatText(rep))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	// Validate once up front so the first report does not wait for a write.
	revalidate(args[0])

	w := watch.New(args[0], time.Duration(cfg.Watch.DebounceMS)*time.Millisecond, revalidate)
	return w.Run(ctx)
}
