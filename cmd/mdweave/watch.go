package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dgallion1/mdweave/internal/convert"
	"github.com/dgallion1/mdweave/internal/history"
	"github.com/dgallion1/mdweave/internal/pipeline"
	"github.com/dgallion1/mdweave/internal/watch"
)

var watchOutputDir string

var watchCmd = &cobra.Command{
	Use:   "watch [DIR]",
	Short: "Watch a folder and convert documents as they arrive",
	Long: `Watch monitors DIR (or the configured watch_dir) recursively and converts
every supported document dropped into it. Converted Markdown lands in the
output directory; files already inside it are ignored. Runs until
interrupted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchOutputDir, "output-dir", "", "directory for converted files")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg := cliConfig(cmd)
	dir := cfg.WatchDir
	if len(args) > 0 {
		dir = args[0]
	}
	if dir == "" {
		return errors.New("no watch directory: pass DIR or set watch_dir in config.toml")
	}
	if cmd.Flags().Changed("output-dir") {
		cfg.OutputDir = watchOutputDir
	}

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	var store *history.Store
	if cfg.HistoryDB != "" {
		var err error
		store, err = history.Open(cfg.HistoryDB)
		if err != nil {
			return fmt.Errorf("open history db: %w", err)
		}
		defer store.Close()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	orch := pipeline.NewOrchestrator(cfg, store, logger)
	orch.Start(ctx)

	opts := convert.Options{
		StripNoise:       cfg.StripNoise,
		HeadingPattern:   cfg.HeadingPattern,
		UseLayoutSignals: cfg.UseLayoutSignals,
		Frontmatter:      cfg.Frontmatter,
	}
	watcher, err := watch.New(orch, logger, dir, cfg.OutputDir, opts, cfg.WatchDebounce)
	if err != nil {
		orch.Stop()
		return fmt.Errorf("start watcher: %w", err)
	}
	go watcher.Start()

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s %s\n",
		titleStyle.Render("watching"), dir,
		dimStyle.Render("→"), cfg.OutputDir)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render("shutting down"))
	watcher.Stop()
	orch.Stop()
	return nil
}
