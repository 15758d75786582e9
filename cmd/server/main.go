package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/mdweave/internal/api"
	"github.com/dgallion1/mdweave/internal/config"
	"github.com/dgallion1/mdweave/internal/convert"
	"github.com/dgallion1/mdweave/internal/history"
	"github.com/dgallion1/mdweave/internal/pipeline"
	"github.com/dgallion1/mdweave/internal/watch"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Open conversion history.
	store, err := history.Open(cfg.HistoryDB)
	if err != nil {
		log.Error("failed to open history db", "path", cfg.HistoryDB, "error", err)
		os.Exit(1)
	}

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, store, log)
	orch.Start(ctx)

	// Optional hot folder.
	var watcher *watch.Watcher
	if cfg.WatchDir != "" {
		opts := convert.Options{
			StripNoise:       cfg.StripNoise,
			HeadingPattern:   cfg.HeadingPattern,
			UseLayoutSignals: cfg.UseLayoutSignals,
			Frontmatter:      cfg.Frontmatter,
		}
		watcher, err = watch.New(orch, log, cfg.WatchDir, cfg.OutputDir, opts, cfg.WatchDebounce)
		if err != nil {
			log.Error("failed to start watcher", "dir", cfg.WatchDir, "error", err)
			os.Exit(1)
		}
		go watcher.Start()
	}

	// Initialize HTTP server.
	srv := api.NewServer(orch, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		if watcher != nil {
			watcher.Stop()
		}
		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		store.Close()
	}()

	log.Info("starting mdweave", "port", cfg.Port, "output_dir", cfg.OutputDir)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
