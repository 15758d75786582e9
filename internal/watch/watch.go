// Package watch monitors an intake directory and queues a conversion for
// every supported document dropped into it.
package watch

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dgallion1/mdweave/internal/convert"
	"github.com/dgallion1/mdweave/internal/extractor"
	"github.com/dgallion1/mdweave/internal/pipeline"
)

// Watcher submits a conversion job for each supported file that appears
// under the intake root. Jobs carry the file path rather than its bytes;
// the worker reads the file when the job runs, so documents still being
// copied get retried instead of converted half-written.
type Watcher struct {
	orch    *pipeline.Orchestrator
	watcher *fsnotify.Watcher
	log     *slog.Logger
	root    string
	skipDir string
	opts    convert.Options
	wait    time.Duration

	mu       sync.Mutex
	debounce map[string]*time.Timer
}

// New creates a watcher rooted at dir. Subdirectories are watched too,
// except hidden ones and outputDir, so fresh conversions are not picked
// back up as inputs.
func New(orch *pipeline.Orchestrator, log *slog.Logger, dir, outputDir string, opts convert.Options, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}
	// Absolute paths keep event names comparable to the output dir.
	root, err := filepath.Abs(dir)
	if err != nil {
		fw.Close()
		return nil, err
	}
	if outputDir != "" {
		if outputDir, err = filepath.Abs(outputDir); err != nil {
			fw.Close()
			return nil, err
		}
	}

	w := &Watcher{
		orch:     orch,
		watcher:  fw,
		log:      log,
		root:     root,
		skipDir:  outputDir,
		opts:     opts,
		wait:     debounce,
		debounce: make(map[string]*time.Timer),
	}

	// Add intake root and subdirectories.
	filepath.Walk(w.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if strings.HasPrefix(info.Name(), ".") && path != w.root {
				return filepath.SkipDir
			}
			if w.insideOutput(path) {
				return filepath.SkipDir
			}
			fw.Add(path)
		}
		return nil
	})

	return w, nil
}

// Start begins watching for changes. Blocks until Stop is called.
func (w *Watcher) Start() {
	w.log.Info("watching for documents", "dir", w.root)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name
	if w.insideOutput(path) {
		return
	}

	// Only care about convertible documents
	if !extractor.IsSupportedExtension(path) {
		// But watch new directories
		if event.Has(fsnotify.Create) {
			info, err := os.Stat(path)
			if err == nil && info.IsDir() && !strings.HasPrefix(info.Name(), ".") {
				w.watcher.Add(path)
			}
		}
		return
	}
	if strings.HasPrefix(filepath.Base(path), ".") {
		return
	}

	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		// Gone before we got to it; drop any pending submission.
		w.mu.Lock()
		if timer, ok := w.debounce[path]; ok {
			timer.Stop()
			delete(w.debounce, path)
		}
		w.mu.Unlock()
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	// Debounce: editors and copies fire bursts of writes per file.
	w.mu.Lock()
	if timer, ok := w.debounce[path]; ok {
		timer.Stop()
	}
	w.debounce[path] = time.AfterFunc(w.wait, func() {
		w.mu.Lock()
		delete(w.debounce, path)
		w.mu.Unlock()
		w.submit(path)
	})
	w.mu.Unlock()
}

func (w *Watcher) submit(path string) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}

	job := pipeline.NewJob(filepath.Base(path), w.opts)
	job.SourcePath = path
	if err := w.orch.Submit(job); err != nil {
		w.log.Error("submit failed", "path", path, "error", err)
		return
	}
	w.log.Info("queued watched document", "path", path, "job_id", job.ID)
}

// insideOutput reports whether path is the output directory or below it.
func (w *Watcher) insideOutput(path string) bool {
	if w.skipDir == "" {
		return false
	}
	rel, err := filepath.Rel(w.skipDir, filepath.Clean(path))
	if err != nil {
		return false
	}
	return !strings.HasPrefix(rel, "..")
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}
