package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dgallion1/mdweave/internal/config"
	"github.com/dgallion1/mdweave/internal/convert"
	"github.com/dgallion1/mdweave/internal/extractor"
	"github.com/dgallion1/mdweave/internal/history"
	"github.com/dgallion1/mdweave/internal/notify"
	"github.com/dgallion1/mdweave/internal/outpath"
	"github.com/dgallion1/mdweave/internal/pagetext"
)

// Worker processes a single conversion job.
type Worker struct {
	store    *history.Store
	log      *slog.Logger
	notifier *notify.Client

	outputDir   string
	pdfFallback bool
}

func NewWorker(store *history.Store, log *slog.Logger, cfg config.Config) *Worker {
	w := &Worker{
		store:       store,
		log:         log,
		outputDir:   cfg.OutputDir,
		pdfFallback: cfg.PDFFallbackPdftotext,
	}
	if cfg.WebhookURL != "" {
		w.notifier = notify.New(cfg.WebhookURL, cfg.WebhookSecret)
	}
	return w
}

// Process runs the full conversion pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)
	start := time.Now()

	// Phase 1: Extract page text.
	job.SetStatus(StatusExtracting, "extracting")
	src, err := extractor.ForFile(job.Filename)
	if err != nil {
		w.fail(ctx, job, log, start, "extracting", err)
		return
	}
	if pdf, ok := src.(*extractor.PDFSource); ok {
		pdf.FallbackPdftotext = w.pdfFallback
	}

	doc, err := w.extract(ctx, src, job, log)
	if err != nil {
		w.fail(ctx, job, log, start, "extracting", fmt.Errorf("extract: %w", err))
		return
	}
	job.SetContentHash(ContentHashHex([]byte(doc.Text())))

	title := doc.Title
	if job.Title != "" {
		title = job.Title
	}
	if title == "" {
		title = extractor.Stem(job.Filename)
	}

	// Phase 2: Classify headings and assemble markdown.
	job.SetStatus(StatusConverting, "converting")
	res, err := convert.Convert(doc.Pages, title, job.Options)
	if err != nil {
		w.fail(ctx, job, log, start, "converting", convert.ScanHint(err, doc.Quality))
		return
	}
	job.SetMarkdown(res.Markdown)

	// Phase 3: Write the output file, unless output is disabled.
	outPath := ""
	if w.outputDir != "" {
		job.SetStatus(StatusWriting, "writing")
		if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
			w.fail(ctx, job, log, start, "writing", fmt.Errorf("create output dir: %w", err))
			return
		}
		outPath = outpath.UniquePath(w.outputDir, extractor.Stem(job.Filename))
		if err := os.WriteFile(outPath, []byte(res.Markdown), 0o644); err != nil {
			w.fail(ctx, job, log, start, "writing", fmt.Errorf("write output: %w", err))
			return
		}
	}

	duration := time.Since(start)
	job.SetResult(res.Title, outPath, len(doc.Pages), len(res.Sections), duration.Milliseconds())
	job.SetStatus(StatusCompleted, "done")
	log.Info("conversion complete",
		"pages", len(doc.Pages),
		"sections", len(res.Sections),
		"output", outPath,
		"duration_ms", duration.Milliseconds())

	w.record(job, log, &history.Conversion{
		ID:          job.ID,
		SourcePath:  recordSource(job),
		OutputPath:  outPath,
		Title:       res.Title,
		Format:      extractor.FormatOf(job.Filename),
		Status:      history.StatusCompleted,
		Pages:       len(doc.Pages),
		Sections:    len(res.Sections),
		OutputBytes: int64(len(res.Markdown)),
		DurationMS:  duration.Milliseconds(),
		SourceHash:  job.ContentHash,
	}, res.Markdown)
	w.sendEvent(ctx, log, notify.Event{
		Event:      notify.EventCompleted,
		JobID:      job.ID,
		Filename:   job.Filename,
		Title:      res.Title,
		Format:     extractor.FormatOf(job.Filename),
		OutputPath: outPath,
		Pages:      len(doc.Pages),
		Sections:   len(res.Sections),
		DurationMS: duration.Milliseconds(),
		OccurredAt: time.Now().UTC(),
	})
}

// extract loads the input bytes and runs the source extractor, retrying
// transient failures. Watcher jobs carry a path instead of bytes and
// re-read the file each attempt, so a partially copied file gets a
// fresh look once the writer finishes.
func (w *Worker) extract(ctx context.Context, src extractor.Source, job *Job, log *slog.Logger) (*pagetext.Document, error) {
	var doc *pagetext.Document
	var lastErr error
	for attempt := range MaxRetries {
		doc, lastErr = w.extractOnce(src, job)
		if lastErr == nil || !IsRetryable(lastErr) {
			break
		}
		log.Warn("retryable extraction error", "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return doc, nil
}

func (w *Worker) extractOnce(src extractor.Source, job *Job) (*pagetext.Document, error) {
	data := job.FileData()
	if len(data) == 0 {
		if job.SourcePath == "" {
			return nil, errors.New("job has no file data and no source path")
		}
		var err error
		data, err = os.ReadFile(job.SourcePath)
		if err != nil {
			return nil, err
		}
	}
	return src.Extract(bytes.NewReader(data), job.Filename)
}

func (w *Worker) fail(ctx context.Context, job *Job, log *slog.Logger, start time.Time, phase string, err error) {
	log.Error("conversion failed", "phase", phase, "error", err)
	job.AddError(err.Error())
	job.SetStatus(StatusFailed, phase)
	w.record(job, log, &history.Conversion{
		ID:         job.ID,
		SourcePath: recordSource(job),
		Title:      job.Title,
		Format:     extractor.FormatOf(job.Filename),
		Status:     history.StatusFailed,
		Error:      err.Error(),
		DurationMS: time.Since(start).Milliseconds(),
		SourceHash: job.ContentHash,
	}, "")
	w.sendEvent(ctx, log, notify.Event{
		Event:      notify.EventFailed,
		JobID:      job.ID,
		Filename:   job.Filename,
		Format:     extractor.FormatOf(job.Filename),
		Error:      err.Error(),
		DurationMS: time.Since(start).Milliseconds(),
		OccurredAt: time.Now().UTC(),
	})
}

func (w *Worker) record(job *Job, log *slog.Logger, c *history.Conversion, markdown string) {
	if w.store == nil {
		return
	}
	if err := w.store.Record(c, markdown); err != nil {
		log.Error("history write failed", "error", err)
	}
}

// sendEvent delivers a webhook event when a notifier is configured.
// Delivery failures are logged, never fatal.
func (w *Worker) sendEvent(ctx context.Context, log *slog.Logger, ev notify.Event) {
	if w.notifier == nil {
		return
	}
	if err := w.notifier.Send(ctx, ev); err != nil {
		log.Warn("webhook delivery failed", "event", ev.Event, "error", err)
	}
}

// recordSource prefers the on-disk path when the job came from the
// watcher; uploads only have the client-supplied filename.
func recordSource(job *Job) string {
	if job.SourcePath != "" {
		return job.SourcePath
	}
	return job.Filename
}
