package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/mdweave/internal/config"
	"github.com/dgallion1/mdweave/internal/history"
)

// Orchestrator manages the conversion pipeline: a bounded queue, a pool
// of workers, and the in-memory job registry.
type Orchestrator struct {
	jobs    *JobStore
	queue   chan *Job
	store   *history.Store
	log     *slog.Logger
	cfg     config.Config
	latency *LatencyStats

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the pipeline. The history store may be nil,
// in which case finished conversions are not recorded.
func NewOrchestrator(cfg config.Config, store *history.Store, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:    NewJobStore(cfg.JobTTL),
		queue:   make(chan *Job, cfg.MaxQueueSize),
		store:   store,
		log:     log,
		cfg:     cfg,
		latency: NewLatencyStats(time.Hour),
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.store, o.log, o.cfg)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
					if snap := job.Snapshot(); snap.Status == StatusCompleted {
						o.latency.Record(snap.Result.DurationMS)
					}
				}
			}
		}()
	}

	// Start job registry cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// History returns the history store for direct use by API handlers.
func (o *Orchestrator) History() *history.Store {
	return o.store
}

// Latency is the rolling tracker of recent conversion durations. Callers
// running conversions outside the queue record into it too.
func (o *Orchestrator) Latency() *LatencyStats {
	return o.latency
}
