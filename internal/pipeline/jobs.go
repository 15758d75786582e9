package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/dgallion1/mdweave/internal/convert"
)

// JobStatus represents the state of a conversion job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusExtracting JobStatus = "extracting"
	StatusConverting JobStatus = "converting"
	StatusWriting    JobStatus = "writing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// Job tracks the state of a single document conversion. Input arrives
// either as raw bytes (uploads) or as a path read at processing time
// (watched files).
type Job struct {
	mu sync.Mutex

	ID         string `json:"job_id"`
	Filename   string `json:"filename"`
	SourcePath string `json:"source_path,omitempty"`
	Title      string `json:"title,omitempty"` // optional override for the document title

	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`

	Result Result `json:"result"`

	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Internal: not serialized.
	Options  convert.Options `json:"-"`
	fileData []byte
	markdown string
	errors   []string
}

// Result carries the outcome of a finished job.
type Result struct {
	Title      string   `json:"title,omitempty"`
	OutputPath string   `json:"output_path,omitempty"`
	Pages      int      `json:"pages"`
	Sections   int      `json:"sections"`
	DurationMS int64    `json:"duration_ms"`
	Errors     []string `json:"errors"`
}

// NewJob creates a queued job for a filename with the given conversion
// options. Callers attach input via SetFileData or the SourcePath field
// before submitting.
func NewJob(filename string, opts convert.Options) *Job {
	now := time.Now()
	return &Job{
		ID:        NewID(),
		Filename:  filename,
		Status:    StatusQueued,
		Phase:     "queued",
		Options:   opts,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Result.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetResult records the outcome of the conversion phases.
func (j *Job) SetResult(title, outputPath string, pages, sections int, durationMS int64) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Result.Title = title
	j.Result.OutputPath = outputPath
	j.Result.Pages = pages
	j.Result.Sections = sections
	j.Result.DurationMS = durationMS
	j.UpdatedAt = time.Now()
}

// SetContentHash records the hash of the extracted text.
func (j *Job) SetContentHash(hash string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.ContentHash = hash
}

// SetFileData sets the raw file bytes for processing.
func (j *Job) SetFileData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = data
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// SetMarkdown stores the assembled document. Kept off the snapshot so
// polling stays small; synchronous callers read it back with Markdown.
func (j *Job) SetMarkdown(md string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.markdown = md
}

// Markdown returns the assembled document, empty until conversion ran.
func (j *Job) Markdown() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.markdown
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID         string    `json:"job_id"`
	Filename   string    `json:"filename"`
	SourcePath string    `json:"source_path,omitempty"`
	Title      string    `json:"title,omitempty"`
	Status     JobStatus `json:"status"`
	Phase      string    `json:"phase"`
	Result     Result    `json:"result"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Result.Errors
	if errs == nil {
		errs = []string{}
	}
	return JobSnapshot{
		ID:         j.ID,
		Filename:   j.Filename,
		SourcePath: j.SourcePath,
		Title:      j.Title,
		Status:     j.Status,
		Phase:      j.Phase,
		Result: Result{
			Title:      j.Result.Title,
			OutputPath: j.Result.OutputPath,
			Pages:      j.Result.Pages,
			Sections:   j.Result.Sections,
			DurationMS: j.Result.DurationMS,
			Errors:     errs,
		},
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
