package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/mdweave/internal/convert"
	"github.com/dgallion1/mdweave/internal/extractor"
	"github.com/dgallion1/mdweave/internal/pipeline"
)

// handleConvert converts an uploaded document synchronously and returns
// the markdown in the response. The run still goes through a pipeline
// worker so retries, hashing, and history recording behave exactly like
// async jobs; only the output file write is skipped.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	data, filename, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	opts := s.conversionOptions(r)
	opts.SourceName = filename

	cfg := s.cfg
	cfg.OutputDir = "" // response body carries the markdown
	wkr := pipeline.NewWorker(s.history(), s.log, cfg)

	job := pipeline.NewJob(filename, opts)
	job.Title = strings.TrimSpace(r.FormValue("title"))
	job.SetFileData(data)

	wkr.Process(r.Context(), job)

	snap := job.Snapshot()
	if snap.Status != pipeline.StatusCompleted {
		msg := "conversion failed"
		if len(snap.Result.Errors) > 0 {
			msg = snap.Result.Errors[0]
		}
		jsonError(w, msg, http.StatusUnprocessableEntity)
		return
	}
	s.orchestrator.Latency().Record(snap.Result.DurationMS)

	if strings.Contains(r.Header.Get("Accept"), "text/markdown") {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Write([]byte(job.Markdown()))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":       snap.ID,
		"title":    snap.Result.Title,
		"pages":    snap.Result.Pages,
		"sections": snap.Result.Sections,
		"markdown": job.Markdown(),
	})
}

// handleSubmitJob queues an uploaded document for conversion.
func (s *Server) handleSubmitJob(w http.ResponseWriter, r *http.Request) {
	data, filename, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	opts := s.conversionOptions(r)
	opts.SourceName = filename

	job := pipeline.NewJob(filename, opts)
	job.Title = strings.TrimSpace(r.FormValue("title"))
	job.SetFileData(data)

	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	snap := job.Snapshot()
	writeJSON(w, http.StatusAccepted, map[string]any{
		"job_id":   snap.ID,
		"status":   snap.Status,
		"poll_url": fmt.Sprintf("/v1/jobs/%s", snap.ID),
	})
}

// handleBatchJobs queues several uploads in one request.
func (s *Server) handleBatchJobs(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes*10+10*1024*1024)

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}

	opts := s.conversionOptions(r)

	var results []map[string]any
	for _, fh := range files {
		filename := sanitizeFilename(fh.Filename)
		if !extractor.IsSupportedExtension(filename) {
			results = append(results, map[string]any{
				"filename": filename,
				"error":    fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)),
			})
			continue
		}

		f, err := fh.Open()
		if err != nil {
			results = append(results, map[string]any{
				"filename": filename,
				"error":    "failed to open file",
			})
			continue
		}

		data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
		f.Close()
		if err != nil || int64(len(data)) > s.cfg.MaxUploadBytes {
			results = append(results, map[string]any{
				"filename": filename,
				"error":    "file too large or read error",
			})
			continue
		}

		jobOpts := opts
		jobOpts.SourceName = filename
		job := pipeline.NewJob(filename, jobOpts)
		job.SetFileData(data)

		if err := s.orchestrator.Submit(job); err != nil {
			results = append(results, map[string]any{
				"filename": filename,
				"error":    err.Error(),
			})
			continue
		}

		results = append(results, map[string]any{
			"filename": filename,
			"job_id":   job.ID,
			"status":   pipeline.StatusQueued,
			"poll_url": fmt.Sprintf("/v1/jobs/%s", job.ID),
		})
	}

	writeJSON(w, http.StatusAccepted, map[string]any{"jobs": results})
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}

// readUpload pulls the "file" form field out of a multipart request,
// enforcing the configured size cap.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, bool) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return nil, "", false
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return nil, "", false
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !extractor.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return nil, "", false
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return nil, "", false
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return nil, "", false
	}
	return data, filename, true
}

// conversionOptions builds per-request options: server defaults with
// form-field overrides.
func (s *Server) conversionOptions(r *http.Request) convert.Options {
	opts := convert.Options{
		StripNoise:       s.cfg.StripNoise,
		HeadingPattern:   s.cfg.HeadingPattern,
		UseLayoutSignals: s.cfg.UseLayoutSignals,
		Frontmatter:      s.cfg.Frontmatter,
	}
	if v := r.FormValue("strip_noise"); v != "" {
		opts.StripNoise = v == "true"
	}
	if v := r.FormValue("heading_pattern"); v != "" {
		opts.HeadingPattern = v
	}
	if v := r.FormValue("layout_signals"); v != "" {
		opts.UseLayoutSignals = v == "true"
	}
	if v := r.FormValue("frontmatter"); v != "" {
		opts.Frontmatter = v == "true"
	}
	return opts
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
