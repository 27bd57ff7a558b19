package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kozaktomas/page-composer/internal/app"
	"github.com/kozaktomas/page-composer/internal/export"
)

// EncoderFactory builds the document encoder for an export at the given DPI.
type EncoderFactory func(dpi int) export.Encoder

// ExportHandler handles batch export endpoints.
type ExportHandler struct {
	editor     *app.Editor
	jobManager *JobManager
	newEncoder EncoderFactory
}

// NewExportHandler creates a new export handler.
func NewExportHandler(editor *app.Editor, jm *JobManager, newEncoder EncoderFactory) *ExportHandler {
	return &ExportHandler{
		editor:     editor,
		jobManager: jm,
		newEncoder: newEncoder,
	}
}

// Start snapshots the queue and exports it in the background. It answers 409
// while an earlier export is still writing.
func (h *ExportHandler) Start(w http.ResponseWriter, r *http.Request) {
	var (
		items []export.Item
		opts  export.Options
		dpi   int
	)
	err := h.editor.Do(r.Context(), func(s *app.State) {
		items, opts = s.ExportPlan()
		dpi = s.Snapshot().DPI
	})
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "editor unavailable")
		return
	}
	if len(items) == 0 {
		respondError(w, http.StatusBadRequest, "no images queued")
		return
	}

	jobID := uuid.New().String()
	job, err := h.jobManager.CreateJob(jobID, len(items), opts)
	if errors.Is(err, ErrExportInProgress) {
		respondError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create export job")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	job.setCancel(cancel)
	go h.runExportJob(ctx, cancel, job, items, opts, dpi)

	respondJSON(w, http.StatusAccepted, map[string]any{
		"job_id":     jobID,
		"total":      len(items),
		"output_dir": opts.OutputDir,
		"status":     string(JobStatusPending),
	})
}

// List returns all export jobs.
func (h *ExportHandler) List(w http.ResponseWriter, r *http.Request) {
	jobs := h.jobManager.ListJobs()
	out := make([]ExportJobStatus, 0, len(jobs))
	for _, job := range jobs {
		out = append(out, job.snapshot())
	}
	respondJSON(w, http.StatusOK, out)
}

// Status returns the status of an export job.
func (h *ExportHandler) Status(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobId")
	if jobID == "" {
		respondError(w, http.StatusBadRequest, "missing job ID")
		return
	}

	job := h.jobManager.GetJob(jobID)
	if job == nil {
		respondError(w, http.StatusNotFound, "job not found")
		return
	}

	respondJSON(w, http.StatusOK, job.snapshot())
}

// Events streams export job events via SSE.
func (h *ExportHandler) Events(w http.ResponseWriter, r *http.Request) {
	streamSSEEvents(w, r,
		func(id string) SSEJob {
			job := h.jobManager.GetJob(id)
			if job == nil {
				return nil
			}
			return job
		},
		func(job SSEJob) any {
			return job.(*ExportJob).snapshot()
		},
	)
}

// Cancel stops a running export job before its next image. A finished job is
// removed from the job list instead.
func (h *ExportHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobId")
	if jobID == "" {
		respondError(w, http.StatusBadRequest, "missing job ID")
		return
	}

	job := h.jobManager.GetJob(jobID)
	if job == nil {
		respondError(w, http.StatusNotFound, "job not found")
		return
	}

	if !job.active() {
		h.jobManager.DeleteJob(jobID)
		respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
		return
	}

	job.Cancel()
	respondJSON(w, http.StatusOK, map[string]bool{"cancelled": true})
}

// runExportJob exports the snapshot sequentially off the editor loop.
func (h *ExportHandler) runExportJob(ctx context.Context, cancel context.CancelFunc, job *ExportJob, items []export.Item, opts export.Options, dpi int) {
	defer cancel()

	job.start()
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		job.fail(fmt.Sprintf("failed to create output directory: %v", err))
		return
	}

	exporter := export.NewExporter(h.newEncoder(dpi), opts)
	summary := exporter.Run(ctx, items, job.recordProgress)
	if !summary.Canceled && !summary.AllSucceeded() {
		log.Printf("export %s finished with %d of %d failed", job.ID, summary.Failed, summary.Total)
	}
	job.finish(summary)
}
