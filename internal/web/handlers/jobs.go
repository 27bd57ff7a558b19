package handlers

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/kozaktomas/page-composer/internal/constants"
	"github.com/kozaktomas/page-composer/internal/export"
)

// JobStatus is the lifecycle state of an export job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// Job event types. The last three end a job's event stream.
const (
	eventStarted    = "started"
	eventProgress   = "progress"
	eventCancelling = "cancelling"
	eventCompleted  = "completed"
	eventJobError   = "job_error"
	eventCancelled  = "cancelled"
)

// ExportJobStatus is the reportable state of an export job.
type ExportJobStatus struct {
	ID          string          `json:"id"`
	Status      JobStatus       `json:"status"`
	Progress    int             `json:"progress"`
	Total       int             `json:"total"`
	Processed   int             `json:"processed"`
	Error       string          `json:"error,omitempty"`
	OutputDir   string          `json:"output_dir"`
	Constrained bool            `json:"constrained"`
	StartedAt   time.Time       `json:"started_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	Result      *export.Summary `json:"result,omitempty"`
}

// ExportJob is one background batch export. State transitions go through its
// methods so readers always see a consistent snapshot.
type ExportJob struct {
	EventBroadcaster
	ExportJobStatus
}

// GetStatus returns the current job status (implements SSEJob).
func (j *ExportJob) GetStatus() JobStatus {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.Status
}

// snapshot returns a copy of the job state that is safe to encode.
func (j *ExportJob) snapshot() ExportJobStatus {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.ExportJobStatus
}

// active reports whether the job's export goroutine has not finished yet.
func (j *ExportJob) active() bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.CompletedAt == nil
}

// start moves a pending job to running.
func (j *ExportJob) start() {
	j.mu.Lock()
	if j.Status == JobStatusPending {
		j.Status = JobStatusRunning
	}
	total := j.Total
	j.mu.Unlock()
	j.SendEvent(JobEvent{Type: eventStarted, Message: "Export started", Data: map[string]int{"total": total}})
}

// recordProgress stores the count of processed images and reports the latest result.
func (j *ExportJob) recordProgress(done, total int, r export.Result) {
	j.mu.Lock()
	j.Processed = done
	j.Progress = done * 100 / total
	j.mu.Unlock()
	j.SendEvent(JobEvent{
		Type: eventProgress,
		Data: map[string]any{
			"current": done,
			"total":   total,
			"id":      r.ID,
			"output":  r.Output,
			"error":   r.Error,
		},
	})
}

// finish stores the summary and sends the final event.
func (j *ExportJob) finish(summary export.Summary) {
	now := time.Now()
	j.mu.Lock()
	j.CompletedAt = &now
	j.Result = &summary
	if summary.Canceled {
		j.Status = JobStatusCancelled
	} else {
		j.Status = JobStatusCompleted
		j.Progress = 100
	}
	j.mu.Unlock()

	if summary.Canceled {
		j.SendEvent(JobEvent{Type: eventCancelled, Message: "Export was cancelled", Data: summary})
		return
	}
	j.SendEvent(JobEvent{Type: eventCompleted, Data: summary})
}

// fail ends the job before any image was processed.
func (j *ExportJob) fail(message string) {
	now := time.Now()
	j.mu.Lock()
	j.Status = JobStatusFailed
	j.Error = message
	j.CompletedAt = &now
	j.mu.Unlock()
	j.SendEvent(JobEvent{Type: eventJobError, Message: message})
}

// Cancel asks a running export to stop before its next image. The job turns
// cancelled right away; the final event follows once the current image is done.
func (j *ExportJob) Cancel() {
	j.mu.Lock()
	if isJobTerminal(j.Status) {
		j.mu.Unlock()
		return
	}
	j.Status = JobStatusCancelled
	cancel := j.cancel
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.SendEvent(JobEvent{Type: eventCancelling, Message: "Export cancelled by user"})
}

// JobEvent is one server-sent event of a job.
type JobEvent struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// EventBroadcaster fans job events out to SSE listeners. Slow listeners miss
// events rather than blocking the export.
type EventBroadcaster struct {
	cancel    context.CancelFunc
	listeners []chan JobEvent
	mu        sync.RWMutex
}

// AddListener registers a buffered listener channel.
func (b *EventBroadcaster) AddListener() chan JobEvent {
	ch := make(chan JobEvent, constants.EventChannelBuffer)
	b.mu.Lock()
	b.listeners = append(b.listeners, ch)
	b.mu.Unlock()
	return ch
}

// RemoveListener unregisters and closes ch.
func (b *EventBroadcaster) RemoveListener(ch chan JobEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i := slices.Index(b.listeners, ch); i >= 0 {
		b.listeners = slices.Delete(b.listeners, i, i+1)
		close(ch)
	}
}

// SendEvent delivers event to every listener with room in its buffer.
func (b *EventBroadcaster) SendEvent(event JobEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, listener := range b.listeners {
		select {
		case listener <- event:
		default:
		}
	}
}

func (b *EventBroadcaster) setCancel(cancel context.CancelFunc) {
	b.mu.Lock()
	b.cancel = cancel
	b.mu.Unlock()
}

// SSEJob is what streamSSEEvents needs from a job.
type SSEJob interface {
	AddListener() chan JobEvent
	RemoveListener(ch chan JobEvent)
	GetStatus() JobStatus
}

// JobManager keeps export jobs until they are deleted or the server stops.
type JobManager struct {
	jobs map[string]*ExportJob
	mu   sync.RWMutex
}

// NewJobManager creates an empty job manager.
func NewJobManager() *JobManager {
	return &JobManager{jobs: make(map[string]*ExportJob)}
}

// ErrExportInProgress is returned when a new export is requested while another
// one has not finished writing.
var ErrExportInProgress = errors.New("an export is already in progress")

// CreateJob registers a pending export of total images. Only one export may
// be unfinished at a time; a cancelled job still counts until its current
// image is written.
func (m *JobManager) CreateJob(id string, total int, opts export.Options) (*ExportJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, job := range m.jobs {
		if job.active() {
			return nil, ErrExportInProgress
		}
	}

	job := &ExportJob{
		ExportJobStatus: ExportJobStatus{
			ID:          id,
			Status:      JobStatusPending,
			Total:       total,
			OutputDir:   opts.OutputDir,
			Constrained: opts.Constrained,
			StartedAt:   time.Now(),
		},
	}
	m.jobs[id] = job
	return job, nil
}

// GetJob returns the job with id, or nil.
func (m *JobManager) GetJob(id string) *ExportJob {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.jobs[id]
}

// DeleteJob forgets a job.
func (m *JobManager) DeleteJob(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.jobs, id)
}

// ListJobs returns all jobs, oldest first.
func (m *JobManager) ListJobs() []*ExportJob {
	m.mu.RLock()
	jobs := make([]*ExportJob, 0, len(m.jobs))
	for _, job := range m.jobs {
		jobs = append(jobs, job)
	}
	m.mu.RUnlock()

	slices.SortFunc(jobs, func(a, b *ExportJob) int {
		return a.StartedAt.Compare(b.StartedAt)
	})
	return jobs
}
