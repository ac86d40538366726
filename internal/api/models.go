package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/tcrowley/dictate-api/internal/domain"
	"github.com/tcrowley/dictate-api/internal/queue"
)

// timeFormat is the timestamp layout used in API responses.
const timeFormat = time.RFC3339Nano

// Common request/response structures

// SubmitJobRequest defines the form fields accepted by the job submission
// endpoint alongside the uploaded audio file.
type SubmitJobRequest struct {
	Language        string  `json:"language"         validate:"omitempty,max=16"`
	Temperature     float64 `json:"temperature"      validate:"gte=0,lte=1"`
	GenerateSummary bool    `json:"generate_summary"`
}

// SubmitJobPathRequest defines the JSON payload for submitting a job whose
// audio payload already lives on the server's filesystem.
type SubmitJobPathRequest struct {
	AudioPath       string  `json:"audio_path"       validate:"required"`
	Language        string  `json:"language"         validate:"omitempty,max=16"`
	Temperature     float64 `json:"temperature"      validate:"gte=0,lte=1"`
	GenerateSummary bool    `json:"generate_summary"`
}

// SubmitJobResponse defines the successful response for the job submission
// endpoint. The job is accepted, not yet processed.
type SubmitJobResponse struct {
	JobID  uuid.UUID `json:"job_id"`
	Status string    `json:"status"`
}

// JobResponse defines the representation of a job returned by status
// queries. It mirrors the job record minus the server-side audio path.
type JobResponse struct {
	ID          uuid.UUID          `json:"id"`
	Status      string             `json:"status"`
	Progress    int                `json:"progress"`
	Options     domain.JobOptions  `json:"options"`
	CreatedAt   string             `json:"created_at"`
	StartedAt   string             `json:"started_at,omitempty"`
	CompletedAt string             `json:"completed_at,omitempty"`
	Result      *JobResultResponse `json:"result,omitempty"`
	Error       string             `json:"error,omitempty"`
}

// JobResultResponse carries the transcription output for completed jobs.
type JobResultResponse struct {
	Transcription string  `json:"transcription"`
	Summary       string  `json:"summary,omitempty"`
	Language      string  `json:"language"`
	Duration      float64 `json:"duration"`
}

// QueueStatusResponse reports the queue's current occupancy.
type QueueStatusResponse struct {
	Queued        int `json:"queued"`
	Active        int `json:"active"`
	MaxConcurrent int `json:"max_concurrent"`
}

// newJobResponse converts a job snapshot into its API representation.
func newJobResponse(job domain.Job) JobResponse {
	resp := JobResponse{
		ID:        job.ID,
		Status:    string(job.Status),
		Progress:  job.Progress,
		Options:   job.Options,
		CreatedAt: job.CreatedAt.Format(timeFormat),
		Error:     job.Error,
	}
	if job.StartedAt != nil {
		resp.StartedAt = job.StartedAt.Format(timeFormat)
	}
	if job.CompletedAt != nil {
		resp.CompletedAt = job.CompletedAt.Format(timeFormat)
	}
	if job.Result != nil {
		resp.Result = &JobResultResponse{
			Transcription: job.Result.Transcription,
			Summary:       job.Result.Summary,
			Language:      job.Result.Language,
			Duration:      job.Result.Duration,
		}
	}
	return resp
}

// newQueueStatusResponse converts queue occupancy into its API representation.
func newQueueStatusResponse(status queue.Status) QueueStatusResponse {
	return QueueStatusResponse{
		Queued:        status.QueuedCount,
		Active:        status.ActiveCount,
		MaxConcurrent: status.MaxConcurrent,
	}
}
