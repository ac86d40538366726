package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the processing state of a transcription job
type JobStatus string

// Possible job status values
const (
	JobStatusQueued      JobStatus = "queued"
	JobStatusProcessing  JobStatus = "processing"
	JobStatusSummarizing JobStatus = "summarizing"
	JobStatusCompleted   JobStatus = "completed"
	JobStatusFailed      JobStatus = "failed"
)

// Common validation errors for Job
var (
	ErrEmptyJobID            = errors.New("job ID cannot be empty")
	ErrEmptyAudioPath        = errors.New("job audio path cannot be empty")
	ErrInvalidJobStatus      = errors.New("invalid job status")
	ErrInvalidJobTransition  = errors.New("invalid job status transition")
	ErrTemperatureOutOfRange = errors.New("temperature must be between 0.0 and 1.0")
)

// JobOptions holds the caller-supplied transcription parameters.
// Options are immutable once the job has been submitted.
type JobOptions struct {
	Language        string  `json:"language"`
	Temperature     float64 `json:"temperature"`
	GenerateSummary bool    `json:"generate_summary"`
}

// Validate checks the option constraints enforced at submission time.
func (o JobOptions) Validate() error {
	if o.Temperature < 0.0 || o.Temperature > 1.0 {
		return ErrTemperatureOutOfRange
	}
	return nil
}

// JobResult holds the output of a successfully completed job.
type JobResult struct {
	Transcription string  `json:"transcription"`
	Summary       string  `json:"summary,omitempty"`
	Language      string  `json:"language"`
	Duration      float64 `json:"duration"`
}

// Job represents one submitted transcription request and its tracked
// lifecycle. The record is created at submission, mutated only by the
// executor that owns it while active, and read-only once terminal.
type Job struct {
	ID        uuid.UUID  `json:"id"`
	Status    JobStatus  `json:"status"`
	AudioPath string     `json:"-"`
	Options   JobOptions `json:"options"`
	Progress  int        `json:"progress"`
	CreatedAt time.Time  `json:"created_at"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	// CompletedAt is the terminal timestamp for both completed and failed jobs.
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Result      *JobResult `json:"result,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// NewJob creates a Job in queued state with a fresh identifier.
// Returns an error if validation fails.
func NewJob(audioPath string, options JobOptions) (*Job, error) {
	job := &Job{
		ID:        uuid.New(),
		Status:    JobStatusQueued,
		AudioPath: audioPath,
		Options:   options,
		Progress:  0,
		CreatedAt: time.Now().UTC(),
	}

	if err := job.Validate(); err != nil {
		return nil, err
	}

	return job, nil
}

// Validate checks if the Job has valid data.
func (j *Job) Validate() error {
	if j.ID == uuid.Nil {
		return ErrEmptyJobID
	}

	if j.AudioPath == "" {
		return ErrEmptyAudioPath
	}

	if !isValidJobStatus(j.Status) {
		return ErrInvalidJobStatus
	}

	return j.Options.Validate()
}

// Transition moves the job to a new status, enforcing the allowed state
// machine edges. Progress is reset to 0 when entering a new active stage.
// Returns an error if the transition is illegal.
func (j *Job) Transition(to JobStatus) error {
	if !isValidJobStatus(to) {
		return ErrInvalidJobStatus
	}
	if !isValidTransition(j.Status, to) {
		return ErrInvalidJobTransition
	}

	now := time.Now().UTC()
	switch to {
	case JobStatusProcessing:
		j.StartedAt = &now
		j.Progress = 0
	case JobStatusSummarizing:
		j.Progress = 0
	case JobStatusCompleted:
		j.CompletedAt = &now
		j.Progress = 100
	case JobStatusFailed:
		j.CompletedAt = &now
	}

	j.Status = to
	return nil
}

// IsTerminal reports whether the job has reached a final state.
func (j *Job) IsTerminal() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}

// Snapshot returns a deep copy of the job that callers may hold without
// observing further mutation by the executor.
func (j *Job) Snapshot() Job {
	snap := *j
	if j.StartedAt != nil {
		t := *j.StartedAt
		snap.StartedAt = &t
	}
	if j.CompletedAt != nil {
		t := *j.CompletedAt
		snap.CompletedAt = &t
	}
	if j.Result != nil {
		r := *j.Result
		snap.Result = &r
	}
	return snap
}

// isValidJobStatus checks if the given status is a valid JobStatus.
func isValidJobStatus(status JobStatus) bool {
	switch status {
	case JobStatusQueued, JobStatusProcessing, JobStatusSummarizing,
		JobStatusCompleted, JobStatusFailed:
		return true
	default:
		return false
	}
}

// isValidTransition enforces the allowed job state machine edges.
// queued is the only initial state; completed and failed are terminal.
func isValidTransition(from, to JobStatus) bool {
	switch from {
	case JobStatusQueued:
		return to == JobStatusProcessing
	case JobStatusProcessing:
		return to == JobStatusSummarizing || to == JobStatusCompleted || to == JobStatusFailed
	case JobStatusSummarizing:
		return to == JobStatusCompleted || to == JobStatusFailed
	default:
		return false
	}
}
