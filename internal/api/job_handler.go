package api

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/tcrowley/dictate-api/internal/api/shared"
	"github.com/tcrowley/dictate-api/internal/domain"
	"github.com/tcrowley/dictate-api/internal/events"
	"github.com/tcrowley/dictate-api/internal/queue"
)

// maxUploadBytes bounds the in-memory portion of multipart parsing.
// Larger uploads spill to temporary files.
const maxUploadBytes = 32 << 20

// JobService defines the queue operations the handler depends on.
type JobService interface {
	Submit(audioPath string, opts domain.JobOptions, callback events.Subscriber) (uuid.UUID, error)
	GetJob(id uuid.UUID) (domain.Job, error)
	Status() queue.Status
}

// AudioSaver defines the payload storage operations the handler depends on.
type AudioSaver interface {
	SupportedFormat(filename string) bool
	Save(r io.Reader, filename string) (string, error)
	Remove(path string) error
}

// JobHandler handles job submission and status queries.
type JobHandler struct {
	jobs   JobService
	store  AudioSaver
	logger *slog.Logger
}

// NewJobHandler creates a new JobHandler with the given dependencies.
func NewJobHandler(jobs JobService, store AudioSaver, logger *slog.Logger) *JobHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &JobHandler{
		jobs:   jobs,
		store:  store,
		logger: logger.With(slog.String("component", "job_handler")),
	}
}

// SubmitJob handles POST /api/jobs.
// It accepts either a multipart form with an "audio" file field plus
// optional "language", "temperature" and "generate_summary" fields, or a
// JSON body naming a server-local audio path. The payload is stored (for
// uploads) and a transcription job is enqueued. Responds 202 on admission.
func (h *JobHandler) SubmitJob(w http.ResponseWriter, r *http.Request) {
	log := h.logger.With(slog.String("trace_id", shared.GetTraceID(r.Context())))

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		h.submitFromPath(w, r, log)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		log.Debug("failed to parse multipart form", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		log.Debug("missing audio file field", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Audio file is required")
		return
	}
	defer func() { _ = file.Close() }()

	req, err := parseJobForm(r)
	if err != nil {
		log.Debug("invalid job form field", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		log.Debug("job form validation failed", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	if !h.store.SupportedFormat(header.Filename) {
		log.Debug("unsupported audio format", slog.String("filename", header.Filename))
		shared.RespondWithError(w, r, http.StatusUnsupportedMediaType, "Unsupported audio format")
		return
	}

	path, err := h.store.Save(file, header.Filename)
	if err != nil {
		log.Error("failed to store audio payload", slog.String("error", err.Error()))
		HandleAPIError(w, r, err, "Failed to store audio file")
		return
	}

	opts := domain.JobOptions{
		Language:        req.Language,
		Temperature:     req.Temperature,
		GenerateSummary: req.GenerateSummary,
	}

	jobID, err := h.jobs.Submit(path, opts, nil)
	if err != nil {
		// The payload is orphaned if admission fails.
		if removeErr := h.store.Remove(path); removeErr != nil {
			log.Warn("failed to remove payload after rejected submission",
				slog.String("path", path),
				slog.String("error", removeErr.Error()))
		}
		log.Debug("job submission rejected", slog.String("error", err.Error()))
		HandleAPIError(w, r, err, "Failed to submit job")
		return
	}

	log.Info("job accepted",
		slog.String("job_id", jobID.String()),
		slog.String("filename", header.Filename),
		slog.Bool("generate_summary", opts.GenerateSummary))

	shared.RespondWithJSON(w, r, http.StatusAccepted, SubmitJobResponse{
		JobID:  jobID,
		Status: string(domain.JobStatusQueued),
	})
}

// submitFromPath enqueues a job for an audio file already on the server's
// filesystem. The queue removes the file after processing, same as uploads.
func (h *JobHandler) submitFromPath(w http.ResponseWriter, r *http.Request, log *slog.Logger) {
	var req SubmitJobPathRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Debug("failed to decode submission body", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		log.Debug("submission validation failed", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	if !h.store.SupportedFormat(req.AudioPath) {
		log.Debug("unsupported audio format", slog.String("path", req.AudioPath))
		shared.RespondWithError(w, r, http.StatusUnsupportedMediaType, "Unsupported audio format")
		return
	}

	opts := domain.JobOptions{
		Language:        req.Language,
		Temperature:     req.Temperature,
		GenerateSummary: req.GenerateSummary,
	}

	jobID, err := h.jobs.Submit(req.AudioPath, opts, nil)
	if err != nil {
		log.Debug("job submission rejected", slog.String("error", err.Error()))
		HandleAPIError(w, r, err, "Failed to submit job")
		return
	}

	log.Info("job accepted",
		slog.String("job_id", jobID.String()),
		slog.String("path", req.AudioPath),
		slog.Bool("generate_summary", opts.GenerateSummary))

	shared.RespondWithJSON(w, r, http.StatusAccepted, SubmitJobResponse{
		JobID:  jobID,
		Status: string(domain.JobStatusQueued),
	})
}

// GetJob handles GET /api/jobs/{id}.
// It returns the current snapshot of the job, including results for
// completed jobs and the error message for failed ones.
func (h *JobHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	log := h.logger.With(slog.String("trace_id", shared.GetTraceID(r.Context())))

	id, err := getPathUUID(r, "id")
	if err != nil {
		log.Debug("invalid job id in path", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid job ID")
		return
	}

	job, err := h.jobs.GetJob(id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newJobResponse(job))
}

// QueueStatus handles GET /api/queue/status.
func (h *JobHandler) QueueStatus(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, newQueueStatusResponse(h.jobs.Status()))
}

// parseJobForm extracts the optional job option fields from the multipart
// form. Field-level type errors are reported with the offending field name.
func parseJobForm(r *http.Request) (SubmitJobRequest, error) {
	req := SubmitJobRequest{
		Language: r.FormValue("language"),
	}

	if raw := r.FormValue("temperature"); raw != "" {
		temperature, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return req, errInvalidField("temperature")
		}
		req.Temperature = temperature
	}

	if raw := r.FormValue("generate_summary"); raw != "" {
		generateSummary, err := strconv.ParseBool(raw)
		if err != nil {
			return req, errInvalidField("generate_summary")
		}
		req.GenerateSummary = generateSummary
	}

	return req, nil
}
