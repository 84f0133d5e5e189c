package delivery

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/scribe/internal/ports"
	"github.com/go-chi/chi/v5"
)

type JobHandler struct {
	jobs ports.JobRepository
	log  *logger.ZapLogger
}

func NewJobHandler(jobs ports.JobRepository, log *logger.ZapLogger) *JobHandler {
	return &JobHandler{
		jobs: jobs,
		log:  log,
	}
}

// GET /api/jobs/{id}
func (h *JobHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	if idStr == "" {
		writeError(w, http.StatusBadRequest, "missing id")
		return
	}

	id, err := strconv.Atoi(idStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	job, err := h.jobs.GetJobByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed get job: "+err.Error())
		return
	}
	if job == nil {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}

	text := job.Text
	if text == "" {
		// still processing: assemble whatever chunks already landed
		text, err = h.jobs.GetJobHistory(r.Context(), id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed get history: "+err.Error())
			return
		}
	}

	h.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "job fetched",
		Fields: map[string]any{
			"jobID":  id,
			"status": job.Status,
			"length": len(text),
		},
	})

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"jobId":  job.ID,
		"status": job.Status,
		"file":   job.FileName,
		"text":   text,
	})
}
