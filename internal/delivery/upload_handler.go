package delivery

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/scribe/internal/domain"
	"github.com/Vovarama1992/scribe/internal/ports"
	"github.com/google/uuid"
)

// gunicorn-era cap carried over: 300 MB per upload
const maxUploadBytes = 300 << 20

type UploadHandler struct {
	transcriber ports.Transcriber
	uploadDir   string
	maxBytes    int64
	log         *logger.ZapLogger
}

func NewUploadHandler(transcriber ports.Transcriber, uploadDir string, log *logger.ZapLogger) *UploadHandler {
	return &UploadHandler{
		transcriber: transcriber,
		uploadDir:   uploadDir,
		maxBytes:    maxUploadBytes,
		log:         log,
	}
}

// POST /upload
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, "No file selected")
		return
	}

	filePath, err := h.saveUpload(file, header.Filename)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}
	defer func() { _ = os.Remove(filePath) }()

	roomID := r.Header.Get("X-Room")
	if roomID == "" {
		roomID = "default"
	}

	job, err := h.transcriber.Transcribe(r.Context(), filePath, header.Filename, roomID)
	if err != nil {
		if errors.Is(err, domain.ErrBadAudio) {
			writeError(w, http.StatusBadRequest, "could not decode audio: "+err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "transcription failed")
		return
	}

	h.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "upload transcribed",
		Fields: map[string]any{
			"jobID":  job.ID,
			"file":   header.Filename,
			"length": len(job.Text),
		},
	})

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"jobId": job.ID,
		"text":  job.Text,
	})
}

// saveUpload writes the multipart part to the uploads dir under a
// random name so concurrent uploads of the same file never collide.
func (h *UploadHandler) saveUpload(src io.Reader, name string) (string, error) {
	_ = os.MkdirAll(h.uploadDir, 0755)

	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	path := filepath.Join(h.uploadDir, fmt.Sprintf("%s_%s%s",
		base, uuid.NewString()[:8], filepath.Ext(name)))

	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		_ = os.Remove(path)
		return "", err
	}

	return path, nil
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
