package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/scribe/internal/domain"
	"github.com/Vovarama1992/scribe/internal/models"
	"github.com/Vovarama1992/scribe/internal/ports"
	"go.uber.org/zap"
)

type stubTranscriber struct {
	text     string
	err      error
	lastRoom string
	lastName string
}

func (s *stubTranscriber) Transcribe(ctx context.Context, filePath, fileName, roomID string) (*models.Job, error) {
	s.lastRoom = roomID
	s.lastName = fileName
	if s.err != nil {
		return nil, s.err
	}
	return &models.Job{ID: 42, FileName: fileName, Status: "done", Text: s.text}, nil
}

func (s *stubTranscriber) Events() <-chan ports.ChunkEvent { return nil }

func testLogger() *logger.ZapLogger {
	return logger.NewZapLogger(zap.NewNop().Sugar())
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestUploadOK(t *testing.T) {
	stub := &stubTranscriber{text: "hello world"}
	h := NewUploadHandler(stub, t.TempDir(), testLogger())

	body, ctype := multipartBody(t, "file", "speech.mp3", []byte("fake-mp3-bytes"))
	req := httptest.NewRequest("POST", "/upload", body)
	req.Header.Set("Content-Type", ctype)
	req.Header.Set("X-Room", "room7")

	rec := httptest.NewRecorder()
	h.Upload(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		JobID int    `json:"jobId"`
		Text  string `json:"text"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Text != "hello world" || resp.JobID != 42 {
		t.Fatalf("unexpected response: %+v", resp)
	}

	if stub.lastRoom != "room7" {
		t.Fatalf("room not forwarded, got %q", stub.lastRoom)
	}
	if stub.lastName != "speech.mp3" {
		t.Fatalf("filename not forwarded, got %q", stub.lastName)
	}
}

func TestUploadMissingFile(t *testing.T) {
	h := NewUploadHandler(&stubTranscriber{}, t.TempDir(), testLogger())

	body, ctype := multipartBody(t, "wrongfield", "a.mp3", []byte("x"))
	req := httptest.NewRequest("POST", "/upload", body)
	req.Header.Set("Content-Type", ctype)

	rec := httptest.NewRecorder()
	h.Upload(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var resp map[string]string
	_ = json.NewDecoder(rec.Body).Decode(&resp)
	if resp["error"] == "" {
		t.Fatal("expected json error body")
	}
}

func TestUploadBadAudioIs400(t *testing.T) {
	stub := &stubTranscriber{err: fmt.Errorf("%w: garbage", domain.ErrBadAudio)}
	h := NewUploadHandler(stub, t.TempDir(), testLogger())

	body, ctype := multipartBody(t, "file", "notes.txt", []byte("plain text"))
	req := httptest.NewRequest("POST", "/upload", body)
	req.Header.Set("Content-Type", ctype)

	rec := httptest.NewRecorder()
	h.Upload(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUploadInternalErrorIs500(t *testing.T) {
	stub := &stubTranscriber{err: errors.New("db down")}
	h := NewUploadHandler(stub, t.TempDir(), testLogger())

	body, ctype := multipartBody(t, "file", "a.mp3", []byte("x"))
	req := httptest.NewRequest("POST", "/upload", body)
	req.Header.Set("Content-Type", ctype)

	rec := httptest.NewRecorder()
	h.Upload(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestUploadOverCapIs413(t *testing.T) {
	stub := &stubTranscriber{text: "never reached"}
	h := NewUploadHandler(stub, t.TempDir(), testLogger())
	h.maxBytes = 1024 // tiny cap so the test stays cheap

	body, ctype := multipartBody(t, "file", "big.mp3", make([]byte, 4096))
	req := httptest.NewRequest("POST", "/upload", body)
	req.Header.Set("Content-Type", ctype)

	rec := httptest.NewRecorder()
	h.Upload(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]string
	_ = json.NewDecoder(rec.Body).Decode(&resp)
	if resp["error"] == "" {
		t.Fatal("expected json error body")
	}

	if stub.lastName != "" {
		t.Fatal("transcriber must not run for oversized uploads")
	}
}

func TestUploadDefaultRoom(t *testing.T) {
	stub := &stubTranscriber{text: "t"}
	h := NewUploadHandler(stub, t.TempDir(), testLogger())

	body, ctype := multipartBody(t, "file", "a.mp3", []byte("x"))
	req := httptest.NewRequest("POST", "/upload", body)
	req.Header.Set("Content-Type", ctype)

	rec := httptest.NewRecorder()
	h.Upload(rec, req)

	if stub.lastRoom != "default" {
		t.Fatalf("expected default room, got %q", stub.lastRoom)
	}
}
