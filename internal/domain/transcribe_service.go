package domain

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Vovarama1992/scribe/internal/domain/stations"
	"github.com/Vovarama1992/scribe/internal/models"
	"github.com/Vovarama1992/scribe/internal/ports"
	"golang.org/x/sync/errgroup"
)

// MaxWorkers bounds concurrent chunk recognition. Four keeps memory
// under control on small instances while still hiding recognizer latency.
const MaxWorkers = 4

const noSpeechText = "No speech detected."

// effectful stations hide behind interfaces so the pipeline is
// testable without ffmpeg or a loaded model
type pcmDecoder interface {
	Run(ctx context.Context, filePath string) ([]byte, error)
}

type chunkRecognizer interface {
	Run(ctx context.Context, pcm []byte) (string, error)
}

type TranscribeService struct {
	repo ports.JobRepository

	s1 pcmDecoder
	s2 *stations.S2SplitChunks
	s3 *stations.S3PCMtoWAV
	s4 chunkRecognizer

	uploadDir string
	logDir    string

	events chan ports.ChunkEvent
}

func NewTranscribeService(
	repo ports.JobRepository,
	s1 pcmDecoder,
	s2 *stations.S2SplitChunks,
	s3 *stations.S3PCMtoWAV,
	s4 chunkRecognizer,
	uploadDir string,
	logDir string,
) *TranscribeService {
	return &TranscribeService{
		repo:      repo,
		s1:        s1,
		s2:        s2,
		s3:        s3,
		s4:        s4,
		uploadDir: uploadDir,
		logDir:    logDir,
		events:    make(chan ports.ChunkEvent, 100),
	}
}

func (t *TranscribeService) Events() <-chan ports.ChunkEvent { return t.events }

// ========================================================================
// TRANSCRIBE
// ========================================================================
// Transcribe runs the whole pipeline for one uploaded file and blocks
// until the transcript is ready. Chunk files live under uploadDir only
// while their chunk is in flight.
func (t *TranscribeService) Transcribe(
	ctx context.Context,
	filePath string,
	fileName string,
	roomID string,
) (*models.Job, error) {

	start := time.Now()

	job, err := t.repo.InsertJob(ctx, &models.Job{
		FileName: fileName,
		Status:   "processing",
	})
	if err != nil {
		return nil, err
	}

	logger, closeLog, err := t.newJobLogger(job.ID, roomID)
	if err != nil {
		return nil, err
	}
	defer closeLog()

	// chunk files go one by one; the job dir itself must not pile up
	defer func() { _ = os.Remove(t.jobDir(job.ID)) }()

	logger.Printf("[START] job=%d room=%s file=%s", job.ID, roomID, fileName)

	text, err := t.process(ctx, job.ID, roomID, filePath, logger)
	if err != nil {
		_ = t.repo.FinishJob(ctx, job.ID, "failed", "")
		t.events <- ports.ChunkEvent{JobID: job.ID, RoomID: roomID, Status: "error"}
		logger.Printf("[FAIL] job=%d err=%v", job.ID, err)
		return nil, err
	}

	if err := t.repo.FinishJob(ctx, job.ID, "done", text); err != nil {
		t.events <- ports.ChunkEvent{JobID: job.ID, RoomID: roomID, Status: "error"}
		logger.Printf("[DB][FAIL] job=%d err=%v", job.ID, err)
		return nil, err
	}

	job.Status = "done"
	job.Text = text

	t.events <- ports.ChunkEvent{JobID: job.ID, RoomID: roomID, Status: "done"}

	logger.Printf("[DONE] job=%d dur=%s", job.ID, time.Since(start))
	return job, nil
}

// ========================================================================
// PIPELINE
// ========================================================================
func (t *TranscribeService) process(
	ctx context.Context,
	jobID int,
	roomID string,
	filePath string,
	logger *log.Logger,
) (string, error) {

	pcm, err := t.s1.Run(ctx, filePath)
	if err != nil {
		logger.Printf("[S1][FAIL] job=%d err=%v", jobID, err)
		return "", fmt.Errorf("%w: %v", ErrBadAudio, err)
	}

	chunks := t.s2.Run(pcm)
	logger.Printf("[S2] job=%d chunks=%d", jobID, len(chunks))

	texts := make([]string, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(MaxWorkers)

	for i, chunk := range chunks {
		g.Go(func() error {
			txt, err := t.transcribeChunk(gctx, jobID, roomID, i+1, chunk, logger)
			if err != nil {
				return err
			}
			texts[i] = txt
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return "", err
	}

	full := strings.TrimSpace(strings.Join(nonEmpty(texts), " "))
	if full == "" {
		full = noSpeechText
	}

	return full, nil
}

// ========================================================================
// ONE CHUNK
// ========================================================================
func (t *TranscribeService) transcribeChunk(
	ctx context.Context,
	jobID int,
	roomID string,
	chunkNumber int,
	pcm []byte,
	logger *log.Logger,
) (string, error) {

	start := time.Now()

	chunkPath, err := t.writePendingChunk(ctx, jobID, chunkNumber, pcm, logger)
	if err != nil {
		logger.Printf("[PENDING][FAIL] job=%d chunk=%d err=%v", jobID, chunkNumber, err)
		return "", err
	}

	defer func() { _ = os.Remove(chunkPath) }()

	txt, err := t.s4.Run(ctx, pcm)
	if err != nil {
		logger.Printf("[S4][FAIL] job=%d chunk=%d err=%v", jobID, chunkNumber, err)
		_ = t.repo.CompleteChunk(ctx, jobID, chunkNumber, "")
		return "", err
	}

	if err := t.repo.CompleteChunk(ctx, jobID, chunkNumber, txt); err != nil {
		logger.Printf("[DB][FAIL] job=%d chunk=%d err=%v", jobID, chunkNumber, err)
		return "", err
	}

	if txt != "" {
		t.events <- ports.ChunkEvent{
			JobID:       jobID,
			ChunkNumber: chunkNumber,
			RoomID:      roomID,
			Text:        txt,
		}
	}

	logger.Printf("[CHUNK][DONE] job=%d chunk=%d dur=%s", jobID, chunkNumber, time.Since(start))
	return txt, nil
}

// writePendingChunk stores the chunk as a WAV file and registers the
// pending row, so an operator can replay a chunk that failed mid-flight.
func (t *TranscribeService) writePendingChunk(
	ctx context.Context,
	jobID int,
	chunkNumber int,
	pcm []byte,
	logger *log.Logger,
) (string, error) {

	dir := t.jobDir(jobID)
	_ = os.MkdirAll(dir, 0755)

	path := filepath.Join(dir, fmt.Sprintf("chunk_%d.wav", chunkNumber))

	if err := os.WriteFile(path, t.s3.Run(pcm), 0644); err != nil {
		return "", err
	}

	if _, err := t.repo.InsertPendingChunk(ctx, jobID, chunkNumber, path); err != nil {
		return "", err
	}

	logger.Printf("[PENDING] job=%d chunk=%d", jobID, chunkNumber)
	return path, nil
}

// ========================================================================
// HELPERS
// ========================================================================
func (t *TranscribeService) jobDir(jobID int) string {
	return filepath.Join(t.uploadDir, fmt.Sprintf("job_%d", jobID))
}

func (t *TranscribeService) newJobLogger(jobID int, roomID string) (*log.Logger, func(), error) {
	_ = os.MkdirAll(t.logDir, 0755)

	logName := fmt.Sprintf(
		"job_%d_room_%s_%s.log",
		jobID,
		roomID,
		time.Now().Format("2006-01-02T15-04-05"),
	)

	f, err := os.OpenFile(filepath.Join(t.logDir, logName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}

	logger := log.New(io.MultiWriter(os.Stdout, f), "", log.LstdFlags|log.Lmicroseconds)
	return logger, func() { _ = f.Close() }, nil
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
