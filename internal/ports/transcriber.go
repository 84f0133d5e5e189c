package ports

import (
	"context"

	"github.com/Vovarama1992/scribe/internal/models"
)

type ChunkEvent struct {
	RoomID      string
	JobID       int
	ChunkNumber int
	Text        string
	Status      string // empty for chunk frames, "done"/"error" when the job ends
}

type Transcriber interface {
	Transcribe(ctx context.Context, filePath, fileName, roomID string) (*models.Job, error)
	Events() <-chan ChunkEvent
}
