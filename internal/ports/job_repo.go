package ports

import (
	"context"

	"github.com/Vovarama1992/scribe/internal/models"
)

type JobRepository interface {
	InsertJob(ctx context.Context, job *models.Job) (*models.Job, error)
	GetJobByID(ctx context.Context, id int) (*models.Job, error)
	FinishJob(ctx context.Context, jobID int, status, text string) error
	GetJobHistory(ctx context.Context, jobID int) (string, error)

	InsertPendingChunk(ctx context.Context, jobID int, chunkNumber int, filePath string) (*models.JobChunk, error)
	CompleteChunk(ctx context.Context, jobID int, chunkNumber int, text string) error
}
