package infra

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Vovarama1992/scribe/internal/models"
	"github.com/Vovarama1992/scribe/internal/ports"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresJobRepo struct {
	pool *pgxpool.Pool
}

func trim(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}

func NewPostgresJobRepo(pool *pgxpool.Pool) ports.JobRepository {
	return &PostgresJobRepo{pool: pool}
}

func (r *PostgresJobRepo) InsertJob(ctx context.Context, job *models.Job) (*models.Job, error) {
	query := `
		INSERT INTO jobs (file_name, status)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	row := r.pool.QueryRow(ctx, query, job.FileName, job.Status)
	if err := row.Scan(&job.ID, &job.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}
	return job, nil
}

func (r *PostgresJobRepo) GetJobByID(ctx context.Context, id int) (*models.Job, error) {
	query := `
		SELECT id, file_name, status, COALESCE(text, ''), created_at
		FROM jobs
		WHERE id = $1
	`

	var j models.Job

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&j.ID,
		&j.FileName,
		&j.Status,
		&j.Text,
		&j.CreatedAt,
	)
	if err != nil {
		if err.Error() == "no rows in result set" {
			return nil, nil
		}
		return nil, fmt.Errorf("get job by id: %w", err)
	}

	return &j, nil
}

func (r *PostgresJobRepo) FinishJob(ctx context.Context, jobID int, status, text string) error {
	start := time.Now()

	query := `
		UPDATE jobs
		SET status = $1, text = $2
		WHERE id = $3
	`
	_, err := r.pool.Exec(ctx, query, status, text, jobID)
	if err != nil {
		return fmt.Errorf("finish job: %w", err)
	}

	log.Printf("[DB][FINISH] job=%d status=%s dur=%s", jobID, status, time.Since(start))
	return nil
}

func (r *PostgresJobRepo) GetJobHistory(ctx context.Context, jobID int) (string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT COALESCE(text, '')
         FROM job_chunks
         WHERE job_id=$1
         ORDER BY chunk_number ASC`,
		jobID,
	)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	var sb strings.Builder
	for rows.Next() {
		var txt string
		if err := rows.Scan(&txt); err != nil {
			return "", err
		}
		if txt != "" {
			sb.WriteString(txt)
			sb.WriteString(" ")
		}
	}

	return strings.TrimSpace(sb.String()), nil
}

func (r *PostgresJobRepo) InsertPendingChunk(
	ctx context.Context,
	jobID int,
	chunkNumber int,
	filePath string,
) (*models.JobChunk, error) {

	query := `
		INSERT INTO job_chunks (job_id, chunk_number, file_path, status)
		VALUES ($1, $2, $3, 'pending')
		RETURNING id
	`

	var c models.JobChunk
	err := r.pool.QueryRow(ctx, query, jobID, chunkNumber, filePath).Scan(&c.ID)
	if err != nil {
		return nil, fmt.Errorf("insert pending chunk: %w", err)
	}

	c.JobID = jobID
	c.ChunkNumber = chunkNumber
	c.FilePath = filePath
	c.Status = "pending"
	return &c, nil
}

func (r *PostgresJobRepo) CompleteChunk(
	ctx context.Context,
	jobID int,
	chunkNumber int,
	text string,
) error {

	query := `
		UPDATE job_chunks
		SET text = $1, status = 'done'
		WHERE job_id = $2 AND chunk_number = $3
	`
	_, err := r.pool.Exec(ctx, query, text, jobID, chunkNumber)
	if err != nil {
		return err
	}

	log.Printf("[DB][COMPLETE] job=%d chunk=%d text=%q", jobID, chunkNumber, trim(text, 120))
	return nil
}
