package models

type JobChunk struct {
	ID          int    `db:"id"`
	JobID       int    `db:"job_id"`
	ChunkNumber int    `db:"chunk_number"`
	Text        string `db:"text"`
	FilePath    string `db:"file_path"`
	Status      string `db:"status"`
}
