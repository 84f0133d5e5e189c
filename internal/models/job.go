package models

import "time"

type Job struct {
	ID        int       `db:"id"`
	FileName  string    `db:"file_name"` // original upload name, sanitized
	Status    string    `db:"status"`    // "processing", "done", "failed"
	Text      string    `db:"text"`
	CreatedAt time.Time `db:"created_at"`
}
