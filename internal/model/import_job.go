package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ImportPending = "PENDING"
	ImportSuccess = "SUCCESS"
	ImportFailed  = "FAILED"
)

// ImportJob records one file-ingestion attempt. The unique index on
// (source_name, file_hash) is what makes ingestion idempotent: the same file
// content is rejected no matter what the file is called.
type ImportJob struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SourceName string    `gorm:"not null;uniqueIndex:idx_import_jobs_source_hash,priority:1"`
	FileName   string    `gorm:"not null"`
	FileHash   string    `gorm:"size:64;not null;uniqueIndex:idx_import_jobs_source_hash,priority:2"`
	Status     string    `gorm:"not null;default:'PENDING'"`
	Message    *string
	CreatedAt  time.Time
}

func (ImportJob) TableName() string { return "import_jobs" }
