package repository

import (
	"context"

	"feedmill/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ImportJobRepository deliberately has no Tx variants: job rows must survive
// the rollback of a failed import so every attempt stays auditable.
type ImportJobRepository interface {
	Create(ctx context.Context, job *model.ImportJob) error
	Exists(ctx context.Context, sourceName, fileHash string) (bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, message string) error
	ListLatest(ctx context.Context, limit int) ([]model.ImportJob, error)
}

type importJobRepo struct{ db *gorm.DB }

func NewImportJobRepository(db *gorm.DB) ImportJobRepository {
	return &importJobRepo{db: db}
}

func (r *importJobRepo) Create(ctx context.Context, job *model.ImportJob) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *importJobRepo) Exists(ctx context.Context, sourceName, fileHash string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ImportJob{}).
		Where("source_name = ? AND file_hash = ?", sourceName, fileHash).
		Count(&count).Error
	return count > 0, err
}

func (r *importJobRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string, message string) error {
	return r.db.WithContext(ctx).Model(&model.ImportJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "message": message}).Error
}

func (r *importJobRepo) ListLatest(ctx context.Context, limit int) ([]model.ImportJob, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	var jobs []model.ImportJob
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&jobs).Error
	return jobs, err
}
