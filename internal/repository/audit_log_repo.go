package repository

import (
	"feedmill/internal/model"

	"gorm.io/gorm"
)

// AuditLogRepository is write-only by contract; the application never reads
// audit rows back.
type AuditLogRepository interface {
	CreateTx(tx *gorm.DB, entry *model.AuditLog) error
}

type auditLogRepo struct{ db *gorm.DB }

func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &auditLogRepo{db: db}
}

func (r *auditLogRepo) CreateTx(tx *gorm.DB, entry *model.AuditLog) error {
	return tx.Create(entry).Error
}
