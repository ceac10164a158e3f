package repository

import (
	"context"
	"time"

	"feedmill/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AcceptanceRepository interface {
	CreateTx(tx *gorm.DB, a *model.Acceptance) error
	// ExistsDuplicateTx checks the natural key of a physical delivery inside
	// the creating transaction, so a concurrent identical submission is
	// caught either here or by the unique index.
	ExistsDuplicateTx(tx *gorm.DB, acceptedAt time.Time, plate string, materialID uuid.UUID, quantity decimal.Decimal) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Acceptance, error)
	ListLatest(ctx context.Context, limit int) ([]model.Acceptance, error)
	DB() *gorm.DB
}

type acceptanceRepo struct{ db *gorm.DB }

func NewAcceptanceRepository(db *gorm.DB) AcceptanceRepository {
	return &acceptanceRepo{db: db}
}

func (r *acceptanceRepo) DB() *gorm.DB { return r.db }

func (r *acceptanceRepo) CreateTx(tx *gorm.DB, a *model.Acceptance) error {
	return tx.Create(a).Error
}

func (r *acceptanceRepo) ExistsDuplicateTx(tx *gorm.DB, acceptedAt time.Time, plate string, materialID uuid.UUID, quantity decimal.Decimal) (bool, error) {
	var count int64
	err := tx.Model(&model.Acceptance{}).
		Where("accepted_at = ? AND plate = ? AND material_id = ? AND quantity = ?",
			acceptedAt, plate, materialID, quantity).
		Count(&count).Error
	return count > 0, err
}

func (r *acceptanceRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Acceptance, error) {
	var a model.Acceptance
	if err := r.db.WithContext(ctx).Preload("Material").First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *acceptanceRepo) ListLatest(ctx context.Context, limit int) ([]model.Acceptance, error) {
	if limit < 1 || limit > 500 {
		limit = 50
	}
	var acceptances []model.Acceptance
	err := r.db.WithContext(ctx).Preload("Material").
		Order("accepted_at DESC, id DESC").
		Limit(limit).
		Find(&acceptances).Error
	return acceptances, err
}
