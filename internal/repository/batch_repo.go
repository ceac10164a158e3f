package repository

import (
	"context"

	"feedmill/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BatchRepository interface {
	CreateBatchTx(tx *gorm.DB, b *model.ProductionBatch) error
	UpdateBatchTx(tx *gorm.DB, b *model.ProductionBatch) error
	CreateItemTx(tx *gorm.DB, item *model.BatchItem) error
	UpdateItemTx(tx *gorm.DB, item *model.BatchItem) error
	FindBatchByID(ctx context.Context, id uuid.UUID) (*model.ProductionBatch, error)
	FindItemByID(ctx context.Context, id uuid.UUID) (*model.BatchItem, error)
	// FindItemByIDForUpdateTx takes a row-level lock on the batch item. The
	// fix workflow must re-check the item through this lock; without it two
	// concurrent fixes can both see it uncorrected and double-debit stock.
	FindItemByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.BatchItem, error)
	ListSuspicious(ctx context.Context, limit int) ([]model.ProductionBatch, error)
	ZeroLoadedItems(ctx context.Context, batchID uuid.UUID) ([]model.BatchItem, error)
	// CountUncorrectedZeroTx counts zero-loaded items of the batch that still
	// have no corrected weight; the FIXED transition fires when it hits zero.
	CountUncorrectedZeroTx(tx *gorm.DB, batchID uuid.UUID) (int64, error)
	DB() *gorm.DB
}

type batchRepo struct{ db *gorm.DB }

func NewBatchRepository(db *gorm.DB) BatchRepository {
	return &batchRepo{db: db}
}

func (r *batchRepo) DB() *gorm.DB { return r.db }

func (r *batchRepo) CreateBatchTx(tx *gorm.DB, b *model.ProductionBatch) error {
	return tx.Create(b).Error
}

func (r *batchRepo) UpdateBatchTx(tx *gorm.DB, b *model.ProductionBatch) error {
	return tx.Save(b).Error
}

func (r *batchRepo) CreateItemTx(tx *gorm.DB, item *model.BatchItem) error {
	return tx.Create(item).Error
}

func (r *batchRepo) UpdateItemTx(tx *gorm.DB, item *model.BatchItem) error {
	return tx.Save(item).Error
}

func (r *batchRepo) FindBatchByID(ctx context.Context, id uuid.UUID) (*model.ProductionBatch, error) {
	var b model.ProductionBatch
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *batchRepo) FindItemByID(ctx context.Context, id uuid.UUID) (*model.BatchItem, error) {
	var item model.BatchItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *batchRepo) FindItemByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.BatchItem, error) {
	var item model.BatchItem
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *batchRepo) ListSuspicious(ctx context.Context, limit int) ([]model.ProductionBatch, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}
	var batches []model.ProductionBatch
	err := r.db.WithContext(ctx).
		Where("status = ?", model.BatchSuspicious).
		Order("date DESC, id DESC").
		Limit(limit).
		Find(&batches).Error
	return batches, err
}

func (r *batchRepo) ZeroLoadedItems(ctx context.Context, batchID uuid.UUID) ([]model.BatchItem, error) {
	var items []model.BatchItem
	err := r.db.WithContext(ctx).Preload("Material").
		Where("production_batch_id = ? AND is_zero_loaded = true", batchID).
		Order("batch_code ASC, start_time ASC").
		Find(&items).Error
	return items, err
}

func (r *batchRepo) CountUncorrectedZeroTx(tx *gorm.DB, batchID uuid.UUID) (int64, error) {
	var count int64
	err := tx.Model(&model.BatchItem{}).
		Where("production_batch_id = ? AND is_zero_loaded = true AND corrected_weight IS NULL", batchID).
		Count(&count).Error
	return count, err
}
