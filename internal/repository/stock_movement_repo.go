package repository

import (
	"context"
	"time"

	"feedmill/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockMovementFilter defines filters for listing movements.
type StockMovementFilter struct {
	MaterialID *uuid.UUID
	Type       string
	Page       int
	Limit      int
}

// StockOverviewRow is the folded stock picture of one material.
type StockOverviewRow struct {
	MaterialID     uuid.UUID
	Code           string
	Name           string
	Unit           string
	MinStockLevel  decimal.Decimal
	CurrentStock   decimal.Decimal
	LastMovementAt *time.Time
}

// StockMovementRepository is the append-only ledger store. There is no update
// or delete in this contract and there never will be.
type StockMovementRepository interface {
	CreateTx(tx *gorm.DB, m *model.StockMovement) error
	SumByTypes(ctx context.Context, materialID uuid.UUID, types []string) (decimal.Decimal, error)
	SumByTypesTx(tx *gorm.DB, materialID uuid.UUID, types []string) (decimal.Decimal, error)
	List(ctx context.Context, filter StockMovementFilter) ([]model.StockMovement, int64, error)
	Overview(ctx context.Context, query string) ([]StockOverviewRow, error)
}

type stockMovementRepo struct{ db *gorm.DB }

func NewStockMovementRepository(db *gorm.DB) StockMovementRepository {
	return &stockMovementRepo{db: db}
}

func (r *stockMovementRepo) CreateTx(tx *gorm.DB, m *model.StockMovement) error {
	return tx.Create(m).Error
}

func sumByTypes(db *gorm.DB, materialID uuid.UUID, types []string) (decimal.Decimal, error) {
	var total decimal.Decimal
	row := db.Model(&model.StockMovement{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("material_id = ? AND type IN ?", materialID, types).
		Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (r *stockMovementRepo) SumByTypes(ctx context.Context, materialID uuid.UUID, types []string) (decimal.Decimal, error) {
	return sumByTypes(r.db.WithContext(ctx), materialID, types)
}

func (r *stockMovementRepo) SumByTypesTx(tx *gorm.DB, materialID uuid.UUID, types []string) (decimal.Decimal, error) {
	return sumByTypes(tx, materialID, types)
}

func (r *stockMovementRepo) List(ctx context.Context, filter StockMovementFilter) ([]model.StockMovement, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.StockMovement{}).
		Preload("Material")
	if filter.MaterialID != nil {
		q = q.Where("material_id = ?", *filter.MaterialID)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}
	offset := (page - 1) * limit

	var movements []model.StockMovement
	err := q.Order("movement_at DESC, created_at DESC").Offset(offset).Limit(limit).Find(&movements).Error
	return movements, total, err
}

// Overview folds the whole ledger per material in one query: IN and
// ADJUSTMENT add, OUT_PRODUCTION and OUT_CORRECTION subtract. Materials
// without movements appear with zero stock.
func (r *stockMovementRepo) Overview(ctx context.Context, query string) ([]StockOverviewRow, error) {
	rows := []StockOverviewRow{}
	q := r.db.WithContext(ctx).
		Table("materials").
		Select(`materials.id AS material_id,
			materials.code,
			materials.name,
			materials.unit,
			materials.min_stock_level,
			COALESCE(SUM(CASE
				WHEN stock_movements.type IN ('IN', 'ADJUSTMENT') THEN stock_movements.quantity
				WHEN stock_movements.type IN ('OUT_PRODUCTION', 'OUT_CORRECTION') THEN -stock_movements.quantity
				ELSE 0
			END), 0) AS current_stock,
			MAX(stock_movements.movement_at) AS last_movement_at`).
		Joins("LEFT JOIN stock_movements ON stock_movements.material_id = materials.id").
		Where("materials.active = true").
		Group("materials.id, materials.code, materials.name, materials.unit, materials.min_stock_level").
		Order("materials.name ASC")
	if query != "" {
		q = q.Where("materials.name ILIKE ?", "%"+query+"%")
	}
	err := q.Scan(&rows).Error
	return rows, err
}
