package repository

import (
	"context"
	"time"

	"feedmill/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AnalysisQuery holds parsed listing filters.
type AnalysisQuery struct {
	DateFrom      *time.Time
	DateTo        *time.Time
	MaterialID    *uuid.UUID
	Type          string
	AflatoxinMin  *decimal.Decimal
	ForeignMatter string
}

// analysisListCap bounds the analysis listing; the UI never pages past it.
const analysisListCap = 500

type AnalysisRepository interface {
	Create(ctx context.Context, a *model.AnalysisResult) error
	CreateTx(tx *gorm.DB, a *model.AnalysisResult) error
	ListFiltered(ctx context.Context, q AnalysisQuery) ([]model.AnalysisResult, error)
}

type analysisRepo struct{ db *gorm.DB }

func NewAnalysisRepository(db *gorm.DB) AnalysisRepository {
	return &analysisRepo{db: db}
}

func (r *analysisRepo) Create(ctx context.Context, a *model.AnalysisResult) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *analysisRepo) CreateTx(tx *gorm.DB, a *model.AnalysisResult) error {
	return tx.Create(a).Error
}

func (r *analysisRepo) ListFiltered(ctx context.Context, q AnalysisQuery) ([]model.AnalysisResult, error) {
	query := r.db.WithContext(ctx).Model(&model.AnalysisResult{}).Preload("Material")
	if q.DateFrom != nil {
		query = query.Where("date >= ?", *q.DateFrom)
	}
	if q.DateTo != nil {
		query = query.Where("date <= ?", *q.DateTo)
	}
	if q.MaterialID != nil {
		query = query.Where("material_id = ?", *q.MaterialID)
	}
	if q.Type != "" {
		query = query.Where("type = ?", q.Type)
	}
	if q.AflatoxinMin != nil {
		query = query.Where("aflatoxin_ppb >= ?", *q.AflatoxinMin)
	}
	if q.ForeignMatter != "" {
		query = query.Where("foreign_matter = ?", q.ForeignMatter)
	}

	var results []model.AnalysisResult
	err := query.Order("date DESC, entered_at DESC").Limit(analysisListCap).Find(&results).Error
	return results, err
}
