package repository

import (
	"context"
	"time"

	"feedmill/internal/model"

	"gorm.io/gorm"
)

type MonthlyPriceRepository interface {
	Create(ctx context.Context, p *model.MonthlyPrice) error
	List(ctx context.Context, month *time.Time) ([]model.MonthlyPrice, error)
}

type monthlyPriceRepo struct{ db *gorm.DB }

func NewMonthlyPriceRepository(db *gorm.DB) MonthlyPriceRepository {
	return &monthlyPriceRepo{db: db}
}

func (r *monthlyPriceRepo) Create(ctx context.Context, p *model.MonthlyPrice) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *monthlyPriceRepo) List(ctx context.Context, month *time.Time) ([]model.MonthlyPrice, error) {
	q := r.db.WithContext(ctx).Preload("Material")
	if month != nil {
		q = q.Where("price_month = ?", *month)
	}
	var prices []model.MonthlyPrice
	err := q.Order("price_month DESC").Find(&prices).Error
	return prices, err
}
