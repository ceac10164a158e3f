package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MonthlyPrice is the accounting unit price of a material for one month.
// PriceMonth is normalized to the first day of the month.
type MonthlyPrice struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MaterialID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_monthly_prices_material_month,priority:1"`
	PriceMonth time.Time       `gorm:"type:date;not null;uniqueIndex:idx_monthly_prices_material_month,priority:2"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	CreatedAt  time.Time

	Material *Material `gorm:"foreignKey:MaterialID"`
}

func (MonthlyPrice) TableName() string { return "monthly_prices" }
