package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BatchItem is one material consumption line inside a production batch.
// IsZeroLoaded is frozen at import time; the correction fields are written
// exactly once by the fix workflow and never touched again.
type BatchItem struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductionBatchID uuid.UUID `gorm:"type:uuid;not null;index"`
	MaterialID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_batch_items_dedup,priority:2"`
	BatchCode         string    `gorm:"not null;uniqueIndex:idx_batch_items_dedup,priority:1"`
	StartTime         *string   `gorm:"type:time;uniqueIndex:idx_batch_items_dedup,priority:3"`

	TargetWeight decimal.Decimal  `gorm:"type:decimal(12,3);not null"`
	LoadedWeight decimal.Decimal  `gorm:"type:decimal(12,3);not null"`
	ErrorPercent *decimal.Decimal `gorm:"type:decimal(8,3)"`
	IsZeroLoaded bool             `gorm:"not null;default:false"`

	CorrectedWeight *decimal.Decimal `gorm:"type:decimal(12,3)"`
	CorrectionNote  *string
	CorrectedBy     *string
	CorrectedAt     *time.Time

	Material *Material `gorm:"foreignKey:MaterialID"`
}

func (BatchItem) TableName() string { return "batch_items" }
