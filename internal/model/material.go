package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Material is the master record for a trackable raw material.
// A material with movements is never deleted, only deactivated, because
// every stock movement references one.
type Material struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code          string          `gorm:"uniqueIndex;not null"`
	Name          string          `gorm:"index;not null"`
	Unit          string          `gorm:"not null;default:'kg'"`
	MinStockLevel decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	Active        bool            `gorm:"not null;default:true"`
	CreatedAt     time.Time
}

func (Material) TableName() string { return "materials" }
