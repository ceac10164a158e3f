package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Movement types. Direction is implied by the type; quantities are always
// stored positive.
const (
	MovementIn            = "IN"
	MovementOutProduction = "OUT_PRODUCTION"
	MovementOutCorrection = "OUT_CORRECTION"
	MovementAdjustment    = "ADJUSTMENT"
)

// Business reasons for a movement.
const (
	ReasonMaterialAcceptance = "MATERIAL_ACCEPTANCE"
	ReasonBatchConsumption   = "BATCH_CONSUMPTION"
	ReasonAdjustment         = "ADJUSTMENT"
)

// OutMovementTypes are the types that debit stock and therefore require the
// negative-stock check before persisting.
var OutMovementTypes = []string{MovementOutProduction, MovementOutCorrection}

// StockMovement is one immutable ledger entry. Rows are append-only: there is
// no update or delete path anywhere in the codebase, corrections are new
// movements, never edits.
type StockMovement struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MaterialID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_movements_material_at,priority:1"`
	Type          string          `gorm:"not null"`
	Reason        string          `gorm:"not null"`
	Quantity      decimal.Decimal `gorm:"type:decimal(12,3);not null;check:quantity > 0"`
	MovementAt    time.Time       `gorm:"not null;index:idx_stock_movements_material_at,priority:2"`
	ReferenceType string          `gorm:"not null"`
	ReferenceID   *uuid.UUID      `gorm:"type:uuid"`
	Note          *string
	CreatedAt     time.Time

	Material *Material `gorm:"foreignKey:MaterialID"`
}

func (StockMovement) TableName() string { return "stock_movements" }

// IsOut reports whether the movement type debits stock.
func IsOut(movementType string) bool {
	return movementType == MovementOutProduction || movementType == MovementOutCorrection
}
