package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Acceptance is one receiving event at the scale house. Creating one always
// produces exactly one IN movement referencing it. The composite unique index
// rejects a second submission of the same physical delivery.
type Acceptance struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AcceptedAt time.Time       `gorm:"not null;uniqueIndex:idx_acceptances_dedup,priority:1"`
	Plate      string          `gorm:"not null;uniqueIndex:idx_acceptances_dedup,priority:2"`
	MaterialID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_acceptances_dedup,priority:3"`
	Quantity   decimal.Decimal `gorm:"type:decimal(12,3);not null;uniqueIndex:idx_acceptances_dedup,priority:4"`
	Company    *string
	Note       *string
	CreatedAt  time.Time

	Material *Material `gorm:"foreignKey:MaterialID"`
}

func (Acceptance) TableName() string { return "acceptances" }
