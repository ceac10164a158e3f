package model

import (
	"time"

	"github.com/google/uuid"
)

// Batch lifecycle. OK and FIXED are terminal; SUSPICIOUS means at least one
// line was imported with zero loaded weight and awaits manual correction.
const (
	BatchOK         = "OK"
	BatchSuspicious = "SUSPICIOUS"
	BatchFixed      = "FIXED"
)

// ProductionBatch represents one production run from the batching computer.
// Its natural key is (batch code, date, start time); the import groups file
// rows into batches by that key.
type ProductionBatch struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BatchCode        string    `gorm:"not null;index"`
	BatchName        string    `gorm:"not null"`
	Date             time.Time `gorm:"type:date;not null;index"`
	StartTime        *string   `gorm:"type:time"`
	EndTime          *string   `gorm:"type:time"`
	Feeder           *string
	RecipeID         *string
	RecipeName       *string
	Status           string `gorm:"not null;default:'OK';index"`
	ZeroLoadedCount  int    `gorm:"not null;default:0"`
	SuspiciousReason *string
	CreatedAt        time.Time

	Items []BatchItem `gorm:"foreignKey:ProductionBatchID"`
}

func (ProductionBatch) TableName() string { return "production_batches" }
