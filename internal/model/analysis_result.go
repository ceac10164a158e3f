package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	AnalysisInternal = "INTERNAL"
	AnalysisExternal = "EXTERNAL"
)

// Quick-check flags recorded at the intake lab.
const (
	ForeignMatterPresent = "PRESENT"
	ForeignMatterAbsent  = "ABSENT"

	DustLevelLow  = "LOW"
	DustLevelHigh = "HIGH"
)

// AnalysisResult is one quality-analysis entry for a delivery. Date, material,
// plate and company are copied from the parent acceptance at write time on
// purpose: the row reflects the delivery as it was, not as the acceptance may
// later look.
type AnalysisResult struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AcceptanceID *uuid.UUID `gorm:"type:uuid;index"`
	Date         time.Time  `gorm:"type:date;not null;index"`
	MaterialID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	Plate        *string
	Company      *string
	Type         string `gorm:"not null"`
	EnteredBy    string `gorm:"not null"` // role that recorded the entry
	EnteredAt    time.Time

	// Internal quick checks
	ForeignMatter *string
	DustLevel     *string
	Remarks       *string
	CheckedBy     *string
	Moisture      *decimal.Decimal `gorm:"type:decimal(10,3)"`
	Hectoliter    *decimal.Decimal `gorm:"type:decimal(10,3)"`
	AflatoxinPPB  *decimal.Decimal `gorm:"type:decimal(10,3)"`
	Zearalenone   *decimal.Decimal `gorm:"type:decimal(10,3)"`

	// External lab composition (EXTERNAL entries only)
	DryMatterPct    *decimal.Decimal `gorm:"type:decimal(10,3)"`
	CrudeProteinPct *decimal.Decimal `gorm:"type:decimal(10,3)"`
	StarchPct       *decimal.Decimal `gorm:"type:decimal(10,3)"`
	NDFPct          *decimal.Decimal `gorm:"type:decimal(10,3)"`
	ADFPct          *decimal.Decimal `gorm:"type:decimal(10,3)"`
	AshPct          *decimal.Decimal `gorm:"type:decimal(10,3)"`
	FatPct          *decimal.Decimal `gorm:"type:decimal(10,3)"`
	OtherMycotoxins *string
	LabName         *string
	ReportNo        *string
	SampleNo        *string

	Material *Material `gorm:"foreignKey:MaterialID"`
}

func (AnalysisResult) TableName() string { return "material_analysis_results" }
