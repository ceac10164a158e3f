package dto

import "github.com/shopspring/decimal"

// InternalAnalysisFields is the limited field set the intake lab may record.
// Shared between the standalone internal-analysis endpoint and the inline
// analysis block of an acceptance.
type InternalAnalysisFields struct {
	ForeignMatter *string          `json:"foreign_matter" validate:"omitempty,oneof=PRESENT ABSENT"`
	DustLevel     *string          `json:"dust_level"     validate:"omitempty,oneof=LOW HIGH"`
	Remarks       *string          `json:"remarks"        validate:"omitempty,max=2000"`
	CheckedBy     *string          `json:"checked_by"     validate:"omitempty,max=120"`
	Moisture      *decimal.Decimal `json:"moisture"       validate:"omitempty"`
	Hectoliter    *decimal.Decimal `json:"hectoliter"     validate:"omitempty"`
	AflatoxinPPB  *decimal.Decimal `json:"aflatoxin_ppb"  validate:"omitempty"`
	Zearalenone   *decimal.Decimal `json:"zearalenone"    validate:"omitempty"`
}

// CreateInternalAnalysisRequest is the body of POST /v1/analyses/internal.
type CreateInternalAnalysisRequest struct {
	AcceptanceID string `json:"acceptance_id" validate:"required,uuid"`
	InternalAnalysisFields
}

// CreateExternalAnalysisRequest is the body of POST /v1/analyses/external.
// Adds the lab composition fields on top of the internal set.
type CreateExternalAnalysisRequest struct {
	AcceptanceID string `json:"acceptance_id" validate:"required,uuid"`
	InternalAnalysisFields

	DryMatterPct    *decimal.Decimal `json:"dry_matter_pct"`
	CrudeProteinPct *decimal.Decimal `json:"crude_protein_pct"`
	StarchPct       *decimal.Decimal `json:"starch_pct"`
	NDFPct          *decimal.Decimal `json:"ndf_pct"`
	ADFPct          *decimal.Decimal `json:"adf_pct"`
	AshPct          *decimal.Decimal `json:"ash_pct"`
	FatPct          *decimal.Decimal `json:"fat_pct"`
	OtherMycotoxins *string          `json:"other_mycotoxins" validate:"omitempty,max=2000"`
	LabName         *string          `json:"lab_name"         validate:"omitempty,max=120"`
	ReportNo        *string          `json:"report_no"        validate:"omitempty,max=80"`
	SampleNo        *string          `json:"sample_no"        validate:"omitempty,max=80"`
}

// AnalysisFilter is bound from the query string of GET /v1/analyses.
type AnalysisFilter struct {
	DateFrom      string `form:"date_from"      validate:"omitempty,datetime=2006-01-02"`
	DateTo        string `form:"date_to"        validate:"omitempty,datetime=2006-01-02"`
	MaterialID    string `form:"material_id"    validate:"omitempty,uuid"`
	Type          string `form:"type"           validate:"omitempty,oneof=INTERNAL EXTERNAL"`
	AflatoxinMin  string `form:"aflatoxin_min"  validate:"omitempty,numeric"`
	ForeignMatter string `form:"foreign_matter" validate:"omitempty,oneof=PRESENT ABSENT"`
}

type AnalysisResponse struct {
	ID           string  `json:"id"`
	AcceptanceID *string `json:"acceptance_id"`
	Date         string  `json:"date"`
	MaterialID   string  `json:"material_id"`
	MaterialName string  `json:"material_name,omitempty"`
	Plate        *string `json:"plate"`
	Company      *string `json:"company"`
	Type         string  `json:"type"`
	EnteredBy    string  `json:"entered_by"`
	EnteredAt    string  `json:"entered_at"`

	ForeignMatter *string          `json:"foreign_matter"`
	DustLevel     *string          `json:"dust_level"`
	Remarks       *string          `json:"remarks"`
	CheckedBy     *string          `json:"checked_by"`
	Moisture      *decimal.Decimal `json:"moisture"`
	Hectoliter    *decimal.Decimal `json:"hectoliter"`
	AflatoxinPPB  *decimal.Decimal `json:"aflatoxin_ppb"`
	Zearalenone   *decimal.Decimal `json:"zearalenone"`

	DryMatterPct    *decimal.Decimal `json:"dry_matter_pct,omitempty"`
	CrudeProteinPct *decimal.Decimal `json:"crude_protein_pct,omitempty"`
	StarchPct       *decimal.Decimal `json:"starch_pct,omitempty"`
	NDFPct          *decimal.Decimal `json:"ndf_pct,omitempty"`
	ADFPct          *decimal.Decimal `json:"adf_pct,omitempty"`
	AshPct          *decimal.Decimal `json:"ash_pct,omitempty"`
	FatPct          *decimal.Decimal `json:"fat_pct,omitempty"`
	OtherMycotoxins *string          `json:"other_mycotoxins,omitempty"`
	LabName         *string          `json:"lab_name,omitempty"`
	ReportNo        *string          `json:"report_no,omitempty"`
	SampleNo        *string          `json:"sample_no,omitempty"`
}

type AnalysisListResponse struct {
	Data []AnalysisResponse `json:"data"`
}
