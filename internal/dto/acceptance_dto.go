package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CreateAcceptanceRequest is the body of POST /v1/acceptances.
// AcceptedAt is RFC 3339; a missing zone is treated as UTC.
type CreateAcceptanceRequest struct {
	AcceptedAt string          `json:"accepted_at" validate:"required"`
	Plate      string          `json:"plate"       validate:"required,min=2,max=30"`
	MaterialID string          `json:"material_id" validate:"required,uuid"`
	Quantity   decimal.Decimal `json:"quantity"    validate:"required,gt=0"`
	Company    *string         `json:"company"     validate:"omitempty,max=150"`
	Note       *string         `json:"note"        validate:"omitempty,max=500"`

	// Optional intake quick checks recorded together with the acceptance.
	// Persisted only when at least one field is set.
	Analysis *InternalAnalysisFields `json:"analysis"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type AcceptanceResponse struct {
	ID           string          `json:"id"`
	AcceptedAt   string          `json:"accepted_at"`
	Plate        string          `json:"plate"`
	MaterialID   string          `json:"material_id"`
	MaterialName string          `json:"material_name,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	Company      *string         `json:"company"`
	Note         *string         `json:"note"`
	CreatedAt    string          `json:"created_at"`
}

type AcceptanceListResponse struct {
	Data []AcceptanceResponse `json:"data"`
}
