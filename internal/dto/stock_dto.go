package dto

import "github.com/shopspring/decimal"

// StockOverviewFilter is bound from the query string of GET /v1/stocks.
type StockOverviewFilter struct {
	Query        string `form:"q"`
	OnlyCritical bool   `form:"only_critical"`
}

// StockOverviewRow is one material with its folded stock level.
type StockOverviewRow struct {
	MaterialID     string          `json:"material_id"`
	MaterialCode   string          `json:"material_code"`
	MaterialName   string          `json:"material_name"`
	Unit           string          `json:"unit"`
	CurrentStock   decimal.Decimal `json:"current_stock"`
	MinStockLevel  decimal.Decimal `json:"min_stock_level"`
	LastMovementAt *string         `json:"last_movement_at"`
}

type StockOverviewResponse struct {
	Data []StockOverviewRow `json:"data"`
}

// CurrentStockResponse is the reply of GET /v1/stocks/:materialId.
type CurrentStockResponse struct {
	MaterialID   string          `json:"material_id"`
	CurrentStock decimal.Decimal `json:"current_stock"`
}

// MovementFilter is bound from the query string of GET /v1/movements.
type MovementFilter struct {
	MaterialID string `form:"material_id" validate:"omitempty,uuid"`
	Type       string `form:"type"        validate:"omitempty,oneof=IN OUT_PRODUCTION OUT_CORRECTION ADJUSTMENT"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=100" validate:"min=1,max=500"`
}

type MovementResponse struct {
	ID            string          `json:"id"`
	MaterialID    string          `json:"material_id"`
	MaterialName  string          `json:"material_name,omitempty"`
	Type          string          `json:"type"`
	Reason        string          `json:"reason"`
	Quantity      decimal.Decimal `json:"quantity"`
	MovementAt    string          `json:"movement_at"`
	ReferenceType string          `json:"reference_type"`
	ReferenceID   *string         `json:"reference_id"`
	Note          *string         `json:"note"`
}

type MovementListResponse struct {
	Data  []MovementResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
