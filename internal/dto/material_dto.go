package dto

import "github.com/shopspring/decimal"

// CreateMaterialRequest is the body of POST /v1/materials.
type CreateMaterialRequest struct {
	Code          string          `json:"code"            validate:"required,min=1,max=30"`
	Name          string          `json:"name"            validate:"required,min=2,max=150"`
	Unit          string          `json:"unit"            validate:"omitempty,max=20"`
	MinStockLevel decimal.Decimal `json:"min_stock_level" validate:"min=0"`
}

type MaterialResponse struct {
	ID            string          `json:"id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Unit          string          `json:"unit"`
	MinStockLevel decimal.Decimal `json:"min_stock_level"`
	Active        bool            `json:"active"`
	CreatedAt     string          `json:"created_at"`
}

type MaterialListResponse struct {
	Data []MaterialResponse `json:"data"`
}

// ─── Monthly prices ─────────────────────────────────────────────────────────

// CreatePriceRequest is the body of POST /v1/prices. Month is YYYY-MM.
type CreatePriceRequest struct {
	MaterialID string          `json:"material_id" validate:"required,uuid"`
	Month      string          `json:"month"       validate:"required,datetime=2006-01"`
	UnitPrice  decimal.Decimal `json:"unit_price"  validate:"required,gt=0"`
}

type PriceResponse struct {
	ID           string          `json:"id"`
	MaterialID   string          `json:"material_id"`
	MaterialName string          `json:"material_name,omitempty"`
	Month        string          `json:"month"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	CreatedAt    string          `json:"created_at"`
}

type PriceListResponse struct {
	Data []PriceResponse `json:"data"`
}
