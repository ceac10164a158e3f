package dto

import "github.com/shopspring/decimal"

// ─── Import ──────────────────────────────────────────────────────────────────

// ImportSummary is the result of a successful batch-file import.
type ImportSummary struct {
	RowsProcessed          int `json:"rows_processed"`
	MovementsCreated       int `json:"movements_created"`
	SuspiciousBatchesCount int `json:"suspicious_batches_count"`
}

type ImportJobResponse struct {
	ID         string  `json:"id"`
	SourceName string  `json:"source_name"`
	FileName   string  `json:"file_name"`
	FileHash   string  `json:"file_hash"`
	Status     string  `json:"status"`
	Message    *string `json:"message"`
	CreatedAt  string  `json:"created_at"`
}

type ImportJobListResponse struct {
	Data []ImportJobResponse `json:"data"`
}

// ─── Suspicious batches / correction ────────────────────────────────────────

type BatchResponse struct {
	ID               string  `json:"id"`
	BatchCode        string  `json:"batch_code"`
	BatchName        string  `json:"batch_name"`
	Date             string  `json:"date"`
	StartTime        *string `json:"start_time"`
	EndTime          *string `json:"end_time"`
	Feeder           *string `json:"feeder"`
	RecipeID         *string `json:"recipe_id"`
	RecipeName       *string `json:"recipe_name"`
	Status           string  `json:"status"`
	ZeroLoadedCount  int     `json:"zero_loaded_count"`
	SuspiciousReason *string `json:"suspicious_reason"`
	CreatedAt        string  `json:"created_at"`
}

type BatchListResponse struct {
	Data []BatchResponse `json:"data"`
}

type BatchItemResponse struct {
	ID           string           `json:"id"`
	MaterialID   string           `json:"material_id"`
	MaterialName string           `json:"material_name,omitempty"`
	BatchCode    string           `json:"batch_code"`
	StartTime    *string          `json:"start_time"`
	TargetWeight decimal.Decimal  `json:"target_weight"`
	LoadedWeight decimal.Decimal  `json:"loaded_weight"`
	ErrorPercent *decimal.Decimal `json:"error_percent"`
	IsZeroLoaded bool             `json:"is_zero_loaded"`

	CorrectedWeight *decimal.Decimal `json:"corrected_weight"`
	CorrectionNote  *string          `json:"correction_note"`
	CorrectedBy     *string          `json:"corrected_by"`
	CorrectedAt     *string          `json:"corrected_at"`
}

// ZeroLoadedResponse is the batch plus only its zero-loaded lines.
type ZeroLoadedResponse struct {
	Batch BatchResponse       `json:"batch"`
	Items []BatchItemResponse `json:"items"`
}

// FixBatchItemRequest is the body of POST /v1/batches/:id/items/:itemId/fix.
// The note minimum forces a meaningful justification.
type FixBatchItemRequest struct {
	CorrectedWeight decimal.Decimal `json:"corrected_weight" validate:"required,gt=0"`
	Note            string          `json:"note"             validate:"required,min=15,max=2000"`
}
