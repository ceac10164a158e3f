package apierror

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Typed domain errors. Every workflow either completes its transaction or
// returns exactly one of these; anything else that escapes is treated as an
// internal failure by the error-handler middleware.

// AuthorizationError means the actor role is not on the allow-list for the
// attempted operation.
type AuthorizationError struct {
	Role      string
	Operation string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("role %s is not allowed to %s", e.Role, e.Operation)
}

// ValidationError is a business-rule violation carrying the specific reason.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func NewValidationf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// NotFoundError means a referenced entity does not exist.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string { return e.Entity + " not found" }

// NegativeStockError blocks an outbound movement that would take a material
// below zero. The movement is never persisted.
type NegativeStockError struct {
	MaterialID uuid.UUID
	Current    decimal.Decimal
	Requested  decimal.Decimal
	Projected  decimal.Decimal
}

func (e *NegativeStockError) Error() string {
	return fmt.Sprintf("negative stock blocked for material %s: current=%s, out=%s, projected=%s",
		e.MaterialID, e.Current.StringFixed(3), e.Requested.StringFixed(3), e.Projected.StringFixed(3))
}

// Import failure kinds.
const (
	ImportBadExtension     = "BAD_EXTENSION"
	ImportDuplicateFile    = "DUPLICATE_FILE"
	ImportMissingColumns   = "MISSING_COLUMNS"
	ImportEmptySheet       = "EMPTY_SHEET"
	ImportUnknownMaterials = "UNKNOWN_MATERIALS"
	ImportBadQuantity      = "BAD_QUANTITY"
	ImportStockConflict    = "STOCK_CONFLICT"
)

// ImportError is a file-level ingestion failure. Kind is one of the Import*
// constants above.
type ImportError struct {
	Kind   string
	Reason string
}

func (e *ImportError) Error() string { return e.Reason }

func NewImportf(kind, format string, args ...interface{}) *ImportError {
	return &ImportError{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}
