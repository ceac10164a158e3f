// Package apierror provides the typed domain errors raised by the workflow
// services plus standardized error response structures for the API. All errors
// returned to clients go through this package to ensure consistency and to
// prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// FieldValidationError wraps multiple field errors from request binding.
type FieldValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewFieldValidation(fields map[string]string) *FieldValidationError {
	return &FieldValidationError{Detail: "validation error", Fields: fields}
}
