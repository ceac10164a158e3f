package service

import (
	"strings"

	"feedmill/internal/apierror"
)

// Actor roles. The caller supplies the role as a trusted opaque string; this
// layer only authorizes, it never authenticates.
const (
	RoleAdmin      = "ADMIN"
	RoleAcceptance = "ACCEPTANCE"
)

// Gated operations.
const (
	OpCreateAcceptance       = "acceptance:create"
	OpCreateInternalAnalysis = "analysis:create_internal"
	OpCreateExternalAnalysis = "analysis:create_external"
	OpImportBatchFile        = "import:batch_file"
	OpFixBatchItem           = "batch:fix_item"
	OpManageMaterials        = "material:manage"
	OpManagePrices           = "price:manage"
)

var roleGrants = map[string]map[string]bool{
	RoleAdmin: {
		OpCreateAcceptance:       true,
		OpCreateInternalAnalysis: true,
		OpCreateExternalAnalysis: true,
		OpImportBatchFile:        true,
		OpFixBatchItem:           true,
		OpManageMaterials:        true,
		OpManagePrices:           true,
	},
	RoleAcceptance: {
		OpCreateAcceptance:       true,
		OpCreateInternalAnalysis: true,
	},
}

// NormalizeRole uppercases and trims an actor role string.
func NormalizeRole(role string) string {
	return strings.ToUpper(strings.TrimSpace(role))
}

// Allowed reports whether the role may perform the operation.
func Allowed(role, operation string) bool {
	return roleGrants[NormalizeRole(role)][operation]
}

// authorize is called at the top of every workflow method.
func authorize(role, operation string) error {
	if !Allowed(role, operation) {
		return &apierror.AuthorizationError{Role: NormalizeRole(role), Operation: operation}
	}
	return nil
}
