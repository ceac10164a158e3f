package model

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog is a write-only trail of privileged mutations. Nothing in the
// application reads it back; it exists for external audit tooling.
type AuditLog struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EntityName string    `gorm:"not null"`
	EntityID   string    `gorm:"not null"`
	Action     string    `gorm:"not null"`
	Actor      string    `gorm:"not null"`
	Payload    string    `gorm:"type:text;not null"`
	CreatedAt  time.Time
}

func (AuditLog) TableName() string { return "audit_logs" }
