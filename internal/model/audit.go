package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Audit outcome per register.
const (
	AuditMatched   = "matched"
	AuditCorrected = "corrected"
)

// AuditRecord is the persisted trail of one auditor pass over one closed
// register: whether the stored snapshot matched the authoritative
// recomputation, and the before/after figures when it did not.
// Records are append-only; the report shown to operators is built from them.
type AuditRecord struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RunID          uuid.UUID `gorm:"type:uuid;not null;index"`
	TenantID       uuid.UUID `gorm:"type:uuid;not null;index"`
	CashRegisterID uuid.UUID `gorm:"type:uuid;not null;index"`
	Status         string    `gorm:"type:varchar(20);not null"`

	CashBefore     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CashAfter      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DigitalBefore  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DigitalAfter   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ExpectedBefore decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ExpectedAfter  decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	CreatedAt time.Time
}
