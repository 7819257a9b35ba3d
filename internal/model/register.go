package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Register status values. A closed register is never reopened; a new
// trading session is a new row.
const (
	RegisterOpen   = "open"
	RegisterClosed = "closed"
)

// Movement types. Stored as the literal Spanish terms the tills use.
const (
	MovementIngreso = "ingreso"
	MovementEgreso  = "egreso"
)

// CashRegister is one cash-drawer trading session, from open to close.
// Estado: "open" | "closed". At most one open row may exist per tenant —
// enforced by a partial unique index installed in infra.applySchemaPatches.
type CashRegister struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status        string          `gorm:"type:varchar(20);not null;default:'open'"`
	OpeningAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	OpenedAt      time.Time       `gorm:"not null"`

	// Snapshot fields, populated exactly once at close. The Auditor's repair
	// path may later rewrite TotalSalesCash / TotalSalesDigital /
	// ExpectedAmount; ClosingAmount is the physically counted figure and is
	// never touched after close.
	ClosingAmount     *decimal.Decimal `gorm:"type:decimal(12,2)"`
	ExpectedAmount    *decimal.Decimal `gorm:"type:decimal(12,2)"`
	TotalSalesCash    *decimal.Decimal `gorm:"type:decimal(12,2)"`
	TotalSalesDigital *decimal.Decimal `gorm:"type:decimal(12,2)"`
	TotalIngresos     *decimal.Decimal `gorm:"type:decimal(12,2)"`
	TotalEgresos      *decimal.Decimal `gorm:"type:decimal(12,2)"`
	ClosedAt          *time.Time
	Notes             *string

	Movements []CashMovement `gorm:"foreignKey:CashRegisterID"`
}

// CashMovement is an immutable manual cash adjustment against an open
// register (making change, paying a courier in cash, etc.).
// Movements are NEVER updated or deleted — corrections are recorded as
// offsetting movements.
type CashMovement struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	CashRegisterID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Type           string          `gorm:"type:varchar(10);not null"`
	Amount         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Description    string          `gorm:"not null"`
	CreatedAt      time.Time
}
