package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentCash is the one payment method that puts money in the drawer.
// Every other payment_method value counts as digital — a deliberate
// catch-all so new digital methods classify correctly without code changes.
const PaymentCash = "cash"

// Sale is owned and written by the sales subsystem; this service only
// reads sales whose created_at falls inside a register's window.
type Sale struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentMethod string          `gorm:"type:varchar(30);not null"`
	CreatedAt     time.Time       `gorm:"not null;index"`
}
