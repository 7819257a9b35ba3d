package dto

import "github.com/shopspring/decimal"

// AuditEntry is the per-register outcome of an audit pass: matched, or
// corrected with the before/after figures for operator review.
type AuditEntry struct {
	RegisterID     string          `json:"register_id"`
	Status         string          `json:"status"` // matched | corrected
	CashBefore     decimal.Decimal `json:"cash_before"`
	CashAfter      decimal.Decimal `json:"cash_after"`
	DigitalBefore  decimal.Decimal `json:"digital_before"`
	DigitalAfter   decimal.Decimal `json:"digital_after"`
	ExpectedBefore decimal.Decimal `json:"expected_before"`
	ExpectedAfter  decimal.Decimal `json:"expected_after"`
}

type AuditRunResponse struct {
	RunID     string       `json:"run_id"`
	Audited   int          `json:"audited"`
	Corrected int          `json:"corrected"`
	Entries   []AuditEntry `json:"entries"`
}

type AuditRecordResponse struct {
	ID         string `json:"id"`
	RunID      string `json:"run_id"`
	RegisterID string `json:"register_id"`
	Status     string `json:"status"`

	CashBefore     decimal.Decimal `json:"cash_before"`
	CashAfter      decimal.Decimal `json:"cash_after"`
	DigitalBefore  decimal.Decimal `json:"digital_before"`
	DigitalAfter   decimal.Decimal `json:"digital_after"`
	ExpectedBefore decimal.Decimal `json:"expected_before"`
	ExpectedAfter  decimal.Decimal `json:"expected_after"`
	CreatedAt      string          `json:"created_at"`
}
