package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type OpenRegisterRequest struct {
	OpeningAmount decimal.Decimal `json:"opening_amount" validate:"min=0"`
}

// CloseRegisterRequest carries the operator's physical count. PIN is only
// consulted when the tenant has an admin PIN configured (blind close).
type CloseRegisterRequest struct {
	RegisterID    string          `json:"register_id"    validate:"required,uuid"`
	PhysicalCount decimal.Decimal `json:"physical_count" validate:"min=0"`
	PIN           *string         `json:"pin"`
	Notes         *string         `json:"notes"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SummaryResponse struct {
	OpeningAmount     decimal.Decimal `json:"opening_amount"`
	TotalSalesCash    decimal.Decimal `json:"total_sales_cash"`
	TotalSalesDigital decimal.Decimal `json:"total_sales_digital"`
	TotalIngresos     decimal.Decimal `json:"total_ingresos"`
	TotalEgresos      decimal.Decimal `json:"total_egresos"`
	ExpectedAmount    decimal.Decimal `json:"expected_amount"`
}

type RegisterResponse struct {
	ID            string          `json:"id"`
	Status        string          `json:"status"`
	OpeningAmount decimal.Decimal `json:"opening_amount"`
	OpenedAt      string          `json:"opened_at"`

	ClosingAmount     *decimal.Decimal `json:"closing_amount,omitempty"`
	ExpectedAmount    *decimal.Decimal `json:"expected_amount,omitempty"`
	TotalSalesCash    *decimal.Decimal `json:"total_sales_cash,omitempty"`
	TotalSalesDigital *decimal.Decimal `json:"total_sales_digital,omitempty"`
	TotalIngresos     *decimal.Decimal `json:"total_ingresos,omitempty"`
	TotalEgresos      *decimal.Decimal `json:"total_egresos,omitempty"`
	ClosedAt          *string          `json:"closed_at,omitempty"`
	Notes             *string          `json:"notes,omitempty"`
}

// CloseContextResponse is the pre-count view of the close workflow.
// In blind mode the summary is withheld so the operator counts without
// knowing the expected figure.
type CloseContextResponse struct {
	RegisterID string           `json:"register_id"`
	Blind      bool             `json:"blind"`
	Summary    *SummaryResponse `json:"summary,omitempty"`
}

type CloseRegisterResponse struct {
	Register       RegisterResponse `json:"register"`
	Discrepancy    decimal.Decimal  `json:"discrepancy"`
	Classification string           `json:"classification"` // balanced | shortage | surplus
}
