package dto

import "github.com/shopspring/decimal"

type MovementRequest struct {
	RegisterID  string          `json:"register_id" validate:"required,uuid"`
	Type        string          `json:"type"        validate:"required,oneof=ingreso egreso"`
	Amount      decimal.Decimal `json:"amount"      validate:"required,gt=0"`
	Description string          `json:"description" validate:"required,min=1"`
}

type MovementResponse struct {
	ID          string          `json:"id"`
	RegisterID  string          `json:"register_id"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	CreatedAt   string          `json:"created_at"`
}
