package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Code             string          `json:"code" validate:"required,min=1,max=50"`
	Name             string          `json:"name" validate:"required,min=1,max=200"`
	Description      string          `json:"description"`
	UnitMeasure      string          `json:"unit_measure" validate:"required,max=20"`
	CategoryID       string          `json:"category_id"`
	TypeID           string          `json:"type_id"`
	PurchasePriceMN  decimal.Decimal `json:"purchase_price_mn" validate:"min=0"`
	PurchasePriceMLC decimal.Decimal `json:"purchase_price_mlc" validate:"min=0"`
	SalePriceMN      decimal.Decimal `json:"sale_price_mn" validate:"min=0"`
	SalePriceMLC     decimal.Decimal `json:"sale_price_mlc" validate:"min=0"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID               string          `json:"id"`
	Code             string          `json:"code"`
	Name             string          `json:"name"`
	Description      string          `json:"description,omitempty"`
	UnitMeasure      string          `json:"unit_measure"`
	CategoryID       string          `json:"category_id,omitempty"`
	TypeID           string          `json:"type_id,omitempty"`
	PurchasePriceMN  decimal.Decimal `json:"purchase_price_mn"`
	PurchasePriceMLC decimal.Decimal `json:"purchase_price_mlc"`
	SalePriceMN      decimal.Decimal `json:"sale_price_mn"`
	SalePriceMLC     decimal.Decimal `json:"sale_price_mlc"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}
