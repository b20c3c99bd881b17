package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentLineRequest línea de entrada, traslado o venta.
type DocumentLineRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	PriceMN   decimal.Decimal `json:"price_mn" validate:"min=0"`
	PriceMLC  decimal.Decimal `json:"price_mlc" validate:"min=0"`
}

// ConversionRequest datos de un procesamiento.
type ConversionRequest struct {
	SourceProductID string          `json:"source_product_id" validate:"required"`
	SourceQuantity  decimal.Decimal `json:"source_quantity"`
	OutputProductID string          `json:"output_product_id" validate:"required"`
	OutputQuantity  decimal.Decimal `json:"output_quantity"`
}

// CreateDocumentRequest body para POST /api/documents.
// Date en formato YYYY-MM-DD. Los campos de almacén requeridos dependen de Kind.
type CreateDocumentRequest struct {
	Kind                   string                `json:"kind" validate:"required,oneof=RECEIPT TRANSFER SALE CONVERSION"`
	Date                   string                `json:"date" validate:"required,datetime=2006-01-02"`
	ClientID               string                `json:"client_id,omitempty"`
	WarehouseID            string                `json:"warehouse_id,omitempty"`
	OriginWarehouseID      string                `json:"origin_warehouse_id,omitempty"`
	DestinationWarehouseID string                `json:"destination_warehouse_id,omitempty"`
	Lines                  []DocumentLineRequest `json:"lines,omitempty" validate:"omitempty,dive"`
	Conversion             *ConversionRequest    `json:"conversion,omitempty" validate:"omitempty"`
}

// DocumentLineResponse línea con importes calculados.
type DocumentLineResponse struct {
	Line      int             `json:"line"`
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	PriceMN   decimal.Decimal `json:"price_mn"`
	PriceMLC  decimal.Decimal `json:"price_mlc"`
	AmountMN  decimal.Decimal `json:"amount_mn"`
	AmountMLC decimal.Decimal `json:"amount_mlc"`
}

// ConversionResponse datos de un procesamiento en respuestas.
type ConversionResponse struct {
	SourceProductID string          `json:"source_product_id"`
	SourceQuantity  decimal.Decimal `json:"source_quantity"`
	OutputProductID string          `json:"output_product_id"`
	OutputQuantity  decimal.Decimal `json:"output_quantity"`
}

// DocumentResponse salida de un documento de movimiento.
type DocumentResponse struct {
	ID                     string                 `json:"id"`
	Kind                   string                 `json:"kind"`
	Status                 string                 `json:"status"`
	Date                   string                 `json:"date"`
	ClientID               string                 `json:"client_id,omitempty"`
	WarehouseID            string                 `json:"warehouse_id,omitempty"`
	OriginWarehouseID      string                 `json:"origin_warehouse_id,omitempty"`
	DestinationWarehouseID string                 `json:"destination_warehouse_id,omitempty"`
	Lines                  []DocumentLineResponse `json:"lines,omitempty"`
	Conversion             *ConversionResponse    `json:"conversion,omitempty"`
	TotalQuantity          decimal.Decimal        `json:"total_quantity"`
	TotalMN                decimal.Decimal        `json:"total_mn"`
	TotalMLC               decimal.Decimal        `json:"total_mlc"`
	ConfirmedAt            *time.Time             `json:"confirmed_at,omitempty"`
	ConfirmedBy            string                 `json:"confirmed_by,omitempty"`
	CreatedAt              time.Time              `json:"created_at"`
	CreatedBy              string                 `json:"created_by,omitempty"`
}

// DocumentListResponse lista paginada de documentos.
type DocumentListResponse struct {
	Items []DocumentResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ListDocumentsQuery filtros de GET /api/documents.
type ListDocumentsQuery struct {
	Limit       int    `query:"limit" validate:"min=0,max=500"`
	Offset      int    `query:"offset" validate:"min=0"`
	Kind        string `query:"kind" validate:"omitempty,oneof=RECEIPT TRANSFER SALE CONVERSION"`
	WarehouseID string `query:"warehouse_id"`
	Status      string `query:"status" validate:"omitempty,oneof=DRAFT CONFIRMED"`
	From        string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To          string `query:"to" validate:"omitempty,datetime=2006-01-02"`
}

// ConfirmDocumentResponse salida de POST /api/documents/:id/confirm.
type ConfirmDocumentResponse struct {
	Document DocumentResponse   `json:"document"`
	Changes  []MovementResponse `json:"changes"`
	Warnings []string           `json:"warnings,omitempty"`
}
