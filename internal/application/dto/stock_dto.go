package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceResponse existencia de un producto en un almacén. Sin movimientos previos Quantity es 0.
type BalanceResponse struct {
	WarehouseID string          `json:"warehouse_id"`
	ProductID   string          `json:"product_id"`
	UnitMeasure string          `json:"unit_measure,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UpdatedAt   *time.Time      `json:"updated_at,omitempty"`
}

// BalanceListResponse existencias de un almacén.
type BalanceListResponse struct {
	WarehouseID string            `json:"warehouse_id"`
	Items       []BalanceResponse `json:"items"`
}

// SiteBalanceResponse existencia agregada de un producto en una UEB y sus dependencias.
type SiteBalanceResponse struct {
	ProductID   string          `json:"product_id"`
	UnitMeasure string          `json:"unit_measure,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	Warehouses  int             `json:"warehouses"`
}

// SiteBalanceListResponse existencias por UEB.
type SiteBalanceListResponse struct {
	UEBID      string                `json:"ueb_id"`
	Warehouses []string              `json:"warehouses"`
	Items      []SiteBalanceResponse `json:"items"`
}

// MovementResponse asiento del kardex.
type MovementResponse struct {
	ID           string          `json:"id"`
	DocumentID   string          `json:"document_id"`
	DocumentKind string          `json:"document_kind"`
	Line         int             `json:"line"`
	WarehouseID  string          `json:"warehouse_id"`
	ProductID    string          `json:"product_id"`
	UnitMeasure  string          `json:"unit_measure,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	CreatedAt    time.Time       `json:"created_at"`
	CreatedBy    string          `json:"created_by,omitempty"`
}

// MovementListResponse kardex paginado de un par almacén+producto.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
