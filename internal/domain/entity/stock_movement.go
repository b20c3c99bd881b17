package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockMovement asiento del kardex: un registro por cada delta aplicado al submayor.
// Se escribe en la misma transacción que la existencia y no se modifica nunca.
type StockMovement struct {
	ID           string
	DocumentID   string
	DocumentKind DocumentKind
	Line         int
	WarehouseID  string
	ProductID    string
	UnitMeasure  string
	Quantity     decimal.Decimal // positivo entrada, negativo salida
	BalanceAfter decimal.Decimal
	CreatedAt    time.Time
	CreatedBy    string
}
