package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockKey identifica una fila del submayor.
type StockKey struct {
	WarehouseID string
	ProductID   string
}

func (k StockKey) String() string {
	return k.WarehouseID + "/" + k.ProductID
}

// Less orden total usado para adquirir bloqueos siempre en el mismo orden.
func (k StockKey) Less(o StockKey) bool {
	if k.WarehouseID != o.WarehouseID {
		return k.WarehouseID < o.WarehouseID
	}
	return k.ProductID < o.ProductID
}

// StockEntry representa la existencia de un producto en un almacén (Submayor).
// Una fila por par (almacén, producto); se crea en el primer movimiento y nunca se elimina.
type StockEntry struct {
	WarehouseID string
	ProductID   string
	UnitMeasure string
	Quantity    decimal.Decimal
	UpdatedAt   time.Time
}

// Key devuelve la clave de la fila.
func (s *StockEntry) Key() StockKey {
	return StockKey{WarehouseID: s.WarehouseID, ProductID: s.ProductID}
}

// StockDelta cambio firmado a aplicar sobre una fila del submayor.
type StockDelta struct {
	WarehouseID string
	ProductID   string
	UnitMeasure string
	Quantity    decimal.Decimal // positivo entrada, negativo salida
	Line        int             // línea del documento que lo origina
}

// Key devuelve la clave de la fila afectada.
func (d StockDelta) Key() StockKey {
	return StockKey{WarehouseID: d.WarehouseID, ProductID: d.ProductID}
}
