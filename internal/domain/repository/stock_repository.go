package repository

import (
	"context"

	"github.com/jhoicas/materias-primas/internal/domain/entity"
)

// StockRepository define el puerto del submayor de existencias por almacén+producto.
// Las escrituras se usan dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	// Get devuelve la fila o (nil, nil) si el par nunca tuvo movimientos.
	Get(ctx context.Context, warehouseID, productID string) (*entity.StockEntry, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción; si no existe la crea en cero
	// con la UM indicada, de modo que dos transacciones nunca trabajan sobre una fila ausente.
	GetForUpdate(ctx context.Context, warehouseID, productID, unitMeasure string) (*entity.StockEntry, error)
	Upsert(ctx context.Context, entry *entity.StockEntry) error
	ListByWarehouse(ctx context.Context, warehouseID string) ([]*entity.StockEntry, error)
	ListByWarehouses(ctx context.Context, warehouseIDs []string) ([]*entity.StockEntry, error)
}
