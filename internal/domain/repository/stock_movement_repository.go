package repository

import (
	"context"

	"github.com/jhoicas/materias-primas/internal/domain/entity"
)

// StockMovementRepository define el puerto del kardex (solo inserción).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	// ListByKey movimientos de un par almacén+producto, del más antiguo al más reciente.
	ListByKey(ctx context.Context, warehouseID, productID string, limit, offset int) ([]*entity.StockMovement, error)
}
