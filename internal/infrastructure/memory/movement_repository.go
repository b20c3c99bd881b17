package memory

import (
	"context"

	"github.com/jhoicas/materias-primas/internal/domain/entity"
	"github.com/jhoicas/materias-primas/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo kardex en memoria (solo inserción).
type StockMovementRepo struct {
	s  *Store
	tx *tx
}

// Create registra un asiento.
func (r *StockMovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	mv := *m
	if r.tx != nil {
		r.tx.movements = append(r.tx.movements, &mv)
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.movements = append(r.s.movements, &mv)
	return nil
}

// ListByKey asientos de un par almacén+producto en orden de registro.
func (r *StockMovementRepo) ListByKey(_ context.Context, warehouseID, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	r.s.mu.RLock()
	var out []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.WarehouseID == warehouseID && m.ProductID == productID {
			mv := *m
			out = append(out, &mv)
		}
	}
	r.s.mu.RUnlock()
	return paginate(out, limit, offset), nil
}
