package memory

import (
	"context"

	"github.com/jhoicas/materias-primas/internal/domain/entity"
	"github.com/jhoicas/materias-primas/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo submayor en memoria.
type StockRepo struct {
	s  *Store
	tx *tx
}

// Get devuelve la fila vista por la transacción o (nil, nil) si no existe.
func (r *StockRepo) Get(_ context.Context, warehouseID, productID string) (*entity.StockEntry, error) {
	return r.view(entity.StockKey{WarehouseID: warehouseID, ProductID: productID}), nil
}

func (r *StockRepo) view(k entity.StockKey) *entity.StockEntry {
	if r.tx != nil {
		if e, ok := r.tx.stock[k]; ok {
			return copyEntry(e)
		}
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return copyEntry(r.s.stock[k])
}

// GetForUpdate bloquea la fila y la crea en cero si no existe (en el buffer de la transacción).
func (r *StockRepo) GetForUpdate(ctx context.Context, warehouseID, productID, unitMeasure string) (*entity.StockEntry, error) {
	k := entity.StockKey{WarehouseID: warehouseID, ProductID: productID}
	if r.tx != nil {
		if err := r.tx.lock(ctx, stockLockKey(k)); err != nil {
			return nil, err
		}
	}
	e := r.view(k)
	if e == nil {
		e = &entity.StockEntry{WarehouseID: warehouseID, ProductID: productID, UnitMeasure: unitMeasure, Quantity: decimal.Zero}
		if r.tx != nil {
			r.tx.stock[k] = copyEntry(e)
		}
	}
	return e, nil
}

// Upsert guarda la fila.
func (r *StockRepo) Upsert(_ context.Context, entry *entity.StockEntry) error {
	if r.tx != nil {
		r.tx.stock[entry.Key()] = copyEntry(entry)
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.stock[entry.Key()] = copyEntry(entry)
	return nil
}

// ListByWarehouse filas confirmadas de un almacén.
func (r *StockRepo) ListByWarehouse(ctx context.Context, warehouseID string) ([]*entity.StockEntry, error) {
	return r.ListByWarehouses(ctx, []string{warehouseID})
}

// ListByWarehouses filas confirmadas de varios almacenes.
func (r *StockRepo) ListByWarehouses(_ context.Context, warehouseIDs []string) ([]*entity.StockEntry, error) {
	want := make(map[string]struct{}, len(warehouseIDs))
	for _, id := range warehouseIDs {
		want[id] = struct{}{}
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.StockEntry, 0)
	for k, e := range r.s.stock {
		if _, ok := want[k.WarehouseID]; ok {
			out = append(out, copyEntry(e))
		}
	}
	return out, nil
}
