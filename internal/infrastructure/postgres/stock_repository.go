package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/materias-primas/internal/domain/entity"
	"github.com/jhoicas/materias-primas/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene la existencia de un producto en un almacén o (nil, nil) si nunca tuvo movimientos.
func (r *StockRepo) Get(ctx context.Context, warehouseID, productID string) (*entity.StockEntry, error) {
	query := `
		SELECT warehouse_id, product_id, unit_measure, quantity, updated_at
		FROM stock_entries WHERE warehouse_id = $1 AND product_id = $2`
	var s entity.StockEntry
	err := r.q.QueryRow(ctx, query, warehouseID, productID).Scan(
		&s.WarehouseID, &s.ProductID, &s.UnitMeasure, &s.Quantity, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock: %w", mapError(err))
	}
	return &s, nil
}

// GetForUpdate crea la fila en cero si no existe y la bloquea (SELECT FOR UPDATE).
// Insertar antes de bloquear evita que dos transacciones partan ambas de una fila ausente.
func (r *StockRepo) GetForUpdate(ctx context.Context, warehouseID, productID, unitMeasure string) (*entity.StockEntry, error) {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_entries (warehouse_id, product_id, unit_measure, quantity, updated_at)
		VALUES ($1, $2, $3, 0, now())
		ON CONFLICT (warehouse_id, product_id) DO NOTHING`,
		warehouseID, productID, unitMeasure)
	if err != nil {
		return nil, fmt.Errorf("init stock: %w", mapError(err))
	}
	query := `
		SELECT warehouse_id, product_id, unit_measure, quantity, updated_at
		FROM stock_entries WHERE warehouse_id = $1 AND product_id = $2
		FOR UPDATE`
	var s entity.StockEntry
	err = r.q.QueryRow(ctx, query, warehouseID, productID).Scan(
		&s.WarehouseID, &s.ProductID, &s.UnitMeasure, &s.Quantity, &s.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get stock for update: %w", mapError(err))
	}
	return &s, nil
}

// Upsert inserta o actualiza la cantidad en stock (por almacén y producto).
func (r *StockRepo) Upsert(ctx context.Context, e *entity.StockEntry) error {
	query := `
		INSERT INTO stock_entries (warehouse_id, product_id, unit_measure, quantity, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (warehouse_id, product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, unit_measure = EXCLUDED.unit_measure, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query, e.WarehouseID, e.ProductID, e.UnitMeasure, e.Quantity, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", mapError(err))
	}
	return nil
}

// ListByWarehouse filas de un almacén.
func (r *StockRepo) ListByWarehouse(ctx context.Context, warehouseID string) ([]*entity.StockEntry, error) {
	return r.ListByWarehouses(ctx, []string{warehouseID})
}

// ListByWarehouses filas de varios almacenes, ordenadas por almacén y producto.
func (r *StockRepo) ListByWarehouses(ctx context.Context, warehouseIDs []string) ([]*entity.StockEntry, error) {
	if len(warehouseIDs) == 0 {
		return []*entity.StockEntry{}, nil
	}
	query := `
		SELECT warehouse_id, product_id, unit_measure, quantity, updated_at
		FROM stock_entries WHERE warehouse_id = ANY($1)
		ORDER BY warehouse_id, product_id`
	rows, err := r.q.Query(ctx, query, warehouseIDs)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", mapError(err))
	}
	defer rows.Close()
	list := make([]*entity.StockEntry, 0)
	for rows.Next() {
		var s entity.StockEntry
		if err := rows.Scan(&s.WarehouseID, &s.ProductID, &s.UnitMeasure, &s.Quantity, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
