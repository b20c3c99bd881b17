package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/materias-primas/internal/domain/entity"
	"github.com/jhoicas/materias-primas/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo submayor sobre SQLite (usable con db o tx).
type StockRepo struct {
	q querier
}

const stockColumns = `warehouse_id, product_id, unit_measure, quantity, updated_at`

// Get obtiene la fila o (nil, nil) si no existe.
func (r *StockRepo) Get(ctx context.Context, warehouseID, productID string) (*entity.StockEntry, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+stockColumns+` FROM stock_entries WHERE warehouse_id = ? AND product_id = ?`,
		warehouseID, productID)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get stock: %w", mapError(err))
	}
	return e, nil
}

// GetForUpdate crea la fila en cero si no existe y la devuelve. La transacción ya tiene
// el bloqueo de escritura (BEGIN IMMEDIATE).
func (r *StockRepo) GetForUpdate(ctx context.Context, warehouseID, productID, unitMeasure string) (*entity.StockEntry, error) {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO stock_entries (warehouse_id, product_id, unit_measure, quantity, updated_at)
		VALUES (?, ?, ?, '0', ?)
		ON CONFLICT (warehouse_id, product_id) DO NOTHING`,
		warehouseID, productID, unitMeasure, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("init stock: %w", mapError(err))
	}
	row := r.q.QueryRowContext(ctx,
		`SELECT `+stockColumns+` FROM stock_entries WHERE warehouse_id = ? AND product_id = ?`,
		warehouseID, productID)
	e, err := scanEntry(row)
	if err != nil {
		return nil, fmt.Errorf("get stock for update: %w", mapError(err))
	}
	return e, nil
}

// Upsert inserta o actualiza la cantidad de la fila.
func (r *StockRepo) Upsert(ctx context.Context, e *entity.StockEntry) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO stock_entries (warehouse_id, product_id, unit_measure, quantity, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (warehouse_id, product_id)
		DO UPDATE SET quantity = excluded.quantity, unit_measure = excluded.unit_measure, updated_at = excluded.updated_at`,
		e.WarehouseID, e.ProductID, e.UnitMeasure, e.Quantity.String(), e.UpdatedAt.UTC())
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
	args := make([]any, len(warehouseIDs))
	for i, id := range warehouseIDs {
		args[i] = id
	}
	query := `SELECT ` + stockColumns + ` FROM stock_entries
		WHERE warehouse_id IN (` + strings.TrimSuffix(strings.Repeat("?,", len(args)), ",") + `)
		ORDER BY warehouse_id, product_id`
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", mapError(err))
	}
	defer rows.Close()
	out := make([]*entity.StockEntry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*entity.StockEntry, error) {
	var e entity.StockEntry
	if err := s.Scan(&e.WarehouseID, &e.ProductID, &e.UnitMeasure, &e.Quantity, &e.UpdatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}
