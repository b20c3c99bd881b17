package sqlite

import (
	"context"
	"fmt"

	"github.com/jhoicas/materias-primas/internal/domain/entity"
	"github.com/jhoicas/materias-primas/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo kardex sobre SQLite.
type StockMovementRepo struct {
	q querier
}

// Create registra un asiento.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO stock_movements
			(id, document_id, document_kind, line, warehouse_id, product_id, unit_measure, quantity, balance_after, created_at, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.DocumentID, string(m.DocumentKind), m.Line, m.WarehouseID, m.ProductID, m.UnitMeasure,
		m.Quantity.String(), m.BalanceAfter.String(), m.CreatedAt.UTC(), m.CreatedBy)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", mapError(err))
	}
	return nil
}

// ListByKey asientos de un par almacén+producto en orden de registro.
func (r *StockMovementRepo) ListByKey(ctx context.Context, warehouseID, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, document_id, document_kind, line, warehouse_id, product_id, unit_measure, quantity, balance_after, created_at, created_by
		FROM stock_movements
		WHERE warehouse_id = ? AND product_id = ?
		ORDER BY rowid
		LIMIT ? OFFSET ?`,
		warehouseID, productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", mapError(err))
	}
	defer rows.Close()
	out := make([]*entity.StockMovement, 0)
	for rows.Next() {
		var m entity.StockMovement
		var kind string
		if err := rows.Scan(&m.ID, &m.DocumentID, &kind, &m.Line, &m.WarehouseID, &m.ProductID, &m.UnitMeasure,
			&m.Quantity, &m.BalanceAfter, &m.CreatedAt, &m.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		m.DocumentKind = entity.DocumentKind(kind)
		out = append(out, &m)
	}
	return out, rows.Err()
}
