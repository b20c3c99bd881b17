package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/materias-primas/internal/domain/entity"
	"github.com/jhoicas/materias-primas/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo kardex sobre PostgreSQL (usable con pool o tx). Solo inserción.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un asiento del kardex.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, document_id, document_kind, line, warehouse_id, product_id, unit_measure, quantity, balance_after, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.DocumentID, string(m.DocumentKind), m.Line, m.WarehouseID, m.ProductID,
		m.UnitMeasure, m.Quantity, m.BalanceAfter, m.CreatedAt, m.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", mapError(err))
	}
	return nil
}

// ListByKey asientos de un par almacén+producto en orden de registro. limit <= 0 = sin límite.
func (r *StockMovementRepo) ListByKey(ctx context.Context, warehouseID, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, document_id, document_kind, line, warehouse_id, product_id, unit_measure, quantity, balance_after, created_at, created_by
		FROM stock_movements WHERE warehouse_id = $1 AND product_id = $2
		ORDER BY seq`
	args := []any{warehouseID, productID}
	if limit > 0 {
		query += " LIMIT $3 OFFSET $4"
		args = append(args, limit, offset)
	} else if offset > 0 {
		query += " OFFSET $3"
		args = append(args, offset)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", mapError(err))
	}
	defer rows.Close()
	list := make([]*entity.StockMovement, 0)
	for rows.Next() {
		var m entity.StockMovement
		var kind string
		if err := rows.Scan(&m.ID, &m.DocumentID, &kind, &m.Line, &m.WarehouseID, &m.ProductID,
			&m.UnitMeasure, &m.Quantity, &m.BalanceAfter, &m.CreatedAt, &m.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		m.DocumentKind = entity.DocumentKind(kind)
		list = append(list, &m)
	}
	return list, rows.Err()
}
