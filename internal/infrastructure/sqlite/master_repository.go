package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jhoicas/materias-primas/internal/domain/entity"
	"github.com/jhoicas/materias-primas/internal/domain/repository"
)

var (
	_ repository.WarehouseRepository = (*WarehouseRepo)(nil)
	_ repository.ProductRepository   = (*ProductRepo)(nil)
	_ repository.ClientRepository    = (*ClientRepo)(nil)
)

// WarehouseRepo unidades organizativas sobre SQLite.
type WarehouseRepo struct {
	q querier
}

func (r *WarehouseRepo) Create(ctx context.Context, w *entity.Warehouse) error {
	var parent sql.NullString
	if w.ParentID != nil {
		parent = nullString(*w.ParentID)
	}
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO warehouses (id, name, phone, kind, parent_id, municipality, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		w.ID, w.Name, w.Phone, string(w.Kind), parent, w.Municipality, w.CreatedAt.UTC(), w.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert warehouse: %w", mapError(err))
	}
	return nil
}

func (r *WarehouseRepo) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT id, name, phone, kind, parent_id, municipality, created_at, updated_at
		FROM warehouses WHERE id = ?`, id)
	w, err := scanWarehouse(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get warehouse: %w", mapError(err))
	}
	return w, nil
}

func (r *WarehouseRepo) ListAll(ctx context.Context) ([]*entity.Warehouse, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, name, phone, kind, parent_id, municipality, created_at, updated_at
		FROM warehouses ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list warehouses: %w", mapError(err))
	}
	defer rows.Close()
	out := make([]*entity.Warehouse, 0)
	for rows.Next() {
		w, err := scanWarehouse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan warehouse: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func scanWarehouse(s scanner) (*entity.Warehouse, error) {
	var w entity.Warehouse
	var kind string
	var parent sql.NullString
	if err := s.Scan(&w.ID, &w.Name, &w.Phone, &kind, &parent, &w.Municipality, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return nil, err
	}
	w.Kind = entity.WarehouseKind(kind)
	if parent.Valid {
		p := parent.String
		w.ParentID = &p
	}
	return &w, nil
}

// ProductRepo productos sobre SQLite.
type ProductRepo struct {
	q querier
}

func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO products (id, code, name, description, unit_measure, category_id, type_id,
			purchase_price_mn, purchase_price_mlc, sale_price_mn, sale_price_mlc, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Code, p.Name, p.Description, p.UnitMeasure, p.CategoryID, p.TypeID,
		p.PurchasePriceMN.String(), p.PurchasePriceMLC.String(), p.SalePriceMN.String(), p.SalePriceMLC.String(),
		p.CreatedAt.UTC(), p.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert product: %w", mapError(err))
	}
	return nil
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRowContext(ctx, `
		SELECT id, code, name, description, unit_measure, category_id, type_id,
			purchase_price_mn, purchase_price_mlc, sale_price_mn, sale_price_mlc, created_at, updated_at
		FROM products WHERE id = ?`, id).Scan(
		&p.ID, &p.Code, &p.Name, &p.Description, &p.UnitMeasure, &p.CategoryID, &p.TypeID,
		&p.PurchasePriceMN, &p.PurchasePriceMLC, &p.SalePriceMN, &p.SalePriceMLC, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", mapError(err))
	}
	return &p, nil
}

// ClientRepo clientes sobre SQLite.
type ClientRepo struct {
	q querier
}

func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO clients (id, code, name, organism, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.Code, c.Name, c.Organism, c.CreatedAt.UTC(), c.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert client: %w", mapError(err))
	}
	return nil
}

func (r *ClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	var c entity.Client
	err := r.q.QueryRowContext(ctx, `
		SELECT id, code, name, organism, created_at, updated_at
		FROM clients WHERE id = ?`, id).Scan(&c.ID, &c.Code, &c.Name, &c.Organism, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get client: %w", mapError(err))
	}
	return &c, nil
}
