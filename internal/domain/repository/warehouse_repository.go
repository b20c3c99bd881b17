package repository

import (
	"context"

	"github.com/jhoicas/materias-primas/internal/domain/entity"
)

// WarehouseRepository define el puerto de persistencia para unidades organizativas (DIP).
type WarehouseRepository interface {
	Create(ctx context.Context, warehouse *entity.Warehouse) error
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)
	ListAll(ctx context.Context) ([]*entity.Warehouse, error)
}
