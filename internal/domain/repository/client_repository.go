package repository

import (
	"context"

	"github.com/jhoicas/materias-primas/internal/domain/entity"
)

// ClientRepository define el puerto de persistencia para proveedores y clientes.
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, id string) (*entity.Client, error)
}
