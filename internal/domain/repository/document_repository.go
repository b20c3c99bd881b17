package repository

import (
	"context"
	"time"

	"github.com/jhoicas/materias-primas/internal/domain/entity"
)

// DocumentFilter filtros de listado de documentos. Los campos vacíos no filtran.
type DocumentFilter struct {
	Kind        entity.DocumentKind
	WarehouseID string // coincide con almacén, origen o destino
	Confirmed   *bool
	From, To    *time.Time
	Limit       int
	Offset      int
}

// DocumentRepository define el puerto de persistencia de documentos de movimiento (cabecera + líneas).
type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.MovementDocument) error
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.MovementDocument, error)
	// GetForUpdate bloquea la cabecera hasta el fin de la transacción. (nil, nil) si no existe.
	GetForUpdate(ctx context.Context, id string) (*entity.MovementDocument, error)
	// MarkConfirmed pasa el documento a confirmado; domain.ErrAlreadyConfirmed si ya lo estaba.
	MarkConfirmed(ctx context.Context, id string, at time.Time, by string) error
	// DeleteDraft elimina un borrador; domain.ErrAlreadyConfirmed si está confirmado.
	DeleteDraft(ctx context.Context, id string) error
	List(ctx context.Context, filter DocumentFilter) ([]*entity.MovementDocument, error)
}
