package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/materias-primas/internal/application/dto"
	"github.com/jhoicas/materias-primas/internal/domain"
	"github.com/jhoicas/materias-primas/internal/domain/entity"
	"github.com/jhoicas/materias-primas/internal/domain/inventory"
	"github.com/jhoicas/materias-primas/internal/domain/repository"
)

// WarehouseUseCase alta y consulta de unidades organizativas (UEB, casas de compra, almacenes).
type WarehouseUseCase struct {
	repo repository.WarehouseRepository
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(repo repository.WarehouseRepository) *WarehouseUseCase {
	return &WarehouseUseCase{repo: repo}
}

// Create crea una unidad. El padre, si se indica, debe existir y ser una UEB.
func (uc *WarehouseUseCase) Create(ctx context.Context, in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	now := time.Now().UTC()
	warehouse := &entity.Warehouse{
		ID:           uuid.New().String(),
		Name:         in.Name,
		Phone:        in.Phone,
		Kind:         entity.WarehouseKind(in.Kind),
		ParentID:     in.ParentID,
		Municipality: in.Municipality,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	var parent *entity.Warehouse
	if in.ParentID != nil {
		p, err := uc.repo.GetByID(ctx, *in.ParentID)
		if err != nil {
			return nil, err
		}
		parent = p
	}
	if err := inventory.ValidateWarehouse(warehouse, parent); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, warehouse); err != nil {
		return nil, err
	}
	return toWarehouseResponse(warehouse), nil
}

// GetByID obtiene una unidad por ID.
func (uc *WarehouseUseCase) GetByID(ctx context.Context, id string) (*dto.WarehouseResponse, error) {
	warehouse, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, &domain.NotFoundError{Resource: "almacén", ID: id}
	}
	return toWarehouseResponse(warehouse), nil
}

// List lista todas las unidades.
func (uc *WarehouseUseCase) List(ctx context.Context) (*dto.WarehouseListResponse, error) {
	list, err := uc.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.WarehouseResponse, 0, len(list))
	for _, w := range list {
		items = append(items, *toWarehouseResponse(w))
	}
	return &dto.WarehouseListResponse{Items: items}, nil
}

func toWarehouseResponse(w *entity.Warehouse) *dto.WarehouseResponse {
	if w == nil {
		return nil
	}
	return &dto.WarehouseResponse{
		ID:           w.ID,
		Name:         w.Name,
		Phone:        w.Phone,
		Kind:         string(w.Kind),
		ParentID:     w.ParentID,
		Municipality: w.Municipality,
		CreatedAt:    w.CreatedAt,
		UpdatedAt:    w.UpdatedAt,
	}
}
