package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/materias-primas/internal/application/dto"
	"github.com/jhoicas/materias-primas/internal/domain"
	"github.com/jhoicas/materias-primas/internal/domain/entity"
	"github.com/jhoicas/materias-primas/internal/domain/repository"
)

// ClientUseCase alta y consulta de proveedores y clientes.
type ClientUseCase struct {
	repo repository.ClientRepository
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(repo repository.ClientRepository) *ClientUseCase {
	return &ClientUseCase{repo: repo}
}

// Create crea un cliente.
func (uc *ClientUseCase) Create(ctx context.Context, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	now := time.Now().UTC()
	client := &entity.Client{
		ID:        uuid.New().String(),
		Code:      in.Code,
		Name:      in.Name,
		Organism:  in.Organism,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, client); err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// GetByID obtiene un cliente por ID.
func (uc *ClientUseCase) GetByID(ctx context.Context, id string) (*dto.ClientResponse, error) {
	client, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, &domain.NotFoundError{Resource: "cliente", ID: id}
	}
	return toClientResponse(client), nil
}

func toClientResponse(c *entity.Client) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:        c.ID,
		Code:      c.Code,
		Name:      c.Name,
		Organism:  c.Organism,
		CreatedAt: c.CreatedAt,
	}
}
