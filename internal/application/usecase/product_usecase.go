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

// ProductUseCase alta y consulta de productos. Las existencias se manejan vía documentos.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un producto. Devuelve domain.ErrDuplicate si el código ya existe.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	now := time.Now().UTC()
	product := &entity.Product{
		ID:               uuid.New().String(),
		Code:             in.Code,
		Name:             in.Name,
		Description:      in.Description,
		UnitMeasure:      in.UnitMeasure,
		CategoryID:       in.CategoryID,
		TypeID:           in.TypeID,
		PurchasePriceMN:  in.PurchasePriceMN,
		PurchasePriceMLC: in.PurchasePriceMLC,
		SalePriceMN:      in.SalePriceMN,
		SalePriceMLC:     in.SalePriceMLC,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, &domain.NotFoundError{Resource: "producto", ID: id}
	}
	return toProductResponse(product), nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:               p.ID,
		Code:             p.Code,
		Name:             p.Name,
		Description:      p.Description,
		UnitMeasure:      p.UnitMeasure,
		CategoryID:       p.CategoryID,
		TypeID:           p.TypeID,
		PurchasePriceMN:  p.PurchasePriceMN,
		PurchasePriceMLC: p.PurchasePriceMLC,
		SalePriceMN:      p.SalePriceMN,
		SalePriceMLC:     p.SalePriceMLC,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}
