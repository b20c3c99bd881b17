package inventory

import (
	"context"
	"sort"

	"github.com/jhoicas/materias-primas/internal/application/dto"
	"github.com/jhoicas/materias-primas/internal/domain"
	domaininv "github.com/jhoicas/materias-primas/internal/domain/inventory"
	"github.com/jhoicas/materias-primas/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// StockQueryUseCase consultas del submayor y del kardex. Las lecturas no bloquean a los escritores
// y pueden devolver un valor ligeramente desactualizado bajo escrituras concurrentes.
type StockQueryUseCase struct {
	stock      repository.StockRepository
	movements  repository.StockMovementRepository
	warehouses repository.WarehouseRepository
}

// NewStockQueryUseCase construye el caso de uso.
func NewStockQueryUseCase(
	stock repository.StockRepository,
	movements repository.StockMovementRepository,
	warehouses repository.WarehouseRepository,
) *StockQueryUseCase {
	return &StockQueryUseCase{stock: stock, movements: movements, warehouses: warehouses}
}

// GetBalance devuelve la existencia; 0 si el par nunca tuvo movimientos.
func (uc *StockQueryUseCase) GetBalance(ctx context.Context, warehouseID, productID string) (decimal.Decimal, error) {
	entry, err := uc.stock.Get(ctx, warehouseID, productID)
	if err != nil {
		return decimal.Zero, err
	}
	if entry == nil {
		return decimal.Zero, nil
	}
	return entry.Quantity, nil
}

// Balance igual que GetBalance pero con UM y fecha de actualización.
func (uc *StockQueryUseCase) Balance(ctx context.Context, warehouseID, productID string) (*dto.BalanceResponse, error) {
	entry, err := uc.stock.Get(ctx, warehouseID, productID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return &dto.BalanceResponse{WarehouseID: warehouseID, ProductID: productID, Quantity: decimal.Zero}, nil
	}
	out := toBalanceResponse(entry)
	return &out, nil
}

// ListBalances existencias de un almacén ordenadas por producto, incluidas las filas en cero.
func (uc *StockQueryUseCase) ListBalances(ctx context.Context, warehouseID string) (*dto.BalanceListResponse, error) {
	w, err := uc.warehouses.GetByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, &domain.NotFoundError{Resource: "almacén", ID: warehouseID}
	}
	entries, err := uc.stock.ListByWarehouse(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ProductID < entries[j].ProductID })
	out := &dto.BalanceListResponse{WarehouseID: warehouseID, Items: make([]dto.BalanceResponse, 0, len(entries))}
	for _, e := range entries {
		out.Items = append(out.Items, toBalanceResponse(e))
	}
	return out, nil
}

// ListSiteBalances existencias por UEB: suma por producto sobre la UEB y las unidades que dependen de ella.
func (uc *StockQueryUseCase) ListSiteBalances(ctx context.Context, uebID string) (*dto.SiteBalanceListResponse, error) {
	all, err := uc.warehouses.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	idx := domaininv.NewSiteIndex(all)
	root := idx.Get(uebID)
	if root == nil {
		return nil, &domain.NotFoundError{Resource: "UEB", ID: uebID}
	}
	if !root.IsUEB() {
		verr := &domain.ValidationError{}
		verr.Add(0, "ueb_id", "la unidad no es una UEB")
		return nil, verr
	}
	ids := idx.Subtree(uebID)
	entries, err := uc.stock.ListByWarehouses(ctx, ids)
	if err != nil {
		return nil, err
	}

	byProduct := make(map[string]*dto.SiteBalanceResponse)
	for _, e := range entries {
		agg, ok := byProduct[e.ProductID]
		if !ok {
			agg = &dto.SiteBalanceResponse{ProductID: e.ProductID, UnitMeasure: e.UnitMeasure, Quantity: decimal.Zero}
			byProduct[e.ProductID] = agg
		}
		agg.Quantity = agg.Quantity.Add(e.Quantity)
		agg.Warehouses++
	}
	out := &dto.SiteBalanceListResponse{UEBID: uebID, Warehouses: ids, Items: make([]dto.SiteBalanceResponse, 0, len(byProduct))}
	for _, agg := range byProduct {
		out.Items = append(out.Items, *agg)
	}
	sort.Slice(out.Items, func(i, j int) bool { return out.Items[i].ProductID < out.Items[j].ProductID })
	return out, nil
}

// ListMovements kardex de un par almacén+producto.
func (uc *StockQueryUseCase) ListMovements(ctx context.Context, warehouseID, productID string, page dto.PageRequest) (*dto.MovementListResponse, error) {
	page.DefaultPage()
	list, err := uc.movements.ListByKey(ctx, warehouseID, productID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.MovementListResponse{
		Items: make([]dto.MovementResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, m := range list {
		out.Items = append(out.Items, ToMovementResponse(m))
	}
	return out, nil
}
