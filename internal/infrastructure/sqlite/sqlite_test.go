package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jhoicas/materias-primas/internal/domain"
	"github.com/jhoicas/materias-primas/internal/domain/entity"
	"github.com/jhoicas/materias-primas/internal/domain/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "ledger.db"), 0)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newProduct(id, code, unit string) *entity.Product {
	now := time.Now().UTC()
	return &entity.Product{ID: id, Code: code, Name: code, UnitMeasure: unit,
		PurchasePriceMN: decimal.RequireFromString("12.5"), CreatedAt: now, UpdatedAt: now}
}

func TestDocumentRepo_CreaYLeeConLineas(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	doc := &entity.MovementDocument{
		ID: "D1", Kind: entity.DocumentKindReceipt, Date: date, ClientID: "C1", WarehouseID: "W1",
		Lines: []entity.DocumentLine{
			{Line: 1, ProductID: "P1", Quantity: decimal.RequireFromString("100.125"), PriceMN: decimal.RequireFromString("3.5"), PriceMLC: decimal.Zero},
			{Line: 2, ProductID: "P2", Quantity: decimal.RequireFromString("2"), PriceMN: decimal.Zero, PriceMLC: decimal.RequireFromString("0.75")},
		},
		CreatedAt: time.Now().UTC(), CreatedBy: "u1",
	}
	require.NoError(t, s.Documents().Create(ctx, doc))

	got, err := s.Documents().GetByID(ctx, "D1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entity.DocumentKindReceipt, got.Kind)
	assert.True(t, got.Date.Equal(date))
	assert.Equal(t, "C1", got.ClientID)
	assert.Empty(t, got.OriginWarehouseID)
	assert.Nil(t, got.Conversion)
	require.Len(t, got.Lines, 2)
	assert.True(t, got.Lines[0].Quantity.Equal(decimal.RequireFromString("100.125")))
	assert.True(t, got.Lines[1].PriceMLC.Equal(decimal.RequireFromString("0.75")))

	missing, err := s.Documents().GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDocumentRepo_Procesamiento(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	doc := &entity.MovementDocument{
		ID: "D2", Kind: entity.DocumentKindConversion, Date: time.Now().UTC(), WarehouseID: "W1",
		Conversion: &entity.Conversion{
			SourceProductID: "CHATARRA", SourceQuantity: decimal.NewFromInt(10),
			OutputProductID: "LINGOTE", OutputQuantity: decimal.NewFromInt(7),
		},
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.Documents().Create(ctx, doc))

	got, err := s.Documents().GetByID(ctx, "D2")
	require.NoError(t, err)
	require.NotNil(t, got.Conversion)
	assert.True(t, got.Conversion.SourceQuantity.Equal(decimal.NewFromInt(10)))
	assert.True(t, got.Conversion.OutputQuantity.Equal(decimal.NewFromInt(7)))
	assert.Empty(t, got.Lines)
}

func TestDocumentRepo_ConfirmarYBorrar(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	for _, id := range []string{"D1", "D2"} {
		require.NoError(t, s.Documents().Create(ctx, &entity.MovementDocument{
			ID: id, Kind: entity.DocumentKindSale, Date: time.Now().UTC(), ClientID: "C1", WarehouseID: "W1",
			Lines:     []entity.DocumentLine{{Line: 1, ProductID: "P1", Quantity: decimal.NewFromInt(1)}},
			CreatedAt: time.Now().UTC(),
		}))
	}

	require.NoError(t, s.Documents().MarkConfirmed(ctx, "D1", time.Now(), "u1"))
	err := s.Documents().MarkConfirmed(ctx, "D1", time.Now(), "u1")
	assert.True(t, errors.Is(err, domain.ErrAlreadyConfirmed))

	err = s.Documents().DeleteDraft(ctx, "D1")
	assert.True(t, errors.Is(err, domain.ErrAlreadyConfirmed))

	require.NoError(t, s.Documents().DeleteDraft(ctx, "D2"))
	gone, err := s.Documents().GetByID(ctx, "D2")
	require.NoError(t, err)
	assert.Nil(t, gone)

	confirmed := true
	list, err := s.Documents().List(ctx, repository.DocumentFilter{Confirmed: &confirmed})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "u1", list[0].ConfirmedBy)
	assert.NotNil(t, list[0].ConfirmedAt)
	assert.Len(t, list[0].Lines, 1)
}

func TestTxRunner_RollbackNoDejaFilas(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := NewTxRunner(s).Run(ctx, func(_ repository.DocumentRepository, stock repository.StockRepository, _ repository.StockMovementRepository) error {
		e, err := stock.GetForUpdate(ctx, "W1", "P1", "kg")
		if err != nil {
			return err
		}
		e.Quantity = decimal.NewFromInt(5)
		if err := stock.Upsert(ctx, e); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	e, err := s.Stock().Get(ctx, "W1", "P1")
	require.NoError(t, err)
	assert.Nil(t, e, "la fila creada dentro de la transacción no debe persistir")
}

func TestStockRepo_ListByWarehouses(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	now := time.Now().UTC()
	for _, e := range []*entity.StockEntry{
		{WarehouseID: "W1", ProductID: "P2", UnitMeasure: "kg", Quantity: decimal.NewFromInt(3), UpdatedAt: now},
		{WarehouseID: "W1", ProductID: "P1", UnitMeasure: "kg", Quantity: decimal.NewFromInt(1), UpdatedAt: now},
		{WarehouseID: "W2", ProductID: "P1", UnitMeasure: "kg", Quantity: decimal.RequireFromString("0.5"), UpdatedAt: now},
		{WarehouseID: "W3", ProductID: "P1", UnitMeasure: "kg", Quantity: decimal.NewFromInt(9), UpdatedAt: now},
	} {
		require.NoError(t, s.Stock().Upsert(ctx, e))
	}

	list, err := s.Stock().ListByWarehouses(ctx, []string{"W1", "W2"})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "P1", list[0].ProductID)
	assert.True(t, list[2].Quantity.Equal(decimal.RequireFromString("0.5")))

	empty, err := s.Stock().ListByWarehouses(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMasterRepos(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	now := time.Now().UTC()
	ueb := "UEB1"

	require.NoError(t, s.Warehouses().Create(ctx, &entity.Warehouse{ID: ueb, Name: "UEB Centro", Kind: entity.WarehouseKindUEB, CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, s.Warehouses().Create(ctx, &entity.Warehouse{ID: "CC1", Name: "Casa 1", Kind: entity.WarehouseKindCasaCompra, ParentID: &ueb, Municipality: "Cerro", CreatedAt: now, UpdatedAt: now}))

	cc, err := s.Warehouses().GetByID(ctx, "CC1")
	require.NoError(t, err)
	require.NotNil(t, cc.ParentID)
	assert.Equal(t, ueb, *cc.ParentID)

	all, err := s.Warehouses().ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, s.Products().Create(ctx, newProduct("P1", "CHAT-01", "kg")))
	err = s.Products().Create(ctx, newProduct("P2", "CHAT-01", "kg"))
	assert.True(t, errors.Is(err, domain.ErrDuplicate))

	p, err := s.Products().GetByID(ctx, "P1")
	require.NoError(t, err)
	assert.True(t, p.PurchasePriceMN.Equal(decimal.RequireFromString("12.5")))

	require.NoError(t, s.Clients().Create(ctx, &entity.Client{ID: "C1", Code: "01", Name: "Proveedor", CreatedAt: now, UpdatedAt: now}))
	c, err := s.Clients().GetByID(ctx, "C1")
	require.NoError(t, err)
	assert.Equal(t, "Proveedor", c.Name)
}
