package inventory_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/materias-primas/internal/domain"
	"github.com/jhoicas/materias-primas/internal/domain/entity"
	"github.com/jhoicas/materias-primas/internal/domain/inventory"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func entryOf(qty string) *entity.StockEntry {
	return &entity.StockEntry{WarehouseID: "W1", ProductID: "P1", Quantity: dec(qty)}
}

func deltaOf(qty string) entity.StockDelta {
	return entity.StockDelta{WarehouseID: "W1", ProductID: "P1", UnitMeasure: "kg", Quantity: dec(qty), Line: 1}
}

func TestParseNegativePolicy(t *testing.T) {
	p, err := inventory.ParseNegativePolicy("")
	require.NoError(t, err)
	assert.Equal(t, inventory.NegativePolicyReject, p, "vacío equivale a reject")

	p, err = inventory.ParseNegativePolicy(" Allow ")
	require.NoError(t, err)
	assert.Equal(t, inventory.NegativePolicyAllow, p)

	_, err = inventory.ParseNegativePolicy("clamp")
	assert.Error(t, err)
}

func TestApplyDelta_EntradaCreaDesdeCero(t *testing.T) {
	e := &entity.StockEntry{WarehouseID: "W1", ProductID: "P1", Quantity: decimal.Zero}
	neg, err := inventory.ApplyDelta(e, deltaOf("100"), inventory.NegativePolicyReject)
	require.NoError(t, err)
	assert.False(t, neg)
	assert.True(t, e.Quantity.Equal(dec("100")))
	assert.Equal(t, "kg", e.UnitMeasure, "la UM se toma del primer movimiento")
}

func TestApplyDelta_RejectNoModificaFila(t *testing.T) {
	e := entryOf("60")
	_, err := inventory.ApplyDelta(e, deltaOf("-70"), inventory.NegativePolicyReject)
	require.Error(t, err)

	var nse *domain.NegativeStockError
	require.True(t, errors.As(err, &nse))
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.True(t, nse.Available.Equal(dec("60")))
	assert.True(t, nse.Requested.Equal(dec("70")))
	assert.True(t, nse.Shortfall().Equal(dec("10")))
	assert.True(t, e.Quantity.Equal(dec("60")), "la fila no cambia si se rechaza")
}

func TestApplyDelta_SalidaExactaLlegaACero(t *testing.T) {
	e := entryOf("60")
	neg, err := inventory.ApplyDelta(e, deltaOf("-60"), inventory.NegativePolicyReject)
	require.NoError(t, err)
	assert.False(t, neg)
	assert.True(t, e.Quantity.IsZero())
}

func TestApplyDelta_AllowPermiteNegativo(t *testing.T) {
	e := entryOf("5")
	neg, err := inventory.ApplyDelta(e, deltaOf("-8.5"), inventory.NegativePolicyAllow)
	require.NoError(t, err)
	assert.True(t, neg)
	assert.True(t, e.Quantity.Equal(dec("-3.5")))
}

func TestApplyDelta_EntradaSobreSaldoNegativoNoSeRechaza(t *testing.T) {
	e := entryOf("-10")
	neg, err := inventory.ApplyDelta(e, deltaOf("4"), inventory.NegativePolicyReject)
	require.NoError(t, err)
	assert.True(t, neg)
	assert.True(t, e.Quantity.Equal(dec("-6")))
}

func TestApplyDelta_ClaveDistintaEsError(t *testing.T) {
	e := entryOf("1")
	d := deltaOf("1")
	d.ProductID = "P2"
	_, err := inventory.ApplyDelta(e, d, inventory.NegativePolicyAllow)
	assert.Error(t, err)
}

func TestLockOrder_OrdenaYDeduplica(t *testing.T) {
	deltas := []entity.StockDelta{
		{WarehouseID: "W2", ProductID: "P1"},
		{WarehouseID: "W1", ProductID: "P2"},
		{WarehouseID: "W1", ProductID: "P1"},
		{WarehouseID: "W2", ProductID: "P1"},
	}
	keys := inventory.LockOrder(deltas)
	assert.Equal(t, []entity.StockKey{
		{WarehouseID: "W1", ProductID: "P1"},
		{WarehouseID: "W1", ProductID: "P2"},
		{WarehouseID: "W2", ProductID: "P1"},
	}, keys)
}
