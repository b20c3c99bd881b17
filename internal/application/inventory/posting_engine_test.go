package inventory_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jhoicas/materias-primas/internal/application/inventory"
	"github.com/jhoicas/materias-primas/internal/domain"
	"github.com/jhoicas/materias-primas/internal/domain/repository"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyTx falla con conflicto de concurrencia las primeras `fails` veces y luego delega.
type flakyTx struct {
	inner inventory.TxRunner
	fails int32
	calls atomic.Int32
}

func (f *flakyTx) Run(ctx context.Context, fn func(repository.DocumentRepository, repository.StockRepository, repository.StockMovementRepository) error) error {
	n := f.calls.Add(1)
	if n <= f.fails {
		return fmt.Errorf("%w: simulado", domain.ErrConcurrencyConflict)
	}
	return f.inner.Run(ctx, fn)
}

func newFlakyEngine(t *testing.T, fails int32, maxRetries int) (*fixture, *flakyTx) {
	t.Helper()
	f := newFixture(t, backends[0], inventory.EngineConfig{})
	flaky := &flakyTx{inner: f.r.tx, fails: fails}
	master := inventory.MasterData{Products: f.r.products, Warehouses: f.r.warehouses, Clients: f.r.clients}
	f.engine = inventory.NewPostingEngine(f.r.docs, flaky, master, f.published,
		inventory.EngineConfig{MaxRetries: maxRetries, RetryDelay: time.Millisecond}, zerolog.Nop())
	return f, flaky
}

func TestPostingEngine_ReintentaAnteConflicto(t *testing.T) {
	f, flaky := newFlakyEngine(t, 2, 3)
	id := f.receipt(t, "W1", "P", 12)

	res, err := f.engine.Confirm(context.Background(), id, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, res.Attempts)
	assert.Equal(t, int32(3), flaky.calls.Load())
	f.assertBalance(t, "W1", "P", 12)
}

func TestPostingEngine_ReintentosAgotados(t *testing.T) {
	f, flaky := newFlakyEngine(t, 100, 2)
	id := f.receipt(t, "W1", "P", 12)

	_, err := f.engine.Confirm(context.Background(), id, "u1")
	var cc *domain.ConcurrencyConflictError
	require.True(t, errors.As(err, &cc), "se esperaba ConcurrencyConflictError, obtenido %v", err)
	assert.Equal(t, id, cc.DocumentID)
	assert.Equal(t, 3, cc.Attempts)
	assert.True(t, errors.Is(err, domain.ErrConcurrencyConflict))
	assert.Equal(t, int32(3), flaky.calls.Load())

	f.assertBalance(t, "W1", "P", 0)
	doc, err := f.documents.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "DRAFT", doc.Status)
	assert.Empty(t, f.published.events)
}

func TestPostingEngine_ErroresDeNegocioNoSeReintentan(t *testing.T) {
	f, flaky := newFlakyEngine(t, 0, 5)
	id := f.sale(t, "W1", "P", 1)

	_, err := f.engine.Confirm(context.Background(), id, "u1")
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.Equal(t, int32(1), flaky.calls.Load())
}

func TestPostingEngine_ContextoCanceladoDuranteEspera(t *testing.T) {
	f, _ := newFlakyEngine(t, 100, 10)
	id := f.receipt(t, "W1", "P", 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.engine.Confirm(ctx, id, "u1")
	var cc *domain.ConcurrencyConflictError
	require.True(t, errors.As(err, &cc))
	assert.Equal(t, 1, cc.Attempts)
}
