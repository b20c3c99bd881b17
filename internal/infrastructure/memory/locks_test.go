package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jhoicas/materias-primas/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyLocks_EsperaVencidaEsConflicto(t *testing.T) {
	l := newKeyLocks()
	ctx := context.Background()
	require.NoError(t, l.acquire(ctx, "stock:W1/P", 0))

	err := l.acquire(ctx, "stock:W1/P", 10*time.Millisecond)
	assert.True(t, errors.Is(err, domain.ErrConcurrencyConflict))

	// otra clave no queda bloqueada
	require.NoError(t, l.acquire(ctx, "stock:W2/P", 10*time.Millisecond))

	l.release("stock:W1/P")
	require.NoError(t, l.acquire(ctx, "stock:W1/P", 10*time.Millisecond))
}

func TestKeyLocks_ContextoCancelado(t *testing.T) {
	l := newKeyLocks()
	require.NoError(t, l.acquire(context.Background(), "doc:D1", 0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := l.acquire(ctx, "doc:D1", time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}
