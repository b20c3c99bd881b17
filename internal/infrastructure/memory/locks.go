package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/materias-primas/internal/domain"
)

// keyLocks un mutex por clave (documento o fila del submayor). Claves distintas no se bloquean entre sí.
type keyLocks struct {
	mu sync.Mutex
	m  map[string]chan struct{}
}

func newKeyLocks() *keyLocks {
	return &keyLocks{m: make(map[string]chan struct{})}
}

func (l *keyLocks) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.m[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.m[key] = ch
	}
	return ch
}

// acquire espera el bloqueo hasta wait; al vencer devuelve domain.ErrConcurrencyConflict.
// wait <= 0 espera indefinidamente (solo la cancelación del contexto interrumpe).
func (l *keyLocks) acquire(ctx context.Context, key string, wait time.Duration) error {
	ch := l.slot(key)
	var timeout <-chan time.Time
	if wait > 0 {
		t := time.NewTimer(wait)
		defer t.Stop()
		timeout = t.C
	}
	select {
	case ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timeout:
		return fmt.Errorf("%w: bloqueo %s", domain.ErrConcurrencyConflict, key)
	}
}

func (l *keyLocks) release(key string) {
	<-l.slot(key)
}
