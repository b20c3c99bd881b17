package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/materias-primas/internal/application/inventory"
	"github.com/jhoicas/materias-primas/internal/domain"
	"github.com/jhoicas/materias-primas/internal/domain/entity"
	"github.com/jhoicas/materias-primas/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner transacciones en memoria: bloqueos por clave mientras dura fn y escrituras
// en buffer que se aplican juntas al confirmar. Si fn falla no queda nada aplicado.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el almacenamiento.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run ejecuta fn con repos atados a una transacción nueva y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	docRepo repository.DocumentRepository,
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	t := newTx(r.s)
	defer t.release()

	if err := fn(&DocumentRepo{s: r.s, tx: t}, &StockRepo{s: r.s, tx: t}, &StockMovementRepo{s: r.s, tx: t}); err != nil {
		return err
	}
	return t.commit()
}

type confirmMark struct {
	at time.Time
	by string
}

// tx estado de una transacción en curso.
type tx struct {
	s         *Store
	held      []string
	heldSet   map[string]struct{}
	stock     map[entity.StockKey]*entity.StockEntry
	movements []*entity.StockMovement
	confirms  map[string]confirmMark
	deletes   map[string]struct{}
}

func newTx(s *Store) *tx {
	return &tx{
		s:        s,
		heldSet:  make(map[string]struct{}),
		stock:    make(map[entity.StockKey]*entity.StockEntry),
		confirms: make(map[string]confirmMark),
		deletes:  make(map[string]struct{}),
	}
}

// lock adquiere el bloqueo de la clave una sola vez por transacción.
func (t *tx) lock(ctx context.Context, key string) error {
	if _, ok := t.heldSet[key]; ok {
		return nil
	}
	if err := t.s.locks.acquire(ctx, key, t.s.lockWait); err != nil {
		return err
	}
	t.heldSet[key] = struct{}{}
	t.held = append(t.held, key)
	return nil
}

func (t *tx) release() {
	for i := len(t.held) - 1; i >= 0; i-- {
		t.s.locks.release(t.held[i])
	}
	t.held = nil
	t.heldSet = map[string]struct{}{}
}

// commit valida el estado de los documentos y aplica todas las escrituras bajo el mutex del store.
func (t *tx) commit() error {
	s := t.s
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range t.confirms {
		d, ok := s.documents[id]
		if !ok {
			return &domain.NotFoundError{Resource: "documento", ID: id}
		}
		if d.Confirmed {
			return fmt.Errorf("%w: documento %s", domain.ErrAlreadyConfirmed, id)
		}
	}
	for id := range t.deletes {
		if d, ok := s.documents[id]; ok && d.Confirmed {
			return fmt.Errorf("%w: documento %s", domain.ErrAlreadyConfirmed, id)
		}
	}

	for k, e := range t.stock {
		s.stock[k] = copyEntry(e)
	}
	for _, m := range t.movements {
		mv := *m
		s.movements = append(s.movements, &mv)
	}
	for id, mark := range t.confirms {
		d := s.documents[id]
		at := mark.at
		d.Confirmed = true
		d.ConfirmedAt = &at
		d.ConfirmedBy = mark.by
	}
	for id := range t.deletes {
		delete(s.documents, id)
	}
	return nil
}

func docLockKey(id string) string { return "doc:" + id }

func stockLockKey(k entity.StockKey) string { return "stock:" + k.String() }
