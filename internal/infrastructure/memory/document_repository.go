package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/materias-primas/internal/domain"
	"github.com/jhoicas/materias-primas/internal/domain/entity"
	"github.com/jhoicas/materias-primas/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo documentos en memoria; con tx != nil las escrituras quedan en buffer.
type DocumentRepo struct {
	s  *Store
	tx *tx
}

// Create guarda un documento en borrador.
func (r *DocumentRepo) Create(_ context.Context, doc *entity.MovementDocument) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.documents[doc.ID]; ok {
		return fmt.Errorf("%w: documento %s", domain.ErrDuplicate, doc.ID)
	}
	r.s.documents[doc.ID] = copyDocument(doc)
	return nil
}

// GetByID devuelve el documento visto por la transacción (o el confirmado si no hay tx).
func (r *DocumentRepo) GetByID(_ context.Context, id string) (*entity.MovementDocument, error) {
	return r.view(id), nil
}

// GetForUpdate bloquea el documento hasta el fin de la transacción.
func (r *DocumentRepo) GetForUpdate(ctx context.Context, id string) (*entity.MovementDocument, error) {
	if r.tx != nil {
		if err := r.tx.lock(ctx, docLockKey(id)); err != nil {
			return nil, err
		}
	}
	return r.view(id), nil
}

func (r *DocumentRepo) view(id string) *entity.MovementDocument {
	if r.tx != nil {
		if _, deleted := r.tx.deletes[id]; deleted {
			return nil
		}
	}
	r.s.mu.RLock()
	d := copyDocument(r.s.documents[id])
	r.s.mu.RUnlock()
	if d == nil || r.tx == nil {
		return d
	}
	if mark, ok := r.tx.confirms[id]; ok {
		at := mark.at
		d.Confirmed = true
		d.ConfirmedAt = &at
		d.ConfirmedBy = mark.by
	}
	return d
}

// MarkConfirmed marca el documento como confirmado.
func (r *DocumentRepo) MarkConfirmed(_ context.Context, id string, at time.Time, by string) error {
	d := r.view(id)
	if d == nil {
		return &domain.NotFoundError{Resource: "documento", ID: id}
	}
	if d.Confirmed {
		return fmt.Errorf("%w: documento %s", domain.ErrAlreadyConfirmed, id)
	}
	if r.tx != nil {
		r.tx.confirms[id] = confirmMark{at: at, by: by}
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored := r.s.documents[id]
	stored.Confirmed = true
	stored.ConfirmedAt = &at
	stored.ConfirmedBy = by
	return nil
}

// DeleteDraft elimina un borrador.
func (r *DocumentRepo) DeleteDraft(_ context.Context, id string) error {
	d := r.view(id)
	if d == nil {
		return &domain.NotFoundError{Resource: "documento", ID: id}
	}
	if d.Confirmed {
		return fmt.Errorf("%w: documento %s", domain.ErrAlreadyConfirmed, id)
	}
	if r.tx != nil {
		r.tx.deletes[id] = struct{}{}
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.documents, id)
	return nil
}

// List devuelve documentos confirmados y borradores ordenados por fecha descendente.
func (r *DocumentRepo) List(_ context.Context, f repository.DocumentFilter) ([]*entity.MovementDocument, error) {
	r.s.mu.RLock()
	var out []*entity.MovementDocument
	for _, d := range r.s.documents {
		if matches(d, f) {
			out = append(out, copyDocument(d))
		}
	}
	r.s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return paginate(out, f.Limit, f.Offset), nil
}

func matches(d *entity.MovementDocument, f repository.DocumentFilter) bool {
	if f.Kind != "" && d.Kind != f.Kind {
		return false
	}
	if f.WarehouseID != "" && d.WarehouseID != f.WarehouseID &&
		d.OriginWarehouseID != f.WarehouseID && d.DestinationWarehouseID != f.WarehouseID {
		return false
	}
	if f.Confirmed != nil && d.Confirmed != *f.Confirmed {
		return false
	}
	if f.From != nil && d.Date.Before(*f.From) {
		return false
	}
	if f.To != nil && d.Date.After(*f.To) {
		return false
	}
	return true
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
