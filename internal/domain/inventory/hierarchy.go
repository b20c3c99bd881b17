package inventory

import (
	"sort"

	"github.com/jhoicas/materias-primas/internal/domain"
	"github.com/jhoicas/materias-primas/internal/domain/entity"
)

// SiteIndex índice de la jerarquía de unidades organizativas (id -> unidad, padre -> hijos).
// Se recorre por ids; las entidades no guardan punteros a sus hijos.
type SiteIndex struct {
	byID     map[string]*entity.Warehouse
	children map[string][]string
}

// NewSiteIndex construye el índice a partir de la lista plana de unidades.
func NewSiteIndex(warehouses []*entity.Warehouse) *SiteIndex {
	idx := &SiteIndex{
		byID:     make(map[string]*entity.Warehouse, len(warehouses)),
		children: make(map[string][]string),
	}
	for _, w := range warehouses {
		idx.byID[w.ID] = w
	}
	for _, w := range warehouses {
		if p := w.ParentUEB(); p != "" {
			idx.children[p] = append(idx.children[p], w.ID)
		}
	}
	for p := range idx.children {
		sort.Strings(idx.children[p])
	}
	return idx
}

// Get devuelve la unidad o nil.
func (idx *SiteIndex) Get(id string) *entity.Warehouse {
	return idx.byID[id]
}

// Subtree devuelve rootID seguido de todos sus descendientes (BFS). Tolera ciclos.
func (idx *SiteIndex) Subtree(rootID string) []string {
	if _, ok := idx.byID[rootID]; !ok {
		return nil
	}
	seen := map[string]bool{rootID: true}
	out := []string{rootID}
	for i := 0; i < len(out); i++ {
		for _, child := range idx.children[out[i]] {
			if seen[child] {
				continue
			}
			seen[child] = true
			out = append(out, child)
		}
	}
	return out
}

// ValidateWarehouse comprueba la forma de una unidad: tipo conocido, una UEB no tiene padre
// y el padre, si existe, debe ser una UEB.
func ValidateWarehouse(w *entity.Warehouse, parent *entity.Warehouse) error {
	verr := &domain.ValidationError{}
	if w.Name == "" {
		verr.Add(0, "name", "es requerido")
	}
	if !w.Kind.Valid() {
		verr.Add(0, "kind", "tipo de unidad desconocido")
	}
	if w.IsUEB() && w.ParentID != nil {
		verr.Add(0, "parent_id", "una UEB no puede tener padre")
	}
	if w.ParentID != nil {
		switch {
		case parent == nil:
			verr.Add(0, "parent_id", "la UEB padre no existe")
		case !parent.IsUEB():
			verr.Add(0, "parent_id", "el padre debe ser una UEB")
		case parent.ID == w.ID:
			verr.Add(0, "parent_id", "una unidad no puede ser su propio padre")
		}
	}
	return verr.OrNil()
}
