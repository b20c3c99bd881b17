package entity

import "time"

// WarehouseKind discrimina el tipo de unidad organizativa.
type WarehouseKind string

const (
	WarehouseKindUEB        WarehouseKind = "UEB"         // unidad empresarial de base (sitio raíz)
	WarehouseKindCasaCompra WarehouseKind = "CASA_COMPRA" // casa de compra, depende de una UEB
	WarehouseKindOther      WarehouseKind = "OTRO"
)

// Valid indica si el tipo es conocido.
func (k WarehouseKind) Valid() bool {
	switch k {
	case WarehouseKindUEB, WarehouseKindCasaCompra, WarehouseKindOther:
		return true
	}
	return false
}

// Warehouse representa una unidad organizativa que almacena inventario.
// La jerarquía se expresa por ParentID (id de la UEB), nunca por punteros a hijos.
type Warehouse struct {
	ID           string
	Name         string
	Phone        string
	Kind         WarehouseKind
	ParentID     *string // UEB a la que pertenece; nil en una UEB
	Municipality string  // solo casas de compra
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsUEB indica si la unidad es un sitio raíz.
func (w *Warehouse) IsUEB() bool {
	return w.Kind == WarehouseKindUEB
}

// ParentUEB devuelve el id de la UEB padre o "".
func (w *Warehouse) ParentUEB() string {
	if w.ParentID == nil {
		return ""
	}
	return *w.ParentID
}
