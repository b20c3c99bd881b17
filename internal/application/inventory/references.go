package inventory

import (
	"context"

	"github.com/jhoicas/materias-primas/internal/domain"
	"github.com/jhoicas/materias-primas/internal/domain/entity"
	domaininv "github.com/jhoicas/materias-primas/internal/domain/inventory"
	"github.com/jhoicas/materias-primas/internal/domain/repository"
)

// MasterData colaborador que resuelve las referencias del documento contra el maestro de datos.
type MasterData struct {
	Products   repository.ProductRepository
	Warehouses repository.WarehouseRepository
	Clients    repository.ClientRepository
}

// missingRef referencia no resuelta.
type missingRef struct {
	resource string
	field    string
	id       string
	line     int
}

// resolve comprueba que existan productos, almacenes y cliente del documento y devuelve la UM
// de cada producto. Los errores de infraestructura se devuelven tal cual.
func (m MasterData) resolve(ctx context.Context, doc *entity.MovementDocument) (domaininv.Units, []missingRef, error) {
	var missing []missingRef

	units := make(domaininv.Units)
	for _, id := range doc.ProductIDs() {
		p, err := m.Products.GetByID(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		if p == nil {
			missing = append(missing, missingRef{resource: "producto", field: "product_id", id: id, line: productLine(doc, id)})
			continue
		}
		units[id] = p.UnitMeasure
	}
	for _, id := range doc.WarehouseIDs() {
		w, err := m.Warehouses.GetByID(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		if w == nil {
			missing = append(missing, missingRef{resource: "almacén", field: warehouseField(doc, id), id: id})
		}
	}
	if doc.ClientID != "" {
		c, err := m.Clients.GetByID(ctx, doc.ClientID)
		if err != nil {
			return nil, nil, err
		}
		if c == nil {
			missing = append(missing, missingRef{resource: "cliente", field: "client_id", id: doc.ClientID})
		}
	}
	return units, missing, nil
}

// notFound convierte la primera referencia faltante en NotFoundError (alta de documentos).
func notFound(missing []missingRef) error {
	if len(missing) == 0 {
		return nil
	}
	return &domain.NotFoundError{Resource: missing[0].resource, ID: missing[0].id}
}

// asValidation convierte las referencias faltantes en problemas de validación (confirmación).
func asValidation(missing []missingRef) error {
	verr := &domain.ValidationError{}
	for _, m := range missing {
		verr.Add(m.line, m.field, m.resource+" "+m.id+" no existe")
	}
	return verr.OrNil()
}

func productLine(doc *entity.MovementDocument, productID string) int {
	for i, l := range doc.Lines {
		if l.ProductID == productID {
			if l.Line > 0 {
				return l.Line
			}
			return i + 1
		}
	}
	return 0
}

func warehouseField(doc *entity.MovementDocument, id string) string {
	switch {
	case doc.Kind != entity.DocumentKindTransfer:
		return "warehouse_id"
	case doc.OriginWarehouseID == id:
		return "origin_warehouse_id"
	default:
		return "destination_warehouse_id"
	}
}
