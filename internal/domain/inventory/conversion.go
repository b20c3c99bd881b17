package inventory

import (
	"github.com/jhoicas/materias-primas/internal/domain"
	"github.com/jhoicas/materias-primas/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ConversionResolver valida y resuelve los deltas de un procesamiento.
// Las cantidades de entrada y salida son independientes: no se impone rendimiento ni conservación.
// Ambos deltas se aplican en el almacén del documento.
type ConversionResolver struct{}

// Validate valida un procesamiento.
func (r ConversionResolver) Validate(doc *entity.MovementDocument) error {
	verr := &domain.ValidationError{}
	r.validate(doc, verr)
	return verr.OrNil()
}

func (ConversionResolver) validate(doc *entity.MovementDocument, verr *domain.ValidationError) {
	if doc.WarehouseID == "" {
		verr.Add(0, "warehouse_id", "es requerido")
	}
	if len(doc.Lines) > 0 {
		verr.Add(0, "lines", "un procesamiento no admite líneas")
	}
	c := doc.Conversion
	if c == nil {
		verr.Add(0, "conversion", "es requerido")
		return
	}
	if c.SourceProductID == "" {
		verr.Add(0, "source_product_id", "es requerido")
	}
	if c.OutputProductID == "" {
		verr.Add(0, "output_product_id", "es requerido")
	}
	if c.SourceProductID != "" && c.SourceProductID == c.OutputProductID {
		verr.Add(0, "output_product_id", "debe ser distinto del producto de origen")
	}
	if !c.SourceQuantity.GreaterThan(decimal.Zero) {
		verr.Add(0, "source_quantity", "debe ser mayor que cero")
	}
	checkStorable(verr, 0, "source_quantity", c.SourceQuantity)
	if !c.OutputQuantity.GreaterThan(decimal.Zero) {
		verr.Add(0, "output_quantity", "debe ser mayor que cero")
	}
	checkStorable(verr, 0, "output_quantity", c.OutputQuantity)
}

// Deltas devuelve -SourceQuantity del producto origen y +OutputQuantity del producto salida.
func (r ConversionResolver) Deltas(doc *entity.MovementDocument, units Units) ([]entity.StockDelta, error) {
	if err := r.Validate(doc); err != nil {
		return nil, err
	}
	c := doc.Conversion
	return []entity.StockDelta{
		{
			WarehouseID: doc.WarehouseID,
			ProductID:   c.SourceProductID,
			UnitMeasure: units[c.SourceProductID],
			Quantity:    c.SourceQuantity.Neg(),
			Line:        1,
		},
		{
			WarehouseID: doc.WarehouseID,
			ProductID:   c.OutputProductID,
			UnitMeasure: units[c.OutputProductID],
			Quantity:    c.OutputQuantity,
			Line:        1,
		},
	}, nil
}
