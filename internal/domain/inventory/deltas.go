package inventory

import (
	"fmt"

	"github.com/jhoicas/materias-primas/internal/domain"
	"github.com/jhoicas/materias-primas/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Units resuelve la unidad de medida de cada producto (productID -> UM).
type Units map[string]string

// ValidateDocument valida la forma del documento según su tipo.
// Devuelve *domain.ValidationError con todos los problemas encontrados, o nil.
// La existencia de productos, almacenes y clientes se valida aparte contra el maestro de datos.
func ValidateDocument(doc *entity.MovementDocument) error {
	verr := &domain.ValidationError{}
	if doc.Date.IsZero() {
		verr.Add(0, "date", "es requerida")
	}
	switch doc.Kind {
	case entity.DocumentKindReceipt, entity.DocumentKindSale:
		if doc.ClientID == "" {
			verr.Add(0, "client_id", "es requerido")
		}
		if doc.WarehouseID == "" {
			verr.Add(0, "warehouse_id", "es requerido")
		}
		validateLines(doc.Lines, verr)
		if doc.Conversion != nil {
			verr.Add(0, "conversion", "solo se admite en procesamientos")
		}
	case entity.DocumentKindTransfer:
		if doc.ClientID == "" {
			verr.Add(0, "client_id", "es requerido")
		}
		if doc.OriginWarehouseID == "" {
			verr.Add(0, "origin_warehouse_id", "es requerido")
		}
		if doc.DestinationWarehouseID == "" {
			verr.Add(0, "destination_warehouse_id", "es requerido")
		}
		if doc.OriginWarehouseID != "" && doc.OriginWarehouseID == doc.DestinationWarehouseID {
			verr.Add(0, "destination_warehouse_id", "debe ser distinto del origen")
		}
		validateLines(doc.Lines, verr)
		if doc.Conversion != nil {
			verr.Add(0, "conversion", "solo se admite en procesamientos")
		}
	case entity.DocumentKindConversion:
		ConversionResolver{}.validate(doc, verr)
	default:
		verr.Add(0, "kind", fmt.Sprintf("tipo de documento desconocido %q", doc.Kind))
	}
	return verr.OrNil()
}

func validateLines(lines []entity.DocumentLine, verr *domain.ValidationError) {
	if len(lines) == 0 {
		verr.Add(0, "lines", "se requiere al menos una línea")
		return
	}
	for i, l := range lines {
		n := lineNumber(l, i)
		if l.ProductID == "" {
			verr.Add(n, "product_id", "es requerido")
		}
		if !l.Quantity.GreaterThan(decimal.Zero) {
			verr.Add(n, "quantity", "debe ser mayor que cero")
		}
		checkStorable(verr, n, "quantity", l.Quantity)
		if l.PriceMN.IsNegative() {
			verr.Add(n, "price_mn", "no puede ser negativo")
		}
		checkStorable(verr, n, "price_mn", l.PriceMN)
		if l.PriceMLC.IsNegative() {
			verr.Add(n, "price_mlc", "no puede ser negativo")
		}
		checkStorable(verr, n, "price_mlc", l.PriceMLC)
	}
}

// Cantidades y precios se persisten como NUMERIC(18,4).
const MaxScale = 4

var maxMagnitude = decimal.New(1, 18-MaxScale)

// checkStorable rechaza valores que NUMERIC(18,4) redondearía o no podría guardar.
func checkStorable(verr *domain.ValidationError, line int, field string, d decimal.Decimal) {
	if !d.Equal(d.Truncate(MaxScale)) {
		verr.Add(line, field, fmt.Sprintf("admite como máximo %d decimales", MaxScale))
	}
	if d.Abs().GreaterThanOrEqual(maxMagnitude) {
		verr.Add(line, field, "excede el máximo permitido")
	}
}

// lineNumber número de línea visible (1..n) aunque el documento no lo traiga asignado.
func lineNumber(l entity.DocumentLine, idx int) int {
	if l.Line > 0 {
		return l.Line
	}
	return idx + 1
}

// ComputeDeltas calcula los deltas firmados que implica el documento, en orden de línea.
// No toca el libro; el documento debe haber pasado ValidateDocument.
func ComputeDeltas(doc *entity.MovementDocument, units Units) ([]entity.StockDelta, error) {
	if err := ValidateDocument(doc); err != nil {
		return nil, err
	}
	switch doc.Kind {
	case entity.DocumentKindReceipt:
		out := make([]entity.StockDelta, 0, len(doc.Lines))
		for i, l := range doc.Lines {
			out = append(out, lineDelta(doc.WarehouseID, l, units, l.Quantity, lineNumber(l, i)))
		}
		return out, nil
	case entity.DocumentKindSale:
		out := make([]entity.StockDelta, 0, len(doc.Lines))
		for i, l := range doc.Lines {
			out = append(out, lineDelta(doc.WarehouseID, l, units, l.Quantity.Neg(), lineNumber(l, i)))
		}
		return out, nil
	case entity.DocumentKindTransfer:
		// Misma cantidad sale del origen y entra al destino; no se modela merma.
		out := make([]entity.StockDelta, 0, 2*len(doc.Lines))
		for i, l := range doc.Lines {
			n := lineNumber(l, i)
			out = append(out,
				lineDelta(doc.OriginWarehouseID, l, units, l.Quantity.Neg(), n),
				lineDelta(doc.DestinationWarehouseID, l, units, l.Quantity, n),
			)
		}
		return out, nil
	case entity.DocumentKindConversion:
		return ConversionResolver{}.Deltas(doc, units)
	}
	return nil, domain.ErrInvalidInput
}

func lineDelta(warehouseID string, l entity.DocumentLine, units Units, qty decimal.Decimal, line int) entity.StockDelta {
	return entity.StockDelta{
		WarehouseID: warehouseID,
		ProductID:   l.ProductID,
		UnitMeasure: units[l.ProductID],
		Quantity:    qty,
		Line:        line,
	}
}
