package inventory

import (
	"github.com/jhoicas/materias-primas/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Totals importes de un documento en las dos monedas. Se registran, no se concilian.
type Totals struct {
	Quantity  decimal.Decimal
	AmountMN  decimal.Decimal
	AmountMLC decimal.Decimal
}

// LineAmounts importe de una línea: Cantidad * Precio en MN y en MLC.
func LineAmounts(l entity.DocumentLine) (mn, mlc decimal.Decimal) {
	return l.Quantity.Mul(l.PriceMN), l.Quantity.Mul(l.PriceMLC)
}

// DocumentTotals suma las líneas del documento. Un procesamiento no lleva precios:
// Quantity es la cantidad de salida.
func DocumentTotals(doc *entity.MovementDocument) Totals {
	t := Totals{Quantity: decimal.Zero, AmountMN: decimal.Zero, AmountMLC: decimal.Zero}
	if doc.Kind == entity.DocumentKindConversion {
		if doc.Conversion != nil {
			t.Quantity = doc.Conversion.OutputQuantity
		}
		return t
	}
	for _, l := range doc.Lines {
		mn, mlc := LineAmounts(l)
		t.Quantity = t.Quantity.Add(l.Quantity)
		t.AmountMN = t.AmountMN.Add(mn)
		t.AmountMLC = t.AmountMLC.Add(mlc)
	}
	return t
}
