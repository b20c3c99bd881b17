package inventory

import (
	"github.com/jhoicas/materias-primas/internal/application/dto"
	"github.com/jhoicas/materias-primas/internal/domain/entity"
	domaininv "github.com/jhoicas/materias-primas/internal/domain/inventory"
)

const dateLayout = "2006-01-02"

// ToDocumentResponse convierte el documento en su representación HTTP con totales MN/MLC.
func ToDocumentResponse(doc *entity.MovementDocument) *dto.DocumentResponse {
	if doc == nil {
		return nil
	}
	totals := domaininv.DocumentTotals(doc)
	out := &dto.DocumentResponse{
		ID:                     doc.ID,
		Kind:                   string(doc.Kind),
		Status:                 string(doc.Status()),
		Date:                   doc.Date.Format(dateLayout),
		ClientID:               doc.ClientID,
		WarehouseID:            doc.WarehouseID,
		OriginWarehouseID:      doc.OriginWarehouseID,
		DestinationWarehouseID: doc.DestinationWarehouseID,
		TotalQuantity:          totals.Quantity,
		TotalMN:                totals.AmountMN,
		TotalMLC:               totals.AmountMLC,
		ConfirmedAt:            doc.ConfirmedAt,
		ConfirmedBy:            doc.ConfirmedBy,
		CreatedAt:              doc.CreatedAt,
		CreatedBy:              doc.CreatedBy,
	}
	for _, l := range doc.Lines {
		mn, mlc := domaininv.LineAmounts(l)
		out.Lines = append(out.Lines, dto.DocumentLineResponse{
			Line:      l.Line,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			PriceMN:   l.PriceMN,
			PriceMLC:  l.PriceMLC,
			AmountMN:  mn,
			AmountMLC: mlc,
		})
	}
	if c := doc.Conversion; c != nil {
		out.Conversion = &dto.ConversionResponse{
			SourceProductID: c.SourceProductID,
			SourceQuantity:  c.SourceQuantity,
			OutputProductID: c.OutputProductID,
			OutputQuantity:  c.OutputQuantity,
		}
	}
	return out
}

// ToMovementResponse convierte un asiento del kardex.
func ToMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:           m.ID,
		DocumentID:   m.DocumentID,
		DocumentKind: string(m.DocumentKind),
		Line:         m.Line,
		WarehouseID:  m.WarehouseID,
		ProductID:    m.ProductID,
		UnitMeasure:  m.UnitMeasure,
		Quantity:     m.Quantity,
		BalanceAfter: m.BalanceAfter,
		CreatedAt:    m.CreatedAt,
		CreatedBy:    m.CreatedBy,
	}
}

// ToConfirmResponse convierte el resultado de una confirmación.
func ToConfirmResponse(res *Confirmation) *dto.ConfirmDocumentResponse {
	out := &dto.ConfirmDocumentResponse{
		Document: *ToDocumentResponse(res.Document),
		Changes:  make([]dto.MovementResponse, 0, len(res.Movements)),
	}
	for _, m := range res.Movements {
		out.Changes = append(out.Changes, ToMovementResponse(m))
	}
	for _, k := range res.Negative {
		out.Warnings = append(out.Warnings, "existencia negativa en "+k.String())
	}
	return out
}

func toBalanceResponse(e *entity.StockEntry) dto.BalanceResponse {
	updated := e.UpdatedAt
	return dto.BalanceResponse{
		WarehouseID: e.WarehouseID,
		ProductID:   e.ProductID,
		UnitMeasure: e.UnitMeasure,
		Quantity:    e.Quantity,
		UpdatedAt:   &updated,
	}
}
