package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentKind tipo de documento que afecta existencias.
type DocumentKind string

const (
	DocumentKindReceipt    DocumentKind = "RECEIPT"    // entrada de proveedor
	DocumentKindTransfer   DocumentKind = "TRANSFER"   // traslado entre almacenes
	DocumentKindSale       DocumentKind = "SALE"       // venta a cliente
	DocumentKindConversion DocumentKind = "CONVERSION" // procesamiento de un producto en otro
)

// Valid indica si el tipo es conocido.
func (k DocumentKind) Valid() bool {
	switch k {
	case DocumentKindReceipt, DocumentKindTransfer, DocumentKindSale, DocumentKindConversion:
		return true
	}
	return false
}

// DocumentStatus estado del flujo de confirmación. CONFIRMED es terminal.
type DocumentStatus string

const (
	DocumentStatusDraft     DocumentStatus = "DRAFT"
	DocumentStatusConfirmed DocumentStatus = "CONFIRMED"
)

// DocumentLine línea de entrada, traslado o venta.
// En ventas PriceMN/PriceMLC son precios de venta; en el resto, precios de compra.
type DocumentLine struct {
	Line      int
	ProductID string
	Quantity  decimal.Decimal
	PriceMN   decimal.Decimal
	PriceMLC  decimal.Decimal
}

// Conversion datos de un procesamiento: cantidades de entrada y salida independientes.
type Conversion struct {
	SourceProductID string
	SourceQuantity  decimal.Decimal
	OutputProductID string
	OutputQuantity  decimal.Decimal
}

// MovementDocument documento de movimiento (unión etiquetada por Kind).
//
//	RECEIPT:    ClientID (proveedor), WarehouseID (destino), Lines
//	TRANSFER:   ClientID (solicitante), OriginWarehouseID, DestinationWarehouseID, Lines
//	SALE:       ClientID (cliente), WarehouseID (origen), Lines
//	CONVERSION: WarehouseID, Conversion
type MovementDocument struct {
	ID                     string
	Kind                   DocumentKind
	Date                   time.Time
	ClientID               string
	WarehouseID            string
	OriginWarehouseID      string
	DestinationWarehouseID string
	Lines                  []DocumentLine
	Conversion             *Conversion
	Confirmed              bool
	ConfirmedAt            *time.Time
	ConfirmedBy            string
	CreatedAt              time.Time
	CreatedBy              string
}

// Status devuelve el estado del documento.
func (d *MovementDocument) Status() DocumentStatus {
	if d.Confirmed {
		return DocumentStatusConfirmed
	}
	return DocumentStatusDraft
}

// WarehouseIDs almacenes referenciados por el documento, sin repetir.
func (d *MovementDocument) WarehouseIDs() []string {
	var ids []string
	switch d.Kind {
	case DocumentKindTransfer:
		ids = []string{d.OriginWarehouseID, d.DestinationWarehouseID}
	default:
		ids = []string{d.WarehouseID}
	}
	return uniqueNonEmpty(ids)
}

// ProductIDs productos referenciados por el documento, sin repetir y en orden de aparición.
func (d *MovementDocument) ProductIDs() []string {
	var ids []string
	if d.Kind == DocumentKindConversion {
		if d.Conversion != nil {
			ids = append(ids, d.Conversion.SourceProductID, d.Conversion.OutputProductID)
		}
		return uniqueNonEmpty(ids)
	}
	for _, l := range d.Lines {
		ids = append(ids, l.ProductID)
	}
	return uniqueNonEmpty(ids)
}

func uniqueNonEmpty(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
