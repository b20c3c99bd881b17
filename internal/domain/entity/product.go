package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o materia prima del catálogo.
// El libro de existencias solo usa ID y UnitMeasure; el resto pertenece al maestro de datos.
type Product struct {
	ID               string
	Code             string // código único asignado por el usuario
	Name             string
	Description      string
	UnitMeasure      string // UM de despliegue (kg, t, u)
	CategoryID       string
	TypeID           string
	PurchasePriceMN  decimal.Decimal // precio de compra en moneda nacional
	PurchasePriceMLC decimal.Decimal // precio de compra en moneda libremente convertible
	SalePriceMN      decimal.Decimal
	SalePriceMLC     decimal.Decimal
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
