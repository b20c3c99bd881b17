package entity

import "time"

// Client representa un proveedor, solicitante o cliente de venta.
type Client struct {
	ID        string
	Code      string
	Name      string
	Organism  string // organismo al que pertenece
	CreatedAt time.Time
	UpdatedAt time.Time
}
