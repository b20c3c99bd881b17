package dto

import "time"

// CreateWarehouseRequest entrada para crear una unidad organizativa.
type CreateWarehouseRequest struct {
	Name         string  `json:"name" validate:"required,min=1,max=200"`
	Phone        string  `json:"phone" validate:"max=50"`
	Kind         string  `json:"kind" validate:"required,oneof=UEB CASA_COMPRA OTRO"`
	ParentID     *string `json:"parent_id" validate:"omitempty,min=1"`
	Municipality string  `json:"municipality" validate:"max=100"`
}

// WarehouseResponse salida de una unidad organizativa.
type WarehouseResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone,omitempty"`
	Kind         string    `json:"kind"`
	ParentID     *string   `json:"parent_id,omitempty"`
	Municipality string    `json:"municipality,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// WarehouseListResponse lista de unidades.
type WarehouseListResponse struct {
	Items []WarehouseResponse `json:"items"`
}
