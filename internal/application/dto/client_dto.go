package dto

import "time"

// CreateClientRequest body para POST /api/clients.
type CreateClientRequest struct {
	Code     string `json:"code" validate:"required,min=1,max=50"`
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Organism string `json:"organism" validate:"max=200"`
}

// ClientResponse proveedor o cliente en respuestas.
type ClientResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Organism  string    `json:"organism,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
