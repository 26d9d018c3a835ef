package product

import (
	"time"

	"byteshop-be/internal/image"
)

const (
	StatusActive  = "active"
	StatusDisable = "disable"
)

type Product struct {
	ID          uint         `json:"id"`
	MarketID    uint         `json:"market_id"`
	Name        string       `json:"name"`
	Description *string      `json:"description,omitempty"`
	Price       float64      `json:"price"`
	Stock       int          `json:"stock"`
	Status      string       `json:"status"`
	ImageOrigin image.Origin `json:"image_origin,omitempty"`
	ImageRef    string       `json:"image_ref,omitempty"`
	ImageURL    string       `json:"image_url"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type CreateParams struct {
	MarketID    uint
	Name        string
	Description *string
	Price       float64
	Stock       int
	Image       *image.Contribution
}

type UpdateParams struct {
	ProductID   uint
	Name        *string
	Description *string
	Price       *float64
	Stock       *int
	Image       *image.Contribution
}
