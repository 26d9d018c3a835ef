package market

import (
	"time"

	"byteshop-be/internal/image"
)

// Market is a shop owner's storefront. Every product hangs off exactly one
// market.
type Market struct {
	ID          uint         `json:"id"`
	OwnerID     uint         `json:"owner_id"`
	Name        string       `json:"name"`
	Description *string      `json:"description,omitempty"`
	ImageOrigin image.Origin `json:"image_origin,omitempty"`
	ImageRef    string       `json:"image_ref,omitempty"`
	ImageURL    string       `json:"image_url"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type CreateParams struct {
	OwnerID     uint
	Name        string
	Description *string
	Image       *image.Contribution
}

type UpdateParams struct {
	MarketID    uint
	Name        *string
	Description *string
	Image       *image.Contribution
}
