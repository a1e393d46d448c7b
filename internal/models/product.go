package models

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Product never carries photo bytes; those are served by the photo endpoint.
type Product struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
	CategoryID  uuid.UUID `json:"category_id"`
	Shipping    bool      `json:"shipping"`
	HasPhoto    bool      `json:"has_photo"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Category    *Category `json:"category,omitempty"`
}

type ProductPhoto struct {
	Data        []byte
	ContentType string
}

type CategoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// ProductRequest is bound from a multipart form, not JSON.
type ProductRequest struct {
	Name        string        `validate:"required,max=200"`
	Description string        `validate:"required"`
	Price       float64       `validate:"gte=0"`
	Quantity    int           `validate:"gte=0"`
	CategoryID  uuid.UUID     `validate:"required"`
	Shipping    bool
	Photo       *ProductPhoto `validate:"-"`
}

type ProductFilterRequest struct {
	Checked []uuid.UUID `json:"checked"`
	Radio   []float64   `json:"radio"`
	Page    int         `json:"page"`
}

type CategoryProducts struct {
	Category *Category  `json:"category"`
	Products []*Product `json:"products"`
}
