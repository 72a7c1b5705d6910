package models

import "github.com/google/uuid"

// Product is the cached catalog entity
type Product struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Price       float64   `json:"price"`
}

// ProductFilter selects, orders and pages a product listing
type ProductFilter struct {
	Search   string `json:"search,omitempty" validate:"max=200"`
	SortBy   string `json:"sort_by,omitempty" validate:"max=200"`
	Page     int    `json:"page,omitempty" validate:"gte=0,lte=1000000"`
	PageSize int    `json:"page_size,omitempty" validate:"gte=0,lte=500"`
}

// ProductPage is one page of a product listing
type ProductPage struct {
	Items    []Product `json:"items"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
	Total    int       `json:"total"`
}
