package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Name         string          `json:"name"          validate:"required,min=1,max=120"`
	SKU          string          `json:"sku"           validate:"required,min=1,max=50"`
	Category     string          `json:"category"`
	Description  string          `json:"description"`
	Supplier     string          `json:"supplier"`
	Price        decimal.Decimal `json:"price"         validate:"required,min=0"`
	CurrentStock int             `json:"current_stock" validate:"min=0"`
	MinStock     int             `json:"min_stock"     validate:"min=0"`
}

// UpdateProductRequest carries only the fields the caller wants to change.
// Nil pointers leave the stored value untouched (coalesce merge).
type UpdateProductRequest struct {
	Name        *string          `json:"name"        validate:"omitempty,min=1,max=120"`
	SKU         *string          `json:"sku"         validate:"omitempty,min=1,max=50"`
	Category    *string          `json:"category"`
	Description *string          `json:"description"`
	Supplier    *string          `json:"supplier"`
	Price       *decimal.Decimal `json:"price"       validate:"omitempty,min=0"`
	MinStock    *int             `json:"min_stock"   validate:"omitempty,min=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID           string          `json:"id"`
	Code         string          `json:"product_code"`
	Name         string          `json:"name"`
	SKU          string          `json:"sku"`
	Category     string          `json:"category"`
	Description  string          `json:"description"`
	Supplier     string          `json:"supplier"`
	Price        decimal.Decimal `json:"price"`
	CurrentStock int             `json:"current_stock"`
	MinStock     int             `json:"min_stock"`
	Status       string          `json:"status"`
	CreatedAt    string          `json:"created_at"`
	UpdatedAt    string          `json:"updated_at"`
}
