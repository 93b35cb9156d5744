package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RecordMovementRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Type      string `json:"type"       validate:"required,oneof=in out"`
	Quantity  int    `json:"quantity"   validate:"required,gt=0"`
	Reason    string `json:"reason"     validate:"required,max=100"`
	Notes     string `json:"notes"`
}

type RecordSaleRequest struct {
	ProductID    string          `json:"product_id"    validate:"required,uuid"`
	Quantity     int             `json:"quantity"      validate:"required,gt=0"`
	UnitPrice    decimal.Decimal `json:"unit_price"    validate:"required,gt=0"`
	CustomerName string          `json:"customer_name" validate:"required,min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MovementResponse struct {
	ID          string `json:"id"`
	Code        string `json:"movement_code"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	ProductSKU  string `json:"product_sku"`
	Type        string `json:"type"`
	Quantity    int    `json:"quantity"`
	Reason      string `json:"reason"`
	Notes       string `json:"notes"`
	CreatedBy   string `json:"created_by"`
	CreatedAt   string `json:"created_at"`
}

type SaleResponse struct {
	ID           string          `json:"id"`
	Code         string          `json:"sale_code"`
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductSKU   string          `json:"product_sku"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	CustomerName string          `json:"customer_name"`
	CreatedBy    string          `json:"created_by"`
	CreatedAt    string          `json:"created_at"`
}
