package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Stock status values derived from CurrentStock vs MinStock.
const (
	StatusInStock    = "in_stock"
	StatusLowStock   = "low_stock"
	StatusOutOfStock = "out_of_stock"
)

// Product is the catalog root. StockMovement and Sale rows reference it and
// are removed with it (ON DELETE CASCADE) — history does not outlive the product.
type Product struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code         string    `gorm:"type:varchar(20);uniqueIndex;not null"`
	Name         string    `gorm:"index;not null"`
	SKU          string    `gorm:"column:sku;uniqueIndex;not null"`
	Category     string
	Description  string
	Supplier     string
	Price        decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CurrentStock int             `gorm:"not null;default:0"`
	MinStock     int             `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// StockStatus classifies the current stock level.
// Boundary rule: stock exactly at the minimum is low_stock, not in_stock.
func (p *Product) StockStatus() string {
	switch {
	case p.CurrentStock == 0:
		return StatusOutOfStock
	case p.CurrentStock <= p.MinStock:
		return StatusLowStock
	default:
		return StatusInStock
	}
}
