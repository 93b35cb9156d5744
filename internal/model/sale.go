package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale records one sold line. UnitPrice is a snapshot of the price charged
// at the time of sale — later catalog price changes never rewrite history.
// TotalAmount is stored at insert (quantity × unit price), not recomputed.
type Sale struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code         string    `gorm:"type:varchar(20);uniqueIndex;not null"`
	ProductID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Quantity     int       `gorm:"not null"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	TotalAmount  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CustomerName string
	CreatedBy    string `gorm:"not null;default:'system'"`
	CreatedAt    time.Time

	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}
