package model

import (
	"time"

	"github.com/google/uuid"
)

// Movement directions.
const (
	MovementIn  = "in"
	MovementOut = "out"
)

// StockMovement records a single stock change on a product. Rows are
// append-only: never updated or deleted after insert (except by product
// cascade). Sales write a companion movement of type "out" so the two
// ledgers stay linked by code reference.
type StockMovement struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code      string    `gorm:"type:varchar(20);uniqueIndex;not null"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	Type      string    `gorm:"type:varchar(10);not null"` // "in" | "out"
	Quantity  int       `gorm:"not null"`                  // always positive; direction carried by Type
	Reason    string
	Notes     string
	CreatedBy string `gorm:"not null;default:'system'"`
	CreatedAt time.Time

	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}
