package repository

import (
	"context"

	"smartstock/internal/model"

	"gorm.io/gorm"
)

type MovementRepository interface {
	CreateTx(tx *gorm.DB, m *model.StockMovement) error
	// List returns the full movement history newest-first with the referenced
	// product preloaded for display enrichment.
	List(ctx context.Context) ([]model.StockMovement, error)
	SumQuantityByType(ctx context.Context, movementType string) (int64, error)
}

type movementRepo struct{ db *gorm.DB }

func NewMovementRepository(db *gorm.DB) MovementRepository { return &movementRepo{db: db} }

func (r *movementRepo) CreateTx(tx *gorm.DB, m *model.StockMovement) error {
	return tx.Create(m).Error
}

func (r *movementRepo) List(ctx context.Context) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	err := r.db.WithContext(ctx).Preload("Product").
		Order("created_at DESC").Find(&movements).Error
	return movements, err
}

func (r *movementRepo) SumQuantityByType(ctx context.Context, movementType string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.StockMovement{}).
		Where("type = ?", movementType).
		Select("COALESCE(SUM(quantity), 0)").Scan(&total).Error
	return total, err
}
