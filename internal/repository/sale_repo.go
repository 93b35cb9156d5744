package repository

import (
	"context"

	"smartstock/internal/dto"
	"smartstock/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleRepository interface {
	CreateTx(tx *gorm.DB, s *model.Sale) error
	List(ctx context.Context) ([]model.Sale, error)
	Count(ctx context.Context) (int64, error)
	SumRevenue(ctx context.Context) (decimal.Decimal, error)
	SumQuantity(ctx context.Context) (int64, error)
	// TopProducts groups sales per product, sums quantity and revenue, and
	// returns the top n by revenue descending.
	TopProducts(ctx context.Context, n int) ([]dto.TopProduct, error)
	// MonthlyTrend buckets sales by (year, month) of created_at, most recent first.
	MonthlyTrend(ctx context.Context) ([]dto.MonthlySales, error)
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) CreateTx(tx *gorm.DB, s *model.Sale) error {
	return tx.Create(s).Error
}

func (r *saleRepo) List(ctx context.Context) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.WithContext(ctx).Preload("Product").
		Order("created_at DESC").Find(&sales).Error
	return sales, err
}

func (r *saleRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Sale{}).Count(&n).Error
	return n, err
}

func (r *saleRepo) SumRevenue(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select("COALESCE(SUM(total_amount), 0)").Scan(&total).Error
	return total, err
}

func (r *saleRepo) SumQuantity(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select("COALESCE(SUM(quantity), 0)").Scan(&total).Error
	return total, err
}

func (r *saleRepo) TopProducts(ctx context.Context, n int) ([]dto.TopProduct, error) {
	var rows []dto.TopProduct
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select(`sales.product_id::text AS product_id,
			COALESCE(products.name, 'Unknown') AS product_name,
			SUM(sales.quantity) AS total_quantity,
			SUM(sales.total_amount) AS total_revenue`).
		Joins("LEFT JOIN products ON products.id = sales.product_id").
		Group("sales.product_id, products.name").
		Order("total_revenue DESC").
		Limit(n).
		Scan(&rows).Error
	return rows, err
}

func (r *saleRepo) MonthlyTrend(ctx context.Context) ([]dto.MonthlySales, error) {
	var rows []dto.MonthlySales
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select(`EXTRACT(YEAR FROM created_at)::int AS year,
			EXTRACT(MONTH FROM created_at)::int AS month,
			SUM(quantity) AS total_quantity,
			SUM(total_amount) AS total_revenue`).
		Group("year, month").
		Order("year DESC, month DESC").
		Scan(&rows).Error
	return rows, err
}
