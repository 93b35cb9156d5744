package service

import (
	"context"

	"smartstock/internal/dto"
	"smartstock/internal/model"
	"smartstock/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// DashboardService computes summary statistics over the ledger. Pure
// read-side: every figure is recomputed per request, no caching or
// incremental maintenance.
type DashboardService interface {
	// Stats tolerates individual sub-query failure: a failed aggregate is
	// logged and reported as zero instead of failing the whole response.
	Stats(ctx context.Context) (*dto.DashboardStats, error)
	TopProducts(ctx context.Context, n int) ([]dto.TopProduct, error)
	MonthlyTrend(ctx context.Context) ([]dto.MonthlySales, error)
}

type dashboardService struct {
	products  repository.ProductRepository
	movements repository.MovementRepository
	sales     repository.SaleRepository
}

func NewDashboardService(
	products repository.ProductRepository,
	movements repository.MovementRepository,
	sales repository.SaleRepository,
) DashboardService {
	return &dashboardService{products: products, movements: movements, sales: sales}
}

func (s *dashboardService) Stats(ctx context.Context) (*dto.DashboardStats, error) {
	stats := &dto.DashboardStats{TotalRevenue: decimal.Zero}

	var err error
	if stats.TotalProducts, err = s.products.Count(ctx); err != nil {
		log.Error().Err(err).Msg("dashboard: product count failed")
		stats.TotalProducts = 0
	}
	if stats.TotalStock, err = s.products.SumStock(ctx); err != nil {
		log.Error().Err(err).Msg("dashboard: stock sum failed")
		stats.TotalStock = 0
	}
	if stats.LowStockProducts, err = s.products.CountLowStock(ctx); err != nil {
		log.Error().Err(err).Msg("dashboard: low-stock count failed")
		stats.LowStockProducts = 0
	}
	if stats.TotalRevenue, err = s.sales.SumRevenue(ctx); err != nil {
		log.Error().Err(err).Msg("dashboard: revenue sum failed")
		stats.TotalRevenue = decimal.Zero
	}
	if stats.StockIn, err = s.movements.SumQuantityByType(ctx, model.MovementIn); err != nil {
		log.Error().Err(err).Msg("dashboard: stock-in sum failed")
		stats.StockIn = 0
	}
	if stats.StockOut, err = s.movements.SumQuantityByType(ctx, model.MovementOut); err != nil {
		log.Error().Err(err).Msg("dashboard: stock-out sum failed")
		stats.StockOut = 0
	}
	return stats, nil
}

func (s *dashboardService) TopProducts(ctx context.Context, n int) ([]dto.TopProduct, error) {
	if n < 1 {
		n = 10
	}
	if n > 50 {
		n = 50
	}
	return s.sales.TopProducts(ctx, n)
}

func (s *dashboardService) MonthlyTrend(ctx context.Context) ([]dto.MonthlySales, error) {
	return s.sales.MonthlyTrend(ctx)
}
