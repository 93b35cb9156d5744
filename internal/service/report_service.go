package service

import (
	"context"

	"smartstock/internal/dto"
	"smartstock/internal/model"
	"smartstock/internal/repository"
	"smartstock/internal/worker"

	"github.com/shopspring/decimal"
)

// ReportService assembles the sales summary shown on the reports page and
// exported as PDF. Aggregation happens in the store, not client-side.
type ReportService interface {
	Summary(ctx context.Context) (*dto.ReportSummary, error)
	// EnqueuePDF dispatches an async job that renders the summary to a PDF
	// file under the configured storage path.
	EnqueuePDF(ctx context.Context, requestedBy string) error
}

type reportService struct {
	movements  repository.MovementRepository
	sales      repository.SaleRepository
	dispatcher *worker.Dispatcher
}

func NewReportService(
	movements repository.MovementRepository,
	sales repository.SaleRepository,
	dispatcher *worker.Dispatcher,
) ReportService {
	return &reportService{movements: movements, sales: sales, dispatcher: dispatcher}
}

func (s *reportService) Summary(ctx context.Context) (*dto.ReportSummary, error) {
	revenue, err := s.sales.SumRevenue(ctx)
	if err != nil {
		return nil, err
	}
	saleCount, err := s.sales.Count(ctx)
	if err != nil {
		return nil, err
	}
	unitsSold, err := s.sales.SumQuantity(ctx)
	if err != nil {
		return nil, err
	}
	stockIn, err := s.movements.SumQuantityByType(ctx, model.MovementIn)
	if err != nil {
		return nil, err
	}
	stockOut, err := s.movements.SumQuantityByType(ctx, model.MovementOut)
	if err != nil {
		return nil, err
	}
	top, err := s.sales.TopProducts(ctx, 10)
	if err != nil {
		return nil, err
	}
	trend, err := s.sales.MonthlyTrend(ctx)
	if err != nil {
		return nil, err
	}

	avg := decimal.Zero
	if saleCount > 0 {
		avg = revenue.Div(decimal.NewFromInt(saleCount)).Round(2)
	}

	return &dto.ReportSummary{
		TotalRevenue:      revenue,
		TotalSales:        saleCount,
		TotalUnitsSold:    unitsSold,
		AverageOrderValue: avg,
		StockIn:           stockIn,
		StockOut:          stockOut,
		TopProducts:       top,
		MonthlyTrend:      trend,
	}, nil
}

func (s *reportService) EnqueuePDF(ctx context.Context, requestedBy string) error {
	summary, err := s.Summary(ctx)
	if err != nil {
		return err
	}
	return s.dispatcher.EnqueueReport(ctx, worker.ReportJob{
		RequestedBy: requestedBy,
		Summary:     *summary,
	})
}
