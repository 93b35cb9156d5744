package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"smartstock/internal/dto"
	"smartstock/internal/model"
	"smartstock/internal/repository"
	"smartstock/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerService records inventory-changing events and keeps
// Product.CurrentStock consistent with the movement and sale histories.
//
// Consistency rules:
//   - every write that touches stock runs inside one transaction: the history
//     row and the stock delta land together or not at all;
//   - the stock delta is a single server-side arithmetic UPDATE, never a
//     read-then-write, so concurrent writers cannot lose each other's update;
//   - decrements clamp at zero (GREATEST) rather than reject — see DESIGN.md
//     for the policy choice.
type LedgerService interface {
	RecordMovement(ctx context.Context, req dto.RecordMovementRequest, actor string) (*dto.MovementResponse, error)
	RecordSale(ctx context.Context, req dto.RecordSaleRequest, actor string) (*dto.SaleResponse, error)
	ListMovements(ctx context.Context) ([]dto.MovementResponse, error)
	ListSales(ctx context.Context) ([]dto.SaleResponse, error)
}

type ledgerService struct {
	products   repository.ProductRepository
	movements  repository.MovementRepository
	sales      repository.SaleRepository
	codes      repository.CodeGenerator
	dispatcher *worker.Dispatcher
}

func NewLedgerService(
	products repository.ProductRepository,
	movements repository.MovementRepository,
	sales repository.SaleRepository,
	codes repository.CodeGenerator,
	dispatcher *worker.Dispatcher,
) LedgerService {
	return &ledgerService{
		products:   products,
		movements:  movements,
		sales:      sales,
		codes:      codes,
		dispatcher: dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func (s *ledgerService) RecordMovement(ctx context.Context, req dto.RecordMovementRequest, actor string) (*dto.MovementResponse, error) {
	if req.Quantity <= 0 {
		return nil, errors.New("quantity must be greater than zero")
	}
	pid, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("invalid product_id: %w", err)
	}

	product, err := s.products.FindByID(ctx, pid)
	if err != nil {
		return nil, ErrNotFound
	}

	// Manual out movements are rejected when they would overdraw; the clamp
	// below still guards the invariant if a concurrent writer got there first.
	if req.Type == model.MovementOut && req.Quantity > product.CurrentStock {
		return nil, fmt.Errorf("insufficient stock: %d requested, %d available", req.Quantity, product.CurrentStock)
	}

	var movement model.StockMovement
	txErr := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		code, err := s.codes.Next(tx, repository.CodePrefixMovement)
		if err != nil {
			return err
		}
		movement = model.StockMovement{
			Code:      code,
			ProductID: pid,
			Type:      req.Type,
			Quantity:  req.Quantity,
			Reason:    req.Reason,
			Notes:     req.Notes,
			CreatedBy: actorOrSystem(actor),
		}
		if err := s.movements.CreateTx(tx, &movement); err != nil {
			return err
		}
		delta := req.Quantity
		if req.Type == model.MovementOut {
			delta = -req.Quantity
		}
		return s.products.AdjustStockTx(tx, pid, delta)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.notifyIfLowStock(ctx, pid)

	resp := movementToResponse(&movement)
	resp.ProductName = product.Name
	resp.ProductSKU = product.SKU
	return resp, nil
}

func (s *ledgerService) RecordSale(ctx context.Context, req dto.RecordSaleRequest, actor string) (*dto.SaleResponse, error) {
	if req.Quantity <= 0 {
		return nil, errors.New("quantity must be greater than zero")
	}
	if !req.UnitPrice.IsPositive() {
		return nil, errors.New("unit_price must be greater than zero")
	}
	pid, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("invalid product_id: %w", err)
	}

	product, err := s.products.FindByID(ctx, pid)
	if err != nil {
		return nil, ErrNotFound
	}

	// One logical unit: sale row, clamped stock decrement, companion out
	// movement. All three commit together or roll back together.
	var sale model.Sale
	txErr := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		saleCode, err := s.codes.Next(tx, repository.CodePrefixSale)
		if err != nil {
			return err
		}
		sale = model.Sale{
			Code:         saleCode,
			ProductID:    pid,
			Quantity:     req.Quantity,
			UnitPrice:    req.UnitPrice,
			TotalAmount:  req.UnitPrice.Mul(decimal.NewFromInt(int64(req.Quantity))),
			CustomerName: req.CustomerName,
			CreatedBy:    actorOrSystem(actor),
		}
		if err := s.sales.CreateTx(tx, &sale); err != nil {
			return err
		}

		if err := s.products.AdjustStockTx(tx, pid, -req.Quantity); err != nil {
			return err
		}

		movCode, err := s.codes.Next(tx, repository.CodePrefixMovement)
		if err != nil {
			return err
		}
		companion := model.StockMovement{
			Code:      movCode,
			ProductID: pid,
			Type:      model.MovementOut,
			Quantity:  req.Quantity,
			Reason:    "Sale to " + req.CustomerName,
			Notes:     "Sale " + saleCode,
			CreatedBy: actorOrSystem(actor),
		}
		return s.movements.CreateTx(tx, &companion)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.notifyIfLowStock(ctx, pid)

	resp := saleToResponse(&sale)
	resp.ProductName = product.Name
	resp.ProductSKU = product.SKU
	return resp, nil
}

func (s *ledgerService) ListMovements(ctx context.Context) ([]dto.MovementResponse, error) {
	movements, err := s.movements.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.MovementResponse, len(movements))
	for i := range movements {
		r := movementToResponse(&movements[i])
		if movements[i].Product != nil {
			r.ProductName = movements[i].Product.Name
			r.ProductSKU = movements[i].Product.SKU
		}
		resp[i] = *r
	}
	return resp, nil
}

func (s *ledgerService) ListSales(ctx context.Context) ([]dto.SaleResponse, error) {
	sales, err := s.sales.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.SaleResponse, len(sales))
	for i := range sales {
		r := saleToResponse(&sales[i])
		if sales[i].Product != nil {
			r.ProductName = sales[i].Product.Name
			r.ProductSKU = sales[i].Product.SKU
		}
		resp[i] = *r
	}
	return resp, nil
}

// notifyIfLowStock enqueues a low-stock alert job after a committed stock
// decrement. Best-effort: a queue failure never fails the ledger write.
func (s *ledgerService) notifyIfLowStock(ctx context.Context, pid uuid.UUID) {
	if s.dispatcher == nil {
		return
	}
	product, err := s.products.FindByID(ctx, pid)
	if err != nil {
		return
	}
	if status := product.StockStatus(); status != model.StatusInStock {
		_ = s.dispatcher.EnqueueLowStockAlert(ctx, worker.LowStockAlert{
			ProductID:    product.ID.String(),
			ProductCode:  product.Code,
			ProductName:  product.Name,
			CurrentStock: product.CurrentStock,
			MinStock:     product.MinStock,
			Status:       status,
		})
	}
}

func actorOrSystem(actor string) string {
	if actor == "" {
		return "system"
	}
	return actor
}

func movementToResponse(m *model.StockMovement) *dto.MovementResponse {
	return &dto.MovementResponse{
		ID:        m.ID.String(),
		Code:      m.Code,
		ProductID: m.ProductID.String(),
		Type:      m.Type,
		Quantity:  m.Quantity,
		Reason:    m.Reason,
		Notes:     m.Notes,
		CreatedBy: m.CreatedBy,
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
	}
}

func saleToResponse(s *model.Sale) *dto.SaleResponse {
	return &dto.SaleResponse{
		ID:           s.ID.String(),
		Code:         s.Code,
		ProductID:    s.ProductID.String(),
		Quantity:     s.Quantity,
		UnitPrice:    s.UnitPrice,
		TotalAmount:  s.TotalAmount,
		CustomerName: s.CustomerName,
		CreatedBy:    s.CreatedBy,
		CreatedAt:    s.CreatedAt.Format(time.RFC3339),
	}
}
