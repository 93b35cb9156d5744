package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"smartstock/internal/dto"
	"smartstock/internal/model"
	"smartstock/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotFound signals that the referenced row does not exist.
// Handlers translate it to a 404.
var ErrNotFound = errors.New("not found")

// CatalogService defines the business logic contract for the product catalog.
// Catalog operations never write movement or sale rows — stock history is the
// ledger's job.
type CatalogService interface {
	List(ctx context.Context) ([]dto.ProductResponse, error)
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	// Delete hard-deletes the product; movement and sale history cascades
	// with it (FK ON DELETE CASCADE).
	Delete(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	repo  repository.ProductRepository
	codes repository.CodeGenerator
}

func NewCatalogService(repo repository.ProductRepository, codes repository.CodeGenerator) CatalogService {
	return &catalogService{repo: repo, codes: codes}
}

func (s *catalogService) List(ctx context.Context) ([]dto.ProductResponse, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ProductResponse, len(products))
	for i := range products {
		resp[i] = *productToResponse(&products[i])
	}
	return resp, nil
}

func (s *catalogService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.SKU) == "" {
		return nil, errors.New("missing required fields: name, sku and price are mandatory")
	}
	if req.Price.IsNegative() {
		return nil, errors.New("price must not be negative")
	}

	if _, err := s.repo.FindBySKU(ctx, req.SKU); err == nil {
		return nil, fmt.Errorf("a product with SKU %q already exists", req.SKU)
	}

	code, err := s.codes.Next(nil, repository.CodePrefixProduct)
	if err != nil {
		return nil, err
	}

	p := &model.Product{
		Code:         code,
		Name:         req.Name,
		SKU:          req.SKU,
		Category:     req.Category,
		Description:  req.Description,
		Supplier:     req.Supplier,
		Price:        req.Price,
		CurrentStock: req.CurrentStock,
		MinStock:     req.MinStock,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *catalogService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	fields := map[string]interface{}{"updated_at": time.Now()}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.SKU != nil {
		fields["sku"] = *req.SKU
	}
	if req.Category != nil {
		fields["category"] = *req.Category
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Supplier != nil {
		fields["supplier"] = *req.Supplier
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, errors.New("price must not be negative")
		}
		fields["price"] = *req.Price
	}
	if req.MinStock != nil {
		fields["min_stock"] = *req.MinStock
	}

	matched, err := s.repo.UpdateFields(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	if matched == 0 {
		return nil, ErrNotFound
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *catalogService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrNotFound
	}
	return nil
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:           p.ID.String(),
		Code:         p.Code,
		Name:         p.Name,
		SKU:          p.SKU,
		Category:     p.Category,
		Description:  p.Description,
		Supplier:     p.Supplier,
		Price:        p.Price,
		CurrentStock: p.CurrentStock,
		MinStock:     p.MinStock,
		Status:       p.StockStatus(),
		CreatedAt:    p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    p.UpdatedAt.Format(time.RFC3339),
	}
}
