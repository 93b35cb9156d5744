package tests

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"

	"smartstock/internal/dto"
	"smartstock/internal/model"
	"smartstock/internal/repository"
	"smartstock/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── In-memory ProductRepository stub ─────────────────────────────────────────

type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
	order    []uuid.UUID // insertion order; List returns newest-first
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	r.order = append(r.order, p.ID)
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductRepo) FindBySKU(_ context.Context, sku string) (*model.Product, error) {
	for _, p := range r.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) List(_ context.Context) ([]model.Product, error) {
	result := make([]model.Product, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		result = append(result, *r.products[r.order[i]])
	}
	return result, nil
}

func (r *stubProductRepo) UpdateFields(_ context.Context, id uuid.UUID, fields map[string]interface{}) (int64, error) {
	p, ok := r.products[id]
	if !ok {
		return 0, nil
	}
	for k, v := range fields {
		switch k {
		case "name":
			p.Name = v.(string)
		case "sku":
			p.SKU = v.(string)
		case "category":
			p.Category = v.(string)
		case "description":
			p.Description = v.(string)
		case "supplier":
			p.Supplier = v.(string)
		case "price":
			p.Price = v.(decimal.Decimal)
		case "min_stock":
			p.MinStock = v.(int)
		}
	}
	return 1, nil
}

func (r *stubProductRepo) Delete(_ context.Context, id uuid.UUID) (int64, error) {
	if _, ok := r.products[id]; !ok {
		return 0, nil
	}
	delete(r.products, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return 1, nil
}

func (r *stubProductRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Product, error) {
	return r.FindByID(context.Background(), id)
}

// AdjustStockTx mirrors the SQL semantics: server-side arithmetic with a
// GREATEST(0, …) clamp on decrements.
func (r *stubProductRepo) AdjustStockTx(_ *gorm.DB, id uuid.UUID, delta int) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.CurrentStock += delta
	if delta < 0 && p.CurrentStock < 0 {
		p.CurrentStock = 0
	}
	return nil
}

func (r *stubProductRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.products)), nil
}

func (r *stubProductRepo) SumStock(_ context.Context) (int64, error) {
	var total int64
	for _, p := range r.products {
		total += int64(p.CurrentStock)
	}
	return total, nil
}

func (r *stubProductRepo) CountLowStock(_ context.Context) (int64, error) {
	var n int64
	for _, p := range r.products {
		if p.CurrentStock <= p.MinStock {
			n++
		}
	}
	return n, nil
}

func (r *stubProductRepo) DB() *gorm.DB {
	// In-memory stub: nil DB makes the service's runTx invoke the callback
	// directly instead of opening a transaction.
	return nil
}

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// ── In-memory CodeGenerator stub ─────────────────────────────────────────────

type stubCodeGen struct {
	counters map[string]int64
	issued   map[string]bool
}

func newStubCodeGen() *stubCodeGen {
	return &stubCodeGen{counters: make(map[string]int64), issued: make(map[string]bool)}
}

func (g *stubCodeGen) Next(_ *gorm.DB, prefix string) (string, error) {
	g.counters[prefix]++
	code := repository.FormatCode(prefix, g.counters[prefix])
	if g.issued[code] {
		return "", errors.New("duplicate code issued")
	}
	g.issued[code] = true
	return code, nil
}

var _ repository.CodeGenerator = (*stubCodeGen)(nil)

// ── Helpers ──────────────────────────────────────────────────────────────────

func seedProduct(repo *stubProductRepo, name, sku string, stock, minStock int) *model.Product {
	p := &model.Product{
		ID:           uuid.New(),
		Code:         fmt.Sprintf("PRD%06d", len(repo.order)+1),
		Name:         name,
		SKU:          sku,
		Category:     "TEST",
		Price:        decimal.NewFromFloat(15.00),
		CurrentStock: stock,
		MinStock:     minStock,
	}
	repo.products[p.ID] = p
	repo.order = append(repo.order, p.ID)
	return p
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestCreateProduct(t *testing.T) {
	repo := newStubProductRepo()
	svc := service.NewCatalogService(repo, newStubCodeGen())

	resp, err := svc.Create(context.Background(), dto.CreateProductRequest{
		Name:         "Laptop Dell XPS 13",
		SKU:          "DELL-XPS-13",
		Category:     "Electronics",
		Price:        decimal.NewFromFloat(1299.99),
		CurrentStock: 15,
		MinStock:     5,
	})

	require.NoError(t, err)
	assert.Equal(t, "PRD000001", resp.Code)
	assert.Equal(t, "Laptop Dell XPS 13", resp.Name)
	assert.Equal(t, model.StatusInStock, resp.Status)
}

func TestCreateProductDuplicateSKU(t *testing.T) {
	repo := newStubProductRepo()
	svc := service.NewCatalogService(repo, newStubCodeGen())
	seedProduct(repo, "Existing", "DUP-SKU", 10, 2)

	_, err := svc.Create(context.Background(), dto.CreateProductRequest{
		Name:  "Another",
		SKU:   "DUP-SKU",
		Price: decimal.NewFromFloat(10),
	})
	assert.ErrorContains(t, err, "already exists")
}

func TestCreateProductMissingFields(t *testing.T) {
	repo := newStubProductRepo()
	svc := service.NewCatalogService(repo, newStubCodeGen())

	_, err := svc.Create(context.Background(), dto.CreateProductRequest{
		Name:  "  ",
		SKU:   "SKU-1",
		Price: decimal.NewFromFloat(10),
	})
	assert.ErrorContains(t, err, "mandatory")
}

func TestCreateProductNegativePrice(t *testing.T) {
	repo := newStubProductRepo()
	svc := service.NewCatalogService(repo, newStubCodeGen())

	_, err := svc.Create(context.Background(), dto.CreateProductRequest{
		Name:  "Bad Price",
		SKU:   "SKU-NEG",
		Price: decimal.NewFromFloat(-1),
	})
	assert.ErrorContains(t, err, "negative")
}

func TestUpdateProductPartial(t *testing.T) {
	repo := newStubProductRepo()
	svc := service.NewCatalogService(repo, newStubCodeGen())
	p := seedProduct(repo, "Old Name", "SKU-UPD", 20, 3)

	newName := "New Name"
	newPrice := decimal.NewFromFloat(25.50)
	resp, err := svc.Update(context.Background(), p.ID, dto.UpdateProductRequest{
		Name:  &newName,
		Price: &newPrice,
	})

	require.NoError(t, err)
	assert.Equal(t, "New Name", resp.Name)
	assert.Equal(t, newPrice.String(), resp.Price.String())
	// Untouched fields keep their stored values
	assert.Equal(t, "SKU-UPD", resp.SKU)
	assert.Equal(t, 20, resp.CurrentStock)
}

func TestUpdateProductNotFound(t *testing.T) {
	repo := newStubProductRepo()
	svc := service.NewCatalogService(repo, newStubCodeGen())

	name := "Ghost"
	_, err := svc.Update(context.Background(), uuid.New(), dto.UpdateProductRequest{Name: &name})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestDeleteProduct(t *testing.T) {
	repo := newStubProductRepo()
	svc := service.NewCatalogService(repo, newStubCodeGen())
	p := seedProduct(repo, "Doomed", "SKU-DEL", 5, 1)

	require.NoError(t, svc.Delete(context.Background(), p.ID))

	err := svc.Delete(context.Background(), p.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestListNewestFirst(t *testing.T) {
	repo := newStubProductRepo()
	svc := service.NewCatalogService(repo, newStubCodeGen())
	seedProduct(repo, "First", "SKU-A", 1, 1)
	seedProduct(repo, "Second", "SKU-B", 1, 1)
	seedProduct(repo, "Third", "SKU-C", 1, 1)

	resp, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, resp, 3)
	assert.Equal(t, "Third", resp[0].Name)
	assert.Equal(t, "First", resp[2].Name)
}

// Stock at exactly the minimum counts as low stock, not in stock.
func TestStockStatusBoundary(t *testing.T) {
	cases := []struct {
		stock, minStock int
		want            string
	}{
		{0, 5, model.StatusOutOfStock},
		{3, 5, model.StatusLowStock},
		{5, 5, model.StatusLowStock},
		{6, 5, model.StatusInStock},
		{0, 0, model.StatusOutOfStock},
	}
	for _, c := range cases {
		p := model.Product{CurrentStock: c.stock, MinStock: c.minStock}
		assert.Equal(t, c.want, p.StockStatus(), "stock=%d min=%d", c.stock, c.minStock)
	}
}

// ── Code generation ──────────────────────────────────────────────────────────

func TestCodeFormat(t *testing.T) {
	assert.Equal(t, "PRD000001", repository.FormatCode(repository.CodePrefixProduct, 1))
	assert.Equal(t, "STK000042", repository.FormatCode(repository.CodePrefixMovement, 42))
	assert.Equal(t, "SAL999999", repository.FormatCode(repository.CodePrefixSale, 999999))
	// Counter overflowing six digits widens rather than truncates
	assert.Equal(t, "PRD1000000", repository.FormatCode(repository.CodePrefixProduct, 1000000))
}

func TestCodesAreSequentialAndUnique(t *testing.T) {
	gen := newStubCodeGen()
	seen := make(map[string]bool)
	var codes []string
	for i := 0; i < 100; i++ {
		code, err := gen.Next(nil, repository.CodePrefixProduct)
		require.NoError(t, err)
		require.False(t, seen[code], "duplicate code %s", code)
		seen[code] = true
		codes = append(codes, code)
	}
	assert.True(t, sort.StringsAreSorted(codes))
}

func TestFallbackCodeShape(t *testing.T) {
	code := repository.FallbackCode(repository.CodePrefixSale)
	assert.True(t, strings.HasPrefix(code, "SAL"))
	// prefix + 6 timestamp digits + 3 random digits
	assert.Len(t, code, 12)
}
