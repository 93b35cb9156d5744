//go:build integration

package e2e

// e2e_test.go
// End-to-end integration tests for SmartStock using real Postgres + Redis via
// testcontainers. Run with: go test -tags integration ./tests/e2e/... -v
//
// These tests:
//   - Full ledger cycle (login → create product → movement → sale → dashboard)
//   - Oversell clamps stock at zero and still records the sale
//   - Role enforcement (user cannot write the catalog, admin can)
//   - Demo accounts work out of the box on a fresh database

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"smartstock/internal/config"
	"smartstock/internal/infra"
	"smartstock/internal/router"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server     *httptest.Server
	adminToken string
	userToken  string
}

func login(t *testing.T, srv *httptest.Server, username, password string) string {
	t.Helper()
	resp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": username, "password": password}), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, resp, &body)
	require.NotEmpty(t, body.AccessToken)
	return body.AccessToken
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("smartstock_test"),
		tcPostgres.WithUsername("smartstock"),
		tcPostgres.WithPassword("smartstock"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		WorkerPoolSize:     1,
		ReportStoragePath:  t.TempDir(),
	}

	// NewDatabase migrates, creates the code sequences and seeds the demo
	// accounts plus the sample catalog.
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	r := router.New(cfg, db, rdb)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testEnv{
		server:     srv,
		adminToken: login(t, srv, "admin", "admin123"),
		userToken:  login(t, srv, "user", "user123"),
	}
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_FullLedgerCycle(t *testing.T) {
	env := setupTestEnv(t)

	// 1. Create product (admin)
	prodResp := do(t, env.server, "POST", "/v1/products",
		jsonBody(t, map[string]any{
			"name":          "Mechanical Pencil",
			"sku":           "PEN-MECH-1",
			"price":         "3.50",
			"current_stock": 10,
			"min_stock":     4,
		}),
		env.adminToken,
	)
	require.Equal(t, http.StatusCreated, prodResp.StatusCode)
	var prod struct {
		ID           string `json:"id"`
		Code         string `json:"product_code"`
		CurrentStock int    `json:"current_stock"`
		Status       string `json:"status"`
	}
	decodeJSON(t, prodResp, &prod)
	assert.Regexp(t, `^PRD\d{6}$`, prod.Code)
	assert.Equal(t, "in_stock", prod.Status)

	// 2. Record an in movement (+5)
	movResp := do(t, env.server, "POST", "/v1/stock-movements",
		jsonBody(t, map[string]any{
			"product_id": prod.ID,
			"type":       "in",
			"quantity":   5,
			"reason":     "Restock",
		}),
		env.userToken,
	)
	require.Equal(t, http.StatusCreated, movResp.StatusCode)
	var mov struct {
		Code      string `json:"movement_code"`
		CreatedBy string `json:"created_by"`
	}
	decodeJSON(t, movResp, &mov)
	assert.Regexp(t, `^STK\d{6}$`, mov.Code)
	assert.Equal(t, "user", mov.CreatedBy)

	// 3. Record a sale of 3 units
	saleResp := do(t, env.server, "POST", "/v1/sales",
		jsonBody(t, map[string]any{
			"product_id":    prod.ID,
			"quantity":      3,
			"unit_price":    "3.50",
			"customer_name": "Walk-in",
		}),
		env.userToken,
	)
	require.Equal(t, http.StatusCreated, saleResp.StatusCode)
	var sale struct {
		Code        string `json:"sale_code"`
		TotalAmount string `json:"total_amount"`
	}
	decodeJSON(t, saleResp, &sale)
	assert.Regexp(t, `^SAL\d{6}$`, sale.Code)
	assert.Equal(t, "10.5", sale.TotalAmount)

	// 4. Product stock reflects both writes: 10 + 5 - 3 = 12
	listResp := do(t, env.server, "GET", "/v1/products", nil, env.userToken)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	var products []struct {
		ID           string `json:"id"`
		CurrentStock int    `json:"current_stock"`
	}
	decodeJSON(t, listResp, &products)
	found := false
	for _, p := range products {
		if p.ID == prod.ID {
			found = true
			assert.Equal(t, 12, p.CurrentStock)
		}
	}
	require.True(t, found)

	// 5. Movement history has the manual in plus the sale companion out
	movListResp := do(t, env.server, "GET", "/v1/stock-movements", nil, env.userToken)
	require.Equal(t, http.StatusOK, movListResp.StatusCode)
	var movements []struct {
		ProductID string `json:"product_id"`
		Type      string `json:"type"`
		Quantity  int    `json:"quantity"`
		Notes     string `json:"notes"`
	}
	decodeJSON(t, movListResp, &movements)
	var ins, outs int
	for _, m := range movements {
		if m.ProductID != prod.ID {
			continue
		}
		switch m.Type {
		case "in":
			ins++
		case "out":
			outs++
			assert.Equal(t, 3, m.Quantity)
			assert.Equal(t, "Sale "+sale.Code, m.Notes)
		}
	}
	assert.Equal(t, 1, ins)
	assert.Equal(t, 1, outs)

	// 6. Dashboard sees the revenue
	statsResp := do(t, env.server, "GET", "/v1/dashboard/stats", nil, env.userToken)
	require.Equal(t, http.StatusOK, statsResp.StatusCode)
	var stats struct {
		TotalProducts int64  `json:"totalProducts"`
		TotalRevenue  string `json:"totalRevenue"`
	}
	decodeJSON(t, statsResp, &stats)
	assert.Equal(t, int64(6), stats.TotalProducts) // 5 seeded + 1 created
	assert.Equal(t, "10.5", stats.TotalRevenue)
}

func TestE2E_OversellClampsAtZero(t *testing.T) {
	env := setupTestEnv(t)

	prodResp := do(t, env.server, "POST", "/v1/products",
		jsonBody(t, map[string]any{
			"name": "Scarce Item", "sku": "SCARCE-1", "price": "5.00",
			"current_stock": 2, "min_stock": 1,
		}), env.adminToken)
	require.Equal(t, http.StatusCreated, prodResp.StatusCode)
	var prod struct {
		ID string `json:"id"`
	}
	decodeJSON(t, prodResp, &prod)

	saleResp := do(t, env.server, "POST", "/v1/sales",
		jsonBody(t, map[string]any{
			"product_id": prod.ID, "quantity": 50,
			"unit_price": "5.00", "customer_name": "Greedy",
		}), env.userToken)
	require.Equal(t, http.StatusCreated, saleResp.StatusCode)

	listResp := do(t, env.server, "GET", "/v1/products", nil, env.userToken)
	var products []struct {
		ID           string `json:"id"`
		CurrentStock int    `json:"current_stock"`
		Status       string `json:"status"`
	}
	decodeJSON(t, listResp, &products)
	for _, p := range products {
		if p.ID == prod.ID {
			assert.Equal(t, 0, p.CurrentStock)
			assert.Equal(t, "out_of_stock", p.Status)
		}
	}

	// A manual out movement on an empty product is rejected, not clamped
	movResp := do(t, env.server, "POST", "/v1/stock-movements",
		jsonBody(t, map[string]any{
			"product_id": prod.ID, "type": "out", "quantity": 1, "reason": "Shrinkage",
		}), env.userToken)
	assert.Equal(t, http.StatusConflict, movResp.StatusCode)
	movResp.Body.Close()
}

func TestE2E_RoleEnforcement(t *testing.T) {
	env := setupTestEnv(t)

	// user cannot create products
	resp := do(t, env.server, "POST", "/v1/products",
		jsonBody(t, map[string]any{"name": "Nope", "sku": "NOPE-1", "price": "1.00"}),
		env.userToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// user cannot manage users
	resp = do(t, env.server, "GET", "/v1/users", nil, env.userToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// no token at all → 401
	resp = do(t, env.server, "GET", "/v1/products", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// admin can manage users
	resp = do(t, env.server, "GET", "/v1/users", nil, env.adminToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var users []struct {
		Username string `json:"username"`
	}
	decodeJSON(t, resp, &users)
	require.GreaterOrEqual(t, len(users), 2)
}

func TestE2E_SeededCatalog(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, "GET", "/v1/products", nil, env.userToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var products []struct {
		Code   string `json:"product_code"`
		SKU    string `json:"sku"`
		Status string `json:"status"`
	}
	decodeJSON(t, resp, &products)
	require.Len(t, products, 5)

	codes := make(map[string]bool)
	for _, p := range products {
		require.False(t, codes[p.Code], "duplicate code %s", p.Code)
		codes[p.Code] = true
		assert.Regexp(t, `^PRD\d{6}$`, p.Code)
	}

	// Seeded Monitor has zero stock
	for _, p := range products {
		if p.SKU == "MON-27-4K" {
			assert.Equal(t, "out_of_stock", p.Status)
		}
	}

	// Summary endpoint responds even with no sales yet
	sumResp := do(t, env.server, "GET", "/v1/reports/summary", nil, env.userToken)
	require.Equal(t, http.StatusOK, sumResp.StatusCode)
	var summary struct {
		TotalSales int64 `json:"total_sales"`
	}
	decodeJSON(t, sumResp, &summary)
	assert.Zero(t, summary.TotalSales)
}
