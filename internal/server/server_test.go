package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"go-kasir-api/internal/testdb"
	"go-kasir-api/internal/ws"
	"go-kasir-api/pkg/config"
	"go-kasir-api/pkg/jwt"
	"go-kasir-api/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
}

type countingLimiter struct {
	mu     sync.Mutex
	counts map[string]int64
}

func (l *countingLimiter) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.counts[scope]++
	return l.counts[scope] <= limit, l.counts[scope], nil
}

func newTestApp(t *testing.T, limiter *countingLimiter) *fiber.App {
	t.Helper()
	tokens, err := jwt.NewManager("test-secret-0123456789", "kasir-test", time.Hour)
	require.NoError(t, err)

	registry := prometheus.NewRegistry()
	deps := Deps{
		Config: &config.Config{
			App:       config.AppConfig{Name: "kasir-test"},
			CORS:      config.CORSConfig{AllowOrigins: "*"},
			RateLimit: config.RateLimitConfig{AuthLimit: 3, AuthWindow: time.Minute},
		},
		Log:      zerolog.Nop(),
		DB:       testdb.New(t),
		Tokens:   tokens,
		Hub:      ws.NewHub(zerolog.Nop()),
		Metrics:  metrics.NewSales(registry),
		Gatherer: registry,
	}
	if limiter != nil {
		deps.Limiter = limiter
	}

	app, err := New(deps)
	require.NoError(t, err)
	return app
}

func call(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func decode(t *testing.T, env envelope, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, out))
}

func register(t *testing.T, app *fiber.App, email, name string) string {
	t.Helper()
	status, env := call(t, app, http.MethodPost, "/api/v1/auth/register", "", fiber.Map{
		"email": email, "password": "password123", "name": name,
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	var data struct {
		Token string `json:"token"`
	}
	decode(t, env, &data)
	return data.Token
}

func TestSaleLifecycleOverHTTP(t *testing.T) {
	app := newTestApp(t, nil)
	token := register(t, app, "budi@toko.id", "Budi")

	status, env := call(t, app, http.MethodPost, "/api/v1/products", token, fiber.Map{
		"name": "Kopi", "category": "Minuman", "price": 15000, "stock": 10,
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	var product struct {
		ID    string `json:"id"`
		Stock int    `json:"stock"`
	}
	decode(t, env, &product)

	status, env = call(t, app, http.MethodPost, "/api/v1/customers", token, fiber.Map{"name": "Andi"})
	require.Equal(t, http.StatusCreated, status)
	var customer struct {
		ID string `json:"id"`
	}
	decode(t, env, &customer)

	status, env = call(t, app, http.MethodPost, "/api/v1/transactions", token, fiber.Map{
		"customerId": customer.ID,
		"items":      []fiber.Map{{"productName": "Kopi", "unitPrice": 15000, "quantity": 2}},
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	assert.Equal(t, "success", env.Status)
	var sale struct {
		ID          string `json:"id"`
		Total       int64  `json:"total"`
		CashierName string `json:"cashierName"`
		Items       []struct {
			ProductName string `json:"productName"`
			Quantity    int    `json:"quantity"`
		} `json:"items"`
	}
	decode(t, env, &sale)
	assert.Equal(t, int64(30000), sale.Total)
	assert.Equal(t, "Budi", sale.CashierName)
	require.Len(t, sale.Items, 1)

	status, env = call(t, app, http.MethodGet, "/api/v1/products/"+product.ID, token, nil)
	require.Equal(t, http.StatusOK, status)
	decode(t, env, &product)
	assert.Equal(t, 8, product.Stock)

	status, env = call(t, app, http.MethodPost, "/api/v1/transactions", token, fiber.Map{
		"customerId": customer.ID,
		"items":      []fiber.Map{{"productName": "Kopi", "unitPrice": 15000, "quantity": 20}},
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, "CONFLICT", env.Code)
	assert.Equal(t, "insufficient stock for Kopi", env.Message)

	status, _ = call(t, app, http.MethodDelete, "/api/v1/transactions/"+sale.ID, token, nil)
	require.Equal(t, http.StatusOK, status)

	status, env = call(t, app, http.MethodGet, "/api/v1/products/"+product.ID, token, nil)
	require.Equal(t, http.StatusOK, status)
	decode(t, env, &product)
	assert.Equal(t, 10, product.Stock)

	status, env = call(t, app, http.MethodGet, "/api/v1/transactions/"+sale.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", env.Code)
}

func TestAuthenticationRequired(t *testing.T) {
	app := newTestApp(t, nil)

	status, env := call(t, app, http.MethodGet, "/api/v1/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", env.Code)

	status, env = call(t, app, http.MethodGet, "/api/v1/products", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "invalid or expired token", env.Message)
}

func TestUnknownRouteIsNotFound(t *testing.T) {
	app := newTestApp(t, nil)

	status, env := call(t, app, http.MethodGet, "/api/v1/does-not-exist", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", env.Code)
}

func TestCashierAccess(t *testing.T) {
	app := newTestApp(t, nil)
	ownerToken := register(t, app, "budi@toko.id", "Budi")

	status, env := call(t, app, http.MethodPost, "/api/v1/collaborators", ownerToken, fiber.Map{
		"email": "rina@toko.id", "password": "password123", "name": "Rina",
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	var cashier struct {
		ID string `json:"id"`
	}
	decode(t, env, &cashier)

	status, env = call(t, app, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"email": "rina@toko.id", "password": "password123",
	})
	require.Equal(t, http.StatusOK, status)
	var login struct {
		Token string `json:"token"`
	}
	decode(t, env, &login)

	status, _ = call(t, app, http.MethodGet, "/api/v1/products", login.Token, nil)
	assert.Equal(t, http.StatusOK, status)

	for _, path := range []string{"/api/v1/reports/sales", "/api/v1/reports/detailed", "/api/v1/collaborators"} {
		status, env = call(t, app, http.MethodGet, path, login.Token, nil)
		assert.Equal(t, http.StatusForbidden, status, path)
		assert.Equal(t, "FORBIDDEN", env.Code, path)
	}

	status, _ = call(t, app, http.MethodPut, "/api/v1/auth/password", login.Token, fiber.Map{
		"oldPassword": "password123", "newPassword": "password456",
	})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = call(t, app, http.MethodGet, "/api/v1/reports/sales", ownerToken, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = call(t, app, http.MethodDelete, "/api/v1/collaborators/"+cashier.ID, ownerToken, nil)
	require.Equal(t, http.StatusOK, status)

	status, env = call(t, app, http.MethodGet, "/api/v1/products", login.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", env.Code)
}

func TestTenantIsolationOverHTTP(t *testing.T) {
	app := newTestApp(t, nil)
	budi := register(t, app, "budi@toko.id", "Budi")
	sari := register(t, app, "sari@toko.id", "Sari")

	status, env := call(t, app, http.MethodPost, "/api/v1/customers", budi, fiber.Map{"name": "Andi"})
	require.Equal(t, http.StatusCreated, status)
	var customer struct {
		ID string `json:"id"`
	}
	decode(t, env, &customer)

	status, env = call(t, app, http.MethodGet, "/api/v1/customers/"+customer.ID, sari, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", env.Code)

	status, env = call(t, app, http.MethodPost, "/api/v1/transactions", sari, fiber.Map{
		"customerId": customer.ID,
		"items":      []fiber.Map{{"productName": "Kopi", "unitPrice": 15000, "quantity": 1}},
	})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "customer not found", env.Message)
}

func TestValidationErrors(t *testing.T) {
	app := newTestApp(t, nil)
	token := register(t, app, "budi@toko.id", "Budi")

	status, env := call(t, app, http.MethodPost, "/api/v1/transactions", token, fiber.Map{
		"customerId": "00000000-0000-0000-0000-000000000001",
		"items":      []fiber.Map{},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", env.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/customers", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	status, env = call(t, app, http.MethodGet, "/api/v1/products/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid id", env.Message)

	status, env = call(t, app, http.MethodGet, "/api/v1/transactions?startDate=15-01-2026", token, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", env.Code)
}

func TestRegisterDuplicateEmailOverHTTP(t *testing.T) {
	app := newTestApp(t, nil)
	register(t, app, "budi@toko.id", "Budi")

	status, env := call(t, app, http.MethodPost, "/api/v1/auth/register", "", fiber.Map{
		"email": "Budi@Toko.id", "password": "password123", "name": "Budi",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "email already registered", env.Message)
}

func TestLoginIsRateLimited(t *testing.T) {
	app := newTestApp(t, &countingLimiter{counts: map[string]int64{}})

	for i := 0; i < 3; i++ {
		status, _ := call(t, app, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
			"email": "nobody@toko.id", "password": "password123",
		})
		assert.Equal(t, http.StatusUnauthorized, status)
	}

	status, env := call(t, app, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"email": "nobody@toko.id", "password": "password123",
	})
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", env.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	app := newTestApp(t, nil)

	status, _ := call(t, app, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "kasir_sales_created_total")
}

func TestWebsocketRequiresUpgrade(t *testing.T) {
	app := newTestApp(t, nil)
	status, env := call(t, app, http.MethodGet, "/ws", "", nil)
	assert.Equal(t, http.StatusUpgradeRequired, status)
	assert.Equal(t, "error", env.Status)
}
