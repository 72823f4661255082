package service

import (
	"context"
	"testing"
	"time"

	"go-kasir-api/internal/model"
	"go-kasir-api/internal/policy"
	"go-kasir-api/internal/repository"
	"go-kasir-api/internal/testdb"
	"go-kasir-api/internal/ws"
	"go-kasir-api/pkg/jwt"
	"go-kasir-api/pkg/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db            *gorm.DB
	tokens        *jwt.Manager
	auth          AuthService
	collaborators CollaboratorService
	products      ProductService
	customers     CustomerService
	sales         SaleService
	reports       ReportService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testdb.New(t)
	log := zerolog.Nop()

	tokens, err := jwt.NewManager("test-secret-0123456789", "kasir-test", time.Hour)
	require.NoError(t, err)

	uow := repository.NewUnitOfWork(db)
	userRepo := repository.NewUserRepo(db)
	storeRepo := repository.NewStoreRepo(db)
	productRepo := repository.NewProductRepo(db)
	customerRepo := repository.NewCustomerRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	reportRepo := repository.NewReportRepo(db)
	hub := ws.NewHub(log)

	return &fixture{
		db:            db,
		tokens:        tokens,
		auth:          NewAuthService(uow, userRepo, storeRepo, tokens, log),
		collaborators: NewCollaboratorService(uow, userRepo, log),
		products:      NewProductService(productRepo, hub, log),
		customers:     NewCustomerService(uow, customerRepo, txRepo),
		sales:         NewSaleService(uow, txRepo, productRepo, customerRepo, userRepo, hub, metrics.NewSales(nil), log),
		reports:       NewReportService(reportRepo, txRepo),
	}
}

func actorOf(user model.UserResponse) policy.Actor {
	return policy.Actor{UserID: user.ID, Email: user.Email, Role: user.Role, StoreID: user.StoreID}
}

// owner registers a fresh store and returns its owner.
func (f *fixture) owner(t *testing.T, name string) policy.Actor {
	t.Helper()
	resp, err := f.auth.Register(context.Background(), RegisterRequest{
		Email:    name + "-" + uuid.NewString()[:8] + "@toko.id",
		Password: "password123",
		Name:     name,
	})
	require.NoError(t, err)
	return actorOf(resp.User)
}

func (f *fixture) cashier(t *testing.T, owner policy.Actor, name string) policy.Actor {
	t.Helper()
	resp, err := f.collaborators.Add(context.Background(), owner, CreateCollaboratorRequest{
		Email:    name + "-" + uuid.NewString()[:8] + "@toko.id",
		Password: "password123",
		Name:     name,
	})
	require.NoError(t, err)
	return actorOf(*resp)
}

func (f *fixture) product(t *testing.T, actor policy.Actor, name string, price int64, stock int) *model.Product {
	t.Helper()
	p, err := f.products.Create(context.Background(), actor, CreateProductRequest{Name: name, Price: price, Stock: stock})
	require.NoError(t, err)
	return p
}

func (f *fixture) customer(t *testing.T, actor policy.Actor, name string) *model.Customer {
	t.Helper()
	c, err := f.customers.Create(context.Background(), actor, CustomerRequest{Name: name})
	require.NoError(t, err)
	return c
}

func (f *fixture) stockOf(t *testing.T, id uuid.UUID) int {
	t.Helper()
	var p model.Product
	require.NoError(t, f.db.First(&p, "id = ?", id).Error)
	return p.Stock
}

func (f *fixture) count(t *testing.T, m interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(m).Count(&n).Error)
	return n
}
