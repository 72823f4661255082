package service

import (
	"context"
	"math"
	"strings"

	"go-kasir-api/internal/model"
	"go-kasir-api/internal/policy"
	"go-kasir-api/internal/repository"
	"go-kasir-api/internal/ws"
	"go-kasir-api/pkg/apperror"
	"go-kasir-api/pkg/metrics"
	"go-kasir-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// UnknownCashier is recorded when the acting user no longer exists.
const UnknownCashier = "Unknown"

var ErrSaleNotFound = apperror.NotFound("transaction not found")

type SaleItemRequest struct {
	ProductName string `json:"productName" validate:"notblank"`
	UnitPrice   int64  `json:"unitPrice" validate:"gt=0"`
	Quantity    int    `json:"quantity" validate:"gt=0"`
}

type CreateSaleRequest struct {
	CustomerID string            `json:"customerId" validate:"required,uuid"`
	Items      []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
}

// SaleService records sales and keeps product stock consistent with them.
type SaleService interface {
	CreateSale(ctx context.Context, actor policy.Actor, req CreateSaleRequest) (*model.Transaction, error)
	DeleteSale(ctx context.Context, actor policy.Actor, id uuid.UUID) error
	ListSales(ctx context.Context, actor policy.Actor, filter repository.SaleFilter) ([]model.Transaction, error)
	GetSale(ctx context.Context, actor policy.Actor, id uuid.UUID) (*model.Transaction, error)
}

type saleService struct {
	uow          repository.UnitOfWork
	txRepo       repository.TransactionRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	userRepo     repository.UserRepository
	wsHub        *ws.Hub
	metrics      *metrics.Sales
	log          zerolog.Logger
}

func NewSaleService(
	uow repository.UnitOfWork,
	txRepo repository.TransactionRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	userRepo repository.UserRepository,
	hub *ws.Hub,
	m *metrics.Sales,
	log zerolog.Logger,
) SaleService {
	return &saleService{
		uow:          uow,
		txRepo:       txRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		userRepo:     userRepo,
		wsHub:        hub,
		metrics:      m,
		log:          log.With().Str("component", "sale_service").Logger(),
	}
}

// CreateSale inserts the header and its items and decrements the stock of
// every product matched by name, all in one unit of work. Items naming no
// product are recorded without touching stock.
func (s *saleService) CreateSale(ctx context.Context, actor policy.Actor, req CreateSaleRequest) (*model.Transaction, error) {
	sale, err := s.buildSale(ctx, actor, req)
	if err != nil {
		s.reject(actor, err)
		return nil, err
	}

	err = s.uow.Do(ctx, func(tx *gorm.DB) error {
		exists, err := s.customerRepo.ExistsInStore(tx, sale.CustomerID, actor.StoreID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrCustomerNotFound
		}
		if err := s.txRepo.Create(tx, sale); err != nil {
			return err
		}
		return s.decrementStock(tx, actor.StoreID, sale.Items)
	})
	if err != nil {
		if apperror.As(err) == nil {
			err = apperror.Internal(err)
		}
		s.reject(actor, err)
		return nil, err
	}

	s.metrics.ObserveCreated(sale.Total)
	s.log.Info().
		Str("store_id", actor.StoreID.String()).
		Str("transaction_id", sale.ID.String()).
		Int64("total", sale.Total).
		Int("items", len(sale.Items)).
		Msg("sale created")

	// The sale is committed; a failed reload must not look like a rejection.
	created, err := s.GetSale(ctx, actor, sale.ID)
	if err != nil {
		s.log.Error().Err(err).Str("transaction_id", sale.ID.String()).Msg("reloading created sale")
		created = sale
	}
	s.wsHub.Publish(actor.StoreID, map[string]interface{}{
		"type":        "sale_created",
		"transaction": created,
		"userId":      actor.UserID,
	})
	return created, nil
}

func (s *saleService) buildSale(ctx context.Context, actor policy.Actor, req CreateSaleRequest) (*model.Transaction, error) {
	req.CustomerID = strings.TrimSpace(req.CustomerID)
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return nil, apperror.Validation(validator.Message(errs))
	}
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return nil, apperror.Validation("customerId must be a valid id")
	}

	items := make([]model.TransactionItem, len(req.Items))
	var total int64
	for i, item := range req.Items {
		if item.UnitPrice > math.MaxInt64/int64(item.Quantity) {
			return nil, apperror.Validation("item subtotal is too large")
		}
		line := model.TransactionItem{
			LineNo:      i + 1,
			ProductName: strings.TrimSpace(item.ProductName),
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
		}
		if total > math.MaxInt64-line.Subtotal() {
			return nil, apperror.Validation("transaction total is too large")
		}
		total += line.Subtotal()
		items[i] = line
	}

	sale := &model.Transaction{
		CustomerID:  customerID,
		Total:       total,
		CashierName: UnknownCashier,
		StoreID:     actor.StoreID,
		Items:       items,
	}

	user, err := s.userRepo.FindByID(ctx, actor.UserID)
	switch {
	case err == nil:
		sale.UserID = &user.ID
		sale.CashierName = user.Name
	case repository.IsNotFound(err):
	default:
		return nil, apperror.Internal(err)
	}
	return sale, nil
}

// decrementStock locks the matched products, then walks items in input order
// so the first line that would overdraw a product is the one reported.
func (s *saleService) decrementStock(tx *gorm.DB, storeID uuid.UUID, items []model.TransactionItem) error {
	products, err := s.productRepo.LockByNames(tx, storeID, productNames(items))
	if err != nil {
		return err
	}
	byName := make(map[string]*model.Product, len(products))
	remaining := make(map[uuid.UUID]int, len(products))
	for i := range products {
		byName[products[i].Name] = &products[i]
		remaining[products[i].ID] = products[i].Stock
	}

	for _, item := range items {
		product, ok := byName[item.ProductName]
		if !ok {
			continue
		}
		if remaining[product.ID] < item.Quantity {
			return insufficientStock(product.Name)
		}
		remaining[product.ID] -= item.Quantity
	}

	for _, product := range products {
		used := product.Stock - remaining[product.ID]
		if used == 0 {
			continue
		}
		ok, err := s.productRepo.AdjustStock(tx, product.ID, -used)
		if err != nil {
			return err
		}
		if !ok {
			return insufficientStock(product.Name)
		}
	}
	return nil
}

// DeleteSale removes the sale and gives its quantities back to the matching
// products in one unit of work.
func (s *saleService) DeleteSale(ctx context.Context, actor policy.Actor, id uuid.UUID) error {
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		sale, err := s.txRepo.LockByID(tx, id, actor.StoreID)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrSaleNotFound
			}
			return err
		}

		products, err := s.productRepo.LockByNames(tx, actor.StoreID, productNames(sale.Items))
		if err != nil {
			return err
		}
		restore := make(map[string]int, len(products))
		for _, item := range sale.Items {
			restore[item.ProductName] += item.Quantity
		}
		for _, product := range products {
			qty := restore[product.Name]
			if qty == 0 {
				continue
			}
			if _, err := s.productRepo.AdjustStock(tx, product.ID, qty); err != nil {
				return err
			}
		}

		if err := s.txRepo.Delete(tx, sale.ID); err != nil {
			if repository.IsNotFound(err) {
				return ErrSaleNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		if apperror.As(err) != nil {
			return err
		}
		return apperror.Internal(err)
	}

	s.metrics.ObserveDeleted()
	s.log.Info().Str("store_id", actor.StoreID.String()).Str("transaction_id", id.String()).Msg("sale deleted")
	s.wsHub.Publish(actor.StoreID, map[string]interface{}{
		"type":          "sale_deleted",
		"transactionId": id,
		"userId":        actor.UserID,
	})
	return nil
}

func (s *saleService) ListSales(ctx context.Context, actor policy.Actor, filter repository.SaleFilter) ([]model.Transaction, error) {
	sales, err := s.txRepo.FindAll(ctx, actor.StoreID, filter)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	for i := range sales {
		fillCashierName(&sales[i])
	}
	return sales, nil
}

func (s *saleService) GetSale(ctx context.Context, actor policy.Actor, id uuid.UUID) (*model.Transaction, error) {
	sale, err := s.txRepo.FindByID(ctx, id, actor.StoreID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrSaleNotFound
		}
		return nil, apperror.Internal(err)
	}
	fillCashierName(sale)
	return sale, nil
}

func (s *saleService) reject(actor policy.Actor, err error) {
	code := apperror.CodeOf(err)
	s.metrics.ObserveRejected(strings.ToLower(string(code)))

	event := s.log.Warn()
	if code == apperror.CodeInternal {
		event = s.log.Error()
	}
	event.Err(err).
		Str("store_id", actor.StoreID.String()).
		Str("user_id", actor.UserID.String()).
		Msg("sale rejected")
}

func insufficientStock(name string) error {
	return apperror.Newf(apperror.CodeConflict, "insufficient stock for %s", name)
}

func productNames(items []model.TransactionItem) []string {
	seen := make(map[string]bool, len(items))
	names := make([]string, 0, len(items))
	for _, item := range items {
		if !seen[item.ProductName] {
			seen[item.ProductName] = true
			names = append(names, item.ProductName)
		}
	}
	return names
}

func fillCashierName(sale *model.Transaction) {
	if sale.CashierName == "" && sale.User != nil {
		sale.CashierName = sale.User.Name
	}
}

// IsInsufficientStock reports whether err is a stock conflict raised by a sale.
func IsInsufficientStock(err error) bool {
	typed := apperror.As(err)
	return typed != nil && typed.Code() == apperror.CodeConflict &&
		strings.HasPrefix(typed.Message(), "insufficient stock")
}
