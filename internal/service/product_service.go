package service

import (
	"context"
	"strings"

	"go-kasir-api/internal/model"
	"go-kasir-api/internal/policy"
	"go-kasir-api/internal/repository"
	"go-kasir-api/internal/ws"
	"go-kasir-api/pkg/apperror"
	"go-kasir-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrProductNotFound  = apperror.NotFound("product not found")
	ErrProductNameTaken = apperror.Conflict("product name already exists")
)

type CreateProductRequest struct {
	Name     string  `json:"name" validate:"notblank"`
	Category string  `json:"category"`
	Price    int64   `json:"price" validate:"gte=0"`
	Stock    int     `json:"stock" validate:"gte=0"`
	MinStock int     `json:"minStock" validate:"gte=0"`
	ImageURI *string `json:"imageUri"`
}

// UpdateProductRequest applies only the fields that are present.
type UpdateProductRequest struct {
	Name     *string `json:"name" validate:"omitempty,notblank"`
	Category *string `json:"category"`
	Price    *int64  `json:"price" validate:"omitempty,gte=0"`
	Stock    *int    `json:"stock" validate:"omitempty,gte=0"`
	MinStock *int    `json:"minStock" validate:"omitempty,gte=0"`
	ImageURI *string `json:"imageUri"`
}

type ProductService interface {
	List(ctx context.Context, actor policy.Actor, filter repository.ProductFilter) ([]model.Product, error)
	ListLowStock(ctx context.Context, actor policy.Actor) ([]model.Product, error)
	Get(ctx context.Context, actor policy.Actor, id uuid.UUID) (*model.Product, error)
	Create(ctx context.Context, actor policy.Actor, req CreateProductRequest) (*model.Product, error)
	Update(ctx context.Context, actor policy.Actor, id uuid.UUID, req UpdateProductRequest) (*model.Product, error)
	Delete(ctx context.Context, actor policy.Actor, id uuid.UUID) error
}

type productService struct {
	productRepo repository.ProductRepository
	wsHub       *ws.Hub
	log         zerolog.Logger
}

func NewProductService(productRepo repository.ProductRepository, hub *ws.Hub, log zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		wsHub:       hub,
		log:         log.With().Str("component", "product_service").Logger(),
	}
}

func (s *productService) List(ctx context.Context, actor policy.Actor, filter repository.ProductFilter) ([]model.Product, error) {
	products, err := s.productRepo.FindAll(ctx, actor.StoreID, filter)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return products, nil
}

func (s *productService) ListLowStock(ctx context.Context, actor policy.Actor) ([]model.Product, error) {
	products, err := s.productRepo.FindLowStock(ctx, actor.StoreID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return products, nil
}

func (s *productService) Get(ctx context.Context, actor policy.Actor, id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id, actor.StoreID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrProductNotFound
		}
		return nil, apperror.Internal(err)
	}
	return product, nil
}

func (s *productService) Create(ctx context.Context, actor policy.Actor, req CreateProductRequest) (*model.Product, error) {
	req.Name = strings.TrimSpace(req.Name)
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return nil, apperror.Validation(validator.Message(errs))
	}

	product := &model.Product{
		Name:     req.Name,
		Category: strings.TrimSpace(req.Category),
		Price:    req.Price,
		Stock:    req.Stock,
		MinStock: req.MinStock,
		ImageURI: req.ImageURI,
		StoreID:  actor.StoreID,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrProductNameTaken
		}
		return nil, apperror.Internal(err)
	}

	s.broadcast(actor, "product_created", product, nil)
	return product, nil
}

func (s *productService) Update(ctx context.Context, actor policy.Actor, id uuid.UUID, req UpdateProductRequest) (*model.Product, error) {
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return nil, apperror.Validation(validator.Message(errs))
	}

	product, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	oldStock := product.Stock

	fields := make(map[string]interface{})
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Category != nil {
		fields["category"] = strings.TrimSpace(*req.Category)
	}
	if req.Price != nil {
		fields["price"] = *req.Price
	}
	if req.Stock != nil {
		fields["stock"] = *req.Stock
	}
	if req.MinStock != nil {
		fields["min_stock"] = *req.MinStock
	}
	if req.ImageURI != nil {
		fields["image_uri"] = *req.ImageURI
	}

	if err := s.productRepo.Update(ctx, product.ID, actor.StoreID, fields); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrProductNameTaken
		}
		return nil, apperror.Internal(err)
	}

	// reload so the response carries stock written by concurrent sales
	product, err = s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	s.broadcast(actor, "product_updated", product, &oldStock)
	return product, nil
}

func (s *productService) Delete(ctx context.Context, actor policy.Actor, id uuid.UUID) error {
	product, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, product.ID, actor.StoreID); err != nil {
		if repository.IsNotFound(err) {
			return ErrProductNotFound
		}
		return apperror.Internal(err)
	}

	s.broadcast(actor, "product_deleted", product, nil)
	return nil
}

func (s *productService) broadcast(actor policy.Actor, action string, product *model.Product, oldStock *int) {
	payload := map[string]interface{}{
		"type":   "stock_update",
		"action": action,
		"product": map[string]interface{}{
			"id":       product.ID,
			"name":     product.Name,
			"stock":    product.Stock,
			"minStock": product.MinStock,
			"price":    product.Price,
		},
		"userId": actor.UserID,
	}
	if oldStock != nil {
		payload["oldStock"] = *oldStock
	}
	s.wsHub.Publish(actor.StoreID, payload)
}
