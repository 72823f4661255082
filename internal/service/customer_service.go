package service

import (
	"context"
	"strings"

	"go-kasir-api/internal/model"
	"go-kasir-api/internal/policy"
	"go-kasir-api/internal/repository"
	"go-kasir-api/pkg/apperror"
	"go-kasir-api/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrCustomerNotFound = apperror.NotFound("customer not found")
	ErrCustomerInUse    = apperror.Conflict("customer has transactions and cannot be deleted")
)

type CustomerRequest struct {
	Name string `json:"name" validate:"notblank"`
}

type CustomerService interface {
	List(ctx context.Context, actor policy.Actor) ([]model.Customer, error)
	Get(ctx context.Context, actor policy.Actor, id uuid.UUID) (*model.Customer, error)
	Create(ctx context.Context, actor policy.Actor, req CustomerRequest) (*model.Customer, error)
	Update(ctx context.Context, actor policy.Actor, id uuid.UUID, req CustomerRequest) (*model.Customer, error)
	Delete(ctx context.Context, actor policy.Actor, id uuid.UUID) error
}

type customerService struct {
	uow          repository.UnitOfWork
	customerRepo repository.CustomerRepository
	txRepo       repository.TransactionRepository
}

func NewCustomerService(uow repository.UnitOfWork, customerRepo repository.CustomerRepository, txRepo repository.TransactionRepository) CustomerService {
	return &customerService{
		uow:          uow,
		customerRepo: customerRepo,
		txRepo:       txRepo,
	}
}

func (s *customerService) List(ctx context.Context, actor policy.Actor) ([]model.Customer, error) {
	customers, err := s.customerRepo.FindAll(ctx, actor.StoreID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return customers, nil
}

func (s *customerService) Get(ctx context.Context, actor policy.Actor, id uuid.UUID) (*model.Customer, error) {
	customer, err := s.customerRepo.FindByID(ctx, id, actor.StoreID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrCustomerNotFound
		}
		return nil, apperror.Internal(err)
	}
	return customer, nil
}

func (s *customerService) Create(ctx context.Context, actor policy.Actor, req CustomerRequest) (*model.Customer, error) {
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return nil, apperror.Validation(validator.Message(errs))
	}
	customer := &model.Customer{Name: strings.TrimSpace(req.Name), StoreID: actor.StoreID}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, apperror.Internal(err)
	}
	return customer, nil
}

func (s *customerService) Update(ctx context.Context, actor policy.Actor, id uuid.UUID, req CustomerRequest) (*model.Customer, error) {
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return nil, apperror.Validation(validator.Message(errs))
	}
	customer, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	customer.Name = strings.TrimSpace(req.Name)
	if err := s.customerRepo.Update(ctx, customer); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrCustomerNotFound
		}
		return nil, apperror.Internal(err)
	}
	return customer, nil
}

// Delete refuses customers that sales still reference.
func (s *customerService) Delete(ctx context.Context, actor policy.Actor, id uuid.UUID) error {
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		count, err := s.txRepo.CountByCustomer(tx, id, actor.StoreID)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrCustomerInUse
		}
		return s.customerRepo.Delete(tx, id, actor.StoreID)
	})
	switch {
	case err == nil:
		return nil
	case apperror.As(err) != nil:
		return err
	case repository.IsNotFound(err):
		return ErrCustomerNotFound
	case repository.IsForeignKeyViolation(err):
		return ErrCustomerInUse
	default:
		return apperror.Internal(err)
	}
}
