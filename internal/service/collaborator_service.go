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
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

var ErrCollaboratorNotFound = apperror.NotFound("collaborator not found")

type CreateCollaboratorRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,bcryptmax"`
	Name     string `json:"name" validate:"notblank"`
}

type UpdateCollaboratorRequest struct {
	Name     string `json:"name" validate:"omitempty,notblank"`
	Password string `json:"password" validate:"omitempty,min=8,bcryptmax"`
}

// CollaboratorService manages the cashiers of the owner's store.
type CollaboratorService interface {
	List(ctx context.Context, actor policy.Actor) ([]model.UserResponse, error)
	Add(ctx context.Context, actor policy.Actor, req CreateCollaboratorRequest) (*model.UserResponse, error)
	Update(ctx context.Context, actor policy.Actor, id uuid.UUID, req UpdateCollaboratorRequest) (*model.UserResponse, error)
	Delete(ctx context.Context, actor policy.Actor, id uuid.UUID) error
}

type collaboratorService struct {
	uow      repository.UnitOfWork
	userRepo repository.UserRepository
	log      zerolog.Logger
}

func NewCollaboratorService(uow repository.UnitOfWork, userRepo repository.UserRepository, log zerolog.Logger) CollaboratorService {
	return &collaboratorService{
		uow:      uow,
		userRepo: userRepo,
		log:      log.With().Str("component", "collaborator_service").Logger(),
	}
}

func (s *collaboratorService) List(ctx context.Context, actor policy.Actor) ([]model.UserResponse, error) {
	if err := policy.RequireOwner(actor); err != nil {
		return nil, err
	}
	users, err := s.userRepo.FindCashiers(ctx, actor.StoreID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	resp := make([]model.UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, users[i].ToResponse())
	}
	return resp, nil
}

func (s *collaboratorService) Add(ctx context.Context, actor policy.Actor, req CreateCollaboratorRequest) (*model.UserResponse, error) {
	if err := policy.RequireOwner(actor); err != nil {
		return nil, err
	}
	req.Email = model.NormalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return nil, apperror.Validation(validator.Message(errs))
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	user := &model.User{
		Email:   req.Email,
		Name:    req.Name,
		Role:    model.RoleCashier,
		StoreID: actor.StoreID,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, apperror.Internal(err)
	}

	err = s.uow.Do(ctx, func(tx *gorm.DB) error {
		return s.userRepo.Create(tx, user)
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, apperror.Internal(err)
	}

	s.log.Info().Str("store_id", actor.StoreID.String()).Str("user_id", user.ID.String()).Msg("cashier added")
	resp := user.ToResponse()
	return &resp, nil
}

func (s *collaboratorService) Update(ctx context.Context, actor policy.Actor, id uuid.UUID, req UpdateCollaboratorRequest) (*model.UserResponse, error) {
	if err := policy.RequireOwner(actor); err != nil {
		return nil, err
	}
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return nil, apperror.Validation(validator.Message(errs))
	}

	user, err := s.findCashier(ctx, id, actor.StoreID)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		user.Name = name
	}
	if req.Password != "" {
		if err := user.SetPassword(req.Password); err != nil {
			return nil, apperror.Internal(err)
		}
	}

	if err := s.userRepo.UpdateCashier(ctx, user); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrCollaboratorNotFound
		}
		return nil, apperror.Internal(err)
	}
	resp := user.ToResponse()
	return &resp, nil
}

func (s *collaboratorService) Delete(ctx context.Context, actor policy.Actor, id uuid.UUID) error {
	if err := policy.RequireOwner(actor); err != nil {
		return err
	}
	if err := s.userRepo.DeleteCashier(ctx, id, actor.StoreID); err != nil {
		if repository.IsNotFound(err) {
			return ErrCollaboratorNotFound
		}
		return apperror.Internal(err)
	}
	s.log.Info().Str("store_id", actor.StoreID.String()).Str("user_id", id.String()).Msg("cashier removed")
	return nil
}

func (s *collaboratorService) findCashier(ctx context.Context, id, storeID uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindCashier(ctx, id, storeID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrCollaboratorNotFound
		}
		return nil, apperror.Internal(err)
	}
	return user, nil
}
