package service

import (
	"context"
	"strings"

	"go-kasir-api/internal/model"
	"go-kasir-api/internal/policy"
	"go-kasir-api/internal/repository"
	"go-kasir-api/pkg/apperror"
	"go-kasir-api/pkg/jwt"
	"go-kasir-api/pkg/validator"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = apperror.Unauthorized("invalid email or password")
	ErrEmailTaken         = apperror.Conflict("email already registered")
	ErrUserNotFound       = apperror.NotFound("user not found")
	ErrWrongPassword      = apperror.Validation("current password is incorrect")
)

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,bcryptmax"`
	Name      string `json:"name" validate:"notblank"`
	StoreName string `json:"storeName"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	Name      string `json:"name" validate:"omitempty,notblank"`
	StoreName string `json:"storeName" validate:"omitempty,notblank"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8,bcryptmax"`
}

type AuthResponse struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
}

type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	GetProfile(ctx context.Context, actor policy.Actor) (*model.UserResponse, error)
	UpdateProfile(ctx context.Context, actor policy.Actor, req UpdateProfileRequest) (*model.UserResponse, error)
	ChangePassword(ctx context.Context, actor policy.Actor, req ChangePasswordRequest) error
}

type authService struct {
	uow       repository.UnitOfWork
	userRepo  repository.UserRepository
	storeRepo repository.StoreRepository
	tokens    *jwt.Manager
	log       zerolog.Logger
}

func NewAuthService(uow repository.UnitOfWork, userRepo repository.UserRepository, storeRepo repository.StoreRepository, tokens *jwt.Manager, log zerolog.Logger) AuthService {
	return &authService{
		uow:       uow,
		userRepo:  userRepo,
		storeRepo: storeRepo,
		tokens:    tokens,
		log:       log.With().Str("component", "auth_service").Logger(),
	}
}

// Register creates the store and its owner in one unit of work.
func (s *authService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
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

	storeName := strings.TrimSpace(req.StoreName)
	if storeName == "" {
		storeName = "Toko " + req.Name
	}

	store := &model.Store{Name: storeName}
	user := &model.User{
		Email: req.Email,
		Name:  req.Name,
		Role:  model.RoleOwner,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, apperror.Internal(err)
	}

	err = s.uow.Do(ctx, func(tx *gorm.DB) error {
		if err := s.storeRepo.Create(tx, store); err != nil {
			return err
		}
		user.StoreID = store.ID
		return s.userRepo.Create(tx, user)
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, apperror.Internal(err)
	}
	user.Store = store

	s.log.Info().Str("user_id", user.ID.String()).Str("store_id", store.ID.String()).Msg("owner registered")
	return s.issue(user)
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	req.Email = model.NormalizeEmail(req.Email)
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return nil, apperror.Validation(validator.Message(errs))
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, apperror.Internal(err)
	}
	if !user.CheckPassword(req.Password) {
		return nil, ErrInvalidCredentials
	}
	return s.issue(user)
}

func (s *authService) issue(user *model.User) (*AuthResponse, error) {
	token, err := s.tokens.Generate(user.ID, user.Email, string(user.Role), user.StoreID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &AuthResponse{Token: token, User: user.ToResponse()}, nil
}

func (s *authService) GetProfile(ctx context.Context, actor policy.Actor) (*model.UserResponse, error) {
	user, err := s.findUser(ctx, actor)
	if err != nil {
		return nil, err
	}
	resp := user.ToResponse()
	return &resp, nil
}

func (s *authService) UpdateProfile(ctx context.Context, actor policy.Actor, req UpdateProfileRequest) (*model.UserResponse, error) {
	if err := policy.RequireOwner(actor); err != nil {
		return nil, err
	}
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return nil, apperror.Validation(validator.Message(errs))
	}
	name := strings.TrimSpace(req.Name)
	storeName := strings.TrimSpace(req.StoreName)
	if name == "" && storeName == "" {
		return nil, apperror.Validation("name or storeName is required")
	}

	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		if name != "" {
			if err := s.userRepo.UpdateName(tx, actor.UserID, name); err != nil {
				return err
			}
		}
		if storeName != "" {
			return s.storeRepo.UpdateName(tx, actor.StoreID, storeName)
		}
		return nil
	})
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperror.NotFound("store not found")
		}
		return nil, apperror.Internal(err)
	}
	return s.GetProfile(ctx, actor)
}

func (s *authService) ChangePassword(ctx context.Context, actor policy.Actor, req ChangePasswordRequest) error {
	if err := policy.RequireOwner(actor); err != nil {
		return err
	}
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return apperror.Validation(validator.Message(errs))
	}

	user, err := s.findUser(ctx, actor)
	if err != nil {
		return err
	}
	if !user.CheckPassword(req.OldPassword) {
		return ErrWrongPassword
	}
	if err := user.SetPassword(req.NewPassword); err != nil {
		return apperror.Internal(err)
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, user.Password); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (s *authService) findUser(ctx context.Context, actor policy.Actor) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, actor.UserID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, apperror.Internal(err)
	}
	if user.StoreID != actor.StoreID {
		return nil, ErrUserNotFound
	}
	return user, nil
}
