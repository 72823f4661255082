package handler

import (
	"go-kasir-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a store together with its owner account
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req service.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	resp, err := h.authService.Register(c.UserContext(), req)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusCreated, "registration successful", resp)
}

// Login handles user authentication
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req service.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	resp, err := h.authService.Login(c.UserContext(), req)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "login successful", resp)
}

// GetProfile returns the authenticated user with the store name
// GET /api/v1/auth/profile
func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	profile, err := h.authService.GetProfile(c.UserContext(), a)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "", profile)
}

// UpdateProfile changes the owner name and/or store name
// PUT /api/v1/auth/profile
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req service.UpdateProfileRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	profile, err := h.authService.UpdateProfile(c.UserContext(), a, req)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "profile updated", profile)
}

// ChangePassword handles password change for the logged in owner
// PUT /api/v1/auth/password
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req service.ChangePasswordRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.authService.ChangePassword(c.UserContext(), a, req); err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "password changed", nil)
}
