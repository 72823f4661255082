package handler

import (
	"go-kasir-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CollaboratorHandler struct {
	service service.CollaboratorService
}

func NewCollaboratorHandler(s service.CollaboratorService) *CollaboratorHandler {
	return &CollaboratorHandler{service: s}
}

// GET /api/v1/collaborators
func (h *CollaboratorHandler) List(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	users, err := h.service.List(c.UserContext(), a)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "", users)
}

// POST /api/v1/collaborators
func (h *CollaboratorHandler) Create(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req service.CreateCollaboratorRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.service.Add(c.UserContext(), a, req)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusCreated, "collaborator created", user)
}

// PUT /api/v1/collaborators/:id
func (h *CollaboratorHandler) Update(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req service.UpdateCollaboratorRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.service.Update(c.UserContext(), a, id, req)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "collaborator updated", user)
}

// DELETE /api/v1/collaborators/:id
func (h *CollaboratorHandler) Delete(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), a, id); err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "collaborator deleted", nil)
}
