package handler

import (
	"go-kasir-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CustomerHandler struct {
	service service.CustomerService
}

func NewCustomerHandler(s service.CustomerService) *CustomerHandler {
	return &CustomerHandler{service: s}
}

func (h *CustomerHandler) List(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	customers, err := h.service.List(c.UserContext(), a)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "", customers)
}

func (h *CustomerHandler) Get(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	customer, err := h.service.Get(c.UserContext(), a, id)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "", customer)
}

func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req service.CustomerRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	customer, err := h.service.Create(c.UserContext(), a, req)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusCreated, "customer created", customer)
}

func (h *CustomerHandler) Update(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req service.CustomerRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	customer, err := h.service.Update(c.UserContext(), a, id, req)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "customer updated", customer)
}

func (h *CustomerHandler) Delete(c *fiber.Ctx) error {
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
	return success(c, fiber.StatusOK, "customer deleted", nil)
}
