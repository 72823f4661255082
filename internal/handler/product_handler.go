package handler

import (
	"go-kasir-api/internal/repository"
	"go-kasir-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	service service.ProductService
}

func NewProductHandler(s service.ProductService) *ProductHandler {
	return &ProductHandler{service: s}
}

// List returns the store catalog, optionally filtered
// GET /api/v1/products?category=&search=
func (h *ProductHandler) List(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	products, err := h.service.List(c.UserContext(), a, repository.ProductFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
	})
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "", products)
}

// LowStock returns products at or below their minimum stock
// GET /api/v1/products/low-stock
func (h *ProductHandler) LowStock(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	products, err := h.service.ListLowStock(c.UserContext(), a)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "", products)
}

func (h *ProductHandler) Get(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	product, err := h.service.Get(c.UserContext(), a, id)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "", product)
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req service.CreateProductRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	product, err := h.service.Create(c.UserContext(), a, req)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusCreated, "product created", product)
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req service.UpdateProductRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	product, err := h.service.Update(c.UserContext(), a, id, req)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "product updated", product)
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
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
	return success(c, fiber.StatusOK, "product deleted", nil)
}
