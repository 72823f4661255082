package handler

import (
	"go-kasir-api/internal/repository"
	"go-kasir-api/internal/service"
	"go-kasir-api/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type TransactionHandler struct {
	service service.SaleService
}

func NewTransactionHandler(s service.SaleService) *TransactionHandler {
	return &TransactionHandler{service: s}
}

// List returns the store's sales, newest first
// GET /api/v1/transactions?startDate=&endDate=&customerId=
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	filter, err := saleFilter(c)
	if err != nil {
		return err
	}
	sales, err := h.service.ListSales(c.UserContext(), a, filter)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "", sales)
}

func saleFilter(c *fiber.Ctx) (repository.SaleFilter, error) {
	var filter repository.SaleFilter

	start, err := service.ParseDay(c.Query("startDate"))
	if err != nil {
		return filter, err
	}
	filter.Start = start

	end, err := service.ParseDay(c.Query("endDate"))
	if err != nil {
		return filter, err
	}
	if end != nil {
		next := end.AddDate(0, 0, 1)
		filter.End = &next
	}

	if raw := c.Query("customerId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, apperror.Validation("invalid customerId")
		}
		filter.CustomerID = &id
	}
	return filter, nil
}

// Get returns one sale with its items
// GET /api/v1/transactions/:id
func (h *TransactionHandler) Get(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	sale, err := h.service.GetSale(c.UserContext(), a, id)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "", sale)
}

// Create records a sale and decrements stock
// POST /api/v1/transactions
func (h *TransactionHandler) Create(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req service.CreateSaleRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	sale, err := h.service.CreateSale(c.UserContext(), a, req)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusCreated, "transaction created", sale)
}

// Delete removes a sale and restores stock
// DELETE /api/v1/transactions/:id
func (h *TransactionHandler) Delete(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteSale(c.UserContext(), a, id); err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "transaction deleted", nil)
}
