package handler

import (
	"errors"

	"go-kasir-api/internal/middleware"
	"go-kasir-api/internal/policy"
	"go-kasir-api/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func success(c *fiber.Ctx, status int, message string, data interface{}) error {
	body := fiber.Map{"status": "success"}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	return c.Status(status).JSON(body)
}

// ErrorHandler renders every error returned by a handler or middleware as
// {"status":"error","message","code"}. Internal causes are logged, never sent.
func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{
				"status":  "error",
				"message": fe.Message,
				"code":    codeForStatus(fe.Code),
			})
		}

		appErr := apperror.As(err)
		if appErr == nil {
			appErr = apperror.Internal(err)
		}
		if appErr.Code() == apperror.CodeInternal {
			log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")
		}
		return c.Status(apperror.StatusFor(appErr.Code())).JSON(fiber.Map{
			"status":  "error",
			"message": appErr.Message(),
			"code":    appErr.Code(),
		})
	}
}

func codeForStatus(status int) apperror.Code {
	switch status {
	case fiber.StatusUnauthorized:
		return apperror.CodeUnauthorized
	case fiber.StatusForbidden:
		return apperror.CodeForbidden
	case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
		return apperror.CodeNotFound
	case fiber.StatusConflict:
		return apperror.CodeConflict
	case fiber.StatusTooManyRequests:
		return apperror.CodeRateLimit
	}
	if status >= fiber.StatusInternalServerError {
		return apperror.CodeInternal
	}
	return apperror.CodeValidation
}

func actor(c *fiber.Ctx) (policy.Actor, error) {
	a, ok := middleware.ActorFrom(c)
	if !ok {
		return policy.Actor{}, apperror.Unauthorized("authentication required")
	}
	return a, nil
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return apperror.Validation("invalid request body")
	}
	return nil
}

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, apperror.Validation("invalid id")
	}
	return id, nil
}
