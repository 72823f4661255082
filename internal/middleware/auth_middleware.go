package middleware

import (
	"strings"

	"go-kasir-api/internal/model"
	"go-kasir-api/internal/policy"
	"go-kasir-api/internal/repository"
	"go-kasir-api/pkg/apperror"
	"go-kasir-api/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// ActorKey is the locals key holding the policy.Actor.
const ActorKey = "actor"

// RequireAuth validates the bearer token, reloads the user and stores the
// resulting policy.Actor in the request locals. Websocket upgrades may pass
// the token as ?token= instead of a header.
func RequireAuth(tokens *jwt.Manager, userRepo repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := extractToken(c)
		if err != nil {
			return err
		}

		claims, err := tokens.Validate(tokenString)
		if err != nil {
			return apperror.Wrap(apperror.CodeUnauthorized, err, "invalid or expired token")
		}

		// Deleted cashiers lose access even while their token is unexpired
		user, err := userRepo.FindByID(c.UserContext(), claims.UserID)
		if err != nil {
			if repository.IsNotFound(err) {
				return apperror.Unauthorized("user no longer exists")
			}
			return apperror.Internal(err)
		}
		if user.StoreID != claims.StoreID {
			return apperror.Unauthorized("invalid or expired token")
		}

		c.Locals(ActorKey, policy.Actor{
			UserID:  user.ID,
			Email:   user.Email,
			Role:    user.Role,
			StoreID: user.StoreID,
		})
		c.Locals("user_id", user.ID.String())
		c.Locals("store_id", user.StoreID.String())

		return c.Next()
	}
}

func extractToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		if token := c.Query("token"); token != "" {
			return token, nil
		}
		return "", apperror.Unauthorized("missing authorization token")
	}

	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", apperror.Unauthorized("invalid authorization format, use: Bearer <token>")
	}
	return parts[1], nil
}

// RequireRole must run after RequireAuth.
func RequireRole(roles ...model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := ActorFrom(c)
		if !ok {
			return apperror.Unauthorized("authentication required")
		}
		if err := policy.RequireRole(actor, roles...); err != nil {
			return err
		}
		return c.Next()
	}
}

// ActorFrom returns the actor stored by RequireAuth.
func ActorFrom(c *fiber.Ctx) (policy.Actor, bool) {
	actor, ok := c.Locals(ActorKey).(policy.Actor)
	return actor, ok
}
