package policy

import (
	"testing"

	"go-kasir-api/internal/model"
	"go-kasir-api/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRequireRole(t *testing.T) {
	owner := Actor{UserID: uuid.New(), StoreID: uuid.New(), Role: model.RoleOwner}
	cashier := Actor{UserID: uuid.New(), StoreID: uuid.New(), Role: model.RoleCashier}

	assert.NoError(t, RequireOwner(owner))
	assert.NoError(t, RequireRole(cashier, model.RoleOwner, model.RoleCashier))

	err := RequireOwner(cashier)
	assert.True(t, apperror.Is(err, apperror.CodeForbidden))
}

func TestRequireRoleWithoutIdentity(t *testing.T) {
	err := RequireOwner(Actor{Role: model.RoleOwner})
	assert.True(t, apperror.Is(err, apperror.CodeUnauthorized))
}

func TestActorIsOwner(t *testing.T) {
	assert.True(t, Actor{Role: model.RoleOwner}.IsOwner())
	assert.False(t, Actor{Role: model.RoleCashier}.IsOwner())
}
