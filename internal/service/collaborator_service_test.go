package service

import (
	"context"
	"strings"
	"testing"

	"go-kasir-api/internal/model"
	"go-kasir-api/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAndListCollaborators(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.owner(t, "Budi")
	other := f.owner(t, "Sari")

	rina := f.cashier(t, owner, "Rina")
	f.cashier(t, other, "Dodi")

	assert.Equal(t, model.RoleCashier, rina.Role)
	assert.Equal(t, owner.StoreID, rina.StoreID)

	list, err := f.collaborators.List(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Rina", list[0].Name)

	_, err = f.auth.Login(ctx, LoginRequest{Email: rina.Email, Password: "password123"})
	assert.NoError(t, err)
}

func TestAddCollaboratorDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.owner(t, "Budi")

	_, err := f.collaborators.Add(ctx, owner, CreateCollaboratorRequest{Email: owner.Email, Password: "password123", Name: "Rina"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestCollaboratorsRequireOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.owner(t, "Budi")
	cashier := f.cashier(t, owner, "Rina")

	_, err := f.collaborators.List(ctx, cashier)
	assert.True(t, apperror.Is(err, apperror.CodeForbidden))

	_, err = f.collaborators.Add(ctx, cashier, CreateCollaboratorRequest{Email: "x@toko.id", Password: "password123", Name: "X"})
	assert.True(t, apperror.Is(err, apperror.CodeForbidden))
}

func TestUpdateCollaborator(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.owner(t, "Budi")
	rina := f.cashier(t, owner, "Rina")

	updated, err := f.collaborators.Update(ctx, owner, rina.UserID, UpdateCollaboratorRequest{Name: "Rina Wati", Password: "another-pass"})
	require.NoError(t, err)
	assert.Equal(t, "Rina Wati", updated.Name)

	_, err = f.auth.Login(ctx, LoginRequest{Email: rina.Email, Password: "another-pass"})
	assert.NoError(t, err)
}

func TestCollaboratorLookupsAreScoped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.owner(t, "Budi")
	other := f.owner(t, "Sari")
	dodi := f.cashier(t, other, "Dodi")

	_, err := f.collaborators.Update(ctx, owner, dodi.UserID, UpdateCollaboratorRequest{Name: "Hacked"})
	assert.ErrorIs(t, err, ErrCollaboratorNotFound)

	assert.ErrorIs(t, f.collaborators.Delete(ctx, owner, dodi.UserID), ErrCollaboratorNotFound)
	assert.ErrorIs(t, f.collaborators.Delete(ctx, owner, owner.UserID), ErrCollaboratorNotFound)
	assert.ErrorIs(t, f.collaborators.Delete(ctx, owner, uuid.New()), ErrCollaboratorNotFound)
}

func TestDeleteCollaboratorRevokesLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.owner(t, "Budi")
	rina := f.cashier(t, owner, "Rina")

	require.NoError(t, f.collaborators.Delete(ctx, owner, rina.UserID))

	_, err := f.auth.Login(ctx, LoginRequest{Email: rina.Email, Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.auth.GetProfile(ctx, rina)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCollaboratorPasswordOverBcryptLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.owner(t, "Budi")
	rina := f.cashier(t, owner, "Rina")
	long := strings.Repeat("p", 80)

	_, err := f.collaborators.Add(ctx, owner, CreateCollaboratorRequest{Email: "dodi@toko.id", Password: long, Name: "Dodi"})
	assert.True(t, apperror.Is(err, apperror.CodeValidation))

	_, err = f.collaborators.Update(ctx, owner, rina.UserID, UpdateCollaboratorRequest{Password: long})
	assert.True(t, apperror.Is(err, apperror.CodeValidation))

	_, err = f.auth.Login(ctx, LoginRequest{Email: rina.Email, Password: "password123"})
	assert.NoError(t, err)
}
