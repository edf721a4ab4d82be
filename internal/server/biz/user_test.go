package biz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ukvalley1218/bestkitchennet-backend/internal/authz"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/models"
)

func TestCreateUser(t *testing.T) {
	client := newTestDB(t)
	service := NewUserService(UserServiceParams{DB: client})

	tenant := seedTenant(t, client, "users")
	admin := seedUser(t, client, &tenant.ID, authz.RoleAdmin, "admin@users.com", "secret123")
	ctx := identityCtx(authz.Identity{UserID: admin.ID, Role: admin.Role, TenantID: admin.TenantID})

	user, err := service.CreateUser(ctx, CreateUserRequest{
		Name:     "New Seller",
		Email:    "  Seller@Users.com ",
		Password: "secret123",
		Role:     authz.RoleSales,
	})
	require.NoError(t, err)

	assert.Equal(t, "seller@users.com", user.Email, "email normalized")
	require.NotNil(t, user.TenantID)
	assert.Equal(t, tenant.ID, *user.TenantID, "tenant comes from the caller, not the request")
	assert.NotEqual(t, "secret123", user.Password, "password stored hashed")
	assert.NoError(t, VerifyPassword(user.Password, "secret123"))

	t.Run("duplicate email", func(t *testing.T) {
		_, err := service.CreateUser(ctx, CreateUserRequest{
			Name:     "Dup",
			Email:    "seller@users.com",
			Password: "secret123",
			Role:     authz.RoleSales,
		})
		assert.Error(t, err)
	})

	t.Run("invalid role", func(t *testing.T) {
		_, err := service.CreateUser(ctx, CreateUserRequest{
			Name:     "Ghost",
			Email:    "ghost@users.com",
			Password: "secret123",
			Role:     authz.Role("owner"),
		})
		assert.Error(t, err)
	})

	t.Run("tenant caller cannot plant users elsewhere", func(t *testing.T) {
		other := seedTenant(t, client, "users-other")

		user, err := service.CreateUser(ctx, CreateUserRequest{
			Name:     "Mole",
			Email:    "mole@users.com",
			Password: "secret123",
			Role:     authz.RoleSales,
			TenantID: &other.ID,
		})
		require.NoError(t, err)
		require.NotNil(t, user.TenantID)
		assert.Equal(t, tenant.ID, *user.TenantID)
	})
}

func TestUpdateUser(t *testing.T) {
	client := newTestDB(t)
	service := NewUserService(UserServiceParams{DB: client})

	tenant := seedTenant(t, client, "userupd")
	admin := seedUser(t, client, &tenant.ID, authz.RoleAdmin, "admin@userupd.com", "secret123")
	target := seedUser(t, client, &tenant.ID, authz.RoleSales, "sales@userupd.com", "secret123")
	ctx := identityCtx(authz.Identity{UserID: admin.ID, Role: admin.Role, TenantID: admin.TenantID})

	role := authz.RoleManager
	status := models.UserStatusInactive
	_, err := service.UpdateUser(ctx, target.ID, UpdateUserRequest{Role: &role, Status: &status})
	require.NoError(t, err)

	var stored models.User
	require.NoError(t, client.First(&stored, "id = ?", target.ID).Error)
	assert.Equal(t, authz.RoleManager, stored.Role)
	assert.Equal(t, models.UserStatusInactive, stored.Status)

	t.Run("invalid role rejected", func(t *testing.T) {
		bad := authz.Role("owner")
		_, err := service.UpdateUser(ctx, target.ID, UpdateUserRequest{Role: &bad})
		assert.Error(t, err)
	})

	t.Run("empty update is a no-op", func(t *testing.T) {
		_, err := service.UpdateUser(ctx, target.ID, UpdateUserRequest{})
		assert.NoError(t, err)
	})
}

func TestDeleteUser(t *testing.T) {
	client := newTestDB(t)
	service := NewUserService(UserServiceParams{DB: client})

	tenant := seedTenant(t, client, "userdel")
	admin := seedUser(t, client, &tenant.ID, authz.RoleAdmin, "admin@userdel.com", "secret123")
	target := seedUser(t, client, &tenant.ID, authz.RoleSales, "sales@userdel.com", "secret123")
	ctx := identityCtx(authz.Identity{UserID: admin.ID, Role: admin.Role, TenantID: admin.TenantID})

	require.NoError(t, service.DeleteUser(ctx, target.ID))

	_, err := service.GetUserByID(ctx, target.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, service.DeleteUser(ctx, target.ID), ErrNotFound)

	t.Run("cross-tenant delete is not found", func(t *testing.T) {
		other := seedTenant(t, client, "userdel-other")
		victim := seedUser(t, client, &other.ID, authz.RoleSales, "sales@userdel-other.com", "secret123")

		assert.ErrorIs(t, service.DeleteUser(ctx, victim.ID), ErrNotFound)
	})
}
