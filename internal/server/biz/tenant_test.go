package biz

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ukvalley1218/bestkitchennet-backend/internal/authz"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/models"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/pkg/xcache"
)

func TestCreateCompanyWithCEO(t *testing.T) {
	client := newTestDB(t)
	service := NewTenantService(TenantServiceParams{DB: client})
	ctx := context.Background()

	company, err := service.CreateCompanyWithCEO(ctx, CreateCompanyRequest{
		Name:        "Best Kitchens Pune",
		Slug:        "  Best-Pune ",
		Email:       "Contact@BestPune.com",
		CEOName:     "A CEO",
		CEOEmail:    "CEO@BestPune.com",
		CEOPassword: "secret123",
	})
	require.NoError(t, err)

	assert.Equal(t, "best-pune", company.Tenant.Slug, "slug normalized")
	assert.Equal(t, "contact@bestpune.com", company.Tenant.Email)
	assert.Equal(t, models.TenantPlanTrial, company.Tenant.Plan, "plan defaults to trial")
	assert.Equal(t, models.TenantStatusActive, company.Tenant.Status)

	require.NotNil(t, company.CEO.TenantID)
	assert.Equal(t, company.Tenant.ID, *company.CEO.TenantID)
	assert.Equal(t, authz.RoleCEO, company.CEO.Role)
	assert.NoError(t, VerifyPassword(company.CEO.Password, "secret123"))

	t.Run("duplicate slug rolls back both rows", func(t *testing.T) {
		_, err := service.CreateCompanyWithCEO(ctx, CreateCompanyRequest{
			Name:        "Imposter",
			Slug:        "best-pune",
			Email:       "other@bestpune.com",
			CEOName:     "B CEO",
			CEOEmail:    "bceo@bestpune.com",
			CEOPassword: "secret123",
		})
		require.Error(t, err)

		var userCount int64
		require.NoError(t, client.Model(&models.User{}).Where("email = ?", "bceo@bestpune.com").Count(&userCount).Error)
		assert.Zero(t, userCount)
	})
}

func TestUpdateCompanyStatusCascades(t *testing.T) {
	client := newTestDB(t)
	service := NewTenantService(TenantServiceParams{DB: client})
	ctx := context.Background()

	tenant := seedTenant(t, client, "cascade")
	member := seedUser(t, client, &tenant.ID, authz.RoleSales, "sales@cascade.com", "secret123")

	// A user of another tenant must be untouched by the cascade.
	other := seedTenant(t, client, "cascade-other")
	bystander := seedUser(t, client, &other.ID, authz.RoleSales, "sales@cascade-other.com", "secret123")

	t.Run("unsupported status", func(t *testing.T) {
		_, err := service.UpdateCompanyStatus(ctx, tenant.ID, models.TenantStatus("archived"))
		assert.Error(t, err)
	})

	suspended, err := service.UpdateCompanyStatus(ctx, tenant.ID, models.TenantStatusSuspended)
	require.NoError(t, err)
	assert.Equal(t, models.TenantStatusSuspended, suspended.Status)

	var stored models.User
	require.NoError(t, client.First(&stored, "id = ?", member.ID).Error)
	assert.Equal(t, models.UserStatusBlocked, stored.Status)

	require.NoError(t, client.First(&stored, "id = ?", bystander.ID).Error)
	assert.Equal(t, models.UserStatusActive, stored.Status)

	_, err = service.UpdateCompanyStatus(ctx, tenant.ID, models.TenantStatusActive)
	require.NoError(t, err)

	require.NoError(t, client.First(&stored, "id = ?", member.ID).Error)
	assert.Equal(t, models.UserStatusActive, stored.Status, "reactivation unblocks users")

	t.Run("unknown tenant", func(t *testing.T) {
		_, err := service.UpdateCompanyStatus(ctx, "missing-id", models.TenantStatusSuspended)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestGetTenantUsesCache(t *testing.T) {
	client := newTestDB(t)
	service := NewTenantService(TenantServiceParams{
		DB:    client,
		Cache: xcache.NewMemory[*models.Tenant](time.Minute, time.Minute),
	})
	ctx := context.Background()

	tenant := seedTenant(t, client, "cached")

	got, err := service.GetTenant(ctx, tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, tenant.ID, got.ID)

	// Served from cache even after the row disappears.
	require.NoError(t, client.Delete(tenant).Error)

	got, err = service.GetTenant(ctx, tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, tenant.ID, got.ID)
}
