package tenancy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Ukvalley1218/bestkitchennet-backend/internal/authz"
)

type widget struct {
	ID       string `gorm:"primaryKey"`
	TenantID string
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	client, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := client.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, client.AutoMigrate(&widget{}))

	return client
}

func TestScope(t *testing.T) {
	tenantID := "tenant-1"

	platform := Scope(authz.Identity{UserID: "u1", Role: authz.RoleSuperAdmin})
	assert.False(t, platform.Restricted())

	scoped := Scope(authz.Identity{UserID: "u2", Role: authz.RoleCEO, TenantID: &tenantID})
	assert.True(t, scoped.Restricted())

	got, ok := scoped.TenantID()
	require.True(t, ok)
	assert.Equal(t, tenantID, got)

	// Even platform roles are confined when the record carries a tenant.
	adminScoped := Scope(authz.Identity{UserID: "u3", Role: authz.RoleSuperAdmin, TenantID: &tenantID})
	assert.True(t, adminScoped.Restricted())
}

func TestFilterApply(t *testing.T) {
	client := newTestDB(t)

	require.NoError(t, client.Create(&widget{ID: "w1", TenantID: "tenant-1"}).Error)
	require.NoError(t, client.Create(&widget{ID: "w2", TenantID: "tenant-2"}).Error)

	var all []widget

	require.NoError(t, Unrestricted.Apply(client).Find(&all).Error)
	assert.Len(t, all, 2)

	var scoped []widget

	require.NoError(t, RestrictedTo("tenant-1").Apply(client).Find(&scoped).Error)
	require.Len(t, scoped, 1)
	assert.Equal(t, "w1", scoped[0].ID)

	var none []widget

	require.NoError(t, RestrictedTo("tenant-3").Apply(client).Find(&none).Error)
	assert.Empty(t, none)
}

func TestScopedComposesWithScopes(t *testing.T) {
	client := newTestDB(t)

	require.NoError(t, client.Create(&widget{ID: "w1", TenantID: "tenant-1"}).Error)
	require.NoError(t, client.Create(&widget{ID: "w2", TenantID: "tenant-2"}).Error)

	var got []widget

	err := client.Scopes(Scoped(RestrictedTo("tenant-2"))).Find(&got).Error
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "w2", got[0].ID)
}
