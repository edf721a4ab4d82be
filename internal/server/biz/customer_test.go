package biz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Ukvalley1218/bestkitchennet-backend/internal/authz"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/models"
)

func newCustomerFixture(t *testing.T) (*CustomerService, *gorm.DB, *models.Tenant, context.Context) {
	t.Helper()

	client := newTestDB(t)
	leads := NewLeadService(LeadServiceParams{DB: client})
	service := NewCustomerService(CustomerServiceParams{DB: client, LeadService: leads})

	tenant := seedTenant(t, client, "customers")
	user := seedUser(t, client, &tenant.ID, authz.RoleSales, "sales@customers.com", "secret123")
	ctx := identityCtx(authz.Identity{UserID: user.ID, Role: user.Role, TenantID: user.TenantID})

	return service, client, tenant, ctx
}

func TestCreateCustomer(t *testing.T) {
	service, _, tenant, ctx := newCustomerFixture(t)

	customer, err := service.CreateCustomer(ctx, CreateCustomerRequest{
		Name:  "Sharma Residency",
		Phone: "9876511111",
		GSTIN: "27AAAAA0000A1Z5",
	})
	require.NoError(t, err)

	assert.Equal(t, tenant.ID, customer.TenantID)
	assert.Equal(t, models.CustomerSourceManual, customer.Source)
	assert.Empty(t, customer.LeadIDs)
}

func TestConvertLead(t *testing.T) {
	service, client, tenant, ctx := newCustomerFixture(t)

	lead := seedLead(t, client, tenant.ID, "creator")

	customer, err := service.ConvertLead(ctx, lead.ID)
	require.NoError(t, err)

	assert.Equal(t, lead.Name, customer.Name)
	assert.Equal(t, models.CustomerSourceLead, customer.Source)
	assert.Equal(t, []string{lead.ID}, customer.LeadIDs)

	var stored models.Lead
	require.NoError(t, client.First(&stored, "id = ?", lead.ID).Error)
	assert.Equal(t, models.LeadStatusQuoted, stored.Status, "conversion marks the lead quoted")

	t.Run("second lead with same phone attaches instead of duplicating", func(t *testing.T) {
		again := seedLead(t, client, tenant.ID, "creator")

		merged, err := service.ConvertLead(ctx, again.ID)
		require.NoError(t, err)

		assert.Equal(t, customer.ID, merged.ID)
		assert.ElementsMatch(t, []string{lead.ID, again.ID}, merged.LeadIDs)

		var count int64
		require.NoError(t, client.Model(&models.Customer{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("reconverting the same lead does not duplicate the link", func(t *testing.T) {
		merged, err := service.ConvertLead(ctx, lead.ID)
		require.NoError(t, err)
		assert.Len(t, merged.LeadIDs, 2)
	})

	t.Run("unknown lead", func(t *testing.T) {
		_, err := service.ConvertLead(ctx, "missing-id")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
