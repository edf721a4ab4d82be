package biz

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ukvalley1218/bestkitchennet-backend/internal/authz"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/models"
)

func TestDashboardSummary(t *testing.T) {
	client := newTestDB(t)
	service := NewDashboardService(DashboardServiceParams{DB: client})

	tenant := seedTenant(t, client, "dash")
	manager := seedUser(t, client, &tenant.ID, authz.RoleManager, "manager@dash.com", "secret123")
	ctx := identityCtx(authz.Identity{UserID: manager.ID, Role: manager.Role, TenantID: manager.TenantID})

	seedLead(t, client, tenant.ID, manager.ID)
	seedLead(t, client, tenant.ID, manager.ID)

	invoices := NewInvoiceService(InvoiceServiceParams{DB: client})

	approved := seedApprovedQuotation(t, client, ctx)
	invoice, err := invoices.CreateInvoice(ctx, CreateInvoiceRequest{QuotationID: approved.ID})
	require.NoError(t, err)

	_, _, err = invoices.AddPayment(ctx, invoice.ID, AddPaymentRequest{
		AmountPaid:  decimal.NewFromInt(18000),
		PaymentMode: models.PaymentModeUPI,
	})
	require.NoError(t, err)

	summary, err := service.GetSummary(ctx, DashboardWindow{})
	require.NoError(t, err)

	assert.Equal(t, int64(2), summary.Leads)
	assert.True(t, summary.Invoiced.Equal(decimal.NewFromInt(118000)), "invoiced %s", summary.Invoiced)
	assert.True(t, summary.Collected.Equal(decimal.NewFromInt(18000)))
	assert.True(t, summary.Outstanding.Equal(decimal.NewFromInt(100000)))
}

func TestDashboardSalesNarrowing(t *testing.T) {
	client := newTestDB(t)
	service := NewDashboardService(DashboardServiceParams{DB: client})

	tenant := seedTenant(t, client, "dashnarrow")
	manager := seedUser(t, client, &tenant.ID, authz.RoleManager, "manager@dashnarrow.com", "secret123")
	seller := seedUser(t, client, &tenant.ID, authz.RoleSales, "sales@dashnarrow.com", "secret123")

	seedLead(t, client, tenant.ID, manager.ID)
	seedLead(t, client, tenant.ID, seller.ID)

	sellerCtx := identityCtx(authz.Identity{UserID: seller.ID, Role: seller.Role, TenantID: seller.TenantID})

	summary, err := service.GetSummary(sellerCtx, DashboardWindow{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.Leads, "sales executives only count their own records")

	managerCtx := identityCtx(authz.Identity{UserID: manager.ID, Role: manager.Role, TenantID: manager.TenantID})

	summary, err = service.GetSummary(managerCtx, DashboardWindow{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.Leads)
}

func TestLeadsBreakdown(t *testing.T) {
	client := newTestDB(t)
	service := NewDashboardService(DashboardServiceParams{DB: client})
	leads := NewLeadService(LeadServiceParams{DB: client})

	tenant := seedTenant(t, client, "dashleads")
	admin := seedUser(t, client, &tenant.ID, authz.RoleAdmin, "admin@dashleads.com", "secret123")
	ctx := identityCtx(authz.Identity{UserID: admin.ID, Role: admin.Role, TenantID: admin.TenantID})

	seedLead(t, client, tenant.ID, admin.ID)
	quoted := seedLead(t, client, tenant.ID, admin.ID)
	_, err := leads.UpdateLeadStatus(ctx, quoted.ID, models.LeadStatusQuoted)
	require.NoError(t, err)

	breakdown, err := service.GetLeadsBreakdown(ctx, DashboardWindow{})
	require.NoError(t, err)

	counts := map[string]int64{}
	for _, row := range breakdown {
		counts[row.Status] = row.Count
	}

	assert.Equal(t, int64(1), counts[string(models.LeadStatusNew)])
	assert.Equal(t, int64(1), counts[string(models.LeadStatusQuoted)])
}
