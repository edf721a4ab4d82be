package biz

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ukvalley1218/bestkitchennet-backend/internal/authz"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/models"
)

func TestComputeTotals(t *testing.T) {
	items, subTotal, taxAmount := computeTotals([]QuotationItemInput{
		{Description: "Modular cabinet", Quantity: 2, Rate: decimal.NewFromInt(1000), TaxPercent: decimal.NewFromInt(18)},
		{Description: "Countertop", Quantity: 1, Rate: decimal.NewFromFloat(2500.50), TaxPercent: decimal.NewFromInt(5)},
	})

	require.Len(t, items, 2)
	assert.True(t, items[0].Amount.Equal(decimal.NewFromInt(2000)), "amount %s", items[0].Amount)
	assert.True(t, items[1].Amount.Equal(decimal.NewFromFloat(2500.50)), "amount %s", items[1].Amount)

	assert.True(t, subTotal.Equal(decimal.NewFromFloat(4500.50)), "subtotal %s", subTotal)

	// 2000*18% + 2500.50*5% = 360 + 125.025
	assert.True(t, taxAmount.Equal(decimal.NewFromFloat(485.025)), "tax %s", taxAmount)
}

func TestCreateQuotation(t *testing.T) {
	client := newTestDB(t)
	service := NewQuotationService(QuotationServiceParams{DB: client})

	tenant := seedTenant(t, client, "quotes")
	user := seedUser(t, client, &tenant.ID, authz.RoleSales, "sales@quotes.com", "secret123")
	lead := seedLead(t, client, tenant.ID, user.ID)

	ctx := identityCtx(authz.Identity{UserID: user.ID, Role: user.Role, TenantID: user.TenantID})

	quotation, err := service.CreateQuotation(ctx, CreateQuotationRequest{
		LeadID: &lead.ID,
		Items: []QuotationItemInput{
			{Description: "Sink unit", Quantity: 3, Rate: decimal.NewFromInt(500), TaxPercent: decimal.NewFromInt(18)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, tenant.ID, quotation.TenantID)
	assert.Equal(t, models.QuotationStatusDraft, quotation.Status)
	assert.Equal(t, user.ID, quotation.CreatedBy)
	assert.NotEmpty(t, quotation.QuoteNumber)
	assert.True(t, quotation.TotalAmount.Equal(decimal.NewFromInt(1770)), "total %s", quotation.TotalAmount)

	// Line items round-trip through the json serializer column.
	stored, err := service.GetQuotation(ctx, quotation.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, "Sink unit", stored.Items[0].Description)

	t.Run("platform identity rejected", func(t *testing.T) {
		platformCtx := identityCtx(authz.Identity{UserID: "root", Role: authz.RoleSuperAdmin})

		_, err := service.CreateQuotation(platformCtx, CreateQuotationRequest{
			Items: []QuotationItemInput{{Description: "x", Quantity: 1, Rate: decimal.NewFromInt(1)}},
		})
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestUpdateQuotationStatus(t *testing.T) {
	client := newTestDB(t)
	service := NewQuotationService(QuotationServiceParams{DB: client})

	tenant := seedTenant(t, client, "quotestatus")
	user := seedUser(t, client, &tenant.ID, authz.RoleManager, "manager@quotestatus.com", "secret123")
	ctx := identityCtx(authz.Identity{UserID: user.ID, Role: user.Role, TenantID: user.TenantID})

	quotation, err := service.CreateQuotation(ctx, CreateQuotationRequest{
		Items: []QuotationItemInput{
			{Description: "Chimney", Quantity: 1, Rate: decimal.NewFromInt(12000), TaxPercent: decimal.NewFromInt(18)},
		},
	})
	require.NoError(t, err)

	t.Run("invalid status", func(t *testing.T) {
		_, err := service.UpdateQuotationStatus(ctx, quotation.ID, models.QuotationStatus("shipped"))
		assert.Error(t, err)
	})

	sent, err := service.UpdateQuotationStatus(ctx, quotation.ID, models.QuotationStatusSent)
	require.NoError(t, err)
	assert.Equal(t, models.QuotationStatusSent, sent.Status)

	approved, err := service.UpdateQuotationStatus(ctx, quotation.ID, models.QuotationStatusApproved)
	require.NoError(t, err)

	// Every transition lands in the approval log with the acting user.
	stored, err := service.GetQuotation(ctx, approved.ID)
	require.NoError(t, err)
	require.Len(t, stored.ApprovalLog, 2)
	assert.Equal(t, "sent", stored.ApprovalLog[0].Action)
	assert.Equal(t, "approved", stored.ApprovalLog[1].Action)
	assert.Equal(t, user.ID, stored.ApprovalLog[1].UserID)

	t.Run("unknown quotation", func(t *testing.T) {
		_, err := service.UpdateQuotationStatus(ctx, "missing-id", models.QuotationStatusSent)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
