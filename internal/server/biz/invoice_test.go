package biz

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ukvalley1218/bestkitchennet-backend/internal/authz"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/models"
	"gorm.io/gorm"
)

func seedApprovedQuotation(t *testing.T, client *gorm.DB, ctx context.Context) *models.Quotation {
	t.Helper()

	quotations := NewQuotationService(QuotationServiceParams{DB: client})

	quotation, err := quotations.CreateQuotation(ctx, CreateQuotationRequest{
		Items: []QuotationItemInput{
			{Description: "Full kitchen fitout", Quantity: 1, Rate: decimal.NewFromInt(100000), TaxPercent: decimal.NewFromInt(18)},
		},
	})
	require.NoError(t, err)

	_, err = quotations.UpdateQuotationStatus(ctx, quotation.ID, models.QuotationStatusSent)
	require.NoError(t, err)

	approved, err := quotations.UpdateQuotationStatus(ctx, quotation.ID, models.QuotationStatusApproved)
	require.NoError(t, err)

	return approved
}

func TestCreateInvoiceRequiresApprovedQuotation(t *testing.T) {
	client := newTestDB(t)
	service := NewInvoiceService(InvoiceServiceParams{DB: client})
	quotations := NewQuotationService(QuotationServiceParams{DB: client})

	tenant := seedTenant(t, client, "invoices")
	user := seedUser(t, client, &tenant.ID, authz.RoleAccounts, "accounts@invoices.com", "secret123")
	ctx := identityCtx(authz.Identity{UserID: user.ID, Role: user.Role, TenantID: user.TenantID})

	draft, err := quotations.CreateQuotation(ctx, CreateQuotationRequest{
		Items: []QuotationItemInput{{Description: "x", Quantity: 1, Rate: decimal.NewFromInt(100)}},
	})
	require.NoError(t, err)

	_, err = service.CreateInvoice(ctx, CreateInvoiceRequest{QuotationID: draft.ID})
	assert.Error(t, err, "draft quotation must not be invoiceable")

	approved := seedApprovedQuotation(t, client, ctx)

	invoice, err := service.CreateInvoice(ctx, CreateInvoiceRequest{QuotationID: approved.ID})
	require.NoError(t, err)

	assert.Equal(t, approved.ID, invoice.QuotationID)
	assert.Equal(t, models.InvoiceStatusUnpaid, invoice.Status)
	assert.True(t, invoice.TotalAmount.Equal(approved.TotalAmount), "totals copied from quotation")
	assert.True(t, invoice.PaidAmount.IsZero())
	assert.NotEmpty(t, invoice.InvoiceNumber)
}

func TestAddPayment(t *testing.T) {
	client := newTestDB(t)
	service := NewInvoiceService(InvoiceServiceParams{DB: client})

	tenant := seedTenant(t, client, "payments")
	user := seedUser(t, client, &tenant.ID, authz.RoleAccounts, "accounts@payments.com", "secret123")
	ctx := identityCtx(authz.Identity{UserID: user.ID, Role: user.Role, TenantID: user.TenantID})

	approved := seedApprovedQuotation(t, client, ctx)
	invoice, err := service.CreateInvoice(ctx, CreateInvoiceRequest{QuotationID: approved.ID})
	require.NoError(t, err)

	// Total is 118000: 100000 + 18% tax.
	t.Run("non-positive amount rejected", func(t *testing.T) {
		_, _, err := service.AddPayment(ctx, invoice.ID, AddPaymentRequest{
			AmountPaid:  decimal.Zero,
			PaymentMode: models.PaymentModeCash,
		})
		assert.Error(t, err)
	})

	payment, updated, err := service.AddPayment(ctx, invoice.ID, AddPaymentRequest{
		AmountPaid:      decimal.NewFromInt(50000),
		PaymentMode:     models.PaymentModeUPI,
		ReferenceNumber: "UPI-1",
	})
	require.NoError(t, err)

	assert.Equal(t, user.ID, payment.ReceivedBy)
	assert.Equal(t, models.InvoiceStatusPartiallyPaid, updated.Status)
	assert.True(t, updated.PaidAmount.Equal(decimal.NewFromInt(50000)))

	_, updated, err = service.AddPayment(ctx, invoice.ID, AddPaymentRequest{
		AmountPaid:  decimal.NewFromInt(68000),
		PaymentMode: models.PaymentModeBankTransfer,
	})
	require.NoError(t, err)

	assert.Equal(t, models.InvoiceStatusPaid, updated.Status)
	assert.True(t, updated.PaidAmount.Equal(decimal.NewFromInt(118000)))

	t.Run("unknown invoice", func(t *testing.T) {
		_, _, err := service.AddPayment(ctx, "missing-id", AddPaymentRequest{
			AmountPaid:  decimal.NewFromInt(10),
			PaymentMode: models.PaymentModeCash,
		})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
