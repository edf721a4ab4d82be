package biz

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/Ukvalley1218/bestkitchennet-backend/internal/contexts"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/models"
)

type InvoiceServiceParams struct {
	fx.In

	DB *gorm.DB
}

func NewInvoiceService(params InvoiceServiceParams) *InvoiceService {
	return &InvoiceService{
		AbstractService: &AbstractService{db: params.DB},
		now:             time.Now,
	}
}

type InvoiceService struct {
	*AbstractService

	now func() time.Time
}

type CreateInvoiceRequest struct {
	QuotationID string     `json:"quotationId" binding:"required"`
	DueDate     *time.Time `json:"dueDate"`
}

func invoiceNumber(now time.Time) string {
	return fmt.Sprintf("INV-%d", now.UnixMilli())
}

// CreateInvoice materializes an invoice from an approved quotation. Items and
// totals are copied from the quotation, never taken from the request.
func (s *InvoiceService) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*models.Invoice, error) {
	identity, ok := contexts.GetIdentity(ctx)
	if !ok || identity.TenantID == nil {
		return nil, fmt.Errorf("%w: invoices require a tenant identity", ErrForbidden)
	}

	var quotation models.Quotation

	err := s.scopedDBFromContext(ctx).
		Where("id = ? AND status = ?", req.QuotationID, models.QuotationStatusApproved).
		First(&quotation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("quotation not approved or not found")
		}

		return nil, fmt.Errorf("failed to load quotation: %w", err)
	}

	customerID := ""
	if quotation.CustomerID != nil {
		customerID = *quotation.CustomerID
	}

	invoice := &models.Invoice{
		ID:            models.NewID(),
		TenantID:      *identity.TenantID,
		InvoiceNumber: invoiceNumber(s.now()),
		QuotationID:   quotation.ID,
		CustomerID:    customerID,
		Items:         quotation.Items,
		SubTotal:      quotation.SubTotal,
		TaxAmount:     quotation.TaxAmount,
		TotalAmount:   quotation.TotalAmount,
		PaidAmount:    decimal.Zero,
		Status:        models.InvoiceStatusUnpaid,
		DueDate:       req.DueDate,
		CreatedBy:     identity.UserID,
	}

	if err := s.dbFromContext(ctx).Create(invoice).Error; err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	return invoice, nil
}

// ListInvoices returns the tenant's invoices, newest first.
func (s *InvoiceService) ListInvoices(ctx context.Context) ([]*models.Invoice, error) {
	var invoices []*models.Invoice

	err := s.scopedDBFromContext(ctx).Order("created_at DESC").Find(&invoices).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	return invoices, nil
}

type AddPaymentRequest struct {
	AmountPaid      decimal.Decimal    `json:"amountPaid" binding:"required"`
	PaymentMode     models.PaymentMode `json:"paymentMode" binding:"required"`
	ReferenceNumber string             `json:"referenceNumber"`
}

// AddPayment records a payment against an invoice and rolls the paid amount
// and status forward, all in one transaction.
func (s *InvoiceService) AddPayment(ctx context.Context, invoiceID string, req AddPaymentRequest) (*models.Payment, *models.Invoice, error) {
	if req.AmountPaid.LessThanOrEqual(decimal.Zero) {
		return nil, nil, fmt.Errorf("payment amount must be positive")
	}

	identity, _ := contexts.GetIdentity(ctx)

	var (
		invoice models.Invoice
		payment *models.Payment
	)

	filter, _ := contexts.GetTenantFilter(ctx)

	err := s.dbFromContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := filter.Apply(tx).Where("id = ?", invoiceID).First(&invoice).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: invoice %s", ErrNotFound, invoiceID)
			}

			return err
		}

		payment = &models.Payment{
			ID:              models.NewID(),
			TenantID:        invoice.TenantID,
			InvoiceID:       invoice.ID,
			AmountPaid:      req.AmountPaid,
			PaymentMode:     req.PaymentMode,
			ReferenceNumber: req.ReferenceNumber,
			PaymentDate:     s.now(),
			ReceivedBy:      identity.UserID,
		}

		if err := tx.Create(payment).Error; err != nil {
			return err
		}

		invoice.PaidAmount = invoice.PaidAmount.Add(req.AmountPaid)

		if invoice.PaidAmount.GreaterThanOrEqual(invoice.TotalAmount) {
			invoice.Status = models.InvoiceStatusPaid
		} else {
			invoice.Status = models.InvoiceStatusPartiallyPaid
		}

		return tx.Model(&invoice).Updates(map[string]any{
			"paid_amount": invoice.PaidAmount,
			"status":      invoice.Status,
		}).Error
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to add payment: %w", err)
	}

	return payment, &invoice, nil
}
