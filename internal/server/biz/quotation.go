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

type QuotationServiceParams struct {
	fx.In

	DB *gorm.DB
}

func NewQuotationService(params QuotationServiceParams) *QuotationService {
	return &QuotationService{
		AbstractService: &AbstractService{db: params.DB},
		now:             time.Now,
	}
}

type QuotationService struct {
	*AbstractService

	now func() time.Time
}

type QuotationItemInput struct {
	Description string          `json:"description" binding:"required"`
	Quantity    int             `json:"quantity" binding:"required,gt=0"`
	Rate        decimal.Decimal `json:"rate" binding:"required"`
	TaxPercent  decimal.Decimal `json:"taxPercent"`
}

type CreateQuotationRequest struct {
	LeadID     *string              `json:"leadId"`
	CustomerID *string              `json:"customerId"`
	Items      []QuotationItemInput `json:"items" binding:"required,min=1"`
	ValidTill  *time.Time           `json:"validTill"`
}

func quoteNumber(now time.Time) string {
	return fmt.Sprintf("QT-%d", now.UnixMilli())
}

// computeTotals prices the line items server side. Client-supplied amounts
// are never trusted.
func computeTotals(inputs []QuotationItemInput) ([]models.LineItem, decimal.Decimal, decimal.Decimal) {
	items := make([]models.LineItem, 0, len(inputs))
	subTotal := decimal.Zero
	taxAmount := decimal.Zero

	hundred := decimal.NewFromInt(100)

	for _, in := range inputs {
		amount := in.Rate.Mul(decimal.NewFromInt(int64(in.Quantity)))

		items = append(items, models.LineItem{
			Description: in.Description,
			Quantity:    in.Quantity,
			Rate:        in.Rate,
			TaxPercent:  in.TaxPercent,
			Amount:      amount,
		})

		subTotal = subTotal.Add(amount)
		taxAmount = taxAmount.Add(amount.Mul(in.TaxPercent).Div(hundred))
	}

	return items, subTotal, taxAmount
}

// CreateQuotation prices the items and stores a draft quotation.
func (s *QuotationService) CreateQuotation(ctx context.Context, req CreateQuotationRequest) (*models.Quotation, error) {
	identity, ok := contexts.GetIdentity(ctx)
	if !ok || identity.TenantID == nil {
		return nil, fmt.Errorf("%w: quotations require a tenant identity", ErrForbidden)
	}

	items, subTotal, taxAmount := computeTotals(req.Items)

	quotation := &models.Quotation{
		ID:          models.NewID(),
		TenantID:    *identity.TenantID,
		QuoteNumber: quoteNumber(s.now()),
		LeadID:      req.LeadID,
		CustomerID:  req.CustomerID,
		Items:       items,
		SubTotal:    subTotal,
		TaxAmount:   taxAmount,
		TotalAmount: subTotal.Add(taxAmount),
		Status:      models.QuotationStatusDraft,
		ValidTill:   req.ValidTill,
		CreatedBy:   identity.UserID,
	}

	if err := s.dbFromContext(ctx).Create(quotation).Error; err != nil {
		return nil, fmt.Errorf("failed to create quotation: %w", err)
	}

	return quotation, nil
}

// ListQuotations returns the tenant's quotations, newest first.
func (s *QuotationService) ListQuotations(ctx context.Context) ([]*models.Quotation, error) {
	var quotations []*models.Quotation

	err := s.scopedDBFromContext(ctx).Order("created_at DESC").Find(&quotations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list quotations: %w", err)
	}

	return quotations, nil
}

// GetQuotation fetches a single quotation within the caller's tenant scope.
func (s *QuotationService) GetQuotation(ctx context.Context, id string) (*models.Quotation, error) {
	var quotation models.Quotation

	err := s.scopedDBFromContext(ctx).Where("id = ?", id).First(&quotation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: quotation %s", ErrNotFound, id)
		}

		return nil, fmt.Errorf("failed to get quotation: %w", err)
	}

	return &quotation, nil
}

var validQuotationStatuses = map[models.QuotationStatus]bool{
	models.QuotationStatusSent:     true,
	models.QuotationStatusApproved: true,
	models.QuotationStatusRejected: true,
}

// UpdateQuotationStatus transitions a quotation (send, approve, reject) and
// appends the transition to its approval log.
func (s *QuotationService) UpdateQuotationStatus(ctx context.Context, id string, status models.QuotationStatus) (*models.Quotation, error) {
	if !validQuotationStatuses[status] {
		return nil, fmt.Errorf("invalid quotation status %q", status)
	}

	quotation, err := s.GetQuotation(ctx, id)
	if err != nil {
		return nil, err
	}

	identity, _ := contexts.GetIdentity(ctx)

	quotation.Status = status
	quotation.ApprovalLog = append(quotation.ApprovalLog, models.ApprovalEntry{
		Action:    string(status),
		UserID:    identity.UserID,
		Timestamp: s.now(),
	})

	err = s.dbFromContext(ctx).Model(quotation).Updates(map[string]any{
		"status":       quotation.Status,
		"approval_log": quotation.ApprovalLog,
	}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to update quotation status: %w", err)
	}

	return quotation, nil
}
