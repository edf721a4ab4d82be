package biz

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/Ukvalley1218/bestkitchennet-backend/internal/authz"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/contexts"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/models"
)

type SaleServiceParams struct {
	fx.In

	DB *gorm.DB
}

func NewSaleService(params SaleServiceParams) *SaleService {
	return &SaleService{
		AbstractService: &AbstractService{db: params.DB},
		now:             time.Now,
	}
}

type SaleService struct {
	*AbstractService

	now func() time.Time
}

type SaleItemInput struct {
	ProductName string          `json:"productName" binding:"required"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity" binding:"required,gt=0"`
	Rate        decimal.Decimal `json:"rate" binding:"required"`
	TaxPercent  decimal.Decimal `json:"taxPercent"`
	Discount    decimal.Decimal `json:"discount"`
}

// computeSaleTotals prices the sale lines: tax applies to the discounted
// subtotal of each line.
func computeSaleTotals(inputs []SaleItemInput) ([]models.SaleItem, models.SaleTotals) {
	items := make([]models.SaleItem, 0, len(inputs))

	var totals models.SaleTotals

	hundred := decimal.NewFromInt(100)

	for _, in := range inputs {
		lineSubTotal := in.Rate.Mul(decimal.NewFromInt(int64(in.Quantity)))
		lineTax := lineSubTotal.Sub(in.Discount).Mul(in.TaxPercent).Div(hundred)
		lineTotal := lineSubTotal.Sub(in.Discount).Add(lineTax)

		items = append(items, models.SaleItem{
			ProductName: in.ProductName,
			Description: in.Description,
			Quantity:    in.Quantity,
			Rate:        in.Rate,
			TaxPercent:  in.TaxPercent,
			Discount:    in.Discount,
			Amount:      lineTotal,
		})

		totals.SubTotal = totals.SubTotal.Add(lineSubTotal)
		totals.DiscountAmount = totals.DiscountAmount.Add(in.Discount)
		totals.TaxAmount = totals.TaxAmount.Add(lineTax)
	}

	totals.TotalAmount = totals.SubTotal.Sub(totals.DiscountAmount).Add(totals.TaxAmount)

	return items, totals
}

type CreateSaleRequest struct {
	CustomerID      string `json:"customerId" binding:"required"`
	CustomerName    string `json:"customerName" binding:"required"`
	CustomerPhone   string `json:"customerPhone"`
	CustomerEmail   string `json:"customerEmail"`
	CustomerAddress string `json:"customerAddress"`

	Items []SaleItemInput `json:"items" binding:"required,min=1"`

	PaidAmount  decimal.Decimal     `json:"paidAmount"`
	PaymentMode *models.PaymentMode `json:"paymentMode"`

	ExpectedDeliveryDate *time.Time          `json:"expectedDeliveryDate"`
	AssignedTo           *string             `json:"assignedTo"`
	Notes                string              `json:"notes"`
	Source               models.SaleSource   `json:"source"`
	Priority             models.SalePriority `json:"priority"`
	QuotationID          *string             `json:"quotationId"`
}

// CreateSale prices the items and records a pending order.
func (s *SaleService) CreateSale(ctx context.Context, req CreateSaleRequest) (*models.Sale, error) {
	identity, ok := contexts.GetIdentity(ctx)
	if !ok || identity.TenantID == nil {
		return nil, fmt.Errorf("%w: sales require a tenant identity", ErrForbidden)
	}

	items, totals := computeSaleTotals(req.Items)

	sale := &models.Sale{
		ID:       models.NewID(),
		TenantID: *identity.TenantID,

		CustomerID:      req.CustomerID,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerEmail:   req.CustomerEmail,
		CustomerAddress: req.CustomerAddress,

		Items:          items,
		SubTotal:       totals.SubTotal,
		TaxAmount:      totals.TaxAmount,
		DiscountAmount: totals.DiscountAmount,
		TotalAmount:    totals.TotalAmount,
		PaidAmount:     req.PaidAmount,

		Status:               models.SaleStatusPending,
		OrderDate:            s.now(),
		ExpectedDeliveryDate: req.ExpectedDeliveryDate,

		AssignedTo:  req.AssignedTo,
		Notes:       req.Notes,
		QuotationID: req.QuotationID,
		Source:      req.Source,
		Priority:    req.Priority,

		CreatedBy: identity.UserID,
	}

	if req.PaymentMode != nil {
		sale.PaymentMode = *req.PaymentMode
	}

	sale.PaymentStatus = paymentStatusFor(sale.PaidAmount, sale.TotalAmount)

	if err := s.dbFromContext(ctx).Create(sale).Error; err != nil {
		return nil, fmt.Errorf("failed to create sale: %w", err)
	}

	return sale, nil
}

func paymentStatusFor(paid, total decimal.Decimal) models.InvoiceStatus {
	switch {
	case total.GreaterThan(decimal.Zero) && paid.GreaterThanOrEqual(total):
		return models.InvoiceStatusPaid
	case paid.GreaterThan(decimal.Zero):
		return models.InvoiceStatusPartiallyPaid
	default:
		return models.InvoiceStatusUnpaid
	}
}

// SaleFilters narrows sale listings. Zero values mean no constraint.
type SaleFilters struct {
	Status        models.SaleStatus    `form:"status"`
	PaymentStatus models.InvoiceStatus `form:"paymentStatus"`
	CustomerID    string               `form:"customerId"`
	AssignedTo    string               `form:"assignedTo"`
	StartDate     *time.Time           `form:"startDate" time_format:"2006-01-02"`
	EndDate       *time.Time           `form:"endDate" time_format:"2006-01-02"`
}

func (f SaleFilters) apply(tx *gorm.DB) *gorm.DB {
	if f.Status != "" {
		tx = tx.Where("status = ?", f.Status)
	}

	if f.PaymentStatus != "" {
		tx = tx.Where("payment_status = ?", f.PaymentStatus)
	}

	if f.CustomerID != "" {
		tx = tx.Where("customer_id = ?", f.CustomerID)
	}

	if f.AssignedTo != "" {
		tx = tx.Where("assigned_to = ?", f.AssignedTo)
	}

	if f.StartDate != nil {
		tx = tx.Where("order_date >= ?", *f.StartDate)
	}

	if f.EndDate != nil {
		tx = tx.Where("order_date <= ?", *f.EndDate)
	}

	return tx
}

// ListSales returns the tenant's sales, newest first. Sales executives only
// see orders assigned to them, regardless of the requested filters.
func (s *SaleService) ListSales(ctx context.Context, filters SaleFilters) ([]*models.Sale, error) {
	if identity, ok := contexts.GetIdentity(ctx); ok && identity.Role == authz.RoleSales {
		filters.AssignedTo = identity.UserID
	}

	var sales []*models.Sale

	err := filters.apply(s.scopedDBFromContext(ctx)).Order("created_at DESC").Find(&sales).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}

	return sales, nil
}

// GetSale fetches a single sale within the caller's tenant scope.
func (s *SaleService) GetSale(ctx context.Context, id string) (*models.Sale, error) {
	var sale models.Sale

	err := s.scopedDBFromContext(ctx).Where("id = ?", id).First(&sale).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: sale %s", ErrNotFound, id)
		}

		return nil, fmt.Errorf("failed to get sale: %w", err)
	}

	return &sale, nil
}

type UpdateSaleRequest struct {
	CustomerName    *string `json:"customerName"`
	CustomerPhone   *string `json:"customerPhone"`
	CustomerEmail   *string `json:"customerEmail"`
	CustomerAddress *string `json:"customerAddress"`

	Items []SaleItemInput `json:"items"`

	ExpectedDeliveryDate *time.Time           `json:"expectedDeliveryDate"`
	Notes                *string              `json:"notes"`
	Remarks              *string              `json:"remarks"`
	Priority             *models.SalePriority `json:"priority"`
}

// UpdateSale applies a partial update. When items change the totals are
// recomputed, so the balance stays consistent with the paid amount.
func (s *SaleService) UpdateSale(ctx context.Context, id string, req UpdateSaleRequest) (*models.Sale, error) {
	sale, err := s.GetSale(ctx, id)
	if err != nil {
		return nil, err
	}

	identity, _ := contexts.GetIdentity(ctx)

	if req.CustomerName != nil {
		sale.CustomerName = *req.CustomerName
	}

	if req.CustomerPhone != nil {
		sale.CustomerPhone = *req.CustomerPhone
	}

	if req.CustomerEmail != nil {
		sale.CustomerEmail = *req.CustomerEmail
	}

	if req.CustomerAddress != nil {
		sale.CustomerAddress = *req.CustomerAddress
	}

	if req.ExpectedDeliveryDate != nil {
		sale.ExpectedDeliveryDate = req.ExpectedDeliveryDate
	}

	if req.Notes != nil {
		sale.Notes = *req.Notes
	}

	if req.Remarks != nil {
		sale.Remarks = *req.Remarks
	}

	if req.Priority != nil {
		sale.Priority = *req.Priority
	}

	if len(req.Items) > 0 {
		items, totals := computeSaleTotals(req.Items)
		sale.Items = items
		sale.SubTotal = totals.SubTotal
		sale.TaxAmount = totals.TaxAmount
		sale.DiscountAmount = totals.DiscountAmount
		sale.TotalAmount = totals.TotalAmount
		sale.PaymentStatus = paymentStatusFor(sale.PaidAmount, sale.TotalAmount)
	}

	sale.UpdatedBy = &identity.UserID

	if err := s.dbFromContext(ctx).Save(sale).Error; err != nil {
		return nil, fmt.Errorf("failed to update sale: %w", err)
	}

	return sale, nil
}

var validSaleStatuses = map[models.SaleStatus]bool{
	models.SaleStatusPending:    true,
	models.SaleStatusConfirmed:  true,
	models.SaleStatusProcessing: true,
	models.SaleStatusShipped:    true,
	models.SaleStatusDelivered:  true,
	models.SaleStatusCancelled:  true,
}

// UpdateSaleStatus moves an order through fulfilment. Delivered orders get
// their actual delivery date stamped.
func (s *SaleService) UpdateSaleStatus(ctx context.Context, id string, status models.SaleStatus) (*models.Sale, error) {
	if !validSaleStatuses[status] {
		return nil, fmt.Errorf("invalid sale status %q", status)
	}

	sale, err := s.GetSale(ctx, id)
	if err != nil {
		return nil, err
	}

	if status == models.SaleStatusCancelled {
		if err := canCancelSale(sale); err != nil {
			return nil, err
		}
	}

	identity, _ := contexts.GetIdentity(ctx)

	sale.Status = status
	sale.UpdatedBy = &identity.UserID

	if status == models.SaleStatusDelivered {
		now := s.now()
		sale.ActualDeliveryDate = &now
	}

	if err := s.dbFromContext(ctx).Save(sale).Error; err != nil {
		return nil, fmt.Errorf("failed to update sale status: %w", err)
	}

	return sale, nil
}

// canCancelSale rejects cancellations that would strand goods or money.
func canCancelSale(sale *models.Sale) error {
	switch {
	case sale.Status == models.SaleStatusCancelled:
		return fmt.Errorf("sale is already cancelled")
	case sale.Status == models.SaleStatusDelivered:
		return fmt.Errorf("cannot cancel delivered sale")
	case sale.PaymentStatus == models.InvoiceStatusPaid:
		return fmt.Errorf("cannot cancel fully paid sale, process refund first")
	default:
		return nil
	}
}

type UpdateSalePaymentRequest struct {
	PaidAmount  decimal.Decimal     `json:"paidAmount" binding:"required"`
	PaymentMode *models.PaymentMode `json:"paymentMode"`
}

// UpdateSalePayment adds a payment to an order and rolls the balance and
// payment status forward.
func (s *SaleService) UpdateSalePayment(ctx context.Context, id string, req UpdateSalePaymentRequest) (*models.Sale, error) {
	if req.PaidAmount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("payment amount must be positive")
	}

	sale, err := s.GetSale(ctx, id)
	if err != nil {
		return nil, err
	}

	identity, _ := contexts.GetIdentity(ctx)

	sale.PaidAmount = sale.PaidAmount.Add(req.PaidAmount)
	sale.PaymentStatus = paymentStatusFor(sale.PaidAmount, sale.TotalAmount)

	if req.PaymentMode != nil {
		sale.PaymentMode = *req.PaymentMode
	}

	sale.UpdatedBy = &identity.UserID

	if err := s.dbFromContext(ctx).Save(sale).Error; err != nil {
		return nil, fmt.Errorf("failed to update sale payment: %w", err)
	}

	return sale, nil
}

// AssignSale hands an order to a user.
func (s *SaleService) AssignSale(ctx context.Context, id, userID string) (*models.Sale, error) {
	sale, err := s.GetSale(ctx, id)
	if err != nil {
		return nil, err
	}

	identity, _ := contexts.GetIdentity(ctx)

	sale.AssignedTo = &userID
	sale.UpdatedBy = &identity.UserID

	if err := s.dbFromContext(ctx).Save(sale).Error; err != nil {
		return nil, fmt.Errorf("failed to assign sale: %w", err)
	}

	return sale, nil
}

// DeleteSale soft-deletes an order.
func (s *SaleService) DeleteSale(ctx context.Context, id string) error {
	result := s.scopedDBFromContext(ctx).Where("id = ?", id).Delete(&models.Sale{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete sale: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: sale %s", ErrNotFound, id)
	}

	return nil
}

// SaleStats is the aggregate view behind the stats endpoint.
type SaleStats struct {
	Overall         SaleOverallStats            `json:"overall"`
	ByStatus        map[string]SaleGroupedStats `json:"byStatus"`
	ByPaymentStatus map[string]SaleGroupedStats `json:"byPaymentStatus"`
}

type SaleOverallStats struct {
	TotalSales    int64           `json:"totalSales"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	TotalPaid     decimal.Decimal `json:"totalPaid"`
	TotalPending  decimal.Decimal `json:"totalPending"`
	AvgOrderValue decimal.Decimal `json:"avgOrderValue"`
}

type SaleGroupedStats struct {
	Count int64           `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// GetSaleStats aggregates the tenant's orders over an optional date window.
func (s *SaleService) GetSaleStats(ctx context.Context, startDate, endDate *time.Time) (*SaleStats, error) {
	filters := SaleFilters{StartDate: startDate, EndDate: endDate}

	var sales []*models.Sale

	err := filters.apply(s.scopedDBFromContext(ctx)).Find(&sales).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load sales for stats: %w", err)
	}

	stats := &SaleStats{
		ByStatus:        map[string]SaleGroupedStats{},
		ByPaymentStatus: map[string]SaleGroupedStats{},
	}

	for _, sale := range sales {
		stats.Overall.TotalSales++
		stats.Overall.TotalRevenue = stats.Overall.TotalRevenue.Add(sale.TotalAmount)
		stats.Overall.TotalPaid = stats.Overall.TotalPaid.Add(sale.PaidAmount)
		stats.Overall.TotalPending = stats.Overall.TotalPending.Add(sale.BalanceAmount)

		byStatus := stats.ByStatus[string(sale.Status)]
		byStatus.Count++
		byStatus.Total = byStatus.Total.Add(sale.TotalAmount)
		stats.ByStatus[string(sale.Status)] = byStatus

		byPayment := stats.ByPaymentStatus[string(sale.PaymentStatus)]
		byPayment.Count++
		byPayment.Total = byPayment.Total.Add(sale.TotalAmount)
		stats.ByPaymentStatus[string(sale.PaymentStatus)] = byPayment
	}

	if stats.Overall.TotalSales > 0 {
		stats.Overall.AvgOrderValue = stats.Overall.TotalRevenue.
			Div(decimal.NewFromInt(stats.Overall.TotalSales)).Round(2)
	}

	return stats, nil
}
