package biz

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/Ukvalley1218/bestkitchennet-backend/internal/models"
)

type SaleDashboardServiceParams struct {
	fx.In

	DB          *gorm.DB
	SaleService *SaleService
}

func NewSaleDashboardService(params SaleDashboardServiceParams) *SaleDashboardService {
	return &SaleDashboardService{
		AbstractService: &AbstractService{db: params.DB},
		SaleService:     params.SaleService,
		now:             time.Now,
	}
}

// SaleDashboardService computes the managerial views over orders. Items are
// stored as serialized JSON, so item-level rollups (top products) aggregate
// in memory rather than in SQL.
type SaleDashboardService struct {
	*AbstractService

	SaleService *SaleService

	now func() time.Time
}

type SaleDashboard struct {
	Summary          SaleOverallStats            `json:"summary"`
	StatusBreakdown  map[string]SaleGroupedStats `json:"statusBreakdown"`
	PaymentBreakdown map[string]SaleGroupedStats `json:"paymentBreakdown"`
	RecentSales      []*models.Sale              `json:"recentSales"`
}

// GetDashboard returns the aggregate summary plus the ten most recent orders.
func (s *SaleDashboardService) GetDashboard(ctx context.Context, filters SaleFilters) (*SaleDashboard, error) {
	sales, err := s.SaleService.ListSales(ctx, filters)
	if err != nil {
		return nil, err
	}

	dashboard := &SaleDashboard{
		StatusBreakdown:  map[string]SaleGroupedStats{},
		PaymentBreakdown: map[string]SaleGroupedStats{},
	}

	for _, sale := range sales {
		dashboard.Summary.TotalSales++
		dashboard.Summary.TotalRevenue = dashboard.Summary.TotalRevenue.Add(sale.TotalAmount)
		dashboard.Summary.TotalPaid = dashboard.Summary.TotalPaid.Add(sale.PaidAmount)
		dashboard.Summary.TotalPending = dashboard.Summary.TotalPending.Add(sale.BalanceAmount)

		byStatus := dashboard.StatusBreakdown[string(sale.Status)]
		byStatus.Count++
		byStatus.Total = byStatus.Total.Add(sale.TotalAmount)
		dashboard.StatusBreakdown[string(sale.Status)] = byStatus

		byPayment := dashboard.PaymentBreakdown[string(sale.PaymentStatus)]
		byPayment.Count++
		byPayment.Total = byPayment.Total.Add(sale.TotalAmount)
		dashboard.PaymentBreakdown[string(sale.PaymentStatus)] = byPayment
	}

	if dashboard.Summary.TotalSales > 0 {
		dashboard.Summary.AvgOrderValue = dashboard.Summary.TotalRevenue.
			Div(decimal.NewFromInt(dashboard.Summary.TotalSales)).Round(2)
	}

	// ListSales returns newest first.
	if len(sales) > 10 {
		sales = sales[:10]
	}

	dashboard.RecentSales = sales

	return dashboard, nil
}

type TrendPeriod string

const (
	TrendPeriodDaily   TrendPeriod = "daily"
	TrendPeriodWeekly  TrendPeriod = "weekly"
	TrendPeriodMonthly TrendPeriod = "monthly"
)

type SaleTrendPoint struct {
	Period        string          `json:"period"`
	Count         int64           `json:"count"`
	Revenue       decimal.Decimal `json:"revenue"`
	AvgOrderValue decimal.Decimal `json:"avgOrderValue"`
}

func trendBucket(period TrendPeriod, t time.Time) string {
	switch period {
	case TrendPeriodMonthly:
		return t.Format("2006-01")
	case TrendPeriodWeekly:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	default:
		return t.Format("2006-01-02")
	}
}

// GetTrends buckets orders by day, ISO week, or month.
func (s *SaleDashboardService) GetTrends(ctx context.Context, period TrendPeriod, filters SaleFilters) ([]SaleTrendPoint, error) {
	sales, err := s.SaleService.ListSales(ctx, filters)
	if err != nil {
		return nil, err
	}

	buckets := map[string]*SaleTrendPoint{}

	for _, sale := range sales {
		key := trendBucket(period, sale.OrderDate)

		point, ok := buckets[key]
		if !ok {
			point = &SaleTrendPoint{Period: key}
			buckets[key] = point
		}

		point.Count++
		point.Revenue = point.Revenue.Add(sale.TotalAmount)
	}

	trends := make([]SaleTrendPoint, 0, len(buckets))

	for _, point := range buckets {
		if point.Count > 0 {
			point.AvgOrderValue = point.Revenue.Div(decimal.NewFromInt(point.Count)).Round(2)
		}

		trends = append(trends, *point)
	}

	sort.Slice(trends, func(i, j int) bool { return trends[i].Period < trends[j].Period })

	return trends, nil
}

type ProductStats struct {
	ProductName   string          `json:"productName"`
	TotalQuantity int64           `json:"totalQuantity"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	SalesCount    int64           `json:"salesCount"`
}

// GetTopProducts ranks products by revenue across the tenant's orders.
func (s *SaleDashboardService) GetTopProducts(ctx context.Context, filters SaleFilters, limit int) ([]ProductStats, error) {
	if limit <= 0 {
		limit = 10
	}

	sales, err := s.SaleService.ListSales(ctx, filters)
	if err != nil {
		return nil, err
	}

	byProduct := map[string]*ProductStats{}

	for _, sale := range sales {
		for _, item := range sale.Items {
			stats, ok := byProduct[item.ProductName]
			if !ok {
				stats = &ProductStats{ProductName: item.ProductName}
				byProduct[item.ProductName] = stats
			}

			stats.TotalQuantity += int64(item.Quantity)
			stats.TotalRevenue = stats.TotalRevenue.Add(item.Amount)
			stats.SalesCount++
		}
	}

	products := make([]ProductStats, 0, len(byProduct))
	for _, stats := range byProduct {
		products = append(products, *stats)
	}

	sort.Slice(products, func(i, j int) bool {
		return products[i].TotalRevenue.GreaterThan(products[j].TotalRevenue)
	})

	if len(products) > limit {
		products = products[:limit]
	}

	return products, nil
}

type CustomerStats struct {
	CustomerID    string          `json:"customerId"`
	CustomerName  string          `json:"customerName"`
	TotalOrders   int64           `json:"totalOrders"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	TotalPaid     decimal.Decimal `json:"totalPaid"`
	AvgOrderValue decimal.Decimal `json:"avgOrderValue"`
}

// GetTopCustomers ranks customers by revenue.
func (s *SaleDashboardService) GetTopCustomers(ctx context.Context, filters SaleFilters, limit int) ([]CustomerStats, error) {
	if limit <= 0 {
		limit = 10
	}

	sales, err := s.SaleService.ListSales(ctx, filters)
	if err != nil {
		return nil, err
	}

	byCustomer := map[string]*CustomerStats{}

	for _, sale := range sales {
		stats, ok := byCustomer[sale.CustomerID]
		if !ok {
			stats = &CustomerStats{CustomerID: sale.CustomerID, CustomerName: sale.CustomerName}
			byCustomer[sale.CustomerID] = stats
		}

		stats.TotalOrders++
		stats.TotalRevenue = stats.TotalRevenue.Add(sale.TotalAmount)
		stats.TotalPaid = stats.TotalPaid.Add(sale.PaidAmount)
	}

	customers := make([]CustomerStats, 0, len(byCustomer))

	for _, stats := range byCustomer {
		if stats.TotalOrders > 0 {
			stats.AvgOrderValue = stats.TotalRevenue.Div(decimal.NewFromInt(stats.TotalOrders)).Round(2)
		}

		customers = append(customers, *stats)
	}

	sort.Slice(customers, func(i, j int) bool {
		return customers[i].TotalRevenue.GreaterThan(customers[j].TotalRevenue)
	})

	if len(customers) > limit {
		customers = customers[:limit]
	}

	return customers, nil
}

type RepPerformance struct {
	UserID         string          `json:"userId"`
	UserName       string          `json:"userName"`
	UserEmail      string          `json:"userEmail"`
	TotalSales     int64           `json:"totalSales"`
	TotalRevenue   decimal.Decimal `json:"totalRevenue"`
	AvgOrderValue  decimal.Decimal `json:"avgOrderValue"`
	DeliveredSales int64           `json:"deliveredSales"`
	ConversionRate decimal.Decimal `json:"conversionRate"`
}

// GetPerformance rolls orders up per assigned rep and resolves rep names.
func (s *SaleDashboardService) GetPerformance(ctx context.Context, filters SaleFilters) ([]RepPerformance, error) {
	sales, err := s.SaleService.ListSales(ctx, filters)
	if err != nil {
		return nil, err
	}

	byRep := map[string]*RepPerformance{}

	for _, sale := range sales {
		if sale.AssignedTo == nil {
			continue
		}

		perf, ok := byRep[*sale.AssignedTo]
		if !ok {
			perf = &RepPerformance{UserID: *sale.AssignedTo}
			byRep[*sale.AssignedTo] = perf
		}

		perf.TotalSales++
		perf.TotalRevenue = perf.TotalRevenue.Add(sale.TotalAmount)

		if sale.Status == models.SaleStatusDelivered {
			perf.DeliveredSales++
		}
	}

	if len(byRep) == 0 {
		return []RepPerformance{}, nil
	}

	userIDs := make([]string, 0, len(byRep))
	for id := range byRep {
		userIDs = append(userIDs, id)
	}

	var users []*models.User

	if err := s.dbFromContext(ctx).Where("id IN ?", userIDs).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve reps: %w", err)
	}

	for _, user := range users {
		if perf, ok := byRep[user.ID]; ok {
			perf.UserName = user.Name
			perf.UserEmail = user.Email
		}
	}

	hundred := decimal.NewFromInt(100)

	performance := make([]RepPerformance, 0, len(byRep))

	for _, perf := range byRep {
		if perf.TotalSales > 0 {
			total := decimal.NewFromInt(perf.TotalSales)
			perf.AvgOrderValue = perf.TotalRevenue.Div(total).Round(2)
			perf.ConversionRate = decimal.NewFromInt(perf.DeliveredSales).Div(total).Mul(hundred).Round(2)
		}

		performance = append(performance, *perf)
	}

	sort.Slice(performance, func(i, j int) bool {
		return performance[i].TotalRevenue.GreaterThan(performance[j].TotalRevenue)
	})

	return performance, nil
}

type PendingDeliveries struct {
	Overdue  []*models.Sale `json:"overdue"`
	Today    []*models.Sale `json:"today"`
	Upcoming []*models.Sale `json:"upcoming"`
}

// GetPendingDeliveries buckets undelivered confirmed orders by their expected
// delivery date relative to today.
func (s *SaleDashboardService) GetPendingDeliveries(ctx context.Context) (*PendingDeliveries, error) {
	var sales []*models.Sale

	err := s.scopedDBFromContext(ctx).
		Where("status IN ?", []models.SaleStatus{
			models.SaleStatusConfirmed,
			models.SaleStatusProcessing,
			models.SaleStatusShipped,
		}).
		Order("expected_delivery_date ASC").
		Find(&sales).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending deliveries: %w", err)
	}

	pending := &PendingDeliveries{
		Overdue:  []*models.Sale{},
		Today:    []*models.Sale{},
		Upcoming: []*models.Sale{},
	}

	now := s.now()
	today := now.Format("2006-01-02")

	for _, sale := range sales {
		switch {
		case sale.ExpectedDeliveryDate == nil:
			pending.Upcoming = append(pending.Upcoming, sale)
		case sale.ExpectedDeliveryDate.Format("2006-01-02") == today:
			pending.Today = append(pending.Today, sale)
		case sale.ExpectedDeliveryDate.Before(now):
			pending.Overdue = append(pending.Overdue, sale)
		default:
			pending.Upcoming = append(pending.Upcoming, sale)
		}
	}

	return pending, nil
}
