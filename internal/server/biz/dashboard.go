package biz

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/Ukvalley1218/bestkitchennet-backend/internal/authz"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/contexts"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/models"
)

type DashboardServiceParams struct {
	fx.In

	DB *gorm.DB
}

func NewDashboardService(params DashboardServiceParams) *DashboardService {
	return &DashboardService{
		AbstractService: &AbstractService{db: params.DB},
		now:             time.Now,
	}
}

// DashboardService computes the CRM overview KPIs. All of its queries are
// narrowed by role: sales executives only see records they created.
type DashboardService struct {
	*AbstractService

	now func() time.Time
}

// DashboardWindow bounds dashboard queries to a creation-date range. Zero
// values mean no bound.
type DashboardWindow struct {
	From *time.Time `form:"from" time_format:"2006-01-02"`
	To   *time.Time `form:"to" time_format:"2006-01-02"`
}

// narrowedDB composes the tenant filter, the role narrowing, and the date
// window into one query handle.
func (s *DashboardService) narrowedDB(ctx context.Context, window DashboardWindow) *gorm.DB {
	tx := s.scopedDBFromContext(ctx)

	if identity, ok := contexts.GetIdentity(ctx); ok && identity.Role == authz.RoleSales {
		tx = tx.Where("created_by = ?", identity.UserID)
	}

	if window.From != nil {
		tx = tx.Where("created_at >= ?", *window.From)
	}

	if window.To != nil {
		tx = tx.Where("created_at <= ?", *window.To)
	}

	return tx
}

type DashboardSummary struct {
	Leads       int64           `json:"leads"`
	Invoiced    decimal.Decimal `json:"invoiced"`
	Collected   decimal.Decimal `json:"collected"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

// GetSummary returns the headline KPIs: lead count, invoiced total, payments
// collected, and the outstanding balance.
func (s *DashboardService) GetSummary(ctx context.Context, window DashboardWindow) (*DashboardSummary, error) {
	summary := &DashboardSummary{}

	err := s.narrowedDB(ctx, window).Model(&models.Lead{}).Count(&summary.Leads).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count leads: %w", err)
	}

	var invoices []*models.Invoice

	if err := s.narrowedDB(ctx, window).Find(&invoices).Error; err != nil {
		return nil, fmt.Errorf("failed to load invoices: %w", err)
	}

	for _, invoice := range invoices {
		summary.Invoiced = summary.Invoiced.Add(invoice.TotalAmount)
	}

	var payments []*models.Payment

	tx := s.scopedDBFromContext(ctx)

	if window.From != nil {
		tx = tx.Where("created_at >= ?", *window.From)
	}

	if window.To != nil {
		tx = tx.Where("created_at <= ?", *window.To)
	}

	if err := tx.Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("failed to load payments: %w", err)
	}

	for _, payment := range payments {
		summary.Collected = summary.Collected.Add(payment.AmountPaid)
	}

	summary.Outstanding = summary.Invoiced.Sub(summary.Collected)

	return summary, nil
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// GetLeadsBreakdown groups the visible leads by status.
func (s *DashboardService) GetLeadsBreakdown(ctx context.Context, window DashboardWindow) ([]StatusCount, error) {
	var breakdown []StatusCount

	err := s.narrowedDB(ctx, window).
		Model(&models.Lead{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&breakdown).Error
	if err != nil {
		return nil, fmt.Errorf("failed to group leads by status: %w", err)
	}

	return breakdown, nil
}

type FollowupsBreakdown struct {
	Overdue  int64 `json:"overdue"`
	Upcoming int64 `json:"upcoming"`
}

// GetFollowupsBreakdown splits scheduled follow-ups into overdue and
// upcoming.
func (s *DashboardService) GetFollowupsBreakdown(ctx context.Context, window DashboardWindow) (*FollowupsBreakdown, error) {
	breakdown := &FollowupsBreakdown{}
	now := s.now()

	err := s.narrowedDB(ctx, window).
		Model(&models.Lead{}).
		Where("next_follow_up_date IS NOT NULL AND next_follow_up_date < ?", now).
		Count(&breakdown.Overdue).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count overdue followups: %w", err)
	}

	err = s.narrowedDB(ctx, window).
		Model(&models.Lead{}).
		Where("next_follow_up_date IS NOT NULL AND next_follow_up_date >= ?", now).
		Count(&breakdown.Upcoming).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count upcoming followups: %w", err)
	}

	return breakdown, nil
}

type RevenueByStatus struct {
	Status string          `json:"status"`
	Amount decimal.Decimal `json:"amount"`
}

// GetRevenueBreakdown groups invoiced amounts by invoice status.
func (s *DashboardService) GetRevenueBreakdown(ctx context.Context, window DashboardWindow) ([]RevenueByStatus, error) {
	var invoices []*models.Invoice

	if err := s.narrowedDB(ctx, window).Find(&invoices).Error; err != nil {
		return nil, fmt.Errorf("failed to load invoices: %w", err)
	}

	byStatus := map[string]decimal.Decimal{}

	for _, invoice := range invoices {
		byStatus[string(invoice.Status)] = byStatus[string(invoice.Status)].Add(invoice.TotalAmount)
	}

	breakdown := make([]RevenueByStatus, 0, len(byStatus))
	for status, amount := range byStatus {
		breakdown = append(breakdown, RevenueByStatus{Status: status, Amount: amount})
	}

	return breakdown, nil
}

type TeamMemberLeads struct {
	UserID string `json:"userId"`
	Leads  int64  `json:"leads"`
}

// GetTeamBreakdown counts leads created per team member.
func (s *DashboardService) GetTeamBreakdown(ctx context.Context, window DashboardWindow) ([]TeamMemberLeads, error) {
	var breakdown []TeamMemberLeads

	err := s.narrowedDB(ctx, window).
		Model(&models.Lead{}).
		Select("created_by as user_id, COUNT(*) as leads").
		Group("created_by").
		Scan(&breakdown).Error
	if err != nil {
		return nil, fmt.Errorf("failed to group leads by creator: %w", err)
	}

	return breakdown, nil
}
