package biz

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/Ukvalley1218/bestkitchennet-backend/internal/contexts"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/models"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/uploads"
)

type CampaignServiceParams struct {
	fx.In

	DB      *gorm.DB
	Uploads *uploads.Store
}

func NewCampaignService(params CampaignServiceParams) *CampaignService {
	return &CampaignService{
		AbstractService: &AbstractService{db: params.DB},
		uploads:         params.Uploads,
	}
}

type CampaignService struct {
	*AbstractService

	uploads *uploads.Store
}

type CreateCampaignRequest struct {
	Name           string                  `json:"name" binding:"required"`
	Type           models.CampaignType     `json:"type" binding:"required"`
	Category       models.CampaignCategory `json:"category"`
	Budget         decimal.Decimal         `json:"budget" binding:"required"`
	TargetAudience string                  `json:"targetAudience" binding:"required"`
	Description    string                  `json:"description"`
	StartDate      time.Time               `json:"startDate" binding:"required"`
	EndDate        time.Time               `json:"endDate" binding:"required"`
	Content        models.CampaignContent  `json:"content"`
	AssignedTo     *string                 `json:"assignedTo"`
}

// CreateCampaign records a draft campaign.
func (s *CampaignService) CreateCampaign(ctx context.Context, req CreateCampaignRequest) (*models.Campaign, error) {
	identity, ok := contexts.GetIdentity(ctx)
	if !ok || identity.TenantID == nil {
		return nil, fmt.Errorf("%w: campaigns require a tenant identity", ErrForbidden)
	}

	if req.EndDate.Before(req.StartDate) {
		return nil, fmt.Errorf("campaign end date must not precede start date")
	}

	category := req.Category
	if category == "" {
		category = models.CampaignCategoryLeadGeneration
	}

	campaign := &models.Campaign{
		ID:             models.NewID(),
		TenantID:       *identity.TenantID,
		Name:           req.Name,
		Type:           req.Type,
		Category:       category,
		Status:         models.CampaignStatusDraft,
		Budget:         req.Budget,
		TargetAudience: req.TargetAudience,
		Description:    req.Description,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		Content:        req.Content,
		AssignedTo:     req.AssignedTo,
		CreatedBy:      identity.UserID,
	}

	if err := s.dbFromContext(ctx).Create(campaign).Error; err != nil {
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}

	return campaign, nil
}

// CampaignFilters narrows and paginates campaign listings.
type CampaignFilters struct {
	Status    models.CampaignStatus   `form:"status"`
	Type      models.CampaignType     `form:"type"`
	Category  models.CampaignCategory `form:"category"`
	Search    string                  `form:"search"`
	StartDate *time.Time              `form:"startDate" time_format:"2006-01-02"`
	EndDate   *time.Time              `form:"endDate" time_format:"2006-01-02"`

	Page      int    `form:"page"`
	Limit     int    `form:"limit"`
	SortBy    string `form:"sortBy"`
	SortOrder string `form:"sortOrder"`
}

var campaignSortColumns = map[string]string{
	"createdAt":   "created_at",
	"name":        "name",
	"startDate":   "start_date",
	"endDate":     "end_date",
	"budget":      "budget",
	"spentAmount": "spent_amount",
}

func (f CampaignFilters) apply(tx *gorm.DB) *gorm.DB {
	if f.Status != "" {
		tx = tx.Where("status = ?", f.Status)
	}

	if f.Type != "" {
		tx = tx.Where("type = ?", f.Type)
	}

	if f.Category != "" {
		tx = tx.Where("category = ?", f.Category)
	}

	if f.Search != "" {
		pattern := "%" + strings.ToLower(f.Search) + "%"
		tx = tx.Where(
			"LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(target_audience) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	if f.StartDate != nil {
		tx = tx.Where("start_date >= ?", *f.StartDate)
	}

	if f.EndDate != nil {
		tx = tx.Where("start_date <= ?", *f.EndDate)
	}

	return tx
}

type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int64 `json:"totalPages"`
	PerPage      int   `json:"perPage"`
	TotalRecords int64 `json:"totalRecords"`
}

// ListCampaigns returns a filtered, paginated page of the tenant's campaigns.
func (s *CampaignService) ListCampaigns(ctx context.Context, filters CampaignFilters) ([]*models.Campaign, *Pagination, error) {
	page := filters.Page
	if page < 1 {
		page = 1
	}

	limit := filters.Limit
	if limit < 1 {
		limit = 10
	}

	column, ok := campaignSortColumns[filters.SortBy]
	if !ok {
		column = "created_at"
	}

	direction := "DESC"
	if strings.EqualFold(filters.SortOrder, "asc") {
		direction = "ASC"
	}

	base := filters.apply(s.scopedDBFromContext(ctx).Model(&models.Campaign{}))

	var total int64

	if err := base.Count(&total).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to count campaigns: %w", err)
	}

	var campaigns []*models.Campaign

	err := base.
		Order(column + " " + direction).
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&campaigns).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list campaigns: %w", err)
	}

	pagination := &Pagination{
		CurrentPage:  page,
		TotalPages:   (total + int64(limit) - 1) / int64(limit),
		PerPage:      limit,
		TotalRecords: total,
	}

	return campaigns, pagination, nil
}

// GetCampaign fetches a single campaign within the caller's tenant scope.
func (s *CampaignService) GetCampaign(ctx context.Context, id string) (*models.Campaign, error) {
	var campaign models.Campaign

	err := s.scopedDBFromContext(ctx).Where("id = ?", id).First(&campaign).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: campaign %s", ErrNotFound, id)
		}

		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}

	return &campaign, nil
}

type UpdateCampaignRequest struct {
	Name           *string                  `json:"name"`
	Type           *models.CampaignType     `json:"type"`
	Category       *models.CampaignCategory `json:"category"`
	Budget         *decimal.Decimal         `json:"budget"`
	TargetAudience *string                  `json:"targetAudience"`
	Description    *string                  `json:"description"`
	StartDate      *time.Time               `json:"startDate"`
	EndDate        *time.Time               `json:"endDate"`
	Content        *models.CampaignContent  `json:"content"`
}

// UpdateCampaign applies a partial update and stamps the modifier.
func (s *CampaignService) UpdateCampaign(ctx context.Context, id string, req UpdateCampaignRequest) (*models.Campaign, error) {
	campaign, err := s.GetCampaign(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		campaign.Name = *req.Name
	}

	if req.Type != nil {
		campaign.Type = *req.Type
	}

	if req.Category != nil {
		campaign.Category = *req.Category
	}

	if req.Budget != nil {
		campaign.Budget = *req.Budget
	}

	if req.TargetAudience != nil {
		campaign.TargetAudience = *req.TargetAudience
	}

	if req.Description != nil {
		campaign.Description = *req.Description
	}

	if req.StartDate != nil {
		campaign.StartDate = *req.StartDate
	}

	if req.EndDate != nil {
		campaign.EndDate = *req.EndDate
	}

	if req.Content != nil {
		campaign.Content = *req.Content
	}

	if campaign.EndDate.Before(campaign.StartDate) {
		return nil, fmt.Errorf("campaign end date must not precede start date")
	}

	identity, _ := contexts.GetIdentity(ctx)
	campaign.LastModifiedBy = &identity.UserID

	if err := s.dbFromContext(ctx).Save(campaign).Error; err != nil {
		return nil, fmt.Errorf("failed to update campaign: %w", err)
	}

	return campaign, nil
}

var validCampaignStatuses = map[models.CampaignStatus]bool{
	models.CampaignStatusDraft:     true,
	models.CampaignStatusActive:    true,
	models.CampaignStatusPaused:    true,
	models.CampaignStatusCompleted: true,
	models.CampaignStatusCancelled: true,
}

// UpdateCampaignStatus transitions a campaign between lifecycle states.
func (s *CampaignService) UpdateCampaignStatus(ctx context.Context, id string, status models.CampaignStatus) (*models.Campaign, error) {
	if !validCampaignStatuses[status] {
		return nil, fmt.Errorf("invalid campaign status %q", status)
	}

	campaign, err := s.GetCampaign(ctx, id)
	if err != nil {
		return nil, err
	}

	identity, _ := contexts.GetIdentity(ctx)

	campaign.Status = status
	campaign.LastModifiedBy = &identity.UserID

	if err := s.dbFromContext(ctx).Save(campaign).Error; err != nil {
		return nil, fmt.Errorf("failed to update campaign status: %w", err)
	}

	return campaign, nil
}

type UpdateCampaignMetricsRequest struct {
	Impressions    *int64           `json:"impressions"`
	Clicks         *int64           `json:"clicks"`
	Conversions    *int64           `json:"conversions"`
	LeadsGenerated *int64           `json:"leadsGenerated"`
	SpentAmount    *decimal.Decimal `json:"spentAmount"`
}

// UpdateCampaignMetrics records raw counters and spend, then recomputes the
// derived metrics (cost per click, cost per conversion, conversion rate, ROI)
// from them. Clients never set derived values directly.
func (s *CampaignService) UpdateCampaignMetrics(ctx context.Context, id string, req UpdateCampaignMetricsRequest) (*models.Campaign, error) {
	campaign, err := s.GetCampaign(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Impressions != nil {
		campaign.Metrics.Impressions = *req.Impressions
	}

	if req.Clicks != nil {
		campaign.Metrics.Clicks = *req.Clicks
	}

	if req.Conversions != nil {
		campaign.Metrics.Conversions = *req.Conversions
	}

	if req.LeadsGenerated != nil {
		campaign.Metrics.LeadsGenerated = *req.LeadsGenerated
	}

	if req.SpentAmount != nil {
		campaign.SpentAmount = *req.SpentAmount
	}

	recomputeCampaignMetrics(campaign)

	identity, _ := contexts.GetIdentity(ctx)
	campaign.LastModifiedBy = &identity.UserID

	if err := s.dbFromContext(ctx).Save(campaign).Error; err != nil {
		return nil, fmt.Errorf("failed to update campaign metrics: %w", err)
	}

	return campaign, nil
}

func recomputeCampaignMetrics(campaign *models.Campaign) {
	m := &campaign.Metrics
	hundred := decimal.NewFromInt(100)

	if m.Clicks > 0 {
		m.CostPerClick = campaign.SpentAmount.Div(decimal.NewFromInt(m.Clicks)).Round(2)
		m.ConversionRate = decimal.NewFromInt(m.Conversions).
			Div(decimal.NewFromInt(m.Clicks)).Mul(hundred).Round(2)
	} else {
		m.CostPerClick = decimal.Zero
		m.ConversionRate = decimal.Zero
	}

	if m.Conversions > 0 {
		m.CostPerConversion = campaign.SpentAmount.Div(decimal.NewFromInt(m.Conversions)).Round(2)
	} else {
		m.CostPerConversion = decimal.Zero
	}

	if campaign.SpentAmount.GreaterThan(decimal.Zero) {
		revenue := decimal.NewFromInt(m.Conversions).Mul(campaign.Budget)
		m.ROI = revenue.Sub(campaign.SpentAmount).Div(campaign.SpentAmount).Mul(hundred).Round(2)
	} else {
		m.ROI = decimal.Zero
	}
}

// AssignCampaign hands a campaign to a user.
func (s *CampaignService) AssignCampaign(ctx context.Context, id, userID string) (*models.Campaign, error) {
	campaign, err := s.GetCampaign(ctx, id)
	if err != nil {
		return nil, err
	}

	identity, _ := contexts.GetIdentity(ctx)

	campaign.AssignedTo = &userID
	campaign.LastModifiedBy = &identity.UserID

	if err := s.dbFromContext(ctx).Save(campaign).Error; err != nil {
		return nil, fmt.Errorf("failed to assign campaign: %w", err)
	}

	return campaign, nil
}

// AddLead attaches a lead to the campaign, ignoring duplicates, and bumps the
// generated-leads counter.
func (s *CampaignService) AddLead(ctx context.Context, id, leadID string) (*models.Campaign, error) {
	campaign, err := s.GetCampaign(ctx, id)
	if err != nil {
		return nil, err
	}

	if lo.Contains(campaign.LeadIDs, leadID) {
		return campaign, nil
	}

	identity, _ := contexts.GetIdentity(ctx)

	campaign.LeadIDs = append(campaign.LeadIDs, leadID)
	campaign.Metrics.LeadsGenerated++
	campaign.LastModifiedBy = &identity.UserID

	if err := s.dbFromContext(ctx).Save(campaign).Error; err != nil {
		return nil, fmt.Errorf("failed to add lead to campaign: %w", err)
	}

	return campaign, nil
}

var assetKinds = map[string]bool{"images": true, "videos": true}

// UploadAsset stores a creative file and attaches its key to the campaign
// content. Kind selects images or videos.
func (s *CampaignService) UploadAsset(ctx context.Context, id, kind, filename string, data []byte) (*models.Campaign, error) {
	if !assetKinds[kind] {
		return nil, fmt.Errorf("invalid asset kind %q", kind)
	}

	campaign, err := s.GetCampaign(ctx, id)
	if err != nil {
		return nil, err
	}

	name := fmt.Sprintf("campaign-%s-%s-%s", campaign.ID, kind, filename)

	stored, err := s.uploads.Save(ctx, campaign.TenantID, name, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to store campaign asset: %w", err)
	}

	if kind == "images" {
		campaign.Content.Images = append(campaign.Content.Images, stored)
	} else {
		campaign.Content.Videos = append(campaign.Content.Videos, stored)
	}

	identity, _ := contexts.GetIdentity(ctx)
	campaign.LastModifiedBy = &identity.UserID

	if err := s.dbFromContext(ctx).Save(campaign).Error; err != nil {
		return nil, fmt.Errorf("failed to attach campaign asset: %w", err)
	}

	return campaign, nil
}

// DeleteCampaign soft-deletes a campaign.
func (s *CampaignService) DeleteCampaign(ctx context.Context, id string) error {
	identity, _ := contexts.GetIdentity(ctx)

	result := s.scopedDBFromContext(ctx).
		Model(&models.Campaign{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"is_deleted":       1,
			"last_modified_by": identity.UserID,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to delete campaign: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: campaign %s", ErrNotFound, id)
	}

	return nil
}
