package biz

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/Ukvalley1218/bestkitchennet-backend/internal/authz"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/contexts"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/models"
)

type LeadServiceParams struct {
	fx.In

	DB *gorm.DB
}

func NewLeadService(params LeadServiceParams) *LeadService {
	return &LeadService{
		AbstractService: &AbstractService{db: params.DB},
	}
}

type LeadService struct {
	*AbstractService
}

type CreateLeadRequest struct {
	Name     string            `json:"name" binding:"required"`
	Email    string            `json:"email"`
	Phone    string            `json:"phone"`
	Source   models.LeadSource `json:"source"`
	LeadType models.LeadType   `json:"leadType"`
	Remarks  string            `json:"remarks"`
}

// CreateLead records a new lead in the caller's tenant.
func (s *LeadService) CreateLead(ctx context.Context, req CreateLeadRequest) (*models.Lead, error) {
	identity, ok := contexts.GetIdentity(ctx)
	if !ok || identity.TenantID == nil {
		return nil, fmt.Errorf("%w: leads require a tenant identity", ErrForbidden)
	}

	source := req.Source
	if source == "" {
		source = models.LeadSourceManual
	}

	leadType := req.LeadType
	if leadType == "" {
		leadType = models.LeadTypeWarm
	}

	lead := &models.Lead{
		ID:        models.NewID(),
		TenantID:  *identity.TenantID,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Source:    source,
		LeadType:  leadType,
		Status:    models.LeadStatusNew,
		Remarks:   req.Remarks,
		CreatedBy: identity.UserID,
	}

	if err := s.dbFromContext(ctx).Create(lead).Error; err != nil {
		return nil, fmt.Errorf("failed to create lead: %w", err)
	}

	return lead, nil
}

// ListLeads returns the tenant's leads, newest first. Sales executives only
// see leads assigned to them.
func (s *LeadService) ListLeads(ctx context.Context) ([]*models.Lead, error) {
	tx := s.scopedDBFromContext(ctx)

	if identity, ok := contexts.GetIdentity(ctx); ok && identity.Role == authz.RoleSales {
		tx = tx.Where("assigned_to = ?", identity.UserID)
	}

	var leads []*models.Lead

	if err := tx.Order("created_at DESC").Find(&leads).Error; err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}

	return leads, nil
}

// GetLead fetches a single lead within the caller's tenant scope.
func (s *LeadService) GetLead(ctx context.Context, id string) (*models.Lead, error) {
	var lead models.Lead

	err := s.scopedDBFromContext(ctx).Where("id = ?", id).First(&lead).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: lead %s", ErrNotFound, id)
		}

		return nil, fmt.Errorf("failed to get lead: %w", err)
	}

	return &lead, nil
}

// AssignLead hands a lead to a user and marks it contacted.
func (s *LeadService) AssignLead(ctx context.Context, id, userID string) (*models.Lead, error) {
	lead, err := s.GetLead(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.dbFromContext(ctx).Model(lead).Updates(map[string]any{
		"assigned_to": userID,
		"status":      models.LeadStatusContacted,
	}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to assign lead: %w", err)
	}

	return lead, nil
}

var validLeadStatuses = map[models.LeadStatus]bool{
	models.LeadStatusNew:        true,
	models.LeadStatusContacted:  true,
	models.LeadStatusQuoted:     true,
	models.LeadStatusClosedWon:  true,
	models.LeadStatusClosedLost: true,
}

// UpdateLeadStatus moves a lead along the CRM pipeline.
func (s *LeadService) UpdateLeadStatus(ctx context.Context, id string, status models.LeadStatus) (*models.Lead, error) {
	if !validLeadStatuses[status] {
		return nil, fmt.Errorf("invalid lead status %q", status)
	}

	lead, err := s.GetLead(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.dbFromContext(ctx).Model(lead).Update("status", status).Error
	if err != nil {
		return nil, fmt.Errorf("failed to update lead status: %w", err)
	}

	return lead, nil
}

// UpdateLeadStage moves a lead along the telecalling pipeline and optionally
// schedules the next follow-up.
func (s *LeadService) UpdateLeadStage(ctx context.Context, id string, stage models.LeadStage, nextFollowUp *time.Time) (*models.Lead, error) {
	lead, err := s.GetLead(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{"stage": stage}
	if nextFollowUp != nil {
		updates["next_follow_up_date"] = *nextFollowUp
	}

	err = s.dbFromContext(ctx).Model(lead).Updates(updates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to update lead stage: %w", err)
	}

	return lead, nil
}
