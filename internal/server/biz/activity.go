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

type ActivityServiceParams struct {
	fx.In

	DB *gorm.DB
}

func NewActivityService(params ActivityServiceParams) *ActivityService {
	return &ActivityService{
		AbstractService: &AbstractService{db: params.DB},
		now:             time.Now,
	}
}

type ActivityService struct {
	*AbstractService

	now func() time.Time
}

type CreateActivityRequest struct {
	Type       models.ActivityType `json:"type" binding:"required"`
	LeadID     *string             `json:"leadId"`
	CustomerID *string             `json:"customerId"`
	AssignedTo string              `json:"assignedTo"`
	DueDate    *time.Time          `json:"dueDate"`
	Remarks    string              `json:"remarks"`
}

// CreateActivity records a call, meeting, follow-up, or note. Activities
// without an explicit assignee go to the creator.
func (s *ActivityService) CreateActivity(ctx context.Context, req CreateActivityRequest) (*models.Activity, error) {
	identity, ok := contexts.GetIdentity(ctx)
	if !ok || identity.TenantID == nil {
		return nil, fmt.Errorf("%w: activities require a tenant identity", ErrForbidden)
	}

	assignedTo := req.AssignedTo
	if assignedTo == "" {
		assignedTo = identity.UserID
	}

	activity := &models.Activity{
		ID:         models.NewID(),
		TenantID:   *identity.TenantID,
		Type:       req.Type,
		LeadID:     req.LeadID,
		CustomerID: req.CustomerID,
		AssignedTo: assignedTo,
		DueDate:    req.DueDate,
		Status:     models.ActivityStatusPending,
		Remarks:    req.Remarks,
		CreatedBy:  identity.UserID,
	}

	if err := s.dbFromContext(ctx).Create(activity).Error; err != nil {
		return nil, fmt.Errorf("failed to create activity: %w", err)
	}

	return activity, nil
}

// ListActivities returns activities ordered by due date. Sales executives
// only see their own.
func (s *ActivityService) ListActivities(ctx context.Context) ([]*models.Activity, error) {
	tx := s.scopedDBFromContext(ctx)

	if identity, ok := contexts.GetIdentity(ctx); ok && identity.Role == authz.RoleSales {
		tx = tx.Where("assigned_to = ?", identity.UserID)
	}

	var activities []*models.Activity

	if err := tx.Order("due_date ASC").Find(&activities).Error; err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}

	return activities, nil
}

// CompleteActivity marks an activity done and stamps the completion time.
func (s *ActivityService) CompleteActivity(ctx context.Context, id string) (*models.Activity, error) {
	var activity models.Activity

	err := s.scopedDBFromContext(ctx).Where("id = ?", id).First(&activity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: activity %s", ErrNotFound, id)
		}

		return nil, fmt.Errorf("failed to get activity: %w", err)
	}

	now := s.now()

	err = s.dbFromContext(ctx).Model(&activity).Updates(map[string]any{
		"status":       models.ActivityStatusCompleted,
		"completed_at": now,
	}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to complete activity: %w", err)
	}

	activity.CompletedAt = &now

	return &activity, nil
}
