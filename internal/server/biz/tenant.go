package biz

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/Ukvalley1218/bestkitchennet-backend/internal/authz"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/log"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/models"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/pkg/xcache"
)

type TenantServiceParams struct {
	fx.In

	DB    *gorm.DB
	Cache xcache.Cache[*models.Tenant] `optional:"true"`
}

func NewTenantService(params TenantServiceParams) *TenantService {
	cache := params.Cache
	if cache == nil {
		cache = xcache.NewNoop[*models.Tenant]()
	}

	return &TenantService{
		AbstractService: &AbstractService{db: params.DB},
		cache:           cache,
	}
}

// TenantService manages companies. All of its operations are platform-only;
// the role gate restricts them to super admins before they are reached.
type TenantService struct {
	*AbstractService

	cache xcache.Cache[*models.Tenant]
}

type CreateCompanyRequest struct {
	Name  string            `json:"name" binding:"required"`
	Slug  string            `json:"slug" binding:"required"`
	Email string            `json:"email" binding:"required,email"`
	Phone string            `json:"phone"`
	Plan  models.TenantPlan `json:"plan"`

	CEOName     string `json:"ceoName" binding:"required"`
	CEOEmail    string `json:"ceoEmail" binding:"required,email"`
	CEOPassword string `json:"ceoPassword" binding:"required,min=6"`
}

type Company struct {
	Tenant *models.Tenant `json:"tenant"`
	CEO    *models.User   `json:"ceo"`
}

// CreateCompanyWithCEO provisions a tenant together with its first user, a
// CEO account, in one transaction. Either both rows land or neither does.
func (s *TenantService) CreateCompanyWithCEO(ctx context.Context, req CreateCompanyRequest) (*Company, error) {
	plan := req.Plan
	if plan == "" {
		plan = models.TenantPlanTrial
	}

	hashed, err := HashPassword(req.CEOPassword)
	if err != nil {
		return nil, err
	}

	tenant := &models.Tenant{
		ID:     models.NewID(),
		Name:   req.Name,
		Slug:   strings.ToLower(strings.TrimSpace(req.Slug)),
		Email:  strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:  req.Phone,
		Plan:   plan,
		Status: models.TenantStatusActive,
	}

	ceo := &models.User{
		ID:       models.NewID(),
		TenantID: &tenant.ID,
		Name:     req.CEOName,
		Email:    strings.ToLower(strings.TrimSpace(req.CEOEmail)),
		Password: hashed,
		Role:     authz.RoleCEO,
		Status:   models.UserStatusActive,
	}

	err = s.dbFromContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64

		if err := tx.Model(&models.Tenant{}).Where("slug = ?", tenant.Slug).Count(&count).Error; err != nil {
			return err
		}

		if count > 0 {
			return fmt.Errorf("company with slug %s already exists", tenant.Slug)
		}

		if err := tx.Create(tenant).Error; err != nil {
			return err
		}

		return tx.Create(ceo).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}

	return &Company{Tenant: tenant, CEO: ceo}, nil
}

// ListCompanies returns all tenants, newest first.
func (s *TenantService) ListCompanies(ctx context.Context) ([]*models.Tenant, error) {
	var tenants []*models.Tenant

	err := s.dbFromContext(ctx).Order("created_at DESC").Find(&tenants).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}

	return tenants, nil
}

func tenantCacheKey(id string) string {
	return "tenant:" + id
}

// GetTenant fetches a tenant, served from cache when possible. Tenant rows
// change rarely, so short-lived staleness here is acceptable; identity
// records are never cached this way.
func (s *TenantService) GetTenant(ctx context.Context, id string) (*models.Tenant, error) {
	if tenant, err := s.cache.Get(ctx, tenantCacheKey(id)); err == nil && tenant != nil {
		return tenant, nil
	}

	var tenant models.Tenant

	err := s.dbFromContext(ctx).Where("id = ?", id).First(&tenant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: tenant %s", ErrNotFound, id)
		}

		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	if err := s.cache.Set(ctx, tenantCacheKey(id), &tenant); err != nil {
		log.Debug(ctx, "failed to cache tenant", log.Cause(err))
	}

	return &tenant, nil
}

// UpdateCompanyStatus flips a tenant between active and suspended, cascading
// to its users so suspended companies lose access on their next request:
// suspending blocks every user, reactivating unblocks them.
func (s *TenantService) UpdateCompanyStatus(ctx context.Context, id string, status models.TenantStatus) (*models.Tenant, error) {
	if status != models.TenantStatusActive && status != models.TenantStatusSuspended {
		return nil, fmt.Errorf("unsupported company status %q", status)
	}

	var tenant models.Tenant

	err := s.dbFromContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&tenant).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: tenant %s", ErrNotFound, id)
			}

			return err
		}

		if err := tx.Model(&tenant).Update("status", status).Error; err != nil {
			return err
		}

		userStatus := models.UserStatusActive
		if status == models.TenantStatusSuspended {
			userStatus = models.UserStatusBlocked
		}

		return tx.Model(&models.User{}).
			Where("tenant_id = ?", id).
			Update("status", userStatus).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update company status: %w", err)
	}

	_ = s.cache.Delete(ctx, tenantCacheKey(id))

	return &tenant, nil
}
