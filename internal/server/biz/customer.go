package biz

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/Ukvalley1218/bestkitchennet-backend/internal/contexts"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/models"
)

type CustomerServiceParams struct {
	fx.In

	DB          *gorm.DB
	LeadService *LeadService
}

func NewCustomerService(params CustomerServiceParams) *CustomerService {
	return &CustomerService{
		AbstractService: &AbstractService{db: params.DB},
		LeadService:     params.LeadService,
	}
}

type CustomerService struct {
	*AbstractService

	LeadService *LeadService
}

type CreateCustomerRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	CompanyName     string `json:"companyName"`
	BillingAddress  string `json:"billingAddress"`
	ShippingAddress string `json:"shippingAddress"`
	GSTIN           string `json:"gstin"`
	PAN             string `json:"pan"`
}

// CreateCustomer records a customer entered by hand, as opposed to one
// converted from a lead.
func (s *CustomerService) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*models.Customer, error) {
	identity, ok := contexts.GetIdentity(ctx)
	if !ok || identity.TenantID == nil {
		return nil, fmt.Errorf("%w: customers require a tenant identity", ErrForbidden)
	}

	customer := &models.Customer{
		ID:              models.NewID(),
		TenantID:        *identity.TenantID,
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		CompanyName:     req.CompanyName,
		BillingAddress:  req.BillingAddress,
		ShippingAddress: req.ShippingAddress,
		GSTIN:           req.GSTIN,
		PAN:             req.PAN,
		Source:          models.CustomerSourceManual,
		CreatedBy:       identity.UserID,
	}

	if err := s.dbFromContext(ctx).Create(customer).Error; err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	return customer, nil
}

// ConvertLead turns a lead into a customer. If a customer with the same email
// or phone already exists in the tenant, the lead is attached to it instead
// of creating a duplicate. The lead moves to quoted either way.
func (s *CustomerService) ConvertLead(ctx context.Context, leadID string) (*models.Customer, error) {
	lead, err := s.LeadService.GetLead(ctx, leadID)
	if err != nil {
		return nil, err
	}

	identity, _ := contexts.GetIdentity(ctx)

	var customer models.Customer

	err = s.dbFromContext(ctx).
		Where("tenant_id = ?", lead.TenantID).
		Where("(email != '' AND email = ?) OR (phone != '' AND phone = ?)", lead.Email, lead.Phone).
		First(&customer).Error

	switch {
	case err == nil:
		if !lo.Contains(customer.LeadIDs, lead.ID) {
			customer.LeadIDs = append(customer.LeadIDs, lead.ID)

			if err := s.dbFromContext(ctx).Model(&customer).Update("lead_ids", customer.LeadIDs).Error; err != nil {
				return nil, fmt.Errorf("failed to attach lead to customer: %w", err)
			}
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		customer = models.Customer{
			ID:        models.NewID(),
			TenantID:  lead.TenantID,
			Name:      lead.Name,
			Email:     lead.Email,
			Phone:     lead.Phone,
			Source:    models.CustomerSourceLead,
			LeadIDs:   []string{lead.ID},
			CreatedBy: identity.UserID,
		}

		if err := s.dbFromContext(ctx).Create(&customer).Error; err != nil {
			return nil, fmt.Errorf("failed to create customer from lead: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to look up customer: %w", err)
	}

	err = s.dbFromContext(ctx).Model(lead).Update("status", models.LeadStatusQuoted).Error
	if err != nil {
		return nil, fmt.Errorf("failed to mark lead quoted: %w", err)
	}

	return &customer, nil
}

// ListCustomers returns the tenant's customers, newest first.
func (s *CustomerService) ListCustomers(ctx context.Context) ([]*models.Customer, error) {
	var customers []*models.Customer

	err := s.scopedDBFromContext(ctx).Order("created_at DESC").Find(&customers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	return customers, nil
}

// GetCustomer fetches a single customer within the caller's tenant scope.
func (s *CustomerService) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	var customer models.Customer

	err := s.scopedDBFromContext(ctx).Where("id = ?", id).First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: customer %s", ErrNotFound, id)
		}

		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	return &customer, nil
}
