package biz

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/Ukvalley1218/bestkitchennet-backend/internal/authz"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/contexts"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/models"
)

type UserServiceParams struct {
	fx.In

	DB *gorm.DB
}

func NewUserService(params UserServiceParams) *UserService {
	return &UserService{
		AbstractService: &AbstractService{db: params.DB},
	}
}

type UserService struct {
	*AbstractService
}

type CreateUserRequest struct {
	Name       string     `json:"name" binding:"required"`
	Email      string     `json:"email" binding:"required,email"`
	Password   string     `json:"password" binding:"required,min=6"`
	Role       authz.Role `json:"role" binding:"required"`
	Department string     `json:"department"`

	// TenantID is honored only for unrestricted (platform) callers; tenant
	// callers always create users inside their own tenant.
	TenantID *string `json:"tenantId"`
}

// CreateUser creates an account inside the caller's tenant. The password is
// hashed before it touches the store.
func (s *UserService) CreateUser(ctx context.Context, req CreateUserRequest) (*models.User, error) {
	if !req.Role.Valid() {
		return nil, fmt.Errorf("invalid role %q", req.Role)
	}

	tenantID := req.TenantID

	if filter, ok := contexts.GetTenantFilter(ctx); ok && filter.Restricted() {
		id, _ := filter.TenantID()
		tenantID = &id
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var count int64

	err := s.dbFromContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
	}

	if count > 0 {
		return nil, fmt.Errorf("user with email %s already exists", email)
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:         models.NewID(),
		TenantID:   tenantID,
		Name:       req.Name,
		Email:      email,
		Password:   hashed,
		Role:       req.Role,
		Department: req.Department,
		Status:     models.UserStatusActive,
	}

	if err := s.dbFromContext(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// ListUsers returns users visible to the caller's tenant filter.
func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	var users []*models.User

	err := s.scopedDBFromContext(ctx).Order("created_at DESC").Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

// GetUserByID fetches a single user within the caller's tenant scope.
func (s *UserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User

	err := s.scopedDBFromContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, id)
		}

		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// GetUserByEmail fetches a user by email without tenant scoping. Reserved for
// the login flow, which runs before any tenant filter exists.
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User

	err := s.dbFromContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: email %s", ErrNotFound, email)
		}

		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

type UpdateUserRequest struct {
	Name       *string            `json:"name"`
	Role       *authz.Role        `json:"role"`
	Department *string            `json:"department"`
	Status     *models.UserStatus `json:"status"`
}

// UpdateUser applies a partial update. Role and status changes take effect on
// the target's next request because identity is re-resolved per request.
func (s *UserService) UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (*models.User, error) {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}

	if req.Name != nil {
		updates["name"] = *req.Name
	}

	if req.Role != nil {
		if !req.Role.Valid() {
			return nil, fmt.Errorf("invalid role %q", *req.Role)
		}

		updates["role"] = *req.Role
	}

	if req.Department != nil {
		updates["department"] = *req.Department
	}

	if req.Status != nil {
		updates["status"] = *req.Status
	}

	if len(updates) == 0 {
		return user, nil
	}

	err = s.dbFromContext(ctx).Model(user).Updates(updates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// DeleteUser soft-deletes a user. Existing tokens for the user stop working
// on their next request since the record no longer resolves.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	result := s.scopedDBFromContext(ctx).Where("id = ?", id).Delete(&models.User{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: user %s", ErrNotFound, id)
	}

	return nil
}
