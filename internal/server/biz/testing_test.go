package biz

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Ukvalley1218/bestkitchennet-backend/internal/authz"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/contexts"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/models"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/server/db"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/tenancy"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	client, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := client.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(client))

	return client
}

// identityCtx builds the request context WithAuth would produce for the
// given identity.
func identityCtx(identity authz.Identity) context.Context {
	ctx := contexts.WithIdentity(context.Background(), identity)
	return contexts.WithTenantFilter(ctx, tenancy.Scope(identity))
}

func seedTenant(t *testing.T, client *gorm.DB, name string) *models.Tenant {
	t.Helper()

	tenant := &models.Tenant{
		ID:     models.NewID(),
		Name:   name,
		Slug:   name,
		Email:  name + "@example.com",
		Plan:   models.TenantPlanBasic,
		Status: models.TenantStatusActive,
	}
	require.NoError(t, client.Create(tenant).Error)

	return tenant
}

func seedUser(t *testing.T, client *gorm.DB, tenantID *string, role authz.Role, email, password string) *models.User {
	t.Helper()

	hashed, err := HashPassword(password)
	require.NoError(t, err)

	user := &models.User{
		ID:       models.NewID(),
		TenantID: tenantID,
		Name:     "Test " + string(role),
		Email:    email,
		Password: hashed,
		Role:     role,
		Status:   models.UserStatusActive,
	}
	require.NoError(t, client.Create(user).Error)

	return user
}

func seedLead(t *testing.T, client *gorm.DB, tenantID, createdBy string) *models.Lead {
	t.Helper()

	lead := &models.Lead{
		ID:        models.NewID(),
		TenantID:  tenantID,
		Name:      "Acme Kitchens",
		Email:     "acme@example.com",
		Phone:     "9876500000",
		Source:    models.LeadSourceManual,
		LeadType:  models.LeadTypeWarm,
		Status:    models.LeadStatusNew,
		CreatedBy: createdBy,
	}
	require.NoError(t, client.Create(lead).Error)

	return lead
}

func newAuthServiceForTest(t *testing.T, client *gorm.DB, mailer *fakeMailer) *AuthService {
	t.Helper()

	if mailer == nil {
		mailer = &fakeMailer{}
	}

	userService := NewUserService(UserServiceParams{DB: client})

	return NewAuthService(AuthServiceParams{
		Config: AuthConfig{
			SecretKey: "test-secret",
		},
		DB:          client,
		UserService: userService,
		Mailer:      mailer,
	})
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type fakeMailer struct {
	sent []sentMail
}

func (m *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

// fixedClock pins a service's time source for expiry boundary tests.
func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}
