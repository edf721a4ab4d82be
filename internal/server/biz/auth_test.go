package biz

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ukvalley1218/bestkitchennet-backend/internal/authz"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	client := newTestDB(t)
	service := newAuthServiceForTest(t, client, nil)

	tenant := seedTenant(t, client, "roundtrip")
	user := seedUser(t, client, &tenant.ID, authz.RoleManager, "manager@roundtrip.com", "secret123")

	token, err := service.IssueToken(user, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, authz.RoleManager, claims.Role)
	require.NotNil(t, claims.TenantID)
	assert.Equal(t, tenant.ID, *claims.TenantID)
}

func TestVerifyTokenRejectsBadInput(t *testing.T) {
	client := newTestDB(t)
	service := newAuthServiceForTest(t, client, nil)

	tenant := seedTenant(t, client, "badtoken")
	user := seedUser(t, client, &tenant.ID, authz.RoleSales, "sales@badtoken.com", "secret123")

	t.Run("empty token", func(t *testing.T) {
		_, err := service.VerifyToken("")
		assert.ErrorIs(t, err, ErrMissingToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := service.VerifyToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong signature", func(t *testing.T) {
		token, err := service.IssueToken(user, time.Hour)
		require.NoError(t, err)

		other := newAuthServiceForTest(t, client, nil)
		other.config.SecretKey = "a-different-secret"

		_, err = other.VerifyToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestVerifyTokenExpiry(t *testing.T) {
	client := newTestDB(t)
	service := newAuthServiceForTest(t, client, nil)

	tenant := seedTenant(t, client, "expiry")
	user := seedUser(t, client, &tenant.ID, authz.RoleSales, "sales@expiry.com", "secret123")

	issuedAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	service.now = fixedClock(issuedAt)

	token, err := service.IssueToken(user, time.Hour)
	require.NoError(t, err)

	// Just inside the window.
	service.now = fixedClock(issuedAt.Add(59 * time.Minute))
	_, err = service.VerifyToken(token)
	assert.NoError(t, err)

	// Just past it.
	service.now = fixedClock(issuedAt.Add(61 * time.Minute))
	_, err = service.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestResolveIdentityReadsCurrentRecord(t *testing.T) {
	client := newTestDB(t)
	service := newAuthServiceForTest(t, client, nil)
	ctx := context.Background()

	tenant := seedTenant(t, client, "resolve")
	user := seedUser(t, client, &tenant.ID, authz.RoleManager, "manager@resolve.com", "secret123")

	token, err := service.IssueToken(user, time.Hour)
	require.NoError(t, err)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)

	// Demote after issuance. The token still carries manager, but the
	// resolved identity must reflect the record.
	require.NoError(t, client.Model(user).Update("role", authz.RoleSales).Error)

	identity, err := service.ResolveIdentity(ctx, claims)
	require.NoError(t, err)
	assert.Equal(t, authz.RoleSales, identity.Role)
	assert.Equal(t, user.ID, identity.UserID)

	t.Run("blocked user", func(t *testing.T) {
		require.NoError(t, client.Model(user).Update("status", models.UserStatusBlocked).Error)

		_, err := service.ResolveIdentity(ctx, claims)
		assert.ErrorIs(t, err, ErrUserInactive)
	})

	t.Run("deleted user", func(t *testing.T) {
		require.NoError(t, client.Delete(user).Error)

		_, err := service.ResolveIdentity(ctx, claims)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestAuthenticateScopesTenant(t *testing.T) {
	client := newTestDB(t)
	service := newAuthServiceForTest(t, client, nil)
	ctx := context.Background()

	tenant := seedTenant(t, client, "scoping")
	member := seedUser(t, client, &tenant.ID, authz.RoleAdmin, "admin@scoping.com", "secret123")
	platform := seedUser(t, client, nil, authz.RoleSuperAdmin, "root@scoping.com", "secret123")

	memberToken, err := service.IssueToken(member, time.Hour)
	require.NoError(t, err)

	_, filter, err := service.Authenticate(ctx, memberToken)
	require.NoError(t, err)
	require.True(t, filter.Restricted())
	scopedTo, _ := filter.TenantID()
	assert.Equal(t, tenant.ID, scopedTo)

	platformToken, err := service.IssueToken(platform, time.Hour)
	require.NoError(t, err)

	_, filter, err = service.Authenticate(ctx, platformToken)
	require.NoError(t, err)
	assert.False(t, filter.Restricted())
}

func TestLoginOTPFlow(t *testing.T) {
	client := newTestDB(t)
	mailer := &fakeMailer{}
	service := newAuthServiceForTest(t, client, mailer)
	ctx := context.Background()

	tenant := seedTenant(t, client, "otpflow")
	seedUser(t, client, &tenant.ID, authz.RoleCEO, "ceo@otpflow.com", "secret123")

	t.Run("wrong password", func(t *testing.T) {
		err := service.Login(ctx, "ceo@otpflow.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidPassword)
		assert.Empty(t, mailer.sent)
	})

	require.NoError(t, service.Login(ctx, "ceo@otpflow.com", "secret123"))
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "ceo@otpflow.com", mailer.sent[0].To)

	otp, err := service.otps.Get(ctx, otpKey("login", "ceo@otpflow.com"))
	require.NoError(t, err)
	assert.Contains(t, mailer.sent[0].Body, otp)

	t.Run("wrong otp", func(t *testing.T) {
		_, _, err := service.VerifyOTP(ctx, "ceo@otpflow.com", "000000a")
		assert.ErrorIs(t, err, ErrInvalidOTP)
	})

	token, user, err := service.VerifyOTP(ctx, "ceo@otpflow.com", otp)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "ceo@otpflow.com", user.Email)
	assert.NotNil(t, user.LastLoginAt)

	t.Run("otp is single use", func(t *testing.T) {
		_, _, err := service.VerifyOTP(ctx, "ceo@otpflow.com", otp)
		assert.ErrorIs(t, err, ErrInvalidOTP)
	})
}

func TestLoginInactiveUser(t *testing.T) {
	client := newTestDB(t)
	service := newAuthServiceForTest(t, client, nil)
	ctx := context.Background()

	tenant := seedTenant(t, client, "inactive")
	user := seedUser(t, client, &tenant.ID, authz.RoleSales, "sales@inactive.com", "secret123")
	require.NoError(t, client.Model(user).Update("status", models.UserStatusInactive).Error)

	err := service.Login(ctx, "sales@inactive.com", "secret123")
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestPasswordResetFlow(t *testing.T) {
	client := newTestDB(t)
	mailer := &fakeMailer{}
	service := newAuthServiceForTest(t, client, mailer)
	ctx := context.Background()

	tenant := seedTenant(t, client, "reset")
	seedUser(t, client, &tenant.ID, authz.RoleAccounts, "accounts@reset.com", "oldpassword")

	t.Run("unknown email", func(t *testing.T) {
		err := service.ForgotPassword(ctx, "nobody@reset.com")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	require.NoError(t, service.ForgotPassword(ctx, "accounts@reset.com"))
	require.Len(t, mailer.sent, 1)

	otp, err := service.otps.Get(ctx, otpKey("reset", "accounts@reset.com"))
	require.NoError(t, err)

	require.NoError(t, service.ResetPassword(ctx, "accounts@reset.com", otp, "newpassword"))

	// Old credential no longer works, new one does.
	assert.ErrorIs(t, service.Login(ctx, "accounts@reset.com", "oldpassword"), ErrInvalidPassword)
	assert.NoError(t, service.Login(ctx, "accounts@reset.com", "newpassword"))
}
