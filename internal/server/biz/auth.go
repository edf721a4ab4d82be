package biz

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/fx"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Ukvalley1218/bestkitchennet-backend/internal/authz"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/log"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/mail"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/models"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/pkg/xcache"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/tenancy"
)

// AuthConfig is the process-wide auth configuration, loaded once at startup.
// Rotating the secret invalidates all outstanding credentials.
type AuthConfig struct {
	SecretKey string `conf:"secret_key" yaml:"secret_key" json:"secret_key"`

	// TokenTTL is the validity window of primary login tokens.
	TokenTTL time.Duration `conf:"token_ttl" yaml:"token_ttl" json:"token_ttl"`

	// TelecallerTokenTTL is the validity window of telecalling login tokens.
	TelecallerTokenTTL time.Duration `conf:"telecaller_token_ttl" yaml:"telecaller_token_ttl" json:"telecaller_token_ttl"`

	// OTPTTL is how long an emailed one-time password stays valid.
	OTPTTL time.Duration `conf:"otp_ttl" yaml:"otp_ttl" json:"otp_ttl"`

	OTPCache xcache.Config `conf:"otp_cache" yaml:"otp_cache" json:"otp_cache"`
}

func (c AuthConfig) withDefaults() AuthConfig {
	if c.TokenTTL == 0 {
		c.TokenTTL = 7 * 24 * time.Hour
	}

	if c.TelecallerTokenTTL == 0 {
		c.TelecallerTokenTTL = 30 * 24 * time.Hour
	}

	if c.OTPTTL == 0 {
		c.OTPTTL = 5 * time.Minute
	}

	if c.OTPCache.Mode == "" {
		c.OTPCache.Mode = xcache.ModeMemory
	}

	return c
}

// Claims is the canonical payload of every bearer token this system issues.
// Role and tenantId are informational only: authorization always re-reads
// them from the current user record.
type Claims struct {
	UserID   string     `json:"userId"`
	Role     authz.Role `json:"role"`
	TenantID *string    `json:"tenantId"`

	jwt.RegisteredClaims
}

type AuthServiceParams struct {
	fx.In

	Config      AuthConfig
	DB          *gorm.DB
	UserService *UserService
	Mailer      mail.Mailer
}

func NewAuthService(params AuthServiceParams) *AuthService {
	cfg := params.Config.withDefaults()

	return &AuthService{
		AbstractService: &AbstractService{db: params.DB},
		UserService:     params.UserService,
		Mailer:          params.Mailer,
		config:          cfg,
		otps:            xcache.NewFromConfig[string](cfg.OTPCache),
		now:             time.Now,
	}
}

type AuthService struct {
	*AbstractService

	UserService *UserService
	Mailer      mail.Mailer

	config AuthConfig
	otps   xcache.Cache[string]

	// now is injectable for token-expiry boundary tests.
	now func() time.Time
}

// HashPassword hashes a password using bcrypt.
func HashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return hex.EncodeToString(hashedPassword), nil
}

// VerifyPassword verifies a password against a hash.
func VerifyPassword(hashedPassword, password string) error {
	decodedHashedPassword, err := hex.DecodeString(hashedPassword)
	if err != nil {
		return fmt.Errorf("failed to decode hashed password: %w", err)
	}

	return bcrypt.CompareHashAndPassword(decodedHashedPassword, []byte(password))
}

// GenerateSecretKey generates a random secret key for signing tokens.
func GenerateSecretKey() (string, error) {
	bytes := make([]byte, 32) // 256 bits

	_, err := rand.Read(bytes)
	if err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	return hex.EncodeToString(bytes), nil
}

// IssueToken signs a token for the user with the given validity window. The
// embedded role and tenant are a snapshot; the verifier never trusts them.
func (s *AuthService) IssueToken(user *models.User, ttl time.Duration) (string, error) {
	now := s.now()

	claims := Claims{
		UserID:   user.ID,
		Role:     user.Role,
		TenantID: user.TenantID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.config.SecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// VerifyToken validates the signature and expiry of a bearer token and
// returns its claims. Pure and stateless: the same token and secret always
// produce the same result.
func (s *AuthService) VerifyToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return []byte(s.config.SecretKey), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if !token.Valid || claims.UserID == "" {
		return nil, fmt.Errorf("%w: malformed claims", ErrInvalidToken)
	}

	return claims, nil
}

// ResolveIdentity loads the current user record referenced by the claims and
// derives the acting identity from it. Role and tenant always come from the
// record so demotions and tenant suspensions take effect on the next request
// even while the token itself is still cryptographically valid.
//
// This is the only pipeline stage that touches the store: one point lookup,
// read-only, bounded by the caller's context deadline and never retried.
func (s *AuthService) ResolveIdentity(ctx context.Context, claims *Claims) (authz.Identity, error) {
	var user models.User

	err := s.dbFromContext(ctx).Where("id = ?", claims.UserID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return authz.Identity{}, fmt.Errorf("%w: user %s", ErrUserNotFound, claims.UserID)
		}

		log.Error(ctx, "failed to load user for identity resolution", log.Cause(err))

		// Fail closed without leaking internals to the caller.
		return authz.Identity{}, fmt.Errorf("%w: identity lookup failed", ErrInvalidToken)
	}

	if user.Status != models.UserStatusActive {
		return authz.Identity{}, fmt.Errorf("%w: user %s is %s", ErrUserInactive, user.ID, user.Status)
	}

	return authz.Identity{
		UserID:   user.ID,
		Role:     user.Role,
		TenantID: user.TenantID,
	}, nil
}

// Authenticate runs the credential verifier, identity resolver, and tenant
// scoper in order, short-circuiting on the first failure. The returned pair
// is the request context handed to the role gate and the handler.
func (s *AuthService) Authenticate(ctx context.Context, rawToken string) (authz.Identity, tenancy.TenantFilter, error) {
	claims, err := s.VerifyToken(rawToken)
	if err != nil {
		return authz.Identity{}, tenancy.TenantFilter{}, err
	}

	identity, err := s.ResolveIdentity(ctx, claims)
	if err != nil {
		return authz.Identity{}, tenancy.TenantFilter{}, err
	}

	return identity, tenancy.Scope(identity), nil
}

const otpDigits = 6

func generateOTP() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < otpDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}

	return fmt.Sprintf("%0*d", otpDigits, n), nil
}

func otpKey(purpose, email string) string {
	return fmt.Sprintf("otp:%s:%s", purpose, email)
}

// Login verifies the password and emails a one-time password. Any previously
// issued OTP for the email is invalidated.
func (s *AuthService) Login(ctx context.Context, email, password string) error {
	user, err := s.UserService.GetUserByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPassword, err)
	}

	if user.Status != models.UserStatusActive {
		return fmt.Errorf("%w: user is %s", ErrUserInactive, user.Status)
	}

	if err := VerifyPassword(user.Password, password); err != nil {
		return fmt.Errorf("%w: password mismatch", ErrInvalidPassword)
	}

	otp, err := generateOTP()
	if err != nil {
		return err
	}

	if err := s.otps.Set(ctx, otpKey("login", email), otp, xcache.WithExpiration(s.config.OTPTTL)); err != nil {
		return fmt.Errorf("failed to store otp: %w", err)
	}

	err = s.Mailer.Send(ctx, email, "Your login code",
		fmt.Sprintf("Your one-time password is %s. It expires in %d minutes.", otp, int(s.config.OTPTTL.Minutes())))
	if err != nil {
		return fmt.Errorf("failed to send otp mail: %w", err)
	}

	log.Debug(ctx, "login otp issued", log.String("email", email))

	return nil
}

// VerifyOTP exchanges a valid one-time password for a primary login token.
func (s *AuthService) VerifyOTP(ctx context.Context, email, otp string) (string, *models.User, error) {
	stored, err := s.otps.Get(ctx, otpKey("login", email))
	if err != nil || stored != otp {
		return "", nil, ErrInvalidOTP
	}

	_ = s.otps.Delete(ctx, otpKey("login", email))

	user, err := s.UserService.GetUserByEmail(ctx, email)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrUserNotFound, err)
	}

	token, err := s.IssueToken(user, s.config.TokenTTL)
	if err != nil {
		return "", nil, err
	}

	now := s.now()

	err = s.dbFromContext(ctx).Model(user).Update("last_login_at", now).Error
	if err != nil {
		log.Warn(ctx, "failed to stamp last login", log.Cause(err))
	}

	user.LastLoginAt = &now

	return token, user, nil
}

// ForgotPassword emails a password-reset one-time password.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	if _, err := s.UserService.GetUserByEmail(ctx, email); err != nil {
		return fmt.Errorf("%w: %w", ErrUserNotFound, err)
	}

	otp, err := generateOTP()
	if err != nil {
		return err
	}

	if err := s.otps.Set(ctx, otpKey("reset", email), otp, xcache.WithExpiration(s.config.OTPTTL)); err != nil {
		return fmt.Errorf("failed to store otp: %w", err)
	}

	err = s.Mailer.Send(ctx, email, "Password reset code",
		fmt.Sprintf("Your password reset code is %s. It expires in %d minutes.", otp, int(s.config.OTPTTL.Minutes())))
	if err != nil {
		return fmt.Errorf("failed to send otp mail: %w", err)
	}

	return nil
}

// ResetPassword sets a new password after validating the reset OTP.
func (s *AuthService) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	stored, err := s.otps.Get(ctx, otpKey("reset", email))
	if err != nil || stored != otp {
		return ErrInvalidOTP
	}

	_ = s.otps.Delete(ctx, otpKey("reset", email))

	hashed, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	err = s.dbFromContext(ctx).Model(&models.User{}).
		Where("email = ?", email).
		Update("password", hashed).Error
	if err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}

	return nil
}
