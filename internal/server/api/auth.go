package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/Ukvalley1218/bestkitchennet-backend/internal/contexts"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/models"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/objects"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/server/biz"
)

type AuthHandlersParams struct {
	fx.In

	AuthService *biz.AuthService
	UserService *biz.UserService
}

func NewAuthHandlers(params AuthHandlersParams) *AuthHandlers {
	return &AuthHandlers{
		AuthService: params.AuthService,
		UserService: params.UserService,
	}
}

type AuthHandlers struct {
	AuthService *biz.AuthService
	UserService *biz.UserService
}

func toUserInfo(user *models.User) objects.UserInfo {
	return objects.UserInfo{
		ID:       user.ID,
		Name:     user.Name,
		Email:    user.Email,
		Role:     string(user.Role),
		TenantID: user.TenantID,
		Status:   string(user.Status),
	}
}

type LoginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login checks the password and emails a one-time password. The token is only
// issued after OTP verification.
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("invalid request format"))
		return
	}

	err := h.AuthService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, biz.ErrInvalidPassword) || errors.Is(err, biz.ErrUserInactive) {
			JSONError(c, http.StatusUnauthorized, errors.New("invalid email or password"))
			return
		}

		ServiceError(c, err)

		return
	}

	c.JSON(http.StatusOK, objects.OKMessage("OTP sent to registered email", nil))
}

type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp"   binding:"required"`
}

// VerifyOTP exchanges a valid OTP for a login token.
func (h *AuthHandlers) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("invalid request format"))
		return
	}

	token, user, err := h.AuthService.VerifyOTP(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		if errors.Is(err, biz.ErrInvalidOTP) {
			JSONError(c, http.StatusUnauthorized, biz.ErrInvalidOTP)
			return
		}

		ServiceError(c, err)

		return
	}

	c.JSON(http.StatusOK, objects.OK(objects.SignInResult{
		Token: token,
		User:  toUserInfo(user),
	}))
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ForgotPassword emails a password-reset OTP.
func (h *AuthHandlers) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("invalid request format"))
		return
	}

	err := h.AuthService.ForgotPassword(c.Request.Context(), req.Email)
	if err != nil {
		// Do not reveal whether the email exists.
		if errors.Is(err, biz.ErrUserNotFound) {
			c.JSON(http.StatusOK, objects.OKMessage("OTP sent if the email is registered", nil))
			return
		}

		ServiceError(c, err)

		return
	}

	c.JSON(http.StatusOK, objects.OKMessage("OTP sent if the email is registered", nil))
}

type ResetPasswordRequest struct {
	Email       string `json:"email"       binding:"required,email"`
	OTP         string `json:"otp"         binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

// ResetPassword sets a new password after validating the reset OTP.
func (h *AuthHandlers) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("invalid request format"))
		return
	}

	err := h.AuthService.ResetPassword(c.Request.Context(), req.Email, req.OTP, req.NewPassword)
	if err != nil {
		if errors.Is(err, biz.ErrInvalidOTP) {
			JSONError(c, http.StatusUnauthorized, biz.ErrInvalidOTP)
			return
		}

		ServiceError(c, err)

		return
	}

	c.JSON(http.StatusOK, objects.OKMessage("password reset successfully", nil))
}

// Me returns the authenticated caller's profile, read from the current
// record rather than the token.
func (h *AuthHandlers) Me(c *gin.Context) {
	identity, ok := contexts.GetIdentity(c.Request.Context())
	if !ok {
		JSONError(c, http.StatusUnauthorized, biz.ErrInvalidToken)
		return
	}

	user, err := h.UserService.GetUserByID(c.Request.Context(), identity.UserID)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.OK(toUserInfo(user)))
}
