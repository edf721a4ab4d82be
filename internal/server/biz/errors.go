package biz

import (
	"errors"

	"github.com/Ukvalley1218/bestkitchennet-backend/internal/authz"
)

var (
	// ErrMissingToken is returned when the request carries no usable bearer
	// credential at all.
	ErrMissingToken = errors.New("authorization token missing")

	// ErrInvalidToken covers bad signatures, malformed payloads, and expiry.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrUserNotFound is returned when a credential references a user record
	// that no longer exists.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserInactive is returned when the referenced user exists but its
	// status is not active.
	ErrUserInactive = errors.New("user inactive")

	// ErrForbidden is the role-gate rejection.
	ErrForbidden = authz.ErrForbidden

	ErrInvalidPassword = errors.New("invalid email or password")
	ErrInvalidOTP      = errors.New("invalid or expired OTP")
	ErrNotFound        = errors.New("not found")
	ErrInternal        = errors.New("server internal error, please try again later")
)
