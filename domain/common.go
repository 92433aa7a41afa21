package domain

import (
	"errors"
)

const (
	RoleDonor    = "donor"
	RoleReceiver = "receiver"
)

var (
	MesaageUserNotAllowed       = "user not allowed"
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedBodyRequest    = "failed to parse request body"
	MessageFailedGetToken       = "failed to get token"
	MessageFailedTokenInvalid   = "failed to token invalid"
	MessageFailedTokenRevoked   = "token has been revoked"

	ErrParseUUID      = errors.New("failed to parse UUID")
	ErrUserNotAllowed = errors.New("user not allowed")
	ErrTokenNotFound  = errors.New("failed to token not found")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenInvalid   = errors.New("token invalid")
	ErrTokenRevoked   = errors.New("token revoked")

	ErrJWTSecretMissing = errors.New("JWT_SECRET is not set")
)

type (
	// Session is the authenticated caller, resolved once per request by the auth
	// middleware and passed explicitly to services.
	Session struct {
		UserID   string `json:"user_id"`
		Role     string `json:"role"`
		FullName string `json:"full_name,omitempty"`
		Token    string `json:"-"`
	}
)

func (s *Session) IsDonor() bool {
	return s != nil && s.Role == RoleDonor
}

func (s *Session) IsReceiver() bool {
	return s != nil && s.Role == RoleReceiver
}
