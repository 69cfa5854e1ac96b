package model

import "errors"

var (
	// User related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountNotVerified = errors.New("account not verified")

	// Token related errors
	ErrInvalidToken         = errors.New("invalid token")
	ErrAccessTokenRequired  = errors.New("access token required")
	ErrRefreshTokenRequired = errors.New("refresh token required")

	// Permission/Access related errors
	ErrUnauthorized            = errors.New("unauthorized")
	ErrInsufficientPermissions = errors.New("insufficient permissions")

	// Catalog related errors
	ErrBookNotFound     = errors.New("book not found")
	ErrReviewNotFound   = errors.New("review not found")
	ErrTagNotFound      = errors.New("tag not found")
	ErrTagAlreadyExists = errors.New("tag already exists")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
