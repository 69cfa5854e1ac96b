package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"go-book-review/internal/model"
	"go-book-review/pkg/apierror"
)

func writeSuccess(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: true,
		Data:    data,
	})
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := &model.APIError{
		Code:    "INTERNAL_ERROR",
		Message: "Unexpected server error",
	}

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		status = apiErr.HTTPStatus
		body.Code = apiErr.Code
		body.Message = apiErr.Message
		body.Resolution = apiErr.Resolution
	} else if errors.Is(err, model.ErrUserAlreadyExists) {
		status = http.StatusForbidden
		body.Code = "USER_EXISTS"
		body.Message = "User with email already exists"
	} else if errors.Is(err, model.ErrUserNotFound) {
		status = http.StatusNotFound
		body.Code = "USER_NOT_FOUND"
		body.Message = "User not found"
	} else if errors.Is(err, model.ErrInvalidCredentials) {
		status = http.StatusForbidden
		body.Code = "INVALID_CREDENTIALS"
		body.Message = "Invalid email or password"
	} else if errors.Is(err, model.ErrInvalidToken) {
		status = http.StatusUnauthorized
		body.Code = "INVALID_TOKEN"
		body.Message = "Token is invalid or expired"
		body.Resolution = "Please get a new token"
	} else if errors.Is(err, model.ErrAccessTokenRequired) {
		status = http.StatusUnauthorized
		body.Code = "ACCESS_TOKEN_REQUIRED"
		body.Message = "Please provide a valid access token"
	} else if errors.Is(err, model.ErrRefreshTokenRequired) {
		status = http.StatusUnauthorized
		body.Code = "REFRESH_TOKEN_REQUIRED"
		body.Message = "Please provide a valid refresh token"
	} else if errors.Is(err, model.ErrUnauthorized) {
		status = http.StatusUnauthorized
		body.Code = "UNAUTHORIZED"
		body.Message = "Authentication required"
	} else if errors.Is(err, model.ErrAccountNotVerified) {
		status = http.StatusForbidden
		body.Code = "ACCOUNT_NOT_VERIFIED"
		body.Message = "Account is not verified"
	} else if errors.Is(err, model.ErrInsufficientPermissions) {
		status = http.StatusForbidden
		body.Code = "INSUFFICIENT_PERMISSIONS"
		body.Message = "You do not have enough permissions to perform this action"
	} else if errors.Is(err, model.ErrBookNotFound) {
		status = http.StatusNotFound
		body.Code = "BOOK_NOT_FOUND"
		body.Message = "Book not found"
	} else if errors.Is(err, model.ErrReviewNotFound) {
		status = http.StatusNotFound
		body.Code = "REVIEW_NOT_FOUND"
		body.Message = "Review not found"
	} else if errors.Is(err, model.ErrTagNotFound) {
		status = http.StatusNotFound
		body.Code = "TAG_NOT_FOUND"
		body.Message = "Tag not found"
	} else if errors.Is(err, model.ErrTagAlreadyExists) {
		status = http.StatusForbidden
		body.Code = "TAG_EXISTS"
		body.Message = "Tag already exists"
	} else if errors.Is(err, model.ErrInvalidInput) {
		status = http.StatusBadRequest
		body.Code = "BAD_REQUEST"
		body.Message = "Invalid input"
	} else {
		// Log unclassified errors so they are visible in container logs.
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error:   body,
	})
}
