// Package apierror defines the error type that carries an HTTP status and a
// stable machine-readable code across service boundaries.
package apierror

import "fmt"

type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Resolution string `json:"resolution,omitempty"`
	HTTPStatus int    `json:"-"`
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(code string, message string, status int) *APIError {
	return &APIError{Code: code, Message: message, HTTPStatus: status}
}

// WithResolution attaches a hint for the caller on how to recover.
func (e *APIError) WithResolution(resolution string) *APIError {
	e.Resolution = resolution
	return e
}
