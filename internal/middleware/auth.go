package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go-book-review/internal/model"
)

// tokenVerifier is the slice of the auth service the middleware depends on.
type tokenVerifier interface {
	VerifyToken(ctx context.Context, tokenString string, refresh bool) (*model.AuthClaims, error)
	ResolveUser(ctx context.Context, email string) (model.User, error)
}

type contextKey string

const (
	authClaimsContextKey  contextKey = "auth_claims"
	currentUserContextKey contextKey = "current_user"
)

type AuthMiddleware struct {
	auth tokenVerifier
}

func NewAuthMiddleware(auth tokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// RequireAccess admits requests carrying a valid, non-revoked access token.
// Gates run in order: bearer extraction, decode, revocation check, type check.
// The first failure short-circuits the rest.
func (m *AuthMiddleware) RequireAccess(next http.Handler) http.Handler {
	return m.requireToken(next, false)
}

// RequireRefresh is the symmetric gate for the refresh endpoint: a valid,
// non-revoked token whose refresh flag is set.
func (m *AuthMiddleware) RequireRefresh(next http.Handler) http.Handler {
	return m.requireToken(next, true)
}

func (m *AuthMiddleware) requireToken(next http.Handler, refresh bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeAuthError(w, model.ErrInvalidToken)
			return
		}

		claims, err := m.auth.VerifyToken(r.Context(), token, refresh)
		if err != nil {
			writeAuthError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), authClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRoles resolves the user behind admitted claims and authorizes by
// account state and role. Verification is checked before role membership.
func (m *AuthMiddleware) RequireRoles(allowedRoles ...string) func(http.Handler) http.Handler {
	roleSet := map[string]struct{}{}
	for _, role := range allowedRoles {
		roleSet[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				writeAuthError(w, model.ErrUnauthorized)
				return
			}

			user, err := m.auth.ResolveUser(r.Context(), claims.Email)
			if err != nil {
				writeAuthError(w, err)
				return
			}

			if !user.IsVerified {
				writeAuthError(w, model.ErrAccountNotVerified)
				return
			}

			if _, permitted := roleSet[strings.ToLower(user.Role)]; !permitted {
				writeAuthError(w, model.ErrInsufficientPermissions)
				return
			}

			ctx := context.WithValue(r.Context(), currentUserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func ClaimsFromContext(ctx context.Context) (*model.AuthClaims, bool) {
	claims, ok := ctx.Value(authClaimsContextKey).(*model.AuthClaims)
	return claims, ok
}

func UserFromContext(ctx context.Context) (model.User, bool) {
	user, ok := ctx.Value(currentUserContextKey).(model.User)
	return user, ok
}

func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return "", false
	}

	token := strings.TrimSpace(header[7:])
	if token == "" {
		return "", false
	}
	return token, true
}

func writeAuthError(w http.ResponseWriter, err error) {
	status := http.StatusUnauthorized
	body := &model.APIError{
		Code:       "INVALID_TOKEN",
		Message:    "Token is invalid or expired",
		Resolution: "Please get a new token",
	}

	switch {
	case errors.Is(err, model.ErrAccessTokenRequired):
		body.Code = "ACCESS_TOKEN_REQUIRED"
		body.Message = "Please provide a valid access token"
	case errors.Is(err, model.ErrRefreshTokenRequired):
		body.Code = "REFRESH_TOKEN_REQUIRED"
		body.Message = "Please provide a valid refresh token"
	case errors.Is(err, model.ErrUserNotFound):
		status = http.StatusNotFound
		body.Code = "USER_NOT_FOUND"
		body.Message = "User not found"
		body.Resolution = ""
	case errors.Is(err, model.ErrAccountNotVerified):
		status = http.StatusForbidden
		body.Code = "ACCOUNT_NOT_VERIFIED"
		body.Message = "Account is not verified"
		body.Resolution = "Please verify your account"
	case errors.Is(err, model.ErrInsufficientPermissions):
		status = http.StatusForbidden
		body.Code = "INSUFFICIENT_PERMISSIONS"
		body.Message = "You do not have enough permissions to perform this action"
		body.Resolution = ""
	case errors.Is(err, model.ErrUnauthorized):
		body.Code = "UNAUTHORIZED"
		body.Message = "Authentication required"
		body.Resolution = ""
	case errors.Is(err, model.ErrInvalidToken):
		// Defaults already describe this case.
	default:
		status = http.StatusInternalServerError
		body.Code = "INTERNAL_ERROR"
		body.Message = "Unexpected server error"
		body.Resolution = ""
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = jsonEncode(w, model.APIResponse{Success: false, Error: body})
}
