package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-book-review/internal/middleware"
	"go-book-review/internal/model"
	"go-book-review/internal/service"
	"go-book-review/pkg/apierror"
)

type AuthHandler struct {
	auth    *service.AuthService
	books   *service.BookService
	reviews *service.ReviewService
}

func NewAuthHandler(auth *service.AuthService, books *service.BookService, reviews *service.ReviewService) *AuthHandler {
	return &AuthHandler{auth: auth, books: books, reviews: reviews}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", http.StatusBadRequest))
		return
	}

	user, err := h.auth.Signup(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	// Mail delivery happens out of band; debug logs carry the token so
	// development setups can complete the verification flow.
	if verificationToken, tokenErr := h.auth.IssueVerificationToken(user.Email, user.UID); tokenErr == nil {
		slog.Debug("verification token issued", "email", user.Email, "token", verificationToken)
	}

	writeSuccess(w, http.StatusCreated, user)
}

// Verify redeems an emailed verification token and activates the account.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.VerifyEmail(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"message": "Account verified successfully",
		"user":    model.AuthUser{UID: user.UID, Email: user.Email},
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", http.StatusBadRequest))
		return
	}

	tokens, err := h.auth.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, tokens)
}

// Refresh exchanges an admitted refresh token for a new access token. The
// refresh token itself stays valid; there is no rotation.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	accessToken, err := h.auth.Refresh(r.Context(), claims)
	if err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "Invalid or expired token", http.StatusBadRequest))
		return
	}

	writeSuccess(w, http.StatusOK, map[string]string{"access_token": accessToken})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	if err := h.auth.Logout(r.Context(), claims); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]string{"message": "Logout successful"})
}

// Me returns the resolved user together with their books and reviews.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	books, err := h.books.ListByUser(r.Context(), user.UID)
	if err != nil {
		writeError(w, err)
		return
	}

	reviews, err := h.reviews.ListByUser(r.Context(), user.UID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.UserProfile{User: user, Books: books, Reviews: reviews})
}
