package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"go-book-review/internal/blocklist"
	"go-book-review/internal/model"
)

const bcryptCost = 12

// Verification links stay redeemable for a day.
const verificationTTL = 24 * time.Hour

// UserStore is the surface AuthService needs from persistence.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (model.User, error)
	FindByUID(ctx context.Context, uid string) (model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, u model.User) error
	SetVerified(ctx context.Context, uid string, verified bool) error
}

type AuthService struct {
	users      UserStore
	blocklist  blocklist.Blocklist
	jwtSecret  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewAuthService(jwtSecret string, accessTTL time.Duration, refreshTTL time.Duration, users UserStore, bl blocklist.Blocklist) (*AuthService, error) {
	if strings.TrimSpace(jwtSecret) == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}

	return &AuthService{
		users:      users,
		blocklist:  bl,
		jwtSecret:  []byte(jwtSecret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

// HashPassword produces a salted bcrypt digest. The salt is random per call,
// so hashing the same password twice yields different digests.
func HashPassword(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

// VerifyPassword recomputes and compares in constant time via bcrypt.
func VerifyPassword(password string, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}

func (s *AuthService) Signup(ctx context.Context, req model.SignupRequest) (model.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || strings.TrimSpace(req.Password) == "" || strings.TrimSpace(req.Username) == "" {
		return model.User{}, model.ErrInvalidInput
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return model.User{}, err
	}
	if exists {
		return model.User{}, model.ErrUserAlreadyExists
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return model.User{}, err
	}

	user := model.User{
		UID:          uuid.NewString(),
		Username:     strings.TrimSpace(req.Username),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        email,
		PasswordHash: hash,
		Role:         "user",
		IsVerified:   false,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return model.User{}, err
	}

	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email string, password string) (model.TokenPair, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		// Same failure for unknown email and wrong password.
		return model.TokenPair{}, model.ErrInvalidCredentials
	}

	if !VerifyPassword(password, user.PasswordHash) {
		return model.TokenPair{}, model.ErrInvalidCredentials
	}

	accessToken, err := s.IssueToken(user.Email, user.UID, false)
	if err != nil {
		return model.TokenPair{}, err
	}

	refreshToken, err := s.IssueToken(user.Email, user.UID, true)
	if err != nil {
		return model.TokenPair{}, err
	}

	return model.TokenPair{
		Message:      "Login successful",
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         model.AuthUser{UID: user.UID, Email: user.Email},
	}, nil
}

// IssueToken signs a token carrying the subject, a fresh jti, and the refresh
// flag. Refresh tokens get the longer TTL.
func (s *AuthService) IssueToken(email string, userUID string, refresh bool) (string, error) {
	ttl := s.accessTTL
	if refresh {
		ttl = s.refreshTTL
	}

	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user": map[string]any{
			"email":    email,
			"user_uid": userUID,
		},
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
		"jti":     uuid.NewString(),
		"refresh": refresh,
	})

	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// IssueVerificationToken signs a single-purpose token for the account
// verification link. It carries the verify flag so the access and refresh
// gates reject it.
func (s *AuthService) IssueVerificationToken(email string, userUID string) (string, error) {
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user": map[string]any{
			"email":    email,
			"user_uid": userUID,
		},
		"iat":     now.Unix(),
		"exp":     now.Add(verificationTTL).Unix(),
		"jti":     uuid.NewString(),
		"refresh": false,
		"verify":  true,
	})

	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign verification token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies signature, algorithm, and expiry, then decodes the
// claims. Every failure collapses to ErrInvalidToken so callers cannot tell
// expiry apart from tampering.
func (s *AuthService) ParseToken(tokenString string) (*model.AuthClaims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, model.ErrInvalidToken
		}
		return s.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, model.ErrInvalidToken
	}

	claimsMap, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, model.ErrInvalidToken
	}

	claims := &model.AuthClaims{}
	claims.TokenID, _ = claimsMap["jti"].(string)
	claims.Refresh, _ = claimsMap["refresh"].(bool)
	claims.Verify, _ = claimsMap["verify"].(bool)

	if subject, ok := claimsMap["user"].(map[string]any); ok {
		claims.Email, _ = subject["email"].(string)
		claims.UserUID, _ = subject["user_uid"].(string)
	}

	if expiry, err := claimsMap.GetExpirationTime(); err == nil && expiry != nil {
		claims.Expiry = expiry.Time
	}

	if claims.TokenID == "" || claims.Email == "" {
		return nil, model.ErrInvalidToken
	}

	return claims, nil
}

// VerifyToken runs the admission pipeline: decode, revocation check, then the
// token-type gate. Gates run in order and the first failure is final.
func (s *AuthService) VerifyToken(ctx context.Context, tokenString string, refresh bool) (*model.AuthClaims, error) {
	claims, err := s.ParseToken(tokenString)
	if err != nil {
		return nil, err
	}

	revoked, err := s.blocklist.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, model.ErrInvalidToken
	}

	if claims.Verify {
		// Verification tokens never admit API requests.
		if refresh {
			return nil, model.ErrRefreshTokenRequired
		}
		return nil, model.ErrAccessTokenRequired
	}
	if refresh && !claims.Refresh {
		return nil, model.ErrRefreshTokenRequired
	}
	if !refresh && claims.Refresh {
		return nil, model.ErrAccessTokenRequired
	}

	return claims, nil
}

// VerifyEmail redeems a verification token and marks the account verified.
// Redeeming for an already-verified account is a no-op.
func (s *AuthService) VerifyEmail(ctx context.Context, tokenString string) (model.User, error) {
	claims, err := s.ParseToken(tokenString)
	if err != nil {
		return model.User{}, err
	}
	if !claims.Verify {
		return model.User{}, model.ErrInvalidToken
	}

	user, err := s.users.FindByEmail(ctx, claims.Email)
	if err != nil {
		return model.User{}, err
	}
	if user.IsVerified {
		return user, nil
	}

	if err := s.users.SetVerified(ctx, user.UID, true); err != nil {
		return model.User{}, err
	}
	user.IsVerified = true
	return user, nil
}

// Refresh issues a new access token for admitted refresh-token claims. The
// expiry is re-checked here even though decode already enforced it; the
// refresh token itself stays valid until its own expiry.
func (s *AuthService) Refresh(ctx context.Context, claims *model.AuthClaims) (string, error) {
	if !claims.Expiry.After(time.Now()) {
		return "", model.ErrInvalidToken
	}

	return s.IssueToken(claims.Email, claims.UserUID, false)
}

// Logout revokes the presented token's jti. Revoking an already-revoked token
// succeeds; the caller always sees success once the token was admitted.
func (s *AuthService) Logout(ctx context.Context, claims *model.AuthClaims) error {
	return s.blocklist.Revoke(ctx, claims.TokenID)
}

// ResolveUser maps admitted claims back to the user record by email. The user
// may have been deleted after issuance, in which case ErrUserNotFound surfaces.
func (s *AuthService) ResolveUser(ctx context.Context, email string) (model.User, error) {
	return s.users.FindByEmail(ctx, email)
}
