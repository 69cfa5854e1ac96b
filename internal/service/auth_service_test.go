package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-book-review/internal/blocklist"
	"go-book-review/internal/model"
)

func newTestAuthService(t *testing.T) (*AuthService, *fakeUserStore, *blocklist.MemoryBlocklist) {
	t.Helper()

	users := newFakeUserStore()
	bl := blocklist.NewMemory(time.Hour)

	svc, err := NewAuthService("test-secret", time.Hour, 48*time.Hour, users, bl)
	require.NoError(t, err)

	return svc, users, bl
}

func TestHashPassword_DifferentDigestsSamePassword(t *testing.T) {
	first, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)

	second, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, VerifyPassword("correct horse battery staple", first))
	assert.True(t, VerifyPassword("correct horse battery staple", second))
	assert.False(t, VerifyPassword("wrong password", first))
}

func TestIssueAndParseToken_RoundTrip(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	for _, refresh := range []bool{false, true} {
		token, err := svc.IssueToken("reader@example.com", "uid-123", refresh)
		require.NoError(t, err)

		claims, err := svc.ParseToken(token)
		require.NoError(t, err)
		assert.Equal(t, "reader@example.com", claims.Email)
		assert.Equal(t, "uid-123", claims.UserUID)
		assert.Equal(t, refresh, claims.Refresh)
		assert.NotEmpty(t, claims.TokenID)
		assert.True(t, claims.Expiry.After(time.Now()))
	}
}

func TestIssueToken_FreshJTIPerCall(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	first, err := svc.IssueToken("reader@example.com", "uid-123", false)
	require.NoError(t, err)
	second, err := svc.IssueToken("reader@example.com", "uid-123", false)
	require.NoError(t, err)

	firstClaims, err := svc.ParseToken(first)
	require.NoError(t, err)
	secondClaims, err := svc.ParseToken(second)
	require.NoError(t, err)

	assert.NotEqual(t, firstClaims.TokenID, secondClaims.TokenID)
}

func TestParseToken_Failures(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	t.Run("malformed", func(t *testing.T) {
		_, err := svc.ParseToken("not-a-token")
		assert.ErrorIs(t, err, model.ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		users := newFakeUserStore()
		other, err := NewAuthService("different-secret", time.Hour, 48*time.Hour, users, blocklist.NewMemory(time.Hour))
		require.NoError(t, err)

		token, err := other.IssueToken("reader@example.com", "uid-123", false)
		require.NoError(t, err)

		_, err = svc.ParseToken(token)
		assert.ErrorIs(t, err, model.ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		users := newFakeUserStore()
		shortLived, err := NewAuthService("test-secret", -time.Minute, time.Hour, users, blocklist.NewMemory(time.Hour))
		require.NoError(t, err)

		token, err := shortLived.IssueToken("reader@example.com", "uid-123", false)
		require.NoError(t, err)

		// Expiry and tampering collapse to the same error kind.
		_, err = svc.ParseToken(token)
		assert.ErrorIs(t, err, model.ErrInvalidToken)
	})
}

func TestVerifyToken_TypeGates(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	accessToken, err := svc.IssueToken("reader@example.com", "uid-123", false)
	require.NoError(t, err)
	refreshToken, err := svc.IssueToken("reader@example.com", "uid-123", true)
	require.NoError(t, err)

	_, err = svc.VerifyToken(ctx, accessToken, false)
	assert.NoError(t, err)
	_, err = svc.VerifyToken(ctx, refreshToken, true)
	assert.NoError(t, err)

	_, err = svc.VerifyToken(ctx, refreshToken, false)
	assert.ErrorIs(t, err, model.ErrAccessTokenRequired)
	_, err = svc.VerifyToken(ctx, accessToken, true)
	assert.ErrorIs(t, err, model.ErrRefreshTokenRequired)
}

func TestVerifyToken_RevokedRejected(t *testing.T) {
	svc, _, bl := newTestAuthService(t)
	ctx := context.Background()

	token, err := svc.IssueToken("reader@example.com", "uid-123", false)
	require.NoError(t, err)

	claims, err := svc.VerifyToken(ctx, token, false)
	require.NoError(t, err)

	require.NoError(t, bl.Revoke(ctx, claims.TokenID))

	_, err = svc.VerifyToken(ctx, token, false)
	assert.ErrorIs(t, err, model.ErrInvalidToken)

	// A structurally identical token with a different jti is still accepted.
	other, err := svc.IssueToken("reader@example.com", "uid-123", false)
	require.NoError(t, err)
	_, err = svc.VerifyToken(ctx, other, false)
	assert.NoError(t, err)
}

func TestLogout_RevokesToken(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	token, err := svc.IssueToken("reader@example.com", "uid-123", false)
	require.NoError(t, err)

	claims, err := svc.VerifyToken(ctx, token, false)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, claims))
	// Logout is idempotent.
	require.NoError(t, svc.Logout(ctx, claims))

	_, err = svc.VerifyToken(ctx, token, false)
	assert.ErrorIs(t, err, model.ErrInvalidToken)
}

func TestRefresh_IssuesAccessTokenWithSameSubject(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	refreshToken, err := svc.IssueToken("reader@example.com", "uid-123", true)
	require.NoError(t, err)

	claims, err := svc.VerifyToken(ctx, refreshToken, true)
	require.NoError(t, err)

	accessToken, err := svc.Refresh(ctx, claims)
	require.NoError(t, err)

	accessClaims, err := svc.ParseToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, "reader@example.com", accessClaims.Email)
	assert.Equal(t, "uid-123", accessClaims.UserUID)
	assert.False(t, accessClaims.Refresh)
}

func TestRefresh_ExpiredClaimsRejected(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	expired := &model.AuthClaims{
		Email:   "reader@example.com",
		UserUID: "uid-123",
		TokenID: "jti-1",
		Refresh: true,
		Expiry:  time.Now().Add(-time.Minute),
	}

	_, err := svc.Refresh(context.Background(), expired)
	assert.ErrorIs(t, err, model.ErrInvalidToken)
}

func TestSignupAndLogin(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.Signup(ctx, model.SignupRequest{
		Username:  "reader",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "Reader@Example.com",
		Password:  "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, "reader@example.com", user.Email)
	assert.Equal(t, "user", user.Role)
	assert.False(t, user.IsVerified)
	assert.NotEqual(t, "secret123", user.PasswordHash)

	_, err = svc.Signup(ctx, model.SignupRequest{
		Username: "other",
		Email:    "reader@example.com",
		Password: "secret456",
	})
	assert.ErrorIs(t, err, model.ErrUserAlreadyExists)

	tokens, err := svc.Login(ctx, "reader@example.com", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Equal(t, user.UID, tokens.User.UID)

	accessClaims, err := svc.ParseToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.False(t, accessClaims.Refresh)

	refreshClaims, err := svc.ParseToken(tokens.RefreshToken)
	require.NoError(t, err)
	assert.True(t, refreshClaims.Refresh)

	_, err = svc.Login(ctx, "reader@example.com", "wrong")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)

	stored, err := users.FindByEmail(ctx, "reader@example.com")
	require.NoError(t, err)
	assert.True(t, VerifyPassword("secret123", stored.PasswordHash))
}

func TestVerifyEmail_ActivatesAccount(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.Signup(ctx, model.SignupRequest{
		Username: "reader",
		Email:    "reader@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	require.False(t, user.IsVerified)

	token, err := svc.IssueVerificationToken(user.Email, user.UID)
	require.NoError(t, err)

	verified, err := svc.VerifyEmail(ctx, token)
	require.NoError(t, err)
	assert.True(t, verified.IsVerified)

	stored, err := users.FindByEmail(ctx, "reader@example.com")
	require.NoError(t, err)
	assert.True(t, stored.IsVerified)

	// Redeeming again is a no-op.
	again, err := svc.VerifyEmail(ctx, token)
	require.NoError(t, err)
	assert.True(t, again.IsVerified)
}

func TestVerifyEmail_RejectsSessionTokens(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, model.SignupRequest{
		Username: "reader",
		Email:    "reader@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	access, err := svc.IssueToken("reader@example.com", "uid-123", false)
	require.NoError(t, err)
	_, err = svc.VerifyEmail(ctx, access)
	assert.ErrorIs(t, err, model.ErrInvalidToken)

	_, err = svc.VerifyEmail(ctx, "garbage")
	assert.ErrorIs(t, err, model.ErrInvalidToken)
}

func TestVerifyToken_RejectsVerificationTokens(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	token, err := svc.IssueVerificationToken("reader@example.com", "uid-123")
	require.NoError(t, err)

	_, err = svc.VerifyToken(ctx, token, false)
	assert.ErrorIs(t, err, model.ErrAccessTokenRequired)

	_, err = svc.VerifyToken(ctx, token, true)
	assert.ErrorIs(t, err, model.ErrRefreshTokenRequired)
}
