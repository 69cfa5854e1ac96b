package model

import "time"

type User struct {
	UID          string    `json:"uid"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsVerified   bool      `json:"is_verified"`
	CreatedAt    time.Time `json:"created_at"`
}

// AuthClaims is the decoded payload of a bearer token. Refresh and Verify
// distinguish token kinds independent of signature validity; a token with
// neither flag set is an access token.
type AuthClaims struct {
	UserUID string    `json:"user_uid"`
	Email   string    `json:"email"`
	TokenID string    `json:"jti"`
	Refresh bool      `json:"refresh"`
	Verify  bool      `json:"verify"`
	Expiry  time.Time `json:"exp"`
}

type AuthUser struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

type TokenPair struct {
	Message      string   `json:"message"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	User         AuthUser `json:"user"`
}

// UserProfile is the /auth/me projection: the user plus everything they
// have contributed.
type UserProfile struct {
	User
	Books   []Book   `json:"books"`
	Reviews []Review `json:"reviews"`
}
