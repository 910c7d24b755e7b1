package models

import "github.com/golang-jwt/jwt/v5"

// UserRole determines which route groups a session may reach.
type UserRole string

const (
	RoleAdmin  UserRole = "ADMIN"
	RoleGuru   UserRole = "GURU"
	RoleBK     UserRole = "BK"
	RoleKepsek UserRole = "KEPALA_SEKOLAH"
)

// CredentialScope separates the two managed credential lists.
type CredentialScope string

const (
	CredentialScopeAdmin      CredentialScope = "admin"
	CredentialScopeDiscipline CredentialScope = "discipline"
	CredentialScopeHeadmaster CredentialScope = "headmaster"
)

// Credential is one login entry of a managed credential list. Passwords are
// stored as bcrypt hashes.
type Credential struct {
	ID           string          `db:"id" json:"id"`
	Scope        CredentialScope `db:"scope" json:"scope"`
	Username     string          `db:"username" json:"username"`
	PasswordHash string          `db:"password_hash" json:"password"`
}

// JWTClaims carries the session identity inside an access token.
type JWTClaims struct {
	UserID   string   `json:"user_id"`
	Role     UserRole `json:"role"`
	FullName string   `json:"full_name"`
	jwt.RegisteredClaims
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued token and identity summary.
type LoginResponse struct {
	AccessToken string   `json:"access_token"`
	ExpiresIn   int64    `json:"expires_in"`
	UserID      string   `json:"user_id"`
	FullName    string   `json:"full_name"`
	Role        UserRole `json:"role"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
