package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims represents the payload of access tokens issued by the identity service.
type JWTClaims struct {
	UserID   string   `json:"user_id"`
	Role     UserRole `json:"role"`
	ClinicID string   `json:"clinic_id,omitempty"`
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	jwt.RegisteredClaims
}

// IsSuperAdmin reports whether the claims grant cross-tenant access.
func (c *JWTClaims) IsSuperAdmin() bool {
	return c != nil && c.Role == RoleSuperAdmin
}
