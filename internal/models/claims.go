package models

import "github.com/golang-jwt/jwt/v5"

// Application permissions
const (
	// Admin permissions
	PermissionReadAdmin  = "admin:read"
	PermissionWriteAdmin = "admin:write"

	// Agency permissions
	PermissionAgencyRead  = "agency:read"
	PermissionAgencyWrite = "agency:write"

	// Verification permissions
	PermissionVerificationSubmit = "verification:submit"
	PermissionVerificationReview = "verification:review"

	// User management permissions
	PermissionUserRead       = "user:read"
	PermissionUserWrite      = "user:write"
	PermissionChangePassword = "user:change-password"
)

type UserClaims struct {
	jwt.RegisteredClaims
	UserID       uint     `json:"user_id"`
	Email        string   `json:"email"`
	Role         string   `json:"role"`
	AgencyID     *uint    `json:"agency_id,omitempty"`
	Permissions  []string `json:"permissions"`
	TokenVersion int      `json:"token_version"`
}

// HasPermission checks if the claims include a specific permission
func (c *UserClaims) HasPermission(permission string) bool {
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// GetDefaultPermissions returns default permissions based on role
func GetDefaultPermissions(role string) []string {
	switch role {
	case "admin":
		return []string{
			PermissionUserRead,
			PermissionUserWrite,
			PermissionChangePassword,
			PermissionAgencyRead,
			PermissionAgencyWrite,
			PermissionVerificationReview,
			PermissionReadAdmin,
			PermissionWriteAdmin,
		}
	case "agency":
		return []string{
			PermissionUserRead,
			PermissionChangePassword,
			PermissionAgencyRead,
			PermissionAgencyWrite,
			PermissionVerificationSubmit,
		}
	case "traveler":
		return []string{
			PermissionUserRead,
			PermissionChangePassword,
			PermissionAgencyRead,
		}
	default:
		return []string{}
	}
}
