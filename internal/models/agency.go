package models

import (
	"time"
)

// Agency is a travel agency profile. The verification fields form the
// denormalized trust record consumed by the public directory: they mirror the
// outcome of the agency's most recent verification request and are written
// only by the verification service (the license sweeper may refresh
// LicenseStatus).
type Agency struct {
	ID              uint   `gorm:"primarykey"`
	UserID          uint   `gorm:"uniqueIndex;not null"`
	Name            string `gorm:"not null"`
	Description     string
	City            string
	State           string
	Website         string
	ContactEmail    string
	ContactPhone    string
	LogoURL         string
	Status          string `gorm:"default:'active'"`

	// Trust record
	IsVerified         bool       `gorm:"default:false"`
	VerificationStatus string     `gorm:"default:'unverified'"` // unverified, pending, approved, rejected
	LicenseNumber      string
	LicenseExpiry      *time.Time
	LicenseStatus      string `gorm:"default:''"` // active, expiring_soon, expiring_critical, expired
	VerifiedAt         *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Agency verification status values. "unverified" means no request was ever
// submitted; the other three mirror the latest request.
const (
	AgencyUnverified = "unverified"
	AgencyPending    = "pending"
	AgencyApproved   = "approved"
	AgencyRejected   = "rejected"
)
