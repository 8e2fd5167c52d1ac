package verification

import (
	"time"

	"tavara/internal/services/license"
)

// RequestView is the request slice of the status projection exposed to
// agencies and admins.
type RequestView struct {
	ID              uint       `json:"id"`
	Reference       string     `json:"reference"`
	Mode            string     `json:"mode"`
	Status          string     `json:"status"`
	SubmittedAt     time.Time  `json:"submitted_at"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
}

// StatusView combines the agency trust record with its latest request. It is
// read-only and safe to cache.
type StatusView struct {
	AgencyID           uint           `json:"agency_id"`
	AgencyName         string         `json:"agency_name"`
	IsVerified         bool           `json:"is_verified"`
	VerificationStatus string         `json:"verification_status"`
	LicenseNumber      string         `json:"license_number,omitempty"`
	LicenseExpiry      *time.Time     `json:"license_expiry,omitempty"`
	LicenseStatus      license.Status `json:"license_status,omitempty"`
	LicenseDaysLeft    *int           `json:"license_days_left,omitempty"`
	VerifiedAt         *time.Time     `json:"verified_at,omitempty"`
	LatestRequest      *RequestView   `json:"latest_request,omitempty"`
}

// Policy names the switchable behaviors of the review flow.
//
// RevokeOnRejectedRenewal controls what rejecting a renewal does to an
// already-verified agency: with the default false, the agency keeps its
// verified badge and prior license data until the license itself runs out
// (grace behavior); with true, rejection immediately clears the verified
// flag.
type Policy struct {
	RevokeOnRejectedRenewal bool
}
