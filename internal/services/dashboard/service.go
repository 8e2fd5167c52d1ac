package dashboard

import (
	"context"
	"time"

	"tavara/internal/models"
	"tavara/internal/repositories"
	"tavara/internal/services/license"

	"gorm.io/gorm"
)

type Service interface {
	GetReviewDashboard(ctx context.Context) (*ReviewDashboard, error)
}

type service struct {
	requestRepo repositories.VerificationRequestRepository
	db          *gorm.DB
	now         func() time.Time
}

// ReviewDashboard summarizes the verification workload for the admin screen.
type ReviewDashboard struct {
	PendingRequests  int64                        `json:"pending_requests"`
	ApprovedRequests int64                        `json:"approved_requests"`
	RejectedRequests int64                        `json:"rejected_requests"`
	OldestPending    *models.VerificationRequest  `json:"oldest_pending,omitempty"`
	ExpiringAgencies []ExpiringAgency             `json:"expiring_agencies"`
}

// ExpiringAgency flags a verified agency whose license needs attention.
type ExpiringAgency struct {
	AgencyID      uint           `json:"agency_id"`
	Name          string         `json:"name"`
	LicenseExpiry time.Time      `json:"license_expiry"`
	DaysLeft      int            `json:"days_left"`
	LicenseStatus license.Status `json:"license_status"`
}

func NewService(requestRepo repositories.VerificationRequestRepository, db *gorm.DB, now func() time.Time) Service {
	if now == nil {
		now = time.Now
	}
	return &service{requestRepo: requestRepo, db: db, now: now}
}

func (s *service) GetReviewDashboard(ctx context.Context) (*ReviewDashboard, error) {
	counts, err := s.requestRepo.CountByStatus()
	if err != nil {
		return nil, err
	}

	dash := &ReviewDashboard{
		PendingRequests:  counts[models.RequestPending],
		ApprovedRequests: counts[models.RequestApproved],
		RejectedRequests: counts[models.RequestRejected],
	}

	if pending, _, err := s.requestRepo.ListPending(0, 1); err == nil && len(pending) > 0 {
		dash.OldestPending = &pending[0]
	}

	expiring, err := s.expiringAgencies(90)
	if err != nil {
		return nil, err
	}
	dash.ExpiringAgencies = expiring

	return dash, nil
}

// expiringAgencies lists verified agencies whose license runs out within the
// given number of days, soonest first.
func (s *service) expiringAgencies(withinDays int) ([]ExpiringAgency, error) {
	now := s.now()
	cutoff := now.AddDate(0, 0, withinDays)

	var agencies []models.Agency
	err := s.db.
		Where("is_verified = ? AND license_expiry IS NOT NULL AND license_expiry <= ?", true, cutoff).
		Order("license_expiry ASC").
		Limit(50).
		Find(&agencies).Error
	if err != nil {
		return nil, err
	}

	out := make([]ExpiringAgency, 0, len(agencies))
	for _, a := range agencies {
		out = append(out, ExpiringAgency{
			AgencyID:      a.ID,
			Name:          a.Name,
			LicenseExpiry: *a.LicenseExpiry,
			DaysLeft:      license.DaysLeft(*a.LicenseExpiry, now),
			LicenseStatus: license.Classify(*a.LicenseExpiry, now),
		})
	}
	return out, nil
}
