package verification

import (
	"context"
	"errors"
	"fmt"
	"log"

	apperr "tavara/internal/errors"
	"tavara/internal/models"
	"tavara/internal/repositories"
	"tavara/internal/services/license"
)

// Reconcile re-derives the agency trust record from the request history and
// re-applies it when the stored record has drifted. The derivation is a pure
// function of already-committed rows, so running it is always safe; it is the
// repair path for a projection write that was lost after the request row
// committed.
//
// It returns true when a drifted record was repaired.
func (s *Service) Reconcile(ctx context.Context, agencyID uint) (bool, error) {
	agency, err := s.agencies.GetByID(agencyID)
	if err != nil {
		if errors.Is(err, repositories.ErrAgencyNotFound) {
			return false, fmt.Errorf("reconcile: %w", err)
		}
		return false, err
	}

	expected, err := s.deriveTrustRecord(agency)
	if err != nil {
		return false, err
	}
	if expected == nil {
		// No requests on file; nothing to derive from.
		return false, nil
	}

	patch := diffTrustRecord(agency, expected)
	if len(patch) == 0 {
		return false, nil
	}

	if err := s.agencies.UpdateTrustRecord(agency.ID, patch); err != nil {
		return false, fmt.Errorf("reapply trust record for agency %d: %w", agency.ID, err)
	}
	_ = s.cache.InvalidateAgencyStatus(ctx, agency.ID)

	log.Printf("reconciled trust record for agency %d (%d fields)", agency.ID, len(patch))
	return true, nil
}

// CheckConsistency reports whether the stored trust record matches what the
// request history would derive. It never writes; callers that want the repair
// use Reconcile.
func (s *Service) CheckConsistency(ctx context.Context, agencyID uint) error {
	agency, err := s.agencies.GetByID(agencyID)
	if err != nil {
		return err
	}
	expected, err := s.deriveTrustRecord(agency)
	if err != nil {
		return err
	}
	if expected == nil {
		return nil
	}
	if len(diffTrustRecord(agency, expected)) > 0 {
		return apperr.ErrInconsistentTrustRecord
	}
	return nil
}

// Reclassify re-runs the license classifier for one agency against an
// explicit "today" and updates license_status when a threshold has been
// crossed. Idempotent; touches nothing else.
func (s *Service) Reclassify(ctx context.Context, agencyID uint) (license.Status, error) {
	agency, err := s.agencies.GetByID(agencyID)
	if err != nil {
		return "", err
	}
	if !agency.IsVerified || agency.LicenseExpiry == nil {
		return license.Status(agency.LicenseStatus), nil
	}

	status := license.Classify(*agency.LicenseExpiry, s.now())
	if string(status) == agency.LicenseStatus {
		return status, nil
	}

	if err := s.agencies.UpdateTrustRecord(agency.ID, map[string]interface{}{
		"license_status": string(status),
	}); err != nil {
		return "", fmt.Errorf("reclassify agency %d: %w", agency.ID, err)
	}
	_ = s.cache.InvalidateAgencyStatus(ctx, agency.ID)
	return status, nil
}

// ReclassifyAll sweeps every approved agency. Used by the scheduled job to
// catch licenses whose expiry crossed a threshold since approval.
func (s *Service) ReclassifyAll(ctx context.Context) (int, error) {
	ids, err := s.agencies.ListApprovedIDs()
	if err != nil {
		return 0, fmt.Errorf("list approved agencies: %w", err)
	}

	updated := 0
	for _, id := range ids {
		before, err := s.agencies.GetByID(id)
		if err != nil {
			log.Printf("reclassify sweep: load agency %d: %v", id, err)
			continue
		}
		after, err := s.Reclassify(ctx, id)
		if err != nil {
			log.Printf("reclassify sweep: agency %d: %v", id, err)
			continue
		}
		if string(after) != before.LicenseStatus {
			updated++
		}
	}
	return updated, nil
}

// deriveTrustRecord recomputes the expected projection from the request
// history. Returns nil when the agency has no requests at all.
func (s *Service) deriveTrustRecord(agency *models.Agency) (*models.Agency, error) {
	latest, err := s.requests.LatestByAgency(agency.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrRequestNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load latest request: %w", err)
	}

	expected := &models.Agency{
		VerificationStatus: latest.Status,
	}

	approved, err := s.requests.LatestApprovedByAgency(agency.ID)
	if err != nil {
		if !errors.Is(err, repositories.ErrRequestNotFound) {
			return nil, fmt.Errorf("load latest approved request: %w", err)
		}
		approved = nil
	}

	if approved != nil {
		expected.IsVerified = true
		expected.LicenseNumber = approved.LicenseNumber
		exp := approved.LicenseExpiry
		expected.LicenseExpiry = &exp
		expected.LicenseStatus = string(license.Classify(exp, s.now()))
		expected.VerifiedAt = approved.ReviewedAt
		if s.policy.RevokeOnRejectedRenewal && latest.Status == models.RequestRejected {
			expected.IsVerified = false
			expected.VerifiedAt = nil
		}
	}
	return expected, nil
}

// diffTrustRecord computes the minimal patch turning the stored record into
// the expected one. LicenseStatus is compared only when an approved request
// governs, since an unverified agency carries no meaningful status.
func diffTrustRecord(stored, expected *models.Agency) map[string]interface{} {
	patch := map[string]interface{}{}

	if stored.VerificationStatus != expected.VerificationStatus {
		patch["verification_status"] = expected.VerificationStatus
	}
	if stored.IsVerified != expected.IsVerified {
		patch["is_verified"] = expected.IsVerified
	}
	if expected.LicenseNumber != "" && stored.LicenseNumber != expected.LicenseNumber {
		patch["license_number"] = expected.LicenseNumber
	}
	if expected.LicenseExpiry != nil &&
		(stored.LicenseExpiry == nil || !stored.LicenseExpiry.Equal(*expected.LicenseExpiry)) {
		patch["license_expiry"] = *expected.LicenseExpiry
	}
	if expected.LicenseExpiry != nil && stored.LicenseStatus != expected.LicenseStatus {
		patch["license_status"] = expected.LicenseStatus
	}
	if expected.VerifiedAt != nil &&
		(stored.VerifiedAt == nil || !stored.VerifiedAt.Equal(*expected.VerifiedAt)) {
		patch["verified_at"] = *expected.VerifiedAt
	}
	return patch
}
