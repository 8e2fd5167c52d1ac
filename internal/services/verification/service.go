// Package verification orchestrates the agency verification lifecycle:
// submission (initial or renewal), the admin decision, and the projection of
// the outcome onto the agency trust record.
package verification

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	apperr "tavara/internal/errors"
	"tavara/internal/models"
	"tavara/internal/repositories"
	"tavara/internal/services/license"
	"tavara/internal/validation"

	"github.com/google/uuid"
)

type Service struct {
	requests repositories.VerificationRequestRepository
	agencies repositories.AgencyRepository
	cache    StatusCache
	policy   Policy
	now      func() time.Time
}

// NewService wires the workflow service. The clock is injected so decisions
// and reclassification runs are replayable in tests.
func NewService(
	requests repositories.VerificationRequestRepository,
	agencies repositories.AgencyRepository,
	cache StatusCache,
	policy Policy,
	now func() time.Time,
) *Service {
	if cache == nil {
		cache = NoopStatusCache{}
	}
	if now == nil {
		now = time.Now
	}
	return &Service{
		requests: requests,
		agencies: agencies,
		cache:    cache,
		policy:   policy,
		now:      now,
	}
}

// Submit records a new verification request for the agency and marks the
// trust record pending. An agency that is already verified keeps its verified
// badge while the renewal sits in the queue; de-listing a compliant agency
// mid-review would punish it for renewing early.
func (s *Service) Submit(ctx context.Context, agencyID uint, sub *models.VerificationSubmission, mode string) (*models.VerificationRequest, error) {
	v := validation.New()
	v.Submission(mode, sub)
	if !v.Valid() {
		return nil, &apperr.DomainError{Code: apperr.CodeValidationFailed, Message: v.First()}
	}

	agency, err := s.agencies.GetByID(agencyID)
	if err != nil {
		if errors.Is(err, repositories.ErrAgencyNotFound) {
			return nil, apperr.ErrAgencyNotFound
		}
		return nil, fmt.Errorf("load agency %d: %w", agencyID, err)
	}

	last, err := s.requests.LatestByAgency(agencyID)
	if err != nil && !errors.Is(err, repositories.ErrRequestNotFound) {
		return nil, fmt.Errorf("load latest request: %w", err)
	}
	if last != nil && last.Status == models.RequestPending {
		return nil, apperr.ErrSubmissionPending
	}

	if mode == models.SubmissionRenewal {
		if last == nil {
			return nil, &apperr.DomainError{
				Code:    apperr.CodeValidationFailed,
				Message: "mode: renewal requires a prior submission",
			}
		}
		prefillFromLast(sub, last)
	}

	expiry, err := validation.ParseDate(sub.LicenseExpiry)
	if err != nil {
		return nil, &apperr.DomainError{Code: apperr.CodeValidationFailed, Message: "license_expiry: " + err.Error()}
	}
	var ssmRegisteredOn *time.Time
	if sub.SSMRegisteredOn != "" {
		t, err := validation.ParseDate(sub.SSMRegisteredOn)
		if err != nil {
			return nil, &apperr.DomainError{Code: apperr.CodeValidationFailed, Message: "ssm_registered_on: " + err.Error()}
		}
		ssmRegisteredOn = &t
	}

	req := &models.VerificationRequest{
		Reference:       uuid.NewString(),
		AgencyID:        agency.ID,
		Mode:            mode,
		CompanyName:     sub.CompanyName,
		SSMNumber:       sub.SSMNumber,
		SSMRegisteredOn: ssmRegisteredOn,
		OwnerName:       sub.OwnerName,
		LicenseNumber:   sub.LicenseNumber,
		LicenseExpiry:   expiry,
		OfficePhone:     sub.OfficePhone,
		OfficeEmail:     sub.OfficeEmail,
		OfficeAddress:   sub.OfficeAddress,
		RegistrationDoc: sub.RegistrationDocURL,
		LicenseDoc:      sub.LicenseDocURL,
		SupportingDocs:  joinDocs(sub.SupportingDocURLs),
		Notes:           sub.Notes,
		Status:          models.RequestPending,
		SubmittedAt:     s.now(),
	}
	if err := s.requests.Create(req); err != nil {
		// The pending guard above is check-then-act; the database index is
		// what actually decides a race between two submissions.
		if errors.Is(err, repositories.ErrDuplicatePending) {
			return nil, apperr.ErrSubmissionPending
		}
		return nil, fmt.Errorf("create verification request: %w", err)
	}

	// Only the badge status changes on submission; is_verified and the
	// license fields stay whatever the last decision left them.
	if err := s.agencies.UpdateTrustRecord(agency.ID, map[string]interface{}{
		"verification_status": models.AgencyPending,
	}); err != nil {
		return nil, fmt.Errorf("mark agency pending: %w", err)
	}
	_ = s.cache.InvalidateAgencyStatus(ctx, agency.ID)

	log.Printf("verification request %s submitted for agency %d (%s)", req.Reference, agency.ID, mode)
	return req, nil
}

// Approve decides a pending request in the agency's favor. The request write
// and the trust record projection commit in one transaction; the conditional
// status check makes a second concurrent approval come back as
// ErrAlreadyDecided instead of silently double-applying.
func (s *Service) Approve(ctx context.Context, requestID, reviewerID uint, adminNotes string) (*models.VerificationRequest, error) {
	req, err := s.requests.GetByID(requestID)
	if err != nil {
		if errors.Is(err, repositories.ErrRequestNotFound) {
			return nil, apperr.ErrRequestNotFound
		}
		return nil, fmt.Errorf("load request %d: %w", requestID, err)
	}
	if req.Status != models.RequestPending {
		return nil, apperr.ErrAlreadyDecided
	}

	now := s.now()
	status := license.Classify(req.LicenseExpiry, now)

	requestPatch := map[string]interface{}{
		"status":      models.RequestApproved,
		"reviewed_at": now,
		"reviewed_by": reviewerID,
		"admin_notes": adminNotes,
	}
	agencyPatch := map[string]interface{}{
		"is_verified":         true,
		"verification_status": models.AgencyApproved,
		"license_number":      req.LicenseNumber,
		"license_expiry":      req.LicenseExpiry,
		"license_status":      string(status),
		"verified_at":         now,
	}

	affected, err := s.requests.Decide(req.ID, requestPatch, req.AgencyID, agencyPatch)
	if err != nil {
		return nil, fmt.Errorf("approve request %d: %w", req.ID, err)
	}
	if affected == 0 {
		return nil, apperr.ErrAlreadyDecided
	}
	_ = s.cache.InvalidateAgencyStatus(ctx, req.AgencyID)

	req.Status = models.RequestApproved
	req.ReviewedAt = &now
	req.ReviewedBy = &reviewerID
	req.AdminNotes = adminNotes

	log.Printf("request %s approved by admin %d, agency %d license %s", req.Reference, reviewerID, req.AgencyID, status)
	return req, nil
}

// Reject decides a pending request against the agency. A rejection reason is
// mandatory. Under the default policy only the badge status changes: a
// previously verified agency keeps its verified flag and prior license data.
func (s *Service) Reject(ctx context.Context, requestID, reviewerID uint, reason, adminNotes string) (*models.VerificationRequest, error) {
	if reason == "" {
		return nil, apperr.ErrReasonRequired
	}

	req, err := s.requests.GetByID(requestID)
	if err != nil {
		if errors.Is(err, repositories.ErrRequestNotFound) {
			return nil, apperr.ErrRequestNotFound
		}
		return nil, fmt.Errorf("load request %d: %w", requestID, err)
	}
	if req.Status != models.RequestPending {
		return nil, apperr.ErrAlreadyDecided
	}

	now := s.now()
	requestPatch := map[string]interface{}{
		"status":           models.RequestRejected,
		"reviewed_at":      now,
		"reviewed_by":      reviewerID,
		"rejection_reason": reason,
		"admin_notes":      adminNotes,
	}
	agencyPatch := map[string]interface{}{
		"verification_status": models.AgencyRejected,
	}
	if s.policy.RevokeOnRejectedRenewal {
		agencyPatch["is_verified"] = false
		agencyPatch["verified_at"] = nil
	}

	affected, err := s.requests.Decide(req.ID, requestPatch, req.AgencyID, agencyPatch)
	if err != nil {
		return nil, fmt.Errorf("reject request %d: %w", req.ID, err)
	}
	if affected == 0 {
		return nil, apperr.ErrAlreadyDecided
	}
	_ = s.cache.InvalidateAgencyStatus(ctx, req.AgencyID)

	req.Status = models.RequestRejected
	req.ReviewedAt = &now
	req.ReviewedBy = &reviewerID
	req.RejectionReason = reason
	req.AdminNotes = adminNotes

	log.Printf("request %s rejected by admin %d: %s", req.Reference, reviewerID, reason)
	return req, nil
}

// GetCurrentStatus returns the display projection for an agency. It never
// mutates anything.
func (s *Service) GetCurrentStatus(ctx context.Context, agencyID uint) (*StatusView, error) {
	var cached StatusView
	if found, err := s.cache.GetAgencyStatus(ctx, agencyID, &cached); err == nil && found {
		return &cached, nil
	}

	agency, err := s.agencies.GetByID(agencyID)
	if err != nil {
		if errors.Is(err, repositories.ErrAgencyNotFound) {
			return nil, apperr.ErrAgencyNotFound
		}
		return nil, fmt.Errorf("load agency %d: %w", agencyID, err)
	}

	view := &StatusView{
		AgencyID:           agency.ID,
		AgencyName:         agency.Name,
		IsVerified:         agency.IsVerified,
		VerificationStatus: agency.VerificationStatus,
		LicenseNumber:      agency.LicenseNumber,
		LicenseExpiry:      agency.LicenseExpiry,
		LicenseStatus:      license.Status(agency.LicenseStatus),
		VerifiedAt:         agency.VerifiedAt,
	}
	if agency.LicenseExpiry != nil {
		days := license.DaysLeft(*agency.LicenseExpiry, s.now())
		view.LicenseDaysLeft = &days
	}

	if latest, err := s.requests.LatestByAgency(agencyID); err == nil {
		view.LatestRequest = &RequestView{
			ID:              latest.ID,
			Reference:       latest.Reference,
			Mode:            latest.Mode,
			Status:          latest.Status,
			SubmittedAt:     latest.SubmittedAt,
			ReviewedAt:      latest.ReviewedAt,
			RejectionReason: latest.RejectionReason,
		}
	} else if !errors.Is(err, repositories.ErrRequestNotFound) {
		return nil, fmt.Errorf("load latest request: %w", err)
	}

	_ = s.cache.CacheAgencyStatus(ctx, agencyID, view)
	return view, nil
}

// History lists the agency's submissions, newest first.
func (s *Service) History(ctx context.Context, agencyID uint, offset, limit int) ([]models.VerificationRequest, int64, error) {
	return s.requests.ListByAgency(agencyID, offset, limit)
}

// PendingQueue lists undecided requests in submission order for the review screen.
func (s *Service) PendingQueue(ctx context.Context, offset, limit int) ([]models.VerificationRequest, int64, error) {
	return s.requests.ListPending(offset, limit)
}

// GetRequest loads a single request for the review detail screen.
func (s *Service) GetRequest(ctx context.Context, requestID uint) (*models.VerificationRequest, error) {
	req, err := s.requests.GetByID(requestID)
	if err != nil {
		if errors.Is(err, repositories.ErrRequestNotFound) {
			return nil, apperr.ErrRequestNotFound
		}
		return nil, err
	}
	return req, nil
}

// prefillFromLast copies credential fields the renewal form left blank from
// the agency's previous submission. The refreshed license document and expiry
// are required by validation, so they are never prefilled away.
func prefillFromLast(sub *models.VerificationSubmission, last *models.VerificationRequest) {
	if sub.CompanyName == "" {
		sub.CompanyName = last.CompanyName
	}
	if sub.SSMNumber == "" {
		sub.SSMNumber = last.SSMNumber
	}
	if sub.SSMRegisteredOn == "" && last.SSMRegisteredOn != nil {
		sub.SSMRegisteredOn = last.SSMRegisteredOn.Format("2006-01-02")
	}
	if sub.OwnerName == "" {
		sub.OwnerName = last.OwnerName
	}
	if sub.LicenseNumber == "" {
		sub.LicenseNumber = last.LicenseNumber
	}
	if sub.OfficePhone == "" {
		sub.OfficePhone = last.OfficePhone
	}
	if sub.OfficeEmail == "" {
		sub.OfficeEmail = last.OfficeEmail
	}
	if sub.OfficeAddress == "" {
		sub.OfficeAddress = last.OfficeAddress
	}
	if sub.RegistrationDocURL == "" {
		sub.RegistrationDocURL = last.RegistrationDoc
	}
}

func joinDocs(urls []string) string {
	return strings.Join(urls, "\n")
}
