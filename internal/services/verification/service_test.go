package verification

import (
	"context"
	"sync"
	"testing"
	"time"

	apperr "tavara/internal/errors"
	"tavara/internal/models"
	"tavara/internal/services/license"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reviewTime = time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	db       *memDB
	requests *memRequests
	agencies *memAgencies
	svc      *Service
}

func newFixture(policy Policy) *fixture {
	db := newMemDB()
	requests := &memRequests{db: db}
	agencies := &memAgencies{db: db}
	svc := NewService(requests, agencies, nil, policy, func() time.Time { return reviewTime })
	return &fixture{db: db, requests: requests, agencies: agencies, svc: svc}
}

func (f *fixture) seedAgency(id uint) *models.Agency {
	return f.db.addAgency(models.Agency{
		ID:                 id,
		UserID:             id + 100,
		Name:               "Borneo Trails",
		VerificationStatus: models.AgencyUnverified,
	})
}

func submission(expiry string) *models.VerificationSubmission {
	return &models.VerificationSubmission{
		CompanyName:        "Borneo Trails Sdn Bhd",
		SSMNumber:          "202001012345",
		OwnerName:          "Aisyah Rahman",
		LicenseNumber:      "KPL-4417",
		LicenseExpiry:      expiry,
		OfficePhone:        "+60388881234",
		OfficeEmail:        "hello@borneotrails.example",
		OfficeAddress:      "12 Jalan Tun Razak",
		RegistrationDocURL: "https://docs.example/ssm.pdf",
		LicenseDocURL:      "https://docs.example/license.pdf",
	}
}

func (f *fixture) submitPending(t *testing.T, agencyID uint, expiry string) *models.VerificationRequest {
	t.Helper()
	req, err := f.svc.Submit(context.Background(), agencyID, submission(expiry), models.SubmissionInitial)
	require.NoError(t, err)
	return req
}

func TestSubmit_InitialCreatesPendingRequest(t *testing.T) {
	f := newFixture(Policy{})
	f.seedAgency(1)

	req := f.submitPending(t, 1, "2026-12-31")

	assert.Equal(t, models.RequestPending, req.Status)
	assert.Equal(t, models.SubmissionInitial, req.Mode)
	assert.NotEmpty(t, req.Reference)
	assert.Equal(t, reviewTime, req.SubmittedAt)

	agency, _ := f.agencies.GetByID(1)
	assert.Equal(t, models.AgencyPending, agency.VerificationStatus)
	assert.False(t, agency.IsVerified)
	assert.Empty(t, agency.LicenseNumber, "license fields stay empty until approval")
}

func TestSubmit_ValidationFailuresWriteNothing(t *testing.T) {
	f := newFixture(Policy{})
	f.seedAgency(1)

	sub := submission("2026-12-31")
	sub.LicenseDocURL = ""
	_, err := f.svc.Submit(context.Background(), 1, sub, models.SubmissionInitial)
	require.Error(t, err)

	reqs, total, err := f.requests.ListByAgency(1, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, reqs)
	assert.Zero(t, total)

	agency, _ := f.agencies.GetByID(1)
	assert.Equal(t, models.AgencyUnverified, agency.VerificationStatus)
}

func TestSubmit_UnparsableDateRejected(t *testing.T) {
	f := newFixture(Policy{})
	f.seedAgency(1)

	_, err := f.svc.Submit(context.Background(), 1, submission("31-12-2026"), models.SubmissionInitial)
	require.Error(t, err)

	var derr *apperr.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "VALIDATION_FAILED", derr.Code)
}

func TestSubmit_SecondWhilePendingRefused(t *testing.T) {
	f := newFixture(Policy{})
	f.seedAgency(1)
	f.submitPending(t, 1, "2026-12-31")

	_, err := f.svc.Submit(context.Background(), 1, submission("2026-12-31"), models.SubmissionInitial)
	assert.ErrorIs(t, err, apperr.ErrSubmissionPending)
}

func TestApprove_ProjectsTrustRecord(t *testing.T) {
	f := newFixture(Policy{})
	f.seedAgency(1)
	req := f.submitPending(t, 1, "2026-12-31")

	decided, err := f.svc.Approve(context.Background(), req.ID, 9, "docs verified")
	require.NoError(t, err)
	assert.Equal(t, models.RequestApproved, decided.Status)
	require.NotNil(t, decided.ReviewedAt)
	assert.Equal(t, reviewTime, *decided.ReviewedAt)

	agency, _ := f.agencies.GetByID(1)
	assert.True(t, agency.IsVerified)
	assert.Equal(t, models.AgencyApproved, agency.VerificationStatus)
	assert.Equal(t, "KPL-4417", agency.LicenseNumber)
	require.NotNil(t, agency.LicenseExpiry)
	require.NotNil(t, agency.VerifiedAt)
	assert.Equal(t, reviewTime, *agency.VerifiedAt)

	// The stored status must equal what the calculator derives from the
	// request's expiry at approval time.
	want := license.Classify(*agency.LicenseExpiry, reviewTime)
	assert.Equal(t, string(want), agency.LicenseStatus)
	assert.Equal(t, license.StatusActive, want)
}

func TestApprove_TwentyDayLicenseStampsCritical(t *testing.T) {
	// Scenario: submitted license expires 20 days out; approval stamps the
	// critical status on the trust record.
	f := newFixture(Policy{})
	f.seedAgency(1)
	expiry := reviewTime.AddDate(0, 0, 20).Format("2006-01-02")
	req := f.submitPending(t, 1, expiry)

	_, err := f.svc.Approve(context.Background(), req.ID, 9, "")
	require.NoError(t, err)

	agency, _ := f.agencies.GetByID(1)
	assert.Equal(t, string(license.StatusExpiringCritical), agency.LicenseStatus)
}

func TestApprove_SecondDecisionConflicts(t *testing.T) {
	f := newFixture(Policy{})
	f.seedAgency(1)
	req := f.submitPending(t, 1, "2026-12-31")

	_, err := f.svc.Approve(context.Background(), req.ID, 9, "")
	require.NoError(t, err)

	_, err = f.svc.Approve(context.Background(), req.ID, 9, "")
	assert.ErrorIs(t, err, apperr.ErrAlreadyDecided)
	_, err = f.svc.Reject(context.Background(), req.ID, 9, "late", "")
	assert.ErrorIs(t, err, apperr.ErrAlreadyDecided)
}

func TestSubmit_ConcurrentSubmissionsCreateOnePendingRow(t *testing.T) {
	f := newFixture(Policy{})
	f.seedAgency(1)

	const attempts = 8
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Submit(context.Background(), 1,
				submission("2026-12-31"), models.SubmissionInitial)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, apperr.ErrSubmissionPending)
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one submission must commit")

	history, total, err := f.requests.ListByAgency(1, 0, attempts)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, history, 1)
	assert.Equal(t, models.RequestPending, history[0].Status)
}

func TestApprove_ConcurrentDecisionsCommitOnce(t *testing.T) {
	f := newFixture(Policy{})
	f.seedAgency(1)
	req := f.submitPending(t, 1, "2026-12-31")

	const attempts = 8
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Approve(context.Background(), req.ID, uint(i+1), "")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, apperr.ErrAlreadyDecided)
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one approval must commit")

	stored, _ := f.requests.GetByID(req.ID)
	assert.Equal(t, models.RequestApproved, stored.Status)
}

func TestReject_FirstTimeSubmission(t *testing.T) {
	f := newFixture(Policy{})
	f.seedAgency(1)
	req := f.submitPending(t, 1, "2026-12-31")

	decided, err := f.svc.Reject(context.Background(), req.ID, 9, "Expired license photo", "resubmit with a current copy")
	require.NoError(t, err)
	assert.Equal(t, models.RequestRejected, decided.Status)
	assert.Equal(t, "Expired license photo", decided.RejectionReason)

	agency, _ := f.agencies.GetByID(1)
	assert.Equal(t, models.AgencyRejected, agency.VerificationStatus)
	assert.False(t, agency.IsVerified)
	assert.Empty(t, agency.LicenseNumber)
	assert.Empty(t, agency.LicenseStatus)
}

func TestReject_RequiresReason(t *testing.T) {
	f := newFixture(Policy{})
	f.seedAgency(1)
	req := f.submitPending(t, 1, "2026-12-31")

	_, err := f.svc.Reject(context.Background(), req.ID, 9, "", "")
	assert.ErrorIs(t, err, apperr.ErrReasonRequired)

	stored, _ := f.requests.GetByID(req.ID)
	assert.Equal(t, models.RequestPending, stored.Status, "no write on validation failure")
}

func TestRenewal_CreatesNewRowAndKeepsHistory(t *testing.T) {
	f := newFixture(Policy{})
	f.seedAgency(1)
	first := f.submitPending(t, 1, "2025-07-15")
	_, err := f.svc.Approve(context.Background(), first.ID, 9, "")
	require.NoError(t, err)

	renewal := &models.VerificationSubmission{
		LicenseExpiry: "15/07/2027",
		LicenseDocURL: "https://docs.example/license-2027.pdf",
	}
	req, err := f.svc.Submit(context.Background(), 1, renewal, models.SubmissionRenewal)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, req.ID, "renewal is a new row")
	assert.Equal(t, models.RequestPending, req.Status)
	assert.Equal(t, models.SubmissionRenewal, req.Mode)

	// Pre-filled from the previous submission.
	assert.Equal(t, "Borneo Trails Sdn Bhd", req.CompanyName)
	assert.Equal(t, "202001012345", req.SSMNumber)
	assert.Equal(t, "https://docs.example/ssm.pdf", req.RegistrationDoc)
	assert.Equal(t, "https://docs.example/license-2027.pdf", req.LicenseDoc)

	// The approved row is untouched history.
	original, _ := f.requests.GetByID(first.ID)
	assert.Equal(t, models.RequestApproved, original.Status)

	// Verified badge survives while the renewal is pending.
	agency, _ := f.agencies.GetByID(1)
	assert.True(t, agency.IsVerified)
	assert.Equal(t, models.AgencyPending, agency.VerificationStatus)
}

func TestReject_RenewalKeepsPriorVerification(t *testing.T) {
	f := newFixture(Policy{})
	f.seedAgency(1)
	first := f.submitPending(t, 1, "2025-07-15")
	_, err := f.svc.Approve(context.Background(), first.ID, 9, "")
	require.NoError(t, err)

	agencyBefore, _ := f.agencies.GetByID(1)

	renewal := &models.VerificationSubmission{
		LicenseExpiry: "2027-07-15",
		LicenseDocURL: "https://docs.example/license-2027.pdf",
	}
	req, err := f.svc.Submit(context.Background(), 1, renewal, models.SubmissionRenewal)
	require.NoError(t, err)

	_, err = f.svc.Reject(context.Background(), req.ID, 9, "blurry scan", "")
	require.NoError(t, err)

	agency, _ := f.agencies.GetByID(1)
	assert.True(t, agency.IsVerified, "grace policy keeps the verified badge")
	assert.Equal(t, models.AgencyRejected, agency.VerificationStatus)
	assert.Equal(t, agencyBefore.LicenseNumber, agency.LicenseNumber)
	assert.Equal(t, agencyBefore.LicenseStatus, agency.LicenseStatus)
	assert.Equal(t, agencyBefore.LicenseExpiry, agency.LicenseExpiry)
}

func TestReject_RevocationPolicyClearsBadge(t *testing.T) {
	f := newFixture(Policy{RevokeOnRejectedRenewal: true})
	f.seedAgency(1)
	first := f.submitPending(t, 1, "2025-07-15")
	_, err := f.svc.Approve(context.Background(), first.ID, 9, "")
	require.NoError(t, err)

	renewal := &models.VerificationSubmission{
		LicenseExpiry: "2027-07-15",
		LicenseDocURL: "https://docs.example/license-2027.pdf",
	}
	req, err := f.svc.Submit(context.Background(), 1, renewal, models.SubmissionRenewal)
	require.NoError(t, err)

	_, err = f.svc.Reject(context.Background(), req.ID, 9, "license lapsed", "")
	require.NoError(t, err)

	agency, _ := f.agencies.GetByID(1)
	assert.False(t, agency.IsVerified)
	assert.Nil(t, agency.VerifiedAt)
}

func TestGetCurrentStatus_CombinesRecordAndLatestRequest(t *testing.T) {
	f := newFixture(Policy{})
	f.seedAgency(1)
	expiry := reviewTime.AddDate(0, 0, 45).Format("2006-01-02")
	req := f.submitPending(t, 1, expiry)
	_, err := f.svc.Approve(context.Background(), req.ID, 9, "")
	require.NoError(t, err)

	view, err := f.svc.GetCurrentStatus(context.Background(), 1)
	require.NoError(t, err)

	assert.True(t, view.IsVerified)
	assert.Equal(t, models.AgencyApproved, view.VerificationStatus)
	assert.Equal(t, license.StatusExpiringSoon, view.LicenseStatus)
	require.NotNil(t, view.LicenseDaysLeft)
	assert.Equal(t, 45, *view.LicenseDaysLeft)
	require.NotNil(t, view.LatestRequest)
	assert.Equal(t, req.Reference, view.LatestRequest.Reference)
}

func TestGetCurrentStatus_UnknownAgency(t *testing.T) {
	f := newFixture(Policy{})
	_, err := f.svc.GetCurrentStatus(context.Background(), 404)
	assert.ErrorIs(t, err, apperr.ErrAgencyNotFound)
}
