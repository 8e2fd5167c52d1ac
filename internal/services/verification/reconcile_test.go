package verification

import (
	"context"
	"testing"
	"time"

	apperr "tavara/internal/errors"
	"tavara/internal/models"
	"tavara/internal/services/license"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func approvedFixture(t *testing.T) (*fixture, *models.VerificationRequest) {
	t.Helper()
	f := newFixture(Policy{})
	f.seedAgency(1)
	req := f.submitPending(t, 1, reviewTime.AddDate(1, 0, 0).Format("2006-01-02"))
	_, err := f.svc.Approve(context.Background(), req.ID, 9, "")
	require.NoError(t, err)
	return f, req
}

func TestReconcile_CleanRecordIsNoop(t *testing.T) {
	f, _ := approvedFixture(t)

	require.NoError(t, f.svc.CheckConsistency(context.Background(), 1))

	repaired, err := f.svc.Reconcile(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, repaired)
}

func TestReconcile_HealsTamperedRecord(t *testing.T) {
	f, req := approvedFixture(t)

	// Simulate the dangerous failure: the request committed but the
	// projection write was lost or corrupted.
	err := f.agencies.UpdateTrustRecord(1, map[string]interface{}{
		"is_verified":    false,
		"license_status": string(license.StatusExpired),
		"license_number": "",
	})
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.CheckConsistency(context.Background(), 1), apperr.ErrInconsistentTrustRecord)

	repaired, err := f.svc.Reconcile(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, repaired)

	agency, _ := f.agencies.GetByID(1)
	assert.True(t, agency.IsVerified)
	assert.Equal(t, req.LicenseNumber, agency.LicenseNumber)
	assert.Equal(t, string(license.Classify(req.LicenseExpiry, reviewTime)), agency.LicenseStatus)
	require.NoError(t, f.svc.CheckConsistency(context.Background(), 1))

	// Re-running the repair is idempotent.
	repaired, err = f.svc.Reconcile(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, repaired)
}

func TestReconcile_NoHistoryIsNoop(t *testing.T) {
	f := newFixture(Policy{})
	f.seedAgency(1)

	repaired, err := f.svc.Reconcile(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, repaired)
}

func TestReclassify_CrossedThreshold(t *testing.T) {
	f := newFixture(Policy{})
	f.seedAgency(1)
	req := f.submitPending(t, 1, reviewTime.AddDate(1, 0, 0).Format("2006-01-02"))
	_, err := f.svc.Approve(context.Background(), req.ID, 9, "")
	require.NoError(t, err)

	agency, _ := f.agencies.GetByID(1)
	assert.Equal(t, string(license.StatusActive), agency.LicenseStatus)

	// Eleven months later the same license is inside the critical window.
	later := reviewTime.AddDate(0, 11, 10)
	f.svc.now = func() time.Time { return later }

	status, err := f.svc.Reclassify(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, license.StatusExpiringCritical, status)

	agency, _ = f.agencies.GetByID(1)
	assert.Equal(t, string(license.StatusExpiringCritical), agency.LicenseStatus)

	// A second run against the same clock changes nothing.
	status, err = f.svc.Reclassify(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, license.StatusExpiringCritical, status)
}

func TestReclassifyAll_SweepsVerifiedAgencyWithPendingRenewal(t *testing.T) {
	f := newFixture(Policy{})
	f.seedAgency(1)

	// Approved with roughly two months left on the license.
	req := f.submitPending(t, 1, reviewTime.AddDate(0, 0, 60).Format("2006-01-02"))
	_, err := f.svc.Approve(context.Background(), req.ID, 9, "")
	require.NoError(t, err)

	agency, _ := f.agencies.GetByID(1)
	assert.Equal(t, string(license.StatusExpiringSoon), agency.LicenseStatus)

	// A renewal goes into the queue: status drops back to pending while the
	// approved license keeps governing.
	_, err = f.svc.Submit(context.Background(), 1,
		submission(reviewTime.AddDate(1, 2, 0).Format("2006-01-02")), models.SubmissionRenewal)
	require.NoError(t, err)

	agency, _ = f.agencies.GetByID(1)
	assert.Equal(t, models.AgencyPending, agency.VerificationStatus)
	assert.True(t, agency.IsVerified)

	// The sweep must not skip it once the stored license crosses into the
	// critical window.
	f.svc.now = func() time.Time { return reviewTime.AddDate(0, 0, 49) }

	updated, err := f.svc.ReclassifyAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	agency, _ = f.agencies.GetByID(1)
	assert.Equal(t, string(license.StatusExpiringCritical), agency.LicenseStatus)

	// And it stays in the public directory while the renewal waits.
	listed, total, err := f.agencies.ListApproved(0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, listed, 1)
	assert.Equal(t, uint(1), listed[0].ID)
}

func TestReclassify_SkipsUnverifiedAgencies(t *testing.T) {
	f := newFixture(Policy{})
	f.seedAgency(1)

	status, err := f.svc.Reclassify(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, status)
}

func TestReclassifyAll_SweepsApprovedAgencies(t *testing.T) {
	f := newFixture(Policy{})
	f.seedAgency(1)
	f.seedAgency(2)

	for _, id := range []uint{1, 2} {
		req, err := f.svc.Submit(context.Background(), id,
			submission(reviewTime.AddDate(1, 0, 0).Format("2006-01-02")), models.SubmissionInitial)
		require.NoError(t, err)
		_, err = f.svc.Approve(context.Background(), req.ID, 9, "")
		require.NoError(t, err)
	}

	f.svc.now = func() time.Time { return reviewTime.AddDate(0, 11, 10) }

	updated, err := f.svc.ReclassifyAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, updated)

	updated, err = f.svc.ReclassifyAll(context.Background())
	require.NoError(t, err)
	assert.Zero(t, updated)
}
