package validation

import (
	"testing"
	"time"

	"tavara/internal/models"

	"github.com/stretchr/testify/assert"
)

func fullSubmission() *models.VerificationSubmission {
	return &models.VerificationSubmission{
		CompanyName:        "Borneo Trails Sdn Bhd",
		SSMNumber:          "202001012345",
		SSMRegisteredOn:    "2020-06-15",
		OwnerName:          "Aisyah Rahman",
		LicenseNumber:      "KPL-4417",
		LicenseExpiry:      "2026-01-31",
		OfficePhone:        "+60388881234",
		OfficeEmail:        "hello@borneotrails.example",
		OfficeAddress:      "12 Jalan Tun Razak, Kuala Lumpur",
		RegistrationDocURL: "https://docs.example/ssm.pdf",
		LicenseDocURL:      "https://docs.example/license.pdf",
	}
}

func TestSubmission_InitialRequiresFullCredentialSet(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.VerificationSubmission)
		wantErr string
	}{
		{"complete", func(s *models.VerificationSubmission) {}, ""},
		{"missing company", func(s *models.VerificationSubmission) { s.CompanyName = "" }, "company_name"},
		{"missing ssm", func(s *models.VerificationSubmission) { s.SSMNumber = "" }, "ssm_number"},
		{"bad ssm format", func(s *models.VerificationSubmission) { s.SSMNumber = "abc" }, "ssm_number"},
		{"missing license number", func(s *models.VerificationSubmission) { s.LicenseNumber = "" }, "license_number"},
		{"missing expiry", func(s *models.VerificationSubmission) { s.LicenseExpiry = "" }, "license_expiry"},
		{"missing registration doc", func(s *models.VerificationSubmission) { s.RegistrationDocURL = "" }, "registration_doc_url"},
		{"missing license doc", func(s *models.VerificationSubmission) { s.LicenseDocURL = "" }, "license_doc_url"},
		{"bad email", func(s *models.VerificationSubmission) { s.OfficeEmail = "not-an-email" }, "office_email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := fullSubmission()
			tt.mutate(sub)

			v := New()
			v.Submission(models.SubmissionInitial, sub)

			if tt.wantErr == "" {
				assert.True(t, v.Valid(), "errors: %v", v.Errors)
			} else {
				assert.Contains(t, v.Errors, tt.wantErr)
			}
		})
	}
}

func TestSubmission_RenewalOnlyNeedsLicenseRefresh(t *testing.T) {
	sub := &models.VerificationSubmission{
		LicenseExpiry: "31/01/2027",
		LicenseDocURL: "https://docs.example/license-renewed.pdf",
	}

	v := New()
	v.Submission(models.SubmissionRenewal, sub)
	assert.True(t, v.Valid(), "errors: %v", v.Errors)

	v = New()
	v.Submission(models.SubmissionRenewal, &models.VerificationSubmission{})
	assert.Contains(t, v.Errors, "license_expiry")
	assert.Contains(t, v.Errors, "license_doc_url")
}

func TestSubmission_UnknownMode(t *testing.T) {
	v := New()
	v.Submission("re-review", fullSubmission())
	assert.Contains(t, v.Errors, "mode")
}

func TestParseDate_NormalizesBothConventions(t *testing.T) {
	want := time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)

	for _, raw := range []string{"2026-01-31", "31/01/2026"} {
		got, err := ParseDate(raw)
		assert.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := ParseDate("31-01-2026")
	assert.Error(t, err)
	_, err = ParseDate("")
	assert.Error(t, err)
}
