package validation

import (
	"tavara/internal/models"
)

// Submission validates a verification submission against the rules for its
// mode. An initial submission must carry the full credential set including
// both mandatory documents; a renewal only has to refresh the license
// document and expiry, everything else is pre-filled from the last request.
func (v *Validator) Submission(mode string, sub *models.VerificationSubmission) {
	switch mode {
	case models.SubmissionInitial:
		v.Required("company_name", sub.CompanyName)
		v.Required("ssm_number", sub.SSMNumber)
		v.Required("owner_name", sub.OwnerName)
		v.Required("license_number", sub.LicenseNumber)
		v.Required("license_expiry", sub.LicenseExpiry)
		v.Required("office_phone", sub.OfficePhone)
		v.Required("office_email", sub.OfficeEmail)
		v.Required("registration_doc_url", sub.RegistrationDocURL)
		v.Required("license_doc_url", sub.LicenseDocURL)
		if sub.SSMNumber != "" {
			v.Check(ssmRegex.MatchString(sub.SSMNumber), "ssm_number",
				"must be a valid SSM registration number")
		}
	case models.SubmissionRenewal:
		v.Required("license_expiry", sub.LicenseExpiry)
		v.Required("license_doc_url", sub.LicenseDocURL)
	default:
		v.AddError("mode", "must be initial or renewal")
	}

	if sub.OfficeEmail != "" {
		v.Email("office_email", sub.OfficeEmail)
	}
	if sub.OfficePhone != "" {
		v.Phone("office_phone", sub.OfficePhone)
	}
	v.MaxLength("notes", sub.Notes, 2000)
}

// UserRegistration validates a new platform account.
func (v *Validator) UserRegistration(input *models.CreateUserInput) {
	v.Required("name", input.Name)
	v.Required("email", input.Email)
	v.Required("phone", input.Phone)
	v.Email("email", input.Email)
	v.Phone("phone", input.Phone)
	v.MinLength("password", input.Password, 8)
	v.Check(HasSpecialChar(input.Password), "password", "must contain a special character")
	v.Check(input.Role == "" || input.Role == "traveler" || input.Role == "agency",
		"role", "must be traveler or agency")
}
