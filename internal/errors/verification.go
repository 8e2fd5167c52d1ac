package errors

var (
	ErrRequestNotFound = &DomainError{
		Code:    "REQUEST_NOT_FOUND",
		Message: "verification request not found",
	}
	ErrAgencyNotFound = &DomainError{
		Code:    "AGENCY_NOT_FOUND",
		Message: "agency not found",
	}
	ErrAlreadyDecided = &DomainError{
		Code:    "ALREADY_DECIDED",
		Message: "verification request has already been decided",
	}
	ErrReasonRequired = &DomainError{
		Code:    "REASON_REQUIRED",
		Message: "a rejection reason is required",
	}
	ErrSubmissionPending = &DomainError{
		Code:    "SUBMISSION_PENDING",
		Message: "a verification request is already awaiting review",
	}
	ErrInconsistentTrustRecord = &DomainError{
		Code:    "INCONSISTENT_TRUST_RECORD",
		Message: "agency trust record does not match its approved request",
	}
)
