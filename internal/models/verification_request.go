package models

import (
	"time"
)

// Request status values. A request leaves "pending" exactly once; approved and
// rejected are terminal. A renewal creates a new row, it never reopens an old one.
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

// Submission modes.
const (
	SubmissionInitial = "initial"
	SubmissionRenewal = "renewal"
)

// VerificationRequest is one submission of an agency's regulatory credentials.
// Rows are append-only history: the admin decision fills the review fields and
// nothing else is ever mutated.
type VerificationRequest struct {
	ID        uint   `gorm:"primarykey"`
	Reference string `gorm:"uniqueIndex;not null"` // uuid, shown to the agency
	// The partial unique index backs the one-pending-request-per-agency rule
	// at the database, closing the race two concurrent submissions would
	// otherwise win together.
	AgencyID  uint   `gorm:"index;not null;uniqueIndex:uniq_pending_request_per_agency,where:status = 'pending'"`
	Mode      string `gorm:"not null;default:'initial'"`

	// Submitted credentials
	CompanyName      string `gorm:"not null"`
	SSMNumber        string `gorm:"column:ssm_number;not null"`
	SSMRegisteredOn  *time.Time
	OwnerName        string
	LicenseNumber    string `gorm:"not null"`
	LicenseExpiry    time.Time
	OfficePhone      string
	OfficeEmail      string
	OfficeAddress    string
	RegistrationDoc  string `gorm:"type:text"` // URL of the SSM registration certificate
	LicenseDoc       string `gorm:"type:text"` // URL of the operating license document
	SupportingDocs   string `gorm:"type:text"` // newline-separated extra URLs, opaque here
	Notes            string `gorm:"type:text"`

	// Review lifecycle
	Status          string `gorm:"type:varchar(20);default:'pending';index"`
	SubmittedAt     time.Time
	ReviewedAt      *time.Time
	ReviewedBy      *uint
	RejectionReason string `gorm:"type:text"`
	AdminNotes      string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (VerificationRequest) TableName() string {
	return "verification_requests"
}

// VerificationSubmission is the raw form payload for an initial or renewal
// submission. Dates arrive as text in either of the accepted conventions and
// are normalized by the validation layer before anything else touches them.
type VerificationSubmission struct {
	CompanyName        string   `json:"company_name"`
	SSMNumber          string   `json:"ssm_number"`
	SSMRegisteredOn    string   `json:"ssm_registered_on"`
	OwnerName          string   `json:"owner_name"`
	LicenseNumber      string   `json:"license_number"`
	LicenseExpiry      string   `json:"license_expiry"`
	OfficePhone        string   `json:"office_phone"`
	OfficeEmail        string   `json:"office_email"`
	OfficeAddress      string   `json:"office_address"`
	RegistrationDocURL string   `json:"registration_doc_url"`
	LicenseDocURL      string   `json:"license_doc_url"`
	SupportingDocURLs  []string `json:"supporting_doc_urls"`
	Notes              string   `json:"notes"`
}
