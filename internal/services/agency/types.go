package agency

// Input types for agency profile operations
type CreateAgencyInput struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	City         string `json:"city"`
	State        string `json:"state"`
	Website      string `json:"website"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
}

type UpdateAgencyInput struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	City         string `json:"city"`
	State        string `json:"state"`
	Website      string `json:"website"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
	LogoURL      string `json:"logo_url"`
}
