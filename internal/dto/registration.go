package dto

// RegistrationRequest carries the answers of the public registration form
type RegistrationRequest struct {
	FirstName           string                 `json:"first_name"`
	LastName            string                 `json:"last_name"`
	Email               string                 `json:"email"`
	Phone               string                 `json:"phone"`
	GuestCategory       string                 `json:"guest_category"`
	CompanyOrIndividual string                 `json:"company_or_individual"`
	DietaryRestrictions string                 `json:"dietary_restrictions"`
	AgreeTerms          bool                   `json:"agree_terms"`
	CustomFields        map[string]interface{} `json:"custom_fields"`
}

// ValidateStepRequest asks whether one step of the form may be left
type ValidateStepRequest struct {
	Step int `json:"step" binding:"required,oneof=1 2"`
	RegistrationRequest
}

// MissingField names an unanswered required question
type MissingField struct {
	Field string `json:"field"`
	Label string `json:"label"`
}

// StepValidationResponse reports whether a step is complete
type StepValidationResponse struct {
	Valid    bool              `json:"valid"`
	Step     int               `json:"step"`
	NextStep string            `json:"next_step"`
	Missing  []MissingField    `json:"missing"`
	Invalid  map[string]string `json:"invalid,omitempty"`
}

// RegistrationResponse is returned once a guest is stored
type RegistrationResponse struct {
	GuestID   string `json:"guest_id"`
	Status    string `json:"status"`
	QRPayload string `json:"qr_payload"`
	QRCodeURL string `json:"qr_code_url"`
}
