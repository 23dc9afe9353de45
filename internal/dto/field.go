package dto

import (
	"github.com/AkiliNova/in-vent/internal/domain"
)

// CreateFieldRequest represents a new registration field definition
type CreateFieldRequest struct {
	Label       string   `json:"label" binding:"required,max=255"`
	Type        string   `json:"type" binding:"required"`
	Required    bool     `json:"required"`
	Step        int      `json:"step" binding:"required,oneof=1 2"`
	Order       int      `json:"order" binding:"omitempty,min=0"`
	Placeholder string   `json:"placeholder" binding:"omitempty,max=255"`
	Options     []string `json:"options"`
	Enabled     *bool    `json:"enabled"`
}

// UpdateFieldRequest represents a partial update of a field definition
type UpdateFieldRequest struct {
	Label       *string   `json:"label" binding:"omitempty,max=255"`
	Type        *string   `json:"type"`
	Required    *bool     `json:"required"`
	Step        *int      `json:"step" binding:"omitempty,oneof=1 2"`
	Order       *int      `json:"order" binding:"omitempty,min=0"`
	Placeholder *string   `json:"placeholder" binding:"omitempty,max=255"`
	Options     *[]string `json:"options"`
	Enabled     *bool     `json:"enabled"`
}

// Validate validates that at least one field is provided for update
func (r *UpdateFieldRequest) Validate() (bool, string) {
	if r.Label == nil && r.Type == nil && r.Required == nil && r.Step == nil &&
		r.Order == nil && r.Placeholder == nil && r.Options == nil && r.Enabled == nil {
		return false, "At least one field must be provided for update"
	}
	return true, ""
}

// TogglesOnly reports whether the request changes nothing but Enabled
func (r *UpdateFieldRequest) TogglesOnly() bool {
	return r.Enabled != nil && r.Label == nil && r.Type == nil && r.Required == nil &&
		r.Step == nil && r.Order == nil && r.Placeholder == nil && r.Options == nil
}

// SetFieldEnabledRequest toggles a field on or off
type SetFieldEnabledRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// FormStep groups the rendered fields of one step
type FormStep struct {
	Step        int                    `json:"step"`
	FixedFields []domain.FixedField    `json:"fixed_fields"`
	Fields      []domain.RenderedField `json:"fields"`
}

// RegistrationFormResponse is everything a client needs to draw the public form
type RegistrationFormResponse struct {
	TenantID        string     `json:"tenant_id"`
	Steps           []FormStep `json:"steps"`
	GuestCategories []string   `json:"guest_categories"`
	DietaryOptions  []string   `json:"dietary_options"`
}
