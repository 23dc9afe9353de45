package dto

import "github.com/AkiliNova/in-vent/internal/domain"

// UpdateSettingsRequest merges into the stored settings; nested sections are replaced whole
type UpdateSettingsRequest struct {
	DietaryOptions *[]string                 `json:"dietary_options"`
	EventName      *string                   `json:"event_name" binding:"omitempty,max=255"`
	EventDate      *string                   `json:"event_date" binding:"omitempty,max=50"`
	Venue          *string                   `json:"venue" binding:"omitempty,max=255"`
	Timezone       *string                   `json:"timezone" binding:"omitempty,max=100"`
	Capacity       *int                      `json:"capacity" binding:"omitempty,min=0"`
	Features       *domain.FeatureToggles    `json:"features"`
	Notifications  *domain.NotificationPrefs `json:"notifications"`
	Privacy        *domain.PrivacySettings   `json:"privacy"`
}

// Validate validates that at least one field is provided for update
func (r *UpdateSettingsRequest) Validate() (bool, string) {
	if r.DietaryOptions == nil && r.EventName == nil && r.EventDate == nil && r.Venue == nil &&
		r.Timezone == nil && r.Capacity == nil && r.Features == nil && r.Notifications == nil && r.Privacy == nil {
		return false, "At least one field must be provided for update"
	}
	if r.DietaryOptions != nil && len(*r.DietaryOptions) == 0 {
		return false, "At least one dietary option is required"
	}
	return true, ""
}
