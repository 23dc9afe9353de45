package domain

import "time"

// AppSettings is the per-tenant settings document
type AppSettings struct {
	TenantID       string            `json:"tenant_id"`
	DietaryOptions []string          `json:"dietary_options"`
	EventName      string            `json:"event_name"`
	EventDate      string            `json:"event_date"`
	Venue          string            `json:"venue"`
	Timezone       string            `json:"timezone"`
	Capacity       int               `json:"capacity"`
	Features       FeatureToggles    `json:"features"`
	Notifications  NotificationPrefs `json:"notifications"`
	Privacy        PrivacySettings   `json:"privacy"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// FeatureToggles switches optional admin features
type FeatureToggles struct {
	Geofencing     bool `json:"geofencing"`
	GeofenceRadius int  `json:"geofence_radius"`
	OfflineMode    bool `json:"offline_mode"`
	BadgePrinting  bool `json:"badge_printing"`
	SponsorFooter  bool `json:"sponsor_footer"`
}

// NotificationPrefs selects which alerts admins receive
type NotificationPrefs struct {
	Email              bool `json:"email"`
	SMS                bool `json:"sms"`
	CapacityAlerts     bool `json:"capacity_alerts"`
	VIPAlerts          bool `json:"vip_alerts"`
	FlaggedEntryAlerts bool `json:"flagged_entry_alerts"`
}

// PrivacySettings controls consent and retention
type PrivacySettings struct {
	RequireConsent     bool `json:"require_consent"`
	DataRetentionDays  int  `json:"data_retention_days"`
	AnonymizeAfterDays int  `json:"anonymize_after_days"`
}

// DefaultDietaryOptions returns the dietary choices offered before an admin edits them
func DefaultDietaryOptions() []string {
	return []string{DefaultDietary, "Vegetarian", "Vegan", "Gluten-Free", "Halal", "Kosher"}
}

// DefaultAppSettings returns the settings a new tenant starts with
func DefaultAppSettings(tenantID string) *AppSettings {
	return &AppSettings{
		TenantID:       tenantID,
		DietaryOptions: DefaultDietaryOptions(),
		Timezone:       "Africa/Nairobi",
		Capacity:       1500,
		Features: FeatureToggles{
			Geofencing:     true,
			GeofenceRadius: 200,
			OfflineMode:    true,
			BadgePrinting:  true,
			SponsorFooter:  true,
		},
		Notifications: NotificationPrefs{
			Email:              true,
			SMS:                true,
			CapacityAlerts:     true,
			VIPAlerts:          true,
			FlaggedEntryAlerts: true,
		},
		Privacy: PrivacySettings{
			RequireConsent:     true,
			DataRetentionDays:  90,
			AnonymizeAfterDays: 365,
		},
	}
}
