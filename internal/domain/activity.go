package domain

import "time"

// ActivityType classifies an activity feed entry
type ActivityType string

const (
	ActivityRegistered    ActivityType = "registered"
	ActivityCheckedIn     ActivityType = "checked_in"
	ActivityCheckInUndone ActivityType = "check_in_undone"
	ActivityCampaignSent  ActivityType = "campaign_sent"
	ActivityTicketIssued  ActivityType = "ticket_issued"
)

// Activity is an append-only feed entry of a tenant
type Activity struct {
	ID        string       `json:"id"`
	TenantID  string       `json:"tenant_id"`
	Type      ActivityType `json:"type"`
	Message   string       `json:"message"`
	SubjectID string       `json:"subject_id,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}
