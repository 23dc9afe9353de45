package dto

import "github.com/AkiliNova/in-vent/internal/domain"

// GuestTotals counts guests per status
type GuestTotals struct {
	Total     int `json:"total"`
	CheckedIn int `json:"checked_in"`
	Pending   int `json:"pending"`
	Flagged   int `json:"flagged"`
	NoShow    int `json:"no_show"`
}

// RoomOccupancy is a room with its fill percentage
type RoomOccupancy struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Current int    `json:"current"`
	Max     int    `json:"max"`
	Percent int    `json:"percent"`
}

// DashboardResponse is the admin overview
type DashboardResponse struct {
	Guests           GuestTotals        `json:"guests"`
	Rooms            []RoomOccupancy    `json:"rooms"`
	RecentActivities []*domain.Activity `json:"recent_activities"`
}

// ListActivitiesQuery limits the activity feed
type ListActivitiesQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// SetDefaults sets default values for query parameters
func (q *ListActivitiesQuery) SetDefaults() {
	if q.Limit == 0 {
		q.Limit = 20
	}
}
