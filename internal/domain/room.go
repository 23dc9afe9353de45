package domain

import (
	"math"
	"time"
)

// Room represents a zone with a manually maintained headcount
type Room struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Name      string    `json:"name"`
	Current   int       `json:"current"`
	Max       int       `json:"max"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OccupancyPercent returns current/max as a whole percentage
func (r *Room) OccupancyPercent() int {
	if r.Max <= 0 {
		return 0
	}
	return int(math.Round(float64(r.Current) / float64(r.Max) * 100))
}
