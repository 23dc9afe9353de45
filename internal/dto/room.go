package dto

// CreateRoomRequest represents a new room
type CreateRoomRequest struct {
	Name    string `json:"name" binding:"required,max=255"`
	Current int    `json:"current" binding:"min=0"`
	Max     int    `json:"max" binding:"required,gt=0"`
}

// UpdateRoomRequest represents a room edit
type UpdateRoomRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=1,max=255"`
	Current *int    `json:"current" binding:"omitempty,min=0"`
	Max     *int    `json:"max" binding:"omitempty,gt=0"`
}

// Validate validates that at least one field is provided for update
func (r *UpdateRoomRequest) Validate() (bool, string) {
	if r.Name == nil && r.Current == nil && r.Max == nil {
		return false, "At least one field must be provided for update"
	}
	return true, ""
}
