package dto

import "time"

// LoginRequest represents admin login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// OnboardingRequest represents a new organizer signing up
type OnboardingRequest struct {
	OrganizationName string `json:"organization_name" binding:"required,min=2,max=255"`
	ContactPerson    string `json:"contact_person" binding:"required,max=255"`
	Email            string `json:"email" binding:"required,email"`
	Phone            string `json:"phone" binding:"required,max=50"`
	Password         string `json:"password" binding:"required,min=6"`
	Package          string `json:"package" binding:"required,oneof=basic pro enterprise"`
}

// SessionResponse represents the signed-in admin session
type SessionResponse struct {
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	TenantID  *string   `json:"tenant_id"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthResponse is returned by login and onboarding
type AuthResponse struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
	Session   *SessionResponse `json:"session"`
}
