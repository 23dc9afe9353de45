package service

import "errors"

// Errors shared by the services
var (
	ErrTenantNotFound   = errors.New("tenant not found")
	ErrGuestNotFound    = errors.New("guest not found")
	ErrFieldNotFound    = errors.New("field not found")
	ErrRoomNotFound     = errors.New("room not found")
	ErrEventNotFound    = errors.New("event not found")
	ErrCampaignNotFound = errors.New("campaign not found")
	ErrTicketNotFound   = errors.New("ticket not found")

	ErrDuplicateGuest      = errors.New("A guest with this email is already registered")
	ErrAdminEmailTaken     = errors.New("an admin with this email already exists")
	ErrCampaignNotEditable = errors.New("only draft and scheduled campaigns can be edited")
	ErrPaymentFailed       = errors.New("payment failed")
	ErrUploadFailed        = errors.New("upload failed")
)

// ValidationError is returned when a request breaks a business rule
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// Auth error codes reported to the sign-in form
const (
	AuthCodeInvalidCredential = "auth/invalid-credential"
	AuthCodeUserNotFound      = "auth/user-not-found"
	AuthCodeWrongPassword     = "auth/wrong-password"
	AuthCodeTooManyRequests   = "auth/too-many-requests"
)

var authMessages = map[string]string{
	AuthCodeInvalidCredential: "Invalid email or password",
	AuthCodeUserNotFound:      "User not found",
	AuthCodeWrongPassword:     "Incorrect password",
	AuthCodeTooManyRequests:   "Too many login attempts. Try again later.",
}

// DefaultAuthMessage is shown for codes outside the known set
const DefaultAuthMessage = "Login failed. Please try again."

// AuthMessage maps an auth error code to the message shown to the admin
func AuthMessage(code string) string {
	if msg, ok := authMessages[code]; ok {
		return msg
	}
	return DefaultAuthMessage
}

// AuthError is a failed sign-in
type AuthError struct {
	Code string
}

func (e *AuthError) Error() string {
	return AuthMessage(e.Code)
}
