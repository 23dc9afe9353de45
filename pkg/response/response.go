package response

import (
	"net/http"
)

// Response is the envelope every endpoint answers with
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

type ErrorInfo struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

const (
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeTooManyRequests    = "TOO_MANY_REQUESTS"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"

	ErrCodeValidationFailed  = "VALIDATION_FAILED"
	ErrCodeAuthFailed        = "AUTH_FAILED"
	ErrCodeNoTenant          = "NO_TENANT"
	ErrCodeDuplicateGuest    = "DUPLICATE_GUEST"
	ErrCodeDuplicateEntry    = "DUPLICATE_ENTRY"
	ErrCodeInvalidTransition = "INVALID_TRANSITION"
	ErrCodePaymentFailed     = "PAYMENT_FAILED"
	ErrCodeUploadFailed      = "UPLOAD_FAILED"
)

var statusByCode = map[string]int{
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeInternalError:      http.StatusInternalServerError,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeValidationFailed:   http.StatusBadRequest,
	ErrCodeAuthFailed:         http.StatusUnauthorized,
	ErrCodeNoTenant:           http.StatusForbidden,
	ErrCodeDuplicateGuest:     http.StatusConflict,
	ErrCodeDuplicateEntry:     http.StatusConflict,
	ErrCodeInvalidTransition:  http.StatusConflict,
	ErrCodePaymentFailed:      http.StatusBadGateway,
	ErrCodeUploadFailed:       http.StatusBadGateway,
}

// HTTPStatus returns the status an error code is served with. Unknown codes are 500.
func HTTPStatus(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Status is 200 for a successful envelope, otherwise the status of its error code
func (r *Response) Status() int {
	if r.Error == nil {
		return http.StatusOK
	}
	return HTTPStatus(r.Error.Code)
}

func Success(data interface{}) *Response {
	return &Response{Success: true, Data: data}
}

func Error(code, message string) *Response {
	return &Response{Error: &ErrorInfo{Code: code, Message: message}}
}

// ErrorWithDetails attaches per-field messages, keyed by field name
func ErrorWithDetails(code, message string, details map[string]string) *Response {
	return &Response{Error: &ErrorInfo{Code: code, Message: message, Details: details}}
}

func withDefault(message, fallback string) string {
	if message == "" {
		return fallback
	}
	return message
}

func BadRequest(message string) *Response {
	return Error(ErrCodeBadRequest, withDefault(message, "Malformed request"))
}

func Unauthorized(message string) *Response {
	return Error(ErrCodeUnauthorized, withDefault(message, "Authentication required"))
}

func Forbidden(message string) *Response {
	return Error(ErrCodeForbidden, withDefault(message, "Access denied"))
}

func NotFound(message string) *Response {
	return Error(ErrCodeNotFound, withDefault(message, "Resource not found"))
}

func InternalError(message string) *Response {
	return Error(ErrCodeInternalError, withDefault(message, "An internal error occurred"))
}

func TooManyRequests(message string) *Response {
	return Error(ErrCodeTooManyRequests, withDefault(message, "Too many requests, please try again later"))
}

func ServiceUnavailable(message string) *Response {
	return Error(ErrCodeServiceUnavailable, withDefault(message, "Service temporarily unavailable"))
}
